package router

import (
	"net/http"
	"strings"

	"github.com/DjordjeVuckovic/news-digest/internal/apperr"
	"github.com/DjordjeVuckovic/news-digest/internal/domain"
	"github.com/DjordjeVuckovic/news-digest/internal/dto"
	"github.com/DjordjeVuckovic/news-digest/internal/storage"
	"github.com/labstack/echo/v4"
)

type SettingsRouter struct {
	e        *echo.Echo
	settings storage.SettingsStore
}

func NewSettingsRouter(e *echo.Echo, settings storage.SettingsStore) *SettingsRouter {
	return &SettingsRouter{e: e, settings: settings}
}

func (r *SettingsRouter) Bind() {
	r.e.GET("/users/:user_id/settings", r.get)
	r.e.PUT("/users/:user_id/settings", r.put)
}

// get godoc
// @Summary Get a user's notification settings
// @Tags settings
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} domain.UserSettings
// @Failure 404 {object} dto.ErrorResponse
// @Router /users/{user_id}/settings [get]
func (r *SettingsRouter) get(c echo.Context) error {
	userID, err := pathUUID(c, "user_id")
	if err != nil {
		return err
	}
	s, err := r.settings.GetSettings(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

// put godoc
// @Summary Register a push token and notification preference
// @Tags settings
// @Accept json
// @Produce json
// @Param user_id path string true "User ID"
// @Param request body dto.UpdateSettingsRequest true "Settings"
// @Success 200 {object} domain.UserSettings
// @Failure 400 {object} dto.ErrorResponse
// @Router /users/{user_id}/settings [put]
func (r *SettingsRouter) put(c echo.Context) error {
	userID, err := pathUUID(c, "user_id")
	if err != nil {
		return err
	}

	var req dto.UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}
	token := strings.TrimSpace(req.PushToken)
	if req.PushNotifications && token == "" {
		return apperr.NewValidation("push_token is required when push_notifications is enabled")
	}

	ctx := c.Request().Context()
	if err := r.settings.UpsertSettings(ctx, domain.UserSettings{
		UserID:            userID,
		PushToken:         token,
		PushNotifications: req.PushNotifications,
	}); err != nil {
		return err
	}

	saved, err := r.settings.GetSettings(ctx, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, saved)
}

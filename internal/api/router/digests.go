package router

import (
	"context"
	"net/http"
	"time"

	"github.com/DjordjeVuckovic/news-digest/internal/apperr"
	"github.com/DjordjeVuckovic/news-digest/internal/digest"
	"github.com/DjordjeVuckovic/news-digest/internal/domain"
	"github.com/DjordjeVuckovic/news-digest/internal/dto"
	"github.com/DjordjeVuckovic/news-digest/internal/storage"
	"github.com/labstack/echo/v4"
)

type DigestRunner interface {
	Run(ctx context.Context, req digest.Request) (*digest.RunResult, error)
}

type DigestRouter struct {
	e       *echo.Echo
	runner  DigestRunner
	digests storage.DigestStore
}

func NewDigestRouter(e *echo.Echo, runner DigestRunner, digests storage.DigestStore) *DigestRouter {
	return &DigestRouter{e: e, runner: runner, digests: digests}
}

func (r *DigestRouter) Bind() {
	r.e.POST("/digests/run", r.run)
	r.e.GET("/digests/:user_id/:date", r.get)
}

// run godoc
// @Summary Generate digests for one user or every user with settings
// @Tags digests
// @Accept json
// @Produce json
// @Param request body digest.Request false "Optional user and YYYY-MM-DD date"
// @Success 200 {object} dto.RunDigestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /digests/run [post]
func (r *DigestRouter) run(c echo.Context) error {
	var req digest.Request
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return apperr.NewValidationWrap("invalid request body", err)
		}
	}

	res, err := r.runner.Run(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.RunDigestResponse{Success: true, Date: res.Date, Results: res.Results})
}

// get godoc
// @Summary Get a user's digest for a day
// @Tags digests
// @Produce json
// @Param user_id path string true "User ID"
// @Param date path string true "Day as YYYY-MM-DD"
// @Success 200 {object} domain.Digest
// @Failure 404 {object} dto.ErrorResponse
// @Router /digests/{user_id}/{date} [get]
func (r *DigestRouter) get(c echo.Context) error {
	userID, err := pathUUID(c, "user_id")
	if err != nil {
		return err
	}
	date := c.Param("date")
	if !validDate(date) {
		return apperr.NewValidation("date must be YYYY-MM-DD")
	}

	d, err := r.digests.GetDigest(c.Request().Context(), userID, date)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

func validDate(s string) bool {
	_, err := time.Parse(domain.DateLayout, s)
	return err == nil
}

package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/news-digest/internal/apperr"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type staticHealth bool

func (h staticHealth) Healthy(context.Context) bool { return bool(h) }

func TestSetupHealthChecks(t *testing.T) {
	tests := []struct {
		name    string
		healthy bool
		want    int
	}{
		{"healthy", true, http.StatusOK},
		{"unhealthy", false, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(&Config{Port: "0", CorsOrigins: []string{"*"}}, staticHealth(tt.healthy)).
				SetupHealthChecks("/health").
				SetupMiddlewares().
				SetupErrorHandler()

			rec := httptest.NewRecorder()
			s.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestSetupErrorHandler(t *testing.T) {
	s := New(&Config{Port: "0", CorsOrigins: []string{"*"}}, staticHealth(true)).SetupErrorHandler()
	s.Echo.GET("/missing", func(c echo.Context) error {
		return apperr.NewNotFound("article", "x")
	})

	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("PORT", "70000")
	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	cfg, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CorsOrigins)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "1M", cfg.BodyLimit)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)

	t.Setenv("PORT", "http")
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestBodyLimit(t *testing.T) {
	s := New(&Config{Port: "0", CorsOrigins: []string{"*"}, BodyLimit: "1K"}, staticHealth(true)).
		SetupMiddlewares().
		SetupErrorHandler()
	s.Echo.POST("/echo", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("x", 2048)))
	s.Echo.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("ok")))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

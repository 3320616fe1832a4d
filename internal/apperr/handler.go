package apperr

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
	Title string `json:"title,omitempty"`
}

func GlobalErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := Resolve(err)
		if status >= http.StatusInternalServerError {
			req := c.Request()
			slog.Error("Unhandled error", "error", err, "method", req.Method, "uri", req.RequestURI)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}

// Resolve maps err to the status code and body the API answers with.
// Errors outside the apperr types are hidden behind a generic 500.
func Resolve(err error) (int, ErrorResponse) {
	var (
		ve *ValidationError
		nf *NotFoundError
		ce *ConflictError
		he *echo.HTTPError
	)

	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ErrorResponse{Error: ve.Error(), Title: "validation error"}
	case errors.As(err, &nf):
		return http.StatusNotFound, ErrorResponse{Error: nf.Error()}
	case errors.As(err, &ce):
		return http.StatusConflict, ErrorResponse{Error: ce.Message}
	case errors.As(err, &he):
		return he.Code, ErrorResponse{Error: fmt.Sprintf("%v", he.Message)}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "internal server error"}
	}
}

package router

import (
	"context"
	"net/http"

	"github.com/DjordjeVuckovic/news-digest/internal/dto"
	"github.com/DjordjeVuckovic/news-digest/internal/queue"
	"github.com/labstack/echo/v4"
)

type CycleRunner interface {
	RunCycle(ctx context.Context) (*queue.CycleResult, error)
}

type QueueRouter struct {
	e          *echo.Echo
	dispatcher CycleRunner
}

func NewQueueRouter(e *echo.Echo, dispatcher CycleRunner) *QueueRouter {
	return &QueueRouter{e: e, dispatcher: dispatcher}
}

func (r *QueueRouter) Bind() {
	r.e.POST("/queue/dispatch", r.dispatch)
}

// dispatch godoc
// @Summary Run one dispatch cycle over pending jobs
// @Tags queue
// @Produce json
// @Success 200 {object} queue.CycleResult
// @Failure 500 {object} dto.ErrorResponse
// @Router /queue/dispatch [post]
func (r *QueueRouter) dispatch(c echo.Context) error {
	res, err := r.dispatcher.RunCycle(c.Request().Context())
	if err != nil {
		return err
	}
	if res.Idle {
		return c.JSON(http.StatusOK, dto.MessageResponse{Message: "No pending jobs"})
	}
	return c.JSON(http.StatusOK, res)
}

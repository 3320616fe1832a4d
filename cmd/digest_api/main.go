// Package main News Digest API
// @title News Digest API
// @version 1.0
// @description Saves article URLs, extracts and analyzes them asynchronously and builds daily digests
// @termsOfService http://swagger.io/terms/
// @contact.name API Support
// @contact.email support@newsdigest.dev
// @license.name Apache 2.0
// @license.url https://opensource.org/licenses/Apache-2.0
// @BasePath /
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	_ "github.com/DjordjeVuckovic/news-digest/docs"
	"github.com/DjordjeVuckovic/news-digest/internal/api/router"
	"github.com/DjordjeVuckovic/news-digest/internal/api/server"
	"github.com/DjordjeVuckovic/news-digest/internal/app"
	"github.com/DjordjeVuckovic/news-digest/internal/scheduler"
	"github.com/DjordjeVuckovic/news-digest/internal/storage/es"
	"github.com/DjordjeVuckovic/news-digest/pkg/logging"
	pkgserver "github.com/DjordjeVuckovic/news-digest/pkg/server"
	"github.com/labstack/echo/v4"
)

const shutdownTimeout = 30 * time.Second

func main() {
	appSettings := NewAppConfig()
	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogConfig)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pipeline, err := app.New(ctx, cfg.PipelineConfig)
	if err != nil {
		slog.Error("Failed to build pipeline", "error", err)
		os.Exit(1)
	}
	defer pipeline.Close()

	healthChecker := pkgserver.NewPingHealthChecker("storage", pipeline.Store.Ping)

	s := server.New(&cfg.ServerConfig, healthChecker).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health").
		SetupOpenApi("/swagger/*")

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(200, "News Digest API is running")
	})

	var articleOpts []router.ArticleRouterOption
	if cfg.PipelineConfig.Search.Enabled {
		reader, err := es.NewReader(cfg.PipelineConfig.Search)
		if err != nil {
			slog.Error("Failed to create search reader", "error", err)
			os.Exit(1)
		}
		articleOpts = append(articleOpts, router.WithSearcher(reader))
		slog.Info("Article search enabled")
	} else {
		slog.Info("Article search disabled")
	}

	router.NewArticleRouter(s.Echo, pipeline.Submitter, pipeline.Store, pipeline.Store, articleOpts...).Bind()
	router.NewQueueRouter(s.Echo, pipeline.Dispatcher).Bind()
	router.NewDigestRouter(s.Echo, pipeline.Aggregator, pipeline.Store).Bind()
	router.NewSettingsRouter(s.Echo, pipeline.Store).Bind()

	sched, err := newScheduler(cfg, pipeline)
	if err != nil {
		slog.Error("Failed to create scheduler", "error", err)
		os.Exit(1)
	}
	sched.Start()

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
	}()

	err = s.Start()

	stopCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if stopErr := sched.Stop(stopCtx); stopErr != nil {
		slog.Warn("Scheduler did not stop in time", "error", stopErr)
	}

	if err != nil {
		s.Echo.Logger.Error("Failed to start server: ", err)
		pipeline.Close()
		os.Exit(1)
	}
}

func newScheduler(cfg *DigestApiConfig, pipeline *app.App) (*scheduler.Scheduler, error) {
	var jobs []scheduler.Job
	if scheduler.Enabled(cfg.SchedulerConfig.DispatchSchedule) {
		jobs = append(jobs, scheduler.DispatchJob(cfg.SchedulerConfig.DispatchSchedule, pipeline.Dispatcher))
	}
	if scheduler.Enabled(cfg.SchedulerConfig.DigestSchedule) {
		jobs = append(jobs, scheduler.DigestJob(cfg.SchedulerConfig.DigestSchedule, pipeline.Aggregator))
	}
	slog.Info("Scheduler configured", "jobs", len(jobs))
	return scheduler.New(cfg.PipelineConfig.Digest.Location, jobs...)
}

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/fliptrack/fliptrack/internal/app"
	"github.com/fliptrack/fliptrack/internal/fx"
	"github.com/fliptrack/fliptrack/internal/metrics"
	metricshttp "github.com/fliptrack/fliptrack/internal/metrics/http"
	"github.com/fliptrack/fliptrack/internal/observability"
	"github.com/fliptrack/fliptrack/internal/platform/cache"
	"github.com/fliptrack/fliptrack/internal/platform/db"
	"github.com/fliptrack/fliptrack/internal/records"
	"github.com/fliptrack/fliptrack/internal/refresh"
	"github.com/fliptrack/fliptrack/internal/tier"
	"github.com/fliptrack/fliptrack/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	recordsRepo := records.NewRepository(dbpool)
	recordsService := records.NewService(recordsRepo)
	fxRepo := fx.NewRepository(dbpool)
	tierService := tier.NewService(dbpool, redisClient, cfg.TierCacheTTL)

	engine := metrics.NewEngine()
	reportCache := metrics.NewReportCache(redisClient, cfg.ReportCacheTTL)
	coordinator := refresh.NewCoordinator(cfg.RefreshDebounce)

	obs := observability.NewMetrics()

	reportsHandler := metricshttp.NewHandler(
		logger,
		recordsService,
		fxRepo,
		tierService,
		engine,
		coordinator,
		reportCache,
		obs,
	)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		ReportsHandler: reportsHandler,
		JobsHandler:    jobHandler,
		Metrics:        obs,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

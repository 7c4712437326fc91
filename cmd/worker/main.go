package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/fliptrack/fliptrack/internal/app"
	"github.com/fliptrack/fliptrack/internal/fx"
	"github.com/fliptrack/fliptrack/internal/metrics"
	"github.com/fliptrack/fliptrack/internal/platform/cache"
	"github.com/fliptrack/fliptrack/internal/platform/db"
	"github.com/fliptrack/fliptrack/internal/records"
	"github.com/fliptrack/fliptrack/internal/tier"
	"github.com/fliptrack/fliptrack/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

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

	recordsRepo := records.NewRepository(pool)
	recordsService := records.NewService(recordsRepo)
	fxRepo := fx.NewRepository(pool)
	tierService := tier.NewService(pool, redisClient, cfg.TierCacheTTL)
	engine := metrics.NewEngine()
	reportCache := metrics.NewReportCache(redisClient, cfg.ReportCacheTTL)

	warmupJob := jobs.NewReportWarmupJob(recordsService, fxRepo, tierService, engine, reportCache, logger, nil)

	warmupTask, err := jobs.NewReportWarmupTask(jobs.ReportWarmupPayload{Currency: cfg.DefaultCurrency})
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskReportWarmup, Handler: warmupJob.Handle},
			{Type: jobs.TaskCacheBump, Handler: warmupJob.HandleCacheBump},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.WarmupSchedule, Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}

package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"

	"github.com/fliptrack/fliptrack/internal/fx"
	jobmetrics "github.com/fliptrack/fliptrack/internal/jobs"
	"github.com/fliptrack/fliptrack/internal/metrics"
	"github.com/fliptrack/fliptrack/internal/records"
	"github.com/fliptrack/fliptrack/internal/tier"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// RecordsPort exposes the record store operations the warmup needs.
type RecordsPort interface {
	FetchSnapshot(ctx context.Context, userID uuid.UUID) (records.Snapshot, error)
	ListActiveUserIDs(ctx context.Context) ([]uuid.UUID, error)
}

// RatesPort supplies the latest FX rate table.
type RatesPort interface {
	LatestRates(ctx context.Context) (map[string]decimal.Decimal, error)
}

// TierPort resolves a user's subscription tier.
type TierPort interface {
	TierForUser(ctx context.Context, userID uuid.UUID) (tier.Tier, error)
}

// ReportWarmupJob pre-populates the all-time KPI report for active users so
// their first dashboard hit after a deploy or cache bump is warm.
type ReportWarmupJob struct {
	Records RecordsPort
	Rates   RatesPort
	Tiers   TierPort
	Engine  *metrics.Engine
	Cache   *metrics.ReportCache
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewReportWarmupJob wires dependencies for the warmup handler.
func NewReportWarmupJob(recordsSvc RecordsPort, rates RatesPort, tiers TierPort, engine *metrics.Engine, cache *metrics.ReportCache, logger *slog.Logger, jm *jobmetrics.Metrics) *ReportWarmupJob {
	return &ReportWarmupJob{
		Records: recordsSvc,
		Rates:   rates,
		Tiers:   tiers,
		Engine:  engine,
		Cache:   cache,
		Logger:  logger,
		Metrics: jm,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes report warmup tasks.
func (j *ReportWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("report warmup: handler not configured")
	}
	var payload ReportWarmupPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}
	if payload.Currency == "" {
		payload.Currency = fx.BaseCurrency
	}

	tracker := j.metrics().Track(TaskReportWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.String("currency", payload.Currency))
	logger.Info("starting report warmup")

	start := j.now()
	userIDs, err := j.Records.ListActiveUserIDs(ctx)
	if err != nil {
		resultErr = err
		logger.Error("list active users", slog.Any("error", err))
		return resultErr
	}
	if len(userIDs) == 0 {
		logger.Info("no active users discovered for warmup")
		return resultErr
	}

	rates, err := j.Rates.LatestRates(ctx)
	if err != nil {
		resultErr = err
		logger.Error("load fx rates", slog.Any("error", err))
		return resultErr
	}
	converter, err := fx.NewConverter(payload.Currency, rates)
	if err != nil {
		resultErr = err
		logger.Error("build converter", slog.Any("error", err))
		return resultErr
	}

	warmed := 0
	for _, userID := range userIDs {
		if err := j.warmUser(ctx, userID, converter, payload.Currency); err != nil {
			j.metrics().AddWarmedReports("error", 1)
			logger.Error("warm user", slog.String("user_id", userID.String()), slog.Any("error", err))
			resultErr = err
			continue
		}
		j.metrics().AddWarmedReports("ok", 1)
		warmed++
	}

	logger.Info("completed report warmup", slog.Int("users", warmed), slog.Duration("duration", time.Since(start)))
	return resultErr
}

func (j *ReportWarmupJob) warmUser(ctx context.Context, userID uuid.UUID, converter *fx.Converter, currency string) error {
	// Cap per-user work so one pathological account cannot stall the run.
	userCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	key, err := j.Cache.BuildKey(userCtx, userID, nil, currency)
	if err != nil {
		return err
	}
	_, err = j.Cache.Fetch(userCtx, key, func(ctx context.Context) (metrics.Report, error) {
		snapshot, err := j.Records.FetchSnapshot(ctx, userID)
		if err != nil {
			return metrics.Report{}, err
		}
		userTier, err := j.Tiers.TierForUser(ctx, userID)
		if err != nil {
			return metrics.Report{}, err
		}
		normalized := converter.NormalizeSnapshot(snapshot)
		return j.Engine.ComputeMetrics(metrics.Input{
			Items:    normalized.Items,
			Sales:    normalized.Sales,
			Expenses: normalized.Expenses,
			Tier:     userTier,
		})
	})
	return err
}

// HandleCacheBump processes cache invalidation tasks.
func (j *ReportWarmupJob) HandleCacheBump(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("report warmup: handler not configured")
	}
	tracker := j.metrics().Track(TaskCacheBump)
	return tracker.End(j.Cache.Bump(ctx))
}

func (j *ReportWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

func (j *ReportWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *ReportWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}

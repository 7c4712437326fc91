// Package http exposes the KPI report over the JSON API.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fliptrack/fliptrack/internal/fx"
	"github.com/fliptrack/fliptrack/internal/metrics"
	"github.com/fliptrack/fliptrack/internal/observability"
	"github.com/fliptrack/fliptrack/internal/platform/httpx"
	"github.com/fliptrack/fliptrack/internal/records"
	"github.com/fliptrack/fliptrack/internal/refresh"
	"github.com/fliptrack/fliptrack/internal/tier"
)

// userHeader carries the authenticated user set by the fronting API layer.
const userHeader = "X-User-ID"

// SnapshotPort supplies materialised record snapshots.
type SnapshotPort interface {
	FetchSnapshot(ctx context.Context, userID uuid.UUID) (records.Snapshot, error)
}

// RatesPort supplies the latest FX rate table.
type RatesPort interface {
	LatestRates(ctx context.Context) (map[string]decimal.Decimal, error)
}

// TierPort resolves the caller's subscription tier.
type TierPort interface {
	TierForUser(ctx context.Context, userID uuid.UUID) (tier.Tier, error)
}

// Handler wires the KPI report endpoint.
type Handler struct {
	logger      *slog.Logger
	snapshots   SnapshotPort
	rates       RatesPort
	tiers       TierPort
	engine      *metrics.Engine
	coordinator *refresh.Coordinator
	cache       *metrics.ReportCache
	obs         *observability.Metrics
	validator   *validator.Validate
}

// NewHandler constructs a Handler. obs may be nil.
func NewHandler(
	logger *slog.Logger,
	snapshots SnapshotPort,
	rates RatesPort,
	tiers TierPort,
	engine *metrics.Engine,
	coordinator *refresh.Coordinator,
	cache *metrics.ReportCache,
	obs *observability.Metrics,
) *Handler {
	return &Handler{
		logger:      logger,
		snapshots:   snapshots,
		rates:       rates,
		tiers:       tiers,
		engine:      engine,
		coordinator: coordinator,
		cache:       cache,
		obs:         obs,
		validator:   validator.New(),
	}
}

type reportQuery struct {
	From     string `validate:"omitempty,datetime=2006-01-02"`
	To       string `validate:"omitempty,datetime=2006-01-02"`
	Currency string
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.Header.Get(userHeader))
	if err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: missing or malformed %s header", httpx.ErrUnauthorized, userHeader))
		return
	}

	query := reportQuery{
		From:     r.URL.Query().Get("from"),
		To:       r.URL.Query().Get("to"),
		Currency: strings.ToUpper(r.URL.Query().Get("currency")),
	}
	if err := h.validator.Struct(query); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	if query.Currency != "" && !fx.ValidCode(query.Currency) {
		httpx.RespondError(w, fmt.Errorf("%w: unknown currency code %q", httpx.ErrValidation, query.Currency))
		return
	}
	if (query.From == "") != (query.To == "") {
		httpx.RespondError(w, fmt.Errorf("%w: from and to must be supplied together", httpx.ErrValidation))
		return
	}
	if query.Currency == "" {
		query.Currency = fx.BaseCurrency
	}

	var rng *metrics.DateRange
	if query.From != "" {
		start, _ := time.Parse("2006-01-02", query.From)
		end, _ := time.Parse("2006-01-02", query.To)
		window, err := metrics.NewDateRange(start, end)
		if err != nil {
			httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
			return
		}
		rng = &window
	}

	ctx := r.Context()
	key, err := h.cache.BuildKey(ctx, userID, rng, query.Currency)
	if err != nil {
		h.logger.Error("build report cache key", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	computed := false
	report, err := h.cache.Fetch(ctx, key, func(ctx context.Context) (metrics.Report, error) {
		computed = true
		return h.coordinator.Refresh(ctx, key, func(ctx context.Context) (metrics.Report, error) {
			return h.compute(ctx, userID, rng, query.Currency)
		})
	})
	if err != nil {
		h.obs.CountReport("error")
		var missing fx.ErrRateMissing
		if errors.As(err, &missing) {
			httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
			return
		}
		h.logger.Error("compute kpi report",
			slog.String("user_id", userID.String()),
			slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	if computed {
		h.obs.CountReport("ok")
		h.logger.Info("kpi report computed",
			slog.String("user_id", userID.String()),
			slog.String("revenue", fx.FormatAmount(report.Sales.TotalSalesRevenue, query.Currency)))
	} else {
		h.obs.CountReport("cached")
	}

	httpx.JSON(w, http.StatusOK, report)
}

// compute runs one full fetch-and-compute cycle: snapshot, currency
// normalisation, tier lookup, engine.
func (h *Handler) compute(ctx context.Context, userID uuid.UUID, rng *metrics.DateRange, currency string) (metrics.Report, error) {
	snap, err := h.snapshots.FetchSnapshot(ctx, userID)
	if err != nil {
		return metrics.Report{}, err
	}
	rates, err := h.rates.LatestRates(ctx)
	if err != nil {
		return metrics.Report{}, err
	}
	converter, err := fx.NewConverter(currency, rates)
	if err != nil {
		return metrics.Report{}, err
	}
	userTier, err := h.tiers.TierForUser(ctx, userID)
	if err != nil {
		return metrics.Report{}, err
	}

	normalized := converter.NormalizeSnapshot(snap)
	return h.engine.ComputeMetrics(metrics.Input{
		Items:    normalized.Items,
		Sales:    normalized.Sales,
		Expenses: normalized.Expenses,
		Range:    rng,
		Tier:     userTier,
	})
}

package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/fliptrack/fliptrack/internal/metrics"
	"github.com/fliptrack/fliptrack/internal/records"
	"github.com/fliptrack/fliptrack/internal/tier"
)

type stubRecords struct {
	users     []uuid.UUID
	snapshots map[uuid.UUID]records.Snapshot
	fetchErr  error
}

func (s *stubRecords) FetchSnapshot(ctx context.Context, userID uuid.UUID) (records.Snapshot, error) {
	if s.fetchErr != nil {
		return records.Snapshot{}, s.fetchErr
	}
	return s.snapshots[userID], nil
}

func (s *stubRecords) ListActiveUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	return s.users, nil
}

type stubRates struct{}

func (stubRates) LatestRates(ctx context.Context) (map[string]decimal.Decimal, error) {
	return map[string]decimal.Decimal{"USD": decimal.NewFromInt(1)}, nil
}

type stubTiers struct{}

func (stubTiers) TierForUser(ctx context.Context, userID uuid.UUID) (tier.Tier, error) {
	return tier.TierProfessional, nil
}

func newWarmupJob(t *testing.T, store *stubRecords) *ReportWarmupJob {
	t.Helper()
	job := NewReportWarmupJob(store, stubRates{}, stubTiers{}, metrics.NewEngine(), metrics.NewReportCache(nil, time.Minute), nil, nil)
	job.clock = func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }
	return job
}

func TestReportWarmupHandlesAllUsers(t *testing.T) {
	userA := uuid.New()
	userB := uuid.New()
	store := &stubRecords{
		users: []uuid.UUID{userA, userB},
		snapshots: map[uuid.UUID]records.Snapshot{
			userA: {Items: []records.Item{{ID: records.RecordID("1"), Name: "Jacket", PurchasePrice: 20, Status: records.ItemStatusListed, PurchaseDate: "2024-01-02"}}},
			userB: {},
		},
	}
	job := newWarmupJob(t, store)

	task, err := NewReportWarmupTask(ReportWarmupPayload{Currency: "USD"})
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))
}

func TestReportWarmupEmptyPayloadDefaultsCurrency(t *testing.T) {
	store := &stubRecords{users: []uuid.UUID{uuid.New()}, snapshots: map[uuid.UUID]records.Snapshot{}}
	job := newWarmupJob(t, store)

	require.NoError(t, job.Handle(context.Background(), asynq.NewTask(TaskReportWarmup, nil)))
}

func TestReportWarmupPropagatesFetchFailures(t *testing.T) {
	boom := errors.New("store down")
	store := &stubRecords{users: []uuid.UUID{uuid.New()}, fetchErr: boom}
	job := newWarmupJob(t, store)

	task, err := NewReportWarmupTask(ReportWarmupPayload{})
	require.NoError(t, err)

	require.ErrorIs(t, job.Handle(context.Background(), task), boom)
}

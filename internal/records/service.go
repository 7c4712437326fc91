package records

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// StorePort abstracts the repository for the snapshot service.
type StorePort interface {
	ListItems(ctx context.Context, userID uuid.UUID) ([]Item, error)
	ListSales(ctx context.Context, userID uuid.UUID) ([]Sale, error)
	ListExpenses(ctx context.Context, userID uuid.UUID) ([]Expense, error)
}

// Service materialises record snapshots for the metrics pipeline. The three
// collections are fetched concurrently; a failure in any of them fails the
// snapshot so the engine never sees a partial view.
type Service struct {
	store StorePort
}

// NewService constructs a Service.
func NewService(store StorePort) *Service {
	return &Service{store: store}
}

// ActiveUserLister is implemented by stores that can enumerate users who own
// at least one record.
type ActiveUserLister interface {
	ListActiveUserIDs(ctx context.Context) ([]uuid.UUID, error)
}

// ListActiveUserIDs enumerates users with records, for cache warmup.
func (s *Service) ListActiveUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("records: store not configured")
	}
	lister, ok := s.store.(ActiveUserLister)
	if !ok {
		return nil, fmt.Errorf("records: store cannot enumerate users")
	}
	return lister.ListActiveUserIDs(ctx)
}

// FetchSnapshot loads all three collections for the user.
func (s *Service) FetchSnapshot(ctx context.Context, userID uuid.UUID) (Snapshot, error) {
	if s == nil || s.store == nil {
		return Snapshot{}, fmt.Errorf("records: store not configured")
	}

	var snap Snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := s.store.ListItems(ctx, userID)
		if err != nil {
			return fmt.Errorf("records: items: %w", err)
		}
		snap.Items = items
		return nil
	})
	g.Go(func() error {
		sales, err := s.store.ListSales(ctx, userID)
		if err != nil {
			return fmt.Errorf("records: sales: %w", err)
		}
		snap.Sales = sales
		return nil
	})
	g.Go(func() error {
		expenses, err := s.store.ListExpenses(ctx, userID)
		if err != nil {
			return fmt.Errorf("records: expenses: %w", err)
		}
		snap.Expenses = expenses
		return nil
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

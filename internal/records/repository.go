package records

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads record collections from PostgreSQL. The metrics pipeline
// never writes through it; all mutation belongs to the CRUD API layer.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListItems returns every inventory item owned by the user.
func (r *Repository) ListItems(ctx context.Context, userID uuid.UUID) ([]Item, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("records repo not initialised")
	}
	const query = `
		SELECT id, name, purchase_price, market_price, shipping_price, status, currency, purchase_date
		FROM items
		WHERE user_id = $1
		ORDER BY purchase_date, id`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("records: list items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var (
			item        Item
			id          string
			market      pgtype.Float8
			shipping    pgtype.Float8
			purchasedAt pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &item.Name, &item.PurchasePrice, &market, &shipping, &item.Status, &item.Currency, &purchasedAt); err != nil {
			return nil, fmt.Errorf("records: scan item: %w", err)
		}
		item.ID = RecordID(id)
		item.MarketPrice = optionalFloat(market)
		item.ShippingPrice = optionalFloat(shipping)
		item.PurchaseDate = formatDate(purchasedAt)
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListSales returns every sale record owned by the user. The referenced
// item may have been deleted since; callers resolve that themselves.
func (r *Repository) ListSales(ctx context.Context, userID uuid.UUID) ([]Sale, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("records repo not initialised")
	}
	const query = `
		SELECT id, item_id, sale_price, sales_tax, platform_fees, status, currency, sale_date
		FROM sales
		WHERE user_id = $1
		ORDER BY sale_date, id`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("records: list sales: %w", err)
	}
	defer rows.Close()

	var sales []Sale
	for rows.Next() {
		var (
			sale   Sale
			id     string
			itemID string
			tax    pgtype.Float8
			fees   pgtype.Float8
			soldAt pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &itemID, &sale.SalePrice, &tax, &fees, &sale.Status, &sale.Currency, &soldAt); err != nil {
			return nil, fmt.Errorf("records: scan sale: %w", err)
		}
		sale.ID = RecordID(id)
		sale.ItemID = RecordID(itemID)
		sale.SalesTax = optionalFloat(tax)
		sale.PlatformFees = optionalFloat(fees)
		sale.SaleDate = formatDate(soldAt)
		sales = append(sales, sale)
	}
	return sales, rows.Err()
}

// ListExpenses returns every business expense owned by the user.
func (r *Repository) ListExpenses(ctx context.Context, userID uuid.UUID) ([]Expense, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("records repo not initialised")
	}
	const query = `
		SELECT id, expense_type, amount, currency, expense_date, COALESCE(recurrence, '')
		FROM expenses
		WHERE user_id = $1
		ORDER BY expense_date, id`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("records: list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []Expense
	for rows.Next() {
		var (
			expense Expense
			id      string
			spentAt pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &expense.ExpenseType, &expense.Amount, &expense.Currency, &spentAt, &expense.Recurrence); err != nil {
			return nil, fmt.Errorf("records: scan expense: %w", err)
		}
		expense.ID = RecordID(id)
		expense.ExpenseDate = formatDate(spentAt)
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

// ListActiveUserIDs returns users with at least one record, for cache
// warmup scheduling.
func (r *Repository) ListActiveUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("records repo not initialised")
	}
	const query = `
		SELECT user_id FROM items
		UNION
		SELECT user_id FROM sales
		UNION
		SELECT user_id FROM expenses`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("records: list active users: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("records: scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func optionalFloat(v pgtype.Float8) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func formatDate(v pgtype.Timestamptz) string {
	if !v.Valid {
		return ""
	}
	return v.Time.UTC().Format(time.RFC3339)
}

package metrics

import (
	"fmt"
	"time"

	"github.com/fliptrack/fliptrack/internal/records"
)

// Upstream stores emit ISO-8601 date strings with varying precision.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseRecordDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", raw)
}

// warnings accumulates data-quality notes during one computation. The notes
// surface on the report; they never abort it.
type warnings []string

func (w *warnings) addf(format string, args ...any) {
	*w = append(*w, fmt.Sprintf(format, args...))
}

// filterItems restricts items to those purchased inside the window. A nil
// window passes the collection through untouched, unparseable dates
// included; only filtering needs the date to parse.
func filterItems(items []records.Item, rng *DateRange, warn *warnings) []records.Item {
	if rng == nil {
		return items
	}
	out := make([]records.Item, 0, len(items))
	for _, item := range items {
		t, err := parseRecordDate(item.PurchaseDate)
		if err != nil {
			warn.addf("item %s: %v", item.ID.Canonical(), err)
			continue
		}
		if rng.Contains(t) {
			out = append(out, item)
		}
	}
	return out
}

func filterSales(sales []records.Sale, rng *DateRange, warn *warnings) []records.Sale {
	if rng == nil {
		return sales
	}
	out := make([]records.Sale, 0, len(sales))
	for _, sale := range sales {
		t, err := parseRecordDate(sale.SaleDate)
		if err != nil {
			warn.addf("sale %s: %v", sale.ID.Canonical(), err)
			continue
		}
		if rng.Contains(t) {
			out = append(out, sale)
		}
	}
	return out
}

func filterExpenses(expenses []records.Expense, rng *DateRange, warn *warnings) []records.Expense {
	if rng == nil {
		return expenses
	}
	out := make([]records.Expense, 0, len(expenses))
	for _, expense := range expenses {
		t, err := parseRecordDate(expense.ExpenseDate)
		if err != nil {
			warn.addf("expense %s: %v", expense.ID.Canonical(), err)
			continue
		}
		if rng.Contains(t) {
			out = append(out, expense)
		}
	}
	return out
}

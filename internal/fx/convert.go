// Package fx normalises record amounts to the caller's display currency.
// Rates are maintained by an external fetcher; this package only reads the
// table and applies conversions before the metrics engine runs.
package fx

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fliptrack/fliptrack/internal/records"
)

// BaseCurrency anchors the rate table: one unit of every stored rate is
// expressed as units per USD.
const BaseCurrency = "USD"

// ErrRateMissing indicates no stored rate covers the requested currency.
type ErrRateMissing struct {
	Currency string
}

func (e ErrRateMissing) Error() string {
	return fmt.Sprintf("fx: no rate for currency %s", e.Currency)
}

// Converter applies a fixed rate snapshot. Build one per request so a
// computation sees a consistent set of rates throughout.
type Converter struct {
	display string
	rates   map[string]decimal.Decimal
}

// NewConverter builds a converter targeting the display currency. Rates map
// currency code to units-per-USD; the base currency is implicit at 1.
func NewConverter(display string, rates map[string]decimal.Decimal) (*Converter, error) {
	display = strings.ToUpper(strings.TrimSpace(display))
	if display == "" {
		display = BaseCurrency
	}
	normalized := make(map[string]decimal.Decimal, len(rates)+1)
	normalized[BaseCurrency] = decimal.NewFromInt(1)
	for code, rate := range rates {
		if rate.IsZero() {
			continue
		}
		normalized[strings.ToUpper(code)] = rate
	}
	if _, ok := normalized[display]; !ok {
		return nil, ErrRateMissing{Currency: display}
	}
	return &Converter{display: display, rates: normalized}, nil
}

// Display returns the target currency code.
func (c *Converter) Display() string {
	return c.display
}

// Convert translates an amount from its source currency into the display
// currency, rounded to two decimal places. An empty or unknown source
// currency is assumed to already be in the display currency; flagging that
// is the record store's problem, not a reason to drop the record.
func (c *Converter) Convert(amount float64, from string) float64 {
	from = strings.ToUpper(strings.TrimSpace(from))
	if from == "" || from == c.display {
		return amount
	}
	fromRate, ok := c.rates[from]
	if !ok {
		return amount
	}
	toRate := c.rates[c.display]
	converted := decimal.NewFromFloat(amount).Div(fromRate).Mul(toRate)
	return converted.Round(2).InexactFloat64()
}

// NormalizeSnapshot returns a copy of the snapshot with every monetary
// amount converted to the display currency. The input is never mutated.
func (c *Converter) NormalizeSnapshot(snap records.Snapshot) records.Snapshot {
	out := records.Snapshot{
		Items:    make([]records.Item, len(snap.Items)),
		Sales:    make([]records.Sale, len(snap.Sales)),
		Expenses: make([]records.Expense, len(snap.Expenses)),
	}
	for i, item := range snap.Items {
		item.PurchasePrice = c.Convert(item.PurchasePrice, item.Currency)
		item.MarketPrice = c.convertOptional(item.MarketPrice, item.Currency)
		item.ShippingPrice = c.convertOptional(item.ShippingPrice, item.Currency)
		item.Currency = c.display
		out.Items[i] = item
	}
	for i, sale := range snap.Sales {
		sale.SalePrice = c.Convert(sale.SalePrice, sale.Currency)
		sale.SalesTax = c.convertOptional(sale.SalesTax, sale.Currency)
		sale.PlatformFees = c.convertOptional(sale.PlatformFees, sale.Currency)
		sale.Currency = c.display
		out.Sales[i] = sale
	}
	for i, expense := range snap.Expenses {
		expense.Amount = c.Convert(expense.Amount, expense.Currency)
		expense.Currency = c.display
		out.Expenses[i] = expense
	}
	return out
}

func (c *Converter) convertOptional(v *float64, from string) *float64 {
	if v == nil {
		return nil
	}
	converted := c.Convert(*v, from)
	return &converted
}

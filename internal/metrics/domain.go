// Package metrics implements the financial KPI aggregation engine. The
// engine is a pure function over immutable record snapshots: it filters by
// date range, joins sales to their originating items, derives profit,
// expense and ROI aggregates for the current and immediately preceding
// period, and annotates each KPI with its subscription-tier lock state.
package metrics

import (
	"errors"
	"time"

	"github.com/fliptrack/fliptrack/internal/records"
	"github.com/fliptrack/fliptrack/internal/tier"
)

// ErrInvalidRange indicates the caller supplied a window whose start falls
// after its end. This is a contract violation, not a data condition.
var ErrInvalidRange = errors.New("metrics: range start after end")

// DateRange is an inclusive day window. Start is clamped to 00:00:00 and
// End to 23:59:59.999999999 of their calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange builds a day-aligned inclusive window.
func NewDateRange(start, end time.Time) (DateRange, error) {
	s := dayStart(start)
	e := dayEnd(end)
	if s.After(e) {
		return DateRange{}, ErrInvalidRange
	}
	return DateRange{Start: s, End: e}, nil
}

// Previous returns the window of equal length immediately preceding r,
// ending the day before r starts.
func (r DateRange) Previous() DateRange {
	length := r.End.Sub(r.Start)
	prevEnd := dayEnd(r.Start.AddDate(0, 0, -1))
	prevStart := dayStart(r.Start.Add(-length))
	return DateRange{Start: prevStart, End: prevEnd}
}

// Contains reports whether t falls inside the inclusive window.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// ResolvedSale is a sale joined to its originating item. When the item has
// been deleted Found is false and both cost figures are zero; the sale still
// contributes its gross price to revenue.
type ResolvedSale struct {
	Sale         records.Sale
	CostBasis    float64
	ShippingCost float64
	Found        bool
}

// InventoryMetrics summarises the unsold stock position.
type InventoryMetrics struct {
	TotalInventory     int     `json:"totalInventory"`
	UnlistedItems      int     `json:"unlistedItems"`
	ListedItems        int     `json:"listedItems"`
	TotalInventoryCost float64 `json:"totalInventoryCost"`
	TotalMarketValue   float64 `json:"totalMarketValue"`
	PotentialProfit    float64 `json:"potentialProfit"`
}

// SalesMetrics summarises sale records in the window.
type SalesMetrics struct {
	TotalSales        int     `json:"totalSales"`
	TotalSalesRevenue float64 `json:"totalSalesRevenue"`
	TotalPlatformFees float64 `json:"totalPlatformFees"`
	TotalSalesTax     float64 `json:"totalSalesTax"`
	CostOfGoodsSold   float64 `json:"costOfGoodsSold"`
	GrossProfit       float64 `json:"grossProfit"`
	RevenueChange     float64 `json:"revenueChange"`
}

// ExpenseMetrics summarises business expenses in the window.
type ExpenseMetrics struct {
	TotalExpenses float64            `json:"totalExpenses"`
	ExpenseByType map[string]float64 `json:"expenseByType"`
	ExpenseChange float64            `json:"expenseChange"`
}

// ProfitMetrics carries the derived profit and ROI figures.
type ProfitMetrics struct {
	NetProfitSold   float64 `json:"netProfitSold"`
	NetProfitChange float64 `json:"netProfitChange"`
	PotentialProfit float64 `json:"potentialProfit"`
	RoiSold         float64 `json:"roiSold"`
	RoiInventory    float64 `json:"roiInventory"`
	OverallRoi      float64 `json:"overallRoi"`
	RoiChange       float64 `json:"roiChange"`
}

// Report is the KPI snapshot produced by one engine invocation. It is never
// mutated after construction; the next invocation supersedes it wholesale.
type Report struct {
	Inventory InventoryMetrics `json:"inventoryMetrics"`
	Sales     SalesMetrics     `json:"salesMetrics"`
	Expenses  ExpenseMetrics   `json:"expenseMetrics"`
	Profit    ProfitMetrics    `json:"profitMetrics"`
	Locked    map[string]bool  `json:"locked"`
	Warnings  []string         `json:"dataQualityWarnings,omitempty"`
}

// Input groups everything one computation needs. Collections are treated as
// immutable snapshots already normalised to the display currency.
type Input struct {
	Items    []records.Item
	Sales    []records.Sale
	Expenses []records.Expense
	Range    *DateRange
	Tier     tier.Tier
}

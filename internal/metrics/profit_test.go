package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fliptrack/fliptrack/internal/records"
)

func ptr(v float64) *float64 { return &v }

func TestSaleProfitFullFormula(t *testing.T) {
	rs := ResolvedSale{
		Sale: records.Sale{
			SalePrice:    120,
			SalesTax:     ptr(8),
			PlatformFees: ptr(12),
		},
		CostBasis:    80,
		ShippingCost: 5,
		Found:        true,
	}
	require.InDelta(t, 120-80-8-12-5, saleProfit(rs), 1e-9)
}

func TestSaleProfitMissingOptionalsDefaultZero(t *testing.T) {
	rs := ResolvedSale{
		Sale:      records.Sale{SalePrice: 120},
		CostBasis: 80,
		Found:     true,
	}
	require.InDelta(t, 40, saleProfit(rs), 1e-9)
}

func TestAggregateSalesOnlyCompletedRealized(t *testing.T) {
	resolved := []ResolvedSale{
		{Sale: records.Sale{SalePrice: 100, Status: records.SaleStatusCompleted}, CostBasis: 60, Found: true},
		{Sale: records.Sale{SalePrice: 50, Status: records.SaleStatusPending}, CostBasis: 30, Found: true},
		{Sale: records.Sale{SalePrice: 25, Status: records.SaleStatusNeedsShipping}, CostBasis: 10, Found: true},
	}

	totals := aggregateSales(resolved)
	require.Equal(t, 3, totals.count)
	require.InDelta(t, 175, totals.revenue, 1e-9, "all statuses count toward gross revenue")
	require.InDelta(t, 60, totals.costOfGoods, 1e-9, "only completed sales enter COGS")
	require.InDelta(t, 40, totals.realizedProfit, 1e-9, "only completed sales realize profit")
}

func TestAggregateSalesOrphanContributesRevenueOnly(t *testing.T) {
	resolved := []ResolvedSale{
		{Sale: records.Sale{SalePrice: 120, PlatformFees: ptr(12), Status: records.SaleStatusCompleted}},
	}

	totals := aggregateSales(resolved)
	require.InDelta(t, 120, totals.revenue, 1e-9)
	require.Zero(t, totals.costOfGoods)
	require.InDelta(t, 108, totals.realizedProfit, 1e-9)
}

func TestAggregateInventorySkipsSoldItems(t *testing.T) {
	items := []records.Item{
		{ID: "1", PurchasePrice: 100, Status: records.ItemStatusSold},
		{ID: "2", PurchasePrice: 40, Status: records.ItemStatusListed, MarketPrice: ptr(90)},
		{ID: "3", PurchasePrice: 50, Status: records.ItemStatusUnlisted},
	}

	totals := aggregateInventory(items)
	require.Equal(t, 2, totals.total)
	require.Equal(t, 1, totals.listed)
	require.Equal(t, 1, totals.unlisted)
	require.InDelta(t, 90, totals.costBasis, 1e-9)
	// Item 3 has no market price: fall back to 1.2x purchase price.
	require.InDelta(t, 90+50*1.2, totals.marketValue, 1e-9)
	require.InDelta(t, (90-40)+(50*1.2-50), totals.potentialProfit, 1e-9)
}

func TestAggregateInventoryEmpty(t *testing.T) {
	totals := aggregateInventory(nil)
	require.Zero(t, totals.total)
	require.Zero(t, totals.potentialProfit)
}

func TestAggregateExpensesGroupsByType(t *testing.T) {
	expenses := []records.Expense{
		{ExpenseType: "Shipping", Amount: 50},
		{ExpenseType: "Shipping", Amount: 30},
		{ExpenseType: "Storage", Amount: 20},
	}

	total, byType := aggregateExpenses(expenses)
	require.InDelta(t, 100, total, 1e-9)
	require.InDelta(t, 80, byType["Shipping"], 1e-9)
	require.InDelta(t, 20, byType["Storage"], 1e-9)
}

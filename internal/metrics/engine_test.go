package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fliptrack/fliptrack/internal/records"
	"github.com/fliptrack/fliptrack/internal/tier"
)

// scenarioInput is a small ledger exercising every pipeline stage: a
// completed sale with a matching item, unsold stock, and expenses.
func scenarioInput(t *testing.T) Input {
	t.Helper()
	rng := mustRange(t, "2024-01-01", "2024-01-31")
	return Input{
		Items: []records.Item{
			{ID: "1", PurchasePrice: 80, Status: records.ItemStatusSold, PurchaseDate: "2024-01-02"},
			{ID: "2", PurchasePrice: 50, Status: records.ItemStatusListed, MarketPrice: ptr(75), PurchaseDate: "2024-01-03"},
		},
		Sales: []records.Sale{
			{ID: "1", ItemID: "1", SalePrice: 120, PlatformFees: ptr(12), Status: records.SaleStatusCompleted, SaleDate: "2024-01-10"},
		},
		Expenses: []records.Expense{
			{ID: "1", ExpenseType: "Shipping", Amount: 10, ExpenseDate: "2024-01-12"},
		},
		Range: &rng,
		Tier:  tier.TierProfessional,
	}
}

func TestComputeMetricsCompletedSale(t *testing.T) {
	rng := mustRange(t, "2024-01-01", "2024-01-31")
	engine := NewEngine()

	report, err := engine.ComputeMetrics(Input{
		Items: []records.Item{
			{ID: "1", PurchasePrice: 80, Status: records.ItemStatusSold, PurchaseDate: "2024-01-02"},
		},
		Sales: []records.Sale{
			{ID: "1", ItemID: "1", SalePrice: 120, PlatformFees: ptr(12), Status: records.SaleStatusCompleted, SaleDate: "2024-01-10"},
		},
		Range: &rng,
		Tier:  tier.TierProfessional,
	})
	require.NoError(t, err)

	require.InDelta(t, 28, report.Sales.GrossProfit, 1e-9, "120 - 80 - 12")
	require.InDelta(t, 80, report.Sales.CostOfGoodsSold, 1e-9)
	require.InDelta(t, 35, report.Profit.RoiSold, 1e-9, "28/80*100")
	require.InDelta(t, 28, report.Profit.NetProfitSold, 1e-9, "no expenses this period")
}

func TestComputeMetricsOrphanedSale(t *testing.T) {
	rng := mustRange(t, "2024-01-01", "2024-01-31")
	engine := NewEngine()

	report, err := engine.ComputeMetrics(Input{
		Sales: []records.Sale{
			{ID: "1", ItemID: "999", SalePrice: 120, PlatformFees: ptr(12), Status: records.SaleStatusCompleted, SaleDate: "2024-01-10"},
		},
		Range: &rng,
		Tier:  tier.TierProfessional,
	})
	require.NoError(t, err)

	require.Zero(t, report.Sales.CostOfGoodsSold)
	require.InDelta(t, 120, report.Sales.TotalSalesRevenue, 1e-9, "orphan still counts toward revenue")
	require.InDelta(t, 108, report.Sales.GrossProfit, 1e-9, "120 - 0 - 12")
	require.Zero(t, report.Profit.RoiSold, "zero cost basis guards ROI to 0")
}

func TestComputeMetricsExpenseBreakdown(t *testing.T) {
	engine := NewEngine()

	report, err := engine.ComputeMetrics(Input{
		Expenses: []records.Expense{
			{ID: "1", ExpenseType: "Shipping", Amount: 50, ExpenseDate: "2024-01-05"},
			{ID: "2", ExpenseType: "Shipping", Amount: 30, ExpenseDate: "2024-01-06"},
		},
		Tier: tier.TierProfessional,
	})
	require.NoError(t, err)

	require.InDelta(t, 80, report.Expenses.TotalExpenses, 1e-9)
	require.InDelta(t, 80, report.Expenses.ExpenseByType["Shipping"], 1e-9)
	require.InDelta(t, -80, report.Profit.NetProfitSold, 1e-9, "net profit is sales profit minus period expenses")
}

func TestComputeMetricsNilRangeAllTime(t *testing.T) {
	engine := NewEngine()
	in := scenarioInput(t)
	in.Range = nil

	report, err := engine.ComputeMetrics(in)
	require.NoError(t, err)

	require.Equal(t, 1, report.Sales.TotalSales)
	require.Equal(t, 1, report.Inventory.TotalInventory)
	require.InDelta(t, 10, report.Expenses.TotalExpenses, 1e-9)
	require.Zero(t, report.Sales.RevenueChange, "no window, no previous period")
	require.Zero(t, report.Profit.NetProfitChange)
	require.Zero(t, report.Profit.RoiChange)
}

func TestComputeMetricsEmptyPreviousPeriodGuards(t *testing.T) {
	rng := mustRange(t, "2024-02-01", "2024-02-29")
	engine := NewEngine()

	report, err := engine.ComputeMetrics(Input{
		Sales: []records.Sale{
			{ID: "1", ItemID: "1", SalePrice: 5, Status: records.SaleStatusCompleted, SaleDate: "2024-02-10"},
		},
		Range: &rng,
		Tier:  tier.TierProfessional,
	})
	require.NoError(t, err)
	require.Zero(t, report.Sales.RevenueChange, "previous revenue 0 guards change to 0")
}

func TestComputeMetricsPeriodOverPeriodChange(t *testing.T) {
	rng := mustRange(t, "2024-02-01", "2024-02-29")
	engine := NewEngine()

	report, err := engine.ComputeMetrics(Input{
		Sales: []records.Sale{
			// Previous window is 2024-01-03 .. 2024-01-31.
			{ID: "1", ItemID: "x", SalePrice: 100, Status: records.SaleStatusCompleted, SaleDate: "2024-01-15"},
			{ID: "2", ItemID: "x", SalePrice: 150, Status: records.SaleStatusCompleted, SaleDate: "2024-02-15"},
		},
		Expenses: []records.Expense{
			{ID: "1", ExpenseType: "Storage", Amount: 40, ExpenseDate: "2024-01-20"},
			{ID: "2", ExpenseType: "Storage", Amount: 30, ExpenseDate: "2024-02-20"},
		},
		Range: &rng,
		Tier:  tier.TierProfessional,
	})
	require.NoError(t, err)

	require.InDelta(t, 50, report.Sales.RevenueChange, 1e-9, "150 vs 100")
	require.InDelta(t, -25, report.Expenses.ExpenseChange, 1e-9, "30 vs 40")
	require.InDelta(t, 150, report.Sales.TotalSalesRevenue, 1e-9, "current window only")
}

func TestComputeMetricsPure(t *testing.T) {
	engine := NewEngine()
	in := scenarioInput(t)

	first, err := engine.ComputeMetrics(in)
	require.NoError(t, err)
	second, err := engine.ComputeMetrics(in)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestComputeMetricsDoesNotMutateInputs(t *testing.T) {
	engine := NewEngine()
	in := scenarioInput(t)
	itemsBefore := append([]records.Item(nil), in.Items...)
	salesBefore := append([]records.Sale(nil), in.Sales...)

	_, err := engine.ComputeMetrics(in)
	require.NoError(t, err)
	require.Equal(t, itemsBefore, in.Items)
	require.Equal(t, salesBefore, in.Sales)
}

func TestComputeMetricsInvertedRange(t *testing.T) {
	engine := NewEngine()
	bad := DateRange{Start: mustRange(t, "2024-02-01", "2024-02-01").Start, End: mustRange(t, "2024-01-01", "2024-01-01").End}
	_, err := engine.ComputeMetrics(Input{Range: &bad})
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestComputeMetricsWarningsSurfaceOnce(t *testing.T) {
	rng := mustRange(t, "2024-01-01", "2024-01-31")
	engine := NewEngine()

	report, err := engine.ComputeMetrics(Input{
		Sales: []records.Sale{
			{ID: "1", ItemID: "1", SalePrice: 10, Status: records.SaleStatusCompleted, SaleDate: "garbage"},
		},
		Range: &rng,
		Tier:  tier.TierFree,
	})
	require.NoError(t, err)
	require.Len(t, report.Warnings, 1, "previous-period pass must not duplicate warnings")
}

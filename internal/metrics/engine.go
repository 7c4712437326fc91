package metrics

// Engine orchestrates the KPI pipeline: filter, resolve, aggregate,
// compare, gate. It holds no state, performs no I/O, and never mutates its
// inputs; identical inputs always produce an identical report.
type Engine struct{}

// NewEngine constructs an Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// coreFigures is the intermediate aggregate shared between the current and
// previous period passes.
type coreFigures struct {
	inventory     inventoryTotals
	sales         salesTotals
	expenseTotal  float64
	expenseByType map[string]float64
	netProfit     float64
	roi           roiFigures
}

// computeCore runs one pass of the pipeline over a single window. The
// previous-period pass hands a nil warnings sink so data-quality notes are
// reported once, not twice.
func computeCore(in Input, warn *warnings) coreFigures {
	var discard warnings
	if warn == nil {
		warn = &discard
	}

	items := filterItems(in.Items, in.Range, warn)
	sales := filterSales(in.Sales, in.Range, warn)
	expenses := filterExpenses(in.Expenses, in.Range, warn)

	// Sales resolve against the full items set: an item bought before the
	// window still backs a sale made inside it.
	resolved := resolveSales(sales, in.Items)

	var figures coreFigures
	figures.inventory = aggregateInventory(items)
	figures.sales = aggregateSales(resolved)
	figures.expenseTotal, figures.expenseByType = aggregateExpenses(expenses)
	figures.netProfit = figures.sales.realizedProfit - figures.expenseTotal
	figures.roi = computeROI(figures.sales, figures.inventory)
	return figures
}

// ComputeMetrics produces the KPI report for one snapshot. A nil Range
// means all-time: collections pass through unfiltered and every
// period-over-period delta stays 0. The only error condition is an
// inverted range, which NewDateRange already rejects for ranges built
// through it; raw ranges are re-checked here to hold the caller contract.
func (e *Engine) ComputeMetrics(in Input) (Report, error) {
	if in.Range != nil && in.Range.Start.After(in.Range.End) {
		return Report{}, ErrInvalidRange
	}

	var warn warnings
	current := computeCore(in, &warn)
	deltas := comparePeriods(in, current)

	report := Report{
		Inventory: InventoryMetrics{
			TotalInventory:     current.inventory.total,
			UnlistedItems:      current.inventory.unlisted,
			ListedItems:        current.inventory.listed,
			TotalInventoryCost: current.inventory.costBasis,
			TotalMarketValue:   current.inventory.marketValue,
			PotentialProfit:    current.inventory.potentialProfit,
		},
		Sales: SalesMetrics{
			TotalSales:        current.sales.count,
			TotalSalesRevenue: current.sales.revenue,
			TotalPlatformFees: current.sales.platformFees,
			TotalSalesTax:     current.sales.salesTax,
			CostOfGoodsSold:   current.sales.costOfGoods,
			GrossProfit:       current.sales.realizedProfit,
			RevenueChange:     deltas.revenue,
		},
		Expenses: ExpenseMetrics{
			TotalExpenses: current.expenseTotal,
			ExpenseByType: current.expenseByType,
			ExpenseChange: deltas.expenses,
		},
		Profit: ProfitMetrics{
			NetProfitSold:   current.netProfit,
			NetProfitChange: deltas.netProfit,
			PotentialProfit: current.inventory.potentialProfit,
			RoiSold:         current.roi.sold,
			RoiInventory:    current.roi.inventory,
			OverallRoi:      current.roi.overall,
			RoiChange:       deltas.roi,
		},
		Locked:   gateMetrics(in.Tier),
		Warnings: warn,
	}
	return report, nil
}

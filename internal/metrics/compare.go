package metrics

// percentChange expresses current against previous as a percentage delta.
// A zero previous value yields 0 rather than a division blow-up; a brand
// new account with an empty prior period must render flat, not infinite.
func percentChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// periodDeltas holds the period-over-period changes surfaced on the report.
type periodDeltas struct {
	revenue   float64
	expenses  float64
	netProfit float64
	roi       float64
}

// comparePeriods recomputes the headline figures over the previous window
// and expresses each current value as a percentage change. Without a window
// there is no previous period and every delta stays flat.
func comparePeriods(in Input, current coreFigures) periodDeltas {
	if in.Range == nil {
		return periodDeltas{}
	}
	prev := in.Range.Previous()
	previous := computeCore(Input{
		Items:    in.Items,
		Sales:    in.Sales,
		Expenses: in.Expenses,
		Range:    &prev,
	}, nil)
	return periodDeltas{
		revenue:   percentChange(current.sales.revenue, previous.sales.revenue),
		expenses:  percentChange(current.expenseTotal, previous.expenseTotal),
		netProfit: percentChange(current.netProfit, previous.netProfit),
		roi:       percentChange(current.roi.overall, previous.roi.overall),
	}
}

package metrics

// returnOnInvestment expresses profit as a percentage of the invested cost
// basis. A zero cost basis yields 0, never NaN or Inf; an empty period or a
// ledger of orphaned sales must render as 0 downstream.
func returnOnInvestment(profit, costBasis float64) float64 {
	if costBasis == 0 {
		return 0
	}
	return profit / costBasis * 100
}

// roiFigures carries the three ROI variants, each testable on its own.
type roiFigures struct {
	sold      float64
	inventory float64
	overall   float64
}

// computeROI derives ROI on sold items (realized profit over the cost basis
// of completed sales), ROI on inventory (potential profit over the cost
// basis of active items), and the combined overall figure.
func computeROI(sales salesTotals, inventory inventoryTotals) roiFigures {
	return roiFigures{
		sold:      returnOnInvestment(sales.realizedProfit, sales.costOfGoods),
		inventory: returnOnInvestment(inventory.potentialProfit, inventory.costBasis),
		overall: returnOnInvestment(
			sales.realizedProfit+inventory.potentialProfit,
			sales.costOfGoods+inventory.costBasis,
		),
	}
}

package metrics

import "github.com/fliptrack/fliptrack/internal/records"

// marketPriceFallback estimates an unsold item's market value at 120% of
// its purchase price when no market price has been recorded.
const marketPriceFallback = 1.2

// saleProfit computes per-sale profit. Missing optional charges count as
// zero; an unresolved sale carries zero cost basis and shipping already.
func saleProfit(rs ResolvedSale) float64 {
	return rs.Sale.SalePrice - rs.CostBasis - deref(rs.Sale.SalesTax) - deref(rs.Sale.PlatformFees) - rs.ShippingCost
}

// salesTotals holds the aggregates derived from one resolved sales set.
type salesTotals struct {
	count          int
	revenue        float64
	platformFees   float64
	salesTax       float64
	costOfGoods    float64
	realizedProfit float64
}

// aggregateSales folds the resolved sales. Every sale contributes to gross
// revenue; only completed sales count toward realized profit and cost of
// goods sold.
func aggregateSales(resolved []ResolvedSale) salesTotals {
	var totals salesTotals
	for _, rs := range resolved {
		totals.count++
		totals.revenue += rs.Sale.SalePrice
		totals.platformFees += deref(rs.Sale.PlatformFees)
		totals.salesTax += deref(rs.Sale.SalesTax)
		if rs.Sale.Status != records.SaleStatusCompleted {
			continue
		}
		totals.costOfGoods += rs.CostBasis
		totals.realizedProfit += saleProfit(rs)
	}
	return totals
}

// inventoryTotals holds the aggregates over unsold items.
type inventoryTotals struct {
	total           int
	unlisted        int
	listed          int
	costBasis       float64
	marketValue     float64
	potentialProfit float64
}

// aggregateInventory folds every item not yet sold. Potential profit uses
// the recorded market price, falling back to the documented 1.2x purchase
// price assumption.
func aggregateInventory(items []records.Item) inventoryTotals {
	var totals inventoryTotals
	for _, item := range items {
		if item.Status == records.ItemStatusSold {
			continue
		}
		totals.total++
		switch item.Status {
		case records.ItemStatusUnlisted:
			totals.unlisted++
		case records.ItemStatusListed:
			totals.listed++
		}
		market := item.PurchasePrice * marketPriceFallback
		if item.MarketPrice != nil {
			market = *item.MarketPrice
		}
		totals.costBasis += item.PurchasePrice
		totals.marketValue += market
		totals.potentialProfit += market - item.PurchasePrice
	}
	return totals
}

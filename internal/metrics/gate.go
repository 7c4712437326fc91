package metrics

import "github.com/fliptrack/fliptrack/internal/tier"

// gatePolicy maps each gated metric to the minimum tier required to view
// it. Gating restricts visibility, never validity: the numeric value stays
// on the report and the renderer decides how to present a locked figure.
var gatePolicy = map[string]tier.Tier{
	"totalInventory":     tier.TierFree,
	"unlistedItems":      tier.TierFree,
	"listedItems":        tier.TierFree,
	"totalInventoryCost": tier.TierFree,
	"totalMarketValue":   tier.TierStarter,
	"potentialProfit":    tier.TierStarter,
	"totalSales":         tier.TierFree,
	"totalSalesRevenue":  tier.TierFree,
	"totalPlatformFees":  tier.TierFree,
	"totalSalesTax":      tier.TierFree,
	"costOfGoodsSold":    tier.TierStarter,
	"grossProfit":        tier.TierFree,
	"revenueChange":      tier.TierStarter,
	"totalExpenses":      tier.TierFree,
	"expenseByType":      tier.TierStarter,
	"expenseChange":      tier.TierStarter,
	"netProfitSold":      tier.TierFree,
	"netProfitChange":    tier.TierProfessional,
	"roiSold":            tier.TierStarter,
	"roiInventory":       tier.TierStarter,
	"overallRoi":         tier.TierProfessional,
	"roiChange":          tier.TierProfessional,
}

// gateMetrics produces the lock flag for every metric in the policy table.
// Stateless lookup: (metric, tier) in, boolean out.
func gateMetrics(t tier.Tier) map[string]bool {
	locked := make(map[string]bool, len(gatePolicy))
	for metric, required := range gatePolicy {
		locked[metric] = !t.AtLeast(required)
	}
	return locked
}

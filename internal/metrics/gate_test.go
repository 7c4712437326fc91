package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fliptrack/fliptrack/internal/tier"
)

func TestGateMetricsCoversWholePolicyTable(t *testing.T) {
	for _, tr := range []tier.Tier{tier.TierFree, tier.TierStarter, tier.TierProfessional} {
		locked := gateMetrics(tr)
		require.Len(t, locked, len(gatePolicy))
		for metric, required := range gatePolicy {
			require.Equal(t, !tr.AtLeast(required), locked[metric], "tier %s metric %s", tr, metric)
		}
	}
}

func TestGateMetricsProfessionalUnlocksEverything(t *testing.T) {
	for metric, isLocked := range gateMetrics(tier.TierProfessional) {
		require.False(t, isLocked, "metric %s should be unlocked", metric)
	}
}

func TestGateMetricsUnknownTierLocksGatedMetrics(t *testing.T) {
	locked := gateMetrics(tier.Tier("trial"))
	require.True(t, locked["roiSold"])
	require.True(t, locked["totalSales"], "unknown tiers rank below free")
}

func TestGatingNeverAltersValues(t *testing.T) {
	in := scenarioInput(t)

	engine := NewEngine()
	in.Tier = tier.TierFree
	freeReport, err := engine.ComputeMetrics(in)
	require.NoError(t, err)

	in.Tier = tier.TierProfessional
	proReport, err := engine.ComputeMetrics(in)
	require.NoError(t, err)

	require.Equal(t, proReport.Inventory, freeReport.Inventory)
	require.Equal(t, proReport.Sales, freeReport.Sales)
	require.Equal(t, proReport.Expenses, freeReport.Expenses)
	require.Equal(t, proReport.Profit, freeReport.Profit)
	require.NotEqual(t, proReport.Locked, freeReport.Locked)
	require.True(t, freeReport.Locked["roiSold"])
	require.NotZero(t, freeReport.Profit.RoiSold, "locked metric keeps its numeric value")
}

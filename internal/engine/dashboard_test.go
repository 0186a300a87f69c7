package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ballotworks/syncrun/internal/scenario"
	"github.com/ballotworks/syncrun/internal/topic"
)

func TestGetDashboard_DeterministicPerScenario(t *testing.T) {
	eng := newTestEngine(t, Config{}, topic.NewRegistryFrom())

	a := eng.GetDashboard(scenario.Default())
	b := eng.GetDashboard(scenario.Default())
	assert.Equal(t, a, b)

	require.Len(t, a.Features, 5)
	assert.Greater(t, a.TotalRisk, 0.0)
	assert.LessOrEqual(t, a.TotalRisk, 100.0)
	assert.NotEmpty(t, a.OverallStatus)
}

func TestSupplyChainFeature_ScalesWithSupply(t *testing.T) {
	full := supplyChainFeature(scenario.Input{SupplyRatio: 100})
	starved := supplyChainFeature(scenario.Input{SupplyRatio: 40})

	assert.Equal(t, 22.0, full.RiskContribution)
	assert.Equal(t, 40.0, starved.RiskContribution)
	assert.Equal(t, "CRITICAL", starved.Status)
}

func TestReadinessFeature_DegradesWithPersonnel(t *testing.T) {
	full := readinessFeature(scenario.Input{PersonnelRatio: 100})
	thin := readinessFeature(scenario.Input{PersonnelRatio: 50})

	assert.Less(t, full.RiskContribution, thin.RiskContribution)
	assert.Equal(t, "BEHIND", thin.Status)
}

func TestTimelineFeature_TightTargetIsRisky(t *testing.T) {
	relaxed := timelineFeature(scenario.Input{TargetYear: 2035, SupplyRatio: 100})
	assert.Equal(t, "FEASIBLE", relaxed.Status)
	assert.Equal(t, 0.0, relaxed.RiskContribution)

	tight := timelineFeature(scenario.Input{TargetYear: 2028, SupplyRatio: 100})
	assert.Equal(t, "RISKY", tight.Status)
	assert.Greater(t, tight.RiskContribution, 0.0)
}

func TestGetDashboard_WarningsPropagate(t *testing.T) {
	eng := newTestEngine(t, Config{}, topic.NewRegistryFrom())

	dash := eng.GetDashboard(scenario.Input{TargetYear: 2050})
	assert.NotEmpty(t, dash.Warnings)
	assert.Equal(t, 2041, dash.Scenario.TargetYear)
}

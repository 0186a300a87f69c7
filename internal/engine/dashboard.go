package engine

import (
	"math"

	"github.com/ballotworks/syncrun/internal/montecarlo"
	"github.com/ballotworks/syncrun/internal/scenario"
)

// AdminFeature is one operational sub-signal on the readiness dashboard.
type AdminFeature struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Description      string      `json:"description"`
	RiskContribution float64     `json:"risk_contribution"`
	Status           string      `json:"status"`
	Data             interface{} `json:"data,omitempty"`
}

// Dashboard aggregates the operational readiness view for one scenario.
type Dashboard struct {
	Scenario      scenario.Input `json:"scenario"`
	Features      []AdminFeature `json:"features"`
	TotalRisk     float64        `json:"total_risk"`
	OverallStatus string         `json:"overall_status"`
	Warnings      []string       `json:"warnings,omitempty"`
}

// readiness is the stakeholder consensus snapshot scaled by the personnel
// scenario.
type readiness struct {
	TotalAgencies int    `json:"total_agencies"`
	Ready         int    `json:"ready_count"`
	InProgress    int    `json:"in_progress_count"`
	Behind        int    `json:"behind_count"`
	CriticalGap   string `json:"critical_gap"`
}

// timelineCheck is the logistics deadline snapshot.
type timelineCheck struct {
	MonthsRemaining int    `json:"months_remaining"`
	MonthsNeeded    int    `json:"months_needed"`
	Bottleneck      string `json:"bottleneck,omitempty"`
}

// GetDashboard computes the operational dashboard as a pure function of the
// scenario. Each feature's contribution responds to the supply, personnel
// and target-year inputs.
func (e *Engine) GetDashboard(scn scenario.Input) Dashboard {
	scn, warnings := scn.Normalize()

	features := []AdminFeature{
		resourceDebateFeature(),
		supplyChainFeature(scn),
		logisticsFeature(scn),
		readinessFeature(scn),
		timelineFeature(scn),
	}

	total := 0.0
	for _, f := range features {
		total += f.RiskContribution
	}
	total = clamp(total, 0, 100)

	status := "ON TRACK"
	switch {
	case total >= 70:
		status = "CRITICAL"
	case total >= 45:
		status = "AT RISK"
	case total >= 25:
		status = "STRAINED"
	}

	return Dashboard{
		Scenario:      scn,
		Features:      features,
		TotalRisk:     math.Round(total*100) / 100,
		OverallStatus: status,
		Warnings:      warnings,
	}
}

// resourceDebateFeature reports the fixed multi-party resource planning
// assessment: demand versus manufacturing, security and logistics limits.
func resourceDebateFeature() AdminFeature {
	const feasibility = 0.62
	return AdminFeature{
		ID:               "resource_debate",
		Name:             "Resource Demand Simulator",
		Description:      "Demand versus manufacturing, security and logistics constraints",
		RiskContribution: math.Round((1-feasibility)*100*100) / 100,
		Status:           "ACTIVE",
		Data: map[string]interface{}{
			"feasibility": feasibility,
			"bottlenecks": []string{
				"semiconductor lead times",
				"security manpower reserve",
				"last-mile logistics",
			},
		},
	}
}

// supplyChainFeature scales machine-inventory risk with the supply ratio.
func supplyChainFeature(scn scenario.Input) AdminFeature {
	risk := 22.0 + (100-scn.SupplyRatio)*0.3
	risk = clamp(risk, 0, 50)

	status := "CRITICAL"
	if scn.SupplyRatio >= 95 {
		status = "STRAINED"
	}
	return AdminFeature{
		ID:               "supply_chain",
		Name:             "Supply Chain Assessment",
		Description:      "Voting-machine inventory and production capacity",
		RiskContribution: math.Round(risk*100) / 100,
		Status:           status,
		Data: map[string]interface{}{
			"supply_ratio": scn.SupplyRatio,
			"key_finding":  "Production capacity shortage and semiconductor lead times.",
		},
	}
}

// logisticsFeature runs the seeded failure simulation.
func logisticsFeature(scn scenario.Input) AdminFeature {
	result := montecarlo.RunLogistics(scn, 1000, 40, 40)
	status := "STABLE"
	if result.FailureRate > 30 {
		status = "AT RISK"
	}
	return AdminFeature{
		ID:               "logistics_simulation",
		Name:             "Logistics Simulation",
		Description:      "Seeded failure-rate simulation across supply, transport and personnel",
		RiskContribution: result.RiskScore,
		Status:           status,
		Data:             result,
	}
}

// readinessFeature degrades stakeholder readiness as personnel thins out.
func readinessFeature(scn scenario.Input) AdminFeature {
	const agencies = 78
	ready := int(25 * scn.PersonnelRatio / 100)
	inProgress := int(40 * scn.PersonnelRatio / 100)
	behind := agencies - ready - inProgress

	risk := clamp(float64(behind)/float64(agencies)*100*0.96, 0, 40)
	status := "ON TRACK"
	if behind > 20 {
		status = "BEHIND"
	}
	return AdminFeature{
		ID:               "readiness",
		Name:             "Stakeholder Readiness Tracker",
		Description:      "Consensus across 28 states and 50 agencies",
		RiskContribution: math.Round(risk*100) / 100,
		Status:           status,
		Data: readiness{
			TotalAgencies: agencies,
			Ready:         ready,
			InProgress:    inProgress,
			Behind:        behind,
			CriticalGap:   "Low data integration in non-aligned states.",
		},
	}
}

// timelineFeature checks the logistics lead time against the target year.
func timelineFeature(scn scenario.Input) AdminFeature {
	needed := 42
	if scn.SupplyRatio > 0 && scn.SupplyRatio < 100 {
		needed = int(math.Ceil(float64(needed) * 100 / scn.SupplyRatio))
	}
	remaining := scn.MonthsAvailable()

	risk := 0.0
	status := "FEASIBLE"
	bottleneck := ""
	if remaining < needed {
		risk = clamp(float64(needed-remaining)*2.5, 0, 25)
		status = "RISKY"
		bottleneck = "Machine manufacturing lead time overlaps audit-trail testing."
	}
	return AdminFeature{
		ID:               "timeline",
		Name:             "Timeline Feasibility Checker",
		Description:      "Deadline achievability for the target year",
		RiskContribution: math.Round(risk*100) / 100,
		Status:           status,
		Data: timelineCheck{
			MonthsRemaining: remaining,
			MonthsNeeded:    needed,
			Bottleneck:      bottleneck,
		},
	}
}

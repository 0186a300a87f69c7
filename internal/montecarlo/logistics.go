package montecarlo

import (
	"github.com/ballotworks/syncrun/internal/scenario"
)

// LogisticsResult summarizes a logistics failure simulation for the
// operational dashboard.
type LogisticsResult struct {
	Iterations  int     `json:"iterations"`
	SuccessRate float64 `json:"success_rate"`
	FailureRate float64 `json:"failure_rate"`
	TopRisk     string  `json:"top_risk"`
	RiskScore   float64 `json:"risk_score"`
}

// RunLogistics simulates machine supply, transport and personnel
// availability for an election cycle. The scenario's supply and personnel
// ratios center the corresponding distributions, so a constrained scenario
// directly raises the simulated failure rate. Pure function of
// (scenario, seed).
func RunLogistics(scn scenario.Input, trials int, scoreScale, maxScore float64) LogisticsResult {
	if trials <= 0 {
		trials = 1000
	}
	s := newSampler(scn.Seed)

	success := 0
	failures := map[string]int{"machine_shortage": 0, "transport_delay": 0, "personnel_gap": 0}
	for i := 0; i < trials; i++ {
		supply := s.normal(scn.SupplyRatio, 10)
		transport := s.normal(90, 15)
		personnel := s.normal(scn.PersonnelRatio*0.85, 20)

		switch {
		case supply < 90:
			failures["machine_shortage"]++
		case transport < 70:
			failures["transport_delay"]++
		case personnel < 75:
			failures["personnel_gap"]++
		default:
			success++
		}
	}

	failureRate := float64(trials-success) / float64(trials)
	score := failureRate * scoreScale
	if maxScore > 0 && score > maxScore {
		score = maxScore
	}

	top := ""
	topCount := -1
	for _, name := range []string{"machine_shortage", "transport_delay", "personnel_gap"} {
		if failures[name] > topCount {
			top = name
			topCount = failures[name]
		}
	}

	return LogisticsResult{
		Iterations:  trials,
		SuccessRate: round2(float64(success) / float64(trials) * 100),
		FailureRate: round2(failureRate * 100),
		TopRisk:     top,
		RiskScore:   round2(score),
	}
}

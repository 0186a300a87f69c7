package scenario

import "fmt"

// Bounds for scenario inputs. Out-of-range values are clamped, never
// silently ignored: Normalize reports every adjustment it makes.
const (
	MinTargetYear = 2026
	MaxTargetYear = 2041

	MinRatio = 0.0
	MaxRatio = 100.0

	AnchorYear  = 2026
	AnchorMonth = 1
)

// Input is the single source of variability across an aggregation run.
// Supply and personnel ratios are percentages of nominal resource
// availability. Seed drives every stochastic provider so runs are
// reproducible.
type Input struct {
	TargetYear     int     `json:"target_year" yaml:"target_year"`
	SupplyRatio    float64 `json:"supply_ratio" yaml:"supply_ratio"`
	PersonnelRatio float64 `json:"personnel_ratio" yaml:"personnel_ratio"`
	Seed           int64   `json:"seed" yaml:"seed"`
}

// Default returns the nominal scenario: full resources, 2029 target.
func Default() Input {
	return Input{
		TargetYear:     2029,
		SupplyRatio:    100,
		PersonnelRatio: 100,
		Seed:           42,
	}
}

// Normalize clamps the input into documented ranges and returns one warning
// per adjusted field. A zero target year or seed is treated as unset (both
// sit outside any meaningful value); a zero ratio is a real input meaning
// no resource availability and passes through untouched.
func (in Input) Normalize() (Input, []string) {
	var warnings []string
	def := Default()

	if in.TargetYear == 0 {
		in.TargetYear = def.TargetYear
	} else if in.TargetYear < MinTargetYear {
		warnings = append(warnings, fmt.Sprintf("target_year %d below %d, clamped", in.TargetYear, MinTargetYear))
		in.TargetYear = MinTargetYear
	} else if in.TargetYear > MaxTargetYear {
		warnings = append(warnings, fmt.Sprintf("target_year %d above %d, clamped", in.TargetYear, MaxTargetYear))
		in.TargetYear = MaxTargetYear
	}

	in.SupplyRatio, warnings = clampRatio(in.SupplyRatio, "supply_ratio", warnings)
	in.PersonnelRatio, warnings = clampRatio(in.PersonnelRatio, "personnel_ratio", warnings)

	if in.Seed == 0 {
		in.Seed = def.Seed
	}

	return in, warnings
}

func clampRatio(v float64, name string, warnings []string) (float64, []string) {
	if v < MinRatio {
		return MinRatio, append(warnings, fmt.Sprintf("%s %.1f below %.0f, clamped", name, v, MinRatio))
	}
	if v > MaxRatio {
		return MaxRatio, append(warnings, fmt.Sprintf("%s %.1f above %.0f, clamped", name, v, MaxRatio))
	}
	return v, warnings
}

// MonthsAvailable computes the planning window in months between the anchor
// date and the target year's May deadline.
func (in Input) MonthsAvailable() int {
	return (in.TargetYear-AnchorYear)*12 - AnchorMonth
}

// Fingerprint is a stable cache-key component covering every field that can
// change an evaluation result.
func (in Input) Fingerprint() string {
	return fmt.Sprintf("y%d-s%.1f-p%.1f-r%d", in.TargetYear, in.SupplyRatio, in.PersonnelRatio, in.Seed)
}

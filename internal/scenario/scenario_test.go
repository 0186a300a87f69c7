package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_UnsetYearAndSeedGetDefaultsSilently(t *testing.T) {
	scn, warnings := Input{SupplyRatio: 100, PersonnelRatio: 100}.Normalize()

	assert.Equal(t, Default(), scn)
	assert.Empty(t, warnings)
}

func TestNormalize_ZeroRatioIsARealInput(t *testing.T) {
	scn, warnings := Input{TargetYear: 2029, PersonnelRatio: 100, Seed: 42}.Normalize()

	assert.Zero(t, scn.SupplyRatio)
	assert.Empty(t, warnings)
}

func TestNormalize_ClampsWithWarnings(t *testing.T) {
	scn, warnings := Input{
		TargetYear:     2050,
		SupplyRatio:    180,
		PersonnelRatio: -5,
		Seed:           7,
	}.Normalize()

	assert.Equal(t, MaxTargetYear, scn.TargetYear)
	assert.Equal(t, MaxRatio, scn.SupplyRatio)
	assert.Equal(t, MinRatio, scn.PersonnelRatio)
	assert.Equal(t, int64(7), scn.Seed)
	assert.Len(t, warnings, 3)
}

func TestNormalize_InRangePassesThrough(t *testing.T) {
	in := Input{TargetYear: 2031, SupplyRatio: 75, PersonnelRatio: 80, Seed: 9}
	scn, warnings := in.Normalize()

	assert.Equal(t, in, scn)
	assert.Empty(t, warnings)
}

func TestMonthsAvailable(t *testing.T) {
	assert.Equal(t, 35, Input{TargetYear: 2029}.MonthsAvailable())
	assert.Equal(t, -1, Input{TargetYear: 2026}.MonthsAvailable())
}

func TestFingerprint_DistinguishesEveryField(t *testing.T) {
	base := Default()

	variants := []Input{
		{TargetYear: 2030, SupplyRatio: 100, PersonnelRatio: 100, Seed: 42},
		{TargetYear: 2029, SupplyRatio: 90, PersonnelRatio: 100, Seed: 42},
		{TargetYear: 2029, SupplyRatio: 100, PersonnelRatio: 90, Seed: 42},
		{TargetYear: 2029, SupplyRatio: 100, PersonnelRatio: 100, Seed: 43},
	}
	for _, v := range variants {
		assert.NotEqual(t, base.Fingerprint(), v.Fingerprint())
	}
	assert.Equal(t, base.Fingerprint(), Default().Fingerprint())
}

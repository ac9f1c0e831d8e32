package policy

import "testing"

// TestBuildStateVectorLiteral exercises V1.
func TestBuildStateVectorLiteral(t *testing.T) {
	v := BuildStateVector(StateInputs{
		Susceptible:          100,
		Exposed:              10,
		Infected:             5,
		Recovered:            2,
		NewExposuresLastHour: 3,
		DeathsLastHour:       1,
		HospitalCapacity:     4,
		HomelessCount:        20,
		UnemployedCount:      30,
		TotalAgents:          117,
		ValuePercentChange:   1.2,
	})

	if v[SlotHospitalOverflow] != 1 {
		t.Fatalf("expected hospital overflow slot = 1, got %v", v[SlotHospitalOverflow])
	}
	want := [4]float64{5.0 / 117 * 100, 10.0 / 117 * 100, 2.0 / 117 * 100, 100.0 / 117 * 100}
	got := [4]float64{v[SlotFractionInfected], v[SlotFractionExposed], v[SlotFractionRecovered], v[SlotFractionSusceptible]}
	for i := range want {
		if diff := want[i] - got[i]; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("slot %d: want %v got %v", i+5, want[i], got[i])
		}
	}
}

// TestBuildStateVectorAllZero exercises V2.
func TestBuildStateVectorAllZero(t *testing.T) {
	v := BuildStateVector(StateInputs{})
	for i := 0; i < 9; i++ {
		if v[i] != 0 {
			t.Fatalf("slot %d expected 0, got %v", i, v[i])
		}
	}
}

func TestRewardShapesAgree(t *testing.T) {
	v := BuildStateVector(StateInputs{
		Susceptible: 90, Infected: 10, TotalAgents: 100,
		NewExposuresLast24h: 5, DeathsLast24h: 1,
		HomelessCount: 10, UnemployedCount: 10,
		ValuePercentChange: 0.5,
	})
	dual := Reward(v, RewardDual)
	pandemic := Reward(v, RewardPandemic)
	econ := Reward(v, RewardEconomic)
	if diff := dual - (pandemic + econ); diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("expected dual reward to equal sum of components, got dual=%v sum=%v", dual, pandemic+econ)
	}
}

package policy

import "testing"

func TestLinearCollaboratorActIsDeterministicOutsideExploration(t *testing.T) {
	c := NewLinearPolicyCollaborator()
	state := BuildStateVector(StateInputs{Susceptible: 50, Infected: 50, TotalAgents: 100})
	first := c.Act(state)
	second := c.Act(state)
	if first != second {
		t.Fatalf("expected deterministic action without exploration, got %+v vs %+v", first, second)
	}
}

func TestLinearCollaboratorStepMovesTowardRewardedAction(t *testing.T) {
	c := NewLinearPolicyCollaborator()
	state := BuildStateVector(StateInputs{Susceptible: 50, Infected: 50, TotalAgents: 100})
	before := c.probabilities(state)[1] // TotalLockdown slot

	action := Flags{TotalLockdown: true}
	for i := 0; i < 200; i++ {
		c.Step(state, action, 1.0)
	}
	after := c.probabilities(state)[1]
	if after <= before {
		t.Fatalf("expected probability of rewarded action to increase: before=%v after=%v", before, after)
	}
}

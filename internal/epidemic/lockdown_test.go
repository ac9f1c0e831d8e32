package epidemic

import (
	"testing"

	"github.com/townsim/townsim/internal/agents"
	"github.com/townsim/townsim/internal/policy"
	"github.com/townsim/townsim/internal/town"
)

func TestClassifyLocationsTotalLockdown(t *testing.T) {
	tn := newTestTown(t)
	ClassifyLocations(tn, policy.Flags{TotalLockdown: true}, true)
	for _, class := range []town.RegionClass{town.WORK, town.SCHOOL, town.LEISURE} {
		for _, loc := range tn.Regions[class].Locations {
			if loc.Status != town.Lockdown {
				t.Fatalf("expected %v to be LOCKDOWN under total_lockdown, got %v", class, loc.Status)
			}
		}
	}
	for _, loc := range tn.Regions[town.HOME].Locations {
		if loc.Status == town.Lockdown {
			t.Fatal("HOME locations must never go LOCKDOWN")
		}
	}
}

func TestClassifyLocationsLeisureInheritsSiblingLockdown(t *testing.T) {
	tn := newTestTown(t)
	work := tn.Regions[town.WORK].Locations[0]
	// Every member infected: the WORK classifies as LOCKDOWN this pass.
	work.AddMember(1)
	work.NumInfected = 1
	leisure := tn.Regions[town.LEISURE].Locations[0]
	leisure.Sibling = work.ID

	ClassifyLocations(tn, policy.Flags{}, true)
	if leisure.Status != town.Lockdown {
		t.Fatalf("expected sibling-lockdown leisure to be LOCKDOWN, got %v", leisure.Status)
	}
}

func TestApplyPolicyGateTotalLockdownSendsHome(t *testing.T) {
	tn := newTestTown(t)
	a := newTestAgent(1, 30)
	home := tn.Regions[town.HOME].Locations[0]
	a.Assignments.Set(town.HOME, home.ID)

	out := ApplyPolicyGate(a, tn, policy.Flags{TotalLockdown: true}, town.WORK)
	if out.Physical != town.HOME || out.Label != town.HOME {
		t.Fatalf("expected HOME/HOME under total lockdown, got %+v", out)
	}
}

func TestApplyPolicyGateQuarantineSendsInfectedHome(t *testing.T) {
	tn := newTestTown(t)
	a := newTestAgent(1, 30)
	a.Stage = agents.Infected
	home := tn.Regions[town.HOME].Locations[0]
	a.Assignments.Set(town.HOME, home.ID)
	work := tn.Regions[town.WORK].Locations[0]
	a.Assignments.Set(town.WORK, work.ID)

	out := ApplyPolicyGate(a, tn, policy.Flags{QuarantineWhenInfected: true}, town.WORK)
	if out.Physical != town.HOME {
		t.Fatalf("expected quarantined infected agent sent home, got %+v", out)
	}
}

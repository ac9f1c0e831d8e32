package epidemic

import (
	"math/rand/v2"

	"github.com/townsim/townsim/internal/agents"
	"github.com/townsim/townsim/internal/policy"
	"github.com/townsim/townsim/internal/town"
)

// Lockdown threshold tables. The source keeps two subtly different
// tables for pandemic-only versus coupled mode; both are preserved here
// as distinct named constants rather than merged into one, per spec's
// explicit instruction.
const (
	StrongLockdownThreshold = 0.20

	ModerateLockdownThresholdPandemicOnly = 0.35
	ModerateLockdownThresholdCoupled      = 0.40

	WeakLockdownThresholdCoupled      = 0.60
	WeakLockdownThresholdPandemicOnly = 0.75
)

// ClassifyLocations re-evaluates pandemic_status on every location in t,
// run at the start of each controller pass. coupled selects which
// moderate/weak threshold table applies.
func ClassifyLocations(t *town.Town, flags policy.Flags, coupled bool) {
	for _, class := range []town.RegionClass{town.SCHOOL, town.WORK} {
		for _, loc := range t.Regions[class].Locations {
			loc.Status = classifyNonHome(loc, flags, coupled)
		}
	}
	for _, loc := range t.Regions[town.HOME].Locations {
		if loc.NumInfected > 0 {
			loc.Status = town.Exposure
		} else {
			loc.Status = town.Normal
		}
	}
	for _, loc := range t.Regions[town.LEISURE].Locations {
		status := classifyNonHome(loc, flags, coupled)
		if sibling := t.Regions[town.WORK].Find(loc.Sibling); sibling != nil && sibling.Status == town.Lockdown {
			status = town.Lockdown
		}
		loc.Status = status
	}
}

func classifyNonHome(loc *town.Location, flags policy.Flags, coupled bool) town.PandemicStatus {
	if flags.TotalLockdown {
		return town.Lockdown
	}
	p := loc.Occupancy()
	if p == 1 && len(loc.Members) > 0 {
		return town.Lockdown
	}
	moderateThreshold := ModerateLockdownThresholdPandemicOnly
	weakThreshold := WeakLockdownThresholdPandemicOnly
	if coupled {
		moderateThreshold = ModerateLockdownThresholdCoupled
		weakThreshold = WeakLockdownThresholdCoupled
	}
	switch {
	case flags.StrongLockdown && p > StrongLockdownThreshold:
		return town.Lockdown
	case flags.ModerateLockdown && p > moderateThreshold:
		return town.Lockdown
	case flags.WeakLockdown && p > weakThreshold:
		return town.Lockdown
	}
	if loc.NumInfected > 0 {
		return town.Exposure
	}
	return town.Normal
}

// GateOutcome is the result of applying the per-agent policy gate to a
// newly chosen destination class: Physical is where the agent actually
// moves, Label is the destination string the economic layer sees (which
// e-commerce substitution can decouple from Physical).
type GateOutcome struct {
	Physical   town.RegionClass
	Label      town.RegionClass
	LocationID town.LocationID
	HasLoc     bool
}

// ApplyPolicyGate runs the six-step per-agent policy gate of spec §4.4
// against a freshly sampled destination class.
func ApplyPolicyGate(a *agents.Agent, t *town.Town, flags policy.Flags, chosen town.RegionClass) GateOutcome {
	homeID, homeOK := a.AssignedOrMissing(town.HOME)

	if flags.TotalLockdown {
		return homeOutcome(homeID, homeOK)
	}

	if rand.Float64() < flags.ComplianceNonComplianceChance() {
		id, ok := a.AssignedOrMissing(chosen)
		return GateOutcome{Physical: chosen, Label: chosen, LocationID: id, HasLoc: ok}
	}

	physical := chosen
	physicalID, hasPhysical := a.AssignedOrMissing(chosen)

	switch chosen {
	case town.SCHOOL, town.WORK:
		if hasPhysical {
			if loc := t.Regions[chosen].Find(physicalID); loc != nil && loc.Status == town.Lockdown {
				physical = town.HOME
			}
		}
	case town.LEISURE:
		if hasPhysical {
			if loc := t.Regions[town.LEISURE].Find(physicalID); loc != nil && loc.Status == town.Lockdown {
				if alt := t.Regions[town.LEISURE].RandomLocation(); alt != nil && alt.Status != town.Lockdown {
					physicalID = alt.ID
				} else {
					physical = town.HOME
				}
			}
		}
	}

	label := chosen

	if physical != town.HOME && homeOK && rand.Float64() < flags.EcommerceChance() {
		physical = town.HOME
	}

	workingFromHome := physical == town.HOME && label != town.HOME
	if !workingFromHome {
		if flags.QuarantineWhenInfected && a.Stage == agents.Infected {
			physical = town.HOME
			label = town.HOME
		} else if anyAssignmentHasInfected(a, t) && rand.Float64() < flags.ContactTracingHomeChance() {
			physical = town.HOME
			label = town.HOME
		}
	}

	if label == town.LEISURE && rand.Float64() < flags.GuidelinesRedirectChance() {
		physical = town.HOME
	}

	if physical == town.HOME {
		return homeOutcome(homeID, homeOK)
	}
	return GateOutcome{Physical: physical, Label: label, LocationID: physicalID, HasLoc: hasPhysical}
}

func homeOutcome(homeID town.LocationID, homeOK bool) GateOutcome {
	return GateOutcome{Physical: town.HOME, Label: town.HOME, LocationID: homeID, HasLoc: homeOK}
}

func anyAssignmentHasInfected(a *agents.Agent, t *town.Town) bool {
	hasInfected := false
	forEachAssignedLocation(a, t, func(loc *town.Location) {
		if loc.NumInfected > 0 {
			hasInfected = true
		}
	})
	return hasInfected
}

package economic

import (
	"math/rand/v2"

	"github.com/townsim/townsim/internal/agents"
	"github.com/townsim/townsim/internal/town"
)

// Bankrupt destroys a WORK location and its LEISURE sibling atomically:
// every employee of w becomes UNEMPLOYED, every customer of the sibling
// LEISURE is reassigned a random other LEISURE, and both locations are
// removed from their regions. w must belong to t.Regions[town.WORK].
func Bankrupt(w *town.Location, t *town.Town, population map[town.AgentID]*agents.Agent) {
	leisureRegion := t.Regions[town.LEISURE]
	sibling := leisureRegion.Find(w.Sibling)

	for agentID := range w.Members {
		a, ok := population[agentID]
		if !ok {
			continue
		}
		makeUnemployedUnconditional(a)
	}

	if sibling != nil {
		for agentID := range sibling.Members {
			a, ok := population[agentID]
			if !ok {
				continue
			}
			sibling.RemoveMember(agentID)
			reassignLeisure(a, leisureRegion, sibling.ID)
		}
	}

	t.Regions[town.WORK].RemoveLocation(w.ID)
	if sibling != nil {
		leisureRegion.RemoveLocation(sibling.ID)
	}
}

func reassignLeisure(a *agents.Agent, leisureRegion *town.Region, excludeID town.LocationID) {
	var candidate *town.Location
	for attempts := 0; attempts < 8; attempts++ {
		loc := leisureRegion.RandomLocation()
		if loc == nil {
			break
		}
		if loc.ID != excludeID {
			candidate = loc
			break
		}
	}
	if candidate == nil {
		a.Assignments.Clear(town.LEISURE)
		return
	}
	a.Assignments.Set(town.LEISURE, candidate.ID)
	candidate.AddMember(a.ID)
}

func makeUnemployedUnconditional(a *agents.Agent) {
	a.Assignments.Clear(town.WORK)
	a.HoursOfEmployment = 0
	a.EconStatus = a.EconStatus.WithUnemployed(true)
}

// MaybeBankrupt bankrupts w if it has hit zero value after at least two
// days open, past day 0, per spec §4.5's business-overhead rule.
func MaybeBankrupt(w *town.Location, t *town.Town, population map[town.AgentID]*agents.Agent, currentDay int) bool {
	if w.Value > 0 || w.DaysOpen < 2 || currentDay <= 0 {
		return false
	}
	Bankrupt(w, t, population)
	return true
}

// pick chooses a random int in [lo, hi] inclusive.
func pick(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rand.IntN(hi-lo+1)
}

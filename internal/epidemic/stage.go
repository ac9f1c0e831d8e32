// Package epidemic implements the SEIR-with-death stage machine, proximity
// infection, location lockdown classification, and the per-agent policy
// gate that the Coupled Controller drives every hour.
package epidemic

import (
	"math/rand/v2"

	"github.com/townsim/townsim/internal/agents"
	"github.com/townsim/townsim/internal/town"
)

// dayJitter draws a uniform value from {-1, 0, +1}, the ±1-day jitter the
// source applies to every stage-transition threshold before comparing
// against days_in_stage.
func dayJitter() int {
	return rand.IntN(3) - 1
}

// AdvanceDayStage runs the day-granular EXPOSED→INFECTED, INFECTED→
// RECOVERED, and RECOVERED→SUSCEPTIBLE transitions for a single agent.
// Death is handled separately by EvaluateDeath during the hourly per-agent
// update, so by the time this runs a dying agent has already been
// removed from the live population. Returns whether this call produced a
// new case (an EXPOSED→INFECTED transition).
func AdvanceDayStage(a *agents.Agent, t *town.Town) (newCase bool) {
	a.DaysInStage++
	switch a.Stage {
	case agents.Exposed:
		if a.DaysInStage+dayJitter() > 1 {
			makeInfected(a, t)
			newCase = true
		}
	case agents.Infected:
		if a.DaysInStage+dayJitter() > 4 {
			makeRecovered(a, t)
		}
	case agents.Recovered:
		if a.DaysInStage+dayJitter() > 9 {
			makeSusceptible(a)
		}
	}
	return newCase
}

func makeSusceptible(a *agents.Agent) {
	a.Stage = agents.Susceptible
	a.DaysInStage = 0
}

// MakeExposed transitions a into EXPOSED, used both by proximity infection
// and by spontaneous reintroduction / initial seeding.
func MakeExposed(a *agents.Agent) {
	a.Stage = agents.Exposed
	a.DaysInStage = 0
}

func makeInfected(a *agents.Agent, t *town.Town) {
	a.Stage = agents.Infected
	a.DaysInStage = 0
	forEachAssignedLocation(a, t, func(loc *town.Location) {
		loc.NumInfected++
	})
}

func makeRecovered(a *agents.Agent, t *town.Town) {
	a.Stage = agents.Recovered
	a.DaysInStage = 0
	forEachAssignedLocation(a, t, func(loc *town.Location) {
		if loc.NumInfected > 0 {
			loc.NumInfected--
		}
	})
}

// OnDeath must be called exactly once, by the engine, when an INFECTED
// agent dies, to decrement the locations it was counted against. Mirrors
// the source's PandemicAgent destructor.
func OnDeath(a *agents.Agent, t *town.Town) {
	if a.Stage != agents.Infected {
		return
	}
	forEachAssignedLocation(a, t, func(loc *town.Location) {
		if loc.NumInfected > 0 {
			loc.NumInfected--
		}
	})
}

func forEachAssignedLocation(a *agents.Agent, t *town.Town, fn func(*town.Location)) {
	for _, class := range []town.RegionClass{town.HOME, town.SCHOOL, town.WORK, town.LEISURE} {
		id, ok := a.AssignedOrMissing(class)
		if !ok {
			continue
		}
		if loc := t.Regions[class].Find(id); loc != nil {
			fn(loc)
		}
	}
}

package engine

import (
	"math/rand/v2"

	"github.com/townsim/townsim/internal/agents"
	"github.com/townsim/townsim/internal/epidemic"
	"github.com/townsim/townsim/internal/town"
)

// BirthChancePerDay is the probability of exactly one new child entering
// the population on a given day rollover.
const BirthChancePerDay = 1.0 / 100

// AdultAge is the age at which a child re-samples its behavior chart from
// the adult pool and becomes eligible for WORK assignment.
const AdultAge = 18

// MaxAge ends an agent's life at the following year rollover.
const MaxAge = 100

// HandleDayRollover runs the day-granular stage machine for every live
// agent, resets every economic location's daily counters, and maybe
// births a new child. It keeps no daily case or death totals: the
// new-case result of AdvanceDayStage is discarded. Deaths
// produced here (RECOVERED→SUSCEPTIBLE never kills) are impossible, so
// unlike HandleYearRollover this never needs a kill batch.
func (s *Simulation) HandleDayRollover() {
	if s.Config.Mode.EpidemicActive() {
		for _, a := range s.LivePopulation() {
			epidemic.AdvanceDayStage(a, s.Town)
		}
	}

	if s.Config.Mode.EconomicActive() {
		s.critical.WithLocationSet(func() {
			for _, region := range s.Town.Regions {
				for _, loc := range region.Locations {
					loc.StartNewDay()
				}
			}
		})
	}

	if rand.Float64() < BirthChancePerDay {
		s.birthOne()
	}
}

func (s *Simulation) birthOne() {
	s.critical.WithAgentSet(func() {
		a := s.spawner.Birth(s.Town, s.Config.InitialValue)
		s.population[a.ID] = a
		s.order = append(s.order, a.ID)
	})
}

// HandleYearRollover ages every live agent by one year, re-samples the
// adult chart for children crossing AdultAge, and kills agents reaching
// MaxAge. Per the batched-death Open Question decision, every year-
// rollover death is collected first and applied as one batch, followed by
// exactly one chart-refresh signal rather than one per aged agent.
func (s *Simulation) HandleYearRollover() {
	var toKill []*agents.Agent
	var crossedAdult []*agents.Agent

	for _, a := range s.LivePopulation() {
		a.Age++
		if a.Age >= MaxAge {
			toKill = append(toKill, a)
			continue
		}
		if !a.IsAdult && a.Age >= AdultAge {
			crossedAdult = append(crossedAdult, a)
		}
	}

	for _, a := range crossedAdult {
		a.IsAdult = true
		a.Chart = s.catalog.Sample(true)
		assignWorkIfMissing(s.Town, a)
	}

	for _, a := range toKill {
		s.killAgent(a)
	}

	if len(toKill) > 0 || len(crossedAdult) > 0 {
		s.critical.EnqueueGraphicsOp(GraphicsOp{Kind: "refresh-charts"})
	}
}

// assignWorkIfMissing attempts to place a newly-adult agent into a
// random WORK location (it keeps SCHOOL cleared and becomes UNEMPLOYED
// if the WORK region has no locations), mirroring the initial-spawn assignment path
// in internal/agents.Spawner.
func assignWorkIfMissing(t *town.Town, a *agents.Agent) {
	if id, ok := a.AssignedOrMissing(town.SCHOOL); ok {
		if loc := t.Regions[town.SCHOOL].Find(id); loc != nil {
			loc.RemoveMember(a.ID)
		}
		a.Assignments.Clear(town.SCHOOL)
	}
	if _, ok := a.AssignedOrMissing(town.WORK); ok {
		return
	}
	region := t.Regions[town.WORK]
	loc := region.RandomLocation()
	if loc == nil {
		a.EconStatus = a.EconStatus.WithUnemployed(true)
		return
	}
	loc.AddMember(a.ID)
	a.Assignments.Set(town.WORK, loc.ID)
	a.EconStatus = a.EconStatus.WithUnemployed(false)
}

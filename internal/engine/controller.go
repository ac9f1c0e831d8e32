package engine

import (
	"github.com/townsim/townsim/internal/agents"
	"github.com/townsim/townsim/internal/economic"
	"github.com/townsim/townsim/internal/epidemic"
	"github.com/townsim/townsim/internal/town"
)

// ControllerPass runs the hourly bundle of destination updates, epidemic
// updates, and economic updates, in the exact order spec §4.6 names. It
// is the one pass both pandemic-only and economic-only modes run too,
// simply with the other kernel's steps skipped.
func (s *Simulation) ControllerPass() {
	if s.critical.PollReset() {
		return
	}

	population := s.LivePopulation()

	// Step 1: reset proximity counters (stage populations are counted in
	// step 5).
	if s.Config.Mode.EpidemicActive() {
		epidemic.ResetProximityCounters(population)
	}

	// Step 2: lockdown classification.
	if s.Config.Mode.EpidemicActive() {
		s.critical.WithLocationSet(func() {
			epidemic.ClassifyLocations(s.Town, s.Flags, s.Config.Mode.Coupled())
		})
	}

	// Step 3: business overhead; bankrupt zero-value eligible businesses.
	if s.critical.PollReset() {
		return
	}
	if s.Config.Mode.EconomicActive() {
		s.runBusinessOverhead()
	}

	// Step 4: per-agent updates, reverse-index order for swap-erase safety.
	newDeaths := s.runPerAgentPass()
	if s.critical.PollReset() {
		return
	}

	// Step 5: spread proximity infection; maybe flag reintroduction.
	newExposures := 0
	if s.Config.Mode.EpidemicActive() {
		newExposures = s.spreadInfectionAndMaybeReintroduce()
	}

	// Step 6: maybe spawn a new business; distribute redistribution bucket.
	if s.Config.Mode.EconomicActive() {
		s.finishEconomicPass()
	}

	s.stats.RecordHour(newExposures, newDeaths)
}

func (s *Simulation) runBusinessOverhead() {
	s.critical.WithLocationSet(func() {
		eligible := economic.ApplyBusinessOverhead(s.Town, s.Clock.Hour)
		for _, w := range eligible {
			economic.MaybeBankrupt(w, s.Town, s.population, s.Clock.Day)
		}
	})
}

// runPerAgentPass walks the live population in reverse index order,
// running the scheduler/epidemic gate, the epidemic stage update
// (including death), and the economic value flow for each agent still
// alive afterward. Returns the count of deaths.
func (s *Simulation) runPerAgentPass() int {
	deaths := 0

	for i := len(s.order) - 1; i >= 0; i-- {
		if s.critical.PollReset() {
			return deaths
		}
		id := s.order[i]
		a, ok := s.population[id]
		if !ok || !a.Alive {
			continue
		}

		UpdateSingleDestination(a, s.Town, s.Clock.Hour, s.Flags)

		if s.Config.Mode.EpidemicActive() && a.Stage == agents.Infected {
			if epidemic.EvaluateDeath(a, s.Config.HospitalCapacity, s.currentInfectedCount()) {
				s.killAgent(a)
				deaths++
				continue
			}
		}

		if s.Config.Mode.EconomicActive() {
			economic.ApplyAgentFlow(a, s.Town, a.DestinationClass, s.population, &s.bucket, s.Clock.Day, s.vetoContext())
		}
	}

	return deaths
}

// vetoContext returns the coupled-mode veto context, or nil outside
// coupled mode where no individual status transition is gated.
func (s *Simulation) vetoContext() *economic.VetoContext {
	if !s.Config.Mode.Coupled() {
		return nil
	}
	ctx := economic.VetoContext{Flags: s.Flags, CurrentDay: s.Clock.Day}
	return &ctx
}

func (s *Simulation) currentInfectedCount() int {
	count := 0
	for _, a := range s.population {
		if a.Alive && a.Stage == agents.Infected {
			count++
		}
	}
	return count
}

// spreadInfectionAndMaybeReintroduce runs the proximity infection pass and
// the one-time initial seeding / spontaneous-reintroduction check, and
// returns how many agents were newly exposed this hour.
func (s *Simulation) spreadInfectionAndMaybeReintroduce() int {
	population := s.LivePopulation()
	epidemic.AccumulateProximityPressure(population)
	exposed := epidemic.EvaluateExposures(population, s.Flags)

	susceptible, exposedCount, infected, _ := epidemic.StagePopulations(population)
	if !s.initialInfectionDone {
		if s.Clock.Day >= s.Config.LagPeriod {
			epidemic.SeedInitialInfection(population, s.Config.InitialInfected)
			s.initialInfectionDone = true
		}
		return len(exposed)
	}
	if epidemic.MaybeFlagReintroduction(exposedCount, infected, susceptible) {
		epidemic.SeedInitialInfection(population, s.Config.InitialInfected)
	}
	return len(exposed)
}

func (s *Simulation) finishEconomicPass() {
	s.critical.WithLocationSet(func() {
		population := s.LivePopulation()
		s.hoursSinceLastBusinessBirth++
		if economic.MaybeSpawnBusiness(s.Town, population, s.Config.NumLocationsPerRegion, s.hoursSinceLastBusinessBirth) {
			s.hoursSinceLastBusinessBirth = 0
		}
		s.bucket.Distribute(s.Town, s.Config.Mode.EpidemicActive())

		if s.Flags.AnyAssistance() {
			economic.ApplyAssistanceBonus(s.Town, s.population, s.Flags)
			economic.ApplyAssistanceOverhead(s.Town, s.population, s.Flags)
		}
	})
}

// TotalEconomicValue sums every live agent's and every WORK location's
// value, used both for I6's conservation check and the policy state
// vector's percent-change slot.
func (s *Simulation) TotalEconomicValue() float64 {
	values := make([]float64, 0, len(s.Town.Regions[town.WORK].Locations))
	for _, w := range s.Town.Regions[town.WORK].Locations {
		values = append(values, w.Value)
	}
	return TotalValue(s.LivePopulation(), values)
}

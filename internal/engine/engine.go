package engine

import (
	"log/slog"
	"time"

	"github.com/townsim/townsim/internal/epidemic"
	"github.com/townsim/townsim/internal/policy"
)

// Engine drives a Simulation forward frame by frame, promoting hour and
// day/year boundaries into the controller pass and rollover handling as
// the Clock crosses them. Modeled on the source's tick-layer loop, with
// the render-synced tick interval replaced by the Pacer.
type Engine struct {
	Sim   *Simulation
	Pacer *Pacer

	log *slog.Logger

	OnHour func(s *Simulation)
	OnDay  func(s *Simulation)
}

func NewEngine(sim *Simulation, pacer *Pacer, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{Sim: sim, Pacer: pacer, log: logger}
}

// Run blocks, advancing frames until stopped by the Pacer no longer being
// resumed and the caller abandoning the call, or ctx-style cancellation
// performed by the caller clearing Pacer.continueFlag from another
// goroutine via Pause.
func (e *Engine) Run() {
	e.log.Info("engine started", "mode", e.Sim.Config.Mode)
	for e.Pacer.ShouldAdvance() {
		start := time.Now()
		e.Tick()
		e.Pacer.Wait(time.Since(start))
	}
	e.log.Info("engine stopped")
}

// Tick advances the simulation by exactly one frame: spatial movement for
// every live agent, then, on the frames where the Clock rolls into a new
// hour/day/year, the controller pass and rollover handling.
func (e *Engine) Tick() {
	if e.Sim.critical.ConsumeReset() {
		return
	}

	for _, a := range e.Sim.LivePopulation() {
		SpatialStep(a)
	}

	rollover := e.Sim.Clock.Advance()

	if rollover.Hour {
		e.runHour()
	}
	if rollover.Day {
		e.Sim.HandleDayRollover()
		if e.OnDay != nil {
			e.OnDay(e.Sim)
		}
	}
	if rollover.Year {
		e.Sim.HandleYearRollover()
	}
}

func (e *Engine) runHour() {
	e.Sim.ControllerPass()

	if e.Sim.collaborator != nil {
		e.applyPolicy()
	}

	if e.OnHour != nil {
		e.OnHour(e.Sim)
	}
}

// applyPolicy builds this hour's state vector, asks the collaborator for
// the next hour's flags, and stores both the reward signal and the new
// flags for the training loop (cmd/policytrain) to consume via Sim.Flags.
func (e *Engine) applyPolicy() {
	s := e.Sim
	pop := s.LivePopulation()
	susceptible, exposed, infected, recovered := epidemic.StagePopulations(pop)
	homeless, unemployed, total := economicCounts(s)

	totalValue := s.TotalEconomicValue()
	percentChange := s.stats.PercentChange(totalValue)

	state := policy.BuildStateVector(policy.StateInputs{
		NewExposuresLastHour: s.stats.lastExposures,
		NewExposuresLast24h:  s.stats.sum24hExposures(),
		DeathsLastHour:       s.stats.lastDeaths,
		DeathsLast24h:        s.stats.sum24hDeaths(),
		Susceptible:          susceptible,
		Exposed:              exposed,
		Infected:             infected,
		Recovered:            recovered,
		HospitalCapacity:     s.Config.HospitalCapacity,
		HomelessCount:        homeless,
		UnemployedCount:      unemployed,
		TotalAgents:          total,
		ValuePercentChange:   percentChange,
	})

	s.lastReward = policy.Reward(state, s.Config.RewardPolicy)
	s.lastState = state
	s.Flags = s.collaborator.Act(state)
}

func economicCounts(s *Simulation) (homeless, unemployed, total int) {
	pop := s.LivePopulation()
	for _, a := range pop {
		if !a.IsAdult {
			continue
		}
		if a.EconStatus.IsHomeless() {
			homeless++
		}
		if a.EconStatus.IsUnemployed() {
			unemployed++
		}
	}
	return homeless, unemployed, len(pop)
}

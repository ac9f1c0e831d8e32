package engine

import (
	"github.com/townsim/townsim/internal/epidemic"
	"github.com/townsim/townsim/internal/policy"
)

// Snapshot is the read-only view of simulation state the HTTP API and
// persistence layer serialize every hour; it never exposes population
// pointers, only aggregates.
type Snapshot struct {
	Year, Day, Hour int

	Susceptible, Exposed, Infected, Recovered int
	Homeless, Unemployed                      int
	TotalAgents                               int

	TotalValue float64
	Gini       float64

	LastReward float64
	Flags      policy.Flags
}

// Stats assembles the current Snapshot from the live population and town.
func (s *Simulation) Stats() Snapshot {
	pop := s.LivePopulation()
	susceptible, exposed, infected, recovered := epidemic.StagePopulations(pop)
	homeless, unemployed, total := economicCounts(s)

	values := make([]float64, 0, len(pop))
	for _, a := range pop {
		values = append(values, a.Value)
	}

	return Snapshot{
		Year: s.Clock.Year, Day: s.Clock.Day, Hour: s.Clock.Hour,
		Susceptible: susceptible, Exposed: exposed, Infected: infected, Recovered: recovered,
		Homeless: homeless, Unemployed: unemployed, TotalAgents: total,
		TotalValue: s.TotalEconomicValue(),
		Gini:       GiniCoefficient(values),
		LastReward: s.lastReward,
		Flags:      s.Flags,
	}
}

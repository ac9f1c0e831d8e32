package epidemic

import (
	"math/rand/v2"

	"github.com/townsim/townsim/internal/agents"
	"github.com/townsim/townsim/internal/town"
)

// SpontaneousReintroductionChance is the per-hour probability of flagging
// a reintroduction when the epidemic has burned out.
const SpontaneousReintroductionChance = 1.0 / 600

// MaybeFlagReintroduction reports, with probability
// SpontaneousReintroductionChance, that a reintroduction fires when the
// outbreak has burned out (no EXPOSED or INFECTED agents remain) but
// susceptibles still exist. It keeps no flag for a later pass: the
// controller seeds the new exposures in the same pass.
func MaybeFlagReintroduction(exposed, infected, susceptible int) bool {
	if exposed+infected != 0 || susceptible <= 0 {
		return false
	}
	return rand.Float64() < SpontaneousReintroductionChance
}

// SeedInitialInfection picks count live, SUSCEPTIBLE agents uniformly and
// exposes them — used both for the one-time initial seeding after
// lag_period days and again after every spontaneous-reintroduction flip.
func SeedInitialInfection(population []*agents.Agent, count int) {
	candidates := make([]*agents.Agent, 0, len(population))
	for _, a := range population {
		if a.Stage == agents.Susceptible {
			candidates = append(candidates, a)
		}
	}
	rand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if count > len(candidates) {
		count = len(candidates)
	}
	for i := 0; i < count; i++ {
		MakeExposed(candidates[i])
	}
}

// StagePopulations counts the live population in each SEIR stage.
func StagePopulations(population []*agents.Agent) (s, e, i, r int) {
	for _, a := range population {
		switch a.Stage {
		case agents.Susceptible:
			s++
		case agents.Exposed:
			e++
		case agents.Infected:
			i++
		case agents.Recovered:
			r++
		}
	}
	return
}

// CountInfectedAt returns how many live agents at loc are INFECTED,
// matching the num_infected invariant definition used by property tests.
func CountInfectedAt(population []*agents.Agent, t *town.Town, loc *town.Location, class town.RegionClass) int {
	count := 0
	for _, a := range population {
		if !a.Alive || a.Stage != agents.Infected {
			continue
		}
		if id, ok := a.AssignedOrMissing(class); ok && id == loc.ID {
			count++
		}
	}
	return count
}

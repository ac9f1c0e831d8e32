package economic

import (
	"math/rand/v2"

	"github.com/townsim/townsim/internal/agents"
	"github.com/townsim/townsim/internal/town"
)

// NewBusinessChance is the per-hour probability of attempting a new
// WORK+LEISURE pair when the WORK count is below target, gated by a
// 24-hour cooldown since the last birth.
const NewBusinessChance = 1.0 / 5

// MaybeSpawnBusiness creates a new WORK+LEISURE sibling pair when the
// current WORK count is below targetWorkCount and the cooldown has
// elapsed, drawing up to 5 unemployed hires (or up to 3 random employed
// hires if none are unemployed) and attaching a random 3-12 membership to
// the new LEISURE. Returns true if a business was created.
func MaybeSpawnBusiness(t *town.Town, population []*agents.Agent, targetWorkCount int, hoursSinceLastBirth int) bool {
	if len(t.Regions[town.WORK].Locations) >= targetWorkCount {
		return false
	}
	if hoursSinceLastBirth < NewBusinessCooldownHours {
		return false
	}
	if rand.Float64() >= NewBusinessChance {
		return false
	}

	value := float64(pick(NewBusinessMinValue, NewBusinessMaxValue))
	work := town.NewLocation(0, town.WORK, t.Regions[town.WORK].RandomCoordinate(), sampleBusinessCost(town.WORK))
	leisure := town.NewLocation(0, town.LEISURE, t.Regions[town.LEISURE].RandomCoordinate(), sampleBusinessCost(town.LEISURE))
	work.Value = value
	t.Regions[town.WORK].AddLocation(work)
	t.Regions[town.LEISURE].AddLocation(leisure)
	work.Sibling = leisure.ID
	leisure.Sibling = work.ID

	hireEmployees(work, population)
	attachLeisureMembers(leisure, population)
	return true
}

func sampleBusinessCost(class town.RegionClass) float64 {
	switch class {
	case town.WORK:
		return float64(5 + rand.IntN(2))
	case town.LEISURE:
		return float64(3 + rand.IntN(5))
	default:
		return 1
	}
}

func hireEmployees(work *town.Location, population []*agents.Agent) {
	var unemployed, employed []*agents.Agent
	for _, a := range population {
		if !a.IsAdult || !a.Alive {
			continue
		}
		if a.EconStatus.IsUnemployed() {
			unemployed = append(unemployed, a)
		} else if _, ok := a.AssignedOrMissing(town.WORK); ok {
			employed = append(employed, a)
		}
	}

	hireFrom := unemployed
	limit := 5
	if len(unemployed) == 0 {
		hireFrom = employed
		limit = 3
	}
	shuffle(hireFrom)
	for i := 0; i < limit && i < len(hireFrom); i++ {
		a := hireFrom[i]
		a.Assignments.Set(town.WORK, work.ID)
		work.AddMember(a.ID)
		a.EconStatus = a.EconStatus.WithUnemployed(false)
		a.HoursOfEmployment = 0
	}
}

func attachLeisureMembers(leisure *town.Location, population []*agents.Agent) {
	target := pick(3, 12)
	candidates := make([]*agents.Agent, 0, len(population))
	for _, a := range population {
		if a.Alive {
			candidates = append(candidates, a)
		}
	}
	shuffle(candidates)
	for i := 0; i < target && i < len(candidates); i++ {
		a := candidates[i]
		a.Assignments.Set(town.LEISURE, leisure.ID)
		leisure.AddMember(a.ID)
	}
}

func shuffle(a []*agents.Agent) {
	rand.Shuffle(len(a), func(i, j int) { a[i], a[j] = a[j], a[i] })
}

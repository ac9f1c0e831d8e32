package agents

import (
	"math/rand/v2"

	"github.com/townsim/townsim/internal/behavior"
	"github.com/townsim/townsim/internal/town"
)

// Spawner creates the initial cohort and, later, occasional births. It
// owns the monotonically increasing agent id counter.
type Spawner struct {
	Catalog *behavior.Catalog
	nextID  town.AgentID
}

// NewSpawner returns a Spawner drawing charts from cat.
func NewSpawner(cat *behavior.Catalog) *Spawner {
	return &Spawner{Catalog: cat}
}

// sampleHealth draws a health tier with the 50/25/15/10 distribution
// proportional to the US population that the source seeds every new agent
// with.
func sampleHealth() Health {
	r := rand.IntN(100)
	switch {
	case r < 50:
		return Healthy
	case r < 75:
		return Moderate
	case r < 90:
		return Poor
	default:
		return VeryPoor
	}
}

// weightedAge draws an initial-cohort age skewed toward working adults
// (18-65) with a lighter tail of children and retirees, rather than a flat
// uniform draw over [0,100).
func weightedAge() int {
	r := rand.Float64()
	switch {
	case r < 0.20:
		return rand.IntN(18) // child
	case r < 0.85:
		return 18 + rand.IntN(47) // working adult, 18-64
	default:
		return 65 + rand.IntN(35) // senior, 65-99
	}
}

// SpawnInitialCohort creates n agents, assigns them HOME/SCHOOL-or-WORK/
// LEISURE locations from t, and returns the populated slice. Agents with
// no reachable location of an assignable class (empty region) start with
// that slot null, recovered later as AssignmentMissing.
func (s *Spawner) SpawnInitialCohort(t *town.Town, n int, initialValue float64) []*Agent {
	out := make([]*Agent, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, s.spawnOne(t, weightedAge(), initialValue))
	}
	return out
}

// Birth creates a single age-zero agent, used by the birth event that the
// engine attempts once per day rollover (not once per tick).
func (s *Spawner) Birth(t *town.Town, initialValue float64) *Agent {
	return s.spawnOne(t, 0, initialValue)
}

func (s *Spawner) spawnOne(t *town.Town, age int, initialValue float64) *Agent {
	isAdult := age >= 18
	chart := s.Catalog.Sample(isAdult)

	a := &Agent{
		ID:          s.nextID,
		Age:         age,
		Chart:       chart,
		IsAdult:     isAdult,
		Assignments: NewAssignments(),
		Stage:       Susceptible,
		Health:      sampleHealth(),
		Compliant:   true,
		Value:       initialValue,
		Alive:       true,
	}
	s.nextID++

	assignLocation(t, a, town.HOME)
	assignLocation(t, a, town.LEISURE)
	if isAdult {
		assignLocation(t, a, town.WORK)
	} else {
		assignLocation(t, a, town.SCHOOL)
	}

	start := chart.StartingDestination()
	a.DestinationClass = start
	a.HasDestinationClass = true
	if id, ok := a.AssignedOrMissing(start); ok {
		loc := t.Regions[start].Find(id)
		if loc != nil {
			a.Position = loc.Position
			a.Destination = loc.Position
		}
	} else {
		a.Position = t.Regions[start].RandomCoordinate()
		a.Destination = a.Position
	}

	if home, ok := a.AssignedOrMissing(town.HOME); !ok {
		_ = home
		a.EconStatus = a.EconStatus.WithHomeless(true)
	}
	if isAdult {
		if _, ok := a.AssignedOrMissing(town.WORK); !ok {
			a.EconStatus = a.EconStatus.WithUnemployed(true)
		}
	}
	return a
}

// assignLocation attaches a to a uniformly chosen location of class,
// updating both the agent's assignment slot and the location's membership
// set. A class with no locations leaves the assignment null.
func assignLocation(t *town.Town, a *Agent, class town.RegionClass) {
	region := t.Regions[class]
	loc := region.RandomLocation()
	if loc == nil {
		return
	}
	a.Assignments.Set(class, loc.ID)
	loc.AddMember(a.ID)
}

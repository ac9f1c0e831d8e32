package town

import "github.com/townsim/townsim/internal/geometry"

// NoSibling marks a WORK or LEISURE location with no (or not-yet-assigned)
// sibling.
const NoSibling LocationID = -1

// Location is a point owned by exactly one Region, holding a membership set
// of agents and the role-specific counters the pandemic and economic
// kernels maintain on it.
type Location struct {
	ID       LocationID
	Position geometry.Point
	Class    RegionClass
	Members  map[AgentID]struct{}

	// Pandemic role.
	Status      PandemicStatus
	NumInfected int

	// Economic role (meaningful for WORK and LEISURE; HOME/SCHOOL carry a
	// fixed Cost and an always-zero Value).
	Value                float64
	Cost                 float64
	DailyValueChange     float64
	YesterdayValueChange float64
	DaysOpen             int
	DailyHire            bool
	Sibling              LocationID
}

// NewLocation builds a location of the given class at position pos with
// the given per-visit cost. Siblings default to NoSibling.
func NewLocation(id LocationID, class RegionClass, pos geometry.Point, cost float64) *Location {
	return &Location{
		ID:       id,
		Position: pos,
		Class:    class,
		Members:  make(map[AgentID]struct{}),
		Cost:     cost,
		Sibling:  NoSibling,
	}
}

// AddMember records that agent a is now assigned here.
func (l *Location) AddMember(a AgentID) {
	l.Members[a] = struct{}{}
}

// RemoveMember records that agent a is no longer assigned here.
func (l *Location) RemoveMember(a AgentID) {
	delete(l.Members, a)
}

// Occupancy returns num_infected / len(Members), or 0 for an empty location.
func (l *Location) Occupancy() float64 {
	if len(l.Members) == 0 {
		return 0
	}
	return float64(l.NumInfected) / float64(len(l.Members))
}

// StartNewDay rolls the daily economic counters: yesterday's change becomes
// today's baseline, the hiring flag resets, and the business ages a day.
func (l *Location) StartNewDay() {
	l.YesterdayValueChange = l.DailyValueChange
	l.DailyValueChange = 0
	l.DailyHire = false
	l.DaysOpen++
}

// IsHiring reports whether this WORK location is accepting new employees
// today, per the new-business and employment-flow rules.
func (l *Location) IsHiring(cost float64) bool {
	return l.YesterdayValueChange > 2*cost && !l.DailyHire
}

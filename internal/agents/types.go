// Package agents defines the Agent record: a single struct carrying the
// pandemic and economic role fields together, rather than the multiple
// inheritance the system this is modeled on used to compose them.
package agents

import (
	"github.com/townsim/townsim/internal/behavior"
	"github.com/townsim/townsim/internal/geometry"
	"github.com/townsim/townsim/internal/town"
)

// Stage is the pandemic compartment an agent occupies.
type Stage int

const (
	Susceptible Stage = iota
	Exposed
	Infected
	Recovered
)

func (s Stage) String() string {
	switch s {
	case Susceptible:
		return "Susceptible"
	case Exposed:
		return "Exposed"
	case Infected:
		return "Infected"
	case Recovered:
		return "Recovered"
	default:
		return "Unknown"
	}
}

// Health is an agent's baseline constitution, sampled once at birth and
// fixed thereafter. It divides survival odds during the death evaluation.
type Health int

const (
	Healthy Health = iota
	Moderate
	Poor
	VeryPoor
)

// HealthDivisor is the divisor evaluate_death_probability applies for each
// health tier.
func (h Health) HealthDivisor() float64 {
	switch h {
	case Healthy:
		return 1
	case Moderate:
		return 2
	case Poor:
		return 3
	case VeryPoor:
		return 4
	default:
		return 1
	}
}

// EconStatus is an agent's composite economic standing. Both components
// can hold at once: Both means simultaneously homeless and unemployed.
type EconStatus int

const (
	EconNormal EconStatus = iota
	EconUnemployed
	EconHomeless
	EconBoth
)

func (s EconStatus) IsHomeless() bool {
	return s == EconHomeless || s == EconBoth
}

func (s EconStatus) IsUnemployed() bool {
	return s == EconUnemployed || s == EconBoth
}

// WithHomeless returns the status with the homeless component set or
// cleared, preserving the unemployed component.
func (s EconStatus) WithHomeless(homeless bool) EconStatus {
	return combine(homeless, s.IsUnemployed())
}

// WithUnemployed returns the status with the unemployed component set or
// cleared, preserving the homeless component.
func (s EconStatus) WithUnemployed(unemployed bool) EconStatus {
	return combine(s.IsHomeless(), unemployed)
}

func combine(homeless, unemployed bool) EconStatus {
	switch {
	case homeless && unemployed:
		return EconBoth
	case homeless:
		return EconHomeless
	case unemployed:
		return EconUnemployed
	default:
		return EconNormal
	}
}

// Assignments indexes an agent's four per-class location slots.
type Assignments [4]town.LocationID

func (a *Assignments) Get(class town.RegionClass) town.LocationID {
	return a[class]
}

func (a *Assignments) Set(class town.RegionClass, id town.LocationID) {
	a[class] = id
}

func (a *Assignments) Clear(class town.RegionClass) {
	a[class] = town.NoLocation
}

// Agent is a single record owning both the pandemic and economic role
// fields; kernels operate on it through typed accessor methods rather than
// through separate virtual subtypes.
type Agent struct {
	ID    town.AgentID
	Age   int
	Chart *behavior.Chart
	IsAdult bool

	Position         geometry.Point
	Destination      geometry.Point
	Speed            float64
	DestinationClass town.RegionClass
	// HasDestinationClass is false before the agent's first destination
	// sample (e.g. within its creation tick).
	HasDestinationClass bool

	Assignments Assignments

	// Pandemic role.
	Stage          Stage
	Health         Health
	DaysInStage    int
	NearbyInfected int
	Compliant      bool

	// Economic role.
	Value               float64
	EconStatus          EconStatus
	HoursOfEmployment   int
	HoursOfUnemployment int

	// Alive is false once the agent has been removed from the arena but
	// before its slot has been reused; engine bookkeeping only.
	Alive bool
}

// NewAssignments returns an all-null assignment set.
func NewAssignments() Assignments {
	return Assignments{town.NoLocation, town.NoLocation, town.NoLocation, town.NoLocation}
}

// AssignedOrMissing reports whether the agent has a non-null assignment
// for class, and what it is.
func (a *Agent) AssignedOrMissing(class town.RegionClass) (town.LocationID, bool) {
	id := a.Assignments.Get(class)
	return id, id != town.NoLocation
}

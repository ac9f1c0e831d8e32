// Package behavior holds the immutable Behavior Catalog: adult and child
// behavior charts, each a selection weight plus a sparse hour→assignment
// map, and the weighted sampling used to pick one at birth and a
// destination class each simulated hour.
package behavior

import (
	"math/rand/v2"

	"github.com/townsim/townsim/internal/town"
)

// Assignment is what a chart says to do at a given hour: either a single
// destination class, or a weighted distribution over classes. A nil
// Assignment (or a missing hour key) means NO_CHANGE.
type Assignment struct {
	Single  *town.RegionClass
	Weights map[town.RegionClass]float64
}

// Chart is one immutable behavior chart: a selection weight and a sparse
// hour→assignment map. Hour 0 is guaranteed present by CatalogInvalid
// validation at load time.
type Chart struct {
	Name   string
	Weight float64
	Hours  map[int]*Assignment
}

// AssignmentAt returns the destination class chosen for this chart at the
// given hour, and whether the hour resolved to NO_CHANGE.
func (c *Chart) AssignmentAt(hour int) (town.RegionClass, bool) {
	a, ok := c.Hours[hour]
	if !ok || a == nil {
		return 0, true
	}
	if a.Single != nil {
		return *a.Single, false
	}
	return sampleWeighted(a.Weights), false
}

// sampleWeighted draws from a weighted distribution over destination
// classes in proportion to the raw relative weights, which need not sum
// to 1 or to 100.
func sampleWeighted(weights map[town.RegionClass]float64) town.RegionClass {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return town.HOME
	}
	classes := make([]town.RegionClass, 0, len(weights))
	for class := range weights {
		classes = append(classes, class)
	}
	// Fixed class order, so which class a draw maps to does not depend on
	// map iteration order.
	sortClasses(classes)

	draw := rand.Float64() * total
	cumulative := 0.0
	for _, class := range classes {
		cumulative += weights[class]
		if draw < cumulative {
			return class
		}
	}
	return classes[len(classes)-1]
}

func sortClasses(classes []town.RegionClass) {
	for i := 1; i < len(classes); i++ {
		for j := i; j > 0 && classes[j] < classes[j-1]; j-- {
			classes[j], classes[j-1] = classes[j-1], classes[j]
		}
	}
}

// StartingDestination returns the assignment at hour 0, which every valid
// chart must specify.
func (c *Chart) StartingDestination() town.RegionClass {
	class, noChange := c.AssignmentAt(0)
	if noChange {
		// Unreachable for a catalog that passed validation.
		return town.HOME
	}
	return class
}

package town

import (
	"math/rand/v2"

	"github.com/townsim/townsim/internal/geometry"
)

// regionInset is the rejection-sampling margin kept clear of a region's
// edges when sampling an interior coordinate.
const regionInset = 10

// Region is one of the four axis-aligned square tiles (HOME, WORK, SCHOOL,
// LEISURE) that exclusively owns an ordered sequence of Locations.
type Region struct {
	Class     RegionClass
	Name      string
	Color     string
	Origin    geometry.Point
	Side      float64
	Locations []*Location

	nextLocalID LocationID
}

// NewRegion builds an empty region of the given class.
func NewRegion(class RegionClass, name, color string, origin geometry.Point, side float64) *Region {
	return &Region{Class: class, Name: name, Color: color, Origin: origin, Side: side}
}

// RandomCoordinate rejection-samples a point in the region's interior,
// inset by regionInset pixels from every edge.
func (r *Region) RandomCoordinate() geometry.Point {
	lo := regionInset
	hi := r.Side - regionInset
	if hi <= float64(lo) {
		// Region too small for an inset: fall back to the full square.
		return geometry.Point{
			X: r.Origin.X + rand.Float64()*r.Side,
			Y: r.Origin.Y + rand.Float64()*r.Side,
		}
	}
	return geometry.Point{
		X: r.Origin.X + float64(lo) + rand.Float64()*(hi-float64(lo)),
		Y: r.Origin.Y + float64(lo) + rand.Float64()*(hi-float64(lo)),
	}
}

// RandomLocation returns a uniformly chosen owned location, or nil if the
// region is empty.
func (r *Region) RandomLocation() *Location {
	if len(r.Locations) == 0 {
		return nil
	}
	return r.Locations[rand.IntN(len(r.Locations))]
}

// AddLocation appends loc to the region's owned sequence and assigns it the
// next stable id local to this region.
func (r *Region) AddLocation(loc *Location) {
	loc.ID = r.nextLocalID
	r.nextLocalID++
	r.Locations = append(r.Locations, loc)
}

// RemoveLocation finds the location with the given id, swaps it with the
// last element, and drops it: O(n), stable ids, unstable ordering.
func (r *Region) RemoveLocation(id LocationID) bool {
	for i, loc := range r.Locations {
		if loc.ID == id {
			last := len(r.Locations) - 1
			r.Locations[i] = r.Locations[last]
			r.Locations[last] = nil
			r.Locations = r.Locations[:last]
			return true
		}
	}
	return false
}

// Find returns the location with the given id, or nil.
func (r *Region) Find(id LocationID) *Location {
	for _, loc := range r.Locations {
		if loc.ID == id {
			return loc
		}
	}
	return nil
}

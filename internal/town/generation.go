package town

import (
	"math/rand/v2"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/townsim/townsim/internal/geometry"
)

// baseSide is the side length a region's square grows from: each location
// per region adds a quarter of it (a one-location region has side 100).
const baseSide = 80.0

// Town bundles the four regions and the single out-of-region homeless
// shelter that the Simulation owns.
type Town struct {
	Regions map[RegionClass]*Region
	Shelter *Location
}

// GenerateConfig parameterizes initial town layout.
type GenerateConfig struct {
	LocationsPerRegion int
	Seed               int64
}

var quadrantOrigin = map[RegionClass]geometry.Point{
	HOME:    {X: 0, Y: 0},
	WORK:    {X: 600, Y: 0},
	SCHOOL:  {X: 0, Y: 600},
	LEISURE: {X: 600, Y: 600},
}

var regionMeta = map[RegionClass]struct {
	name  string
	color string
}{
	HOME:    {"Home", "#4C9F70"},
	WORK:    {"Work", "#4472C4"},
	SCHOOL:  {"School", "#ED7D31"},
	LEISURE: {"Leisure", "#A259C6"},
}

// Generate lays out the four regions and populates each with
// cfg.LocationsPerRegion locations, wiring a one-to-one WORK/LEISURE
// sibling pairing. Region origins are perturbed by a low-amplitude simplex
// field keyed on the seed so repeated runs with different seeds don't
// produce a mechanically identical grid; this never touches a tested
// invariant, purely the display layout.
func Generate(cfg GenerateConfig) *Town {
	noise := opensimplex.NewNormalized(cfg.Seed)
	side := baseSide * (1 + float64(cfg.LocationsPerRegion)/4)

	t := &Town{Regions: make(map[RegionClass]*Region, 4)}
	for _, class := range []RegionClass{HOME, WORK, SCHOOL, LEISURE} {
		meta := regionMeta[class]
		origin := quadrantOrigin[class]
		jitterX := (noise.Eval2(float64(class)*10, 0) - 0.5) * 40
		jitterY := (noise.Eval2(float64(class)*10, 10) - 0.5) * 40
		origin.X += jitterX
		origin.Y += jitterY
		t.Regions[class] = NewRegion(class, meta.name, meta.color, origin, side)
	}

	work := t.Regions[WORK]
	leisure := t.Regions[LEISURE]
	for i := 0; i < cfg.LocationsPerRegion; i++ {
		w := NewLocation(0, WORK, work.RandomCoordinate(), sampleCost(WORK))
		l := NewLocation(0, LEISURE, leisure.RandomCoordinate(), sampleCost(LEISURE))
		work.AddLocation(w)
		leisure.AddLocation(l)
		w.Sibling = l.ID
		l.Sibling = w.ID
	}

	home := t.Regions[HOME]
	for i := 0; i < cfg.LocationsPerRegion; i++ {
		home.AddLocation(NewLocation(0, HOME, home.RandomCoordinate(), sampleCost(HOME)))
	}
	school := t.Regions[SCHOOL]
	for i := 0; i < cfg.LocationsPerRegion; i++ {
		school.AddLocation(NewLocation(0, SCHOOL, school.RandomCoordinate(), sampleCost(SCHOOL)))
	}

	t.Shelter = NewLocation(0, HOME, geometry.Point{X: -200, Y: -200}, 0)
	return t
}

// sampleCost draws the per-visit cost for a newly created location of the
// given class: HOME and SCHOOL are fixed, WORK and LEISURE are sampled
// ranges.
func sampleCost(class RegionClass) float64 {
	switch class {
	case HOME, SCHOOL:
		return 1
	case WORK:
		return float64(5 + rand.IntN(2)) // [5,6]
	case LEISURE:
		return float64(3 + rand.IntN(5)) // [3,7]
	default:
		return 1
	}
}

package town

import (
	"testing"

	"github.com/townsim/townsim/internal/geometry"
)

func TestRandomCoordinateStaysInset(t *testing.T) {
	r := NewRegion(HOME, "Home", "#fff", geometry.Point{X: 0, Y: 0}, 100)
	for i := 0; i < 200; i++ {
		p := r.RandomCoordinate()
		if p.X < regionInset || p.X > 100-regionInset {
			t.Fatalf("x coordinate %v escaped inset", p.X)
		}
		if p.Y < regionInset || p.Y > 100-regionInset {
			t.Fatalf("y coordinate %v escaped inset", p.Y)
		}
	}
}

func TestRandomLocationEmptyIsNil(t *testing.T) {
	r := NewRegion(WORK, "Work", "#fff", geometry.Point{}, 100)
	if got := r.RandomLocation(); got != nil {
		t.Fatalf("expected nil from empty region, got %v", got)
	}
}

func TestRemoveLocationSwapErase(t *testing.T) {
	r := NewRegion(WORK, "Work", "#fff", geometry.Point{}, 100)
	var ids []LocationID
	for i := 0; i < 5; i++ {
		loc := NewLocation(0, WORK, geometry.Point{}, 5)
		r.AddLocation(loc)
		ids = append(ids, loc.ID)
	}
	if !r.RemoveLocation(ids[1]) {
		t.Fatal("expected removal to succeed")
	}
	if len(r.Locations) != 4 {
		t.Fatalf("expected 4 remaining locations, got %d", len(r.Locations))
	}
	if r.Find(ids[1]) != nil {
		t.Fatal("removed location still findable")
	}
	for _, id := range []LocationID{ids[0], ids[2], ids[3], ids[4]} {
		if r.Find(id) == nil {
			t.Fatalf("location %d should still be present", id)
		}
	}
}

func TestClockRollover(t *testing.T) {
	c := NewClock(2)
	r := c.Advance()
	if r.Hour || r.Day || r.Year {
		t.Fatalf("unexpected rollover on first frame: %+v", r)
	}
	r = c.Advance()
	if !r.Hour || r.Day || r.Year {
		t.Fatalf("expected hour rollover only, got %+v", r)
	}
	if c.Hour != 1 || c.Frame != 0 {
		t.Fatalf("unexpected clock state after hour rollover: %+v", c)
	}
}

func TestClockDayAndYearRollover(t *testing.T) {
	c := NewClock(1)
	for h := 0; h < 23; h++ {
		c.Advance()
	}
	r := c.Advance()
	if !r.Hour || !r.Day {
		t.Fatalf("expected day rollover at hour 24, got %+v", r)
	}
	if c.Day != 1 || c.Hour != 0 {
		t.Fatalf("unexpected state: %+v", c)
	}

	for h := 0; h < 364*24-1; h++ {
		c.Advance()
	}
	r = c.Advance()
	if !r.Year || c.Year != 1 || c.Day != 0 {
		t.Fatalf("expected year rollover at day 365, got %+v, state %+v", r, c)
	}
}

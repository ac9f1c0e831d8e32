package agents

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/townsim/townsim/internal/behavior"
	"github.com/townsim/townsim/internal/town"
)

func testCatalog(t *testing.T) *behavior.Catalog {
	t.Helper()
	dir := t.TempDir()
	write := func(name, body string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("adult_worker.json", `{"Probability": 1, "0": "Home", "8": "Work"}`)
	write("child_student.json", `{"Probability": 1, "0": "Home", "8": "School"}`)
	cat, err := behavior.LoadCatalog(dir)
	if err != nil {
		t.Fatal(err)
	}
	return cat
}

func testTown(t *testing.T) *town.Town {
	t.Helper()
	return town.Generate(town.GenerateConfig{LocationsPerRegion: 5, Seed: 1})
}

func TestSpawnInitialCohortAssignsCoupledRoles(t *testing.T) {
	cat := testCatalog(t)
	tn := testTown(t)
	sp := NewSpawner(cat)

	cohort := sp.SpawnInitialCohort(tn, 50, 100)
	if len(cohort) != 50 {
		t.Fatalf("expected 50 agents, got %d", len(cohort))
	}
	for _, a := range cohort {
		if a.IsAdult && a.Age < 18 {
			t.Fatalf("adult agent has child age %d", a.Age)
		}
		if !a.IsAdult && a.Age >= 18 {
			t.Fatalf("child agent has adult age %d", a.Age)
		}
		if a.IsAdult {
			if _, ok := a.AssignedOrMissing(town.SCHOOL); ok {
				t.Fatal("adult should not have a SCHOOL assignment")
			}
		} else {
			if _, ok := a.AssignedOrMissing(town.WORK); ok {
				t.Fatal("child should not have a WORK assignment")
			}
			if a.EconStatus.IsUnemployed() {
				t.Fatal("a child with no WORK assignment must stay NORMAL, not UNEMPLOYED")
			}
		}
	}
}

func TestBirthProducesAgeZeroChild(t *testing.T) {
	cat := testCatalog(t)
	tn := testTown(t)
	sp := NewSpawner(cat)

	a := sp.Birth(tn, 10)
	if a.Age != 0 {
		t.Fatalf("expected age 0, got %d", a.Age)
	}
	if a.IsAdult {
		t.Fatal("age-zero agent must not be adult")
	}
}

func TestAgentIDsAreUnique(t *testing.T) {
	cat := testCatalog(t)
	tn := testTown(t)
	sp := NewSpawner(cat)
	seen := map[town.AgentID]bool{}
	for _, a := range sp.SpawnInitialCohort(tn, 100, 10) {
		if seen[a.ID] {
			t.Fatalf("duplicate agent id %d", a.ID)
		}
		seen[a.ID] = true
	}
}

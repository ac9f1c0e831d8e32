package economic

import (
	"testing"

	"github.com/townsim/townsim/internal/agents"
	"github.com/townsim/townsim/internal/town"
)

func newTown(t *testing.T) *town.Town {
	t.Helper()
	return town.Generate(town.GenerateConfig{LocationsPerRegion: 4, Seed: 3})
}

func newAgent(id town.AgentID) *agents.Agent {
	return &agents.Agent{ID: id, Assignments: agents.NewAssignments(), Alive: true, IsAdult: true}
}

// TestBankruptcyDestroysSiblingsAtomically exercises I3.
func TestBankruptcyDestroysSiblingsAtomically(t *testing.T) {
	tn := newTown(t)
	work := tn.Regions[town.WORK].Locations[0]
	leisure := tn.Regions[town.LEISURE].Find(work.Sibling)
	if leisure == nil {
		t.Fatal("expected a sibling leisure location")
	}

	worker := newAgent(1)
	worker.Assignments.Set(town.WORK, work.ID)
	work.AddMember(worker.ID)

	customer := newAgent(2)
	customer.Assignments.Set(town.LEISURE, leisure.ID)
	leisure.AddMember(customer.ID)

	population := map[town.AgentID]*agents.Agent{worker.ID: worker, customer.ID: customer}
	workID, leisureID := work.ID, leisure.ID

	Bankrupt(work, tn, population)

	if tn.Regions[town.WORK].Find(workID) != nil {
		t.Fatal("work location should have been removed")
	}
	if tn.Regions[town.LEISURE].Find(leisureID) != nil {
		t.Fatal("sibling leisure location should have been removed")
	}
	if !worker.EconStatus.IsUnemployed() {
		t.Fatal("worker should be UNEMPLOYED after bankruptcy")
	}
	if _, ok := worker.AssignedOrMissing(town.WORK); ok {
		t.Fatal("worker's WORK assignment should be null")
	}
}

// TestMakeHomelessThenRehouseRestoresNormal exercises R1.
func TestMakeHomelessThenRehouseRestoresNormal(t *testing.T) {
	tn := newTown(t)
	homeRegion := tn.Regions[town.HOME]
	home := homeRegion.Locations[0]

	a := newAgent(1)
	a.Assignments.Set(town.HOME, home.ID)
	home.AddMember(a.ID)

	MakeHomeless(a, homeRegion, home.ID)
	if !a.EconStatus.IsHomeless() {
		t.Fatal("expected HOMELESS status")
	}
	if _, ok := a.AssignedOrMissing(town.HOME); ok {
		t.Fatal("expected null HOME assignment")
	}

	a.Value = 1000
	newHome := homeRegion.Locations[1]
	a.Assignments.Set(town.HOME, newHome.ID)
	newHome.AddMember(a.ID)
	a.EconStatus = a.EconStatus.WithHomeless(false)

	if a.EconStatus.IsHomeless() {
		t.Fatal("expected status to clear homelessness")
	}
	if id, ok := a.AssignedOrMissing(town.HOME); !ok || id != newHome.ID {
		t.Fatal("expected HOME assignment restored")
	}
}

func TestEconStatusBothCombinator(t *testing.T) {
	var s agents.EconStatus
	s = s.WithHomeless(true)
	s = s.WithUnemployed(true)
	if s != agents.EconBoth {
		t.Fatalf("expected EconBoth, got %v", s)
	}
	if !s.IsHomeless() || !s.IsUnemployed() {
		t.Fatal("EconBoth must report both")
	}
	s = s.WithHomeless(false)
	if s != agents.EconUnemployed {
		t.Fatalf("expected EconUnemployed after clearing homeless, got %v", s)
	}
}

func TestNewBusinessAttachesSiblingAndMembership(t *testing.T) {
	tn := newTown(t)
	var population []*agents.Agent
	for i := 0; i < 10; i++ {
		a := newAgent(town.AgentID(i))
		a.EconStatus = a.EconStatus.WithUnemployed(true)
		population = append(population, a)
	}

	before := len(tn.Regions[town.WORK].Locations)
	created := false
	for i := 0; i < 200 && !created; i++ {
		created = MaybeSpawnBusiness(tn, population, before+1, NewBusinessCooldownHours)
	}
	if !created {
		t.Fatal("expected a new business to eventually spawn")
	}
	after := len(tn.Regions[town.WORK].Locations)
	if after != before+1 {
		t.Fatalf("expected exactly one new WORK location, got delta %d", after-before)
	}
	newWork := tn.Regions[town.WORK].Locations[after-1]
	sibling := tn.Regions[town.LEISURE].Find(newWork.Sibling)
	if sibling == nil || sibling.Sibling != newWork.ID {
		t.Fatal("expected a reciprocal WORK/LEISURE sibling pair")
	}
	if len(newWork.Members) != 5 {
		t.Fatalf("expected 5 unemployed hires at the new WORK, got %d", len(newWork.Members))
	}
	if len(sibling.Members) < 3 {
		t.Fatalf("expected at least 3 members attached to the new LEISURE, got %d", len(sibling.Members))
	}
}

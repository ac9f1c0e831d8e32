package engine

import (
	"fmt"
	"log/slog"

	"github.com/townsim/townsim/internal/agents"
	"github.com/townsim/townsim/internal/behavior"
	"github.com/townsim/townsim/internal/economic"
	"github.com/townsim/townsim/internal/entropy"
	"github.com/townsim/townsim/internal/epidemic"
	"github.com/townsim/townsim/internal/policy"
	"github.com/townsim/townsim/internal/town"
)

// Mode selects which of the four pipeline assemblies is active: the
// source's multiple/virtual-inheritance product modes become four small
// assemblies sharing one Agent/Location arena (spec §9).
type Mode int

const (
	ModeSimple Mode = iota
	ModeEconomic
	ModePandemic
	ModeDual
)

func ParseMode(s string) (Mode, bool) {
	switch s {
	case "simple":
		return ModeSimple, true
	case "economic":
		return ModeEconomic, true
	case "pandemic":
		return ModePandemic, true
	case "dual":
		return ModeDual, true
	default:
		return 0, false
	}
}

func (m Mode) EpidemicActive() bool { return m == ModePandemic || m == ModeDual }
func (m Mode) EconomicActive() bool { return m == ModeEconomic || m == ModeDual }
func (m Mode) Coupled() bool        { return m == ModeDual }

// Config bundles the CLI/configuration knobs of spec §6.
type Config struct {
	InitialNumAgents      int
	NumLocationsPerRegion int
	InitialValue          float64
	LagPeriod             int
	InitialInfected       int
	HospitalCapacity      int
	FramesPerHour         int
	Mode                  Mode
	RewardPolicy          policy.RewardPolicy
	Seed                  int64
}

// Simulation owns the regions, agents, behavior catalog, clock, and
// controller state, per spec §3's ownership model. Agent↔Location
// references are realized as arena indices (town.AgentID/LocationID) held
// in the maps below, not pointers embedded in either struct.
type Simulation struct {
	Config Config
	Town   *town.Town
	Clock  *town.Clock
	Flags  policy.Flags

	catalog      *behavior.Catalog
	spawner      *agents.Spawner
	entropy      *entropy.Client
	collaborator policy.PolicyCollaborator

	population map[town.AgentID]*agents.Agent
	order      []town.AgentID // reverse-index walking order, swap-erase safe

	bucket economic.RedistributionBucket

	reintroductionFlag bool
	initialInfectionDone bool
	hoursSinceLastBusinessBirth int

	stats statsWindow

	lastState  policy.StateVector
	lastReward float64

	log *slog.Logger

	critical criticalSections
}

// LastState returns the most recent hourly state vector fed to the
// policy collaborator, used by cmd/policytrain's training loop.
func (s *Simulation) LastState() policy.StateVector { return s.lastState }

// LastReward returns the reward computed from the most recent state
// vector under Config.RewardPolicy.
func (s *Simulation) LastReward() float64 { return s.lastReward }

// New builds a Simulation from a loaded catalog and configuration. cat
// must have passed CatalogInvalid validation already (LoadCatalog
// enforces this at parse time).
func New(cfg Config, cat *behavior.Catalog, collaborator policy.PolicyCollaborator, ent *entropy.Client, logger *slog.Logger) (*Simulation, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cat == nil {
		return nil, fmt.Errorf("engine: nil behavior catalog")
	}

	tn := town.Generate(town.GenerateConfig{LocationsPerRegion: cfg.NumLocationsPerRegion, Seed: cfg.Seed})
	for _, class := range []town.RegionClass{town.WORK} {
		for _, loc := range tn.Regions[class].Locations {
			loc.Value = cfg.InitialValue
		}
	}

	sp := agents.NewSpawner(cat)
	cohort := sp.SpawnInitialCohort(tn, cfg.InitialNumAgents, cfg.InitialValue)

	sim := &Simulation{
		Config:       cfg,
		Town:         tn,
		Clock:        town.NewClock(cfg.FramesPerHour),
		catalog:      cat,
		spawner:      sp,
		entropy:      ent,
		collaborator: collaborator,
		population:   make(map[town.AgentID]*agents.Agent, len(cohort)),
		log:          logger,
	}
	for _, a := range cohort {
		sim.population[a.ID] = a
		sim.order = append(sim.order, a.ID)
	}
	return sim, nil
}

// LivePopulation returns every live agent, in arena order (not reverse).
func (s *Simulation) LivePopulation() []*agents.Agent {
	out := make([]*agents.Agent, 0, len(s.order))
	for _, id := range s.order {
		if a, ok := s.population[id]; ok && a.Alive {
			out = append(out, a)
		}
	}
	return out
}

// removeAgent swap-erases id from the reverse-iteration order slice and
// drops it from the population map; the caller must have already applied
// any epidemic/economic teardown (OnDeath, assignment clearing).
func (s *Simulation) removeAgent(id town.AgentID) {
	for i, existing := range s.order {
		if existing == id {
			last := len(s.order) - 1
			s.order[i] = s.order[last]
			s.order = s.order[:last]
			break
		}
	}
	delete(s.population, id)
}

func (s *Simulation) killAgent(a *agents.Agent) {
	s.critical.WithAgentSet(func() {
		epidemic.OnDeath(a, s.Town)
		for _, class := range []town.RegionClass{town.HOME, town.SCHOOL, town.WORK, town.LEISURE} {
			if id, ok := a.AssignedOrMissing(class); ok {
				if loc := s.Town.Regions[class].Find(id); loc != nil {
					loc.RemoveMember(a.ID)
				}
				a.Assignments.Clear(class)
			}
		}
		a.Alive = false
		s.removeAgent(a.ID)
	})
}

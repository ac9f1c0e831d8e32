package economic

import (
	"math/rand/v2"

	"github.com/townsim/townsim/internal/agents"
	"github.com/townsim/townsim/internal/town"
)

// ApplyBusinessOverhead charges every WORK location the hourly overhead
// during business hours (8-20), recording it against the daily change
// counter, and returns the locations whose value is now zero or below.
// It does not check days open or the current day; the caller passes each
// returned location to MaybeBankrupt, which applies those conditions.
func ApplyBusinessOverhead(t *town.Town, hour int) []*town.Location {
	var eligible []*town.Location
	if hour < 8 || hour >= 20 {
		return eligible
	}
	for _, w := range t.Regions[town.WORK].Locations {
		w.Value -= WorkOverhead
		w.DailyValueChange -= WorkOverhead
		if w.Value <= 0 {
			eligible = append(eligible, w)
		}
	}
	return eligible
}

// RedistributionBucket accumulates the per-tick value lost by agents at
// HOME, disbursed at end of pass to solvent WORK locations.
type RedistributionBucket struct {
	Total float64
}

func (b *RedistributionBucket) Add(v float64) { b.Total += v }

// Distribute divides the bucket evenly among every non-LOCKDOWN WORK
// location (or every WORK location, in pandemic-off mode), matching the
// rule from spec §4.5.
func (b *RedistributionBucket) Distribute(t *town.Town, pandemicActive bool) {
	if b.Total <= 0 {
		return
	}
	var targets []*town.Location
	for _, w := range t.Regions[town.WORK].Locations {
		if pandemicActive && w.Status == town.Lockdown {
			continue
		}
		targets = append(targets, w)
	}
	if len(targets) == 0 {
		b.Total = 0
		return
	}
	share := b.Total / float64(len(targets))
	for _, w := range targets {
		w.Value += share
		w.DailyValueChange += share
	}
	b.Total = 0
}

// ApplyAgentFlow runs the per-agent value flow for one hour, dispatched by
// the destinationString label the scheduler assigned (not necessarily the
// agent's physical location, under e-commerce substitution). population
// lets the HOME and WORK branches locate other agents for bankruptcy and
// hiring side effects. veto, non-nil only in coupled mode, gates the
// individual HOMELESS transition applyHomeFlow would otherwise make.
func ApplyAgentFlow(a *agents.Agent, t *town.Town, label town.RegionClass, population map[town.AgentID]*agents.Agent, bucket *RedistributionBucket, currentDay int, veto *VetoContext) {
	switch label {
	case town.HOME:
		applyHomeFlow(a, t, bucket, currentDay, veto)
	case town.SCHOOL:
		applySchoolFlow(a, t)
	case town.WORK:
		applyWorkFlow(a, t, population, currentDay)
	case town.LEISURE:
		applyLeisureFlow(a, t)
	}
}

func applyHomeFlow(a *agents.Agent, t *town.Town, bucket *RedistributionBucket, currentDay int, veto *VetoContext) {
	homeRegion := t.Regions[town.HOME]
	if a.EconStatus.IsHomeless() {
		if rand.Float64() < 0.10 {
			loc := homeRegion.RandomLocation()
			if loc != nil && a.Value > 2*loc.Cost {
				a.Assignments.Set(town.HOME, loc.ID)
				loc.AddMember(a.ID)
				a.EconStatus = a.EconStatus.WithHomeless(false)
			}
		}
		return
	}

	id, ok := a.AssignedOrMissing(town.HOME)
	if !ok {
		return
	}
	loc := homeRegion.Find(id)
	if loc == nil {
		return
	}
	if !a.IsAdult {
		return
	}
	if a.Value >= loc.Cost {
		a.Value -= loc.Cost
		bucket.Add(loc.Cost * HomeLossProportion)
		return
	}
	if veto != nil && CoupledVeto(a, *veto) {
		return
	}
	MakeHomeless(a, homeRegion, id)
}

func applySchoolFlow(a *agents.Agent, t *town.Town) {
	id, ok := a.AssignedOrMissing(town.SCHOOL)
	if !ok {
		return
	}
	loc := t.Regions[town.SCHOOL].Find(id)
	if loc == nil {
		return
	}
	a.Value += loc.Cost
}

func applyWorkFlow(a *agents.Agent, t *town.Town, population map[town.AgentID]*agents.Agent, currentDay int) {
	workRegion := t.Regions[town.WORK]

	if a.EconStatus.IsUnemployed() {
		if rand.Float64() < 0.20 {
			a.Value += float64(pick(1, 5))
		}
		candidate := workRegion.RandomLocation()
		if candidate != nil && candidate.IsHiring(candidate.Cost) && rand.Float64() < 0.5 {
			a.Assignments.Set(town.WORK, candidate.ID)
			candidate.AddMember(a.ID)
			candidate.DailyHire = true
			a.EconStatus = a.EconStatus.WithUnemployed(false)
			a.HoursOfEmployment = 0
		}
		return
	}

	id, ok := a.AssignedOrMissing(town.WORK)
	if !ok {
		return
	}
	loc := workRegion.Find(id)
	if loc == nil {
		return
	}
	if loc.Value > loc.Cost {
		a.Value += loc.Cost
		loc.Value -= loc.Cost * WorkLossProportion
		loc.DailyValueChange -= loc.Cost * WorkLossProportion
		a.HoursOfEmployment++
	} else {
		MaybeBankrupt(loc, t, population, currentDay)
	}
}

func applyLeisureFlow(a *agents.Agent, t *town.Town) {
	leisureRegion := t.Regions[town.LEISURE]
	id, ok := a.AssignedOrMissing(town.LEISURE)
	if !ok {
		return
	}
	loc := leisureRegion.Find(id)
	if loc == nil {
		// OrphanedLeisure: sibling pointer was cleared by bankruptcy
		// between destination choice and this update. No effect.
		return
	}
	sibling := t.Regions[town.WORK].Find(loc.Sibling)

	if a.EconStatus.IsHomeless() {
		if rand.Float64() < 0.5 && a.Value >= 1 {
			a.Value--
			if sibling != nil {
				sibling.Value += loc.Cost
				sibling.DailyValueChange += loc.Cost
			}
		}
		return
	}

	if a.Value > loc.Cost {
		a.Value -= loc.Cost
		if sibling != nil {
			sibling.Value += loc.Cost
			sibling.DailyValueChange += loc.Cost
		}
	}
}

package economic

import (
	"github.com/townsim/townsim/internal/agents"
	"github.com/townsim/townsim/internal/policy"
	"github.com/townsim/townsim/internal/town"
)

// VetoContext carries the facts the coupled-mode veto check needs beyond
// the agent itself.
type VetoContext struct {
	Flags                   policy.Flags
	CurrentDay              int
	HomelessShelterOutbreak bool
}

// CoupledVeto reports whether, in coupled mode, a status-transition into
// HOMELESS or UNEMPLOYED must be vetoed this hour: the quarantine flag
// protecting an INFECTED agent, contact-tracing protecting an EXPOSED
// agent, an active homeless-shelter outbreak, or day zero.
func CoupledVeto(a *agents.Agent, ctx VetoContext) bool {
	if ctx.Flags.QuarantineWhenInfected && a.Stage == agents.Infected {
		return true
	}
	if ctx.Flags.AnyCompliance() && a.Stage == agents.Exposed {
		return true
	}
	if ctx.HomelessShelterOutbreak {
		return true
	}
	return ctx.CurrentDay == 0
}

// MakeHomeless is the hourly HOME flow's path into the HOMELESS status
// component: it nulls the HOME assignment (removing the agent from its
// location's membership set) and flips the status bit, preserving the
// unemployed component via the BOTH combinator. Agents spawned without a
// HOME are marked HOMELESS by the spawner directly, not through here.
func MakeHomeless(a *agents.Agent, homeRegion *town.Region, currentHomeID town.LocationID) {
	if loc := homeRegion.Find(currentHomeID); loc != nil {
		loc.RemoveMember(a.ID)
	}
	a.Assignments.Clear(town.HOME)
	a.EconStatus = a.EconStatus.WithHomeless(true)
}

// MakeUnemployed nulls the WORK assignment and flips the UNEMPLOYED status
// bit, preserving the homeless component. It is not the only path into
// UNEMPLOYED: Bankrupt, the spawner and the adulthood WORK assignment set
// the bit directly.
func MakeUnemployed(a *agents.Agent, workRegion *town.Region, currentWorkID town.LocationID) {
	if loc := workRegion.Find(currentWorkID); loc != nil {
		loc.RemoveMember(a.ID)
	}
	a.Assignments.Clear(town.WORK)
	a.HoursOfEmployment = 0
	a.EconStatus = a.EconStatus.WithUnemployed(true)
}

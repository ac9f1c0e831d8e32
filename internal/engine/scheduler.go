// Package engine ties the scheduling engine, epidemic kernel, economic
// kernel, and policy interface together into one coupled controller pass,
// driven by a pluggable pacer.
package engine

import (
	"math/rand/v2"

	"github.com/townsim/townsim/internal/agents"
	"github.com/townsim/townsim/internal/epidemic"
	"github.com/townsim/townsim/internal/geometry"
	"github.com/townsim/townsim/internal/policy"
	"github.com/townsim/townsim/internal/town"
)

// MaxCreep is the distance-to-destination threshold under which an agent
// jitters in place instead of stepping toward its destination.
const MaxCreep = 7.0

// BaseSpeed is the minimum per-frame creep speed; set_destination scales
// up from this so on-the-grid travel completes within ~30 frames.
const BaseSpeed = 1.0

// SpatialStep advances a single agent one frame toward its destination,
// jittering in place once within MaxCreep.
func SpatialStep(a *agents.Agent) {
	d := geometry.Distance(a.Position, a.Destination)
	if d < MaxCreep {
		a.Position.X += float64(rand.IntN(3) - 1)
		a.Position.Y += float64(rand.IntN(3) - 1)
		a.Speed = BaseSpeed
		return
	}
	heading := geometry.HeadingBetween(a.Position, a.Destination)
	a.Position = a.Position.Add(heading.Scale(a.Speed))
}

// SetDestination points a at loc's position and scales speed so the trip
// completes in roughly 30 frames.
func SetDestination(a *agents.Agent, pos geometry.Point) {
	a.Destination = pos
	d := geometry.Distance(a.Position, pos)
	speed := d / 30
	if speed < BaseSpeed {
		speed = BaseSpeed
	}
	a.Speed = speed
}

// resolvedDestination is the outcome of resolving a chosen destination
// class into an actual point to travel to, recovering AssignmentMissing/
// EmptyRegion locally per spec §7.
type resolvedDestination struct {
	Position geometry.Point
	Label    town.RegionClass
}

// resolveDestination turns an epidemic.GateOutcome into a travel target.
// When the outcome names a real, still-assigned location, travel there;
// otherwise (AssignmentMissing / EmptyRegion) sample a one-shot anonymous
// point in the target region and send the agent there, per spec §7.
func resolveDestination(t *town.Town, out epidemic.GateOutcome) resolvedDestination {
	if out.HasLoc {
		if loc := t.Regions[out.Physical].Find(out.LocationID); loc != nil {
			return resolvedDestination{Position: loc.Position, Label: out.Label}
		}
	}
	region := t.Regions[out.Physical]
	return resolvedDestination{Position: region.RandomCoordinate(), Label: out.Label}
}

// UpdateSingleDestination samples this hour's behavior-chart assignment
// (NO_CHANGE leaves the existing destination untouched), runs it through
// the per-agent policy gate, and resolves and sets the new physical
// destination and destinationString label.
func UpdateSingleDestination(a *agents.Agent, t *town.Town, hour int, flags policy.Flags) {
	class, noChange := a.Chart.AssignmentAt(hour)
	if noChange {
		return
	}
	outcome := epidemic.ApplyPolicyGate(a, t, flags, class)
	resolved := resolveDestination(t, outcome)
	a.DestinationClass = resolved.Label
	a.HasDestinationClass = true
	SetDestination(a, resolved.Position)
}

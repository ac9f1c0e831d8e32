package economic

import (
	"github.com/townsim/townsim/internal/agents"
	"github.com/townsim/townsim/internal/policy"
	"github.com/townsim/townsim/internal/town"
)

// ApplyAssistanceBonus credits locked-down businesses and their workers a
// bonus proportional to work_overhead and per-worker cost, and pays a
// small stipend to homeless/unemployed agents. Kept as an independent
// pass from ApplyAssistanceOverhead per the source's split design: these
// are two distinct code paths sharing the same three-tier flag set, not
// one symmetric transfer.
func ApplyAssistanceBonus(t *town.Town, population map[town.AgentID]*agents.Agent, flags policy.Flags) {
	if !flags.AnyAssistance() {
		return
	}
	factor := flags.AssistanceBonusFactor()
	stipend := stipendFor(flags)

	for _, w := range t.Regions[town.WORK].Locations {
		if w.Status != town.Lockdown {
			continue
		}
		w.Value += WorkOverhead * factor
		for agentID := range w.Members {
			if a, ok := population[agentID]; ok {
				a.Value += w.Cost * factor
			}
		}
	}

	for _, a := range population {
		if a.EconStatus.IsHomeless() || a.EconStatus.IsUnemployed() {
			a.Value += stipend
		}
	}
}

func stipendFor(flags policy.Flags) float64 {
	switch {
	case flags.StrongAssistance:
		return 3
	case flags.ModerateAssistance:
		return 2
	case flags.WeakAssistance:
		return 1
	default:
		return 0
	}
}

// ApplyAssistanceOverhead charges non-locked-down businesses an extra
// overhead, and adult home-renters an extra rent proportion, to fund the
// assistance program. Independent pass from ApplyAssistanceBonus.
func ApplyAssistanceOverhead(t *town.Town, population map[town.AgentID]*agents.Agent, flags policy.Flags) {
	if !flags.AnyAssistance() {
		return
	}
	factor := flags.AssistanceExtraOverheadFactor()

	for _, w := range t.Regions[town.WORK].Locations {
		if w.Status == town.Lockdown {
			continue
		}
		extra := WorkOverhead * factor
		w.Value -= extra
		w.DailyValueChange -= extra
	}

	for _, a := range population {
		if !a.IsAdult {
			continue
		}
		id, ok := a.AssignedOrMissing(town.HOME)
		if !ok {
			continue
		}
		loc := t.Regions[town.HOME].Find(id)
		if loc == nil {
			continue
		}
		a.Value -= loc.Cost * factor
	}
}

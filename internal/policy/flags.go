// Package policy implements the external Policy Interface: the fixed
// 17-boolean Policy Flag Set the simulator reads every hour, the 12-slot
// state vector it feeds back, the three reward shapes, and the narrow
// Policy Collaborator boundary — with one concrete, gonum-backed default
// implementation of that collaborator.
package policy

// Flags is the fixed 17-boolean Policy Flag Set: thresholds and toggles
// written by the Policy Collaborator and read by both kernels every hour.
type Flags struct {
	QuarantineWhenInfected bool

	TotalLockdown bool

	WeakCompliance     bool
	ModerateCompliance bool
	StrongCompliance   bool

	WeakLockdown     bool
	ModerateLockdown bool
	StrongLockdown   bool

	WeakAssistance     bool
	ModerateAssistance bool
	StrongAssistance   bool

	WeakGuidelines     bool
	ModerateGuidelines bool
	StrongGuidelines   bool

	WeakEcommerce     bool
	ModerateEcommerce bool
	StrongEcommerce   bool
}

// NoPolicy is the all-off flag set used by boundary-scenario S1 and as the
// paired-seed baseline in S4.
func NoPolicy() Flags { return Flags{} }

// ComplianceNonComplianceChance returns the chance a compliant agent
// ignores the compliance-gated steps this hour: strong 1/2, moderate 1/4,
// weak 1/8, none: always compliant (chance 0 of skipping).
func (f Flags) ComplianceNonComplianceChance() float64 {
	switch {
	case f.StrongCompliance:
		return 1.0 / 2
	case f.ModerateCompliance:
		return 1.0 / 4
	case f.WeakCompliance:
		return 1.0 / 8
	default:
		return 0
	}
}

// EcommerceChance returns the probability destinations get redirected home
// under e-commerce substitution.
func (f Flags) EcommerceChance() float64 {
	switch {
	case f.StrongEcommerce:
		return 0.75
	case f.ModerateEcommerce:
		return 0.50
	case f.WeakEcommerce:
		return 0.25
	default:
		return 0
	}
}

// ContactTracingHomeChance returns the chance an agent with any infected
// assignment is sent home under contact tracing.
func (f Flags) ContactTracingHomeChance() float64 {
	switch {
	case f.StrongCompliance:
		return 1.0
	case f.ModerateCompliance:
		return 0.75
	case f.WeakCompliance:
		return 0.5
	default:
		return 0
	}
}

// GuidelinesRedirectChance returns the chance a LEISURE-bound agent is
// redirected home under the guidelines policy.
func (f Flags) GuidelinesRedirectChance() float64 {
	switch {
	case f.StrongGuidelines:
		return 0.5
	case f.ModerateGuidelines:
		return 0.6
	case f.WeakGuidelines:
		return 0.25
	default:
		return 0
	}
}

// AssistanceBonusFactor returns the fraction of work_overhead/per-worker
// cost added as assistance bonus to locked-down businesses and workers.
func (f Flags) AssistanceBonusFactor() float64 {
	switch {
	case f.StrongAssistance:
		return 0.4
	case f.ModerateAssistance:
		return 0.25
	case f.WeakAssistance:
		return 0.15
	default:
		return 0
	}
}

// AssistanceExtraOverheadFactor returns the fraction of work_overhead
// charged as extra overhead to non-locked-down businesses (and, scaled
// separately, adult renters) when assistance is active.
func (f Flags) AssistanceExtraOverheadFactor() float64 {
	switch {
	case f.StrongAssistance:
		return 0.2
	case f.ModerateAssistance:
		return 0.125
	case f.WeakAssistance:
		return 0.075
	default:
		return 0
	}
}

// AnyAssistance reports whether any assistance tier is active.
func (f Flags) AnyAssistance() bool {
	return f.StrongAssistance || f.ModerateAssistance || f.WeakAssistance
}

// AnyCompliance reports whether any compliance tier is active. Contact
// tracing reuses these same three tiers (see ContactTracingHomeChance).
func (f Flags) AnyCompliance() bool {
	return f.StrongCompliance || f.ModerateCompliance || f.WeakCompliance
}

// AnyLockdown reports whether any graduated lockdown tier is active (not
// counting TotalLockdown, which is handled separately).
func (f Flags) AnyLockdown() bool {
	return f.StrongLockdown || f.ModerateLockdown || f.WeakLockdown
}

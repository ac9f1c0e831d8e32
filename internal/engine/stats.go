package engine

import (
	"sort"

	"github.com/townsim/townsim/internal/agents"
)

// statsWindow tracks the rolling 24-hour history the Policy Collaborator
// state vector needs, plus the previous hour's total value for the
// percent-change slot.
type statsWindow struct {
	exposuresHistory []int
	deathsHistory    []int
	lastExposures    int
	lastDeaths       int
	previousValue    float64
	haveValue        bool
}

const historyHours = 24

func (w *statsWindow) RecordHour(newExposures, newDeaths int) {
	w.lastExposures = newExposures
	w.lastDeaths = newDeaths
	w.exposuresHistory = append(w.exposuresHistory, newExposures)
	w.deathsHistory = append(w.deathsHistory, newDeaths)
	if len(w.exposuresHistory) > historyHours {
		w.exposuresHistory = w.exposuresHistory[len(w.exposuresHistory)-historyHours:]
	}
	if len(w.deathsHistory) > historyHours {
		w.deathsHistory = w.deathsHistory[len(w.deathsHistory)-historyHours:]
	}
}

func (w *statsWindow) sum24hExposures() int {
	total := 0
	for _, v := range w.exposuresHistory {
		total += v
	}
	return total
}

func (w *statsWindow) sum24hDeaths() int {
	total := 0
	for _, v := range w.deathsHistory {
		total += v
	}
	return total
}

// PercentChange returns the 1-hour percent change in totalValue against
// the previously recorded value, 0 on the first call.
func (w *statsWindow) PercentChange(totalValue float64) float64 {
	if !w.haveValue || w.previousValue == 0 {
		w.previousValue = totalValue
		w.haveValue = true
		return 0
	}
	change := (totalValue - w.previousValue) / w.previousValue * 100
	w.previousValue = totalValue
	return change
}

// TotalValue sums every live agent's value plus every WORK location's
// value, the quantity I6's conservation property is checked against.
func TotalValue(population []*agents.Agent, workValues []float64) float64 {
	total := 0.0
	for _, a := range population {
		total += a.Value
	}
	for _, v := range workValues {
		total += v
	}
	return total
}

// GiniCoefficient computes the Gini coefficient of the given value
// distribution, supplementing the mandated state vector with the same
// wealth-inequality figure the original's debug HUD tracked (exposed only
// via internal/api, never fed back into the policy vector).
func GiniCoefficient(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var sumOfAbsDiffs, sum float64
	for i, v := range sorted {
		sum += v
		sumOfAbsDiffs += float64(2*(i+1)-n-1) * v
	}
	if sum == 0 {
		return 0
	}
	return sumOfAbsDiffs / (float64(n) * sum)
}

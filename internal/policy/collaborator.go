package policy

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// PolicyCollaborator is the narrow external boundary spec.md treats as an
// out-of-scope collaborator: it observes a 12-slot state vector and
// writes back a 17-boolean flag vector. The REINFORCE training loop and
// the tensor library it would sit on are not part of this interface —
// only this boundary and one concrete, in-pack-grounded implementation
// of it are.
type PolicyCollaborator interface {
	Act(state StateVector) Flags
}

// numFlags is the width of the Policy Flag Set (§6).
const numFlags = 17

// flagOrder fixes the mapping between a Flags value and the
// LinearPolicyCollaborator's output vector position.
var flagOrder = [numFlags]func(*Flags) *bool{
	func(f *Flags) *bool { return &f.QuarantineWhenInfected },
	func(f *Flags) *bool { return &f.TotalLockdown },
	func(f *Flags) *bool { return &f.WeakCompliance },
	func(f *Flags) *bool { return &f.ModerateCompliance },
	func(f *Flags) *bool { return &f.StrongCompliance },
	func(f *Flags) *bool { return &f.WeakLockdown },
	func(f *Flags) *bool { return &f.ModerateLockdown },
	func(f *Flags) *bool { return &f.StrongLockdown },
	func(f *Flags) *bool { return &f.WeakAssistance },
	func(f *Flags) *bool { return &f.ModerateAssistance },
	func(f *Flags) *bool { return &f.StrongAssistance },
	func(f *Flags) *bool { return &f.WeakGuidelines },
	func(f *Flags) *bool { return &f.ModerateGuidelines },
	func(f *Flags) *bool { return &f.StrongGuidelines },
	func(f *Flags) *bool { return &f.WeakEcommerce },
	func(f *Flags) *bool { return &f.ModerateEcommerce },
	func(f *Flags) *bool { return &f.StrongEcommerce },
}

// LinearPolicyCollaborator is the one concrete, default implementation of
// PolicyCollaborator: a learnable linear model (17x12 weight matrix plus
// bias) whose outputs are squashed through a sigmoid and either sampled
// (training, to get a REINFORCE-differentiable action) or thresholded
// (deployment) into the flag vector.
type LinearPolicyCollaborator struct {
	Weights *mat.Dense    // numFlags x 12
	Bias    *mat.VecDense // numFlags
	Explore bool          // true during training: sample instead of threshold
	LearningRate float64
}

// NewLinearPolicyCollaborator returns a collaborator with small random
// initial weights.
func NewLinearPolicyCollaborator() *LinearPolicyCollaborator {
	data := make([]float64, numFlags*12)
	for i := range data {
		data[i] = (rand.Float64() - 0.5) * 0.1
	}
	return &LinearPolicyCollaborator{
		Weights:      mat.NewDense(numFlags, 12, data),
		Bias:         mat.NewVecDense(numFlags, make([]float64, numFlags)),
		LearningRate: 0.01,
	}
}

func (c *LinearPolicyCollaborator) probabilities(state StateVector) []float64 {
	s := mat.NewVecDense(12, state[:])
	var scores mat.VecDense
	scores.MulVec(c.Weights, s)
	scores.AddVec(&scores, c.Bias)

	probs := make([]float64, numFlags)
	for i := 0; i < numFlags; i++ {
		probs[i] = sigmoid(scores.AtVec(i))
	}
	return probs
}

// Act implements PolicyCollaborator.
func (c *LinearPolicyCollaborator) Act(state StateVector) Flags {
	probs := c.probabilities(state)
	var flags Flags
	for i, p := range probs {
		var on bool
		if c.Explore {
			on = rand.Float64() < p
		} else {
			on = p >= 0.5
		}
		*flagOrder[i](&flags) = on
	}
	return flags
}

// Step applies one REINFORCE policy-gradient update from a single
// (state, action, reward) transition: each of the 17 independent Bernoulli
// units moves its weights toward the sampled action, scaled by the reward
// and the unit's own score gradient (action - probability).
func (c *LinearPolicyCollaborator) Step(state StateVector, action Flags, reward float64) {
	probs := c.probabilities(state)
	for i := 0; i < numFlags; i++ {
		actionValue := 0.0
		if *flagOrder[i](&action) {
			actionValue = 1
		}
		grad := (actionValue - probs[i]) * reward * c.LearningRate
		for j := 0; j < 12; j++ {
			c.Weights.Set(i, j, c.Weights.At(i, j)+grad*state[j])
		}
		c.Bias.SetVec(i, c.Bias.AtVec(i)+grad)
	}
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

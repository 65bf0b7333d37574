package matching

import (
	"fmt"
	"math"
)

const weightSumTolerance = 1e-6

// Weights configures how the four dimensions combine into the overall score.
type Weights struct {
	Skills     float64 `mapstructure:"skills" json:"skills"`
	Experience float64 `mapstructure:"experience" json:"experience"`
	RoleFit    float64 `mapstructure:"role-fit" json:"role_fit"`
	Bonus      float64 `mapstructure:"bonus" json:"bonus"`
}

// DefaultWeights returns 0.4/0.3/0.2/0.1.
func DefaultWeights() Weights {
	return Weights{Skills: 0.4, Experience: 0.3, RoleFit: 0.2, Bonus: 0.1}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Skills + w.Experience + w.RoleFit + w.Bonus
}

// Validate rejects weights that could push the overall score out of [0, 1].
func (w Weights) Validate() error {
	named := []struct {
		name  string
		value float64
	}{
		{"skills", w.Skills},
		{"experience", w.Experience},
		{"role-fit", w.RoleFit},
		{"bonus", w.Bonus},
	}
	for _, n := range named {
		if math.IsNaN(n.value) || math.IsInf(n.value, 0) {
			return fmt.Errorf("%w: weight %s is not a finite number", ErrConfiguration, n.name)
		}
		if n.value < 0 {
			return fmt.Errorf("%w: weight %s must not be negative, got %v", ErrConfiguration, n.name, n.value)
		}
	}

	if sum := w.Sum(); math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: weights must sum to 1.0, got %.6f", ErrConfiguration, sum)
	}

	return nil
}

// Aggregate combines the dimensions in a fixed order so identical inputs
// always produce the identical overall score, clamped to [0, 1].
func Aggregate(score MatchScore, w Weights) MatchScore {
	score.Overall = clamp01(score.Skills*w.Skills +
		score.Experience*w.Experience +
		score.RoleFit*w.RoleFit +
		score.BonusSignals*w.Bonus)
	return score
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

package scoring

import (
	"fmt"
	"math"
)

// Weights are the coefficients applied to the four sub-scores.
type Weights struct {
	Technical   float64 `mapstructure:"technical" json:"technical_match"`
	Experience  float64 `mapstructure:"experience" json:"experience_depth"`
	Activity    float64 `mapstructure:"activity" json:"activity_score"`
	Credibility float64 `mapstructure:"credibility" json:"credibility"`
}

// DefaultWeights is the standard 40/25/20/15 split.
var DefaultWeights = Weights{
	Technical:   0.40,
	Experience:  0.25,
	Activity:    0.20,
	Credibility: 0.15,
}

const weightsTolerance = 1e-9

// Validate requires non-negative weights that sum to one.
func (w Weights) Validate() error {
	named := []struct {
		name  string
		value float64
	}{
		{"technical", w.Technical},
		{"experience", w.Experience},
		{"activity", w.Activity},
		{"credibility", w.Credibility},
	}
	for _, n := range named {
		if n.value < 0 || math.IsNaN(n.value) {
			return fmt.Errorf("weight %s must be non-negative, got %v", n.name, n.value)
		}
	}

	if sum := w.Sum(); math.Abs(sum-1) > weightsTolerance {
		return fmt.Errorf("weights must sum to 1, got %v", sum)
	}

	return nil
}

func (w Weights) Sum() float64 {
	return w.Technical + w.Experience + w.Activity + w.Credibility
}

// IsZero reports whether no weight was configured.
func (w Weights) IsZero() bool {
	return w == Weights{}
}

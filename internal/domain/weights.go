package domain

import (
	"fmt"
	"math"
)

// WeightSumTolerance is the permitted deviation of a custom weight set's sum
// from 1.0. Weights outside the tolerance are a validation error; they are
// never silently renormalized.
const WeightSumTolerance = 0.001

// ScoringWeights distributes scoring emphasis across five rubric dimensions.
// Each fraction is non-negative and the set must sum to 1 within
// WeightSumTolerance.
type ScoringWeights struct {
	Skills       float64 `json:"skills" validate:"min=0,max=1"`
	Experience   float64 `json:"experience" validate:"min=0,max=1"`
	Education    float64 `json:"education" validate:"min=0,max=1"`
	Portfolio    float64 `json:"portfolio" validate:"min=0,max=1"`
	Availability float64 `json:"availability" validate:"min=0,max=1"`
}

// DefaultWeights returns the fixed rubric used when no custom set is supplied:
// 40% skills, 25% experience, 15% education, 10% portfolio, 10% availability.
func DefaultWeights() ScoringWeights {
	return ScoringWeights{
		Skills:       0.40,
		Experience:   0.25,
		Education:    0.15,
		Portfolio:    0.10,
		Availability: 0.10,
	}
}

// Sum returns the total of all five fractions.
func (w ScoringWeights) Sum() float64 {
	return w.Skills + w.Experience + w.Education + w.Portfolio + w.Availability
}

// Validate checks that every fraction is in [0, 1] and the set sums to
// 1 ± WeightSumTolerance. Failures are reported as *ValidationFailure.
func (w ScoringWeights) Validate() error {
	for name, v := range map[string]float64{
		"skills":       w.Skills,
		"experience":   w.Experience,
		"education":    w.Education,
		"portfolio":    w.Portfolio,
		"availability": w.Availability,
	} {
		if v < 0 || v > 1 {
			return &ValidationFailure{
				Field:   "weights." + name,
				Message: fmt.Sprintf("fraction must be in [0,1], got %.3f", v),
			}
		}
	}

	if sum := w.Sum(); math.Abs(sum-1.0) > WeightSumTolerance {
		return &ValidationFailure{
			Field:   "weights",
			Message: fmt.Sprintf("fractions must sum to 1±%.3f, got %.3f", WeightSumTolerance, sum),
		}
	}
	return nil
}

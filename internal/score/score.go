// Package score implements the sanitization and aggregation arithmetic shared
// by every derived view: clamping raw input into a scale, averaging an
// entity's criterion scores, and mapping a readiness average to its band.
package score

import (
	"math"

	"github.com/hyperengineering/compass/internal/criteria"
	"github.com/hyperengineering/compass/internal/types"
)

// Band thresholds on the 1-5 readiness scale. Lower bound inclusive.
const (
	emergingThreshold = 2.5
	readyThreshold    = 3.75
)

// Clamp rounds v to the nearest integer and forces it into [min, max].
// NaN (the coercion result of non-numeric input) yields min, so sanitization
// never fails. Clamp is idempotent: Clamp(Clamp(v)) == Clamp(v).
func Clamp(v float64, min, max int) int {
	r := math.Round(v)
	if math.IsNaN(r) {
		return min
	}
	if r < float64(min) {
		return min
	}
	if r > float64(max) {
		return max
	}
	return int(r)
}

// ClampReadiness sanitizes a readiness dimension score into [1,5].
func ClampReadiness(v float64) int {
	return Clamp(v, criteria.ReadinessMin, criteria.ReadinessMax)
}

// ClampCriterion sanitizes a use-case criterion score into [1,10].
func ClampCriterion(v float64) int {
	return Clamp(v, criteria.CriterionMin, criteria.CriterionMax)
}

// ClampCoordinate forces a placement coordinate into [0,1].
func ClampCoordinate(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Average computes the unweighted arithmetic mean of scores over keys.
// A key missing from the map counts as min; after sanitization every key is
// present, so this is a non-panicking fallback rather than a code path.
func Average(scores map[string]int, keys []string, min int) float64 {
	if len(keys) == 0 {
		return 0
	}
	sum := 0
	for _, k := range keys {
		v, ok := scores[k]
		if !ok {
			v = min
		}
		sum += v
	}
	return float64(sum) / float64(len(keys))
}

// AssessmentAverage computes the readiness average over all 11 dimensions.
func AssessmentAverage(a types.Assessment) float64 {
	return Average(a.Scores, criteria.ReadinessKeys(), criteria.ReadinessMin)
}

// UseCaseAverage computes the use-case average over all 8 criteria.
func UseCaseAverage(u types.UseCase) float64 {
	return Average(u.Scores, criteria.UseCaseKeys(), criteria.CriterionMin)
}

// Band maps a readiness average to its qualitative band.
// average < 2.5 is Foundational, [2.5, 3.75) is Emerging, >= 3.75 is Ready.
func Band(average float64) types.Band {
	switch {
	case average < emergingThreshold:
		return types.BandFoundational
	case average < readyThreshold:
		return types.BandEmerging
	default:
		return types.BandReady
	}
}

// Percent normalizes an average on [min, max] to a rounded 0-100 percentage.
func Percent(average float64, min, max int) int {
	return int(math.Round((average - float64(min)) / float64(max-min) * 100))
}

// ReadinessPercent normalizes a readiness average for display.
func ReadinessPercent(average float64) int {
	return Percent(average, criteria.ReadinessMin, criteria.ReadinessMax)
}

// CriterionPercent normalizes a use-case average for display.
func CriterionPercent(average float64) int {
	return Percent(average, criteria.CriterionMin, criteria.CriterionMax)
}

package project

import (
	"math"
	"strconv"
	"strings"

	"github.com/hyperengineering/compass/internal/criteria"
	"github.com/hyperengineering/compass/internal/score"
	"github.com/hyperengineering/compass/internal/types"
)

// coerceNumber converts a decoded JSON value to a float64, returning NaN for
// anything non-numeric so the clamp substitutes the range minimum.
func coerceNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

// repairAssessment starts from full defaults and overwrites each known
// dimension present in the input, individually clamped. Unknown keys are
// ignored; notes is copied only when it is text.
func repairAssessment(raw any) types.Assessment {
	a := types.NewAssessment()
	m, ok := raw.(map[string]any)
	if !ok {
		return a
	}
	for _, key := range criteria.ReadinessKeys() {
		if v, present := m[key]; present {
			a.Scores[key] = score.ClampReadiness(coerceNumber(v))
		}
	}
	if notes, ok := m["notes"].(string); ok {
		a.Notes = notes
	}
	return a
}

// repairUseCases normalizes the input to exactly ImportUseCaseCount entries:
// entries present in the input are repaired field by field, missing positions
// are filled with fresh defaults, and extras are truncated. Ids are reassigned
// from position.
func repairUseCases(raw any) []types.UseCase {
	arr, _ := raw.([]any)
	out := make([]types.UseCase, 0, ImportUseCaseCount)
	for i := 0; i < ImportUseCaseCount; i++ {
		if i < len(arr) {
			out = append(out, repairUseCase(i, arr[i]))
		} else {
			out = append(out, types.NewUseCase(i))
		}
	}
	return out
}

// repairUseCase rebuilds one use case from an arbitrary value. Name falls
// back to the synthesized label, description to empty, visibility to true
// unless strictly boolean, and every criterion score is clamped with missing
// or non-numeric values bottoming out at the scale minimum.
func repairUseCase(id int, raw any) types.UseCase {
	m, _ := raw.(map[string]any)

	u := types.UseCase{
		ID:      id,
		Name:    types.DefaultUseCaseName(id),
		Visible: true,
		Scores:  make(map[string]int, len(criteria.UseCase)),
	}

	if name, ok := m["name"].(string); ok {
		u.Name = name
	}
	if desc, ok := m["description"].(string); ok {
		u.Description = desc
	}
	if visible, ok := m["visible"].(bool); ok {
		u.Visible = visible
	}

	scores, _ := m["scores"].(map[string]any)
	for _, key := range criteria.UseCaseKeys() {
		u.Scores[key] = score.ClampCriterion(coerceNumber(scores[key]))
	}
	return u
}

// repairPlacements keeps only entries whose key parses as an integer id and
// whose value is a structurally valid coordinate pair; surviving coordinates
// are clamped into [0,1]. Invalid entries are dropped, not defaulted: a
// missing placement is resolved lazily at read time instead.
func repairPlacements(raw any) map[int]types.Placement {
	out := make(map[int]types.Placement)
	m, ok := raw.(map[string]any)
	if !ok {
		return out
	}
	for key, v := range m {
		id, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			continue
		}
		pair, ok := v.(map[string]any)
		if !ok {
			continue
		}
		x, xok := pair["x"].(float64)
		y, yok := pair["y"].(float64)
		if !xok || !yok {
			continue
		}
		out[id] = types.Placement{
			X: score.ClampCoordinate(x),
			Y: score.ClampCoordinate(y),
		}
	}
	return out
}

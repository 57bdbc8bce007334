// Package rank orders use cases by descending average score.
package rank

import (
	"sort"

	"github.com/hyperengineering/compass/internal/score"
	"github.com/hyperengineering/compass/internal/types"
)

// Rank returns the use cases ordered by descending average score with dense
// ranks starting at 1. The sort is stable: equal averages keep their original
// relative order and still receive distinct ranks. Blank names are replaced
// with the synthesized display label.
func Rank(useCases []types.UseCase) []types.RankedUseCase {
	ranked := make([]types.RankedUseCase, 0, len(useCases))
	for _, u := range useCases {
		ranked = append(ranked, types.RankedUseCase{
			ID:      u.ID,
			Name:    u.DisplayName(),
			Average: score.UseCaseAverage(u),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Average > ranked[j].Average
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

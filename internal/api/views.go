package api

import (
	"strconv"

	"github.com/hyperengineering/compass/internal/score"
	"github.com/hyperengineering/compass/internal/session"
	"github.com/hyperengineering/compass/internal/types"
)

// readinessView derives the readiness summary from an assessment snapshot.
func readinessView(a types.Assessment) types.ReadinessView {
	avg := score.AssessmentAverage(a)
	return types.ReadinessView{
		Scores:  a.Scores,
		Notes:   a.Notes,
		Average: avg,
		Band:    score.Band(avg),
		Percent: score.ReadinessPercent(avg),
	}
}

// useCaseView derives the scored view of one use case.
func useCaseView(u types.UseCase) types.UseCaseView {
	avg := score.UseCaseAverage(u)
	return types.UseCaseView{
		ID:          u.ID,
		Name:        u.Name,
		DisplayName: u.DisplayName(),
		Description: u.Description,
		Visible:     u.Visible,
		Scores:      u.Scores,
		Average:     avg,
		Percent:     score.CriterionPercent(avg),
	}
}

// sessionView snapshots the whole session. Derived values are recomputed on
// every call; nothing is cached.
func sessionView(s *session.Session) types.SessionView {
	useCases := s.UseCases()
	views := make([]types.UseCaseView, 0, len(useCases))
	for _, u := range useCases {
		views = append(views, useCaseView(u))
	}

	placements := make(map[string]types.Placement)
	for id, p := range s.Placements() {
		placements[strconv.Itoa(id)] = p
	}

	view := types.SessionView{
		ID:           s.ID(),
		CreatedAt:    s.CreatedAt(),
		LastAccessed: s.LastAccessed(),
		Readiness:    readinessView(s.Assessment()),
		UseCases:     views,
		Placements:   placements,
	}
	if id, ok := s.ActiveDrag(); ok {
		view.ActiveDrag = &id
	}
	return view
}

// Package session owns the mutable state of one assessment: the readiness
// scores, the bounded use-case collection, and the placement map. All writes
// go through sanitizing methods, so derived reads never observe out-of-range
// values. The transform packages (score, rank, horizon) stay pure; callers
// feed them the snapshots returned here.
package session

import (
	"sync"
	"time"

	"github.com/hyperengineering/compass/internal/criteria"
	"github.com/hyperengineering/compass/internal/project"
	"github.com/hyperengineering/compass/internal/score"
	"github.com/hyperengineering/compass/internal/types"
)

// Use-case collection bounds.
const (
	MinUseCases = 2
	MaxUseCases = 10
)

// Session is one in-memory assessment. Sessions are never persisted; the only
// durable form is the exported project document.
type Session struct {
	id        string
	createdAt time.Time

	mu           sync.RWMutex
	lastAccessed time.Time
	assessment   types.Assessment
	useCases     []types.UseCase
	placements   map[int]types.Placement

	// activeDrag is UI-transient state: the id currently being dragged on the
	// grid. It is deliberately a separate field, never an entry in placements,
	// so serialization cannot leak it.
	activeDrag *int
}

// New creates a session with defaulted state. useCaseCount is clamped into
// [MinUseCases, MaxUseCases].
func New(id string, useCaseCount int) *Session {
	if useCaseCount < MinUseCases {
		useCaseCount = MinUseCases
	}
	if useCaseCount > MaxUseCases {
		useCaseCount = MaxUseCases
	}

	useCases := make([]types.UseCase, 0, useCaseCount)
	for i := 0; i < useCaseCount; i++ {
		useCases = append(useCases, types.NewUseCase(i))
	}

	now := time.Now().UTC()
	return &Session{
		id:           id,
		createdAt:    now,
		lastAccessed: now,
		assessment:   types.NewAssessment(),
		useCases:     useCases,
		placements:   make(map[int]types.Placement),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// CreatedAt returns the session creation time.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// LastAccessed returns the last touch time.
func (s *Session) LastAccessed() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastAccessed
}

// Touch updates the last-accessed timestamp.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAccessed = time.Now().UTC()
}

// Assessment returns a copy of the readiness assessment.
func (s *Session) Assessment() types.Assessment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.assessment.Clone()
}

// SetDimension sets one readiness dimension, clamping the value into [1,5].
func (s *Session) SetDimension(key string, value float64) error {
	if !criteria.IsReadinessKey(key) {
		return ErrUnknownDimension
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assessment.Scores[key] = score.ClampReadiness(value)
	return nil
}

// SetNotes replaces the assessment notes.
func (s *Session) SetNotes(notes string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assessment.Notes = notes
}

// ResetAssessment restores every dimension to its default.
func (s *Session) ResetAssessment() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assessment = types.NewAssessment()
}

// UseCases returns a deep copy of the use-case sequence.
func (s *Session) UseCases() []types.UseCase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cloneUseCasesLocked()
}

func (s *Session) cloneUseCasesLocked() []types.UseCase {
	out := make([]types.UseCase, 0, len(s.useCases))
	for _, u := range s.useCases {
		out = append(out, u.Clone())
	}
	return out
}

// AddUseCase appends a defaulted use case and returns a copy of it.
func (s *Session) AddUseCase() (types.UseCase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.useCases) >= MaxUseCases {
		return types.UseCase{}, ErrUseCaseLimit
	}
	u := types.NewUseCase(len(s.useCases))
	s.useCases = append(s.useCases, u)
	return u.Clone(), nil
}

// RemoveLastUseCase drops the last use case along with its placement.
func (s *Session) RemoveLastUseCase() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.useCases) <= MinUseCases {
		return ErrUseCaseMinimum
	}
	last := len(s.useCases) - 1
	s.useCases = s.useCases[:last]
	delete(s.placements, last)
	if s.activeDrag != nil && *s.activeDrag == last {
		s.activeDrag = nil
	}
	return nil
}

// SetUseCaseName renames the use case at id.
func (s *Session) SetUseCaseName(id int, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 0 || id >= len(s.useCases) {
		return ErrUseCaseNotFound
	}
	s.useCases[id].Name = name
	return nil
}

// SetUseCaseDescription updates the description of the use case at id.
func (s *Session) SetUseCaseDescription(id int, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 0 || id >= len(s.useCases) {
		return ErrUseCaseNotFound
	}
	s.useCases[id].Description = description
	return nil
}

// SetUseCaseVisible toggles the comparison-overlay flag of the use case at id.
func (s *Session) SetUseCaseVisible(id int, visible bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 0 || id >= len(s.useCases) {
		return ErrUseCaseNotFound
	}
	s.useCases[id].Visible = visible
	return nil
}

// SetUseCaseScore sets one criterion score, clamping the value into [1,10].
func (s *Session) SetUseCaseScore(id int, key string, value float64) error {
	if !criteria.IsUseCaseKey(key) {
		return ErrUnknownCriterion
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 0 || id >= len(s.useCases) {
		return ErrUseCaseNotFound
	}
	s.useCases[id].Scores[key] = score.ClampCriterion(value)
	return nil
}

// Placements returns a copy of the placement map.
func (s *Session) Placements() map[int]types.Placement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int]types.Placement, len(s.placements))
	for id, p := range s.placements {
		out[id] = p
	}
	return out
}

// SetPlacement records a grid placement for the use case at id, clamping both
// coordinates into [0,1].
func (s *Session) SetPlacement(id int, x, y float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 0 || id >= len(s.useCases) {
		return ErrUseCaseNotFound
	}
	s.placements[id] = types.Placement{
		X: score.ClampCoordinate(x),
		Y: score.ClampCoordinate(y),
	}
	return nil
}

// RemovePlacement clears the placement for the use case at id. Clearing a
// use case with no placement is a no-op.
func (s *Session) RemovePlacement(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 0 || id >= len(s.useCases) {
		return ErrUseCaseNotFound
	}
	delete(s.placements, id)
	return nil
}

// StartDrag marks the use case at id as being dragged.
func (s *Session) StartDrag(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 0 || id >= len(s.useCases) {
		return ErrUseCaseNotFound
	}
	s.activeDrag = &id
	return nil
}

// EndDrag clears the drag marker.
func (s *Session) EndDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeDrag = nil
}

// ActiveDrag returns the currently dragged use case id, if any.
func (s *Session) ActiveDrag() (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.activeDrag == nil {
		return 0, false
	}
	return *s.activeDrag, true
}

// Export snapshots the session into a project document.
func (s *Session) Export() project.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	placements := make(map[int]types.Placement, len(s.placements))
	for id, p := range s.placements {
		placements[id] = p
	}
	return project.Serialize(s.assessment, s.useCases, placements)
}

// ImportAssessment replaces the readiness assessment with a repaired import.
func (s *Session) ImportAssessment(a types.Assessment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assessment = a.Clone()
}

// ReplaceUseCases swaps the use-case collection wholesale, pruning placements
// and the drag marker that reference removed ids.
func (s *Session) ReplaceUseCases(useCases []types.UseCase) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clones := make([]types.UseCase, 0, len(useCases))
	for _, u := range useCases {
		clones = append(clones, u.Clone())
	}
	s.useCases = clones

	for id := range s.placements {
		if id >= len(clones) {
			delete(s.placements, id)
		}
	}
	if s.activeDrag != nil && *s.activeDrag >= len(clones) {
		s.activeDrag = nil
	}
}

// Import replaces the whole session state with a repaired import. The drag
// marker is transient and always cleared.
func (s *Session) Import(st project.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.assessment = st.Assessment.Clone()

	useCases := make([]types.UseCase, 0, len(st.UseCases))
	for _, u := range st.UseCases {
		useCases = append(useCases, u.Clone())
	}
	s.useCases = useCases

	placements := make(map[int]types.Placement, len(st.Placements))
	for id, p := range st.Placements {
		placements[id] = p
	}
	s.placements = placements
	s.activeDrag = nil
}

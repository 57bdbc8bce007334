package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hyperengineering/compass/internal/criteria"
)

// Band is the qualitative readiness band derived from the assessment average.
type Band string

const (
	BandFoundational Band = "Foundational"
	BandEmerging     Band = "Emerging"
	BandReady        Band = "Ready"
)

// Assessment holds one readiness score per dimension plus free-text notes.
// Scores always contains every key from criteria.Readiness, each in [1,5].
type Assessment struct {
	Scores map[string]int
	Notes  string
}

// NewAssessment returns an assessment with every dimension at the scale
// midpoint and empty notes.
func NewAssessment() Assessment {
	scores := make(map[string]int, len(criteria.Readiness))
	for _, d := range criteria.Readiness {
		scores[d.Key] = 3
	}
	return Assessment{Scores: scores, Notes: ""}
}

// Clone returns a deep copy of the assessment.
func (a Assessment) Clone() Assessment {
	scores := make(map[string]int, len(a.Scores))
	for k, v := range a.Scores {
		scores[k] = v
	}
	return Assessment{Scores: scores, Notes: a.Notes}
}

// MarshalJSON writes the flat readiness document: the 11 dimension keys at
// the top level plus a notes field, matching the export file format.
func (a Assessment) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(a.Scores)+1)
	for _, key := range criteria.ReadinessKeys() {
		doc[key] = a.Scores[key]
	}
	doc["notes"] = a.Notes
	return json.Marshal(doc)
}

// UseCase is one candidate AI use case with 8 criterion scores in [1,10].
// ID is the position in the session's use-case sequence, always dense 0..N-1.
type UseCase struct {
	ID          int            `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Visible     bool           `json:"visible"`
	Scores      map[string]int `json:"scores"`
}

// NewUseCase returns a use case at position id with the synthesized default
// name and every criterion at the scale midpoint.
func NewUseCase(id int) UseCase {
	scores := make(map[string]int, len(criteria.UseCase))
	for _, c := range criteria.UseCase {
		scores[c.Key] = 5
	}
	return UseCase{
		ID:      id,
		Name:    DefaultUseCaseName(id),
		Visible: true,
		Scores:  scores,
	}
}

// DefaultUseCaseName synthesizes the display label for the use case at id.
func DefaultUseCaseName(id int) string {
	return fmt.Sprintf("Use Case %d", id+1)
}

// DisplayName returns the name, falling back to the synthesized label when
// the name is empty or whitespace-only.
func (u UseCase) DisplayName() string {
	if strings.TrimSpace(u.Name) == "" {
		return DefaultUseCaseName(u.ID)
	}
	return u.Name
}

// Clone returns a deep copy of the use case.
func (u UseCase) Clone() UseCase {
	scores := make(map[string]int, len(u.Scores))
	for k, v := range u.Scores {
		scores[k] = v
	}
	c := u
	c.Scores = scores
	return c
}

// MarshalJSON ensures a nil score map marshals as {} not null.
func (u UseCase) MarshalJSON() ([]byte, error) {
	if u.Scores == nil {
		u.Scores = map[string]int{}
	}
	type Alias UseCase
	return json.Marshal(Alias(u))
}

// Placement is a normalized position on the prioritization grid.
// X is feasibility and Y is impact, both clamped into [0,1].
type Placement struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RankedUseCase is one row of the priority ranking.
type RankedUseCase struct {
	Rank    int     `json:"rank"`
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Average float64 `json:"average"`
}

// Horizons groups high-impact use cases into three feasibility tiers.
// Low-impact use cases appear in none of the three.
type Horizons struct {
	Horizon1 []UseCase `json:"horizon1"`
	Horizon2 []UseCase `json:"horizon2"`
	Horizon3 []UseCase `json:"horizon3"`
}

// MarshalJSON ensures nil horizon slices marshal as [] not null.
func (h Horizons) MarshalJSON() ([]byte, error) {
	if h.Horizon1 == nil {
		h.Horizon1 = []UseCase{}
	}
	if h.Horizon2 == nil {
		h.Horizon2 = []UseCase{}
	}
	if h.Horizon3 == nil {
		h.Horizon3 = []UseCase{}
	}
	type Alias Horizons
	return json.Marshal(Alias(h))
}

// ReadinessView is the derived readiness summary returned by the API.
type ReadinessView struct {
	Scores  map[string]int `json:"scores"`
	Notes   string         `json:"notes"`
	Average float64        `json:"average"`
	Band    Band           `json:"band"`
	Percent int            `json:"percent"`
}

// UseCaseView is a use case plus its derived average and percentage.
// Flattened rather than embedding UseCase so its own fields marshal alongside
// the use-case fields.
type UseCaseView struct {
	ID          int            `json:"id"`
	Name        string         `json:"name"`
	DisplayName string         `json:"display_name"`
	Description string         `json:"description"`
	Visible     bool           `json:"visible"`
	Scores      map[string]int `json:"scores"`
	Average     float64        `json:"average"`
	Percent     int            `json:"percent"`
}

// SessionView is the full state snapshot for one session.
type SessionView struct {
	ID           string               `json:"id"`
	CreatedAt    time.Time            `json:"created_at"`
	LastAccessed time.Time            `json:"last_accessed"`
	Readiness    ReadinessView        `json:"readiness"`
	UseCases     []UseCaseView        `json:"use_cases"`
	Placements   map[string]Placement `json:"placements"`

	// ActiveDrag is UI-transient and never part of exported documents.
	ActiveDrag *int `json:"active_drag,omitempty"`
}

// MarshalJSON ensures nil collections in SessionView marshal as empty.
func (s SessionView) MarshalJSON() ([]byte, error) {
	if s.UseCases == nil {
		s.UseCases = []UseCaseView{}
	}
	if s.Placements == nil {
		s.Placements = map[string]Placement{}
	}
	type Alias SessionView
	return json.Marshal(Alias(s))
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	SessionCount  int    `json:"session_count"`
	FormatVersion int    `json:"format_version"`
}

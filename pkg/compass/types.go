package compass

import (
	"fmt"
	"time"
)

// Config configures a Compass client.
type Config struct {
	// BaseURL is the Compass server address, e.g. "http://localhost:8080".
	BaseURL string
	// APIKey authenticates every request except Health.
	APIKey string
	// Timeout bounds each HTTP request. Defaults to 30s.
	Timeout time.Duration
}

// Placement is a normalized position on the prioritization grid.
type Placement struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Readiness is the derived readiness summary for a session.
type Readiness struct {
	Scores  map[string]int `json:"scores"`
	Notes   string         `json:"notes"`
	Average float64        `json:"average"`
	Band    string         `json:"band"`
	Percent int            `json:"percent"`
}

// UseCase is one scored use case with its derived values.
type UseCase struct {
	ID          int            `json:"id"`
	Name        string         `json:"name"`
	DisplayName string         `json:"display_name"`
	Description string         `json:"description"`
	Visible     bool           `json:"visible"`
	Scores      map[string]int `json:"scores"`
	Average     float64        `json:"average"`
	Percent     int            `json:"percent"`
}

// Session is the full state snapshot of one server-side session.
type Session struct {
	ID           string               `json:"id"`
	CreatedAt    time.Time            `json:"created_at"`
	LastAccessed time.Time            `json:"last_accessed"`
	Readiness    Readiness            `json:"readiness"`
	UseCases     []UseCase            `json:"use_cases"`
	Placements   map[string]Placement `json:"placements"`
	ActiveDrag   *int                 `json:"active_drag,omitempty"`
}

// SessionInfo is a session summary from the listing endpoint.
type SessionInfo struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	LastAccessed time.Time `json:"last_accessed"`
	UseCases     int       `json:"use_cases"`
}

// RankedUseCase is one row of the priority ranking.
type RankedUseCase struct {
	Rank    int     `json:"rank"`
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Average float64 `json:"average"`
}

// Horizons groups high-impact use cases into three feasibility tiers.
type Horizons struct {
	Horizon1 []UseCase `json:"horizon1"`
	Horizon2 []UseCase `json:"horizon2"`
	Horizon3 []UseCase `json:"horizon3"`
}

// Health is the server health summary.
type Health struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	SessionCount  int    `json:"session_count"`
	FormatVersion int    `json:"format_version"`
}

// UseCaseUpdate is a partial use-case patch. Nil fields are left untouched.
type UseCaseUpdate struct {
	Name        *string            `json:"name,omitempty"`
	Description *string            `json:"description,omitempty"`
	Visible     *bool              `json:"visible,omitempty"`
	Scores      map[string]float64 `json:"scores,omitempty"`
}

// APIError is an RFC 7807 problem returned by the server.
type APIError struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("compass: %s (status %d): %s", e.Title, e.Status, e.Detail)
}

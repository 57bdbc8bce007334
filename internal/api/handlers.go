package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hyperengineering/compass/internal/chart"
	"github.com/hyperengineering/compass/internal/criteria"
	"github.com/hyperengineering/compass/internal/horizon"
	"github.com/hyperengineering/compass/internal/project"
	"github.com/hyperengineering/compass/internal/rank"
	"github.com/hyperengineering/compass/internal/session"
	"github.com/hyperengineering/compass/internal/types"
	"github.com/hyperengineering/compass/internal/validation"
)

// Field length caps for free-text input.
const (
	maxNameLength        = 200
	maxDescriptionLength = 2000
	maxNotesLength       = 10000
)

// maxImportBytes bounds import payloads; project files are a few KB.
const maxImportBytes = 1 << 20

// Handler implements the API handlers
type Handler struct {
	sessions *session.Manager
	apiKey   string
	version  string
}

// NewHandler creates a new Handler backed by the given session manager.
func NewHandler(m *session.Manager, apiKey, version string) *Handler {
	return &Handler{
		sessions: m,
		apiKey:   apiKey,
		version:  version,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Health returns the health status
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.HealthResponse{
		Status:        "healthy",
		Version:       h.version,
		SessionCount:  h.sessions.Count(),
		FormatVersion: project.FormatVersion,
	})
}

// --- Session lifecycle ---

// CreateSession handles POST /api/v1/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessions.Create()
	if err != nil {
		MapSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionView(s))
}

// listSessionsResponse wraps the session listing.
type listSessionsResponse struct {
	Sessions []session.Info `json:"sessions"`
	Total    int            `json:"total"`
}

// ListSessions handles GET /api/v1/sessions
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	infos := h.sessions.List()
	writeJSON(w, http.StatusOK, listSessionsResponse{Sessions: infos, Total: len(infos)})
}

// GetSession handles GET /api/v1/sessions/{sessionID}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionView(MustSessionFromContext(r.Context())))
}

// DeleteSession handles DELETE /api/v1/sessions/{sessionID}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	s := MustSessionFromContext(r.Context())
	if err := h.sessions.Delete(s.ID()); err != nil {
		MapSessionError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Readiness ---

type setScoreRequest struct {
	Value float64 `json:"value"`
}

// GetReadiness handles GET /api/v1/sessions/{sessionID}/readiness
func (h *Handler) GetReadiness(w http.ResponseWriter, r *http.Request) {
	s := MustSessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, readinessView(s.Assessment()))
}

// SetDimension handles PUT /api/v1/sessions/{sessionID}/readiness/{dimension}
func (h *Handler) SetDimension(w http.ResponseWriter, r *http.Request) {
	s := MustSessionFromContext(r.Context())

	var req setScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	// Out-of-range values are clamped, never rejected.
	if err := s.SetDimension(chi.URLParam(r, "dimension"), req.Value); err != nil {
		MapSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, readinessView(s.Assessment()))
}

type setNotesRequest struct {
	Notes string `json:"notes"`
}

// SetNotes handles PUT /api/v1/sessions/{sessionID}/readiness/notes
func (h *Handler) SetNotes(w http.ResponseWriter, r *http.Request) {
	s := MustSessionFromContext(r.Context())

	var req setNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	var c validation.Collector
	c.Add(validation.ValidateUTF8("notes", req.Notes))
	c.Add(validation.ValidateMaxLength("notes", req.Notes, maxNotesLength))
	if c.HasErrors() {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", c.Errors())
		return
	}

	s.SetNotes(req.Notes)
	writeJSON(w, http.StatusOK, readinessView(s.Assessment()))
}

// ResetReadiness handles POST /api/v1/sessions/{sessionID}/readiness/reset
func (h *Handler) ResetReadiness(w http.ResponseWriter, r *http.Request) {
	s := MustSessionFromContext(r.Context())
	s.ResetAssessment()
	writeJSON(w, http.StatusOK, readinessView(s.Assessment()))
}

// --- Use cases ---

// AddUseCase handles POST /api/v1/sessions/{sessionID}/usecases
func (h *Handler) AddUseCase(w http.ResponseWriter, r *http.Request) {
	s := MustSessionFromContext(r.Context())
	u, err := s.AddUseCase()
	if err != nil {
		MapSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, useCaseView(u))
}

// RemoveLastUseCase handles DELETE /api/v1/sessions/{sessionID}/usecases
func (h *Handler) RemoveLastUseCase(w http.ResponseWriter, r *http.Request) {
	s := MustSessionFromContext(r.Context())
	if err := s.RemoveLastUseCase(); err != nil {
		MapSessionError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type updateUseCaseRequest struct {
	Name        *string            `json:"name"`
	Description *string            `json:"description"`
	Visible     *bool              `json:"visible"`
	Scores      map[string]float64 `json:"scores"`
}

// UpdateUseCase handles PATCH /api/v1/sessions/{sessionID}/usecases/{useCaseID}.
// Absent fields are left untouched; score values are clamped, not rejected.
func (h *Handler) UpdateUseCase(w http.ResponseWriter, r *http.Request) {
	s := MustSessionFromContext(r.Context())

	id, err := strconv.Atoi(chi.URLParam(r, "useCaseID"))
	if err != nil {
		WriteProblem(w, r, http.StatusNotFound, "Use case not found")
		return
	}

	var req updateUseCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	var c validation.Collector
	if req.Name != nil {
		c.Add(validation.ValidateUTF8("name", *req.Name))
		c.Add(validation.ValidateMaxLength("name", *req.Name, maxNameLength))
	}
	if req.Description != nil {
		c.Add(validation.ValidateUTF8("description", *req.Description))
		c.Add(validation.ValidateMaxLength("description", *req.Description, maxDescriptionLength))
	}
	for key := range req.Scores {
		c.Add(validation.ValidateEnum("scores."+key, key, criteria.UseCaseKeys()))
	}
	if c.HasErrors() {
		WriteProblemWithErrors(w, r, "Request contains invalid fields", c.Errors())
		return
	}

	if req.Name != nil {
		if err := s.SetUseCaseName(id, *req.Name); err != nil {
			MapSessionError(w, r, err)
			return
		}
	}
	if req.Description != nil {
		if err := s.SetUseCaseDescription(id, *req.Description); err != nil {
			MapSessionError(w, r, err)
			return
		}
	}
	if req.Visible != nil {
		if err := s.SetUseCaseVisible(id, *req.Visible); err != nil {
			MapSessionError(w, r, err)
			return
		}
	}
	for key, value := range req.Scores {
		if err := s.SetUseCaseScore(id, key, value); err != nil {
			MapSessionError(w, r, err)
			return
		}
	}

	useCases := s.UseCases()
	if id < 0 || id >= len(useCases) {
		WriteProblem(w, r, http.StatusNotFound, "Use case not found")
		return
	}
	writeJSON(w, http.StatusOK, useCaseView(useCases[id]))
}

// --- Placements ---

type setPlacementRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SetPlacement handles PUT /api/v1/sessions/{sessionID}/placements/{useCaseID}
func (h *Handler) SetPlacement(w http.ResponseWriter, r *http.Request) {
	s := MustSessionFromContext(r.Context())

	id, err := strconv.Atoi(chi.URLParam(r, "useCaseID"))
	if err != nil {
		WriteProblem(w, r, http.StatusNotFound, "Use case not found")
		return
	}

	var req setPlacementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	if err := s.SetPlacement(id, req.X, req.Y); err != nil {
		MapSessionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Placements()[id])
}

// RemovePlacement handles DELETE /api/v1/sessions/{sessionID}/placements/{useCaseID}
func (h *Handler) RemovePlacement(w http.ResponseWriter, r *http.Request) {
	s := MustSessionFromContext(r.Context())

	id, err := strconv.Atoi(chi.URLParam(r, "useCaseID"))
	if err != nil {
		WriteProblem(w, r, http.StatusNotFound, "Use case not found")
		return
	}

	if err := s.RemovePlacement(id); err != nil {
		MapSessionError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type setDragRequest struct {
	ID int `json:"id"`
}

// StartDrag handles PUT /api/v1/sessions/{sessionID}/drag
func (h *Handler) StartDrag(w http.ResponseWriter, r *http.Request) {
	s := MustSessionFromContext(r.Context())

	var req setDragRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, fmt.Sprintf("Invalid JSON: %s", err.Error()))
		return
	}

	if err := s.StartDrag(req.ID); err != nil {
		MapSessionError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// EndDrag handles DELETE /api/v1/sessions/{sessionID}/drag
func (h *Handler) EndDrag(w http.ResponseWriter, r *http.Request) {
	MustSessionFromContext(r.Context()).EndDrag()
	w.WriteHeader(http.StatusNoContent)
}

// --- Derived views ---

type rankingsResponse struct {
	Rankings []types.RankedUseCase `json:"rankings"`
}

// Rankings handles GET /api/v1/sessions/{sessionID}/rankings
func (h *Handler) Rankings(w http.ResponseWriter, r *http.Request) {
	s := MustSessionFromContext(r.Context())
	ranked := rank.Rank(s.UseCases())
	if ranked == nil {
		ranked = []types.RankedUseCase{}
	}
	writeJSON(w, http.StatusOK, rankingsResponse{Rankings: ranked})
}

// Horizons handles GET /api/v1/sessions/{sessionID}/horizons
func (h *Handler) Horizons(w http.ResponseWriter, r *http.Request) {
	s := MustSessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, horizon.Bucketize(s.UseCases(), s.Placements()))
}

// Chart handles GET /api/v1/sessions/{sessionID}/chart.svg
func (h *Handler) Chart(w http.ResponseWriter, r *http.Request) {
	s := MustSessionFromContext(r.Context())
	svg := chart.Render(s.UseCases(), s.Placements())
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(svg); err != nil {
		slog.Error("failed to write chart", "error", err)
	}
}

// --- Export / import ---

// Export handles GET /api/v1/sessions/{sessionID}/export
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	s := MustSessionFromContext(r.Context())

	data, err := project.Marshal(s.Export())
	if err != nil {
		slog.Error("export failed", "error", err, "session_id", s.ID())
		MapSessionError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="compass-project.json"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}

// Import handles POST /api/v1/sessions/{sessionID}/import.
// An unreadable payload is rejected and leaves the session untouched; any
// readable payload is repaired field by field and replaces the whole state.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	s := MustSessionFromContext(r.Context())

	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		WriteProblem(w, r, http.StatusBadRequest, "Failed to read request body")
		return
	}

	st, err := project.Deserialize(data)
	if err != nil {
		MapSessionError(w, r, err)
		return
	}

	s.Import(st)
	slog.Info("project imported", "session_id", s.ID(), "placements", len(st.Placements))
	writeJSON(w, http.StatusOK, sessionView(s))
}

// ExportReadiness handles GET /api/v1/sessions/{sessionID}/readiness/export
func (h *Handler) ExportReadiness(w http.ResponseWriter, r *http.Request) {
	s := MustSessionFromContext(r.Context())
	w.Header().Set("Content-Disposition", `attachment; filename="compass-readiness.json"`)
	writeJSON(w, http.StatusOK, s.Assessment())
}

// ImportReadiness handles POST /api/v1/sessions/{sessionID}/readiness/import
func (h *Handler) ImportReadiness(w http.ResponseWriter, r *http.Request) {
	s := MustSessionFromContext(r.Context())

	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		WriteProblem(w, r, http.StatusBadRequest, "Failed to read request body")
		return
	}

	a, err := project.ImportAssessment(data)
	if err != nil {
		MapSessionError(w, r, err)
		return
	}

	s.ImportAssessment(a)
	writeJSON(w, http.StatusOK, readinessView(s.Assessment()))
}

// ExportUseCases handles GET /api/v1/sessions/{sessionID}/usecases/export
func (h *Handler) ExportUseCases(w http.ResponseWriter, r *http.Request) {
	s := MustSessionFromContext(r.Context())
	w.Header().Set("Content-Disposition", `attachment; filename="compass-usecases.json"`)
	writeJSON(w, http.StatusOK, project.ExportUseCases(s.UseCases()))
}

// ImportUseCases handles POST /api/v1/sessions/{sessionID}/usecases/import
func (h *Handler) ImportUseCases(w http.ResponseWriter, r *http.Request) {
	s := MustSessionFromContext(r.Context())

	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		WriteProblem(w, r, http.StatusBadRequest, "Failed to read request body")
		return
	}

	useCases, err := project.ImportUseCases(data)
	if err != nil {
		MapSessionError(w, r, err)
		return
	}

	s.ReplaceUseCases(useCases)
	writeJSON(w, http.StatusOK, sessionView(s))
}

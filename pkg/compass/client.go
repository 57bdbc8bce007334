// Package compass is the Go client for the Compass assessment service.
package compass

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Client talks to a Compass server.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// New creates a new Compass client.
func New(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, errors.New("BaseURL is required")
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		apiKey:  config.APIKey,
		client:  &http.Client{Timeout: config.Timeout},
	}, nil
}

// Health checks server health. It requires no API key.
func (c *Client) Health() (*Health, error) {
	var h Health
	if err := c.do(http.MethodGet, "/api/v1/health", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// CreateSession starts a new assessment session.
func (c *Client) CreateSession() (*Session, error) {
	var s Session
	if err := c.do(http.MethodPost, "/api/v1/sessions", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSessions returns summaries of all live sessions.
func (c *Client) ListSessions() ([]SessionInfo, error) {
	var resp struct {
		Sessions []SessionInfo `json:"sessions"`
	}
	if err := c.do(http.MethodGet, "/api/v1/sessions", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Sessions, nil
}

// GetSession fetches the full state of one session.
func (c *Client) GetSession(id string) (*Session, error) {
	var s Session
	if err := c.do(http.MethodGet, c.sessionPath(id, ""), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteSession removes a session.
func (c *Client) DeleteSession(id string) error {
	return c.do(http.MethodDelete, c.sessionPath(id, ""), nil, nil)
}

// GetReadiness returns the readiness summary for a session.
func (c *Client) GetReadiness(id string) (*Readiness, error) {
	var r Readiness
	if err := c.do(http.MethodGet, c.sessionPath(id, "/readiness"), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// SetDimension sets one readiness dimension. The server clamps the value
// into the valid range rather than rejecting it.
func (c *Client) SetDimension(id, dimension string, value float64) (*Readiness, error) {
	body := map[string]float64{"value": value}
	var r Readiness
	if err := c.do(http.MethodPut, c.sessionPath(id, "/readiness/"+dimension), body, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// SetNotes replaces the readiness notes.
func (c *Client) SetNotes(id, notes string) (*Readiness, error) {
	body := map[string]string{"notes": notes}
	var r Readiness
	if err := c.do(http.MethodPut, c.sessionPath(id, "/readiness/notes"), body, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// ResetReadiness restores every dimension to its default.
func (c *Client) ResetReadiness(id string) (*Readiness, error) {
	var r Readiness
	if err := c.do(http.MethodPost, c.sessionPath(id, "/readiness/reset"), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// AddUseCase appends a defaulted use case.
func (c *Client) AddUseCase(id string) (*UseCase, error) {
	var u UseCase
	if err := c.do(http.MethodPost, c.sessionPath(id, "/usecases"), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// RemoveLastUseCase drops the last use case.
func (c *Client) RemoveLastUseCase(id string) error {
	return c.do(http.MethodDelete, c.sessionPath(id, "/usecases"), nil, nil)
}

// UpdateUseCase applies a partial patch to the use case at useCaseID.
func (c *Client) UpdateUseCase(id string, useCaseID int, update UseCaseUpdate) (*UseCase, error) {
	var u UseCase
	path := c.sessionPath(id, "/usecases/"+strconv.Itoa(useCaseID))
	if err := c.do(http.MethodPatch, path, update, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// SetPlacement records a grid placement for a use case. Coordinates are
// clamped into [0,1] server-side.
func (c *Client) SetPlacement(id string, useCaseID int, x, y float64) (*Placement, error) {
	body := map[string]float64{"x": x, "y": y}
	var p Placement
	path := c.sessionPath(id, "/placements/"+strconv.Itoa(useCaseID))
	if err := c.do(http.MethodPut, path, body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// RemovePlacement clears a use case's grid placement.
func (c *Client) RemovePlacement(id string, useCaseID int) error {
	return c.do(http.MethodDelete, c.sessionPath(id, "/placements/"+strconv.Itoa(useCaseID)), nil, nil)
}

// StartDrag marks a use case as being dragged.
func (c *Client) StartDrag(id string, useCaseID int) error {
	body := map[string]int{"id": useCaseID}
	return c.do(http.MethodPut, c.sessionPath(id, "/drag"), body, nil)
}

// EndDrag clears the drag marker.
func (c *Client) EndDrag(id string) error {
	return c.do(http.MethodDelete, c.sessionPath(id, "/drag"), nil, nil)
}

// Rankings returns the use cases ordered by average score.
func (c *Client) Rankings(id string) ([]RankedUseCase, error) {
	var resp struct {
		Rankings []RankedUseCase `json:"rankings"`
	}
	if err := c.do(http.MethodGet, c.sessionPath(id, "/rankings"), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Rankings, nil
}

// Horizons returns the horizon buckets for placed use cases.
func (c *Client) Horizons(id string) (*Horizons, error) {
	var h Horizons
	if err := c.do(http.MethodGet, c.sessionPath(id, "/horizons"), nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Export downloads the session as a project document.
func (c *Client) Export(id string) ([]byte, error) {
	resp, err := c.send(http.MethodGet, c.sessionPath(id, "/export"), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}
	return io.ReadAll(resp.Body)
}

// Import replaces the session state with a project document. The server
// repairs any readable document; only non-JSON input is rejected.
func (c *Client) Import(id string, document []byte) (*Session, error) {
	resp, err := c.sendRaw(http.MethodPost, c.sessionPath(id, "/import"), document)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}
	var s Session
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &s, nil
}

// Chart downloads the session's prioritization grid as SVG.
func (c *Client) Chart(id string) ([]byte, error) {
	resp, err := c.send(http.MethodGet, c.sessionPath(id, "/chart.svg"), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) sessionPath(id, suffix string) string {
	return "/api/v1/sessions/" + id + suffix
}

// do sends a JSON request and decodes a JSON response into out (if non-nil).
func (c *Client) do(method, path string, body, out any) error {
	resp, err := c.send(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// send sends an authenticated request with an optional JSON body.
func (c *Client) send(method, path string, body any) (*http.Response, error) {
	var data []byte
	if body != nil {
		var err error
		data, err = json.Marshal(body)
		if err != nil {
			return nil, err
		}
	}
	return c.sendRaw(method, path, data)
}

func (c *Client) sendRaw(method, path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequest(method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.client.Do(req)
}

// decodeError converts a problem response into an *APIError.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Title: http.StatusText(resp.StatusCode)}
	_ = json.NewDecoder(resp.Body).Decode(apiErr)
	return apiErr
}

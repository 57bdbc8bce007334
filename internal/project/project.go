// Package project converts between in-memory session state and the exported
// JSON documents. Export is a plain structural snapshot; import is a total
// repair: every field is independently validated, coerced, and clamped so a
// partially corrupt file still yields usable state. Only a file that fails to
// parse as JSON at all is rejected.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/hyperengineering/compass/internal/types"
)

// FormatVersion tags exported project documents.
const FormatVersion = 1

// ImportUseCaseCount is the normalized use-case count after import repair.
// Shorter arrays are right-padded with defaults, longer ones truncated.
const ImportUseCaseCount = 8

// ErrUnreadable indicates the file content is not parseable JSON. This is the
// only import failure mode; a readable but malformed document never errors.
var ErrUnreadable = errors.New("file is not readable as JSON")

// Document is the versioned project export bundle.
type Document struct {
	Version    int                        `json:"version"`
	ExportedAt time.Time                  `json:"exportedAt"`
	Scores     types.Assessment           `json:"scores"`
	UseCases   []UseCaseDoc               `json:"useCases"`
	Placements map[string]types.Placement `json:"placements"`
}

// UseCaseDoc is the on-disk use-case shape. Ids are positional and therefore
// not serialized; import reassigns them from array position.
type UseCaseDoc struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Visible     bool           `json:"visible"`
	Scores      map[string]int `json:"scores"`
}

// MarshalJSON ensures a nil score map marshals as {} not null.
func (d UseCaseDoc) MarshalJSON() ([]byte, error) {
	if d.Scores == nil {
		d.Scores = map[string]int{}
	}
	type Alias UseCaseDoc
	return json.Marshal(Alias(d))
}

// MarshalJSON ensures nil collections in Document marshal as empty, never null.
func (d Document) MarshalJSON() ([]byte, error) {
	if d.UseCases == nil {
		d.UseCases = []UseCaseDoc{}
	}
	if d.Placements == nil {
		d.Placements = map[string]types.Placement{}
	}
	type Alias Document
	return json.Marshal(Alias(d))
}

// State is the repaired in-memory form of an imported document.
type State struct {
	Assessment types.Assessment
	UseCases   []types.UseCase
	Placements map[int]types.Placement
}

// Serialize snapshots session state into an export document. No fields are
// omitted regardless of default-ness.
func Serialize(assessment types.Assessment, useCases []types.UseCase, placements map[int]types.Placement) Document {
	docs := make([]UseCaseDoc, 0, len(useCases))
	for _, u := range useCases {
		c := u.Clone()
		docs = append(docs, UseCaseDoc{
			Name:        c.Name,
			Description: c.Description,
			Visible:     c.Visible,
			Scores:      c.Scores,
		})
	}

	pls := make(map[string]types.Placement, len(placements))
	for id, p := range placements {
		pls[strconv.Itoa(id)] = p
	}

	return Document{
		Version:    FormatVersion,
		ExportedAt: time.Now().UTC(),
		Scores:     assessment.Clone(),
		UseCases:   docs,
		Placements: pls,
	}
}

// Marshal encodes a document as indented JSON for file export.
func Marshal(doc Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode project document: %w", err)
	}
	return data, nil
}

// Deserialize parses and repairs a project document. It returns ErrUnreadable
// only when data is not valid JSON; any readable shape is repaired into a
// fully valid State.
func Deserialize(data []byte) (State, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return Repair(raw), nil
}

// Repair converts an arbitrary decoded JSON value into valid state. Each
// substructure is repaired independently; a bad field never rejects the
// document.
func Repair(raw any) State {
	m, _ := raw.(map[string]any)
	return State{
		Assessment: repairAssessment(m["scores"]),
		UseCases:   repairUseCases(m["useCases"]),
		Placements: repairPlacements(m["placements"]),
	}
}

// ImportAssessment parses and repairs a standalone readiness export file.
func ImportAssessment(data []byte) (types.Assessment, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return types.Assessment{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return repairAssessment(raw), nil
}

// ImportUseCases parses and repairs a standalone use-case export file
// (a JSON array). The result always has exactly ImportUseCaseCount entries.
func ImportUseCases(data []byte) ([]types.UseCase, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return repairUseCases(raw), nil
}

// ExportUseCases converts live use cases to their on-disk shape.
func ExportUseCases(useCases []types.UseCase) []UseCaseDoc {
	docs := make([]UseCaseDoc, 0, len(useCases))
	for _, u := range useCases {
		c := u.Clone()
		docs = append(docs, UseCaseDoc{
			Name:        c.Name,
			Description: c.Description,
			Visible:     c.Visible,
			Scores:      c.Scores,
		})
	}
	return docs
}

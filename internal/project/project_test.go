package project

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/hyperengineering/compass/internal/criteria"
	"github.com/hyperengineering/compass/internal/types"
)

func TestDeserialize_UnreadableFile(t *testing.T) {
	inputs := []string{
		"",
		"{not json",
		"\x00\x01\x02",
		`{"useCases": [}`,
	}
	for _, input := range inputs {
		_, err := Deserialize([]byte(input))
		if !errors.Is(err, ErrUnreadable) {
			t.Errorf("Deserialize(%q) error = %v, want ErrUnreadable", input, err)
		}
	}
}

func TestDeserialize_ReadableButMalformedNeverErrors(t *testing.T) {
	inputs := []string{
		"null",
		"42",
		`"a string"`,
		"[1,2,3]",
		"{}",
		`{"scores": 7, "useCases": true, "placements": []}`,
	}
	for _, input := range inputs {
		st, err := Deserialize([]byte(input))
		if err != nil {
			t.Errorf("Deserialize(%q) error = %v, want nil", input, err)
			continue
		}
		if len(st.UseCases) != ImportUseCaseCount {
			t.Errorf("Deserialize(%q) use cases = %d, want %d", input, len(st.UseCases), ImportUseCaseCount)
		}
		if len(st.Assessment.Scores) != len(criteria.Readiness) {
			t.Errorf("Deserialize(%q) assessment keys = %d, want %d", input, len(st.Assessment.Scores), len(criteria.Readiness))
		}
	}
}

func TestDeserialize_AssessmentRepair(t *testing.T) {
	input := `{"scores": {
		"data_quality": 99,
		"infrastructure": "4",
		"talent_skills": "garbage",
		"unknown_dimension": 5,
		"notes": "half migrated"
	}}`

	st, err := Deserialize([]byte(input))
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	a := st.Assessment

	if a.Scores["data_quality"] != 5 {
		t.Errorf("data_quality = %d, want 5 (clamped)", a.Scores["data_quality"])
	}
	if a.Scores["infrastructure"] != 4 {
		t.Errorf("infrastructure = %d, want 4 (coerced from string)", a.Scores["infrastructure"])
	}
	if a.Scores["talent_skills"] != 1 {
		t.Errorf("talent_skills = %d, want 1 (non-numeric bottoms out)", a.Scores["talent_skills"])
	}
	if a.Scores["strategy_alignment"] != 3 {
		t.Errorf("strategy_alignment = %d, want default 3", a.Scores["strategy_alignment"])
	}
	if _, ok := a.Scores["unknown_dimension"]; ok {
		t.Error("unknown key must be ignored")
	}
	if a.Notes != "half migrated" {
		t.Errorf("notes = %q, want %q", a.Notes, "half migrated")
	}
}

func TestDeserialize_NonTextNotesDropped(t *testing.T) {
	st, err := Deserialize([]byte(`{"scores": {"notes": 12}}`))
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	if st.Assessment.Notes != "" {
		t.Errorf("notes = %q, want empty", st.Assessment.Notes)
	}
}

func TestDeserialize_UseCasesPaddedToEight(t *testing.T) {
	st, err := Deserialize([]byte(`{"useCases":[{"name":"X"}]}`))
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}

	if len(st.UseCases) != 8 {
		t.Fatalf("use case count = %d, want 8", len(st.UseCases))
	}

	first := st.UseCases[0]
	if first.Name != "X" {
		t.Errorf("entry 0 name = %q, want %q", first.Name, "X")
	}
	if first.ID != 0 {
		t.Errorf("entry 0 id = %d, want 0", first.ID)
	}
	for _, key := range criteria.UseCaseKeys() {
		v := first.Scores[key]
		if v < criteria.CriterionMin || v > criteria.CriterionMax {
			t.Errorf("entry 0 score %q = %d, outside [1,10]", key, v)
		}
	}

	for i := 1; i < 8; i++ {
		u := st.UseCases[i]
		if u.ID != i {
			t.Errorf("entry %d id = %d, want %d", i, u.ID, i)
		}
		if u.Name != types.DefaultUseCaseName(i) {
			t.Errorf("entry %d name = %q, want %q", i, u.Name, types.DefaultUseCaseName(i))
		}
		if !u.Visible {
			t.Errorf("entry %d visible = false, want true", i)
		}
	}
}

func TestDeserialize_UseCasesTruncatedToEight(t *testing.T) {
	docs := make([]map[string]any, 12)
	for i := range docs {
		docs[i] = map[string]any{"name": "extra"}
	}
	data, _ := json.Marshal(map[string]any{"useCases": docs})

	st, err := Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	if len(st.UseCases) != 8 {
		t.Errorf("use case count = %d, want 8", len(st.UseCases))
	}
}

func TestDeserialize_UseCaseFieldRepair(t *testing.T) {
	input := `{"useCases":[{
		"name": 42,
		"description": false,
		"visible": "yes",
		"scores": {"revenue_potential": 25, "cost_reduction": -3, "strategic_fit": "8"}
	}]}`

	st, err := Deserialize([]byte(input))
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	u := st.UseCases[0]

	if u.Name != "Use Case 1" {
		t.Errorf("non-text name = %q, want synthesized label", u.Name)
	}
	if u.Description != "" {
		t.Errorf("non-text description = %q, want empty", u.Description)
	}
	if !u.Visible {
		t.Error("non-boolean visible must default to true")
	}
	if u.Scores["revenue_potential"] != 10 {
		t.Errorf("revenue_potential = %d, want 10 (clamped)", u.Scores["revenue_potential"])
	}
	if u.Scores["cost_reduction"] != 1 {
		t.Errorf("cost_reduction = %d, want 1 (clamped)", u.Scores["cost_reduction"])
	}
	if u.Scores["strategic_fit"] != 8 {
		t.Errorf("strategic_fit = %d, want 8 (coerced)", u.Scores["strategic_fit"])
	}
	if u.Scores["data_availability"] != 1 {
		t.Errorf("missing criterion = %d, want floor 1", u.Scores["data_availability"])
	}
}

func TestDeserialize_PlacementsClampedWhenStructurallyValid(t *testing.T) {
	st, err := Deserialize([]byte(`{"placements":{"2":{"x":1.5,"y":-0.3}}}`))
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}

	p, ok := st.Placements[2]
	if !ok {
		t.Fatal("structurally valid placement must be kept, not dropped")
	}
	if p.X != 1 || p.Y != 0 {
		t.Errorf("placement = %+v, want {1 0}", p)
	}
}

func TestDeserialize_InvalidPlacementsDropped(t *testing.T) {
	input := `{"placements":{
		"ok":        {"x":0.5,"y":0.5},
		"3.5":       {"x":0.5,"y":0.5},
		"1":         [0.5, 0.5],
		"2":         {"x":"0.5","y":0.5},
		"4":         {"x":0.5},
		"5":         {"x":0.2,"y":0.9}
	}}`

	st, err := Deserialize([]byte(input))
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}

	if len(st.Placements) != 1 {
		t.Fatalf("placement count = %d, want 1 (only id 5 valid): %+v", len(st.Placements), st.Placements)
	}
	if p := st.Placements[5]; p.X != 0.2 || p.Y != 0.9 {
		t.Errorf("placement 5 = %+v, want {0.2 0.9}", p)
	}
}

func TestSerialize_IncludesAllFields(t *testing.T) {
	a := types.NewAssessment()
	ucs := []types.UseCase{types.NewUseCase(0), types.NewUseCase(1)}
	pls := map[int]types.Placement{1: {X: 0.4, Y: 0.8}}

	doc := Serialize(a, ucs, pls)

	if doc.Version != FormatVersion {
		t.Errorf("version = %d, want %d", doc.Version, FormatVersion)
	}
	if doc.ExportedAt.IsZero() {
		t.Error("exportedAt must be set")
	}
	if len(doc.UseCases) != 2 {
		t.Errorf("use case count = %d, want 2", len(doc.UseCases))
	}
	if _, ok := doc.Placements["1"]; !ok {
		t.Error("placement id must be stringified in the document")
	}

	data, err := Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var envelope map[string]any
	if err := json.Unmarshal(data, &envelope); err != nil {
		t.Fatalf("re-parse failed: %v", err)
	}
	for _, key := range []string{"version", "exportedAt", "scores", "useCases", "placements"} {
		if _, ok := envelope[key]; !ok {
			t.Errorf("document missing %q field", key)
		}
	}
}

func TestSerialize_DoesNotAliasInput(t *testing.T) {
	a := types.NewAssessment()
	ucs := []types.UseCase{types.NewUseCase(0)}

	doc := Serialize(a, ucs, nil)
	doc.Scores.Scores["data_quality"] = 5
	doc.UseCases[0].Scores["strategic_fit"] = 9

	if a.Scores["data_quality"] == 5 {
		t.Error("document assessment aliases caller's map")
	}
	if ucs[0].Scores["strategic_fit"] == 9 {
		t.Error("document use case aliases caller's map")
	}
}

func TestRoundTrip_StableModuloTimestamp(t *testing.T) {
	a := types.NewAssessment()
	a.Scores["data_quality"] = 5
	a.Notes = "q3 review"

	ucs := make([]types.UseCase, 0, ImportUseCaseCount)
	for i := 0; i < ImportUseCaseCount; i++ {
		u := types.NewUseCase(i)
		u.Scores["revenue_potential"] = i + 2
		ucs = append(ucs, u)
	}
	ucs[0].Name = "Forecasting"
	ucs[1].Visible = false
	ucs[1].Description = "support deflection"

	pls := map[int]types.Placement{
		0: {X: 0.8, Y: 0.9},
		3: {X: 0.1, Y: 0.2},
	}

	data, err := Marshal(Serialize(a, ucs, pls))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	st, err := Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}

	first := Serialize(st.Assessment, st.UseCases, st.Placements)
	second := Serialize(a, ucs, pls)
	first.ExportedAt = second.ExportedAt

	if !reflect.DeepEqual(first, second) {
		t.Errorf("round trip not stable:\n got %+v\nwant %+v", first, second)
	}
}

func TestImportUseCases_ArrayRoot(t *testing.T) {
	ucs, err := ImportUseCases([]byte(`[{"name":"A"},{"name":"B"}]`))
	if err != nil {
		t.Fatalf("ImportUseCases failed: %v", err)
	}
	if len(ucs) != ImportUseCaseCount {
		t.Fatalf("count = %d, want %d", len(ucs), ImportUseCaseCount)
	}
	if ucs[0].Name != "A" || ucs[1].Name != "B" {
		t.Errorf("names = %q, %q, want A, B", ucs[0].Name, ucs[1].Name)
	}
}

func TestImportAssessment_FlatDocument(t *testing.T) {
	a, err := ImportAssessment([]byte(`{"data_quality": 4, "notes": "ok"}`))
	if err != nil {
		t.Fatalf("ImportAssessment failed: %v", err)
	}
	if a.Scores["data_quality"] != 4 {
		t.Errorf("data_quality = %d, want 4", a.Scores["data_quality"])
	}
	if a.Notes != "ok" {
		t.Errorf("notes = %q, want ok", a.Notes)
	}

	if _, err := ImportAssessment([]byte("{broken")); !errors.Is(err, ErrUnreadable) {
		t.Errorf("error = %v, want ErrUnreadable", err)
	}
}

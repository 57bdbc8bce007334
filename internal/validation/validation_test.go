package validation

import (
	"strings"
	"testing"
)

func TestCollector(t *testing.T) {
	var c Collector

	if c.HasErrors() {
		t.Error("fresh collector reports errors")
	}

	c.Add(nil)
	if c.HasErrors() {
		t.Error("nil error must be ignored")
	}

	c.Add(&ValidationError{Field: "name", Message: "bad"})
	c.Add(&ValidationError{Field: "notes", Message: "worse"})

	if !c.HasErrors() {
		t.Fatal("collector should report errors")
	}
	if len(c.Errors()) != 2 {
		t.Errorf("error count = %d, want 2", len(c.Errors()))
	}
	if c.Errors()[0].Field != "name" {
		t.Errorf("first field = %q, want name", c.Errors()[0].Field)
	}
}

func TestValidateUTF8(t *testing.T) {
	if err := ValidateUTF8("name", "église"); err != nil {
		t.Errorf("valid UTF-8 rejected: %v", err)
	}
	if err := ValidateUTF8("name", string([]byte{0xff, 0xfe})); err == nil {
		t.Error("invalid UTF-8 accepted")
	}
}

func TestValidateMaxLength(t *testing.T) {
	if err := ValidateMaxLength("notes", strings.Repeat("a", 10), 10); err != nil {
		t.Errorf("length at limit rejected: %v", err)
	}
	if err := ValidateMaxLength("notes", strings.Repeat("a", 11), 10); err == nil {
		t.Error("length over limit accepted")
	}
	// Rune count, not byte count.
	if err := ValidateMaxLength("notes", strings.Repeat("é", 10), 10); err != nil {
		t.Errorf("multibyte length at limit rejected: %v", err)
	}
}

func TestValidateEnum(t *testing.T) {
	allowed := []string{"a", "b"}
	if err := ValidateEnum("kind", "a", allowed); err != nil {
		t.Errorf("allowed value rejected: %v", err)
	}
	err := ValidateEnum("kind", "c", allowed)
	if err == nil {
		t.Fatal("disallowed value accepted")
	}
	if !strings.Contains(err.Message, "a, b") {
		t.Errorf("message %q does not list allowed values", err.Message)
	}
}

package rules_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"surveymatch/internal/errdefs"
	"surveymatch/internal/rules"
)

func TestDefaultCompiles(t *testing.T) {
	if err := rules.Default().Validate(); err != nil {
		t.Fatalf("default rules failed validation: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "rules.json")

	want := rules.Default()
	want.GradedNegativeContainsAny = []string{"no_dolphin"}
	want.GradedPositiveContainsAny = []string{"dolphin", "*"}
	if err := want.Save(path); err != nil {
		t.Fatalf("save rules: %v", err)
	}

	got, err := rules.Load(path)
	if err != nil {
		t.Fatalf("load rules: %v", err)
	}
	if got.SurveyIDRegexBase != want.SurveyIDRegexBase {
		t.Fatalf("base regex = %q, want %q", got.SurveyIDRegexBase, want.SurveyIDRegexBase)
	}
	if len(got.GradedPositiveContainsAny) != 2 || got.GradedPositiveContainsAny[1] != "*" {
		t.Fatalf("positive tokens did not survive round trip: %v", got.GradedPositiveContainsAny)
	}
}

func TestLoadDefaultsImageIDRegex(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.json")
	doc := []byte(`{
  "extensions": [".jpg"],
  "survey_id_regex_detected": "(\\d{8}_[A-Z]{2})",
  "survey_id_regex_base": "(\\d{8}_[A-Z]{2})",
  "image_id_regex": "",
  "graded_priority_ind_regex": "ind",
  "graded_priority_secondary_tokens": [],
  "graded_negative_contains_any": [],
  "graded_positive_contains_any": []
}
`)
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		t.Fatalf("write rules file: %v", err)
	}

	got, err := rules.Load(path)
	if err != nil {
		t.Fatalf("load rules: %v", err)
	}
	if got.ImageIDRegex != rules.DefaultImageIDRegex {
		t.Fatalf("empty image_id_regex not defaulted: %q", got.ImageIDRegex)
	}
}

func TestLoadRejectsMalformedDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write rules file: %v", err)
	}

	if _, err := rules.Load(path); !errors.Is(err, errdefs.ErrConfig) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := rules.Load(filepath.Join(t.TempDir(), "absent.json")); !errors.Is(err, errdefs.ErrConfig) {
		t.Fatalf("expected configuration error for missing file, got %v", err)
	}
}

func TestValidateRejectsBadPattern(t *testing.T) {
	r := rules.Default()
	r.GradedPriorityIndRegex = "(unclosed"
	if err := r.Validate(); !errors.Is(err, errdefs.ErrConfig) {
		t.Fatalf("expected configuration error for bad pattern, got %v", err)
	}
}

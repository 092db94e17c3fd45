package rules

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"surveymatch/internal/errdefs"
)

// Rules is the operator-editable matching policy for one run. Field names
// match the persisted JSON document exactly.
type Rules struct {
	Extensions                    []string `json:"extensions"`
	SurveyIDRegexDetected         string   `json:"survey_id_regex_detected"`
	SurveyIDRegexBase             string   `json:"survey_id_regex_base"`
	ImageIDRegex                  string   `json:"image_id_regex"`
	GradedPriorityIndRegex        string   `json:"graded_priority_ind_regex"`
	GradedPrioritySecondaryTokens []string `json:"graded_priority_secondary_tokens"`
	GradedNegativeContainsAny     []string `json:"graded_negative_contains_any"`
	GradedPositiveContainsAny     []string `json:"graded_positive_contains_any"`
}

// DefaultImageIDRegex strips trailing reviewer suffixes from a file stem so
// raw and graded copies of the same exposure share an id:
// "20100428_ALA_0449_QP_D" and "20100428_ALA_0449" both yield
// "20100428_ala_0449".
const DefaultImageIDRegex = `^(.+?_\d{3,5})(?:[ _][A-Za-z0-9]+)*$`

// Default returns the stock rules document: survey ids of the form
// YYYYMMDD_XX with an optional observer suffix, common image extensions,
// "ind" filenames as the authoritative positive indicator, and "best" as
// the only secondary token.
func Default() Rules {
	return Rules{
		Extensions:                    []string{".jpg", ".jpeg", ".png", ".tif", ".tiff"},
		SurveyIDRegexDetected:         `(?i)\b(\d{8}_[A-Z]{2}(?:_[A-Z]{2})?)\b`,
		SurveyIDRegexBase:             `(?i)\b(\d{8}_[A-Z]{2})(?:_[A-Z]{2})?\b`,
		ImageIDRegex:                  DefaultImageIDRegex,
		GradedPriorityIndRegex:        `(?i)\bind`,
		GradedPrioritySecondaryTokens: []string{"best"},
		GradedNegativeContainsAny:     []string{},
		GradedPositiveContainsAny:     []string{},
	}
}

// Load reads and parses a rules document. A missing or malformed file is a
// configuration error.
func Load(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, errdefs.Wrap(errdefs.ErrConfig, "rules", "read document", err)
	}
	var r Rules
	if err := json.Unmarshal(data, &r); err != nil {
		return Rules{}, errdefs.Wrap(errdefs.ErrConfig, "rules", fmt.Sprintf("parse %s", filepath.Base(path)), err)
	}
	if r.ImageIDRegex == "" {
		r.ImageIDRegex = DefaultImageIDRegex
	}
	return r, nil
}

// Save writes the document as indented JSON, creating parent directories
// as needed.
func (r Rules) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create rules directory %q: %w", dir, err)
		}
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode rules: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write rules: %w", err)
	}
	return nil
}

// Validate compiles every pattern and reports the first failure.
func (r Rules) Validate() error {
	_, err := r.Compile()
	return err
}

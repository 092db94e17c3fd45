package rules

import (
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/cases"

	"surveymatch/internal/errdefs"
)

// Matcher is the compiled, immutable form of a Rules document. It is safe
// for concurrent use once constructed.
type Matcher struct {
	extensions map[string]struct{}
	detected   *regexp.Regexp
	base       *regexp.Regexp
	imageID    *regexp.Regexp
	indicator  *regexp.Regexp
	secondary  []string
	negative   []string
	positive   []string
}

// Compile validates and compiles the document. Any pattern that fails to
// compile aborts with a configuration error naming the offending field.
func (r Rules) Compile() (*Matcher, error) {
	m := &Matcher{
		extensions: make(map[string]struct{}, len(r.Extensions)),
		secondary:  normalizeTokens(r.GradedPrioritySecondaryTokens),
		negative:   normalizeTokens(r.GradedNegativeContainsAny),
		positive:   normalizeTokens(r.GradedPositiveContainsAny),
	}
	for _, ext := range r.Extensions {
		normalized := normalizeExtension(ext)
		if normalized == "." {
			continue
		}
		m.extensions[normalized] = struct{}{}
	}

	var err error
	if m.detected, err = compileField("survey_id_regex_detected", r.SurveyIDRegexDetected); err != nil {
		return nil, err
	}
	if m.base, err = compileField("survey_id_regex_base", r.SurveyIDRegexBase); err != nil {
		return nil, err
	}
	if m.imageID, err = compileField("image_id_regex", r.ImageIDRegex); err != nil {
		return nil, err
	}
	if m.indicator, err = compileField("graded_priority_ind_regex", r.GradedPriorityIndRegex); err != nil {
		return nil, err
	}
	return m, nil
}

func compileField(field, pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errdefs.Wrap(errdefs.ErrConfig, "rules", "compile "+field, err)
	}
	return re, nil
}

// fold applies Unicode case folding, the comparison form used for every
// token, extension, and image-id match.
func fold(s string) string {
	return cases.Fold().String(s)
}

func normalizeExtension(ext string) string {
	trimmed := fold(strings.TrimSpace(ext))
	if strings.HasPrefix(trimmed, ".") {
		return trimmed
	}
	return "." + trimmed
}

func normalizeTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		normalized := fold(strings.TrimSpace(token))
		if normalized == "" {
			continue
		}
		out = append(out, normalized)
	}
	return out
}

// AllowsFile reports whether the filename carries one of the accepted
// extensions. Files without an extension are never accepted.
func (m *Matcher) AllowsFile(name string) bool {
	ext := filepath.Ext(name)
	if ext == "" {
		return false
	}
	_, ok := m.extensions[fold(ext)]
	return ok
}

// capture returns the first capture group of a match when the pattern
// defines one, otherwise the whole match.
func capture(re *regexp.Regexp, match []string) string {
	if re.NumSubexp() > 0 {
		return match[1]
	}
	return match[0]
}

// extractFirst applies a pattern and keeps the leftmost occurrence. An
// empty string means no identifier.
func extractFirst(re *regexp.Regexp, segment string) string {
	match := re.FindStringSubmatch(segment)
	if match == nil {
		return ""
	}
	return capture(re, match)
}

// extractLast keeps the rightmost occurrence instead, so the most specific
// identifier wins when a name embeds several.
func extractLast(re *regexp.Regexp, segment string) string {
	matches := re.FindAllStringSubmatch(segment, -1)
	if len(matches) == 0 {
		return ""
	}
	return capture(re, matches[len(matches)-1])
}

// BaseKey extracts the canonical pairing key from a directory name. Keys
// are uppercased so the two trees pair regardless of filename casing.
func (m *Matcher) BaseKey(dirName string) string {
	return strings.ToUpper(extractLast(m.base, dirName))
}

// DetectedID extracts the diagnostic survey id from a directory name,
// preserved as written.
func (m *Matcher) DetectedID(dirName string) string {
	return extractLast(m.detected, dirName)
}

// ImageID extracts the per-image correlation id from a filename. The
// pattern is applied to the stem (name minus extension) and the result is
// case-folded; an empty string means the file has no extractable id.
func (m *Matcher) ImageID(filename string) string {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	return fold(extractFirst(m.imageID, stem))
}

// Indicator reports whether the candidate path matches the authoritative
// indicator pattern. Matching is case-folded.
func (m *Matcher) Indicator(candidate string) bool {
	return m.indicator.MatchString(fold(candidate))
}

// SecondaryTokens returns the normalized secondary tokens in priority
// order. The returned slice must not be modified.
func (m *Matcher) SecondaryTokens() []string {
	return m.secondary
}

// ContainsToken reports whether the candidate path contains the (already
// normalized) token.
func (m *Matcher) ContainsToken(candidate, token string) bool {
	return strings.Contains(fold(candidate), token)
}

// AnyNegative reports whether the candidate path contains any configured
// negative token. A "*" entry matches every candidate.
func (m *Matcher) AnyNegative(candidate string) bool {
	return tokenListMatch(m.negative, candidate)
}

// AnyPositive reports whether the candidate path contains any configured
// positive token. A "*" entry matches every candidate.
func (m *Matcher) AnyPositive(candidate string) bool {
	return tokenListMatch(m.positive, candidate)
}

func tokenListMatch(tokens []string, candidate string) bool {
	if len(tokens) == 0 {
		return false
	}
	folded := fold(candidate)
	for _, token := range tokens {
		if token == "*" || strings.Contains(folded, token) {
			return true
		}
	}
	return false
}

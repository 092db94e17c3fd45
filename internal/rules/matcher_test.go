package rules_test

import (
	"testing"

	"surveymatch/internal/rules"
)

func mustCompile(t *testing.T, r rules.Rules) *rules.Matcher {
	t.Helper()
	m, err := r.Compile()
	if err != nil {
		t.Fatalf("compile rules: %v", err)
	}
	return m
}

func TestBaseKeyStripsRegionSuffix(t *testing.T) {
	m := mustCompile(t, rules.Default())

	cases := []struct {
		dir  string
		want string
	}{
		{"20250101_AB_CD", "20250101_AB"},
		{"20250101_AB", "20250101_AB"},
		{"Survey 20250101_ab extra", "20250101_AB"},
		{"copy of 20240101_ZZ redo 20250101_AB_CD", "20250101_AB"},
		{"no id here", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := m.BaseKey(tc.dir); got != tc.want {
			t.Fatalf("BaseKey(%q) = %q, want %q", tc.dir, got, tc.want)
		}
	}
}

func TestDetectedIDKeepsRegionSuffix(t *testing.T) {
	m := mustCompile(t, rules.Default())

	if got := m.DetectedID("20250101_AB_CD graded"); got != "20250101_AB_CD" {
		t.Fatalf("DetectedID = %q, want %q", got, "20250101_AB_CD")
	}
	if got := m.DetectedID("old 20240101_ZZ new 20250101_AB_CD"); got != "20250101_AB_CD" {
		t.Fatalf("DetectedID should keep the rightmost occurrence, got %q", got)
	}
	if got := m.DetectedID("nothing"); got != "" {
		t.Fatalf("DetectedID on non-matching name = %q, want empty", got)
	}
}

func TestImageIDExtraction(t *testing.T) {
	m := mustCompile(t, rules.Default())

	cases := []struct {
		file string
		want string
	}{
		{"20100428_ALA_0449_QP_D.jpg", "20100428_ala_0449"},
		{"20100428_ALA_0449.JPG", "20100428_ala_0449"},
		{"20100428_ALA_0449 copy.png", "20100428_ala_0449"},
		{"thumbs.db", ""},
	}
	for _, tc := range cases {
		if got := m.ImageID(tc.file); got != tc.want {
			t.Fatalf("ImageID(%q) = %q, want %q", tc.file, got, tc.want)
		}
	}
}

func TestAllowsFileIsCaseInsensitive(t *testing.T) {
	m := mustCompile(t, rules.Default())

	for _, name := range []string{"a.jpg", "b.JPG", "c.TIf", "d.jpeg", "e.png"} {
		if !m.AllowsFile(name) {
			t.Fatalf("expected %q to be accepted", name)
		}
	}
	for _, name := range []string{"a.txt", "noext", "archive.zip", ".jpg.bak"} {
		if m.AllowsFile(name) {
			t.Fatalf("expected %q to be rejected", name)
		}
	}
}

func TestExtensionNormalization(t *testing.T) {
	r := rules.Default()
	r.Extensions = []string{"JPG", " .Png ", "tif"}
	m := mustCompile(t, r)

	for _, name := range []string{"a.jpg", "b.png", "c.TIF"} {
		if !m.AllowsFile(name) {
			t.Fatalf("expected %q to be accepted after normalization", name)
		}
	}
	if m.AllowsFile("a.jpeg") {
		t.Fatal("jpeg not configured, should be rejected")
	}
}

func TestIndicatorMatching(t *testing.T) {
	m := mustCompile(t, rules.Default())

	for _, candidate := range []string{"ind/20250101_AB_0001.jpg", "best IND copy.jpg", "Indicator.jpg"} {
		if !m.Indicator(candidate) {
			t.Fatalf("expected indicator match for %q", candidate)
		}
	}
	if m.Indicator("best/20250101_AB_0001.jpg") {
		t.Fatal("unexpected indicator match")
	}
}

func TestTokenMatchingAndWildcard(t *testing.T) {
	r := rules.Default()
	r.GradedNegativeContainsAny = []string{"NO_DOLPHIN"}
	r.GradedPositiveContainsAny = []string{"*"}
	m := mustCompile(t, r)

	if !m.AnyNegative("survey/no_dolphin/img.jpg") {
		t.Fatal("expected folded negative token match")
	}
	if m.AnyNegative("survey/dolphin/img.jpg") {
		t.Fatal("unexpected negative token match")
	}
	if !m.AnyPositive("anything at all") {
		t.Fatal("wildcard positive token should match every candidate")
	}
}

func TestSecondaryTokensNormalized(t *testing.T) {
	r := rules.Default()
	r.GradedPrioritySecondaryTokens = []string{" Best ", "", "TOP"}
	m := mustCompile(t, r)

	got := m.SecondaryTokens()
	if len(got) != 2 || got[0] != "best" || got[1] != "top" {
		t.Fatalf("secondary tokens = %v, want [best top]", got)
	}
	if !m.ContainsToken("path/BEST/img.jpg", "best") {
		t.Fatal("expected folded token containment")
	}
}

func TestCompileRejectsBadPattern(t *testing.T) {
	r := rules.Default()
	r.ImageIDRegex = "(["
	if _, err := r.Compile(); err == nil {
		t.Fatal("expected compile error for malformed pattern")
	}
}

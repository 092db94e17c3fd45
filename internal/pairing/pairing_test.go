package pairing_test

import (
	"strings"
	"testing"

	"surveymatch/internal/pairing"
	"surveymatch/internal/survey"
)

func unit(key, root string, side survey.Side, files ...string) *survey.Unit {
	return &survey.Unit{
		BaseKey:    key,
		Side:       side,
		Root:       root,
		DetectedID: key,
		Files:      files,
	}
}

func TestResolveMatchedPair(t *testing.T) {
	raw := map[string][]*survey.Unit{
		"20250101_AB": {unit("20250101_AB", "/raw/20250101_AB", survey.SideRaw, "a.jpg", "b.jpg")},
	}
	graded := map[string][]*survey.Unit{
		"20250101_AB": {unit("20250101_AB", "/graded/20250101_AB", survey.SideGraded, "a.jpg")},
	}

	pairs, problems := pairing.Resolve(raw, graded)
	if len(pairs) != 1 || len(problems) != 0 {
		t.Fatalf("pairs=%d problems=%d, want 1 and 0", len(pairs), len(problems))
	}
	pair := pairs[0]
	if pair.Status != survey.StatusOK {
		t.Fatalf("status = %q", pair.Status)
	}
	if !pair.Classifiable() {
		t.Fatal("matched pair should be classifiable")
	}
	if pair.RawImageCount != 2 || pair.GradedImageCount != 1 {
		t.Fatalf("counts = %d/%d, want 2/1", pair.RawImageCount, pair.GradedImageCount)
	}
}

func TestResolveRawOrphan(t *testing.T) {
	raw := map[string][]*survey.Unit{
		"20250103_EF": {unit("20250103_EF", "/raw/2025/02/20250103_EF", survey.SideRaw, "x.jpg")},
	}

	pairs, problems := pairing.Resolve(raw, map[string][]*survey.Unit{})
	if len(pairs) != 1 {
		t.Fatalf("pairs = %d, want 1", len(pairs))
	}
	pair := pairs[0]
	if pair.Status != survey.StatusRawOrphan {
		t.Fatalf("status = %q, want %q", pair.Status, survey.StatusRawOrphan)
	}
	if pair.Problem != survey.ProblemGradedMissing {
		t.Fatalf("problem = %q", pair.Problem)
	}
	if pair.Classifiable() {
		t.Fatal("orphan must not be classifiable")
	}
	if len(problems) != 1 {
		t.Fatalf("problems = %d, want 1", len(problems))
	}
	record := problems[0]
	if record.Type != survey.ProblemGradedMissing || record.RawPath == "" || record.GradedPath != "" {
		t.Fatalf("unexpected problem record: %+v", record)
	}
}

func TestResolveGradedOrphan(t *testing.T) {
	graded := map[string][]*survey.Unit{
		"20250104_GH": {unit("20250104_GH", "/graded/20250104_GH", survey.SideGraded, "x.jpg")},
	}

	pairs, problems := pairing.Resolve(map[string][]*survey.Unit{}, graded)
	pair := pairs[0]
	if pair.Status != survey.StatusGradedOrphan {
		t.Fatalf("status = %q, want %q", pair.Status, survey.StatusGradedOrphan)
	}
	if pair.Problem != survey.ProblemRawMissing {
		t.Fatalf("problem = %q", pair.Problem)
	}
	if len(problems) != 1 || problems[0].GradedPath == "" || problems[0].DetectedID != "20250104_GH" {
		t.Fatalf("unexpected problem records: %+v", problems)
	}
}

func TestResolveAmbiguousPrefersMostFiles(t *testing.T) {
	raw := map[string][]*survey.Unit{
		"20250101_AB": {
			unit("20250101_AB", "/raw/a/20250101_AB", survey.SideRaw, "one.jpg"),
			unit("20250101_AB", "/raw/b/20250101_AB", survey.SideRaw, "one.jpg", "two.jpg"),
		},
	}
	graded := map[string][]*survey.Unit{
		"20250101_AB": {unit("20250101_AB", "/graded/20250101_AB", survey.SideGraded, "one.jpg")},
	}

	pairs, problems := pairing.Resolve(raw, graded)
	pair := pairs[0]
	if pair.Status != survey.StatusAmbiguous {
		t.Fatalf("status = %q, want %q", pair.Status, survey.StatusAmbiguous)
	}
	if pair.Raw.Root != "/raw/b/20250101_AB" {
		t.Fatalf("winner = %q, want candidate with most files", pair.Raw.Root)
	}
	if !pair.Classifiable() {
		t.Fatal("ambiguous pair should still classify with the winner")
	}
	if len(problems) != 1 {
		t.Fatalf("problems = %d, want 1", len(problems))
	}
	if problems[0].Type != survey.ProblemMultipleMatches {
		t.Fatalf("problem type = %q", problems[0].Type)
	}
	if !strings.Contains(problems[0].Details, "/raw/a/20250101_AB") {
		t.Fatalf("losing candidate missing from details: %q", problems[0].Details)
	}
	if strings.Contains(problems[0].Details, "/raw/b/20250101_AB") {
		t.Fatalf("winner listed as loser: %q", problems[0].Details)
	}
}

func TestResolveTieBreaksOnSmallestRoot(t *testing.T) {
	raw := map[string][]*survey.Unit{
		"20250101_AB": {
			unit("20250101_AB", "/raw/a/20250101_AB", survey.SideRaw, "one.jpg"),
			unit("20250101_AB", "/raw/b/20250101_AB", survey.SideRaw, "two.jpg"),
		},
	}
	graded := map[string][]*survey.Unit{
		"20250101_AB": {unit("20250101_AB", "/graded/20250101_AB", survey.SideGraded, "one.jpg")},
	}

	pairs, _ := pairing.Resolve(raw, graded)
	if pairs[0].Raw.Root != "/raw/a/20250101_AB" {
		t.Fatalf("tie should pick smallest root, got %q", pairs[0].Raw.Root)
	}
}

func TestResolveOrphanWithDuplicates(t *testing.T) {
	graded := map[string][]*survey.Unit{
		"20250101_AB": {
			unit("20250101_AB", "/graded/a/20250101_AB", survey.SideGraded, "one.jpg"),
			unit("20250101_AB", "/graded/b/20250101_AB", survey.SideGraded, "one.jpg", "two.jpg"),
		},
	}

	pairs, problems := pairing.Resolve(map[string][]*survey.Unit{}, graded)
	pair := pairs[0]
	if pair.Status != survey.StatusGradedOrphan {
		t.Fatalf("orphan status should win over ambiguity, got %q", pair.Status)
	}
	if len(problems) != 2 {
		t.Fatalf("problems = %d, want duplicate and missing records", len(problems))
	}
	if problems[0].Type != survey.ProblemMultipleMatches || problems[1].Type != survey.ProblemRawMissing {
		t.Fatalf("unexpected problem ordering: %q, %q", problems[0].Type, problems[1].Type)
	}
}

func TestResolveOrdersPairsByBaseKey(t *testing.T) {
	raw := map[string][]*survey.Unit{
		"20250103_EF": {unit("20250103_EF", "/raw/20250103_EF", survey.SideRaw, "x.jpg")},
		"20250101_AB": {unit("20250101_AB", "/raw/20250101_AB", survey.SideRaw, "x.jpg")},
	}
	graded := map[string][]*survey.Unit{
		"20250102_CD": {unit("20250102_CD", "/graded/20250102_CD", survey.SideGraded, "x.jpg")},
	}

	pairs, _ := pairing.Resolve(raw, graded)
	var keys []string
	for _, pair := range pairs {
		keys = append(keys, pair.BaseKey)
	}
	want := []string{"20250101_AB", "20250102_CD", "20250103_EF"}
	for i, key := range want {
		if keys[i] != key {
			t.Fatalf("pair order = %v, want %v", keys, want)
		}
	}
}

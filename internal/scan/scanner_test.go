package scan_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"surveymatch/internal/errdefs"
	"surveymatch/internal/rules"
	"surveymatch/internal/scan"
	"surveymatch/internal/survey"
	"surveymatch/internal/testsupport"
)

func defaultMatcher(t *testing.T) *rules.Matcher {
	t.Helper()
	m, err := rules.Default().Compile()
	if err != nil {
		t.Fatalf("compile default rules: %v", err)
	}
	return m
}

func TestRootGroupsFilesBySurvey(t *testing.T) {
	root := t.TempDir()
	testsupport.BuildTree(t, root,
		"2025/20250101_AB/img_002.jpg",
		"2025/20250101_AB/img_001.jpg",
		"2025/20250101_AB/sub/img_003.jpg",
		"2025/20250102_CD_EF/a.jpg",
	)
	testsupport.WriteImage(t, filepath.Join(root, "2025", "20250101_AB", "notes.txt"))

	result, err := scan.Root(root, survey.SideRaw, defaultMatcher(t))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	unitAB := singleUnit(t, result, "20250101_AB")
	wantFiles := []string{"img_001.jpg", "img_002.jpg", "sub/img_003.jpg"}
	if diff := cmp.Diff(wantFiles, unitAB.Files); diff != "" {
		t.Fatalf("unit files mismatch (-want +got):\n%s", diff)
	}
	if unitAB.DetectedID != "20250101_AB" {
		t.Fatalf("detected id = %q", unitAB.DetectedID)
	}

	unitCD := singleUnit(t, result, "20250102_CD")
	if unitCD.DetectedID != "20250102_CD_EF" {
		t.Fatalf("detected id should keep the region suffix, got %q", unitCD.DetectedID)
	}
	if unitCD.FileCount() != 1 {
		t.Fatalf("unit file count = %d, want 1", unitCD.FileCount())
	}

	if result.Unclassified != nil {
		t.Fatalf("unexpected unclassified files: %v", result.Unclassified.Files)
	}
	if len(result.Problems) != 0 {
		t.Fatalf("unexpected problems: %v", result.Problems)
	}
}

func TestRootCollectsUnclassifiedFiles(t *testing.T) {
	root := t.TempDir()
	testsupport.BuildTree(t, root,
		"20250101_AB/img_001.jpg",
		"misc/stray.jpg",
		"loose.jpg",
	)

	result, err := scan.Root(root, survey.SideGraded, defaultMatcher(t))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	if result.Unclassified == nil {
		t.Fatal("expected unclassified unit")
	}
	want := []string{"loose.jpg", "misc/stray.jpg"}
	if diff := cmp.Diff(want, result.Unclassified.Files); diff != "" {
		t.Fatalf("unclassified files mismatch (-want +got):\n%s", diff)
	}

	if len(result.Problems) != 1 {
		t.Fatalf("expected one problem, got %d", len(result.Problems))
	}
	problem := result.Problems[0]
	if problem.Type != survey.ProblemUnclassifiedFiles {
		t.Fatalf("problem type = %q", problem.Type)
	}
	if problem.SurveyBase != survey.UnclassifiedKey {
		t.Fatalf("problem base key = %q", problem.SurveyBase)
	}
	if problem.GradedPath != root {
		t.Fatalf("problem graded path = %q, want scan root", problem.GradedPath)
	}
	if !strings.Contains(problem.Details, "2 file(s)") || !strings.Contains(problem.Details, "loose.jpg") {
		t.Fatalf("problem details = %q", problem.Details)
	}
}

func TestRootSkipsEmptySurveyDirectories(t *testing.T) {
	root := t.TempDir()
	testsupport.MkdirAll(t, filepath.Join(root, "20250101_AB"))
	testsupport.MkdirAll(t, filepath.Join(root, "2025", "20250102_CD"))
	testsupport.BuildTree(t, root, "20250103_EF/img_001.jpg")

	result, err := scan.Root(root, survey.SideRaw, defaultMatcher(t))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	if len(result.Units) != 1 {
		t.Fatalf("expected one unit, got %d: %v", len(result.Units), result.Units)
	}
	if _, ok := result.Units["20250103_EF"]; !ok {
		t.Fatal("expected unit for the directory that holds files")
	}
	if result.Unclassified != nil || len(result.Problems) != 0 {
		t.Fatalf("empty directories should produce nothing: %+v", result)
	}
}

func TestRootKeepsDuplicateCandidates(t *testing.T) {
	root := t.TempDir()
	testsupport.BuildTree(t, root,
		"batch_a/20250101_AB/one.jpg",
		"batch_b/20250101_AB redo/two.jpg",
		"batch_b/20250101_AB redo/three.jpg",
	)

	result, err := scan.Root(root, survey.SideRaw, defaultMatcher(t))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	candidates := result.Units["20250101_AB"]
	if len(candidates) != 2 {
		t.Fatalf("expected two candidates, got %d", len(candidates))
	}
	if candidates[0].Root >= candidates[1].Root {
		t.Fatalf("candidates not sorted by root: %q, %q", candidates[0].Root, candidates[1].Root)
	}
}

func TestRootNearestAncestorOwnsFile(t *testing.T) {
	root := t.TempDir()
	testsupport.BuildTree(t, root,
		"20250101_AB/top.jpg",
		"20250101_AB/archive/20250102_CD/nested.jpg",
	)

	result, err := scan.Root(root, survey.SideRaw, defaultMatcher(t))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	unitAB := singleUnit(t, result, "20250101_AB")
	if diff := cmp.Diff([]string{"top.jpg"}, unitAB.Files); diff != "" {
		t.Fatalf("outer unit files mismatch (-want +got):\n%s", diff)
	}
	unitCD := singleUnit(t, result, "20250102_CD")
	if diff := cmp.Diff([]string{"nested.jpg"}, unitCD.Files); diff != "" {
		t.Fatalf("nested unit files mismatch (-want +got):\n%s", diff)
	}
}

func TestRootUnreadableSubtreeBecomesProblem(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	root := t.TempDir()
	testsupport.BuildTree(t, root,
		"20250101_AB/ok.jpg",
		"20250103_XY/locked/hidden.jpg",
	)
	locked := filepath.Join(root, "20250103_XY", "locked")
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	result, err := scan.Root(root, survey.SideRaw, defaultMatcher(t))
	if err != nil {
		t.Fatalf("scan should tolerate unreadable subtree: %v", err)
	}

	if _, ok := result.Units["20250101_AB"]; !ok {
		t.Fatal("sibling survey should still be scanned")
	}
	if len(result.Problems) != 1 {
		t.Fatalf("expected one problem, got %d: %v", len(result.Problems), result.Problems)
	}
	problem := result.Problems[0]
	if problem.Type != survey.ProblemScanError {
		t.Fatalf("problem type = %q", problem.Type)
	}
	if problem.SurveyBase != "20250103_XY" {
		t.Fatalf("problem attributed to %q, want owning survey", problem.SurveyBase)
	}
	if problem.RawPath != locked {
		t.Fatalf("problem raw path = %q, want %q", problem.RawPath, locked)
	}
}

func TestRootMissingIsFatal(t *testing.T) {
	_, err := scan.Root(filepath.Join(t.TempDir(), "absent"), survey.SideRaw, defaultMatcher(t))
	if !errors.Is(err, errdefs.ErrScan) {
		t.Fatalf("expected scan error, got %v", err)
	}
}

func TestRootRejectsFileRoot(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "plain.jpg")
	testsupport.WriteImage(t, file)

	if _, err := scan.Root(file, survey.SideRaw, defaultMatcher(t)); !errors.Is(err, errdefs.ErrScan) {
		t.Fatalf("expected scan error for file root, got %v", err)
	}
}

func TestCollectFiles(t *testing.T) {
	root := t.TempDir()
	testsupport.BuildTree(t, root,
		"sub/b.jpg",
		"a.jpg",
		"skip.txt",
	)

	files, err := scan.CollectFiles(root, defaultMatcher(t))
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if diff := cmp.Diff([]string{"a.jpg", "sub/b.jpg"}, files); diff != "" {
		t.Fatalf("collected files mismatch (-want +got):\n%s", diff)
	}
}

func singleUnit(t *testing.T, result *scan.Result, baseKey string) *survey.Unit {
	t.Helper()
	candidates := result.Units[baseKey]
	if len(candidates) != 1 {
		t.Fatalf("expected one candidate for %s, got %d", baseKey, len(candidates))
	}
	return candidates[0]
}

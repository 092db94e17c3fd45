package scan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"surveymatch/internal/errdefs"
	"surveymatch/internal/rules"
	"surveymatch/internal/survey"
)

// unclassifiedSampleLimit caps how many paths an unclassified-files problem
// record quotes in its details.
const unclassifiedSampleLimit = 10

// Result holds everything discovered under one root.
type Result struct {
	// Units maps base key to candidate units, sorted by root path. More
	// than one candidate for a key means the tree holds duplicate survey
	// directories; the pairing step decides the winner.
	Units map[string][]*survey.Unit
	// Unclassified collects files whose ancestry yields no base key. Nil
	// when every file found an owner.
	Unclassified *survey.Unit
	// Problems records unreadable subtrees and unclassified files.
	Problems []survey.ProblemRecord
}

type walker struct {
	root    string
	side    survey.Side
	matcher *rules.Matcher

	units    map[string]*survey.Unit // keyed by owning directory
	owners   map[string]string       // directory to owning directory, "" when none
	orphaned []string                // relpaths of files with no owning directory
	problems []survey.ProblemRecord
}

// Root scans a raw or graded tree. Each accepted file is attached to its
// nearest ancestor directory whose name yields a base key; files with no
// such ancestor are collected under the unclassified pseudo key and
// surfaced as a problem. An unreadable subtree becomes a problem record
// and scanning continues; an unreadable root fails the scan.
func Root(root string, side survey.Side, m *rules.Matcher) (*Result, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errdefs.Wrap(errdefs.ErrScan, "scan", "resolve root", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, errdefs.Wrap(errdefs.ErrScan, "scan", "stat root", err)
	}
	if !info.IsDir() {
		return nil, errdefs.Wrapf(errdefs.ErrScan, "scan", "stat root", "%s is not a directory", absRoot)
	}

	w := &walker{
		root:    absRoot,
		side:    side,
		matcher: m,
		units:   make(map[string]*survey.Unit),
		owners:  make(map[string]string),
	}
	if err := filepath.WalkDir(absRoot, w.visit); err != nil {
		return nil, err
	}
	return w.finish(), nil
}

func (w *walker) visit(path string, d fs.DirEntry, err error) error {
	if err != nil {
		if path == w.root {
			return errdefs.Wrap(errdefs.ErrScan, "scan", "read root", err)
		}
		dir := path
		if d == nil || !d.IsDir() {
			dir = filepath.Dir(path)
		}
		w.problems = append(w.problems, w.subtreeProblem(path, dir, err))
		return nil
	}
	if !d.Type().IsRegular() {
		return nil
	}
	if !w.matcher.AllowsFile(d.Name()) {
		return nil
	}

	dir := filepath.Dir(path)
	owner := w.ownerOf(dir)
	if owner == "" {
		w.orphaned = append(w.orphaned, relPath(path, w.root))
		return nil
	}
	unit := w.units[owner]
	if unit == nil {
		name := filepath.Base(owner)
		unit = &survey.Unit{
			BaseKey:    w.matcher.BaseKey(name),
			Side:       w.side,
			Root:       owner,
			DetectedID: w.matcher.DetectedID(name),
		}
		w.units[owner] = unit
	}
	unit.Files = append(unit.Files, relPath(path, owner))
	return nil
}

// ownerOf resolves the nearest ancestor of dir, up to and including the
// scan root, whose name yields a base key. Results are memoized per
// directory since siblings share ancestry.
func (w *walker) ownerOf(dir string) string {
	if owner, ok := w.owners[dir]; ok {
		return owner
	}
	owner := ""
	if w.matcher.BaseKey(filepath.Base(dir)) != "" {
		owner = dir
	} else if dir != w.root {
		owner = w.ownerOf(filepath.Dir(dir))
	}
	w.owners[dir] = owner
	return owner
}

// subtreeProblem records an unreadable subtree, attributed to the nearest
// owning survey when one exists.
func (w *walker) subtreeProblem(path, dir string, err error) survey.ProblemRecord {
	baseKey := survey.UnclassifiedKey
	detected := ""
	if owner := w.ownerOf(dir); owner != "" {
		name := filepath.Base(owner)
		baseKey = w.matcher.BaseKey(name)
		detected = w.matcher.DetectedID(name)
	}
	problem := survey.ProblemRecord{
		SurveyBase: baseKey,
		DetectedID: detected,
		Type:       survey.ProblemScanError,
		Details:    err.Error(),
	}
	switch w.side {
	case survey.SideRaw:
		problem.RawPath = path
	case survey.SideGraded:
		problem.GradedPath = path
	}
	return problem
}

func (w *walker) finish() *Result {
	result := &Result{Units: make(map[string][]*survey.Unit, len(w.units))}
	for _, unit := range w.units {
		sort.Strings(unit.Files)
		result.Units[unit.BaseKey] = append(result.Units[unit.BaseKey], unit)
	}
	for _, candidates := range result.Units {
		sort.Slice(candidates, func(i, j int) bool { return candidates[i].Root < candidates[j].Root })
	}

	if len(w.orphaned) > 0 {
		sort.Strings(w.orphaned)
		result.Unclassified = &survey.Unit{
			BaseKey: survey.UnclassifiedKey,
			Side:    w.side,
			Root:    w.root,
			Files:   w.orphaned,
		}
		problem := survey.ProblemRecord{
			SurveyBase: survey.UnclassifiedKey,
			Type:       survey.ProblemUnclassifiedFiles,
			Details:    unclassifiedDetails(w.orphaned),
		}
		switch w.side {
		case survey.SideRaw:
			problem.RawPath = w.root
		case survey.SideGraded:
			problem.GradedPath = w.root
		}
		result.Problems = append(w.problems, problem)
	} else {
		result.Problems = w.problems
	}
	return result
}

func unclassifiedDetails(files []string) string {
	sample := files
	if len(sample) > unclassifiedSampleLimit {
		sample = sample[:unclassifiedSampleLimit]
	}
	return fmt.Sprintf("%d file(s) under directories without a survey id: %s",
		len(files), strings.Join(sample, "; "))
}

// CollectFiles gathers every accepted file under root as sorted relative
// paths, for callers that treat the whole directory as one survey.
// Unreadable subtrees are skipped; an unreadable root is an error.
func CollectFiles(root string, m *rules.Matcher) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errdefs.Wrap(errdefs.ErrScan, "scan", "resolve root", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, errdefs.Wrap(errdefs.ErrScan, "scan", "stat root", err)
	}
	if !info.IsDir() {
		return nil, errdefs.Wrapf(errdefs.ErrScan, "scan", "stat root", "%s is not a directory", absRoot)
	}
	var files []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == absRoot {
				return errdefs.Wrap(errdefs.ErrScan, "scan", "read root", err)
			}
			return nil
		}
		if d.Type().IsRegular() && m.AllowsFile(d.Name()) {
			files = append(files, relPath(path, absRoot))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// relPath renders path relative to root with forward slashes, matching the
// form reports and classification tokens see.
func relPath(path, root string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

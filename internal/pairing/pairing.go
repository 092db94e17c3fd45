package pairing

import (
	"sort"
	"strings"

	"surveymatch/internal/survey"
)

// Resolve pairs raw candidates against graded candidates. Every base key
// observed on either side yields exactly one pair, ordered by base key.
// When a side has several candidate directories for one key, the candidate
// with the most member files wins (ties broken by smallest root path) and
// the rest are reported as a multiple_matches problem.
func Resolve(raw, graded map[string][]*survey.Unit) ([]*survey.Paired, []survey.ProblemRecord) {
	keys := make(map[string]struct{}, len(raw)+len(graded))
	for key := range raw {
		keys[key] = struct{}{}
	}
	for key := range graded {
		keys[key] = struct{}{}
	}
	ordered := make([]string, 0, len(keys))
	for key := range keys {
		ordered = append(ordered, key)
	}
	sort.Strings(ordered)

	pairs := make([]*survey.Paired, 0, len(ordered))
	var problems []survey.ProblemRecord
	for _, key := range ordered {
		pair, keyProblems := resolveKey(key, raw[key], graded[key])
		pairs = append(pairs, pair)
		problems = append(problems, keyProblems...)
	}
	return pairs, problems
}

func resolveKey(key string, rawList, gradedList []*survey.Unit) (*survey.Paired, []survey.ProblemRecord) {
	rawUnit, rawLosers := selectWinner(rawList)
	gradedUnit, gradedLosers := selectWinner(gradedList)

	pair := &survey.Paired{
		BaseKey: key,
		Raw:     rawUnit,
		Graded:  gradedUnit,
		Status:  survey.StatusOK,
	}
	if rawUnit != nil {
		pair.RawImageCount = rawUnit.FileCount()
	}
	if gradedUnit != nil {
		pair.GradedImageCount = gradedUnit.FileCount()
	}

	var problems []survey.ProblemRecord
	if len(rawLosers) > 0 {
		problems = append(problems, duplicateProblem(key, rawUnit, rawLosers, survey.SideRaw))
	}
	if len(gradedLosers) > 0 {
		problems = append(problems, duplicateProblem(key, gradedUnit, gradedLosers, survey.SideGraded))
	}

	switch {
	case rawUnit == nil:
		pair.Status = survey.StatusGradedOrphan
		pair.Problem = survey.ProblemRawMissing
		pair.Details = "No raw survey folder found."
		problems = append(problems, survey.ProblemRecord{
			SurveyBase: key,
			DetectedID: gradedUnit.DetectedID,
			GradedPath: gradedUnit.Root,
			Type:       survey.ProblemRawMissing,
		})
	case gradedUnit == nil:
		pair.Status = survey.StatusRawOrphan
		pair.Problem = survey.ProblemGradedMissing
		pair.Details = "No graded survey folder found."
		problems = append(problems, survey.ProblemRecord{
			SurveyBase: key,
			DetectedID: rawUnit.DetectedID,
			RawPath:    rawUnit.Root,
			Type:       survey.ProblemGradedMissing,
		})
	case len(rawLosers) > 0 || len(gradedLosers) > 0:
		pair.Status = survey.StatusAmbiguous
		pair.Problem = survey.ProblemMultipleMatches
		pair.Details = ambiguityDetails(rawLosers, gradedLosers)
	}
	return pair, problems
}

// selectWinner picks the candidate with the most member files. Candidates
// arrive sorted by root path, so on a tie the smallest root wins.
func selectWinner(candidates []*survey.Unit) (*survey.Unit, []*survey.Unit) {
	if len(candidates) == 0 {
		return nil, nil
	}
	winner := candidates[0]
	for _, candidate := range candidates[1:] {
		if candidate.FileCount() > winner.FileCount() {
			winner = candidate
		}
	}
	losers := make([]*survey.Unit, 0, len(candidates)-1)
	for _, candidate := range candidates {
		if candidate != winner {
			losers = append(losers, candidate)
		}
	}
	return winner, losers
}

func duplicateProblem(key string, winner *survey.Unit, losers []*survey.Unit, side survey.Side) survey.ProblemRecord {
	problem := survey.ProblemRecord{
		SurveyBase: key,
		Type:       survey.ProblemMultipleMatches,
		Details:    string(side) + " candidates not selected: " + joinRoots(losers),
	}
	if winner != nil {
		problem.DetectedID = winner.DetectedID
		switch side {
		case survey.SideRaw:
			problem.RawPath = winner.Root
		case survey.SideGraded:
			problem.GradedPath = winner.Root
		}
	}
	return problem
}

func ambiguityDetails(rawLosers, gradedLosers []*survey.Unit) string {
	var parts []string
	if len(rawLosers) > 0 {
		parts = append(parts, "raw candidates not selected: "+joinRoots(rawLosers))
	}
	if len(gradedLosers) > 0 {
		parts = append(parts, "graded candidates not selected: "+joinRoots(gradedLosers))
	}
	return strings.Join(parts, "; ")
}

func joinRoots(units []*survey.Unit) string {
	roots := make([]string, len(units))
	for i, unit := range units {
		roots[i] = unit.Root
	}
	return strings.Join(roots, "; ")
}

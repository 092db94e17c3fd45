package classify

import (
	"path"

	"surveymatch/internal/rules"
	"surveymatch/internal/survey"
)

// Grader classifies raw images of one paired survey against the graded
// unit's files. Construction indexes the graded side once; Classify is then
// a pure function of the raw path, so a Grader is safe for concurrent use.
type Grader struct {
	matcher *rules.Matcher
	byID    map[string][]string
	all     []string
	hasIDs  bool
}

// Outcome is the classification of one raw image.
type Outcome struct {
	Label         survey.Label
	Winner        survey.WinnerType
	GradedRelPath string
	GradedHits    int
	// Ambiguous marks a decision carried by a signal that only part of
	// the candidate set shares.
	Ambiguous bool
}

// NewGrader indexes the graded unit by image id. A nil unit produces a
// grader that labels everything No.
func NewGrader(m *rules.Matcher, graded *survey.Unit) *Grader {
	g := &Grader{matcher: m, byID: make(map[string][]string)}
	if graded == nil {
		return g
	}
	for _, relpath := range graded.Files {
		g.all = append(g.all, relpath)
		id := m.ImageID(path.Base(relpath))
		if id == "" {
			continue
		}
		g.hasIDs = true
		g.byID[id] = append(g.byID[id], relpath)
	}
	return g
}

// Classify labels one raw image. Candidates are the graded files sharing
// the raw image's id; when either side yields no id the whole graded unit
// is the candidate set. Signals are evaluated in fixed priority order:
// negative override, indicator, positive token, secondary tokens in list
// order, then bare presence.
func (g *Grader) Classify(rawRelPath string) Outcome {
	candidates := g.candidatesFor(rawRelPath)
	outcome := Outcome{GradedHits: len(candidates)}
	if len(candidates) == 0 {
		return outcome
	}

	if match, ok := firstWhere(candidates, g.matcher.AnyNegative); ok {
		outcome.Label = survey.LabelNo
		outcome.Winner = survey.WinnerNegativeOverride
		outcome.GradedRelPath = match
		return outcome
	}
	if match, ok := firstWhere(candidates, g.matcher.Indicator); ok {
		outcome.Label = survey.LabelYes
		outcome.Winner = survey.WinnerIndicator
		outcome.GradedRelPath = match
		return outcome
	}
	if match, ok := firstWhere(candidates, g.matcher.AnyPositive); ok {
		outcome.Label = survey.LabelYes
		outcome.Winner = survey.WinnerPositiveToken
		outcome.GradedRelPath = match
		return outcome
	}
	for _, token := range g.matcher.SecondaryTokens() {
		match, ok := firstWhere(candidates, func(candidate string) bool {
			return g.matcher.ContainsToken(candidate, token)
		})
		if !ok {
			continue
		}
		outcome.Label = survey.LabelYes
		outcome.Winner = survey.SecondaryWinner(token)
		outcome.GradedRelPath = match
		outcome.Ambiguous = !allContain(g.matcher, candidates, token)
		return outcome
	}

	outcome.Label = survey.LabelYes
	outcome.Winner = survey.WinnerPresence
	outcome.GradedRelPath = candidates[0]
	return outcome
}

func (g *Grader) candidatesFor(rawRelPath string) []string {
	rawID := g.matcher.ImageID(path.Base(rawRelPath))
	if rawID == "" || !g.hasIDs {
		return g.all
	}
	return g.byID[rawID]
}

// firstWhere returns the first candidate satisfying the predicate.
// Candidates arrive sorted, so the reported match is deterministic.
func firstWhere(candidates []string, predicate func(string) bool) (string, bool) {
	for _, candidate := range candidates {
		if predicate(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func allContain(m *rules.Matcher, candidates []string, token string) bool {
	for _, candidate := range candidates {
		if !m.ContainsToken(candidate, token) {
			return false
		}
	}
	return true
}

// Records classifies every raw image of a pair and returns the rows plus
// the number of ambiguity warnings. Pairs without both sides yield no rows.
func Records(m *rules.Matcher, pair *survey.Paired) ([]survey.ImageRecord, int) {
	if !pair.Classifiable() {
		return nil, 0
	}
	grader := NewGrader(m, pair.Graded)
	records := make([]survey.ImageRecord, 0, len(pair.Raw.Files))
	ambiguities := 0
	for _, relpath := range pair.Raw.Files {
		outcome := grader.Classify(relpath)
		if outcome.Ambiguous {
			ambiguities++
		}
		records = append(records, survey.ImageRecord{
			SurveyBase:       pair.BaseKey,
			RawRelPath:       relpath,
			Filename:         path.Base(relpath),
			Label:            outcome.Label,
			GradedRelPath:    outcome.GradedRelPath,
			GradedHits:       outcome.GradedHits,
			Winner:           outcome.Winner,
			RawDetectedID:    pair.Raw.DetectedID,
			GradedDetectedID: pair.Graded.DetectedID,
		})
	}
	return records, ambiguities
}

package engine

import (
	"context"

	"surveymatch/internal/logging"
	"surveymatch/internal/pairing"
	"surveymatch/internal/rules"
	"surveymatch/internal/survey"
)

// Preview scans both roots and resolves pairings without classifying a
// single image or writing any file. Items come back sorted by base key.
func (e *Engine) Preview(ctx context.Context, gradedRoot, rawRoot string, r rules.Rules) ([]survey.PreviewItem, error) {
	m, err := r.Compile()
	if err != nil {
		return nil, err
	}

	rawScan, gradedScan, err := e.scanBoth(ctx, rawRoot, gradedRoot, m)
	if err != nil {
		return nil, err
	}

	pairs, _ := pairing.Resolve(rawScan.Units, gradedScan.Units)
	items := make([]survey.PreviewItem, 0, len(pairs))
	for _, pair := range pairs {
		items = append(items, previewItem(pair))
	}

	e.logger.Info("preview complete",
		logging.Int("surveys", len(items)),
		logging.String(logging.FieldRawRoot, rawRoot),
		logging.String(logging.FieldGraded, gradedRoot))
	return items, nil
}

func previewItem(pair *survey.Paired) survey.PreviewItem {
	item := survey.PreviewItem{
		BaseKey:          pair.BaseKey,
		Status:           pair.Status,
		ProblemType:      pair.Problem,
		Details:          pair.Details,
		RawImageCount:    pair.RawImageCount,
		GradedImageCount: pair.GradedImageCount,
	}
	if pair.Raw != nil {
		item.RawPath = pair.Raw.Root
		item.RawDetectedID = pair.Raw.DetectedID
	}
	if pair.Graded != nil {
		item.GradedPath = pair.Graded.Root
		item.GradedDetectedID = pair.Graded.DetectedID
	}
	return item
}

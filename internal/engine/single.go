package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"surveymatch/internal/classify"
	"surveymatch/internal/errdefs"
	"surveymatch/internal/logging"
	"surveymatch/internal/report"
	"surveymatch/internal/rules"
	"surveymatch/internal/scan"
	"surveymatch/internal/survey"
)

// SingleOptions control the single-pair output file name inside the output
// directory.
type SingleOptions struct {
	OutputFilename string
}

// RunSinglePair treats rawDir and gradedDir as one survey, classifies every
// raw image, and writes one report file. A non-empty surveyIDOverride is
// used verbatim (trimmed) as the base key; otherwise the key is extracted
// from the graded directory name, and failing that the run is refused.
func (e *Engine) RunSinglePair(ctx context.Context, gradedDir, rawDir, outputDir, surveyIDOverride string, opts SingleOptions, r rules.Rules) (*survey.RunSummary, error) {
	if opts.OutputFilename == "" {
		opts.OutputFilename = "single.csv"
	}

	m, err := r.Compile()
	if err != nil {
		return nil, err
	}

	rawDir, err = filepath.Abs(rawDir)
	if err != nil {
		return nil, errdefs.Wrap(errdefs.ErrScan, "engine", "resolve raw dir", err)
	}
	gradedDir, err = filepath.Abs(gradedDir)
	if err != nil {
		return nil, errdefs.Wrap(errdefs.ErrScan, "engine", "resolve graded dir", err)
	}

	baseKey := strings.TrimSpace(surveyIDOverride)
	if baseKey == "" {
		baseKey = m.BaseKey(filepath.Base(gradedDir))
	}
	if baseKey == "" {
		return nil, errdefs.Wrapf(errdefs.ErrUsage, "engine", "derive base key",
			"no survey id found in %q; provide an identifier override", filepath.Base(gradedDir))
	}

	outputDir, err = filepath.Abs(outputDir)
	if err != nil {
		return nil, errdefs.Wrap(errdefs.ErrWrite, "engine", "resolve output dir", err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, errdefs.Wrap(errdefs.ErrWrite, "engine", "create output dir", err)
	}
	unlock, err := e.lockOutputDir(outputDir)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rawFiles, err := scan.CollectFiles(rawDir, m)
	if err != nil {
		return nil, err
	}
	gradedFiles, err := scan.CollectFiles(gradedDir, m)
	if err != nil {
		return nil, err
	}

	pair := &survey.Paired{
		BaseKey: baseKey,
		Raw: &survey.Unit{
			BaseKey:    baseKey,
			Side:       survey.SideRaw,
			Root:       rawDir,
			DetectedID: m.DetectedID(filepath.Base(rawDir)),
			Files:      rawFiles,
		},
		Graded: &survey.Unit{
			BaseKey:    baseKey,
			Side:       survey.SideGraded,
			Root:       gradedDir,
			DetectedID: m.DetectedID(filepath.Base(gradedDir)),
			Files:      gradedFiles,
		},
		Status:           survey.StatusOK,
		RawImageCount:    len(rawFiles),
		GradedImageCount: len(gradedFiles),
	}

	records, warnings := classify.Records(m, pair)

	outputPath := filepath.Join(outputDir, opts.OutputFilename)
	if err := report.WriteImages(outputPath, records); err != nil {
		return nil, err
	}

	e.notify(Progress{SurveyBase: baseKey, Processed: 1, Total: 1})

	summary := &survey.RunSummary{
		ProcessedSurveys:  1,
		TotalRows:         len(records),
		AmbiguityWarnings: warnings,
		OutputDir:         outputDir,
		MergedPath:        outputPath,
	}
	for _, record := range records {
		if record.Label == survey.LabelYes {
			summary.DolphinYes++
		} else {
			summary.DolphinNo++
		}
	}

	e.logger.Info("single pair complete",
		logging.String(logging.FieldSurvey, baseKey),
		logging.Int("total_rows", summary.TotalRows),
		logging.Int("dolphin_yes", summary.DolphinYes),
		logging.Int("dolphin_no", summary.DolphinNo),
		logging.String(logging.FieldOutputDir, outputDir))
	return summary, nil
}

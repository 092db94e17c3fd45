package engine

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"surveymatch/internal/classify"
	"surveymatch/internal/errdefs"
	"surveymatch/internal/logging"
	"surveymatch/internal/pairing"
	"surveymatch/internal/report"
	"surveymatch/internal/rules"
	"surveymatch/internal/survey"
)

// TreeOptions control which report files a tree run writes and what they
// are named. Empty names fall back to the stock filenames.
type TreeOptions struct {
	WriteMerged      bool
	WritePerSurvey   bool
	MergedFilename   string
	ProblemsFilename string
	PerSurveyDirname string
}

func (o TreeOptions) withDefaults() TreeOptions {
	if o.MergedFilename == "" {
		o.MergedFilename = "merged.csv"
	}
	if o.ProblemsFilename == "" {
		o.ProblemsFilename = "problems.csv"
	}
	if o.PerSurveyDirname == "" {
		o.PerSurveyDirname = "per_survey"
	}
	return o
}

// RunTree scans both roots, pairs surveys, classifies every raw image of
// every paired survey, and writes the configured reports under outputDir.
// The problems file is written only when problems exist; the merged file is
// written (header included) even when no image classified.
func (e *Engine) RunTree(ctx context.Context, gradedRoot, rawRoot, outputDir string, opts TreeOptions, r rules.Rules) (*survey.RunSummary, error) {
	opts = opts.withDefaults()

	m, err := r.Compile()
	if err != nil {
		return nil, err
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

	rawScan, gradedScan, err := e.scanBoth(ctx, rawRoot, gradedRoot, m)
	if err != nil {
		return nil, err
	}

	pairs, pairProblems := pairing.Resolve(rawScan.Units, gradedScan.Units)

	problems := make([]survey.ProblemRecord, 0, len(rawScan.Problems)+len(gradedScan.Problems)+len(pairProblems))
	problems = append(problems, rawScan.Problems...)
	problems = append(problems, gradedScan.Problems...)
	problems = append(problems, pairProblems...)

	e.logger.Info("scan complete",
		logging.Int("surveys", len(pairs)),
		logging.Int("problems", len(problems)),
		logging.String(logging.FieldRawRoot, rawRoot),
		logging.String(logging.FieldGraded, gradedRoot))

	perSurveyDir := filepath.Join(outputDir, opts.PerSurveyDirname)
	results := make([][]survey.ImageRecord, len(pairs))

	var (
		mu        sync.Mutex
		processed int
		warnings  int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, pair := range pairs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records, ambiguous := classify.Records(m, pair)
			if opts.WritePerSurvey && pair.Classifiable() {
				path := filepath.Join(perSurveyDir, pair.BaseKey+".csv")
				if err := report.WriteImages(path, records); err != nil {
					return err
				}
			}
			results[i] = records

			mu.Lock()
			warnings += ambiguous
			processed++
			e.notify(Progress{SurveyBase: pair.BaseKey, Processed: processed, Total: len(pairs)})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &survey.RunSummary{
		AmbiguityWarnings: warnings,
		ProblemsCount:     len(problems),
		OutputDir:         outputDir,
	}
	var merged []survey.ImageRecord
	for i, pair := range pairs {
		if pair.Classifiable() {
			summary.ProcessedSurveys++
		}
		merged = append(merged, results[i]...)
	}
	summary.TotalRows = len(merged)
	for _, record := range merged {
		if record.Label == survey.LabelYes {
			summary.DolphinYes++
		} else {
			summary.DolphinNo++
		}
	}

	if opts.WriteMerged {
		mergedPath := filepath.Join(outputDir, opts.MergedFilename)
		if err := report.WriteImages(mergedPath, merged); err != nil {
			return nil, err
		}
		summary.MergedPath = mergedPath
	}
	if len(problems) > 0 {
		problemsPath := filepath.Join(outputDir, opts.ProblemsFilename)
		if err := report.WriteProblems(problemsPath, problems); err != nil {
			return nil, err
		}
		summary.ProblemsPath = problemsPath
	}

	e.logger.Info("run complete",
		logging.Int("processed_surveys", summary.ProcessedSurveys),
		logging.Int("total_rows", summary.TotalRows),
		logging.Int("dolphin_yes", summary.DolphinYes),
		logging.Int("dolphin_no", summary.DolphinNo),
		logging.Int("problems", summary.ProblemsCount),
		logging.String(logging.FieldOutputDir, outputDir))
	return summary, nil
}

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"surveymatch/internal/config"
	"surveymatch/internal/engine"
	"surveymatch/internal/history"
	"surveymatch/internal/logging"
	"surveymatch/internal/preflight"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var rawRoot string
	var gradedRoot string
	var outputDir string
	var rulesFlag string
	var mergedName string
	var problemsName string
	var perSurveyDirname string
	var noMerged bool
	var perSurvey bool
	var workers int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Pair two survey trees and write dolphin classification CSVs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			rawPath, err := config.ExpandPath(rawRoot)
			if err != nil {
				return fmt.Errorf("resolve raw root: %w", err)
			}
			gradedPath, err := config.ExpandPath(gradedRoot)
			if err != nil {
				return fmt.Errorf("resolve graded root: %w", err)
			}
			outPath, err := config.ExpandPath(outputDir)
			if err != nil {
				return fmt.Errorf("resolve output directory: %w", err)
			}

			if err := reportPreflight(cmd, preflight.Evaluate(rawPath, gradedPath, outPath)); err != nil {
				return err
			}

			r, rulesSource, err := ctx.resolveRules(rulesFlag)
			if err != nil {
				return err
			}

			opts := engine.TreeOptions{
				WriteMerged:      cfg.Run.WriteMerged && !noMerged,
				WritePerSurvey:   cfg.Run.WritePerSurvey || perSurvey,
				MergedFilename:   firstNonEmpty(mergedName, cfg.Run.MergedFilename),
				ProblemsFilename: firstNonEmpty(problemsName, cfg.Run.ProblemsFilename),
				PerSurveyDirname: firstNonEmpty(perSurveyDirname, cfg.Run.PerSurveyDirname),
			}
			workerCount := workers
			if workerCount <= 0 {
				workerCount = cfg.Run.Workers
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			entry := history.NewRun(history.ModeTree, rawPath, gradedPath, outPath)

			logger, closeLogs, err := newRunLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeLogs()
			logger = logger.With(logging.String(logging.FieldRunID, entry.ID))
			if rulesSource != "" {
				logger.Info("using rules document", logging.String("path", rulesSource))
			}

			sink := newProgressSink(os.Stderr, logger)
			eng := engine.New(logger,
				engine.WithWorkers(workerCount),
				engine.WithProgress(sink.Handle),
			)

			started := time.Now()
			summary, err := eng.RunTree(runCtx, gradedPath, rawPath, outPath, opts, r)
			sink.Finish()
			if err != nil {
				return err
			}
			elapsed := time.Since(started)

			if cfg.History.Enabled {
				entry.Finish(summary)
				if err := recordHistory(runCtx, cfg, entry); err != nil {
					logger.Warn("record run history", logging.Error(err))
				}
			}

			if jsonOutput {
				return writeJSON(cmd, summary)
			}
			renderSummary(cmd.OutOrStdout(), summary, elapsed)
			return nil
		},
	}

	cmd.Flags().StringVar(&rawRoot, "raw", "", "Root directory holding raw survey folders")
	cmd.Flags().StringVar(&gradedRoot, "graded", "", "Root directory holding graded survey folders")
	cmd.Flags().StringVarP(&outputDir, "out", "o", "", "Directory for the generated CSV reports")
	cmd.Flags().StringVar(&rulesFlag, "rules", "", "Rules document path (overrides the configured rules_path)")
	cmd.Flags().StringVar(&mergedName, "merged", "", "Merged report filename (defaults to run.merged_filename)")
	cmd.Flags().StringVar(&problemsName, "problems", "", "Problems report filename (defaults to run.problems_filename)")
	cmd.Flags().StringVar(&perSurveyDirname, "per-survey-dir", "", "Subdirectory for per-survey reports (defaults to run.per_survey_dirname)")
	cmd.Flags().BoolVar(&noMerged, "no-merged", false, "Skip the merged report")
	cmd.Flags().BoolVar(&perSurvey, "per-survey", false, "Also write one report per survey")
	cmd.Flags().IntVar(&workers, "workers", 0, "Surveys classified concurrently (defaults to run.workers)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit a JSON summary instead of text")
	_ = cmd.MarkFlagRequired("raw")
	_ = cmd.MarkFlagRequired("graded")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

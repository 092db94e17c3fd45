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

func newSingleCommand(ctx *commandContext) *cobra.Command {
	var rawDir string
	var gradedDir string
	var outputDir string
	var rulesFlag string
	var outputName string
	var surveyID string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "single",
		Short: "Classify one raw/graded folder pair directly",
		Long: `Classify one raw/graded folder pair without scanning trees.

The survey id base is derived from the graded folder name; pass --survey-id
when the folder names carry no recognizable id.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			rawPath, err := config.ExpandPath(rawDir)
			if err != nil {
				return fmt.Errorf("resolve raw directory: %w", err)
			}
			gradedPath, err := config.ExpandPath(gradedDir)
			if err != nil {
				return fmt.Errorf("resolve graded directory: %w", err)
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

			opts := engine.SingleOptions{
				OutputFilename: firstNonEmpty(outputName, cfg.Run.SingleFilename),
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			entry := history.NewRun(history.ModeSingle, rawPath, gradedPath, outPath)

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
			eng := engine.New(logger, engine.WithProgress(sink.Handle))

			started := time.Now()
			summary, err := eng.RunSinglePair(runCtx, gradedPath, rawPath, outPath, surveyID, opts, r)
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

	cmd.Flags().StringVar(&rawDir, "raw", "", "Raw survey folder")
	cmd.Flags().StringVar(&gradedDir, "graded", "", "Graded survey folder")
	cmd.Flags().StringVarP(&outputDir, "out", "o", "", "Directory for the generated CSV report")
	cmd.Flags().StringVar(&rulesFlag, "rules", "", "Rules document path (overrides the configured rules_path)")
	cmd.Flags().StringVar(&outputName, "output", "", "Report filename (defaults to run.single_filename)")
	cmd.Flags().StringVar(&surveyID, "survey-id", "", "Survey id base override used verbatim in the report")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit a JSON summary instead of text")
	_ = cmd.MarkFlagRequired("raw")
	_ = cmd.MarkFlagRequired("graded")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

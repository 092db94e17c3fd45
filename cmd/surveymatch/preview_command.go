package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"surveymatch/internal/config"
	"surveymatch/internal/engine"
	"surveymatch/internal/preflight"
	"surveymatch/internal/survey"
)

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	var rawRoot string
	var gradedRoot string
	var rulesFlag string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "List survey pairings without classifying or writing files",
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

			if err := reportPreflight(cmd, preflight.Evaluate(rawPath, gradedPath, "")); err != nil {
				return err
			}

			r, _, err := ctx.resolveRules(rulesFlag)
			if err != nil {
				return err
			}

			logger, err := newQuietLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			items, err := engine.New(logger).Preview(cmd.Context(), gradedPath, rawPath, r)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, items)
			}
			renderPreview(cmd, items)
			return nil
		},
	}

	cmd.Flags().StringVar(&rawRoot, "raw", "", "Root directory holding raw survey folders")
	cmd.Flags().StringVar(&gradedRoot, "graded", "", "Root directory holding graded survey folders")
	cmd.Flags().StringVar(&rulesFlag, "rules", "", "Rules document path (overrides the configured rules_path)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	_ = cmd.MarkFlagRequired("raw")
	_ = cmd.MarkFlagRequired("graded")

	return cmd
}

func renderPreview(cmd *cobra.Command, items []survey.PreviewItem) {
	out := cmd.OutOrStdout()
	if len(items) == 0 {
		fmt.Fprintln(out, "No survey folders found under either root")
		return
	}

	headers := []string{"BASE KEY", "STATUS", "RAW FOLDER", "GRADED FOLDER", "RAW IMGS", "GRADED IMGS"}
	rows := make([][]string, 0, len(items))
	ready := 0
	for _, item := range items {
		if item.Status == survey.StatusOK {
			ready++
		}
		rows = append(rows, []string{
			item.BaseKey,
			string(item.Status),
			baseName(item.RawPath),
			baseName(item.GradedPath),
			strconv.Itoa(item.RawImageCount),
			strconv.Itoa(item.GradedImageCount),
		})
	}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight}
	fmt.Fprintln(out, renderTable(headers, rows, aligns))
	fmt.Fprintf(out, "%d surveys: %d ready, %d with problems\n", len(items), ready, len(items)-ready)
}

func baseName(path string) string {
	if path == "" {
		return "-"
	}
	return filepath.Base(path)
}

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"surveymatch/internal/config"
	"surveymatch/internal/history"
	"surveymatch/internal/logging"
	"surveymatch/internal/preflight"
	"surveymatch/internal/survey"
)

// newRunLogger builds the logger for a classification run. Log lines go to
// stderr and, when a log directory is configured, to a per-run file named
// after the start time. A file that cannot be opened downgrades to
// stderr-only with a warning rather than failing the run.
func newRunLogger(cfg *config.Config, stderr io.Writer) (*slog.Logger, func(), error) {
	writer := stderr
	cleanup := func() {}

	if dir := strings.TrimSpace(cfg.Paths.LogDir); dir != "" {
		stamp := time.Now().UTC().Format("20060102T150405.000Z")
		path := filepath.Join(dir, fmt.Sprintf("surveymatch-%s.log", stamp))
		if err := logging.EnsureLogDir(path); err != nil {
			fmt.Fprintf(stderr, "warn: unable to create log directory: %v\n", err)
		} else if file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err != nil {
			fmt.Fprintf(stderr, "warn: unable to open log file: %v\n", err)
		} else {
			writer = io.MultiWriter(stderr, file)
			cleanup = func() { file.Close() }
		}
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: writer,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, cleanup, nil
}

// newQuietLogger builds a stderr-only logger for read-only commands that do
// not warrant a log file.
func newQuietLogger(cfg *config.Config, stderr io.Writer) (*slog.Logger, error) {
	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}

// reportPreflight prints failed checks to stderr and returns an error when
// any check failed.
func reportPreflight(cmd *cobra.Command, results []preflight.Result) error {
	failures := preflight.Failures(results)
	if len(failures) == 0 {
		return nil
	}
	out := cmd.ErrOrStderr()
	for _, result := range failures {
		fmt.Fprintf(out, "preflight: %s: %s\n", result.Name, result.Detail)
	}
	return fmt.Errorf("preflight found %d failed check(s); fix the paths above and retry", len(failures))
}

// recordHistory appends a finished run to the journal database.
func recordHistory(ctx context.Context, cfg *config.Config, entry *history.Run) error {
	store, err := history.Open(cfg.HistoryDBPath())
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Record(ctx, entry)
}

func renderSummary(out io.Writer, summary *survey.RunSummary, elapsed time.Duration) {
	fmt.Fprintf(out, "Processed %s surveys in %s\n",
		humanize.Comma(int64(summary.ProcessedSurveys)), formatDuration(elapsed))
	fmt.Fprintf(out, "  %-14s %s (yes %s / no %s)\n", "Rows:",
		humanize.Comma(int64(summary.TotalRows)),
		humanize.Comma(int64(summary.DolphinYes)),
		humanize.Comma(int64(summary.DolphinNo)))
	fmt.Fprintf(out, "  %-14s %d\n", "Warnings:", summary.AmbiguityWarnings)
	fmt.Fprintf(out, "  %-14s %d\n", "Problems:", summary.ProblemsCount)
	fmt.Fprintf(out, "  %-14s %s\n", "Output dir:", summary.OutputDir)
	if summary.MergedPath != "" {
		fmt.Fprintf(out, "  %-14s %s\n", "Merged CSV:", summary.MergedPath)
	}
	if summary.ProblemsPath != "" {
		fmt.Fprintf(out, "  %-14s %s\n", "Problems CSV:", summary.ProblemsPath)
	}
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	switch {
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	case d < time.Minute:
		return d.Round(10 * time.Millisecond).String()
	default:
		return d.Round(time.Second).String()
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"surveymatch/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent runs from the local journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return fmt.Errorf("run history is disabled in the configuration")
			}

			store, err := history.Open(cfg.HistoryDBPath())
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, runs)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No recorded runs")
				return nil
			}

			headers := []string{"STARTED", "MODE", "SURVEYS", "ROWS", "YES", "NO", "WARN", "PROBLEMS", "DURATION"}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					humanize.Time(run.StartedAt),
					string(run.Mode),
					humanize.Comma(int64(run.ProcessedSurveys)),
					humanize.Comma(int64(run.TotalRows)),
					humanize.Comma(int64(run.DolphinYes)),
					humanize.Comma(int64(run.DolphinNo)),
					strconv.Itoa(run.AmbiguityWarnings),
					strconv.Itoa(run.ProblemsCount),
					formatDuration(run.Duration()),
				})
			}
			aligns := []columnAlignment{
				alignLeft, alignLeft,
				alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight,
			}
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum entries to display (0 shows all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}

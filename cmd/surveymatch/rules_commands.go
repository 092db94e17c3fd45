package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"surveymatch/internal/config"
	"surveymatch/internal/rules"
)

func newRulesCommand(ctx *commandContext) *cobra.Command {
	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "Matching rules utilities",
	}

	rulesCmd.AddCommand(newRulesInitCommand(ctx))
	rulesCmd.AddCommand(newRulesShowCommand(ctx))
	rulesCmd.AddCommand(newRulesPathCommand(ctx))
	rulesCmd.AddCommand(newRulesValidateCommand(ctx))

	return rulesCmd
}

func newRulesInitCommand(ctx *commandContext) *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default rules document",
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				target = cfg.Paths.RulesPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve rules path: %w", err)
				}
				target = expanded
			}
			if target == "" {
				return fmt.Errorf("no rules path configured; pass --path")
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("rules file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check rules path: %w", err)
				}
			}

			if err := rules.Default().Save(target); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote default rules to %s\n", target)
			fmt.Fprintln(out, "Edit the patterns and token lists to match your survey naming scheme.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the rules document (defaults to rules_path)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite an existing rules document")
	return cmd
}

func newRulesShowCommand(ctx *commandContext) *cobra.Command {
	var rulesFlag string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the active rules document as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, source, err := ctx.resolveRules(rulesFlag)
			if err != nil {
				return err
			}
			if source == "" {
				fmt.Fprintln(cmd.ErrOrStderr(), "No rules file found; showing built-in defaults")
			} else {
				fmt.Fprintf(cmd.ErrOrStderr(), "Rules loaded from %s\n", source)
			}
			return writeJSON(cmd, r)
		},
	}

	cmd.Flags().StringVar(&rulesFlag, "rules", "", "Rules document path (overrides the configured rules_path)")
	return cmd
}

func newRulesPathCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configured rules document location",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := cfg.Paths.RulesPath
			_, statErr := os.Stat(path)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Rules path: %s\n", path)
			fmt.Fprintf(out, "Exists: %s\n", yesNo(statErr == nil))
			return nil
		},
	}
}

func newRulesValidateCommand(ctx *commandContext) *cobra.Command {
	var rulesFlag string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that a rules document parses and its patterns compile",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := strings.TrimSpace(rulesFlag)
			if path == "" {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				path = cfg.Paths.RulesPath
			} else {
				expanded, err := config.ExpandPath(path)
				if err != nil {
					return fmt.Errorf("resolve rules path: %w", err)
				}
				path = expanded
			}
			if path == "" {
				return fmt.Errorf("no rules path configured; pass --rules")
			}
			if _, err := os.Stat(path); os.IsNotExist(err) {
				return fmt.Errorf("no rules file at %s (run `surveymatch rules init` to create one)", path)
			}

			r, err := rules.Load(path)
			if err != nil {
				return err
			}
			if err := r.Validate(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Rules path: %s\n", path)
			fmt.Fprintln(out, "Rules document valid")
			return nil
		},
	}

	cmd.Flags().StringVar(&rulesFlag, "rules", "", "Rules document path (overrides the configured rules_path)")
	return cmd
}

package main

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"surveymatch/internal/config"
	"surveymatch/internal/rules"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// resolveRules picks the rules document for an invocation. An explicit
// --rules flag must name a readable file; otherwise the configured rules_path
// is used when present on disk, and the built-in defaults apply when it is
// not. The returned string names the file actually loaded, empty for
// defaults.
func (c *commandContext) resolveRules(flagValue string) (rules.Rules, string, error) {
	if trimmed := strings.TrimSpace(flagValue); trimmed != "" {
		path, err := config.ExpandPath(trimmed)
		if err != nil {
			return rules.Rules{}, "", err
		}
		r, err := rules.Load(path)
		if err != nil {
			return rules.Rules{}, "", err
		}
		return r, path, nil
	}

	cfg, err := c.ensureConfig()
	if err != nil {
		return rules.Rules{}, "", err
	}
	path := strings.TrimSpace(cfg.Paths.RulesPath)
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			r, err := rules.Load(path)
			if err != nil {
				return rules.Rules{}, "", err
			}
			return r, path, nil
		} else if !os.IsNotExist(err) {
			return rules.Rules{}, "", fmt.Errorf("stat rules file: %w", err)
		}
	}
	return rules.Default(), "", nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

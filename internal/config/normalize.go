package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeRun()
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.RulesPath) == "" {
		c.Paths.RulesPath = defaultRulesPath
	}
	if c.Paths.RulesPath, err = expandPath(c.Paths.RulesPath); err != nil {
		return fmt.Errorf("paths.rules_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeRun() {
	if c.Run.Workers <= 0 {
		c.Run.Workers = defaultWorkers
	}
	c.Run.MergedFilename = strings.TrimSpace(c.Run.MergedFilename)
	if c.Run.MergedFilename == "" {
		c.Run.MergedFilename = defaultMergedFilename
	}
	c.Run.ProblemsFilename = strings.TrimSpace(c.Run.ProblemsFilename)
	if c.Run.ProblemsFilename == "" {
		c.Run.ProblemsFilename = defaultProblemsFilename
	}
	c.Run.PerSurveyDirname = strings.TrimSpace(c.Run.PerSurveyDirname)
	if c.Run.PerSurveyDirname == "" {
		c.Run.PerSurveyDirname = defaultPerSurveyDirname
	}
	c.Run.SingleFilename = strings.TrimSpace(c.Run.SingleFilename)
	if c.Run.SingleFilename == "" {
		c.Run.SingleFilename = defaultSingleFilename
	}
}

func (c *Config) normalizeHistory() error {
	c.History.Path = strings.TrimSpace(c.History.Path)
	if c.History.Path == "" {
		c.History.Path = filepath.Join(c.Paths.DataDir, defaultHistoryFilename)
		return nil
	}
	var err error
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

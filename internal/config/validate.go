package config

import (
	"errors"
	"fmt"
	"strings"
)

const maxWorkers = 64

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRun(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateRun() error {
	if c.Run.Workers < 1 || c.Run.Workers > maxWorkers {
		return fmt.Errorf("run.workers must be between 1 and %d", maxWorkers)
	}
	for field, value := range map[string]string{
		"run.merged_filename":    c.Run.MergedFilename,
		"run.problems_filename":  c.Run.ProblemsFilename,
		"run.per_survey_dirname": c.Run.PerSurveyDirname,
		"run.single_filename":    c.Run.SingleFilename,
	} {
		if strings.ContainsAny(value, `/\`) {
			return fmt.Errorf("%s must be a bare name, not a path: %q", field, value)
		}
	}
	if c.Run.MergedFilename == c.Run.ProblemsFilename {
		return errors.New("run.merged_filename and run.problems_filename must differ")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}

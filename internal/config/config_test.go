package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"surveymatch/internal/config"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "surveymatch")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.LogDir != filepath.Join(wantData, "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.Paths.RulesPath != filepath.Join(tempHome, ".config", "surveymatch", "rules.json") {
		t.Fatalf("unexpected rules path: %q", cfg.Paths.RulesPath)
	}
	if cfg.Run.Workers != 1 {
		t.Fatalf("unexpected workers: %d", cfg.Run.Workers)
	}
	if cfg.Run.MergedFilename != "merged.csv" {
		t.Fatalf("unexpected merged filename: %q", cfg.Run.MergedFilename)
	}
	if !cfg.Run.WriteMerged {
		t.Fatal("expected merged output enabled by default")
	}
	if cfg.Run.WritePerSurvey {
		t.Fatal("expected per-survey output disabled by default")
	}
	if !cfg.History.Enabled {
		t.Fatal("expected history enabled by default")
	}
	if cfg.HistoryDBPath() != filepath.Join(wantData, "history.db") {
		t.Fatalf("unexpected history path: %q", cfg.HistoryDBPath())
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %q/%q", cfg.Logging.Format, cfg.Logging.Level)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "surveymatch.toml")

	type payload struct {
		Paths struct {
			DataDir string `toml:"data_dir"`
		} `toml:"paths"`
		Run struct {
			Workers        int    `toml:"workers"`
			MergedFilename string `toml:"merged_filename"`
			WritePerSurvey bool   `toml:"write_per_survey"`
		} `toml:"run"`
		Logging struct {
			Level string `toml:"level"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.DataDir = filepath.Join(tempDir, "data")
	custom.Run.Workers = 4
	custom.Run.MergedFilename = "dolphins.csv"
	custom.Run.WritePerSurvey = true
	custom.Logging.Level = "debug"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Run.Workers != 4 {
		t.Fatalf("expected workers 4, got %d", cfg.Run.Workers)
	}
	if cfg.Run.MergedFilename != "dolphins.csv" {
		t.Fatalf("expected merged filename override, got %q", cfg.Run.MergedFilename)
	}
	if !cfg.Run.WritePerSurvey {
		t.Fatal("expected per-survey output enabled")
	}
	if cfg.Run.ProblemsFilename != "problems.csv" {
		t.Fatalf("expected problems filename default, got %q", cfg.Run.ProblemsFilename)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected debug level, got %q", cfg.Logging.Level)
	}
	if cfg.HistoryDBPath() != filepath.Join(custom.Paths.DataDir, "history.db") {
		t.Fatalf("expected history path under overridden data dir, got %q", cfg.HistoryDBPath())
	}
}

func TestLoadExplicitMissingPathYieldsDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nope.toml")

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected exists to be false")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Run.Workers != config.Default().Run.Workers {
		t.Fatalf("expected default workers, got %d", cfg.Run.Workers)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "rules_path") {
		t.Fatalf("sample config missing rules_path entry: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if !strings.Contains(cfg.Paths.DataDir, "surveymatch") {
		t.Fatalf("expected data dir to mention surveymatch, got %q", cfg.Paths.DataDir)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Run.Workers = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero workers")
	}

	cfg = config.Default()
	cfg.Run.Workers = 1000
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for excessive workers")
	}

	cfg = config.Default()
	cfg.Run.MergedFilename = "out/merged.csv"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for path-like merged filename")
	}

	cfg = config.Default()
	cfg.Run.ProblemsFilename = cfg.Run.MergedFilename
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when merged and problems filenames collide")
	}

	cfg = config.Default()
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported logging level")
	}
}

func TestExpandPathResolvesHome(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	got, err := config.ExpandPath("~/rules.json")
	if err != nil {
		t.Fatalf("ExpandPath failed: %v", err)
	}
	if got != filepath.Join(tempHome, "rules.json") {
		t.Fatalf("unexpected expansion: %q", got)
	}
}

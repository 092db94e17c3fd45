package config

const (
	defaultDataDir          = "~/.local/share/surveymatch"
	defaultLogDir           = "~/.local/share/surveymatch/logs"
	defaultRulesPath        = "~/.config/surveymatch/rules.json"
	defaultWorkers          = 1
	defaultMergedFilename   = "merged.csv"
	defaultProblemsFilename = "problems.csv"
	defaultPerSurveyDirname = "per_survey"
	defaultSingleFilename   = "single.csv"
	defaultHistoryFilename  = "history.db"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			LogDir:    defaultLogDir,
			RulesPath: defaultRulesPath,
		},
		Run: Run{
			Workers:          defaultWorkers,
			MergedFilename:   defaultMergedFilename,
			ProblemsFilename: defaultProblemsFilename,
			PerSurveyDirname: defaultPerSurveyDirname,
			SingleFilename:   defaultSingleFilename,
			WriteMerged:      true,
			WritePerSurvey:   false,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

package history

import (
	"time"

	"github.com/google/uuid"

	"surveymatch/internal/survey"
)

// Mode distinguishes full tree runs from single-pair runs.
type Mode string

const (
	ModeTree   Mode = "tree"
	ModeSingle Mode = "single"
)

// Run is one journal entry. StartedAt is set when the run is created and
// FinishedAt when Finish is called; both are stored in UTC.
type Run struct {
	ID                string    `json:"id"`
	Mode              Mode      `json:"mode"`
	RawRoot           string    `json:"raw_root"`
	GradedRoot        string    `json:"graded_root"`
	OutputDir         string    `json:"output_dir"`
	StartedAt         time.Time `json:"started_at"`
	FinishedAt        time.Time `json:"finished_at"`
	ProcessedSurveys  int       `json:"processed_surveys"`
	TotalRows         int       `json:"total_rows"`
	DolphinYes        int       `json:"dolphin_yes"`
	DolphinNo         int       `json:"dolphin_no"`
	AmbiguityWarnings int       `json:"ambiguity_warnings"`
	ProblemsCount     int       `json:"problems"`
	MergedPath        string    `json:"merged_csv_path,omitempty"`
}

// NewRun starts a journal entry with a fresh identifier. The same identifier
// doubles as the run_id log field so journal rows and log lines correlate.
func NewRun(mode Mode, rawRoot, gradedRoot, outputDir string) *Run {
	return &Run{
		ID:         uuid.NewString(),
		Mode:       mode,
		RawRoot:    rawRoot,
		GradedRoot: gradedRoot,
		OutputDir:  outputDir,
		StartedAt:  time.Now().UTC(),
	}
}

// Finish stamps the completion time and copies the summary counters.
func (r *Run) Finish(summary *survey.RunSummary) {
	r.FinishedAt = time.Now().UTC()
	if summary == nil {
		return
	}
	r.ProcessedSurveys = summary.ProcessedSurveys
	r.TotalRows = summary.TotalRows
	r.DolphinYes = summary.DolphinYes
	r.DolphinNo = summary.DolphinNo
	r.AmbiguityWarnings = summary.AmbiguityWarnings
	r.ProblemsCount = summary.ProblemsCount
	r.MergedPath = summary.MergedPath
}

// Duration returns the wall-clock span of the run, or zero while unfinished.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

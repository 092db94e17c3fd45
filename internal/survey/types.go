package survey

// Side identifies which tree a unit was discovered in.
type Side string

const (
	SideRaw    Side = "raw"
	SideGraded Side = "graded"
)

// UnclassifiedKey is the base key assigned to files whose owning directory
// yields no survey identifier.
const UnclassifiedKey = "unclassified"

// Unit is one survey directory and its member image files.
type Unit struct {
	BaseKey    string
	Side       Side
	Root       string
	DetectedID string
	Files      []string
}

// FileCount returns the number of member files.
func (u *Unit) FileCount() int {
	if u == nil {
		return 0
	}
	return len(u.Files)
}

// PairStatus describes how a base key resolved across the two trees.
type PairStatus string

const (
	StatusOK PairStatus = "OK"
	// StatusRawOrphan marks a raw unit with no graded counterpart.
	StatusRawOrphan PairStatus = "RawOrphan"
	// StatusGradedOrphan marks a graded unit with no raw counterpart.
	StatusGradedOrphan PairStatus = "GradedOrphan"
	StatusAmbiguous    PairStatus = "Ambiguous"
)

// ProblemType enumerates the non-fatal anomalies a run records.
type ProblemType string

const (
	// ProblemGradedMissing: a raw survey exists without a graded counterpart.
	ProblemGradedMissing ProblemType = "graded_missing"
	// ProblemRawMissing: a graded survey exists without a raw counterpart.
	ProblemRawMissing ProblemType = "raw_missing"
	// ProblemMultipleMatches: more than one directory shares a base key.
	ProblemMultipleMatches ProblemType = "multiple_matches"
	// ProblemUnclassifiedFiles: image files under directories that yield no
	// base key.
	ProblemUnclassifiedFiles ProblemType = "unclassified_files"
	// ProblemScanError: a subtree could not be read during scanning.
	ProblemScanError ProblemType = "scan_error"
)

// Paired joins the raw and graded units selected for one base key. At most
// one unit per side survives candidate selection; losing candidates are
// recorded in the associated ProblemRecord, never dropped silently.
type Paired struct {
	BaseKey          string
	Raw              *Unit
	Graded           *Unit
	Status           PairStatus
	Problem          ProblemType
	Details          string
	RawImageCount    int
	GradedImageCount int
}

// Classifiable reports whether the pair has both sides and can therefore
// produce classification rows.
func (p *Paired) Classifiable() bool {
	return p != nil && p.Raw != nil && p.Graded != nil
}

// Label is the binary dolphin classification of a raw image.
type Label uint8

const (
	LabelNo Label = iota
	LabelYes
)

func (l Label) String() string {
	if l == LabelYes {
		return "Yes"
	}
	return "No"
}

// CSV returns the historical file encoding of the label: "1" for yes,
// "0" for no.
func (l Label) CSV() string {
	if l == LabelYes {
		return "1"
	}
	return "0"
}

// WinnerType names the rule tier that decided an image's label. The empty
// value means no rule fired (no graded candidates at all).
type WinnerType string

const (
	WinnerNone             WinnerType = ""
	WinnerNegativeOverride WinnerType = "negative_override"
	WinnerIndicator        WinnerType = "indicator"
	WinnerPositiveToken    WinnerType = "positive_token"
	WinnerPresence         WinnerType = "presence"
)

// SecondaryWinner tags a win by the given secondary token.
func SecondaryWinner(token string) WinnerType {
	return WinnerType("secondary_token:" + token)
}

// ImageRecord is one classified raw image, one row of the merged and
// per-survey reports.
type ImageRecord struct {
	SurveyBase       string     `json:"survey_id_base"`
	RawRelPath       string     `json:"raw_relpath"`
	Filename         string     `json:"filename"`
	Label            Label      `json:"dolphin"`
	GradedRelPath    string     `json:"graded_relpath"`
	GradedHits       int        `json:"graded_hits"`
	Winner           WinnerType `json:"graded_winner_type"`
	RawDetectedID    string     `json:"survey_id_raw_detected"`
	GradedDetectedID string     `json:"survey_id_graded_detected"`
}

// ProblemRecord is one row of the problems report.
type ProblemRecord struct {
	SurveyBase string      `json:"survey_id_base"`
	DetectedID string      `json:"survey_id_detected,omitempty"`
	RawPath    string      `json:"raw_path,omitempty"`
	GradedPath string      `json:"graded_path,omitempty"`
	Type       ProblemType `json:"problem_type"`
	Details    string      `json:"details,omitempty"`
}

// PreviewItem is the per-base-key result of a preview scan, returned to the
// caller before any classification or writing happens.
type PreviewItem struct {
	BaseKey          string      `json:"base_key"`
	RawPath          string      `json:"raw_path,omitempty"`
	GradedPath       string      `json:"graded_path,omitempty"`
	Status           PairStatus  `json:"status"`
	ProblemType      ProblemType `json:"problem_type,omitempty"`
	Details          string      `json:"details,omitempty"`
	RawImageCount    int         `json:"raw_image_count"`
	GradedImageCount int         `json:"graded_image_count"`
	RawDetectedID    string      `json:"survey_id_raw_detected,omitempty"`
	GradedDetectedID string      `json:"survey_id_graded_detected,omitempty"`
}

// RunSummary aggregates a completed run.
type RunSummary struct {
	ProcessedSurveys  int    `json:"processed_surveys"`
	TotalRows         int    `json:"total_rows"`
	DolphinYes        int    `json:"dolphin_yes"`
	DolphinNo         int    `json:"dolphin_no"`
	AmbiguityWarnings int    `json:"ambiguity_warnings"`
	ProblemsCount     int    `json:"problems_count"`
	OutputDir         string `json:"output_dir"`
	MergedPath        string `json:"merged_csv_path,omitempty"`
	ProblemsPath      string `json:"problems_csv_path,omitempty"`
}

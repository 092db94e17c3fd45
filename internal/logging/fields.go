package logging

// Standardized attribute keys shared across components.
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldSurvey    = "survey_id_base"
	FieldRawRoot   = "raw_root"
	FieldGraded    = "graded_root"
	FieldOutputDir = "output_dir"
)

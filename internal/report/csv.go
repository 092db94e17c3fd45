package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"surveymatch/internal/errdefs"
	"surveymatch/internal/survey"
)

// ImageHeader is the column order of merged and per-survey files. Changing
// it breaks downstream consumers of historical output.
var ImageHeader = []string{
	"survey_id_base",
	"raw_relpath",
	"filename",
	"dolphin",
	"graded_relpath",
	"graded_hits",
	"graded_winner_type",
	"survey_id_raw_detected",
	"survey_id_graded_detected",
}

// ProblemHeader is the column order of the problems file.
var ProblemHeader = []string{
	"survey_id_base",
	"survey_id_detected",
	"raw_path",
	"graded_path",
	"problem_type",
	"details",
}

// ImageWriter streams image rows into one CSV file. The header is written
// on creation so even an empty report carries the schema.
type ImageWriter struct {
	file *os.File
	csv  *csv.Writer
}

// CreateImageFile opens path for writing, creating parent directories, and
// writes the header row.
func CreateImageFile(path string) (*ImageWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errdefs.Wrap(errdefs.ErrWrite, "report", "create output directory", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, errdefs.Wrap(errdefs.ErrWrite, "report", "create report file", err)
	}
	w := &ImageWriter{file: file, csv: csv.NewWriter(file)}
	if err := w.csv.Write(ImageHeader); err != nil {
		file.Close()
		return nil, errdefs.Wrap(errdefs.ErrWrite, "report", "write header", err)
	}
	return w, nil
}

// Append writes the given rows in order.
func (w *ImageWriter) Append(records []survey.ImageRecord) error {
	for _, record := range records {
		if err := w.csv.Write(imageRow(record)); err != nil {
			return errdefs.Wrap(errdefs.ErrWrite, "report", "write row", err)
		}
	}
	return nil
}

// Close flushes buffered rows and closes the file. Any buffered write error
// surfaces here, so a nil return means the file is complete on disk.
func (w *ImageWriter) Close() error {
	w.csv.Flush()
	flushErr := w.csv.Error()
	closeErr := w.file.Close()
	if flushErr != nil {
		return errdefs.Wrap(errdefs.ErrWrite, "report", "flush report", flushErr)
	}
	if closeErr != nil {
		return errdefs.Wrap(errdefs.ErrWrite, "report", "close report", closeErr)
	}
	return nil
}

func imageRow(record survey.ImageRecord) []string {
	return []string{
		record.SurveyBase,
		record.RawRelPath,
		record.Filename,
		record.Label.CSV(),
		record.GradedRelPath,
		strconv.Itoa(record.GradedHits),
		string(record.Winner),
		record.RawDetectedID,
		record.GradedDetectedID,
	}
}

// WriteImages writes a complete image report in one call.
func WriteImages(path string, records []survey.ImageRecord) error {
	w, err := CreateImageFile(path)
	if err != nil {
		return err
	}
	if err := w.Append(records); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// WriteProblems writes the problems report. Callers decide whether an
// empty problem list warrants a file at all.
func WriteProblems(path string, problems []survey.ProblemRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errdefs.Wrap(errdefs.ErrWrite, "report", "create output directory", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return errdefs.Wrap(errdefs.ErrWrite, "report", "create problems file", err)
	}
	w := csv.NewWriter(file)
	if err := w.Write(ProblemHeader); err != nil {
		file.Close()
		return errdefs.Wrap(errdefs.ErrWrite, "report", "write header", err)
	}
	for _, problem := range problems {
		row := []string{
			problem.SurveyBase,
			problem.DetectedID,
			problem.RawPath,
			problem.GradedPath,
			string(problem.Type),
			problem.Details,
		}
		if err := w.Write(row); err != nil {
			file.Close()
			return errdefs.Wrap(errdefs.ErrWrite, "report", "write row", err)
		}
	}
	w.Flush()
	flushErr := w.Error()
	closeErr := file.Close()
	if flushErr != nil {
		return errdefs.Wrap(errdefs.ErrWrite, "report", "flush problems", flushErr)
	}
	if closeErr != nil {
		return errdefs.Wrap(errdefs.ErrWrite, "report", "close problems", closeErr)
	}
	return nil
}

package engine

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/gofrs/flock"

	"surveymatch/internal/errdefs"
	"surveymatch/internal/logging"
	"surveymatch/internal/rules"
	"surveymatch/internal/scan"
	"surveymatch/internal/survey"
)

// lockFilename is created inside the output directory for the duration of
// a run so two runs cannot interleave partial reports.
const lockFilename = ".surveymatch.lock"

// Engine orchestrates preview and run operations.
type Engine struct {
	logger   *slog.Logger
	workers  int
	progress ProgressFunc
}

// Option customises the Engine.
type Option func(*Engine)

// WithWorkers sets how many surveys are classified concurrently. Values
// below one are ignored; the default is sequential processing.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithProgress registers a callback invoked once per completed survey.
func WithProgress(fn ProgressFunc) Option {
	return func(e *Engine) {
		if fn != nil {
			e.progress = fn
		}
	}
}

// New constructs an engine. A nil logger is replaced with a no-op logger.
func New(logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		logger:  logging.NewComponentLogger(logger, "engine"),
		workers: 1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Progress reports one completed survey during a run. Processed increases
// monotonically and reaches Total exactly once.
type Progress struct {
	SurveyBase string
	Processed  int
	Total      int
}

// ProgressFunc receives progress events. Calls are serialized.
type ProgressFunc func(Progress)

func (e *Engine) notify(event Progress) {
	if e.progress != nil {
		e.progress(event)
	}
}

// scanBoth walks the raw and graded trees in turn, checking for
// cancellation between the two walks.
func (e *Engine) scanBoth(ctx context.Context, rawRoot, gradedRoot string, m *rules.Matcher) (*scan.Result, *scan.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	rawScan, err := scan.Root(rawRoot, survey.SideRaw, m)
	if err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	gradedScan, err := scan.Root(gradedRoot, survey.SideGraded, m)
	if err != nil {
		return nil, nil, err
	}
	return rawScan, gradedScan, nil
}

// lockOutputDir takes the run lock, returning the release func. A lock
// already held by another process is an immediate ErrLocked.
func (e *Engine) lockOutputDir(outputDir string) (func(), error) {
	lock := flock.New(filepath.Join(outputDir, lockFilename))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, errdefs.Wrap(errdefs.ErrLocked, "engine", "acquire output lock", err)
	}
	if !ok {
		return nil, errdefs.Wrapf(errdefs.ErrLocked, "engine", "acquire output lock", "another run is writing to %s", outputDir)
	}
	return func() { _ = lock.Unlock() }, nil
}

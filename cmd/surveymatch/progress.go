package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"surveymatch/internal/engine"
	"surveymatch/internal/logging"
)

// progressSink renders per-survey progress on interactive terminals and logs
// the events at debug level otherwise so redirected stderr holds only log
// lines. The bar is created on the first event because the survey total is
// not known until the scan finishes.
type progressSink struct {
	out         *os.File
	logger      *slog.Logger
	interactive bool
	bar         *progressbar.ProgressBar
}

func newProgressSink(out *os.File, logger *slog.Logger) *progressSink {
	return &progressSink{out: out, logger: logger, interactive: isInteractive(out)}
}

// Handle implements engine.ProgressFunc. The engine serializes calls, so no
// locking is needed here.
func (p *progressSink) Handle(ev engine.Progress) {
	if !p.interactive {
		if p.logger != nil {
			p.logger.Debug("survey classified",
				logging.String(logging.FieldSurvey, ev.SurveyBase),
				logging.Int("processed", ev.Processed),
				logging.Int("total", ev.Total))
		}
		return
	}
	if p.bar == nil {
		p.bar = progressbar.NewOptions(ev.Total,
			progressbar.OptionSetWriter(p.out),
			progressbar.OptionSetDescription("surveys"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(30),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}
	_ = p.bar.Set(ev.Processed)
}

// Finish clears the bar so summary output starts on a clean line.
func (p *progressSink) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}

func isInteractive(file *os.File) bool {
	if file == nil {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

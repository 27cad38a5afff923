// Package progress renders scan feedback on stderr. The indicator is
// throwaway terminal output, never part of a command's report, so it
// is always cleared before the report prints.
package progress

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Tracker is a single-use progress indicator for one analysis pass:
// a counted bar when the file total is known, a spinner otherwise.
type Tracker struct {
	bar   *progressbar.ProgressBar
	label string
}

// NewSpinner returns a Tracker for a pass whose size is unknown up
// front.
func NewSpinner(label string) *Tracker {
	return &Tracker{
		label: label,
		bar: progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription(label),
			progressbar.OptionSetWidth(20),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionClearOnFinish(),
		),
	}
}

// NewTracker returns a Tracker counting toward a known file total.
func NewTracker(label string, total int) *Tracker {
	return &Tracker{
		label: label,
		bar: progressbar.NewOptions(total,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription(label),
			progressbar.OptionSetWidth(30),
			progressbar.OptionShowCount(),
			progressbar.OptionUseANSICodes(true),
			progressbar.OptionSetElapsedTime(false),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		),
	}
}

// Set moves the bar to an absolute completed count. The graph builder
// reports batched completion totals rather than increments.
func (t *Tracker) Set(done int) {
	t.bar.Set(done)
}

// FinishSuccess erases the indicator, leaving stderr clean for the
// report that follows.
func (t *Tracker) FinishSuccess() {
	t.finish("")
}

// FinishSkipped erases the indicator and notes why the pass was
// skipped.
func (t *Tracker) FinishSkipped(reason string) {
	t.finish(fmt.Sprintf("  %s skipped (%s)", t.label, reason))
}

// FinishError erases the indicator and reports the failure.
func (t *Tracker) FinishError(err error) {
	t.finish(fmt.Sprintf("  %s error: %v", t.label, err))
}

func (t *Tracker) finish(msg string) {
	t.bar.Finish()
	t.bar.Clear()
	if msg != "" {
		fmt.Fprintln(os.Stderr, msg)
	}
}

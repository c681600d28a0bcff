// Package report provides the ProgressSink and MessageSink implementations used by the command line.
package report

import (
	"log"
	"time"

	"github.com/nguyengg/eic/internal"
	"github.com/nguyengg/eic/pipeline"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/time/rate"
)

// Logger is a pipeline.MessageSink that prints every message to the wrapped log.Logger.
type Logger struct {
	*log.Logger
}

var _ pipeline.MessageSink = Logger{}

func (l Logger) Message(text string) {
	l.Print(text)
}

// Bar is a pipeline.ProgressSink that renders progress with a progressbar.ProgressBar.
type Bar struct {
	bar *progressbar.ProgressBar
}

var _ pipeline.ProgressSink = (*Bar)(nil)

// NewBar creates a new Bar with the given description.
func NewBar(description string, options ...progressbar.Option) *Bar {
	return &Bar{bar: internal.DefaultPercent(description, options...)}
}

func (b *Bar) Progress(percent float64) {
	// ignore all errors from progress bar.
	_ = b.bar.Set(int(percent))
}

// Close finishes the bar.
func (b *Bar) Close() error {
	return b.bar.Close()
}

// Sometimes is a pipeline.ProgressSink that logs progress at most once per interval.
//
// The final 100% is always logged.
type Sometimes struct {
	logger *log.Logger
	rate   *rate.Sometimes
}

var _ pipeline.ProgressSink = (*Sometimes)(nil)

// NewSometimes creates a new Sometimes that logs to the given logger every interval.
func NewSometimes(logger *log.Logger, interval time.Duration) *Sometimes {
	return &Sometimes{logger: logger, rate: &rate.Sometimes{Interval: interval}}
}

func (s *Sometimes) Progress(percent float64) {
	if percent >= 100 {
		s.logger.Printf("compressed 100%% of images")
		return
	}

	s.rate.Do(func() {
		s.logger.Printf("compressed %.2f%% of images so far", percent)
	})
}

package internal

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// DefaultPercent is a progress bar from 0 to 100 meant to be driven by progressbar.ProgressBar.Set.
//
// Like progressbar.Default but with a higher progressbar.OptionThrottle to reduce flickering.
func DefaultPercent(description string, options ...progressbar.Option) *progressbar.ProgressBar {
	return progressbar.NewOptions(100,
		append([]progressbar.Option{
			progressbar.OptionSetDescription(description),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetWidth(10),
			progressbar.OptionThrottle(100 * time.Millisecond),
			progressbar.OptionShowCount(),
			progressbar.OptionOnCompletion(func() {
				_, _ = fmt.Fprint(os.Stderr, "\n")
			}),
			progressbar.OptionFullWidth(),
			progressbar.OptionSetRenderBlankState(true)},
			options...)...)
}

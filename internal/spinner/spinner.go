// Package spinner shows progress on a terminal line while an estimate is
// outstanding.
package spinner

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"
)

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Interval between frames.
const Interval = 80 * time.Millisecond

// Start displays an animated spinner with the given message on w until the
// returned function is called or ctx is done. Stopping clears the line and
// is safe to call more than once.
func Start(ctx context.Context, w io.Writer, message string) (stop func()) {
	done := make(chan struct{})
	cleared := make(chan struct{})
	var stopOnce sync.Once

	// frame glyph + space + message, measured in terminal columns
	width := runewidth.StringWidth(message) + 2

	go func() {
		defer close(cleared)
		ticker := time.NewTicker(Interval)
		defer ticker.Stop()

		i := 0
		for {
			select {
			case <-done:
			case <-ctx.Done():
			case <-ticker.C:
				fmt.Fprintf(w, "\r%s %s", frames[i%len(frames)], message) //nolint:errcheck
				i++
				continue
			}
			if i > 0 {
				fmt.Fprintf(w, "\r%s\r", strings.Repeat(" ", width)) //nolint:errcheck
			}
			return
		}
	}()

	return func() {
		stopOnce.Do(func() {
			close(done)
		})
		<-cleared
	}
}

// Run calls fn with a spinner shown on w when enabled is true.
func Run(ctx context.Context, w io.Writer, message string, enabled bool, fn func()) {
	if !enabled {
		fn()
		return
	}
	stop := Start(ctx, w, message)
	defer stop()
	fn()
}

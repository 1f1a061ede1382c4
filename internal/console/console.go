// Package console prints colored progress lines for a migration run.
package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// Reporter writes one colored line per event: blue for progress, green for
// success, yellow for warnings and red for failures.
type Reporter struct {
	mu      sync.Mutex
	out     io.Writer
	info    *color.Color
	success *color.Color
	warn    *color.Color
	failure *color.Color
}

// New returns a Reporter writing to out. noColor forces plain output; color
// is otherwise enabled only when out is a terminal (color.NoColor).
func New(out io.Writer, noColor bool) *Reporter {
	r := &Reporter{
		out:     out,
		info:    color.New(color.FgBlue),
		success: color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		failure: color.New(color.FgRed),
	}
	for _, c := range []*color.Color{r.info, r.success, r.warn, r.failure} {
		if noColor {
			c.DisableColor()
		}
	}
	return r
}

// Progress reports a step that is about to happen.
func (r *Reporter) Progress(format string, args ...any) {
	r.line(r.info, format, args...)
}

// Success reports a completed step.
func (r *Reporter) Success(format string, args ...any) {
	r.line(r.success, format, args...)
}

// Warn reports a skipped or deferred step.
func (r *Reporter) Warn(format string, args ...any) {
	r.line(r.warn, format, args...)
}

// Failure reports a failed step.
func (r *Reporter) Failure(format string, args ...any) {
	r.line(r.failure, format, args...)
}

func (r *Reporter) line(c *color.Color, format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = c.Fprintln(r.out, fmt.Sprintf(format, args...))
}

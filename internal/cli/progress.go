package cli

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// progressReporter prints a one-line status on stderr while a network call
// runs. It is silent unless stderr is a terminal.
type progressReporter struct {
	enabled bool
	out     io.Writer
	label   string
	start   time.Time
	lastLen int
}

func newProgressReporter(app *App, label string) *progressReporter {
	return &progressReporter{
		enabled: app.Terminal && isTerminal(app.Err),
		out:     app.Err,
		label:   label,
		start:   time.Now(),
	}
}

func (r *progressReporter) Start() {
	if !r.enabled {
		return
	}
	r.printStatus(fmt.Sprintf("- %s...", r.label))
}

func (r *progressReporter) Done(count int, noun string) {
	if !r.enabled {
		return
	}
	elapsed := time.Since(r.start).Round(time.Millisecond)
	r.printStatus(fmt.Sprintf("%s complete (%d %s in %s)", r.label, count, noun, elapsed))
	fmt.Fprintln(r.out)
}

// Clear erases the status line without a summary.
func (r *progressReporter) Clear() {
	if !r.enabled {
		return
	}
	r.printStatus("")
	fmt.Fprint(r.out, "\r")
}

func (r *progressReporter) printStatus(status string) {
	if r.lastLen > len(status) {
		status = status + strings.Repeat(" ", r.lastLen-len(status))
	}
	r.lastLen = len(status)
	fmt.Fprintf(r.out, "\r%s", status)
}

package transfer

import (
	"fmt"
	"io"
	"time"

	"github.com/adamwoolhether/dlverify/client/download"
	"github.com/adamwoolhether/dlverify/integrity"
)

// Reporter receives the human-facing milestones of an attempt, in order.
type Reporter interface {
	Started(req Request, strategy download.Strategy)
	Size(n int64, known bool)
	Finished(elapsed time.Duration)
	Checking()
	Outcome(o integrity.Outcome)
}

// ConsoleReporter writes plain progress lines.
type ConsoleReporter struct {
	w io.Writer
}

func NewConsoleReporter(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{w: w}
}

func (c *ConsoleReporter) Started(Request, download.Strategy) {
	fmt.Fprintln(c.w, "File downloading...")
}

func (c *ConsoleReporter) Size(n int64, known bool) {
	if !known {
		fmt.Fprintln(c.w, "File size cannot be determined.")
		return
	}
	fmt.Fprintf(c.w, "Bytes to download: %d\n", n)
}

func (c *ConsoleReporter) Finished(elapsed time.Duration) {
	fmt.Fprintf(c.w, "Download time: %.3f seconds\n", elapsed.Seconds())
}

func (c *ConsoleReporter) Checking() {
	fmt.Fprintln(c.w, "Finished download. Checking integrity...")
}

func (c *ConsoleReporter) Outcome(o integrity.Outcome) {
	switch o.Status {
	case integrity.StatusValidated:
		fmt.Fprintln(c.w, "File integrity validated.")
	case integrity.StatusMismatched:
		fmt.Fprintln(c.w, "File integrity validation failed.")
	default:
		fmt.Fprintf(c.w, "File integrity could not be determined: %s.\n", o.Reason)
	}
}

type nopReporter struct{}

func (nopReporter) Started(Request, download.Strategy) {}
func (nopReporter) Size(int64, bool)                   {}
func (nopReporter) Finished(time.Duration)             {}
func (nopReporter) Checking()                          {}
func (nopReporter) Outcome(integrity.Outcome)          {}

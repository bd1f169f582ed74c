package download

import (
	"context"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"log/slog"
	"time"

	"github.com/schollz/progressbar/v3"
)

// contextReader stops a copy as soon as ctx ends, even when the
// underlying body would keep producing bytes.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}

	return cr.r.Read(p)
}

// checksumVerifier hashes bytes as they are written and compares the
// hex digest once the body is complete.
type checksumVerifier struct {
	hash     hash.Hash
	expected string
}

func (v *checksumVerifier) Write(p []byte) (int, error) {
	return v.hash.Write(p)
}

// Verify is a no-op on a nil verifier.
func (v *checksumVerifier) Verify() error {
	if v == nil {
		return nil
	}

	actual := hex.EncodeToString(v.hash.Sum(nil))
	if actual != v.expected {
		return &Error{
			Err:    ErrChecksumMismatch,
			Detail: fmt.Sprintf("expected %s, got %s", v.expected, actual),
		}
	}

	return nil
}

// progressWriter is an io.Writer, logging download progress at
// most once per second if enabled.
type progressWriter struct {
	w           io.Writer
	logger      *slog.Logger
	strategy    Strategy
	transferred int64
	total       int64 // negative when unknown
	startTime   time.Time
	lastLog     time.Time
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n, err := pw.w.Write(p)
	pw.transferred += int64(n)

	if time.Since(pw.lastLog) >= time.Second {
		pw.lastLog = time.Now()
		pw.log("downloading")
	}

	return n, err
}

func (pw *progressWriter) log(msg string) {
	elapsed := time.Since(pw.startTime)
	attrs := []any{
		"strategy", pw.strategy.String(),
		"elapsed", elapsed.Round(time.Millisecond),
		"transferred", pw.transferred,
	}

	if pw.total >= 0 {
		pct := 100.0
		if pw.total > 0 {
			pct = float64(pw.transferred) / float64(pw.total) * 100
		}
		attrs = append(attrs, "total", pw.total, "progress", fmt.Sprintf("%.1f%%", pct))
	} else {
		attrs = append(attrs, "total", "unknown")
	}

	if secs := elapsed.Seconds(); secs > 0 {
		attrs = append(attrs, "mbps", fmt.Sprintf("%.2f", float64(pw.transferred)/secs/(1024*1024)))
	}

	pw.logger.Info(msg, attrs...)
}

// newBar returns a byte-counting terminal bar. An unknown total renders
// as a spinner.
func newBar(w io.Writer, total int64) *progressbar.ProgressBar {
	if total < 0 {
		total = -1
	}

	return progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("downloading"),
		progressbar.OptionShowBytes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
	)
}

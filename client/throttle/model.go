package throttle

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"
)

// Errors returned by both limiters. Waits that fail because the request
// or transfer context ended wrap the context error as well.
var (
	ErrMustNotBeZero = errors.New("must be greater than zero")
	ErrWaitingFailed = errors.New("waiting for rate limit tokens")
	ErrContextEnded  = errors.New("transfer context ended")
)

// Config is the request budget applied to probe and fetch requests.
type Config struct {
	RPS   int
	Burst int
}

// requestLimiter is an http.RoundTripper that spends one token per
// request, so the HEAD probes and the GET of a transfer share one budget.
type requestLimiter struct {
	limiter *rate.Limiter
	cfg     Config
	next    http.RoundTripper
	logFn   func() *slog.Logger
}

// byteLimiter is an io.Reader that spends one token per body byte. Its
// burst is one second of bytes, and reads are trimmed to the burst so
// WaitN never asks for more than the bucket holds.
type byteLimiter struct {
	ctx     context.Context
	r       io.Reader
	limiter *rate.Limiter
}

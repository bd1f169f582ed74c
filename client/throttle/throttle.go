package throttle

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// NewRoundTripper returns an http.RoundTripper that holds each request
// until the rps/burst token bucket allows it. logFn is resolved per
// request so the client's logger can be set after the transport is built;
// a nil logger disables the wait logging.
func NewRoundTripper(rps, burst int, logFn func() *slog.Logger, next http.RoundTripper) (http.RoundTripper, error) {
	if rps <= 0 || burst <= 0 {
		return nil, fmt.Errorf("rps[%d] and burst[%d] %w", rps, burst, ErrMustNotBeZero)
	}

	rl := requestLimiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		cfg:     Config{RPS: rps, Burst: burst},
		next:    next,
		logFn:   logFn,
	}

	return &rl, nil
}

func (rl *requestLimiter) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx := r.Context()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w before wait: %w", ErrContextEnded, err)
	}

	logger := rl.logFn()
	blocked := logger != nil && rl.limiter.Tokens() < 1

	start := time.Now()
	if err := rl.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWaitingFailed, err)
	}

	if blocked {
		logger.Info("request throttled", "method", r.Method, "url", r.URL.Redacted(),
			"waited", time.Since(start).String(), "rps", rl.cfg.RPS, "burst", rl.cfg.Burst)
	}

	// The wait may have outlived the deadline.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w after wait: %w", ErrContextEnded, err)
	}

	return rl.next.RoundTrip(r)
}

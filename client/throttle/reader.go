package throttle

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/time/rate"
)

// NewReader wraps r so that no more than bytesPerSec bytes are returned
// per second. Waits stop when ctx ends.
func NewReader(ctx context.Context, r io.Reader, bytesPerSec int) (io.Reader, error) {
	if bytesPerSec <= 0 {
		return nil, fmt.Errorf("bytesPerSec[%d] %w", bytesPerSec, ErrMustNotBeZero)
	}

	return &byteLimiter{
		ctx:     ctx,
		r:       r,
		limiter: rate.NewLimiter(rate.Limit(bytesPerSec), bytesPerSec),
	}, nil
}

func (bl *byteLimiter) Read(p []byte) (int, error) {
	if burst := bl.limiter.Burst(); len(p) > burst {
		p = p[:burst]
	}

	n, err := bl.r.Read(p)
	if n > 0 {
		if werr := bl.limiter.WaitN(bl.ctx, n); werr != nil {
			return n, fmt.Errorf("%w: %w", ErrWaitingFailed, werr)
		}
	}

	return n, err
}

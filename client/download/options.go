package download

import (
	"errors"
	"fmt"
	"hash"
	"io"
)

// Option defines optional settings for downloading files.
// WithStrategy and WithBlockSize choose between a single copy and
// fixed-size block writes.
//
// WithChecksum enables inline checksum validation of the downloaded file.
// h is a hash.Hash instance (e.g. sha256.New()), and expected is the
// hex-encoded expected checksum string.
//
// WithProgress enables periodic download progress logging via the
// logger supplied to Handle, WithProgressBar draws a terminal bar.
type Option func(*options) error

type options struct {
	strategy    Strategy
	blockSize   int
	checksum    *checksumVerifier
	progress    bool
	barOut      io.Writer
	bytesPerSec int
}

func WithStrategy(s Strategy) Option {
	return func(opts *options) error {
		if s != Single && s != Chunked {
			return fmt.Errorf("unknown strategy %d", int(s))
		}

		opts.strategy = s
		return nil
	}
}

func WithBlockSize(n int) Option {
	return func(opts *options) error {
		if n <= 0 {
			return errors.New("block size must be greater than zero")
		}

		opts.blockSize = n
		return nil
	}
}

func WithChecksum(h hash.Hash, expected string) Option {
	return func(opts *options) error {
		if h == nil {
			return errors.New("hash must not be nil")
		}

		if expected == "" {
			return errors.New("expected checksum must not be empty")
		}

		opts.checksum = &checksumVerifier{hash: h, expected: expected}
		return nil
	}
}

func WithProgress() Option {
	return func(opts *options) error {
		opts.progress = true
		return nil
	}
}

func WithProgressBar(w io.Writer) Option {
	return func(opts *options) error {
		if w == nil {
			return errors.New("progress bar writer must not be nil")
		}

		opts.barOut = w
		return nil
	}
}

// WithRateLimit caps the body read rate. Zero leaves it unlimited.
func WithRateLimit(bytesPerSec int) Option {
	return func(opts *options) error {
		if bytesPerSec < 0 {
			return errors.New("rate limit must not be negative")
		}

		opts.bytesPerSec = bytesPerSec
		return nil
	}
}

package transfer

import (
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/dlverify/client/download"
	"github.com/adamwoolhether/dlverify/integrity"
	"github.com/adamwoolhether/dlverify/retry"
)

// Option configures an [Orchestrator].
type Option func(*options) error

type options struct {
	blockSize       int
	verifyBlockSize int
	tokenSource     integrity.TokenSource
	policy          retry.Policy
	reporter        Reporter
	metrics         *Metrics
	tracerProvider  trace.TracerProvider
	logger          *slog.Logger
	downloadOpts    []download.Option
}

// WithBlockSize sets the chunked fetch block size.
func WithBlockSize(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return errors.New("block size must be greater than zero")
		}
		o.blockSize = n
		return nil
	}
}

// WithVerifyBlockSize sets the read size used while hashing the saved
// file. Zero selects [integrity.DefaultBlockSize].
func WithVerifyBlockSize(n int) Option {
	return func(o *options) error {
		if n < 0 {
			return errors.New("verify block size must not be negative")
		}
		o.verifyBlockSize = n
		return nil
	}
}

// WithTokenSource chooses whether verification re-probes the server or
// reuses the probed headers.
func WithTokenSource(s integrity.TokenSource) Option {
	return func(o *options) error {
		o.tokenSource = s
		return nil
	}
}

// WithRetry runs every transfer under p. Without it a transfer is
// attempted once.
func WithRetry(p retry.Policy) Option {
	return func(o *options) error {
		o.policy = p
		return nil
	}
}

func WithReporter(r Reporter) Option {
	return func(o *options) error {
		if r == nil {
			return errors.New("reporter must not be nil")
		}
		o.reporter = r
		return nil
	}
}

func WithMetrics(m *Metrics) Option {
	return func(o *options) error {
		o.metrics = m
		return nil
	}
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) error {
		if tp == nil {
			return errors.New("tracer provider must not be nil")
		}
		o.tracerProvider = tp
		return nil
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

// WithDownloadOptions passes extra options, such as a progress bar or a
// rate limit, to every fetch.
func WithDownloadOptions(opts ...download.Option) Option {
	return func(o *options) error {
		o.downloadOpts = append(o.downloadOpts, opts...)
		return nil
	}
}

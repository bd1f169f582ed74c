package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/adamwoolhether/dlverify/client"
	"github.com/adamwoolhether/dlverify/client/download"
	"github.com/adamwoolhether/dlverify/integrity"
	"github.com/adamwoolhether/dlverify/retry"
)

const tracerName = "github.com/adamwoolhether/dlverify/transfer"

// Stage errors are joined with the underlying cause.
var (
	ErrProbe  = errors.New("probing")
	ErrFetch  = errors.New("fetching")
	ErrVerify = errors.New("verifying")
)

// Client is the network side of a transfer. [*client.Client] satisfies it.
type Client interface {
	Probe(ctx context.Context, rawURL string) (client.Headers, error)
	Fetch(ctx context.Context, rawURL, destPath string, chunked bool, opts ...download.Option) (download.Stats, error)
}

// Result describes the last attempt of a transfer.
type Result struct {
	ID       uuid.UUID
	Request  Request
	Strategy download.Strategy
	// DeclaredSize is the probed Content-Length, or -1 when SizeKnown
	// is false.
	DeclaredSize int64
	SizeKnown    bool
	Written      int64
	Blocks       int
	// Elapsed covers the fetch only.
	Elapsed  time.Duration
	Outcome  integrity.Outcome
	Attempts int
}

// Orchestrator runs probe, fetch and verify in sequence.
type Orchestrator struct {
	client          Client
	checker         *integrity.Checker
	policy          retry.Policy
	reporter        Reporter
	metrics         *Metrics
	tracer          trace.Tracer
	logger          *slog.Logger
	verifyBlockSize int
	downloadOpts    []download.Option
}

// New builds an Orchestrator around c.
func New(c Client, optFns ...Option) (*Orchestrator, error) {
	if c == nil {
		return nil, errors.New("client must not be nil")
	}

	opts := options{
		blockSize: download.DefaultBlockSize,
		reporter:  nopReporter{},
		logger:    slog.Default(),
	}
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying transfer option: %w", err)
		}
	}
	if opts.logger == nil {
		opts.logger = slog.Default()
	}

	checker, err := integrity.New(c,
		integrity.WithTokenSource(opts.tokenSource),
		integrity.WithLogger(opts.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("building checker: %w", err)
	}

	tracer := noop.NewTracerProvider().Tracer(tracerName)
	if opts.tracerProvider != nil {
		tracer = opts.tracerProvider.Tracer(tracerName)
	}

	policy := opts.policy
	if policy.Logger == nil {
		policy.Logger = opts.logger
	}

	o := Orchestrator{
		client:          c,
		checker:         checker,
		policy:          policy,
		reporter:        opts.reporter,
		metrics:         opts.metrics,
		tracer:          tracer,
		logger:          opts.logger,
		verifyBlockSize: opts.verifyBlockSize,
		downloadOpts:    slices.Concat([]download.Option{download.WithBlockSize(opts.blockSize)}, opts.downloadOpts),
	}

	return &o, nil
}

// Run transfers req under the retry policy. The returned Result
// describes the last attempt and is non-nil whenever an attempt ran,
// including when err is non-nil. A verification mismatch is not an
// error; inspect Result.Outcome.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Result, error) {
	var (
		res      *Result
		attempts int
	)

	err := o.policy.Do(ctx, func(ctx context.Context, attempt int) error {
		attempts = attempt

		r, err := o.attempt(ctx, req, attempt)
		res = r
		return err
	})

	if res != nil {
		res.Attempts = attempts
	}

	return res, err
}

func (o *Orchestrator) attempt(ctx context.Context, req Request, attempt int) (*Result, error) {
	res := &Result{
		ID:           uuid.New(),
		Request:      req,
		DeclaredSize: -1,
	}
	log := o.logger.With("transfer_id", res.ID.String(), "attempt", attempt)

	o.metrics.attempt()

	ctx, span := o.tracer.Start(ctx, "transfer.attempt", trace.WithAttributes(
		attribute.String("transfer.id", res.ID.String()),
		attribute.String("transfer.url", req.URL()),
		attribute.String("transfer.dest", req.Dest()),
		attribute.Int("transfer.attempt", attempt),
	))
	defer span.End()

	strategy, err := o.run(ctx, log, res)
	o.metrics.finished(strategy, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error("transfer attempt failed", "error", err)
		return res, err
	}

	span.SetAttributes(attribute.String("transfer.outcome", res.Outcome.Status.String()))

	return res, nil
}

// run performs one probe, fetch and verify pass, filling res as it
// goes. It returns the strategy label for metrics.
func (o *Orchestrator) run(ctx context.Context, log *slog.Logger, res *Result) (string, error) {
	req := res.Request

	hdr, err := o.probe(ctx, req)
	if err != nil {
		return "none", fmt.Errorf("%w: %w", ErrProbe, err)
	}

	chunked := hdr.AcceptsRanges()
	res.Strategy = download.Single
	if chunked {
		res.Strategy = download.Chunked
	}
	res.DeclaredSize, res.SizeKnown = hdr.ContentLength()

	o.reporter.Started(req, res.Strategy)
	o.reporter.Size(res.DeclaredSize, res.SizeKnown)
	log.Info("transfer started", "url", req.URL(), "dest", req.Dest(), "strategy", res.Strategy.String(), "declared_size", res.DeclaredSize)

	start := time.Now()
	stats, err := o.fetch(ctx, req, chunked)
	res.Elapsed = time.Since(start)
	res.Written, res.Blocks = stats.Written, stats.Blocks
	if err != nil {
		return res.Strategy.String(), fmt.Errorf("%w: %w", ErrFetch, err)
	}

	o.metrics.fetched(res)
	o.reporter.Finished(res.Elapsed)
	o.reporter.Checking()

	outcome, err := o.verify(ctx, req, hdr)
	if err != nil {
		return res.Strategy.String(), fmt.Errorf("%w: %w", ErrVerify, err)
	}
	res.Outcome = outcome

	o.metrics.verified(outcome)
	o.reporter.Outcome(outcome)

	level := slog.LevelInfo
	if !outcome.Validated() {
		level = slog.LevelWarn
	}
	log.Log(ctx, level, "transfer complete", "written", res.Written, "blocks", res.Blocks, "elapsed", res.Elapsed.String(), "integrity", outcome.String())

	return res.Strategy.String(), nil
}

func (o *Orchestrator) probe(ctx context.Context, req Request) (client.Headers, error) {
	ctx, span := o.tracer.Start(ctx, "transfer.probe")
	defer span.End()

	hdr, err := o.client.Probe(ctx, req.URL())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return client.Headers{}, err
	}

	n, known := hdr.ContentLength()
	span.SetAttributes(
		attribute.Bool("http.accept_ranges", hdr.AcceptsRanges()),
		attribute.Bool("http.content_length_known", known),
		attribute.Int64("http.content_length", n),
	)

	return hdr, nil
}

func (o *Orchestrator) fetch(ctx context.Context, req Request, chunked bool) (download.Stats, error) {
	ctx, span := o.tracer.Start(ctx, "transfer.fetch", trace.WithAttributes(attribute.Bool("transfer.chunked", chunked)))
	defer span.End()

	stats, err := o.client.Fetch(ctx, req.URL(), req.Dest(), chunked, o.downloadOpts...)
	span.SetAttributes(
		attribute.Int64("transfer.written", stats.Written),
		attribute.Int("transfer.blocks", stats.Blocks),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return stats, err
	}

	return stats, nil
}

func (o *Orchestrator) verify(ctx context.Context, req Request, probed client.Headers) (integrity.Outcome, error) {
	ctx, span := o.tracer.Start(ctx, "transfer.verify")
	defer span.End()

	outcome, err := o.checker.Check(ctx, req.Dest(), probed, req.URL(), o.verifyBlockSize)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return integrity.Outcome{}, err
	}

	span.SetAttributes(attribute.String("integrity.status", outcome.Status.String()))
	if outcome.Status == integrity.StatusUndeterminable {
		span.SetAttributes(attribute.String("integrity.reason", string(outcome.Reason)))
	}

	return outcome, nil
}

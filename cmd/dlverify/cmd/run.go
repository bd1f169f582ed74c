package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/adamwoolhether/dlverify/client"
	"github.com/adamwoolhether/dlverify/client/download"
	"github.com/adamwoolhether/dlverify/integrity"
	"github.com/adamwoolhether/dlverify/internal/config"
	"github.com/adamwoolhether/dlverify/retry"
	"github.com/adamwoolhether/dlverify/transfer"
)

type streams struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

// run performs one transfer for cfg.
func run(ctx context.Context, cfg config.Config, s streams) error {
	logger := newLogger(s.errOut, cfg)

	c, err := client.Build(clientOptions(cfg, logger)...)
	if err != nil {
		return &exitError{code: 1, err: err}
	}

	source, err := integrity.ParseTokenSource(cfg.TokenSource)
	if err != nil {
		return &exitError{code: 1, err: err}
	}

	var req transfer.Request
	if cfg.Output != "" {
		req, err = transfer.NewRequestTo(cfg.URL, cfg.Output)
	} else {
		req, err = transfer.NewRequest(cfg.URL, cfg.Dir)
	}
	if err != nil {
		return &exitError{code: 1, err: err}
	}

	reg := prometheus.NewRegistry()
	metrics, err := transfer.NewMetrics(reg)
	if err != nil {
		return &exitError{code: 1, err: err}
	}

	policy := retry.Policy{MaxAttempts: cfg.Attempts, Logger: logger}
	if cfg.Yes {
		policy.Backoff = retry.Exponential(500*time.Millisecond, 10*time.Second)
	} else {
		policy.Confirm = newPrompter(s.in, s.out).Confirm
	}

	var dlOpts []download.Option
	if cfg.Progress {
		dlOpts = append(dlOpts, download.WithProgress())
	}
	if cfg.ShowBar {
		dlOpts = append(dlOpts, download.WithProgressBar(s.errOut))
	}
	if cfg.RateLimit > 0 {
		dlOpts = append(dlOpts, download.WithRateLimit(cfg.RateLimit))
	}

	o, err := transfer.New(c,
		transfer.WithBlockSize(cfg.BlockSize),
		transfer.WithVerifyBlockSize(cfg.VerifyBlockSize),
		transfer.WithTokenSource(source),
		transfer.WithRetry(policy),
		transfer.WithReporter(transfer.NewConsoleReporter(s.out)),
		transfer.WithMetrics(metrics),
		transfer.WithLogger(logger),
		transfer.WithDownloadOptions(dlOpts...),
	)
	if err != nil {
		return &exitError{code: 1, err: err}
	}

	res, runErr := o.Run(ctx, req)

	if cfg.MetricsTextfile != "" {
		if err := prometheus.WriteToTextfile(cfg.MetricsTextfile, reg); err != nil {
			logger.Error("writing metrics textfile", "path", cfg.MetricsTextfile, "error", err)
		}
	}

	if runErr != nil {
		return &exitError{code: 1, err: runErr, silent: errors.Is(runErr, retry.ErrDeclined)}
	}

	if cfg.Strict && !res.Outcome.Validated() {
		return &exitError{code: 2, err: fmt.Errorf("integrity %s", res.Outcome)}
	}

	return nil
}

func clientOptions(cfg config.Config, logger *slog.Logger) []client.Option {
	opts := []client.Option{
		client.WithLogger(logger),
		client.WithHeaderLines(cfg.Headers...),
	}
	if cfg.UserAgent != "" {
		opts = append(opts, client.WithUserAgent(cfg.UserAgent))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, client.WithTimeout(cfg.Timeout))
	}
	if cfg.RPS > 0 {
		opts = append(opts, client.WithThrottle(cfg.RPS, cfg.Burst))
	}

	return opts
}

// newLogger writes text logs to w: warnings by default, progress at
// info with --progress, everything with --verbose.
func newLogger(w io.Writer, cfg config.Config) *slog.Logger {
	level := slog.LevelWarn
	if cfg.Progress {
		level = slog.LevelInfo
	}
	if cfg.Verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

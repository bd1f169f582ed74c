package client

import (
	"hash"
	"io"

	"github.com/adamwoolhether/dlverify/client/download"
)

// ————————————————————————————————————————————————————————————————————
// Type aliases – re-export user-facing types from [download].
// ————————————————————————————————————————————————————————————————————

type (
	// DownloadOption configures a single [Client.Fetch].
	DownloadOption = download.Option

	// DownloadError wraps a sentinel error with additional detail.
	DownloadError = download.Error

	// DownloadStats describes what a fetch wrote.
	DownloadStats = download.Stats
)

// ————————————————————————————————————————————————————————————————————
// Sentinel errors
// ————————————————————————————————————————————————————————————————————

var (
	// ErrContentLengthMismatch indicates the byte count did not match Content-Length.
	ErrContentLengthMismatch = download.ErrContentLengthMismatch

	// ErrChecksumMismatch indicates the file checksum did not match the expected value.
	ErrChecksumMismatch = download.ErrChecksumMismatch

	// ErrDownloadCancelled indicates the download was cancelled via context.
	ErrDownloadCancelled = download.ErrDownloadCancelled
)

// ————————————————————————————————————————————————————————————————————
// Download option forwarding functions
// ————————————————————————————————————————————————————————————————————

// WithBlockSize sets the block size used by the chunked strategy.
func WithBlockSize(n int) DownloadOption { return download.WithBlockSize(n) }

// WithChecksum enables inline checksum validation of the downloaded file.
// h is a [hash.Hash] instance (e.g. sha256.New()), and expected is the
// hex-encoded expected checksum string.
func WithChecksum(h hash.Hash, expected string) DownloadOption {
	return download.WithChecksum(h, expected)
}

// WithProgress enables periodic download progress logging.
func WithProgress() DownloadOption { return download.WithProgress() }

// WithProgressBar renders a terminal progress bar on w.
func WithProgressBar(w io.Writer) DownloadOption { return download.WithProgressBar(w) }

// WithRateLimit caps the body read rate at bytesPerSec.
func WithRateLimit(bytesPerSec int) DownloadOption { return download.WithRateLimit(bytesPerSec) }

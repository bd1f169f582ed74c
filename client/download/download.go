package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/adamwoolhether/dlverify/client/throttle"
)

// fileMode is applied to the temp file before it is renamed into place.
const fileMode = 0o644

// Handle streams body to a temp file in the same directory as destPath,
// which is renamed to destPath on success. On any error the temp file is
// removed. The temp file is always closed before Handle returns.
func Handle(ctx context.Context, body io.Reader, contentLength int64, destPath string, logger *slog.Logger, optFns ...Option) (Stats, error) {
	opts := options{blockSize: DefaultBlockSize}
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return Stats{}, fmt.Errorf("applying option: %w", err)
		}
	}

	stats := Stats{Strategy: opts.strategy}

	body = &contextReader{ctx: ctx, r: body}
	if opts.bytesPerSec > 0 {
		limited, err := throttle.NewReader(ctx, body, opts.bytesPerSec)
		if err != nil {
			return stats, fmt.Errorf("configuring rate limit: %w", err)
		}
		body = limited
	}

	file, err := os.CreateTemp(filepath.Dir(destPath), ".dlverify-*")
	if err != nil {
		return stats, fmt.Errorf("creating temp file: %w", err)
	}

	var successful bool
	defer func() {
		if err := file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			logger.Error("defer closing temp file", "error", err)
		}
		if !successful {
			if err := os.Remove(file.Name()); err != nil {
				logger.Error("failed to remove temp file", "error", err)
			}
		}
	}()

	var writer io.Writer = file
	if opts.checksum != nil {
		writer = io.MultiWriter(writer, opts.checksum)
	}

	var pw *progressWriter
	if opts.progress {
		pw = &progressWriter{
			w:         writer,
			logger:    logger,
			strategy:  opts.strategy,
			total:     contentLength,
			startTime: time.Now(),
		}
		writer = pw
	}

	var bar *progressbar.ProgressBar
	if opts.barOut != nil {
		bar = newBar(opts.barOut, contentLength)
		writer = io.MultiWriter(writer, bar)
	}

	switch opts.strategy {
	case Chunked:
		stats.Written, stats.Blocks, err = copyBlocks(writer, body, opts.blockSize)
	default:
		stats.Written, err = io.Copy(writer, body)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
			return stats, fmt.Errorf("%w: %w", ErrDownloadCancelled, err)
		}

		return stats, fmt.Errorf("copying file body: %w", err)
	}

	if pw != nil {
		pw.log("download complete")
	}
	if bar != nil {
		if err := bar.Finish(); err != nil {
			logger.Warn("finishing progress bar", "error", err)
		}
	}

	if contentLength >= 0 && stats.Written != contentLength {
		return stats, &Error{
			Err:    ErrContentLengthMismatch,
			Detail: fmt.Sprintf("expected %d bytes, got %d", contentLength, stats.Written),
		}
	}

	if err := opts.checksum.Verify(); err != nil {
		return stats, err
	}

	if err := file.Chmod(fileMode); err != nil {
		return stats, fmt.Errorf("setting temp file mode: %w", err)
	}
	if err := file.Sync(); err != nil {
		return stats, fmt.Errorf("syncing temp file: %w", err)
	}
	if err := file.Close(); err != nil {
		return stats, fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(file.Name(), destPath); err != nil {
		return stats, fmt.Errorf("renaming temp file: %w", err)
	}

	successful = true

	logger.Debug("download written", "path", destPath, "strategy", stats.Strategy.String(), "bytes", stats.Written, "blocks", stats.Blocks)

	return stats, nil
}

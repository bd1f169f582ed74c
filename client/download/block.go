package download

import (
	"errors"
	"io"
)

// copyBlocks moves src to dst in blocks of size bytes. Every block but
// the last is exactly size bytes; each non-empty block is written before
// the next read, and the loop ends at the first read that reports EOF.
func copyBlocks(dst io.Writer, src io.Reader, size int) (written int64, blocks int, err error) {
	buf := make([]byte, size)
	for {
		n, rerr := fill(src, buf)
		if n > 0 {
			wn, werr := dst.Write(buf[:n])
			written += int64(wn)
			if werr != nil {
				return written, blocks, werr
			}
			if wn != n {
				return written, blocks, io.ErrShortWrite
			}
			blocks++
		}

		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				return written, blocks, nil
			}
			return written, blocks, rerr
		}
	}
}

// fill reads until buf is full or src fails. Unlike io.ReadFull it hands
// back the reader's own error, so a clean EOF after a short final block
// is not confused with a truncated body.
func fill(src io.Reader, buf []byte) (int, error) {
	var n int
	for n < len(buf) {
		nn, err := src.Read(buf[n:])
		n += nn
		if err != nil {
			return n, err
		}
	}

	return n, nil
}

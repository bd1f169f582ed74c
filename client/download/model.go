package download

import (
	"errors"
	"fmt"
)

// DefaultBlockSize is the chunked strategy's block size when none is set.
const DefaultBlockSize = 1024

var (
	ErrContentLengthMismatch = errors.New("content length mismatch")
	ErrChecksumMismatch      = errors.New("checksum mismatch")
	ErrDownloadCancelled     = errors.New("download cancelled")
)

type Error struct {
	Detail string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Strategy selects how the body is moved to disk.
type Strategy int

const (
	// Single writes the whole body in one blocking copy.
	Single Strategy = iota
	// Chunked reads and writes the body in fixed-size blocks.
	Chunked
)

func (s Strategy) String() string {
	switch s {
	case Single:
		return "single"
	case Chunked:
		return "chunked"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// Stats describes a completed (or failed) write.
type Stats struct {
	Strategy Strategy
	// Written is the number of body bytes written to the temp file.
	Written int64
	// Blocks counts non-empty block writes. Single copies report zero.
	Blocks int
}

package integrity

import (
	"errors"
	"fmt"
	"hash"
	"log/slog"
	"strings"
)

// TokenSource selects where [Checker.Check] reads the validation token.
type TokenSource int

const (
	// Reprobe issues a fresh header-only request, treating the server as
	// the source of truth at verification time.
	Reprobe TokenSource = iota
	// FromProbe reuses the headers captured before the fetch.
	FromProbe
)

func (s TokenSource) String() string {
	switch s {
	case Reprobe:
		return "reprobe"
	case FromProbe:
		return "probe"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

// ParseTokenSource maps "reprobe" or "probe" to a TokenSource.
func ParseTokenSource(s string) (TokenSource, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reprobe":
		return Reprobe, nil
	case "probe", "from-probe":
		return FromProbe, nil
	default:
		return 0, fmt.Errorf("unknown token source %q", s)
	}
}

// Option configures a [Checker].
type Option func(*options) error

type options struct {
	newHash func() hash.Hash
	source  TokenSource
	logger  *slog.Logger
}

// WithHash replaces the MD5 default. The server token must have been
// computed with the same algorithm.
func WithHash(fn func() hash.Hash) Option {
	return func(o *options) error {
		if fn == nil {
			return errors.New("hash constructor must not be nil")
		}
		o.newHash = fn
		return nil
	}
}

func WithTokenSource(s TokenSource) Option {
	return func(o *options) error {
		if s != Reprobe && s != FromProbe {
			return fmt.Errorf("unknown token source %d", int(s))
		}
		o.source = s
		return nil
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

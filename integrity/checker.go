package integrity

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"hash"
	"io"
	"log/slog"
	"os"

	"github.com/adamwoolhether/dlverify/client"
)

// DefaultBlockSize is used by [HashFile] when the caller passes a
// non-positive block size.
const DefaultBlockSize = 32 << 10

// Prober fetches fresh response headers for a URL. [*client.Client]
// satisfies it.
type Prober interface {
	Probe(ctx context.Context, rawURL string) (client.Headers, error)
}

// Checker compares downloaded files to server validation tokens.
type Checker struct {
	prober  Prober
	newHash func() hash.Hash
	source  TokenSource
	logger  *slog.Logger
}

// New builds a Checker. p may be nil only when the token source is
// [FromProbe].
func New(p Prober, optFns ...Option) (*Checker, error) {
	opts := options{
		newHash: md5.New,
		source:  Reprobe,
	}
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying checker option: %w", err)
		}
	}

	if p == nil && opts.source == Reprobe {
		return nil, errors.New("prober must not be nil when re-probing")
	}

	chk := Checker{
		prober:  p,
		newHash: opts.newHash,
		source:  opts.source,
		logger:  slog.Default(),
	}
	if opts.logger != nil {
		chk.logger = opts.logger
	}

	return &chk, nil
}

// Check resolves the validation token for rawURL, hashes the file at
// path in blockSize reads and compares the two. A mismatch is reported
// through the Outcome; the error is reserved for failures that prevent a
// comparison, such as an unreadable file or a failed re-probe.
func (c *Checker) Check(ctx context.Context, path string, probed client.Headers, rawURL string, blockSize int) (Outcome, error) {
	token, err := c.token(ctx, probed, rawURL)
	if err != nil {
		return Outcome{}, err
	}

	digest, err := HashFile(ctx, path, c.newHash(), blockSize)
	if err != nil {
		return Outcome{}, err
	}

	out := Compare(token, digest)

	c.logger.Debug("integrity checked", "path", path, "source", c.source.String(), "token", token.String(), "digest", digest.Hex(), "status", out.Status.String())

	return out, nil
}

func (c *Checker) token(ctx context.Context, probed client.Headers, rawURL string) (Token, error) {
	if c.source == FromProbe {
		return ParseToken(probed.ETag()), nil
	}

	hdr, err := c.prober.Probe(ctx, rawURL)
	if err != nil {
		return Token{}, fmt.Errorf("re-probing validation token: %w", err)
	}

	fresh := ParseToken(hdr.ETag())
	if prior := ParseToken(probed.ETag()); prior.Present() && prior != fresh {
		c.logger.Warn("validation token changed since probe", "url", rawURL, "probed", prior.String(), "current", fresh.String())
	}

	return fresh, nil
}

// HashFile feeds the file at path into h blockSize bytes at a time and
// returns the resulting sum.
func HashFile(ctx context.Context, path string, h hash.Hash, blockSize int) (Digest, error) {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file to hash: %w", err)
	}
	defer f.Close()

	buf := make([]byte, blockSize)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	return Digest(h.Sum(nil)), nil
}

package integrity

import (
	"encoding/hex"
	"strings"
)

// Token is a server validation token, held without its quoting or
// weak-validator prefix.
type Token struct {
	value   string
	weak    bool
	quoted  bool
	present bool
}

// ParseToken normalizes a raw ETag value. `W/"abc"` becomes a weak token
// with value abc; an empty string yields a token that is not present.
// A bare abc is kept as an unquoted token, which never validates.
func ParseToken(raw string) Token {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Token{}
	}

	t := Token{present: true}
	if rest, ok := strings.CutPrefix(raw, "W/"); ok {
		t.weak = true
		raw = rest
	}
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		raw = raw[1 : len(raw)-1]
		t.quoted = true
	}
	t.value = raw

	return t
}

// Present reports whether the server sent a token at all.
func (t Token) Present() bool { return t.present }

// Weak reports whether the token carried the W/ prefix.
func (t Token) Weak() bool { return t.weak }

// HasQuotes reports whether the server sent the token double-quoted.
func (t Token) HasQuotes() bool { return t.quoted }

// Value returns the unquoted token.
func (t Token) Value() string { return t.value }

// Quoted returns the token in its conventional double-quoted form.
func (t Token) Quoted() string {
	return `"` + t.value + `"`
}

func (t Token) String() string {
	switch {
	case !t.present:
		return ""
	case !t.quoted:
		if t.weak {
			return "W/" + t.value
		}
		return t.value
	case t.weak:
		return "W/" + t.Quoted()
	default:
		return t.Quoted()
	}
}

// Digest is a raw hash sum.
type Digest []byte

// Hex returns the lower-case hexadecimal encoding of d.
func (d Digest) Hex() string {
	return hex.EncodeToString(d)
}

// Quoted wraps Hex in double quotes so it compares directly with
// [Token.Quoted].
func (d Digest) Quoted() string {
	return `"` + d.Hex() + `"`
}

func (d Digest) String() string {
	return d.Hex()
}

// isDigestOf reports whether v could be the hex encoding of a sum of
// size bytes.
func isDigestOf(v string, size int) bool {
	if len(v) != hex.EncodedLen(size) {
		return false
	}
	_, err := hex.DecodeString(v)
	return err == nil
}

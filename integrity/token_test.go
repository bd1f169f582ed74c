package integrity_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/adamwoolhether/dlverify/integrity"
)

func TestParseToken(t *testing.T) {
	type view struct {
		Present   bool
		Weak      bool
		HasQuotes bool
		Value     string
		Quoted    string
		String    string
	}

	testCases := []struct {
		name string
		raw  string
		exp  view
	}{
		{
			name: "empty",
			raw:  "",
			exp:  view{Quoted: `""`},
		},
		{
			name: "quoted",
			raw:  `"5d41402abc4b2a76b9719d911017c592"`,
			exp: view{
				Present:   true,
				HasQuotes: true,
				Value:     "5d41402abc4b2a76b9719d911017c592",
				Quoted:    `"5d41402abc4b2a76b9719d911017c592"`,
				String:    `"5d41402abc4b2a76b9719d911017c592"`,
			},
		},
		{
			name: "unquoted",
			raw:  "abc",
			exp:  view{Present: true, Value: "abc", Quoted: `"abc"`, String: "abc"},
		},
		{
			name: "weak",
			raw:  `W/"abc"`,
			exp:  view{Present: true, Weak: true, HasQuotes: true, Value: "abc", Quoted: `"abc"`, String: `W/"abc"`},
		},
		{
			name: "surrounding space",
			raw:  `  "abc"  `,
			exp:  view{Present: true, HasQuotes: true, Value: "abc", Quoted: `"abc"`, String: `"abc"`},
		},
		{
			name: "lone quote",
			raw:  `"`,
			exp:  view{Present: true, Value: `"`, Quoted: `"""`, String: `"`},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tok := integrity.ParseToken(tc.raw)
			got := view{
				Present:   tok.Present(),
				Weak:      tok.Weak(),
				HasQuotes: tok.HasQuotes(),
				Value:     tok.Value(),
				Quoted:    tok.Quoted(),
				String:    tok.String(),
			}

			if diff := cmp.Diff(tc.exp, got); diff != "" {
				t.Errorf("token mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDigest(t *testing.T) {
	d := integrity.Digest{0xde, 0xad, 0xbe, 0xef}

	if got := d.Hex(); got != "deadbeef" {
		t.Errorf("Hex() = %q", got)
	}
	if got := d.Quoted(); got != `"deadbeef"` {
		t.Errorf("Quoted() = %q", got)
	}
}

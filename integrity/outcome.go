package integrity

import "fmt"

// Status is the kind of an [Outcome].
type Status int

const (
	// StatusValidated means the local digest equals the server token.
	StatusValidated Status = iota + 1
	// StatusMismatched means the token is a comparable digest that differs
	// from the local one.
	StatusMismatched
	// StatusUndeterminable means the token could not be compared.
	StatusUndeterminable
)

func (s Status) String() string {
	switch s {
	case StatusValidated:
		return "validated"
	case StatusMismatched:
		return "mismatched"
	case StatusUndeterminable:
		return "undeterminable"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Reason explains an undeterminable outcome.
type Reason string

const (
	ReasonNoToken   Reason = "server sent no validation token"
	ReasonWeakToken Reason = "validation token is weak"
	ReasonNotDigest Reason = "validation token is not a content digest"
	ReasonUnquoted  Reason = "validation token is not quoted"
)

// Outcome is the result of comparing a file digest to a server token.
// Expected and Actual are set for every status except a missing token;
// Reason is set only when Status is StatusUndeterminable.
type Outcome struct {
	Status   Status
	Expected Token
	Actual   Digest
	Reason   Reason
}

// Validated reports whether the file matched the token.
func (o Outcome) Validated() bool {
	return o.Status == StatusValidated
}

func (o Outcome) String() string {
	switch o.Status {
	case StatusValidated:
		return "validated"
	case StatusMismatched:
		return fmt.Sprintf("mismatched: expected %s, got %s", o.Expected.Quoted(), o.Actual.Quoted())
	case StatusUndeterminable:
		return fmt.Sprintf("undeterminable: %s", o.Reason)
	default:
		return o.Status.String()
	}
}

// Compare classifies digest d against token t. Matching is exact
// equality of the quoted forms, so a token the server sent without
// quotes is undeterminable.
func Compare(t Token, d Digest) Outcome {
	out := Outcome{Expected: t, Actual: d}

	switch {
	case !t.Present():
		out.Status, out.Reason = StatusUndeterminable, ReasonNoToken
	case t.Weak():
		out.Status, out.Reason = StatusUndeterminable, ReasonWeakToken
	case !t.HasQuotes():
		out.Status, out.Reason = StatusUndeterminable, ReasonUnquoted
	case !isDigestOf(t.Value(), len(d)):
		out.Status, out.Reason = StatusUndeterminable, ReasonNotDigest
	case d.Quoted() == t.Quoted():
		out.Status = StatusValidated
	default:
		out.Status = StatusMismatched
	}

	return out
}

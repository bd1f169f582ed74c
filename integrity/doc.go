// Package integrity verifies a downloaded file against the server's
// validation token.
//
// A [Checker] resolves the token (by default with a fresh HEAD request),
// hashes the local file block by block, and compares the quoted hex
// digest to the quoted token. The result is an [Outcome], a tagged value
// that separates a real mismatch from a token that cannot be compared at
// all:
//
//	chk, err := integrity.New(c)
//	outcome, err := chk.Check(ctx, "/tmp/file.bin", probed, rawURL, 32<<10)
//	switch outcome.Status {
//	case integrity.StatusValidated:
//	case integrity.StatusMismatched:
//	case integrity.StatusUndeterminable:
//	}
//
// The default hash is MD5, the digest most servers place in ETag for
// single-part objects.
package integrity

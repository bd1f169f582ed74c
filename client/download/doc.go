// Package download streams HTTP response bodies to disk, either as a
// single copy or as a sequence of fixed-size blocks, with optional
// checksum validation, bandwidth limiting and progress reporting.
//
// # Single Download
//
// [Handle] writes the response body to a temporary file alongside the
// destination path, then atomically renames it on success:
//
//	stats, err := download.Handle(ctx, resp.Body, resp.ContentLength, destPath, logger,
//		download.WithStrategy(download.Chunked),
//		download.WithBlockSize(1024),
//	)
//
// The destination is never left holding a partial body: on any error the
// temporary file is removed and a previous destination file is untouched.
//
// Most callers should use the higher-level
// [github.com/adamwoolhether/dlverify/client] package, which invokes
// Handle internally from [client.Client.Fetch].
package download

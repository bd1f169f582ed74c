// Package client provides the HTTP side of a transfer: a header-only
// probe and a body fetch that streams to disk, both built on [net/http].
//
// # Building a Client
//
// Use [Build] to create a [Client] with functional options:
//
//	c, err := client.Build(
//		client.WithTimeout(30 * time.Second),
//		client.WithUserAgent("dlverify/1.0"),
//	)
//
// # Probing
//
// [Client.Probe] issues a HEAD request and returns the response
// [Headers] without transferring the body:
//
//	hdr, err := c.Probe(ctx, "https://example.com/file.bin")
//	if hdr.AcceptsRanges() { ... }
//
// # Fetching
//
// [Client.Fetch] streams the body to a temp file next to the destination
// and renames it into place once it has been flushed and closed. The
// chunked flag selects fixed-size block writes over a single copy:
//
//	stats, err := c.Fetch(ctx, rawURL, "/tmp/file.bin", hdr.AcceptsRanges(),
//		download.WithBlockSize(4096),
//		download.WithProgress(),
//	)
//
// For lower-level control see the
// [github.com/adamwoolhether/dlverify/client/download] package.
package client

// Package dlverify downloads a single file over HTTP and checks it
// against the MD5 digest the server advertises in its ETag.
//
// [Download] covers the common case. For control over the HTTP client,
// retries or reporting, compose [github.com/adamwoolhether/dlverify/client]
// and [github.com/adamwoolhether/dlverify/transfer] directly.
package dlverify

import (
	"context"
	"fmt"

	"github.com/adamwoolhether/dlverify/client"
	"github.com/adamwoolhether/dlverify/transfer"
)

// NewClient instantiates a new *client.Client with the provided options.
// If not specified, the default http.Client and http.Transport are used.
func NewClient(opts ...client.Option) (*client.Client, error) {
	return client.Build(opts...)
}

// Download saves rawURL into dir, named after the last segment of the
// URL path, and verifies it. A verification mismatch is reported in the
// returned Result, not as an error.
func Download(ctx context.Context, rawURL, dir string, opts ...transfer.Option) (*transfer.Result, error) {
	req, err := transfer.NewRequest(rawURL, dir)
	if err != nil {
		return nil, err
	}

	c, err := NewClient()
	if err != nil {
		return nil, fmt.Errorf("building client: %w", err)
	}

	o, err := transfer.New(c, opts...)
	if err != nil {
		return nil, err
	}

	return o.Run(ctx, req)
}

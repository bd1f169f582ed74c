package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-http-utils/headers"

	"github.com/adamwoolhether/dlverify/client/download"
	"github.com/adamwoolhether/dlverify/client/throttle"
)

// Client wraps the std-lib *http.Client.
// It sets a default *http.Client and *http.Transport, which
// can be customized via optional funcs.
type Client struct {
	c       *http.Client
	logger  *slog.Logger
	headers http.Header
}

// Build instantiates a *Client with the provided options.
func Build(optFns ...Option) (*Client, error) {
	client := &Client{
		c:      &http.Client{},
		logger: slog.Default(),
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	if opts.client != nil {
		client.c = opts.client
	}

	if opts.logger != nil {
		client.logger = opts.logger
	}

	if opts.timeout != nil {
		client.c.Timeout = *opts.timeout
	}

	if opts.noFollowRedirects {
		client.c.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	client.headers = opts.headers.Clone()

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	case opts.client != nil && opts.client.Transport != nil:
		transport = opts.client.Transport
	default:
		transport = http.DefaultTransport
	}
	if opts.userAgent != "" {
		transport = userAgent{value: opts.userAgent, base: transport}
	}
	if opts.throttle != nil {
		rt, err := throttle.NewRoundTripper(opts.throttle.RPS, opts.throttle.Burst, func() *slog.Logger { return client.logger }, transport)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		transport = rt
	}
	client.c.Transport = transport

	return client, nil
}

// Probe issues a header-only request for rawURL and returns the response
// headers. The response body is never read. Every failure, including a
// status outside 2xx/3xx, wraps [ErrProbeFailed].
func (c *Client) Probe(ctx context.Context, rawURL string) (Headers, error) {
	req, err := c.request(ctx, http.MethodHead, rawURL)
	if err != nil {
		return Headers{}, fmt.Errorf("%w: %w", ErrProbeFailed, err)
	}

	var hdr Headers
	probeFn := func(resp *http.Response) error {
		h := resp.Header.Clone()
		if h.Get(headers.ContentLength) == "" && resp.ContentLength >= 0 {
			h.Set(headers.ContentLength, strconv.FormatInt(resp.ContentLength, 10))
		}
		hdr = Headers{h: h}
		return nil
	}

	if err := c.exec(req, successOrRedirect, probeFn); err != nil {
		return Headers{}, fmt.Errorf("%w: %w", ErrProbeFailed, err)
	}

	c.logger.Debug("probed headers", "url", rawURL, "accept_ranges", hdr.AcceptsRanges(), "etag", hdr.ETag())

	return hdr, nil
}

// Fetch executes a GET for rawURL and streams the body to destPath.
// chunked selects the fixed-size block strategy, otherwise the body is
// written in a single copy. Data streams to a temp file in the same
// directory, which is renamed to destPath on success or removed on failure.
func (c *Client) Fetch(ctx context.Context, rawURL, destPath string, chunked bool, opts ...download.Option) (download.Stats, error) {
	if destPath == "" {
		return download.Stats{}, errors.New("destPath must not be empty")
	}

	req, err := c.request(ctx, http.MethodGet, rawURL)
	if err != nil {
		return download.Stats{}, err
	}

	strategy := download.Single
	if chunked {
		strategy = download.Chunked
	}

	var stats download.Stats
	dlFunc := func(resp *http.Response) error {
		s, err := download.Handle(ctx, resp.Body, resp.ContentLength, destPath, c.logger,
			slices.Concat([]download.Option{download.WithStrategy(strategy)}, opts)...)
		stats = s
		if err != nil {
			return fmt.Errorf("download: %w", err)
		}

		return nil
	}

	if err := c.exec(req, expect(http.StatusOK), dlFunc); err != nil {
		return stats, err
	}

	return stats, nil
}

// request builds a body-less request carrying the client's persistent
// headers. Accept-Encoding is pinned to identity so the transport never
// decodes the body: the bytes on disk must be the bytes the server
// fingerprinted.
func (c *Client) request(ctx context.Context, method, rawURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("instantiating request: %w", err)
	}

	for k, v := range c.headers {
		for _, element := range v {
			req.Header.Add(k, element)
		}
	}
	req.Header.Set(headers.AcceptEncoding, "identity")

	return req, nil
}

// exec runs the request and injected function on success after validating the status code.
func (c *Client) exec(req *http.Request, accept statusCheck, fn execFn) error {
	resp, err := c.c.Do(req)
	if err != nil {
		return fmt.Errorf("exec http do: %w", err)
	}

	discardBody := true
	defer func() {
		if discardBody {
			if _, err = io.Copy(io.Discard, resp.Body); err != nil {
				c.logger.Error("failed to discard unused body", "error", err)
			}
		}
		if err = resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	if !accept(resp.StatusCode) {
		b, err := io.ReadAll(io.LimitReader(resp.Body, maxErrBodySize))
		if err != nil {
			b = []byte("unable to read body")
		}

		statusErr := &UnexpectedStatusError{
			StatusCode: resp.StatusCode,
			Body:       string(b),
			Err:        ErrUnexpectedStatusCode,
		}
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			statusErr.Err = fmt.Errorf("%w: %w", ErrAuthFailure, ErrUnexpectedStatusCode)
		}

		return statusErr
	}

	if err := fn(resp); err != nil {
		discardBody = false
		return fmt.Errorf("exec fn: %w", err)
	}

	return nil
}

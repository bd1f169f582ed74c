// Package throttle rate-limits a transfer with token buckets from
// [golang.org/x/time/rate].
//
// # Requests
//
// [NewRoundTripper] wraps an existing transport so probe and fetch
// requests share a requests-per-second budget:
//
//	rt, err := throttle.NewRoundTripper(
//		10,  // requests per second
//		5,   // burst capacity
//		func() *slog.Logger { return slog.Default() },
//		http.DefaultTransport,
//	)
//	httpClient := &http.Client{Transport: rt}
//
// When the rate limit is exceeded, outbound requests block until a
// token becomes available or the request context is cancelled.
//
// # Bandwidth
//
// [NewReader] caps how many body bytes per second are handed to the
// fetcher:
//
//	body, err = throttle.NewReader(ctx, resp.Body, 512<<10)
package throttle

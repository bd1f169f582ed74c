package client

import (
	"net/http"
	"strconv"

	"github.com/go-http-utils/headers"
)

// Headers is the read-only set of response headers captured by a probe.
type Headers struct {
	h http.Header
}

// NewHeaders copies h into a Headers value.
func NewHeaders(h http.Header) Headers {
	return Headers{h: h.Clone()}
}

// Get returns the first value for name, or "" when absent.
func (h Headers) Get(name string) string {
	return h.h.Get(name)
}

// Has reports whether the server sent name at all.
func (h Headers) Has(name string) bool {
	_, ok := h.h[http.CanonicalHeaderKey(name)]
	return ok
}

// AcceptsRanges reports whether the server advertised Accept-Ranges.
// Presence alone selects the chunked fetch path.
func (h Headers) AcceptsRanges() bool {
	return h.Has(headers.AcceptRanges)
}

// ContentLength returns the declared body size. ok is false when the
// header is absent or unparsable, meaning the size is unknown.
func (h Headers) ContentLength() (n int64, ok bool) {
	raw := h.h.Get(headers.ContentLength)
	if raw == "" {
		return -1, false
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return -1, false
	}

	return n, true
}

// ETag returns the raw validation token, quotes included.
func (h Headers) ETag() string {
	return h.h.Get(headers.ETag)
}

// Header returns a copy of the underlying header map.
func (h Headers) Header() http.Header {
	return h.h.Clone()
}

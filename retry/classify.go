package retry

import (
	"context"
	"errors"
	"io/fs"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"

	"github.com/cenkalti/backoff/v5"

	"github.com/adamwoolhether/dlverify/client"
	"github.com/adamwoolhether/dlverify/client/download"
)

// DefaultRetryable reports whether err may succeed on another attempt.
// Only causes known to be permanent are rejected: cancellation, unknown
// hosts, malformed URLs or unsupported schemes, 4xx responses other than
// 408 and 429, local filesystem errors and anything marked with
// backoff.Permanent. Every other failure, TLS and unclassified transport
// errors included, is retryable.
func DefaultRetryable(err error) bool {
	if err == nil {
		return false
	}

	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, download.ErrDownloadCancelled) {
		return false
	}

	var statusErr *client.UnexpectedStatusError
	if errors.As(err, &statusErr) {
		code := statusErr.StatusCode
		return code == http.StatusRequestTimeout || code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
	}

	if errors.Is(err, syscall.ENOSPC) {
		return false
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return !dnsErr.IsNotFound
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return false
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && badURL(urlErr) {
		return false
	}

	return true
}

// badURL reports whether the request never left the process because the
// URL itself was unusable.
func badURL(err *url.Error) bool {
	if err.Op == "parse" {
		return true
	}

	return err.Err != nil && strings.Contains(err.Err.Error(), "unsupported protocol scheme")
}

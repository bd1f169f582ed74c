package transfer

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// fallbackName is used when the URL path has no usable final segment.
const fallbackName = "download"

var ErrInvalidURL = errors.New("invalid source url")

// Request names a source URL and the local path it is saved to. It is
// immutable once built.
type Request struct {
	url  string
	dest string
}

// NewRequest validates rawURL and places the file in dir under the name
// derived by [FileName].
func NewRequest(rawURL, dir string) (Request, error) {
	name, err := FileName(rawURL)
	if err != nil {
		return Request{}, err
	}

	if dir == "" {
		dir = "."
	}

	return Request{url: rawURL, dest: filepath.Join(dir, name)}, nil
}

// NewRequestTo validates rawURL and saves the file at dest exactly.
func NewRequestTo(rawURL, dest string) (Request, error) {
	if _, err := parseSource(rawURL); err != nil {
		return Request{}, err
	}
	if dest == "" {
		return Request{}, errors.New("destination must not be empty")
	}

	return Request{url: rawURL, dest: dest}, nil
}

// URL returns the source URL.
func (r Request) URL() string { return r.url }

// Dest returns the destination path.
func (r Request) Dest() string { return r.dest }

// FileName returns the last segment of the URL path, ignoring any query
// or fragment, or "download" if the path is empty or ends in a slash.
func FileName(rawURL string) (string, error) {
	u, err := parseSource(rawURL)
	if err != nil {
		return "", err
	}

	if u.Path == "" || strings.HasSuffix(u.Path, "/") {
		return fallbackName, nil
	}

	name := path.Base(u.Path)
	switch name {
	case ".", "/", "..":
		return fallbackName, nil
	}

	return name, nil
}

func parseSource(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: scheme %q is not http or https", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	return u, nil
}

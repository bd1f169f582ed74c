package transfer_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/adamwoolhether/dlverify/transfer"
)

func TestFileName(t *testing.T) {
	testCases := []struct {
		name   string
		rawURL string
		exp    string
		expErr bool
	}{
		{name: "last segment", rawURL: "https://static.example.com/photos/414171/photo-414171.jpeg", exp: "photo-414171.jpeg"},
		{name: "query ignored", rawURL: "https://go.dev/VERSION?m=text", exp: "VERSION"},
		{name: "fragment ignored", rawURL: "http://example.com/a/b.txt#top", exp: "b.txt"},
		{name: "escaped name", rawURL: "http://example.com/a/my%20file.txt", exp: "my file.txt"},
		{name: "trailing slash", rawURL: "http://example.com/dir/", exp: "download"},
		{name: "trailing slash with query", rawURL: "http://example.com/a/dir/?page=2", exp: "download"},
		{name: "root", rawURL: "http://example.com/", exp: "download"},
		{name: "no path", rawURL: "http://example.com", exp: "download"},
		{name: "ftp scheme", rawURL: "ftp://example.com/file", expErr: true},
		{name: "no host", rawURL: "http:///file", expErr: true},
		{name: "unparsable", rawURL: "http://[::1", expErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := transfer.FileName(tc.rawURL)
			if tc.expErr {
				if !errors.Is(err, transfer.ErrInvalidURL) {
					t.Fatalf("expected ErrInvalidURL, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FileName: %v", err)
			}
			if got != tc.exp {
				t.Errorf("FileName(%q) = %q, want %q", tc.rawURL, got, tc.exp)
			}
		})
	}
}

func TestNewRequest(t *testing.T) {
	req, err := transfer.NewRequest("https://example.com/x/file.bin", "/data")
	if err != nil {
		t.Fatal(err)
	}
	if req.URL() != "https://example.com/x/file.bin" {
		t.Errorf("URL() = %q", req.URL())
	}
	if want := filepath.Join("/data", "file.bin"); req.Dest() != want {
		t.Errorf("Dest() = %q, want %q", req.Dest(), want)
	}

	req, err = transfer.NewRequest("https://example.com/x/file.bin", "")
	if err != nil {
		t.Fatal(err)
	}
	if req.Dest() != "file.bin" {
		t.Errorf("Dest() with empty dir = %q, want file.bin", req.Dest())
	}
}

func TestNewRequestTo(t *testing.T) {
	req, err := transfer.NewRequestTo("https://example.com/x/file.bin", "/tmp/renamed.bin")
	if err != nil {
		t.Fatal(err)
	}
	if req.Dest() != "/tmp/renamed.bin" {
		t.Errorf("Dest() = %q", req.Dest())
	}

	if _, err := transfer.NewRequestTo("https://example.com/x", ""); err == nil {
		t.Error("expected error for empty destination")
	}
	if _, err := transfer.NewRequestTo("file:///etc/passwd", "/tmp/x"); !errors.Is(err, transfer.ErrInvalidURL) {
		t.Errorf("expected ErrInvalidURL, got %v", err)
	}
}

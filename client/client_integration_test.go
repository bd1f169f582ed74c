//go:build integration

package client_test

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adamwoolhether/dlverify/client"
)

const remoteURL = "https://go.dev/VERSION?m=text"

func TestIntegration_Probe_Remote(t *testing.T) {
	c, err := client.Build()
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}

	hdr, err := c.Probe(t.Context(), remoteURL)
	if err != nil {
		t.Fatalf("probe failed: %v", err)
	}

	if hdr.Get("Content-Type") == "" {
		t.Error("expected a Content-Type header from the remote")
	}
}

func TestIntegration_Fetch_RemoteBothStrategies(t *testing.T) {
	c, err := client.Build()
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}

	var contents [][]byte
	for _, chunked := range []bool{false, true} {
		destPath := filepath.Join(t.TempDir(), "VERSION")

		if _, err := c.Fetch(t.Context(), remoteURL, destPath, chunked, client.WithProgress()); err != nil {
			t.Fatalf("chunked=%v: fetch failed: %v", chunked, err)
		}

		got, err := os.ReadFile(destPath)
		if err != nil {
			t.Fatalf("reading downloaded file: %v", err)
		}
		if !strings.HasPrefix(string(got), "go") {
			t.Errorf("expected content to start with %q, got %q", "go", string(got))
		}
		contents = append(contents, got)
	}

	if !bytes.Equal(contents[0], contents[1]) {
		t.Error("single and chunked fetches produced different files")
	}
}

func TestIntegration_Fetch_RemoteWithChecksum(t *testing.T) {
	c, err := client.Build()
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}

	firstPath := filepath.Join(t.TempDir(), "VERSION-first")
	if _, err := c.Fetch(t.Context(), remoteURL, firstPath, false); err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}

	content, err := os.ReadFile(firstPath)
	if err != nil {
		t.Fatalf("reading first download: %v", err)
	}
	sum := sha256.Sum256(content)

	secondPath := filepath.Join(t.TempDir(), "VERSION-verified")
	if _, err := c.Fetch(t.Context(), remoteURL, secondPath, false, client.WithChecksum(sha256.New(), hex.EncodeToString(sum[:]))); err != nil {
		t.Fatalf("checksum-verified fetch failed: %v", err)
	}
}

package cmd

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/adamwoolhether/dlverify/internal/config"
	"github.com/adamwoolhether/dlverify/retry"
)

var payload = []byte("the quick brown fox jumps over the lazy dog\n")

func md5ETag(b []byte) string {
	sum := md5.Sum(b)
	return `"` + hex.EncodeToString(sum[:]) + `"`
}

// fileServer serves payload at any path with the given ETag. failGETs
// makes the first n GET requests answer 503.
func fileServer(t *testing.T, etag string, failGETs int32) *httptest.Server {
	t.Helper()

	var gets atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && gets.Add(1) <= failGETs {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		if etag != "" {
			w.Header().Set("ETag", etag)
		}
		http.ServeContent(w, r, "", time.Time{}, bytes.NewReader(payload))
	}))
	t.Cleanup(srv.Close)

	return srv
}

type result struct {
	out    string
	errOut string
	err    error
}

func execute(t *testing.T, input string, args ...string) result {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := NewRootCommand(strings.NewReader(input), &out, &errOut)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(t.Context())

	return result{out: out.String(), errOut: errOut.String(), err: err}
}

func TestRootCommand(t *testing.T) {
	testCases := []struct {
		name      string
		etag      string
		failGETs  int32
		input     string
		flags     []string
		wantCode  int
		wantLines []string
		wantFile  bool
	}{
		{
			name:     "validated",
			etag:     md5ETag(payload),
			wantCode: 0,
			wantLines: []string{
				"File downloading...",
				"Bytes to download: 44",
				"Download time:",
				"Finished download. Checking integrity...",
				"File integrity validated.",
			},
			wantFile: true,
		},
		{
			name:      "mismatch is not fatal",
			etag:      `"00000000000000000000000000000000"`,
			wantCode:  0,
			wantLines: []string{"File integrity validation failed."},
			wantFile:  true,
		},
		{
			name:      "mismatch in strict mode",
			etag:      `"00000000000000000000000000000000"`,
			flags:     []string{"--strict"},
			wantCode:  2,
			wantLines: []string{"File integrity validation failed."},
			wantFile:  true,
		},
		{
			name:      "undeterminable in strict mode",
			flags:     []string{"--strict"},
			wantCode:  2,
			wantLines: []string{"File integrity could not be determined"},
			wantFile:  true,
		},
		{
			name:      "retry accepted",
			etag:      md5ETag(payload),
			failGETs:  1,
			input:     "y\n",
			wantCode:  0,
			wantLines: []string{retryQuestion, "File integrity validated."},
			wantFile:  true,
		},
		{
			name:      "retry declined",
			etag:      md5ETag(payload),
			failGETs:  1,
			input:     "n\n",
			wantCode:  1,
			wantLines: []string{retryQuestion, "Download stopped."},
		},
		{
			name:      "retry without prompting",
			etag:      md5ETag(payload),
			failGETs:  1,
			flags:     []string{"--yes"},
			wantCode:  0,
			wantLines: []string{"File integrity validated."},
			wantFile:  true,
		},
		{
			name:     "attempts exhausted",
			etag:     md5ETag(payload),
			failGETs: 5,
			flags:    []string{"--yes", "--attempts", "2"},
			wantCode: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := fileServer(t, tc.etag, tc.failGETs)
			dir := t.TempDir()

			args := append([]string{srv.URL + "/fox.txt", "--dir", dir}, tc.flags...)
			res := execute(t, tc.input, args...)

			if got := ExitCode(res.err); got != tc.wantCode {
				t.Fatalf("ExitCode() = %d, want %d (err: %v)", got, tc.wantCode, res.err)
			}
			for _, line := range tc.wantLines {
				if !strings.Contains(res.out, line) {
					t.Errorf("stdout = %q, want it to contain %q", res.out, line)
				}
			}

			got, err := os.ReadFile(filepath.Join(dir, "fox.txt"))
			switch {
			case tc.wantFile && err != nil:
				t.Fatalf("reading downloaded file: %v", err)
			case tc.wantFile && !bytes.Equal(got, payload):
				t.Errorf("file = %q, want %q", got, payload)
			case !tc.wantFile && !errors.Is(err, os.ErrNotExist):
				t.Errorf("file exists after failed transfer (err: %v)", err)
			}

			entries, err := os.ReadDir(dir)
			if err != nil {
				t.Fatal(err)
			}
			for _, e := range entries {
				if strings.HasPrefix(e.Name(), ".dlverify-") {
					t.Errorf("temp file %s left behind", e.Name())
				}
			}
		})
	}
}

func TestRootCommandUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + "/gone.bin"
	srv.Close()

	dir := t.TempDir()
	res := execute(t, "n\n", url, "--dir", dir)

	if got := ExitCode(res.err); got != 1 {
		t.Fatalf("ExitCode() = %d, want 1 (err: %v)", got, res.err)
	}
	if !errors.Is(res.err, retry.ErrDeclined) {
		t.Errorf("err = %v, want retry.ErrDeclined", res.err)
	}
	var ee *exitError
	if !errors.As(res.err, &ee) || !ee.silent {
		t.Errorf("declined retry should not be reported again, err: %#v", res.err)
	}
	if !strings.Contains(res.out, "Download stopped.") {
		t.Errorf("stdout = %q, want the stop message", res.out)
	}
	if _, err := os.Stat(filepath.Join(dir, "gone.bin")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("file exists after failed probe (err: %v)", err)
	}
}

func TestRootCommandNotRetryable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	res := execute(t, "y\n", srv.URL+"/missing.bin", "--dir", t.TempDir())

	if got := ExitCode(res.err); got != 1 {
		t.Fatalf("ExitCode() = %d, want 1 (err: %v)", got, res.err)
	}
	if strings.Contains(res.out, retryQuestion) {
		t.Errorf("stdout = %q, a 404 should not prompt", res.out)
	}
}

func TestRootCommandOutputFlag(t *testing.T) {
	srv := fileServer(t, md5ETag(payload), 0)
	dest := filepath.Join(t.TempDir(), "renamed.txt")

	res := execute(t, "", srv.URL+"/fox.txt", "-o", dest, "--block-size", "7", "--token-source", "probe")
	if res.err != nil {
		t.Fatalf("execute: %v", res.err)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("file = %q, want %q", got, payload)
	}
}

func TestRootCommandMetricsTextfile(t *testing.T) {
	srv := fileServer(t, md5ETag(payload), 0)
	dir := t.TempDir()
	metricsPath := filepath.Join(dir, "dlverify.prom")

	res := execute(t, "", srv.URL+"/fox.txt", "--dir", dir, "--metrics-textfile", metricsPath)
	if res.err != nil {
		t.Fatalf("execute: %v", res.err)
	}

	b, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("reading metrics: %v", err)
	}
	if !strings.Contains(string(b), "dlverify_") {
		t.Errorf("metrics file does not hold dlverify metrics:\n%s", b)
	}
}

func TestRootCommandInvalidConfig(t *testing.T) {
	testCases := []struct {
		name      string
		args      []string
		wantField string
	}{
		{name: "zero attempts", args: []string{"https://example.com/a", "--attempts", "0"}, wantField: "attempts"},
		{name: "zero block size", args: []string{"https://example.com/a", "--block-size", "0"}, wantField: "block-size"},
		{name: "unknown token source", args: []string{"https://example.com/a", "--token-source", "cache"}, wantField: "token-source"},
		{name: "not a url", args: []string{"not a url"}, wantField: "url"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := execute(t, "", tc.args...)

			if got := ExitCode(res.err); got != 1 {
				t.Fatalf("ExitCode() = %d, want 1 (err: %v)", got, res.err)
			}

			var fe config.FieldErrors
			if !errors.As(res.err, &fe) {
				t.Fatalf("err = %v, want config.FieldErrors", res.err)
			}
			found := false
			for _, f := range fe.Fields() {
				if f == tc.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("failing fields = %v, want %q among them", fe.Fields(), tc.wantField)
			}
		})
	}
}

func TestRootCommandArgs(t *testing.T) {
	if res := execute(t, ""); res.err == nil {
		t.Error("expected an error without a URL")
	}
	if res := execute(t, "", "https://a.example/x", "https://b.example/y"); res.err == nil {
		t.Error("expected an error with two URLs")
	}
}

func TestExitCode(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: 0},
		{name: "plain", err: errors.New("boom"), want: 1},
		{name: "strict", err: &exitError{code: 2, err: errors.New("mismatch")}, want: 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExitCode(tc.err); got != tc.want {
				t.Errorf("ExitCode() = %d, want %d", got, tc.want)
			}
		})
	}
}

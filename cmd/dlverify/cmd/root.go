package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/adamwoolhether/dlverify/internal/config"
)

// rootDescription is used to describe the dlverify command in detail.
var rootDescription = `dlverify downloads a single file over HTTP and checks it against the
server's ETag. It probes the URL with a HEAD request first: servers that
advertise Accept-Ranges are read in fixed-size blocks, others in one copy.
The file is written to a temp file and renamed into place, then hashed
with MD5 and compared to the quoted ETag.

Every flag can also be set through a DLVERIFY_* environment variable
(--block-size is DLVERIFY_BLOCK_SIZE), a .env file in the working
directory, or a config file passed with --config.`

var rootExample = `
$ dlverify https://example.com/images/photo.jpeg
File downloading...
Bytes to download: 2140146
Download time: 0.812 seconds
Finished download. Checking integrity...
File integrity validated.
`

// Execute runs the root command and exits with its status code.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := NewRootCommand(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()

	if err != nil {
		var ee *exitError
		if !errors.As(err, &ee) || !ee.silent {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
	}

	os.Exit(ExitCode(err))
}

// NewRootCommand builds the dlverify command reading answers from in and
// writing console lines to out and logs to errOut.
func NewRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:               "dlverify [flags] URL",
		Short:             "download a file over HTTP and verify it against its ETag",
		Long:              rootDescription,
		Example:           rootExample,
		Args:              cobra.ExactArgs(1),
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			config.Defaults(v)

			if err := config.LoadEnv(); err != nil {
				return &exitError{code: 1, err: err}
			}
			if err := config.Bind(v, configFile); err != nil {
				return &exitError{code: 1, err: err}
			}
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return &exitError{code: 1, err: fmt.Errorf("binding flags: %w", err)}
			}
			v.Set("url", args[0])

			cfg, err := config.Load(v)
			if err != nil {
				return &exitError{code: 1, err: fmt.Errorf("invalid configuration: %w", err)}
			}

			s := streams{in: cmd.InOrStdin(), out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}
			return run(cmd.Context(), cfg, s)
		},
	}

	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	flagSet := cmd.Flags()
	flagSet.StringVar(&configFile, "config", "", "config file (yaml, json or toml) holding flag values")
	flagSet.String("dir", ".", "directory the file is saved in, named after the last URL path segment")
	flagSet.StringP("output", "o", "", "exact destination path, overrides --dir")
	flagSet.Int("block-size", 1024, "block size in bytes for servers that advertise Accept-Ranges")
	flagSet.Int("verify-block-size", 0, "read size in bytes used while hashing the saved file, 0 for the default")
	flagSet.Duration("timeout", 0, "timeout for each HTTP request, body included, 0 disables it")
	flagSet.String("user-agent", "dlverify/1.0", "User-Agent header sent with every request")
	flagSet.StringArray("header", nil, "extra request header, eg: --header='Authorization: Bearer x'")
	flagSet.Int("rps", 0, "maximum requests per second, 0 disables request throttling")
	flagSet.Int("burst", 1, "request throttling burst size")
	flagSet.Int("rate-limit", 0, "maximum body bytes per second, 0 disables bandwidth limiting")
	flagSet.Int("attempts", 2, "total attempts including the first, between 1 and 10")
	flagSet.BoolP("yes", "y", false, "retry retryable failures without prompting, with exponential backoff")
	flagSet.String("token-source", "reprobe", "where the ETag is read for verification: reprobe (fresh HEAD) or probe (initial HEAD)")
	flagSet.Bool("progress", false, "log download progress")
	flagSet.BoolP("showbar", "b", false, "show a progress bar on stderr")
	flagSet.Bool("verbose", false, "enable debug logging")
	flagSet.Bool("strict", false, "exit with status 2 when the file cannot be validated")
	flagSet.String("metrics-textfile", "", "write Prometheus metrics in text format to this path on exit")

	return cmd
}

// exitError carries the process exit status. silent errors have already
// been explained to the user.
type exitError struct {
	code   int
	err    error
	silent bool
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// ExitCode maps a command error to a process exit status: 0 on success,
// 2 for a strict-mode verification failure, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}

	return 1
}

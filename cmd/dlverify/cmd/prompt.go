package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

const retryQuestion = "An error occurred. Would you like to try downloading again? (Type 'y' or 'n'): "

// prompter asks the user whether a failed download should be retried.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

// Confirm prints err and the retry question, then reads one answer.
// Only y or yes retries; n, no, end of input and anything else abort.
func (p *prompter) Confirm(ctx context.Context, _ int, err error) bool {
	fmt.Fprintln(p.out, err)
	fmt.Fprint(p.out, retryQuestion)

	type answer struct {
		line string
		err  error
	}
	// Stdin reads cannot be interrupted. On cancellation the reader stays
	// blocked until the process exits, which follows right after.
	ch := make(chan answer, 1)
	go func() {
		line, err := p.in.ReadString('\n')
		ch <- answer{line: line, err: err}
	}()

	var a answer
	select {
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return false
	case a = <-ch:
	}

	reply := strings.ToLower(strings.TrimSpace(a.line))
	if a.err != nil && reply == "" {
		fmt.Fprintln(p.out)
		fmt.Fprintln(p.out, "Download stopped.")
		return false
	}

	switch reply {
	case "y", "yes":
		return true
	case "n", "no":
		fmt.Fprintln(p.out, "Download stopped.")
	default:
		fmt.Fprintln(p.out, "Invalid input.")
	}

	return false
}

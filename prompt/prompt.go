// Package prompt provides an interactive retry policy for shader compilation.
//
// During development a failed compile usually means a typo in a shader file.
// Terminal shows the compiler diagnostic and lets the developer fix the file
// and retry, give up (abort) or carry on without the shader (ignore).
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/muesli/termenv"

	"github.com/gogpu/technique"
)

type options struct {
	profile    termenv.Profile
	hasProfile bool
	maxRetries int
}

// Option configures Terminal.
type Option func(*options)

// WithProfile forces the color profile instead of detecting it from out.
// termenv.Ascii disables colors.
func WithProfile(p termenv.Profile) Option {
	return func(o *options) {
		o.profile = p
		o.hasProfile = true
	}
}

// WithMaxRetries answers Abort once a shader has been attempted n times.
// Zero, the default, asks every time.
func WithMaxRetries(n int) Option {
	return func(o *options) {
		o.maxRetries = n
	}
}

// Terminal returns a retry policy that prints each compile failure to out
// and reads the decision from in. Accepted answers are r, a and i (or retry,
// abort and ignore), case-insensitive; anything else asks again. End of input
// or a read error aborts.
func Terminal(in io.Reader, out io.Writer, opts ...Option) technique.RetryPolicy {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	var termOpts []termenv.OutputOption
	if o.hasProfile {
		termOpts = append(termOpts, termenv.WithProfile(o.profile))
	}
	term := termenv.NewOutput(out, termOpts...)
	r := bufio.NewReader(in)

	return func(cerr *technique.CompileError) technique.RetryDecision {
		writeFailure(term, cerr)
		if o.maxRetries > 0 && cerr.Attempts >= o.maxRetries {
			fmt.Fprintf(term, "giving up after %d attempts\n", cerr.Attempts)
			return technique.RetryAbort
		}
		for {
			fmt.Fprint(term, term.String("[r]etry, [a]bort, [i]gnore? ").Bold())
			line, err := r.ReadString('\n')
			if d, ok := parseAnswer(line); ok {
				return d
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					technique.Logger().Warn("prompt: read answer", slog.String("err", err.Error()))
				}
				fmt.Fprintln(term)
				return technique.RetryAbort
			}
		}
	}
}

func writeFailure(term *termenv.Output, cerr *technique.CompileError) {
	red := term.Color("1")
	header := fmt.Sprintf("shader compile failed: %s:%s (%s), attempt %d",
		cerr.Path, cerr.Entry, cerr.Profile, cerr.Attempts)
	fmt.Fprintln(term, term.String(header).Foreground(red).Bold())

	for _, line := range strings.Split(strings.TrimRight(cerr.Diagnostic, "\n"), "\n") {
		style := term.String(line)
		switch {
		case strings.Contains(line, "error:"):
			style = style.Foreground(red)
		case strings.Contains(line, "warning:"):
			style = style.Foreground(term.Color("3"))
		case strings.Contains(line, " | "):
			style = style.Faint()
		}
		fmt.Fprintln(term, style)
	}
}

// parseAnswer maps one input line to a decision.
func parseAnswer(line string) (technique.RetryDecision, bool) {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "r", "retry":
		return technique.RetryRetry, true
	case "a", "abort":
		return technique.RetryAbort, true
	case "i", "ignore":
		return technique.RetryIgnore, true
	default:
		return 0, false
	}
}

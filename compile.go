package technique

import (
	"errors"
	"log/slog"
)

// Define is a preprocessor-style name/value definition passed to the compiler.
type Define struct {
	Name  string
	Value string
}

// CompileFlags are compiler switches.
type CompileFlags uint32

const (
	// FlagStrict enables strict validation. Always set.
	FlagStrict CompileFlags = 1 << iota

	// FlagDebug embeds debug information. Set only in debug builds.
	FlagDebug
)

// Has reports whether all bits of flag are set.
func (f CompileFlags) Has(flag CompileFlags) bool {
	return f&flag == flag
}

// CompileRequest is a single compiler invocation.
type CompileRequest struct {
	Path    string
	Entry   string
	Defines []Define
	Profile Profile
	Flags   CompileFlags
}

// Compiler compiles a shader source file. Diagnostic may be non-empty on
// success (warnings) and should be non-empty on failure.
type Compiler interface {
	Compile(req *CompileRequest) (byteCode []byte, diagnostic string, err error)
}

// CompilerFunc adapts a function to the Compiler interface.
type CompilerFunc func(req *CompileRequest) ([]byte, string, error)

// Compile calls f(req).
func (f CompilerFunc) Compile(req *CompileRequest) ([]byte, string, error) {
	return f(req)
}

// RetryDecision is the answer of a RetryPolicy to a failed compilation.
type RetryDecision uint8

const (
	// RetryAbort stops and returns the failure marked as aborted.
	RetryAbort RetryDecision = iota

	// RetryRetry invokes the compiler again with the same request.
	RetryRetry

	// RetryIgnore stops and returns the failure as is.
	RetryIgnore
)

func (d RetryDecision) String() string {
	switch d {
	case RetryAbort:
		return "abort"
	case RetryRetry:
		return "retry"
	case RetryIgnore:
		return "ignore"
	default:
		return "unknown"
	}
}

// RetryPolicy decides what happens after a failed compilation. It may block,
// e.g. while an operator edits the shader source.
type RetryPolicy func(err *CompileError) RetryDecision

// SingleAttempt is the default policy: report the first failure.
func SingleAttempt(*CompileError) RetryDecision { return RetryIgnore }

// compileFlags returns the flags every compilation uses.
func compileFlags() CompileFlags {
	flags := FlagStrict
	if debugBuild {
		flags |= FlagDebug
	}
	return flags
}

// compile runs the compiler until it succeeds or the retry policy stops it.
func (t *Technique) compile(path, entry string, defines []Define, profile Profile) ([]byte, error) {
	if t.compiler == nil {
		return nil, ErrNoCompiler
	}
	req := &CompileRequest{
		Path:    path,
		Entry:   entry,
		Defines: defines,
		Profile: profile,
		Flags:   compileFlags(),
	}
	log := t.logger().With(slog.String("path", path), slog.String("entry", entry), slog.String("profile", string(profile)))

	for attempt := 1; ; attempt++ {
		code, diag, err := t.compiler.Compile(req)
		t.diagnostic = diag
		if diag != "" {
			if err != nil {
				log.Error("shader compilation failed", slog.String("diagnostic", diag))
			} else {
				log.Warn("shader compiled with diagnostics", slog.String("diagnostic", diag))
			}
		}
		if err == nil {
			return code, nil
		}

		cerr := &CompileError{
			Path:       path,
			Entry:      entry,
			Profile:    profile,
			Diagnostic: diag,
			Attempts:   attempt,
			Err:        err,
		}
		if cerr.Diagnostic == "" {
			cerr.Diagnostic = err.Error()
		}
		// Configuration problems inside the compiler are not worth a prompt.
		if errors.Is(err, ErrConfiguration) {
			return nil, cerr
		}

		switch decision := t.retry(cerr); decision {
		case RetryRetry:
			log.Info("retrying shader compilation", slog.Int("attempt", attempt+1))
		case RetryAbort:
			cerr.Aborted = true
			return nil, cerr
		default:
			return nil, cerr
		}
	}
}

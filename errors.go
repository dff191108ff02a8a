package technique

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfiguration is the root of every configuration error. Configuration
// errors are fatal for the call that reports them and are never retried.
var ErrConfiguration = errors.New("technique: configuration error")

// Configuration errors. All of them satisfy errors.Is(err, ErrConfiguration).
var (
	// ErrNoDevice is returned by creation operations when no Device is bound.
	ErrNoDevice = fmt.Errorf("%w: no device bound", ErrConfiguration)

	// ErrNoCompiler is returned by shader creation when no Compiler is configured.
	ErrNoCompiler = fmt.Errorf("%w: no compiler configured", ErrConfiguration)

	// ErrUnsupportedStage is returned when a stage has no compile profile
	// (hull and domain stages can only be bound empty).
	ErrUnsupportedStage = fmt.Errorf("%w: stage cannot be created from source", ErrConfiguration)
)

// CompileError reports a failed shader compilation. Diagnostic carries the
// compiler's text verbatim; Err is the compiler's own error value.
type CompileError struct {
	Path       string
	Entry      string
	Profile    Profile
	Diagnostic string

	// Attempts is the number of compiler invocations, retries included.
	Attempts int

	// Aborted is set when the retry policy answered RetryAbort.
	Aborted bool

	Err error
}

func (e *CompileError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "technique: compile %s:%s (%s)", e.Path, e.Entry, e.Profile)
	if e.Aborted {
		sb.WriteString(" aborted")
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *CompileError) Unwrap() error { return e.Err }

// DeviceError reports that the Device rejected a descriptor or byte-code.
// Op names the Device method, e.g. "CreatePixelShader".
type DeviceError struct {
	Op  string
	Err error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("technique: %s: %v", e.Op, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }

func deviceError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &DeviceError{Op: op, Err: err}
}

package technique

import "log/slog"

// Option configures a Technique during creation.
//
// Example:
//
//	tech := technique.New(
//	    technique.WithDevice(dev),
//	    technique.WithContext(ctx),
//	    technique.WithCompiler(compiler.New()),
//	)
type Option func(*options)

// options holds optional configuration for Technique creation.
type options struct {
	device     Device
	context    Context
	compiler   Compiler
	retry      RetryPolicy
	logger     *slog.Logger
	stencilRef uint32
}

// defaultOptions returns the default technique options.
func defaultOptions() options {
	return options{
		retry: SingleAttempt,
	}
}

// WithDevice binds the Device used by every creation operation.
func WithDevice(d Device) Option {
	return func(o *options) {
		o.device = d
	}
}

// WithContext binds the Context used by Apply.
func WithContext(c Context) Option {
	return func(o *options) {
		o.context = c
	}
}

// WithCompiler sets the shader compiler.
func WithCompiler(c Compiler) Option {
	return func(o *options) {
		o.compiler = c
	}
}

// WithRetryPolicy sets the policy consulted after a failed compilation.
// A nil policy keeps SingleAttempt.
//
// Example:
//
//	// Development build: let the operator fix the shader and retry.
//	tech := technique.New(technique.WithRetryPolicy(prompt.Terminal(os.Stdin, os.Stderr)))
func WithRetryPolicy(p RetryPolicy) Option {
	return func(o *options) {
		if p != nil {
			o.retry = p
		}
	}
}

// WithLogger overrides the package logger for one technique.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithStencilRef sets the stencil reference value bound by Apply.
func WithStencilRef(ref uint32) Option {
	return func(o *options) {
		o.stencilRef = ref
	}
}

package technique

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler drops every record. Enabled reports false, so attributes are
// never built while logging is off.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr holds the logger shared by every technique without WithLogger.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger sets the logger used by techniques created without WithLogger
// and by the compiler and halgpu packages. Nothing is logged until it is
// called; nil silences logging again. It may be called at any time, from
// any goroutine.
//
// Log levels used by technique:
//   - [slog.LevelDebug]: slot lifecycle (stage created, state replaced, resources released)
//   - [slog.LevelInfo]: compilation retries requested by the retry policy
//   - [slog.LevelWarn]: compiler diagnostics on a successful compile, misuse that is tolerated
//   - [slog.LevelError]: compiler diagnostics on a failed compile
//
// The most recent diagnostic is also kept on the technique; see
// [Technique.Diagnostic].
//
// Example:
//
//	technique.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the logger set by SetLogger, or a silent one.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

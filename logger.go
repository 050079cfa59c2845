package triangle

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

// live holds the contexts whose drivers receive logger updates.
var (
	liveMu sync.Mutex
	live   = make(map[*Context]struct{})
)

func init() {
	l := newNopLogger()
	loggerPtr.Store(l)
}

// SetLogger configures the logger for triangle and the drivers of every
// open Context. By default, triangle produces no log output. Call SetLogger
// to enable logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by triangle:
//   - [slog.LevelDebug]: per-step diagnostics (handles created, surface configuration)
//   - [slog.LevelInfo]: lifecycle events (adapter selected, context ready, teardown)
//   - [slog.LevelWarn]: skipped frames, release violations, late callbacks
//   - [slog.LevelError]: errors reported by the GPU device
//
// Example:
//
//	// Enable info-level logging to stderr:
//	triangle.SetLogger(slog.Default())
//
//	// Enable debug-level logging for full diagnostics:
//	triangle.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	liveMu.Lock()
	defer liveMu.Unlock()
	for c := range live {
		propagateLogger(c.driver, l)
	}
}

// Logger returns the current logger used by triangle.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// loggerSetter is implemented by drivers that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// propagateLogger passes the logger to a driver if it implements the
// loggerSetter interface.
func propagateLogger(d any, l *slog.Logger) {
	if ls, ok := d.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}

// register makes c's driver follow SetLogger until unregister.
func register(c *Context) {
	liveMu.Lock()
	defer liveMu.Unlock()
	live[c] = struct{}{}
	propagateLogger(c.driver, Logger())
}

func unregister(c *Context) {
	liveMu.Lock()
	defer liveMu.Unlock()
	delete(live, c)
}

package rcp

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record. Enabled reports false, so handlers on
// the hot path never build their attributes.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger returns the silent default logger.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr holds the package-wide logger.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the package-wide logger. By default rcp produces no
// log output. Instances created afterwards pick it up unless WithLogger
// overrides it; existing instances keep the logger they were created with.
//
// SetLogger is safe for concurrent use. Pass nil to restore silence.
//
// Log levels used by rcp:
//   - [slog.LevelDebug]: per-list diagnostics (unknown opcodes, flush reasons, cache misses)
//   - [slog.LevelInfo]: lifecycle events (profile selected)
//   - [slog.LevelWarn]: non-fatal issues (skipped triangles, release failures)
//
// Example:
//
//	rcp.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current package-wide logger.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

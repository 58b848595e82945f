package ktx

import (
	"log/slog"
	"sync/atomic"
)

var (
	discard   = slog.New(slog.DiscardHandler)
	pkgLogger atomic.Pointer[slog.Logger]
)

func init() { pkgLogger.Store(discard) }

// SetLogger sets the logger shared by ktx and ktx/native for sessions created
// without WithLogger. Nothing is logged until it is called; nil silences the
// package again.
//
// Levels:
//   - [slog.LevelDebug]: a native call returned a failure code; each library path tried
//   - [slog.LevelInfo]: native library loaded or unloaded
//   - [slog.LevelWarn]: native library could not be loaded or unloaded
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = discard
	}
	pkgLogger.Store(l)
}

// Logger returns the logger set by SetLogger.
func Logger() *slog.Logger { return pkgLogger.Load() }

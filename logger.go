package sprite

import (
	"log/slog"
	"sync/atomic"
)

// loggerPtr holds the logger handed to new journals.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(slog.DiscardHandler))
}

// SetLogger sets the logger that sprites created afterwards pass to their
// undo journal. Journals that already exist keep their logger. A nil l
// silences logging again, which is also the default.
//
// Messages by level:
//   - [slog.LevelDebug]: group closed, undo or redo applied
//   - [slog.LevelInfo]: groups evicted over the undo limit
//   - [slog.LevelWarn]: new frame refused for lack of memory, undo step failed
//   - [slog.LevelError]: journal cleared after a failed restore
//
// Example:
//
//	sprite.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	loggerPtr.Store(l)
}

// Logger returns the logger set by SetLogger. It is safe for concurrent
// use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

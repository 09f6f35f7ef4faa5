package sprite

import (
	"golang.org/x/text/language"

	"github.com/gogpu/sprite/undo"
)

// Option configures a Sprite during creation.
//
// Example:
//
//	s, err := sprite.New(raster.ModeRGBA, 320, 240,
//	    sprite.WithUndoLimit(16<<20),
//	    sprite.WithStatusSink(func(msg string) { statusBar.Show(msg) }),
//	)
type Option func(*options)

// options holds optional configuration for Sprite creation.
type options struct {
	undoLimit   int64
	memoryLimit int64
	onChange    func(*Sprite)
	status      func(string)
	lang        language.Tag
	metrics     *undo.Metrics
}

// defaultOptions returns the default sprite options.
func defaultOptions() options {
	return options{
		undoLimit: undo.DefaultLimit,
		lang:      language.English,
	}
}

// WithUndoLimit sets the ceiling, in bytes, for undo payloads. Once
// exceeded the oldest undo groups are dropped. Zero or less disables the
// ceiling.
func WithUndoLimit(bytes int64) Option {
	return func(o *options) {
		o.undoLimit = bytes
	}
}

// WithMemoryLimit caps the bytes held by the sprite's image stock. Adding
// an image over the ceiling fails with ErrOutOfMemory. The default is no
// ceiling.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithChangeHook registers fn to run after frame operations, undo, redo and
// transactions modify the sprite. It runs on the caller's goroutine with
// the sprite still locked.
func WithChangeHook(fn func(*Sprite)) Option {
	return func(o *options) {
		o.onChange = fn
	}
}

// WithStatusSink registers fn to receive short, localized notices such as
// "New frame 2/3" or "Not enough memory".
func WithStatusSink(fn func(string)) Option {
	return func(o *options) {
		o.status = fn
	}
}

// WithLanguage selects the language of status notices.
func WithLanguage(tag language.Tag) Option {
	return func(o *options) {
		o.lang = tag
	}
}

// WithUndoMetrics reports the sprite's journal activity to m.
// Several sprites may share the same Metrics.
func WithUndoMetrics(m *undo.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

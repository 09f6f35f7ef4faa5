package undo

import "log/slog"

// Option configures a Journal during creation.
type Option func(*options)

// options holds optional configuration for Journal creation.
type options struct {
	limit   int64
	logger  *slog.Logger
	metrics *Metrics
}

// defaultOptions returns the default journal options.
func defaultOptions() options {
	return options{
		limit:  DefaultLimit,
		logger: discard,
	}
}

// WithLimit sets the ceiling for recorded payload bytes. When the journal
// grows past it the oldest undoable groups are evicted. A limit of 0 or
// less disables eviction.
func WithLimit(bytes int64) Option {
	return func(o *options) {
		o.limit = bytes
	}
}

// WithLogger sets the logger used for journal diagnostics.
// A nil logger keeps the default silent logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics attaches Prometheus collectors to the journal.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// discard is the logger of journals configured without one.
var discard = slog.New(slog.DiscardHandler)

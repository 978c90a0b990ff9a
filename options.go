package snapshot

import "log/slog"

// Option configures a Scheduler during creation.
//
// Example:
//
//	// Live context: captures the back buffer, results at end of frame.
//	s, err := snapshot.NewScheduler(dev)
//
//	// Preview context: captures a preview surface synchronously.
//	s, err := snapshot.NewScheduler(dev, snapshot.WithPreview(view))
type Option func(*schedulerOptions)

// schedulerOptions holds optional configuration for Scheduler creation.
type schedulerOptions struct {
	logger  *slog.Logger
	preview PreviewSource
	id      ContextID
}

// defaultOptions returns the default scheduler options.
func defaultOptions() schedulerOptions {
	return schedulerOptions{
		logger: nil, // Falls back to Logger() at creation
		id:     LiveContext,
	}
}

// WithLogger sets the scheduler's logger instead of the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *schedulerOptions) {
		o.logger = l
	}
}

// WithPreview makes the scheduler serve a non-live context. Captures read
// src's preview surface, are sized from its preview size and execute
// synchronously from OnFrameRenderPoint.
func WithPreview(src PreviewSource) Option {
	return func(o *schedulerOptions) {
		o.preview = src
	}
}

// WithContextID labels the scheduler's render context in logs and in a
// Registry.
func WithContextID(id ContextID) Option {
	return func(o *schedulerOptions) {
		o.id = id
	}
}

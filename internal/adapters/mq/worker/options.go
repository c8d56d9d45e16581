package worker

import (
	"bannerd/pkg/logger"
)

// Option applies a configuration option to the PublishWorker.
type Option func(*PublishWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *PublishWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(logger logger.Logger) Option {
	return func(w *PublishWorker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

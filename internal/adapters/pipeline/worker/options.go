package worker

import (
	"github.com/fluense/fluense/pkg/logger"
)

// Option configures an InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets a human-readable name for the worker.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger overrides the worker's logger.
func WithLogger(l logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithActivityGauge registers a callback invoked with +1 when the worker
// picks up a job and -1 when it finishes, so a pool can track utilization.
func WithActivityGauge(g func(delta int)) Option {
	return func(w *InMemoryWorker) {
		if g != nil {
			w.activity = g
		}
	}
}

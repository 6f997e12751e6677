package ecs

import "go.uber.org/zap"

type options struct {
	maxEntities int
	logger      *zap.Logger
	backfill    bool
}

func defaultOptions() options {
	return options{
		maxEntities: DefaultMaxEntities,
		logger:      zap.NewNop(),
		backfill:    true,
	}
}

// Option configures a Coordinator.
type Option func(*options)

// WithMaxEntities sets the capacity of the entity pool.
func WithMaxEntities(n int) Option {
	return func(o *options) {
		o.maxEntities = n
	}
}

// WithLogger sets the logger used for registrations and command execution.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithBackfill controls whether RegisterSystem evaluates entities that
// already exist against the new system. It is enabled by default. Without
// it a system only sees entities whose components change after it was
// registered.
func WithBackfill(enabled bool) Option {
	return func(o *options) {
		o.backfill = enabled
	}
}

package engine

import "time"

// Config holds configuration for the reconciliation engine.
type Config struct {
	// Workers is the number of shard workers. Each account maps to exactly
	// one worker, so this bounds cross-account parallelism.
	Workers int `mapstructure:"workers" default:"8"`
	// QueueSize is the buffer size of each shard queue. A full queue makes
	// Submit block, which backpressures the subscription manager.
	QueueSize int `mapstructure:"queue_size" default:"256"`
	// RetryAttempts is the maximum number of attempts for a store
	// operation before the event is deferred.
	RetryAttempts int `mapstructure:"retry_attempts" default:"5"`
	// RetryInitialMS is the initial retry backoff in milliseconds.
	RetryInitialMS int `mapstructure:"retry_initial_ms" default:"100"`
	// RetryMaxMS caps the retry backoff interval in milliseconds.
	RetryMaxMS int `mapstructure:"retry_max_ms" default:"2000"`
	// DedupWindow is how many recently applied event IDs are remembered
	// per account for duplicate-delivery suppression.
	DedupWindow int `mapstructure:"dedup_window" default:"512"`
	// RequeueDelayMS is how long a deferred event waits before re-entering
	// the intake queue.
	RequeueDelayMS int `mapstructure:"requeue_delay_ms" default:"5000"`
	// ShutdownTimeoutSeconds bounds how long Close waits for in-flight
	// events to drain.
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" default:"30"`
}

// withDefaults returns the config with zero or out-of-range values replaced.
func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = 8
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 256
	}
	if c.RetryAttempts <= 0 {
		c.RetryAttempts = 5
	}
	if c.RetryInitialMS <= 0 {
		c.RetryInitialMS = 100
	}
	if c.RetryMaxMS <= 0 {
		c.RetryMaxMS = 2000
	}
	if c.DedupWindow <= 0 {
		c.DedupWindow = 512
	}
	if c.RequeueDelayMS <= 0 {
		c.RequeueDelayMS = 5000
	}
	if c.ShutdownTimeoutSeconds <= 0 {
		c.ShutdownTimeoutSeconds = 30
	}
	return c
}

// ShutdownTimeout returns the drain timeout as a duration.
func (c Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

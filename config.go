package jobcache

import (
	"log/slog"
	"math"

	"github.com/krisalay/jobcache/engine"
	"github.com/krisalay/jobcache/eviction"
	"github.com/krisalay/jobcache/queue"
	"github.com/krisalay/jobcache/report"
)

// Config controls throttling, capacity and behavior.
//
// Zero values are safe:
//   - RequestsPerSecond <= 0 means unthrottled (jobs are dispatched back to back)
//   - MaxCacheSize <= 0 means unbounded (no eviction)
//   - empty Eviction means LRU
//   - zero QueueOrder means LIFO (the most recently added job runs first)
//   - MaxConcurrency <= 0 means no cap on running actions
//   - nil Engine means per-entry cooldowns, slog failure logging and no metrics
type Config struct {
	RequestsPerSecond float64
	MaxCacheSize      int

	Eviction   eviction.PolicyType
	QueueOrder queue.Order

	// MaxConcurrency caps how many actions run at once. When the cap is reached
	// the drain loop waits for a slot before dispatching the next job.
	MaxConcurrency int

	// RegistryShards is the number of running-job registry shards.
	RegistryShards int

	// Engine is copied by New. Its Reporter is closed by Close, so a Reporter
	// should not be shared between caches.
	Engine *engine.CacheEngine

	// Logger receives action failures when Engine has no Reporter.
	Logger *slog.Logger
}

func (cfg Config) normalized() Config {
	if math.IsNaN(cfg.RequestsPerSecond) || math.IsInf(cfg.RequestsPerSecond, 0) || cfg.RequestsPerSecond < 0 {
		cfg.RequestsPerSecond = 0
	}
	if cfg.MaxCacheSize < 0 {
		cfg.MaxCacheSize = 0
	}
	if cfg.MaxConcurrency < 0 {
		cfg.MaxConcurrency = 0
	}
	// Defaults go into a copy; the caller's engine is left as given.
	e := engine.CacheEngine{}
	if cfg.Engine != nil {
		e = *cfg.Engine
	}
	cfg.Engine = &e
	if cfg.Engine.Reporter == nil && cfg.Logger != nil {
		cfg.Engine.Reporter = report.NewLogReporter(cfg.Logger)
	}
	cfg.Engine = engine.Default(cfg.Engine)
	return cfg
}

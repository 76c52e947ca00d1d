package engine

import (
	"context"
	"time"

	"github.com/krisalay/jobcache/expiration"
	"github.com/krisalay/jobcache/refresh"
	"github.com/krisalay/jobcache/report"
	"github.com/krisalay/jobcache/types"
)

/*
CacheEngine is the "brain" of the job cache.
It is responsible for the "behavior" of the cache, NOT storage or scheduling.
This acts as the policy layer.

It decides:
- When a result is stale
- What happens when a read finds a stale result
- Where action failures are reported
- How metrics are recorded
- What "now" is

It does NOT:
- Store results
- Queue or dispatch jobs
- Decide eviction order
*/
type CacheEngine struct {

	// Expiration decides when a result is too old for Get.
	// If nil, per-entry cooldowns apply (expiration.Cooldown{}).
	Expiration expiration.Strategy

	// Refresh is an optional hook that runs when Get finds a stale result.
	Refresh refresh.Hook

	// Reporter receives action failures. If nil, failures are logged with slog.Default().
	Reporter report.Reporter

	// Metrics is how we keep track of what the cache is doing.
	Metrics types.Metrics

	// Clock returns the current time. Tests can pin it.
	Clock func() time.Time
}

/*
NewCacheEngine creates a CacheEngine.
Any nil argument gets its default, so the engine never needs nil checks.
*/
func NewCacheEngine(
	exp expiration.Strategy,
	refresh refresh.Hook,
	reporter report.Reporter,
	metrics types.Metrics,
) *CacheEngine {
	e := &CacheEngine{
		Expiration: exp,
		Refresh:    refresh,
		Reporter:   reporter,
		Metrics:    metrics,
	}
	e.fill()
	return e
}

// fill applies defaults to a zero or partially set engine.
func (e *CacheEngine) fill() {
	if e.Expiration == nil {
		e.Expiration = expiration.Cooldown{}
	}
	if e.Reporter == nil {
		e.Reporter = report.NewLogReporter(nil)
	}
	if e.Metrics == nil {
		e.Metrics = types.NoopMetrics{}
	}
	if e.Clock == nil {
		e.Clock = time.Now
	}
}

// Default returns e with defaults applied, or a fresh default engine if e is nil.
func Default(e *CacheEngine) *CacheEngine {
	if e == nil {
		return NewCacheEngine(nil, nil, nil, nil)
	}
	e.fill()
	return e
}

func (e *CacheEngine) Now() time.Time {
	return e.Clock()
}

/*
OnStale is called when Get found a stale entry.
The refresh hook is optional and best-effort.
*/
func (e *CacheEngine) OnStale(key string, m types.Meta) {
	e.Metrics.Stale()
	if e.Refresh != nil {
		e.Refresh.OnStale(key, m)
	}
}

// OnFailure records a failed run and hands the error to the reporter.
func (e *CacheEngine) OnFailure(ctx context.Context, key string, err error) {
	e.Metrics.Failure()
	e.Reporter.Report(ctx, key, err)
}

// Close flushes the reporter.
func (e *CacheEngine) Close() {
	e.Reporter.Close()
}

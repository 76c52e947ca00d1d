package types

// This file defines how the job cache reports what it is doing.

/*
Metrics is an interface that defines what the job cache wants to measure.
Each method represents an event in the lifecycle of a job or a cached result.
*/
type Metrics interface {

	// Hit is called when Get returns a fresh result.
	Hit()

	// Miss is called when Get finds nothing for the key.
	Miss()

	// Stale is called when Get finds a result whose cooldown has elapsed.
	// The entry stays resident; it is only reported absent.
	Stale()

	// Eviction is called when a result is removed to make room for a new key.
	Eviction()

	// Dispatch is called when the drain loop hands a job to execution.
	Dispatch()

	// Failure is called when an action returns an error or panics.
	Failure()
}

/*
NoopMetrics is a "do nothing" implementation of Metrics.

Callers that do not care about metrics still get a working cache without
nil checks on every event.
*/
type NoopMetrics struct{}

func (NoopMetrics) Hit()      {}
func (NoopMetrics) Miss()     {}
func (NoopMetrics) Stale()    {}
func (NoopMetrics) Eviction() {}
func (NoopMetrics) Dispatch() {}
func (NoopMetrics) Failure()  {}

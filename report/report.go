package report

import "context"

/*
This file defines where action failures go.

A failed action never reaches the caller of Add. The cache hands the error to a
Reporter and moves on, so reporting is observational only. Different setups
want different sinks:
- log immediately (LogReporter)
- log off the hot path (AsyncReporter)
- forward to an error tracker (custom)
*/

// Reporter is the contract all failure sinks follow.
type Reporter interface {

	// Report is called once per failed run. It must not block for long:
	// it runs on the goroutine that executed the action.
	Report(ctx context.Context, key string, err error)

	// Close is called when the cache shuts down.
	Close()
}

// Func adapts a plain function to Reporter.
type Func func(ctx context.Context, key string, err error)

func (f Func) Report(ctx context.Context, key string, err error) { f(ctx, key, err) }
func (Func) Close()                                                {}

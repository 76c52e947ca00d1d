package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/krisalay/jobcache/refresh"
	"github.com/krisalay/jobcache/report"
	"github.com/krisalay/jobcache/types"
)

type counting struct {
	types.NoopMetrics
	stale, failures int
}

func (c *counting) Stale()   { c.stale++ }
func (c *counting) Failure() { c.failures++ }

func TestDefault(t *testing.T) {
	e := Default(nil)
	if e.Expiration == nil || e.Reporter == nil || e.Metrics == nil || e.Clock == nil {
		t.Fatalf("expected every default to be set: %+v", e)
	}

	pinned := time.Unix(42, 0)
	e = Default(&CacheEngine{Clock: func() time.Time { return pinned }})
	if !e.Now().Equal(pinned) {
		t.Fatalf("expected pinned clock to be kept")
	}
}

func TestOnStale_CallsHook(t *testing.T) {
	metrics := &counting{}
	var got string
	e := NewCacheEngine(nil, refresh.HookFunc(func(key string, _ types.Meta) { got = key }), nil, metrics)

	e.OnStale("foo", types.Meta{Key: "foo"})

	if got != "foo" || metrics.stale != 1 {
		t.Fatalf("expected hook and metric, got %q stale=%d", got, metrics.stale)
	}
}

func TestOnFailure_Reports(t *testing.T) {
	metrics := &counting{}
	var gotErr error
	e := NewCacheEngine(nil, nil, report.Func(func(_ context.Context, _ string, err error) { gotErr = err }), metrics)

	boom := errors.New("boom")
	e.OnFailure(context.Background(), "k", boom)
	e.Close()

	if !errors.Is(gotErr, boom) || metrics.failures != 1 {
		t.Fatalf("expected failure to be reported, got %v failures=%d", gotErr, metrics.failures)
	}
}

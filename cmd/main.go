package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	jobcache "github.com/krisalay/jobcache"
	"github.com/krisalay/jobcache/engine"
	"github.com/krisalay/jobcache/eviction"
	"github.com/krisalay/jobcache/refresh"
	"github.com/krisalay/jobcache/report"
	"github.com/krisalay/jobcache/types"
)

// ================= METRICS =================
type Metrics struct {
	mu         sync.Mutex
	hits       int
	misses     int
	stale      int
	evictions  int
	dispatches int
	failures   int
}

func (m *Metrics) Hit()      { m.mu.Lock(); m.hits++; m.mu.Unlock() }
func (m *Metrics) Miss()     { m.mu.Lock(); m.misses++; m.mu.Unlock() }
func (m *Metrics) Stale()    { m.mu.Lock(); m.stale++; m.mu.Unlock() }
func (m *Metrics) Eviction() { m.mu.Lock(); m.evictions++; m.mu.Unlock() }
func (m *Metrics) Dispatch() { m.mu.Lock(); m.dispatches++; m.mu.Unlock() }
func (m *Metrics) Failure()  { m.mu.Lock(); m.failures++; m.mu.Unlock() }

func (m *Metrics) Print() {
	m.mu.Lock()
	defer m.mu.Unlock()
	fmt.Println("\n==================== METRICS ====================")
	fmt.Printf("HITS       : %d\n", m.hits)
	fmt.Printf("MISSES     : %d\n", m.misses)
	fmt.Printf("STALE      : %d\n", m.stale)
	fmt.Printf("EVICTIONS  : %d\n", m.evictions)
	fmt.Printf("DISPATCHES : %d\n", m.dispatches)
	fmt.Printf("FAILURES   : %d\n", m.failures)
}

// ================= JOBS =================

// fetch pretends to call a slow backend.
func fetch(key string, delay time.Duration, runs *atomic.Int32) types.Action[string] {
	return func(ctx context.Context) (string, error) {
		runs.Add(1)
		select {
		case <-time.After(delay):
			return "result-" + key, nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// settle waits until nothing is queued or running.
func settle(c *jobcache.Cache[string]) {
	for c.Pending() > 0 || c.Running() > 0 {
		time.Sleep(5 * time.Millisecond)
	}
}

// ================= MAIN =================

func main() {
	rps := flag.Float64("rps", 20, "jobs dispatched per second (0 = unthrottled)")
	size := flag.Int("size", 8, "maximum number of cached results (0 = unbounded)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx := context.Background()

	fmt.Println("\n==================== SYSTEM BOOT ====================")

	// ---------------- System Config ----------------
	fmt.Println("REQUESTS/SEC    :", *rps)
	fmt.Println("CAPACITY        :", *size, "results")
	fmt.Println("EVICTION POLICY : LRU")
	fmt.Println("QUEUE ORDER     : LIFO")
	fmt.Println("FAILURES        : async -> slog")

	// ---------------- Metrics ----------------
	metrics := &Metrics{}

	// ---------------- Cache Engine ----------------
	reporter := report.NewAsyncReporter(report.NewLogReporter(logger), 64)
	hook := refresh.HookFunc(func(key string, meta types.Meta) {
		logger.Debug("stale result", "key", key, "last_run", meta.LastRunAt)
	})

	eng := engine.NewCacheEngine(nil, hook, reporter, metrics)

	c := jobcache.New[string](jobcache.Config{
		RequestsPerSecond: *rps,
		MaxCacheSize:      *size,
		Eviction:          eviction.LRU,
		Engine:            eng,
	})

	var runs atomic.Int32

	// ====================================================
	fmt.Println("\n==================== 1) DEDUP ====================")
	for i := 0; i < 5; i++ {
		c.Add(types.Job[string]{Key: "a", Action: fetch("a", 100*time.Millisecond, &runs)})
	}
	settle(c)
	v, ok := c.Get("a")
	fmt.Printf("CACHE  → 5 adds of a, %d run(s); GET a = %q %v\n", runs.Load(), v, ok)

	// ====================================================
	fmt.Println("\n==================== 2) COOLDOWN ====================")
	c.Add(types.Job[string]{Key: "b", Action: fetch("b", 0, &runs), Cooldown: 300 * time.Millisecond})
	settle(c)
	v, ok = c.Get("b")
	fmt.Printf("CACHE  → GET b = %q %v\n", v, ok)

	time.Sleep(400 * time.Millisecond)
	_, ok = c.Get("b")
	fmt.Println("CACHE  → GET b after cooldown, fresh =", ok)

	// ====================================================
	fmt.Println("\n==================== 3) FAILURE RECOVERY ====================")
	c.Add(types.Job[string]{Key: "c", Action: func(context.Context) (string, error) {
		return "", errors.New("backend unavailable")
	}})
	settle(c)
	_, ok = c.Get("c")
	fmt.Println("CACHE  → GET c after failure, found =", ok)

	c.Add(types.Job[string]{Key: "c", Action: fetch("c", 0, &runs)})
	settle(c)
	v, _ = c.Get("c")
	fmt.Printf("CACHE  → retry c, GET c = %q\n", v)

	// ====================================================
	fmt.Println("\n==================== 4) GETWAIT ====================")
	c.Add(types.Job[string]{Key: "d", Action: fetch("d", 200*time.Millisecond, &runs)})
	for c.Running() == 0 {
		time.Sleep(time.Millisecond)
	}
	if f, ok := c.GetWait("d"); ok {
		v, err := f.Wait(ctx)
		fmt.Printf("CACHE  → waited for d = %q err=%v\n", v, err)
	}

	// ====================================================
	fmt.Println("\n==================== 5) RATE LIMIT ====================")
	start := time.Now()
	for i := 0; i < 10; i++ {
		key := fmt.Sprintf("k%d", i)
		c.Add(types.Job[string]{Key: key, Action: fetch(key, 0, &runs)})
	}
	settle(c)
	fmt.Printf("CACHE  → 10 jobs drained in %v\n", time.Since(start).Round(time.Millisecond))

	// ====================================================
	fmt.Println("\n==================== 6) EVICTION ====================")
	fmt.Println("CACHE  → resident results:", c.Len())
	_, ok = c.Get("a")
	fmt.Println("CACHE  → GET a after eviction, found =", ok)

	// ====================================================
	fmt.Println("\n==================== 7) LOAD ====================")
	v, err := c.Load(ctx, types.Job[string]{Key: "e", Action: fetch("e", 50*time.Millisecond, &runs)})
	fmt.Printf("CACHE  → LOAD e = %q err=%v\n", v, err)

	// ====================================================
	metrics.Print()

	// ====================================================
	fmt.Println("\n==================== SHUTDOWN ====================")
	c.Close()
	fmt.Println("SYSTEM → cache closed cleanly, dropped reports:", reporter.Dropped())
}

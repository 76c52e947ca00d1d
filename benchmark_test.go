package jobcache_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	jobcache "github.com/krisalay/jobcache"
	"github.com/krisalay/jobcache/engine"
	"github.com/krisalay/jobcache/report"
	"github.com/krisalay/jobcache/types"
)

func newBenchmarkCache(b *testing.B, size int) *jobcache.Cache[int] {
	c := jobcache.New[int](jobcache.Config{
		MaxCacheSize: size,
		Engine: &engine.CacheEngine{
			Reporter: report.Func(func(context.Context, string, error) {}),
		},
	})
	b.Cleanup(func() { c.Close() })
	return c
}

// populate adds n jobs and waits until they are drained.
func populate(b *testing.B, c *jobcache.Cache[int], n int) {
	for i := 0; i < n; i++ {
		i := i
		c.Add(types.Job[int]{Key: fmt.Sprintf("key-%d", i), Action: func(context.Context) (int, error) { return i, nil }})
	}
	for c.Pending() > 0 || c.Running() > 0 {
		time.Sleep(time.Millisecond)
	}
}

//
// ================= SINGLE THREAD BENCH =================
//

func BenchmarkCacheGetHit(b *testing.B) {
	c := newBenchmarkCache(b, 0)
	populate(b, c, 1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get("key-0")
	}
}

func BenchmarkCacheGetMiss(b *testing.B) {
	c := newBenchmarkCache(b, 0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get("missing")
	}
}

//
// ================= PARALLEL BENCH =================
//

func BenchmarkCacheParallelGet(b *testing.B) {
	c := newBenchmarkCache(b, 0)
	populate(b, c, 1000)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			c.Get("key-42")
		}
	})
}

//
// ================= ADD BENCH =================
//

// BenchmarkCacheAddDedup measures the dedup gate: every Add after the first is a no-op.
func BenchmarkCacheAddDedup(b *testing.B) {
	c := newBenchmarkCache(b, 0)
	block := make(chan struct{})
	b.Cleanup(func() { close(block) })

	job := types.Job[int]{Key: "hot", Action: func(context.Context) (int, error) {
		<-block
		return 1, nil
	}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Add(job)
	}
}

func BenchmarkCacheAddEvicting(b *testing.B) {
	c := newBenchmarkCache(b, 1024)

	b.ResetTimer()
	populate(b, c, b.N)
}

//
// ================= HIGH CONCURRENCY TEST =================
//

func BenchmarkCacheHighConcurrency(b *testing.B) {
	c := newBenchmarkCache(b, 0)
	populate(b, c, 10000)

	b.ResetTimer()

	wg := sync.WaitGroup{}
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < b.N/100; j++ {
				c.Get(fmt.Sprintf("key-%d", j%10000))
			}
		}()
	}
	wg.Wait()
}

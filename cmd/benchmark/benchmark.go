package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	jobcache "github.com/krisalay/jobcache"
	"github.com/krisalay/jobcache/eviction"
	"github.com/krisalay/jobcache/types"
)

// ================= BENCHMARK =================

func main() {
	capacity := flag.Int("capacity", 200000, "maximum number of cached results")
	preloadKeys := flag.Int("preload", 100000, "number of jobs run before the load test")
	goroutines := flag.Int("goroutines", 200, "concurrent readers")
	opsPerG := flag.Int("ops", 5000, "operations per goroutine")
	addRatio := flag.Int("add-every", 10, "every n-th operation is an Add (0 = reads only)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	fmt.Println("\n================ JOB CACHE BENCHMARK =================")

	// ---------------- Cache Config ----------------
	fmt.Println("CONFIG")
	fmt.Println("---------------------------------")
	fmt.Println("Capacity     :", *capacity)
	fmt.Println("Preload Keys :", *preloadKeys)
	fmt.Println("Goroutines   :", *goroutines)
	fmt.Println("Ops/Goroutine:", *opsPerG)
	fmt.Println("Add Every    :", *addRatio)
	fmt.Println("---------------------------------")

	c := jobcache.New[int](jobcache.Config{
		MaxCacheSize: *capacity,
		Eviction:     eviction.LRU,
		Logger:       logger,
	})

	job := func(i int) types.Job[int] {
		return types.Job[int]{
			Key:    fmt.Sprintf("key-%d", i),
			Action: func(context.Context) (int, error) { return i, nil },
		}
	}

	// ---------------- Preload Cache ----------------
	fmt.Println("Preloading cache...")
	start := time.Now()
	for i := 0; i < *preloadKeys; i++ {
		c.Add(job(i))
	}
	for c.Pending() > 0 || c.Running() > 0 {
		time.Sleep(time.Millisecond)
	}
	fmt.Printf("Preload complete: %d results in %v\n", c.Len(), time.Since(start))

	// ---------------- Warmup ----------------
	fmt.Println("Warming up cache...")
	for i := 0; i < 10000; i++ {
		c.Get(fmt.Sprintf("key-%d", i%*preloadKeys))
	}
	fmt.Println("Warmup complete.")

	// ---------------- Load Test ----------------
	fmt.Println("Running concurrency benchmark...")

	var (
		mu     sync.Mutex
		hits   int
		misses int
	)

	start = time.Now()

	wg := sync.WaitGroup{}
	wg.Add(*goroutines)

	for g := 0; g < *goroutines; g++ {
		go func(id int) {
			defer wg.Done()
			h, m := 0, 0
			for j := 0; j < *opsPerG; j++ {
				n := (id*(*opsPerG) + j) % *preloadKeys
				if *addRatio > 0 && j%*addRatio == 0 {
					c.Add(job(n))
					continue
				}
				if _, ok := c.Get(fmt.Sprintf("key-%d", n)); ok {
					h++
				} else {
					m++
				}
			}
			mu.Lock()
			hits += h
			misses += m
			mu.Unlock()
		}(g)
	}

	wg.Wait()

	duration := time.Since(start)
	totalOps := *goroutines * *opsPerG

	fmt.Println("\n================ RESULTS =================")
	fmt.Printf("Total Operations : %d\n", totalOps)
	fmt.Printf("Total Time       : %v\n", duration)
	fmt.Printf("Throughput       : %.2f ops/sec\n", float64(totalOps)/duration.Seconds())
	fmt.Printf("Hits / Misses    : %d / %d\n", hits, misses)
	fmt.Println("=========================================")

	if err := c.Close(); err != nil {
		logger.Error("close failed", "err", err)
	}
}

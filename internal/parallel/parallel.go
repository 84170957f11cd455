// Package parallel provides chunked parallel execution for numeric kernels.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls chunked execution.
type Config struct {
	Enabled      bool // Whether chunks may run on worker goroutines.
	NumWorkers   int  // Upper bound on concurrent chunks.
	MinChunkSize int  // Smallest range worth a goroutine.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 4096,
	}
}

// For splits [0, n) into contiguous chunks and calls f once per chunk,
// concurrently when the range is large enough. f receives a half-open
// [start, end) range and may allocate per-chunk scratch. Chunks never
// overlap, so f needs no locking for writes indexed by its range.
func For(n int, cfg Config, f func(start, end int)) {
	if n <= 0 {
		return
	}
	if !cfg.Enabled || n < cfg.MinChunkSize || cfg.NumWorkers < 2 {
		f(0, n)
		return
	}

	chunk := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize)
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			f(s, e)
		}(start, end)
	}
	wg.Wait()
}

package accum

import (
	"runtime"
	"sync"
)

// ============================================================================
// Parallel Execution Configuration
// ============================================================================

// ParallelConfig controls when the scatter kernels run in parallel
type ParallelConfig struct {
	// MinRowsForParallel is the minimum elements to justify parallel overhead
	MinRowsForParallel int

	// MaxWorkers limits the number of worker goroutines (0 = GOMAXPROCS)
	MaxWorkers int

	// Enabled controls whether parallelism is used at all
	Enabled bool
}

// DefaultParallelConfig returns sensible defaults
func DefaultParallelConfig() *ParallelConfig {
	return &ParallelConfig{
		MinRowsForParallel: 65536, // per-worker partial outputs must pay off
		MaxWorkers:         0,     // Use all CPUs
		Enabled:            true,
	}
}

// globalConfig is the default configuration
var globalConfig = DefaultParallelConfig()

// SetParallelConfig sets the global parallelization configuration
func SetParallelConfig(cfg *ParallelConfig) {
	if cfg != nil {
		globalConfig = cfg
	}
}

// GetParallelConfig returns the current configuration
func GetParallelConfig() *ParallelConfig {
	return globalConfig
}

// numWorkers returns the number of workers to use
func (cfg *ParallelConfig) numWorkers() int {
	if cfg.MaxWorkers > 0 {
		return cfg.MaxWorkers
	}
	return runtime.GOMAXPROCS(0)
}

// shouldParallelize determines if an operation should be parallelized
func (cfg *ParallelConfig) shouldParallelize(rows int) bool {
	return cfg.Enabled && rows >= cfg.MinRowsForParallel
}

// ============================================================================
// Parallel Scatter
// ============================================================================

// parallelScatter runs a scatter kernel over the input, splitting the
// elements into one contiguous chunk per worker when the input is large
// enough. Each worker accumulates into its own output and touched slice;
// the partials are merged with the reduction's combine operator, which must
// be associative and commutative. Reductions without such an operator
// (first, last, and the grouping kinds) never come through here.
func parallelScatter[T number](idx []int64, vals []T, n int, scatter scatterFunc[T], combine combineFunc[T]) ([]T, []bool) {
	cfg := globalConfig
	if !cfg.shouldParallelize(len(idx)) {
		out := make([]T, n)
		touched := make([]bool, n)
		scatter(idx, vals, out, touched)
		return out, touched
	}

	workers := cfg.numWorkers()
	if workers > len(idx) {
		workers = len(idx)
	}
	chunk := (len(idx) + workers - 1) / workers

	outs := make([][]T, workers)
	touches := make([][]bool, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > len(idx) {
			end = len(idx)
		}
		if start >= end {
			break
		}
		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			out := make([]T, n)
			touched := make([]bool, n)
			scatter(idx[start:end], vals[start:end], out, touched)
			outs[w] = out
			touches[w] = touched
		}(w, start, end)
	}
	wg.Wait()

	out := outs[0]
	touched := touches[0]
	for w := 1; w < workers; w++ {
		if touches[w] == nil {
			continue
		}
		for j, t := range touches[w] {
			if !t {
				continue
			}
			if touched[j] {
				out[j] = combine(out[j], outs[w][j])
			} else {
				out[j] = outs[w][j]
				touched[j] = true
			}
		}
	}
	return out, touched
}

// ParallelFor executes fn over [0, total) in per-worker contiguous ranges.
// Falls back to a single sequential call below the parallel threshold.
func ParallelFor(total int, fn func(start, end int)) {
	cfg := globalConfig
	if !cfg.shouldParallelize(total) {
		fn(0, total)
		return
	}

	workers := cfg.numWorkers()
	if workers > total {
		workers = total
	}
	chunk := (total + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > total {
			end = total
		}
		if start >= end {
			break
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			fn(start, end)
		}(start, end)
	}
	wg.Wait()
}

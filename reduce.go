package accum

import "math"

// The scatter kernels accumulate each element into its group slot in one
// linear pass, tracking which slots were touched so untouched groups can be
// filled afterwards. A kernel may run over a sub-range of the input (the
// parallel engine merges per-chunk partials), so none of them may assume it
// sees every element of a group.

// number covers the two working element types of the arithmetic kernels.
// Bool inputs are promoted to int64 before reaching a kernel.
type number interface {
	~int64 | ~float64
}

// scatterFunc accumulates vals into out slot-by-slot, marking touched slots.
type scatterFunc[T number] func(idx []int64, vals []T, out []T, touched []bool)

func sumScatter[T number](idx []int64, vals []T, out []T, touched []bool) {
	for i, g := range idx {
		out[g] += vals[i]
		touched[g] = true
	}
}

func prodScatter[T number](idx []int64, vals []T, out []T, touched []bool) {
	for i, g := range idx {
		if !touched[g] {
			out[g] = vals[i]
			touched[g] = true
		} else {
			out[g] *= vals[i]
		}
	}
}

// minScatter seeds each slot with its first value, so no sentinel wider than
// the element type is ever needed. A NaN element poisons its slot: the
// self-inequality test writes it through and a poisoned slot never loses a
// comparison, so the result is independent of element order and chunking.
// For integer T the extra test is always false.
func minScatter[T number](idx []int64, vals []T, out []T, touched []bool) {
	for i, g := range idx {
		v := vals[i]
		if !touched[g] {
			out[g] = v
			touched[g] = true
		} else if v < out[g] || v != v {
			out[g] = v
		}
	}
}

func maxScatter[T number](idx []int64, vals []T, out []T, touched []bool) {
	for i, g := range idx {
		v := vals[i]
		if !touched[g] {
			out[g] = v
			touched[g] = true
		} else if v > out[g] || v != v {
			out[g] = v
		}
	}
}

// combineFunc merges two partial accumulations of the same slot.
type combineFunc[T number] func(a, b T) T

func combineSum[T number](a, b T) T { return a + b }

func combineProd[T number](a, b T) T { return a * b }

// combineMin and combineMax keep a NaN partial sticky through the merge.
func combineMin[T number](a, b T) T {
	if b < a || b != b {
		return b
	}
	return a
}

func combineMax[T number](a, b T) T {
	if b > a || b != b {
		return b
	}
	return a
}

// fillUntouched writes fill into every slot no element landed in.
func fillUntouched[T any](out []T, touched []bool, fill T) {
	for j, t := range touched {
		if !t {
			out[j] = fill
		}
	}
}

// ============================================================================
// Boolean Kernels
// ============================================================================

// reduceAll computes the per-group logical AND of the truth values. Slots
// are reset to the reduction identity (true) on first touch, then cleared by
// any false element.
func reduceAll(idx []int64, truth []bool, n int, fill bool) []bool {
	out := make([]bool, n)
	touched := make([]bool, n)
	for i, g := range idx {
		if !touched[g] {
			out[g] = true
			touched[g] = true
		}
		if !truth[i] {
			out[g] = false
		}
	}
	fillUntouched(out, touched, fill)
	return out
}

// reduceAny computes the per-group logical OR of the truth values.
func reduceAny(idx []int64, truth []bool, n int, fill bool) []bool {
	out := make([]bool, n)
	touched := make([]bool, n)
	for i, g := range idx {
		if !touched[g] {
			out[g] = false
			touched[g] = true
		}
		if truth[i] {
			out[g] = true
		}
	}
	fillUntouched(out, touched, fill)
	return out
}

// ============================================================================
// Positional Kernels
// ============================================================================

// reduceLast scans forward; later writes to the same slot overwrite earlier
// ones, leaving the last-seen value per group. The scan order is load
// bearing, so this kernel never runs in parallel.
func reduceLast[T number](idx []int64, vals []T, n int, fill T) []T {
	out := make([]T, n)
	for j := range out {
		out[j] = fill
	}
	for i, g := range idx {
		out[g] = vals[i]
	}
	return out
}

// reduceFirst is reduceLast scanning in reverse.
func reduceFirst[T number](idx []int64, vals []T, n int, fill T) []T {
	out := make([]T, n)
	for j := range out {
		out[j] = fill
	}
	for i := len(idx) - 1; i >= 0; i-- {
		out[idx[i]] = vals[i]
	}
	return out
}

// ============================================================================
// Division-Based Kernels
// ============================================================================

// reduceMean computes sum/count per group. Empty groups are filled
// explicitly, never left to 0/0.
func reduceMean(idx []int64, vals []float64, n int, fill float64) []float64 {
	sums := make([]float64, n)
	counts := make([]int64, n)
	for i, g := range idx {
		sums[g] += vals[i]
		counts[g]++
	}
	out := make([]float64, n)
	for j := range out {
		if counts[j] == 0 {
			out[j] = fill
		} else {
			out[j] = sums[j] / float64(counts[j])
		}
	}
	return out
}

// reduceVar computes the per-group variance in two passes: first the group
// means, then the accumulated squared deviations. ddof is subtracted from
// the divisor; groups with ddof or fewer elements take the fill instead of
// dividing by a non-positive count. With sqrt set the result is the
// standard deviation.
func reduceVar(idx []int64, vals []float64, n int, fill float64, ddof int, sqrt bool) []float64 {
	sums := make([]float64, n)
	counts := make([]int64, n)
	for i, g := range idx {
		sums[g] += vals[i]
		counts[g]++
	}
	means := make([]float64, n)
	for j := range means {
		if counts[j] > 0 {
			means[j] = sums[j] / float64(counts[j])
		}
	}
	devs := make([]float64, n)
	for i, g := range idx {
		d := vals[i] - means[g]
		devs[g] += d * d
	}
	out := make([]float64, n)
	for j := range out {
		if counts[j] == 0 || counts[j]-int64(ddof) <= 0 {
			out[j] = fill
			continue
		}
		v := devs[j] / float64(counts[j]-int64(ddof))
		if sqrt {
			v = math.Sqrt(v)
		}
		out[j] = v
	}
	return out
}

// bincount counts the elements per group.
func bincount(idx []int64, n int) []int64 {
	counts := make([]int64, n)
	for _, g := range idx {
		counts[g]++
	}
	return counts
}

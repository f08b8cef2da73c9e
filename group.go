package accum

import (
	"fmt"
	"sort"
)

// The grouping reductions partition the values into one variable-length
// sub-sequence per group. "array" keeps the original relative order inside
// each group (a stable partition keyed on group id only); "sort" and "rsort"
// additionally order each group by value, via a composite group-then-value
// sort key.

type groupOrder uint8

const (
	keepOrder groupOrder = iota // stable partition, input order preserved
	ascending
	descending
)

// partitionGroups splits values into per-group Arrays. Empty groups get an
// empty Array when fill is Empty, or a single-element Array holding the fill
// scalar.
func partitionGroups(idx []int64, values *Array, n int, fill fillValue, order groupOrder) ([]*Array, error) {
	if order != keepOrder && values.DType() == Bool {
		return nil, fmt.Errorf("%w: cannot sort Bool values within groups", ErrUnsupportedType)
	}

	perm := sortedPerm(idx, values, order)

	// After the permutation the group ids are contiguous runs.
	sortedIdx := make([]int64, len(idx))
	for i, p := range perm {
		sortedIdx[i] = idx[p]
	}
	steps := StepIndices(sortedIdx)

	groups := make([]*Array, n)
	for r := 0; r+1 < len(steps); r++ {
		lo, hi := steps[r], steps[r+1]
		groups[sortedIdx[lo]] = values.take(perm[lo:hi])
	}

	for j, g := range groups {
		if g != nil {
			continue
		}
		if fill.empty || fill.defaulted {
			groups[j] = emptyArray(values.DType())
		} else {
			groups[j] = fillArray(values.DType(), fill)
		}
	}
	return groups, nil
}

// sortedPerm returns the element permutation that partitions idx into
// contiguous group runs. The sort is stable so that keepOrder preserves the
// input order within each group and ties under ascending/descending stay
// deterministic.
func sortedPerm(idx []int64, values *Array, order groupOrder) []int {
	perm := make([]int, len(idx))
	for i := range perm {
		perm[i] = i
	}
	switch order {
	case keepOrder:
		sort.SliceStable(perm, func(i, j int) bool {
			return idx[perm[i]] < idx[perm[j]]
		})
	case ascending:
		vals := values.asFloat64()
		sort.SliceStable(perm, func(i, j int) bool {
			gi, gj := idx[perm[i]], idx[perm[j]]
			if gi != gj {
				return gi < gj
			}
			return vals[perm[i]] < vals[perm[j]]
		})
	case descending:
		vals := values.asFloat64()
		sort.SliceStable(perm, func(i, j int) bool {
			gi, gj := idx[perm[i]], idx[perm[j]]
			if gi != gj {
				return gi < gj
			}
			return vals[perm[i]] > vals[perm[j]]
		})
	}
	return perm
}

func emptyArray(dtype DType) *Array {
	switch dtype {
	case Int64:
		return NewInt64Array(nil)
	case Bool:
		return NewBoolArray(nil)
	default:
		return NewFloat64Array(nil)
	}
}

// fillArray boxes a scalar fill into a one-element Array of the group dtype
// (promoted to Float64 when the fill itself is floating).
func fillArray(dtype DType, fill fillValue) *Array {
	switch promote(dtype, fill.dtype) {
	case Bool:
		return NewBoolArray([]bool{fill.b})
	case Int64:
		return NewInt64Array([]int64{fill.i})
	default:
		return NewFloat64Array([]float64{fill.f})
	}
}

// applyCallable partitions the values as "array" does and applies fn to each
// non-empty group. Empty groups get the fill scalar without invoking fn.
func applyCallable(idx []int64, values *Array, n int, fill fillValue, fn Callable) ([]float64, error) {
	if err := fill.requireScalar(); err != nil {
		return nil, err
	}
	groups, err := partitionGroups(idx, values, n, fillValue{empty: true}, keepOrder)
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for j, g := range groups {
		if g.Len() == 0 {
			out[j] = fill.f
			continue
		}
		out[j] = fn(g.asFloat64())
	}
	return out, nil
}

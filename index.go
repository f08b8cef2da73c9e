package accum

import "fmt"

// Order controls how multi-key group coordinates combine into a flat index,
// and how a multi-key result reshapes back.
type Order uint8

const (
	// RowMajor strides like a C array: the last key dimension varies fastest.
	RowMajor Order = iota
	// ColMajor strides like a Fortran array: the first key dimension varies
	// fastest.
	ColMajor
)

// String returns "C" or "F", the conventional order names
func (o Order) String() string {
	if o == ColMajor {
		return "F"
	}
	return "C"
}

// checkIndex validates a flat group index and resolves the output size.
// size <= 0 means infer max(index)+1.
func checkIndex(groupIdx []int64, size int) (int, error) {
	var maxIdx int64 = -1
	for i, g := range groupIdx {
		if g < 0 {
			return 0, fmt.Errorf("%w: got %d at position %d", ErrInvalidIndex, g, i)
		}
		if g > maxIdx {
			maxIdx = g
		}
	}
	if size <= 0 {
		return int(maxIdx + 1), nil
	}
	if maxIdx >= int64(size) {
		return 0, fmt.Errorf("%w: index %d too large for size %d", ErrOutOfBounds, maxIdx, size)
	}
	return size, nil
}

// inferSizes computes max+1 per key dimension.
func inferSizes(keys [][]int64) []int {
	sizes := make([]int, len(keys))
	for d, key := range keys {
		var maxIdx int64 = -1
		for _, g := range key {
			if g > maxIdx {
				maxIdx = g
			}
		}
		sizes[d] = int(maxIdx + 1)
	}
	return sizes
}

// RavelMultiIndex combines multi-key group coordinates into a single flat
// index by mixed-radix combination, one stride per key dimension. All key
// slices must have the same length, and every coordinate must lie within its
// dimension's size. RowMajor gives the last dimension stride 1, ColMajor the
// first.
func RavelMultiIndex(keys [][]int64, sizes []int, order Order) ([]int64, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: no key dimensions", ErrShapeMismatch)
	}
	if len(sizes) != len(keys) {
		return nil, fmt.Errorf("%w: %d sizes given for %d key dimensions", ErrShapeMismatch, len(sizes), len(keys))
	}
	n := len(keys[0])
	for d, key := range keys[1:] {
		if len(key) != n {
			return nil, fmt.Errorf("%w: key dimension %d has length %d, want %d", ErrShapeMismatch, d+1, len(key), n)
		}
	}

	strides := makeStrides(sizes, order)

	flat := make([]int64, n)
	for d, key := range keys {
		bound := int64(sizes[d])
		stride := strides[d]
		for i, g := range key {
			if g < 0 {
				return nil, fmt.Errorf("%w: got %d at position %d in key dimension %d", ErrInvalidIndex, g, i, d)
			}
			if g >= bound {
				return nil, fmt.Errorf("%w: index %d too large for size %d in key dimension %d", ErrOutOfBounds, g, bound, d)
			}
			flat[i] += g * stride
		}
	}
	return flat, nil
}

// makeStrides computes the per-dimension strides as cumulative products of
// the sizes in the order complementary to the requested one.
func makeStrides(sizes []int, order Order) []int64 {
	strides := make([]int64, len(sizes))
	if order == ColMajor {
		stride := int64(1)
		for d := 0; d < len(sizes); d++ {
			strides[d] = stride
			stride *= int64(sizes[d])
		}
	} else {
		stride := int64(1)
		for d := len(sizes) - 1; d >= 0; d-- {
			strides[d] = stride
			stride *= int64(sizes[d])
		}
	}
	return strides
}

// flatSize returns the product of the per-dimension sizes.
func flatSize(sizes []int) int {
	total := 1
	for _, s := range sizes {
		total *= s
	}
	return total
}

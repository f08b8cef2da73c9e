package accum

import (
	"errors"
	"reflect"
	"testing"
)

// ============================================================================
// Index Validation Tests
// ============================================================================

func TestCheckIndex(t *testing.T) {
	tests := []struct {
		name     string
		groupIdx []int64
		size     int
		expected int
	}{
		{"inferred size", []int64{0, 2, 1, 2}, 0, 3},
		{"explicit size", []int64{0, 2, 1, 2}, 10, 10},
		{"single group", []int64{0, 0, 0}, 0, 1},
		{"empty index", []int64{}, 0, 0},
		{"empty index explicit size", []int64{}, 5, 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			size, err := checkIndex(tc.groupIdx, tc.size)
			if err != nil {
				t.Fatalf("checkIndex error: %v", err)
			}
			if size != tc.expected {
				t.Errorf("size = %d, want %d", size, tc.expected)
			}
		})
	}
}

func TestCheckIndex_Negative(t *testing.T) {
	_, err := checkIndex([]int64{0, -1, 2}, 0)
	if !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("checkIndex with negative index = %v, want ErrInvalidIndex", err)
	}
}

func TestCheckIndex_OutOfBounds(t *testing.T) {
	_, err := checkIndex([]int64{0, 5}, 3)
	if !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("checkIndex with index beyond size = %v, want ErrOutOfBounds", err)
	}

	// Index exactly at size is out of bounds too.
	_, err = checkIndex([]int64{3}, 3)
	if !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("checkIndex with index == size = %v, want ErrOutOfBounds", err)
	}
}

func TestInferSizes(t *testing.T) {
	keys := [][]int64{
		{0, 1, 2, 1},
		{0, 0, 3, 1},
	}
	sizes := inferSizes(keys)
	if !reflect.DeepEqual(sizes, []int{3, 4}) {
		t.Errorf("inferSizes = %v, want [3 4]", sizes)
	}
}

// ============================================================================
// Multi-Key Ravelling Tests
// ============================================================================

func TestOrder_String(t *testing.T) {
	if RowMajor.String() != "C" {
		t.Errorf("RowMajor.String() = %q, want C", RowMajor.String())
	}
	if ColMajor.String() != "F" {
		t.Errorf("ColMajor.String() = %q, want F", ColMajor.String())
	}
}

func TestMakeStrides(t *testing.T) {
	tests := []struct {
		name     string
		sizes    []int
		order    Order
		expected []int64
	}{
		{"row major 2d", []int{2, 3}, RowMajor, []int64{3, 1}},
		{"col major 2d", []int{2, 3}, ColMajor, []int64{1, 2}},
		{"row major 3d", []int{2, 3, 4}, RowMajor, []int64{12, 4, 1}},
		{"col major 3d", []int{2, 3, 4}, ColMajor, []int64{1, 2, 6}},
		{"single dim", []int{5}, RowMajor, []int64{1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			strides := makeStrides(tc.sizes, tc.order)
			if !reflect.DeepEqual(strides, tc.expected) {
				t.Errorf("makeStrides(%v, %s) = %v, want %v", tc.sizes, tc.order, strides, tc.expected)
			}
		})
	}
}

func TestRavelMultiIndex(t *testing.T) {
	keys := [][]int64{
		{0, 0, 1, 1},
		{0, 1, 0, 2},
	}
	sizes := []int{2, 3}

	flat, err := RavelMultiIndex(keys, sizes, RowMajor)
	if err != nil {
		t.Fatalf("RavelMultiIndex error: %v", err)
	}
	// Row major: flat = k0*3 + k1
	if !reflect.DeepEqual(flat, []int64{0, 1, 3, 5}) {
		t.Errorf("row major flat = %v, want [0 1 3 5]", flat)
	}

	flat, err = RavelMultiIndex(keys, sizes, ColMajor)
	if err != nil {
		t.Fatalf("RavelMultiIndex error: %v", err)
	}
	// Col major: flat = k0 + k1*2
	if !reflect.DeepEqual(flat, []int64{0, 2, 1, 5}) {
		t.Errorf("col major flat = %v, want [0 2 1 5]", flat)
	}
}

func TestRavelMultiIndex_Errors(t *testing.T) {
	tests := []struct {
		name     string
		keys     [][]int64
		sizes    []int
		expected error
	}{
		{"no keys", nil, nil, ErrShapeMismatch},
		{"size count mismatch", [][]int64{{0}}, []int{1, 2}, ErrShapeMismatch},
		{"ragged keys", [][]int64{{0, 1}, {0}}, []int{2, 2}, ErrShapeMismatch},
		{"negative coordinate", [][]int64{{0, -2}, {0, 0}}, []int{2, 2}, ErrInvalidIndex},
		{"coordinate beyond size", [][]int64{{0, 1}, {0, 3}}, []int{2, 3}, ErrOutOfBounds},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := RavelMultiIndex(tc.keys, tc.sizes, RowMajor)
			if !errors.Is(err, tc.expected) {
				t.Errorf("RavelMultiIndex = %v, want %v", err, tc.expected)
			}
		})
	}
}

func TestFlatSize(t *testing.T) {
	if got := flatSize([]int{2, 3, 4}); got != 24 {
		t.Errorf("flatSize([2 3 4]) = %d, want 24", got)
	}
	if got := flatSize(nil); got != 1 {
		t.Errorf("flatSize(nil) = %d, want 1", got)
	}
}

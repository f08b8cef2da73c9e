package accum

import (
	"fmt"
	"math"
)

// Array is a flat, dtype-tagged sequence of values. It is the value input to
// Aggregate and the per-group payload of the grouping reductions. Arrays are
// read-only to the aggregation pipeline; the backing slice stays owned by
// the caller.
type Array struct {
	dtype  DType
	scalar bool

	f64 []float64
	i64 []int64
	b   []bool
}

// NewFloat64Array wraps a float64 slice
func NewFloat64Array(data []float64) *Array {
	return &Array{dtype: Float64, f64: data}
}

// NewInt64Array wraps an int64 slice
func NewInt64Array(data []int64) *Array {
	return &Array{dtype: Int64, i64: data}
}

// NewBoolArray wraps a bool slice
func NewBoolArray(data []bool) *Array {
	return &Array{dtype: Bool, b: data}
}

// NewScalar creates a single-value Array that Aggregate broadcasts to the
// length of the group index.
func NewScalar(v any) (*Array, error) {
	switch s := v.(type) {
	case bool:
		return &Array{dtype: Bool, scalar: true, b: []bool{s}}, nil
	case int:
		return &Array{dtype: Int64, scalar: true, i64: []int64{int64(s)}}, nil
	case int32:
		return &Array{dtype: Int64, scalar: true, i64: []int64{int64(s)}}, nil
	case int64:
		return &Array{dtype: Int64, scalar: true, i64: []int64{s}}, nil
	case float32:
		return &Array{dtype: Float64, scalar: true, f64: []float64{float64(s)}}, nil
	case float64:
		return &Array{dtype: Float64, scalar: true, f64: []float64{s}}, nil
	default:
		return nil, fmt.Errorf("%w: scalar value must be numeric or bool, got %T", ErrUnsupportedType, v)
	}
}

// DType returns the element type
func (a *Array) DType() DType {
	return a.dtype
}

// Len returns the number of elements (1 for a scalar)
func (a *Array) Len() int {
	switch a.dtype {
	case Float64:
		return len(a.f64)
	case Int64:
		return len(a.i64)
	case Bool:
		return len(a.b)
	default:
		return 0
	}
}

// IsScalar reports whether the Array is a broadcastable scalar
func (a *Array) IsScalar() bool {
	return a.scalar
}

// Float64s returns the backing slice for a Float64 Array, nil otherwise
func (a *Array) Float64s() []float64 {
	return a.f64
}

// Int64s returns the backing slice for an Int64 Array, nil otherwise
func (a *Array) Int64s() []int64 {
	return a.i64
}

// Bools returns the backing slice for a Bool Array, nil otherwise
func (a *Array) Bools() []bool {
	return a.b
}

// At returns element i as an any-boxed value
func (a *Array) At(i int) any {
	switch a.dtype {
	case Float64:
		return a.f64[i]
	case Int64:
		return a.i64[i]
	case Bool:
		return a.b[i]
	default:
		return nil
	}
}

// asFloat64 converts the elements to float64, copying unless the Array is
// already Float64. Bools convert to 0/1.
func (a *Array) asFloat64() []float64 {
	switch a.dtype {
	case Float64:
		return a.f64
	case Int64:
		out := make([]float64, len(a.i64))
		ParallelFor(len(a.i64), func(start, end int) {
			for i := start; i < end; i++ {
				out[i] = float64(a.i64[i])
			}
		})
		return out
	case Bool:
		out := make([]float64, len(a.b))
		for i, v := range a.b {
			if v {
				out[i] = 1
			}
		}
		return out
	default:
		return nil
	}
}

// asInt64 converts the elements to int64. Only valid for Int64 and Bool
// arrays; float inputs never reach an integer kernel.
func (a *Array) asInt64() []int64 {
	switch a.dtype {
	case Int64:
		return a.i64
	case Bool:
		out := make([]int64, len(a.b))
		for i, v := range a.b {
			if v {
				out[i] = 1
			}
		}
		return out
	default:
		return nil
	}
}

// truth converts the elements to their truth values (nonzero, or the bool
// itself), the element test used by the all/any reductions.
func (a *Array) truth() []bool {
	switch a.dtype {
	case Bool:
		return a.b
	case Int64:
		out := make([]bool, len(a.i64))
		for i, v := range a.i64 {
			out[i] = v != 0
		}
		return out
	case Float64:
		out := make([]bool, len(a.f64))
		for i, v := range a.f64 {
			out[i] = v != 0
		}
		return out
	default:
		return nil
	}
}

// nanMask returns the elementwise IsNaN test. Non-float arrays have no NaNs.
func (a *Array) nanMask() []bool {
	out := make([]bool, a.Len())
	if a.dtype == Float64 {
		ParallelFor(len(a.f64), func(start, end int) {
			for i := start; i < end; i++ {
				out[i] = math.IsNaN(a.f64[i])
			}
		})
	}
	return out
}

// broadcast expands a scalar Array to n elements. Non-scalar arrays are
// returned unchanged.
func (a *Array) broadcast(n int) *Array {
	if !a.scalar {
		return a
	}
	switch a.dtype {
	case Float64:
		out := make([]float64, n)
		for i := range out {
			out[i] = a.f64[0]
		}
		return NewFloat64Array(out)
	case Int64:
		out := make([]int64, n)
		for i := range out {
			out[i] = a.i64[0]
		}
		return NewInt64Array(out)
	case Bool:
		out := make([]bool, n)
		for i := range out {
			out[i] = a.b[0]
		}
		return NewBoolArray(out)
	default:
		return a
	}
}

// take builds a new Array from the elements at the given positions,
// preserving order. Used to drop NaN pairs for the nan- variants.
func (a *Array) take(positions []int) *Array {
	switch a.dtype {
	case Float64:
		out := make([]float64, len(positions))
		for i, p := range positions {
			out[i] = a.f64[p]
		}
		return NewFloat64Array(out)
	case Int64:
		out := make([]int64, len(positions))
		for i, p := range positions {
			out[i] = a.i64[p]
		}
		return NewInt64Array(out)
	case Bool:
		out := make([]bool, len(positions))
		for i, p := range positions {
			out[i] = a.b[p]
		}
		return NewBoolArray(out)
	default:
		return a
	}
}

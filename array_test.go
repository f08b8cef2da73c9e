package accum

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

// ============================================================================
// Array Tests
// ============================================================================

func TestArray_Constructors(t *testing.T) {
	f := NewFloat64Array([]float64{1.5, 2.5})
	if f.DType() != Float64 || f.Len() != 2 || f.IsScalar() {
		t.Errorf("Float64 array: dtype=%s len=%d scalar=%v", f.DType(), f.Len(), f.IsScalar())
	}

	i := NewInt64Array([]int64{1, 2, 3})
	if i.DType() != Int64 || i.Len() != 3 {
		t.Errorf("Int64 array: dtype=%s len=%d", i.DType(), i.Len())
	}

	b := NewBoolArray([]bool{true})
	if b.DType() != Bool || b.Len() != 1 {
		t.Errorf("Bool array: dtype=%s len=%d", b.DType(), b.Len())
	}
}

func TestNewScalar(t *testing.T) {
	tests := []struct {
		name  string
		value any
		dtype DType
	}{
		{"int", 5, Int64},
		{"int64", int64(5), Int64},
		{"float64", 2.5, Float64},
		{"float32", float32(2.5), Float64},
		{"bool", true, Bool},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := NewScalar(tc.value)
			if err != nil {
				t.Fatalf("NewScalar(%v) error: %v", tc.value, err)
			}
			if !s.IsScalar() || s.Len() != 1 || s.DType() != tc.dtype {
				t.Errorf("scalar=%v len=%d dtype=%s, want scalar dtype %s", s.IsScalar(), s.Len(), s.DType(), tc.dtype)
			}
		})
	}

	if _, err := NewScalar("x"); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("NewScalar(string) = %v, want ErrUnsupportedType", err)
	}
}

func TestArray_At(t *testing.T) {
	a := NewInt64Array([]int64{10, 20})
	if a.At(1) != int64(20) {
		t.Errorf("At(1) = %v, want 20", a.At(1))
	}
	b := NewBoolArray([]bool{false, true})
	if b.At(1) != true {
		t.Errorf("At(1) = %v, want true", b.At(1))
	}
}

func TestArray_AsFloat64(t *testing.T) {
	i := NewInt64Array([]int64{1, -2, 3})
	if !reflect.DeepEqual(i.asFloat64(), []float64{1, -2, 3}) {
		t.Errorf("int asFloat64 = %v", i.asFloat64())
	}

	b := NewBoolArray([]bool{true, false, true})
	if !reflect.DeepEqual(b.asFloat64(), []float64{1, 0, 1}) {
		t.Errorf("bool asFloat64 = %v", b.asFloat64())
	}

	// Float64 arrays hand back the backing slice without copying.
	data := []float64{1, 2}
	f := NewFloat64Array(data)
	got := f.asFloat64()
	got[0] = 99
	if data[0] != 99 {
		t.Error("Float64 asFloat64 should not copy")
	}
}

func TestArray_AsInt64(t *testing.T) {
	b := NewBoolArray([]bool{true, false})
	if !reflect.DeepEqual(b.asInt64(), []int64{1, 0}) {
		t.Errorf("bool asInt64 = %v", b.asInt64())
	}
}

func TestArray_Truth(t *testing.T) {
	f := NewFloat64Array([]float64{0, 1.5, -2})
	if !reflect.DeepEqual(f.truth(), []bool{false, true, true}) {
		t.Errorf("float truth = %v", f.truth())
	}
	i := NewInt64Array([]int64{0, 7})
	if !reflect.DeepEqual(i.truth(), []bool{false, true}) {
		t.Errorf("int truth = %v", i.truth())
	}
}

func TestArray_NanMask(t *testing.T) {
	f := NewFloat64Array([]float64{1, math.NaN(), 3})
	if !reflect.DeepEqual(f.nanMask(), []bool{false, true, false}) {
		t.Errorf("float nanMask = %v", f.nanMask())
	}
	// Integer arrays have no NaNs.
	i := NewInt64Array([]int64{1, 2})
	if !reflect.DeepEqual(i.nanMask(), []bool{false, false}) {
		t.Errorf("int nanMask = %v", i.nanMask())
	}
}

func TestArray_Broadcast(t *testing.T) {
	s, _ := NewScalar(7)
	b := s.broadcast(3)
	if !reflect.DeepEqual(b.Int64s(), []int64{7, 7, 7}) {
		t.Errorf("broadcast = %v, want [7 7 7]", b.Int64s())
	}

	a := NewFloat64Array([]float64{1, 2})
	if a.broadcast(5) != a {
		t.Error("broadcast of a non-scalar should be a no-op")
	}
}

func TestArray_Take(t *testing.T) {
	a := NewFloat64Array([]float64{10, 20, 30, 40})
	got := a.take([]int{3, 0, 2})
	if !reflect.DeepEqual(got.Float64s(), []float64{40, 10, 30}) {
		t.Errorf("take = %v, want [40 10 30]", got.Float64s())
	}
}

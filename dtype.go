package accum

import (
	"fmt"
	"math"
)

// DType represents the element type of a value array or result
type DType uint8

const (
	// Auto means "infer from the inputs" when used as an output dtype
	Auto DType = iota

	Bool
	Int64
	Float64
)

// String returns the string representation of the DType
func (d DType) String() string {
	switch d {
	case Auto:
		return "Auto"
	case Bool:
		return "Bool"
	case Int64:
		return "Int64"
	case Float64:
		return "Float64"
	default:
		return fmt.Sprintf("Unknown(%d)", d)
	}
}

// IsNumeric returns true if the dtype is a numeric type
func (d DType) IsNumeric() bool {
	return d == Int64 || d == Float64
}

// IsFloat returns true if the dtype is a floating point type
func (d DType) IsFloat() bool {
	return d == Float64
}

// IsInteger returns true if the dtype is an integer type
func (d DType) IsInteger() bool {
	return d == Int64
}

// IsBool returns true if the dtype is boolean
func (d DType) IsBool() bool {
	return d == Bool
}

// Size returns the size in bytes of the dtype
func (d DType) Size() int {
	switch d {
	case Float64, Int64:
		return 8
	case Bool:
		return 1
	default:
		return 0
	}
}

// promote returns the smallest common dtype of a and b, ordered
// Bool < Int64 < Float64. Auto acts as the identity.
func promote(a, b DType) DType {
	if a > b {
		return a
	}
	return b
}

// ============================================================================
// Fill Value Policy
// ============================================================================

// emptyFill is the type of the Empty marker.
type emptyFill struct{}

// Empty is the fill value for the grouping reductions ("array", "sort",
// "rsort") meaning that groups with no elements stay empty.
var Empty emptyFill

// fillValue is a parsed fill value together with its minimal dtype.
type fillValue struct {
	dtype     DType // minimal dtype able to represent the value
	empty     bool  // Empty marker, grouping reductions only
	defaulted bool  // no fill value was given by the caller
	b         bool
	i         int64
	f         float64
}

// parseFill normalizes a caller-provided fill value. nil means the default
// fill of 0 (false for the boolean reductions, empty for the grouping ones).
func parseFill(v any) (fillValue, error) {
	switch fv := v.(type) {
	case nil:
		return fillValue{dtype: Int64, defaulted: true}, nil
	case emptyFill:
		return fillValue{empty: true}, nil
	case bool:
		fill := fillValue{dtype: Bool, b: fv}
		if fv {
			fill.i, fill.f = 1, 1
		}
		return fill, nil
	case int:
		return fillValue{dtype: Int64, i: int64(fv), f: float64(fv)}, nil
	case int32:
		return fillValue{dtype: Int64, i: int64(fv), f: float64(fv)}, nil
	case int64:
		return fillValue{dtype: Int64, i: fv, f: float64(fv)}, nil
	case uint:
		return fillValue{dtype: Int64, i: int64(fv), f: float64(fv)}, nil
	case float32:
		return parseFill(float64(fv))
	case float64:
		return fillValue{dtype: Float64, i: int64(fv), f: fv}, nil
	default:
		return fillValue{}, fmt.Errorf("%w: fill value must be a scalar or Empty, got %T", ErrFillValue, v)
	}
}

// requireScalar rejects the Empty marker for reductions that produce a
// scalar per group.
func (fv fillValue) requireScalar() error {
	if fv.empty {
		return fmt.Errorf("%w: fill value must be a scalar for this reduction", ErrFillValue)
	}
	return nil
}

// requireBool enforces the boolean fill contract of all/any/allnan/anynan.
// The default fill resolves to false.
func (fv fillValue) requireBool() (bool, error) {
	if fv.defaulted {
		return false, nil
	}
	if fv.empty || fv.dtype != Bool {
		return false, fmt.Errorf("%w: boolean reduction requires a boolean fill value", ErrFillValue)
	}
	return fv.b, nil
}

// isNaN reports whether the fill value is floating NaN.
func (fv fillValue) isNaN() bool {
	return fv.dtype == Float64 && math.IsNaN(fv.f)
}

// minimumDType picks the smallest output dtype that represents both the fill
// value and the input dtype. Division-based reductions bypass this and use
// Float64 unconditionally.
func minimumDType(fv fillValue, input DType) DType {
	if fv.empty || fv.defaulted {
		return input
	}
	return promote(fv.dtype, input)
}

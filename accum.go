// Package accum implements grouped aggregation over flat arrays, the
// "accumarray" pattern: given a group index and a value array, it computes
// one aggregate per group, producing a dense result indexed by group id.
// The built-in reductions run as single-pass scatter kernels; large inputs
// are chunked across workers and merged with each reduction's combine
// operator.
package accum

import (
	"fmt"
	"math"
)

// Options are the optional parameters of Aggregate and AggregateND. The
// zero value means: infer the output size, fill value 0, row-major order,
// inferred output dtype.
type Options struct {
	// Size declares the dense output size for 1-D grouping (0 = infer as
	// max(groupIdx)+1). Aggregate only.
	Size int

	// Sizes declares the dense output shape per key dimension.
	// AggregateND only (nil = infer per dimension).
	Sizes []int

	// FillValue populates groups with no elements. A numeric or bool
	// scalar, or Empty for the grouping reductions. nil means 0.
	FillValue any

	// Order selects row-major ("C") or column-major ("F") combination of
	// multi-key coordinates, and the layout of the reshaped result.
	Order Order

	// DType forces the output element type (Auto = infer).
	DType DType

	// DDof is the delta degrees of freedom for var and std: the per-group
	// divisor is count - DDof.
	DDof int
}

// Result is a dense aggregation result. For the grouping reductions it
// holds one sub-sequence per group instead of one scalar.
type Result struct {
	dtype  DType
	shape  []int
	order  Order
	f64    []float64
	i64    []int64
	b      []bool
	groups []*Array
}

// DType returns the element type of the result
func (r *Result) DType() DType {
	return r.dtype
}

// Len returns the flat length of the result (the product of Shape)
func (r *Result) Len() int {
	return flatSize(r.shape)
}

// Shape returns the declared output shape, one entry per key dimension
func (r *Result) Shape() []int {
	return append([]int{}, r.shape...)
}

// Order returns the layout order of the flat data for multi-key results
func (r *Result) Order() Order {
	return r.order
}

// Float64s returns the flat data of a Float64 result, nil otherwise
func (r *Result) Float64s() []float64 {
	return r.f64
}

// Int64s returns the flat data of an Int64 result, nil otherwise
func (r *Result) Int64s() []int64 {
	return r.i64
}

// Bools returns the flat data of a Bool result, nil otherwise
func (r *Result) Bools() []bool {
	return r.b
}

// Groups returns the per-group sub-sequences of an array/sort/rsort result,
// nil for scalar reductions
func (r *Result) Groups() []*Array {
	return r.groups
}

// IsGrouped reports whether the result holds per-group sub-sequences
func (r *Result) IsGrouped() bool {
	return r.groups != nil
}

// At returns the element at the given multi-dimensional coordinates,
// resolving the flat offset with the result's order and shape.
func (r *Result) At(coords ...int) (any, error) {
	if len(coords) != len(r.shape) {
		return nil, fmt.Errorf("%w: %d coordinates for %d dimensions", ErrShapeMismatch, len(coords), len(r.shape))
	}
	strides := makeStrides(r.shape, r.order)
	offset := 0
	for d, c := range coords {
		if c < 0 || c >= r.shape[d] {
			return nil, fmt.Errorf("%w: coordinate %d out of range for dimension %d of size %d", ErrOutOfBounds, c, d, r.shape[d])
		}
		offset += c * int(strides[d])
	}
	if r.IsGrouped() {
		return r.groups[offset], nil
	}
	switch r.dtype {
	case Float64:
		return r.f64[offset], nil
	case Int64:
		return r.i64[offset], nil
	default:
		return r.b[offset], nil
	}
}

// Aggregate groups values by groupIdx and reduces each group with fn,
// returning a dense result of length size (or max(groupIdx)+1 when size is
// not declared). fn is a reduction name or alias, a Kind, or a Callable.
// values must have the same length as groupIdx, or be a broadcastable
// scalar from NewScalar.
func Aggregate(groupIdx []int64, values *Array, fn any, opts ...Options) (*Result, error) {
	opt := Options{}
	if len(opts) > 0 {
		opt = opts[0]
	}
	if len(opt.Sizes) > 0 {
		return nil, fmt.Errorf("%w: Sizes is only valid for AggregateND, use Size", ErrShapeMismatch)
	}
	if err := checkValues(len(groupIdx), values); err != nil {
		return nil, err
	}
	size, err := checkIndex(groupIdx, opt.Size)
	if err != nil {
		return nil, err
	}
	res, err := aggregateFlat(groupIdx, values, fn, size, opt)
	if err != nil {
		return nil, err
	}
	res.shape = []int{size}
	res.order = opt.Order
	return res, nil
}

// AggregateND is Aggregate for multi-key grouping: one group coordinate
// slice per key dimension, all of equal length. The coordinates combine
// into a flat index by mixed-radix combination in the declared order, and
// the result carries the multi-dimensional shape.
func AggregateND(keys [][]int64, values *Array, fn any, opts ...Options) (*Result, error) {
	opt := Options{}
	if len(opts) > 0 {
		opt = opts[0]
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: no key dimensions", ErrShapeMismatch)
	}
	if opt.Size != 0 {
		return nil, fmt.Errorf("%w: Size is only valid for Aggregate, use Sizes", ErrShapeMismatch)
	}
	for d, key := range keys {
		if len(key) != len(keys[0]) {
			return nil, fmt.Errorf("%w: key dimension %d has length %d, want %d", ErrShapeMismatch, d, len(key), len(keys[0]))
		}
	}
	if err := checkValues(len(keys[0]), values); err != nil {
		return nil, err
	}

	sizes := opt.Sizes
	if sizes == nil {
		sizes = inferSizes(keys)
	} else if len(sizes) != len(keys) {
		return nil, fmt.Errorf("%w: %d sizes given, but %d key dimensions", ErrShapeMismatch, len(sizes), len(keys))
	}

	flat, err := RavelMultiIndex(keys, sizes, opt.Order)
	if err != nil {
		return nil, err
	}
	res, err := aggregateFlat(flat, values, fn, flatSize(sizes), opt)
	if err != nil {
		return nil, err
	}
	res.shape = append([]int{}, sizes...)
	res.order = opt.Order
	return res, nil
}

// checkValues validates the value array against the group index length.
func checkValues(idxLen int, values *Array) error {
	if values == nil || values.DType() == Auto {
		return fmt.Errorf("%w: values must be a non-empty Array", ErrUnsupportedType)
	}
	if !values.IsScalar() && values.Len() != idxLen {
		return fmt.Errorf("%w: values has length %d, group index has length %d", ErrShapeMismatch, values.Len(), idxLen)
	}
	return nil
}

// aggregateFlat runs the resolved reduction over a validated flat index.
func aggregateFlat(idx []int64, values *Array, fn any, n int, opt Options) (*Result, error) {
	fill, err := parseFill(opt.FillValue)
	if err != nil {
		return nil, err
	}
	res, err := resolveFunc(fn, values.IsScalar())
	if err != nil {
		return nil, err
	}
	if res.nanAware {
		idx, values = dropNaN(idx, values)
	}

	var out *Result
	switch {
	case res.call != nil:
		data, err := applyCallable(idx, values.broadcast(len(idx)), n, fill, res.call)
		if err != nil {
			return nil, err
		}
		out = &Result{dtype: Float64, f64: data}

	case res.kind.isGrouping():
		groups, err := partitionGroups(idx, values.broadcast(len(idx)), n, fill, groupOrderFor(res.kind))
		if err != nil {
			return nil, err
		}
		out = &Result{dtype: values.DType(), groups: groups}

	case res.kind.isBool():
		boolFill, err := fill.requireBool()
		if err != nil {
			return nil, err
		}
		bvals := values.broadcast(len(idx))
		var truth []bool
		if res.kind == KindAllNaN || res.kind == KindAnyNaN {
			truth = bvals.nanMask()
		} else {
			truth = bvals.truth()
		}
		var data []bool
		if res.kind == KindAll || res.kind == KindAllNaN {
			data = reduceAll(idx, truth, n, boolFill)
		} else {
			data = reduceAny(idx, truth, n, boolFill)
		}
		out = &Result{dtype: Bool, b: data}

	case res.kind.isDividing():
		if values.IsScalar() {
			return nil, fmt.Errorf("%w: cannot take %s of scalar values", ErrShapeMismatch, res.kind)
		}
		if err := fill.requireScalar(); err != nil {
			return nil, err
		}
		vals := values.asFloat64()
		var data []float64
		switch res.kind {
		case KindMean:
			data = reduceMean(idx, vals, n, fill.f)
		case KindVar:
			data = reduceVar(idx, vals, n, fill.f, opt.DDof, false)
		case KindStd:
			data = reduceVar(idx, vals, n, fill.f, opt.DDof, true)
		}
		out = &Result{dtype: Float64, f64: data}

	default:
		out, err = runArithmetic(res.kind, idx, values, n, fill, opt.DType)
		if err != nil {
			return nil, err
		}
	}

	return castResult(out, opt.DType)
}

// groupOrderFor maps a grouping Kind to its within-group ordering.
func groupOrderFor(kind Kind) groupOrder {
	switch kind {
	case KindSort:
		return ascending
	case KindRSort:
		return descending
	default:
		return keepOrder
	}
}

// runArithmetic dispatches sum/prod/min/max/first/last to the int64 or
// float64 kernels, picking the working dtype from the fill policy.
func runArithmetic(kind Kind, idx []int64, values *Array, n int, fill fillValue, want DType) (*Result, error) {
	if err := fill.requireScalar(); err != nil {
		return nil, err
	}

	working := minimumDType(fill, values.DType())
	if kind == KindSum || kind == KindProd {
		// summing or multiplying booleans counts them
		working = promote(working, Int64)
	}
	if want == Float64 {
		// compute directly in the requested type instead of casting after
		working = Float64
	}

	// broadcast scalars, with the sum shortcut of count * scalar
	if values.IsScalar() {
		if kind == KindSum {
			return scalarSum(idx, values, n, fill, working)
		}
		values = values.broadcast(len(idx))
	}

	switch working {
	case Float64:
		data := runKernel(kind, idx, values.asFloat64(), n, fill.f)
		return &Result{dtype: Float64, f64: data}, nil
	case Int64:
		data := runKernel(kind, idx, values.asInt64(), n, fill.i)
		return &Result{dtype: Int64, i64: data}, nil
	default: // Bool: min/max/first/last over booleans
		data := runKernel(kind, idx, values.asInt64(), n, fill.i)
		b := make([]bool, n)
		for j, v := range data {
			b[j] = v != 0
		}
		return &Result{dtype: Bool, b: b}, nil
	}
}

// runKernel executes one arithmetic reduction with a typed kernel.
func runKernel[T number](kind Kind, idx []int64, vals []T, n int, fill T) []T {
	switch kind {
	case KindSum:
		out, touched := parallelScatter(idx, vals, n, sumScatter[T], combineSum[T])
		if fill != 0 {
			// zero is the natural init of the accumulator, skip the pass
			fillUntouched(out, touched, fill)
		}
		return out
	case KindProd:
		out, touched := parallelScatter(idx, vals, n, prodScatter[T], combineProd[T])
		fillUntouched(out, touched, fill)
		return out
	case KindMin:
		out, touched := parallelScatter(idx, vals, n, minScatter[T], combineMin[T])
		fillUntouched(out, touched, fill)
		return out
	case KindMax:
		out, touched := parallelScatter(idx, vals, n, maxScatter[T], combineMax[T])
		fillUntouched(out, touched, fill)
		return out
	case KindFirst:
		return reduceFirst(idx, vals, n, fill)
	default: // KindLast
		return reduceLast(idx, vals, n, fill)
	}
}

// scalarSum computes sum over a broadcast scalar as count * scalar, one
// counting pass instead of materializing the broadcast.
func scalarSum(idx []int64, values *Array, n int, fill fillValue, working DType) (*Result, error) {
	counts := bincount(idx, n)
	if working == Float64 {
		s := values.asFloat64()[0]
		out := make([]float64, n)
		for j, c := range counts {
			if c == 0 {
				out[j] = fill.f
			} else {
				out[j] = float64(c) * s
			}
		}
		return &Result{dtype: Float64, f64: out}, nil
	}
	s := values.asInt64()[0]
	out := make([]int64, n)
	for j, c := range counts {
		if c == 0 {
			out[j] = fill.i
		} else {
			out[j] = c * s
		}
	}
	return &Result{dtype: Int64, i64: out}, nil
}

// dropNaN removes (index, value) pairs with NaN values. Non-float arrays
// have nothing to drop.
func dropNaN(idx []int64, values *Array) ([]int64, *Array) {
	if values.DType() != Float64 {
		return idx, values
	}
	keep := make([]int, 0, len(idx))
	for i, v := range values.Float64s() {
		if !math.IsNaN(v) {
			keep = append(keep, i)
		}
	}
	if len(keep) == len(idx) {
		return idx, values
	}
	outIdx := make([]int64, len(keep))
	for i, p := range keep {
		outIdx[i] = idx[p]
	}
	return outIdx, values.take(keep)
}

// castResult converts a scalar result to an explicitly requested dtype.
func castResult(r *Result, want DType) (*Result, error) {
	if want == Auto || want == r.dtype {
		return r, nil
	}
	if r.IsGrouped() {
		return nil, fmt.Errorf("%w: cannot cast a grouped result to %s", ErrUnsupportedType, want)
	}
	var n int
	switch r.dtype {
	case Float64:
		n = len(r.f64)
	case Int64:
		n = len(r.i64)
	case Bool:
		n = len(r.b)
	}
	out := &Result{dtype: want, shape: r.shape, order: r.order}
	switch want {
	case Float64:
		out.f64 = make([]float64, n)
		for j := 0; j < n; j++ {
			switch r.dtype {
			case Int64:
				out.f64[j] = float64(r.i64[j])
			case Bool:
				if r.b[j] {
					out.f64[j] = 1
				}
			}
		}
	case Int64:
		out.i64 = make([]int64, n)
		for j := 0; j < n; j++ {
			switch r.dtype {
			case Float64:
				out.i64[j] = int64(r.f64[j])
			case Bool:
				if r.b[j] {
					out.i64[j] = 1
				}
			}
		}
	case Bool:
		out.b = make([]bool, n)
		for j := 0; j < n; j++ {
			switch r.dtype {
			case Float64:
				out.b[j] = r.f64[j] != 0
			case Int64:
				out.b[j] = r.i64[j] != 0
			}
		}
	default:
		return nil, fmt.Errorf("%w: cannot cast result to %s", ErrUnsupportedType, want)
	}
	return out, nil
}

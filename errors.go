package accum

import "errors"

// Sentinel errors returned by the aggregation pipeline. Wrapped values carry
// the offending input; test with errors.Is.
var (
	// ErrInvalidIndex indicates a negative group index.
	ErrInvalidIndex = errors.New("accum: group index must be non-negative")

	// ErrOutOfBounds indicates a group index at or beyond the declared size.
	ErrOutOfBounds = errors.New("accum: group index out of bounds")

	// ErrShapeMismatch indicates disagreeing input lengths or a declared
	// size with the wrong number of dimensions.
	ErrShapeMismatch = errors.New("accum: shape mismatch")

	// ErrUnknownFunction indicates an aggregation name not present in the
	// alias table, or a func argument of an unsupported type.
	ErrUnknownFunction = errors.New("accum: unknown aggregation function")

	// ErrNoNanVersion indicates a nan- variant was requested for a
	// reduction that has none, or for scalar values.
	ErrNoNanVersion = errors.New("accum: no nan- version")

	// ErrFillValue indicates a fill value that is not representable for the
	// requested reduction or output dtype.
	ErrFillValue = errors.New("accum: invalid fill value")

	// ErrUnsupportedType indicates a value dtype incompatible with the
	// requested reduction.
	ErrUnsupportedType = errors.New("accum: unsupported element type")
)

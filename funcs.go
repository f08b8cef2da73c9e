package accum

import (
	"fmt"
	"strings"
)

// Kind identifies one of the built-in reductions. A Kind may be passed
// directly as the func argument of Aggregate in place of its name.
type Kind uint8

const (
	KindSum Kind = iota
	KindProd
	KindMin
	KindMax
	KindMean
	KindVar
	KindStd
	KindAll
	KindAny
	KindFirst
	KindLast
	KindAllNaN
	KindAnyNaN
	KindArray
	KindSort
	KindRSort

	numKinds
)

// Callable is a caller-supplied reduction applied to each non-empty group.
// The group values are materialized in input order, converted to float64.
type Callable func(group []float64) float64

// String returns the canonical name of the Kind
func (k Kind) String() string {
	switch k {
	case KindSum:
		return "sum"
	case KindProd:
		return "prod"
	case KindMin:
		return "min"
	case KindMax:
		return "max"
	case KindMean:
		return "mean"
	case KindVar:
		return "var"
	case KindStd:
		return "std"
	case KindAll:
		return "all"
	case KindAny:
		return "any"
	case KindFirst:
		return "first"
	case KindLast:
		return "last"
	case KindAllNaN:
		return "allnan"
	case KindAnyNaN:
		return "anynan"
	case KindArray:
		return "array"
	case KindSort:
		return "sort"
	case KindRSort:
		return "rsort"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// aliasTable maps every accepted (lower-case) name to its canonical Kind.
// Resolved once at init; lookups are read-only.
var aliasTable = map[string]Kind{
	"sum": KindSum, "plus": KindSum, "add": KindSum,
	"prod": KindProd, "product": KindProd, "times": KindProd, "multiply": KindProd,
	"min": KindMin, "amin": KindMin, "minimum": KindMin,
	"max": KindMax, "amax": KindMax, "maximum": KindMax,
	"mean": KindMean,
	"var":  KindVar, "variance": KindVar,
	"std": KindStd,
	"all": KindAll, "and": KindAll,
	"any": KindAny, "or": KindAny,
	"first": KindFirst,
	"last":  KindLast,
	"allnan": KindAllNaN,
	"anynan": KindAnyNaN,
	"array": KindArray, "split": KindArray, "splice": KindArray,
	"sort": KindSort, "sorted": KindSort, "asort": KindSort, "asorted": KindSort,
	"rsort": KindRSort, "rsorted": KindRSort, "dsort": KindRSort, "dsorted": KindRSort,
}

// noNanVersion lists the kinds without a nan- prefixed form.
var noNanVersion = map[Kind]bool{
	KindFirst:  true,
	KindLast:   true,
	KindAll:    true,
	KindAny:    true,
	KindArray:  true,
	KindSort:   true,
	KindRSort:  true,
	KindAllNaN: true,
	KindAnyNaN: true,
}

// hasNaNVariant reports whether "nan"+name is a valid function name.
func (k Kind) hasNaNVariant() bool {
	return !noNanVersion[k]
}

// isBool reports whether the reduction produces booleans and requires a
// boolean fill value.
func (k Kind) isBool() bool {
	switch k {
	case KindAll, KindAny, KindAllNaN, KindAnyNaN:
		return true
	}
	return false
}

// isGrouping reports whether the reduction produces one sub-sequence per
// group rather than one scalar.
func (k Kind) isGrouping() bool {
	switch k {
	case KindArray, KindSort, KindRSort:
		return true
	}
	return false
}

// isDividing reports whether the reduction divides and therefore always
// produces Float64 output.
func (k Kind) isDividing() bool {
	switch k {
	case KindMean, KindVar, KindStd:
		return true
	}
	return false
}

// resolved is the outcome of function resolution: either a built-in Kind or
// a generic Callable, plus the nan-aware flag.
type resolved struct {
	kind     Kind
	call     Callable
	nanAware bool
}

// resolveFunc maps the func argument of Aggregate to a reduction. Accepted
// forms: a name or alias string (case-insensitive, optionally nan-prefixed),
// a Kind constant, or a Callable. scalarValues disables the nan- variants,
// which are undefined for a broadcast scalar.
func resolveFunc(fn any, scalarValues bool) (resolved, error) {
	switch f := fn.(type) {
	case nil:
		return resolved{kind: KindSum}, nil
	case Kind:
		if f >= numKinds {
			return resolved{}, fmt.Errorf("%w: %s", ErrUnknownFunction, f)
		}
		return resolved{kind: f}, nil
	case string:
		name := strings.ToLower(f)
		nanAware := false
		if rest, ok := strings.CutPrefix(name, "nan"); ok {
			kind, known := aliasTable[rest]
			if !known {
				return resolved{}, fmt.Errorf("%w: %q", ErrUnknownFunction, f)
			}
			if !kind.hasNaNVariant() {
				return resolved{}, fmt.Errorf("%w: %s does not have a nan- version", ErrNoNanVersion, kind)
			}
			if scalarValues {
				return resolved{}, fmt.Errorf("%w: nan- version not supported for scalar values", ErrNoNanVersion)
			}
			nanAware = true
			name = rest
		}
		kind, ok := aliasTable[name]
		if !ok {
			return resolved{}, fmt.Errorf("%w: %q", ErrUnknownFunction, f)
		}
		return resolved{kind: kind, nanAware: nanAware}, nil
	case Callable:
		if f == nil {
			return resolved{}, fmt.Errorf("%w: nil callable", ErrUnknownFunction)
		}
		return resolved{call: f}, nil
	case func(group []float64) float64:
		if f == nil {
			return resolved{}, fmt.Errorf("%w: nil callable", ErrUnknownFunction)
		}
		return resolved{call: f}, nil
	default:
		return resolved{}, fmt.Errorf("%w: func must be a name, a Kind or a Callable, got %T", ErrUnknownFunction, fn)
	}
}

package accum

import (
	"fmt"
	"strconv"
	"strings"
)

// String formats the result as a bracketed sequence. Multi-key results are
// rendered row by row in their declared order; grouped results render each
// sub-sequence in brackets.
func (r *Result) String() string {
	elems := r.elementStrings()

	if len(r.shape) <= 1 {
		return "[" + strings.Join(elems, " ") + "]"
	}
	if len(r.shape) == 2 {
		rows, cols := r.shape[0], r.shape[1]
		strides := makeStrides(r.shape, r.order)
		var sb strings.Builder
		sb.WriteString("[")
		for i := 0; i < rows; i++ {
			if i > 0 {
				sb.WriteString("\n ")
			}
			sb.WriteString("[")
			for j := 0; j < cols; j++ {
				if j > 0 {
					sb.WriteString(" ")
				}
				sb.WriteString(elems[i*int(strides[0])+j*int(strides[1])])
			}
			sb.WriteString("]")
		}
		sb.WriteString("]")
		return sb.String()
	}

	shape := make([]string, len(r.shape))
	for d, s := range r.shape {
		shape[d] = strconv.Itoa(s)
	}
	return fmt.Sprintf("shape(%s) [%s]", strings.Join(shape, ","), strings.Join(elems, " "))
}

func (r *Result) elementStrings() []string {
	// Grouped results carry the value dtype, so the grouped case must win
	// over the dtype dispatch.
	if r.IsGrouped() {
		out := make([]string, len(r.groups))
		for i, g := range r.groups {
			parts := make([]string, g.Len())
			for j := 0; j < g.Len(); j++ {
				parts[j] = fmt.Sprintf("%v", g.At(j))
			}
			out[i] = "[" + strings.Join(parts, " ") + "]"
		}
		return out
	}

	switch r.dtype {
	case Float64:
		out := make([]string, len(r.f64))
		for i, v := range r.f64 {
			out[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		return out
	case Int64:
		out := make([]string, len(r.i64))
		for i, v := range r.i64 {
			out[i] = strconv.FormatInt(v, 10)
		}
		return out
	default:
		out := make([]string, len(r.b))
		for i, v := range r.b {
			out[i] = strconv.FormatBool(v)
		}
		return out
	}
}

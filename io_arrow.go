package accum

import (
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// ============================================================================
// Arrow Import
// ============================================================================

// FromArrow converts an Arrow array to an Array. Supported Arrow types:
// Float64, Float32, Int64, Int32, Boolean.
func FromArrow(arr arrow.Array) (*Array, error) {
	switch a := arr.(type) {
	case *array.Float64:
		data := make([]float64, a.Len())
		for i := 0; i < a.Len(); i++ {
			data[i] = a.Value(i)
		}
		return NewFloat64Array(data), nil

	case *array.Float32:
		data := make([]float64, a.Len())
		for i := 0; i < a.Len(); i++ {
			data[i] = float64(a.Value(i))
		}
		return NewFloat64Array(data), nil

	case *array.Int64:
		data := make([]int64, a.Len())
		for i := 0; i < a.Len(); i++ {
			data[i] = a.Value(i)
		}
		return NewInt64Array(data), nil

	case *array.Int32:
		data := make([]int64, a.Len())
		for i := 0; i < a.Len(); i++ {
			data[i] = int64(a.Value(i))
		}
		return NewInt64Array(data), nil

	case *array.Boolean:
		data := make([]bool, a.Len())
		for i := 0; i < a.Len(); i++ {
			data[i] = a.Value(i)
		}
		return NewBoolArray(data), nil

	default:
		return nil, fmt.Errorf("%w: unsupported Arrow array type %T", ErrUnsupportedType, arr)
	}
}

// GroupIndexFromArrow converts an integer Arrow array to a group index.
func GroupIndexFromArrow(arr arrow.Array) ([]int64, error) {
	switch a := arr.(type) {
	case *array.Int64:
		data := make([]int64, a.Len())
		for i := 0; i < a.Len(); i++ {
			data[i] = a.Value(i)
		}
		return data, nil
	case *array.Int32:
		data := make([]int64, a.Len())
		for i := 0; i < a.Len(); i++ {
			data[i] = int64(a.Value(i))
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: group index must be an integer Arrow array, got %T", ErrInvalidIndex, arr)
	}
}

// ReadArrowColumns reads a group index column and a value column from an
// Arrow IPC file, concatenating all records.
func ReadArrowColumns(path, groupCol, valueCol string) ([]int64, *Array, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	reader, err := ipc.NewFileReader(f, ipc.WithAllocator(memory.DefaultAllocator))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open arrow file: %w", err)
	}
	defer reader.Close()

	schema := reader.Schema()
	groupIdx, valueIdx := -1, -1
	for i, field := range schema.Fields() {
		switch field.Name {
		case groupCol:
			groupIdx = i
		case valueCol:
			valueIdx = i
		}
	}
	if groupIdx < 0 {
		return nil, nil, fmt.Errorf("group column %q not found in arrow schema", groupCol)
	}
	if valueIdx < 0 {
		return nil, nil, fmt.Errorf("value column %q not found in arrow schema", valueCol)
	}

	var groups []int64
	var values *Array
	for i := 0; i < reader.NumRecords(); i++ {
		record, err := reader.Record(i)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read record %d: %w", i, err)
		}

		g, err := GroupIndexFromArrow(record.Column(groupIdx))
		if err != nil {
			return nil, nil, fmt.Errorf("record %d: %w", i, err)
		}
		groups = append(groups, g...)

		v, err := FromArrow(record.Column(valueIdx))
		if err != nil {
			return nil, nil, fmt.Errorf("record %d: %w", i, err)
		}
		if values == nil {
			values = v
		} else {
			values, err = concatArrays(values, v)
			if err != nil {
				return nil, nil, fmt.Errorf("record %d: %w", i, err)
			}
		}
	}
	if values == nil {
		values = NewFloat64Array(nil)
	}
	return groups, values, nil
}

// concatArrays appends b to a; both must share a dtype.
func concatArrays(a, b *Array) (*Array, error) {
	if a.DType() != b.DType() {
		return nil, fmt.Errorf("%w: cannot concatenate %s with %s", ErrUnsupportedType, a.DType(), b.DType())
	}
	switch a.DType() {
	case Float64:
		return NewFloat64Array(append(a.f64, b.f64...)), nil
	case Int64:
		return NewInt64Array(append(a.i64, b.i64...)), nil
	default:
		return NewBoolArray(append(a.b, b.b...)), nil
	}
}

// ============================================================================
// Arrow Export
// ============================================================================

// ToArrow exports a scalar result as an Arrow Record with a "group" index
// column and a "value" column. The caller is responsible for calling
// Release() on the returned Record. Grouped results have no dense Arrow
// shape and are rejected.
func (r *Result) ToArrow(mem memory.Allocator) (arrow.Record, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	if r.IsGrouped() {
		return nil, fmt.Errorf("%w: grouped results cannot export to Arrow", ErrUnsupportedType)
	}

	valueType, err := dtypeToArrowType(r.dtype)
	if err != nil {
		return nil, err
	}
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "group", Type: arrow.PrimitiveTypes.Int64},
		{Name: "value", Type: valueType},
	}, nil)

	n := r.Len()
	groupBuilder := array.NewInt64Builder(mem)
	defer groupBuilder.Release()
	for j := 0; j < n; j++ {
		groupBuilder.Append(int64(j))
	}
	groupArr := groupBuilder.NewArray()
	defer groupArr.Release()

	valueArr, err := resultToArrowArray(r, mem)
	if err != nil {
		return nil, err
	}
	defer valueArr.Release()

	return array.NewRecord(schema, []arrow.Array{groupArr, valueArr}, int64(n)), nil
}

// dtypeToArrowType converts a DType to an Arrow DataType
func dtypeToArrowType(dtype DType) (arrow.DataType, error) {
	switch dtype {
	case Float64:
		return arrow.PrimitiveTypes.Float64, nil
	case Int64:
		return arrow.PrimitiveTypes.Int64, nil
	case Bool:
		return arrow.FixedWidthTypes.Boolean, nil
	default:
		return nil, fmt.Errorf("%w: unsupported dtype for Arrow export: %s", ErrUnsupportedType, dtype)
	}
}

func resultToArrowArray(r *Result, mem memory.Allocator) (arrow.Array, error) {
	switch r.dtype {
	case Float64:
		builder := array.NewFloat64Builder(mem)
		defer builder.Release()
		builder.AppendValues(r.f64, nil)
		return builder.NewArray(), nil

	case Int64:
		builder := array.NewInt64Builder(mem)
		defer builder.Release()
		builder.AppendValues(r.i64, nil)
		return builder.NewArray(), nil

	case Bool:
		builder := array.NewBooleanBuilder(mem)
		defer builder.Release()
		for _, v := range r.b {
			builder.Append(v)
		}
		return builder.NewArray(), nil

	default:
		return nil, fmt.Errorf("%w: unsupported dtype for Arrow export: %s", ErrUnsupportedType, r.dtype)
	}
}

package accum

import (
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"
)

// ParquetReadOptions configures Parquet column loading
type ParquetReadOptions struct {
	MaxRows int // Max rows to read (0 = unlimited)
}

// DefaultParquetReadOptions returns default Parquet reading options
func DefaultParquetReadOptions() ParquetReadOptions {
	return ParquetReadOptions{}
}

// ReadParquetColumns reads a group index column and a value column from a
// Parquet file. The group column must be an integer column; the value
// column may be boolean, integer, or floating.
func ReadParquetColumns(path, groupCol, valueCol string, opts ...ParquetReadOptions) ([]int64, *Array, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return ReadParquetColumnsFromReader(f, stat.Size(), groupCol, valueCol, opts...)
}

// valueBuilder accumulates the value column in its schema dtype
type valueBuilder struct {
	dtype   DType
	kind    parquet.Kind
	f64Data []float64
	i64Data []int64
	bData   []bool
}

func (b *valueBuilder) append(val parquet.Value) {
	switch b.dtype {
	case Float64:
		if b.kind == parquet.Float {
			b.f64Data = append(b.f64Data, float64(val.Float()))
		} else {
			b.f64Data = append(b.f64Data, val.Double())
		}
	case Int64:
		if b.kind == parquet.Int32 {
			b.i64Data = append(b.i64Data, int64(val.Int32()))
		} else {
			b.i64Data = append(b.i64Data, val.Int64())
		}
	case Bool:
		b.bData = append(b.bData, val.Boolean())
	}
}

func (b *valueBuilder) array() *Array {
	switch b.dtype {
	case Int64:
		return NewInt64Array(b.i64Data)
	case Bool:
		return NewBoolArray(b.bData)
	default:
		return NewFloat64Array(b.f64Data)
	}
}

// ReadParquetColumnsFromReader reads the group and value columns from
// Parquet data
func ReadParquetColumnsFromReader(r io.ReaderAt, size int64, groupCol, valueCol string, opts ...ParquetReadOptions) ([]int64, *Array, error) {
	opt := DefaultParquetReadOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	pf, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	schema := pf.Schema()

	groupIdx, valueIdx := -1, -1
	for i, col := range schema.Columns() {
		if len(col) == 0 {
			continue
		}
		switch col[0] {
		case groupCol:
			groupIdx = i
		case valueCol:
			valueIdx = i
		}
	}
	if groupIdx < 0 {
		return nil, nil, fmt.Errorf("group column %q not found in parquet schema", groupCol)
	}
	if valueIdx < 0 {
		return nil, nil, fmt.Errorf("value column %q not found in parquet schema", valueCol)
	}

	groupKind, err := parquetColumnKind(schema, groupCol)
	if err != nil {
		return nil, nil, err
	}
	if groupKind != parquet.Int32 && groupKind != parquet.Int64 {
		return nil, nil, fmt.Errorf("group column %q must be an integer column, got %s", groupCol, groupKind)
	}

	valueKind, err := parquetColumnKind(schema, valueCol)
	if err != nil {
		return nil, nil, err
	}
	builder := valueBuilder{kind: valueKind}
	switch valueKind {
	case parquet.Boolean:
		builder.dtype = Bool
	case parquet.Int32, parquet.Int64:
		builder.dtype = Int64
	case parquet.Float, parquet.Double:
		builder.dtype = Float64
	default:
		return nil, nil, fmt.Errorf("%w: value column %q has parquet kind %s", ErrUnsupportedType, valueCol, valueKind)
	}

	var groups []int64
	rowCount := 0
	for _, rg := range pf.RowGroups() {
		if opt.MaxRows > 0 && rowCount >= opt.MaxRows {
			break
		}

		rows := rg.Rows()
		rowBuf := make([]parquet.Row, 1024)
		for {
			n, err := rows.ReadRows(rowBuf)
			if err != nil && err != io.EOF {
				rows.Close()
				return nil, nil, fmt.Errorf("failed to read rows: %w", err)
			}
			if n == 0 {
				break
			}

			for _, row := range rowBuf[:n] {
				if opt.MaxRows > 0 && rowCount >= opt.MaxRows {
					break
				}
				if groupIdx >= len(row) || valueIdx >= len(row) {
					rows.Close()
					return nil, nil, fmt.Errorf("row %d has %d columns, need at least %d", rowCount, len(row), max(groupIdx, valueIdx)+1)
				}
				if groupKind == parquet.Int32 {
					groups = append(groups, int64(row[groupIdx].Int32()))
				} else {
					groups = append(groups, row[groupIdx].Int64())
				}
				builder.append(row[valueIdx])
				rowCount++
			}

			if opt.MaxRows > 0 && rowCount >= opt.MaxRows {
				break
			}
		}
		rows.Close()
	}

	return groups, builder.array(), nil
}

// parquetColumnKind finds the physical kind of a named leaf column.
func parquetColumnKind(schema *parquet.Schema, name string) (parquet.Kind, error) {
	for _, col := range schema.Fields() {
		if col.Name() == name {
			t := col.Type()
			if t == nil {
				return 0, fmt.Errorf("column %q has no type", name)
			}
			return t.Kind(), nil
		}
	}
	return 0, fmt.Errorf("column %q not found in parquet schema", name)
}

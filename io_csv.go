package accum

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// CSVReadOptions configures CSV column loading
type CSVReadOptions struct {
	Delimiter  rune     // Field delimiter (default ',')
	HasHeader  bool     // First row is header (default true)
	NullValues []string // Strings to treat as null (loaded as NaN)
	SkipRows   int      // Skip first N rows
	MaxRows    int      // Max rows to read (0 = unlimited)
	TrimSpace  bool     // Trim whitespace from values
	Comment    rune     // Comment character (skip lines starting with this)
}

// DefaultCSVReadOptions returns default CSV reading options
func DefaultCSVReadOptions() CSVReadOptions {
	return CSVReadOptions{
		Delimiter:  ',',
		HasHeader:  true,
		NullValues: []string{"", "null", "NULL", "NA", "N/A", "nan", "NaN"},
		TrimSpace:  true,
	}
}

// ReadCSVColumns reads a group index column and a value column from a CSV
// file. The group column must hold non-negative integers; the value column
// type is inferred (Bool, Int64, or Float64, with nulls forcing Float64 and
// loading as NaN).
func ReadCSVColumns(path, groupCol, valueCol string, opts ...CSVReadOptions) ([]int64, *Array, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return ReadCSVColumnsFromReader(f, groupCol, valueCol, opts...)
}

// ReadCSVColumnsFromReader reads the group and value columns from CSV data
func ReadCSVColumnsFromReader(r io.Reader, groupCol, valueCol string, opts ...CSVReadOptions) ([]int64, *Array, error) {
	opt := DefaultCSVReadOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	reader := csv.NewReader(r)
	reader.Comma = opt.Delimiter
	if opt.Comment != 0 {
		reader.Comment = opt.Comment
	}
	reader.TrimLeadingSpace = opt.TrimSpace

	for i := 0; i < opt.SkipRows; i++ {
		if _, err := reader.Read(); err != nil {
			return nil, nil, fmt.Errorf("failed to skip row %d: %w", i, err)
		}
	}

	var headers []string
	if opt.HasHeader {
		var err error
		headers, err = reader.Read()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read header: %w", err)
		}
	}

	groupIdx, valueIdx := -1, -1
	for i, h := range headers {
		switch h {
		case groupCol:
			groupIdx = i
		case valueCol:
			valueIdx = i
		}
	}
	if groupIdx < 0 {
		return nil, nil, fmt.Errorf("group column %q not found in header %v", groupCol, headers)
	}
	if valueIdx < 0 {
		return nil, nil, fmt.Errorf("value column %q not found in header %v", valueCol, headers)
	}

	var groupVals, valueVals []string
	rowCount := 0
	for {
		if opt.MaxRows > 0 && rowCount >= opt.MaxRows {
			break
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read row %d: %w", rowCount, err)
		}
		if groupIdx >= len(record) || valueIdx >= len(record) {
			return nil, nil, fmt.Errorf("row %d has %d fields, need at least %d", rowCount, len(record), max(groupIdx, valueIdx)+1)
		}
		g, v := record[groupIdx], record[valueIdx]
		if opt.TrimSpace {
			g, v = strings.TrimSpace(g), strings.TrimSpace(v)
		}
		groupVals = append(groupVals, g)
		valueVals = append(valueVals, v)
		rowCount++
	}

	groups := make([]int64, len(groupVals))
	for i, s := range groupVals {
		g, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: group %q is not an integer: %w", i, s, err)
		}
		groups[i] = g
	}

	values, err := buildValueArray(valueVals, opt.NullValues)
	if err != nil {
		return nil, nil, err
	}
	return groups, values, nil
}

// buildValueArray infers the dtype of the value column and parses it.
func buildValueArray(vals []string, nullValues []string) (*Array, error) {
	dtype := inferValueType(vals, nullValues)
	switch dtype {
	case Bool:
		out := make([]bool, len(vals))
		for i, s := range vals {
			b, err := strconv.ParseBool(strings.ToLower(s))
			if err != nil {
				return nil, fmt.Errorf("row %d: value %q is not a bool: %w", i, s, err)
			}
			out[i] = b
		}
		return NewBoolArray(out), nil
	case Int64:
		out := make([]int64, len(vals))
		for i, s := range vals {
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: value %q is not an integer: %w", i, s, err)
			}
			out[i] = v
		}
		return NewInt64Array(out), nil
	default:
		out := make([]float64, len(vals))
		for i, s := range vals {
			if isNullToken(s, nullValues) {
				out[i] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: value %q is not a number: %w", i, s, err)
			}
			out[i] = v
		}
		return NewFloat64Array(out), nil
	}
}

// inferValueType picks the narrowest dtype that parses every value. Null
// tokens force Float64 so they can load as NaN.
func inferValueType(vals []string, nullValues []string) DType {
	allBool, allInt := true, true
	for _, s := range vals {
		if isNullToken(s, nullValues) {
			return Float64
		}
		if allBool {
			switch strings.ToLower(s) {
			case "true", "false":
			default:
				allBool = false
			}
		}
		if allInt {
			if _, err := strconv.ParseInt(s, 10, 64); err != nil {
				allInt = false
			}
		}
		if !allBool && !allInt {
			return Float64
		}
	}
	if allBool && len(vals) > 0 {
		return Bool
	}
	if allInt && len(vals) > 0 {
		return Int64
	}
	return Float64
}

func isNullToken(val string, nullValues []string) bool {
	for _, nv := range nullValues {
		if val == nv {
			return true
		}
	}
	return false
}

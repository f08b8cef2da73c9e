// Command accum runs a grouped aggregation over two columns of a CSV,
// Parquet, or Arrow IPC file and prints the dense result.
//
// Usage:
//
//	accum -in data.csv -group key -value x -func mean
//	accum -in data.parquet -group key -value x -func nansum -size 100
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/NerdMeNot/accum"
)

func main() {
	var (
		in       = flag.String("in", "", "input file (.csv, .parquet, .arrow/.ipc)")
		groupCol = flag.String("group", "group", "name of the group index column")
		valueCol = flag.String("value", "value", "name of the value column")
		funcName = flag.String("func", "sum", "aggregation function name")
		size     = flag.Int("size", 0, "dense output size (0 = infer)")
		fill     = flag.String("fill", "", "fill value for empty groups (number, bool, nan, or empty)")
		ddof     = flag.Int("ddof", 0, "delta degrees of freedom for var/std")
		maxRows  = flag.Int("max-rows", 0, "maximum rows to read (0 = all)")
	)
	flag.Parse()

	if *in == "" {
		flag.Usage()
		log.Fatal("missing -in file")
	}

	groupIdx, values, err := load(*in, *groupCol, *valueCol, *maxRows)
	if err != nil {
		log.Fatalf("loading %s: %v", *in, err)
	}

	fillValue, err := parseFillFlag(*fill)
	if err != nil {
		log.Fatalf("parsing -fill: %v", err)
	}

	result, err := accum.Aggregate(groupIdx, values, *funcName, accum.Options{
		Size:      *size,
		FillValue: fillValue,
		DDof:      *ddof,
	})
	if err != nil {
		log.Fatalf("aggregating: %v", err)
	}

	fmt.Printf("%s of %q by %q over %d rows, %d groups (%s)\n",
		*funcName, *valueCol, *groupCol, values.Len(), result.Len(), result.DType())
	fmt.Println(result)
}

// load picks the reader by file extension.
func load(path, groupCol, valueCol string, maxRows int) ([]int64, *accum.Array, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		opts := accum.DefaultCSVReadOptions()
		opts.MaxRows = maxRows
		return accum.ReadCSVColumns(path, groupCol, valueCol, opts)
	case ".parquet":
		return accum.ReadParquetColumns(path, groupCol, valueCol, accum.ParquetReadOptions{MaxRows: maxRows})
	case ".arrow", ".ipc", ".feather":
		return accum.ReadArrowColumns(path, groupCol, valueCol)
	default:
		return nil, nil, fmt.Errorf("unsupported file extension %q", filepath.Ext(path))
	}
}

// parseFillFlag converts the -fill string to a fill value.
func parseFillFlag(s string) (any, error) {
	switch strings.ToLower(s) {
	case "":
		return nil, nil
	case "empty":
		return accum.Empty, nil
	case "nan":
		return math.NaN(), nil
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("fill value %q is not a number, bool, nan, or empty", s)
	}
	return f, nil
}

package accum

import "testing"

func TestResult_String(t *testing.T) {
	res, err := Aggregate([]int64{0, 0, 1}, NewInt64Array([]int64{1, 2, 3}), "sum")
	if err != nil {
		t.Fatalf("Aggregate error: %v", err)
	}
	if got := res.String(); got != "[3 3]" {
		t.Errorf("String() = %q, want %q", got, "[3 3]")
	}
}

func TestResult_String_Bool(t *testing.T) {
	res, err := Aggregate([]int64{0, 1}, NewFloat64Array([]float64{1, 0}), "any")
	if err != nil {
		t.Fatalf("Aggregate error: %v", err)
	}
	if got := res.String(); got != "[true false]" {
		t.Errorf("String() = %q, want %q", got, "[true false]")
	}
}

func TestResult_String_2D(t *testing.T) {
	keys := [][]int64{
		{0, 0, 1, 1},
		{0, 1, 0, 1},
	}
	res, err := AggregateND(keys, NewInt64Array([]int64{1, 2, 3, 4}), "sum")
	if err != nil {
		t.Fatalf("AggregateND error: %v", err)
	}
	expected := "[[1 2]\n [3 4]]"
	if got := res.String(); got != expected {
		t.Errorf("String() = %q, want %q", got, expected)
	}

	// Column-major flat data renders the same logical rows.
	res, err = AggregateND(keys, NewInt64Array([]int64{1, 2, 3, 4}), "sum", Options{Order: ColMajor})
	if err != nil {
		t.Fatalf("AggregateND error: %v", err)
	}
	if got := res.String(); got != expected {
		t.Errorf("col major String() = %q, want %q", got, expected)
	}
}

func TestResult_String_Grouped(t *testing.T) {
	res, err := Aggregate([]int64{0, 0, 1}, NewFloat64Array([]float64{1, 2, 3}), "array")
	if err != nil {
		t.Fatalf("Aggregate error: %v", err)
	}
	if got := res.String(); got != "[[1 2] [3]]" {
		t.Errorf("String() = %q, want %q", got, "[[1 2] [3]]")
	}
}

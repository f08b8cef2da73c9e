package accum

import (
	"errors"
	"testing"
)

// ============================================================================
// Function Resolution Tests
// ============================================================================

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{KindSum, "sum"},
		{KindProd, "prod"},
		{KindMin, "min"},
		{KindMax, "max"},
		{KindMean, "mean"},
		{KindVar, "var"},
		{KindStd, "std"},
		{KindAll, "all"},
		{KindAny, "any"},
		{KindFirst, "first"},
		{KindLast, "last"},
		{KindAllNaN, "allnan"},
		{KindAnyNaN, "anynan"},
		{KindArray, "array"},
		{KindSort, "sort"},
		{KindRSort, "rsort"},
	}

	for _, tc := range tests {
		if got := tc.kind.String(); got != tc.expected {
			t.Errorf("Kind(%d).String() = %q, want %q", tc.kind, got, tc.expected)
		}
	}
}

func TestResolveFunc_Names(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
	}{
		{"sum", KindSum},
		{"plus", KindSum},
		{"add", KindSum},
		{"prod", KindProd},
		{"product", KindProd},
		{"times", KindProd},
		{"multiply", KindProd},
		{"min", KindMin},
		{"amin", KindMin},
		{"minimum", KindMin},
		{"max", KindMax},
		{"amax", KindMax},
		{"maximum", KindMax},
		{"mean", KindMean},
		{"var", KindVar},
		{"variance", KindVar},
		{"std", KindStd},
		{"all", KindAll},
		{"and", KindAll},
		{"any", KindAny},
		{"or", KindAny},
		{"first", KindFirst},
		{"last", KindLast},
		{"allnan", KindAllNaN},
		{"anynan", KindAnyNaN},
		{"array", KindArray},
		{"split", KindArray},
		{"splice", KindArray},
		{"sort", KindSort},
		{"sorted", KindSort},
		{"asort", KindSort},
		{"rsort", KindRSort},
		{"dsorted", KindRSort},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, err := resolveFunc(tc.name, false)
			if err != nil {
				t.Fatalf("resolveFunc(%q) error: %v", tc.name, err)
			}
			if r.kind != tc.kind {
				t.Errorf("resolveFunc(%q).kind = %s, want %s", tc.name, r.kind, tc.kind)
			}
			if r.nanAware {
				t.Errorf("resolveFunc(%q) should not be nan-aware", tc.name)
			}
		})
	}
}

func TestResolveFunc_CaseInsensitive(t *testing.T) {
	for _, name := range []string{"SUM", "Mean", "NanMax", "NANSUM"} {
		if _, err := resolveFunc(name, false); err != nil {
			t.Errorf("resolveFunc(%q) error: %v", name, err)
		}
	}
}

func TestResolveFunc_NanVariants(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
	}{
		{"nansum", KindSum},
		{"nanprod", KindProd},
		{"nanmin", KindMin},
		{"nanmax", KindMax},
		{"nanmean", KindMean},
		{"nanvar", KindVar},
		{"nanstd", KindStd},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, err := resolveFunc(tc.name, false)
			if err != nil {
				t.Fatalf("resolveFunc(%q) error: %v", tc.name, err)
			}
			if r.kind != tc.kind || !r.nanAware {
				t.Errorf("resolveFunc(%q) = (%s, nanAware=%v), want (%s, true)", tc.name, r.kind, r.nanAware, tc.kind)
			}
		})
	}
}

func TestResolveFunc_NoNanVersion(t *testing.T) {
	for _, name := range []string{"nanfirst", "nanlast", "nanall", "nanany", "nanarray", "nansort", "nanrsort", "nanallnan"} {
		_, err := resolveFunc(name, false)
		if !errors.Is(err, ErrNoNanVersion) {
			t.Errorf("resolveFunc(%q) = %v, want ErrNoNanVersion", name, err)
		}
	}
}

func TestResolveFunc_ScalarRejectsNan(t *testing.T) {
	_, err := resolveFunc("nansum", true)
	if !errors.Is(err, ErrNoNanVersion) {
		t.Errorf("resolveFunc(nansum, scalar) = %v, want ErrNoNanVersion", err)
	}
	// Plain names stay valid for scalar values.
	if _, err := resolveFunc("sum", true); err != nil {
		t.Errorf("resolveFunc(sum, scalar) error: %v", err)
	}
}

func TestResolveFunc_Unknown(t *testing.T) {
	for _, fn := range []any{"median", "nanmedian", "", 42, Kind(200)} {
		_, err := resolveFunc(fn, false)
		if !errors.Is(err, ErrUnknownFunction) {
			t.Errorf("resolveFunc(%v) = %v, want ErrUnknownFunction", fn, err)
		}
	}
}

func TestResolveFunc_Defaults(t *testing.T) {
	r, err := resolveFunc(nil, false)
	if err != nil {
		t.Fatalf("resolveFunc(nil) error: %v", err)
	}
	if r.kind != KindSum || r.call != nil {
		t.Errorf("resolveFunc(nil) = %+v, want KindSum", r)
	}

	r, err = resolveFunc(KindMax, false)
	if err != nil {
		t.Fatalf("resolveFunc(KindMax) error: %v", err)
	}
	if r.kind != KindMax {
		t.Errorf("resolveFunc(KindMax).kind = %s, want max", r.kind)
	}
}

func TestResolveFunc_Callable(t *testing.T) {
	spread := func(group []float64) float64 {
		lo, hi := group[0], group[0]
		for _, v := range group[1:] {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		return hi - lo
	}

	r, err := resolveFunc(Callable(spread), false)
	if err != nil {
		t.Fatalf("resolveFunc(Callable) error: %v", err)
	}
	if r.call == nil {
		t.Fatal("resolveFunc(Callable) should carry the callable")
	}
	if got := r.call([]float64{1, 5, 3}); got != 4 {
		t.Errorf("callable([1 5 3]) = %v, want 4", got)
	}

	// A bare func literal is accepted without the Callable conversion.
	r, err = resolveFunc(spread, false)
	if err != nil {
		t.Fatalf("resolveFunc(func) error: %v", err)
	}
	if r.call == nil {
		t.Error("resolveFunc(func) should carry the callable")
	}

	if _, err := resolveFunc(Callable(nil), false); !errors.Is(err, ErrUnknownFunction) {
		t.Errorf("resolveFunc(nil Callable) = %v, want ErrUnknownFunction", err)
	}
}

func TestKind_Predicates(t *testing.T) {
	if !KindAll.isBool() || !KindAnyNaN.isBool() || KindSum.isBool() {
		t.Error("isBool misclassifies")
	}
	if !KindArray.isGrouping() || !KindRSort.isGrouping() || KindMean.isGrouping() {
		t.Error("isGrouping misclassifies")
	}
	if !KindMean.isDividing() || !KindStd.isDividing() || KindSum.isDividing() {
		t.Error("isDividing misclassifies")
	}
	if !KindSum.hasNaNVariant() || KindFirst.hasNaNVariant() {
		t.Error("hasNaNVariant misclassifies")
	}
}

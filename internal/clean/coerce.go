// Package clean normalizes the raw regional CSV datasets into canonical records.
//
// Numeric coercion never fails: values that do not parse become null (income),
// zero (counts) or cause the row to be dropped (stop coordinates).
package clean

import (
	"math"
	"strconv"
	"strings"

	"github.com/sells-group/greater-sydney/internal/model"
)

// toFloat parses s as a finite float. ok is false for empty, non-numeric, NaN
// and infinite input.
func toFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// toNullFloat coerces s to a NullFloat, null on failure.
func toNullFloat(s string) model.NullFloat {
	v, ok := toFloat(s)
	if !ok {
		return model.NullFloat{}
	}
	return model.NewNullFloat(v)
}

// toCount coerces s to a non-negative integer count. Fractions truncate toward
// zero; anything unparseable or negative becomes 0. ok reports whether the
// input was used as-is.
func toCount(s string) (int, bool) {
	v, ok := toFloat(s)
	if !ok || v < 0 || v >= math.MaxInt64 {
		return 0, false
	}
	return int(v), true
}

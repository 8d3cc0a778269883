package model

import (
	"math"
	"strconv"
	"strings"
)

// NullFloat is a float64 that may be missing. A missing value is written as an
// empty CSV field.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// NewNullFloat returns a valid NullFloat holding v.
func NewNullFloat(v float64) NullFloat {
	return NullFloat{Float64: v, Valid: true}
}

// MarshalCSV implements csvutil.Marshaler.
func (n NullFloat) MarshalCSV() ([]byte, error) {
	if !n.Valid {
		return nil, nil
	}
	return strconv.AppendFloat(nil, n.Float64, 'f', -1, 64), nil
}

// UnmarshalCSV implements csvutil.Unmarshaler. Anything that is not a finite
// number decodes to null.
func (n *NullFloat) UnmarshalCSV(data []byte) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		*n = NullFloat{}
		return nil
	}
	*n = NewNullFloat(v)
	return nil
}

package exemplar

import (
	"math"

	"github.com/usestring/exemplar-mcp/pkg/document"
)

// IsInt32 reports whether f is integral and fits a signed 32-bit integer.
func IsInt32(f float64) bool {
	return f == math.Trunc(f) && f >= math.MinInt32 && f <= math.MaxInt32
}

// FindFloat scans values in order, descending depth-first into arrays, and
// returns the first number for which isInt32 is false.
func FindFloat(values []document.Value, isInt32 func(float64) bool) (document.Value, bool) {
	for _, v := range values {
		switch v.Kind() {
		case document.KindArray:
			if found, ok := FindFloat(v.Elems(), isInt32); ok {
				return found, true
			}
		case document.KindNumber:
			if !isInt32(v.Float()) {
				return v, true
			}
		}
	}
	return document.Null(), false
}

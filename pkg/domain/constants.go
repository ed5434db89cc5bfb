package domain

import "math"

// Math constants shared by the planning components.
const (
	Epsilon  = 1e-9
	Infinity = math.MaxFloat64

	// WeightTolerance bounds how far a weight set may drift from 1.0.
	WeightTolerance = 1e-6

	// MaxReciprocal caps guarded reciprocals (1/x with x near zero).
	MaxReciprocal = 1e6
)

// FloatEquals compares two float64 values within Epsilon.
func FloatEquals(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// IsZero reports whether v is zero within Epsilon.
func IsZero(v float64) bool {
	return math.Abs(v) < Epsilon
}

// SafeReciprocal returns 1/v, or MaxReciprocal when v is zero or negative
// within Epsilon. Callers rely on the result being large but finite.
func SafeReciprocal(v float64) float64 {
	if v < Epsilon {
		return MaxReciprocal
	}
	return 1.0 / v
}

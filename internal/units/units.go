package units

import "math"

// KmPerMileFactor converts kilometers to statute miles.
const KmPerMileFactor = 0.621371

// MilesFromKm converts kilometers to miles at full precision.
// NaN and infinite inputs yield 0 so a record without a route cannot
// poison an aggregate sum.
func MilesFromKm(km float64) float64 {
	if math.IsNaN(km) || math.IsInf(km, 0) {
		return 0
	}
	return km * KmPerMileFactor
}

// RoundTenth rounds to one decimal place for display.
// Never call this before a threshold comparison.
func RoundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// RoundWhole rounds half away from zero to the nearest integer.
func RoundWhole(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Round(v))
}

// Finite returns v, or 0 when v is NaN or infinite.
func Finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

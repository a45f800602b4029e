// Package geometry holds the coordinate math shared by the editor, the
// exporters and the terminal renderer.
package geometry

import (
	"math"
	"strconv"
)

// Abs returns the absolute value of x.
func Abs(x float64) float64 {
	return math.Abs(x)
}

// Clamp limits v to the closed range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ManhattanDistance calculates the Manhattan distance between two points.
func ManhattanDistance(a, b Point) float64 {
	return Abs(b.X-a.X) + Abs(b.Y-a.Y)
}

// IsHorizontal returns true if the line from a to b is more horizontal than vertical.
func IsHorizontal(a, b Point) bool {
	return Abs(b.X-a.X) > Abs(b.Y-a.Y)
}

// Round rounds to the nearest integer with halves going towards positive
// infinity, so -2.5 becomes -2.
func Round(v float64) float64 {
	return math.Floor(v + 0.5)
}

// FormatNumber prints v in the shortest form that round-trips, without an
// exponent for the coordinate ranges a diagram uses.
func FormatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	a := math.Abs(v)
	if a < 1e-6 || a >= 1e21 {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

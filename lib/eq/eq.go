/*
package eq is a simple package for telling whether two arrays are equal to
one another.
*/
package eq

import (
	"math"
)

// Bytes returns true if two []byte arrays are the same and false otherwise.
func Bytes(x, y []byte) bool {
	return FirstBytesDiff(x, y) == -1
}

// FirstBytesDiff returns the first index where x and y differ, or -1 if they
// are the same. Arrays of different lengths differ at the end of the shorter
// one.
func FirstBytesDiff(x, y []byte) int {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	for i := 0; i < n; i++ {
		if x[i] != y[i] {
			return i
		}
	}
	if len(x) != len(y) {
		return n
	}
	return -1
}

// Float32s returns true if two []float32 arrays have bitwise identical
// elements and false otherwise. Unlike ==, this treats identical NaNs as
// equal and distinguishes 0 from -0.
func Float32s(x, y []float32) bool {
	return FirstFloat32sDiff(x, y) == -1
}

// FirstFloat32sDiff is the []float32 version of FirstBytesDiff. Elements are
// compared bitwise.
func FirstFloat32sDiff(x, y []float32) int {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	for i := 0; i < n; i++ {
		if math.Float32bits(x[i]) != math.Float32bits(y[i]) {
			return i
		}
	}
	if len(x) != len(y) {
		return n
	}
	return -1
}

package dumpio

/* vec.go handles interleaved arrays of 3-vectors. On disk these are flat
arrays of float32 triples, in memory they are []Vec. */

import (
	"encoding/binary"
	"io"
	"unsafe"
)

// vecSize is the size in bytes of one Vec on disk.
const vecSize = 12

// Vec is a single 3-vector record: a velocity or a position.
type Vec [3]float32

// Floats returns a flat view of v with 3*len(v) elements. The view shares
// memory with v, so writes to one show up in the other.
func Floats(v []Vec) []float32 {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice(&v[0][0], 3*len(v))
}

// Components copies the x, y, and z components of v into separate arrays.
func Components(v []Vec) (x, y, z []float32) {
	x = make([]float32, len(v))
	y = make([]float32, len(v))
	z = make([]float32, len(v))
	for i := range v {
		x[i], y[i], z[i] = v[i][0], v[i][1], v[i][2]
	}
	return x, y, z
}

// readVecs fills v from rd. binary.Read does a bunch of heap allocations
// on [][3]float32 arrays, so the flat view is read instead.
func readVecs(rd io.Reader, v []Vec) error {
	if len(v) == 0 {
		return nil
	}
	return binary.Read(rd, order, Floats(v))
}

func writeVecs(wr io.Writer, v []Vec) error {
	if len(v) == 0 {
		return nil
	}
	return binary.Write(wr, order, Floats(v))
}

/*package dumpio contains functions for reading and writing the binary dumps
written by the MPM solver. There are two kinds of dump, both little endian and
without any padding:

  Velocity grid (e.g. v_0003.bin):
    |-- 1 --||-- 2 --||-- ... 3 ... --|
    1 - ([3]int32) Grid dimensions nx, ny, nz.
    2 - (float32) Grid spacing.
    3 - ([nx*ny*nz][3]float32) Velocity of each cell. Cell (i, j, k) is
        record i + j*nx + k*nx*ny.

  Particle positions (e.g. particles_0002.txt, which is binary despite the
  name):
    |-- 1 --||-- ... 2 ... --|
    1 - (int32) Number of particles, n.
    2 - ([n][3]float32) Position of each particle.

Any dump may also be stored as a zstd frame with a ".zst" suffix, in which
case it is inflated transparently before decoding.
*/
package dumpio

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrFormat is wrapped by every error caused by the contents of a dump,
	// as opposed to an error reading it.
	ErrFormat = errors.New("malformed dump")

	order = binary.LittleEndian
)

// FormatError reports a dump whose contents don't match its header.
type FormatError struct {
	FileName string
	Msg      string
}

func (e *FormatError) Error() string {
	if e.FileName == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.FileName, e.Msg)
}

func (e *FormatError) Unwrap() error { return ErrFormat }

func formatErrorf(format string, a ...interface{}) error {
	return &FormatError{Msg: fmt.Sprintf(format, a...)}
}

// withFileName attaches a file name to format errors which were raised before
// the name was known.
func withFileName(err error, fileName string) error {
	var fe *FormatError
	if errors.As(err, &fe) && fe.FileName == "" {
		fe.FileName = fileName
	}
	return err
}

// Header is an abstraction over the headers of the two dump types.
type Header interface {
	// ToBytes converts the Header to the bytes it is stored as on disk.
	ToBytes() []byte
	// PayloadSize is the number of bytes which must follow the header.
	PayloadSize() int64
}

// checkPayload returns a FormatError unless n bytes is exactly the payload
// size that hd requires.
func checkPayload(hd Header, n int64) error {
	if exp := hd.PayloadSize(); exp != n {
		return formatErrorf("The header requires %d bytes of data after "+
			"it, but there are %d. The file is either truncated or was not "+
			"written by the solver.", exp, n)
	}
	return nil
}

// Type checking
var (
	_ Header = &GridHeader{}
	_ Header = &ParticleHeader{}
)

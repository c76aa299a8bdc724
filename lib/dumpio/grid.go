package dumpio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/phil-mansfield/mpmdump/lib/compress"
)

const (
	gridHeaderSize = 16
	// maxPayload is far larger than any real dump. Headers asking for more
	// are garbage, and this keeps the size arithmetic from overflowing.
	maxPayload = int64(1) << 50
)

// GridHeader is the header of a velocity-grid dump. Its layout is identical
// to the one on disk.
type GridHeader struct {
	Size    [3]int32
	Spacing float32
}

// Cells returns the number of grid cells, nx*ny*nz.
func (hd *GridHeader) Cells() int {
	return int(hd.Size[0]) * int(hd.Size[1]) * int(hd.Size[2])
}

func (hd *GridHeader) ToBytes() []byte {
	buf := &bytes.Buffer{}
	if err := binary.Write(buf, order, hd); err != nil {
		panic(fmt.Sprintf("Internal error: %s", err.Error()))
	}
	return buf.Bytes()
}

func (hd *GridHeader) PayloadSize() int64 {
	return int64(hd.Size[0]) * int64(hd.Size[1]) * int64(hd.Size[2]) * vecSize
}

// check returns a FormatError if the dimensions can't describe a real grid.
func (hd *GridHeader) check() error {
	for dim := 0; dim < 3; dim++ {
		if hd.Size[dim] < 0 {
			return formatErrorf("Grid dimension %d is %d, but dimensions "+
				"can't be negative.", dim, hd.Size[dim])
		}
	}

	est := float64(hd.Size[0]) * float64(hd.Size[1]) *
		float64(hd.Size[2]) * vecSize
	if est > float64(maxPayload) {
		return formatErrorf("Grid dimensions %d x %d x %d would require "+
			"%g bytes of velocity data, which is almost certainly garbage.",
			hd.Size[0], hd.Size[1], hd.Size[2], est)
	}
	return nil
}

// Grid is a decoded velocity-grid dump.
type Grid struct {
	GridHeader
	// V has one velocity per cell.
	V []Vec
}

// DecodeGrid decodes the bytes of a velocity-grid dump. It returns a
// FormatError if b is shorter than the header or if the amount of velocity
// data doesn't match the grid dimensions.
func DecodeGrid(b []byte) (*Grid, error) {
	hd, err := decodeGridHeader(b)
	if err != nil {
		return nil, err
	}
	if err = checkPayload(hd, int64(len(b)-gridHeaderSize)); err != nil {
		return nil, err
	}

	g := &Grid{GridHeader: *hd, V: make([]Vec, hd.Cells())}
	err = readVecs(bytes.NewReader(b[gridHeaderSize:]), g.V)
	if err != nil {
		return nil, fmt.Errorf("Internal error: %s. The payload size was "+
			"already checked, so this shouldn't happen.", err.Error())
	}

	return g, nil
}

func decodeGridHeader(b []byte) (*GridHeader, error) {
	if len(b) < gridHeaderSize {
		return nil, formatErrorf("A velocity-grid dump needs a %d byte "+
			"header, but there are only %d bytes.", gridHeaderSize, len(b))
	}

	hd := &GridHeader{}
	err := binary.Read(bytes.NewReader(b[:gridHeaderSize]), order, hd)
	if err != nil {
		return nil, err
	}
	if err = hd.check(); err != nil {
		return nil, err
	}
	return hd, nil
}

// ReadGrid reads and decodes the velocity-grid dump in fileName.
func ReadGrid(fileName string) (*Grid, error) {
	b, err := compress.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	g, err := DecodeGrid(b)
	if err != nil {
		return nil, withFileName(err, fileName)
	}
	return g, nil
}

// ReadGridHeader reads the header of the velocity-grid dump in fileName and
// checks it against the size of the file without decoding the velocities.
// Compressed files need to be inflated to do this.
func ReadGridHeader(fileName string) (*GridHeader, error) {
	if compress.IsCompressed(fileName) {
		b, err := compress.ReadFile(fileName)
		if err != nil {
			return nil, err
		}
		hd, err := decodeGridHeader(b)
		if err == nil {
			err = checkPayload(hd, int64(len(b)-gridHeaderSize))
		}
		if err != nil {
			return nil, withFileName(err, fileName)
		}
		return hd, nil
	}

	f, err := os.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("The file %s cannot be opened: %w",
			fileName, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("Could not stat %s: %w", fileName, err)
	} else if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a velocity-grid "+
			"dump.", fileName)
	}

	b := make([]byte, gridHeaderSize)
	n, err := io.ReadFull(f, b)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("Could not read %s: %w", fileName, err)
	}

	hd, err := decodeGridHeader(b[:n])
	if err == nil {
		err = checkPayload(hd, info.Size()-gridHeaderSize)
	}
	if err != nil {
		return nil, withFileName(err, fileName)
	}
	return hd, nil
}

// Index returns the index into g.V of cell (i, j, k).
func (g *Grid) Index(i, j, k int) (int, error) {
	idx := [3]int{i, j, k}
	for dim := 0; dim < 3; dim++ {
		if idx[dim] < 0 || idx[dim] >= int(g.Size[dim]) {
			return -1, fmt.Errorf("Cell (%d, %d, %d) is outside the "+
				"%d x %d x %d grid.", i, j, k,
				g.Size[0], g.Size[1], g.Size[2])
		}
	}
	nx, ny := int(g.Size[0]), int(g.Size[1])
	return i + j*nx + k*nx*ny, nil
}

// At returns the velocity of cell (i, j, k).
func (g *Grid) At(i, j, k int) (Vec, error) {
	idx, err := g.Index(i, j, k)
	if err != nil {
		return Vec{}, err
	}
	return g.V[idx], nil
}

// Flat returns the velocities as the flat, interleaved array stored on disk.
// It shares memory with g.V.
func (g *Grid) Flat() []float32 { return Floats(g.V) }

// Components returns the x, y, and z velocity components of every cell.
func (g *Grid) Components() (vx, vy, vz []float32) { return Components(g.V) }

// PositiveIndices returns the indices into Flat() of every velocity component
// which is strictly greater than zero, in increasing order.
func (g *Grid) PositiveIndices() []int {
	out := []int{}
	for i, v := range g.Flat() {
		if v > 0 {
			out = append(out, i)
		}
	}
	return out
}

// Write encodes g in the velocity-grid format.
func (g *Grid) Write(wr io.Writer) error {
	if err := g.check(); err != nil {
		return err
	}
	if len(g.V) != g.Cells() {
		return fmt.Errorf("A %d x %d x %d grid needs %d velocities, but "+
			"has %d.", g.Size[0], g.Size[1], g.Size[2], g.Cells(), len(g.V))
	}

	if err := binary.Write(wr, order, &g.GridHeader); err != nil {
		return err
	}
	return writeVecs(wr, g.V)
}

package dumpio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/phil-mansfield/mpmdump/lib/compress"
)

const particleHeaderSize = 4

// ParticleHeader is the header of a particle-position dump.
type ParticleHeader struct {
	N int32
}

func (hd *ParticleHeader) ToBytes() []byte {
	b := make([]byte, particleHeaderSize)
	order.PutUint32(b, uint32(hd.N))
	return b
}

func (hd *ParticleHeader) PayloadSize() int64 { return int64(hd.N) * vecSize }

func (hd *ParticleHeader) check() error {
	if hd.N < 0 {
		return formatErrorf("The particle count is %d, but counts can't "+
			"be negative.", hd.N)
	}
	return nil
}

// Particles is a decoded particle-position dump.
type Particles struct {
	ParticleHeader
	// X has one position per particle.
	X []Vec
}

// DecodeParticles decodes the bytes of a particle-position dump. It returns a
// FormatError if b is shorter than the header or if the amount of position
// data doesn't match the particle count.
func DecodeParticles(b []byte) (*Particles, error) {
	hd, err := decodeParticleHeader(b)
	if err != nil {
		return nil, err
	}
	if err = checkPayload(hd, int64(len(b)-particleHeaderSize)); err != nil {
		return nil, err
	}

	p := &Particles{ParticleHeader: *hd, X: make([]Vec, hd.N)}
	err = readVecs(bytes.NewReader(b[particleHeaderSize:]), p.X)
	if err != nil {
		return nil, fmt.Errorf("Internal error: %s. The payload size was "+
			"already checked, so this shouldn't happen.", err.Error())
	}

	return p, nil
}

func decodeParticleHeader(b []byte) (*ParticleHeader, error) {
	if len(b) < particleHeaderSize {
		return nil, formatErrorf("A particle dump needs a %d byte header, "+
			"but there are only %d bytes.", particleHeaderSize, len(b))
	}

	hd := &ParticleHeader{N: int32(order.Uint32(b))}
	if err := hd.check(); err != nil {
		return nil, err
	}
	return hd, nil
}

// ReadParticles reads and decodes the particle-position dump in fileName.
func ReadParticles(fileName string) (*Particles, error) {
	b, err := compress.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	p, err := DecodeParticles(b)
	if err != nil {
		return nil, withFileName(err, fileName)
	}
	return p, nil
}

// ReadParticleHeader reads the header of the particle dump in fileName and
// checks it against the size of the file without decoding the positions.
func ReadParticleHeader(fileName string) (*ParticleHeader, error) {
	if compress.IsCompressed(fileName) {
		b, err := compress.ReadFile(fileName)
		if err != nil {
			return nil, err
		}
		hd, err := decodeParticleHeader(b)
		if err == nil {
			err = checkPayload(hd, int64(len(b)-particleHeaderSize))
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
		return nil, fmt.Errorf("%s is a directory, not a particle dump.",
			fileName)
	}

	b := make([]byte, particleHeaderSize)
	n, err := io.ReadFull(f, b)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("Could not read %s: %w", fileName, err)
	}

	hd, err := decodeParticleHeader(b[:n])
	if err == nil {
		err = checkPayload(hd, info.Size()-particleHeaderSize)
	}
	if err != nil {
		return nil, withFileName(err, fileName)
	}
	return hd, nil
}

// Write encodes p in the particle-position format.
func (p *Particles) Write(wr io.Writer) error {
	if err := p.check(); err != nil {
		return err
	}
	if len(p.X) != int(p.N) {
		return fmt.Errorf("The header says there are %d particles, but "+
			"there are %d positions.", p.N, len(p.X))
	}

	if err := binary.Write(wr, order, p.N); err != nil {
		return err
	}
	return writeVecs(wr, p.X)
}

package dumpio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/mpmdump/lib/compress"
)

// gridBytes builds a velocity-grid dump by hand so the tests don't depend on
// Grid.Write.
func gridBytes(size [3]int32, spacing float32, v []float32) []byte {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.LittleEndian, size)
	binary.Write(buf, binary.LittleEndian, spacing)
	binary.Write(buf, binary.LittleEndian, v)
	return buf.Bytes()
}

func writeFile(t *testing.T, name string, b []byte) string {
	t.Helper()
	fileName := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(fileName, b, 0644))
	return fileName
}

func TestDecodeGrid(t *testing.T) {
	b := gridBytes([3]int32{1, 1, 2}, 0.5, []float32{1, -1, 0, 0, 2, -3})

	g, err := DecodeGrid(b)
	require.NoError(t, err)

	assert.Equal(t, [3]int32{1, 1, 2}, g.Size)
	assert.Equal(t, float32(0.5), g.Spacing)
	assert.Equal(t, 2, g.Cells())
	assert.Equal(t, []Vec{{1, -1, 0}, {0, 2, -3}}, g.V)
	assert.Equal(t, []int{0, 4}, g.PositiveIndices())

	vx, vy, vz := g.Components()
	assert.Equal(t, []float32{1, 0}, vx)
	assert.Equal(t, []float32{-1, 2}, vy)
	assert.Equal(t, []float32{0, -3}, vz)
}

func TestDecodeGridEmpty(t *testing.T) {
	g, err := DecodeGrid(gridBytes([3]int32{0, 4, 4}, 1, nil))
	require.NoError(t, err)
	assert.Equal(t, 0, g.Cells())
	assert.Empty(t, g.V)
	assert.Empty(t, g.PositiveIndices())
}

func TestDecodeGridFormatErrors(t *testing.T) {
	good := gridBytes([3]int32{2, 1, 1}, 1, []float32{1, 2, 3, 4, 5, 6})

	tests := []struct {
		name string
		b    []byte
	}{
		{"empty", nil},
		{"short header", good[:15]},
		{"header only", good[:16]},
		{"truncated payload", good[:len(good)-4]},
		{"partial float", good[:len(good)-1]},
		{"extra data", append(append([]byte{}, good...), 0, 0, 0, 0)},
		{"negative dimension", gridBytes([3]int32{-2, -1, 1}, 1,
			[]float32{1, 2, 3, 4, 5, 6})},
		{"huge dimensions", gridBytes([3]int32{1 << 30, 1 << 30, 1 << 30},
			1, nil)},
	}

	for _, test := range tests {
		g, err := DecodeGrid(test.b)
		assert.Nil(t, g, test.name)
		require.Error(t, err, test.name)
		assert.True(t, errors.Is(err, ErrFormat), test.name)

		var fe *FormatError
		assert.True(t, errors.As(err, &fe), test.name)
	}
}

func TestGridIndex(t *testing.T) {
	size := [3]int32{2, 3, 4}
	v := make([]float32, 2*3*4*3)
	for i := 0; i < len(v); i += 3 {
		v[i] = float32(i / 3)
	}

	g, err := DecodeGrid(gridBytes(size, 0.25, v))
	require.NoError(t, err)

	for k := 0; k < 4; k++ {
		for j := 0; j < 3; j++ {
			for i := 0; i < 2; i++ {
				idx, err := g.Index(i, j, k)
				require.NoError(t, err)
				assert.Equal(t, i+j*2+k*6, idx)

				vec, err := g.At(i, j, k)
				require.NoError(t, err)
				assert.Equal(t, float32(idx), vec[0])
			}
		}
	}

	bad := [][3]int{{-1, 0, 0}, {2, 0, 0}, {0, 3, 0}, {0, 0, 4}, {0, -1, 0}}
	for _, c := range bad {
		_, err := g.Index(c[0], c[1], c[2])
		assert.Error(t, err, "%v", c)
		_, err = g.At(c[0], c[1], c[2])
		assert.Error(t, err, "%v", c)
	}
}

func TestGridPositiveIndices(t *testing.T) {
	rng := rand.New(rand.NewSource(1337))
	size := [3]int32{4, 3, 5}
	v := make([]float32, 4*3*5*3)
	for i := range v {
		switch rng.Intn(4) {
		case 0:
			v[i] = 0
		case 1:
			v[i] = -rng.Float32()
		default:
			v[i] = rng.Float32()
		}
	}
	v[7] = float32(math.NaN())
	v[8] = float32(math.Inf(1))
	v[9] = float32(math.Copysign(0, -1))

	g, err := DecodeGrid(gridBytes(size, 1, v))
	require.NoError(t, err)
	idx := g.PositiveIndices()

	exp := []int{}
	for i := range v {
		if v[i] > 0 {
			exp = append(exp, i)
		}
	}
	assert.Equal(t, exp, idx)
	assert.Contains(t, idx, 8)
	assert.NotContains(t, idx, 7)
	assert.NotContains(t, idx, 9)

	for i := 1; i < len(idx); i++ {
		assert.Less(t, idx[i-1], idx[i])
	}
}

func TestGridFlatAliases(t *testing.T) {
	g := &Grid{
		GridHeader: GridHeader{Size: [3]int32{2, 1, 1}, Spacing: 1},
		V:          []Vec{{1, 2, 3}, {4, 5, 6}},
	}

	flat := g.Flat()
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, flat)
	flat[4] = -5
	assert.Equal(t, Vec{4, -5, 6}, g.V[1])

	assert.Nil(t, Floats(nil))
}

func TestGridWrite(t *testing.T) {
	v := []float32{1.5, -2, 0, 3, 4, 5e-8, -6, 7, 8}
	exp := gridBytes([3]int32{3, 1, 1}, 0.125, v)

	g, err := DecodeGrid(exp)
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	require.NoError(t, g.Write(buf))
	assert.Equal(t, exp, buf.Bytes())
	assert.Equal(t, exp[:gridHeaderSize], g.ToBytes())

	g.V = g.V[:2]
	assert.Error(t, g.Write(&bytes.Buffer{}))
	g.Size[0] = -3
	assert.Error(t, g.Write(&bytes.Buffer{}))
}

func TestReadGrid(t *testing.T) {
	b := gridBytes([3]int32{1, 1, 2}, 0.5, []float32{1, -1, 0, 0, 2, -3})
	raw := writeFile(t, "v_0003.bin", b)

	zb, err := compress.Compress(nil, b, compress.DefaultLevel)
	require.NoError(t, err)
	zst := writeFile(t, "v_0003.bin.zst", zb)

	for _, fileName := range []string{raw, zst} {
		g, err := ReadGrid(fileName)
		require.NoError(t, err, fileName)
		assert.Equal(t, []int{0, 4}, g.PositiveIndices())

		hd, err := ReadGridHeader(fileName)
		require.NoError(t, err, fileName)
		assert.Equal(t, g.GridHeader, *hd)
	}
}

func TestReadGridErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := ReadGrid(filepath.Join(dir, "missing.bin"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	_, err = ReadGridHeader(filepath.Join(dir, "missing.bin"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = ReadGridHeader(dir)
	assert.Error(t, err)

	b := gridBytes([3]int32{2, 2, 2}, 1, make([]float32, 2*2*2*3))
	short := writeFile(t, "short.bin", b[:len(b)-12])

	_, err = ReadGrid(short)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFormat))
	assert.Contains(t, err.Error(), short)

	_, err = ReadGridHeader(short)
	assert.True(t, errors.Is(err, ErrFormat))

	tiny := writeFile(t, "tiny.bin", b[:5])
	_, err = ReadGridHeader(tiny)
	assert.True(t, errors.Is(err, ErrFormat))
}

/*package compress handles zstd compression of whole dump files. Compressed
dumps are plain zstd frames, so they can also be inflated with the zstd command
line tool.
*/
package compress

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/DataDog/zstd"
)

const (
	// Extension is appended to the name of a dump file when it is compressed.
	Extension = ".zst"
	// DefaultLevel is the compression level used when none is configured.
	DefaultLevel = 1
	// MinLevel and MaxLevel bound the levels zstd accepts.
	MinLevel = 1
	MaxLevel = 22
)

// IsCompressed returns true if the file name marks a compressed dump.
func IsCompressed(fileName string) bool {
	return strings.HasSuffix(fileName, Extension)
}

// CompressedName returns the name that the compressed version of fileName is
// written to.
func CompressedName(fileName string) string {
	return fileName + Extension
}

// Compress compresses b at the given level. buf is a buffer used internally
// and will be resized as needed; pass nil if you don't care about heap
// allocations.
func Compress(buf, b []byte, level int) ([]byte, error) {
	if level < MinLevel || level > MaxLevel {
		return nil, fmt.Errorf("Compression level %d is outside the valid "+
			"range [%d, %d].", level, MinLevel, MaxLevel)
	}
	return zstd.CompressLevel(buf, b, level)
}

// Decompress inflates a zstd frame. buf is used the same way as in Compress.
func Decompress(buf, b []byte) ([]byte, error) {
	out, err := zstd.Decompress(buf, b)
	if err != nil {
		return nil, fmt.Errorf("Could not decompress %d bytes of zstd "+
			"data: %w", len(b), err)
	}
	return out, nil
}

// ReadFile returns the contents of a file, inflating it first if its name ends
// in Extension. The file is only held open for the duration of the read.
func ReadFile(fileName string) ([]byte, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("The file %s cannot be opened: %w",
			fileName, err)
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("Could not read %s: %w", fileName, err)
	}

	if !IsCompressed(fileName) {
		return b, nil
	}

	out, err := Decompress(nil, b)
	if err != nil {
		return nil, fmt.Errorf("%s is not a valid compressed dump: %w",
			fileName, err)
	}
	return out, nil
}

// CompressFile writes a compressed copy of inName to outName and returns the
// number of bytes before and after compression.
func CompressFile(inName, outName string, level int) (nIn, nOut int, err error) {
	if IsCompressed(inName) {
		return 0, 0, fmt.Errorf("%s is already compressed.", inName)
	}

	b, err := ReadFile(inName)
	if err != nil {
		return 0, 0, err
	}

	out, err := Compress(nil, b, level)
	if err != nil {
		return 0, 0, err
	}

	if err = os.WriteFile(outName, out, 0644); err != nil {
		return 0, 0, fmt.Errorf("Could not write %s: %w", outName, err)
	}

	return len(b), len(out), nil
}

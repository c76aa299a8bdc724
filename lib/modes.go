package lib

/* modes.go contains the bodies of mpmdump's reading modes. Each returns an
error instead of exiting so the main package can decide how to report it. */

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/phil-mansfield/mpmdump/lib/compress"
	"github.com/phil-mansfield/mpmdump/lib/dumpio"
	"github.com/phil-mansfield/mpmdump/lib/eq"
	"github.com/phil-mansfield/mpmdump/lib/stats"
)

// RunGrid runs the "grid" mode: every grid dump is decoded and reported with
// ReportGrid. A dump that fails to decode stops the run before anything is
// printed for it.
func RunGrid(args *Args, wr io.Writer) error {
	for _, fileName := range args.GridFiles {
		g, err := dumpio.ReadGrid(fileName)
		if err != nil {
			return err
		}
		if err = ReportGrid(wr, g); err != nil {
			return err
		}
	}
	return nil
}

// ReportGrid prints the grid dimensions as a tuple, the spacing, and then the
// flat index of every strictly positive velocity component on its own line.
func ReportGrid(wr io.Writer, g *dumpio.Grid) error {
	bw := bufio.NewWriter(wr)
	fmt.Fprintf(bw, "(%d, %d, %d)\n", g.Size[0], g.Size[1], g.Size[2])
	fmt.Fprintln(bw, FormatSpacing(g.Spacing))

	line := []byte{}
	for i, v := range g.Flat() {
		if v > 0 {
			line = strconv.AppendInt(line[:0], int64(i), 10)
			line = append(line, '\n')
			bw.Write(line)
		}
	}

	return bw.Flush()
}

// FormatSpacing prints a float32 after widening it to a float64: the shortest
// digits which round-trip the float64, exponent notation only for exponents
// below -4 or at least 16, and ".0" appended to integral values. So 0.1 prints as "0.10000000149011612" and
// 1e6 prints as "1000000.0".
func FormatSpacing(x float32) string {
	f := float64(x)
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	s := strconv.FormatFloat(f, 'e', -1, 64)
	exp, _ := strconv.Atoi(s[strings.IndexByte(s, 'e')+1:])
	if exp < -4 || exp >= 16 {
		return s
	}

	s = strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// RunParticles runs the "particles" mode: every particle dump is decoded and
// the positions are dropped. Nothing is printed.
func RunParticles(args *Args) error {
	for _, fileName := range args.ParticleFiles {
		if _, err := dumpio.ReadParticles(fileName); err != nil {
			return err
		}
	}
	return nil
}

// RunStats runs the "stats" mode, printing a summary of every dump.
func RunStats(args *Args, wr io.Writer) error {
	bw := bufio.NewWriter(wr)

	for _, fileName := range args.GridFiles {
		g, err := dumpio.ReadGrid(fileName)
		if err != nil {
			return err
		}
		fmt.Fprintf(bw, "# %s\n", fileName)
		if err = stats.SummarizeGrid(g).Write(bw); err != nil {
			return err
		}
	}

	for _, fileName := range args.ParticleFiles {
		p, err := dumpio.ReadParticles(fileName)
		if err != nil {
			return err
		}
		fmt.Fprintf(bw, "# %s\n", fileName)
		if err = stats.SummarizeParticles(p).Write(bw); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// allFiles returns every configured dump.
func allFiles(args *Args) []string {
	out := make([]string, 0, len(args.GridFiles)+len(args.ParticleFiles))
	out = append(out, args.GridFiles...)
	return append(out, args.ParticleFiles...)
}

// RunCompress runs the "compress" mode, writing a .zst copy of every dump.
func RunCompress(ctx context.Context, args *Args) error {
	files := allFiles(args)
	return ForEach(ctx, len(files), args.Threads,
		func(ctx context.Context, i int) error {
			out := compress.CompressedName(files[i])
			nIn, nOut, err := compress.CompressFile(
				files[i], out, args.CompressLevel,
			)
			if err != nil {
				return err
			}
			log.Printf("Compressed %s to %s: %d -> %d bytes.",
				files[i], out, nIn, nOut)
			return nil
		})
}

// RunConfirm runs the "confirm" mode, which checks that every dump decodes to
// exactly the same values as its .zst copy.
func RunConfirm(ctx context.Context, args *Args) error {
	nGrid := len(args.GridFiles)
	files := allFiles(args)
	return ForEach(ctx, len(files), args.Threads,
		func(ctx context.Context, i int) error {
			if i < nGrid {
				return confirmGrid(files[i])
			}
			return confirmParticles(files[i])
		})
}

func confirmGrid(fileName string) error {
	g1, err := dumpio.ReadGrid(fileName)
	if err != nil {
		return err
	}
	zName := compress.CompressedName(fileName)
	g2, err := dumpio.ReadGrid(zName)
	if err != nil {
		return err
	}

	return confirmDump(fileName, zName,
		g1.ToBytes(), g2.ToBytes(), g1.Flat(), g2.Flat())
}

func confirmParticles(fileName string) error {
	p1, err := dumpio.ReadParticles(fileName)
	if err != nil {
		return err
	}
	zName := compress.CompressedName(fileName)
	p2, err := dumpio.ReadParticles(zName)
	if err != nil {
		return err
	}

	return confirmDump(fileName, zName,
		p1.ToBytes(), p2.ToBytes(), dumpio.Floats(p1.X), dumpio.Floats(p2.X))
}

func confirmDump(name1, name2 string, hd1, hd2 []byte, x1, x2 []float32) error {
	if !eq.Bytes(hd1, hd2) {
		return fmt.Errorf("The headers of %s and %s differ: %v vs. %v.",
			name1, name2, hd1, hd2)
	}
	if i := eq.FirstFloat32sDiff(x1, x2); i != -1 {
		return fmt.Errorf("%s and %s first differ at flat index %d.",
			name1, name2, i)
	}
	log.Printf("%s matches %s.", name2, name1)
	return nil
}

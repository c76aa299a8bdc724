/*package stats computes summary statistics of decoded dumps. None of this is
printed by the plain grid and particle readers; it backs the "stats" mode.
*/
package stats

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/phil-mansfield/mpmdump/lib/dumpio"
)

// GridSummary describes the velocity field of a grid dump.
type GridSummary struct {
	Size    [3]int32
	Spacing float32
	// Cells is nx*ny*nz and Positive is the number of strictly positive
	// velocity components.
	Cells, Positive int
	// MeanV is the mean velocity vector.
	MeanV [3]float64
	// MeanSpeed, StdSpeed, and MaxSpeed describe |v| over all cells. StdSpeed
	// is NaN for grids with fewer than two cells.
	MeanSpeed, StdSpeed, MaxSpeed float64
}

// ParticleSummary describes the positions in a particle dump.
type ParticleSummary struct {
	N int
	// Centroid is the mean position. Min and Max are the corners of the
	// bounding box.
	Centroid, Min, Max [3]float64
	// CA and BA are the axis ratios c/a and b/a of the cloud, with
	// a >= b >= c. They are -1 if there are fewer than four particles.
	CA, BA float64
}

// SummarizeGrid computes the GridSummary of g.
func SummarizeGrid(g *dumpio.Grid) *GridSummary {
	s := &GridSummary{
		Size: g.Size, Spacing: g.Spacing,
		Cells: g.Cells(), Positive: len(g.PositiveIndices()),
	}
	if len(g.V) == 0 {
		s.MeanSpeed, s.StdSpeed, s.MaxSpeed = math.NaN(), math.NaN(), math.NaN()
		for dim := 0; dim < 3; dim++ {
			s.MeanV[dim] = math.NaN()
		}
		return s
	}

	speed := make([]float64, len(g.V))
	comp := make([][]float64, 3)
	for dim := range comp {
		comp[dim] = make([]float64, len(g.V))
	}

	for i, v := range g.V {
		for dim := 0; dim < 3; dim++ {
			comp[dim][i] = float64(v[dim])
		}
		speed[i] = math.Sqrt(comp[0][i]*comp[0][i] +
			comp[1][i]*comp[1][i] + comp[2][i]*comp[2][i])
	}

	for dim := 0; dim < 3; dim++ {
		s.MeanV[dim] = stat.Mean(comp[dim], nil)
	}
	s.MeanSpeed, s.StdSpeed = stat.MeanStdDev(speed, nil)
	s.MaxSpeed = floats.Max(speed)

	return s
}

// SummarizeParticles computes the ParticleSummary of p.
func SummarizeParticles(p *dumpio.Particles) *ParticleSummary {
	s := &ParticleSummary{N: len(p.X), CA: -1, BA: -1}
	if len(p.X) == 0 {
		for dim := 0; dim < 3; dim++ {
			s.Centroid[dim], s.Min[dim], s.Max[dim] =
				math.NaN(), math.NaN(), math.NaN()
		}
		return s
	}

	x := make([][3]float64, len(p.X))
	col := make([]float64, len(p.X))
	for dim := 0; dim < 3; dim++ {
		for i := range p.X {
			x[i][dim] = float64(p.X[i][dim])
			col[i] = x[i][dim]
		}
		s.Centroid[dim] = stat.Mean(col, nil)
		s.Min[dim], s.Max[dim] = floats.Min(col), floats.Max(col)
	}

	s.CA, s.BA = axisRatios(x, s.Centroid)
	return s
}

// axisRatios returns c/a and b/a for the second moment tensor of x around
// its centroid. It returns -1, -1 if the ratios aren't well defined.
func axisRatios(x [][3]float64, centroid [3]float64) (ca, ba float64) {
	if len(x) < 4 {
		return -1, -1
	}

	S := make([]float64, 9)
	for k := range x {
		var dx [3]float64
		for dim := 0; dim < 3; dim++ {
			dx[dim] = x[k][dim] - centroid[dim]
		}
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				S[i+3*j] += dx[i] * dx[j]
			}
		}
	}
	for i := range S {
		S[i] /= float64(len(x))
	}

	eig := &mat.EigenSym{}
	if ok := eig.Factorize(mat.NewSymDense(3, S), false); !ok {
		return -1, -1
	}
	// Values are in ascending order.
	val := eig.Values(nil)
	c2, b2, a2 := val[0], val[1], val[2]
	if a2 <= 0 {
		return -1, -1
	}

	return math.Sqrt(math.Max(c2, 0) / a2), math.Sqrt(math.Max(b2, 0) / a2)
}

// Write prints s to wr as "name = value" lines.
func (s *GridSummary) Write(wr io.Writer) error {
	_, err := fmt.Fprintf(wr,
		"Size = %d %d %d\nSpacing = %g\nCells = %d\nPositive = %d\n"+
			"MeanV = %.6g %.6g %.6g\nMeanSpeed = %.6g\nStdSpeed = %.6g\n"+
			"MaxSpeed = %.6g\n",
		s.Size[0], s.Size[1], s.Size[2], s.Spacing, s.Cells, s.Positive,
		s.MeanV[0], s.MeanV[1], s.MeanV[2],
		s.MeanSpeed, s.StdSpeed, s.MaxSpeed,
	)
	return err
}

// Write prints s to wr as "name = value" lines.
func (s *ParticleSummary) Write(wr io.Writer) error {
	_, err := fmt.Fprintf(wr,
		"N = %d\nCentroid = %.6g %.6g %.6g\nMin = %.6g %.6g %.6g\n"+
			"Max = %.6g %.6g %.6g\nCA = %.4f\nBA = %.4f\n",
		s.N, s.Centroid[0], s.Centroid[1], s.Centroid[2],
		s.Min[0], s.Min[1], s.Min[2], s.Max[0], s.Max[1], s.Max[2],
		s.CA, s.BA,
	)
	return err
}

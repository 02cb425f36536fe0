package sampler

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/pixelvec/pixelvec/internal/colorspace"
)

// maxQuantizeSamples caps the kmeans dataset so clustering stays tractable
// on large grids; beyond it, visible cells are strided.
const maxQuantizeSamples = 12000

// ReducePalette clusters the visible cells' colors into at most k groups
// and returns a new grid with every visible cell remapped to its nearest
// cluster center (Lab distance). Transparent cells pass through untouched,
// and each remapped cell keeps its original alpha.
//
// The input grid is returned unchanged when k <= 0, when k is not smaller
// than the number of unique visible colors, or when clustering fails.
func ReducePalette(grid Grid, ignored IgnoredSet, frame *Frame, k int) Grid {
	if k <= 0 {
		return grid
	}

	palette := ExtractPalette(grid, ignored, frame)
	if len(palette) <= k {
		return grid
	}

	centers := clusterCenters(grid, ignored, frame, k)
	if len(centers) == 0 {
		return grid
	}

	centerLab := make([][3]float64, len(centers))
	for i, c := range centers {
		l, a, b := toColorful(c).Lab()
		centerLab[i] = [3]float64{l, a, b}
	}

	startRow, endRow := 0, grid.Rows()-1
	startCol, endCol := 0, grid.Cols()-1
	if frame != nil {
		startRow, endRow = frame.StartRow, frame.EndRow
		startCol, endCol = frame.StartCol, frame.EndCol
	}

	out := make(Grid, grid.Rows())
	for row := range grid {
		out[row] = make([]*colorspace.Color, len(grid[row]))
		copy(out[row], grid[row])
	}

	for row := startRow; row <= endRow; row++ {
		for col := startCol; col <= endCol; col++ {
			c := out[row][col]
			if c == nil || c.A == 0 || ignored.Has(col, row) {
				continue
			}
			l, a, b := toColorful(*c).Lab()
			best := 0
			bestD := math.MaxFloat64
			for i, cl := range centerLab {
				dl := cl[0] - l
				da := cl[1] - a
				db := cl[2] - b
				d := dl*dl + da*da + db*db
				if d < bestD {
					bestD = d
					best = i
				}
			}
			mapped := centers[best]
			mapped.A = c.A
			out[row][col] = &mapped
		}
	}
	return out
}

// clusterCenters runs kmeans over the visible cells and returns the cluster
// centers as 8-bit colors, most populous cluster first.
func clusterCenters(grid Grid, ignored IgnoredSet, frame *Frame, k int) []colorspace.Color {
	startRow, endRow := 0, grid.Rows()-1
	startCol, endCol := 0, grid.Cols()-1
	if frame != nil {
		startRow, endRow = frame.StartRow, frame.EndRow
		startCol, endCol = frame.StartCol, frame.EndCol
	}

	total := (endRow - startRow + 1) * (endCol - startCol + 1)
	stride := 1
	if total > maxQuantizeSamples {
		stride = total/maxQuantizeSamples + 1
	}

	dataset := make(clusters.Observations, 0, min(total, maxQuantizeSamples))
	i := 0
	for row := startRow; row <= endRow; row++ {
		for col := startCol; col <= endCol; col++ {
			i++
			if (i-1)%stride != 0 {
				continue
			}
			c := grid[row][col]
			if c == nil || c.A == 0 || ignored.Has(col, row) {
				continue
			}
			dataset = append(dataset, clusters.Coordinates{
				float64(c.R) / 255.0,
				float64(c.G) / 255.0,
				float64(c.B) / 255.0,
			})
		}
	}
	if len(dataset) == 0 || k > len(dataset) {
		return nil
	}

	km := kmeans.New()
	cc, err := km.Partition(dataset, k)
	if err != nil || len(cc) == 0 {
		return nil
	}

	out := make([]colorspace.Color, 0, len(cc))
	for _, c := range cc {
		if len(c.Center) < 3 {
			continue
		}
		col := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}.Clamped()
		out = append(out, colorspace.Color{
			R: uint8(math.Round(col.R * 255)),
			G: uint8(math.Round(col.G * 255)),
			B: uint8(math.Round(col.B * 255)),
			A: 255,
		})
	}
	return out
}

func toColorful(c colorspace.Color) colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

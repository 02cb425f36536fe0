package sampler

import (
	"fmt"

	"github.com/pixelvec/pixelvec/internal/colorspace"
)

// SampleMode selects how each grid cell derives its color from the source.
type SampleMode string

const (
	// ModeCenter samples the single pixel at the cell's center point.
	ModeCenter SampleMode = "center"

	// ModeAverage averages every source pixel inside the cell bounds.
	ModeAverage SampleMode = "average"
)

// Config defines the sampling lattice laid over the source image.
//
// GridSize is the number of source pixels per cell and must be >= 1;
// OffsetX and OffsetY shift the lattice origin and are expected in
// [0, GridSize). The core does not validate these; boundary layers
// (MCP handlers, CLI) reject malformed configs before calling in.
type Config struct {
	GridSize int        `json:"grid_size"`
	OffsetX  int        `json:"offset_x"`
	OffsetY  int        `json:"offset_y"`
	Mode     SampleMode `json:"sample_mode"`
}

// Buffer is a decoded image as raw non-premultiplied RGBA bytes:
// width x height x 4 bytes per pixel (R,G,B,A each 0-255), row-major,
// no padding. This is the shape the external image-decoding collaborator
// hands to the core; the core never decodes file formats itself.
type Buffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// At reads the color at pixel (x, y), or nil if the coordinate lies
// outside [0,width) x [0,height).
func (b *Buffer) At(x, y int) *colorspace.Color {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return nil
	}
	i := (y*b.Width + x) * 4
	return &colorspace.Color{R: b.Pix[i], G: b.Pix[i+1], B: b.Pix[i+2], A: b.Pix[i+3]}
}

// Grid is a row-major 2D sequence of sampled cell colors. A nil cell means
// the cell's sampling point (or entire cell, in average mode) fell outside
// the image bounds.
type Grid [][]*colorspace.Color

// Rows returns the number of grid rows.
func (g Grid) Rows() int { return len(g) }

// Cols returns the number of grid columns (0 for an empty grid).
func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Dimensions holds the cell counts of a sampling lattice.
type Dimensions struct {
	Cols int `json:"cols"`
	Rows int `json:"rows"`
}

// GridDimensions computes the lattice size for an image:
// cols = ceil((imageWidth - offsetX) / gridSize), and likewise for rows.
// Every downstream component relies on exactly this formula for bounds.
func GridDimensions(imageWidth, imageHeight int, cfg Config) Dimensions {
	return Dimensions{
		Cols: ceilDiv(imageWidth-cfg.OffsetX, cfg.GridSize),
		Rows: ceilDiv(imageHeight-cfg.OffsetY, cfg.GridSize),
	}
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// Point is a source-pixel coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// CellCenter returns the source pixel sampled for (col, row) in center mode:
// x = col*gridSize + offsetX + floor(gridSize/2), analogous for y.
func CellCenter(col, row int, cfg Config) Point {
	return Point{
		X: col*cfg.GridSize + cfg.OffsetX + cfg.GridSize/2,
		Y: row*cfg.GridSize + cfg.OffsetY + cfg.GridSize/2,
	}
}

// CellBounds is a cell's source-pixel window. (X1,Y1) is the inclusive
// top-left corner; (X2,Y2) is exclusive and clamped so the window never
// exceeds the image edges. The window is empty when X1 >= X2 or Y1 >= Y2.
type CellBounds struct {
	X1, Y1, X2, Y2 int
}

// Bounds returns the clamped accumulation window for (col, row), used by
// average-mode sampling.
func Bounds(col, row int, cfg Config, imageWidth, imageHeight int) CellBounds {
	x1 := col*cfg.GridSize + cfg.OffsetX
	y1 := row*cfg.GridSize + cfg.OffsetY
	x2 := x1 + cfg.GridSize
	y2 := y1 + cfg.GridSize
	if x2 > imageWidth {
		x2 = imageWidth
	}
	if y2 > imageHeight {
		y2 = imageHeight
	}
	return CellBounds{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// AverageColor averages all four channel values (alpha included) of every
// source pixel inside the cell's clamped window, rounding each channel
// independently. Returns nil when the window is empty (cell entirely
// outside the image).
func AverageColor(buf *Buffer, col, row int, cfg Config) *colorspace.Color {
	b := Bounds(col, row, cfg, buf.Width, buf.Height)

	var sumR, sumG, sumB, sumA, n int
	for y := b.Y1; y < b.Y2; y++ {
		for x := b.X1; x < b.X2; x++ {
			if x < 0 || y < 0 {
				continue
			}
			i := (y*buf.Width + x) * 4
			sumR += int(buf.Pix[i])
			sumG += int(buf.Pix[i+1])
			sumB += int(buf.Pix[i+2])
			sumA += int(buf.Pix[i+3])
			n++
		}
	}
	if n == 0 {
		return nil
	}
	return &colorspace.Color{
		R: roundedMean(sumR, n),
		G: roundedMean(sumG, n),
		B: roundedMean(sumB, n),
		A: roundedMean(sumA, n),
	}
}

func roundedMean(sum, n int) uint8 {
	return uint8((sum + n/2) / n)
}

// SampleGrid converts a pixel buffer into the full sampled grid for cfg:
// one cell per (col, row) in [0,cols) x [0,rows), center- or
// average-sampled per cfg.Mode, assembled row-major. Pure function: the
// buffer is only read.
func SampleGrid(buf *Buffer, cfg Config) Grid {
	dims := GridDimensions(buf.Width, buf.Height, cfg)

	grid := make(Grid, dims.Rows)
	for row := 0; row < dims.Rows; row++ {
		cells := make([]*colorspace.Color, dims.Cols)
		for col := 0; col < dims.Cols; col++ {
			if cfg.Mode == ModeAverage {
				cells[col] = AverageColor(buf, col, row, cfg)
			} else {
				center := CellCenter(col, row, cfg)
				cells[col] = buf.At(center.X, center.Y)
			}
		}
		grid[row] = cells
	}
	return grid
}

// Key encodes a cell identity as the string "{col}-{row}". It is the
// element type of IgnoredSet.
func Key(col, row int) string {
	return fmt.Sprintf("%d-%d", col, row)
}

// IgnoredSet is the set of cells a user explicitly marked transparent.
// The core takes a read-only view per call and never retains a reference.
type IgnoredSet map[string]struct{}

// Has reports whether (col, row) is marked ignored.
func (s IgnoredSet) Has(col, row int) bool {
	_, ok := s[Key(col, row)]
	return ok
}

// IsCellTransparent is the canonical transparency predicate used by the
// bounding frame, palette extraction, and emission: a cell is transparent
// for output purposes iff its key is in the ignored set, OR its sampled
// color is absent, OR its alpha is exactly 0.
func IsCellTransparent(col, row int, grid Grid, ignored IgnoredSet) bool {
	if ignored.Has(col, row) {
		return true
	}
	c := grid[row][col]
	return c == nil || c.A == 0
}

// Frame is an inclusive cell-coordinate rectangle restricting which cells
// are emitted. Bounds index sampled cells, never source pixels, so they are
// independent of the grid offset.
type Frame struct {
	StartCol int `json:"start_col"`
	StartRow int `json:"start_row"`
	EndCol   int `json:"end_col"`
	EndRow   int `json:"end_row"`
}

// MinimalBoundingFrame scans every cell and returns the tightest frame
// containing all non-transparent cells, or nil when no such cell exists
// (a fully empty canvas is a valid, expected outcome, not an error).
//
// The grid may be nil, in which case only the ignored set is consulted and
// unmarked cells count as content. Callers with sampled data should pass
// the grid so absent and alpha-0 cells are excluded too.
func MinimalBoundingFrame(cols, rows int, ignored IgnoredSet, grid Grid) *Frame {
	minCol, minRow := cols, rows
	maxCol, maxRow := -1, -1

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			var transparent bool
			if grid == nil {
				transparent = ignored.Has(col, row)
			} else {
				transparent = IsCellTransparent(col, row, grid, ignored)
			}
			if transparent {
				continue
			}
			if col < minCol {
				minCol = col
			}
			if col > maxCol {
				maxCol = col
			}
			if row < minRow {
				minRow = row
			}
			if row > maxRow {
				maxRow = row
			}
		}
	}

	if maxCol < 0 {
		return nil
	}
	return &Frame{StartCol: minCol, StartRow: minRow, EndCol: maxCol, EndRow: maxRow}
}

package emitter

import (
	"bytes"
	"fmt"

	svg "github.com/ajstarks/svgo"

	"github.com/pixelvec/pixelvec/internal/colorspace"
	"github.com/pixelvec/pixelvec/internal/grouper"
	"github.com/pixelvec/pixelvec/internal/sampler"
)

// Options controls emission. GridSize scales the document's pixel size
// (width = cols*GridSize); Frame restricts output to a cell rectangle,
// nil meaning the whole grid; Ignored and Adjustments feed the shared
// visibility and recoloring rules.
type Options struct {
	GridSize    int
	Frame       *sampler.Frame
	Ignored     sampler.IgnoredSet
	Adjustments grouper.Adjustments
}

// resolveBounds returns the inclusive cell rectangle to emit.
func resolveBounds(grid sampler.Grid, frame *sampler.Frame) (startCol, startRow, endCol, endRow int) {
	if frame != nil {
		return frame.StartCol, frame.StartRow, frame.EndCol, frame.EndRow
	}
	return 0, 0, grid.Cols() - 1, grid.Rows() - 1
}

// cellFill returns the post-adjustment fill hex for a cell, or "" when the
// cell is transparent and must be omitted.
func cellFill(grid sampler.Grid, col, row int, opts Options) string {
	if sampler.IsCellTransparent(col, row, grid, opts.Ignored) {
		return ""
	}
	c := grouper.AdjustedColor(*grid[row][col], opts.Adjustments)
	return colorspace.Hex(c)
}

// RenderSVG emits the grid as an SVG document of axis-aligned rectangles.
//
// Horizontally adjacent cells with the same post-adjustment fill merge into
// a single rect; runs never span rows. Coordinates are zero-based cell
// units relative to the frame origin, with viewBox "0 0 cols rows" and
// pixel dimensions cols*GridSize by rows*GridSize. Transparent cells are
// omitted entirely, so an all-transparent grid yields a valid document
// with no rects.
func RenderSVG(grid sampler.Grid, opts Options) string {
	startCol, startRow, endCol, endRow := resolveBounds(grid, opts.Frame)
	cols := endCol - startCol + 1
	rows := endRow - startRow + 1

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Startview(cols*opts.GridSize, rows*opts.GridSize, 0, 0, cols, rows)

	for row := startRow; row <= endRow; row++ {
		runFill := ""
		runStart := 0
		// One sentinel column past the end closes any open run.
		for col := startCol; col <= endCol+1; col++ {
			fill := ""
			if col <= endCol {
				fill = cellFill(grid, col, row, opts)
			}
			if fill == runFill {
				continue
			}
			if runFill != "" {
				canvas.Rect(runStart-startCol, row-startRow, col-runStart, 1,
					fmt.Sprintf(`fill="%s"`, runFill))
			}
			runFill = fill
			runStart = col
		}
	}

	canvas.End()
	return buf.String()
}

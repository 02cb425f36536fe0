package sampler

import (
	"testing"

	"github.com/pixelvec/pixelvec/internal/colorspace"
)

// makeBuffer builds a buffer filled with a single color.
func makeBuffer(width, height int, c colorspace.Color) *Buffer {
	pix := make([]uint8, width*height*4)
	for i := 0; i < width*height; i++ {
		pix[i*4] = c.R
		pix[i*4+1] = c.G
		pix[i*4+2] = c.B
		pix[i*4+3] = c.A
	}
	return &Buffer{Width: width, Height: height, Pix: pix}
}

// setPixel overwrites one pixel of a buffer.
func setPixel(b *Buffer, x, y int, c colorspace.Color) {
	i := (y*b.Width + x) * 4
	b.Pix[i] = c.R
	b.Pix[i+1] = c.G
	b.Pix[i+2] = c.B
	b.Pix[i+3] = c.A
}

// makeGrid builds a uniform opaque grid.
func makeGrid(cols, rows int, c colorspace.Color) Grid {
	g := make(Grid, rows)
	for row := range g {
		g[row] = make([]*colorspace.Color, cols)
		for col := range g[row] {
			cell := c
			g[row][col] = &cell
		}
	}
	return g
}

var (
	red   = colorspace.Color{R: 255, A: 255}
	green = colorspace.Color{G: 255, A: 255}
	blue  = colorspace.Color{B: 255, A: 255}
)

func TestGridDimensions(t *testing.T) {
	tests := []struct {
		name     string
		w, h     int
		cfg      Config
		wantCols int
		wantRows int
	}{
		{"exact fit", 100, 50, Config{GridSize: 10}, 10, 5},
		{"remainder adds a cell", 101, 51, Config{GridSize: 10}, 11, 6},
		{"offset eats into span", 100, 50, Config{GridSize: 10, OffsetX: 5, OffsetY: 5}, 10, 5},
		{"offset with exact remainder", 105, 45, Config{GridSize: 10, OffsetX: 5, OffsetY: 5}, 10, 4},
		{"single cell", 3, 3, Config{GridSize: 10}, 1, 1},
		{"grid size one", 4, 2, Config{GridSize: 1}, 4, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GridDimensions(tt.w, tt.h, tt.cfg)
			if got.Cols != tt.wantCols || got.Rows != tt.wantRows {
				t.Errorf("got %dx%d, want %dx%d", got.Cols, got.Rows, tt.wantCols, tt.wantRows)
			}
		})
	}
}

func TestCellCenter(t *testing.T) {
	cfg := Config{GridSize: 10, OffsetX: 3, OffsetY: 7}
	for col := 0; col < 5; col++ {
		for row := 0; row < 5; row++ {
			got := CellCenter(col, row, cfg)
			wantX := col*10 + 3 + 5
			wantY := row*10 + 7 + 5
			if got.X != wantX || got.Y != wantY {
				t.Errorf("CellCenter(%d,%d): got (%d,%d), want (%d,%d)",
					col, row, got.X, got.Y, wantX, wantY)
			}
		}
	}
}

func TestCellCenter_OddGridSize(t *testing.T) {
	got := CellCenter(0, 0, Config{GridSize: 3})
	if got.X != 1 || got.Y != 1 {
		t.Errorf("got (%d,%d), want (1,1)", got.X, got.Y)
	}
}

func TestBounds_ClampsToImage(t *testing.T) {
	cfg := Config{GridSize: 10, OffsetX: 5}
	b := Bounds(2, 0, cfg, 28, 8)
	if b.X1 != 25 || b.X2 != 28 {
		t.Errorf("x bounds: got [%d,%d), want [25,28)", b.X1, b.X2)
	}
	if b.Y1 != 0 || b.Y2 != 8 {
		t.Errorf("y bounds: got [%d,%d), want [0,8)", b.Y1, b.Y2)
	}
}

func TestBufferAt(t *testing.T) {
	buf := makeBuffer(4, 3, red)
	setPixel(buf, 2, 1, blue)

	if c := buf.At(2, 1); c == nil || *c != blue {
		t.Errorf("At(2,1): got %+v, want blue", c)
	}
	if c := buf.At(0, 0); c == nil || *c != red {
		t.Errorf("At(0,0): got %+v, want red", c)
	}

	outOfBounds := []Point{{-1, 0}, {0, -1}, {4, 0}, {0, 3}}
	for _, p := range outOfBounds {
		if c := buf.At(p.X, p.Y); c != nil {
			t.Errorf("At(%d,%d): got %+v, want nil", p.X, p.Y, c)
		}
	}
}

func TestAverageColor(t *testing.T) {
	// 2x2 cell with 2 red + 2 green fully-opaque pixels averages to the
	// integer-rounded mean {128,128,0,255}.
	buf := makeBuffer(2, 2, red)
	setPixel(buf, 0, 1, green)
	setPixel(buf, 1, 1, green)

	got := AverageColor(buf, 0, 0, Config{GridSize: 2, Mode: ModeAverage})
	want := colorspace.Color{R: 128, G: 128, B: 0, A: 255}
	if got == nil || *got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestAverageColor_IncludesAlpha(t *testing.T) {
	buf := makeBuffer(2, 1, colorspace.Color{R: 100, A: 255})
	setPixel(buf, 1, 0, colorspace.Color{R: 100, A: 0})

	got := AverageColor(buf, 0, 0, Config{GridSize: 2, Mode: ModeAverage})
	if got == nil || got.A != 128 {
		t.Errorf("alpha should average too: got %+v", got)
	}
}

func TestAverageColor_EmptyWindow(t *testing.T) {
	buf := makeBuffer(5, 5, red)
	// Cell 1 with gridSize 10 starts at x=10, past the image edge.
	if got := AverageColor(buf, 1, 0, Config{GridSize: 10, Mode: ModeAverage}); got != nil {
		t.Errorf("got %+v, want nil for window outside image", got)
	}
}

func TestSampleGrid_DimensionsMatch(t *testing.T) {
	// For all configs, the sampled grid must have exactly the dimensions
	// GridDimensions reports.
	configs := []Config{
		{GridSize: 10, Mode: ModeCenter},
		{GridSize: 10, OffsetX: 3, OffsetY: 9, Mode: ModeCenter},
		{GridSize: 7, Mode: ModeAverage},
		{GridSize: 1, Mode: ModeCenter},
		{GridSize: 64, Mode: ModeAverage},
	}

	buf := makeBuffer(33, 21, red)
	for _, cfg := range configs {
		grid := SampleGrid(buf, cfg)
		dims := GridDimensions(buf.Width, buf.Height, cfg)
		if grid.Rows() != dims.Rows {
			t.Errorf("cfg %+v: rows %d, want %d", cfg, grid.Rows(), dims.Rows)
		}
		for _, row := range grid {
			if len(row) != dims.Cols {
				t.Errorf("cfg %+v: row length %d, want %d", cfg, len(row), dims.Cols)
			}
		}
	}
}

func TestSampleGrid_CenterMode(t *testing.T) {
	buf := makeBuffer(20, 10, red)
	// Paint the center pixel of cell (1,0) green.
	setPixel(buf, 15, 5, green)

	grid := SampleGrid(buf, Config{GridSize: 10, Mode: ModeCenter})
	if c := grid[0][1]; c == nil || *c != green {
		t.Errorf("cell (1,0): got %+v, want green", c)
	}
	if c := grid[0][0]; c == nil || *c != red {
		t.Errorf("cell (0,0): got %+v, want red", c)
	}
}

func TestSampleGrid_CenterOutsideImage(t *testing.T) {
	// 12px wide with gridSize 10: the second cell's center (x=15) is past
	// the edge, so the cell is absent.
	buf := makeBuffer(12, 10, red)
	grid := SampleGrid(buf, Config{GridSize: 10, Mode: ModeCenter})
	if grid.Cols() != 2 {
		t.Fatalf("cols: got %d, want 2", grid.Cols())
	}
	if grid[0][1] != nil {
		t.Errorf("cell (1,0): got %+v, want nil", grid[0][1])
	}
	// Average mode still has a 2px-wide strip of real pixels in that cell.
	grid = SampleGrid(buf, Config{GridSize: 10, Mode: ModeAverage})
	if grid[0][1] == nil {
		t.Error("average mode cell (1,0) should not be absent")
	}
}

func TestIsCellTransparent(t *testing.T) {
	grid := makeGrid(3, 3, red)
	grid[1][1] = nil
	grid[2][2] = &colorspace.Color{R: 255, A: 0}
	ignored := IgnoredSet{Key(0, 0): {}}

	tests := []struct {
		name     string
		col, row int
		want     bool
	}{
		{"ignored", 0, 0, true},
		{"absent", 1, 1, true},
		{"alpha zero", 2, 2, true},
		{"opaque", 1, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCellTransparent(tt.col, tt.row, grid, ignored); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKey(t *testing.T) {
	if Key(3, 7) != "3-7" {
		t.Errorf("got %s, want 3-7", Key(3, 7))
	}
}

func TestMinimalBoundingFrame_CornersIgnored(t *testing.T) {
	// Only the 4 corners of a 3x3 grid are ignored; the remaining content
	// still touches every row and column, so the frame spans the full grid.
	grid := makeGrid(3, 3, red)
	ignored := IgnoredSet{
		Key(0, 0): {}, Key(2, 0): {},
		Key(0, 2): {}, Key(2, 2): {},
	}

	frame := MinimalBoundingFrame(3, 3, ignored, grid)
	want := Frame{StartCol: 0, StartRow: 0, EndCol: 2, EndRow: 2}
	if frame == nil || *frame != want {
		t.Errorf("got %+v, want %+v", frame, want)
	}
}

func TestMinimalBoundingFrame_Shrinks(t *testing.T) {
	grid := make(Grid, 4)
	for row := range grid {
		grid[row] = make([]*colorspace.Color, 4)
	}
	c := red
	grid[1][2] = &c
	grid[2][1] = &c

	frame := MinimalBoundingFrame(4, 4, nil, grid)
	want := Frame{StartCol: 1, StartRow: 1, EndCol: 2, EndRow: 2}
	if frame == nil || *frame != want {
		t.Errorf("got %+v, want %+v", frame, want)
	}
}

func TestMinimalBoundingFrame_AllTransparent(t *testing.T) {
	grid := make(Grid, 2)
	for row := range grid {
		grid[row] = make([]*colorspace.Color, 2)
	}
	if frame := MinimalBoundingFrame(2, 2, nil, grid); frame != nil {
		t.Errorf("got %+v, want nil for fully transparent canvas", frame)
	}
}

func TestMinimalBoundingFrame_IgnoredSetOnlyFallback(t *testing.T) {
	// Without grid data, only the ignored set is consulted: unmarked cells
	// count as content even though no colors exist.
	ignored := IgnoredSet{}
	for col := 0; col < 3; col++ {
		ignored[Key(col, 0)] = struct{}{}
	}
	frame := MinimalBoundingFrame(3, 3, ignored, nil)
	want := Frame{StartCol: 0, StartRow: 1, EndCol: 2, EndRow: 2}
	if frame == nil || *frame != want {
		t.Errorf("got %+v, want %+v", frame, want)
	}

	// Everything ignored: no frame.
	for row := 1; row < 3; row++ {
		for col := 0; col < 3; col++ {
			ignored[Key(col, row)] = struct{}{}
		}
	}
	if frame := MinimalBoundingFrame(3, 3, ignored, nil); frame != nil {
		t.Errorf("got %+v, want nil", frame)
	}
}

package sampler

import (
	"testing"

	"github.com/pixelvec/pixelvec/internal/colorspace"
)

// gridFromRows builds a grid from row slices of color pointers.
func gridFromRows(rows ...[]*colorspace.Color) Grid {
	return Grid(rows)
}

func cp(c colorspace.Color) *colorspace.Color { return &c }

func TestExtractPalette_CountDescending(t *testing.T) {
	grid := gridFromRows(
		[]*colorspace.Color{cp(red), cp(green), cp(red)},
		[]*colorspace.Color{cp(blue), cp(green), cp(red)},
	)

	palette := ExtractPalette(grid, nil, nil)
	if len(palette) != 3 {
		t.Fatalf("entries: got %d, want 3", len(palette))
	}

	want := []struct {
		hex   string
		count int
	}{
		{"#ff0000", 3},
		{"#00ff00", 2},
		{"#0000ff", 1},
	}
	for i, w := range want {
		if palette[i].Hex != w.hex || palette[i].Count != w.count {
			t.Errorf("entry %d: got %s x%d, want %s x%d",
				i, palette[i].Hex, palette[i].Count, w.hex, w.count)
		}
	}
}

func TestExtractPalette_TiesKeepScanOrder(t *testing.T) {
	// Green and blue both appear once; green is discovered first in the
	// row-major scan and must stay ahead after sorting.
	grid := gridFromRows(
		[]*colorspace.Color{cp(red), cp(green)},
		[]*colorspace.Color{cp(blue), cp(red)},
	)

	palette := ExtractPalette(grid, nil, nil)
	if len(palette) != 3 {
		t.Fatalf("entries: got %d, want 3", len(palette))
	}
	if palette[1].Hex != "#00ff00" || palette[2].Hex != "#0000ff" {
		t.Errorf("tie order: got %s then %s, want #00ff00 then #0000ff",
			palette[1].Hex, palette[2].Hex)
	}
}

func TestExtractPalette_FrameRestricts(t *testing.T) {
	grid := gridFromRows(
		[]*colorspace.Color{cp(red), cp(green), cp(blue)},
		[]*colorspace.Color{cp(red), cp(green), cp(blue)},
	)

	frame := &Frame{StartCol: 1, StartRow: 0, EndCol: 1, EndRow: 1}
	palette := ExtractPalette(grid, nil, frame)
	if len(palette) != 1 || palette[0].Hex != "#00ff00" || palette[0].Count != 2 {
		t.Errorf("got %+v, want single #00ff00 x2", palette)
	}
}

func TestExtractPalette_IgnoredAndTransparentSkipped(t *testing.T) {
	grid := gridFromRows(
		[]*colorspace.Color{cp(red), cp(colorspace.Color{R: 255, A: 0})},
		[]*colorspace.Color{cp(green), cp(red)},
	)
	ignored := IgnoredSet{Key(0, 1): {}}

	palette := ExtractPalette(grid, ignored, nil)
	if len(palette) != 1 || palette[0].Hex != "#ff0000" || palette[0].Count != 2 {
		t.Errorf("got %+v, want single #ff0000 x2", palette)
	}
}

func TestExtractPalette_AbsentCellsSkipped(t *testing.T) {
	grid := gridFromRows(
		[]*colorspace.Color{cp(red), nil},
		[]*colorspace.Color{nil, nil},
	)

	palette := ExtractPalette(grid, nil, nil)
	if len(palette) != 1 || palette[0].Count != 1 {
		t.Errorf("got %+v, want single #ff0000 x1", palette)
	}
}

func TestExtractPalette_EmptyCanvas(t *testing.T) {
	grid := gridFromRows(
		[]*colorspace.Color{nil, nil},
	)
	if palette := ExtractPalette(grid, nil, nil); len(palette) != 0 {
		t.Errorf("got %+v, want empty palette", palette)
	}
}

func TestReducePalette_NoOpCases(t *testing.T) {
	grid := gridFromRows(
		[]*colorspace.Color{cp(red), cp(green), cp(blue)},
	)

	tests := []struct {
		name string
		k    int
	}{
		{"k zero", 0},
		{"k negative", -4},
		{"k equals unique count", 3},
		{"k above unique count", 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ReducePalette(grid, nil, nil, tt.k)
			if len(out) != 1 || len(out[0]) != 3 {
				t.Fatalf("dimensions changed: %dx%d", out.Cols(), out.Rows())
			}
			for col, c := range out[0] {
				if c == nil || *c != *grid[0][col] {
					t.Errorf("cell %d changed: got %+v", col, c)
				}
			}
		})
	}
}

func TestReducePalette_ReducesUniqueColors(t *testing.T) {
	// Two near-red and two near-blue shades should collapse to 2 clusters.
	nearRed1 := colorspace.Color{R: 250, G: 5, B: 5, A: 255}
	nearRed2 := colorspace.Color{R: 245, G: 10, B: 0, A: 255}
	nearBlue1 := colorspace.Color{R: 5, G: 5, B: 250, A: 255}
	nearBlue2 := colorspace.Color{R: 0, G: 10, B: 245, A: 255}

	grid := gridFromRows(
		[]*colorspace.Color{cp(nearRed1), cp(nearRed2)},
		[]*colorspace.Color{cp(nearBlue1), cp(nearBlue2)},
	)

	out := ReducePalette(grid, nil, nil, 2)
	if out.Rows() != 2 || out.Cols() != 2 {
		t.Fatalf("dimensions changed: %dx%d", out.Cols(), out.Rows())
	}

	unique := make(map[string]struct{})
	for _, row := range out {
		for _, c := range row {
			if c == nil {
				t.Fatal("visible cell became absent")
			}
			unique[colorspace.Hex(*c)] = struct{}{}
		}
	}
	if len(unique) > 2 {
		t.Errorf("unique colors after reduction: got %d, want <= 2", len(unique))
	}
}

func TestReducePalette_PreservesAlphaAndTransparency(t *testing.T) {
	semi := colorspace.Color{R: 250, G: 5, B: 5, A: 128}
	grid := gridFromRows(
		[]*colorspace.Color{cp(semi), cp(colorspace.Color{R: 245, A: 255}), nil},
		[]*colorspace.Color{cp(blue), cp(colorspace.Color{B: 245, A: 255}), cp(colorspace.Color{A: 0})},
	)

	out := ReducePalette(grid, nil, nil, 2)
	if out[0][2] != nil {
		t.Errorf("absent cell: got %+v, want nil", out[0][2])
	}
	if c := out[1][2]; c == nil || c.A != 0 {
		t.Errorf("alpha-0 cell: got %+v, want untouched alpha 0", c)
	}
	if c := out[0][0]; c == nil || c.A != 128 {
		t.Errorf("semi-transparent cell alpha: got %+v, want A=128", c)
	}
}

func TestReducePalette_DoesNotMutateInput(t *testing.T) {
	original := colorspace.Color{R: 250, G: 5, B: 5, A: 255}
	grid := gridFromRows(
		[]*colorspace.Color{cp(original), cp(colorspace.Color{R: 240, G: 3, B: 3, A: 255})},
		[]*colorspace.Color{cp(blue), cp(colorspace.Color{B: 240, A: 255})},
	)

	_ = ReducePalette(grid, nil, nil, 2)
	if *grid[0][0] != original {
		t.Errorf("input grid mutated: got %+v, want %+v", *grid[0][0], original)
	}
}

package sampler

import (
	"sort"

	"github.com/pixelvec/pixelvec/internal/colorspace"
)

// PaletteEntry is one unique opaque color and its occurrence count within
// the scanned region. The uniqueness key is the hex string, so alpha is
// ignored for grouping purposes.
type PaletteEntry struct {
	Hex   string           `json:"hex"`
	Color colorspace.Color `json:"color"`
	Count int              `json:"count"`
}

// ExtractPalette accumulates per-unique-hex counts over the cells inside
// frame (or the whole grid when frame is nil), skipping ignored and
// alpha-0 cells, and returns entries sorted descending by count. The sort
// is stable on the count key only, so ties keep their first-discovered
// (row-major scan) order.
//
// The transparency check here is deliberately inlined rather than routed
// through IsCellTransparent: the nil-cell guard makes the two equivalent,
// and this path runs on every palette refresh.
func ExtractPalette(grid Grid, ignored IgnoredSet, frame *Frame) []PaletteEntry {
	startRow, endRow := 0, grid.Rows()-1
	startCol, endCol := 0, grid.Cols()-1
	if frame != nil {
		startRow, endRow = frame.StartRow, frame.EndRow
		startCol, endCol = frame.StartCol, frame.EndCol
	}

	counts := make(map[string]*PaletteEntry)
	var order []*PaletteEntry

	for row := startRow; row <= endRow; row++ {
		for col := startCol; col <= endCol; col++ {
			c := grid[row][col]
			if c == nil || c.A == 0 || ignored.Has(col, row) {
				continue
			}
			hex := colorspace.Hex(*c)
			if entry, ok := counts[hex]; ok {
				entry.Count++
				continue
			}
			entry := &PaletteEntry{Hex: hex, Color: *c, Count: 1}
			counts[hex] = entry
			order = append(order, entry)
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return order[i].Count > order[j].Count
	})

	result := make([]PaletteEntry, len(order))
	for i, e := range order {
		result[i] = *e
	}
	return result
}

// Package emitter turns a sampled cell grid into output documents: an SVG
// of run-length-merged rectangles, or a re-rasterized PNG.
//
// Both paths share one set of rules. A cell is omitted when the shared
// transparency predicate says so, and a visible cell's fill is its color
// after the per-group HSL adjustment. The SVG path merges horizontal runs
// of identical post-adjustment fills; the raster path scales each cell to
// a seam-free rectangle in a caller-sized target.
package emitter

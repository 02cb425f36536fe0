// Package grouper classifies palette colors into fixed hue families and
// applies per-family HSL adjustments.
//
// The family table is static: seven chromatic buckets tiling the hue
// circle (reds wrap across 0 degrees) plus a grays bucket that captures
// anything with saturation under 12 percent before hue is considered.
// Adjustments are keyed by family, so recoloring a sprite is a handful of
// map entries rather than per-pixel edits.
package grouper

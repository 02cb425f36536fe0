// Package sampler lays a uniform square lattice over a decoded pixel
// buffer and derives one representative color per cell.
//
// The lattice is defined by a Config (cell size in source pixels plus an
// x/y origin offset) and sampled in one of two modes: center-pixel or
// per-cell channel average. On top of the sampled grid the package offers
// the shared transparency predicate, minimal bounding frame computation,
// unique-color palette extraction, and optional kmeans palette reduction.
//
// Everything here is pure with respect to its inputs: grids and buffers
// are only read, and ReducePalette returns a fresh grid rather than
// mutating its argument.
package sampler

// Package imaging is the file-decoding boundary of the toolkit.
//
// It owns everything that touches image files and Go's image types: a
// thread-safe decode cache, normalization of any decoded color model into
// the raw RGBA buffer the sampling core consumes, and a nearest-neighbor
// downscale guard for oversized sources. PNG, JPEG, GIF, BMP, and WebP
// decoders are registered; format is always sniffed from content.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The conversion helpers are pure
// and never mutate their inputs.
package imaging

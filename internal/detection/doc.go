// Package detection estimates the cell lattice of upscaled pixel art.
//
// Hand-scaled sprites rarely announce their cell size, so the converter
// needs a guess before it can sample. Detection works on luminance
// transition profiles: color changes in pixel art cluster on cell
// boundaries, so the period and phase whose lattice lines soak up the
// most transition mass is the best estimate. Results carry a confidence
// score; callers fall back to per-pixel sampling when it is zero.
package detection

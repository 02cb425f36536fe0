// Package colorspace provides RGB/HSL color conversion and adjustment.
//
// It is the foundation the sampling, grouping, and emission packages build
// on: an 8-bit RGBA value type, conversion to and from HSL (hue in degrees
// 0-360, saturation and lightness in percent 0-100), group-adjustment
// application, and the two output formatting helpers (lowercase "#rrggbb"
// hex and a human-readable "rgba(...)" string).
//
// All channel math uses integer 0-255 inputs and outputs; intermediate HSL
// math is floating point, and final RGB channel values are rounded to the
// nearest integer. Every function is a pure transform with no shared state.
package colorspace

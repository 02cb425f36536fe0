// Package cli wires the conversion pipeline into the pixelvec command:
// convert for one-shot SVG/PNG output, palette for inspecting a sprite's
// colors before converting.
package cli

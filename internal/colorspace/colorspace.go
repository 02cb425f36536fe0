package colorspace

import (
	"fmt"
	"math"
	"strconv"
)

// Color represents an RGBA color with 8-bit components.
//
// The alpha component represents opacity:
//   - 0 = fully transparent (the sentinel for "originally transparent" pixels)
//   - 255 = fully opaque
type Color struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
	A uint8 `json:"a"` // Alpha/opacity component (0-255)
}

// HSL represents a color in HSL (Hue, Saturation, Lightness) color space.
//
// HSL is often more intuitive for color manipulation than RGB:
//   - Hue represents the color type (red, green, blue, etc.)
//   - Saturation represents color intensity (gray to vivid)
//   - Lightness represents brightness (black to white)
type HSL struct {
	H float64 `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S float64 `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L float64 `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// RGBToHSL converts an 8-bit RGBA color to HSL color space.
//
// The conversion follows the standard max/min channel algorithm:
//  1. Normalize RGB to 0-1 range
//  2. Find min and max components
//  3. Calculate Lightness as (max + min) / 2
//  4. Calculate Saturation based on lightness
//  5. Calculate Hue based on which component is max
//
// Achromatic colors (max == min) yield H=0, S=0. The alpha channel is
// ignored; HSL carries no opacity information.
func RGBToHSL(c Color) HSL {
	rf := float64(c.R) / 255.0
	gf := float64(c.G) / 255.0
	bf := float64(c.B) / 255.0

	max := math.Max(rf, math.Max(gf, bf))
	min := math.Min(rf, math.Min(gf, bf))

	l := (max + min) / 2.0

	if max == min {
		return HSL{H: 0, S: 0, L: l * 100}
	}

	delta := max - min
	var s float64
	if l < 0.5 {
		s = delta / (max + min)
	} else {
		s = delta / (2.0 - max - min)
	}

	var h float64
	switch max {
	case rf:
		h = (gf - bf) / delta
		if gf < bf {
			h += 6
		}
	case gf:
		h = (bf-rf)/delta + 2
	case bf:
		h = (rf-gf)/delta + 4
	}
	h *= 60

	return HSL{H: h, S: s * 100, L: l * 100}
}

// HSLToRGB converts an HSL color back to 8-bit RGB.
//
// Zero saturation short-circuits to a gray computed from lightness alone,
// avoiding a divide-by-zero in the hue function. The output alpha is always
// 255 (fully opaque) since HSL carries no alpha; callers must propagate the
// original alpha separately if needed. Channel values are rounded to the
// nearest integer.
func HSLToRGB(hsl HSL) Color {
	s := hsl.S / 100.0
	l := hsl.L / 100.0

	if s == 0 {
		v := uint8(math.Round(l * 255))
		return Color{R: v, G: v, B: v, A: 255}
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q

	r := hueToChannel(p, q, hsl.H+120)
	g := hueToChannel(p, q, hsl.H)
	b := hueToChannel(p, q, hsl.H-120)

	return Color{
		R: uint8(math.Round(r * 255)),
		G: uint8(math.Round(g * 255)),
		B: uint8(math.Round(b * 255)),
		A: 255,
	}
}

// hueToChannel is a helper for HSL to RGB conversion. The hue argument is in
// degrees and may be outside [0,360); it is normalized first.
func hueToChannel(p, q, t float64) float64 {
	for t < 0 {
		t += 360
	}
	for t >= 360 {
		t -= 360
	}

	if t < 60 {
		return p + (q-p)*t/60
	}
	if t < 180 {
		return q
	}
	if t < 240 {
		return p + (q-p)*(240-t)/60
	}
	return p
}

// Adjustment describes a relative color transformation in HSL space.
//
// HueShift is in degrees [-180,180]; SaturationScale and LightnessScale are
// multipliers in [0,2]. The identity value is {0, 1, 1}.
type Adjustment struct {
	HueShift        float64 `json:"hue_shift"`
	SaturationScale float64 `json:"saturation_scale"`
	LightnessScale  float64 `json:"lightness_scale"`
}

// Identity returns the no-op adjustment.
func Identity() Adjustment {
	return Adjustment{HueShift: 0, SaturationScale: 1, LightnessScale: 1}
}

// IsIdentity reports whether applying a would leave every color unchanged.
func (a Adjustment) IsIdentity() bool {
	return a.HueShift == 0 && a.SaturationScale == 1 && a.LightnessScale == 1
}

// Apply transforms a color through HSL space: the hue shift is added and
// wrapped into [0,360) via modulo, then saturation and lightness are
// multiplied by their scale factors and clamped to [0,100]. Shifting before
// clamping means extreme scales saturate at the boundary rather than
// wrapping. The result carries alpha 255 (see HSLToRGB).
func Apply(c Color, adj Adjustment) Color {
	hsl := RGBToHSL(c)

	h := math.Mod(hsl.H+adj.HueShift, 360)
	if h < 0 {
		h += 360
	}

	return HSLToRGB(HSL{
		H: h,
		S: clampPercent(hsl.S * adj.SaturationScale),
		L: clampPercent(hsl.L * adj.LightnessScale),
	})
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Hex formats a color as a 6-digit lowercase hex string "#rrggbb".
// Alpha is dropped; there is no parsing counterpart.
func Hex(c Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RGBA formats a color as a human-readable "rgba(r, g, b, a)" string with
// the alpha expressed as a 0-1 fraction of 255.
func RGBA(c Color) string {
	alpha := strconv.FormatFloat(float64(c.A)/255.0, 'g', -1, 64)
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, alpha)
}

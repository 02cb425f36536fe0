package grouper

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/pixelvec/pixelvec/internal/colorspace"
	"github.com/pixelvec/pixelvec/internal/sampler"
)

// GroupID identifies one of the eight fixed color groups.
type GroupID string

const (
	GroupReds    GroupID = "reds"
	GroupOranges GroupID = "oranges"
	GroupYellows GroupID = "yellows"
	GroupGreens  GroupID = "greens"
	GroupCyans   GroupID = "cyans"
	GroupBlues   GroupID = "blues"
	GroupPurples GroupID = "purples"
	GroupGrays   GroupID = "grays"
)

// grayThreshold is the saturation percentage below which a color is
// classified as gray regardless of hue.
const grayThreshold = 12.0

// bucket is one hue range of the classification table. Ranges are
// half-open [hueMin, hueMax) in degrees; reds wraps across 0.
type bucket struct {
	id     GroupID
	name   string
	hueMin float64
	hueMax float64
	repHue float64
}

// hueBuckets lists the chromatic groups in canonical presentation order.
// The ranges tile the full circle with no gaps or overlap.
var hueBuckets = []bucket{
	{GroupReds, "Reds", 345, 15, 0},
	{GroupOranges, "Oranges", 15, 45, 30},
	{GroupYellows, "Yellows", 45, 75, 60},
	{GroupGreens, "Greens", 75, 165, 120},
	{GroupCyans, "Cyans", 165, 195, 180},
	{GroupBlues, "Blues", 195, 265, 230},
	{GroupPurples, "Purples", 265, 345, 305},
}

// Classify maps a color to its group by converting it to HSL first. Note
// that 8-bit RGB cannot represent every hue exactly, so a color authored
// at a bucket boundary may land one bucket below after quantization; use
// ClassifyHSL when the hue is known precisely.
func Classify(c colorspace.Color) GroupID {
	return ClassifyHSL(colorspace.RGBToHSL(c))
}

// ClassifyHSL maps an HSL value to its group: grays when saturation falls
// below the threshold, otherwise the hue bucket containing its hue.
func ClassifyHSL(hsl colorspace.HSL) GroupID {
	if hsl.S < grayThreshold {
		return GroupGrays
	}
	for _, b := range hueBuckets {
		if b.id == GroupReds {
			if hsl.H >= b.hueMin || hsl.H < b.hueMax {
				return b.id
			}
			continue
		}
		if hsl.H >= b.hueMin && hsl.H < b.hueMax {
			return b.id
		}
	}
	// Unreachable: the buckets tile [0, 360).
	return GroupGrays
}

// Group is one populated classification bucket. Colors are the palette
// entries assigned to the bucket, hex and occurrence count intact.
// SwatchHex is a fully saturated mid-lightness sample of the
// representative hue, meant for UI affordances rather than image content;
// grays use a neutral mid-gray.
type Group struct {
	ID                GroupID                `json:"id"`
	Name              string                 `json:"name"`
	Colors            []sampler.PaletteEntry `json:"colors"`
	RepresentativeHue float64                `json:"representative_hue"`
	SwatchHex         string                 `json:"swatch_hex"`
}

func swatchHex(id GroupID, repHue float64) string {
	if id == GroupGrays {
		return colorful.Hsl(0, 0, 0.5).Hex()
	}
	return colorful.Hsl(repHue, 1, 0.5).Hex()
}

// GroupColorsByHue partitions palette entries into the fixed groups and
// returns only the populated ones, chromatic buckets first in hue order and
// grays always last. Within a group, entries keep the order they arrived
// in, so a count-sorted palette yields count-sorted groups.
func GroupColorsByHue(entries []sampler.PaletteEntry) []Group {
	byID := make(map[GroupID][]sampler.PaletteEntry)
	for _, e := range entries {
		id := Classify(e.Color)
		byID[id] = append(byID[id], e)
	}

	var groups []Group
	for _, b := range hueBuckets {
		members, ok := byID[b.id]
		if !ok {
			continue
		}
		groups = append(groups, Group{
			ID:                b.id,
			Name:              b.name,
			Colors:            members,
			RepresentativeHue: b.repHue,
			SwatchHex:         swatchHex(b.id, b.repHue),
		})
	}
	if members, ok := byID[GroupGrays]; ok {
		groups = append(groups, Group{
			ID:        GroupGrays,
			Name:      "Grays",
			Colors:    members,
			SwatchHex: swatchHex(GroupGrays, 0),
		})
	}
	return groups
}

// Adjustments maps each group to its pending HSL adjustment. Groups absent
// from the map are treated as identity.
type Adjustments map[GroupID]colorspace.Adjustment

// AdjustedColor returns the color as it will appear in output: the
// adjustment of its group applied in HSL space, with the original alpha
// carried through unchanged. Identity adjustments return the input as-is
// so unadjusted colors survive byte-exact.
func AdjustedColor(c colorspace.Color, adjustments Adjustments) colorspace.Color {
	adj, ok := adjustments[Classify(c)]
	if !ok || adj.IsIdentity() {
		return c
	}
	out := colorspace.Apply(c, adj)
	out.A = c.A
	return out
}

// HasActiveAdjustments reports whether any group carries a non-identity
// adjustment.
func HasActiveAdjustments(adjustments Adjustments) bool {
	for _, adj := range adjustments {
		if !adj.IsIdentity() {
			return true
		}
	}
	return false
}

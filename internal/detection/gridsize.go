package detection

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
)

// transitionThreshold is the minimum luminance delta (0-255) between
// adjacent pixels for the pair to count as a cell boundary candidate.
const transitionThreshold = 8

// Detection is the outcome of a cell-size scan. Confidence is in [0,1];
// a flat or unperiodic image yields CellSize 1 with Confidence 0, which
// callers treat as "no grid found, sample per-pixel".
type Detection struct {
	CellSize   int     `json:"cell_size"`
	OffsetX    int     `json:"offset_x"`
	OffsetY    int     `json:"offset_y"`
	Confidence float64 `json:"confidence"`
}

// DetectCellSize estimates the pixel size and origin offset of the cell
// lattice in upscaled pixel art.
//
// The image is reduced to grayscale and luminance transitions between
// adjacent columns (and rows) are accumulated into per-axis profiles.
// Every candidate period from 2 to maxSize is scored at every phase
// offset: a period scores high when the transition mass concentrates on
// its lattice lines AND most lattice lines actually carry transitions.
// The second term keeps small divisors of the true period from winning,
// since their extra lattice lines sit on flat pixels.
func DetectCellSize(img image.Image, maxSize int) Detection {
	gray := effect.Grayscale(img)
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()

	limit := min(w, h) / 2
	if maxSize <= 0 || maxSize > limit {
		maxSize = limit
	}
	if maxSize < 2 {
		return Detection{CellSize: 1}
	}

	// profile[i] holds the transition mass at the pixel edge between
	// index i-1 and i, so lattice lines land at offset + k*size.
	colProfile := make([]float64, w)
	rowProfile := make([]float64, h)
	for y := 0; y < h; y++ {
		for x := 1; x < w; x++ {
			d := lumDiff(gray, b.Min.X+x, b.Min.Y+y, b.Min.X+x-1, b.Min.Y+y)
			if d >= transitionThreshold {
				colProfile[x] += float64(d)
			}
		}
	}
	for y := 1; y < h; y++ {
		for x := 0; x < w; x++ {
			d := lumDiff(gray, b.Min.X+x, b.Min.Y+y, b.Min.X+x, b.Min.Y+y-1)
			if d >= transitionThreshold {
				rowProfile[y] += float64(d)
			}
		}
	}

	bestScore := 0.0
	best := Detection{CellSize: 1}
	for size := 2; size <= maxSize; size++ {
		colScore, offX := bestPhase(colProfile, size)
		rowScore, offY := bestPhase(rowProfile, size)
		score := colScore + rowScore
		if score > bestScore {
			bestScore = score
			best = Detection{CellSize: size, OffsetX: offX, OffsetY: offY}
		}
	}

	best.Confidence = bestScore / 2
	if best.Confidence == 0 {
		return Detection{CellSize: 1}
	}
	return best
}

// bestPhase scores one candidate period against an axis profile and
// returns the best score with its offset. The score is the product of the
// fraction of total transition mass lying on lattice lines and the
// fraction of interior lattice lines that carry any mass.
func bestPhase(profile []float64, size int) (float64, int) {
	total := 0.0
	for _, v := range profile {
		total += v
	}
	if total == 0 {
		return 0, 0
	}

	bestScore := 0.0
	bestOffset := 0
	for offset := 0; offset < size; offset++ {
		onLattice := 0.0
		lines, hit := 0, 0
		for pos := offset; pos < len(profile); pos += size {
			if pos == 0 {
				continue
			}
			lines++
			onLattice += profile[pos]
			if profile[pos] > 0 {
				hit++
			}
		}
		if lines == 0 {
			continue
		}
		score := (onLattice / total) * (float64(hit) / float64(lines))
		if score > bestScore {
			bestScore = score
			bestOffset = offset
		}
	}
	return bestScore, bestOffset
}

func lumDiff(gray *image.RGBA, x1, y1, x2, y2 int) int {
	a := int(gray.RGBAAt(x1, y1).R)
	b := int(gray.RGBAAt(x2, y2).R)
	if a > b {
		return a - b
	}
	return b - a
}

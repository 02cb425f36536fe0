package emitter

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/anthonynsimon/bild/transform"

	"github.com/pixelvec/pixelvec/internal/grouper"
	"github.com/pixelvec/pixelvec/internal/sampler"
)

// RenderRaster paints the grid into a caller-sized NRGBA image using the
// same visibility and adjustment rules as RenderSVG. Each cell maps to the
// rectangle [floor(i*scale), ceil((i+1)*scale)) per axis, so cells always
// tile the target without seams regardless of the scale ratio. Visible
// cells keep their source alpha; everything else stays fully transparent.
func RenderRaster(grid sampler.Grid, opts Options, outWidth, outHeight int) *image.NRGBA {
	startCol, startRow, endCol, endRow := resolveBounds(grid, opts.Frame)
	cols := endCol - startCol + 1
	rows := endRow - startRow + 1

	img := image.NewNRGBA(image.Rect(0, 0, outWidth, outHeight))
	if cols <= 0 || rows <= 0 {
		return img
	}

	scaleX := float64(outWidth) / float64(cols)
	scaleY := float64(outHeight) / float64(rows)

	for row := startRow; row <= endRow; row++ {
		for col := startCol; col <= endCol; col++ {
			if sampler.IsCellTransparent(col, row, grid, opts.Ignored) {
				continue
			}
			src := *grid[row][col]
			c := grouper.AdjustedColor(src, opts.Adjustments)

			x0 := int(math.Floor(float64(col-startCol) * scaleX))
			x1 := int(math.Ceil(float64(col-startCol+1) * scaleX))
			y0 := int(math.Floor(float64(row-startRow) * scaleY))
			y1 := int(math.Ceil(float64(row-startRow+1) * scaleY))
			if x1 > outWidth {
				x1 = outWidth
			}
			if y1 > outHeight {
				y1 = outHeight
			}

			fill := color.NRGBA{R: c.R, G: c.G, B: c.B, A: src.A}
			draw.Draw(img, image.Rect(x0, y0, x1, y1), image.NewUniform(fill), image.Point{}, draw.Src)
		}
	}
	return img
}

// Upscale enlarges an image by an integer factor with nearest-neighbor
// resampling, keeping pixel-art edges hard.
func Upscale(img image.Image, factor int) *image.RGBA {
	if factor <= 1 {
		b := img.Bounds()
		return transform.Resize(img, b.Dx(), b.Dy(), transform.NearestNeighbor)
	}
	b := img.Bounds()
	return transform.Resize(img, b.Dx()*factor, b.Dy()*factor, transform.NearestNeighbor)
}

// RasterResult is the wire shape of a raster render: PNG bytes encoded as
// base64 plus the target dimensions.
type RasterResult struct {
	PNGBase64 string `json:"png_base64"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// EncodePNG serializes an image to a RasterResult.
func EncodePNG(img image.Image) (*RasterResult, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	b := img.Bounds()
	return &RasterResult{
		PNGBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		Width:     b.Dx(),
		Height:    b.Dy(),
	}, nil
}

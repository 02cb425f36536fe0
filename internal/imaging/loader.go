package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/pixelvec/pixelvec/internal/sampler"
)

// MaxSourceDim caps either dimension of a decoded source. Anything larger
// is downscaled before sampling; pixel art at that size has already been
// upscaled somewhere upstream, and nearest-neighbor shrinking preserves
// its blocks.
const MaxSourceDim = 4096

// ImageCache is a thread-safe path-keyed cache of decoded images, so a
// sequence of tool calls against the same file decodes it once.
//
// Entries live until Evict or Clear. The cache key is the exact path
// string given to Load; relative and absolute spellings of the same file
// are separate entries.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache creates an empty cache ready for concurrent use.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load returns the cached image for path, decoding it from disk on a miss.
// PNG, JPEG, GIF, BMP, and WebP are supported; the format is sniffed from
// the file contents, never the extension.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	img = Downscale(img)

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Clear removes all cached images.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict removes one cached image by its load path. Unknown paths are a
// no-op.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Downscale shrinks an image so neither dimension exceeds MaxSourceDim,
// preserving aspect ratio with nearest-neighbor resampling. Images already
// within the cap are returned unchanged.
func Downscale(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= MaxSourceDim && h <= MaxSourceDim {
		return img
	}
	if w >= h {
		return imaging.Resize(img, MaxSourceDim, 0, imaging.NearestNeighbor)
	}
	return imaging.Resize(img, 0, MaxSourceDim, imaging.NearestNeighbor)
}

// ToBuffer converts any decoded image into the raw non-premultiplied RGBA
// buffer the sampling core consumes. The clone normalizes every source
// color model (paletted GIF, YCbCr JPEG, 16-bit PNG) to 8-bit NRGBA.
func ToBuffer(img image.Image) *sampler.Buffer {
	nrgba := imaging.Clone(img)
	w := nrgba.Rect.Dx()
	h := nrgba.Rect.Dy()

	pix := make([]uint8, w*h*4)
	for y := 0; y < h; y++ {
		src := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		copy(pix[y*w*4:], src)
	}
	return &sampler.Buffer{Width: w, Height: h, Pix: pix}
}

// ImageInfo is the metadata returned for a loaded image file.
type ImageInfo struct {
	// Width and Height are the decoded dimensions in pixels, after any
	// oversize downscale.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Format is guessed from the file extension; decoding success is the
	// authoritative check, this field is advisory.
	Format string `json:"format"`

	// HasAlpha reports whether the decoded image carries an alpha channel.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the on-disk size.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image through the cache and returns its metadata.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "unknown"
	switch filepath.Ext(path) {
	case ".png":
		format = "png"
	case ".jpg", ".jpeg":
		format = "jpeg"
	case ".gif":
		format = "gif"
	case ".bmp":
		format = "bmp"
	case ".webp":
		format = "webp"
	}

	hasAlpha := false
	switch img.(type) {
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
	}

	bounds := img.Bounds()
	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        format,
		HasAlpha:      hasAlpha,
		FileSizeBytes: stat.Size(),
	}, nil
}

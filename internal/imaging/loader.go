package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// DecodeError reports a screenshot that could not be read or decoded.
// Path is empty for in-memory input.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to decode image: %v", e.Err)
	}
	return fmt.Sprintf("failed to decode image %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Screenshot is a decoded screenshot reduced to 8-bit gray.
type Screenshot struct {
	Gray   *image.Gray
	Format string
}

// ImageCache provides thread-safe caching of decoded screenshots keyed by
// file path.
//
// Once a screenshot is loaded, subsequent Load calls for the same path
// return the cached copy without disk I/O. Cached entries remain in memory
// until removed with Evict or Clear.
//
// ImageCache is safe for concurrent use by multiple goroutines.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]*Screenshot
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]*Screenshot),
	}
}

// Load retrieves a screenshot from the cache or loads it from disk if not
// cached.
//
// The path is used verbatim as the cache key, so different paths to the
// same file result in separate entries. Failures are returned as
// *DecodeError.
func (c *ImageCache) Load(path string) (*Screenshot, error) {
	c.mu.RLock()
	if s, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return s, nil
	}
	c.mu.RUnlock()

	s, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = s
	c.mu.Unlock()

	return s, nil
}

// Clear removes all screenshots from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]*Screenshot)
	c.mu.Unlock()
}

// Evict removes a specific screenshot from the cache by its path. If the
// path is not cached, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Len returns the number of cached screenshots.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// LoadFile reads and decodes the screenshot at path.
func LoadFile(path string) (*Screenshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	defer f.Close()

	s, err := Decode(f)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return s, nil
}

// DecodeBytes decodes an in-memory screenshot.
func DecodeBytes(data []byte) (*Screenshot, error) {
	s, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return s, nil
}

// Decode decodes any registered format (PNG, JPEG, GIF, BMP, WebP) and
// converts the result to gray.
func Decode(r io.Reader) (*Screenshot, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return &Screenshot{Gray: ToGray(img), Format: format}, nil
}

// ToGray converts img to 8-bit gray with the integer Rec. 709 luma weights
// (2126 R + 7152 G + 722 B) / 10000, the conversion the calibration
// levels were measured with. The result always has a zero origin. A gray
// input with a zero origin is returned as is.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Bounds().Min == (image.Point{}) {
		return g
	}

	src := imaging.Clone(img)
	b := src.Bounds()
	dst := image.NewGray(b)
	for y := 0; y < b.Dy(); y++ {
		in := src.Pix[y*src.Stride : y*src.Stride+b.Dx()*4]
		out := dst.Pix[y*dst.Stride : y*dst.Stride+b.Dx()]
		for x := range out {
			r, g, bl := uint32(in[4*x]), uint32(in[4*x+1]), uint32(in[4*x+2])
			out[x] = uint8((2126*r + 7152*g + 722*bl) / 10000)
		}
	}
	return dst
}

// ImageInfo contains metadata about a screenshot file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the format name reported by the decoder, e.g. "png".
	Format string `json:"format"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads a screenshot into the cache (if not already cached)
// and returns its metadata.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	s, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	bounds := s.Gray.Bounds()
	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        s.Format,
		FileSizeBytes: stat.Size(),
	}, nil
}

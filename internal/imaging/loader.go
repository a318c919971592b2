package imaging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// MaxImageBytes bounds the size of an image read from a file or URL.
const MaxImageBytes = 64 << 20

// ErrTooLarge is returned for image sources larger than MaxImageBytes.
var ErrTooLarge = errors.New("image exceeds size limit")

// entry is one decoded source held by the Loader.
type entry struct {
	img    image.Image
	format string
	size   int64
}

// Loader reads images from file paths or http(s) URLs and caches the
// decoded result.
//
// Decoded images are shared between callers, so Load never hands them out
// directly. Each call returns a fresh *image.NRGBA copy that the caller may
// draw on. Sources are cached by the exact string given; a relative and an
// absolute path to the same file are separate entries.
//
// Loader is safe for concurrent use by multiple goroutines.
//
// # Example Usage
//
//	loader := imaging.NewLoader()
//	img, err := loader.Load(ctx, "/path/to/floorplan.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = label.DrawLabels(img, labels)
type Loader struct {
	mu      sync.RWMutex
	entries map[string]*entry
	client  *http.Client
}

// NewLoader creates a Loader with an empty cache and a 30 second HTTP timeout.
func NewLoader() *Loader {
	return &Loader{
		entries: make(map[string]*entry),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// IsURL reports whether source names an http or https resource.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Load returns a mutable copy of the image at source.
//
// Supported formats are PNG, JPEG, GIF, BMP, TIFF and WebP. JPEG EXIF
// orientation is applied while decoding.
//
// # Errors
//
//   - Returns error if the file cannot be read or the URL does not answer 200
//   - Returns ErrTooLarge if the source exceeds MaxImageBytes
//   - Returns error if the data is not a supported image
func (l *Loader) Load(ctx context.Context, source string) (*image.NRGBA, error) {
	e, err := l.load(ctx, source)
	if err != nil {
		return nil, err
	}
	return imaging.Clone(e.img), nil
}

func (l *Loader) load(ctx context.Context, source string) (*entry, error) {
	l.mu.RLock()
	if e, ok := l.entries[source]; ok {
		l.mu.RUnlock()
		return e, nil
	}
	l.mu.RUnlock()

	var (
		data []byte
		err  error
	)
	if IsURL(source) {
		data, err = l.fetch(ctx, source)
	} else {
		data, err = readFile(source)
	}
	if err != nil {
		return nil, err
	}

	e, err := decode(data)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.entries[source] = e
	l.mu.Unlock()

	return e, nil
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()
	return readLimited(f)
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch image: %s", resp.Status)
	}
	return readLimited(resp.Body)
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) > MaxImageBytes {
		return nil, ErrTooLarge
	}
	return data, nil
}

func decode(data []byte) (*entry, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return &entry{img: img, format: format, size: int64(len(data))}, nil
}

// Clear removes all images from the cache.
func (l *Loader) Clear() {
	l.mu.Lock()
	l.entries = make(map[string]*entry)
	l.mu.Unlock()
}

// Evict removes source from the cache. The next Load reads it again.
func (l *Loader) Evict(source string) {
	l.mu.Lock()
	delete(l.entries, source)
	l.mu.Unlock()
}

// ImageInfo contains metadata about a loaded image.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the format detected from the image data: "png", "jpeg",
	// "gif", "bmp", "tiff" or "webp".
	Format string `json:"format"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether the decoded image carries an alpha channel.
	HasAlpha bool `json:"has_alpha"`

	// SizeBytes is the size of the encoded source in bytes.
	SizeBytes int64 `json:"size_bytes"`
}

// LoadImageInfo loads source into the cache and describes it.
//
// Color depth follows the decoded Go image type:
//   - *image.RGBA64, *image.NRGBA64, *image.Gray16 -> "16-bit"
//   - All other types -> "8-bit"
func LoadImageInfo(ctx context.Context, l *Loader, source string) (*ImageInfo, error) {
	e, err := l.load(ctx, source)
	if err != nil {
		return nil, err
	}

	hasAlpha := false
	colorDepth := "8-bit"
	switch e.img.(type) {
	case *image.RGBA, *image.NRGBA:
		hasAlpha = true
	case *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
		colorDepth = "16-bit"
	case *image.Gray16:
		colorDepth = "16-bit"
	}

	bounds := e.img.Bounds()
	return &ImageInfo{
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		Format:     e.format,
		ColorDepth: colorDepth,
		HasAlpha:   hasAlpha,
		SizeBytes:  e.size,
	}, nil
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions returns the size of the image at source.
func GetDimensions(ctx context.Context, l *Loader, source string) (*DimensionsResult, error) {
	e, err := l.load(ctx, source)
	if err != nil {
		return nil, err
	}

	bounds := e.img.Bounds()
	return &DimensionsResult{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

package imaging

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// createTestImage creates a solid PNG in the test's temp dir and returns its path.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "test-image.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func TestNewLoader(t *testing.T) {
	l := NewLoader()
	if l == nil {
		t.Fatal("NewLoader returned nil")
	}
	if l.entries == nil {
		t.Fatal("NewLoader did not initialize the cache")
	}
}

func TestLoader_Load(t *testing.T) {
	l := NewLoader()
	imgPath := createTestImage(t, 100, 80, color.RGBA{255, 0, 0, 255})

	img, err := l.Load(context.Background(), imgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 80 {
		t.Errorf("unexpected dimensions: got %dx%d, want 100x80", b.Dx(), b.Dy())
	}
	if got := img.NRGBAAt(10, 10); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("pixel: got %v, want red", got)
	}
}

func TestLoader_Load_ReturnsCopies(t *testing.T) {
	l := NewLoader()
	imgPath := createTestImage(t, 20, 20, color.RGBA{0, 0, 0, 255})
	ctx := context.Background()

	first, err := l.Load(ctx, imgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	first.Set(5, 5, color.White)

	second, err := l.Load(ctx, imgPath)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if first == second {
		t.Fatal("Load returned the same buffer twice")
	}
	if got := second.NRGBAAt(5, 5); got != (color.NRGBA{0, 0, 0, 255}) {
		t.Errorf("drawing on one copy changed the cache: got %v", got)
	}
}

func TestLoader_Load_Cached(t *testing.T) {
	l := NewLoader()
	imgPath := createTestImage(t, 10, 10, color.RGBA{0, 255, 0, 255})
	ctx := context.Background()

	if _, err := l.Load(ctx, imgPath); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := os.Remove(imgPath); err != nil {
		t.Fatalf("failed to remove file: %v", err)
	}
	if _, err := l.Load(ctx, imgPath); err != nil {
		t.Errorf("cached Load should not touch disk: %v", err)
	}
}

func TestLoader_Load_NonExistent(t *testing.T) {
	l := NewLoader()
	_, err := l.Load(context.Background(), "/nonexistent/path/to/image.png")
	if err == nil {
		t.Error("Load should fail for non-existent file")
	}
}

func TestLoader_Load_InvalidImage(t *testing.T) {
	l := NewLoader()
	path := filepath.Join(t.TempDir(), "invalid.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	_, err := l.Load(context.Background(), path)
	if err == nil {
		t.Error("Load should fail for invalid image data")
	}
}

func TestLoader_LoadURL(t *testing.T) {
	imgPath := createTestImage(t, 30, 40, color.RGBA{0, 0, 255, 255})
	data, err := os.ReadFile(imgPath)
	if err != nil {
		t.Fatalf("failed to read test image: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/plan.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	l := NewLoader()
	img, err := l.Load(context.Background(), srv.URL+"/plan.png")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 30 || b.Dy() != 40 {
		t.Errorf("unexpected dimensions: got %dx%d, want 30x40", b.Dx(), b.Dy())
	}

	if _, err := l.Load(context.Background(), srv.URL+"/missing.png"); err == nil {
		t.Error("Load should fail for a 404 response")
	}
}

func TestLoader_LoadURL_Canceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader().Load(ctx, srv.URL+"/slow.png")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestReadLimited(t *testing.T) {
	_, err := readLimited(io.LimitReader(zeroReader{}, MaxImageBytes+1))
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("got %v, want ErrTooLarge", err)
	}
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{"http://example.com/a.png", true},
		{"https://example.com/a.png", true},
		{"/tmp/a.png", false},
		{"ftp://example.com/a.png", false},
		{"httpfile.png", false},
	}
	for _, tt := range tests {
		if got := IsURL(tt.source); got != tt.want {
			t.Errorf("IsURL(%q) = %v, want %v", tt.source, got, tt.want)
		}
	}
}

func TestLoader_Clear(t *testing.T) {
	l := NewLoader()
	imgPath := createTestImage(t, 50, 50, color.RGBA{0, 255, 0, 255})

	if _, err := l.Load(context.Background(), imgPath); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	l.Clear()

	l.mu.RLock()
	count := len(l.entries)
	l.mu.RUnlock()
	if count != 0 {
		t.Errorf("Clear did not empty cache: %d images remain", count)
	}
}

func TestLoader_Evict(t *testing.T) {
	l := NewLoader()
	imgPath := createTestImage(t, 50, 50, color.RGBA{0, 0, 255, 255})

	if _, err := l.Load(context.Background(), imgPath); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	l.Evict(imgPath)

	l.mu.RLock()
	_, exists := l.entries[imgPath]
	l.mu.RUnlock()
	if exists {
		t.Error("Evict did not remove image from cache")
	}

	// Evicting an unknown source is a no-op.
	l.Evict("/nonexistent/path")
}

func TestLoader_ConcurrentAccess(t *testing.T) {
	l := NewLoader()
	imgPath := createTestImage(t, 50, 50, color.RGBA{128, 128, 128, 255})

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			img, err := l.Load(context.Background(), imgPath)
			if err != nil {
				errs <- err
				return
			}
			img.Set(0, 0, color.White)
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Load error: %v", err)
	}
}

func TestLoadImageInfo(t *testing.T) {
	l := NewLoader()
	imgPath := createTestImage(t, 200, 150, color.RGBA{255, 128, 64, 255})

	info, err := LoadImageInfo(context.Background(), l, imgPath)
	if err != nil {
		t.Fatalf("LoadImageInfo failed: %v", err)
	}

	if info.Width != 200 {
		t.Errorf("Width: got %d, want 200", info.Width)
	}
	if info.Height != 150 {
		t.Errorf("Height: got %d, want 150", info.Height)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %s, want png", info.Format)
	}
	if info.SizeBytes <= 0 {
		t.Error("SizeBytes should be positive")
	}
}

func TestLoadImageInfo_FormatDetection(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))

	tests := []struct {
		format string
		encode func(io.Writer) error
	}{
		{"png", func(w io.Writer) error { return png.Encode(w, img) }},
		{"jpeg", func(w io.Writer) error { return jpeg.Encode(w, img, nil) }},
		{"gif", func(w io.Writer) error { return gif.Encode(w, img, nil) }},
		{"bmp", func(w io.Writer) error { return bmp.Encode(w, img) }},
		{"tiff", func(w io.Writer) error { return tiff.Encode(w, img, nil) }},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			// The extension is deliberately wrong; detection reads the data.
			path := filepath.Join(t.TempDir(), "image.dat")
			f, err := os.Create(path)
			if err != nil {
				t.Fatalf("failed to create file: %v", err)
			}
			if err := tt.encode(f); err != nil {
				f.Close()
				t.Fatalf("failed to encode: %v", err)
			}
			f.Close()

			info, err := LoadImageInfo(context.Background(), NewLoader(), path)
			if err != nil {
				t.Fatalf("LoadImageInfo failed: %v", err)
			}
			if info.Format != tt.format {
				t.Errorf("Format: got %s, want %s", info.Format, tt.format)
			}
			if info.Width != 10 || info.Height != 10 {
				t.Errorf("dimensions: got %dx%d, want 10x10", info.Width, info.Height)
			}
		})
	}
}

func TestLoadImageInfo_NonExistent(t *testing.T) {
	_, err := LoadImageInfo(context.Background(), NewLoader(), "/nonexistent/image.png")
	if err == nil {
		t.Error("LoadImageInfo should fail for non-existent file")
	}
}

func TestGetDimensions(t *testing.T) {
	l := NewLoader()
	imgPath := createTestImage(t, 300, 200, color.RGBA{100, 100, 100, 255})

	dims, err := GetDimensions(context.Background(), l, imgPath)
	if err != nil {
		t.Fatalf("GetDimensions failed: %v", err)
	}

	if dims.Width != 300 {
		t.Errorf("Width: got %d, want 300", dims.Width)
	}
	if dims.Height != 200 {
		t.Errorf("Height: got %d, want 200", dims.Height)
	}
}

func TestGetDimensions_NonExistent(t *testing.T) {
	_, err := GetDimensions(context.Background(), NewLoader(), "/nonexistent/image.png")
	if err == nil {
		t.Error("GetDimensions should fail for non-existent file")
	}
}

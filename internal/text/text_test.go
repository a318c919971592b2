package text

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/ironsheep/draw-labels-mcp/internal/geometry"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	gray  = color.RGBA{60, 60, 60, 255}
)

// createFilledImage creates an opaque image filled with a single color
func createFilledImage(width, height int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// changedPixels returns every point where a and b differ
func changedPixels(a, b *image.RGBA) []image.Point {
	var pts []image.Point
	bounds := a.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if a.RGBAAt(x, y) != b.RGBAAt(x, y) {
				pts = append(pts, image.Pt(x, y))
			}
		}
	}
	return pts
}

func cloneRGBA(img *image.RGBA) *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	copy(out.Pix, img.Pix)
	return out
}

func TestMeasure(t *testing.T) {
	size, err := Measure("Wall", 1, 4)
	if err != nil {
		t.Fatalf("Measure failed: %v", err)
	}
	if size.X <= 0 || size.Y <= 0 {
		t.Fatalf("expected positive size, got %v", size)
	}
	// Cap height of a 30 px face is a little over 20 px.
	if size.Y < 18 || size.Y > 26 {
		t.Errorf("height: got %d, want about 22", size.Y)
	}

	longer, err := Measure("Wall and more", 1, 4)
	if err != nil {
		t.Fatalf("Measure failed: %v", err)
	}
	if longer.X <= size.X {
		t.Errorf("longer text should be wider: %d <= %d", longer.X, size.X)
	}

	bigger, err := Measure("Wall", 2, 4)
	if err != nil {
		t.Fatalf("Measure failed: %v", err)
	}
	if bigger.X <= size.X || bigger.Y <= size.Y {
		t.Errorf("scale 2 should be larger: %v vs %v", bigger, size)
	}
}

func TestMeasure_InvalidStyle(t *testing.T) {
	tests := []struct {
		name      string
		scale     float64
		thickness int
	}{
		{"zero scale", 0, 4},
		{"negative scale", -1, 4},
		{"NaN scale", math.NaN(), 4},
		{"negative thickness", 1, -3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Measure("x", tt.scale, tt.thickness)
			if !errors.Is(err, ErrInvalidStyle) {
				t.Errorf("got %v, want ErrInvalidStyle", err)
			}
		})
	}
}

func TestAnchor_UsesReferenceMetrics(t *testing.T) {
	center := geometry.Pt(200, 200)
	size, err := Measure("Wall", referenceScale, referenceThickness)
	if err != nil {
		t.Fatalf("Measure failed: %v", err)
	}

	anchor, err := Anchor("Wall", center)
	if err != nil {
		t.Fatalf("Anchor failed: %v", err)
	}
	want := geometry.Pt(
		int(math.Trunc(200-0.5*float64(size.X))),
		int(math.Trunc(200+0.5*float64(size.Y))),
	)
	if anchor != want {
		t.Errorf("got %v, want %v", anchor, want)
	}
}

func TestDrawText_EmptyStringChangesNothing(t *testing.T) {
	img := createFilledImage(200, 200, gray)
	before := cloneRGBA(img)

	if err := DrawText(img, "", geometry.Pt(100, 100), 0.4, DefaultOptions()); err != nil {
		t.Fatalf("DrawText failed: %v", err)
	}
	if n := len(changedPixels(before, img)); n != 0 {
		t.Errorf("empty text changed %d pixels", n)
	}
}

func TestDrawText_OnlyGlyphPixelsChange(t *testing.T) {
	img := createFilledImage(400, 400, gray)
	before := cloneRGBA(img)
	center := geometry.Pt(200, 200)

	if err := DrawText(img, "Wall", center, 0, DefaultOptions()); err != nil {
		t.Fatalf("DrawText failed: %v", err)
	}

	changed := changedPixels(before, img)
	if len(changed) == 0 {
		t.Fatal("no pixels changed")
	}

	size, _ := Measure("Wall", 1, 4)
	box := image.Rect(center.X-size.X/2-3, center.Y-size.Y, center.X+size.X/2+3, center.Y+size.Y)
	for _, p := range changed {
		if got := img.RGBAAt(p.X, p.Y); got != white {
			t.Fatalf("changed pixel %v has color %v, want text color", p, got)
		}
		if !p.In(box) {
			t.Fatalf("changed pixel %v outside text box %v", p, box)
		}
	}
	if len(changed) >= box.Dx()*box.Dy() {
		t.Errorf("changed %d pixels, more than the text box area", len(changed))
	}
}

func TestDrawText_RotatesCounterClockwise(t *testing.T) {
	// A single glyph followed by spaces sits entirely left of the center.
	const s = "W        "
	center := geometry.Pt(150, 150)

	tests := []struct {
		name  string
		angle float64
		side  func(p image.Point) bool
	}{
		{"unrotated is left", 0, func(p image.Point) bool { return p.X < center.X }},
		{"quarter turn is below", math.Pi / 2, func(p image.Point) bool { return p.Y > center.Y }},
		{"negative quarter turn is above", -math.Pi / 2, func(p image.Point) bool { return p.Y < center.Y }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := createFilledImage(300, 300, color.RGBA{0, 0, 0, 255})
			before := cloneRGBA(img)
			if err := DrawText(img, s, center, tt.angle, DefaultOptions()); err != nil {
				t.Fatalf("DrawText failed: %v", err)
			}
			changed := changedPixels(before, img)
			if len(changed) == 0 {
				t.Fatal("no pixels changed")
			}
			for _, p := range changed {
				if !tt.side(p) {
					t.Fatalf("pixel %v on the wrong side of %v", p, center)
				}
			}
		})
	}
}

func TestDrawText_DarkTextIsNotComposited(t *testing.T) {
	img := createFilledImage(200, 200, color.RGBA{255, 255, 255, 255})
	before := cloneRGBA(img)

	opts := DefaultOptions()
	opts.Color = color.RGBA{40, 40, 40, 255}
	if err := DrawText(img, "Wall", geometry.Pt(100, 100), 0, opts); err != nil {
		t.Fatalf("DrawText failed: %v", err)
	}
	if n := len(changedPixels(before, img)); n != 0 {
		t.Errorf("dark text changed %d pixels", n)
	}
}

func TestDrawText_InvalidStyle(t *testing.T) {
	img := createFilledImage(50, 50, gray)
	opts := DefaultOptions()
	opts.Scale = 0
	if err := DrawText(img, "x", geometry.Pt(25, 25), 0, opts); !errors.Is(err, ErrInvalidStyle) {
		t.Errorf("got %v, want ErrInvalidStyle", err)
	}
}

func TestDrawText_OffsetBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(500, 500, 800, 700))
	before := cloneRGBA(img)
	center := geometry.Pt(650, 600)

	if err := DrawText(img, "Room", center, 0, DefaultOptions()); err != nil {
		t.Fatalf("DrawText failed: %v", err)
	}
	changed := changedPixels(before, img)
	if len(changed) == 0 {
		t.Fatal("no pixels changed")
	}
	for _, p := range changed {
		if abs(p.X-center.X) > 60 || abs(p.Y-center.Y) > 25 {
			t.Fatalf("pixel %v too far from center %v", p, center)
		}
	}
}

func TestComposite_ThresholdMask(t *testing.T) {
	layer := image.NewRGBA(image.Rect(0, 0, 4, 1))
	layer.SetRGBA(0, 0, color.RGBA{0, 0, 0, 0})
	layer.SetRGBA(1, 0, color.RGBA{50, 50, 50, 255})
	layer.SetRGBA(2, 0, color.RGBA{200, 200, 200, 255})
	layer.SetRGBA(3, 0, white)

	dst := createFilledImage(4, 1, color.RGBA{10, 20, 30, 255})
	before := cloneRGBA(dst)
	composite(dst, layer, image.Point{})

	if n := len(changedPixels(before, dst)); n != 2 {
		t.Errorf("changed: got %d, want 2", n)
	}
	want := []color.RGBA{
		{10, 20, 30, 255},
		{10, 20, 30, 255},
		{200, 200, 200, 255},
		white,
	}
	for x, w := range want {
		if got := dst.RGBAAt(x, 0); got != w {
			t.Errorf("pixel %d: got %v, want %v", x, got, w)
		}
	}
}

func TestDrawText_RotatedKeepsUncoveredCorners(t *testing.T) {
	img := createFilledImage(300, 300, gray)
	before := cloneRGBA(img)
	center := geometry.Pt(150, 150)

	if err := DrawText(img, "Wall", center, math.Pi/4, DefaultOptions()); err != nil {
		t.Fatalf("DrawText failed: %v", err)
	}
	changed := changedPixels(before, img)
	if len(changed) == 0 {
		t.Fatal("no pixels changed")
	}
	for _, p := range changed {
		if abs(p.X-center.X) > 50 || abs(p.Y-center.Y) > 50 {
			t.Fatalf("pixel %v too far from center %v", p, center)
		}
	}
}

func TestRender_DilatesWithThickness(t *testing.T) {
	size := image.Rect(0, 0, 200, 60)
	dot := geometry.Pt(20, 45)

	count := func(thickness int) int {
		opts := DefaultOptions()
		opts.Thickness = thickness
		layer, err := render(size, "Wall", dot, opts)
		if err != nil {
			t.Fatalf("render failed: %v", err)
		}
		n := 0
		for y := size.Min.Y; y < size.Max.Y; y++ {
			for x := size.Min.X; x < size.Max.X; x++ {
				switch c := layer.RGBAAt(x, y); c {
				case white:
					n++
				case color.RGBA{0, 0, 0, 255}:
				default:
					t.Fatalf("pixel (%d,%d) = %v, want text or opaque black", x, y, c)
				}
			}
		}
		return n
	}

	thin, thick := count(1), count(4)
	if thin == 0 {
		t.Fatal("thickness 1 drew nothing")
	}
	if thick <= thin {
		t.Errorf("thickness 4 should cover more pixels: %d <= %d", thick, thin)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

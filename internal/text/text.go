// Package text renders label text rotated to match an edge and composites it
// onto an image.
//
// Text is drawn in light color onto a black layer the size of the target,
// the layer is rotated about the label center, and only pixels whose rotated
// intensity exceeds half scale are copied into the target. Everything else in
// the target is left untouched, so dark text colors do not show up.
//
// A single built-in family (Go Regular) is used. Font scale 1 is a 30 px face.
// Glyphs are drawn without anti-aliasing and thickened by a max filter
// (bild's effect.Dilate) to approximate stroke thickness.
package text

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"github.com/anthonynsimon/bild/effect"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/draw-labels-mcp/internal/geometry"
)

// ErrInvalidStyle is returned for a non-positive font scale or negative thickness.
var ErrInvalidStyle = errors.New("text: invalid style")

const (
	// pixelsPerScale is the face size in pixels at font scale 1.
	pixelsPerScale = 30

	// The anchor is always measured with these metrics, whatever style the
	// text is then drawn in.
	referenceScale     = 1
	referenceThickness = 4

	// coverageOn is the glyph coverage at which an aliased pixel is set.
	coverageOn = 0x80
)

// Options controls how label text is drawn.
type Options struct {
	// Scale multiplies the 30 px base face size.
	Scale float64
	// Thickness approximates stroke width in pixels.
	Thickness int
	// Color is written as-is into the target; use a light color.
	Color color.RGBA
}

// DefaultOptions returns scale 1, thickness 4, white text.
func DefaultOptions() Options {
	return Options{
		Scale:     1,
		Thickness: 4,
		Color:     color.RGBA{255, 255, 255, 255},
	}
}

func (o Options) validate() error {
	if o.Scale <= 0 || math.IsNaN(o.Scale) || math.IsInf(o.Scale, 0) {
		return fmt.Errorf("%w: font scale %v", ErrInvalidStyle, o.Scale)
	}
	if o.Thickness < 0 {
		return fmt.Errorf("%w: thickness %d", ErrInvalidStyle, o.Thickness)
	}
	return nil
}

var (
	fontOnce sync.Once
	fontErr  error
	regular  *opentype.Font
)

func loadFont() (*opentype.Font, error) {
	fontOnce.Do(func() {
		regular, fontErr = opentype.Parse(goregular.TTF)
		if fontErr != nil {
			fontErr = fmt.Errorf("failed to parse built-in font: %w", fontErr)
		}
	})
	return regular, fontErr
}

func newFace(scale float64) (font.Face, error) {
	f, err := loadFont()
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    pixelsPerScale * scale,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return face, nil
}

// dilation is the square dilation radius that emulates a stroke thickness.
func dilation(thickness int) int {
	if thickness <= 1 {
		return 0
	}
	return (thickness - 1) / 2
}

// Measure returns the width of s and its height above the baseline, in
// pixels, when drawn at the given scale and thickness.
func Measure(s string, scale float64, thickness int) (image.Point, error) {
	opts := Options{Scale: scale, Thickness: thickness}
	if err := opts.validate(); err != nil {
		return image.Point{}, err
	}
	face, err := newFace(scale)
	if err != nil {
		return image.Point{}, err
	}
	defer face.Close()

	r := dilation(thickness)
	capBounds, _ := font.BoundString(face, "H")
	size := image.Point{
		X: font.MeasureString(face, s).Ceil() + 2*r,
		Y: (-capBounds.Min.Y).Ceil() + r,
	}
	return size, nil
}

// Anchor returns the baseline origin that centers s on center. The text is
// always measured at scale 1 and thickness 4.
func Anchor(s string, center geometry.Point) (geometry.Point, error) {
	size, err := Measure(s, referenceScale, referenceThickness)
	if err != nil {
		return geometry.Point{}, err
	}
	return geometry.Point{
		X: int(math.Trunc(float64(center.X) - 0.5*float64(size.X))),
		Y: int(math.Trunc(float64(center.Y) + 0.5*float64(size.Y))),
	}, nil
}

// render draws s in opts.Color onto an opaque black layer of the given size,
// with its baseline origin at dot. Glyphs are aliased at half coverage and
// then dilated to the stroke thickness.
func render(size image.Rectangle, s string, dot geometry.Point, opts Options) (*image.RGBA, error) {
	face, err := newFace(opts.Scale)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	layer := image.NewRGBA(size)
	draw.Draw(layer, size, image.Black, image.Point{}, draw.Src)

	coverage := image.NewAlpha(size)
	d := font.Drawer{
		Dst:  coverage,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(dot.X, dot.Y),
	}
	glyphs, _ := d.BoundString(s)
	d.DrawString(s)

	for y := size.Min.Y; y < size.Max.Y; y++ {
		for x := size.Min.X; x < size.Max.X; x++ {
			if coverage.AlphaAt(x, y).A >= coverageOn {
				layer.SetRGBA(x, y, opts.Color)
			}
		}
	}

	r := dilation(opts.Thickness)
	if r == 0 {
		return layer, nil
	}
	// Dilate only around the glyphs; the margin keeps bild's edge extension
	// on black.
	box := image.Rect(
		glyphs.Min.X.Floor()-r-1, glyphs.Min.Y.Floor()-r-1,
		glyphs.Max.X.Ceil()+r+1, glyphs.Max.Y.Ceil()+r+1,
	).Intersect(size)
	if box.Empty() {
		return layer, nil
	}
	crop := image.NewRGBA(image.Rect(0, 0, box.Dx(), box.Dy()))
	draw.Draw(crop, crop.Bounds(), layer, box.Min, draw.Src)
	thick := effect.Dilate(crop, float64(r))
	draw.Draw(layer, box, thick, image.Point{}, draw.Src)
	return layer, nil
}

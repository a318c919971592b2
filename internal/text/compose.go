package text

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/anthonynsimon/bild/transform"

	"github.com/ironsheep/draw-labels-mcp/internal/geometry"
)

// maskLevel is the lowest layer intensity copied into the target, so pixels
// brighter than 127.5 are composited.
const maskLevel = 128

// DrawText draws s centered on center and rotated counter-clockwise by angle
// radians, then copies the rendered glyph pixels into dst.
//
// Parameters:
//   - dst: The target image. Only pixels under glyph strokes are written.
//   - s: The text to draw. An empty string leaves dst unchanged.
//   - center: The label center in dst coordinates; the text is rotated about it.
//   - angle: Rotation in radians, counter-clockwise on screen.
//   - opts: Face scale, stroke thickness and color.
//
// Pixels whose rendered intensity is at or below half scale are not copied,
// so a dark opts.Color draws nothing. Angles under half a degree are drawn
// unrotated.
//
// # Errors
//
// Returns ErrInvalidStyle when opts has a non-positive scale or a negative
// thickness, or an error if the built-in font cannot be loaded.
//
// The text layer is allocated per call and discarded afterwards.
func DrawText(dst draw.Image, s string, center geometry.Point, angle float64, opts Options) error {
	if err := opts.validate(); err != nil {
		return err
	}
	anchor, err := Anchor(s, center)
	if err != nil {
		return err
	}

	bounds := dst.Bounds()
	if s == "" || bounds.Empty() {
		return nil
	}
	origin := bounds.Min
	local := func(p geometry.Point) geometry.Point {
		return geometry.Point{X: p.X - origin.X, Y: p.Y - origin.Y}
	}

	layer, err := render(image.Rect(0, 0, bounds.Dx(), bounds.Dy()), s, local(anchor), opts)
	if err != nil {
		return err
	}

	pivot := local(center)
	rotated := rotate(layer, angle, image.Point{X: pivot.X, Y: pivot.Y})
	composite(dst, rotated, origin)
	return nil
}

// rotate turns img counter-clockwise by angle radians about pivot, keeping
// its bounds. Pixels rotated out of bounds are dropped.
func rotate(img *image.RGBA, angle float64, pivot image.Point) *image.RGBA {
	degrees := geometry.Anchor{Angle: angle}.Degrees()
	// bild rotates clockwise for positive angles.
	return transform.Rotate(img, -degrees, &transform.RotationOptions{
		ResizeBounds: false,
		Pivot:        &pivot,
	})
}

// mask thresholds the layer's luminance into an on/off mask.
func mask(layer image.Image) *image.Gray {
	return segment.Threshold(effect.Grayscale(layer), maskLevel)
}

// flatten composes layer over opaque black. bild's threshold reports fully
// transparent pixels as on, and rotation leaves the corners it uncovers
// transparent.
func flatten(layer image.Image) *image.RGBA {
	b := layer.Bounds()
	flat := image.NewRGBA(b)
	draw.Draw(flat, b, image.Black, image.Point{}, draw.Src)
	draw.Draw(flat, b, layer, b.Min, draw.Over)
	return flat
}

// composite replaces each dst pixel with the layer pixel wherever the layer,
// flattened onto black, is brighter than maskLevel.
func composite(dst draw.Image, layer image.Image, origin image.Point) {
	flat := flatten(layer)
	m := mask(flat)
	b := flat.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if m.GrayAt(x, y).Y == 0 {
				continue
			}
			i := flat.PixOffset(x, y)
			px := flat.Pix[i : i+3 : i+3]
			dst.Set(origin.X+x, origin.Y+y, color.RGBA{R: px[0], G: px[1], B: px[2], A: 255})
		}
	}
}

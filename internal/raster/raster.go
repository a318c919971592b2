// Package raster draws the solid shapes that make up a label: edge endpoints,
// edge segments and the rounded-rectangle background behind the text.
//
// Shapes are filled with anti-aliased coverage computed by
// golang.org/x/image/vector and composited over the destination. Integer
// coordinates address pixel centers, so the point (x,y) is the middle of the
// pixel whose top-left corner is (x,y).
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/ironsheep/draw-labels-mcp/internal/geometry"
)

// ErrInvalidStyle is returned for negative radii or stroke thicknesses.
var ErrInvalidStyle = errors.New("raster: invalid style")

// bezierCircle is the cubic control-point distance for a quarter circle of radius 1.
const bezierCircle = 0.5522847498307936

// canvas adapts a destination image to a reusable vector rasterizer the size
// of its bounds.
type canvas struct {
	dst    draw.Image
	origin image.Point
	z      *vector.Rasterizer
	src    *image.Uniform
}

func newCanvas(dst draw.Image, c color.Color) *canvas {
	b := dst.Bounds()
	return &canvas{
		dst:    dst,
		origin: b.Min,
		z:      vector.NewRasterizer(b.Dx(), b.Dy()),
		src:    image.NewUniform(c),
	}
}

// local maps an image point to the center of its pixel in rasterizer space.
func (c *canvas) local(p geometry.Point) (float32, float32) {
	return float32(p.X-c.origin.X) + 0.5, float32(p.Y-c.origin.Y) + 0.5
}

// fill composites the accumulated path and clears it for the next shape.
func (c *canvas) fill() {
	c.z.Draw(c.dst, c.dst.Bounds(), c.src, image.Point{})
	size := c.z.Size()
	c.z.Reset(size.X, size.Y)
}

func (c *canvas) circle(center geometry.Point, radius int) {
	if radius <= 0 {
		return
	}
	x, y := c.local(center)
	r := float32(radius)
	k := r * bezierCircle

	c.z.MoveTo(x+r, y)
	c.z.CubeTo(x+r, y+k, x+k, y+r, x, y+r)
	c.z.CubeTo(x-k, y+r, x-r, y+k, x-r, y)
	c.z.CubeTo(x-r, y-k, x-k, y-r, x, y-r)
	c.z.CubeTo(x+k, y-r, x+r, y-k, x+r, y)
	c.z.ClosePath()
	c.fill()
}

func (c *canvas) polygon(pts []geometry.Point) {
	if len(pts) < 3 {
		return
	}
	x, y := c.local(pts[0])
	c.z.MoveTo(x, y)
	for _, p := range pts[1:] {
		x, y = c.local(p)
		c.z.LineTo(x, y)
	}
	c.z.ClosePath()
	c.fill()
}

// segment fills a thickness-wide band between p0 and p1 with flat ends.
func (c *canvas) segment(p0, p1 geometry.Point, thickness int) {
	if thickness <= 0 || p0 == p1 {
		return
	}
	x0, y0 := c.local(p0)
	x1, y1 := c.local(p1)
	dx, dy := float64(x1-x0), float64(y1-y0)
	length := math.Hypot(dx, dy)
	half := float64(thickness) / 2
	nx := float32(-dy / length * half)
	ny := float32(dx / length * half)

	c.z.MoveTo(x0+nx, y0+ny)
	c.z.LineTo(x1+nx, y1+ny)
	c.z.LineTo(x1-nx, y1-ny)
	c.z.LineTo(x0-nx, y0-ny)
	c.z.ClosePath()
	c.fill()
}

// DrawEdge draws a disk of pointRadius at both endpoints of e and a segment
// of the given thickness between them.
func DrawEdge(dst draw.Image, e geometry.Edge, c color.Color, pointRadius, thickness int) error {
	if pointRadius < 0 || thickness < 0 {
		return fmt.Errorf("%w: point radius %d, thickness %d", ErrInvalidStyle, pointRadius, thickness)
	}
	p0, p1, err := geometry.SortLeft(e.Points())
	if err != nil {
		return err
	}
	if dst.Bounds().Empty() {
		return nil
	}

	cv := newCanvas(dst, c)
	cv.circle(p0, pointRadius)
	cv.circle(p1, pointRadius)
	cv.segment(p0, p1, thickness)
	return nil
}

// DrawRoundedRect draws a stadium shape: a 2w by 2b rectangle centered on
// center and rotated by angle, capped at both short sides with disks of
// radius b.
func DrawRoundedRect(dst draw.Image, c color.Color, center geometry.Point, angle float64, b, w int) error {
	if b < 0 || w < 0 {
		return fmt.Errorf("%w: half-height %d, half-width %d", ErrInvalidStyle, b, w)
	}
	if dst.Bounds().Empty() {
		return nil
	}

	rect := geometry.RotatedRectVertices(center, angle, b, w)
	cv := newCanvas(dst, c)
	cv.polygon(rect[:])
	cv.circle(geometry.ProjectPoint(center, float64(w), angle), b)
	cv.circle(geometry.ProjectPoint(center, -float64(w), angle), b)
	return nil
}

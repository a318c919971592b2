// Package geometry computes label placement on image-space coordinates.
//
// All coordinates use the image convention: (0,0) is the top-left corner,
// X increases rightward and Y increases downward. Angles are in radians and
// follow the mathematical counter-clockwise convention as seen on screen, so
// every vertical component is negated when mapped back into image space.
//
// # Truncation
//
// Every float-to-int conversion truncates toward zero. Results are never
// rounded to nearest, so -2.5 becomes -2.
package geometry

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrPointCount is returned when an operation receives the wrong number of points.
	ErrPointCount = errors.New("geometry: wrong number of points")

	// ErrVerticalEdge is returned when an edge has no defined slope angle
	// because both endpoints share the same X coordinate.
	ErrVerticalEdge = errors.New("geometry: vertical edge has undefined angle")

	// ErrDegenerateEdge is returned when a base edge has zero length.
	ErrDegenerateEdge = errors.New("geometry: zero-length edge")
)

// Point is a 2D integer coordinate in image space.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// String returns "(x,y)".
func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Edge is an unordered pair of points defining a line segment.
type Edge struct {
	P0 Point `json:"p0"`
	P1 Point `json:"p1"`
}

// Points returns the edge endpoints as a slice, in stored order.
func (e Edge) Points() []Point {
	return []Point{e.P0, e.P1}
}

// Anchor is the placement of a label: the point it is centered on and the
// angle its baseline is rotated by.
type Anchor struct {
	Center Point   `json:"center"`
	Angle  float64 `json:"angle"`
}

// Degrees returns the anchor angle in degrees.
func (a Anchor) Degrees() float64 {
	return a.Angle * 180 / math.Pi
}

// trunc converts a float coordinate to int, truncating toward zero.
func trunc(v float64) int {
	return int(math.Trunc(v))
}

// SortLeft orders exactly two points by ascending X, breaking ties by
// ascending Y.
func SortLeft(points []Point) (Point, Point, error) {
	if len(points) != 2 {
		return Point{}, Point{}, fmt.Errorf("%w: sort needs 2, got %d", ErrPointCount, len(points))
	}
	p0, p1 := points[0], points[1]
	if p1.X < p0.X || (p1.X == p0.X && p1.Y < p0.Y) {
		p0, p1 = p1, p0
	}
	return p0, p1, nil
}

// Midpoint returns the point at fraction along the edge, measured from its
// left endpoint, together with the edge angle. A fraction of 0.5 is the
// midpoint. The result does not depend on the order the endpoints are stored in.
func Midpoint(e Edge, fraction float64) (Anchor, error) {
	p0, p1, err := SortLeft(e.Points())
	if err != nil {
		return Anchor{}, err
	}
	return PointAlong(p0, p1, fraction)
}

// PointAlong returns the point at fraction of the way from p0 to p1 and the
// angle of the line through them.
//
// The angle is atan((p0.Y-p1.Y)/(p1.X-p0.X)): the Y difference is flipped
// because image Y grows downward. It lies in (-π/2, π/2) and is the same for
// either endpoint order. ErrVerticalEdge is returned when p0.X == p1.X.
func PointAlong(p0, p1 Point, fraction float64) (Anchor, error) {
	dx := p1.X - p0.X
	if dx == 0 {
		return Anchor{}, fmt.Errorf("%w: %v-%v", ErrVerticalEdge, p0, p1)
	}

	center := Point{
		X: trunc(float64(p0.X) + fraction*float64(dx)),
		Y: trunc(float64(p0.Y) + fraction*float64(p1.Y-p0.Y)),
	}
	angle := math.Atan(float64(p0.Y-p1.Y) / float64(dx))
	return Anchor{Center: center, Angle: angle}, nil
}

// ProjectPoint moves distance units from p in direction angle.
func ProjectPoint(p Point, distance, angle float64) Point {
	return Point{
		X: trunc(float64(p.X) + distance*math.Cos(angle)),
		Y: trunc(float64(p.Y) - distance*math.Sin(angle)),
	}
}

var (
	rectSignsX = mat.NewDense(4, 2, []float64{
		-1, -1,
		1, -1,
		1, 1,
		-1, 1,
	})
	rectSignsY = mat.NewDense(4, 2, []float64{
		1, -1,
		-1, -1,
		-1, 1,
		1, 1,
	})
)

// RotatedRectVertices returns the corners of a 2w by 2b rectangle centered
// on center and rotated counter-clockwise by angle.
//
// Parameters:
//   - center: The rectangle center.
//   - angle: Rotation in radians, counter-clockwise on screen.
//   - b: Half the rectangle height, across the rotated axis.
//   - w: Half the rectangle width, along the rotated axis.
//
// Returns:
//   - Four corners. For angle 0 they are, in order: top-left, top-right,
//     bottom-right, bottom-left.
//
// Offsets from the center are truncated before translation.
func RotatedRectVertices(center Point, angle float64, b, w int) [4]Point {
	sin, cos := math.Sincos(angle)
	fw, fb := float64(w), float64(b)

	var xs, ys mat.Dense
	xs.Mul(rectSignsX, mat.NewVecDense(2, []float64{fw * cos, fb * sin}))
	ys.Mul(rectSignsY, mat.NewVecDense(2, []float64{fw * sin, fb * cos}))

	var rect [4]Point
	for i := range rect {
		rect[i] = Point{
			X: trunc(xs.At(i, 0)) + center.X,
			Y: trunc(ys.At(i, 0)) + center.Y,
		}
	}
	return rect
}

// PerpendicularFoot returns the orthogonal projection of p3 onto the line
// through p1 and p2, so that (foot, p3) is perpendicular to (p1, p2).
// ErrDegenerateEdge is returned when p1 == p2.
func PerpendicularFoot(p1, p2, p3 Point) (Point, error) {
	dx := float64(p2.X - p1.X)
	dy := float64(p2.Y - p1.Y)
	det := dx*dx + dy*dy
	if det == 0 {
		return Point{}, fmt.Errorf("%w: base %v-%v", ErrDegenerateEdge, p1, p2)
	}

	t := (float64(p3.X-p1.X)*dx + float64(p3.Y-p1.Y)*dy) / det
	return Point{
		X: trunc(float64(p1.X) + t*dx),
		Y: trunc(float64(p1.Y) + t*dy),
	}, nil
}

// Package label draws labeled annotations onto images.
//
// A label is either an edge label, two points and a text centered on the
// edge between them, or a T label, three points (p1, p2, p3) where the text
// sits on the perpendicular dropped from p3 onto the line (p1, p2). Each
// label is drawn as its edges, a rounded-rectangle background oriented
// along the labeled edge, and the text rotated to match.
//
// Drawing happens in place on a caller-owned draw.Image. Labels are drawn in
// input order, so later labels cover earlier ones where they overlap.
// Nothing here locks: callers drawing into one buffer from several
// goroutines must serialize those calls.
//
// # Errors
//
// A label's geometry is computed before any of its pixels are touched, so a
// label that fails is never partly drawn. In a batch, malformed records are
// rejected before anything is drawn; a later geometry or rendering failure
// stops the batch and leaves earlier labels in place.
package label

import (
	"errors"
	"fmt"
	"image/color"
	"image/draw"
	"log/slog"

	"github.com/ironsheep/draw-labels-mcp/internal/geometry"
	"github.com/ironsheep/draw-labels-mcp/internal/raster"
	"github.com/ironsheep/draw-labels-mcp/internal/text"
)

const (
	// edgeFraction places edge label text at the middle of the edge.
	edgeFraction = 0.5
	// tFraction places T label text 30% of the way from the foot to p3.
	tFraction = 0.3
)

var (
	// ErrMalformedLabel is returned for labels that are neither two nor three points.
	ErrMalformedLabel = errors.New("label: malformed label")

	// ErrInvalidStyle is returned when a Style has sizes that cannot be drawn.
	ErrInvalidStyle = errors.New("label: invalid style")
)

// Kind says how a label is laid out.
type Kind int

const (
	// KindEdge is a two-point label centered on its edge.
	KindEdge Kind = iota
	// KindT is a three-point label on the perpendicular from its third point.
	KindT
)

func (k Kind) String() string {
	switch k {
	case KindEdge:
		return "edge"
	case KindT:
		return "t"
	default:
		return "unknown"
	}
}

// Label is one annotation: its points and the text drawn on it.
type Label struct {
	Points []geometry.Point `json:"points"`
	Text   string           `json:"text"`
}

// Kind returns the layout implied by the number of points.
func (l Label) Kind() (Kind, error) {
	switch len(l.Points) {
	case 2:
		return KindEdge, nil
	case 3:
		return KindT, nil
	default:
		return 0, fmt.Errorf("%w: %d points, want 2 or 3", ErrMalformedLabel, len(l.Points))
	}
}

// Placement is the fully computed geometry of a label.
type Placement struct {
	Kind Kind `json:"kind"`
	// Edges are drawn in order before the background.
	Edges []geometry.Edge `json:"edges"`
	// Foot is the perpendicular foot of a T label; zero for edge labels.
	Foot geometry.Point `json:"foot"`
	// Anchor is the background and text center and its rotation.
	Anchor geometry.Anchor `json:"anchor"`
}

// PlaceEdge computes the placement of an edge label.
func PlaceEdge(e geometry.Edge) (Placement, error) {
	anchor, err := geometry.Midpoint(e, edgeFraction)
	if err != nil {
		return Placement{}, err
	}
	return Placement{
		Kind:   KindEdge,
		Edges:  []geometry.Edge{e},
		Anchor: anchor,
	}, nil
}

// PlaceT computes the placement of a T label on points p1, p2, p3.
//
// The text is centered 30% of the way from the foot of the perpendicular to
// p3 and oriented along that perpendicular. A T label whose base is
// horizontal has a vertical perpendicular and fails with
// geometry.ErrVerticalEdge.
func PlaceT(p1, p2, p3 geometry.Point) (Placement, error) {
	foot, err := geometry.PerpendicularFoot(p1, p2, p3)
	if err != nil {
		return Placement{}, err
	}
	anchor, err := geometry.PointAlong(foot, p3, tFraction)
	if err != nil {
		return Placement{}, err
	}
	return Placement{
		Kind: KindT,
		Edges: []geometry.Edge{
			{P0: p1, P1: p2},
			{P0: foot, P1: p3},
		},
		Foot:   foot,
		Anchor: anchor,
	}, nil
}

// Place computes the placement of l from its point count.
func Place(l Label) (Placement, error) {
	kind, err := l.Kind()
	if err != nil {
		return Placement{}, err
	}
	if kind == KindT {
		return PlaceT(l.Points[0], l.Points[1], l.Points[2])
	}
	return PlaceEdge(geometry.Edge{P0: l.Points[0], P1: l.Points[1]})
}

// Drawer draws labels with a fixed Config.
type Drawer struct {
	cfg Config
}

// NewDrawer returns a Drawer using cfg.
func NewDrawer(cfg Config) *Drawer {
	return &Drawer{cfg: cfg}
}

// Config returns the configuration the Drawer was built with.
func (d *Drawer) Config() Config {
	return d.cfg
}

// DrawLabel draws an edge label on e with background c and text color textColor.
func (d *Drawer) DrawLabel(dst draw.Image, e geometry.Edge, s string, c, textColor color.RGBA) error {
	p, err := PlaceEdge(e)
	if err != nil {
		return err
	}
	return d.draw(dst, p, s, c, textColor)
}

// DrawTLabel draws a T label on pts with background c and text color textColor.
func (d *Drawer) DrawTLabel(dst draw.Image, pts [3]geometry.Point, s string, c, textColor color.RGBA) error {
	p, err := PlaceT(pts[0], pts[1], pts[2])
	if err != nil {
		return err
	}
	return d.draw(dst, p, s, c, textColor)
}

// DrawLabels draws labels in order using the configured colors: EdgeColor
// for two-point labels and TColor for three-point labels.
//
// Parameters:
//   - dst: The image to draw on, modified in place.
//   - labels: Labels in drawing order; later labels are drawn on top.
//
// Returns nil once every label is drawn.
//
// # Errors
//
// Every label is checked for a valid point count before drawing starts; the
// first bad one is reported as a *RecordError and dst is left unchanged.
// Otherwise drawing stops at the first label that fails, reported as a
// *DrawError, and all labels before it stay drawn.
func (d *Drawer) DrawLabels(dst draw.Image, labels []Label) error {
	for i, l := range labels {
		if _, err := l.Kind(); err != nil {
			return &RecordError{Index: i, Points: len(l.Points), Err: err}
		}
	}
	if err := d.cfg.Style.Validate(); err != nil {
		return err
	}

	log := Logger()
	for i, l := range labels {
		p, err := Place(l)
		if err != nil {
			return &DrawError{Index: i, Err: err}
		}

		c := d.cfg.EdgeColor
		if p.Kind == KindT {
			c = d.cfg.TColor
		}
		log.Debug("drawing label",
			slog.Int("index", i),
			slog.String("kind", p.Kind.String()),
			slog.String("center", p.Anchor.Center.String()),
			slog.Float64("angle", p.Anchor.Angle),
		)
		if err := d.draw(dst, p, l.Text, c, d.cfg.TextColor); err != nil {
			return &DrawError{Index: i, Err: err}
		}
	}
	return nil
}

// draw renders a computed placement: edges, background, then text.
func (d *Drawer) draw(dst draw.Image, p Placement, s string, c, textColor color.RGBA) error {
	style := d.cfg.Style
	if err := style.Validate(); err != nil {
		return err
	}
	// Surface font problems before the first shape lands on dst.
	if _, err := text.Measure(s, style.FontScale, style.TextThickness); err != nil {
		return fmt.Errorf("failed to measure text: %w", err)
	}
	bg := d.cfg.Order.Apply(c)

	for _, e := range p.Edges {
		if err := raster.DrawEdge(dst, e, bg, style.PointRadius, style.EdgeThickness); err != nil {
			return fmt.Errorf("failed to draw edge: %w", err)
		}
	}
	if err := raster.DrawRoundedRect(dst, bg, p.Anchor.Center, p.Anchor.Angle, style.HalfHeight, style.HalfWidth); err != nil {
		return fmt.Errorf("failed to draw background: %w", err)
	}
	if err := text.DrawText(dst, s, p.Anchor.Center, p.Anchor.Angle, d.cfg.textOptions(textColor)); err != nil {
		return fmt.Errorf("failed to draw text: %w", err)
	}
	return nil
}

var defaultDrawer = NewDrawer(DefaultConfig())

// DrawLabel draws an edge label with the default style.
func DrawLabel(dst draw.Image, e geometry.Edge, s string, c, textColor color.RGBA) error {
	return defaultDrawer.DrawLabel(dst, e, s, c, textColor)
}

// DrawTLabel draws a T label with the default style.
func DrawTLabel(dst draw.Image, pts [3]geometry.Point, s string, c, textColor color.RGBA) error {
	return defaultDrawer.DrawTLabel(dst, pts, s, c, textColor)
}

// DrawLabels draws labels with DefaultConfig. See Drawer.DrawLabels for
// ordering and errors.
func DrawLabels(dst draw.Image, labels []Label) error {
	return defaultDrawer.DrawLabels(dst, labels)
}

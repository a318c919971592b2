package label

import (
	"fmt"
	"image/color"

	"github.com/ironsheep/draw-labels-mcp/internal/palette"
	"github.com/ironsheep/draw-labels-mcp/internal/text"
)

// Style holds the sizes used to draw a label.
type Style struct {
	// PointRadius is the radius of the disk drawn at each edge endpoint.
	PointRadius int `json:"point_radius"`
	// EdgeThickness is the width of the segment between endpoints.
	EdgeThickness int `json:"edge_thickness"`
	// HalfHeight is the distance from the label center to the long side of
	// the background, and the radius of its rounded caps.
	HalfHeight int `json:"half_height"`
	// HalfWidth is the distance from the label center to each cap center.
	HalfWidth int `json:"half_width"`
	// FontScale multiplies the base text size.
	FontScale float64 `json:"font_scale"`
	// TextThickness approximates the text stroke width.
	TextThickness int `json:"text_thickness"`
}

// DefaultStyle returns the standard label sizes.
func DefaultStyle() Style {
	return Style{
		PointRadius:   10,
		EdgeThickness: 2,
		HalfHeight:    22,
		HalfWidth:     70,
		FontScale:     1,
		TextThickness: 4,
	}
}

// Validate reports the first size that cannot be drawn.
func (s Style) Validate() error {
	switch {
	case s.PointRadius < 0:
		return fmt.Errorf("%w: point radius %d", ErrInvalidStyle, s.PointRadius)
	case s.EdgeThickness < 0:
		return fmt.Errorf("%w: edge thickness %d", ErrInvalidStyle, s.EdgeThickness)
	case s.HalfHeight < 0 || s.HalfWidth < 0:
		return fmt.Errorf("%w: background size %dx%d", ErrInvalidStyle, s.HalfWidth, s.HalfHeight)
	case !(s.FontScale > 0):
		return fmt.Errorf("%w: font scale %v", ErrInvalidStyle, s.FontScale)
	case s.TextThickness < 0:
		return fmt.Errorf("%w: text thickness %d", ErrInvalidStyle, s.TextThickness)
	}
	return nil
}

// Config selects the style, colors and buffer channel order for drawing.
// Colors are given in RGB and converted to Order when written.
type Config struct {
	Style Style

	// EdgeColor is the background of two-point labels.
	EdgeColor color.RGBA
	// TColor is the background of three-point labels.
	TColor color.RGBA
	// TextColor must be light to show up; see package text.
	TextColor color.RGBA

	Order palette.ChannelOrder
}

// DefaultConfig returns yellow edge labels, blue T labels and white text
// for an RGB buffer.
func DefaultConfig() Config {
	return Config{
		Style:     DefaultStyle(),
		EdgeColor: palette.Yellow,
		TColor:    palette.Blue,
		TextColor: palette.White,
		Order:     palette.RGB,
	}
}

func (c Config) textOptions(textColor color.RGBA) text.Options {
	return text.Options{
		Scale:     c.Style.FontScale,
		Thickness: c.Style.TextThickness,
		Color:     c.Order.Apply(textColor),
	}
}

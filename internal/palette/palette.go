// Package palette defines the named label colors and the channel order used
// when writing them into a pixel buffer.
package palette

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ChannelOrder describes how the three color channels of a buffer are laid out.
//
// Go image types hold red in the first channel (RGB). Buffers shared with
// OpenCV-style tooling hold blue first (BGR); writing an RGB color into such a
// buffer without swapping would turn yellow labels light blue.
type ChannelOrder int

const (
	// RGB writes colors unchanged.
	RGB ChannelOrder = iota
	// BGR swaps the red and blue channels before writing.
	BGR
)

func (o ChannelOrder) String() string {
	switch o {
	case RGB:
		return "rgb"
	case BGR:
		return "bgr"
	default:
		return "unknown"
	}
}

// ParseChannelOrder parses "rgb" or "bgr" (case-insensitive). The empty
// string selects RGB.
func ParseChannelOrder(s string) (ChannelOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "rgb":
		return RGB, nil
	case "bgr":
		return BGR, nil
	default:
		return RGB, fmt.Errorf("unknown channel order %q (want rgb or bgr)", s)
	}
}

// Apply returns c laid out for a buffer of this channel order.
func (o ChannelOrder) Apply(c color.RGBA) color.RGBA {
	if o == BGR {
		c.R, c.B = c.B, c.R
	}
	return c
}

// Named label colors, in RGB.
var (
	White  = MustHex("#FFFFFF")
	Black  = MustHex("#000000")
	Red    = MustHex("#FF0000")
	Green  = MustHex("#00FF00")
	Blue   = MustHex("#1557C1")
	Yellow = MustHex("#F4B942")
)

var named = map[string]color.RGBA{
	"white":  White,
	"black":  Black,
	"red":    Red,
	"green":  Green,
	"blue":   Blue,
	"yellow": Yellow,
}

// Hex parses a "#RRGGBB" string into an opaque color.
func Hex(s string) (color.RGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// MustHex is like Hex but panics on malformed input. It is meant for
// package-level color literals.
func MustHex(s string) color.RGBA {
	c, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Parse resolves a color name ("yellow") or a hex string ("#F4B942").
func Parse(s string) (color.RGBA, error) {
	if c, ok := named[strings.ToLower(s)]; ok {
		return c, nil
	}
	return Hex(s)
}

// ToHex formats c as "#RRGGBB", ignoring alpha.
func ToHex(c color.Color) string {
	cf, _ := colorful.MakeColor(c)
	return strings.ToUpper(cf.Hex())
}

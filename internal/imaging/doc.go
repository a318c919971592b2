// Package imaging loads, samples and encodes the images labels are drawn on.
//
// Images come from file paths or http(s) URLs through a Loader, which caches
// the decoded data and hands every caller its own mutable *image.NRGBA
// copy. Finished images are encoded back to PNG, either as bytes, as a
// base64 payload for MCP responses, or saved to disk.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward.
//
// # Thread Safety
//
// Loader is safe for concurrent use. Because Load returns a fresh copy, two
// callers never draw into the same buffer by accident. Sampling and encoding
// are stateless.
//
// # Color Representation
//
// Sampled colors are returned as:
//   - Hex: 6-character format "#RRGGBB" (alpha excluded)
//   - RGB: 8-bit components (0-255)
//   - RGBA: 8-bit components with alpha (0-255)
//   - HSL: Hue (0-360), Saturation (0-100), Lightness (0-100)
package imaging

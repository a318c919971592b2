package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// EncodedImage is a PNG ready to be returned to an MCP client.
type EncodedImage struct {
	// Data is the base64-encoded PNG.
	Data     string `json:"data"`
	MimeType string `json:"mime_type"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeBase64 encodes img as a base64 PNG.
func EncodeBase64(img image.Image) (*EncodedImage, error) {
	data, err := EncodePNG(img)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	return &EncodedImage{
		Data:     base64.StdEncoding.EncodeToString(data),
		MimeType: "image/png",
		Width:    b.Dx(),
		Height:   b.Dy(),
	}, nil
}

// Save writes img to path. The format is chosen from the file extension
// (.png, .jpg, .jpeg, .gif, .tif, .tiff, .bmp).
func Save(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

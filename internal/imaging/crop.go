package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
)

// EncodedImage contains PNG image data ready to embed in a JSON response.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Crop extracts r from img as a new gray image with a zero origin. It fails
// when r is empty or not inside the image bounds.
func Crop(img *image.Gray, r image.Rectangle) (*image.Gray, error) {
	bounds := img.Bounds()
	if r.Empty() {
		return nil, fmt.Errorf("invalid crop region %v: empty", r)
	}
	if !r.In(bounds) {
		return nil, fmt.Errorf("crop region %v outside image bounds %v", r, bounds)
	}
	return ToGray(imaging.Crop(img, r)), nil
}

// Resize resamples img to w×h with a Lanczos filter.
func Resize(img *image.Gray, w, h int) *image.Gray {
	return ToGray(imaging.Resize(img, w, h, imaging.Lanczos))
}

// Binarize maps every pixel at or above level to white and the rest to
// black. The result has a zero origin.
func Binarize(img *image.Gray, level uint8) *image.Gray {
	return segment.Threshold(ToGray(img), level)
}

// EncodePNG encodes img as PNG, first scaling it by scale with a Lanczos
// filter when scale is positive and not 1.
func EncodePNG(img image.Image, scale float64) (*EncodedImage, error) {
	if scale != 1.0 && scale > 0 {
		newWidth := int(float64(img.Bounds().Dx()) * scale)
		newHeight := int(float64(img.Bounds().Dy()) * scale)
		if newWidth < 1 || newHeight < 1 {
			return nil, fmt.Errorf("scale %.3f leaves no pixels", scale)
		}
		img = imaging.Resize(img, newWidth, newHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &EncodedImage{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

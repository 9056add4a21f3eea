package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestCrop(t *testing.T) {
	img := createGrayRamp(100, 100)

	cropped, err := Crop(img, image.Rect(10, 20, 60, 50))
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}

	if cropped.Bounds() != image.Rect(0, 0, 50, 30) {
		t.Errorf("bounds: got %v, want (0,0)-(50,30)", cropped.Bounds())
	}
	if got := cropped.GrayAt(0, 0).Y; got != 30 {
		t.Errorf("pixel (0,0): got %d, want 30", got)
	}
	if got := cropped.GrayAt(49, 29).Y; got != 108 {
		t.Errorf("pixel (49,29): got %d, want 108", got)
	}
}

func TestCrop_InvalidRegion(t *testing.T) {
	img := createGrayRamp(100, 100)

	tests := []struct {
		name string
		r    image.Rectangle
	}{
		{"x2 past right edge", image.Rect(50, 50, 150, 60)},
		{"y2 past bottom edge", image.Rect(50, 50, 60, 150)},
		{"negative x1", image.Rect(-10, 0, 50, 50)},
		{"empty", image.Rect(50, 50, 50, 60)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Crop(img, tt.r); err == nil {
				t.Errorf("Crop should fail for %v", tt.r)
			}
		})
	}
}

func TestResize(t *testing.T) {
	img := ToGray(createInMemoryImage(80, 80, color.RGBA{240, 240, 240, 255}))

	resized := Resize(img, 67, 67)
	if resized.Bounds() != image.Rect(0, 0, 67, 67) {
		t.Fatalf("bounds: got %v", resized.Bounds())
	}
	// A uniform image stays uniform under Lanczos resampling.
	for _, p := range []image.Point{{0, 0}, {33, 33}, {66, 66}} {
		if got := resized.GrayAt(p.X, p.Y).Y; got < 239 || got > 241 {
			t.Errorf("pixel %v: got %d, want ~240", p, got)
		}
	}
}

func TestBinarize(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 1))
	copy(img.Pix, []uint8{0, 100, 200, 255})

	bw := Binarize(img, 166)

	want := []uint8{0, 0, 255, 255}
	for x, w := range want {
		if got := bw.GrayAt(x, 0).Y; got != w {
			t.Errorf("pixel %d: got %d, want %d", x, got, w)
		}
	}
}

func TestBinarize_OffsetInput(t *testing.T) {
	ramp := createGrayRamp(300, 10)
	sub := ramp.SubImage(image.Rect(200, 0, 210, 10)).(*image.Gray)

	bw := Binarize(sub, 166)
	if bw.Bounds() != image.Rect(0, 0, 10, 10) {
		t.Fatalf("bounds: got %v", bw.Bounds())
	}
	if bw.GrayAt(0, 0).Y != 255 {
		t.Error("ramp value 200 should binarize to white")
	}
}

func TestEncodePNG(t *testing.T) {
	img := createGrayRamp(100, 50)

	result, err := EncodePNG(img, 1.0)
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}

	if result.Width != 100 || result.Height != 50 {
		t.Errorf("dimensions: got %dx%d, want 100x50", result.Width, result.Height)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}

	data, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode png: %v", err)
	}
	if decoded.Bounds().Dx() != 100 {
		t.Errorf("decoded width: got %d, want 100", decoded.Bounds().Dx())
	}
}

func TestEncodePNG_WithScale(t *testing.T) {
	img := createInMemoryImage(100, 100, color.RGBA{255, 0, 0, 255})

	tests := []struct {
		scale float64
		want  int
	}{
		{2.0, 200},
		{0.5, 50},
		{0, 100},
		{-1, 100},
	}

	for _, tt := range tests {
		result, err := EncodePNG(img, tt.scale)
		if err != nil {
			t.Fatalf("EncodePNG(%v) failed: %v", tt.scale, err)
		}
		if result.Width != tt.want || result.Height != tt.want {
			t.Errorf("scale %v: got %dx%d, want %dx%d", tt.scale, result.Width, result.Height, tt.want, tt.want)
		}
	}
}

func TestEncodePNG_ScaleTooSmall(t *testing.T) {
	img := createInMemoryImage(10, 10, color.RGBA{255, 0, 0, 255})
	if _, err := EncodePNG(img, 0.01); err == nil {
		t.Error("EncodePNG should fail when scaling leaves no pixels")
	}
}

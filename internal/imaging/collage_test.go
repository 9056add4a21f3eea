package imaging

import (
	"image"
	"testing"
)

func TestCollage(t *testing.T) {
	src := createGrayRamp(200, 200)
	parts := []image.Rectangle{
		image.Rect(0, 0, 10, 20),
		image.Rect(50, 50, 60, 70),
		image.Rect(100, 0, 110, 20),
		image.Rect(0, 100, 10, 120),
		image.Rect(30, 30, 40, 50),
	}

	c := Collage(src, parts, 0)

	// 5 parts: floor(sqrt(5)) = 2 rows, 3 columns.
	if c.Bounds() != image.Rect(0, 0, 30, 40) {
		t.Fatalf("bounds: got %v, want 30x40", c.Bounds())
	}

	checks := []struct {
		at   image.Point
		want uint8
	}{
		{image.Pt(0, 0), 0},     // part 0 origin
		{image.Pt(10, 0), 100},  // part 1 origin
		{image.Pt(20, 0), 100},  // part 2 origin
		{image.Pt(0, 20), 100},  // part 3 origin
		{image.Pt(10, 20), 60},  // part 4 origin
		{image.Pt(25, 30), 0},   // unused slot
		{image.Pt(19, 39), 88},  // part 4 far corner
	}
	for _, c2 := range checks {
		if got := c.GrayAt(c2.at.X, c2.at.Y).Y; got != c2.want {
			t.Errorf("pixel %v: got %d, want %d", c2.at, got, c2.want)
		}
	}
}

func TestCollage_MaxRows(t *testing.T) {
	src := createGrayRamp(100, 100)
	parts := make([]image.Rectangle, 9)
	for i := range parts {
		parts[i] = image.Rect(i*10, 0, i*10+10, 10)
	}

	c := Collage(src, parts, 1)
	if c.Bounds() != image.Rect(0, 0, 90, 10) {
		t.Errorf("bounds: got %v, want 90x10", c.Bounds())
	}
}

func TestCollage_ResizesToFirstPart(t *testing.T) {
	src := createGrayRamp(100, 100)
	parts := []image.Rectangle{
		image.Rect(0, 0, 10, 10),
		image.Rect(0, 0, 40, 40),
	}

	c := Collage(src, parts, 0)
	if c.Bounds() != image.Rect(0, 0, 20, 10) {
		t.Errorf("bounds: got %v, want 20x10", c.Bounds())
	}
}

func TestCollage_Empty(t *testing.T) {
	c := Collage(createGrayRamp(10, 10), nil, 0)
	if !c.Bounds().Empty() {
		t.Errorf("expected empty collage, got %v", c.Bounds())
	}
}

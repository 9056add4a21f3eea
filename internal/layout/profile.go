package layout

import (
	"image"

	"github.com/ironsheep/wordtile-ocr/internal/integral"
)

// sample is one entry of an intensity profile: the truncated mean level
// (0..255) and the truncated variance of a single row or column.
type sample struct {
	level    int
	variance int
}

// rowProfile returns one sample per row of area.
func rowProfile(t *integral.Table, area image.Rectangle) []sample {
	out := make([]sample, 0, area.Dy())
	for y := area.Min.Y; y < area.Max.Y; y++ {
		out = append(out, measure(t, image.Rect(area.Min.X, y, area.Max.X, y+1)))
	}
	return out
}

// columnProfile returns one sample per column of area.
func columnProfile(t *integral.Table, area image.Rectangle) []sample {
	out := make([]sample, 0, area.Dx())
	for x := area.Min.X; x < area.Max.X; x++ {
		out = append(out, measure(t, image.Rect(x, area.Min.Y, x+1, area.Max.Y)))
	}
	return out
}

func measure(t *integral.Table, r image.Rectangle) sample {
	n := uint64(r.Dx() * r.Dy())
	return sample{
		level:    int(t.Sum(r) / n),
		variance: int(t.Variance(r)),
	}
}

// near reports whether level lies within tol of target, inclusive.
func near(level, target, tol int) bool {
	d := level - target
	if d < 0 {
		d = -d
	}
	return d <= tol
}

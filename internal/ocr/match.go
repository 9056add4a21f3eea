package ocr

import (
	"image"
	"math"

	"gonum.org/v1/gonum/floats"
)

// UnknownLabel is reported when no template fits the area.
const UnknownLabel = "?"

// Match is the best template for an area.
type Match struct {
	Label  string
	Score  float64
	Offset image.Point
}

// Match finds the template that best matches area. Each template is tried
// at every offset where it fits; the lowest score wins and ties go to the
// earlier template and, within a template, to the first offset in
// row-major order. A set none of whose templates fit area yields
// UnknownLabel with an infinite score.
func (s *TemplateSet) Match(area *image.Gray) Match {
	a := newPlane(area)
	best := Match{Label: UnknownLabel, Score: math.Inf(1)}
	for i := range s.templates {
		t := &s.templates[i]
		score, at := a.bestOffset(t, s.size)
		if score < best.Score {
			best = Match{Label: t.Label, Score: score, Offset: at}
		}
	}
	return best
}

// plane is a gray image as float64 samples, row-major.
type plane struct {
	w, h int
	pix  []float64
}

func newPlane(img *image.Gray) plane {
	b := img.Bounds()
	return plane{w: b.Dx(), h: b.Dy(), pix: toFloats(img)}
}

// bestOffset returns the lowest score of t over all offsets and the first
// offset reaching it.
func (p plane) bestOffset(t *Template, size image.Point) (float64, image.Point) {
	best, at := math.Inf(1), image.Point{}
	for oy := 0; oy+size.Y <= p.h; oy++ {
		for ox := 0; ox+size.X <= p.w; ox++ {
			if score := p.score(t, size, ox, oy); score < best {
				best, at = score, image.Pt(ox, oy)
			}
		}
	}
	return best, at
}

// score is the normalized sum of squared differences between t and the
// window of p at (ox, oy). The sums stay integral and well below 2^53, so
// they are exact.
func (p plane) score(t *Template, size image.Point, ox, oy int) float64 {
	var window, cross float64
	for r := 0; r < size.Y; r++ {
		start := (oy+r)*p.w + ox
		row := p.pix[start : start+size.X]
		trow := t.pix[r*size.X : (r+1)*size.X]
		window += floats.Dot(row, row)
		cross += floats.Dot(row, trow)
	}

	num := window - 2*cross + t.energy
	den := math.Sqrt(window * t.energy)
	if den == 0 {
		if num == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return num / den
}

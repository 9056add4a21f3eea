// Package integral implements summed-area tables over grayscale images.
//
// A Table is built once per image and answers sum, mean and variance
// queries for any axis-aligned rectangle in constant time using
// inclusion–exclusion over four table entries.
//
// Rectangles use the image.Rectangle convention: Min is inclusive, Max is
// exclusive. Querying an empty rectangle or one that is not fully inside
// the image bounds is a programming error and panics.
package integral

import (
	"fmt"
	"image"
	"math"
)

// Table holds the summed-area tables of raw and squared pixel values.
//
// Entry (x, y) of each table is the sum over all pixels with coordinates
// strictly less than (x, y), so the tables are one row and one column
// larger than the image and the first row and column are zero.
type Table struct {
	bounds image.Rectangle
	stride int
	sum    []uint64
	sq     []uint64
}

// New builds the raw and squared summed-area tables for img in one pass.
func New(img *image.Gray) *Table {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	stride := w + 1
	t := &Table{
		bounds: b,
		stride: stride,
		sum:    make([]uint64, stride*(h+1)),
		sq:     make([]uint64, stride*(h+1)),
	}

	for y := 0; y < h; y++ {
		var rowSum, rowSq uint64
		row := img.Pix[y*img.Stride : y*img.Stride+w]
		above := y * stride
		here := (y + 1) * stride
		for x, p := range row {
			v := uint64(p)
			rowSum += v
			rowSq += v * v
			t.sum[here+x+1] = t.sum[above+x+1] + rowSum
			t.sq[here+x+1] = t.sq[above+x+1] + rowSq
		}
	}
	return t
}

// Bounds returns the bounds of the image the table was built from.
func (t *Table) Bounds() image.Rectangle {
	return t.bounds
}

// Sum returns the sum of pixel values inside r.
func (t *Table) Sum(r image.Rectangle) uint64 {
	return t.rect(t.sum, r)
}

// SumSquares returns the sum of squared pixel values inside r.
func (t *Table) SumSquares(r image.Rectangle) uint64 {
	return t.rect(t.sq, r)
}

// Mean returns the mean pixel value inside r normalized to [0, 1].
func (t *Table) Mean(r image.Rectangle) float64 {
	n := area(r)
	return float64(t.Sum(r)) / float64(n) / 255
}

// Variance returns the population variance of the pixel values inside r
// in raw intensity units (0..255²).
//
// The numerator n·Σx² − (Σx)² is formed in integer arithmetic, so uniform
// regions have a variance of exactly zero.
func (t *Table) Variance(r image.Rectangle) float64 {
	n := uint64(area(r))
	sum := t.Sum(r)
	sq := t.SumSquares(r)
	num := n*sq - sum*sum
	return float64(num) / float64(n) / float64(n)
}

// Stats returns the mean and the standard deviation of the pixel values
// inside r, both normalized to [0, 1].
func (t *Table) Stats(r image.Rectangle) (mean, stddev float64) {
	v := t.Variance(r)
	if v < 0 {
		v = 0
	}
	return t.Mean(r), math.Sqrt(v) / 255
}

func (t *Table) rect(tab []uint64, r image.Rectangle) uint64 {
	if r.Empty() || !r.In(t.bounds) {
		panic(fmt.Sprintf("integral: rectangle %v outside image bounds %v", r, t.bounds))
	}
	x0, y0 := r.Min.X-t.bounds.Min.X, r.Min.Y-t.bounds.Min.Y
	x1, y1 := r.Max.X-t.bounds.Min.X, r.Max.Y-t.bounds.Min.Y
	return tab[y1*t.stride+x1] + tab[y0*t.stride+x0] -
		tab[y0*t.stride+x1] - tab[y1*t.stride+x0]
}

func area(r image.Rectangle) int {
	return r.Dx() * r.Dy()
}

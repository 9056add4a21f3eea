// Package layouttest renders synthetic game screenshots at the calibration
// levels of the reference UI, for tests of the segmentation and recognition
// packages.
//
// The geometry is fixed: a 1056×1200 screen, tiles of 68 px on a 70 px
// pitch, cells measuring 67 px. An empty Builder renders borders and an
// empty board but no rack, so segmenting it fails in LookingForTray.
package layouttest

import (
	"image"
	"math/rand"
)

// Screen geometry and intensity levels.
const (
	Width  = 1056
	Height = 1200

	Background = 24
	Border     = 51
	Empty      = 60
	Square     = 120
	Mark       = 255
	TileBody   = 240
	Ink        = 0

	Pitch    = 70
	TileSize = 68
	CellSize = TileSize - 1

	BoardLeft = 4
	BoardTop  = 23
	RackTop   = 1100

	topBorderStart    = 10
	bottomBorderStart = 1073
	borderRows        = 10
)

// Offsets of drawn content relative to the cell origin.
var (
	GlyphOffset = image.Pt(7, 9)
	MarkOffset  = image.Pt(10, 23)
	scoreBlock  = image.Rect(52, 7, 58, 17)
)

// Tile is a letter tile. A nil Glyph renders a blank tile. Wildcard tiles
// have no score printed in their top-right corner.
type Tile struct {
	Glyph    *image.Gray
	Wildcard bool
}

// Builder draws a screenshot.
type Builder struct {
	img *image.Gray
}

// New returns a builder holding borders and an empty board.
func New() *Builder {
	img := image.NewGray(image.Rect(0, 0, Width, Height))
	fill(img, img.Bounds(), Background)
	fill(img, image.Rect(0, topBorderStart, Width, topBorderStart+borderRows), Border)
	fill(img, image.Rect(0, bottomBorderStart, Width, bottomBorderStart+borderRows), Border)
	for row := 0; row < 15; row++ {
		for col := 0; col < 15; col++ {
			fill(img, boardSquare(col, row), Empty)
		}
	}
	return &Builder{img: img}
}

// Tile places t on the board square at (col, row).
func (b *Builder) Tile(col, row int, t Tile) *Builder {
	b.drawTile(boardSquare(col, row), t)
	return b
}

// Bonus marks the board square at (col, row) with a bonus mark bitmap.
func (b *Builder) Bonus(col, row int, mark *image.Gray) *Builder {
	r := boardSquare(col, row)
	fill(b.img, r, Square)
	paste(b.img, mark, r.Min.Add(MarkOffset))
	return b
}

// Rack places t in rack slot k.
func (b *Builder) Rack(k int, t Tile) *Builder {
	x := BoardLeft + k*Pitch
	b.drawTile(image.Rect(x, RackTop, x+TileSize, RackTop+TileSize), t)
	return b
}

// Image returns the rendered screenshot.
func (b *Builder) Image() *image.Gray {
	return b.img
}

func (b *Builder) drawTile(r image.Rectangle, t Tile) {
	fill(b.img, r, TileBody)
	if t.Glyph == nil {
		return
	}
	paste(b.img, t.Glyph, r.Min.Add(GlyphOffset))
	if !t.Wildcard {
		fill(b.img, scoreBlock.Add(r.Min), Ink)
	}
}

// BoardRow and BoardCol return the expected inclusive pixel spans of board
// row or column i.
func BoardRow(i int) (start, end int) {
	start = BoardTop + i*Pitch
	return start, start + CellSize
}

func BoardCol(i int) (start, end int) {
	start = BoardLeft + i*Pitch
	return start, start + CellSize
}

// Glyph returns a w×h bitmap of paper with a pseudo-random block pattern
// in ink. Different seeds give different patterns; no pattern equals a
// shifted copy of itself.
func Glyph(seed int64, w, h int, ink, paper uint8) *image.Gray {
	const block = 6
	rng := rand.New(rand.NewSource(seed))
	g := image.NewGray(image.Rect(0, 0, w, h))
	fill(g, g.Bounds(), paper)
	for y := 0; y < h; y += block {
		for x := 0; x < w; x += block {
			if rng.Intn(10) < 3 {
				fill(g, image.Rect(x, y, x+block, y+block).Intersect(g.Bounds()), ink)
			}
		}
	}
	// A fixed anchor stroke keeps even sparse patterns non-uniform.
	fill(g, image.Rect(0, 0, 2, h/2), ink)
	return g
}

func boardSquare(col, row int) image.Rectangle {
	x := BoardLeft + col*Pitch
	y := BoardTop + row*Pitch
	return image.Rect(x, y, x+TileSize, y+TileSize)
}

func fill(img *image.Gray, r image.Rectangle, v uint8) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := img.Pix[img.PixOffset(r.Min.X, y):img.PixOffset(r.Max.X, y)]
		for i := range row {
			row[i] = v
		}
	}
}

func paste(dst, src *image.Gray, at image.Point) {
	b := src.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.SetGray(at.X+x-b.Min.X, at.Y+y-b.Min.Y, src.GrayAt(x, y))
		}
	}
}

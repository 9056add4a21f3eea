package layout

import (
	"image"

	"github.com/ironsheep/wordtile-ocr/internal/integral"
)

// OccupancyCut is the normalized mean above which a cell holds a tile.
// Tiles render lighter than the empty squares around them.
const OccupancyCut = 0.65

// CellSize returns the cell width and height: the truncated mean of the
// measured interval lengths on each axis.
func CellSize(rows, cols []Interval) (w, h int) {
	return meanLen(cols), meanLen(rows)
}

// Cells returns the cartesian product of rows and cols as equally sized
// rectangles, row-major, each anchored at its column and row start.
func Cells(rows, cols []Interval) []image.Rectangle {
	if len(rows) == 0 || len(cols) == 0 {
		return nil
	}
	w, h := CellSize(rows, cols)
	cells := make([]image.Rectangle, 0, len(rows)*len(cols))
	for _, r := range rows {
		for _, c := range cols {
			cells = append(cells, image.Rect(c.Start, r.Start, c.Start+w, r.Start+h))
		}
	}
	return cells
}

// IsOccupied reports whether a normalized cell mean indicates a tile.
func IsOccupied(mean float64) bool {
	return mean > OccupancyCut
}

// Occupied returns the indices of cells that hold a tile. Empty
// rectangles never do.
func Occupied(t *integral.Table, cells []image.Rectangle) []int {
	var idx []int
	for i, c := range cells {
		if !c.Empty() && IsOccupied(t.Mean(c)) {
			idx = append(idx, i)
		}
	}
	return idx
}

func clip(cells []image.Rectangle, bounds image.Rectangle) []image.Rectangle {
	for i, c := range cells {
		cells[i] = c.Intersect(bounds)
	}
	return cells
}

func meanLen(ivs []Interval) int {
	if len(ivs) == 0 {
		return 0
	}
	total := 0
	for _, iv := range ivs {
		total += iv.Len()
	}
	return total / len(ivs)
}

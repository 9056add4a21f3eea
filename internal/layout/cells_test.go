package layout

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/wordtile-ocr/internal/integral"
)

func TestCells_UsesMeanIntervalLength(t *testing.T) {
	rows := []Interval{{10, 20}, {22, 33}}        // lengths 10, 11
	cols := []Interval{{0, 8}, {10, 19}, {21, 30}} // lengths 8, 9, 9

	cells := Cells(rows, cols)
	require.Len(t, cells, 6)

	// width 26/3 = 8, height 21/2 = 10
	assert.Equal(t, image.Rect(0, 10, 8, 20), cells[0])
	assert.Equal(t, image.Rect(10, 10, 18, 20), cells[1])
	assert.Equal(t, image.Rect(21, 22, 29, 32), cells[5])
}

func TestCells_Empty(t *testing.T) {
	assert.Nil(t, Cells(nil, []Interval{{0, 5}}))
	assert.Nil(t, Cells([]Interval{{0, 5}}, nil))
}

func TestOccupied_BoundaryAtCut(t *testing.T) {
	// Two 100×100 cells: the left one averages exactly 0.65, the right one
	// 0.6501 (7755 pixels at 166, the rest at 165).
	img := image.NewGray(image.Rect(0, 0, 200, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			v := uint8(165)
			if (y*100+x)%4 != 0 {
				v = 166
			}
			img.Pix[img.PixOffset(x, y)] = v
		}
		for x := 100; x < 200; x++ {
			v := uint8(165)
			if y*100+(x-100) < 7755 {
				v = 166
			}
			img.Pix[img.PixOffset(x, y)] = v
		}
	}
	tab := integral.New(img)
	cells := []image.Rectangle{image.Rect(0, 0, 100, 100), image.Rect(100, 0, 200, 100)}

	assert.Equal(t, 0.65, tab.Mean(cells[0]))
	assert.False(t, IsOccupied(tab.Mean(cells[0])))
	assert.InDelta(t, 0.6501, tab.Mean(cells[1]), 1e-9)
	assert.Equal(t, []int{1}, Occupied(tab, cells))
}

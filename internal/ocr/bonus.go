package ocr

import (
	"fmt"
	"image"
	"strings"

	"github.com/ironsheep/wordtile-ocr/internal/imaging"
	"github.com/ironsheep/wordtile-ocr/internal/layout"
)

// bonusMinMean separates marked squares from plain background.
const bonusMinMean = 0.25

// bonusInterior is the part of a square compared with the bonus templates.
var bonusInterior = image.Rect(8, 21, 56, 49)

// startSquare is the index of the center cell.
const startSquare = (layout.BoardSize/2)*layout.BoardSize + layout.BoardSize/2

// readBonus classifies the markings of empty board squares. Occupied
// squares, plain squares and the start square are skipped.
func (r *Recognizer) readBonus(p *pass, cells []image.Rectangle) (*Grid, []Stat, error) {
	g := newGrid(layout.BoardSize, layout.BoardSize, EmptyBonus)
	g.set(startSquare, StartSquare)

	var stats []Stat
	for i, cell := range cells {
		if i == startSquare || cell.Empty() {
			continue
		}
		mean := p.table.Mean(cell)
		if layout.IsOccupied(mean) || mean < bonusMinMean {
			continue
		}

		square, err := imaging.Crop(p.img, cell)
		if err != nil {
			return nil, nil, fmt.Errorf("cell %d: %w", i, err)
		}
		m := r.bonus.Match(interior(square, bonusInterior))
		label := strings.ToLower(m.Label)
		g.set(i, label)
		stats = append(stats, Stat{Index: i, Label: label, Score: m.Score, Offset: m.Offset})
	}
	return g, stats, nil
}

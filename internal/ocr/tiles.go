package ocr

import (
	"fmt"
	"image"
	"math"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/ironsheep/wordtile-ocr/internal/imaging"
)

// Tile classification thresholds on normalized mean and deviation.
const (
	blankMinMean    = 0.9
	blankMaxDev     = 0.2
	wildcardMinMean = 0.8
	wildcardMaxDev  = 0.1

	// binarizeLevel is the first gray level above the 0.65 cut.
	binarizeLevel = 166
)

// tileInterior is the part of a board-sized tile crop compared with the
// letter templates. It leaves out the bezel and the score digits.
var tileInterior = image.Rect(6, 3, 46, 65)

// readTiles classifies the cells listed in index into a rows×cols grid.
func (r *Recognizer) readTiles(p *pass, cells []image.Rectangle, index []int, rows, cols int) (*Grid, []Stat, error) {
	g := newGrid(rows, cols, EmptyTile)
	var stats []Stat
	for _, i := range index {
		m, wildcard, err := r.readTile(p, cells[i])
		if err != nil {
			return nil, nil, fmt.Errorf("cell %d: %w", i, err)
		}
		symbol := strings.ToLower(m.Label)
		if wildcard {
			symbol = strings.ToUpper(m.Label)
		}
		g.set(i, symbol)
		stats = append(stats, Stat{Index: i, Label: m.Label, Score: m.Score, Offset: m.Offset})
	}
	return g, stats, nil
}

// readTile classifies one tile cell. Blank tiles are reported without
// matching; cells of another size than a board cell are resampled first.
func (r *Recognizer) readTile(p *pass, cell image.Rectangle) (Match, bool, error) {
	if cell.Empty() {
		return Match{Label: UnknownLabel, Score: math.Inf(1)}, false, nil
	}

	mean, dev := p.table.Stats(cell)
	if mean > blankMinMean && dev < blankMaxDev {
		log.WithField("cell", cell).Debug("blank tile")
		return Match{Label: BlankTile}, false, nil
	}
	wildcard := p.isWildcard(cell)

	tile, err := imaging.Crop(p.img, cell)
	if err != nil {
		return Match{}, false, err
	}
	if cell.Size() != p.cellSize {
		tile = imaging.Resize(tile, p.cellSize.X, p.cellSize.Y)
	}
	if r.opts.Binarize {
		tile = imaging.Binarize(tile, binarizeLevel)
	}

	m := r.letters.Match(interior(tile, tileInterior))
	if wildcard {
		log.WithFields(log.Fields{"cell": cell, "label": m.Label}).Debug("wildcard tile")
	}
	return m, wildcard, nil
}

// isWildcard reports whether the top-right corner of cell, where the score
// is printed, is uniformly light.
func (p *pass) isWildcard(cell image.Rectangle) bool {
	corner := scoreCorner(cell)
	if corner.Empty() {
		return false
	}
	mean, dev := p.table.Stats(corner)
	return mean > wildcardMinMean && dev < wildcardMaxDev
}

func scoreCorner(cell image.Rectangle) image.Rectangle {
	w, h := float64(cell.Dx()), float64(cell.Dy())
	x := cell.Min.X + int(math.Round(0.73*w))
	y := cell.Min.Y + int(math.Round(0.06*h))
	corner := image.Rect(x, y, x+int(math.Round(0.18*w)), y+int(math.Round(0.27*h)))
	return corner.Intersect(cell)
}

// interior returns the part of img inside r, clipped to the image.
func interior(img *image.Gray, r image.Rectangle) *image.Gray {
	return img.SubImage(r.Intersect(img.Bounds())).(*image.Gray)
}

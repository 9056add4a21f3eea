package ocr

import (
	"errors"
	"image"

	log "github.com/sirupsen/logrus"

	"github.com/ironsheep/wordtile-ocr/internal/imaging"
	"github.com/ironsheep/wordtile-ocr/internal/integral"
	"github.com/ironsheep/wordtile-ocr/internal/layout"
)

// Options tunes recognition.
type Options struct {
	// Binarize tile crops at the occupancy cut before matching letters.
	Binarize bool
}

// DefaultOptions returns the options the bundled templates were made for.
func DefaultOptions() Options {
	return Options{Binarize: true}
}

// Recognizer reads screenshots with a fixed pair of template sets.
type Recognizer struct {
	letters *TemplateSet
	bonus   *TemplateSet
	opts    Options
}

// NewRecognizer returns a recognizer matching tiles against letters and
// bonus squares against bonus.
func NewRecognizer(letters, bonus *TemplateSet, opts Options) (*Recognizer, error) {
	if letters == nil || bonus == nil {
		return nil, errors.New("recognizer needs letter and bonus templates")
	}
	return &Recognizer{letters: letters, bonus: bonus, opts: opts}, nil
}

// pass holds the per-image state of one Recognize call.
type pass struct {
	img      *image.Gray
	table    *integral.Table
	layout   *layout.Layout
	cellSize image.Point
}

// Recognize reads the board, the bonus squares and the rack of a gray
// screenshot. It returns the segmentation errors of package layout
// unchanged.
func (r *Recognizer) Recognize(img *image.Gray) (*Result, error) {
	t := integral.New(img)
	l, err := layout.Segment(t)
	if err != nil {
		return nil, err
	}
	p := &pass{img: img, table: t, layout: l, cellSize: l.CellSize()}

	board := l.BoardCells()
	tiles, tileStats, err := r.readTiles(p, board, layout.Occupied(t, board), layout.BoardSize, layout.BoardSize)
	if err != nil {
		return nil, err
	}

	rackCells := l.RackCells()
	all := make([]int, len(rackCells))
	for i := range all {
		all[i] = i
	}
	rack, rackStats, err := r.readTiles(p, rackCells, all, 1, len(rackCells))
	if err != nil {
		return nil, err
	}

	bonus, bonusStats, err := r.readBonus(p, board)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"tiles":  len(tileStats),
		"rack":   len(rackStats),
		"bonus":  len(bonusStats),
		"cell_w": p.cellSize.X,
		"cell_h": p.cellSize.Y,
	}).Debug("screenshot recognized")

	return &Result{
		Tiles:      tiles,
		Bonus:      bonus,
		Rack:       rack,
		TileStats:  tileStats,
		BonusStats: bonusStats,
		RackStats:  rackStats,
		Layout:     l,
	}, nil
}

// RecognizeFile decodes the screenshot at path and recognizes it.
func (r *Recognizer) RecognizeFile(path string) (*Result, error) {
	s, err := imaging.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return r.Recognize(s.Gray)
}

// RecognizeBytes decodes an in-memory screenshot and recognizes it.
func (r *Recognizer) RecognizeBytes(data []byte) (*Result, error) {
	s, err := imaging.DecodeBytes(data)
	if err != nil {
		return nil, err
	}
	return r.Recognize(s.Gray)
}

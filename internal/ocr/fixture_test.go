package ocr

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ironsheep/wordtile-ocr/internal/layout/layouttest"
)

var (
	letterSeeds = map[string]int64{"A": 101, "B": 102, "C": 103, "D": 104, "E": 105}
	bonusSeeds  = map[string]int64{"DL": 201, "DW": 202, "TL": 203, "TW": 204}
)

// letterGlyph renders letter as it appears on a tile.
func letterGlyph(letter string) *image.Gray {
	return layouttest.Glyph(letterSeeds[letter], 38, 50, layouttest.Ink, layouttest.TileBody)
}

// bonusMark renders a bonus marking as it appears on a square.
func bonusMark(label string) *image.Gray {
	return layouttest.Glyph(bonusSeeds[label], 44, 24, layouttest.Mark, layouttest.Square)
}

// letterSet returns binarized letter templates in label order.
func letterSet(t *testing.T) *TemplateSet {
	t.Helper()
	var ts []Template
	for _, l := range []string{"A", "B", "C", "D", "E"} {
		ts = append(ts, Template{Label: l, Image: layouttest.Glyph(letterSeeds[l], 38, 50, 0, 255)})
	}
	set, err := NewTemplateSet(ts)
	require.NoError(t, err)
	return set
}

func bonusSet(t *testing.T) *TemplateSet {
	t.Helper()
	var ts []Template
	for _, l := range []string{"DL", "DW", "TL", "TW"} {
		ts = append(ts, Template{Label: l, Image: bonusMark(l)})
	}
	set, err := NewTemplateSet(ts)
	require.NoError(t, err)
	return set
}

func newTestRecognizer(t *testing.T) *Recognizer {
	t.Helper()
	r, err := NewRecognizer(letterSet(t), bonusSet(t), DefaultOptions())
	require.NoError(t, err)
	return r
}

func tile(letter string) layouttest.Tile {
	return layouttest.Tile{Glyph: letterGlyph(letter)}
}

func wildcard(letter string) layouttest.Tile {
	return layouttest.Tile{Glyph: letterGlyph(letter), Wildcard: true}
}

// fixtureScreen is a game in progress: a few words on the board, five
// bonus squares, a blank on the board and four rack tiles.
func fixtureScreen() *image.Gray {
	return layouttest.New().
		Tile(7, 6, tile("A")).
		Tile(5, 7, tile("A")).
		Tile(6, 7, tile("B")).
		Tile(7, 7, wildcard("C")).
		Tile(8, 7, tile("D")).
		Tile(7, 8, tile("E")).
		Tile(10, 10, layouttest.Tile{}).
		Bonus(0, 0, bonusMark("TW")).
		Bonus(3, 0, bonusMark("DL")).
		Bonus(1, 1, bonusMark("DW")).
		Bonus(5, 1, bonusMark("TL")).
		Bonus(14, 14, bonusMark("TW")).
		Rack(0, tile("A")).
		Rack(1, layouttest.Tile{}).
		Rack(2, wildcard("E")).
		Rack(3, tile("B")).
		Image()
}

var fixtureTiles = []string{
	"...............",
	"...............",
	"...............",
	"...............",
	"...............",
	"...............",
	".......a.......",
	".....abCd......",
	".......e.......",
	"...............",
	"..........*....",
	"...............",
	"...............",
	"...............",
	"...............",
}

var fixtureBonus = []string{
	"tw -- -- dl -- -- -- -- -- -- -- -- -- -- --",
	"-- dw -- -- -- tl -- -- -- -- -- -- -- -- --",
	"-- -- -- -- -- -- -- -- -- -- -- -- -- -- --",
	"-- -- -- -- -- -- -- -- -- -- -- -- -- -- --",
	"-- -- -- -- -- -- -- -- -- -- -- -- -- -- --",
	"-- -- -- -- -- -- -- -- -- -- -- -- -- -- --",
	"-- -- -- -- -- -- -- -- -- -- -- -- -- -- --",
	"-- -- -- -- -- -- -- ss -- -- -- -- -- -- --",
	"-- -- -- -- -- -- -- -- -- -- -- -- -- -- --",
	"-- -- -- -- -- -- -- -- -- -- -- -- -- -- --",
	"-- -- -- -- -- -- -- -- -- -- -- -- -- -- --",
	"-- -- -- -- -- -- -- -- -- -- -- -- -- -- --",
	"-- -- -- -- -- -- -- -- -- -- -- -- -- -- --",
	"-- -- -- -- -- -- -- -- -- -- -- -- -- -- --",
	"-- -- -- -- -- -- -- -- -- -- -- -- -- -- tw",
}

const fixtureRack = "a*Eb"

package ocr

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/wordtile-ocr/internal/imaging"
	"github.com/ironsheep/wordtile-ocr/internal/layout"
	"github.com/ironsheep/wordtile-ocr/internal/layout/layouttest"
)

func TestRecognize_Fixture(t *testing.T) {
	r := newTestRecognizer(t)

	res, err := r.Recognize(fixtureScreen())
	require.NoError(t, err)

	assert.Equal(t, fixtureTiles, res.Tiles.Lines(""))
	assert.Equal(t, fixtureBonus, res.Bonus.Lines(" "))
	assert.Equal(t, fixtureRack, res.Rack.String())

	assert.Equal(t, 15, res.Tiles.Rows())
	assert.Equal(t, 15, res.Tiles.Cols())
	assert.Equal(t, 15, res.Bonus.Rows())
	assert.Equal(t, 1, res.Rack.Rows())
	assert.Equal(t, 4, res.Rack.Cols())

	assert.Equal(t, image.Rect(0, 23, layouttest.Width, 1070), res.Layout.Board)
	assert.Equal(t, image.Rect(0, layouttest.RackTop, layouttest.Width, layouttest.RackTop+layouttest.TileSize), res.Layout.Rack)
}

func TestRecognize_FixtureStats(t *testing.T) {
	r := newTestRecognizer(t)

	res, err := r.Recognize(fixtureScreen())
	require.NoError(t, err)

	require.Len(t, res.TileStats, 7)
	indices := make([]int, 0, len(res.TileStats))
	for _, s := range res.TileStats {
		indices = append(indices, s.Index)
		if s.Label == BlankTile {
			assert.Equal(t, 10*15+10, s.Index)
			assert.Zero(t, s.Score)
			continue
		}
		assert.Zero(t, s.Score, "cell %d", s.Index)
		assert.Equal(t, image.Pt(1, 6), s.Offset, "cell %d", s.Index)
	}
	assert.Equal(t, []int{97, 110, 111, 112, 113, 127, 160}, indices)
	assert.Equal(t, "C", res.TileStats[3].Label)

	require.Len(t, res.BonusStats, 5)
	for _, s := range res.BonusStats {
		assert.Zero(t, s.Score, "cell %d", s.Index)
		assert.Equal(t, image.Pt(2, 2), s.Offset, "cell %d", s.Index)
	}
	assert.Equal(t, "tw", res.BonusStats[0].Label)

	require.Len(t, res.RackStats, 4)
	assert.Equal(t, []string{"A", BlankTile, "E", "B"}, []string{
		res.RackStats[0].Label, res.RackStats[1].Label, res.RackStats[2].Label, res.RackStats[3].Label,
	})
}

func TestRecognize_Deterministic(t *testing.T) {
	r := newTestRecognizer(t)
	img := fixtureScreen()

	first, err := r.Recognize(img)
	require.NoError(t, err)
	second, err := r.Recognize(img)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRecognize_ConcurrentPasses(t *testing.T) {
	r := newTestRecognizer(t)
	img := fixtureScreen()

	var wg sync.WaitGroup
	results := make([]*Result, 4)
	errs := make([]error, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = r.Recognize(img)
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, fixtureTiles, results[i].Tiles.Lines(""))
	}
}

func TestRecognize_EmptyBoard(t *testing.T) {
	r := newTestRecognizer(t)
	img := layouttest.New().Rack(0, tile("D")).Image()

	res, err := r.Recognize(img)
	require.NoError(t, err)

	assert.Empty(t, res.TileStats)
	assert.Empty(t, res.BonusStats)
	for _, line := range res.Tiles.Lines("") {
		assert.Equal(t, strings.Repeat(".", 15), line)
	}
	assert.Equal(t, "ss", res.Bonus.At(7, 7))
	assert.Equal(t, "d", res.Rack.String())
}

func TestRecognize_SegmentationFailure(t *testing.T) {
	r := newTestRecognizer(t)

	res, err := r.Recognize(layouttest.New().Image())
	assert.Nil(t, res)
	require.Error(t, err)

	var segErr *layout.SegmentationError
	require.True(t, errors.As(err, &segErr))
	assert.Equal(t, layout.LookingForTray, segErr.State.Phase)
}

func TestRecognize_BinarizeOff(t *testing.T) {
	// Templates rendered on the tile body match the raw crops directly.
	var ts []Template
	for _, l := range []string{"A", "B", "C", "D", "E"} {
		ts = append(ts, Template{Label: l, Image: letterGlyph(l)})
	}
	letters, err := NewTemplateSet(ts)
	require.NoError(t, err)
	r, err := NewRecognizer(letters, bonusSet(t), Options{Binarize: false})
	require.NoError(t, err)

	res, err := r.Recognize(fixtureScreen())
	require.NoError(t, err)
	assert.Equal(t, fixtureTiles, res.Tiles.Lines(""))
}

func TestRecognizeFileAndBytes(t *testing.T) {
	r := newTestRecognizer(t)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, fixtureScreen()))
	path := filepath.Join(t.TempDir(), "screenshot.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	fromFile, err := r.RecognizeFile(path)
	require.NoError(t, err)
	fromBytes, err := r.RecognizeBytes(buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, fixtureTiles, fromFile.Tiles.Lines(""))
	assert.Equal(t, fromFile.Tiles, fromBytes.Tiles)
	assert.Equal(t, fromFile.Rack, fromBytes.Rack)

	_, err = r.RecognizeFile(filepath.Join(t.TempDir(), "missing.png"))
	var decErr *imaging.DecodeError
	assert.True(t, errors.As(err, &decErr))

	_, err = r.RecognizeBytes([]byte("garbage"))
	assert.True(t, errors.As(err, &decErr))
	assert.False(t, errors.Is(err, layout.ErrSegmentation))
}

func TestResult_Report(t *testing.T) {
	r := newTestRecognizer(t)
	res, err := r.Recognize(fixtureScreen())
	require.NoError(t, err)

	want := "Screenshot: fixture.png\n\nTiles:\n" + strings.Join(fixtureTiles, "\n") +
		"\n\nLetters: " + fixtureRack +
		"\n\nGrid:\n" + strings.Join(fixtureBonus, "\n") + "\n"
	assert.Equal(t, want, res.Report("fixture.png"))
}

func TestResult_MarshalJSON(t *testing.T) {
	r := newTestRecognizer(t)
	res, err := r.Recognize(fixtureScreen())
	require.NoError(t, err)

	data, err := json.Marshal(res)
	require.NoError(t, err)

	var decoded struct {
		Tiles     [][]string `json:"tiles"`
		Rack      [][]string `json:"rack"`
		TileStats []struct {
			Index  int      `json:"index"`
			Label  string   `json:"label"`
			Score  *float64 `json:"score"`
			Offset [2]int   `json:"offset"`
		} `json:"tile_stats"`
		Board struct {
			X, Y, Width, Height int
		} `json:"board"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "C", decoded.Tiles[7][7])
	assert.Equal(t, [][]string{{"a", "*", "E", "b"}}, decoded.Rack)
	require.Len(t, decoded.TileStats, 7)
	assert.Equal(t, [2]int{1, 6}, decoded.TileStats[0].Offset)
	assert.Equal(t, 1056, decoded.Board.Width)
	assert.Equal(t, 23, decoded.Board.Y)
}

func TestNewRecognizer_RequiresTemplates(t *testing.T) {
	_, err := NewRecognizer(nil, bonusSet(t), DefaultOptions())
	assert.Error(t, err)
	_, err = NewRecognizer(letterSet(t), nil, DefaultOptions())
	assert.Error(t, err)
}

func TestResult_TileCells(t *testing.T) {
	r := newTestRecognizer(t)
	res, err := r.Recognize(fixtureScreen())
	require.NoError(t, err)

	cells := res.TileCells()
	require.Len(t, cells, 7+4)

	x, _ := layouttest.BoardCol(7)
	y, _ := layouttest.BoardRow(6)
	assert.Equal(t, image.Rect(x, y, x+layouttest.CellSize, y+layouttest.CellSize), cells[0])
	assert.Equal(t, res.Layout.RackCells(), cells[7:])
}

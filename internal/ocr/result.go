package ocr

import (
	"encoding/json"
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/ironsheep/wordtile-ocr/internal/layout"
)

// Grid sentinels and the start square symbol.
const (
	EmptyTile   = "."
	EmptyBonus  = "--"
	StartSquare = "ss"
	BlankTile   = "*"
)

// Grid is a rows×cols table of symbols. Grids in a Result are not
// modified after recognition.
type Grid struct {
	rows, cols int
	cells      []string
}

func newGrid(rows, cols int, fill string) *Grid {
	g := &Grid{rows: rows, cols: cols, cells: make([]string, rows*cols)}
	for i := range g.cells {
		g.cells[i] = fill
	}
	return g
}

func (g *Grid) set(i int, s string) { g.cells[i] = s }

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// At returns the symbol at row r, column c.
func (g *Grid) At(r, c int) string { return g.cells[r*g.cols+c] }

// Row returns a copy of row r.
func (g *Grid) Row(r int) []string {
	return append([]string(nil), g.cells[r*g.cols:(r+1)*g.cols]...)
}

// Lines renders each row with its symbols joined by sep.
func (g *Grid) Lines(sep string) []string {
	lines := make([]string, g.rows)
	for r := range lines {
		lines[r] = strings.Join(g.cells[r*g.cols:(r+1)*g.cols], sep)
	}
	return lines
}

// Join renders the grid as rows joined by sep, one row per line.
func (g *Grid) Join(sep string) string {
	return strings.Join(g.Lines(sep), "\n")
}

// String renders the grid with no separator between symbols.
func (g *Grid) String() string { return g.Join("") }

// MarshalJSON encodes the grid as an array of rows.
func (g *Grid) MarshalJSON() ([]byte, error) {
	rows := make([][]string, g.rows)
	for r := range rows {
		rows[r] = g.Row(r)
	}
	return json.Marshal(rows)
}

// Stat is the diagnostic record of one classified cell.
type Stat struct {
	// Index is the cell index, row-major within its grid.
	Index  int
	Label  string
	Score  float64
	Offset image.Point
}

// MarshalJSON encodes an infinite score as null.
func (s Stat) MarshalJSON() ([]byte, error) {
	var score *float64
	if !math.IsInf(s.Score, 0) && !math.IsNaN(s.Score) {
		score = &s.Score
	}
	return json.Marshal(struct {
		Index  int      `json:"index"`
		Label  string   `json:"label"`
		Score  *float64 `json:"score"`
		Offset [2]int   `json:"offset"`
	}{s.Index, s.Label, score, [2]int{s.Offset.X, s.Offset.Y}})
}

func (s Stat) String() string {
	return fmt.Sprintf("%3d %-3s %.4f (%d,%d)", s.Index, s.Label, s.Score, s.Offset.X, s.Offset.Y)
}

// Result is the outcome of one recognition pass.
type Result struct {
	// Tiles is the 15×15 board, "." where no tile lies.
	Tiles *Grid
	// Bonus is the 15×15 bonus grid, "--" where no marking was read and
	// "ss" on the start square.
	Bonus *Grid
	// Rack holds one row with a column per rack cell found.
	Rack *Grid

	TileStats  []Stat
	BonusStats []Stat
	RackStats  []Stat

	// Layout is the segmentation the grids were read from.
	Layout *layout.Layout
}

// Report renders the result in the plain text layout of the reference
// fixtures: tiles, rack letters and the space separated bonus grid.
func (r *Result) Report(screenshot string) string {
	return fmt.Sprintf("Screenshot: %s\n\nTiles:\n%s\n\nLetters: %s\n\nGrid:\n%s\n",
		screenshot, r.Tiles, r.Rack, r.Bonus.Join(" "))
}

// TileCells returns the board cells that hold a tile, in reading order,
// followed by every rack cell.
func (r *Result) TileCells() []image.Rectangle {
	board := r.Layout.BoardCells()
	rack := r.Layout.RackCells()
	cells := make([]image.Rectangle, 0, len(r.TileStats)+len(rack))
	for _, s := range r.TileStats {
		cells = append(cells, board[s.Index])
	}
	return append(cells, rack...)
}

type jsonBox struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"width"`
	H int `json:"height"`
}

func box(r image.Rectangle) jsonBox {
	return jsonBox{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}
}

// MarshalJSON encodes the grids, the stats and the board and rack boxes.
func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Tiles      *Grid   `json:"tiles"`
		Bonus      *Grid   `json:"bonus"`
		Rack       *Grid   `json:"rack"`
		TileStats  []Stat  `json:"tile_stats"`
		BonusStats []Stat  `json:"bonus_stats"`
		RackStats  []Stat  `json:"rack_stats"`
		Board      jsonBox `json:"board"`
		RackBox    jsonBox `json:"rack_box"`
	}{
		r.Tiles, r.Bonus, r.Rack,
		nonNil(r.TileStats), nonNil(r.BonusStats), nonNil(r.RackStats),
		box(r.Layout.Board), box(r.Layout.Rack),
	})
}

func nonNil(s []Stat) []Stat {
	if s == nil {
		return []Stat{}
	}
	return s
}

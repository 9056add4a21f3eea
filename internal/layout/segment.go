package layout

import (
	"image"
	"math"

	log "github.com/sirupsen/logrus"

	"github.com/ironsheep/wordtile-ocr/internal/integral"
)

// Calibration of the reference UI rendering. These levels are measured,
// not derived; a different UI theme or resolution family needs new values.
const (
	borderLevel = 51
	groutLevel  = 24

	rowTolerance    = 2
	columnTolerance = 5

	borderMaxVariance = 25
	groutMaxVariance  = 10
	trayMinVariance   = 100

	// Border phases advance once the counter exceeds these values.
	topBorderRows    = 3
	bottomBorderRows = 5

	boardEdgeLevel = groutLevel
	rackEdgeLevel  = 48

	maxAspectDeviation = 0.02
)

// Board and rack dimensions in cells.
const (
	BoardSize = 15
	RackSize  = 7
)

// Interval is an inclusive span of pixel rows or columns.
type Interval struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len is the measured extent used for cell sizing. It is End-Start, one
// less than the pixel count, which is what the calibration assumes.
func (iv Interval) Len() int {
	return iv.End - iv.Start
}

// Layout is the geometry of one screenshot. It is produced by Segment and
// not modified afterwards.
type Layout struct {
	Screen   image.Rectangle
	Board    image.Rectangle
	Rack     image.Rectangle
	Rows     []Interval
	Cols     []Interval
	RackRows []Interval
	RackCols []Interval
}

// BoardCells returns the 225 board cells in row-major order, clipped to
// the screen.
func (l *Layout) BoardCells() []image.Rectangle {
	return clip(Cells(l.Rows, l.Cols), l.Screen)
}

// RackCells returns the rack cells from left to right, clipped to the
// screen.
func (l *Layout) RackCells() []image.Rectangle {
	return clip(Cells(l.RackRows, l.RackCols), l.Screen)
}

// CellSize returns the board cell size.
func (l *Layout) CellSize() image.Point {
	w, h := CellSize(l.Rows, l.Cols)
	return image.Pt(w, h)
}

// Segment locates the board and rack in the image t was built from and
// splits them into rows and columns.
//
// It fails with a *SegmentationError when a profile runs out before the
// expected structure was seen, and with a *NotSquareError when the board
// box found is not square within 2%. No partial layout is returned.
func Segment(t *integral.Table) (*Layout, error) {
	screen := t.Bounds()
	rows, tray, err := segmentRows(rowProfile(t, screen), screen.Min.Y)
	if err != nil {
		return nil, err
	}

	l := &Layout{
		Screen:   screen,
		Board:    image.Rect(screen.Min.X, rows[0].Start, screen.Max.X, rows[BoardSize-1].End),
		Rack:     image.Rect(screen.Min.X, tray.Start, screen.Max.X, tray.End+1),
		Rows:     rows,
		RackRows: []Interval{tray},
	}

	if err := checkSquare(l.Board); err != nil {
		return nil, err
	}

	cols, state := segmentColumns(columnProfile(t, l.Board), screen.Min.X, boardEdgeLevel, BoardSize, "board columns")
	if state.Phase != Done {
		return nil, &SegmentationError{Pass: "board columns", State: state}
	}
	l.Cols = cols

	l.RackCols, _ = segmentColumns(columnProfile(t, l.Rack), screen.Min.X, rackEdgeLevel, RackSize, "rack columns")

	log.WithFields(log.Fields{
		"board":     l.Board,
		"rack":      l.Rack,
		"rack_cols": len(l.RackCols),
	}).Debug("layout segmented")
	return l, nil
}

// segmentRows drives the row cursor over the full-width profile. It
// returns the 15 board rows and the rack rows as one interval.
func segmentRows(profile []sample, y0 int) ([]Interval, Interval, error) {
	var (
		rows         []Interval
		trayY, trayH int
	)
	state := at(LookingForTopBorder, 0)

	for i, s := range profile {
		if state.Phase == Done {
			break
		}
		y := y0 + i
		prev := state
		n := state.N

		switch state.Phase {
		case LookingForTopBorder:
			if isBorder(s) {
				state = at(LookingForTopBorder, n+1)
			}
			if n > topBorderRows {
				state = to(InTopBorder)
			}
		case InTopBorder:
			if near(s.level, groutLevel, rowTolerance) {
				state = at(LookingForRisingEdge, 0)
			}
		case LookingForRisingEdge:
			if s.level > groutLevel+rowTolerance {
				rows = append(rows, Interval{Start: y})
				state = at(InTile, n)
			}
		case InTile:
			if near(s.level, groutLevel, rowTolerance) {
				rows[n].End = y - 1
				if n < BoardSize-1 {
					state = at(LookingForRisingEdge, n+1)
				} else {
					state = at(LookingForBottomBorder, 0)
				}
			}
		case LookingForBottomBorder:
			if isBorder(s) {
				state = at(LookingForBottomBorder, n+1)
			}
			if n > bottomBorderRows {
				state = to(InBottomBorder)
			}
		case InBottomBorder:
			if near(s.level, groutLevel, rowTolerance) && s.variance < groutMaxVariance {
				state = to(LookingForTray)
			}
		case LookingForTray:
			if s.variance > trayMinVariance {
				trayY = y
				state = to(InTray)
			}
		case InTray:
			if near(s.level, groutLevel, rowTolerance) && s.variance == 0 {
				trayH = y - trayY
				state = to(Done)
			}
		}

		if state != prev {
			traceTransition("rows", y, s, state)
		}
	}

	if state.Phase != Done {
		return nil, Interval{}, &SegmentationError{Pass: "rows", State: state}
	}
	return rows, Interval{Start: trayY, End: trayY + trayH - 1}, nil
}

// segmentColumns drives a column cursor starting at LookingForRisingEdge.
// It returns the closed intervals, at most max of them, and the final
// state. An interval still open when the profile ends is dropped.
func segmentColumns(profile []sample, x0, edge, max int, pass string) ([]Interval, State) {
	var cols []Interval
	state := at(LookingForRisingEdge, 0)

	for i, s := range profile {
		if state.Phase == Done {
			break
		}
		x := x0 + i
		prev := state
		n := state.N

		switch state.Phase {
		case LookingForRisingEdge:
			if s.level > edge+columnTolerance {
				cols = append(cols, Interval{Start: x})
				state = at(InTile, n)
			}
		case InTile:
			if near(s.level, groutLevel, columnTolerance) {
				cols[n].End = x - 1
				if n+1 < max {
					state = at(LookingForRisingEdge, n+1)
				} else {
					state = to(Done)
				}
			}
		}

		if state != prev {
			traceTransition(pass, x, s, state)
		}
	}

	if state.Phase == InTile {
		cols = cols[:state.N]
	}
	return cols, state
}

func isBorder(s sample) bool {
	return near(s.level, borderLevel, rowTolerance) && s.variance < borderMaxVariance
}

// checkSquare rejects a board box whose aspect ratio is off by more than
// maxAspectDeviation.
func checkSquare(board image.Rectangle) error {
	ratio := float64(board.Dy()) / float64(board.Dx())
	if math.Abs(ratio-1) > maxAspectDeviation {
		return &NotSquareError{AspectRatio: ratio}
	}
	return nil
}

func traceTransition(pass string, pos int, s sample, state State) {
	log.WithFields(log.Fields{
		"pass":     pass,
		"pos":      pos,
		"level":    s.level,
		"variance": s.variance,
	}).Debugf("-> %s", state)
}

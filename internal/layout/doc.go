// Package layout finds the board and the rack in a game screenshot and
// splits them into cells.
//
// Segmentation works on 1-D intensity profiles built from an integral.Table.
// A cursor (State) walks the row profile looking for the top border, the
// fifteen tile rows separated by grout, the bottom border and the rack; the
// same cursor then walks the column profiles of the board and the rack.
// Every threshold is a fixed calibration constant of the reference UI
// rendering.
//
// Basic usage:
//
//	t := integral.New(gray)
//	l, err := layout.Segment(t)
//	if err != nil {
//	    // *SegmentationError or *NotSquareError
//	}
//	for _, i := range layout.Occupied(t, l.BoardCells()) {
//	    ...
//	}
package layout

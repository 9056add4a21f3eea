package layout

import (
	"errors"
	"fmt"
)

// Sentinels matched by the typed errors below via errors.Is.
var (
	ErrSegmentation = errors.New("segmentation failed")
	ErrNotSquare    = errors.New("board not square")
)

// SegmentationError reports a profile that ended before the cursor reached
// Done. Pass names the profile ("rows" or "board columns") and State is the
// last state reached.
type SegmentationError struct {
	Pass  string
	State State
}

func (e *SegmentationError) Error() string {
	return fmt.Sprintf("segmentation of %s failed in state %s", e.Pass, e.State)
}

func (e *SegmentationError) Is(target error) bool { return target == ErrSegmentation }

// NotSquareError reports a board box whose height/width ratio deviates
// from 1 by more than the allowed tolerance.
type NotSquareError struct {
	AspectRatio float64
}

func (e *NotSquareError) Error() string {
	return fmt.Sprintf("board not square: aspect ratio %.4f", e.AspectRatio)
}

func (e *NotSquareError) Is(target error) bool { return target == ErrNotSquare }

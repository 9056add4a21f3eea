package layout

import "fmt"

// Phase enumerates the stages of a segmentation pass.
type Phase int

// Phases in the order a successful row pass visits them. Column passes
// start at LookingForRisingEdge and finish at Done.
const (
	LookingForTopBorder Phase = iota
	InTopBorder
	LookingForRisingEdge
	InTile
	LookingForBottomBorder
	InBottomBorder
	LookingForTray
	InTray
	Done
)

var phaseNames = [...]string{
	LookingForTopBorder:    "LookingForTopBorder",
	InTopBorder:            "InTopBorder",
	LookingForRisingEdge:   "LookingForRisingEdge",
	InTile:                 "InTile",
	LookingForBottomBorder: "LookingForBottomBorder",
	InBottomBorder:         "InBottomBorder",
	LookingForTray:         "LookingForTray",
	InTray:                 "InTray",
	Done:                   "Done",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

// counted reports whether the phase carries a counter.
func (p Phase) counted() bool {
	switch p {
	case LookingForTopBorder, LookingForRisingEdge, InTile, LookingForBottomBorder:
		return true
	}
	return false
}

// State is the segmentation cursor. N counts border rows seen for the
// border phases and is the interval index for the tile phases; it is zero
// for the other phases.
type State struct {
	Phase Phase
	N     int
}

func (s State) String() string {
	if s.Phase.counted() {
		return fmt.Sprintf("%s(%d)", s.Phase, s.N)
	}
	return s.Phase.String()
}

func at(p Phase, n int) State { return State{Phase: p, N: n} }

func to(p Phase) State { return State{Phase: p} }

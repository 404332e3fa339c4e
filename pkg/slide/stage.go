package slide

import "fmt"

// Stage is one phase of the slide transition cycle.
//
//	Resting ──► Departing ──► Swapped ──► Arriving ──► Resting
//
// Resting is both the initial stage and the only stage a tick can start
// a new cycle from.
type Stage int

const (
	// Resting: the text sits at offset 0 and nothing is moving.
	Resting Stage = iota
	// Departing: the text slides out past the left edge.
	Departing
	// Swapped: the text jumps, invisible, to the right of the display.
	Swapped
	// Arriving: the text slides back in to offset 0.
	Arriving
)

var stageNames = [...]string{
	Resting:   "resting",
	Departing: "departing",
	Swapped:   "swapped",
	Arriving:  "arriving",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

func parseStage(name string) (Stage, bool) {
	for i, n := range stageNames {
		if n == name {
			return Stage(i), true
		}
	}
	return Resting, false
}

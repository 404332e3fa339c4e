package slide

import (
	"time"

	"github.com/go-drift/slideclock/pkg/animation"
)

const (
	// DefaultWidth is the display width, in pixels, the table slides across
	// when none is configured.
	DefaultWidth = 144
	// MotionDelay precedes every request.
	MotionDelay = 300 * time.Millisecond
	// SlideDuration is the length of the visible departing and arriving
	// slides.
	SlideDuration = 2 * time.Second
	// MotionCurve shapes every request.
	MotionCurve = animation.CurveEaseInOut
)

// MotionRequest describes one horizontal move of the text.
type MotionRequest struct {
	// TargetOffset is the final x origin, in pixels.
	TargetOffset int
	// Duration of the motion. Zero means an instantaneous jump.
	Duration time.Duration
	// Delay before the motion starts.
	Delay time.Duration
	// Curve shapes the motion.
	Curve animation.Curve
}

// StageTable maps stages to motion requests for a display Width pixels wide.
type StageTable struct {
	Width int
}

// NewStageTable returns the table for a display of the given width.
// Non-positive widths use DefaultWidth.
func NewStageTable(width int) StageTable {
	if width <= 0 {
		width = DefaultWidth
	}
	return StageTable{Width: width}
}

// Lookup returns the motion request issued for stage. Stages outside the
// enumeration get a zero-offset, zero-duration request.
func (t StageTable) Lookup(stage Stage) MotionRequest {
	req := MotionRequest{Delay: MotionDelay, Curve: MotionCurve}
	switch stage {
	case Departing:
		req.TargetOffset = -t.Width
		req.Duration = SlideDuration
	case Swapped:
		req.TargetOffset = t.Width
	case Arriving:
		req.Duration = SlideDuration
	}
	return req
}

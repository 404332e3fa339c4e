package watchface

import (
	"math"

	"github.com/go-drift/slideclock/pkg/animation"
	"github.com/go-drift/slideclock/pkg/display"
	"github.com/go-drift/slideclock/pkg/slide"
)

// layerAnimator moves a text layer horizontally. Completions are reported
// from animation tickers, so they always arrive on a later loop turn than
// the Schedule call.
type layerAnimator struct {
	layer  *display.TextLayer
	active *animation.PropertyAnimation
}

func (a *layerAnimator) Schedule(req slide.MotionRequest, onComplete func(finished bool)) slide.Handle {
	anim := &animation.PropertyAnimation{
		From:     float64(a.layer.Frame().X),
		To:       float64(req.TargetOffset),
		Delay:    req.Delay,
		Duration: req.Duration,
		Curve:    req.Curve,
		Apply: func(v float64) {
			a.layer.SetX(int(math.Round(v)))
		},
	}
	anim.Stopped = func(finished bool) {
		if a.active == anim {
			a.active = nil
		}
		onComplete(finished)
	}
	a.active = anim
	anim.Schedule()
	return anim
}

// Cancel unschedules the motion in flight, which completes it unfinished.
func (a *layerAnimator) Cancel() bool {
	if a.active == nil {
		return false
	}
	return a.active.Unschedule()
}

package animation

import (
	"fmt"
	"time"
)

// AnimationStatus represents the lifecycle of a PropertyAnimation.
//
//	           Schedule()            delay elapsed
//	Idle ───────────────► Scheduled ──────────────► Running ──► Finished
//	                          │                        │
//	                          └──── Unschedule() ──────┴──────► Unscheduled
type AnimationStatus int

const (
	// AnimationIdle means the animation has not been scheduled.
	AnimationIdle AnimationStatus = iota
	// AnimationScheduled means the animation is waiting out its delay.
	AnimationScheduled
	// AnimationRunning means the property is being interpolated.
	AnimationRunning
	// AnimationFinished means the property reached its target.
	AnimationFinished
	// AnimationUnscheduled means the animation was stopped before finishing.
	AnimationUnscheduled
)

// String returns a human-readable representation of the animation status.
func (s AnimationStatus) String() string {
	switch s {
	case AnimationIdle:
		return "idle"
	case AnimationScheduled:
		return "scheduled"
	case AnimationRunning:
		return "running"
	case AnimationFinished:
		return "finished"
	case AnimationUnscheduled:
		return "unscheduled"
	default:
		return fmt.Sprintf("AnimationStatus(%d)", int(s))
	}
}

// PropertyAnimation drives one numeric property from From to To.
//
// Nothing happens until Delay has elapsed after Schedule. The property then
// moves over Duration, shaped by Curve. A zero Duration applies To in a
// single step once the delay is over. Stopped is called exactly once: with
// true when To was applied, with false when the animation was unscheduled
// first. Destroy releases the callbacks without calling Stopped.
type PropertyAnimation struct {
	// From is the property value at progress 0.
	From float64
	// To is the property value at progress 1.
	To float64
	// Delay is the wait between Schedule and the first change.
	Delay time.Duration
	// Duration is the length of the motion after the delay.
	Duration time.Duration
	// Curve shapes the motion.
	Curve Curve
	// Apply receives each new property value.
	Apply func(value float64)
	// Stopped reports the end of the animation.
	Stopped func(finished bool)

	status AnimationStatus
	ticker *Ticker
}

// Schedule starts the animation clock. Calling Schedule on an animation that
// is already scheduled or running has no effect.
func (a *PropertyAnimation) Schedule() {
	if a.IsScheduled() {
		return
	}
	a.status = AnimationScheduled
	a.ticker = NewTicker(a.tick)
	a.ticker.Start()
}

// Unschedule stops a scheduled or running animation and reports it as not
// finished. It returns false if there was nothing to stop.
func (a *PropertyAnimation) Unschedule() bool {
	if !a.IsScheduled() {
		return false
	}
	a.stop(false)
	return true
}

// Destroy stops the animation silently and drops its callbacks.
func (a *PropertyAnimation) Destroy() {
	if a.ticker != nil {
		a.ticker.Stop()
		a.ticker = nil
	}
	if a.IsScheduled() {
		a.status = AnimationUnscheduled
	}
	a.Apply = nil
	a.Stopped = nil
}

// Status returns the current animation status.
func (a *PropertyAnimation) Status() AnimationStatus {
	return a.status
}

// IsScheduled reports whether the animation is waiting or running.
func (a *PropertyAnimation) IsScheduled() bool {
	return a.status == AnimationScheduled || a.status == AnimationRunning
}

func (a *PropertyAnimation) tick(elapsed time.Duration) {
	if elapsed < a.Delay {
		return
	}
	a.status = AnimationRunning

	progress := 1.0
	if a.Duration > 0 {
		progress = float64(elapsed-a.Delay) / float64(a.Duration)
		if progress > 1 {
			progress = 1
		}
	}

	value := a.To
	if progress < 1 {
		value = LerpFloat64(a.From, a.To, a.Curve.Transform(progress))
	}
	if a.Apply != nil {
		a.Apply(value)
	}

	if progress >= 1 {
		a.stop(true)
	}
}

func (a *PropertyAnimation) stop(finished bool) {
	if a.ticker != nil {
		a.ticker.Stop()
		a.ticker = nil
	}
	if finished {
		a.status = AnimationFinished
	} else {
		a.status = AnimationUnscheduled
	}
	stopped := a.Stopped
	a.Stopped = nil
	if stopped != nil {
		stopped(finished)
	}
}

package testing

import "github.com/go-drift/slideclock/pkg/slide"

// FakeHandle is a motion scheduled on a FakeAnimator.
type FakeHandle struct {
	Request   slide.MotionRequest
	Destroyed bool

	onComplete func(bool)
}

// Destroy marks the handle destroyed.
func (h *FakeHandle) Destroy() {
	h.Destroyed = true
}

// FakeAnimator records motion requests and holds their completions until
// the test releases them, which mimics completions arriving on a later
// loop turn.
type FakeAnimator struct {
	// OnSchedule, if set, is called for every request before it is queued.
	OnSchedule func(req slide.MotionRequest)

	handles []*FakeHandle
	pending []*FakeHandle
}

// Schedule implements slide.Animator.
func (a *FakeAnimator) Schedule(req slide.MotionRequest, onComplete func(finished bool)) slide.Handle {
	if a.OnSchedule != nil {
		a.OnSchedule(req)
	}
	h := &FakeHandle{Request: req, onComplete: onComplete}
	a.handles = append(a.handles, h)
	a.pending = append(a.pending, h)
	return h
}

// Requests returns every request scheduled so far, in order.
func (a *FakeAnimator) Requests() []slide.MotionRequest {
	reqs := make([]slide.MotionRequest, len(a.handles))
	for i, h := range a.handles {
		reqs[i] = h.Request
	}
	return reqs
}

// Handles returns every handle handed out so far, in order.
func (a *FakeAnimator) Handles() []*FakeHandle {
	return append([]*FakeHandle(nil), a.handles...)
}

// Pending returns the number of motions awaiting completion.
func (a *FakeAnimator) Pending() int {
	return len(a.pending)
}

// Live returns the number of handles that have not been destroyed.
func (a *FakeAnimator) Live() int {
	n := 0
	for _, h := range a.handles {
		if !h.Destroyed {
			n++
		}
	}
	return n
}

// Complete delivers the completion of the oldest pending motion. It reports
// false if nothing was pending.
func (a *FakeAnimator) Complete(finished bool) bool {
	if len(a.pending) == 0 {
		return false
	}
	h := a.pending[0]
	a.pending = a.pending[1:]
	h.onComplete(finished)
	return true
}

// Settle completes pending motions as finished until none remain or limit
// completions were delivered. It returns the number delivered.
func (a *FakeAnimator) Settle(limit int) int {
	n := 0
	for n < limit && a.Complete(true) {
		n++
	}
	return n
}

// Package animation provides the timing primitives used to move layers on
// the clock display.
//
// # Core Components
//
//   - [PropertyAnimation]: moves one numeric property from a start value to
//     a target value after a delay, over a duration, through an easing
//     [Curve], and reports exactly once whether it finished or was
//     unscheduled.
//
//   - [Ticker]: the low-level per-frame callback. Tickers are advanced by
//     the engine loop through [StepTickers], so every animation callback
//     runs on the loop goroutine.
//
//   - [Clock]: the time source shared by tickers and the displayed clock
//     text; swap it with [SetClock] in tests.
//
// # Basic Usage
//
//	anim := &animation.PropertyAnimation{
//	    From:     0,
//	    To:       -144,
//	    Delay:    300 * time.Millisecond,
//	    Duration: 2 * time.Second,
//	    Curve:    animation.CurveEaseInOut,
//	    Apply:    func(v float64) { layer.SetX(int(v)) },
//	    Stopped:  func(finished bool) { ... },
//	}
//	anim.Schedule()
//
//	// once per frame, on the loop goroutine
//	animation.StepTickers()
package animation

import (
	"sync"
	"time"
)

var (
	tickerMu      sync.Mutex
	activeTickers = make(map[*Ticker]struct{})
)

// Ticker calls a callback on each frame while active.
//
// The callback receives the elapsed time since Start was called.
type Ticker struct {
	callback func(elapsed time.Duration)
	isActive bool
	start    time.Time
}

// NewTicker creates a new ticker with the given callback.
func NewTicker(callback func(elapsed time.Duration)) *Ticker {
	return &Ticker{
		callback: callback,
	}
}

// Start activates the ticker. The first callback happens on the next
// StepTickers call, never synchronously.
func (t *Ticker) Start() {
	if t.isActive {
		return
	}
	t.isActive = true
	t.start = Now()
	tickerMu.Lock()
	activeTickers[t] = struct{}{}
	tickerMu.Unlock()
}

// Stop deactivates the ticker.
func (t *Ticker) Stop() {
	if !t.isActive {
		return
	}
	t.isActive = false
	tickerMu.Lock()
	delete(activeTickers, t)
	tickerMu.Unlock()
}

// IsActive returns whether the ticker is currently running.
func (t *Ticker) IsActive() bool {
	return t.isActive
}

// Elapsed returns the time since the ticker started.
func (t *Ticker) Elapsed() time.Duration {
	if !t.isActive {
		return 0
	}
	return Now().Sub(t.start)
}

// StepTickers advances all active tickers.
// This should be called once per frame from the engine loop. Tickers started
// by a callback during this step are first advanced on the next step.
func StepTickers() {
	tickerMu.Lock()
	if len(activeTickers) == 0 {
		tickerMu.Unlock()
		return
	}
	// Copy so callbacks can start and stop tickers without holding the lock.
	tickers := make([]*Ticker, 0, len(activeTickers))
	for ticker := range activeTickers {
		tickers = append(tickers, ticker)
	}
	tickerMu.Unlock()

	now := Now()
	for _, ticker := range tickers {
		if ticker.isActive && ticker.callback != nil {
			ticker.callback(now.Sub(ticker.start))
		}
	}
}

// HasActiveTickers returns true if any tickers are active.
func HasActiveTickers() bool {
	tickerMu.Lock()
	defer tickerMu.Unlock()
	return len(activeTickers) > 0
}

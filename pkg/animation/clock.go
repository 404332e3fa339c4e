package animation

import (
	"sync"
	"time"
)

// Clock provides time for animations and for the displayed time. The default
// implementation uses system time; tests inject a fake clock via SetClock so
// that both animation progress and the formatted clock text are deterministic.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

var (
	clockMu sync.RWMutex
	clock   Clock = SystemClock{}
)

// SetClock replaces the package clock and returns the previous one so
// callers can restore it during cleanup. A nil clock restores SystemClock.
func SetClock(c Clock) Clock {
	if c == nil {
		c = SystemClock{}
	}
	clockMu.Lock()
	defer clockMu.Unlock()
	prev := clock
	clock = c
	return prev
}

// CurrentClock returns the active clock.
func CurrentClock() Clock {
	clockMu.RLock()
	defer clockMu.RUnlock()
	return clock
}

// Now returns the current time from the active clock.
func Now() time.Time { return CurrentClock().Now() }

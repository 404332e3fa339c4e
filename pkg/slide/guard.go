package slide

// Guard is a single-flight lock: while held, new transitions are dropped.
// It is not safe for concurrent use; the machine only touches it from the
// loop goroutine.
type Guard struct {
	held bool
}

// TryAcquire takes the guard and reports true, or reports false without
// changing anything if it is already held.
func (g *Guard) TryAcquire() bool {
	if g.held {
		return false
	}
	g.held = true
	return true
}

// Release frees the guard.
func (g *Guard) Release() {
	g.held = false
}

// Held reports whether a transition is in flight.
func (g *Guard) Held() bool {
	return g.held
}

// Package slide sequences the two-phase slide transition of the clock text.
//
// On every tick the text slides off the left edge, the displayed value is
// replaced while it is off screen, and the new text slides in from the right.
// A Machine decides which motion to request next and exactly when the text
// is refreshed; moving pixels and formatting the time are left to the
// injected Animator and TextUpdater.
//
// All Machine methods, and the completion callbacks passed to the Animator,
// must run on one goroutine.
package slide

import (
	"context"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"github.com/sirupsen/logrus"

	"github.com/go-drift/slideclock/pkg/logger"
)

var log = logger.New(logrus.StandardLogger(), "slide")

const eventAdvance = "advance"

// Animator schedules motions of the text.
//
// Schedule must return before onComplete is called, call onComplete exactly
// once on the machine's goroutine, and apply zero-duration requests
// instantly while still reporting completion. finished is false when the
// motion was cut short, for example because the display is being torn down.
type Animator interface {
	Schedule(req MotionRequest, onComplete func(finished bool)) Handle
}

// Handle is one scheduled motion. The machine destroys it when the motion
// completes.
type Handle interface {
	Destroy()
}

// TextUpdater replaces the displayed text.
type TextUpdater interface {
	Refresh()
}

// TextUpdaterFunc adapts a function to TextUpdater.
type TextUpdaterFunc func()

func (f TextUpdaterFunc) Refresh() { f() }

// Observer is notified of the machine's progress.
type Observer interface {
	// TickDropped is called when a tick arrives during a transition.
	TickDropped(stage Stage)
	// StageEntered is called after each completed motion advances the stage.
	StageEntered(stage Stage)
	// Interrupted is called when a motion completes unfinished.
	Interrupted(stage Stage)
}

type nopObserver struct{}

func (nopObserver) TickDropped(Stage)  {}
func (nopObserver) StageEntered(Stage) {}
func (nopObserver) Interrupted(Stage)  {}

// Option configures a Machine.
type Option func(*Machine)

// WithObserver sets the observer notified of ticks and stage changes.
func WithObserver(o Observer) Option {
	return func(m *Machine) {
		if o != nil {
			m.observer = o
		}
	}
}

// WithLogger replaces the machine's log entry.
func WithLogger(entry *logrus.Entry) Option {
	return func(m *Machine) {
		if entry != nil {
			m.log = entry
		}
	}
}

// Machine is the slide transition state machine. It starts Resting.
type Machine struct {
	animator Animator
	text     TextUpdater
	table    StageTable
	observer Observer
	log      *logrus.Entry

	sm     *fsm.FSM
	guard  Guard
	handle Handle
	cycle  string
}

// NewMachine returns a resting machine.
func NewMachine(animator Animator, text TextUpdater, table StageTable, opts ...Option) *Machine {
	m := &Machine{
		animator: animator,
		text:     text,
		table:    table,
		observer: nopObserver{},
		log:      &log.Entry,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.sm = fsm.NewFSM(
		Resting.String(),
		fsm.Events{
			{Name: eventAdvance, Src: []string{Resting.String()}, Dst: Departing.String()},
			{Name: eventAdvance, Src: []string{Departing.String()}, Dst: Swapped.String()},
			{Name: eventAdvance, Src: []string{Swapped.String()}, Dst: Arriving.String()},
			{Name: eventAdvance, Src: []string{Arriving.String()}, Dst: Resting.String()},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				m.log.WithFields(logrus.Fields{
					"from":  e.Src,
					"to":    e.Dst,
					"cycle": m.cycle,
				}).Debug("stage changed")
			},
		},
	)
	return m
}

// Stage returns the current stage.
func (m *Machine) Stage() Stage {
	stage, _ := parseStage(m.sm.Current())
	return stage
}

// Busy reports whether a motion is in flight, in which case ticks are
// dropped.
func (m *Machine) Busy() bool {
	return m.guard.Held()
}

// OnTick starts a cycle from the current stage. A tick that arrives while a
// motion is in flight is dropped, not queued. OnTick never changes the
// stage; only motion completions do.
func (m *Machine) OnTick() {
	stage := m.Stage()
	if !m.guard.Held() {
		m.cycle = uuid.NewString()
	}
	if !m.requestTransition(stage) {
		m.log.WithFields(logrus.Fields{
			"stage": stage.String(),
			"cycle": m.cycle,
		}).Debug("tick dropped")
		m.observer.TickDropped(stage)
	}
}

func (m *Machine) requestTransition(stage Stage) bool {
	if !m.guard.TryAcquire() {
		return false
	}
	req := m.table.Lookup(stage)
	var handle Handle
	handle = m.animator.Schedule(req, func(finished bool) {
		m.complete(handle, finished)
	})
	m.handle = handle
	return true
}

func (m *Machine) complete(handle Handle, finished bool) {
	if handle != nil {
		handle.Destroy()
	}
	m.handle = nil

	if !finished {
		// The guard stays held: nothing is scheduled again on this machine.
		m.log.WithFields(logrus.Fields{
			"stage": m.Stage().String(),
			"cycle": m.cycle,
		}).Warn("transition interrupted, slide sequence stopped")
		m.observer.Interrupted(m.Stage())
		return
	}

	m.guard.Release()
	if err := m.sm.Event(context.Background(), eventAdvance); err != nil {
		m.log.WithError(err).Error("cannot advance stage")
		return
	}

	next := m.Stage()
	m.observer.StageEntered(next)
	switch next {
	case Swapped:
		if m.text != nil {
			m.text.Refresh()
		}
		m.requestTransition(next)
	case Departing, Arriving:
		m.requestTransition(next)
	case Resting:
		m.log.WithField("cycle", m.cycle).Debug("cycle complete")
	}
}

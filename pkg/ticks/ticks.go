// Package ticks delivers wall-clock boundary events, such as the start of
// every minute, onto the display loop.
package ticks

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/go-drift/slideclock/pkg/animation"
	"github.com/go-drift/slideclock/pkg/logger"
)

var log = logger.New(logrus.StandardLogger(), "ticks")

// Unit is the granularity of the tick boundary.
type Unit int

const (
	SecondUnit Unit = iota
	MinuteUnit
	HourUnit
)

func (u Unit) String() string {
	switch u {
	case SecondUnit:
		return "second"
	case MinuteUnit:
		return "minute"
	case HourUnit:
		return "hour"
	default:
		return fmt.Sprintf("Unit(%d)", int(u))
	}
}

// ParseUnit returns the unit named s.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "second", "s":
		return SecondUnit, nil
	case "minute", "m", "":
		return MinuteUnit, nil
	case "hour", "h":
		return HourUnit, nil
	default:
		return MinuteUnit, fmt.Errorf("unknown tick unit %q", s)
	}
}

// NextBoundary returns the first unit boundary strictly after t, in t's
// location. Unknown units are treated as MinuteUnit.
func NextBoundary(t time.Time, u Unit) time.Time {
	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	loc := t.Location()
	switch u {
	case SecondUnit:
		return time.Date(y, mo, d, h, mi, s, 0, loc).Add(time.Second)
	case HourUnit:
		return time.Date(y, mo, d, h, 0, 0, 0, loc).Add(time.Hour)
	default:
		return time.Date(y, mo, d, h, mi, 0, 0, loc).Add(time.Minute)
	}
}

// Service fires a handler on every unit boundary. The handler runs through
// the dispatch function, so it executes on the display loop rather than on
// the timer goroutine.
type Service struct {
	unit     Unit
	dispatch func(func())

	// After waits for d; replaced in tests.
	After func(d time.Duration) <-chan time.Time

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewService returns an idle service for unit.
func NewService(unit Unit, dispatch func(func())) *Service {
	return &Service{
		unit:     unit,
		dispatch: dispatch,
		After:    time.After,
	}
}

// Subscribe starts delivering ticks to handler, replacing any previous
// subscription. The handler receives the tick time read from the animation
// clock.
func (s *Service) Subscribe(handler func(tick time.Time)) {
	s.Unsubscribe()

	s.mu.Lock()
	defer s.mu.Unlock()
	stop := make(chan struct{})
	done := make(chan struct{})
	s.stop, s.done = stop, done
	go s.run(handler, stop, done)
	log.WithField("unit", s.unit).Debug("tick subscription started")
}

// Unsubscribe stops delivering ticks and waits for the timer goroutine to
// exit. Ticks already handed to dispatch may still run.
func (s *Service) Unsubscribe() {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
	log.WithField("unit", s.unit).Debug("tick subscription stopped")
}

func (s *Service) run(handler func(time.Time), stop, done chan struct{}) {
	defer close(done)
	for {
		now := animation.Now()
		wait := NextBoundary(now, s.unit).Sub(now)
		select {
		case <-stop:
			return
		case <-s.After(wait):
		}

		select {
		case <-stop:
			return
		default:
		}
		tick := animation.Now()
		s.dispatch(func() { handler(tick) })
	}
}

// Package engine runs the clock display's single-threaded loop.
//
// Everything that touches the window, its layers or the slide machine runs
// on the loop goroutine: callbacks queued with Dispatch are drained at the
// start of each frame, animation tickers are stepped next, and the window
// is drawn last if anything changed.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/go-drift/slideclock/pkg/animation"
	"github.com/go-drift/slideclock/pkg/display"
	"github.com/go-drift/slideclock/pkg/errors"
	"github.com/go-drift/slideclock/pkg/logger"
)

var log = logger.New(logrus.StandardLogger(), "engine")

// DefaultFrameInterval is the frame period when none is configured.
const DefaultFrameInterval = time.Second / 30

// maxDrainPasses bounds Drain when callbacks keep queueing more callbacks.
const maxDrainPasses = 64

// Options configures an Engine.
type Options struct {
	// FrameInterval is the time between frames. Zero uses DefaultFrameInterval.
	FrameInterval time.Duration
	// OnFrame, if set, receives the wall time each frame took and whether
	// it overran the frame interval.
	OnFrame func(took time.Duration, slow bool)
}

// Engine owns the loop. The zero value is not usable; call New.
type Engine struct {
	window        *display.Window
	surface       display.Surface
	frameInterval time.Duration
	onFrame       func(time.Duration, bool)

	dispatchMu    sync.Mutex
	dispatchQueue []func()
	wake          chan struct{}

	frames     uint64
	slowFrames uint64
}

// New returns an engine drawing window on surface. surface may be nil, in
// which case frames are computed but not drawn.
func New(window *display.Window, surface display.Surface, opts Options) *Engine {
	interval := opts.FrameInterval
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &Engine{
		window:        window,
		surface:       surface,
		frameInterval: interval,
		onFrame:       opts.OnFrame,
		wake:          make(chan struct{}, 1),
	}
}

// Dispatch queues callback to run on the loop. It is safe to call from any
// goroutine; callbacks run in the order they were queued.
func (e *Engine) Dispatch(callback func()) {
	if callback == nil {
		return
	}
	e.dispatchMu.Lock()
	e.dispatchQueue = append(e.dispatchQueue, callback)
	e.dispatchMu.Unlock()
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of queued callbacks.
func (e *Engine) Pending() int {
	e.dispatchMu.Lock()
	defer e.dispatchMu.Unlock()
	return len(e.dispatchQueue)
}

// Frames returns the number of frames stepped so far. Read it on the loop
// or after Run has returned.
func (e *Engine) Frames() uint64 {
	return e.frames
}

// SlowFrames returns the number of frames that took longer than the frame
// interval.
func (e *Engine) SlowFrames() uint64 {
	return e.slowFrames
}

// StepFrame runs one frame: queued callbacks, animation tickers, drawing.
// Must be called on the loop goroutine.
func (e *Engine) StepFrame() {
	start := time.Now()
	e.runQueued()
	animation.StepTickers()
	e.render()
	e.frames++

	took := time.Since(start)
	slow := took > e.frameInterval
	if slow {
		e.slowFrames++
		log.WithFields(logrus.Fields{
			"took":  took,
			"frame": e.frames,
		}).Debug("slow frame")
	}
	if e.onFrame != nil {
		e.onFrame(took, slow)
	}
}

// Drain runs queued callbacks, including ones they queue, until the queue
// is empty.
func (e *Engine) Drain() {
	for i := 0; i < maxDrainPasses; i++ {
		if e.runQueued() == 0 {
			return
		}
	}
	log.WithField("pending", e.Pending()).Warn("dispatch queue did not drain")
}

// Run steps frames until ctx is done, then drains the queue, draws a final
// frame and returns.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.frameInterval)
	defer ticker.Stop()

	log.WithField("interval", e.frameInterval).Debug("loop started")
	for {
		select {
		case <-ctx.Done():
			e.Drain()
			e.render()
			log.WithField("frames", e.frames).Debug("loop stopped")
			return nil
		case <-e.wake:
			e.runQueued()
		case <-ticker.C:
			e.StepFrame()
		}
	}
}

func (e *Engine) runQueued() int {
	e.dispatchMu.Lock()
	callbacks := e.dispatchQueue
	e.dispatchQueue = nil
	e.dispatchMu.Unlock()

	for _, callback := range callbacks {
		e.invoke(callback)
	}
	return len(callbacks)
}

func (e *Engine) invoke(callback func()) {
	defer errors.Recover("engine.dispatch")
	callback()
}

func (e *Engine) render() {
	if e.surface == nil || e.window == nil || !e.window.Dirty() {
		return
	}
	if err := e.surface.Render(e.window); err != nil {
		errors.Report(&errors.ClockError{
			Op:   "engine.render",
			Kind: errors.KindRender,
			Err:  err,
		})
		return
	}
	e.window.MarkClean()
}

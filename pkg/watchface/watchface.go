// Package watchface assembles the sliding clock: a window with one text
// layer, the slide machine moving it, and a minute tick driving the
// machine.
package watchface

import (
	"context"
	"errors"
	"image/color"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/go-drift/slideclock/pkg/animation"
	"github.com/go-drift/slideclock/pkg/display"
	"github.com/go-drift/slideclock/pkg/engine"
	"github.com/go-drift/slideclock/pkg/logger"
	"github.com/go-drift/slideclock/pkg/slide"
	"github.com/go-drift/slideclock/pkg/ticks"
)

var log = logger.New(logrus.StandardLogger(), "watchface")

// TimeLayout is the 24-hour format of the displayed time.
const TimeLayout = "15:04"

// ErrNotLoaded is returned by operations that need the text layer before
// Load or after Unload.
var ErrNotLoaded = errors.New("watchface not loaded")

// Config sizes the display and the loop.
type Config struct {
	Width, Height int
	// LayerY and LayerHeight place the text layer; it spans the full width.
	LayerY, LayerHeight int
	FrameInterval       time.Duration
	TickUnit            ticks.Unit
	// Observer, if set, receives the machine's progress.
	Observer slide.Observer
	// OnFrame, if set, receives each loop frame's duration.
	OnFrame func(took time.Duration, slow bool)
}

// DefaultConfig matches a 144x168 watch display.
func DefaultConfig() Config {
	return Config{
		Width:         slide.DefaultWidth,
		Height:        168,
		LayerY:        55,
		LayerHeight:   50,
		FrameInterval: engine.DefaultFrameInterval,
		TickUnit:      ticks.MinuteUnit,
	}
}

// TimeText shows the current time on a layer. It implements
// slide.TextUpdater.
type TimeText struct {
	layer  *display.TextLayer
	layout string
}

// NewTimeText returns a TimeText writing 24-hour HH:MM to layer.
func NewTimeText(layer *display.TextLayer) *TimeText {
	return &TimeText{layer: layer, layout: TimeLayout}
}

// Refresh reads the animation clock and sets the layer text.
func (t *TimeText) Refresh() {
	t.layer.SetText(animation.Now().Format(t.layout))
}

// App is one running watchface. Load, Tick, StepFrame and Unload run on the
// loop goroutine; Start and Stop manage that goroutine themselves.
type App struct {
	cfg     Config
	window  *display.Window
	surface display.Surface
	engine  *engine.Engine
	ticks   *ticks.Service

	layer    *display.TextLayer
	animator *layerAnimator
	machine  *slide.Machine

	cancel context.CancelFunc
	done   chan error
}

// New returns an unloaded watchface drawing on surface.
func New(surface display.Surface, cfg Config) *App {
	def := DefaultConfig()
	if cfg.Width <= 0 {
		cfg.Width = def.Width
	}
	if cfg.Height <= 0 {
		cfg.Height = def.Height
	}
	if cfg.LayerHeight <= 0 {
		cfg.LayerY, cfg.LayerHeight = def.LayerY, def.LayerHeight
	}

	window := display.NewWindow(cfg.Width, cfg.Height)
	eng := engine.New(window, surface, engine.Options{
		FrameInterval: cfg.FrameInterval,
		OnFrame:       cfg.OnFrame,
	})
	return &App{
		cfg:     cfg,
		window:  window,
		surface: surface,
		engine:  eng,
		ticks:   ticks.NewService(cfg.TickUnit, eng.Dispatch),
	}
}

// Window returns the display window.
func (a *App) Window() *display.Window { return a.window }

// Engine returns the loop engine.
func (a *App) Engine() *engine.Engine { return a.engine }

// Ticks returns the tick service the watchface subscribes to on Start.
func (a *App) Ticks() *ticks.Service { return a.ticks }

// Layer returns the time layer, or nil when unloaded.
func (a *App) Layer() *display.TextLayer { return a.layer }

// Machine returns the slide machine, or nil before Load.
func (a *App) Machine() *slide.Machine { return a.machine }

// Load creates the time layer, shows the current time and builds the slide
// machine around it.
func (a *App) Load() {
	if a.layer != nil {
		return
	}
	layer := display.NewTextLayer(display.Rect{X: 0, Y: a.cfg.LayerY, W: a.cfg.Width, H: a.cfg.LayerHeight})
	layer.SetBackground(nil)
	layer.SetForeground(color.Black)
	layer.SetAlignment(display.AlignCenter)
	a.window.AddLayer(layer)

	text := NewTimeText(layer)
	text.Refresh()

	a.layer = layer
	a.animator = &layerAnimator{layer: layer}
	opts := []slide.Option{slide.WithLogger(log.WithPrefix("slide"))}
	if a.cfg.Observer != nil {
		opts = append(opts, slide.WithObserver(a.cfg.Observer))
	}
	a.machine = slide.NewMachine(a.animator, text, slide.NewStageTable(a.cfg.Width), opts...)
	log.WithFields(logrus.Fields{
		"frame": layer.Frame().String(),
		"text":  layer.Text(),
	}).Debug("window loaded")
}

// Tick hands a tick to the slide machine.
func (a *App) Tick(tick time.Time) error {
	if a.machine == nil || a.layer == nil {
		return ErrNotLoaded
	}
	_, offset := tick.Zone()
	log.WithFields(logrus.Fields{
		"time":   tick.Format("15:04:05"),
		"day":    tick.Day(),
		"offset": offset,
	}).Debug("update time")
	a.machine.OnTick()
	return nil
}

// StepFrame runs one loop frame.
func (a *App) StepFrame() {
	a.engine.StepFrame()
}

// Unload cancels the motion in flight and removes the time layer. The
// machine sees the cancellation as an interrupted transition and stops.
func (a *App) Unload() {
	if a.layer == nil {
		return
	}
	if a.animator.Cancel() {
		log.Debug("in-flight transition cancelled")
	}
	a.window.RemoveLayer(a.layer)
	a.layer = nil
	log.Debug("window unloaded")
}

// Start loads the watchface, subscribes to ticks and runs the loop in the
// background until Stop or ctx is done.
func (a *App) Start(ctx context.Context) {
	if a.cancel != nil {
		return
	}
	a.Load()
	a.ticks.Subscribe(func(tick time.Time) {
		if err := a.Tick(tick); err != nil {
			log.WithError(err).Debug("tick ignored")
		}
	})

	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.done = make(chan error, 1)
	go func() {
		a.done <- a.engine.Run(runCtx)
	}()
	log.WithField("unit", a.cfg.TickUnit).Info("watchface started")
}

// Stop unsubscribes from ticks, unloads on the loop, stops the loop and
// closes the surface.
func (a *App) Stop() error {
	var result *multierror.Error
	a.ticks.Unsubscribe()
	if a.cancel != nil {
		a.engine.Dispatch(a.Unload)
		a.cancel()
		if err := <-a.done; err != nil {
			result = multierror.Append(result, err)
		}
		a.cancel = nil
	} else {
		a.Unload()
	}
	if a.surface != nil {
		if err := a.surface.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	log.Info("watchface stopped")
	return result.ErrorOrNil()
}

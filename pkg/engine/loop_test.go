package engine

import (
	"context"
	stderrors "errors"
	"reflect"
	"testing"
	"time"

	"github.com/go-drift/slideclock/pkg/animation"
	"github.com/go-drift/slideclock/pkg/display"
	"github.com/go-drift/slideclock/pkg/errors"
)

type countingSurface struct {
	renders int
	err     error
}

func (s *countingSurface) Render(*display.Window) error {
	s.renders++
	return s.err
}

func (s *countingSurface) Close() error { return nil }

type captureHandler struct {
	errs   []*errors.ClockError
	panics []*errors.PanicError
}

func (h *captureHandler) HandleError(err *errors.ClockError) { h.errs = append(h.errs, err) }
func (h *captureHandler) HandlePanic(err *errors.PanicError) { h.panics = append(h.panics, err) }

func useCapture(t *testing.T) *captureHandler {
	t.Helper()
	h := &captureHandler{}
	old := errors.DefaultHandler
	errors.SetHandler(h)
	t.Cleanup(func() { errors.SetHandler(old) })
	return h
}

func TestDispatchRunsInOrderOnFrame(t *testing.T) {
	e := New(display.NewWindow(144, 168), nil, Options{})
	var got []int
	e.Dispatch(func() { got = append(got, 1) })
	e.Dispatch(func() { got = append(got, 2) })
	e.Dispatch(nil)

	if len(got) != 0 {
		t.Fatal("Dispatch must not run callbacks synchronously")
	}
	if e.Pending() != 2 {
		t.Fatalf("Pending = %d, want 2", e.Pending())
	}
	e.StepFrame()
	if !reflect.DeepEqual(got, []int{1, 2}) {
		t.Errorf("callbacks ran as %v, want [1 2]", got)
	}
	if e.Frames() != 1 {
		t.Errorf("Frames = %d, want 1", e.Frames())
	}
}

func TestCallbacksQueuedDuringFrameWaitForNextFrame(t *testing.T) {
	e := New(nil, nil, Options{})
	ran := false
	e.Dispatch(func() {
		e.Dispatch(func() { ran = true })
	})
	e.StepFrame()
	if ran {
		t.Fatal("nested dispatch ran in the same frame")
	}
	e.StepFrame()
	if !ran {
		t.Fatal("nested dispatch did not run on the next frame")
	}
}

func TestDrainRunsNestedCallbacks(t *testing.T) {
	e := New(nil, nil, Options{})
	depth := 0
	var queue func()
	queue = func() {
		depth++
		if depth < 5 {
			e.Dispatch(queue)
		}
	}
	e.Dispatch(queue)
	e.Drain()
	if depth != 5 {
		t.Errorf("depth = %d, want 5", depth)
	}
}

func TestDispatchPanicIsReported(t *testing.T) {
	h := useCapture(t)
	e := New(nil, nil, Options{})
	after := false
	e.Dispatch(func() { panic("bad callback") })
	e.Dispatch(func() { after = true })
	e.StepFrame()

	if len(h.panics) != 1 || h.panics[0].Op != "engine.dispatch" {
		t.Fatalf("panics = %+v", h.panics)
	}
	if !after {
		t.Error("a panicking callback must not stop the rest of the queue")
	}
}

func TestRenderOnlyWhenDirty(t *testing.T) {
	w := display.NewWindow(144, 168)
	layer := display.NewTextLayer(display.Rect{Y: 55, W: 144, H: 50})
	w.AddLayer(layer)
	s := &countingSurface{}
	e := New(w, s, Options{})

	e.StepFrame()
	e.StepFrame()
	if s.renders != 1 {
		t.Fatalf("renders = %d, want 1", s.renders)
	}
	layer.SetText("10:05")
	e.StepFrame()
	if s.renders != 2 {
		t.Fatalf("renders = %d, want 2 after a change", s.renders)
	}
}

func TestRenderErrorIsReported(t *testing.T) {
	h := useCapture(t)
	w := display.NewWindow(144, 168)
	s := &countingSurface{err: stderrors.New("screen gone")}
	e := New(w, s, Options{})

	e.StepFrame()
	if len(h.errs) != 1 || h.errs[0].Kind != errors.KindRender {
		t.Fatalf("errs = %+v", h.errs)
	}
	if !w.Dirty() {
		t.Error("a failed render must leave the window dirty")
	}
}

func TestStepFrameAdvancesTickers(t *testing.T) {
	e := New(nil, nil, Options{})
	steps := 0
	ticker := animation.NewTicker(func(time.Duration) { steps++ })
	ticker.Start()
	t.Cleanup(ticker.Stop)

	e.StepFrame()
	if steps != 1 {
		t.Errorf("ticker stepped %d times, want 1", steps)
	}
}

func TestRunDrainsOnCancel(t *testing.T) {
	e := New(display.NewWindow(10, 10), nil, Options{FrameInterval: time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	ran := make(chan struct{})
	e.Dispatch(func() { close(ran) })
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatched callback never ran")
	}

	final := false
	e.Dispatch(func() { final = true })
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if !final {
		t.Error("callbacks queued before cancel must run before Run returns")
	}
}

type slowSurface struct{ delay time.Duration }

func (s slowSurface) Render(*display.Window) error {
	time.Sleep(s.delay)
	return nil
}

func (slowSurface) Close() error { return nil }

func TestOnFrameReportsSlowFrames(t *testing.T) {
	var slow []bool
	e := New(display.NewWindow(10, 10), slowSurface{delay: 20 * time.Millisecond}, Options{
		FrameInterval: 5 * time.Millisecond,
		OnFrame: func(took time.Duration, isSlow bool) {
			if took < 0 {
				t.Errorf("OnFrame took = %v", took)
			}
			slow = append(slow, isSlow)
		},
	})

	e.StepFrame() // window starts dirty, so this frame renders
	e.StepFrame() // nothing to draw

	if !reflect.DeepEqual(slow, []bool{true, false}) {
		t.Errorf("slow flags = %v, want [true false]", slow)
	}
	if e.SlowFrames() != 1 {
		t.Errorf("SlowFrames() = %d, want 1", e.SlowFrames())
	}
}

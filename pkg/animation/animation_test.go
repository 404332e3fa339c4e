package animation

import (
	"math"
	"testing"
	"time"
)

type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func useManualClock(t *testing.T) *manualClock {
	t.Helper()
	clk := &manualClock{now: time.Date(2024, 1, 1, 10, 4, 59, 0, time.UTC)}
	prev := SetClock(clk)
	t.Cleanup(func() { SetClock(prev) })
	return clk
}

func TestCurveEndpoints(t *testing.T) {
	for _, c := range []Curve{CurveLinear, CurveEaseIn, CurveEaseOut, CurveEaseInOut} {
		if got := c.Transform(0); got != 0 {
			t.Errorf("%s.Transform(0) = %v, want 0", c, got)
		}
		if got := c.Transform(1); got != 1 {
			t.Errorf("%s.Transform(1) = %v, want 1", c, got)
		}
	}
}

func TestEaseInOutShape(t *testing.T) {
	if got := EaseInOut(0.5); math.Abs(got-0.5) > 1e-3 {
		t.Errorf("EaseInOut(0.5) = %v, want ~0.5", got)
	}
	if got := EaseInOut(0.1); got >= 0.1 {
		t.Errorf("EaseInOut(0.1) = %v, expected slow start", got)
	}
	if got := EaseInOut(0.9); got <= 0.9 {
		t.Errorf("EaseInOut(0.9) = %v, expected slow finish", got)
	}
	prev := 0.0
	for i := 1; i <= 100; i++ {
		v := EaseInOut(float64(i) / 100)
		if v < prev {
			t.Fatalf("EaseInOut not monotonic at %d: %v < %v", i, v, prev)
		}
		prev = v
	}
}

func TestCurveString(t *testing.T) {
	tests := []struct {
		curve Curve
		want  string
	}{
		{CurveLinear, "linear"},
		{CurveEaseIn, "ease-in"},
		{CurveEaseOut, "ease-out"},
		{CurveEaseInOut, "ease-in-out"},
		{Curve(42), "Curve(42)"},
	}
	for _, tt := range tests {
		if got := tt.curve.String(); got != tt.want {
			t.Errorf("Curve(%d).String() = %q, want %q", int(tt.curve), got, tt.want)
		}
	}
	if got := Curve(42).Transform(0.25); got != 0.25 {
		t.Errorf("unknown curve should be linear, got %v", got)
	}
}

func TestTickerStepsOnlyWhenActive(t *testing.T) {
	clk := useManualClock(t)
	var calls []time.Duration
	ticker := NewTicker(func(elapsed time.Duration) {
		calls = append(calls, elapsed)
	})
	ticker.Start()
	t.Cleanup(ticker.Stop)

	if len(calls) != 0 {
		t.Fatal("Start must not call back synchronously")
	}
	clk.advance(40 * time.Millisecond)
	StepTickers()
	if len(calls) != 1 || calls[0] != 40*time.Millisecond {
		t.Fatalf("calls = %v, want [40ms]", calls)
	}

	ticker.Stop()
	StepTickers()
	if len(calls) != 1 {
		t.Errorf("stopped ticker was stepped")
	}
	if HasActiveTickers() {
		t.Error("expected no active tickers")
	}
}

func TestLerpInt(t *testing.T) {
	if got := LerpInt(0, -144, 0.5); got != -72 {
		t.Errorf("LerpInt(0, -144, 0.5) = %d, want -72", got)
	}
	if got := LerpInt(144, 0, 1); got != 0 {
		t.Errorf("LerpInt(144, 0, 1) = %d, want 0", got)
	}
}

func TestPropertyAnimationRespectsDelay(t *testing.T) {
	clk := useManualClock(t)
	var values []float64
	var stopped []bool
	anim := &PropertyAnimation{
		From:     0,
		To:       -144,
		Delay:    300 * time.Millisecond,
		Duration: 2 * time.Second,
		Curve:    CurveLinear,
		Apply:    func(v float64) { values = append(values, v) },
		Stopped:  func(finished bool) { stopped = append(stopped, finished) },
	}
	anim.Schedule()
	t.Cleanup(anim.Destroy)

	clk.advance(200 * time.Millisecond)
	StepTickers()
	if len(values) != 0 || anim.Status() != AnimationScheduled {
		t.Fatalf("moved during delay: values=%v status=%s", values, anim.Status())
	}

	clk.advance(1100 * time.Millisecond) // 1s into the motion
	StepTickers()
	if anim.Status() != AnimationRunning {
		t.Fatalf("status = %s, want running", anim.Status())
	}
	if got := values[len(values)-1]; got != -72 {
		t.Errorf("midpoint value = %v, want -72", got)
	}

	clk.advance(5 * time.Second)
	StepTickers()
	if got := values[len(values)-1]; got != -144 {
		t.Errorf("final value = %v, want -144", got)
	}
	if len(stopped) != 1 || !stopped[0] {
		t.Fatalf("stopped = %v, want [true]", stopped)
	}
	if anim.Status() != AnimationFinished {
		t.Errorf("status = %s, want finished", anim.Status())
	}

	StepTickers()
	if len(stopped) != 1 {
		t.Error("Stopped called more than once")
	}
}

func TestPropertyAnimationZeroDuration(t *testing.T) {
	clk := useManualClock(t)
	var value float64
	finished := false
	anim := &PropertyAnimation{
		From:    -144,
		To:      144,
		Delay:   300 * time.Millisecond,
		Curve:   CurveEaseInOut,
		Apply:   func(v float64) { value = v },
		Stopped: func(f bool) { finished = f },
	}
	anim.Schedule()

	clk.advance(300 * time.Millisecond)
	StepTickers()
	if value != 144 {
		t.Errorf("value = %v, want 144", value)
	}
	if !finished {
		t.Error("zero-duration animation must still report completion")
	}
}

func TestPropertyAnimationUnschedule(t *testing.T) {
	useManualClock(t)
	var stopped []bool
	anim := &PropertyAnimation{
		To:       100,
		Duration: time.Second,
		Stopped:  func(f bool) { stopped = append(stopped, f) },
	}
	if anim.Unschedule() {
		t.Fatal("Unschedule on idle animation should report false")
	}
	anim.Schedule()
	if !anim.Unschedule() {
		t.Fatal("Unschedule on scheduled animation should report true")
	}
	if len(stopped) != 1 || stopped[0] {
		t.Fatalf("stopped = %v, want [false]", stopped)
	}
	if anim.Status() != AnimationUnscheduled {
		t.Errorf("status = %s, want unscheduled", anim.Status())
	}
	if HasActiveTickers() {
		t.Error("unscheduled animation left a ticker running")
	}
}

func TestPropertyAnimationDestroyIsSilent(t *testing.T) {
	useManualClock(t)
	called := false
	anim := &PropertyAnimation{
		To:       100,
		Duration: time.Second,
		Stopped:  func(bool) { called = true },
	}
	anim.Schedule()
	anim.Destroy()
	if called {
		t.Error("Destroy must not report completion")
	}
	if anim.Unschedule() {
		t.Error("destroyed animation should have nothing to unschedule")
	}
}

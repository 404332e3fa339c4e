// Package testing provides fakes for deterministic slideclock tests.
//
// # Clock
//
// FakeClock replaces the animation clock so that animation progress and the
// displayed time only move when the test says so:
//
//	clock := slidetest.NewFakeClockAt(time.Date(2024, 1, 1, 10, 4, 0, 0, time.UTC))
//	prev := animation.SetClock(clock)
//	t.Cleanup(func() { animation.SetClock(prev) })
//
//	clock.Advance(16 * time.Millisecond)
//	engine.StepFrame()
//
// # Animator
//
// FakeAnimator stands in for the layer animator behind a slide.Machine. It
// records every motion request and holds the completions until the test
// delivers them:
//
//	anim := &slidetest.FakeAnimator{}
//	m := slide.NewMachine(anim, text, slide.NewStageTable(144))
//	m.OnTick()
//	anim.Complete(true) // resting motion done, departing requested
//	anim.Settle(10)     // run the rest of the cycle
package testing

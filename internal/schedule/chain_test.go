package schedule

import (
	"testing"
	"time"
)

func TestTimersFireInDeadlineOrder(t *testing.T) {
	tm := NewTimers()
	var got []string
	tm.After(300*time.Millisecond, func() { got = append(got, "c") })
	tm.After(100*time.Millisecond, func() { got = append(got, "a") })
	tm.After(200*time.Millisecond, func() { got = append(got, "b") })

	if n := tm.Advance(50 * time.Millisecond); n != 0 {
		t.Fatalf("fired %d timers early", n)
	}
	if n := tm.Advance(time.Second); n != 3 {
		t.Fatalf("fired %d timers, want 3", n)
	}
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("order = %v", got)
	}
	if tm.Pending() != 0 {
		t.Fatalf("pending = %d", tm.Pending())
	}
}

func TestTimersCancel(t *testing.T) {
	tm := NewTimers()
	fired := false
	id := tm.After(time.Second, func() { fired = true })
	if !tm.Cancel(id) {
		t.Fatal("Cancel reported timer not pending")
	}
	if tm.Cancel(id) {
		t.Fatal("second Cancel reported success")
	}
	tm.Advance(2 * time.Second)
	if fired {
		t.Fatal("cancelled timer fired")
	}

	// a callback cancelling a timer due in the same Advance
	var second TimerID
	ran := false
	tm.After(10*time.Millisecond, func() { tm.Cancel(second) })
	second = tm.After(20*time.Millisecond, func() { ran = true })
	tm.Advance(time.Second)
	if ran {
		t.Fatal("timer cancelled by an earlier callback still fired")
	}
}

func TestTimersClose(t *testing.T) {
	tm := NewTimers()
	fired := 0
	tm.After(time.Millisecond, func() { fired++ })
	tm.After(2*time.Millisecond, func() { fired++ })
	tm.Close()
	tm.Close()

	if id := tm.After(time.Millisecond, func() { fired++ }); id != 0 {
		t.Fatalf("After on closed queue returned %d", id)
	}
	tm.Advance(time.Second)
	if fired != 0 || tm.Pending() != 0 {
		t.Fatalf("fired=%d pending=%d after Close", fired, tm.Pending())
	}
}

func TestTimersCallbackSchedulesForNextAdvance(t *testing.T) {
	tm := NewTimers()
	count := 0
	var again func()
	again = func() {
		count++
		tm.After(0, again)
	}
	tm.After(0, again)
	tm.Advance(frame)
	if count != 1 {
		t.Fatalf("count = %d after one Advance", count)
	}
	tm.Advance(frame)
	if count != 2 {
		t.Fatalf("count = %d after two Advances", count)
	}
}

func newTestChain(t *testing.T, melt *Melt) (*Chain, *Timers) {
	t.Helper()
	tm := NewTimers()
	c, err := NewChain([]Step{
		{Name: "cube", Shape: 0, Transition: time.Second, Hold: 3 * time.Second},
		{Name: "sphere", Shape: 1, Transition: time.Second, Hold: 6 * time.Second},
		{Name: "cloud", Shape: 2, Transition: time.Second, Hold: 8 * time.Second},
	}, melt, tm)
	if err != nil {
		t.Fatalf("NewChain: %v", err)
	}
	return c, tm
}

// run advances the timer queue and the chain the way the engine does.
func run(c *Chain, tm *Timers, d time.Duration, sig Signals) State {
	var st State
	for elapsed := time.Duration(0); elapsed < d; elapsed += frame {
		tm.Advance(frame)
		st = c.Advance(frame, sig)
	}
	return st
}

func TestChainAdvancesAndWraps(t *testing.T) {
	c, tm := newTestChain(t, nil)

	st := run(c, tm, 2*time.Second, Signals{})
	if st.Phase != "cube" || st.Blend.Weight(0) != 1 {
		t.Fatalf("at 2s: %+v", st)
	}

	st = run(c, tm, 1500*time.Millisecond, Signals{}) // 3.5s: easing toward the sphere
	if st.Phase != "sphere" {
		t.Fatalf("at 3.5s phase = %q", st.Phase)
	}
	if w := st.Blend.Weight(1); w <= 0 || w >= 1 {
		t.Fatalf("at 3.5s sphere weight = %v, want mid-transition", w)
	}

	st = run(c, tm, 2*time.Second, Signals{})
	if st.Blend.Weight(1) != 1 {
		t.Fatalf("transition did not settle: %+v", st.Blend.Terms())
	}

	// sphere 7s total, cloud 9s total, then back to the cube
	run(c, tm, 5*time.Second+9*time.Second+100*time.Millisecond, Signals{})
	if c.Step() != 0 {
		t.Fatalf("step = %d after a full loop, want 0", c.Step())
	}
}

func TestChainMeltCancelsStepTimerAndRestarts(t *testing.T) {
	melt := &Melt{Shape: 2, Rate: 0.08, Offset: [3]float64{0, -2, 0}}
	c, tm := newTestChain(t, melt)
	run(c, tm, time.Second, Signals{})

	st := run(c, tm, frame, Signals{Scrolling: true})
	if !c.Melting() || st.Phase != "melt" {
		t.Fatalf("expected melt, got phase %q", st.Phase)
	}
	if st.Rate != 0.08 || st.Offset[1] != -2 {
		t.Fatalf("melt state = %+v", st)
	}
	if st.Blend.Weight(2) != 1 {
		t.Fatalf("melt blend = %+v", st.Blend.Terms())
	}

	// keep scrolling well past the step deadline: the chain must not advance
	run(c, tm, 5*time.Second, Signals{Scrolling: true})
	if !c.Melting() || c.Step() != 0 {
		t.Fatalf("chain advanced while melting: step=%d melting=%v", c.Step(), c.Melting())
	}
	if tm.Pending() != 1 {
		t.Fatalf("pending timers = %d, want only the debounce", tm.Pending())
	}

	// stop scrolling: after the debounce the chain restarts at step 0
	st = run(c, tm, 400*time.Millisecond, Signals{})
	if c.Melting() || c.Step() != 0 || st.Phase != "cube" {
		t.Fatalf("no restart: step=%d melting=%v phase=%q", c.Step(), c.Melting(), st.Phase)
	}
}

func TestChainStopCancelsTimers(t *testing.T) {
	c, tm := newTestChain(t, &Melt{Shape: 2})
	run(c, tm, frame, Signals{Scrolling: true})
	c.Stop()
	c.Stop()
	if tm.Pending() != 0 {
		t.Fatalf("pending = %d after Stop", tm.Pending())
	}
	before := c.Advance(frame, Signals{})
	after := run(c, tm, 20*time.Second, Signals{})
	if before.Phase != after.Phase || c.Step() != 0 {
		t.Fatalf("stopped chain changed: %q -> %q", before.Phase, after.Phase)
	}
}

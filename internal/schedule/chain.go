package schedule

import (
	"fmt"
	"time"
)

// DefaultDebounce is how long scrolling must pause before a melted chain
// restarts.
const DefaultDebounce = 300 * time.Millisecond

// Step eases into Shape over Transition, then holds it for Hold.
type Step struct {
	Name       string
	Shape      int
	Transition time.Duration
	Hold       time.Duration

	Rate, Noise, Spin float64
}

// Melt is the shape a chain falls into while the page scrolls.
type Melt struct {
	Shape      int
	Rate       float64
	Offset     [3]float64
	Transition time.Duration
	Debounce   time.Duration
}

// Chain walks its steps on timers instead of a fixed cycle table: each step
// arms the timer that starts the next one. Scrolling can interrupt it when a
// Melt is configured.
type Chain struct {
	steps  []Step
	melt   *Melt
	timers *Timers

	idx      int
	from     int
	progress float64
	melting  bool

	stepTimer     TimerID
	debounceTimer TimerID

	elapsed time.Duration
	stopped bool
	last    State
}

// NewChain starts at step 0, fully formed, and arms the first step timer on
// the given queue.
func NewChain(steps []Step, melt *Melt, timers *Timers) (*Chain, error) {
	if len(steps) == 0 {
		return nil, ErrEmpty
	}
	for _, s := range steps {
		if s.Transition+s.Hold <= 0 {
			return nil, fmt.Errorf("schedule: step %q never advances", s.Name)
		}
	}
	if melt != nil && melt.Debounce <= 0 {
		m := *melt
		m.Debounce = DefaultDebounce
		melt = &m
	}
	c := &Chain{
		steps:    append([]Step(nil), steps...),
		melt:     melt,
		timers:   timers,
		from:     steps[0].Shape,
		progress: 1,
	}
	first := steps[0].Hold
	if first <= 0 {
		first = steps[0].Transition
	}
	c.stepTimer = timers.After(first, c.next)
	c.last = c.state()
	return c, nil
}

// Step returns the index of the current step.
func (c *Chain) Step() int { return c.idx }

// Melting reports whether a scroll interruption is active.
func (c *Chain) Melting() bool { return c.melting }

func (c *Chain) next() {
	c.stepTimer = 0
	if c.stopped {
		return
	}
	c.from = c.current().Dominant().Shape
	c.idx = (c.idx + 1) % len(c.steps)
	c.progress = 0
	s := c.steps[c.idx]
	c.stepTimer = c.timers.After(s.Transition+s.Hold, c.next)
}

func (c *Chain) restart() {
	c.debounceTimer = 0
	if c.stopped {
		return
	}
	c.from = c.current().Dominant().Shape
	c.melting = false
	c.idx = 0
	c.progress = 0
	s := c.steps[0]
	c.stepTimer = c.timers.After(s.Transition+s.Hold, c.next)
}

func (c *Chain) interrupt() {
	if !c.melting {
		c.timers.Cancel(c.stepTimer)
		c.stepTimer = 0
		c.from = c.current().Dominant().Shape
		c.progress = 0
		c.melting = true
	}
	c.timers.Cancel(c.debounceTimer)
	c.debounceTimer = c.timers.After(c.melt.Debounce, c.restart)
}

func (c *Chain) Advance(dt time.Duration, sig Signals) State {
	if c.stopped {
		return c.last
	}
	dt = max(dt, 0)
	c.elapsed += dt
	if sig.Scrolling && c.melt != nil {
		c.interrupt()
	}

	transition := c.steps[c.idx].Transition
	if c.melting {
		transition = c.melt.Transition
	}
	if transition <= 0 {
		c.progress = 1
	} else {
		c.progress = clamp01(c.progress + float64(dt)/float64(transition))
	}

	c.last = c.state()
	return c.last
}

func (c *Chain) current() Blend {
	to := c.steps[c.idx].Shape
	if c.melting {
		to = c.melt.Shape
	}
	return Mix(c.from, to, Smoothstep(c.progress))
}

func (c *Chain) state() State {
	st := State{Blend: c.current(), Elapsed: c.elapsed}
	if c.melting {
		st.Phase = "melt"
		st.Rate = c.melt.Rate
		st.Offset = c.melt.Offset
		return st
	}
	s := c.steps[c.idx]
	st.Phase = s.Name
	st.Rate, st.Noise, st.Spin = s.Rate, s.Noise, s.Spin
	return st
}

// Stop cancels the chain's timers.
func (c *Chain) Stop() {
	if c.stopped {
		return
	}
	c.stopped = true
	c.timers.Cancel(c.stepTimer)
	c.timers.Cancel(c.debounceTimer)
	c.stepTimer, c.debounceTimer = 0, 0
}

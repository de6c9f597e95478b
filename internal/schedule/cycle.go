package schedule

import (
	"fmt"
	"time"
)

// Phase is one row of a cycle table. A phase with From == To holds that
// shape; otherwise it transitions From → To with smoothstep progress.
type Phase struct {
	Name     string
	From, To int
	Duration time.Duration

	Rate, Noise, Spin float64

	// Oscillate appends that many extra legs bouncing between To and From,
	// each preceded by a hold of OscillateHold.
	Oscillate     int
	OscillateHold time.Duration
}

// HoldPhase is a convenience constructor for a hold row.
func HoldPhase(name string, shape int, d time.Duration) Phase {
	return Phase{Name: name, From: shape, To: shape, Duration: d}
}

// TransitionPhase is a convenience constructor for a transition row.
func TransitionPhase(name string, from, to int, d time.Duration) Phase {
	return Phase{Name: name, From: from, To: to, Duration: d}
}

func (p Phase) isHold() bool { return p.From == p.To }

// Expand unrolls oscillating transitions into plain rows.
func Expand(phases []Phase) []Phase {
	out := make([]Phase, 0, len(phases))
	for _, p := range phases {
		n := p.Oscillate
		p.Oscillate = 0
		out = append(out, p)
		if p.isHold() {
			continue
		}
		from, to := p.From, p.To
		for i := range n {
			hold := p
			hold.Name = fmt.Sprintf("%s/hold-%d", p.Name, i+1)
			hold.From, hold.To = to, to
			hold.Duration = p.OscillateHold
			if hold.Duration > 0 {
				out = append(out, hold)
			}

			leg := p
			leg.Name = fmt.Sprintf("%s/leg-%d", p.Name, i+1)
			leg.From, leg.To = to, from
			out = append(out, leg)
			from, to = to, from
		}
	}
	return out
}

// Cycle loops over a phase table on the accumulated frame time.
type Cycle struct {
	phases  []Phase
	starts  []time.Duration
	total   time.Duration
	elapsed time.Duration
	stopped bool
	last    State

	vortex      *Vortex
	fall        *FallConfig
	sinceScroll time.Duration
	scrollRate  float64
}

func NewCycle(phases []Phase, opts ...CycleOption) (*Cycle, error) {
	phases = Expand(phases)
	if len(phases) == 0 {
		return nil, ErrEmpty
	}
	c := &Cycle{phases: phases, starts: make([]time.Duration, len(phases))}
	for i, p := range phases {
		if p.Duration <= 0 {
			return nil, fmt.Errorf("schedule: phase %q has non-positive duration %s", p.Name, p.Duration)
		}
		c.starts[i] = c.total
		c.total += p.Duration
	}
	for _, opt := range opts {
		opt(c)
	}
	c.last = c.stateAt(0)
	c.overlay(0, Signals{}, &c.last)
	return c, nil
}

// Length is the duration of one full loop.
func (c *Cycle) Length() time.Duration { return c.total }

// Phases returns the expanded table.
func (c *Cycle) Phases() []Phase { return c.phases }

func (c *Cycle) Advance(dt time.Duration, sig Signals) State {
	if c.stopped {
		return c.last
	}
	dt = max(dt, 0)
	c.elapsed += dt
	c.last = c.stateAt(c.elapsed)
	c.overlay(dt, sig, &c.last)
	return c.last
}

func (c *Cycle) stateAt(elapsed time.Duration) State {
	t := elapsed % c.total
	i := len(c.phases) - 1
	for j := 1; j < len(c.starts); j++ {
		if t < c.starts[j] {
			i = j - 1
			break
		}
	}
	p := c.phases[i]
	st := State{Phase: p.Name, Rate: p.Rate, Noise: p.Noise, Spin: p.Spin, Elapsed: elapsed}
	if p.isHold() {
		st.Blend = Hold(p.From)
	} else {
		progress := float64(t-c.starts[i]) / float64(p.Duration)
		st.Blend = Mix(p.From, p.To, Smoothstep(progress))
	}
	return st
}

func (c *Cycle) Stop() { c.stopped = true }

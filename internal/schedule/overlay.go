package schedule

import (
	"math"
	"time"
)

// Swirl turns targets about the view axis. Strength is the weight of the
// swirling shape this frame; the angle advances by Speed*Strength rad/s, a
// pulse of amplitude Pulse breathes the radius, Contraction pulls it in and
// Influence is how much of the swirled point replaces the target.
type Swirl struct {
	Strength    float64
	Speed       float64
	Pulse       float64
	Influence   float64
	Contraction float64
}

// Fall melts targets down and toward the viewer while the page scrolls.
// Points within Radius of the view axis fall harder.
type Fall struct {
	Force  float64
	Radius float64
}

// Vortex swirls targets while Shape carries weight. When Stream is a valid
// shape, the swirling shape is also drawn toward it: at full strength Draw of
// its weight moves to Stream.
type Vortex struct {
	Shape  int
	Stream int
	Draw   float64
	Swirl  Swirl
}

// FallConfig turns scroll speed into a Fall. The speed is the rate of scroll
// events, capped at MaxRate per second, and drops to zero once no event has
// arrived for Linger.
type FallConfig struct {
	Gain    float64
	Radius  float64
	MaxRate float64
	Linger  time.Duration
}

// CycleOption adds an overlay to a Cycle.
type CycleOption func(*Cycle)

// WithVortex swirls the cycle's targets while v.Shape is in the blend.
func WithVortex(v Vortex) CycleOption {
	return func(c *Cycle) { c.vortex = &v }
}

// WithFall makes the cycle fall while the page scrolls.
func WithFall(f FallConfig) CycleOption {
	return func(c *Cycle) { c.fall = &f }
}

func (c *Cycle) overlay(dt time.Duration, sig Signals, st *State) {
	if v := c.vortex; v != nil {
		if w := st.Blend.Weight(v.Shape); w > 0 {
			st.Swirl = v.Swirl
			st.Swirl.Strength = w
			if v.Stream >= 0 && v.Stream != v.Shape && v.Draw > 0 {
				st.Blend = drawToward(st.Blend, v.Shape, v.Stream, w*v.Draw)
			}
		}
	}

	m := c.fall
	if m == nil {
		return
	}
	c.sinceScroll += dt
	switch {
	case sig.Scrolling:
		rate := m.MaxRate
		if s := c.sinceScroll.Seconds(); s > 0 {
			rate = math.Min(1/s, m.MaxRate)
		}
		c.scrollRate, c.sinceScroll = rate, 0
	case c.sinceScroll >= m.Linger:
		c.scrollRate = 0
	}
	if c.scrollRate > 0 {
		st.Fall = Fall{Force: c.scrollRate * m.Gain, Radius: m.Radius}
	}
}

// drawToward moves share of shape's weight onto stream. Blends that already
// use three shapes are returned unchanged.
func drawToward(b Blend, shape, stream int, share float64) Blend {
	terms := b.Terms()
	if len(terms) > 2 {
		return b
	}
	share = clamp01(share)
	w := b.Weight(shape)
	other := shape
	for _, t := range terms {
		if t.Shape != shape {
			other = t.Shape
		}
	}
	return Mix3(shape, stream, other, w*(1-share), w*share, 1-w)
}

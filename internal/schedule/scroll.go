package schedule

import (
	"fmt"
	"time"
)

// Stop pins a shape to a scroll fraction.
type Stop struct {
	At          float64
	Shape       int
	Name        string
	Rate, Noise float64
}

// Scroll maps the page scroll fraction onto the stops. Time plays no part.
type Scroll struct {
	stops   []Stop
	ease    bool
	stepped bool
	elapsed time.Duration
	stopped bool
	last    State
}

// NewScroll expects stops in ascending At order within [0,1]. With ease the
// weight toward the next stop follows smoothstep; with stepped each segment
// holds its own shape until the next threshold.
func NewScroll(stops []Stop, ease, stepped bool) (*Scroll, error) {
	if len(stops) == 0 {
		return nil, ErrEmpty
	}
	for i, s := range stops {
		if s.At < 0 || s.At > 1 {
			return nil, fmt.Errorf("schedule: stop %d at %g outside [0,1]", i, s.At)
		}
		if i > 0 && s.At <= stops[i-1].At {
			return nil, fmt.Errorf("schedule: stop %d at %g not after %g", i, s.At, stops[i-1].At)
		}
	}
	s := &Scroll{stops: append([]Stop(nil), stops...), ease: ease, stepped: stepped}
	s.last = s.stateAt(0)
	return s, nil
}

func (s *Scroll) Advance(dt time.Duration, sig Signals) State {
	if s.stopped {
		return s.last
	}
	s.elapsed += max(dt, 0)
	s.last = s.stateAt(sig.Scroll)
	s.last.Elapsed = s.elapsed
	return s.last
}

func (s *Scroll) stateAt(fraction float64) State {
	fraction = clamp01(fraction)
	first, last := s.stops[0], s.stops[len(s.stops)-1]
	switch {
	case fraction <= first.At:
		return s.hold(first)
	case fraction >= last.At:
		return s.hold(last)
	}

	i := 0
	for fraction >= s.stops[i+1].At {
		i++
	}
	a, b := s.stops[i], s.stops[i+1]
	if s.stepped {
		return s.hold(a)
	}
	t := (fraction - a.At) / (b.At - a.At)
	if s.ease {
		t = Smoothstep(t)
	}
	return State{
		Phase: fmt.Sprintf("%s→%s", stopName(a), stopName(b)),
		Blend: Mix(a.Shape, b.Shape, t),
		Rate:  a.Rate + (b.Rate-a.Rate)*t,
		Noise: a.Noise + (b.Noise-a.Noise)*t,
	}
}

func (s *Scroll) hold(st Stop) State {
	return State{Phase: stopName(st), Blend: Hold(st.Shape), Rate: st.Rate, Noise: st.Noise}
}

func stopName(s Stop) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("stop-%d", s.Shape)
}

func (s *Scroll) Stop() { s.stopped = true }

// Package schedule decides, frame by frame, which shapes the particles are
// heading for and how fast.
package schedule

import (
	"errors"
	"time"
)

var ErrEmpty = errors.New("schedule: no phases")

// State is the scheduler's answer for one frame.
type State struct {
	Phase string
	Blend Blend

	// Rate is the interpolation rate per reference frame; zero means the
	// integrator default.
	Rate float64
	// Noise scales the ambient noise amplitude; zero means unscaled.
	Noise float64
	// Spin overrides the global rotation speed in rad/s when non-zero.
	Spin float64
	// Offset displaces every target.
	Offset [3]float64

	// Swirl and Fall are set by cycle overlays; zero strength or force
	// leaves targets alone.
	Swirl Swirl
	Fall  Fall

	Elapsed time.Duration
}

// Signals are the per-frame inputs a scheduler may react to.
type Signals struct {
	// Scroll is the page scroll fraction in [0,1].
	Scroll float64
	// Scrolling is set when the scroll position moved this frame.
	Scrolling bool
}

// Scheduler produces the target state of each frame.
type Scheduler interface {
	Advance(dt time.Duration, sig Signals) State
	// Stop releases timers; Advance keeps returning the last state.
	Stop()
}

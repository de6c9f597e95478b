package physics

import (
	"math"

	"github.com/olivier-w/lumen/internal/schedule"
)

const (
	swirlPulseFreq  = 2
	swirlPulsePhase = 0.05

	// fall shares; the Centre and Pinch terms scale with closeness to the
	// view axis.
	fallBase   = 0.5
	fallCentre = 1.5
	fallDepth  = 0.3
	fallPinch  = 0.02
)

// swirl turns target about the view axis for particle i at clock t.
func swirl(target *[3]float64, s schedule.Swirl, i int, t float64) {
	if s.Strength <= 0 || s.Influence <= 0 {
		return
	}
	x, y := target[0], target[1]
	dist := math.Hypot(x, y)
	angle := math.Atan2(y, x) + t*s.Speed*s.Strength
	pulse := math.Sin(t*swirlPulseFreq+float64(i)*swirlPulsePhase) * s.Pulse
	r := dist * (1 - s.Strength*s.Contraction + pulse*s.Strength)
	inf := s.Strength * s.Influence
	target[0] = x*(1-inf) + math.Cos(angle)*r*inf
	target[1] = y*(1-inf) + math.Sin(angle)*r*inf
}

// fall melts target down, harder near the view axis.
func fall(target *[3]float64, f schedule.Fall) {
	if f.Force <= 0 {
		return
	}
	pull := 0.0
	if f.Radius > 0 {
		pull = max(0, 1-math.Hypot(target[0], target[1])/f.Radius)
	}
	target[1] -= f.Force * (fallBase + pull*fallCentre)
	target[0] *= 1 - pull*fallPinch
	target[2] += f.Force * fallDepth
}

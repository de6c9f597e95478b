package shape

import (
	"fmt"
	"math"
)

// reject appends count samples for which excluded reports false. It gives up
// after count*MaxRejectRatio draws instead of spinning forever.
func (g *generator) reject(count int, sample func() (x, y, z float64), excluded func(x, y, z float64) bool) error {
	budget := count * g.p.MaxRejectRatio
	accepted := 0
	for attempts := 0; accepted < count; attempts++ {
		if attempts >= budget {
			return fmt.Errorf("%w: %d of %d points after %d draws", ErrRejectionBudget, accepted, count, attempts)
		}
		x, y, z := sample()
		if excluded(x, y, z) {
			continue
		}
		g.add(x, y, z)
		accepted++
	}
	return nil
}

// voidSphere is a solid sphere with an axis-aligned cube carved out.
func (g *generator) voidSphere(count int) error {
	h := g.p.Inner / 2
	if h >= g.p.Radius {
		return fmt.Errorf("%w: cube half-extent %g >= radius %g", ErrEmptyRegion, h, g.p.Radius)
	}
	return g.reject(count,
		func() (float64, float64, float64) { return g.ball(g.p.Radius) },
		func(x, y, z float64) bool {
			return math.Abs(x) < h && math.Abs(y) < h && math.Abs(z) < h
		})
}

// voidCube is a solid cube with a sphere carved out.
func (g *generator) voidCube(count int) error {
	corner := g.p.Size / 2 * math.Sqrt(3)
	if g.p.Inner >= corner {
		return fmt.Errorf("%w: sphere radius %g >= cube half-diagonal %g", ErrEmptyRegion, g.p.Inner, corner)
	}
	r2 := g.p.Inner * g.p.Inner
	return g.reject(count,
		func() (float64, float64, float64) {
			return g.centered(g.p.Size), g.centered(g.p.Size), g.centered(g.p.Size)
		},
		func(x, y, z float64) bool { return x*x+y*y+z*z < r2 })
}

func (g *generator) hollowSphere(count int) error {
	if g.p.Inner >= g.p.Radius {
		return fmt.Errorf("%w: inner radius %g >= radius %g", ErrEmptyRegion, g.p.Inner, g.p.Radius)
	}
	r2 := g.p.Inner * g.p.Inner
	return g.reject(count,
		func() (float64, float64, float64) { return g.ball(g.p.Radius) },
		func(x, y, z float64) bool { return x*x+y*y+z*z < r2 })
}

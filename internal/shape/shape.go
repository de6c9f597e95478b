// Package shape generates the fixed-size target point sets that particles
// morph between. Every generator returns exactly the requested number of
// points or an error; tables are never short.
package shape

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

var (
	ErrInvalidCount    = errors.New("shape: count must be at least 1")
	ErrInvalidParams   = errors.New("shape: invalid parameters")
	ErrEmptyRegion     = errors.New("shape: excluded region covers the sampling region")
	ErrRejectionBudget = errors.New("shape: rejection sampling budget exhausted")
	ErrUnknownKind     = errors.New("shape: unknown kind")
)

// Table is an immutable set of target positions, flattened as x,y,z triples.
type Table struct {
	Name   string
	Kind   Kind
	Points []float32
}

func (t Table) Len() int { return len(t.Points) / 3 }

func (t Table) At(i int) (x, y, z float32) {
	j := i * 3
	return t.Points[j], t.Points[j+1], t.Points[j+2]
}

// Generate builds count points of the given kind. rng is the only source of
// randomness, so a seeded source yields a repeatable table.
func Generate(kind Kind, count int, p Params, rng *rand.Rand) (Table, error) {
	if count < 1 {
		return Table{}, fmt.Errorf("%w: got %d", ErrInvalidCount, count)
	}
	if int(kind) >= len(kindNames) {
		return Table{}, fmt.Errorf("%w: %d", ErrUnknownKind, kind)
	}
	p = p.withDefaults(kind)
	if err := p.validate(kind); err != nil {
		return Table{}, err
	}

	g := generator{rng: rng, p: p, pts: make([]float32, 0, count*3)}
	var err error
	switch kind {
	case Cloud, Flow:
		g.box(count)
	case Sphere:
		g.sphere(count)
	case Core:
		g.core(count, p.Radius, p.Power)
	case VoidSphere:
		err = g.voidSphere(count)
	case VoidCube:
		err = g.voidCube(count)
	case HollowSphere:
		err = g.hollowSphere(count)
	case Grid:
		g.grid(count)
	case Disk:
		g.disk(count)
	case Clusters:
		g.clusters(count)
	case Helix:
		g.helix(count)
	}
	if err != nil {
		return Table{}, fmt.Errorf("generate %s: %w", kind, err)
	}
	if len(g.pts) != count*3 {
		return Table{}, fmt.Errorf("generate %s: produced %d of %d points", kind, len(g.pts)/3, count)
	}
	return Table{Name: kind.String(), Kind: kind, Points: g.pts}, nil
}

type generator struct {
	rng *rand.Rand
	p   Params
	pts []float32
}

func (g *generator) add(x, y, z float64) {
	g.pts = append(g.pts, float32(x), float32(y), float32(z))
}

// centered returns a uniform value in [-span/2, span/2).
func (g *generator) centered(span float64) float64 {
	return (g.rng.Float64() - 0.5) * span
}

// ball returns a point of the solid sphere of the given radius, uniform by
// volume.
func (g *generator) ball(radius float64) (x, y, z float64) {
	return g.radial(math.Cbrt(g.rng.Float64()) * radius)
}

// radial returns a point at distance r in a uniformly random direction.
func (g *generator) radial(r float64) (x, y, z float64) {
	theta := g.rng.Float64() * 2 * math.Pi
	phi := math.Acos(2*g.rng.Float64() - 1)
	sinPhi := math.Sin(phi)
	return r * sinPhi * math.Cos(theta), r * sinPhi * math.Sin(theta), r * math.Cos(phi)
}

func (g *generator) box(count int) {
	e, o := g.p.Extent, g.p.Offset
	for range count {
		g.add(o[0]+g.centered(e[0]), o[1]+g.centered(e[1]), o[2]+g.centered(e[2]))
	}
}

func (g *generator) sphere(count int) {
	for range count {
		g.add(g.ball(g.p.Radius))
	}
}

func (g *generator) core(count int, radius, power float64) {
	for range count {
		g.add(g.radial(math.Pow(g.rng.Float64(), power) * radius))
	}
}

func (g *generator) grid(count int) {
	side := int(math.Round(math.Cbrt(float64(count))))
	for side > 0 && side*side*side > count {
		side--
	}
	size := g.p.Size
	step := size / float64(side)
	half := float64(side) / 2
	for x := range side {
		for y := range side {
			for z := range side {
				g.add(
					(float64(x)+0.5-half)*step+g.centered(g.p.Jitter),
					(float64(y)+0.5-half)*step+g.centered(g.p.Jitter),
					(float64(z)+0.5-half)*step+g.centered(g.p.Jitter),
				)
			}
		}
	}
	for len(g.pts) < count*3 {
		g.add(g.centered(size), g.centered(size), g.centered(size))
	}
}

func (g *generator) disk(count int) {
	p := g.p
	for range count {
		if p.CoreFraction > 0 && g.rng.Float64() < p.CoreFraction {
			g.add(g.radial(math.Pow(g.rng.Float64(), 3) * p.CoreRadius))
			continue
		}
		r := math.Sqrt(g.rng.Float64())*(p.Outer-p.Inner) + p.Inner
		angle := g.rng.Float64()*2*math.Pi + (p.Outer-r)*p.Spiral
		g.add(r*math.Cos(angle), g.centered(p.Thickness), r*math.Sin(angle))
	}
}

func (g *generator) clusters(count int) {
	p := g.p
	centers := make([][3]float64, p.Groups)
	for c := range centers {
		angle := float64(c) / float64(p.Groups) * 2 * math.Pi
		centers[c] = [3]float64{math.Cos(angle) * p.Spread, math.Sin(angle) * p.Spread, g.centered(p.Depth)}
	}
	member := func(c [3]float64) {
		x, y, z := g.radial(math.Pow(g.rng.Float64(), p.Power) * p.Radius)
		g.add(c[0]+x, c[1]+y, c[2]+z)
	}

	per := count / p.Groups
	for _, c := range centers {
		for range per {
			member(c)
		}
	}
	for len(g.pts) < count*3 {
		member(centers[g.rng.Intn(len(centers))])
	}
}

func (g *generator) helix(count int) {
	p := g.p
	bands := len(p.Radii)
	per := int(float64(count)*p.BandFraction) / bands
	for b, radius := range p.Radii {
		offset := float64(b) / float64(bands) * 2 * math.Pi
		for i := range per {
			t := float64(i) / float64(per)
			angle := t*2*math.Pi*p.Turns + offset
			r := radius + g.centered(0.4)
			g.add(r*math.Cos(angle), (t-0.5)*p.Height+g.centered(0.3), r*math.Sin(angle))
		}
	}
	for len(g.pts) < count*3 {
		x, _, z := g.ball(p.Radius)
		g.add(x, g.centered(p.Height*1.2), z)
	}
}

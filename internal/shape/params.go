package shape

import (
	"fmt"
	"math"
)

// DefaultMaxRejectRatio caps rejection sampling at count*ratio attempts.
const DefaultMaxRejectRatio = 256

// Params carries the knobs of every generator. Fields a kind does not use
// are ignored; zero values are replaced by the kind's defaults.
type Params struct {
	Extent [3]float64 `toml:"extent"`
	Offset [3]float64 `toml:"offset"`

	Radius float64 `toml:"radius"`
	Size   float64 `toml:"size"`
	Inner  float64 `toml:"inner"`
	Outer  float64 `toml:"outer"`
	Power  float64 `toml:"power"`
	Jitter float64 `toml:"jitter"`

	// disk
	Thickness    float64 `toml:"thickness"`
	Spiral       float64 `toml:"spiral"`
	CoreFraction float64 `toml:"core_fraction"`
	CoreRadius   float64 `toml:"core_radius"`

	// clusters
	Groups int     `toml:"groups"`
	Spread float64 `toml:"spread"`
	Depth  float64 `toml:"depth"`

	// helix
	Radii        []float64 `toml:"radii"`
	Turns        float64   `toml:"turns"`
	Height       float64   `toml:"height"`
	BandFraction float64   `toml:"band_fraction"`

	MaxRejectRatio int `toml:"max_reject_ratio"`
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}

// withDefaults fills unset fields using the values of the reference variant.
func (p Params) withDefaults(k Kind) Params {
	switch k {
	case Cloud:
		if p.Extent == ([3]float64{}) {
			p.Extent = [3]float64{50, 30, 30}
		}
	case Flow:
		if p.Extent == ([3]float64{}) {
			p.Extent = [3]float64{80, 60, 45}
		}
		if p.Offset == ([3]float64{}) {
			p.Offset = [3]float64{0, 0, 37.5}
		}
	case Sphere:
		p.Radius = orDefault(p.Radius, 6)
	case Core:
		p.Radius = orDefault(p.Radius, 9)
		p.Power = orDefault(p.Power, 4)
	case VoidSphere:
		p.Radius = orDefault(p.Radius, 6)
		p.Inner = orDefault(p.Inner, 3.5)
	case VoidCube:
		p.Size = orDefault(p.Size, 7.5)
		p.Inner = orDefault(p.Inner, 3)
	case HollowSphere:
		p.Radius = orDefault(p.Radius, 4.8)
		p.Inner = orDefault(p.Inner, 2)
	case Grid:
		p.Size = orDefault(p.Size, 12)
		p.Jitter = orDefault(p.Jitter, 0.2)
	case Disk:
		p.Inner = orDefault(p.Inner, 2.5)
		p.Outer = orDefault(p.Outer, 9)
		p.Thickness = orDefault(p.Thickness, 0.2)
		p.CoreRadius = orDefault(p.CoreRadius, 0.3)
	case Clusters:
		if p.Groups == 0 {
			p.Groups = 5
		}
		p.Spread = orDefault(p.Spread, 14)
		p.Radius = orDefault(p.Radius, 6)
		p.Power = orDefault(p.Power, 0.5)
		p.Depth = orDefault(p.Depth, 5)
	case Helix:
		if len(p.Radii) == 0 {
			p.Radii = []float64{3.5, 5, 6.5}
		}
		p.Turns = orDefault(p.Turns, 3)
		p.Height = orDefault(p.Height, 10)
		p.BandFraction = orDefault(p.BandFraction, 0.6)
		p.Radius = orDefault(p.Radius, 8)
	}
	if p.MaxRejectRatio <= 0 {
		p.MaxRejectRatio = DefaultMaxRejectRatio
	}
	return p
}

func (p Params) validate(k Kind) error {
	bad := func(field string, v float64) error {
		return fmt.Errorf("%w: %s %s = %g", ErrInvalidParams, k, field, v)
	}
	positive := func(field string, v float64) error {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return bad(field, v)
		}
		return nil
	}

	switch k {
	case Cloud, Flow:
		for i, v := range p.Extent {
			if v < 0 || math.IsNaN(v) {
				return bad(fmt.Sprintf("extent[%d]", i), v)
			}
		}
	case Sphere, Core, HollowSphere, VoidSphere:
		if err := positive("radius", p.Radius); err != nil {
			return err
		}
		if k == Core {
			return positive("power", p.Power)
		}
		if k != Sphere {
			return positive("inner", p.Inner)
		}
	case VoidCube:
		if err := positive("size", p.Size); err != nil {
			return err
		}
		return positive("inner", p.Inner)
	case Grid:
		if err := positive("size", p.Size); err != nil {
			return err
		}
		if p.Jitter < 0 {
			return bad("jitter", p.Jitter)
		}
	case Disk:
		if err := positive("outer", p.Outer); err != nil {
			return err
		}
		if p.Inner < 0 || p.Inner > p.Outer {
			return bad("inner", p.Inner)
		}
		if p.CoreFraction < 0 || p.CoreFraction > 1 {
			return bad("core_fraction", p.CoreFraction)
		}
	case Clusters:
		if p.Groups < 1 {
			return bad("groups", float64(p.Groups))
		}
		if err := positive("radius", p.Radius); err != nil {
			return err
		}
		return positive("power", p.Power)
	case Helix:
		for _, r := range p.Radii {
			if err := positive("radii", r); err != nil {
				return err
			}
		}
		if err := positive("height", p.Height); err != nil {
			return err
		}
		if p.BandFraction < 0 || p.BandFraction > 1 {
			return bad("band_fraction", p.BandFraction)
		}
	}
	return nil
}

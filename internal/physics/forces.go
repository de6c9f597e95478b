package physics

import (
	"math"
	"math/rand"
)

// PointerConfig configures cursor repulsion in the view plane. A particle d
// units from the cursor is pushed (Radius-d)*Strength units per reference
// frame.
type PointerConfig struct {
	Enabled      bool    `toml:"enabled"`
	Radius       float64 `toml:"radius"`
	Strength     float64 `toml:"strength"`
	DepthFalloff float64 `toml:"depth_falloff"`
}

// TurbulenceConfig turns scroll speed into random jitter.
type TurbulenceConfig struct {
	Enabled bool    `toml:"enabled"`
	Gain    float64 `toml:"gain"`
	Max     float64 `toml:"max"`
	Decay   float64 `toml:"decay"`
}

// ShockwaveConfig configures the radial push triggered by clicks.
type ShockwaveConfig struct {
	Enabled  bool    `toml:"enabled"`
	Strength float64 `toml:"strength"`
	Radius   float64 `toml:"radius"`
	Decay    float64 `toml:"decay"`
}

// ForceConfig groups the preset's force settings.
type ForceConfig struct {
	Pointer    PointerConfig    `toml:"pointer"`
	Turbulence TurbulenceConfig `toml:"turbulence"`
	Shockwave  ShockwaveConfig  `toml:"shockwave"`
	Ambient    AmbientConfig    `toml:"ambient"`
}

// shockwaveFloor is the strength below which a shockwave stops acting.
const shockwaveFloor = 0.1

// WithDefaults fills zero fields of enabled forces.
func (c ForceConfig) WithDefaults() ForceConfig {
	if c.Pointer.Radius == 0 {
		c.Pointer.Radius = 4
	}
	if c.Pointer.Strength == 0 {
		c.Pointer.Strength = 0.15
	}
	if c.Turbulence.Gain == 0 {
		c.Turbulence.Gain = 0.1
	}
	if c.Turbulence.Max == 0 {
		c.Turbulence.Max = 2
	}
	if c.Turbulence.Decay == 0 {
		c.Turbulence.Decay = 0.9
	}
	if c.Shockwave.Strength == 0 {
		c.Shockwave.Strength = 8
	}
	if c.Shockwave.Radius == 0 {
		c.Shockwave.Radius = 15
	}
	if c.Shockwave.Decay == 0 {
		c.Shockwave.Decay = 0.92
	}
	return c
}

// Forces is the transient input state applied by the integrator. It is
// written by the input drain and read once per frame.
type Forces struct {
	cfg     ForceConfig
	ambient *Ambient

	pointerX, pointerY float64
	pointerActive      bool

	turbulence float64

	shockX, shockY float64
	shock          float64
}

func NewForces(cfg ForceConfig, seed int64) *Forces {
	cfg = cfg.WithDefaults()
	return &Forces{cfg: cfg, ambient: NewAmbient(cfg.Ambient, seed)}
}

func (f *Forces) Config() ForceConfig { return f.cfg }

// SetPointer places the cursor on the local plane. It is ignored when the
// pointer force is disabled.
func (f *Forces) SetPointer(x, y float64) {
	if !f.cfg.Pointer.Enabled {
		return
	}
	f.pointerX, f.pointerY = x, y
	f.pointerActive = true
}

// ClearPointer stops pointer repulsion, e.g. when the cursor leaves.
func (f *Forces) ClearPointer() { f.pointerActive = false }

// Pointer returns the cursor position and whether it is active.
func (f *Forces) Pointer() (x, y float64, ok bool) {
	return f.pointerX, f.pointerY, f.pointerActive
}

// KickScroll converts a scroll delta into turbulence.
func (f *Forces) KickScroll(delta float64) {
	if !f.cfg.Turbulence.Enabled {
		return
	}
	f.Kick(math.Abs(delta) * f.cfg.Turbulence.Gain)
}

// Kick raises turbulence to at least v, capped at the configured maximum.
func (f *Forces) Kick(v float64) {
	if !f.cfg.Turbulence.Enabled {
		return
	}
	v = math.Min(v, f.cfg.Turbulence.Max)
	if v > f.turbulence {
		f.turbulence = v
	}
}

func (f *Forces) Turbulence() float64 { return f.turbulence }

// Trigger starts a shockwave at (x, y) on the local plane.
func (f *Forces) Trigger(x, y float64) {
	if !f.cfg.Shockwave.Enabled {
		return
	}
	f.shockX, f.shockY = x, y
	f.shock = f.cfg.Shockwave.Strength
}

// Shockwave returns the current strength; zero when inactive.
func (f *Forces) Shockwave() float64 { return f.shock }

// Decay applies one step of exponential decay scaled by k reference frames.
func (f *Forces) Decay(k float64) {
	if f.turbulence > 0 {
		f.turbulence *= math.Pow(f.cfg.Turbulence.Decay, k)
		if f.turbulence < 1e-4 {
			f.turbulence = 0
		}
	}
	if f.shock > 0 {
		f.shock *= math.Pow(f.cfg.Shockwave.Decay, k)
		if f.shock <= shockwaveFloor {
			f.shock = 0
		}
	}
}

// Reset clears every transient force.
func (f *Forces) Reset() {
	f.pointerActive = false
	f.turbulence = 0
	f.shock = 0
}

// apply returns the displacement the transient forces add to a particle at
// (x, y, z) this frame.
func (f *Forces) apply(x, y, z, k float64, rng *rand.Rand) (dx, dy, dz float64) {
	if f.pointerActive {
		p := f.cfg.Pointer
		ox, oy := x-f.pointerX, y-f.pointerY
		d := math.Hypot(ox, oy)
		if d < p.Radius && d > 1e-6 {
			push := (p.Radius - d) * p.Strength * k
			if p.DepthFalloff > 0 {
				push *= 0.3 + 0.7*(1-math.Min(math.Abs(z)/p.DepthFalloff, 0.7))
			}
			dx += ox / d * push
			dy += oy / d * push
		}
	}
	if f.turbulence > 0 {
		t := f.turbulence * k
		dx += (rng.Float64() - 0.5) * t * 0.05
		dy += (rng.Float64() - 0.5) * t * 0.05
		dz += (rng.Float64() - 0.5) * t * 0.03
	}
	if f.shock > shockwaveFloor {
		ox, oy := x-f.shockX, y-f.shockY
		d := math.Hypot(ox, oy)
		if d < f.cfg.Shockwave.Radius {
			push := f.shock / (d + 1) * 0.3 * k
			dx += ox / (d + 0.1) * push
			dy += oy / (d + 0.1) * push
		}
	}
	return dx, dy, dz
}

// FramesToDecay returns how many reference frames it takes for a value
// decaying by factor per frame to drop below fraction of its start. It
// returns -1 when the value never decays.
func FramesToDecay(factor, fraction float64) int {
	if factor <= 0 || factor >= 1 || fraction <= 0 {
		return -1
	}
	if fraction >= 1 {
		return 1
	}
	n := int(math.Ceil(math.Log(fraction) / math.Log(factor)))
	for math.Pow(factor, float64(n)) >= fraction {
		n++
	}
	return n
}

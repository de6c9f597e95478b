// Package physics moves particles toward their blended targets once per
// frame.
package physics

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/olivier-w/lumen/internal/particle"
	"github.com/olivier-w/lumen/internal/schedule"
	"github.com/olivier-w/lumen/internal/shape"
)

// ReferenceFPS is the frame rate the per-frame constants are authored at.
const ReferenceFPS = 60

// Policy selects how positions approach their targets.
type Policy uint8

const (
	// Lerp moves a fixed fraction of the remaining distance each frame.
	Lerp Policy = iota
	// Spring keeps a velocity pulled toward the target and damped.
	Spring
	// Harmonic uses an analytic damped spring.
	Harmonic
)

var policyNames = [...]string{"lerp", "spring", "harmonic"}

func (p Policy) String() string {
	if int(p) < len(policyNames) {
		return policyNames[p]
	}
	return fmt.Sprintf("policy(%d)", p)
}

func (p *Policy) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for i, s := range policyNames {
		if s == name {
			*p = Policy(i)
			return nil
		}
	}
	return fmt.Errorf("physics: unknown policy %q", text)
}

func (p Policy) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// NeedsVelocity reports whether the policy keeps per-particle velocity.
func (p Policy) NeedsVelocity() bool { return p != Lerp }

// Config holds the integrator constants, all per reference frame.
type Config struct {
	Policy    Policy  `toml:"policy"`
	Rate      float64 `toml:"rate"`
	Stiffness float64 `toml:"stiffness"`
	Damping   float64 `toml:"damping"`

	// harmonic
	Frequency    float64 `toml:"frequency"`
	DampingRatio float64 `toml:"damping_ratio"`

	ReferenceFPS float64 `toml:"reference_fps"`
}

func (c Config) WithDefaults() Config {
	if c.Rate == 0 {
		c.Rate = 0.02
	}
	if c.Stiffness == 0 {
		c.Stiffness = 0.08
	}
	if c.Damping == 0 {
		c.Damping = 0.92
	}
	if c.Frequency == 0 {
		c.Frequency = 4
	}
	if c.DampingRatio == 0 {
		c.DampingRatio = 0.6
	}
	if c.ReferenceFPS == 0 {
		c.ReferenceFPS = ReferenceFPS
	}
	return c
}

func (c Config) Validate() error {
	switch {
	case int(c.Policy) >= len(policyNames):
		return fmt.Errorf("physics: unknown policy %d", c.Policy)
	case c.Rate < 0 || c.Rate > 1:
		return fmt.Errorf("physics: rate %g outside [0,1]", c.Rate)
	case c.Policy == Spring && (c.Damping <= 0 || c.Damping >= 1):
		return fmt.Errorf("physics: spring damping %g must be in (0,1)", c.Damping)
	case c.Policy == Spring && c.Stiffness <= 0:
		return fmt.Errorf("physics: spring stiffness %g must be positive", c.Stiffness)
	case c.ReferenceFPS < 0:
		return fmt.Errorf("physics: reference fps %g is negative", c.ReferenceFPS)
	}
	return nil
}

// Integrator writes one frame of motion into a particle buffer.
type Integrator struct {
	cfg    Config
	rng    *rand.Rand
	spring harmonica.Spring
	lastDT time.Duration
	clock  float64
	energy float64
}

func New(cfg Config, rng *rand.Rand) *Integrator {
	return &Integrator{cfg: cfg.WithDefaults(), rng: rng}
}

func (in *Integrator) Config() Config { return in.cfg }

// Energy is half the sum of squared velocities of the last step, in units per
// reference frame and unit mass. It is reported for every policy, including
// lerp buffers that keep no velocity.
func (in *Integrator) Energy() float64 { return in.energy }

// FrameScale converts a frame delta into reference frames.
func (in *Integrator) FrameScale(dt time.Duration) float64 {
	return dt.Seconds() * in.cfg.ReferenceFPS
}

// Step advances every particle by dt. tables are indexed by the shape
// indices of st.Blend and must all match the buffer length. Transient forces
// are read but not decayed; callers decay them after the step.
func (in *Integrator) Step(buf *particle.Buffer, tables []shape.Table, st schedule.State, f *Forces, dt time.Duration) {
	k := in.FrameScale(dt)
	if k <= 0 {
		return
	}
	in.clock += dt.Seconds()

	rate := st.Rate
	if rate == 0 {
		rate = in.cfg.Rate
	}
	r := 1 - math.Pow(1-clamp01(rate), k)
	damp := math.Pow(in.cfg.Damping, k)
	stiff := in.cfg.Stiffness * k
	if in.cfg.Policy == Harmonic && dt != in.lastDT {
		in.spring = harmonica.NewSpring(dt.Seconds(), in.cfg.Frequency, in.cfg.DampingRatio)
		in.lastDT = dt
	}

	terms := st.Blend.Terms()
	noise := 1.0
	if st.Noise != 0 {
		noise = st.Noise
	}
	var ambient *Ambient
	if f != nil && f.ambient.Active() {
		ambient = f.ambient
	}

	pos, vel := buf.Positions, buf.Velocities
	var energy float64
	for i := range buf.Len() {
		j := i * 3

		var target [3]float64
		for _, term := range terms {
			pts := tables[term.Shape].Points
			target[0] += float64(pts[j]) * term.Weight
			target[1] += float64(pts[j+1]) * term.Weight
			target[2] += float64(pts[j+2]) * term.Weight
		}
		target[0] += st.Offset[0]
		target[1] += st.Offset[1]
		target[2] += st.Offset[2]
		if ambient != nil {
			ax, ay, az := ambient.Offset(i, in.clock, noise)
			target[0] += ax
			target[1] += ay
			target[2] += az
		}
		swirl(&target, st.Swirl, i, in.clock)
		fall(&target, st.Fall)

		p := [3]float64{float64(pos[j]), float64(pos[j+1]), float64(pos[j+2])}
		var force [3]float64
		if f != nil {
			force[0], force[1], force[2] = f.apply(p[0], p[1], p[2], k, in.rng)
		}

		for a := range 3 {
			switch in.cfg.Policy {
			case Lerp:
				next := p[a] + (target[a]-p[a])*r + force[a]
				v := (next - p[a]) / k
				if vel != nil {
					vel[j+a] = float32(v)
				}
				energy += v * v
				p[a] = next
			case Spring:
				v := (float64(vel[j+a]) + (target[a]-p[a])*stiff + force[a]) * damp
				vel[j+a] = float32(v)
				energy += v * v
				p[a] += v * k
			case Harmonic:
				v := float64(vel[j+a]) + force[a]*in.cfg.ReferenceFPS
				np, nv := in.spring.Update(p[a], v, target[a])
				p[a] = np
				vel[j+a] = float32(nv)
				nv /= in.cfg.ReferenceFPS
				energy += nv * nv
			}
			pos[j+a] = float32(p[a])
		}
	}
	in.energy = energy / 2
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

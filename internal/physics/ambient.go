package physics

import (
	"fmt"
	"math"
	"strings"

	"github.com/ojrac/opensimplex-go"
)

// NoiseKind selects the ambient motion added to every target.
type NoiseKind uint8

const (
	NoiseNone NoiseKind = iota
	NoiseSine
	NoiseOrbit
	NoiseSimplex
)

var noiseNames = [...]string{"none", "sine", "orbit", "simplex"}

func (n NoiseKind) String() string {
	if int(n) < len(noiseNames) {
		return noiseNames[n]
	}
	return fmt.Sprintf("noise(%d)", n)
}

func (n *NoiseKind) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	if name == "" {
		*n = NoiseNone
		return nil
	}
	for i, s := range noiseNames {
		if s == name {
			*n = NoiseKind(i)
			return nil
		}
	}
	return fmt.Errorf("physics: unknown ambient noise %q", text)
}

func (n NoiseKind) MarshalText() ([]byte, error) { return []byte(n.String()), nil }

// AmbientConfig describes the idle motion. Phase offsets each particle by
// its index so the field does not move in lockstep.
type AmbientConfig struct {
	Kind      NoiseKind `toml:"kind"`
	Amplitude float64   `toml:"amplitude"`
	Frequency float64   `toml:"frequency"`
	Phase     float64   `toml:"phase"`
	// Scale is the spatial frequency of the simplex field.
	Scale float64 `toml:"scale"`
}

// Ambient evaluates the idle motion for a particle at a point in time.
type Ambient struct {
	cfg   AmbientConfig
	noise opensimplex.Noise
}

func NewAmbient(cfg AmbientConfig, seed int64) *Ambient {
	if cfg.Frequency == 0 {
		cfg.Frequency = 0.5
	}
	if cfg.Phase == 0 {
		cfg.Phase = 0.1
	}
	if cfg.Scale == 0 {
		cfg.Scale = 0.15
	}
	a := &Ambient{cfg: cfg}
	if cfg.Kind == NoiseSimplex {
		a.noise = opensimplex.New(seed)
	}
	return a
}

// Offset returns the ambient displacement of particle i at time t (seconds).
// scale multiplies the configured amplitude; callers pass 1 when the phase
// does not override it.
func (a *Ambient) Offset(i int, t, scale float64) (dx, dy, dz float64) {
	amp := a.cfg.Amplitude * scale
	if amp == 0 {
		return 0, 0, 0
	}
	angle := t*a.cfg.Frequency + float64(i)*a.cfg.Phase
	switch a.cfg.Kind {
	case NoiseSine:
		s := math.Sin(angle) * amp
		return s, s, s
	case NoiseOrbit:
		return math.Cos(angle) * amp, 0, math.Sin(angle) * amp
	case NoiseSimplex:
		u := float64(i) * a.cfg.Scale
		v := t * a.cfg.Frequency
		return a.noise.Eval3(u, v, 0) * amp,
			a.noise.Eval3(u, v, 17.3) * amp,
			a.noise.Eval3(u, v, 41.9) * amp
	}
	return 0, 0, 0
}

func (a *Ambient) Active() bool {
	return a.cfg.Kind != NoiseNone && a.cfg.Amplitude != 0
}

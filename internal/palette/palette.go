// Package palette assigns colors and sizes to particles.
package palette

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/olivier-w/lumen/internal/particle"
)

var ErrNoColors = errors.New("palette: no base colors")

// Spec is the color section of a preset.
type Spec struct {
	// Base colors as hex strings. Ignored when HueRamp is set.
	Base []string `toml:"base"`
	// HueRamp builds the base colors from an HSLuv hue range [from, to].
	HueRamp    []float64 `toml:"hue_ramp"`
	Saturation float64   `toml:"saturation"`
	Lightness  float64   `toml:"lightness"`
	Steps      int       `toml:"steps"`

	// ByIndex picks base colors by contiguous index ranges instead of at
	// random, so grouped shapes (clusters, helix bands) get one color each.
	ByIndex bool `toml:"by_index"`
	// Jitter perturbs lightness in Lab space.
	Jitter float64 `toml:"jitter"`

	Accent         string  `toml:"accent"`
	AccentFraction float64 `toml:"accent_fraction"`

	Size       float64 `toml:"size"`
	AccentSize float64 `toml:"accent_size"`
}

// Colors resolves the base colors.
func (s Spec) Colors() ([]colorful.Color, error) {
	if len(s.HueRamp) > 0 {
		if len(s.HueRamp) != 2 {
			return nil, fmt.Errorf("palette: hue_ramp needs [from, to], got %d values", len(s.HueRamp))
		}
		steps := s.Steps
		if steps < 2 {
			steps = 5
		}
		sat, light := s.Saturation, s.Lightness
		if sat == 0 {
			sat = 0.85
		}
		if light == 0 {
			light = 0.65
		}
		return Ramp(steps, s.HueRamp[0], s.HueRamp[1], sat, light), nil
	}
	if len(s.Base) == 0 {
		return nil, ErrNoColors
	}
	out := make([]colorful.Color, len(s.Base))
	for i, hex := range s.Base {
		c, err := colorful.Hex(hex)
		if err != nil {
			return nil, fmt.Errorf("palette: base color %d: %w", i, err)
		}
		out[i] = c
	}
	return out, nil
}

// Validate checks the palette without touching a buffer.
func (s Spec) Validate() error {
	if _, err := s.Colors(); err != nil {
		return err
	}
	if s.Accent != "" {
		if _, err := colorful.Hex(s.Accent); err != nil {
			return fmt.Errorf("palette: accent: %w", err)
		}
	}
	if s.AccentFraction < 0 || s.AccentFraction > 1 {
		return fmt.Errorf("palette: accent_fraction %g outside [0,1]", s.AccentFraction)
	}
	return nil
}

// Ramp returns n colors evenly spaced in HSLuv hue from h0 to h1 degrees.
func Ramp(n int, h0, h1, s, l float64) []colorful.Color {
	out := make([]colorful.Color, n)
	for i := range n {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		h := math.Mod(h0+(h1-h0)*t, 360)
		if h < 0 {
			h += 360
		}
		out[i] = colorful.HSLuv(h, s, l).Clamped()
	}
	return out
}

// Assign fills the color and size attributes of every particle.
func Assign(buf *particle.Buffer, s Spec, rng *rand.Rand) error {
	base, err := s.Colors()
	if err != nil {
		return err
	}
	var accent colorful.Color
	if s.Accent != "" {
		if accent, err = colorful.Hex(s.Accent); err != nil {
			return fmt.Errorf("palette: accent: %w", err)
		}
	}
	size := s.Size
	if size == 0 {
		size = 1
	}
	accentSize := s.AccentSize
	if accentSize == 0 {
		accentSize = size * 1.5
	}

	n := buf.Len()
	for i := range n {
		var c colorful.Color
		sz := size
		switch {
		case s.Accent != "" && rng.Float64() < s.AccentFraction:
			c = accent
			sz = accentSize
		case s.ByIndex:
			c = base[min(i*len(base)/max(n, 1), len(base)-1)]
		default:
			c = base[rng.Intn(len(base))]
		}
		if s.Jitter > 0 {
			l, a, b := c.Lab()
			c = colorful.Lab(l+(rng.Float64()-0.5)*s.Jitter, a, b).Clamped()
		}
		j := i * 3
		buf.Colors[j] = float32(c.R)
		buf.Colors[j+1] = float32(c.G)
		buf.Colors[j+2] = float32(c.B)
		buf.Sizes[i] = float32(sz * (0.8 + rng.Float64()*0.4))
	}
	return nil
}

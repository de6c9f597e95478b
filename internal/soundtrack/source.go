package soundtrack

import "time"

// SourceConfig tunes when loudness turns into a turbulence kick.
type SourceConfig struct {
	// Smoothing is the weight of the running average per poll.
	Smoothing float64
	// Threshold is how far above the running average a window must be.
	Threshold float64
	// Floor ignores windows quieter than this.
	Floor float64
	// Gain scales the excess loudness into kick strength.
	Gain float64
}

func (c SourceConfig) withDefaults() SourceConfig {
	if c.Smoothing == 0 {
		c.Smoothing = 0.05
	}
	if c.Threshold == 0 {
		c.Threshold = 1.3
	}
	if c.Floor == 0 {
		c.Floor = 0.1
	}
	if c.Gain == 0 {
		c.Gain = 2
	}
	return c
}

// Source kicks turbulence when the envelope rises above its running
// average. Poll it once per frame from the frame goroutine.
type Source struct {
	env    *Envelope
	clock  func() time.Duration
	cfg    SourceConfig
	avg    float64
	primed bool
}

// NewSource reads the envelope at the time clock reports.
func NewSource(env *Envelope, clock func() time.Duration, cfg SourceConfig) *Source {
	return &Source{env: env, clock: clock, cfg: cfg.withDefaults()}
}

// Poll samples the envelope and calls kick on an onset.
func (s *Source) Poll(kick func(strength float64)) {
	v := s.env.At(s.clock())
	if !s.primed {
		s.avg, s.primed = v, true
		return
	}
	if v > s.cfg.Floor && v > s.avg*s.cfg.Threshold {
		kick((v - s.avg) * s.cfg.Gain)
	}
	s.avg += (v - s.avg) * s.cfg.Smoothing
}

// WallClock returns a clock counting from now, for muted playback.
func WallClock() func() time.Duration {
	start := time.Now()
	return func() time.Duration { return time.Since(start) }
}

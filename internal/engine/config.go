package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/olivier-w/lumen/internal/palette"
	"github.com/olivier-w/lumen/internal/physics"
	"github.com/olivier-w/lumen/internal/schedule"
	"github.com/olivier-w/lumen/internal/shape"
)

var ErrInvalidConfig = errors.New("engine: invalid config")

// Schedule modes.
const (
	ModeCycle  = "cycle"
	ModeScroll = "scroll"
	ModeChain  = "chain"
)

// Duration decodes Go duration strings such as "4s" or "300ms".
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) { return []byte(time.Duration(d).String()), nil }

func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config describes one animation variant.
type Config struct {
	Name        string `toml:"name"`
	Title       string `toml:"title"`
	Description string `toml:"description"`

	Count int   `toml:"count"`
	Seed  int64 `toml:"seed"`
	FPS   int   `toml:"fps"`

	// Initial names the shape the buffer starts on; defaults to the first.
	Initial string `toml:"initial"`

	Shapes   []ShapeSpec         `toml:"shapes"`
	Schedule ScheduleSpec        `toml:"schedule"`
	Physics  physics.Config      `toml:"physics"`
	Forces   physics.ForceConfig `toml:"forces"`
	Palette  palette.Spec        `toml:"palette"`
	Camera   CameraSpec          `toml:"camera"`
}

// ShapeSpec declares a named target table.
type ShapeSpec struct {
	Name   string       `toml:"name"`
	Kind   shape.Kind   `toml:"kind"`
	Params shape.Params `toml:"params"`
}

// ScheduleSpec is the scheduler section. Only the fields of the selected
// mode are read.
type ScheduleSpec struct {
	Mode string `toml:"mode"`

	Phases []PhaseSpec `toml:"phases"`

	Stops   []StopSpec `toml:"stops"`
	Ease    bool       `toml:"ease"`
	Stepped bool       `toml:"stepped"`

	Steps []StepSpec `toml:"steps"`
	Melt  *MeltSpec  `toml:"melt"`

	// Cycle overlays.
	Vortex *VortexSpec `toml:"vortex"`
	Fall   *FallSpec   `toml:"fall"`
}

// PhaseSpec is a cycle row: set Shape for a hold, From and To for a
// transition.
type PhaseSpec struct {
	Name          string   `toml:"name"`
	Shape         string   `toml:"shape"`
	From          string   `toml:"from"`
	To            string   `toml:"to"`
	Duration      Duration `toml:"duration"`
	Rate          float64  `toml:"rate"`
	Noise         float64  `toml:"noise"`
	Spin          float64  `toml:"spin"`
	Oscillate     int      `toml:"oscillate"`
	OscillateHold Duration `toml:"oscillate_hold"`
}

type StopSpec struct {
	At    float64 `toml:"at"`
	Shape string  `toml:"shape"`
	Rate  float64 `toml:"rate"`
	Noise float64 `toml:"noise"`
}

// StepSpec is a chain step; Name defaults to the shape.
type StepSpec struct {
	Name       string   `toml:"name"`
	Shape      string   `toml:"shape"`
	Transition Duration `toml:"transition"`
	Hold       Duration `toml:"hold"`
	Rate       float64  `toml:"rate"`
	Noise      float64  `toml:"noise"`
	Spin       float64  `toml:"spin"`
}

type MeltSpec struct {
	Shape      string     `toml:"shape"`
	Rate       float64    `toml:"rate"`
	Offset     [3]float64 `toml:"offset"`
	Transition Duration   `toml:"transition"`
	Debounce   Duration   `toml:"debounce"`
}

// VortexSpec swirls targets while Shape is in the blend and draws part of
// it toward Stream.
type VortexSpec struct {
	Shape       string  `toml:"shape"`
	Stream      string  `toml:"stream"`
	Draw        float64 `toml:"draw"`
	Speed       float64 `toml:"speed"`
	Pulse       float64 `toml:"pulse"`
	Influence   float64 `toml:"influence"`
	Contraction float64 `toml:"contraction"`
}

func (v VortexSpec) withDefaults() VortexSpec {
	if v.Speed == 0 {
		v.Speed = 0.2
	}
	if v.Pulse == 0 {
		v.Pulse = 0.3
	}
	if v.Influence == 0 {
		v.Influence = 0.25
	}
	if v.Contraction == 0 {
		v.Contraction = 0.08
	}
	return v
}

// FallSpec melts a cycle downward in proportion to scroll speed.
type FallSpec struct {
	Gain    float64  `toml:"gain"`
	Radius  float64  `toml:"radius"`
	MaxRate float64  `toml:"max_rate"`
	Linger  Duration `toml:"linger"`
}

func (f FallSpec) withDefaults() FallSpec {
	if f.Gain == 0 {
		f.Gain = 0.5
	}
	if f.Radius == 0 {
		f.Radius = 10
	}
	if f.MaxRate == 0 {
		f.MaxRate = 10
	}
	if f.Linger == 0 {
		f.Linger = Duration(150 * time.Millisecond)
	}
	return f
}

// CameraSpec places the viewer. Spin is the idle rotation about the vertical
// axis in rad/s, Sway the amplitude of a slow pitch oscillation in radians.
type CameraSpec struct {
	Position [3]float64 `toml:"position"`
	FOV      float64    `toml:"fov"`
	Spin     float64    `toml:"spin"`
	Sway     float64    `toml:"sway"`
}

// WithDefaults returns a copy with unset scalar fields filled in.
func (c Config) WithDefaults() Config {
	if c.FPS == 0 {
		c.FPS = 60
	}
	if c.Schedule.Mode == "" {
		c.Schedule.Mode = ModeCycle
	}
	if c.Camera.Position == ([3]float64{}) {
		c.Camera.Position = [3]float64{0, 0, 18}
	}
	if c.Camera.FOV == 0 {
		c.Camera.FOV = 55
	}
	c.Physics = c.Physics.WithDefaults()
	c.Forces = c.Forces.WithDefaults()
	return c
}

// Validate reports the first problem found.
func (c Config) Validate() error {
	c = c.WithDefaults()
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	if c.Count < 1 {
		return fail("count %d must be at least 1", c.Count)
	}
	if c.FPS < 1 || c.FPS > 240 {
		return fail("fps %d outside 1..240", c.FPS)
	}
	if len(c.Shapes) == 0 {
		return fail("no shapes declared")
	}
	names := make(map[string]bool, len(c.Shapes))
	for i, s := range c.Shapes {
		if s.Name == "" {
			return fail("shape %d has no name", i)
		}
		if names[s.Name] {
			return fail("shape %q declared twice", s.Name)
		}
		names[s.Name] = true
	}
	known := func(where, name string) error {
		if !names[name] {
			return fail("%s refers to unknown shape %q", where, name)
		}
		return nil
	}
	if c.Initial != "" {
		if err := known("initial", c.Initial); err != nil {
			return err
		}
	}

	sc := c.Schedule
	switch sc.Mode {
	case ModeCycle:
		if len(sc.Phases) == 0 {
			return fail("cycle schedule has no phases")
		}
		for i, p := range sc.Phases {
			where := fmt.Sprintf("phase %d", i)
			if p.Duration <= 0 {
				return fail("%s has no duration", where)
			}
			if p.Shape != "" {
				if err := known(where, p.Shape); err != nil {
					return err
				}
				continue
			}
			if err := known(where, p.From); err != nil {
				return err
			}
			if err := known(where, p.To); err != nil {
				return err
			}
		}
		if v := sc.Vortex; v != nil {
			if err := known("vortex", v.Shape); err != nil {
				return err
			}
			if v.Stream != "" {
				if err := known("vortex stream", v.Stream); err != nil {
					return err
				}
			}
			if v.Draw < 0 || v.Draw > 1 {
				return fail("vortex draw %g outside [0,1]", v.Draw)
			}
		}
		if f := sc.Fall; f != nil && (f.Gain < 0 || f.Radius < 0 || f.MaxRate < 0 || f.Linger < 0) {
			return fail("fall settings must not be negative")
		}
	case ModeScroll:
		if len(sc.Stops) == 0 {
			return fail("scroll schedule has no stops")
		}
		for i, s := range sc.Stops {
			if err := known(fmt.Sprintf("stop %d", i), s.Shape); err != nil {
				return err
			}
		}
	case ModeChain:
		if len(sc.Steps) == 0 {
			return fail("chain schedule has no steps")
		}
		for i, s := range sc.Steps {
			if err := known(fmt.Sprintf("step %d", i), s.Shape); err != nil {
				return err
			}
			if s.Transition+s.Hold <= 0 {
				return fail("step %d never advances", i)
			}
		}
		if sc.Melt != nil {
			if err := known("melt", sc.Melt.Shape); err != nil {
				return err
			}
		}
	default:
		return fail("unknown schedule mode %q", sc.Mode)
	}
	if sc.Mode != ModeCycle && (sc.Vortex != nil || sc.Fall != nil) {
		return fail("vortex and fall need a cycle schedule")
	}

	if err := c.Physics.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Palette.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		return fail("camera fov %g outside (0,180)", c.Camera.FOV)
	}
	return nil
}

// buildScheduler turns the schedule section into a Scheduler. index maps
// shape names to table indices.
func (c Config) buildScheduler(index map[string]int, timers *schedule.Timers) (schedule.Scheduler, error) {
	sc := c.Schedule
	switch sc.Mode {
	case ModeScroll:
		stops := make([]schedule.Stop, len(sc.Stops))
		for i, s := range sc.Stops {
			stops[i] = schedule.Stop{At: s.At, Shape: index[s.Shape], Name: s.Shape, Rate: s.Rate, Noise: s.Noise}
		}
		return schedule.NewScroll(stops, sc.Ease, sc.Stepped)
	case ModeChain:
		steps := make([]schedule.Step, len(sc.Steps))
		for i, s := range sc.Steps {
			name := s.Name
			if name == "" {
				name = s.Shape
			}
			steps[i] = schedule.Step{
				Name:       name,
				Shape:      index[s.Shape],
				Transition: s.Transition.Std(),
				Hold:       s.Hold.Std(),
				Rate:       s.Rate,
				Noise:      s.Noise,
				Spin:       s.Spin,
			}
		}
		var melt *schedule.Melt
		if m := sc.Melt; m != nil {
			melt = &schedule.Melt{
				Shape:      index[m.Shape],
				Rate:       m.Rate,
				Offset:     m.Offset,
				Transition: m.Transition.Std(),
				Debounce:   m.Debounce.Std(),
			}
		}
		return schedule.NewChain(steps, melt, timers)
	default:
		phases := make([]schedule.Phase, len(sc.Phases))
		for i, p := range sc.Phases {
			ph := schedule.Phase{
				Name:          p.Name,
				Duration:      p.Duration.Std(),
				Rate:          p.Rate,
				Noise:         p.Noise,
				Spin:          p.Spin,
				Oscillate:     p.Oscillate,
				OscillateHold: p.OscillateHold.Std(),
			}
			if p.Shape != "" {
				ph.From, ph.To = index[p.Shape], index[p.Shape]
				if ph.Name == "" {
					ph.Name = p.Shape
				}
			} else {
				ph.From, ph.To = index[p.From], index[p.To]
				if ph.Name == "" {
					ph.Name = p.From + "→" + p.To
				}
			}
			phases[i] = ph
		}
		var opts []schedule.CycleOption
		if v := sc.Vortex; v != nil {
			v := v.withDefaults()
			stream := -1
			if v.Stream != "" {
				stream = index[v.Stream]
			}
			opts = append(opts, schedule.WithVortex(schedule.Vortex{
				Shape:  index[v.Shape],
				Stream: stream,
				Draw:   v.Draw,
				Swirl: schedule.Swirl{
					Speed:       v.Speed,
					Pulse:       v.Pulse,
					Influence:   v.Influence,
					Contraction: v.Contraction,
				},
			}))
		}
		if f := sc.Fall; f != nil {
			f := f.withDefaults()
			opts = append(opts, schedule.WithFall(schedule.FallConfig{
				Gain:    f.Gain,
				Radius:  f.Radius,
				MaxRate: f.MaxRate,
				Linger:  f.Linger.Std(),
			}))
		}
		return schedule.NewCycle(phases, opts...)
	}
}

// Package engine composes shapes, a scheduler and an integrator into a
// running animation driven one frame at a time by a host.
package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/olivier-w/lumen/internal/palette"
	"github.com/olivier-w/lumen/internal/particle"
	"github.com/olivier-w/lumen/internal/physics"
	"github.com/olivier-w/lumen/internal/schedule"
	"github.com/olivier-w/lumen/internal/shape"
)

var ErrClosed = errors.New("engine: animation closed")

// maxFrame bounds a single frame delta so a stalled host does not fling the
// particles when it resumes.
const maxFrame = 100 * time.Millisecond

// Option customizes New.
type Option func(*Animation)

// WithInput subscribes the animation to a host input source.
func WithInput(src InputSource) Option { return func(a *Animation) { a.input = src } }

// WithRenderer sets the renderer notified after every frame.
func WithRenderer(r Renderer) Option { return func(a *Animation) { a.renderer = r } }

func WithLogger(l *slog.Logger) Option { return func(a *Animation) { a.log = l } }

// WithRand replaces the random source seeded from the config.
func WithRand(r *rand.Rand) Option { return func(a *Animation) { a.rng = r } }

// WithProjector replaces the default frustum projector.
func WithProjector(p Projector) Option { return func(a *Animation) { a.projector = p } }

// pending collects input between frames. Handlers only write here.
type pending struct {
	pointer    *PointerEvent
	click      *ClickEvent
	scroll     *ScrollEvent
	resize     *ResizeEvent
	impulse    float64
	// page fraction of the last scroll event; the page starts at the top
	fraction float64
}

// Animation is one running variant. All methods must be called from the
// host's frame goroutine.
type Animation struct {
	id  uuid.UUID
	cfg Config
	log *slog.Logger
	rng *rand.Rand

	tables []shape.Table
	index  map[string]int
	buf    *particle.Buffer

	timers *schedule.Timers
	sched  schedule.Scheduler
	integ  *physics.Integrator
	forces *physics.Forces

	input     InputSource
	renderer  Renderer
	projector Projector
	unsub     []func()
	in        pending
	signals   schedule.Signals

	state   schedule.State
	frames  uint64
	elapsed time.Duration
	yaw     float64
	pitch   float64
	closed  bool
}

// New builds every shape table, places the particles on the initial shape
// and wires the scheduler, integrator and input.
func New(cfg Config, opts ...Option) (*Animation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.WithDefaults()

	a := &Animation{id: uuid.New(), cfg: cfg}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	a.log = a.log.With("instance", a.id.String(), "preset", cfg.Name)
	if a.rng == nil {
		a.rng = rand.New(rand.NewSource(cfg.Seed))
	}
	if a.projector == nil {
		a.projector = newFrustum(cfg.Camera)
	}

	started := time.Now()
	a.tables = make([]shape.Table, len(cfg.Shapes))
	a.index = make(map[string]int, len(cfg.Shapes))
	for i, s := range cfg.Shapes {
		t, err := shape.Generate(s.Kind, cfg.Count, s.Params, a.rng)
		if err != nil {
			return nil, fmt.Errorf("shape %q: %w", s.Name, err)
		}
		t.Name = s.Name
		a.tables[i] = t
		a.index[s.Name] = i
	}

	initial := 0
	if cfg.Initial != "" {
		initial = a.index[cfg.Initial]
	}

	a.timers = schedule.NewTimers()
	sched, err := cfg.buildScheduler(a.index, a.timers)
	if err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}
	a.sched = sched
	if cfg.Initial == "" {
		initial = sched.Advance(0, schedule.Signals{}).Blend.Dominant().Shape
	}

	a.buf = particle.NewBuffer(cfg.Count, cfg.Physics.Policy.NeedsVelocity())
	if err := a.buf.Reset(a.tables[initial]); err != nil {
		return nil, err
	}
	if err := palette.Assign(a.buf, cfg.Palette, a.rng); err != nil {
		return nil, err
	}
	a.integ = physics.New(cfg.Physics, a.rng)
	a.forces = physics.NewForces(cfg.Forces, cfg.Seed)
	a.state = schedule.State{Phase: a.tables[initial].Name, Blend: schedule.Hold(initial)}

	if a.input != nil {
		a.subscribe(a.input)
	}

	a.log.Info("animation mounted",
		"particles", cfg.Count,
		"shapes", len(a.tables),
		"mode", cfg.Schedule.Mode,
		"policy", cfg.Physics.Policy.String(),
		"subscriptions", len(a.unsub),
		"took", time.Since(started).Round(time.Millisecond))
	return a, nil
}

func (a *Animation) subscribe(src InputSource) {
	a.unsub = append(a.unsub,
		src.OnPointer(func(e PointerEvent) { a.in.pointer = &e }),
		src.OnClick(func(e ClickEvent) { a.in.click = &e }),
		src.OnScroll(func(e ScrollEvent) { a.in.scroll = &e }),
		src.OnResize(func(e ResizeEvent) { a.in.resize = &e }),
	)
	if imp, ok := src.(ImpulseSource); ok {
		a.unsub = append(a.unsub, imp.OnImpulse(func(e ImpulseEvent) {
			a.in.impulse = math.Max(a.in.impulse, e.Strength)
		}))
	}
}

// Frame advances the animation by dt: input, timers, scheduler, integrator,
// force decay, then the renderer is notified.
func (a *Animation) Frame(dt time.Duration) error {
	if a.closed {
		return ErrClosed
	}
	dt = min(max(dt, 0), maxFrame)

	a.drainInput()
	a.timers.Advance(dt)

	st := a.sched.Advance(dt, a.signals)
	a.signals.Scrolling = false
	if st.Phase != a.state.Phase {
		a.log.Debug("phase", "from", a.state.Phase, "to", st.Phase, "elapsed", a.elapsed.Round(time.Millisecond))
	}
	a.state = st

	a.integ.Step(a.buf, a.tables, st, a.forces, dt)
	a.forces.Decay(a.integ.FrameScale(dt))

	a.frames++
	a.elapsed += dt
	a.rotate(dt, st)

	a.buf.MarkDirty()
	if a.renderer != nil {
		a.renderer.Invalidate(a.buf)
	}
	return nil
}

func (a *Animation) drainInput() {
	in := &a.in
	if e := in.resize; e != nil {
		a.projector.SetViewport(e.Width, e.Height)
	}
	if e := in.pointer; e != nil {
		if e.Leave {
			a.forces.ClearPointer()
		} else {
			a.forces.SetPointer(a.projector.Unproject(e.X, e.Y))
		}
	}
	if e := in.click; e != nil {
		a.forces.Trigger(a.projector.Unproject(e.X, e.Y))
	}
	if e := in.scroll; e != nil && e.Extent > 0 {
		// Only movement counts as scrolling: a host re-reporting the same
		// place, for example after a resize, must not melt a chain.
		f := math.Min(math.Max(e.Offset/e.Extent, 0), 1)
		if f != in.fraction {
			a.forces.KickScroll((f - in.fraction) * e.Extent)
			a.signals.Scrolling = true
		}
		in.fraction = f
		a.signals.Scroll = f
	}
	if in.impulse > 0 {
		a.forces.Kick(in.impulse)
	}
	in.pointer, in.click, in.scroll, in.resize, in.impulse = nil, nil, nil, nil, 0
}

func (a *Animation) rotate(dt time.Duration, st schedule.State) {
	spin := a.cfg.Camera.Spin
	if st.Spin != 0 {
		spin = st.Spin
	}
	a.yaw = math.Mod(a.yaw+spin*dt.Seconds(), 2*math.Pi)
	a.pitch = math.Sin(a.elapsed.Seconds()*0.05) * a.cfg.Camera.Sway
}

// Close stops the scheduler, cancels timers, drops input subscriptions and
// the renderer. It is safe to call more than once.
func (a *Animation) Close() {
	if a.closed {
		return
	}
	a.closed = true
	a.sched.Stop()
	a.timers.Close()
	for _, u := range a.unsub {
		u()
	}
	released := len(a.unsub)
	a.unsub = nil
	a.renderer = nil
	a.forces.Reset()
	a.log.Info("animation disposed", "frames", a.frames, "elapsed", a.elapsed.Round(time.Millisecond), "released", released)
}

func (a *Animation) Closed() bool { return a.closed }

func (a *Animation) ID() uuid.UUID { return a.id }

func (a *Animation) Config() Config { return a.cfg }

// Buffer returns the particle buffer. Hosts must treat it as read-only.
func (a *Animation) Buffer() *particle.Buffer { return a.buf }

// Tables returns the immutable shape tables in declaration order.
func (a *Animation) Tables() []shape.Table { return a.tables }

// State is the scheduler state of the last frame.
func (a *Animation) State() schedule.State { return a.state }

// Rotation returns the global yaw and pitch in radians to apply when
// rendering. The buffer itself stays in local space.
func (a *Animation) Rotation() (yaw, pitch float64) { return a.yaw, a.pitch }

// Stats summarizes the last frame.
type Stats struct {
	Frames     uint64
	Elapsed    time.Duration
	Phase      string
	Shape      string
	Weight     float64
	Turbulence float64
	Shockwave  float64
	Energy     float64
	Particles  int
}

func (a *Animation) Stats() Stats {
	d := a.state.Blend.Dominant()
	name := ""
	if d.Shape >= 0 && d.Shape < len(a.tables) {
		name = a.tables[d.Shape].Name
	}
	return Stats{
		Frames:     a.frames,
		Elapsed:    a.elapsed,
		Phase:      a.state.Phase,
		Shape:      name,
		Weight:     d.Weight,
		Turbulence: a.forces.Turbulence(),
		Shockwave:  a.forces.Shockwave(),
		Energy:     a.integ.Energy(),
		Particles:  a.buf.Len(),
	}
}

package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/olivier-w/lumen/internal/palette"
	"github.com/olivier-w/lumen/internal/physics"
	"github.com/olivier-w/lumen/internal/shape"
)

func paletteSpec() palette.Spec {
	return palette.Spec{Base: []string{"#33ccff"}, Accent: "#ffffff", AccentFraction: 0.2}
}

func chainConfig() Config {
	return Config{
		Name:  "test-chain",
		Count: 200,
		Seed:  2,
		Shapes: []ShapeSpec{
			{Name: "cube", Kind: shape.VoidCube},
			{Name: "sphere", Kind: shape.HollowSphere},
			{Name: "cloud", Kind: shape.Cloud},
		},
		Schedule: ScheduleSpec{
			Mode: ModeChain,
			Steps: []StepSpec{
				{Shape: "cube", Transition: Duration(time.Second), Hold: Duration(2 * time.Second)},
				{Shape: "sphere", Transition: Duration(time.Second), Hold: Duration(2 * time.Second)},
			},
			Melt: &MeltSpec{Shape: "cloud", Rate: 0.08, Offset: [3]float64{0, -2, 0}},
		},
		Physics: physics.Config{Policy: physics.Spring, Stiffness: 0.08, Damping: 0.92},
		Palette: paletteSpec(),
	}
}

func scrollConfig() Config {
	return Config{
		Name:  "test-scroll",
		Count: 100,
		Shapes: []ShapeSpec{
			{Name: "cloud", Kind: shape.Cloud},
			{Name: "disk", Kind: shape.Disk},
			{Name: "flow", Kind: shape.Flow},
		},
		Schedule: ScheduleSpec{
			Mode: ModeScroll,
			Ease: true,
			Stops: []StopSpec{
				{At: 0, Shape: "cloud"}, {At: 0.5, Shape: "disk"}, {At: 1, Shape: "flow"},
			},
		},
		Palette: palette.Spec{HueRamp: []float64{190, 230}},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero count", func(c *Config) { c.Count = 0 }},
		{"no shapes", func(c *Config) { c.Shapes = nil }},
		{"duplicate shape", func(c *Config) { c.Shapes[1].Name = "cloud" }},
		{"unknown initial", func(c *Config) { c.Initial = "torus" }},
		{"unknown mode", func(c *Config) { c.Schedule.Mode = "random" }},
		{"phase without duration", func(c *Config) { c.Schedule.Phases[0].Duration = 0 }},
		{"bad fov", func(c *Config) { c.Camera.FOV = 200 }},
		{"bad palette", func(c *Config) { c.Palette.Base = []string{"nope"} }},
		{"bad fps", func(c *Config) { c.FPS = 1000 }},
		{"vortex on unknown shape", func(c *Config) { c.Schedule.Vortex = &VortexSpec{Shape: "torus"} }},
		{"vortex draw above one", func(c *Config) { c.Schedule.Vortex = &VortexSpec{Shape: "cloud", Draw: 2} }},
		{"negative fall gain", func(c *Config) { c.Schedule.Fall = &FallSpec{Gain: -1} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := cycleConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	for _, cfg := range []Config{cycleConfig(), chainConfig(), scrollConfig()} {
		if err := cfg.Validate(); err != nil {
			t.Fatalf("%s: %v", cfg.Name, err)
		}
	}

	chain := chainConfig()
	chain.Schedule.Fall = &FallSpec{}
	if err := chain.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("fall on a chain: expected ErrInvalidConfig, got %v", err)
	}
}

func meanY(a *Animation) float64 {
	pos := a.Buffer().Positions
	var sum float64
	for i := 1; i < len(pos); i += 3 {
		sum += float64(pos[i])
	}
	return sum / float64(len(pos)/3)
}

func TestCycleFallsWhileScrolling(t *testing.T) {
	run := func(fall bool) (*Animation, *Bus) {
		cfg := cycleConfig()
		cfg.Physics = physics.Config{Policy: physics.Lerp, Rate: 0.1}
		cfg.Forces = physics.ForceConfig{}
		cfg.Camera.Spin = 0
		if fall {
			cfg.Schedule.Fall = &FallSpec{}
			cfg.Schedule.Vortex = &VortexSpec{Shape: "cloud", Stream: "sphere", Draw: 0.6}
		}
		bus := NewBus()
		a, err := New(cfg, WithInput(bus))
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		return a, bus
	}
	still, stillBus := run(false)
	defer still.Close()
	melting, meltBus := run(true)
	defer melting.Close()

	for i := range 20 {
		e := ScrollEvent{Offset: float64(i+1) * 10, Extent: 1000}
		stillBus.Scroll(e)
		meltBus.Scroll(e)
		still.Frame(frame)
		melting.Frame(frame)
	}
	if d := meanY(still) - meanY(melting); d < 0.5 {
		t.Fatalf("scrolling lowered the cycle by %f, want a visible fall", d)
	}
	if !melting.Buffer().Finite() {
		t.Fatal("non-finite positions after the fall")
	}
}

func TestDurationUnmarshal(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("1.5s")); err != nil || d.Std() != 1500*time.Millisecond {
		t.Fatalf("UnmarshalText = %s, %v", d.Std(), err)
	}
	if err := d.UnmarshalText([]byte("soon")); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestScrollConfigFollowsScrollFraction(t *testing.T) {
	bus := NewBus()
	a, err := New(scrollConfig(), WithInput(bus))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	a.Frame(frame)
	if st := a.Stats(); st.Shape != "cloud" || st.Weight != 1 {
		t.Fatalf("at top: %+v", st)
	}
	bus.Scroll(ScrollEvent{Offset: 500, Extent: 1000})
	a.Frame(frame)
	if st := a.Stats(); st.Shape != "disk" || st.Weight != 1 {
		t.Fatalf("at middle: %+v", st)
	}
	// the fraction sticks between scroll events
	a.Frame(frame)
	if st := a.Stats(); st.Shape != "disk" {
		t.Fatalf("fraction lost without events: %+v", st)
	}
	bus.Scroll(ScrollEvent{Offset: 2000, Extent: 1000})
	a.Frame(frame)
	if st := a.Stats(); st.Shape != "flow" || st.Weight != 1 {
		t.Fatalf("past the end: %+v", st)
	}
}

func TestChainMeltsWhileScrolling(t *testing.T) {
	bus := NewBus()
	a, err := New(chainConfig(), WithInput(bus))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	a.Frame(frame)
	if a.Stats().Phase != "cube" {
		t.Fatalf("phase = %q, want cube", a.Stats().Phase)
	}
	for i := range 30 {
		bus.Scroll(ScrollEvent{Offset: float64(i * 10), Extent: 1000})
		a.Frame(frame)
	}
	if st := a.Stats(); st.Phase != "melt" || st.Shape != "cloud" {
		t.Fatalf("while scrolling: %+v", st)
	}
	for range 30 {
		a.Frame(frame)
	}
	if st := a.Stats(); st.Phase != "cube" {
		t.Fatalf("chain did not restart after the debounce: %+v", st)
	}
	if !a.Buffer().Finite() {
		t.Fatal("non-finite positions after melt")
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus()
	var got []int
	un1 := bus.OnClick(func(ClickEvent) { got = append(got, 1) })
	bus.OnClick(func(ClickEvent) { got = append(got, 2) })
	bus.Click(ClickEvent{})
	un1()
	un1()
	bus.Click(ClickEvent{})
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 2 {
		t.Fatalf("deliveries = %v", got)
	}
	if bus.Subscribers() != 1 {
		t.Fatalf("subscribers = %d", bus.Subscribers())
	}
}

func TestBusKickRaisesTurbulence(t *testing.T) {
	bus := NewBus()
	a, err := New(cycleConfig(), WithInput(bus))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()
	bus.Kick(1.2)
	a.Frame(frame)
	if tb := a.Stats().Turbulence; tb <= 1 || tb > 1.2 {
		t.Fatalf("turbulence = %f after kick", tb)
	}
}

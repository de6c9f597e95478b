package ui

import (
	"log/slog"

	"github.com/olivier-w/lumen/internal/engine"
	"github.com/olivier-w/lumen/internal/render"
)

// Scene is one running preset with the input bus and canvas bound to it.
type Scene struct {
	Anim   *engine.Animation
	Bus    *engine.Bus
	Canvas *render.Braille
}

// Build generates the preset's shapes and binds a fresh bus and braille
// canvas of cols×rows cells. It touches no shared state and may run off
// the Update goroutine.
func Build(cfg engine.Config, cols, rows int, log *slog.Logger) (Scene, error) {
	view := cfg.WithDefaults().Camera
	cam := render.NewCamera(view.Position, view.FOV)
	canvas := render.NewBraille(cam)
	bus := engine.NewBus()

	opts := []engine.Option{
		engine.WithInput(bus),
		engine.WithRenderer(canvas),
		engine.WithProjector(cam),
	}
	if log != nil {
		opts = append(opts, engine.WithLogger(log))
	}
	anim, err := engine.New(cfg, opts...)
	if err != nil {
		return Scene{}, err
	}

	s := Scene{Anim: anim, Bus: bus, Canvas: canvas}
	s.resize(cols, rows)
	return s, nil
}

func (s Scene) resize(cols, rows int) {
	s.Canvas.Resize(cols, rows)
	w, h := s.Canvas.DotSize()
	s.Bus.Resize(engine.ResizeEvent{Width: w, Height: h})
}

// Close releases the animation. The zero Scene is a no-op.
func (s Scene) Close() {
	if s.Anim != nil {
		s.Anim.Close()
	}
}

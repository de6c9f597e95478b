package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/lumen/internal/engine"
	"github.com/olivier-w/lumen/internal/preset"
	"github.com/olivier-w/lumen/internal/queue"
	"github.com/olivier-w/lumen/internal/ui"
)

// resolveSelection finds the chosen built-in preset or loads the chosen
// file, applying command-line overrides to the latter.
func resolveSelection(sel ui.BrowserSelectedMsg, presets []engine.Config, override func(engine.Config) engine.Config) (engine.Config, error) {
	if sel.Path != "" {
		cfg, err := preset.Load(sel.Path)
		if err != nil {
			return engine.Config{}, err
		}
		if override != nil {
			cfg = override(cfg)
		}
		return cfg, nil
	}
	for _, p := range presets {
		if p.Name == sel.Name {
			return p, nil
		}
	}
	return engine.Config{}, fmt.Errorf("%w: %q", preset.ErrUnknown, sel.Name)
}

// openSelectionCmd generates the shape tables off the UI goroutine.
func openSelectionCmd(sel ui.BrowserSelectedMsg, presets []engine.Config, override func(engine.Config) engine.Config, cols, rows int, log *slog.Logger) tea.Cmd {
	return func() tea.Msg {
		cfg, err := resolveSelection(sel, presets, override)
		if err != nil {
			return startupResolvedMsg{err: err}
		}
		scene, err := ui.Build(cfg, cols, rows, log)
		if err != nil {
			return startupResolvedMsg{err: fmt.Errorf("%s: %w", cfg.Name, err)}
		}
		return startupResolvedMsg{cfg: cfg, scene: scene}
	}
}

// presetQueue returns the rotation positioned on cfg. A preset loaded from
// a file joins the front of the rotation.
func presetQueue(presets []engine.Config, cfg engine.Config) *queue.Queue {
	all := presets
	found := false
	for _, p := range presets {
		if p.Name == cfg.Name {
			found = true
			break
		}
	}
	if !found {
		all = append([]engine.Config{cfg}, presets...)
	}
	q := queue.New(all, rand.New(rand.NewSource(time.Now().UnixNano())))
	q.Select(cfg.Name)
	return q
}

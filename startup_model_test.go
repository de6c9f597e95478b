package main

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/lumen/internal/engine"
	"github.com/olivier-w/lumen/internal/preset"
	"github.com/olivier-w/lumen/internal/ui"
)

func smallPresets(t *testing.T) []engine.Config {
	t.Helper()
	all, err := preset.All()
	if err != nil {
		t.Fatalf("preset.All: %v", err)
	}
	for i := range all {
		all[i].Count = 150
	}
	return all
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStartupModelSelectionEntersOpeningPhase(t *testing.T) {
	m := newStartupModel(smallPresets(t), nil, discardLogger())
	model, cmd := m.Update(ui.BrowserSelectedMsg{Name: "voids"})
	if cmd == nil {
		t.Fatal("expected opening command")
	}

	startup, ok := model.(startupModel)
	if !ok {
		t.Fatalf("expected startupModel, got %T", model)
	}
	if startup.phase != phaseOpening {
		t.Fatalf("expected phaseOpening, got %v", startup.phase)
	}
	if !strings.Contains(startup.View(), "voids") {
		t.Fatal("opening view should name the preset")
	}
}

func TestStartupModelErrorReturnsToBrowsePhase(t *testing.T) {
	m := newStartupModel(smallPresets(t), nil, discardLogger())
	m.phase = phaseOpening

	model, cmd := m.Update(startupResolvedMsg{err: errBoom{}})
	if cmd != nil {
		t.Fatal("expected no command on error return")
	}

	startup := model.(startupModel)
	if startup.phase != phaseBrowse {
		t.Fatalf("expected phaseBrowse, got %v", startup.phase)
	}
	if startup.errMsg == "" || !strings.Contains(startup.View(), "boom") {
		t.Fatal("expected error message")
	}
}

func TestStartupModelResolvedHandsOverToRunningModel(t *testing.T) {
	presets := smallPresets(t)
	m := newStartupModel(presets, nil, discardLogger())
	model, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 30})
	m = model.(startupModel)

	m, cmd := m.open(ui.BrowserSelectedMsg{Name: "smooth-cycle"})
	if cmd == nil {
		t.Fatal("expected open command")
	}
	msg := openSelectionCmd(ui.BrowserSelectedMsg{Name: "smooth-cycle"}, presets, nil, 60, 26, nil)()
	resolved, ok := msg.(startupResolvedMsg)
	if !ok || resolved.err != nil {
		t.Fatalf("unexpected resolve result %#v", msg)
	}

	next, _ := m.Update(resolved)
	running, ok := next.(ui.Model)
	if !ok {
		t.Fatalf("expected ui.Model, got %T", next)
	}
	if got := running.Scene().Anim.Config().Name; got != "smooth-cycle" {
		t.Fatalf("running %s", got)
	}
	running.Scene().Close()
}

func TestStartupModelCancelQuits(t *testing.T) {
	m := newStartupModel(smallPresets(t), nil, discardLogger())
	_, cmd := m.Update(ui.BrowserCancelledMsg{})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestOpenOnStartSkipsBrowser(t *testing.T) {
	m := newStartupModel(smallPresets(t), nil, discardLogger())
	m = m.openOnStart(ui.BrowserSelectedMsg{Name: "fluid"})
	if m.phase != phaseOpening || m.initCmd == nil {
		t.Fatalf("phase=%v initCmd=%v", m.phase, m.initCmd != nil)
	}
}

func TestResolveSelection(t *testing.T) {
	presets := smallPresets(t)
	cfg, err := resolveSelection(ui.BrowserSelectedMsg{Name: "decision-field"}, presets, nil)
	if err != nil || cfg.Name != "decision-field" {
		t.Fatalf("resolve by name: %v %s", err, cfg.Name)
	}

	if _, err := resolveSelection(ui.BrowserSelectedMsg{Name: "nope"}, presets, nil); !errors.Is(err, preset.ErrUnknown) {
		t.Fatalf("expected ErrUnknown, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "ring.toml")
	data := `
count = 5000

[physics]
policy = "spring"

[[shapes]]
name = "ring"
kind = "disk"
[shapes.params]
inner = 1.0
outer = 3.0

[schedule]
mode = "chain"
[[schedule.steps]]
shape = "ring"
hold = "2s"

[palette]
base = ["#ffcc00"]
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	o := options{count: 64}
	cfg, err = resolveSelection(ui.BrowserSelectedMsg{Path: path}, presets, o.apply)
	if err != nil {
		t.Fatalf("resolve file: %v", err)
	}
	if cfg.Name != "ring" || cfg.Count != 64 {
		t.Fatalf("file preset = %s with %d particles", cfg.Name, cfg.Count)
	}

	q := presetQueue(presets, cfg)
	if q.Len() != len(presets)+1 || q.Current().Name != "ring" {
		t.Fatalf("queue len %d current %s", q.Len(), q.Current().Name)
	}
}

func TestParseFlagsAndOverrides(t *testing.T) {
	o, err := parseFlags([]string{"--preset", "voids", "--count", "1000", "--seed", "0", "--fps", "30"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if o.preset != "voids" || !o.seedSet {
		t.Fatalf("options = %+v", o)
	}
	cfg := o.apply(engine.Config{Count: 35000, Seed: 9, FPS: 60})
	if cfg.Count != 1000 || cfg.Seed != 0 || cfg.FPS != 30 {
		t.Fatalf("apply = %+v", cfg)
	}

	o, err = parseFlags(nil)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if got := o.apply(engine.Config{Count: 10, Seed: 9}); got.Count != 10 || got.Seed != 9 {
		t.Fatalf("empty flags changed the preset: %+v", got)
	}

	if _, err := parseFlags([]string{"extra"}); err == nil {
		t.Fatal("expected error for positional argument")
	}
}

func TestRunListsPresets(t *testing.T) {
	t.Setenv("LUMEN_LOG", "")
	var out strings.Builder
	if err := run([]string{"--list"}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, name := range preset.Names() {
		if !strings.Contains(out.String(), name) {
			t.Fatalf("list output missing %s", name)
		}
	}
}

func TestNewLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lumen.log")
	logger, closeLog, err := newLogger(path)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	logger.Debug("hello", "k", 1)
	if err := closeLog(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "msg=hello") {
		t.Fatalf("log = %q", data)
	}
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

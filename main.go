package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/lumen/internal/engine"
	"github.com/olivier-w/lumen/internal/preset"
	"github.com/olivier-w/lumen/internal/soundtrack"
	"github.com/olivier-w/lumen/internal/ui"
	"github.com/olivier-w/lumen/internal/window"
)

type options struct {
	preset     string
	presetFile string
	count      int
	seed       int64
	seedSet    bool
	fps        int
	window     bool
	soundtrack string
	mute       bool
	logPath    string
	list       bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("lumen", flag.ContinueOnError)
	fs.StringVar(&o.preset, "preset", "", "built-in preset to start (see --list)")
	fs.StringVar(&o.presetFile, "preset-file", "", "TOML preset file to start")
	fs.IntVar(&o.count, "count", 0, "override the particle count")
	fs.Int64Var(&o.seed, "seed", 0, "override the random seed")
	fs.IntVar(&o.fps, "fps", 0, "override the frame rate")
	fs.BoolVar(&o.window, "window", false, "open a desktop window instead of drawing in the terminal")
	fs.StringVar(&o.soundtrack, "soundtrack", "", "audio file whose loudness drives turbulence")
	fs.BoolVar(&o.mute, "mute", false, "follow the soundtrack without playing it")
	fs.StringVar(&o.logPath, "log", os.Getenv("LUMEN_LOG"), "append debug logs to this file")
	fs.BoolVar(&o.list, "list", false, "list built-in presets and exit")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			o.seedSet = true
		}
	})
	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	if o.count < 0 || o.fps < 0 {
		return o, errors.New("--count and --fps must be positive")
	}
	return o, nil
}

// apply overrides preset values with the ones given on the command line.
func (o options) apply(cfg engine.Config) engine.Config {
	if o.count > 0 {
		cfg.Count = o.count
	}
	if o.seedSet {
		cfg.Seed = o.seed
	}
	if o.fps > 0 {
		cfg.FPS = o.fps
	}
	return cfg
}

// newLogger writes to path, or discards when path is empty. The terminal
// belongs to the animation.
func newLogger(path string) (*slog.Logger, func() error, error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	return logger, f.Close, nil
}

func run(args []string, stdout io.Writer) error {
	o, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	logger, closeLog, err := newLogger(o.logPath)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	presets, err := preset.All()
	if err != nil {
		return err
	}
	for i := range presets {
		presets[i] = o.apply(presets[i])
	}

	if o.list {
		for _, p := range presets {
			fmt.Fprintf(stdout, "%-16s %s\n", p.Name, p.Title)
		}
		return nil
	}

	var pulse *soundtrack.Source
	var trackTitle string
	if o.soundtrack != "" {
		track, err := soundtrack.Open(o.soundtrack)
		if err != nil {
			return err
		}
		clock := soundtrack.WallClock()
		if !o.mute {
			player, err := soundtrack.Play(track, 0.8)
			if err != nil {
				return fmt.Errorf("audio: %w", err)
			}
			defer player.Close()
			clock = player.Position
		}
		pulse = soundtrack.NewSource(track.Envelope, clock, soundtrack.SourceConfig{})
		trackTitle = track.Title
		logger.Info("soundtrack loaded", "title", track.Title, "duration", track.Duration(), "muted", o.mute)
	}

	sel := ui.BrowserSelectedMsg{Name: o.preset, Path: o.presetFile}

	if o.window {
		if sel.Name == "" && sel.Path == "" {
			sel.Name = preset.Default
		}
		cfg, err := resolveSelection(sel, presets, o.apply)
		if err != nil {
			return err
		}
		var p window.Pulse
		if pulse != nil {
			p = pulse
		}
		g, err := window.New(cfg, p, logger)
		if err != nil {
			return err
		}
		return window.Run(g, strings.TrimSpace(cfg.Title+" · lumen"))
	}

	var uiOpts []ui.Option
	uiOpts = append(uiOpts, ui.WithLogger(logger))
	if pulse != nil {
		uiOpts = append(uiOpts, ui.WithPulse(pulse, trackTitle))
	}

	model := newStartupModel(presets, o.apply, logger, uiOpts...)
	if sel.Name != "" || sel.Path != "" {
		model = model.openOnStart(sel)
	}
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}

package main

import (
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/lumen/internal/engine"
	"github.com/olivier-w/lumen/internal/ui"
)

type startupPhase uint8

const (
	phaseBrowse startupPhase = iota
	phaseOpening
)

type startupResolvedMsg struct {
	cfg   engine.Config
	scene ui.Scene
	err   error
}

type startupModel struct {
	browser  ui.BrowserModel
	presets  []engine.Config
	override func(engine.Config) engine.Config
	log      *slog.Logger
	uiOpts   []ui.Option

	phase   startupPhase
	opening string
	errMsg  string
	width   int
	height  int
	spinner spinner.Model
	initCmd tea.Cmd
}

func newStartupModel(presets []engine.Config, override func(engine.Config) engine.Config, log *slog.Logger, opts ...ui.Option) startupModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	return startupModel{
		browser:  ui.NewBrowser(presets),
		presets:  presets,
		override: override,
		log:      log,
		uiOpts:   opts,
		phase:    phaseBrowse,
		spinner:  s,
	}
}

// openOnStart skips the browser and opens sel as soon as the program runs.
func (m startupModel) openOnStart(sel ui.BrowserSelectedMsg) startupModel {
	next, cmd := m.open(sel)
	next.initCmd = cmd
	return next
}

func (m startupModel) Init() tea.Cmd {
	return tea.Batch(m.browser.Init(), m.spinner.Tick, m.initCmd)
}

func (m startupModel) open(sel ui.BrowserSelectedMsg) (startupModel, tea.Cmd) {
	m.phase = phaseOpening
	m.errMsg = ""
	m.opening = sel.Name
	if sel.Path != "" {
		m.opening = sel.Path
	}
	cols, rows := m.canvasEstimate()
	return m, tea.Batch(
		m.spinner.Tick,
		openSelectionCmd(sel, m.presets, m.override, cols, rows, m.log),
	)
}

// canvasEstimate sizes the first canvas; the running model resizes it on
// the next WindowSizeMsg.
func (m startupModel) canvasEstimate() (cols, rows int) {
	cols, rows = m.width, m.height-4
	if cols <= 0 || rows <= 0 {
		return 80, 20
	}
	return cols, rows
}

func (m startupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		model, cmd := m.browser.Update(msg)
		if browser, ok := model.(ui.BrowserModel); ok {
			m.browser = browser
		}
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.phase == phaseOpening {
			return m, cmd
		}
		return m, nil

	case ui.BrowserCancelledMsg:
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)

	case ui.BrowserSelectedMsg:
		return m.open(msg)

	case startupResolvedMsg:
		if msg.err != nil {
			m.phase = phaseBrowse
			m.errMsg = msg.err.Error()
			return m, nil
		}
		if m.phase != phaseOpening {
			msg.scene.Close()
			return m, nil
		}

		model := ui.New(presetQueue(m.presets, msg.cfg), msg.scene, m.uiOpts...)
		cmds := []tea.Cmd{model.Init()}
		if m.width > 0 || m.height > 0 {
			w, h := m.width, m.height
			cmds = append(cmds, func() tea.Msg {
				return tea.WindowSizeMsg{Width: w, Height: h}
			})
		}
		return model, tea.Batch(cmds...)

	case tea.KeyMsg:
		if m.phase == phaseOpening && startupIsQuit(msg) {
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}
	}

	if m.phase == phaseBrowse {
		model, cmd := m.browser.Update(msg)
		if browser, ok := model.(ui.BrowserModel); ok {
			m.browser = browser
		}
		return m, cmd
	}

	return m, nil
}

func (m startupModel) View() string {
	if m.phase == phaseBrowse {
		if m.errMsg == "" {
			return m.browser.View()
		}
		return "\n  lumen\n\n  " + startupErrorStyle.Render(m.errMsg) + "\n\n" + indentBlock(m.browser.View(), "  ")
	}

	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(startupHeaderStyle.Render("lumen"))
	b.WriteString("\n\n  ")
	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(startupStatusStyle.Render("Generating " + m.opening + "..."))
	b.WriteString("\n\n  ")
	b.WriteString(startupHelpStyle.Render("q quit"))
	b.WriteString("\n")
	return b.String()
}

func indentBlock(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

func startupIsQuit(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	}
	return false
}

var (
	startupHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"})
	startupStatusStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"})
	startupHelpStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"})
	startupErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#A00000", Dark: "#FF8080"})
)

// Package ui is the terminal host: a Bubbletea model that drives one
// animation per preset and maps mouse and keyboard input onto it.
package ui

import (
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/lumen/internal/engine"
	"github.com/olivier-w/lumen/internal/queue"
)

const (
	maxFrameDelta = 100 * time.Millisecond
	historySize   = 240
	wheelRows     = 3
	// virtual page length in screens for presets that do not scroll
	defaultPages = 4
)

// Pulse is polled once per frame and may kick turbulence.
type Pulse interface {
	Poll(kick func(strength float64))
}

type Option func(*Model)

func WithLogger(l *slog.Logger) Option { return func(m *Model) { m.log = l } }

// WithPulse attaches an audio source; title is shown in the header.
func WithPulse(p Pulse, title string) Option {
	return func(m *Model) { m.pulse, m.track = p, title }
}

// Model is the Bubbletea model for the running animation.
type Model struct {
	queue *queue.Queue
	log   *slog.Logger
	pulse Pulse
	track string

	scene    Scene
	seq      int
	building bool

	keys      keyMap
	help      help.Model
	scrollBar progress.Model

	width, height int
	offset        float64 // virtual page offset in rows
	pageRows      float64 // extent the offset was measured against
	paused        bool
	showGraph     bool
	advance       AdvanceMode
	lastFrame     time.Time
	onPreset      time.Duration
	errMsg        string
	weights       *history
	energy        *history
	quitting      bool
}

// New creates a Model around an already built scene. The queue's current
// preset should be the one the scene runs.
func New(q *queue.Queue, scene Scene, opts ...Option) Model {
	m := Model{
		queue:   q,
		scene:   scene,
		keys:    defaultKeys(),
		help:    help.New(),
		weights: newHistory(historySize),
		energy:  newHistory(historySize),
		scrollBar: progress.New(
			progress.WithScaledGradient("#33CCFF", "#FFFFFF"),
			progress.WithoutPercentage(),
		),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(frameCmd(m.fps()), tea.SetWindowTitle(windowTitle(m.title(), false)))
}

func (m Model) fps() int {
	if m.scene.Anim == nil {
		return 60
	}
	return m.scene.Anim.Config().FPS
}

func (m Model) title() string {
	if m.scene.Anim == nil {
		return ""
	}
	cfg := m.scene.Anim.Config()
	if cfg.Title != "" {
		return cfg.Title
	}
	return cfg.Name
}

// Scene returns the running scene.
func (m Model) Scene() Scene { return m.scene }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.relayout()
		return m, nil
	case frameMsg:
		return m.frame(time.Time(msg))
	case sceneBuiltMsg:
		return m.swap(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.scene.Close()
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
		return m, tea.SetWindowTitle(windowTitle(m.title(), m.paused))
	case key.Matches(msg, m.keys.Next):
		cmd := m.switchTo(m.queue.Advance())
		return m, cmd
	case key.Matches(msg, m.keys.Prev):
		cmd := m.switchTo(m.queue.Previous())
		return m, cmd
	case key.Matches(msg, m.keys.Restart):
		if m.scene.Anim != nil {
			cfg := m.scene.Anim.Config()
			cmd := m.switchTo(&cfg)
			return m, cmd
		}
	case key.Matches(msg, m.keys.Shuffle):
		m.queue.ToggleShuffle()
	case key.Matches(msg, m.keys.Rotate):
		m.advance = m.advance.Next()
		m.onPreset = 0
	case key.Matches(msg, m.keys.Graph):
		m.showGraph = !m.showGraph
		m.relayout()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.relayout()
	case key.Matches(msg, m.keys.Up):
		m.scrollBy(-wheelRows)
	case key.Matches(msg, m.keys.Down):
		m.scrollBy(wheelRows)
	case key.Matches(msg, m.keys.PageUp):
		_, rows := m.canvasSize()
		m.scrollBy(-float64(rows))
	case key.Matches(msg, m.keys.PageDown):
		_, rows := m.canvasSize()
		m.scrollBy(float64(rows))
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.scene.Bus == nil {
		return
	}
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.scrollBy(-wheelRows)
	case msg.Button == tea.MouseButtonWheelDown:
		m.scrollBy(wheelRows)
	case msg.Action == tea.MouseActionMotion:
		x, y, ok := m.toNDC(msg.X, msg.Y)
		if !ok {
			m.scene.Bus.Pointer(engine.PointerEvent{Leave: true})
			return
		}
		m.scene.Bus.Pointer(engine.PointerEvent{X: x, Y: y})
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if x, y, ok := m.toNDC(msg.X, msg.Y); ok {
			m.scene.Bus.Click(engine.ClickEvent{X: x, Y: y})
		}
	}
}

// toNDC maps a terminal cell to normalized device coordinates of the
// canvas, which starts on the second row.
func (m Model) toNDC(col, row int) (x, y float64, ok bool) {
	if m.scene.Canvas == nil {
		return 0, 0, false
	}
	cols, rows := m.scene.Canvas.Size()
	row--
	if cols == 0 || rows == 0 || col < 0 || col >= cols || row < 0 || row >= rows {
		return 0, 0, false
	}
	x = (float64(col)+0.5)/float64(cols)*2 - 1
	y = 1 - (float64(row)+0.5)/float64(rows)*2
	return x, y, true
}

// extent is the virtual page length in rows. Scroll presets get one screen
// per stop.
func (m Model) extent() float64 {
	_, rows := m.canvasSize()
	pages := defaultPages
	if m.scene.Anim != nil {
		if cfg := m.scene.Anim.Config(); cfg.Schedule.Mode == engine.ModeScroll {
			pages = max(len(cfg.Schedule.Stops), 2)
		}
	}
	return float64(rows * pages)
}

// scrollBy moves the page and reports it. Nothing is published when the
// offset is already at the edge.
func (m *Model) scrollBy(rows float64) {
	ext := m.extent()
	next := min(max(m.offset+rows, 0), ext)
	if next == m.offset {
		return
	}
	m.offset = next
	if m.scene.Bus != nil {
		m.scene.Bus.Scroll(engine.ScrollEvent{Offset: m.offset, Extent: ext})
	}
}

// rescale keeps the page fraction when the canvas height changes. The
// animation keeps the fraction it last saw, so no event is needed.
func (m *Model) rescale() {
	ext := m.extent()
	if m.pageRows > 0 {
		m.offset = m.offset / m.pageRows * ext
	}
	m.pageRows = ext
}

func (m Model) helpLines() int {
	if m.help.ShowAll {
		n := 0
		for _, group := range m.keys.FullHelp() {
			n = max(n, len(group))
		}
		return n
	}
	return 1
}

// canvasSize is the braille canvas size in cells after the header, graph,
// scroll bar, status and help lines.
func (m Model) canvasSize() (cols, rows int) {
	reserved := 3 + m.helpLines()
	if m.showGraph {
		reserved += graphLines
	}
	return max(m.width, 1), max(m.height-reserved, 1)
}

func (m *Model) relayout() {
	m.scrollBar.Width = max(m.width-2, 10)
	m.help.Width = m.width
	if m.scene.Canvas == nil || m.width == 0 {
		return
	}
	m.scene.resize(m.canvasSize())
	m.rescale()
}

func (m Model) frame(now time.Time) (tea.Model, tea.Cmd) {
	if m.quitting || m.scene.Anim == nil {
		return m, nil
	}
	var dt time.Duration
	if !m.lastFrame.IsZero() {
		dt = min(max(now.Sub(m.lastFrame), 0), maxFrameDelta)
	}
	m.lastFrame = now
	next := frameCmd(m.fps())
	if m.paused {
		return m, next
	}

	if m.pulse != nil {
		m.pulse.Poll(m.scene.Bus.Kick)
	}
	if err := m.scene.Anim.Frame(dt); err != nil {
		m.errMsg = err.Error()
		return m, next
	}
	m.scene.Canvas.SetRotation(m.scene.Anim.Rotation())
	st := m.scene.Anim.Stats()
	m.weights.push(st.Weight)
	m.energy.push(st.Energy)

	m.onPreset += dt
	if m.advance == AdvanceAuto && !m.building && m.onPreset >= AutoAdvanceAfter {
		m.onPreset = 0
		cmd := m.switchTo(m.queue.Advance())
		return m, tea.Batch(next, cmd)
	}
	return m, next
}

// switchTo starts building cfg off the Update goroutine. Only the latest
// request is kept.
func (m *Model) switchTo(cfg *engine.Config) tea.Cmd {
	if cfg == nil {
		return nil
	}
	m.seq++
	m.building = true
	seq, c, log := m.seq, *cfg, m.log
	cols, rows := m.canvasSize()
	return func() tea.Msg {
		scene, err := Build(c, cols, rows, log)
		return sceneBuiltMsg{seq: seq, scene: scene, err: err}
	}
}

func (m Model) swap(msg sceneBuiltMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.seq || m.quitting {
		msg.scene.Close()
		return m, nil
	}
	m.building = false
	if msg.err != nil {
		m.errMsg = msg.err.Error()
		if m.scene.Anim != nil {
			m.queue.Select(m.scene.Anim.Config().Name)
		}
		return m, nil
	}

	m.scene.Close()
	m.scene = msg.scene
	m.errMsg = ""
	m.onPreset = 0
	m.offset = 0
	m.pageRows = m.extent()
	m.weights.clear()
	m.energy.clear()
	if m.width > 0 {
		m.scene.resize(m.canvasSize())
	}
	if m.log != nil {
		m.log.Info("preset switched", "preset", m.scene.Anim.Config().Name, "instance", m.scene.Anim.ID().String())
	}
	return m, tea.SetWindowTitle(windowTitle(m.title(), m.paused))
}

func (m Model) View() string {
	if m.quitting || m.scene.Anim == nil {
		return ""
	}
	var b strings.Builder

	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(m.scene.Canvas.View())
	b.WriteString("\n")
	if m.showGraph {
		b.WriteString(graphStyle.Render(renderGraph(m.weights.last(historySize), m.energy.last(historySize), m.width)))
		b.WriteString("\n")
	}
	ratio := 0.0
	if ext := m.extent(); ext > 0 {
		ratio = m.offset / ext
	}
	b.WriteString(" ")
	b.WriteString(m.scrollBar.ViewAs(ratio))
	b.WriteString("\n")

	switch {
	case m.errMsg != "":
		b.WriteString(" " + errorStyle.Render(m.errMsg))
	case m.building:
		b.WriteString(" " + statusStyle.Render("loading..."))
	default:
		b.WriteString(" " + statusStyle.Render(renderStats(m.scene.Anim.Stats())))
	}
	b.WriteString("\n")
	b.WriteString(" " + m.help.View(m.keys))
	return b.String()
}

func (m Model) header() string {
	left := " " + titleStyle.Render(m.title()) + "  " + phaseStyle.Render(m.scene.Anim.State().Phase)
	var tags []string
	if m.paused {
		tags = append(tags, "[paused]")
	}
	if m.queue.IsShuffled() {
		tags = append(tags, "[shuffle]")
	}
	if icon := m.advance.Icon(); icon != "" {
		tags = append(tags, icon)
	}
	if m.track != "" {
		tags = append(tags, "♪ "+m.track)
	}
	if len(tags) > 0 {
		left += "  " + headerStyle.Render(strings.Join(tags, " "))
	}
	return left
}

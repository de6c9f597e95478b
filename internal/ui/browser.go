package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/lumen/internal/engine"
)

// BrowserSelectedMsg reports the chosen preset: Name for a built-in one,
// Path for a preset file.
type BrowserSelectedMsg struct {
	Name string
	Path string
}

// BrowserCancelledMsg reports that the user left the browser.
type BrowserCancelledMsg struct{}

type presetItem struct {
	name, title, desc string
}

func (i presetItem) Title() string       { return i.title }
func (i presetItem) Description() string { return i.desc }
func (i presetItem) FilterValue() string { return i.name + " " + i.title }

type fileItem struct{}

func (i fileItem) Title() string       { return "Open preset file..." }
func (i fileItem) Description() string { return "load a TOML preset from disk" }
func (i fileItem) FilterValue() string { return "file" }

// BrowserModel is the preset picker shown before an animation starts.
type BrowserModel struct {
	list     list.Model
	input    textinput.Model
	fileMode bool
}

// NewBrowser lists the given presets, followed by an entry to open a
// preset file.
func NewBrowser(presets []engine.Config) BrowserModel {
	items := make([]list.Item, 0, len(presets)+1)
	for _, p := range presets {
		title := p.Title
		if title == "" {
			title = p.Name
		}
		items = append(items, presetItem{name: p.Name, title: title, desc: p.Description})
	}
	items = append(items, fileItem{})

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#0077AA", Dark: "#33CCFF"})
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#0077AA", Dark: "#33CCFF"})

	l := list.New(items, delegate, 80, 20)
	l.Title = "lumen"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = headerStyle

	ti := textinput.New()
	ti.Placeholder = "path/to/preset.toml"
	ti.CharLimit = 1024
	ti.Width = 60

	return BrowserModel{list: l, input: ti}
}

func (m BrowserModel) Init() tea.Cmd {
	return tea.SetWindowTitle("lumen")
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.fileMode {
		return m.updateFileInput(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Don't intercept keys when filtering
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			switch item := m.list.SelectedItem().(type) {
			case fileItem:
				m.fileMode = true
				m.input.Focus()
				return m, tea.Batch(textinput.Blink, tea.SetWindowTitle("lumen · open preset"))
			case presetItem:
				return m, selected(BrowserSelectedMsg{Name: item.name})
			}
		case "q", "esc", "ctrl+c":
			return m, selected(BrowserCancelledMsg{})
		}

	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height)
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m BrowserModel) updateFileInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			if path := strings.TrimSpace(m.input.Value()); path != "" {
				return m, selected(BrowserSelectedMsg{Path: path})
			}
		case "esc":
			m.fileMode = false
			m.input.Reset()
			m.input.Blur()
			return m, tea.SetWindowTitle("lumen")
		case "ctrl+c":
			return m, selected(BrowserCancelledMsg{})
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func selected(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func (m BrowserModel) View() string {
	if m.fileMode {
		s := "\n"
		s += "  " + headerStyle.Render("lumen") + "\n"
		s += "\n"
		s += "  " + statusStyle.Render("Preset file:") + "\n"
		s += "  " + m.input.View() + "\n"
		s += "\n"
		s += "  " + helpStyle.Render("enter confirm  esc back  ctrl+c quit") + "\n"
		return s
	}
	return m.list.View()
}

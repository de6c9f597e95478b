package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type frameMsg time.Time

// sceneBuiltMsg carries a scene built off the Update goroutine. seq
// identifies the request so late builds can be discarded.
type sceneBuiltMsg struct {
	seq   int
	scene Scene
	err   error
}

func frameCmd(fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(max(fps, 1)), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

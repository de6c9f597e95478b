package ui

import "time"

// AutoAdvanceAfter is how long a preset runs before auto-advance moves on.
const AutoAdvanceAfter = 60 * time.Second

// AdvanceMode controls whether presets rotate on their own.
type AdvanceMode int

const (
	AdvanceOff AdvanceMode = iota
	AdvanceAuto
)

// Next cycles to the next advance mode.
func (a AdvanceMode) Next() AdvanceMode {
	switch a {
	case AdvanceOff:
		return AdvanceAuto
	default:
		return AdvanceOff
	}
}

// String returns the name of the advance mode.
func (a AdvanceMode) String() string {
	switch a {
	case AdvanceAuto:
		return "auto"
	default:
		return "off"
	}
}

// Icon returns a visual indicator for the advance mode.
func (a AdvanceMode) Icon() string {
	switch a {
	case AdvanceAuto:
		return "[auto]"
	default:
		return ""
	}
}

package render

import (
	"fmt"
	"strings"
	"sync"

	"github.com/muesli/termenv"
)

type colorRGB struct {
	R uint8
	G uint8
	B uint8
}

func (c colorRGB) hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// rgb converts 0..1 channels scaled by brightness.
func rgb(r, g, b, brightness float64) colorRGB {
	return colorRGB{
		R: uint8(clamp01(r*brightness)*255 + 0.5),
		G: uint8(clamp01(g*brightness)*255 + 0.5),
		B: uint8(clamp01(b*brightness)*255 + 0.5),
	}
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

// detectProfile honors NO_COLOR, CLICOLOR_FORCE, COLORTERM and TERM.
func detectProfile() termenv.Profile {
	return termenv.EnvColorProfile()
}

// Sequences are cached per profile and color; a frame repeats few colors.
var seqCache sync.Map

func colorSequence(p termenv.Profile, c colorRGB) string {
	key := uint32(p)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
	if seq, ok := seqCache.Load(key); ok {
		return seq.(string)
	}

	var seq string
	if col := p.Color(c.hex()); col != nil {
		if s := col.Sequence(false); s != "" {
			seq = termenv.CSI + s + "m"
		}
	}
	seqCache.Store(key, seq)
	return seq
}

// ansiState skips escape codes when consecutive cells share a color.
type ansiState struct {
	profile termenv.Profile
	current uint32
	dirty   bool
}

func newANSIState(p termenv.Profile) ansiState {
	return ansiState{profile: p}
}

func (s *ansiState) set(sb *strings.Builder, c colorRGB) {
	if s.profile == termenv.Ascii {
		return
	}
	key := uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
	if s.dirty && key == s.current {
		return
	}
	sb.WriteString(colorSequence(s.profile, c))
	s.current, s.dirty = key, true
}

func (s *ansiState) reset(sb *strings.Builder) {
	if !s.dirty {
		return
	}
	sb.WriteString(termenv.CSI + termenv.ResetSeq + "m")
	s.dirty = false
}

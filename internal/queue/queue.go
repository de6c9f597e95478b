// Package queue orders the presets the terminal host rotates through.
package queue

import (
	"math/rand"

	"github.com/olivier-w/lumen/internal/engine"
)

// Queue is an ordered preset rotation that wraps at both ends.
// It is only mutated from Bubbletea's single-threaded Update loop.
type Queue struct {
	presets      []engine.Config
	current      int
	shuffleOrder []int // maps shuffle position → preset index
	shufflePos   int
	shuffled     bool
	rng          *rand.Rand
}

// New creates a Queue positioned on the first preset.
func New(presets []engine.Config, rng *rand.Rand) *Queue {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Queue{presets: presets, rng: rng}
}

// Current returns the active preset, or nil if the queue is empty.
func (q *Queue) Current() *engine.Config {
	if q.current < 0 || q.current >= len(q.presets) {
		return nil
	}
	return &q.presets[q.current]
}

// Len returns the number of presets.
func (q *Queue) Len() int {
	return len(q.presets)
}

// CurrentIndex returns the zero-based index of the active preset.
func (q *Queue) CurrentIndex() int {
	return q.current
}

// Preset returns the preset at i, or nil if out of range.
func (q *Queue) Preset(i int) *engine.Config {
	if i < 0 || i >= len(q.presets) {
		return nil
	}
	return &q.presets[i]
}

// Select jumps to the preset with the given name. Returns false if no
// preset has that name.
func (q *Queue) Select(name string) bool {
	for i, p := range q.presets {
		if p.Name == name {
			q.SetCurrentIndex(i)
			return true
		}
	}
	return false
}

// SetCurrentIndex sets the active preset directly, keeping the shuffle
// position in sync.
func (q *Queue) SetCurrentIndex(i int) {
	if i < 0 || i >= len(q.presets) {
		return
	}
	q.current = i
	if !q.shuffled {
		return
	}
	for pos, idx := range q.shuffleOrder {
		if idx == i {
			q.shufflePos = pos
			return
		}
	}
}

// Advance moves to the next preset in play order, wrapping to the start.
func (q *Queue) Advance() *engine.Config {
	return q.step(1)
}

// Previous moves to the previous preset in play order, wrapping to the end.
func (q *Queue) Previous() *engine.Config {
	return q.step(-1)
}

func (q *Queue) step(dir int) *engine.Config {
	n := len(q.presets)
	if n == 0 {
		return nil
	}
	if q.shuffled {
		q.shufflePos = (q.shufflePos + dir + n) % n
		q.current = q.shuffleOrder[q.shufflePos]
	} else {
		q.current = (q.current + dir + n) % n
	}
	return q.Current()
}

// IsShuffled returns whether shuffle mode is active.
func (q *Queue) IsShuffled() bool {
	return q.shuffled
}

// EnableShuffle activates shuffle mode. The current preset stays at position
// 0 in the shuffle order; the others are randomized via Fisher-Yates.
func (q *Queue) EnableShuffle() {
	n := len(q.presets)
	if n <= 1 {
		return
	}
	q.shuffled = true
	q.shuffleOrder = make([]int, 0, n)
	q.shuffleOrder = append(q.shuffleOrder, q.current)
	for i := range n {
		if i != q.current {
			q.shuffleOrder = append(q.shuffleOrder, i)
		}
	}
	rest := q.shuffleOrder[1:]
	for i := len(rest) - 1; i > 0; i-- {
		j := q.rng.Intn(i + 1)
		rest[i], rest[j] = rest[j], rest[i]
	}
	q.shufflePos = 0
}

// DisableShuffle deactivates shuffle mode, keeping the current preset.
func (q *Queue) DisableShuffle() {
	q.shuffled = false
	q.shuffleOrder = nil
	q.shufflePos = 0
}

// ToggleShuffle flips shuffle mode and reports the new state.
func (q *Queue) ToggleShuffle() bool {
	if q.shuffled {
		q.DisableShuffle()
	} else {
		q.EnableShuffle()
	}
	return q.shuffled
}

// Peek returns up to n presets after the current one in play order.
func (q *Queue) Peek(n int) []engine.Config {
	total := len(q.presets)
	n = min(n, total-1)
	if n <= 0 {
		return nil
	}
	out := make([]engine.Config, 0, n)
	for k := 1; k <= n; k++ {
		if q.shuffled {
			out = append(out, q.presets[q.shuffleOrder[(q.shufflePos+k)%total]])
		} else {
			out = append(out, q.presets[(q.current+k)%total])
		}
	}
	return out
}

package queue

import (
	"math/rand"
	"testing"

	"github.com/olivier-w/lumen/internal/engine"
)

func makePresets(names ...string) []engine.Config {
	out := make([]engine.Config, len(names))
	for i, n := range names {
		out[i] = engine.Config{Name: n}
	}
	return out
}

func TestAdvanceAndPreviousWrap(t *testing.T) {
	q := New(makePresets("a", "b", "c"), rand.New(rand.NewSource(1)))
	if q.Current().Name != "a" {
		t.Fatalf("expected a, got %s", q.Current().Name)
	}
	for _, want := range []string{"b", "c", "a"} {
		if got := q.Advance().Name; got != want {
			t.Fatalf("Advance = %s, want %s", got, want)
		}
	}
	if got := q.Previous().Name; got != "c" {
		t.Fatalf("Previous from a = %s, want c", got)
	}
}

func TestEmptyQueue(t *testing.T) {
	q := New(nil, nil)
	if q.Current() != nil || q.Advance() != nil || q.Previous() != nil {
		t.Fatal("empty queue should return nil")
	}
	if q.Peek(3) != nil {
		t.Fatal("Peek on empty queue should be nil")
	}
}

func TestSelect(t *testing.T) {
	q := New(makePresets("a", "b", "c"), nil)
	if !q.Select("c") || q.CurrentIndex() != 2 {
		t.Fatalf("Select(c) -> index %d", q.CurrentIndex())
	}
	if q.Select("missing") {
		t.Fatal("Select of unknown preset should fail")
	}
	if q.CurrentIndex() != 2 {
		t.Fatal("failed Select moved the queue")
	}
}

func TestShuffleVisitsEveryPresetOnce(t *testing.T) {
	q := New(makePresets("a", "b", "c", "d", "e"), rand.New(rand.NewSource(7)))
	q.SetCurrentIndex(2)
	q.EnableShuffle()
	if !q.IsShuffled() {
		t.Fatal("expected shuffle on")
	}
	if q.shuffleOrder[0] != 2 {
		t.Fatalf("current preset should lead the shuffle order, got %v", q.shuffleOrder)
	}

	seen := map[string]bool{q.Current().Name: true}
	for range q.Len() - 1 {
		seen[q.Advance().Name] = true
	}
	if len(seen) != q.Len() {
		t.Fatalf("visited %d distinct presets, want %d", len(seen), q.Len())
	}
	if q.Advance().Name != "c" {
		t.Fatal("shuffle order should wrap to its first preset")
	}
}

func TestShuffleSinglePreset(t *testing.T) {
	q := New(makePresets("a"), nil)
	q.EnableShuffle()
	if q.IsShuffled() {
		t.Fatal("shuffle of one preset should be a no-op")
	}
}

func TestToggleShuffleKeepsCurrent(t *testing.T) {
	q := New(makePresets("a", "b", "c"), rand.New(rand.NewSource(3)))
	q.Advance()
	if !q.ToggleShuffle() {
		t.Fatal("expected shuffle on")
	}
	cur := q.Current().Name
	if q.ToggleShuffle() {
		t.Fatal("expected shuffle off")
	}
	if q.Current().Name != cur {
		t.Fatalf("current changed from %s to %s", cur, q.Current().Name)
	}
}

func TestSetCurrentIndexSyncsShufflePosition(t *testing.T) {
	q := New(makePresets("a", "b", "c", "d"), rand.New(rand.NewSource(11)))
	q.EnableShuffle()
	q.SetCurrentIndex(3)
	if q.shuffleOrder[q.shufflePos] != 3 {
		t.Fatalf("shuffle position %d points at %d", q.shufflePos, q.shuffleOrder[q.shufflePos])
	}
	q.SetCurrentIndex(9)
	if q.CurrentIndex() != 3 {
		t.Fatal("out of range index should be ignored")
	}
}

func TestPeekWraps(t *testing.T) {
	q := New(makePresets("a", "b", "c"), nil)
	q.SetCurrentIndex(2)
	got := q.Peek(5)
	if len(got) != 2 || got[0].Name != "a" || got[1].Name != "b" {
		t.Fatalf("Peek = %v", got)
	}
}

package particle

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/olivier-w/lumen/internal/shape"
)

// Buffer holds the per-particle attributes shared with renderers. Its
// length is fixed at construction.
type Buffer struct {
	Positions  []float32
	Velocities []float32
	Colors     []float32
	Sizes      []float32

	n       int
	version uint64
}

// NewBuffer allocates room for n particles. Velocities are only allocated
// when withVelocity is set.
func NewBuffer(n int, withVelocity bool) *Buffer {
	b := &Buffer{
		Positions: make([]float32, n*3),
		Colors:    make([]float32, n*3),
		Sizes:     make([]float32, n),
		n:         n,
	}
	if withVelocity {
		b.Velocities = make([]float32, n*3)
	}
	for i := range b.Colors {
		b.Colors[i] = 1
	}
	for i := range b.Sizes {
		b.Sizes[i] = 1
	}
	return b
}

func (b *Buffer) Len() int { return b.n }

// HasVelocity reports whether the velocity attribute is allocated.
func (b *Buffer) HasVelocity() bool { return b.Velocities != nil }

// Reset places every particle on the given table and zeroes velocities.
func (b *Buffer) Reset(t shape.Table) error {
	if t.Len() != b.n {
		return fmt.Errorf("particle: table %q has %d points, buffer has %d", t.Name, t.Len(), b.n)
	}
	copy(b.Positions, t.Points)
	clear(b.Velocities)
	b.MarkDirty()
	return nil
}

// MarkDirty tells renderers the positions changed.
func (b *Buffer) MarkDirty() { b.version++ }

// Version increases every time the buffer is marked dirty.
func (b *Buffer) Version() uint64 { return b.version }

func (b *Buffer) At(i int) mgl32.Vec3 {
	j := i * 3
	return mgl32.Vec3{b.Positions[j], b.Positions[j+1], b.Positions[j+2]}
}

func (b *Buffer) Color(i int) mgl32.Vec3 {
	j := i * 3
	return mgl32.Vec3{b.Colors[j], b.Colors[j+1], b.Colors[j+2]}
}

// Bounds returns the axis-aligned box around all positions. An empty buffer
// returns zero vectors.
func (b *Buffer) Bounds() (lo, hi mgl32.Vec3) {
	if b.n == 0 {
		return lo, hi
	}
	lo, hi = b.At(0), b.At(0)
	for i := 1; i < b.n; i++ {
		p := b.At(i)
		for a := range 3 {
			lo[a] = min(lo[a], p[a])
			hi[a] = max(hi[a], p[a])
		}
	}
	return lo, hi
}

// Finite reports whether every position is a finite number.
func (b *Buffer) Finite() bool {
	for _, v := range b.Positions {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

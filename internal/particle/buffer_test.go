package particle

import (
	"math"
	"math/rand"
	"testing"

	"github.com/olivier-w/lumen/internal/shape"
)

func TestResetCopiesTableAndBumpsVersion(t *testing.T) {
	table, err := shape.Generate(shape.Sphere, 10, shape.Params{Radius: 2}, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b := NewBuffer(10, true)
	b.Velocities[4] = 3
	v := b.Version()

	if err := b.Reset(table); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if b.Version() <= v {
		t.Fatalf("version did not advance: %d -> %d", v, b.Version())
	}
	for i := range table.Points {
		if b.Positions[i] != table.Points[i] {
			t.Fatalf("position %d = %f, want %f", i, b.Positions[i], table.Points[i])
		}
	}
	for i, v := range b.Velocities {
		if v != 0 {
			t.Fatalf("velocity %d = %f after Reset", i, v)
		}
	}

	table.Points[0] = 99
	if b.Positions[0] == 99 {
		t.Fatal("buffer aliases the table")
	}
}

func TestResetRejectsLengthMismatch(t *testing.T) {
	table, _ := shape.Generate(shape.Cloud, 5, shape.Params{}, rand.New(rand.NewSource(1)))
	if err := NewBuffer(6, false).Reset(table); err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestBoundsAndFinite(t *testing.T) {
	b := NewBuffer(3, false)
	copy(b.Positions, []float32{-1, 2, 0, 3, -4, 1, 0, 0, 5})

	lo, hi := b.Bounds()
	if lo.X() != -1 || lo.Y() != -4 || lo.Z() != 0 {
		t.Fatalf("lo = %v", lo)
	}
	if hi.X() != 3 || hi.Y() != 2 || hi.Z() != 5 {
		t.Fatalf("hi = %v", hi)
	}
	if !b.Finite() {
		t.Fatal("expected finite positions")
	}
	b.Positions[2] = float32(math.NaN())
	if b.Finite() {
		t.Fatal("NaN not detected")
	}
}

func TestVelocityIsOptional(t *testing.T) {
	b := NewBuffer(4, false)
	if b.HasVelocity() || b.Velocities != nil {
		t.Fatal("expected no velocity attribute")
	}
}

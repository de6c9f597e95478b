package render

import (
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/muesli/termenv"
	"github.com/olivier-w/lumen/internal/particle"
)

func TestCameraUnprojectMatchesFrustum(t *testing.T) {
	cam := NewCamera([3]float64{0, 0, 18}, 55)
	cam.SetViewport(200, 100)

	halfH := 18 * math.Tan(55*math.Pi/360)
	x, y := cam.Unproject(1, 1)
	if math.Abs(x-2*halfH) > 1e-3 || math.Abs(y-halfH) > 1e-3 {
		t.Fatalf("Unproject(1,1) = (%f, %f), want (%f, %f)", x, y, 2*halfH, halfH)
	}
	if x, y := cam.Unproject(0, 0); math.Abs(x) > 1e-4 || math.Abs(y) > 1e-4 {
		t.Fatalf("Unproject(0,0) = (%f, %f)", x, y)
	}
}

func TestProjectRoundTrip(t *testing.T) {
	cam := NewCamera([3]float64{0, 0, 18}, 55)
	mvp := cam.ViewProjection(mgl32.Ident4())
	for _, ndc := range [][2]float64{{0.5, -0.25}, {-0.9, 0.9}} {
		x, y := cam.Unproject(ndc[0], ndc[1])
		got, _, ok := Project(mvp, mgl32.Vec3{float32(x), float32(y), 0})
		if !ok {
			t.Fatalf("point %v projected behind the camera", ndc)
		}
		if math.Abs(float64(got.X())-ndc[0]) > 1e-4 || math.Abs(float64(got.Y())-ndc[1]) > 1e-4 {
			t.Fatalf("round trip of %v = %v", ndc, got)
		}
	}
	if _, _, ok := Project(mvp, mgl32.Vec3{0, 0, 30}); ok {
		t.Fatal("point behind the camera reported visible")
	}
}

func TestBrailleDrawsCenterParticle(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	buf := particle.NewBuffer(1, false)
	b := NewBraille(NewCamera([3]float64{0, 0, 18}, 55))
	b.Resize(11, 5)
	b.Invalidate(buf)

	lines := strings.Split(b.View(), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5", len(lines))
	}
	center := []rune(lines[2])
	if len(center) != 11 {
		t.Fatalf("center line has %d cells", len(center))
	}
	if center[5] < 0x2801 || center[5] > 0x28ff {
		t.Fatalf("center cell = %q, want a braille dot", center[5])
	}
	for i, line := range lines {
		for j, r := range line {
			if (i != 2 || j != 5) && r != ' ' {
				t.Fatalf("unexpected mark %q at row %d", r, i)
			}
		}
	}
}

func TestBrailleRedrawsOnlyWhenDirty(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	buf := particle.NewBuffer(1, false)
	b := NewBraille(NewCamera([3]float64{0, 0, 18}, 55))
	b.Resize(11, 5)
	b.Invalidate(buf)
	first := b.View()

	buf.Positions[0] = 100 // off screen, but not marked dirty
	if b.View() != first {
		t.Fatal("raster changed without a version bump")
	}
	buf.MarkDirty()
	if b.View() == first {
		t.Fatal("raster not refreshed after MarkDirty")
	}
}

func TestBrailleEmitsColorWhenSupported(t *testing.T) {
	buf := particle.NewBuffer(1, false)
	b := NewBraille(NewCamera([3]float64{0, 0, 18}, 55))
	b.profile = termenv.TrueColor
	b.Resize(11, 5)
	b.Invalidate(buf)
	out := b.View()
	if !strings.Contains(out, "\x1b[38;2;") || !strings.Contains(out, "\x1b[0m") {
		t.Fatalf("expected truecolor sequences, got %q", out)
	}
}

func TestColorSequenceProfiles(t *testing.T) {
	c := colorRGB{R: 51, G: 204, B: 255}
	if seq := colorSequence(termenv.TrueColor, c); seq != "\x1b[38;2;51;204;255m" {
		t.Fatalf("truecolor = %q", seq)
	}
	if seq := colorSequence(termenv.ANSI256, c); !strings.HasPrefix(seq, "\x1b[38;5;") {
		t.Fatalf("256 = %q", seq)
	}
	if seq := colorSequence(termenv.Ascii, c); seq != "" {
		t.Fatalf("none = %q", seq)
	}
}

// Package render draws a particle buffer for hosts: a terminal braille
// canvas here, and the shared camera used by every host.
package render

import (
	"strings"

	"github.com/muesli/termenv"
	"github.com/olivier-w/lumen/internal/particle"
)

// Braille dot positions (col, row) → bit offset:
//
//	(0,0)=0  (1,0)=3
//	(0,1)=1  (1,1)=4
//	(0,2)=2  (1,2)=5
//	(0,3)=6  (1,3)=7
var brailleBits = [2][4]uint{
	{0, 1, 2, 6},
	{3, 4, 5, 7},
}

type cell struct {
	dots    uint8
	r, g, b float64
	weight  float64
}

// Braille rasterizes particles onto a grid of braille cells, 2x4 dots each.
// It implements the engine's Renderer: Invalidate only records the buffer,
// the raster happens in View when the buffer version changed.
type Braille struct {
	cam     *Camera
	profile termenv.Profile

	cols, rows int
	cells      []cell

	buf        *particle.Buffer
	drawn      uint64
	yaw, pitch float64
	stale      bool
	output     string
}

func NewBraille(cam *Camera) *Braille {
	return &Braille{cam: cam, profile: detectProfile(), stale: true}
}

// Resize sets the canvas size in terminal cells and updates the camera
// aspect in dot units.
func (b *Braille) Resize(cols, rows int) {
	cols, rows = max(cols, 1), max(rows, 1)
	if cols == b.cols && rows == b.rows {
		return
	}
	b.cols, b.rows = cols, rows
	b.cells = make([]cell, cols*rows)
	b.cam.SetViewport(cols*2, rows*4)
	b.stale = true
}

// Size returns the canvas size in cells.
func (b *Braille) Size() (cols, rows int) { return b.cols, b.rows }

// DotSize returns the canvas size in braille dots.
func (b *Braille) DotSize() (width, height int) { return b.cols * 2, b.rows * 4 }

func (b *Braille) Invalidate(buf *particle.Buffer) {
	b.buf = buf
}

// SetRotation sets the global rotation applied at the next raster.
func (b *Braille) SetRotation(yaw, pitch float64) {
	if yaw != b.yaw || pitch != b.pitch {
		b.yaw, b.pitch = yaw, pitch
		b.stale = true
	}
}

func (b *Braille) View() string {
	if b.buf == nil || b.cols == 0 {
		return ""
	}
	if b.stale || b.buf.Version() != b.drawn {
		b.raster()
	}
	return b.output
}

func (b *Braille) raster() {
	clear(b.cells)
	mvp := b.cam.ViewProjection(Model(b.yaw, b.pitch))
	dotW, dotH := float32(b.cols*2), float32(b.rows*4)
	dist := float64(b.cam.Position.Sub(b.cam.Target).Len())

	for i := range b.buf.Len() {
		ndc, w, ok := Project(mvp, b.buf.At(i))
		if !ok || ndc.X() < -1 || ndc.X() >= 1 || ndc.Y() <= -1 || ndc.Y() > 1 {
			continue
		}
		dx := min(int((ndc.X()+1)/2*dotW), b.cols*2-1)
		dy := min(int((1-ndc.Y())/2*dotH), b.rows*4-1)
		c := &b.cells[(dy/4)*b.cols+dx/2]
		c.dots |= 1 << brailleBits[dx%2][dy%4]

		// nearer particles weigh more in the cell color
		depth := 0.35 + 0.65*clamp01(1.5-float64(w)/dist)
		col := b.buf.Color(i)
		c.r += float64(col[0]) * depth
		c.g += float64(col[1]) * depth
		c.b += float64(col[2]) * depth
		c.weight++
	}

	var out strings.Builder
	out.Grow(b.cols * b.rows * 4)
	color := newANSIState(b.profile)
	for row := range b.rows {
		if row > 0 {
			out.WriteByte('\n')
		}
		for col := range b.cols {
			c := b.cells[row*b.cols+col]
			if c.dots == 0 {
				out.WriteByte(' ')
				continue
			}
			// denser cells are brighter
			lum := 0.55 + 0.45*clamp01(c.weight/8)
			color.set(&out, rgb(c.r/c.weight, c.g/c.weight, c.b/c.weight, lum))
			out.WriteRune(rune(0x2800 + int(c.dots)))
		}
		color.reset(&out)
	}

	b.output = out.String()
	b.drawn = b.buf.Version()
	b.stale = false
}

// Package window hosts an animation in a desktop window drawn with ebiten.
package window

import (
	"errors"
	"image/color"
	"log/slog"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/olivier-w/lumen/internal/engine"
	"github.com/olivier-w/lumen/internal/particle"
	"github.com/olivier-w/lumen/internal/render"
)

const (
	// world-space diameter of a particle with size 1
	pointSize   = 0.05
	minRadius   = 0.6
	wheelPixels = 40
	pages       = 4
)

var background = color.NRGBA{R: 0, G: 0, B: 0, A: 255}

// Pulse is polled once per tick and may kick turbulence.
type Pulse interface {
	Poll(kick func(strength float64))
}

// Game implements ebiten.Game around one animation.
type Game struct {
	anim  *engine.Animation
	bus   *engine.Bus
	cam   *render.Camera
	pulse Pulse

	buf *particle.Buffer

	width, height int
	scrolled      float64 // fraction of the virtual page, kept across resizes
	inside        bool
}

// New builds cfg with a fresh bus and the window's camera.
func New(cfg engine.Config, pulse Pulse, log *slog.Logger) (*Game, error) {
	view := cfg.WithDefaults().Camera
	g := &Game{
		bus:   engine.NewBus(),
		cam:   render.NewCamera(view.Position, view.FOV),
		pulse: pulse,
	}
	opts := []engine.Option{
		engine.WithInput(g.bus),
		engine.WithRenderer(g),
		engine.WithProjector(g.cam),
	}
	if log != nil {
		opts = append(opts, engine.WithLogger(log))
	}
	anim, err := engine.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	g.anim = anim
	g.buf = anim.Buffer()
	return g, nil
}

// Invalidate records the buffer of the latest frame.
func (g *Game) Invalidate(buf *particle.Buffer) {
	g.buf = buf
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	cx, cy := ebiten.CursorPosition()
	if x, y, ok := toNDC(cx, cy, g.width, g.height); ok {
		g.bus.Pointer(engine.PointerEvent{X: x, Y: y})
		g.inside = true
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			g.bus.Click(engine.ClickEvent{X: x, Y: y})
		}
	} else if g.inside {
		g.bus.Pointer(engine.PointerEvent{Leave: true})
		g.inside = false
	}

	if _, dy := ebiten.Wheel(); dy != 0 {
		g.scroll(-dy * wheelPixels)
	}
	if g.pulse != nil {
		g.pulse.Poll(g.bus.Kick)
	}
	return g.anim.Frame(time.Second / time.Duration(ebiten.TPS()))
}

func (g *Game) scroll(delta float64) {
	extent := float64(g.height * pages)
	if extent <= 0 {
		return
	}
	next := min(max(g.scrolled+delta/extent, 0), 1)
	if next == g.scrolled {
		return
	}
	g.scrolled = next
	g.bus.Scroll(engine.ScrollEvent{Offset: next * extent, Extent: extent})
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	if g.buf == nil || g.width == 0 {
		return
	}
	mvp := g.cam.ViewProjection(render.Model(g.anim.Rotation()))
	w, h := float32(g.width), float32(g.height)
	// pixels per world unit at clip depth 1
	scale := h / (2 * float32(math.Tan(float64(g.cam.FOV)*math.Pi/360)))

	for i := range g.buf.Len() {
		ndc, depth, ok := render.Project(mvp, g.buf.At(i))
		if !ok || ndc.X() < -1 || ndc.X() > 1 || ndc.Y() < -1 || ndc.Y() > 1 {
			continue
		}
		r := max(g.buf.Sizes[i]*pointSize*scale/depth/2, minRadius)
		c := g.buf.Color(i)
		vector.DrawFilledCircle(screen,
			(ndc.X()+1)/2*w, (1-ndc.Y())/2*h, r,
			color.NRGBA{R: channel(c[0]), G: channel(c[1]), B: channel(c[2]), A: 200},
			true)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.cam.SetViewport(g.width, g.height)
		g.bus.Resize(engine.ResizeEvent{Width: g.width, Height: g.height})
	}
	return outsideWidth, outsideHeight
}

// Close releases the animation.
func (g *Game) Close() { g.anim.Close() }

// Run opens a window and blocks until it is closed.
func Run(g *Game, title string) error {
	defer g.Close()
	cfg := g.anim.Config()
	ebiten.SetWindowSize(1280, 720)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.FPS)
	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// toNDC maps a pixel to normalized device coordinates with y up.
func toNDC(px, py, width, height int) (x, y float64, ok bool) {
	if width <= 0 || height <= 0 || px < 0 || py < 0 || px >= width || py >= height {
		return 0, 0, false
	}
	x = (float64(px)+0.5)/float64(width)*2 - 1
	y = 1 - (float64(py)+0.5)/float64(height)*2
	return x, y, true
}

func channel(v float32) uint8 {
	return uint8(min(max(v, 0), 1)*255 + 0.5)
}

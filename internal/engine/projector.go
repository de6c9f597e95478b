package engine

import (
	"math"

	"github.com/olivier-w/lumen/internal/particle"
)

// Renderer is told when the buffer holds a new frame. Implementations must
// not keep writing to the buffer.
type Renderer interface {
	Invalidate(buf *particle.Buffer)
}

// Projector maps normalized device coordinates onto the local z=0 plane.
type Projector interface {
	Unproject(x, y float64) (float64, float64)
	SetViewport(width, height int)
}

// frustum is the default Projector for a camera looking at the origin: the
// visible half-height at distance d is d*tan(fov/2).
type frustum struct {
	distance float64
	fov      float64
	aspect   float64
}

func newFrustum(cam CameraSpec) *frustum {
	p := cam.Position
	return &frustum{
		distance: math.Sqrt(p[0]*p[0] + p[1]*p[1] + p[2]*p[2]),
		fov:      cam.FOV * math.Pi / 180,
		aspect:   1,
	}
}

func (f *frustum) Unproject(x, y float64) (float64, float64) {
	halfH := f.distance * math.Tan(f.fov/2)
	return x * halfH * f.aspect, y * halfH
}

func (f *frustum) SetViewport(width, height int) {
	if width > 0 && height > 0 {
		f.aspect = float64(width) / float64(height)
	}
}

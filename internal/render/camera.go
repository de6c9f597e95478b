package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a perspective camera looking at Target.
type Camera struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3
	FOV      float32 // vertical, degrees
	Aspect   float32
	Near     float32
	Far      float32
}

func NewCamera(position [3]float64, fov float64) *Camera {
	return &Camera{
		Position: mgl32.Vec3{float32(position[0]), float32(position[1]), float32(position[2])},
		Up:       mgl32.Vec3{0, 1, 0},
		FOV:      float32(fov),
		Aspect:   1,
		Near:     0.1,
		Far:      1000,
	}
}

// SetViewport updates the aspect ratio. Width and height must be in the
// same units (pixels or braille dots).
func (c *Camera) SetViewport(width, height int) {
	if width > 0 && height > 0 {
		c.Aspect = float32(width) / float32(height)
	}
}

func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// Model rotates local space by yaw about the vertical axis, then pitch.
func Model(yaw, pitch float64) mgl32.Mat4 {
	return mgl32.HomogRotate3DX(float32(pitch)).Mul4(mgl32.HomogRotate3DY(float32(yaw)))
}

// ViewProjection combines projection, view and model into one matrix.
func (c *Camera) ViewProjection(model mgl32.Mat4) mgl32.Mat4 {
	return c.Projection().Mul4(c.View()).Mul4(model)
}

// Project maps a point through mvp to normalized device coordinates. ok is
// false for points behind the camera. w is the clip-space depth.
func Project(mvp mgl32.Mat4, p mgl32.Vec3) (ndc mgl32.Vec3, w float32, ok bool) {
	clip := mvp.Mul4x1(p.Vec4(1))
	if clip.W() <= 0 {
		return ndc, 0, false
	}
	return clip.Vec3().Mul(1 / clip.W()), clip.W(), true
}

// Unproject casts a ray through the NDC point and intersects it with the
// local z=0 plane. If the ray runs parallel to the plane the point is
// returned unscaled.
func (c *Camera) Unproject(x, y float64) (float64, float64) {
	inv := c.Projection().Mul4(c.View()).Inv()
	near := inv.Mul4x1(mgl32.Vec4{float32(x), float32(y), -1, 1})
	far := inv.Mul4x1(mgl32.Vec4{float32(x), float32(y), 1, 1})
	a := near.Vec3().Mul(1 / near.W())
	b := far.Vec3().Mul(1 / far.W())

	dz := float64(b.Z() - a.Z())
	if math.Abs(dz) < 1e-9 {
		return x, y
	}
	t := -float64(a.Z()) / dz
	return float64(a.X()) + float64(b.X()-a.X())*t, float64(a.Y()) + float64(b.Y()-a.Y())*t
}

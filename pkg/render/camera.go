package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera projects world-space points onto the framebuffer.
type Camera struct {
	Position mgl32.Vec3

	// Orientation (Euler angles in radians).
	Pitch float32
	Yaw   float32
	Roll  float32

	FOV    float32 // vertical field of view in radians
	Aspect float32 // width / height
	Near   float32
	Far    float32
}

// NewCamera creates a camera with sane projection defaults.
func NewCamera() *Camera {
	return &Camera{
		Position: mgl32.Vec3{0, 0, 5},
		FOV:      math.Pi / 3,
		Aspect:   16.0 / 9.0,
		Near:     0.1,
		Far:      100,
	}
}

// LookAt orients the camera toward a target point.
func (c *Camera) LookAt(target mgl32.Vec3) {
	dir := target.Sub(c.Position).Normalize()
	c.Pitch = float32(math.Asin(float64(dir.Y())))
	c.Yaw = float32(math.Atan2(float64(-dir.X()), float64(-dir.Z())))
	c.Roll = 0
}

// ViewMatrix returns the world-to-camera transform.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	rot := mgl32.HomogRotate3DZ(-c.Roll).
		Mul4(mgl32.HomogRotate3DX(-c.Pitch)).
		Mul4(mgl32.HomogRotate3DY(-c.Yaw))
	trans := mgl32.Translate3D(-c.Position.X(), -c.Position.Y(), -c.Position.Z())
	return rot.Mul4(trans)
}

// ProjectionMatrix returns the perspective projection.
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(c.FOV, c.Aspect, c.Near, c.Far)
}

// WorldToScreen projects a world point to framebuffer coordinates.
// visible is false for points behind the camera or outside the frustum.
func (c *Camera) WorldToScreen(p mgl32.Vec3, width, height int) (x, y float32, visible bool) {
	clip := c.ProjectionMatrix().Mul4(c.ViewMatrix()).Mul4x1(p.Vec4(1))
	if clip.W() <= 0 {
		return 0, 0, false
	}

	ndc := clip.Mul(1 / clip.W())
	if ndc.X() < -1 || ndc.X() > 1 || ndc.Y() < -1 || ndc.Y() > 1 || ndc.Z() < -1 || ndc.Z() > 1 {
		return 0, 0, false
	}

	x = (ndc.X() + 1) * 0.5 * float32(width)
	y = (1 - ndc.Y()) * 0.5 * float32(height) // Y is flipped in screen space
	return x, y, true
}

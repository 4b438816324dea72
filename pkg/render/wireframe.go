package render

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Wireframe draws triangulated geometry as edges.
type Wireframe struct {
	camera *Camera
	fb     *Framebuffer
}

// NewWireframe creates a wireframe renderer.
func NewWireframe(camera *Camera, fb *Framebuffer) *Wireframe {
	return &Wireframe{camera: camera, fb: fb}
}

// DrawLine3D draws a line between two world-space points.
func (w *Wireframe) DrawLine3D(p1, p2 mgl32.Vec3, c Color) {
	x1, y1, vis1 := w.camera.WorldToScreen(p1, w.fb.Width, w.fb.Height)
	x2, y2, vis2 := w.camera.WorldToScreen(p2, w.fb.Width, w.fb.Height)

	// Lines with both endpoints off screen are dropped rather than
	// clipped.
	if !vis1 && !vis2 {
		return
	}
	w.fb.DrawLine(int(x1), int(y1), int(x2), int(y2), c)
}

// DrawTriangles draws the edges of an indexed triangle list after applying
// the model transform. Shared edges are drawn once per triangle; the
// overdraw is harmless for wireframes.
func (w *Wireframe) DrawTriangles(model mgl32.Mat4, positions []mgl32.Vec3, indices []uint32, c Color) {
	world := make([]mgl32.Vec3, len(positions))
	for i, p := range positions {
		world[i] = model.Mul4x1(p.Vec4(1)).Vec3()
	}

	for i := 0; i+2 < len(indices); i += 3 {
		a, b, d := world[indices[i]], world[indices[i+1]], world[indices[i+2]]
		w.DrawLine3D(a, b, c)
		w.DrawLine3D(b, d, c)
		w.DrawLine3D(d, a, c)
	}
}

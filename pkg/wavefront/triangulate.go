package wavefront

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is one entry of a triangulated vertex buffer, with all attributes
// resolved from the owning Obj's pools. Texcoord is zero when the mesh has
// no texture coordinates; Normal is the stated normal or a synthetic flat
// one derived from face winding.
type Vertex struct {
	Position mgl32.Vec3
	Texcoord mgl32.Vec2
	Normal   mgl32.Vec3
}

// Triangulate converts the mesh's polygonal faces into a flat index buffer
// and a deduplicated vertex buffer.
//
// Each face is fan-triangulated from its first vertex: [v0, v1, ..., vk]
// yields (v0, vi, vi+1) for i in 1..k-1. This is exact for convex planar
// polygons, the common case for OBJ; for non-convex or non-planar faces it
// can produce flipped or self-intersecting triangles. Vertices that resolve
// to an identical (position, texcoord, normal) tuple collapse to one buffer
// entry, in first-seen order.
//
// A mesh with no faces triangulates to empty buffers. Triangulation is
// read-only on the owning Obj, so different meshes of one Obj may be
// triangulated concurrently.
func (m *Mesh) Triangulate() ([]uint32, []Vertex, error) {
	if m.obj == nil {
		return nil, nil, &ParseError{
			Kind: ErrTriangulation,
			Msg:  "mesh is not attached to an Obj",
		}
	}

	indices := make([]uint32, 0, len(m.Faces)*3)
	vertices := make([]Vertex, 0, len(m.Faces)*3)
	seen := make(map[Vertex]uint32, len(m.Faces)*3)

	emit := func(v Vertex) uint32 {
		if i, ok := seen[v]; ok {
			return i
		}
		i := uint32(len(vertices))
		vertices = append(vertices, v)
		seen[v] = i
		return i
	}

	for _, face := range m.Faces {
		// The parser guarantees at least 3 distinct vertices and
		// in-range indices. The slash pattern is uniform per face,
		// so checking the first vertex covers all of them.
		var flat mgl32.Vec3
		if face[0].Normal < 0 {
			flat = m.flatNormal(face)
		}
		resolve := func(fv FaceVertex) Vertex {
			v := Vertex{Position: m.obj.Positions[fv.Position]}
			if fv.Texcoord >= 0 {
				v.Texcoord = m.obj.Texcoords[fv.Texcoord]
			}
			if fv.Normal >= 0 {
				v.Normal = m.obj.Normals[fv.Normal]
			} else {
				v.Normal = flat
			}
			return v
		}

		anchor := emit(resolve(face[0]))
		prev := emit(resolve(face[1]))
		for _, fv := range face[2:] {
			next := emit(resolve(fv))
			indices = append(indices, anchor, prev, next)
			prev = next
		}
	}
	return indices, vertices, nil
}

// flatNormal computes a face normal from the winding of the first three
// vertices. Degenerate faces get a zero normal rather than NaNs.
func (m *Mesh) flatNormal(face Face) mgl32.Vec3 {
	p0 := m.obj.Positions[face[0].Position]
	p1 := m.obj.Positions[face[1].Position]
	p2 := m.obj.Positions[face[2].Position]
	n := p1.Sub(p0).Cross(p2.Sub(p0))
	if n.Len() == 0 {
		return mgl32.Vec3{}
	}
	return n.Normalize()
}

// Bounds returns the axis-aligned bounding box of a triangulated vertex
// buffer. Zero vectors for an empty buffer.
func Bounds(vertices []Vertex) (min, max mgl32.Vec3) {
	if len(vertices) == 0 {
		return
	}
	min, max = vertices[0].Position, vertices[0].Position
	for _, v := range vertices[1:] {
		for i := range 3 {
			if v.Position[i] < min[i] {
				min[i] = v.Position[i]
			}
			if v.Position[i] > max[i] {
				max[i] = v.Position[i]
			}
		}
	}
	return min, max
}

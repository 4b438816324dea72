package wavefront

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestTriangulateQuad(t *testing.T) {
	obj := parseObjString(t, strings.Join([]string{
		"v 0 0 0",
		"v 1 0 0",
		"v 1 1 0",
		"v 0 1 0",
		"f 1 2 3 4",
	}, "\n"))

	if len(obj.Positions) != 4 || len(obj.Meshes) != 1 {
		t.Fatalf("positions = %d, meshes = %d", len(obj.Positions), len(obj.Meshes))
	}
	if len(obj.Meshes[0].Faces) != 1 || len(obj.Meshes[0].Faces[0]) != 4 {
		t.Fatalf("faces = %+v", obj.Meshes[0].Faces)
	}

	indices, vertices, err := obj.Meshes[0].Triangulate()
	if err != nil {
		t.Fatalf("Triangulate failed: %v", err)
	}

	wantIdx := []uint32{0, 1, 2, 0, 2, 3}
	if len(indices) != len(wantIdx) {
		t.Fatalf("indices = %v, want %v", indices, wantIdx)
	}
	for i := range wantIdx {
		if indices[i] != wantIdx[i] {
			t.Errorf("indices[%d] = %d, want %d", i, indices[i], wantIdx[i])
		}
	}
	if len(vertices) != 4 {
		t.Fatalf("vertices = %d, want 4", len(vertices))
	}

	// No normals in the file: a synthetic flat normal from the face
	// winding, (0 0 1) for this CCW quad in the XY plane.
	for i, v := range vertices {
		if v.Normal != (mgl32.Vec3{0, 0, 1}) {
			t.Errorf("vertices[%d].Normal = %v, want (0 0 1)", i, v.Normal)
		}
	}
}

// Fan triangulation of a convex k-gon yields k-2 triangles anchored at the
// first vertex.
func TestTriangulateFanCount(t *testing.T) {
	for k := 3; k <= 8; k++ {
		t.Run(fmt.Sprintf("%d-gon", k), func(t *testing.T) {
			var b strings.Builder
			refs := make([]string, k)
			for i := range k {
				a := 2 * math.Pi * float64(i) / float64(k)
				fmt.Fprintf(&b, "v %f %f 0\n", math.Cos(a), math.Sin(a))
				refs[i] = fmt.Sprint(i + 1)
			}
			b.WriteString("f " + strings.Join(refs, " "))

			obj := parseObjString(t, b.String())
			indices, vertices, err := obj.Meshes[0].Triangulate()
			if err != nil {
				t.Fatalf("Triangulate failed: %v", err)
			}
			if len(indices) != 3*(k-2) {
				t.Errorf("indices = %d, want %d", len(indices), 3*(k-2))
			}
			if len(vertices) != k {
				t.Errorf("vertices = %d, want %d", len(vertices), k)
			}
			// Fan order: every triangle starts at the anchor.
			for i := 0; i < len(indices); i += 3 {
				if indices[i] != 0 {
					t.Errorf("triangle %d anchored at %d, want 0", i/3, indices[i])
				}
			}
		})
	}
}

// Distinct index tuples that resolve to identical attribute values collapse
// to a single vertex buffer entry.
func TestTriangulateDeduplication(t *testing.T) {
	obj := parseObjString(t, strings.Join([]string{
		"v 0 0 0",
		"v 1 0 0",
		"v 0 1 0",
		"v 0 1 0", // duplicate of v 3
		"f 1 2 3",
		"f 1 2 4",
	}, "\n"))

	indices, vertices, err := obj.Meshes[0].Triangulate()
	if err != nil {
		t.Fatalf("Triangulate failed: %v", err)
	}
	if len(vertices) != 3 {
		t.Errorf("vertices = %d, want 3 after deduplication", len(vertices))
	}
	if len(indices) != 6 {
		t.Errorf("indices = %d, want 6", len(indices))
	}
}

func TestTriangulateSharedVerticesAcrossFaces(t *testing.T) {
	// Two triangles sharing an edge: 4 unique vertices, not 6.
	obj := parseObjString(t, strings.Join([]string{
		"v 0 0 0", "v 1 0 0", "v 1 1 0", "v 0 1 0",
		"f 1 2 3",
		"f 1 3 4",
	}, "\n"))

	_, vertices, err := obj.Meshes[0].Triangulate()
	if err != nil {
		t.Fatalf("Triangulate failed: %v", err)
	}
	if len(vertices) != 4 {
		t.Errorf("vertices = %d, want 4", len(vertices))
	}
}

func TestTriangulateResolvesAttributes(t *testing.T) {
	obj := parseObjString(t, strings.Join([]string{
		"v 0 0 0", "v 1 0 0", "v 0 1 0",
		"vt 0 0", "vt 1 0", "vt 0 1",
		"vn 0 1 0",
		"f 1/1/1 2/2/1 3/3/1",
	}, "\n"))

	indices, vertices, err := obj.Meshes[0].Triangulate()
	if err != nil {
		t.Fatalf("Triangulate failed: %v", err)
	}
	if len(indices) != 3 || len(vertices) != 3 {
		t.Fatalf("indices = %d, vertices = %d", len(indices), len(vertices))
	}
	// Stated normals pass through untouched.
	for i, v := range vertices {
		if v.Normal != (mgl32.Vec3{0, 1, 0}) {
			t.Errorf("vertices[%d].Normal = %v, want (0 1 0)", i, v.Normal)
		}
	}
	if vertices[1].Texcoord != (mgl32.Vec2{1, 0}) {
		t.Errorf("vertices[1].Texcoord = %v, want (1 0)", vertices[1].Texcoord)
	}
}

func TestTriangulateEmptyMesh(t *testing.T) {
	obj := parseObjString(t, "v 0 0 0\no empty\n")
	if len(obj.Meshes) != 1 {
		t.Fatalf("meshes = %d, want 1", len(obj.Meshes))
	}
	indices, vertices, err := obj.Meshes[0].Triangulate()
	if err != nil {
		t.Fatalf("empty mesh should triangulate to empty buffers, got %v", err)
	}
	if len(indices) != 0 || len(vertices) != 0 {
		t.Errorf("indices = %d, vertices = %d, want 0, 0", len(indices), len(vertices))
	}
}

func TestTriangulateDetachedMesh(t *testing.T) {
	var m Mesh
	_, _, err := m.Triangulate()
	if err == nil {
		t.Fatal("expected error for a mesh without an owning Obj")
	}
	if kind := kindOf(t, err); kind != ErrTriangulation {
		t.Errorf("kind = %v, want %v", kind, ErrTriangulation)
	}
}

func TestBounds(t *testing.T) {
	vertices := []Vertex{
		{Position: mgl32.Vec3{-1, 2, -3}},
		{Position: mgl32.Vec3{4, -5, 6}},
		{Position: mgl32.Vec3{0, 0, 0}},
	}
	min, max := Bounds(vertices)
	if min != (mgl32.Vec3{-1, -5, -3}) {
		t.Errorf("min = %v", min)
	}
	if max != (mgl32.Vec3{4, 2, 6}) {
		t.Errorf("max = %v", max)
	}

	min, max = Bounds(nil)
	if min != (mgl32.Vec3{}) || max != (mgl32.Vec3{}) {
		t.Errorf("empty bounds = %v, %v, want zero vectors", min, max)
	}
}

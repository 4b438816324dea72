// Package wavefront parses Wavefront OBJ geometry files and their companion
// MTL material files, and triangulates polygonal faces for rendering.
//
// The parsers are pure: they take a byte buffer and return a typed model.
// Reading files and resolving mtllib paths relative to the OBJ is the
// caller's job, so the package stays testable and usable in sandboxed
// contexts. Parsing is strict and fails fast on the first structural error,
// but unknown statement keywords are skipped to tolerate vendor extensions
// and non-polygonal content.
package wavefront

import (
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Obj is a parsed OBJ file: three flat attribute pools shared by all meshes,
// plus the meshes in file order. Faces reference the pools by 0-based index,
// already resolved from the file's 1-based (or negative, end-relative) form.
type Obj struct {
	Positions []mgl32.Vec3
	Texcoords []mgl32.Vec2
	Normals   []mgl32.Vec3
	Meshes    []Mesh
}

// Mesh is one named object or group. A mesh holds faces under a single
// material; a usemtl change mid-group starts a new mesh with the same name.
type Mesh struct {
	Name     string // from o/g, empty for the implicit mesh
	MtlLib   string // mtllib filename in effect, empty if none
	Material string // usemtl name in effect when faces were added, empty if none
	Faces    []Face

	obj *Obj // owning model, set by ParseOBJ
}

// Face is an ordered polygon of at least 3 vertices.
type Face []FaceVertex

// FaceVertex references the owning Obj's pools. Texcoord and Normal are -1
// when the face statement omitted them. Within one face all vertices have
// the same set of attributes.
type FaceVertex struct {
	Position int
	Texcoord int
	Normal   int
}

// ParseOBJ parses the contents of an OBJ file. On failure it returns a
// *ParseError carrying the line number and offending statement.
func ParseOBJ(data []byte) (*Obj, error) {
	p := objParser{obj: &Obj{}, cur: -1}
	sc := newScanner(data)
	for {
		st, ok, err := sc.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if err := p.statement(st); err != nil {
			return nil, err
		}
	}
	for i := range p.obj.Meshes {
		p.obj.Meshes[i].obj = p.obj
	}
	return p.obj, nil
}

type objParser struct {
	obj *Obj
	cur int // index of the current mesh in obj.Meshes, -1 before the first

	// Active attributes inherited by meshes created later in the file.
	mtllib   string
	material string
}

func (p *objParser) statement(st statement) *ParseError {
	switch st.keyword {
	case "v":
		v, err := parseFloats3(st)
		if err != nil {
			return err
		}
		// An optional 4th component (w) is accepted; the pool stores
		// only xyz. Vendor color extensions past it are skipped.
		if len(st.args) >= 4 {
			if _, err := strconv.ParseFloat(st.args[3], 32); err != nil {
				return syntaxErr(st, "invalid w component %q", st.args[3])
			}
		}
		p.obj.Positions = append(p.obj.Positions, v)

	case "vt":
		if len(st.args) == 0 {
			return syntaxErr(st, "vt needs at least 1 component")
		}
		var uv mgl32.Vec2
		for i := 0; i < 2 && i < len(st.args); i++ {
			f, err := strconv.ParseFloat(st.args[i], 32)
			if err != nil {
				return syntaxErr(st, "invalid texcoord component %q", st.args[i])
			}
			uv[i] = float32(f)
		}
		p.obj.Texcoords = append(p.obj.Texcoords, uv)

	case "vn":
		// Stored as-is; normalization is the caller's call.
		n, err := parseFloats3(st)
		if err != nil {
			return err
		}
		p.obj.Normals = append(p.obj.Normals, n)

	case "f", "fo":
		face, err := p.parseFace(st)
		if err != nil {
			return err
		}
		if p.cur < 0 {
			p.newMesh("")
		}
		m := &p.obj.Meshes[p.cur]
		m.Faces = append(m.Faces, face)

	case "o", "g":
		if len(st.args) == 0 {
			return syntaxErr(st, "%s needs a name", st.keyword)
		}
		name := strings.Join(st.args, " ")
		if p.cur >= 0 && len(p.obj.Meshes[p.cur].Faces) == 0 {
			// No geometry accumulated yet: rename instead of
			// starting an empty mesh.
			p.obj.Meshes[p.cur].Name = name
		} else {
			p.newMesh(name)
		}

	case "mtllib":
		if len(st.args) == 0 {
			return syntaxErr(st, "mtllib needs a filename")
		}
		p.mtllib = strings.Join(st.args, " ")
		if p.cur >= 0 {
			p.obj.Meshes[p.cur].MtlLib = p.mtllib
		}

	case "usemtl":
		if len(st.args) == 0 {
			return syntaxErr(st, "usemtl needs a name")
		}
		p.material = strings.Join(st.args, " ")
		if p.cur >= 0 {
			m := &p.obj.Meshes[p.cur]
			switch {
			case len(m.Faces) == 0:
				m.Material = p.material
			case m.Material != p.material:
				// Faces already accumulated under another
				// material: split so that each mesh
				// triangulates to single-material geometry.
				p.newMesh(m.Name)
			}
		}

	case "s", "l", "p", "vp", "curv", "curv2", "surf", "end":
		// Recognized, non-polygonal statements: data dropped.

	default:
		// Unknown keyword: skipped, not an error.
	}
	return nil
}

// newMesh appends a mesh inheriting the active mtllib/material and makes it
// current.
func (p *objParser) newMesh(name string) {
	p.obj.Meshes = append(p.obj.Meshes, Mesh{
		Name:     name,
		MtlLib:   p.mtllib,
		Material: p.material,
	})
	p.cur = len(p.obj.Meshes) - 1
}

func (p *objParser) parseFace(st statement) (Face, *ParseError) {
	if len(st.args) < 3 {
		return nil, &ParseError{
			Kind: ErrMalformedFace,
			Line: st.line,
			Stmt: st.text,
			Msg:  "face needs at least 3 vertices",
		}
	}

	face := make(Face, 0, len(st.args))
	pattern := -1
	for _, tok := range st.args {
		fv, pat, err := p.parseFaceVertex(st, tok)
		if err != nil {
			return nil, err
		}
		if pattern < 0 {
			pattern = pat
		} else if pat != pattern {
			return nil, &ParseError{
				Kind: ErrMalformedFace,
				Line: st.line,
				Stmt: st.text,
				Msg:  "mixed vertex reference patterns in one face",
			}
		}
		face = append(face, fv)
	}

	// Repeated references collapse during triangulation, so a face needs
	// at least 3 distinct vertices to produce any geometry.
	distinct := make(map[FaceVertex]struct{}, len(face))
	for _, fv := range face {
		distinct[fv] = struct{}{}
	}
	if len(distinct) < 3 {
		return nil, &ParseError{
			Kind: ErrMalformedFace,
			Line: st.line,
			Stmt: st.text,
			Msg:  "face needs at least 3 distinct vertices",
		}
	}
	return face, nil
}

// parseFaceVertex parses one v, v/vt, v//vn or v/vt/vn reference token and
// resolves its indices against the current pool sizes. pat encodes which
// attributes are present so the caller can reject mixed faces.
func (p *objParser) parseFaceVertex(st statement, tok string) (fv FaceVertex, pat int, err *ParseError) {
	fv = FaceVertex{Texcoord: -1, Normal: -1}

	parts := strings.Split(tok, "/")
	if len(parts) > 3 {
		return fv, 0, syntaxErr(st, "invalid vertex reference %q", tok)
	}

	fv.Position, err = p.resolveIndex(st, parts[0], len(p.obj.Positions), "position")
	if err != nil {
		return fv, 0, err
	}
	if len(parts) > 1 && parts[1] != "" {
		fv.Texcoord, err = p.resolveIndex(st, parts[1], len(p.obj.Texcoords), "texcoord")
		if err != nil {
			return fv, 0, err
		}
		pat |= 1
	}
	if len(parts) > 2 {
		if parts[2] == "" {
			return fv, 0, syntaxErr(st, "invalid vertex reference %q", tok)
		}
		fv.Normal, err = p.resolveIndex(st, parts[2], len(p.obj.Normals), "normal")
		if err != nil {
			return fv, 0, err
		}
		pat |= 2
	} else if len(parts) == 2 && parts[1] == "" {
		// "1/" has a slash but no texcoord.
		return fv, 0, syntaxErr(st, "invalid vertex reference %q", tok)
	}
	return fv, pat, nil
}

// resolveIndex turns a 1-based or negative end-relative wire index into a
// 0-based pool index, bounds-checked against the pool size at this point in
// the file.
func (p *objParser) resolveIndex(st statement, s string, size int, what string) (int, *ParseError) {
	i, err := strconv.Atoi(s)
	if err != nil || i == 0 {
		return 0, syntaxErr(st, "invalid %s index %q", what, s)
	}
	idx := i - 1
	if i < 0 {
		idx = size + i
	}
	if idx < 0 || idx >= size {
		return 0, &ParseError{
			Kind: ErrIndexOutOfRange,
			Line: st.line,
			Stmt: st.text,
			Msg:  what + " index " + s + " out of range",
		}
	}
	return idx, nil
}

// parseFloats3 parses the first three arguments as floats; extra arguments
// past any handled by the caller are tolerated.
func parseFloats3(st statement) (mgl32.Vec3, *ParseError) {
	var v mgl32.Vec3
	if len(st.args) < 3 {
		return v, syntaxErr(st, "%s needs 3 components", st.keyword)
	}
	for i := range 3 {
		f, err := strconv.ParseFloat(st.args[i], 32)
		if err != nil {
			return v, syntaxErr(st, "invalid component %q", st.args[i])
		}
		v[i] = float32(f)
	}
	return v, nil
}

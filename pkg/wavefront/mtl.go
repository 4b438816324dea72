package wavefront

import (
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
)

// Mtl is a parsed MTL file: materials keyed by name, iteration in file order.
type Mtl struct {
	byName map[string]*Material
	names  []string
}

// Get returns the named material, or nil when the file does not define it.
func (m *Mtl) Get(name string) *Material {
	return m.byName[name]
}

// Names returns the material names in the order they were defined.
func (m *Mtl) Names() []string {
	return m.names
}

// Len returns the number of materials.
func (m *Mtl) Len() int {
	return len(m.names)
}

// Material holds the fields of one newmtl block. MTL statements are sparse
// by convention, so every field is independently optional: a nil pointer
// means "not stated", which is distinct from a zero value.
type Material struct {
	// Phong fields.
	Ambient   *mgl32.Vec3 // Ka
	Diffuse   *mgl32.Vec3 // Kd
	Specular  *mgl32.Vec3 // Ks
	Filter    *mgl32.Vec3 // Tf, transmission filter
	Exponent  *float32    // Ns, specular exponent
	Density   *float32    // Ni, optical density
	Dissolve  *float32    // d, or 1-Tr
	Halo      bool        // d -halo flag
	Sharpness *float32    // sharpness
	Illum     *int        // illum

	// PBR extension fields.
	Roughness          *float32    // Pr
	Metallic           *float32    // Pm
	Sheen              *float32    // Ps
	ClearcoatThickness *float32    // Pc
	ClearcoatRoughness *float32    // Pcr
	Emissive           *mgl32.Vec3 // Ke
	Anisotropy         *float32    // aniso
	AnisotropyRotation *float32    // anisor

	// Texture map filenames. Option flags preceding the filename are
	// tolerated and dropped; empty string means "not stated".
	AmbientMap      string // map_Ka
	DiffuseMap      string // map_Kd
	SpecularMap     string // map_Ks
	ExponentMap     string // map_Ns
	DissolveMap     string // map_d
	DecalMap        string // decal
	DisplacementMap string // disp
	BumpMap         string // bump, map_bump
	NormalMap       string // norm
	RoughnessMap    string // map_Pr
	MetallicMap     string // map_Pm
	SheenMap        string // map_Ps
	EmissiveMap     string // map_Ke
}

// ParseMTL parses the contents of an MTL file. On failure it returns a
// *ParseError carrying the line number and offending statement.
func ParseMTL(data []byte) (*Mtl, error) {
	mtl := &Mtl{byName: make(map[string]*Material)}
	var cur *Material

	sc := newScanner(data)
	for {
		st, ok, err := sc.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return mtl, nil
		}

		if st.keyword == "newmtl" {
			if len(st.args) == 0 {
				return nil, syntaxErr(st, "newmtl needs a name")
			}
			name := st.args[0]
			cur = &Material{}
			if _, dup := mtl.byName[name]; !dup {
				mtl.names = append(mtl.names, name)
			}
			// A duplicate name overwrites the earlier definition
			// with a fresh material; it keeps its position in the
			// iteration order.
			mtl.byName[name] = cur
			continue
		}
		if cur == nil {
			if known := mtlField(st.keyword); known {
				return nil, &ParseError{
					Kind: ErrUndefinedMaterialField,
					Line: st.line,
					Stmt: st.text,
					Msg:  st.keyword + " before any newmtl",
				}
			}
			continue // unknown keyword outside any material
		}
		if err := parseMaterialField(cur, st); err != nil {
			return nil, err
		}
	}
}

// mtlField reports whether keyword is a recognized material field statement.
func mtlField(keyword string) bool {
	switch keyword {
	case "Ka", "Kd", "Ks", "Tf", "Ns", "Ni", "d", "Tr", "sharpness", "illum",
		"Pr", "Pm", "Ps", "Pc", "Pcr", "Ke", "aniso", "anisor",
		"map_Ka", "map_Kd", "map_Ks", "map_Ns", "map_d", "decal", "disp",
		"bump", "map_bump", "norm", "map_Pr", "map_Pm", "map_Ps", "map_Ke":
		return true
	}
	return false
}

func parseMaterialField(m *Material, st statement) *ParseError {
	switch st.keyword {
	case "Ka":
		return parseColor(&m.Ambient, st)
	case "Kd":
		return parseColor(&m.Diffuse, st)
	case "Ks":
		return parseColor(&m.Specular, st)
	case "Tf":
		return parseColor(&m.Filter, st)
	case "Ke":
		return parseColor(&m.Emissive, st)

	case "Ns":
		return parseScalar(&m.Exponent, st)
	case "Ni":
		return parseScalar(&m.Density, st)
	case "sharpness":
		return parseScalar(&m.Sharpness, st)
	case "Pr":
		return parseScalar(&m.Roughness, st)
	case "Pm":
		return parseScalar(&m.Metallic, st)
	case "Ps":
		return parseScalar(&m.Sheen, st)
	case "Pc":
		return parseScalar(&m.ClearcoatThickness, st)
	case "Pcr":
		return parseScalar(&m.ClearcoatRoughness, st)
	case "aniso":
		return parseScalar(&m.Anisotropy, st)
	case "anisor":
		return parseScalar(&m.AnisotropyRotation, st)

	case "d":
		if len(st.args) > 0 && st.args[0] == "-halo" {
			m.Halo = true
			st.args = st.args[1:]
		}
		return parseScalar(&m.Dissolve, st)
	case "Tr":
		// Tr is inverted transparency: store as dissolve.
		var tr *float32
		if err := parseScalar(&tr, st); err != nil {
			return err
		}
		d := 1 - *tr
		m.Dissolve = &d
		return nil

	case "illum":
		if len(st.args) == 0 {
			return syntaxErr(st, "illum needs a model number")
		}
		n, err := strconv.Atoi(st.args[0])
		if err != nil {
			return syntaxErr(st, "invalid illumination model %q", st.args[0])
		}
		m.Illum = &n
		return nil

	case "map_Ka":
		return parseMap(&m.AmbientMap, st)
	case "map_Kd":
		return parseMap(&m.DiffuseMap, st)
	case "map_Ks":
		return parseMap(&m.SpecularMap, st)
	case "map_Ns":
		return parseMap(&m.ExponentMap, st)
	case "map_d":
		return parseMap(&m.DissolveMap, st)
	case "decal":
		return parseMap(&m.DecalMap, st)
	case "disp":
		return parseMap(&m.DisplacementMap, st)
	case "bump", "map_bump":
		return parseMap(&m.BumpMap, st)
	case "norm":
		return parseMap(&m.NormalMap, st)
	case "map_Pr":
		return parseMap(&m.RoughnessMap, st)
	case "map_Pm":
		return parseMap(&m.MetallicMap, st)
	case "map_Ps":
		return parseMap(&m.SheenMap, st)
	case "map_Ke":
		return parseMap(&m.EmissiveMap, st)

	default:
		// Unknown field keyword: skipped, not an error.
		return nil
	}
}

// parseColor parses a color triple. One component means r=g=b; anything
// other than 1 or 3 components is an error.
func parseColor(dst **mgl32.Vec3, st statement) *ParseError {
	if len(st.args) != 1 && len(st.args) != 3 {
		return syntaxErr(st, "%s needs 1 or 3 components, got %d", st.keyword, len(st.args))
	}
	var c mgl32.Vec3
	for i, a := range st.args {
		f, err := strconv.ParseFloat(a, 32)
		if err != nil {
			return syntaxErr(st, "invalid color component %q", a)
		}
		c[i] = float32(f)
	}
	if len(st.args) == 1 {
		c[1], c[2] = c[0], c[0]
	}
	*dst = &c
	return nil
}

func parseScalar(dst **float32, st statement) *ParseError {
	if len(st.args) == 0 {
		return syntaxErr(st, "%s needs a value", st.keyword)
	}
	f, err := strconv.ParseFloat(st.args[0], 32)
	if err != nil {
		return syntaxErr(st, "invalid value %q", st.args[0])
	}
	v := float32(f)
	*dst = &v
	return nil
}

// parseMap extracts the texture filename: always the final token, with any
// option flags (-o, -s, -bm, ...) before it tolerated and dropped.
func parseMap(dst *string, st statement) *ParseError {
	if len(st.args) == 0 {
		return syntaxErr(st, "%s needs a filename", st.keyword)
	}
	*dst = st.args[len(st.args)-1]
	return nil
}

package wavefront

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func parseMtlString(t *testing.T, src string) *Mtl {
	t.Helper()
	mtl, err := ParseMTL([]byte(src))
	if err != nil {
		t.Fatalf("ParseMTL failed: %v", err)
	}
	return mtl
}

func TestParseMTLBasic(t *testing.T) {
	mtl := parseMtlString(t, strings.Join([]string{
		"newmtl M",
		"Kd 1 0 0",
		"Pm 0.5",
	}, "\n"))

	m := mtl.Get("M")
	if m == nil {
		t.Fatal("Get(M) = nil")
	}
	if m.Diffuse == nil || *m.Diffuse != (mgl32.Vec3{1, 0, 0}) {
		t.Errorf("diffuse = %v, want (1 0 0)", m.Diffuse)
	}
	if m.Metallic == nil || *m.Metallic != 0.5 {
		t.Errorf("metallic = %v, want 0.5", m.Metallic)
	}
	// Unstated fields stay nil, distinguishable from zero values.
	if m.Ambient != nil || m.Roughness != nil {
		t.Errorf("unstated fields should be nil: Ka=%v Pr=%v", m.Ambient, m.Roughness)
	}
	if mtl.Get("X") != nil {
		t.Error("Get(X) should be nil for an undefined material")
	}
}

func TestParseMTLFieldBeforeNewmtl(t *testing.T) {
	_, err := ParseMTL([]byte("Kd 1 0 0\nnewmtl M\n"))
	if err == nil {
		t.Fatal("expected error for field before newmtl")
	}
	if kind := kindOf(t, err); kind != ErrUndefinedMaterialField {
		t.Errorf("kind = %v, want %v", kind, ErrUndefinedMaterialField)
	}
}

func TestParseMTLColorArity(t *testing.T) {
	// One component expands to r=g=b.
	mtl := parseMtlString(t, "newmtl M\nKa 0.25\n")
	if a := mtl.Get("M").Ambient; a == nil || *a != (mgl32.Vec3{0.25, 0.25, 0.25}) {
		t.Errorf("ambient = %v, want (0.25 0.25 0.25)", a)
	}

	// Two components is an arity error.
	_, err := ParseMTL([]byte("newmtl M\nKs 0.5 0.5\n"))
	if err == nil || kindOf(t, err) != ErrSyntax {
		t.Errorf("Ks with 2 components: got %v, want syntax error", err)
	}
}

func TestParseMTLTransparency(t *testing.T) {
	mtl := parseMtlString(t, "newmtl a\nd 0.25\nnewmtl b\nTr 0.25\nnewmtl c\nd -halo 0.5\n")

	if d := mtl.Get("a").Dissolve; d == nil || *d != 0.25 {
		t.Errorf("d = %v, want 0.25", d)
	}
	// Tr is inverted transparency.
	if d := mtl.Get("b").Dissolve; d == nil || *d != 0.75 {
		t.Errorf("Tr 0.25 should store dissolve 0.75, got %v", d)
	}
	c := mtl.Get("c")
	if !c.Halo || c.Dissolve == nil || *c.Dissolve != 0.5 {
		t.Errorf("d -halo 0.5: halo=%v dissolve=%v", c.Halo, c.Dissolve)
	}
}

func TestParseMTLTextureMapOptions(t *testing.T) {
	// The filename is always the final token; option flags are dropped.
	mtl := parseMtlString(t, strings.Join([]string{
		"newmtl M",
		"map_Kd -o 0.1 0.1 0 -s 2 2 1 diffuse.png",
		"map_bump -bm 0.8 bump.png",
		"norm normal.png",
		"disp height.png",
	}, "\n"))

	m := mtl.Get("M")
	if m.DiffuseMap != "diffuse.png" {
		t.Errorf("map_Kd = %q, want diffuse.png", m.DiffuseMap)
	}
	if m.BumpMap != "bump.png" {
		t.Errorf("map_bump = %q, want bump.png", m.BumpMap)
	}
	if m.NormalMap != "normal.png" {
		t.Errorf("norm = %q, want normal.png", m.NormalMap)
	}
	if m.DisplacementMap != "height.png" {
		t.Errorf("disp = %q, want height.png", m.DisplacementMap)
	}
}

func TestParseMTLDuplicateNewmtl(t *testing.T) {
	// The later definition wins and starts fresh; iteration order keeps
	// the original position.
	mtl := parseMtlString(t, strings.Join([]string{
		"newmtl M",
		"Kd 1 0 0",
		"Ns 10",
		"newmtl N",
		"newmtl M",
		"Kd 0 1 0",
	}, "\n"))

	m := mtl.Get("M")
	if m.Diffuse == nil || *m.Diffuse != (mgl32.Vec3{0, 1, 0}) {
		t.Errorf("diffuse = %v, want (0 1 0)", m.Diffuse)
	}
	if m.Exponent != nil {
		t.Errorf("redefinition should start fresh, Ns = %v", *m.Exponent)
	}
	if names := mtl.Names(); len(names) != 2 || names[0] != "M" || names[1] != "N" {
		t.Errorf("names = %v, want [M N]", names)
	}
}

func TestParseMTLIterationOrder(t *testing.T) {
	mtl := parseMtlString(t, "newmtl c\nnewmtl a\nnewmtl b\n")
	want := []string{"c", "a", "b"}
	names := mtl.Names()
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
	if mtl.Len() != 3 {
		t.Errorf("len = %d, want 3", mtl.Len())
	}
}

func TestParseMTLPBRFields(t *testing.T) {
	mtl := parseMtlString(t, strings.Join([]string{
		"newmtl M",
		"Pr 0.4",
		"Ps 0.1",
		"Pc 1.0",
		"Pcr 0.03",
		"Ke 0.1 0.2 0.3",
		"aniso 0.5",
		"anisor 0.25",
		"illum 2",
		"map_Pr rough.png",
		"map_Ke glow.png",
	}, "\n"))

	m := mtl.Get("M")
	if m.Roughness == nil || *m.Roughness != 0.4 {
		t.Errorf("Pr = %v", m.Roughness)
	}
	if m.Sheen == nil || *m.Sheen != 0.1 {
		t.Errorf("Ps = %v", m.Sheen)
	}
	if m.ClearcoatThickness == nil || *m.ClearcoatThickness != 1.0 {
		t.Errorf("Pc = %v", m.ClearcoatThickness)
	}
	if m.ClearcoatRoughness == nil || *m.ClearcoatRoughness != 0.03 {
		t.Errorf("Pcr = %v", m.ClearcoatRoughness)
	}
	if m.Emissive == nil || *m.Emissive != (mgl32.Vec3{0.1, 0.2, 0.3}) {
		t.Errorf("Ke = %v", m.Emissive)
	}
	if m.Anisotropy == nil || *m.Anisotropy != 0.5 {
		t.Errorf("aniso = %v", m.Anisotropy)
	}
	if m.AnisotropyRotation == nil || *m.AnisotropyRotation != 0.25 {
		t.Errorf("anisor = %v", m.AnisotropyRotation)
	}
	if m.Illum == nil || *m.Illum != 2 {
		t.Errorf("illum = %v", m.Illum)
	}
	if m.RoughnessMap != "rough.png" || m.EmissiveMap != "glow.png" {
		t.Errorf("maps = %q, %q", m.RoughnessMap, m.EmissiveMap)
	}
}

func TestParseMTLUnknownFieldsIgnored(t *testing.T) {
	mtl := parseMtlString(t, "newmtl M\nKd 1 1 1\nvendor_ext 1 2 3\n")
	if mtl.Get("M").Diffuse == nil {
		t.Error("known fields around unknown ones should still parse")
	}
}

func TestParseMTLEmptyInput(t *testing.T) {
	mtl := parseMtlString(t, "# nothing but comments\n\n")
	if mtl.Len() != 0 {
		t.Errorf("len = %d, want 0", mtl.Len())
	}
}

// obj2gltf - Convert Wavefront OBJ/MTL files to glTF.
//
// The OBJ parser never touches the filesystem; this tool does the caller
// side of the contract: it reads the OBJ bytes, resolves each mesh's mtllib
// reference relative to the OBJ's location, parses the material libraries
// separately and joins them to meshes by material name.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/wavefront/pkg/wavefront"
)

var (
	outPath = flag.String("o", "", "Output path (.glb or .gltf, default input with .glb)")
	verbose = flag.Bool("v", false, "Print model statistics")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "obj2gltf - Convert Wavefront OBJ/MTL to glTF\n\n")
		fmt.Fprintf(os.Stderr, "Usage: obj2gltf [options] <model.obj>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(objPath string) error {
	data, err := os.ReadFile(objPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	start := time.Now()
	obj, err := wavefront.ParseOBJ(data)
	if err != nil {
		return fmt.Errorf("parse %s: %w", objPath, err)
	}
	if *verbose {
		fmt.Printf("Parsed %s in %v\n", filepath.Base(objPath), time.Since(start))
		fmt.Printf("  positions: %d, texcoords: %d, normals: %d, meshes: %d\n",
			len(obj.Positions), len(obj.Texcoords), len(obj.Normals), len(obj.Meshes))
	}

	materials := loadMaterialLibs(obj, filepath.Dir(objPath))

	out := *outPath
	if out == "" {
		out = strings.TrimSuffix(objPath, filepath.Ext(objPath)) + ".glb"
	}

	doc, err := buildDocument(obj, materials)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(out)) {
	case ".glb":
		err = gltf.SaveBinary(doc, out)
	case ".gltf":
		err = gltf.Save(doc, out)
	default:
		return fmt.Errorf("unsupported output format: %s (use .glb or .gltf)", out)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	if *verbose {
		fmt.Printf("Wrote %s (%d meshes, %d materials)\n", out, len(doc.Meshes), len(doc.Materials))
	}
	return nil
}

// loadMaterialLibs parses every mtllib referenced by the model, resolved
// relative to the OBJ's directory. Unreadable or broken libraries are
// reported and skipped; the geometry still converts without them.
func loadMaterialLibs(obj *wavefront.Obj, dir string) map[string]*wavefront.Material {
	materials := make(map[string]*wavefront.Material)
	seen := make(map[string]bool)

	for _, mesh := range obj.Meshes {
		lib := mesh.MtlLib
		if lib == "" || seen[lib] {
			continue
		}
		seen[lib] = true

		data, err := os.ReadFile(filepath.Join(dir, lib))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: skipping mtllib %s: %v\n", lib, err)
			continue
		}
		mtl, err := wavefront.ParseMTL(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: skipping mtllib %s: %v\n", lib, err)
			continue
		}
		for _, name := range mtl.Names() {
			if _, dup := materials[name]; !dup {
				materials[name] = mtl.Get(name)
			}
		}
	}
	return materials
}

func buildDocument(obj *wavefront.Obj, materials map[string]*wavefront.Material) (*gltf.Document, error) {
	doc := gltf.NewDocument()
	matIndex := make(map[string]int)

	for i := range obj.Meshes {
		mesh := &obj.Meshes[i]
		indices, vertices, err := mesh.Triangulate()
		if err != nil {
			return nil, fmt.Errorf("triangulate mesh %q: %w", mesh.Name, err)
		}
		if len(indices) == 0 {
			continue
		}

		positions := make([][3]float32, len(vertices))
		normals := make([][3]float32, len(vertices))
		for j, v := range vertices {
			positions[j] = v.Position
			normals[j] = v.Normal
		}

		prim := &gltf.Primitive{
			Indices: gltf.Index(modeler.WriteIndices(doc, indices)),
			Attributes: gltf.PrimitiveAttributes{
				gltf.POSITION: modeler.WritePosition(doc, positions),
				gltf.NORMAL:   modeler.WriteNormal(doc, normals),
			},
		}

		// TEXCOORD_0 only when the mesh actually references texcoords;
		// faces without them resolve to a zero UV.
		if meshHasTexcoords(mesh) {
			uvs := make([][2]float32, len(vertices))
			for j, v := range vertices {
				uvs[j] = v.Texcoord
			}
			prim.Attributes[gltf.TEXCOORD_0] = modeler.WriteTextureCoord(doc, uvs)
		}

		if mat, ok := materials[mesh.Material]; ok && mesh.Material != "" {
			idx, cached := matIndex[mesh.Material]
			if !cached {
				doc.Materials = append(doc.Materials, convertMaterial(mesh.Material, mat))
				idx = len(doc.Materials) - 1
				matIndex[mesh.Material] = idx
			}
			prim.Material = gltf.Index(idx)
		}

		name := mesh.Name
		if name == "" {
			name = fmt.Sprintf("mesh_%d", i)
		}
		doc.Meshes = append(doc.Meshes, &gltf.Mesh{
			Name:       name,
			Primitives: []*gltf.Primitive{prim},
		})
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name: name,
			Mesh: gltf.Index(len(doc.Meshes) - 1),
		})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	}
	return doc, nil
}

func meshHasTexcoords(mesh *wavefront.Mesh) bool {
	for _, face := range mesh.Faces {
		if face[0].Texcoord >= 0 {
			return true
		}
	}
	return false
}

// convertMaterial maps MTL fields onto glTF metallic-roughness. Unstated MTL
// fields fall back to values that keep legacy Phong materials visible:
// metallic 0 and roughness 1.
func convertMaterial(name string, m *wavefront.Material) *gltf.Material {
	base := [4]float64{1, 1, 1, 1}
	if m.Diffuse != nil {
		base[0] = float64(m.Diffuse.X())
		base[1] = float64(m.Diffuse.Y())
		base[2] = float64(m.Diffuse.Z())
	}
	alphaMode := gltf.AlphaOpaque
	if m.Dissolve != nil {
		base[3] = float64(*m.Dissolve)
		if *m.Dissolve < 1 {
			alphaMode = gltf.AlphaBlend
		}
	}

	metallic, roughness := 0.0, 1.0
	if m.Metallic != nil {
		metallic = float64(*m.Metallic)
	}
	if m.Roughness != nil {
		roughness = float64(*m.Roughness)
	}

	out := &gltf.Material{
		Name: name,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &base,
			MetallicFactor:  gltf.Float(metallic),
			RoughnessFactor: gltf.Float(roughness),
		},
		AlphaMode: alphaMode,
	}
	if m.Emissive != nil {
		out.EmissiveFactor = [3]float64{
			float64(m.Emissive.X()),
			float64(m.Emissive.Y()),
			float64(m.Emissive.Z()),
		}
	}
	return out
}

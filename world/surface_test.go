package world

import (
	"errors"
	"testing"

	"github.com/riicchhaarrd/iocod/bspfile"
)

func fileMaterial(name string, surfaceFlags int32) bspfile.Material {
	m := bspfile.Material{SurfaceFlags: surfaceFlags}
	copy(m.Name[:], name)
	return m
}

// quadSoup is one surface: a unit quad over four vertices and six
// indices, all local to the soup.
func quadSoup() *bspfile.MapData {
	m := &bspfile.MapData{
		Materials: []bspfile.Material{
			fileMaterial("textures/normandy/wall", 0),
			fileMaterial("textures/normandy/sky", SurfaceSky),
		},
		TriangleSoups: []bspfile.TriangleSoup{
			{MaterialIndex: 0, VertsOffset: 0, VertsLength: 4, TrisOffset: 0, TrisLength: 6},
		},
		Triangles: []uint16{0, 1, 2, 0, 2, 3},
	}
	positions := [][3]float32{{0, 0, 0}, {64, 0, 0}, {64, 64, 0}, {0, 64, 0}}
	for _, p := range positions {
		m.Vertices = append(m.Vertices, bspfile.Vertex{
			Position: p,
			Color:    [4]uint8{10, 20, 30, 255},
		})
	}
	return m
}

func buildQuadWorld(t *testing.T, m *bspfile.MapData, cfg *Config) *World {
	t.Helper()
	w := &World{}
	buildMaterials(m, w)
	if err := buildSurfaces(m, w, cfg); err != nil {
		t.Fatal(err)
	}
	return w
}

func TestBuildSurfaces(t *testing.T) {
	cfg := testConfig()
	cfg.ResolveShader = func(name string) uint32 {
		if name == "textures/normandy/wall" {
			return 7
		}
		return 0
	}

	w := buildQuadWorld(t, quadSoup(), cfg)

	if len(w.Surfaces) != 1 {
		t.Fatalf("got %v surfaces, want 1", len(w.Surfaces))
	}
	surf := &w.Surfaces[0]
	if surf.MaterialIndex != 0 || surf.Shader != 7 {
		t.Errorf("material = %v, shader = %v", surf.MaterialIndex, surf.Shader)
	}
	if surf.Geometry.VertexCount() != 4 || surf.Geometry.IndexCount() != 6 {
		t.Errorf("geometry = %v verts, %v indices",
			surf.Geometry.VertexCount(), surf.Geometry.IndexCount())
	}
	if surf.Mins != [3]float32{0, 0, 0} || surf.Maxs != [3]float32{64, 64, 0} {
		t.Errorf("bounds = %v..%v", surf.Mins, surf.Maxs)
	}

	// Default color shift scales vertex colors up.
	list := surf.Geometry.(*TriangleList)
	if list.Verts[0].Color != [4]uint8{40, 80, 120, 255} {
		t.Errorf("vertex color = %v", list.Verts[0].Color)
	}
}

func TestBuildSurfacesMaterialOutOfRange(t *testing.T) {
	m := quadSoup()
	m.TriangleSoups[0].MaterialIndex = 9

	cfg := testConfig()
	cfg.DefaultShader = 3
	cfg.ResolveShader = func(string) uint32 {
		t.Fatal("resolved a shader for a missing material")
		return 0
	}

	w := buildQuadWorld(t, m, cfg)
	if w.Surfaces[0].MaterialIndex != -1 || w.Surfaces[0].Shader != 3 {
		t.Errorf("surface = %+v", w.Surfaces[0])
	}
}

func TestBuildSurfacesForceDefaultShader(t *testing.T) {
	m := quadSoup()
	m.TriangleSoups = append(m.TriangleSoups, bspfile.TriangleSoup{
		MaterialIndex: 1, VertsLength: 4, TrisLength: 6,
	})

	cfg := testConfig()
	cfg.ForceDefaultShader = true
	cfg.DefaultShader = 3
	cfg.ResolveShader = func(string) uint32 { return 7 }

	w := buildQuadWorld(t, m, cfg)
	if w.Surfaces[0].Shader != 3 {
		t.Errorf("wall shader = %v, want forced 3", w.Surfaces[0].Shader)
	}
	// Sky surfaces keep their own shader even when forcing.
	if w.Surfaces[1].Shader != 7 {
		t.Errorf("sky shader = %v, want 7", w.Surfaces[1].Shader)
	}
}

func TestBuildSurfacesBadVertexRange(t *testing.T) {
	m := quadSoup()
	m.TriangleSoups[0].VertsLength = 50

	w := &World{}
	buildMaterials(m, w)
	err := buildSurfaces(m, w, testConfig())
	var fe *bspfile.FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FormatError, got %v", err)
	}
	if fe.Lump != "trianglesoups" {
		t.Errorf("error lump = %q", fe.Lump)
	}
}

func TestBuildSurfacesBadTriangleIndex(t *testing.T) {
	m := quadSoup()
	m.Triangles[3] = 4 // one past the soup's vertex block

	w := &World{}
	buildMaterials(m, w)
	err := buildSurfaces(m, w, testConfig())
	var fe *bspfile.FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FormatError, got %v", err)
	}
	if fe.Lump != "triangles" {
		t.Errorf("error lump = %q", fe.Lump)
	}
}

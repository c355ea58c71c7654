package bspfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// fileBuilder assembles a synthetic level file: a header whose directory
// points at the payloads appended after it.
type fileBuilder struct {
	lumps [HeaderLumps][]byte
}

func (b *fileBuilder) setLump(index int, records ...interface{}) {
	var buf bytes.Buffer
	for _, r := range records {
		if err := binary.Write(&buf, binary.LittleEndian, r); err != nil {
			panic(err)
		}
	}
	b.lumps[index] = buf.Bytes()
}

func (b *fileBuilder) setRaw(index int, data []byte) {
	b.lumps[index] = data
}

func (b *fileBuilder) bytes() []byte {
	header := Header{Magic: [4]byte{'I', 'B', 'S', 'P'}, Version: Version}
	headerSize := binary.Size(header)

	offset := uint32(headerSize)
	for i, data := range b.lumps {
		header.Lumps[i] = Lump{Length: uint32(len(data)), Offset: offset}
		offset += uint32(len(data))
	}

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, header); err != nil {
		panic(err)
	}
	for _, data := range b.lumps {
		buf.Write(data)
	}
	return buf.Bytes()
}

func namedMaterial(name string, surfaceFlags, contentFlags int32) Material {
	m := Material{SurfaceFlags: surfaceFlags, ContentFlags: contentFlags}
	copy(m.Name[:], name)
	return m
}

// minimalFile is the smallest file LoadBSP accepts: one material,
// everything else empty.
func minimalFile() *fileBuilder {
	b := &fileBuilder{}
	b.setLump(LumpMaterials, namedMaterial("textures/common/caulk", 0, 0))
	return b
}

func TestLoadBSPTruncatedHeader(t *testing.T) {
	if _, err := LoadBSP([]byte("IBSP")); err == nil {
		t.Fatal("expected error for file smaller than header")
	}
}

func TestLoadBSPWrongMagic(t *testing.T) {
	data := minimalFile().bytes()
	copy(data, "VBSP")

	_, err := LoadBSP(data)
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FormatError, got %v", err)
	}
	if fe.Lump != "header" {
		t.Errorf("error lump = %q, want header", fe.Lump)
	}
}

func TestLoadBSPWrongVersion(t *testing.T) {
	data := minimalFile().bytes()
	binary.LittleEndian.PutUint32(data[4:], 46)

	_, err := LoadBSP(data)
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FormatError, got %v", err)
	}
}

func TestLoadBSPNoMaterials(t *testing.T) {
	b := &fileBuilder{}
	_, err := LoadBSP(b.bytes())
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FormatError, got %v", err)
	}
	if fe.Lump != "materials" {
		t.Errorf("error lump = %q, want materials", fe.Lump)
	}
}

func TestLoadBSPLumpPastEOF(t *testing.T) {
	data := minimalFile().bytes()
	// Inflate the materials lump length beyond the file.
	lumpDir := 8 + LumpMaterials*8
	binary.LittleEndian.PutUint32(data[lumpDir:], uint32(len(data))*2)

	_, err := LoadBSP(data)
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FormatError, got %v", err)
	}
	if fe.Lump != "materials" {
		t.Errorf("error lump = %q, want materials", fe.Lump)
	}
}

func TestLoadBSPFunnyLumpSize(t *testing.T) {
	lumps := []struct {
		name       string
		index      int
		recordSize int
	}{
		{"materials", LumpMaterials, materialSize},
		{"planes", LumpPlanes, planeSize},
		{"trianglesoups", LumpTriangleSoups, triangleSoupSize},
		{"vertices", LumpVertices, vertexSize},
		{"triangles", LumpTriangles, triangleSize},
		{"leafsurfaces", LumpLeafSurfaces, leafSurfaceSize},
		{"nodes", LumpNodes, nodeSize},
		{"leafs", LumpLeafs, leafSize},
		{"models", LumpModels, modelSize},
	}

	for _, tc := range lumps {
		b := minimalFile()
		b.setRaw(tc.index, make([]byte, tc.recordSize+1))

		_, err := LoadBSP(b.bytes())
		var fe *FormatError
		if !errors.As(err, &fe) {
			t.Fatalf("%v: expected FormatError, got %v", tc.name, err)
		}
		if fe.Lump != tc.name {
			t.Errorf("%v: error lump = %q", tc.name, fe.Lump)
		}
	}
}

func TestLoadBSPDecodesLumps(t *testing.T) {
	b := &fileBuilder{}
	b.setLump(LumpMaterials,
		namedMaterial("textures/normandy/wall", 0x4, 0x1),
		namedMaterial("textures/normandy/floor", 0, 0))
	b.setLump(LumpPlanes,
		Plane{Normal: [3]float32{0, 0, 1}, Distance: 64},
		Plane{Normal: [3]float32{1, 0, 0}, Distance: -32})
	b.setLump(LumpTriangleSoups, TriangleSoup{
		MaterialIndex: 1,
		VertsOffset:   0,
		VertsLength:   4,
		TrisOffset:    0,
		TrisLength:    6,
	})
	verts := make([]Vertex, 4)
	for i := range verts {
		verts[i].Position = [3]float32{float32(i), 0, 0}
	}
	b.setLump(LumpVertices, verts)
	b.setLump(LumpTriangles, []uint16{0, 1, 2, 0, 2, 3})
	b.setLump(LumpLeafSurfaces, []int32{0})
	b.setLump(LumpNodes, Node{
		Mins:     [3]int32{-64, -64, -64},
		Maxs:     [3]int32{64, 64, 64},
		Plane:    0,
		Children: [2]int32{-1, -2},
	})
	b.setLump(LumpLeafs,
		Leaf{Cluster: 0, Area: 0, FirstLeafSurface: 0, NumLeafSurfaces: 1},
		Leaf{Cluster: 1, Area: 0, FirstLeafSurface: 0, NumLeafSurfaces: 0})
	b.setRaw(LumpVisibility, []byte{0xff})
	b.setLump(LumpModels, Model{
		Mins:        [3]float32{-64, -64, -64},
		Maxs:        [3]float32{64, 64, 64},
		NumSurfaces: 1,
	})
	b.setRaw(LumpEntities, []byte(`{"classname" "worldspawn"}`))

	m, err := LoadBSP(b.bytes())
	if err != nil {
		t.Fatal(err)
	}

	if len(m.Materials) != 2 {
		t.Fatalf("got %v materials, want 2", len(m.Materials))
	}
	if got := m.Materials[0].NameString(); got != "textures/normandy/wall" {
		t.Errorf("material name = %q", got)
	}
	if m.Materials[0].SurfaceFlags != 0x4 {
		t.Errorf("surface flags = %#x, want 0x4", m.Materials[0].SurfaceFlags)
	}

	if len(m.Planes) != 2 || m.Planes[0].Distance != 64 {
		t.Errorf("planes = %+v", m.Planes)
	}

	if len(m.TriangleSoups) != 1 {
		t.Fatalf("got %v soups, want 1", len(m.TriangleSoups))
	}
	soup := m.TriangleSoups[0]
	if soup.MaterialIndex != 1 || soup.VertsLength != 4 || soup.TrisLength != 6 {
		t.Errorf("soup = %+v", soup)
	}

	if len(m.Vertices) != 4 {
		t.Errorf("got %v vertices, want 4", len(m.Vertices))
	}
	want := []uint16{0, 1, 2, 0, 2, 3}
	if len(m.Triangles) != len(want) {
		t.Fatalf("got %v triangles, want %v", len(m.Triangles), len(want))
	}
	for i := range want {
		if m.Triangles[i] != want[i] {
			t.Errorf("triangle[%v] = %v, want %v", i, m.Triangles[i], want[i])
		}
	}

	if len(m.Nodes) != 1 || m.Nodes[0].Children != [2]int32{-1, -2} {
		t.Errorf("nodes = %+v", m.Nodes)
	}
	if len(m.Leafs) != 2 || m.Leafs[1].Cluster != 1 {
		t.Errorf("leafs = %+v", m.Leafs)
	}
	if len(m.Models) != 1 || m.Models[0].NumSurfaces != 1 {
		t.Errorf("models = %+v", m.Models)
	}
	if !bytes.Equal(m.Visibility, []byte{0xff}) {
		t.Errorf("visibility = %v", m.Visibility)
	}
	if !bytes.Contains(m.EntityData, []byte("worldspawn")) {
		t.Errorf("entity data = %q", m.EntityData)
	}
}

// The 14-byte soup record mixes 16 and 32 bit fields; make sure the
// decoder's record size matches the wire layout.
func TestTriangleSoupWireSize(t *testing.T) {
	if size := binary.Size(TriangleSoup{}); size != triangleSoupSize {
		t.Fatalf("encoded soup is %v bytes, want %v", size, triangleSoupSize)
	}
}

func TestMaterialNameString(t *testing.T) {
	m := namedMaterial("textures/sky", 0, 0)
	if got := m.NameString(); got != "textures/sky" {
		t.Errorf("NameString() = %q", got)
	}

	// A name using all 64 bytes has no NUL terminator.
	var full Material
	for i := range full.Name {
		full.Name[i] = 'a'
	}
	if got := full.NameString(); len(got) != 64 {
		t.Errorf("full-width name came back %v bytes", len(got))
	}
}

package bspfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"unsafe"
)

// Lump indices consumed from the 33-entry directory. Any index not listed
// here is present in the file but ignored by this loader.
const (
	LumpMaterials     = 0
	LumpLightmaps     = 1
	LumpPlanes        = 2
	LumpTriangleSoups = 6
	LumpVertices      = 7
	LumpTriangles     = 8
	LumpLeafSurfaces  = 13
	LumpNodes         = 20
	LumpLeafs         = 21
	LumpVisibility    = 26
	LumpModels        = 27
	LumpEntities      = 29

	HeaderLumps = 33
)

// Version is the only supported IBSP revision.
const Version = 59

const (
	materialSize     = 72
	planeSize        = 16
	triangleSoupSize = 14
	vertexSize       = 44
	triangleSize     = 2
	leafSurfaceSize  = 4
	nodeSize         = 36
	leafSize         = 16
	modelSize        = 32
)

// FormatError reports a structural violation in the file: wrong magic or
// version, a lump that extends past the end of the buffer, a lump length
// that is not a multiple of its record size, a mandatory lump with no
// records, or an index pointing outside the data actually present.
// A FormatError is always fatal to the load.
type FormatError struct {
	Lump   string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("bsp %v lump: %v", e.Lump, e.Reason)
}

type Header struct {
	Magic   [4]byte  // magic number ("IBSP")
	Version uint32   // version of the BSP format (59)
	Lumps   [HeaderLumps]Lump
}

// Lump entries store length before offset, the reverse of the field order
// used by the more common 17-lump sibling format.
type Lump struct {
	Length uint32 // length (in bytes) of the data
	Offset uint32 // offset (in bytes) of the data from the beginning of the file
}

// Material is 72 bytes: a fixed name plus two bit-flag fields.
type Material struct {
	Name         [64]byte
	SurfaceFlags int32
	ContentFlags int32
}

// NameString returns the material name up to the first NUL.
func (m *Material) NameString() string {
	if i := bytes.IndexByte(m.Name[:], 0); i >= 0 {
		return string(m.Name[:i])
	}
	return string(m.Name[:])
}

type Plane struct {
	Normal   [3]float32 // A, B, C components of the plane equation
	Distance float32    // D component of the plane equation
}

// TriangleSoup describes one renderable surface as a sub-range of the
// shared vertex pool and the shared triangle index pool.
type TriangleSoup struct {
	MaterialIndex int16 // index into the materials lump
	VertsOffset   int32 // first vertex of this soup in the vertex pool
	VertsLength   int16 // number of vertices
	TrisOffset    int32 // first index of this soup in the triangle pool
	TrisLength    int16 // number of indices
}

type Vertex struct {
	Position   [3]float32
	UV         [2]float32
	LightmapUV [2]float32
	Normal     [3]float32
	Color      [4]uint8
}

type Node struct {
	Mins     [3]int32
	Maxs     [3]int32
	Plane    int32 // index of the splitting plane (in the plane array)
	Children [2]int32
}

// Leaf carries no bounding box in this format.
type Leaf struct {
	Cluster          int32 // visibility cluster id
	Area             int32
	FirstLeafSurface int32 // index into the leaf-surface lump
	NumLeafSurfaces  int32
}

type Model struct {
	Mins         [3]float32
	Maxs         [3]float32
	FirstSurface int32 // index into the triangle-soup array
	NumSurfaces  int32
}

type MapData struct {
	Materials     []Material
	LightmapData  []uint8 // raw 128x128x3 RGB tiles
	Planes        []Plane
	TriangleSoups []TriangleSoup
	Vertices      []Vertex
	Triangles     []uint16
	LeafSurfaces  []int32
	Nodes         []Node
	Leafs         []Leaf
	Visibility    []uint8 // raw lump, bit layout not decoded here
	Models        []Model
	EntityData    []byte // raw entity text, parsed elsewhere
}

// LoadBSP verifies the header and decodes every known lump of an in-memory
// level file. All fields are little-endian.
func LoadBSP(data []byte) (*MapData, error) {
	header := Header{}
	headerSize := int64(unsafe.Sizeof(header))

	if int64(len(data)) < headerSize {
		return nil, &FormatError{Lump: "header", Reason: "file smaller than header"}
	}
	headerReader := io.NewSectionReader(bytes.NewReader(data), 0, headerSize)
	if err := binary.Read(headerReader, binary.LittleEndian, &header); err != nil {
		return nil, err
	}

	// Verify format
	if !bytes.Equal([]byte("IBSP"), header.Magic[:]) {
		return nil, &FormatError{Lump: "header", Reason: fmt.Sprintf("wrong magic %q", header.Magic)}
	}
	if header.Version != Version {
		return nil, &FormatError{Lump: "header", Reason: fmt.Sprintf("wrong version %v, want %v", header.Version, Version)}
	}

	r := bytes.NewReader(data)
	size := int64(len(data))

	materials, err := loadMaterials(header.Lumps[LumpMaterials], r, size)
	if err != nil {
		return nil, err
	}
	lightmapData, err := loadRaw(header.Lumps[LumpLightmaps], "lightmaps", r, size)
	if err != nil {
		return nil, err
	}
	planes, err := loadPlanes(header.Lumps[LumpPlanes], r, size)
	if err != nil {
		return nil, err
	}
	triangleSoups, err := loadTriangleSoups(header.Lumps[LumpTriangleSoups], r, size)
	if err != nil {
		return nil, err
	}
	vertices, err := loadVertices(header.Lumps[LumpVertices], r, size)
	if err != nil {
		return nil, err
	}
	triangles, err := loadTriangles(header.Lumps[LumpTriangles], r, size)
	if err != nil {
		return nil, err
	}
	leafSurfaces, err := loadLeafSurfaces(header.Lumps[LumpLeafSurfaces], r, size)
	if err != nil {
		return nil, err
	}
	nodes, err := loadNodes(header.Lumps[LumpNodes], r, size)
	if err != nil {
		return nil, err
	}
	leafs, err := loadLeafs(header.Lumps[LumpLeafs], r, size)
	if err != nil {
		return nil, err
	}
	visibility, err := loadRaw(header.Lumps[LumpVisibility], "visibility", r, size)
	if err != nil {
		return nil, err
	}
	models, err := loadModels(header.Lumps[LumpModels], r, size)
	if err != nil {
		return nil, err
	}
	entityData, err := loadRaw(header.Lumps[LumpEntities], "entities", r, size)
	if err != nil {
		return nil, err
	}

	mapData := &MapData{
		Materials:     materials,
		LightmapData:  lightmapData,
		Planes:        planes,
		TriangleSoups: triangleSoups,
		Vertices:      vertices,
		Triangles:     triangles,
		LeafSurfaces:  leafSurfaces,
		Nodes:         nodes,
		Leafs:         leafs,
		Visibility:    visibility,
		Models:        models,
		EntityData:    entityData,
	}

	return mapData, nil
}

// checkLump validates that a lump lies inside the buffer and that its
// length is an exact multiple of the record size.
func checkLump(lump Lump, name string, recordSize int, fileSize int64) error {
	if int64(lump.Offset)+int64(lump.Length) > fileSize {
		return &FormatError{Lump: name, Reason: "lump extends past end of file"}
	}
	if int(lump.Length)%recordSize != 0 {
		return &FormatError{Lump: name, Reason: fmt.Sprintf("funny lump size %v", lump.Length)}
	}
	return nil
}

func lumpReader(lump Lump, r io.ReaderAt) *io.SectionReader {
	return io.NewSectionReader(r, int64(lump.Offset), int64(lump.Length))
}

func loadMaterials(lump Lump, r io.ReaderAt, fileSize int64) ([]Material, error) {
	if err := checkLump(lump, "materials", materialSize, fileSize); err != nil {
		return nil, err
	}

	// A world must reference at least one material
	num := int(lump.Length) / materialSize
	if num < 1 {
		return nil, &FormatError{Lump: "materials", Reason: "map with no materials"}
	}

	data := make([]Material, num)
	if err := binary.Read(lumpReader(lump, r), binary.LittleEndian, data); err != nil {
		return nil, err
	}
	return data, nil
}

func loadPlanes(lump Lump, r io.ReaderAt, fileSize int64) ([]Plane, error) {
	if err := checkLump(lump, "planes", planeSize, fileSize); err != nil {
		return nil, err
	}

	data := make([]Plane, int(lump.Length)/planeSize)
	if err := binary.Read(lumpReader(lump, r), binary.LittleEndian, data); err != nil {
		return nil, err
	}
	return data, nil
}

func loadTriangleSoups(lump Lump, r io.ReaderAt, fileSize int64) ([]TriangleSoup, error) {
	if err := checkLump(lump, "trianglesoups", triangleSoupSize, fileSize); err != nil {
		return nil, err
	}

	// 14 bytes on the wire; the record mixes 16 and 32 bit fields with
	// no padding, which binary.Read matches field for field.
	data := make([]TriangleSoup, int(lump.Length)/triangleSoupSize)
	if err := binary.Read(lumpReader(lump, r), binary.LittleEndian, data); err != nil {
		return nil, err
	}
	return data, nil
}

func loadVertices(lump Lump, r io.ReaderAt, fileSize int64) ([]Vertex, error) {
	if err := checkLump(lump, "vertices", vertexSize, fileSize); err != nil {
		return nil, err
	}

	data := make([]Vertex, int(lump.Length)/vertexSize)
	if err := binary.Read(lumpReader(lump, r), binary.LittleEndian, data); err != nil {
		return nil, err
	}
	return data, nil
}

func loadTriangles(lump Lump, r io.ReaderAt, fileSize int64) ([]uint16, error) {
	if err := checkLump(lump, "triangles", triangleSize, fileSize); err != nil {
		return nil, err
	}

	data := make([]uint16, int(lump.Length)/triangleSize)
	if err := binary.Read(lumpReader(lump, r), binary.LittleEndian, data); err != nil {
		return nil, err
	}
	return data, nil
}

func loadLeafSurfaces(lump Lump, r io.ReaderAt, fileSize int64) ([]int32, error) {
	if err := checkLump(lump, "leafsurfaces", leafSurfaceSize, fileSize); err != nil {
		return nil, err
	}

	data := make([]int32, int(lump.Length)/leafSurfaceSize)
	if err := binary.Read(lumpReader(lump, r), binary.LittleEndian, data); err != nil {
		return nil, err
	}
	return data, nil
}

func loadNodes(lump Lump, r io.ReaderAt, fileSize int64) ([]Node, error) {
	if err := checkLump(lump, "nodes", nodeSize, fileSize); err != nil {
		return nil, err
	}

	data := make([]Node, int(lump.Length)/nodeSize)
	if err := binary.Read(lumpReader(lump, r), binary.LittleEndian, data); err != nil {
		return nil, err
	}
	return data, nil
}

func loadLeafs(lump Lump, r io.ReaderAt, fileSize int64) ([]Leaf, error) {
	if err := checkLump(lump, "leafs", leafSize, fileSize); err != nil {
		return nil, err
	}

	data := make([]Leaf, int(lump.Length)/leafSize)
	if err := binary.Read(lumpReader(lump, r), binary.LittleEndian, data); err != nil {
		return nil, err
	}
	return data, nil
}

func loadModels(lump Lump, r io.ReaderAt, fileSize int64) ([]Model, error) {
	if err := checkLump(lump, "models", modelSize, fileSize); err != nil {
		return nil, err
	}

	data := make([]Model, int(lump.Length)/modelSize)
	if err := binary.Read(lumpReader(lump, r), binary.LittleEndian, data); err != nil {
		return nil, err
	}
	return data, nil
}

// loadRaw copies a lump that has no record structure (lightmap pixels,
// visibility data, entity text).
func loadRaw(lump Lump, name string, r io.ReaderAt, fileSize int64) ([]byte, error) {
	if int64(lump.Offset)+int64(lump.Length) > fileSize {
		return nil, &FormatError{Lump: name, Reason: "lump extends past end of file"}
	}

	data := make([]byte, lump.Length)
	if lump.Length == 0 {
		return data, nil
	}
	if _, err := r.ReadAt(data, int64(lump.Offset)); err != nil {
		return nil, err
	}
	return data, nil
}

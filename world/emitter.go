package world

import (
	"github.com/chewxy/math32"
)

// Geometry is the backend-specific shape of one surface's vertex and
// index data.
type Geometry interface {
	VertexCount() int
	IndexCount() int
	ByteSize() int
}

// GeometryEmitter isolates the vertex/index representation from the rest
// of the loader. One surface at a time: BeginSurface, the vertices, the
// indices, FinishSurface.
type GeometryEmitter interface {
	BeginSurface(vertCount, indexCount int)
	EmitVertex(v DrawVertex)
	EmitIndex(i uint32)
	FinishSurface() Geometry
}

// TriangleList keeps vertices exactly as decoded.
type TriangleList struct {
	Verts   []DrawVertex
	Indexes []uint32
}

func (g *TriangleList) VertexCount() int { return len(g.Verts) }
func (g *TriangleList) IndexCount() int  { return len(g.Indexes) }
func (g *TriangleList) ByteSize() int {
	return len(g.Verts)*44 + len(g.Indexes)*4
}

type TriangleListEmitter struct {
	cur *TriangleList
}

func NewTriangleListEmitter() *TriangleListEmitter {
	return &TriangleListEmitter{}
}

func (e *TriangleListEmitter) BeginSurface(vertCount, indexCount int) {
	e.cur = &TriangleList{
		Verts:   make([]DrawVertex, 0, vertCount),
		Indexes: make([]uint32, 0, indexCount),
	}
}

func (e *TriangleListEmitter) EmitVertex(v DrawVertex) {
	e.cur.Verts = append(e.cur.Verts, v)
}

func (e *TriangleListEmitter) EmitIndex(i uint32) {
	e.cur.Indexes = append(e.cur.Indexes, i)
}

func (e *TriangleListEmitter) FinishSurface() Geometry {
	g := e.cur
	e.cur = nil
	return g
}

// PackedVertex is the buffer-oriented vertex: normal and color are packed
// into single words and a per-vertex tangent is generated from the
// triangle it belongs to.
type PackedVertex struct {
	Position   [3]float32
	UV         [2]float32
	LightmapUV [2]float32
	Normal     uint32 // 10 bits per component, signed
	Tangent    [4]float32
	Color      uint32 // RGBA bytes
}

type VertexBuffer struct {
	Verts   []PackedVertex
	Indexes []uint32
}

func (g *VertexBuffer) VertexCount() int { return len(g.Verts) }
func (g *VertexBuffer) IndexCount() int  { return len(g.Indexes) }
func (g *VertexBuffer) ByteSize() int {
	return len(g.Verts)*56 + len(g.Indexes)*4
}

type VertexBufferEmitter struct {
	cur *VertexBuffer
}

func NewVertexBufferEmitter() *VertexBufferEmitter {
	return &VertexBufferEmitter{}
}

func (e *VertexBufferEmitter) BeginSurface(vertCount, indexCount int) {
	e.cur = &VertexBuffer{
		Verts:   make([]PackedVertex, 0, vertCount),
		Indexes: make([]uint32, 0, indexCount),
	}
}

func (e *VertexBufferEmitter) EmitVertex(v DrawVertex) {
	e.cur.Verts = append(e.cur.Verts, PackedVertex{
		Position:   v.Position,
		UV:         v.UV,
		LightmapUV: v.LightmapUV,
		Normal:     PackNormal(v.Normal),
		Color:      packColor(v.Color),
	})
}

func (e *VertexBufferEmitter) EmitIndex(i uint32) {
	e.cur.Indexes = append(e.cur.Indexes, i)
}

func (e *VertexBufferEmitter) FinishSurface() Geometry {
	g := e.cur
	e.cur = nil
	g.calcTangents()
	return g
}

// calcTangents computes one tangent per triangle from its positions and
// texture coordinates and stores it on each of the triangle's vertices.
func (g *VertexBuffer) calcTangents() {
	for t := 0; t+2 < len(g.Indexes); t += 3 {
		v0 := &g.Verts[g.Indexes[t]]
		v1 := &g.Verts[g.Indexes[t+1]]
		v2 := &g.Verts[g.Indexes[t+2]]

		var e1, e2 [3]float32
		for i := 0; i < 3; i++ {
			e1[i] = v1.Position[i] - v0.Position[i]
			e2[i] = v2.Position[i] - v0.Position[i]
		}
		du1 := v1.UV[0] - v0.UV[0]
		dv1 := v1.UV[1] - v0.UV[1]
		du2 := v2.UV[0] - v0.UV[0]
		dv2 := v2.UV[1] - v0.UV[1]

		area := du1*dv2 - du2*dv1
		if area == 0 {
			continue
		}
		f := 1.0 / area

		var tangent, bitangent [3]float32
		for i := 0; i < 3; i++ {
			tangent[i] = f * (dv2*e1[i] - dv1*e2[i])
			bitangent[i] = f * (du1*e2[i] - du2*e1[i])
		}
		normalize(&tangent)

		for _, v := range []*PackedVertex{v0, v1, v2} {
			n := UnpackNormal(v.Normal)
			// Handedness from the normal/tangent/bitangent frame
			cx := n[1]*tangent[2] - n[2]*tangent[1]
			cy := n[2]*tangent[0] - n[0]*tangent[2]
			cz := n[0]*tangent[1] - n[1]*tangent[0]
			sign := float32(1)
			if cx*bitangent[0]+cy*bitangent[1]+cz*bitangent[2] < 0 {
				sign = -1
			}
			v.Tangent = [4]float32{tangent[0], tangent[1], tangent[2], sign}
		}
	}
}

func normalize(v *[3]float32) {
	length := math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if length == 0 {
		return
	}
	v[0] /= length
	v[1] /= length
	v[2] /= length
}

// PackNormal quantizes a unit normal to signed 10 bit lanes.
func PackNormal(n [3]float32) uint32 {
	var packed uint32
	for i := 0; i < 3; i++ {
		packed |= (uint32(int32(n[i]*511.0)) & 0x3ff) << uint(10*i)
	}
	return packed
}

// UnpackNormal reverses PackNormal.
func UnpackNormal(packed uint32) [3]float32 {
	var n [3]float32
	for i := 0; i < 3; i++ {
		lane := int32((packed >> uint(10*i)) & 0x3ff)
		if lane >= 512 {
			lane -= 1024
		}
		n[i] = float32(lane) / 511.0
	}
	return n
}

func packColor(c [4]uint8) uint32 {
	return uint32(c[0]) | uint32(c[1])<<8 | uint32(c[2])<<16 | uint32(c[3])<<24
}

// UnpackColor reverses the packed RGBA word.
func UnpackColor(packed uint32) [4]uint8 {
	return [4]uint8{
		uint8(packed),
		uint8(packed >> 8),
		uint8(packed >> 16),
		uint8(packed >> 24),
	}
}

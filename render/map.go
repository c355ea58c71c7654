package render

import (
	"sort"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"

	"github.com/riicchhaarrd/iocod/world"
)

const (
	// 3 floats position, 2 floats texture UV, 2 floats lightmap UV
	TexturedVertexSize = 7
	floatSize          = 4
)

// Batch is one contiguous run of the vertex buffer drawn with a single
// texture bound.
type Batch struct {
	Shader     uint32
	VertOffset int32
	VertCount  int32
}

// RenderMap holds a loaded world flattened into one interleaved float
// buffer, grouped by shader so each texture binds once per frame.
type RenderMap struct {
	VertexBuffer []float32
	Batches      []Batch
	Lightmap     uint32
}

// BuildRenderMap flattens every surface of a world loaded with the
// vertex-buffer backend. Indexed triangles become a plain triangle
// stream, matching the draw path below.
func BuildRenderMap(w *world.World) (*RenderMap, error) {
	surfacesByShader := make(map[uint32][]*world.Surface)
	for i := range w.Surfaces {
		surf := &w.Surfaces[i]
		if surf.MaterialIndex >= 0 &&
			w.Materials[surf.MaterialIndex].SurfaceFlags&world.SurfaceSky != 0 {
			// Hide skybox
			continue
		}
		surfacesByShader[surf.Shader] = append(surfacesByShader[surf.Shader], surf)
	}

	var shaders []uint32
	total := 0
	for shader, surfs := range surfacesByShader {
		shaders = append(shaders, shader)
		for _, surf := range surfs {
			total += surf.Geometry.IndexCount() * TexturedVertexSize
		}
	}
	sort.Slice(shaders, func(i, j int) bool { return shaders[i] < shaders[j] })

	rm := &RenderMap{VertexBuffer: make([]float32, 0, total)}
	if len(w.Lightmaps) > 0 {
		rm.Lightmap = w.Lightmaps[0]
	}

	for _, shader := range shaders {
		batch := Batch{
			Shader:     shader,
			VertOffset: int32(len(rm.VertexBuffer) / TexturedVertexSize),
		}
		for _, surf := range surfacesByShader[shader] {
			vb, ok := surf.Geometry.(*world.VertexBuffer)
			if !ok {
				return nil, errors.Errorf("surface geometry is %T, want vertex buffer", surf.Geometry)
			}
			for _, index := range vb.Indexes {
				v := &vb.Verts[index]
				rm.VertexBuffer = append(rm.VertexBuffer,
					v.Position[0], v.Position[1], v.Position[2],
					v.UV[0], v.UV[1],
					v.LightmapUV[0], v.LightmapUV[1])
			}
			batch.VertCount += int32(vb.IndexCount())
		}
		rm.Batches = append(rm.Batches, batch)
	}

	return rm, nil
}

// DrawMap uploads the vertex buffer and draws every batch.
func DrawMap(r *Renderer, rm *RenderMap) {
	programShader := r.Shader.ProgramShader
	gl.BindVertexArray(r.Vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.Vbo)

	vertices := rm.VertexBuffer
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*floatSize, gl.Ptr(vertices), gl.STATIC_DRAW)

	stride := int32(TexturedVertexSize * floatSize)

	// Position attribute
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)

	// Texture
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride, gl.PtrOffset(3*floatSize))
	gl.EnableVertexAttribArray(1)

	// Lightmap
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(5*floatSize))
	gl.EnableVertexAttribArray(2)

	diffuseUniform := gl.GetUniformLocation(programShader, gl.Str("diffuse\x00"))
	gl.Uniform1i(diffuseUniform, 0)

	// One lightmap for the whole map in this simple viewer
	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_2D, rm.Lightmap)
	lightmapUniform := gl.GetUniformLocation(programShader, gl.Str("lightmap\x00"))
	gl.Uniform1i(lightmapUniform, 1)

	for _, batch := range rm.Batches {
		if batch.VertCount == 0 {
			continue
		}
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, batch.Shader)
		gl.DrawArrays(gl.TRIANGLES, batch.VertOffset, batch.VertCount)
	}
}

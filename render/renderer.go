package render

import (
	"log/slog"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Renderer owns the GL state shared by every draw: one VAO/VBO pair, the
// world shader and the projection parameters. FarPlane is meant to be
// raised to the loaded level's extent before the first frame so nothing
// clips away.
type Renderer struct {
	Vao    uint32
	Vbo    uint32
	Shader *Shader

	FieldOfView float32 // vertical, radians
	NearPlane   float32
	FarPlane    float32
}

func NewRenderer() *Renderer {
	return &Renderer{
		FieldOfView: mgl32.DegToRad(60),
		NearPlane:   4,
		FarPlane:    4096,
	}
}

func (r *Renderer) Init() {
	if err := gl.Init(); err != nil {
		panic(err)
	}
	slog.Info("opengl initialized", "version", gl.GoStr(gl.GetString(gl.VERSION)))

	r.Shader = NewShader()

	gl.ClearColor(0.0, 0.0, 0.0, 1.0)
	gl.Enable(gl.DEPTH_TEST)

	// Set appropriate blending mode
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.FRONT)

	// Create buffers/arrays
	gl.GenVertexArrays(1, &r.Vao)
	gl.GenBuffers(1, &r.Vbo)
}

// Projection builds the perspective matrix for the current window shape.
func (r *Renderer) Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(r.FieldOfView, aspect, r.NearPlane, r.FarPlane)
}

// PrepareFrame clears and hands both camera matrices to the shader.
func (r *Renderer) PrepareFrame(view mgl32.Mat4, aspect float32) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	projection := r.Projection(aspect)
	programShader := r.Shader.ProgramShader
	gl.UseProgram(programShader)

	viewLoc := gl.GetUniformLocation(programShader, gl.Str("view\x00"))
	gl.UniformMatrix4fv(viewLoc, 1, false, &view[0])

	projectionLoc := gl.GetUniformLocation(programShader, gl.Str("projection\x00"))
	gl.UniformMatrix4fv(projectionLoc, 1, false, &projection[0])
}

package render

import (
	"github.com/go-gl/gl/v4.1-core/gl"
)

// CreateImage uploads an RGBA image to OpenGL and returns the texture id.
// Matches the image registrar signature of the world loader, which names
// lightmap tiles "*lightmap<N>".
func CreateImage(name string, rgba []uint8, width, height int32) uint32 {
	var texId uint32
	gl.GenTextures(1, &texId)
	gl.BindTexture(gl.TEXTURE_2D, texId)

	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, width, height,
		0, uint32(gl.RGBA), uint32(gl.UNSIGNED_BYTE), gl.Ptr(rgba))

	// Lightmaps must not wrap or bleed across tiles
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)

	return texId
}

// WhiteTexture creates a 1x1 white texture used as the stand-in shader
// for materials without loaded images.
func WhiteTexture() uint32 {
	white := []uint8{255, 255, 255, 255}
	return CreateImage("*white", white, 1, 1)
}

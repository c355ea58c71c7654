package world

import (
	"fmt"

	"github.com/riicchhaarrd/iocod/bspfile"
)

// buildSurfaces turns triangle-soup descriptors plus the shared vertex and
// index pools into one Surface per soup. Triangle indices are relative to
// the soup's own vertex block and carry over unchanged into the surface's
// private vertex array.
func buildSurfaces(m *bspfile.MapData, w *World, cfg *Config) error {
	w.Surfaces = make([]Surface, len(m.TriangleSoups))
	cfg.Logger.Info("loading triangle soups", "count", len(m.TriangleSoups))

	for i := range m.TriangleSoups {
		soup := &m.TriangleSoups[i]
		surf := &w.Surfaces[i]

		matIndex := int(soup.MaterialIndex)
		if matIndex >= 0 && matIndex < len(w.Materials) {
			surf.MaterialIndex = matIndex
			surf.Shader = cfg.ResolveShader(w.Materials[matIndex].Name)
		} else {
			surf.MaterialIndex = -1
			surf.Shader = cfg.DefaultShader
		}
		if cfg.ForceDefaultShader && !w.isSkyMaterial(surf.MaterialIndex) {
			surf.Shader = cfg.DefaultShader
		}

		vertsOff := int(soup.VertsOffset)
		vertsLen := int(soup.VertsLength)
		trisOff := int(soup.TrisOffset)
		trisLen := int(soup.TrisLength)

		if vertsOff < 0 || vertsLen < 0 || vertsOff+vertsLen > len(m.Vertices) {
			return &bspfile.FormatError{
				Lump:   "trianglesoups",
				Reason: fmt.Sprintf("soup %v vertex range %v+%v outside pool of %v", i, vertsOff, vertsLen, len(m.Vertices)),
			}
		}
		if trisOff < 0 || trisLen < 0 || trisOff+trisLen > len(m.Triangles) {
			return &bspfile.FormatError{
				Lump:   "trianglesoups",
				Reason: fmt.Sprintf("soup %v index range %v+%v outside pool of %v", i, trisOff, trisLen, len(m.Triangles)),
			}
		}

		cfg.Emitter.BeginSurface(vertsLen, trisLen)
		clearBounds(&surf.Mins, &surf.Maxs)

		for j := 0; j < vertsLen; j++ {
			src := &m.Vertices[vertsOff+j]
			v := DrawVertex{
				Position:   src.Position,
				UV:         src.UV,
				LightmapUV: src.LightmapUV,
				Normal:     src.Normal,
				Color:      cfg.ColorShift(src.Color),
			}
			addPointToBounds(v.Position, &surf.Mins, &surf.Maxs)
			cfg.Emitter.EmitVertex(v)
		}

		for j := 0; j < trisLen; j++ {
			// Local to the soup's vertex block, not the shared pool.
			index := m.Triangles[trisOff+j]
			if int(index) >= vertsLen {
				return &bspfile.FormatError{
					Lump:   "triangles",
					Reason: fmt.Sprintf("soup %v index %v exceeds its %v vertices", i, index, vertsLen),
				}
			}
			cfg.Emitter.EmitIndex(uint32(index))
		}

		surf.Geometry = cfg.Emitter.FinishSurface()
	}
	return nil
}

package world

import (
	"github.com/riicchhaarrd/iocod/bspfile"
)

// buildMaterials converts the decoded material records. The on-disk
// record is byte-compatible with the classic shader record layout, so
// beyond endian correction (done during decode) only the name needs
// unpacking.
func buildMaterials(m *bspfile.MapData, w *World) {
	w.Materials = make([]Material, len(m.Materials))
	for i := range m.Materials {
		in := &m.Materials[i]
		w.Materials[i] = Material{
			Name:         in.NameString(),
			SurfaceFlags: in.SurfaceFlags,
			ContentFlags: in.ContentFlags,
		}
	}
}

// isSkyMaterial reports whether a surface's material is a sky material.
// Out-of-range indices count as non-sky.
func (w *World) isSkyMaterial(index int) bool {
	if index < 0 || index >= len(w.Materials) {
		return false
	}
	return w.Materials[index].SurfaceFlags&SurfaceSky != 0
}

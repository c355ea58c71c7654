package world

import (
	"fmt"

	"github.com/riicchhaarrd/iocod/bspfile"
)

// buildLeafSurfaces fills the indirection array linking leafs to
// surfaces. Strict mode trusts the lump and validates every index;
// all-visible mode replaces it with the flat sequence 0..numSurfaces-1
// because the references in this format are known unreliable.
func buildLeafSurfaces(m *bspfile.MapData, w *World, cfg *Config) error {
	switch cfg.LeafSurfaces {
	case LeafSurfacesAllVisible:
		cfg.Logger.Warn("leaf surface references ignored, every leaf sees every surface")
		w.LeafSurfaces = make([]int32, len(w.Surfaces))
		for i := range w.LeafSurfaces {
			w.LeafSurfaces[i] = int32(i)
		}

	default:
		w.LeafSurfaces = make([]int32, len(m.LeafSurfaces))
		for i, index := range m.LeafSurfaces {
			if index < 0 || int(index) >= len(w.Surfaces) {
				return &bspfile.FormatError{
					Lump:   "leafsurfaces",
					Reason: fmt.Sprintf("surface index %v out of range (%v surfaces)", index, len(w.Surfaces)),
				}
			}
			w.LeafSurfaces[i] = index
		}
	}
	return nil
}

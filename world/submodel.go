package world

import (
	"github.com/riicchhaarrd/iocod/bspfile"
)

// buildSubmodels decodes the sub-model ranges. An empty lump still yields
// a single world model spanning the full extent. A record whose surface
// range runs past the surface array is clamped to an empty range instead
// of failing the load.
func buildSubmodels(m *bspfile.MapData, w *World, cfg *Config) {
	if len(m.Models) == 0 {
		w.Submodels = []Submodel{{
			Mins: [3]float32{-MaxWorldExtent, -MaxWorldExtent, -MaxWorldExtent},
			Maxs: [3]float32{MaxWorldExtent, MaxWorldExtent, MaxWorldExtent},
		}}
		return
	}

	w.Submodels = make([]Submodel, len(m.Models))
	for i := range m.Models {
		in := &m.Models[i]
		out := &w.Submodels[i]

		out.Mins = in.Mins
		out.Maxs = in.Maxs

		first := int(in.FirstSurface)
		num := int(in.NumSurfaces)
		if first >= 0 && num >= 0 && first+num <= len(w.Surfaces) {
			out.FirstSurface = first
			out.NumSurfaces = num
		} else {
			cfg.Logger.Warn("submodel surface range clamped",
				"submodel", i, "first", first, "count", num, "surfaces", len(w.Surfaces))
		}
	}
}

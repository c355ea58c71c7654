package world

import (
	"fmt"

	"github.com/riicchhaarrd/iocod/bspfile"
)

// Lightmap tiles are fixed 128x128 RGB.
const (
	LightmapSize  = 128
	lightmapBytes = LightmapSize * LightmapSize * 3
)

// buildLightmaps converts each RGB tile to brightness-corrected RGBA and
// registers it as a renderer image named by its index. Registration is
// skipped entirely under vertex lighting or when no registrar is
// attached; the tile count is still computed because surface lightmap
// coordinates depend on it.
func buildLightmaps(m *bspfile.MapData, w *World, cfg *Config) {
	if len(m.LightmapData) == 0 {
		return
	}

	tiles := len(m.LightmapData) / lightmapBytes
	w.NumLightmaps = tiles
	if w.NumLightmaps == 1 {
		// A count of exactly one reads as "not lightmapped" downstream.
		w.NumLightmaps++
	}

	if cfg.Lighting == LightingVertex || cfg.CreateImage == nil {
		return
	}

	rgba := make([]uint8, LightmapSize*LightmapSize*4)
	for i := 0; i < tiles; i++ {
		tile := m.LightmapData[i*lightmapBytes : (i+1)*lightmapBytes]
		for j := 0; j < LightmapSize*LightmapSize; j++ {
			c := cfg.ColorShift([4]uint8{tile[j*3], tile[j*3+1], tile[j*3+2], 255})
			copy(rgba[j*4:j*4+4], c[:])
		}
		handle := cfg.CreateImage(fmt.Sprintf("*lightmap%d", i), rgba, LightmapSize, LightmapSize)
		w.Lightmaps = append(w.Lightmaps, handle)
	}
}

// ShiftLightingBytes is the default brightness correction: scale up and,
// when a component overflows, rescale the whole color instead of clamping
// so the hue survives.
func ShiftLightingBytes(in [4]uint8) [4]uint8 {
	const shift = 2

	r := int(in[0]) << shift
	g := int(in[1]) << shift
	b := int(in[2]) << shift

	max := r
	if g > max {
		max = g
	}
	if b > max {
		max = b
	}
	if max > 255 {
		scale := float32(255) / float32(max)
		r = int(float32(r) * scale)
		g = int(float32(g) * scale)
		b = int(float32(b) * scale)
	}

	return [4]uint8{uint8(r), uint8(g), uint8(b), in[3]}
}

package world

import (
	"log/slog"
	"unsafe"

	"github.com/pkg/errors"

	"github.com/riicchhaarrd/iocod/bspfile"
)

type LightingMode int

const (
	// LightingLightmap samples the baked lightmap tiles.
	LightingLightmap LightingMode = iota
	// LightingVertex lights from vertex colors only; lightmap tiles are
	// counted but never registered with the renderer.
	LightingVertex
)

type LeafSurfacePolicy int

const (
	// LeafSurfacesStrict takes the leaf-surface lump at face value and
	// rejects the file when an index is out of range.
	LeafSurfacesStrict LeafSurfacePolicy = iota
	// LeafSurfacesAllVisible ignores the lump and makes every leaf see
	// the whole surface range. Costs culling precision, never wrong.
	LeafSurfacesAllVisible
)

// Config is the load context threaded through every build step. The zero
// value loads with the triangle-list backend, strict leaf surfaces and no
// renderer attached.
type Config struct {
	Lighting     LightingMode
	LeafSurfaces LeafSurfacePolicy

	// Emitter decides the in-memory shape of surface geometry. Defaults
	// to a TriangleListEmitter.
	Emitter GeometryEmitter

	// ForceDefaultShader overrides every non-sky surface's shader with
	// DefaultShader. Debug aid.
	ForceDefaultShader bool
	DefaultShader      uint32

	// ResolveShader maps a material name to a renderer handle. When nil
	// every surface gets DefaultShader.
	ResolveShader func(name string) uint32

	// CreateImage registers an RGBA image with the renderer and returns
	// its handle. When nil, lightmap registration is skipped the same
	// way it is for hardware that cannot lightmap.
	CreateImage func(name string, rgba []uint8, width, height int32) uint32

	// ColorShift is the brightness correction applied to vertex colors
	// and lightmap texels. Defaults to ShiftLightingBytes.
	ColorShift func(in [4]uint8) [4]uint8

	// ParseEntities consumes the raw entity text. Defaults to the
	// parser in this package.
	ParseEntities func(data []byte) []*Entity

	// ExternalVis, when set, is used verbatim as the visibility bitset
	// instead of the all-visible fallback.
	ExternalVis []byte

	Logger *slog.Logger
}

func (cfg *Config) applyDefaults() {
	if cfg.Emitter == nil {
		cfg.Emitter = NewTriangleListEmitter()
	}
	if cfg.ResolveShader == nil {
		def := cfg.DefaultShader
		cfg.ResolveShader = func(string) uint32 { return def }
	}
	if cfg.ColorShift == nil {
		cfg.ColorShift = ShiftLightingBytes
	}
	if cfg.ParseEntities == nil {
		cfg.ParseEntities = ParseEntities
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
}

// LoadWorld decodes a complete level file into a World. Any structural
// violation aborts the whole load; a partially built World is never
// returned.
func LoadWorld(name string, data []byte, cfg Config) (*World, error) {
	cfg.applyDefaults()

	m, err := bspfile.LoadBSP(data)
	if err != nil {
		return nil, errors.Wrapf(err, "load %v", name)
	}

	w := &World{Name: name}

	buildMaterials(m, w)
	buildLightmaps(m, w, &cfg)
	buildPlanes(m, w)
	if err := buildSurfaces(m, w, &cfg); err != nil {
		return nil, errors.Wrapf(err, "load %v", name)
	}
	if err := buildLeafSurfaces(m, w, &cfg); err != nil {
		return nil, errors.Wrapf(err, "load %v", name)
	}
	maxCluster, err := buildTree(m, w, &cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "load %v", name)
	}
	buildSubmodels(m, w, &cfg)
	buildVisibility(w, maxCluster, &cfg)

	w.EntityText = m.EntityData
	w.Entities = cfg.ParseEntities(m.EntityData)

	w.DataSize = dataSize(w)
	cfg.Logger.Info("world loaded", "name", name,
		"surfaces", len(w.Surfaces), "nodes", len(w.Nodes),
		"submodels", len(w.Submodels), "bytes", w.DataSize)

	return w, nil
}

// dataSize tallies the bytes held by the world's arrays.
func dataSize(w *World) int {
	size := 0
	for i := range w.Materials {
		size += len(w.Materials[i].Name) + 8
	}
	size += len(w.Planes) * int(unsafe.Sizeof(Plane{}))
	for i := range w.Surfaces {
		size += int(unsafe.Sizeof(Surface{}))
		if g := w.Surfaces[i].Geometry; g != nil {
			size += g.ByteSize()
		}
	}
	size += len(w.LeafSurfaces) * 4
	size += len(w.Nodes) * int(unsafe.Sizeof(Node{}))
	size += len(w.Submodels) * int(unsafe.Sizeof(Submodel{}))
	size += len(w.Vis.Data)
	size += len(w.EntityText)
	return size
}

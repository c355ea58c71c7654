// Package world builds an in-memory renderable world from a decoded
// CoD1 IBSP level file.
package world

// MaxWorldExtent bounds every coordinate the format can represent. Leafs
// carry no bounding box of their own and span the whole extent.
const MaxWorldExtent = 128 * 1024

// SurfaceSky marks sky materials in Material.SurfaceFlags.
const SurfaceSky = 0x4

type Material struct {
	Name         string
	SurfaceFlags int32
	ContentFlags int32
}

// Plane types, used as a fast path by spatial queries: 0-2 mean the
// normal is exactly the corresponding positive axis.
const (
	PlaneX uint8 = iota
	PlaneY
	PlaneZ
	PlaneNonAxial
)

type Plane struct {
	Normal   [3]float32
	Dist     float32
	Type     uint8
	SignBits uint8 // bit i set iff Normal[i] is negative
}

// DrawVertex is one decoded vertex, color already brightness corrected.
type DrawVertex struct {
	Position   [3]float32
	UV         [2]float32
	LightmapUV [2]float32
	Normal     [3]float32
	Color      [4]uint8
}

// Surface owns its own vertex and index arrays; indices address the
// surface's vertices, never a world-wide pool.
type Surface struct {
	MaterialIndex int    // index into World.Materials, -1 if out of range
	Shader        uint32 // renderer material handle
	Mins          [3]float32
	Maxs          [3]float32
	Geometry      Geometry
}

// Node is one entry of the spatial partition arena. Decision nodes come
// first in World.Nodes, leafs are appended after them; an index below
// World.NumDecisionNodes is a decision node. Children and Parent are
// indices into the same array, -1 meaning none.
type Node struct {
	Parent int
	Mins   [3]float32
	Maxs   [3]float32

	// decision node fields
	Plane    int // index into World.Planes, -1 for leafs
	Children [2]int

	// leaf fields
	Cluster          int32
	Area             int32
	FirstLeafSurface int32
	NumLeafSurfaces  int32
}

// Submodel references a contiguous range of the world surface array.
// Submodel 0 is the world itself.
type Submodel struct {
	Mins         [3]float32
	Maxs         [3]float32
	FirstSurface int
	NumSurfaces  int
}

// VisibilitySet holds one bitset row per cluster. ClusterBytes is the
// per-cluster row stride in bytes.
type VisibilitySet struct {
	NumClusters  int
	ClusterBytes int
	Data         []byte
}

// World aggregates everything decoded from one level file. It is rebuilt
// wholesale on the next load; cross-references between its arrays are
// plain indices.
type World struct {
	Name string

	Materials        []Material
	Planes           []Plane
	Surfaces         []Surface
	LeafSurfaces     []int32
	Nodes            []Node // decision nodes first, then leafs
	NumDecisionNodes int
	Submodels        []Submodel
	Vis              VisibilitySet

	NumLightmaps int
	Lightmaps    []uint32 // renderer image handles

	EntityText []byte
	Entities   []*Entity

	DataSize int // total bytes held by the arrays above
}

// IsLeaf reports whether a node index addresses the leaf region.
func (w *World) IsLeaf(index int) bool {
	return index >= w.NumDecisionNodes
}

// PointInLeaf descends the tree from the root and returns the index of
// the leaf containing p, or -1 when the world has no tree at all.
func (w *World) PointInLeaf(p [3]float32) int {
	if len(w.Nodes) == 0 {
		return -1
	}
	i := 0
	for i < w.NumDecisionNodes {
		node := &w.Nodes[i]
		plane := &w.Planes[node.Plane]

		var d float32
		if plane.Type < PlaneNonAxial {
			d = p[plane.Type] - plane.Dist
		} else {
			d = p[0]*plane.Normal[0] + p[1]*plane.Normal[1] + p[2]*plane.Normal[2] - plane.Dist
		}

		if d < 0 {
			i = node.Children[1]
		} else {
			i = node.Children[0]
		}
	}
	return i
}

// ClusterVisible reports whether cluster "to" is marked visible from
// cluster "from".
func (w *World) ClusterVisible(from, to int) bool {
	if from < 0 || from >= w.Vis.NumClusters || to < 0 || to >= w.Vis.NumClusters {
		return false
	}
	row := w.Vis.Data[from*w.Vis.ClusterBytes:]
	return row[to>>3]&(1<<(uint(to)&7)) != 0
}

// LeafSurfaceRange returns the surface indices referenced by a leaf node.
func (w *World) LeafSurfaceRange(leaf *Node) []int32 {
	first := int(leaf.FirstLeafSurface)
	num := int(leaf.NumLeafSurfaces)
	if first < 0 || num <= 0 || first+num > len(w.LeafSurfaces) {
		return nil
	}
	return w.LeafSurfaces[first : first+num]
}

func clearBounds(mins, maxs *[3]float32) {
	for i := 0; i < 3; i++ {
		mins[i] = MaxWorldExtent
		maxs[i] = -MaxWorldExtent
	}
}

func addPointToBounds(p [3]float32, mins, maxs *[3]float32) {
	for i := 0; i < 3; i++ {
		if p[i] < mins[i] {
			mins[i] = p[i]
		}
		if p[i] > maxs[i] {
			maxs[i] = p[i]
		}
	}
}

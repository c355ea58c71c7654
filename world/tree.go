package world

import (
	"fmt"

	"github.com/riicchhaarrd/iocod/bspfile"
)

// buildTree decodes decision nodes and leafs into one arena: decision
// nodes first, leafs appended. A raw child reference is sign-encoded:
// non-negative values index the decision region, negative values address
// leaf -1-value. After both passes every child is a plain index into the
// combined array and parents are filled in one linking pass.
//
// Returns the highest cluster id seen, -1 when no leaf carries one.
func buildTree(m *bspfile.MapData, w *World, cfg *Config) (int32, error) {
	numNodes := len(m.Nodes)
	numLeafs := len(m.Leafs)

	w.Nodes = make([]Node, numNodes+numLeafs)
	w.NumDecisionNodes = numNodes

	for i := range m.Nodes {
		in := &m.Nodes[i]
		out := &w.Nodes[i]

		for j := 0; j < 3; j++ {
			out.Mins[j] = float32(in.Mins[j])
			out.Maxs[j] = float32(in.Maxs[j])
		}

		if in.Plane < 0 || int(in.Plane) >= len(w.Planes) {
			return -1, &bspfile.FormatError{
				Lump:   "nodes",
				Reason: fmt.Sprintf("node %v plane index %v out of range (%v planes)", i, in.Plane, len(w.Planes)),
			}
		}
		out.Plane = int(in.Plane)
		out.Cluster = -1

		for j := 0; j < 2; j++ {
			raw := in.Children[j]
			var child int
			if raw >= 0 {
				// Decision nodes are written root-first; a child that does
				// not descend would cycle the tree walks.
				child = int(raw)
				if child <= i {
					return -1, &bspfile.FormatError{
						Lump:   "nodes",
						Reason: fmt.Sprintf("node %v child %v does not descend", i, raw),
					}
				}
			} else {
				child = numNodes + int(-1-raw)
			}
			if child < 0 || child >= numNodes+numLeafs {
				return -1, &bspfile.FormatError{
					Lump:   "nodes",
					Reason: fmt.Sprintf("node %v child %v resolves to %v, outside %v entries", i, raw, child, numNodes+numLeafs),
				}
			}
			out.Children[j] = child
		}
	}

	maxCluster := int32(-1)
	for i := range m.Leafs {
		in := &m.Leafs[i]
		out := &w.Nodes[numNodes+i]

		// No per-leaf box in this format; span the whole world.
		for j := 0; j < 3; j++ {
			out.Mins[j] = -MaxWorldExtent
			out.Maxs[j] = MaxWorldExtent
		}

		out.Plane = -1
		out.Children = [2]int{-1, -1}
		out.Cluster = in.Cluster
		out.Area = in.Area
		if in.Cluster > maxCluster {
			maxCluster = in.Cluster
		}

		if cfg.LeafSurfaces == LeafSurfacesAllVisible {
			out.FirstLeafSurface = 0
			out.NumLeafSurfaces = int32(len(w.LeafSurfaces))
			continue
		}
		if in.FirstLeafSurface < 0 || in.NumLeafSurfaces < 0 ||
			int(in.FirstLeafSurface)+int(in.NumLeafSurfaces) > len(w.LeafSurfaces) {
			return -1, &bspfile.FormatError{
				Lump:   "leafs",
				Reason: fmt.Sprintf("leaf %v surface range %v+%v outside %v leaf surfaces", i, in.FirstLeafSurface, in.NumLeafSurfaces, len(w.LeafSurfaces)),
			}
		}
		out.FirstLeafSurface = in.FirstLeafSurface
		out.NumLeafSurfaces = in.NumLeafSurfaces
	}

	linkParents(w)
	return maxCluster, nil
}

// linkParents derives the parent back-links by walking the finished
// arena from the root.
func linkParents(w *World) {
	for i := range w.Nodes {
		w.Nodes[i].Parent = -1
	}
	if len(w.Nodes) == 0 {
		return
	}

	stack := []int{0}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if w.IsLeaf(i) {
			continue
		}
		for _, child := range w.Nodes[i].Children {
			w.Nodes[child].Parent = i
			stack = append(stack, child)
		}
	}
}

package world

import (
	"github.com/riicchhaarrd/iocod/bspfile"
)

// buildPlanes decodes the splitting planes. Type and SignBits are pure
// functions of the normal and are always recomputed, never trusted from
// the file.
func buildPlanes(m *bspfile.MapData, w *World) {
	w.Planes = make([]Plane, len(m.Planes))
	for i := range m.Planes {
		in := &m.Planes[i]
		w.Planes[i] = Plane{
			Normal:   in.Normal,
			Dist:     in.Distance,
			Type:     planeTypeForNormal(in.Normal),
			SignBits: signBitsForNormal(in.Normal),
		}
	}
}

func planeTypeForNormal(n [3]float32) uint8 {
	switch {
	case n[0] == 1.0:
		return PlaneX
	case n[1] == 1.0:
		return PlaneY
	case n[2] == 1.0:
		return PlaneZ
	}
	return PlaneNonAxial
}

func signBitsForNormal(n [3]float32) uint8 {
	var bits uint8
	for i := 0; i < 3; i++ {
		if n[i] < 0 {
			bits |= 1 << uint(i)
		}
	}
	return bits
}

// BoxOnPlaneSide classifies an axis-aligned box against the plane:
// 1 = fully in front, 2 = fully behind, 3 = spanning.
func (p *Plane) BoxOnPlaneSide(mins, maxs [3]float32) int {
	if p.Type < PlaneNonAxial {
		if p.Dist <= mins[p.Type] {
			return 1
		}
		if p.Dist >= maxs[p.Type] {
			return 2
		}
		return 3
	}

	// The sign bits pick the near and far corner per axis.
	var d1, d2 float32
	for i := 0; i < 3; i++ {
		if p.SignBits&(1<<uint(i)) != 0 {
			d1 += p.Normal[i] * mins[i]
			d2 += p.Normal[i] * maxs[i]
		} else {
			d1 += p.Normal[i] * maxs[i]
			d2 += p.Normal[i] * mins[i]
		}
	}

	sides := 0
	if d1 >= p.Dist {
		sides = 1
	}
	if d2 < p.Dist {
		sides |= 2
	}
	return sides
}

package world

import (
	"testing"

	"github.com/riicchhaarrd/iocod/bspfile"
)

func TestBuildPlanesRecomputesTypeAndSignBits(t *testing.T) {
	m := &bspfile.MapData{
		Planes: []bspfile.Plane{
			{Normal: [3]float32{1, 0, 0}, Distance: 16},
			{Normal: [3]float32{0, 1, 0}, Distance: 0},
			{Normal: [3]float32{0, 0, 1}, Distance: -8},
			{Normal: [3]float32{-1, 0, 0}, Distance: 16},
			{Normal: [3]float32{0.707, 0.707, 0}, Distance: 4},
			{Normal: [3]float32{-0.577, -0.577, 0.577}, Distance: 4},
		},
	}
	w := &World{}
	buildPlanes(m, w)

	wantTypes := []uint8{PlaneX, PlaneY, PlaneZ, PlaneNonAxial, PlaneNonAxial, PlaneNonAxial}
	wantBits := []uint8{0, 0, 0, 1, 0, 3}
	for i, p := range w.Planes {
		if p.Type != wantTypes[i] {
			t.Errorf("plane %v type = %v, want %v", i, p.Type, wantTypes[i])
		}
		if p.SignBits != wantBits[i] {
			t.Errorf("plane %v sign bits = %v, want %v", i, p.SignBits, wantBits[i])
		}
		if p.Dist != m.Planes[i].Distance {
			t.Errorf("plane %v dist = %v, want %v", i, p.Dist, m.Planes[i].Distance)
		}
	}
}

func TestBoxOnPlaneSideAxial(t *testing.T) {
	p := &Plane{Normal: [3]float32{0, 0, 1}, Dist: 10, Type: PlaneZ}

	if got := p.BoxOnPlaneSide([3]float32{0, 0, 20}, [3]float32{8, 8, 30}); got != 1 {
		t.Errorf("box above plane = %v, want 1", got)
	}
	if got := p.BoxOnPlaneSide([3]float32{0, 0, -30}, [3]float32{8, 8, -20}); got != 2 {
		t.Errorf("box below plane = %v, want 2", got)
	}
	if got := p.BoxOnPlaneSide([3]float32{0, 0, 0}, [3]float32{8, 8, 20}); got != 3 {
		t.Errorf("box spanning plane = %v, want 3", got)
	}
}

func TestBoxOnPlaneSideNonAxial(t *testing.T) {
	n := [3]float32{0.707, 0.707, 0}
	p := &Plane{Normal: n, Dist: 0, Type: PlaneNonAxial, SignBits: signBitsForNormal(n)}

	if got := p.BoxOnPlaneSide([3]float32{10, 10, 0}, [3]float32{20, 20, 0}); got != 1 {
		t.Errorf("front box = %v, want 1", got)
	}
	if got := p.BoxOnPlaneSide([3]float32{-20, -20, 0}, [3]float32{-10, -10, 0}); got != 2 {
		t.Errorf("back box = %v, want 2", got)
	}
	if got := p.BoxOnPlaneSide([3]float32{-10, -10, 0}, [3]float32{10, 10, 0}); got != 3 {
		t.Errorf("spanning box = %v, want 3", got)
	}
}

package core

import (
	"math"
	"testing"
)

func unitBox() AABB {
	return NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1))
}

func TestAABB_Intersect(t *testing.T) {
	tests := []struct {
		name     string
		ray      Ray
		hit      bool
		t0, t1   float64
		checkInt bool
	}{
		{
			name:     "Straight through",
			ray:      NewRay(NewVec3(-1, 0.5, 0.5), NewVec3(1, 0, 0)),
			hit:      true,
			t0:       1,
			t1:       2,
			checkInt: true,
		},
		{
			name:     "Origin inside",
			ray:      NewRay(NewVec3(0.5, 0.5, 0.5), NewVec3(0, 0, 1)),
			hit:      true,
			t0:       0,
			t1:       0.5,
			checkInt: true,
		},
		{
			name: "Miss beside",
			ray:  NewRay(NewVec3(-1, 2, 0.5), NewVec3(1, 0, 0)),
			hit:  false,
		},
		{
			name: "Box behind origin",
			ray:  NewRay(NewVec3(2, 0.5, 0.5), NewVec3(1, 0, 0)),
			hit:  false,
		},
		{
			name: "TMax short of box",
			ray:  Ray{Origin: NewVec3(-1, 0.5, 0.5), Direction: NewVec3(1, 0, 0), TMax: 0.5},
			hit:  false,
		},
		{
			name: "Origin on slab plane with zero direction",
			ray:  NewRay(NewVec3(-1, 0, 0.5), NewVec3(1, 0, 0)),
			hit:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t0, t1, hit := unitBox().Intersect(tt.ray)
			if hit != tt.hit {
				t.Fatalf("Expected hit=%v, got %v", tt.hit, hit)
			}
			if !tt.checkInt {
				return
			}
			if math.Abs(t0-tt.t0) > 1e-9 || math.Abs(t1-tt.t1) > 1e-9 {
				t.Errorf("Expected interval [%v, %v], got [%v, %v]", tt.t0, tt.t1, t0, t1)
			}
		})
	}
}

func TestAABB_IntersectInv(t *testing.T) {
	tests := []struct {
		name string
		ray  Ray
		hit  bool
	}{
		{"Diagonal hit", NewRay(NewVec3(-1, -1, -1), NewVec3(1, 1, 1)), true},
		{"Negative direction", NewRay(NewVec3(2, 0.5, 0.5), NewVec3(-1, 0, 0)), true},
		{"Miss", NewRay(NewVec3(-1, 2, 2), NewVec3(1, 0, 0)), false},
		{"Pointing away", NewRay(NewVec3(-1, 0.5, 0.5), NewVec3(-1, 0, 0)), false},
		{"Zero component inside slab", NewRay(NewVec3(0.5, 0.5, -3), NewVec3(0, 0, 1)), true},
		{"Zero component outside slab", NewRay(NewVec3(1.5, 0.5, -3), NewVec3(0, 0, 1)), false},
		{"Zero component on slab plane", NewRay(NewVec3(1, 0.5, -3), NewVec3(0, 0, 1)), true},
		{"Negative zero on slab plane", NewRay(NewVec3(0, 0.5, -3), NewVec3(math.Copysign(0, -1), 0, 1)), true},
		{"TMax before box", Ray{Origin: NewVec3(-3, 0.5, 0.5), Direction: NewVec3(1, 0, 0), TMax: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invDir := tt.ray.Direction.Inverse()
			dirIsNeg := [3]int{}
			for axis := 0; axis < 3; axis++ {
				if invDir.Axis(axis) < 0 {
					dirIsNeg[axis] = 1
				}
			}
			if hit := unitBox().IntersectInv(tt.ray, invDir, dirIsNeg); hit != tt.hit {
				t.Errorf("Expected hit=%v, got %v", tt.hit, hit)
			}
			// Both slab tests must agree
			if _, _, hit := unitBox().Intersect(tt.ray); hit != tt.hit {
				t.Errorf("Intersect: expected hit=%v, got %v", tt.hit, hit)
			}
		})
	}
}

func TestAABB_Empty(t *testing.T) {
	empty := EmptyAABB()
	if !empty.IsEmpty() {
		t.Errorf("Expected EmptyAABB to be empty")
	}
	if empty.SurfaceArea() != 0 {
		t.Errorf("Expected zero surface area, got %v", empty.SurfaceArea())
	}
	if _, _, hit := empty.Intersect(NewRay(NewVec3(0, 0, 0), NewVec3(1, 0, 0))); hit {
		t.Errorf("Expected no hit against an empty box")
	}

	box := unitBox()
	if got := empty.Union(box); got != box {
		t.Errorf("Expected union with empty to be %v, got %v", box, got)
	}
	if got := box.Union(empty); got != box {
		t.Errorf("Expected union with empty to be %v, got %v", box, got)
	}
}

func TestAABB_Union(t *testing.T) {
	a := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1))
	b := NewAABB(NewVec3(3, -1, 0.5), NewVec3(4, 0, 2))
	expected := NewAABB(NewVec3(0, -1, 0), NewVec3(4, 1, 2))

	if got := a.Union(b); got != expected {
		t.Errorf("Expected %v, got %v", expected, got)
	}
	if got := NewAABBFromPoints(NewVec3(0, -1, 0), NewVec3(4, 1, 2), NewVec3(2, 0, 1)); got != expected {
		t.Errorf("NewAABBFromPoints: expected %v, got %v", expected, got)
	}
}

func TestAABB_SurfaceAreaAndExtent(t *testing.T) {
	box := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 2, 3))
	if sa := box.SurfaceArea(); sa != 22 {
		t.Errorf("Expected surface area 22, got %v", sa)
	}
	if axis := box.MaximumExtent(); axis != 2 {
		t.Errorf("Expected maximum extent axis 2, got %d", axis)
	}

	flat := NewAABB(NewVec3(0, 0, 0), NewVec3(2, 3, 0))
	if sa := flat.SurfaceArea(); sa != 12 {
		t.Errorf("Expected flat surface area 12, got %v", sa)
	}
	if axis := flat.MaximumExtent(); axis != 1 {
		t.Errorf("Expected maximum extent axis 1, got %d", axis)
	}
}

func TestAABB_Offset(t *testing.T) {
	box := NewAABB(NewVec3(0, 0, 5), NewVec3(2, 4, 5))
	got := box.Offset(NewVec3(1, 4, 5))
	if got != NewVec3(0.5, 1, 0) {
		t.Errorf("Expected (0.5, 1, 0), got %v", got)
	}
}

func TestAABB_Corner(t *testing.T) {
	box := NewAABB(NewVec3(0, 1, 2), NewVec3(3, 4, 5))
	tests := []struct {
		index    int
		expected Vec3
	}{
		{0, NewVec3(0, 1, 2)},
		{1, NewVec3(3, 1, 2)},
		{2, NewVec3(0, 4, 2)},
		{4, NewVec3(0, 1, 5)},
		{7, NewVec3(3, 4, 5)},
	}

	for _, tt := range tests {
		if got := box.Corner(tt.index); got != tt.expected {
			t.Errorf("Corner(%d): expected %v, got %v", tt.index, tt.expected, got)
		}
	}
}

func TestAABB_Overlaps(t *testing.T) {
	box := unitBox()
	if !box.Overlaps(NewAABB(NewVec3(1, 1, 1), NewVec3(2, 2, 2))) {
		t.Errorf("Expected boxes touching at a corner to overlap")
	}
	if box.Overlaps(NewAABB(NewVec3(1.1, 0, 0), NewVec3(2, 1, 1))) {
		t.Errorf("Expected separated boxes not to overlap")
	}
	if got := box.Expand(0.5); got != NewAABB(NewVec3(-0.5, -0.5, -0.5), NewVec3(1.5, 1.5, 1.5)) {
		t.Errorf("Unexpected expanded box %v", got)
	}
}

package accel

import (
	"math"
	"testing"

	"github.com/df07/go-raytracer-accel/pkg/core"
)

// mockPrimitive reports a hit at a fixed distance for rays travelling in +X
type mockPrimitive struct {
	bounds core.AABB
	hitT   float64 // Zero means never hit
}

func (m *mockPrimitive) WorldBound() core.AABB {
	return m.bounds
}

func (m *mockPrimitive) Intersect(ray *core.Ray, si *core.SurfaceInteraction) bool {
	if m.hitT <= 0 || ray.Direction.X <= 0 || m.hitT >= ray.TMax {
		return false
	}
	ray.TMax = m.hitT
	si.T = m.hitT
	si.Primitive = m
	return true
}

func (m *mockPrimitive) IntersectP(ray core.Ray) bool {
	return m.hitT > 0 && ray.Direction.X > 0 && m.hitT < ray.TMax
}

func TestMultipleHitsInLeaf(t *testing.T) {
	// Overlapping primitives that end up sharing leaves
	prims := []core.Primitive{
		&mockPrimitive{bounds: core.NewAABB(core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1)), hitT: 2.0},
		&mockPrimitive{bounds: core.NewAABB(core.NewVec3(0.5, 0, 0), core.NewVec3(1.5, 1, 1)), hitT: 1.0},
		&mockPrimitive{bounds: core.NewAABB(core.NewVec3(1.0, 0, 0), core.NewVec3(2.0, 1, 1)), hitT: 3.0},
	}
	ray := core.NewRay(core.NewVec3(-1, 0.5, 0.5), core.NewVec3(1, 0, 0))

	for _, b := range allBuilders() {
		t.Run(b.name, func(t *testing.T) {
			accel, err := b.build(prims)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			got := query(accel, ray)
			if !got.hit {
				t.Fatal("Expected hit")
			}
			// Should return the closest hit
			if math.Abs(got.t-1.0) > 1e-9 {
				t.Errorf("Expected closest hit at t=1.0, got t=%f", got.t)
			}
			if got.primitive != prims[1] {
				t.Errorf("Expected the middle primitive, got %v", got.primitive)
			}
		})
	}
}

func TestRayHitsBoundingBoxButMissesPrimitives(t *testing.T) {
	// Primitives occupy only part of their bounds and never report a hit
	prims := []core.Primitive{
		&mockPrimitive{bounds: core.NewAABB(core.NewVec3(0, 0, 0), core.NewVec3(2, 2, 2))},
		&mockPrimitive{bounds: core.NewAABB(core.NewVec3(3, 0, 0), core.NewVec3(5, 2, 2))},
	}
	ray := core.NewRay(core.NewVec3(-1, 1, 1), core.NewVec3(1, 0, 0))

	for _, b := range allBuilders() {
		t.Run(b.name, func(t *testing.T) {
			accel, err := b.build(prims)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if got := query(accel, ray); got.hit {
				t.Errorf("Expected miss when ray hits bounds but misses primitives, got t=%f", got.t)
			}
			if accel.IntersectP(ray) {
				t.Errorf("Expected no occlusion")
			}
		})
	}
}

func TestLeafThresholdBoundary(t *testing.T) {
	// Long boxes shifted slightly along X: every split costs more than
	// testing all of them
	overlapping := func(n int) []core.Primitive {
		prims := make([]core.Primitive, n)
		for i := range prims {
			x := float64(i) * 0.1
			prims[i] = &mockPrimitive{bounds: core.NewAABB(core.NewVec3(x, 0, 0), core.NewVec3(x+10, 1, 1))}
		}
		return prims
	}

	// Exactly the leaf limit: SAH keeps a single leaf
	bvh, err := NewBVH(overlapping(4), DefaultBVHConfig())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if stats := bvh.Stats(); stats.Nodes != 1 || stats.LeafNodes != 1 {
		t.Errorf("Expected a single leaf for 4 primitives, got %+v", stats)
	}

	// One past the limit: the build has to split
	bvh, err = NewBVH(overlapping(5), DefaultBVHConfig())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if stats := bvh.Stats(); stats.LeafNodes < 2 {
		t.Errorf("Expected at least 2 leaves for 5 primitives, got %d", stats.LeafNodes)
	}
}

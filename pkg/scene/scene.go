package scene

import (
	"github.com/df07/go-raytracer-accel/pkg/core"
)

// Scene is a named set of primitives to build accelerators over
type Scene struct {
	Name       string
	Primitives []core.Primitive
	Bounds     core.AABB // Union of every primitive's bounds
}

// newScene collects prims into a scene and computes its bounds
func newScene(name string, prims []core.Primitive) *Scene {
	s := &Scene{
		Name:       name,
		Primitives: prims,
		Bounds:     core.EmptyAABB(),
	}
	for _, p := range prims {
		s.Bounds = s.Bounds.Union(p.WorldBound())
	}
	return s
}

// GetPrimitiveCount returns the number of primitives in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Primitives)
}

// RayBounds returns the volume ray origins are drawn from: the scene bounds
// padded by margin on every side, or a unit box around the origin for an
// empty scene.
func (s *Scene) RayBounds(margin float64) core.AABB {
	if s.Bounds.IsEmpty() {
		return core.NewAABB(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1))
	}
	return s.Bounds.Expand(margin)
}

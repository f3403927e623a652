package accel

import "github.com/df07/go-raytracer-accel/pkg/core"

// List is an aggregate without acceleration: every query tests every
// primitive. It serves scenes too small to need a tree and as a reference
// for the accelerated structures.
type List struct {
	primitives []core.Primitive
	bounds     core.AABB
}

// NewList creates a list aggregate over prims. The caller's slice is not
// modified.
func NewList(prims []core.Primitive) *List {
	l := &List{
		primitives: append([]core.Primitive(nil), prims...),
		bounds:     core.EmptyAABB(),
	}
	for _, p := range l.primitives {
		l.bounds = l.bounds.Union(p.WorldBound())
	}
	return l
}

// WorldBound returns the union of all primitive bounds
func (l *List) WorldBound() core.AABB {
	return l.bounds
}

// Intersect finds the closest primitive hit along the ray
func (l *List) Intersect(ray *core.Ray, si *core.SurfaceInteraction) bool {
	hit := false
	for _, p := range l.primitives {
		if p.Intersect(ray, si) {
			hit = true
		}
	}
	return hit
}

// IntersectP reports whether any primitive is hit along the ray
func (l *List) IntersectP(ray core.Ray) bool {
	for _, p := range l.primitives {
		if p.IntersectP(ray) {
			return true
		}
	}
	return false
}

// Len returns the number of primitives
func (l *List) Len() int {
	return len(l.primitives)
}

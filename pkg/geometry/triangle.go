package geometry

import (
	"github.com/df07/go-raytracer-accel/pkg/core"
)

// Triangle represents a single triangle defined by three vertices
type Triangle struct {
	V0, V1, V2 core.Vec3 // The three vertices
	normal     core.Vec3 // Cached normal vector
	bbox       core.AABB // Cached bounding box
}

// NewTriangle creates a new triangle from three vertices
func NewTriangle(v0, v1, v2 core.Vec3) *Triangle {
	t := &Triangle{
		V0: v0,
		V1: v1,
		V2: v2,
	}

	// Precompute normal and bounding box for efficiency
	t.normal = v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()
	t.bbox = core.NewAABBFromPoints(v0, v1, v2)

	return t
}

// hit runs the Möller-Trumbore test and returns the hit parameter
func (t *Triangle) hit(ray core.Ray) (float64, bool) {
	const epsilon = 1e-12

	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	// If determinant is near zero, ray lies in plane of triangle
	if a > -epsilon && a < epsilon {
		return 0, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return 0, false
	}

	tParam := f * edge2.Dot(q)
	if !inRange(tParam, ray) {
		return 0, false
	}
	return tParam, true
}

// Intersect implements core.Primitive
func (t *Triangle) Intersect(ray *core.Ray, si *core.SurfaceInteraction) bool {
	tParam, ok := t.hit(*ray)
	if !ok {
		return false
	}

	ray.TMax = tParam
	si.T = tParam
	si.Point = ray.At(tParam)
	si.Primitive = t
	si.SetFaceNormal(*ray, t.normal)
	return true
}

// IntersectP implements core.Primitive
func (t *Triangle) IntersectP(ray core.Ray) bool {
	_, ok := t.hit(ray)
	return ok
}

// WorldBound returns the axis-aligned bounding box for this triangle
func (t *Triangle) WorldBound() core.AABB {
	return t.bbox
}

// Normal returns the triangle's normal vector
func (t *Triangle) Normal() core.Vec3 {
	return t.normal
}

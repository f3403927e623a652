package geometry

import (
	"math"

	"github.com/df07/go-raytracer-accel/pkg/core"
)

// Quad represents a parallelogram defined by a corner and two edge vectors
type Quad struct {
	Corner core.Vec3 // One corner of the quad
	U      core.Vec3 // First edge vector
	V      core.Vec3 // Second edge vector
	Normal core.Vec3 // Normal vector (computed from U × V)
	D      float64   // Plane equation constant: ax + by + cz = d
	W      core.Vec3 // Cached cross product for barycentric coordinates
	bbox   core.AABB // Cached bounding box; flat along axis-aligned normals
}

// NewQuad creates a new quad from a corner point and two edge vectors
func NewQuad(corner, u, v core.Vec3) *Quad {
	// Calculate normal from cross product of edge vectors
	cross := u.Cross(v)
	normal := cross.Normalize()

	// w = normal / (normal · (u × v))
	w := normal.Multiply(1.0 / normal.Dot(cross))

	return &Quad{
		Corner: corner,
		U:      u,
		V:      v,
		Normal: normal,
		D:      normal.Dot(corner),
		W:      w,
		bbox:   core.NewAABBFromPoints(corner, corner.Add(u), corner.Add(v), corner.Add(u).Add(v)),
	}
}

// hit returns the ray parameter of the intersection with the quad
func (q *Quad) hit(ray core.Ray) (float64, bool) {
	// If denominator is close to zero, ray is parallel to quad (no intersection)
	denominator := ray.Direction.Dot(q.Normal)
	if math.Abs(denominator) < 1e-8 {
		return 0, false
	}

	t := (q.D - ray.Origin.Dot(q.Normal)) / denominator
	if !inRange(t, ray) {
		return 0, false
	}

	// Check if hit point is within the quad bounds using barycentric coordinates
	hitVector := ray.At(t).Subtract(q.Corner)
	alpha := q.W.Dot(hitVector.Cross(q.V))
	beta := q.W.Dot(q.U.Cross(hitVector))
	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return 0, false
	}
	return t, true
}

// Intersect implements core.Primitive
func (q *Quad) Intersect(ray *core.Ray, si *core.SurfaceInteraction) bool {
	t, ok := q.hit(*ray)
	if !ok {
		return false
	}

	ray.TMax = t
	si.T = t
	si.Point = ray.At(t)
	si.Primitive = q
	si.SetFaceNormal(*ray, q.Normal)
	return true
}

// IntersectP implements core.Primitive
func (q *Quad) IntersectP(ray core.Ray) bool {
	_, ok := q.hit(ray)
	return ok
}

// WorldBound returns the axis-aligned bounding box for this quad
func (q *Quad) WorldBound() core.AABB {
	return q.bbox
}

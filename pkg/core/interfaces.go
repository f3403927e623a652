package core

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// SurfaceInteraction contains information about a ray-primitive intersection
type SurfaceInteraction struct {
	Point     Vec3      // Point of intersection
	Normal    Vec3      // Surface normal at intersection, facing against the ray
	T         float64   // Parameter t along the ray
	FrontFace bool      // Whether ray hit the front face
	Primitive Primitive // The primitive that was hit
}

// SetFaceNormal sets the normal vector and determines front/back face
func (si *SurfaceInteraction) SetFaceNormal(ray Ray, outwardNormal Vec3) {
	si.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if si.FrontFace {
		si.Normal = outwardNormal
	} else {
		si.Normal = outwardNormal.Negate()
	}
}

// Primitive is anything a ray can be tested against: a single shape or an
// aggregate of shapes such as an acceleration structure.
type Primitive interface {
	// WorldBound returns the world-space bounds of the primitive
	WorldBound() AABB
	// Intersect finds the closest hit in (0, ray.TMax). On a hit it shrinks
	// ray.TMax to the hit distance and fills si.
	Intersect(ray *Ray, si *SurfaceInteraction) bool
	// IntersectP reports whether any hit exists in (0, ray.TMax)
	IntersectP(ray Ray) bool
}

package geometry

import (
	"math"

	"github.com/df07/go-raytracer-accel/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center core.Vec3
	Radius float64
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64) *Sphere {
	return &Sphere{
		Center: center,
		Radius: radius,
	}
}

// nearestRoot solves the ray/sphere quadratic and returns the smallest root
// inside (0, ray.TMax)
func (s *Sphere) nearestRoot(ray core.Ray) (float64, bool) {
	// Vector from ray origin to sphere center
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 || a == 0 {
		return 0, false
	}
	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-halfB - sqrtD) / a
	if !inRange(root, ray) {
		root = (-halfB + sqrtD) / a
		if !inRange(root, ray) {
			return 0, false
		}
	}
	return root, true
}

// Intersect implements core.Primitive
func (s *Sphere) Intersect(ray *core.Ray, si *core.SurfaceInteraction) bool {
	root, ok := s.nearestRoot(*ray)
	if !ok {
		return false
	}

	ray.TMax = root
	si.T = root
	si.Point = ray.At(root)
	si.Primitive = s

	// Calculate outward normal (from center to hit point)
	outwardNormal := si.Point.Subtract(s.Center).Multiply(1.0 / s.Radius)
	si.SetFaceNormal(*ray, outwardNormal)
	return true
}

// IntersectP implements core.Primitive
func (s *Sphere) IntersectP(ray core.Ray) bool {
	_, ok := s.nearestRoot(ray)
	return ok
}

// WorldBound returns the axis-aligned bounding box for this sphere
func (s *Sphere) WorldBound() core.AABB {
	radius := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.NewAABB(
		s.Center.Subtract(radius),
		s.Center.Add(radius),
	)
}

// inRange reports whether t lies in the open interval (0, ray.TMax)
func inRange(t float64, ray core.Ray) bool {
	return t > 0 && t < ray.TMax
}

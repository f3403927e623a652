package geometry

import (
	"math"

	"github.com/df07/go-raytracer-accel/pkg/core"
)

// Disc represents a circular disc in 3D space
type Disc struct {
	Center core.Vec3 // Center of the disc
	Normal core.Vec3 // Unit normal
	Radius float64
	bbox   core.AABB
}

// NewDisc creates a new disc
func NewDisc(center, normal core.Vec3, radius float64) *Disc {
	n := normal.Normalize()

	// A circle of radius r with unit normal n spans r*sqrt(1-n_i^2) along axis i
	extent := core.NewVec3(
		radius*math.Sqrt(math.Max(0, 1-n.X*n.X)),
		radius*math.Sqrt(math.Max(0, 1-n.Y*n.Y)),
		radius*math.Sqrt(math.Max(0, 1-n.Z*n.Z)),
	)
	return &Disc{
		Center: center,
		Normal: n,
		Radius: radius,
		bbox:   core.NewAABB(center.Subtract(extent), center.Add(extent)),
	}
}

// hit returns the ray parameter of the intersection with the disc
func (d *Disc) hit(ray core.Ray) (float64, bool) {
	denom := d.Normal.Dot(ray.Direction)
	if math.Abs(denom) < 1e-8 {
		return 0, false // Ray is parallel to disc
	}

	t := d.Normal.Dot(d.Center.Subtract(ray.Origin)) / denom
	if !inRange(t, ray) {
		return 0, false
	}
	if ray.At(t).Subtract(d.Center).LengthSquared() > d.Radius*d.Radius {
		return 0, false
	}
	return t, true
}

// Intersect implements core.Primitive
func (d *Disc) Intersect(ray *core.Ray, si *core.SurfaceInteraction) bool {
	t, ok := d.hit(*ray)
	if !ok {
		return false
	}

	ray.TMax = t
	si.T = t
	si.Point = ray.At(t)
	si.Primitive = d
	si.SetFaceNormal(*ray, d.Normal)
	return true
}

// IntersectP implements core.Primitive
func (d *Disc) IntersectP(ray core.Ray) bool {
	_, ok := d.hit(ray)
	return ok
}

// WorldBound returns the tight axis-aligned bounds of the disc; flat along
// an axis-aligned normal
func (d *Disc) WorldBound() core.AABB {
	return d.bbox
}

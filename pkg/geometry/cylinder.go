package geometry

import (
	"math"

	"github.com/df07/go-raytracer-accel/pkg/core"
)

// Cylinder represents a finite cylinder shape (open-ended, no caps)
type Cylinder struct {
	BaseCenter core.Vec3
	TopCenter  core.Vec3
	Radius     float64

	// Cached derived values
	axis   core.Vec3 // Unit vector from base to top
	height float64   // Distance between base and top
}

// NewCylinder creates a new cylinder
func NewCylinder(baseCenter, topCenter core.Vec3, radius float64) *Cylinder {
	axisVector := topCenter.Subtract(baseCenter)
	return &Cylinder{
		BaseCenter: baseCenter,
		TopCenter:  topCenter,
		Radius:     radius,
		axis:       axisVector.Normalize(),
		height:     axisVector.Length(),
	}
}

// WorldBound returns the axis-aligned bounding box for this cylinder: the
// bounds of its two end circles
func (c *Cylinder) WorldBound() core.AABB {
	// A circle of radius r around unit axis a spans r*sqrt(1-a_i^2) along axis i
	extent := core.NewVec3(
		c.Radius*math.Sqrt(math.Max(0, 1-c.axis.X*c.axis.X)),
		c.Radius*math.Sqrt(math.Max(0, 1-c.axis.Y*c.axis.Y)),
		c.Radius*math.Sqrt(math.Max(0, 1-c.axis.Z*c.axis.Z)),
	)
	segment := core.NewAABB(c.BaseCenter, c.TopCenter)
	return core.AABB{
		Min: segment.Min.Subtract(extent),
		Max: segment.Max.Add(extent),
	}
}

// hit returns the nearest root in range whose point lies between the two
// end planes, and the height of that point along the axis
func (c *Cylinder) hit(ray core.Ray) (float64, float64, bool) {
	// Vector from ray origin to base center
	delta := ray.Origin.Subtract(c.BaseCenter)
	dv := ray.Direction.Dot(c.axis)
	deltaV := delta.Dot(c.axis)

	// Quadratic equation coefficients: at² + bt + cc = 0
	a := ray.Direction.LengthSquared() - dv*dv
	b := 2.0 * (delta.Dot(ray.Direction) - deltaV*dv)
	cc := delta.LengthSquared() - deltaV*deltaV - c.Radius*c.Radius

	// Ray parallel to the axis never crosses the side
	if math.Abs(a) < 1e-8 {
		return 0, 0, false
	}
	discriminant := b*b - 4*a*cc
	if discriminant < 0 {
		return 0, 0, false
	}
	sqrtD := math.Sqrt(discriminant)

	// Closer root first; fall back to the far one when the near one is out
	// of range or beyond an end
	for _, t := range [2]float64{(-b - sqrtD) / (2 * a), (-b + sqrtD) / (2 * a)} {
		if !inRange(t, ray) {
			continue
		}
		h := ray.At(t).Subtract(c.BaseCenter).Dot(c.axis)
		if h >= 0 && h <= c.height {
			return t, h, true
		}
	}
	return 0, 0, false
}

// Intersect implements core.Primitive
func (c *Cylinder) Intersect(ray *core.Ray, si *core.SurfaceInteraction) bool {
	t, h, ok := c.hit(*ray)
	if !ok {
		return false
	}

	ray.TMax = t
	si.T = t
	si.Point = ray.At(t)
	si.Primitive = c

	// Normal points radially outward from the axis point at the same height
	axisPoint := c.BaseCenter.Add(c.axis.Multiply(h))
	si.SetFaceNormal(*ray, si.Point.Subtract(axisPoint).Normalize())
	return true
}

// IntersectP implements core.Primitive
func (c *Cylinder) IntersectP(ray core.Ray) bool {
	_, _, ok := c.hit(ray)
	return ok
}

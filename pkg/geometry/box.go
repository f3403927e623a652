package geometry

import (
	"github.com/df07/go-raytracer-accel/pkg/core"
)

// Box represents a solid axis-aligned box
type Box struct {
	Center core.Vec3 // Center point of the box
	Size   core.Vec3 // Half-extents along each axis
	bbox   core.AABB // Cached bounding box
}

// NewAxisAlignedBox creates a new axis-aligned box.
// Size represents half-extents (so a size of (1,1,1) creates a 2x2x2 box)
func NewAxisAlignedBox(center, size core.Vec3) *Box {
	return &Box{
		Center: center,
		Size:   size,
		bbox:   core.NewAABB(center.Subtract(size), center.Add(size)),
	}
}

// NewBoxFromBounds creates a box occupying exactly the given bounds
func NewBoxFromBounds(bounds core.AABB) *Box {
	return NewAxisAlignedBox(bounds.Centroid(), bounds.Diagonal().Multiply(0.5))
}

// hit returns the nearest slab crossing in (0, ray.TMax) and the axis of the
// face that was crossed
func (b *Box) hit(ray core.Ray) (float64, int, bool) {
	t0, t1 := 0.0, ray.TMax
	nearAxis, farAxis := -1, -1
	for axis := 0; axis < 3; axis++ {
		d := ray.Direction.Axis(axis)
		o := ray.Origin.Axis(axis)
		lo, hi := b.bbox.Min.Axis(axis), b.bbox.Max.Axis(axis)
		if d == 0 {
			// Ray is parallel to this slab
			if o < lo || o > hi {
				return 0, 0, false
			}
			continue
		}
		tNear := (lo - o) / d
		tFar := (hi - o) / d
		if tNear > tFar {
			tNear, tFar = tFar, tNear
		}
		if tNear > t0 {
			t0, nearAxis = tNear, axis
		}
		if tFar < t1 {
			t1, farAxis = tFar, axis
		}
		if t0 > t1 {
			return 0, 0, false
		}
	}

	// Origin outside: the entry face is the hit. Origin inside: the exit face.
	if nearAxis >= 0 && inRange(t0, ray) {
		return t0, nearAxis, true
	}
	if farAxis >= 0 && inRange(t1, ray) {
		return t1, farAxis, true
	}
	return 0, 0, false
}

// Intersect implements core.Primitive
func (b *Box) Intersect(ray *core.Ray, si *core.SurfaceInteraction) bool {
	tHit, axis, ok := b.hit(*ray)
	if !ok {
		return false
	}

	ray.TMax = tHit
	si.T = tHit
	si.Point = ray.At(tHit)
	si.Primitive = b

	// Outward normal points away from the center along the crossed axis
	var outward core.Vec3
	if si.Point.Axis(axis) >= b.Center.Axis(axis) {
		outward = outward.SetAxis(axis, 1)
	} else {
		outward = outward.SetAxis(axis, -1)
	}
	si.SetFaceNormal(*ray, outward)
	return true
}

// IntersectP implements core.Primitive
func (b *Box) IntersectP(ray core.Ray) bool {
	_, _, ok := b.hit(ray)
	return ok
}

// WorldBound returns the axis-aligned bounding box for this box
func (b *Box) WorldBound() core.AABB {
	return b.bbox
}

package core

import "math"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from two corner points, in any order
func NewAABB(a, b Vec3) AABB {
	return AABB{Min: a.Min(b), Max: a.Max(b)}
}

// EmptyAABB returns the identity element of Union: it contains no points and
// any union with it yields the other operand.
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	box := EmptyAABB()
	for _, point := range points {
		box = box.UnionPoint(point)
	}
	return box
}

// IsEmpty reports whether the box contains no points
func (aabb AABB) IsEmpty() bool {
	return aabb.Min.X > aabb.Max.X || aabb.Min.Y > aabb.Max.Y || aabb.Min.Z > aabb.Max.Z
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	return AABB{Min: aabb.Min.Min(other.Min), Max: aabb.Max.Max(other.Max)}
}

// UnionPoint returns an AABB that bounds this AABB and the point
func (aabb AABB) UnionPoint(p Vec3) AABB {
	return AABB{Min: aabb.Min.Min(p), Max: aabb.Max.Max(p)}
}

// Centroid returns the center point of the AABB
func (aabb AABB) Centroid() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Diagonal returns the vector from Min to Max
func (aabb AABB) Diagonal() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// SurfaceArea returns the surface area of the AABB; empty boxes have none
func (aabb AABB) SurfaceArea() float64 {
	if aabb.IsEmpty() {
		return 0
	}
	d := aabb.Diagonal()
	return 2.0 * (d.X*d.Y + d.Y*d.Z + d.Z*d.X)
}

// MaximumExtent returns the axis (0=X, 1=Y, 2=Z) with the longest extent
func (aabb AABB) MaximumExtent() int {
	d := aabb.Diagonal()
	if d.X > d.Y && d.X > d.Z {
		return 0
	}
	if d.Y > d.Z {
		return 1
	}
	return 2
}

// Offset returns the position of p relative to the box corners, where Min maps
// to 0 and Max maps to 1 on every axis with nonzero extent.
func (aabb AABB) Offset(p Vec3) Vec3 {
	o := p.Subtract(aabb.Min)
	if aabb.Max.X > aabb.Min.X {
		o.X /= aabb.Max.X - aabb.Min.X
	}
	if aabb.Max.Y > aabb.Min.Y {
		o.Y /= aabb.Max.Y - aabb.Min.Y
	}
	if aabb.Max.Z > aabb.Min.Z {
		o.Z /= aabb.Max.Z - aabb.Min.Z
	}
	return o
}

// Corner returns one of the eight box corners; bit k of i selects Max on axis k
func (aabb AABB) Corner(i int) Vec3 {
	c := aabb.Min
	if i&1 != 0 {
		c.X = aabb.Max.X
	}
	if i&2 != 0 {
		c.Y = aabb.Max.Y
	}
	if i&4 != 0 {
		c.Z = aabb.Max.Z
	}
	return c
}

// bound returns Min for 0 and Max for 1
func (aabb AABB) bound(i int) Vec3 {
	if i == 0 {
		return aabb.Min
	}
	return aabb.Max
}

// Intersect clips the ray's parametric range [0, ray.TMax] against the box
// slabs and returns the overlapping interval. NaN slab distances (zero
// direction component with the origin on a slab plane) never shrink the
// interval.
func (aabb AABB) Intersect(ray Ray) (t0, t1 float64, hit bool) {
	if aabb.IsEmpty() {
		return 0, 0, false
	}
	t0, t1 = 0, ray.TMax
	for axis := 0; axis < 3; axis++ {
		invDir := 1 / ray.Direction.Axis(axis)
		origin := ray.Origin.Axis(axis)
		tNear := (aabb.Min.Axis(axis) - origin) * invDir
		tFar := (aabb.Max.Axis(axis) - origin) * invDir
		if invDir < 0 {
			tNear, tFar = tFar, tNear
		}
		tNear = nearOrInf(tNear)
		tFar = farOrInf(tFar) * slabPadding

		if tNear > t0 {
			t0 = tNear
		}
		if tFar < t1 {
			t1 = tFar
		}
		if t0 > t1 {
			return 0, 0, false
		}
	}
	return t0, t1, true
}

// nearOrInf maps the NaN produced by 0*Inf (origin on a slab plane with a zero
// direction component) to an unbounded near distance.
func nearOrInf(t float64) float64 {
	if t != t {
		return math.Inf(-1)
	}
	return t
}

// farOrInf is the far-distance counterpart of nearOrInf.
func farOrInf(t float64) float64 {
	if t != t {
		return math.Inf(1)
	}
	return t
}

// IntersectInv is the traversal variant of Intersect taking the precomputed
// reciprocal direction and per-axis sign flags.
func (aabb AABB) IntersectInv(ray Ray, invDir Vec3, dirIsNeg [3]int) bool {
	tMin := nearOrInf((aabb.bound(dirIsNeg[0]).X - ray.Origin.X) * invDir.X)
	tMax := farOrInf((aabb.bound(1-dirIsNeg[0]).X - ray.Origin.X) * invDir.X)
	tyMin := nearOrInf((aabb.bound(dirIsNeg[1]).Y - ray.Origin.Y) * invDir.Y)
	tyMax := farOrInf((aabb.bound(1-dirIsNeg[1]).Y - ray.Origin.Y) * invDir.Y)

	tMax *= slabPadding
	tyMax *= slabPadding
	if tMin > tyMax || tyMin > tMax {
		return false
	}
	if tyMin > tMin {
		tMin = tyMin
	}
	if tyMax < tMax {
		tMax = tyMax
	}

	tzMin := nearOrInf((aabb.bound(dirIsNeg[2]).Z - ray.Origin.Z) * invDir.Z)
	tzMax := farOrInf((aabb.bound(1-dirIsNeg[2]).Z - ray.Origin.Z) * invDir.Z)
	tzMax *= slabPadding
	if tMin > tzMax || tzMin > tMax {
		return false
	}
	if tzMin > tMin {
		tMin = tzMin
	}
	if tzMax < tMax {
		tMax = tzMax
	}
	return tMin < ray.TMax && tMax > 0
}

// Inside reports whether p lies within the closed box
func (aabb AABB) Inside(p Vec3) bool {
	return p.X >= aabb.Min.X && p.X <= aabb.Max.X &&
		p.Y >= aabb.Min.Y && p.Y <= aabb.Max.Y &&
		p.Z >= aabb.Min.Z && p.Z <= aabb.Max.Z
}

// Overlaps reports whether two closed boxes share at least one point
func (aabb AABB) Overlaps(other AABB) bool {
	return aabb.Max.X >= other.Min.X && aabb.Min.X <= other.Max.X &&
		aabb.Max.Y >= other.Min.Y && aabb.Min.Y <= other.Max.Y &&
		aabb.Max.Z >= other.Min.Z && aabb.Min.Z <= other.Max.Z
}

// Expand returns an AABB expanded by the given amount in all directions
func (aabb AABB) Expand(amount float64) AABB {
	expansion := NewVec3(amount, amount, amount)
	return AABB{
		Min: aabb.Min.Subtract(expansion),
		Max: aabb.Max.Add(expansion),
	}
}

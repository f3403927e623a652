package scene

import (
	"math"
	"math/rand"

	"github.com/df07/go-raytracer-accel/pkg/core"
	"github.com/df07/go-raytracer-accel/pkg/geometry"
)

// axisNormals are the normals mixed-scene discs and quads pick from; a flat
// primitive lying in a split plane is the case worth exercising
var axisNormals = [3]core.Vec3{
	core.NewVec3(1, 0, 0),
	core.NewVec3(0, 1, 0),
	core.NewVec3(0, 0, 1),
}

// NewMixedScene creates count primitives cycling through spheres, discs,
// cylinders, quads and boxes, placed uniformly in [0,extent]^3. Half of the
// flat primitives are axis-aligned and snapped to integer coordinates.
func NewMixedScene(count int, extent float64, seed int64) *Scene {
	random := rand.New(rand.NewSource(seed))
	volume := core.NewAABB(core.NewVec3(0, 0, 0), core.NewVec3(extent, extent, extent))

	// normal returns an axis normal half the time and a random one otherwise
	normal := func() (core.Vec3, bool) {
		if random.Intn(2) == 0 {
			return axisNormals[random.Intn(3)], true
		}
		return core.RandomUnitVector(random), false
	}

	prims := make([]core.Primitive, count)
	for i := range prims {
		center := core.RandomInBox(volume, random)
		size := 0.25 + random.Float64()*0.75

		switch i % 5 {
		case 0:
			prims[i] = geometry.NewSphere(center, size)
		case 1:
			n, aligned := normal()
			if aligned {
				center = snap(center)
			}
			prims[i] = geometry.NewDisc(center, n, size)
		case 2:
			axis := core.RandomUnitVector(random).Multiply(size * 2)
			prims[i] = geometry.NewCylinder(center, center.Add(axis), size/2)
		case 3:
			n, aligned := normal()
			if aligned {
				center = snap(center)
			}
			// Edge vectors spanning the plane perpendicular to n
			helper := core.NewVec3(1, 0, 0)
			if n.X*n.X > 0.5 {
				helper = core.NewVec3(0, 1, 0)
			}
			u := n.Cross(helper).Normalize().Multiply(size)
			v := n.Cross(u).Normalize().Multiply(size)
			prims[i] = geometry.NewQuad(center, u, v)
		default:
			half := core.NewVec3(size, size*0.5, size*0.75)
			prims[i] = geometry.NewBoxFromBounds(core.NewAABB(center.Subtract(half), center.Add(half)))
		}
	}
	return newScene("mixed", prims)
}

// snap rounds every coordinate to the nearest integer
func snap(p core.Vec3) core.Vec3 {
	return core.NewVec3(math.Round(p.X), math.Round(p.Y), math.Round(p.Z))
}

package scene

import (
	"math/rand"

	"github.com/df07/go-raytracer-accel/pkg/core"
	"github.com/df07/go-raytracer-accel/pkg/geometry"
)

// NewRandomSpheresScene creates count unit-radius spheres with centers drawn
// uniformly from [0,extent]^3. The same seed always yields the same scene.
func NewRandomSpheresScene(count int, extent float64, seed int64) *Scene {
	random := rand.New(rand.NewSource(seed))
	volume := core.NewAABB(core.NewVec3(0, 0, 0), core.NewVec3(extent, extent, extent))

	prims := make([]core.Primitive, count)
	for i := range prims {
		prims[i] = geometry.NewSphere(core.RandomInBox(volume, random), 1.0)
	}
	return newScene("spheres", prims)
}

// NewCoincidentScene creates count identical spheres at the origin. No
// partition can separate their centroids.
func NewCoincidentScene(count int) *Scene {
	prims := make([]core.Primitive, count)
	for i := range prims {
		prims[i] = geometry.NewSphere(core.NewVec3(0, 0, 0), 1.0)
	}
	return newScene("coincident", prims)
}

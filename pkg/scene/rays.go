package scene

import (
	"math/rand"

	"github.com/df07/go-raytracer-accel/pkg/core"
)

// axisAlignedEvery makes every n-th generated ray have a zero direction
// component, so slab tests see infinite reciprocals.
const axisAlignedEvery = 8

// RandomRays returns n rays with origins uniform in bounds and uniformly
// distributed unit directions. Every eighth ray has one direction component
// zeroed. The same seed always yields the same rays.
func RandomRays(bounds core.AABB, n int, seed int64) []core.Ray {
	random := rand.New(rand.NewSource(seed))
	rays := make([]core.Ray, n)
	for i := range rays {
		origin := core.RandomInBox(bounds, random)
		direction := core.RandomUnitVector(random)
		if i%axisAlignedEvery == axisAlignedEvery-1 {
			direction = direction.SetAxis(random.Intn(3), 0)
			if direction.LengthSquared() == 0 {
				direction = core.NewVec3(1, 0, 0)
			}
			direction = direction.Normalize()
		}
		rays[i] = core.NewRay(origin, direction)
	}
	return rays
}

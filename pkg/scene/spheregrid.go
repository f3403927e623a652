package scene

import (
	"math"

	"github.com/df07/go-raytracer-accel/pkg/core"
	"github.com/df07/go-raytracer-accel/pkg/geometry"
)

// NewSphereGridScene creates a square grid of about count spheres resting on
// a ground quad
func NewSphereGridScene(count int) *Scene {
	gridSize := int(math.Ceil(math.Sqrt(float64(count))))

	// Create ground quad under the whole grid
	prims := []core.Primitive{
		geometry.NewQuad(
			core.NewVec3(-1, 0, -1), // corner
			core.NewVec3(11, 0, 0),  // u vector (X direction)
			core.NewVec3(0, 0, 11),  // v vector (Z direction)
		),
	}
	if gridSize == 0 {
		return newScene("spheregrid", prims)
	}

	// Scale spacing and radius so the grid always covers the same area
	targetArea := 9.0
	spacing := targetArea
	if gridSize > 1 {
		spacing = targetArea / float64(gridSize-1)
	}

	// Scale sphere radius based on spacing, but keep reasonable minimum/maximum
	sphereRadius := spacing * 0.35 // 35% of spacing
	minRadius := 0.02              // Minimum radius
	maxRadius := 0.35              // Maximum radius
	sphereRadius = math.Max(minRadius, math.Min(maxRadius, sphereRadius))

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := float64(i) * spacing
			z := float64(j) * spacing
			y := sphereRadius // Sphere sits on ground quad
			prims = append(prims, geometry.NewSphere(core.NewVec3(x, y, z), sphereRadius))
		}
	}
	return newScene("spheregrid", prims)
}

package scene

import (
	"github.com/df07/go-raytracer-accel/pkg/core"
	"github.com/df07/go-raytracer-accel/pkg/geometry"
)

// NewCornellScene creates the classic Cornell box: five wall quads, a
// ceiling light quad, two blocks and a sphere. Walls are flat on the very
// planes a KD-tree likes to split on.
func NewCornellScene() *Scene {
	boxSize := 556.0

	prims := []core.Primitive{
		// Floor (white)
		geometry.NewQuad(
			core.NewVec3(0, 0, 0),       // corner
			core.NewVec3(boxSize, 0, 0), // u vector (X direction)
			core.NewVec3(0, 0, boxSize), // v vector (Z direction)
		),
		// Ceiling (white)
		geometry.NewQuad(
			core.NewVec3(0, boxSize, 0), // corner
			core.NewVec3(boxSize, 0, 0), // u vector (X direction)
			core.NewVec3(0, 0, boxSize), // v vector (Z direction)
		),
		// Back wall (white)
		geometry.NewQuad(
			core.NewVec3(0, 0, boxSize), // corner
			core.NewVec3(boxSize, 0, 0), // u vector (X direction)
			core.NewVec3(0, boxSize, 0), // v vector (Y direction)
		),
		// Left wall (red)
		geometry.NewQuad(
			core.NewVec3(0, 0, 0),       // corner
			core.NewVec3(0, 0, boxSize), // u vector (Z direction)
			core.NewVec3(0, boxSize, 0), // v vector (Y direction)
		),
		// Right wall (green)
		geometry.NewQuad(
			core.NewVec3(boxSize, 0, 0), // corner
			core.NewVec3(0, boxSize, 0), // u vector (Y direction)
			core.NewVec3(0, 0, boxSize), // v vector (Z direction)
		),
	}

	// Ceiling light, slightly below the ceiling
	lightSize := 130.0
	lightOffset := (boxSize - lightSize) / 2
	prims = append(prims, geometry.NewQuad(
		core.NewVec3(lightOffset, boxSize-1, lightOffset), // corner
		core.NewVec3(lightSize, 0, 0),                     // u vector (X direction)
		core.NewVec3(0, 0, lightSize),                     // v vector (Z direction)
	))

	// Short and tall blocks standing on the floor
	prims = append(prims,
		geometry.NewAxisAlignedBox(core.NewVec3(185, 82.5, 169), core.NewVec3(82.5, 82.5, 82.5)),
		geometry.NewAxisAlignedBox(core.NewVec3(370, 165, 351), core.NewVec3(82.5, 165, 82.5)),
	)

	// Sphere resting on the short block
	prims = append(prims, geometry.NewSphere(core.NewVec3(185, 225, 169), 60))

	return newScene("cornell", prims)
}

package scene

import (
	"github.com/df07/go-raytracer-accel/pkg/core"
	"github.com/df07/go-raytracer-accel/pkg/geometry"
)

// NewTwoBoxesScene creates two disjoint unit boxes, [0,1]^3 and [3,4]x[0,1]x[0,1]
func NewTwoBoxesScene() *Scene {
	return newScene("twoboxes", []core.Primitive{
		geometry.NewBoxFromBounds(core.NewAABB(core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1))),
		geometry.NewBoxFromBounds(core.NewAABB(core.NewVec3(3, 0, 0), core.NewVec3(4, 1, 1))),
	})
}

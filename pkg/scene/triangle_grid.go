package scene

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/df07/go-raytracer-accel/pkg/core"
	"github.com/df07/go-raytracer-accel/pkg/geometry"
)

// NewTriangleGridScene tessellates a rolling height field over [0,10]^2 in
// XZ into about count triangles. The seed picks the wave phases.
func NewTriangleGridScene(count int, seed int64) (*Scene, error) {
	// Two triangles per grid cell
	cells := int(math.Ceil(math.Sqrt(float64(count) / 2)))
	if cells == 0 {
		return newScene("trigrid", nil), nil
	}
	random := rand.New(rand.NewSource(seed))
	phaseX := random.Float64() * 2 * math.Pi
	phaseZ := random.Float64() * 2 * math.Pi

	step := 10.0 / float64(cells)
	vertices := make([]core.Vec3, 0, (cells+1)*(cells+1))
	for i := 0; i <= cells; i++ {
		for j := 0; j <= cells; j++ {
			x := float64(i) * step
			z := float64(j) * step
			y := 0.5*math.Sin(x+phaseX) + 0.5*math.Cos(0.7*z+phaseZ)
			vertices = append(vertices, core.NewVec3(x, y, z))
		}
	}

	faces := make([]int, 0, cells*cells*6)
	for i := 0; i < cells; i++ {
		for j := 0; j < cells; j++ {
			v00 := i*(cells+1) + j
			v10 := v00 + cells + 1
			faces = append(faces,
				v00, v10, v10+1,   // first triangle
				v00, v10+1, v00+1, // second triangle
			)
		}
	}

	// Tilt the field so its triangles are not aligned with any axis
	rotation := core.NewVec3(0.1, 0.3, 0)
	center := core.NewVec3(5, 0, 5)
	triangles, err := geometry.NewTriangleMesh(vertices, faces, &geometry.TriangleMeshOptions{
		Rotation: &rotation,
		Center:   &center,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to tessellate triangle grid")
	}

	prims := make([]core.Primitive, len(triangles))
	for i, tri := range triangles {
		prims[i] = tri
	}
	return newScene("trigrid", prims), nil
}

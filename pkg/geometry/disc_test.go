package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-raytracer-accel/pkg/core"
)

func TestDisc_Intersect(t *testing.T) {
	// Disc at origin facing up with radius 1
	disc := NewDisc(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), 1.0)

	tests := []struct {
		name          string
		ray           core.Ray
		shouldHit     bool
		expectedT     float64
		expectedFront bool
	}{
		{
			name:          "Ray hits center of disc",
			ray:           core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0)),
			shouldHit:     true,
			expectedT:     1.0,
			expectedFront: true,
		},
		{
			name:          "Ray hits edge of disc",
			ray:           core.NewRay(core.NewVec3(1, 1, 0), core.NewVec3(0, -1, 0)),
			shouldHit:     true,
			expectedT:     1.0,
			expectedFront: true,
		},
		{
			name:      "Ray misses disc (outside radius)",
			ray:       core.NewRay(core.NewVec3(1.1, 1, 0), core.NewVec3(0, -1, 0)),
			shouldHit: false,
		},
		{
			name:      "Ray parallel to disc plane",
			ray:       core.NewRay(core.NewVec3(-2, 0, 0), core.NewVec3(1, 0, 0)),
			shouldHit: false,
		},
		{
			name:          "Ray hits from below",
			ray:           core.NewRay(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0)),
			shouldHit:     true,
			expectedT:     1.0,
			expectedFront: false,
		},
		{
			name:      "Disc beyond TMax",
			ray:       core.Ray{Origin: core.NewVec3(0, 1, 0), Direction: core.NewVec3(0, -1, 0), TMax: 0.5},
			shouldHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := tt.ray
			var si core.SurfaceInteraction
			hit := disc.Intersect(&ray, &si)

			if hit != tt.shouldHit {
				t.Fatalf("Expected hit=%v, got hit=%v", tt.shouldHit, hit)
			}
			if occluded := disc.IntersectP(tt.ray); occluded != tt.shouldHit {
				t.Errorf("Expected IntersectP=%v, got %v", tt.shouldHit, occluded)
			}
			if !tt.shouldHit {
				return
			}
			if math.Abs(si.T-tt.expectedT) > 1e-9 || ray.TMax != si.T {
				t.Errorf("Expected t=%v recorded in TMax, got t=%v TMax=%v", tt.expectedT, si.T, ray.TMax)
			}
			if si.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face=%v, got %v", tt.expectedFront, si.FrontFace)
			}
			if si.Primitive != disc {
				t.Errorf("Expected the disc as hit primitive")
			}
		})
	}
}

func TestDisc_WorldBound(t *testing.T) {
	// Axis-aligned normal gives a flat box
	flat := NewDisc(core.NewVec3(1, 2, 3), core.NewVec3(0, 0, 5), 2)
	expected := core.NewAABB(core.NewVec3(-1, 0, 3), core.NewVec3(3, 4, 3))
	if !vecNear(flat.WorldBound().Min, expected.Min, 1e-12) || !vecNear(flat.WorldBound().Max, expected.Max, 1e-12) {
		t.Errorf("Expected %v, got %v", expected, flat.WorldBound())
	}

	// Every point of a tilted disc lies inside its bounds, and the bounds
	// are tight along each axis
	normal := core.NewVec3(1, 2, -0.5).Normalize()
	disc := NewDisc(core.NewVec3(0, 0, 0), normal, 1.5)
	bounds := disc.WorldBound().Expand(1e-9)

	right := normal.Cross(core.NewVec3(0, 1, 0)).Normalize()
	up := normal.Cross(right)
	random := rand.New(rand.NewSource(11))
	reached := core.EmptyAABB()
	for i := 0; i < 2000; i++ {
		r := 1.5 * math.Sqrt(random.Float64())
		theta := 2 * math.Pi * random.Float64()
		p := right.Multiply(r * math.Cos(theta)).Add(up.Multiply(r * math.Sin(theta)))
		if !bounds.Inside(p) {
			t.Fatalf("Point %v of the disc lies outside %v", p, bounds)
		}
		reached = reached.UnionPoint(p)
	}
	for axis := 0; axis < 3; axis++ {
		if reached.Max.Axis(axis) < 0.9*disc.WorldBound().Max.Axis(axis) {
			t.Errorf("Bounds along axis %d look loose: reached %v of %v",
				axis, reached.Max.Axis(axis), disc.WorldBound().Max.Axis(axis))
		}
	}
}

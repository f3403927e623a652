package accel

import (
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/df07/go-raytracer-accel/pkg/core"
)

// recordingLogger keeps every formatted line for inspection
type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Printf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

// namedBuilder builds one accelerator configuration under test
type namedBuilder struct {
	name  string
	build func(prims []core.Primitive) (core.Primitive, error)
}

// allBuilders returns every structure and strategy combination
func allBuilders() []namedBuilder {
	var builders []namedBuilder
	for _, method := range []SplitMethod{SplitSAH, SplitHLBVH, SplitMiddle, SplitEqualCounts} {
		method := method
		builders = append(builders, namedBuilder{
			name: "bvh-" + method.String(),
			build: func(prims []core.Primitive) (core.Primitive, error) {
				config := DefaultBVHConfig()
				config.SplitMethod = method
				config.Workers = 4
				return NewBVH(prims, config)
			},
		})
	}
	builders = append(builders, namedBuilder{
		name: "kdtree",
		build: func(prims []core.Primitive) (core.Primitive, error) {
			return NewKDTree(prims, DefaultKDTreeConfig())
		},
	})
	return builders
}

// queryResult is what one ray query reports
type queryResult struct {
	hit       bool
	t         float64
	primitive core.Primitive
}

func query(p core.Primitive, ray core.Ray) queryResult {
	var si core.SurfaceInteraction
	hit := p.Intersect(&ray, &si)
	return queryResult{hit: hit, t: si.T, primitive: si.Primitive}
}

// checkAgainstOracle compares accel with a brute-force scan for every ray
func checkAgainstOracle(t *testing.T, accel core.Primitive, prims []core.Primitive, rays []core.Ray, tolerance float64) {
	t.Helper()
	oracle := NewList(prims)
	mismatches := 0
	for i, ray := range rays {
		want := query(oracle, ray)
		got := query(accel, ray)
		if got.hit != want.hit {
			t.Errorf("Ray %d (%v): expected hit=%t, got %t", i, ray, want.hit, got.hit)
			mismatches++
		} else if got.hit && math.Abs(got.t-want.t) > tolerance {
			t.Errorf("Ray %d (%v): expected t=%f, got t=%f", i, ray, want.t, got.t)
			mismatches++
		}
		if occluded := accel.IntersectP(ray); occluded != got.hit {
			t.Errorf("Ray %d (%v): IntersectP=%t but Intersect=%t", i, ray, occluded, got.hit)
			mismatches++
		}
		if mismatches > 10 {
			t.Fatalf("Too many mismatches, stopping")
		}
	}
}

// unionBounds returns the union of every primitive's bounds
func unionBounds(prims []core.Primitive) core.AABB {
	bounds := core.EmptyAABB()
	for _, p := range prims {
		bounds = bounds.Union(p.WorldBound())
	}
	return bounds
}

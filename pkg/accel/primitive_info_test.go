package accel

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/df07/go-raytracer-accel/pkg/core"
	"github.com/df07/go-raytracer-accel/pkg/geometry"
)

func randomInfo(n int, seed int64) []primitiveInfo {
	random := rand.New(rand.NewSource(seed))
	info := make([]primitiveInfo, n)
	for i := range info {
		// Coarse coordinates produce plenty of ties
		c := core.NewVec3(float64(random.Intn(20)), float64(random.Intn(20)), float64(random.Intn(20)))
		info[i] = primitiveInfo{primitiveNumber: i, centroid: c, bounds: core.NewAABB(c, c)}
	}
	return info
}

func TestNewPrimitiveInfo(t *testing.T) {
	prims := []core.Primitive{
		geometry.NewSphere(core.NewVec3(1, 2, 3), 1),
		geometry.NewAxisAlignedBox(core.NewVec3(-1, 0, 0), core.NewVec3(2, 1, 1)),
	}
	info := newPrimitiveInfo(prims)

	if len(info) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(info))
	}
	for i, pi := range info {
		if pi.primitiveNumber != i {
			t.Errorf("Expected primitive number %d, got %d", i, pi.primitiveNumber)
		}
		if pi.bounds != prims[i].WorldBound() {
			t.Errorf("Expected bounds %v, got %v", prims[i].WorldBound(), pi.bounds)
		}
		if pi.centroid != pi.bounds.Centroid() {
			t.Errorf("Expected centroid %v, got %v", pi.bounds.Centroid(), pi.centroid)
		}
	}
}

func TestPartitionInfo(t *testing.T) {
	info := randomInfo(200, 1)
	pred := func(pi *primitiveInfo) bool { return pi.centroid.X < 10 }

	expected := 0
	for i := range info {
		if pred(&info[i]) {
			expected++
		}
	}

	mid := partitionInfo(info, pred)
	if mid != expected {
		t.Fatalf("Expected %d elements before the split, got %d", expected, mid)
	}
	for i := range info {
		if pred(&info[i]) != (i < mid) {
			t.Errorf("Element %d on the wrong side of %d", i, mid)
		}
	}

	seen := make(map[int]bool)
	for _, pi := range info {
		seen[pi.primitiveNumber] = true
	}
	if len(seen) != 200 {
		t.Errorf("Expected a permutation of 200 elements, got %d distinct", len(seen))
	}
}

func TestNthElementByAxis(t *testing.T) {
	for _, n := range []int{1, 2, 3, 10, 101} {
		for axis := 0; axis < 3; axis++ {
			for _, k := range []int{0, n / 2, n - 1} {
				info := randomInfo(n, int64(n*10+axis))
				sorted := append([]primitiveInfo(nil), info...)
				sort.Slice(sorted, func(i, j int) bool {
					return sorted[i].centroid.Axis(axis) < sorted[j].centroid.Axis(axis)
				})

				nthElementByAxis(info, k, axis)
				kth := info[k].centroid.Axis(axis)
				if kth != sorted[k].centroid.Axis(axis) {
					t.Errorf("n=%d axis=%d k=%d: expected %f, got %f", n, axis, k, sorted[k].centroid.Axis(axis), kth)
				}
				for i := 0; i < k; i++ {
					if info[i].centroid.Axis(axis) > kth {
						t.Errorf("n=%d axis=%d k=%d: element %d larger than kth", n, axis, k, i)
					}
				}
				for i := k + 1; i < n; i++ {
					if info[i].centroid.Axis(axis) < kth {
						t.Errorf("n=%d axis=%d k=%d: element %d smaller than kth", n, axis, k, i)
					}
				}
			}
		}
	}
}

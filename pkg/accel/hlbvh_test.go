package accel

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/df07/go-raytracer-accel/pkg/core"
	"github.com/df07/go-raytracer-accel/pkg/scene"
)

func TestLeftShift3(t *testing.T) {
	tests := []struct {
		input    uint32
		expected uint32
	}{
		{0, 0},
		{1, 1},
		{0b10, 0b1000},
		{0b11, 0b1001},
		{0b101, 0b1000001},
		{1023, 0x9249249},
		{1024, 0x9249249}, // clamped to 10 bits
	}

	for _, tt := range tests {
		if got := leftShift3(tt.input); got != tt.expected {
			t.Errorf("leftShift3(%d): expected %#x, got %#x", tt.input, tt.expected, got)
		}
	}
}

func TestLeftShift3_PanicsPast10Bits(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for coordinate past 1024")
		}
	}()
	leftShift3(1025)
}

func TestEncodeMorton3(t *testing.T) {
	tests := []struct {
		point    core.Vec3
		expected uint32
	}{
		{core.NewVec3(0, 0, 0), 0},
		{core.NewVec3(1, 0, 0), 0b001},
		{core.NewVec3(0, 1, 0), 0b010},
		{core.NewVec3(0, 0, 1), 0b100},
		{core.NewVec3(1.9, 1.2, 1.99), 0b111},
		{core.NewVec3(2, 0, 0), 0b001000},
		{core.NewVec3(1024, 1024, 1024), 0x3fffffff},
	}

	for _, tt := range tests {
		if got := encodeMorton3(tt.point); got != tt.expected {
			t.Errorf("encodeMorton3(%v): expected %#b, got %#b", tt.point, tt.expected, got)
		}
	}
}

func TestRadixSort(t *testing.T) {
	random := rand.New(rand.NewSource(17))
	for _, n := range []int{0, 1, 2, 63, 1000} {
		v := make([]mortonPrimitive, n)
		for i := range v {
			// Few distinct codes so stability matters
			v[i] = mortonPrimitive{primitiveIndex: i, mortonCode: uint32(random.Intn(50)) << uint(random.Intn(25))}
		}
		expected := append([]mortonPrimitive(nil), v...)
		sort.SliceStable(expected, func(i, j int) bool {
			return expected[i].mortonCode < expected[j].mortonCode
		})

		radixSort(v)
		for i := range v {
			if v[i] != expected[i] {
				t.Fatalf("n=%d: expected %+v at %d, got %+v", n, expected[i], i, v[i])
			}
		}
	}
}

func TestHLBVH_TreeletsAndNodeCounts(t *testing.T) {
	s := scene.NewRandomSpheresScene(5000, 100, 4)
	for _, workers := range []int{1, 3, 16} {
		config := DefaultBVHConfig()
		config.SplitMethod = SplitHLBVH
		config.Workers = workers
		bvh, err := NewBVH(s.Primitives, config)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		checkBVHStructure(t, bvh)
		if stats := bvh.Stats(); stats.PrimitiveRefs != len(s.Primitives) {
			t.Errorf("workers=%d: expected %d primitive references, got %d", workers, len(s.Primitives), stats.PrimitiveRefs)
		}
	}
}

func TestHLBVH_SameShapeForAnyWorkerCount(t *testing.T) {
	s := scene.NewRandomSpheresScene(3000, 20, 6)
	var reference TreeStats
	for i, workers := range []int{1, 2, 8} {
		config := DefaultBVHConfig()
		config.SplitMethod = SplitHLBVH
		config.Workers = workers
		bvh, err := NewBVH(s.Primitives, config)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		stats := bvh.Stats()
		if i == 0 {
			reference = stats
			continue
		}
		if stats != reference {
			t.Errorf("workers=%d: expected stats %+v, got %+v", workers, reference, stats)
		}
	}
}

package accel

import "github.com/df07/go-raytracer-accel/pkg/core"

// primitiveInfo caches what the builders need to know about one primitive
type primitiveInfo struct {
	primitiveNumber int       // Index into the caller's primitive slice
	bounds          core.AABB // World-space bounds
	centroid        core.Vec3 // Midpoint of bounds
}

// newPrimitiveInfo computes the info cache for every primitive, in order
func newPrimitiveInfo(prims []core.Primitive) []primitiveInfo {
	info := make([]primitiveInfo, len(prims))
	for i, p := range prims {
		bounds := p.WorldBound()
		info[i] = primitiveInfo{
			primitiveNumber: i,
			bounds:          bounds,
			centroid:        bounds.Centroid(),
		}
	}
	return info
}

// partitionInfo reorders info so every element satisfying pred precedes every
// element that does not, and returns the number of elements satisfying pred.
func partitionInfo(info []primitiveInfo, pred func(*primitiveInfo) bool) int {
	first := 0
	for first < len(info) && pred(&info[first]) {
		first++
	}
	for i := first + 1; i < len(info); i++ {
		if pred(&info[i]) {
			info[i], info[first] = info[first], info[i]
			first++
		}
	}
	return first
}

// nthElementByAxis partially sorts info so the element at index k is the one
// that would be there if info were sorted by centroid along axis, with no
// larger element before it and no smaller element after it.
func nthElementByAxis(info []primitiveInfo, k, axis int) {
	key := func(i int) float64 { return info[i].centroid.Axis(axis) }
	lo, hi := 0, len(info)-1
	for lo < hi {
		// Median-of-three pivot keeps sorted input linear
		mid := lo + (hi-lo)/2
		if key(mid) < key(lo) {
			info[mid], info[lo] = info[lo], info[mid]
		}
		if key(hi) < key(lo) {
			info[hi], info[lo] = info[lo], info[hi]
		}
		if key(hi) < key(mid) {
			info[hi], info[mid] = info[mid], info[hi]
		}
		pivot := key(mid)

		i, j := lo, hi
		for i <= j {
			for key(i) < pivot {
				i++
			}
			for key(j) > pivot {
				j--
			}
			if i <= j {
				info[i], info[j] = info[j], info[i]
				i++
				j--
			}
		}
		switch {
		case k <= j:
			hi = j
		case k >= i:
			lo = i
		default:
			return
		}
	}
}

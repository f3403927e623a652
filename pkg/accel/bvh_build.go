package accel

import (
	"github.com/pkg/errors"

	"github.com/df07/go-raytracer-accel/pkg/core"
)

// nBuckets is the number of SAH buckets along the split axis
const nBuckets = 12

// noNode marks an absent child handle
const noNode int32 = -1

// buildNode is a node of the temporary build tree. It lives in the build
// arena and refers to its children by handle.
type buildNode struct {
	bounds core.AABB
	leaf   bool

	// Leaf payload
	firstPrimOffset int
	nPrimitives     int

	// Interior payload
	splitAxis int
	children  [2]int32
}

// initLeaf turns n into a leaf over a run of ordered primitives
func (n *buildNode) initLeaf(first, count int, bounds core.AABB) {
	n.leaf = true
	n.firstPrimOffset = first
	n.nPrimitives = count
	n.bounds = bounds
	n.children = [2]int32{noNode, noNode}
}

// initInterior turns n into an interior node; its bounds are the union of
// the children's bounds
func (n *buildNode) initInterior(axis int, left, right int32, arena *core.Arena[buildNode]) {
	n.leaf = false
	n.splitAxis = axis
	n.children = [2]int32{left, right}
	n.bounds = arena.At(left).bounds.Union(arena.At(right).bounds)
}

// bucketInfo accumulates the primitives whose centroid falls in one bucket
type bucketInfo struct {
	count  int
	bounds core.AABB
}

// bvhBuilder holds the state of one BVH construction
type bvhBuilder struct {
	maxPrimsInNode int
	splitMethod    SplitMethod
	primitives     []core.Primitive
	info           []primitiveInfo
	arena          *core.Arena[buildNode]
	ordered        []core.Primitive
	totalNodes     int
	pool           *core.Pool
}

// bucketIndex maps a centroid coordinate to its SAH bucket
func bucketIndex(offset float64) int {
	b := int(nBuckets * offset)
	if b == nBuckets {
		b = nBuckets - 1
	}
	if b < 0 || b >= nBuckets {
		panic(errors.Errorf("accel: SAH bucket %d out of range for offset %v", b, offset))
	}
	return b
}

// cheapestSplit evaluates the cost of splitting after each bucket and
// returns the cheapest bucket boundary and its cost
func cheapestSplit(buckets *[nBuckets]bucketInfo, bounds core.AABB, traversalCost float64) (int, float64) {
	var invSA float64
	if sa := bounds.SurfaceArea(); sa > 0 {
		invSA = 1 / sa
	}

	var cost [nBuckets - 1]float64
	for i := 0; i < nBuckets-1; i++ {
		b0, b1 := core.EmptyAABB(), core.EmptyAABB()
		count0, count1 := 0, 0
		for j := 0; j <= i; j++ {
			b0 = b0.Union(buckets[j].bounds)
			count0 += buckets[j].count
		}
		for j := i + 1; j < nBuckets; j++ {
			b1 = b1.Union(buckets[j].bounds)
			count1 += buckets[j].count
		}
		cost[i] = traversalCost +
			(float64(count0)*b0.SurfaceArea()+float64(count1)*b1.SurfaceArea())*invSA
	}

	minCost := cost[0]
	minCostSplitBucket := 0
	for i := 1; i < nBuckets-1; i++ {
		if cost[i] < minCost {
			minCost = cost[i]
			minCostSplitBucket = i
		}
	}
	return minCostSplitBucket, minCost
}

// emitLeaf appends the primitives of info to the ordered list and turns
// node into a leaf over them
func (b *bvhBuilder) emitLeaf(node int32, info []primitiveInfo, bounds core.AABB) int32 {
	first := len(b.ordered)
	for i := range info {
		b.ordered = append(b.ordered, b.primitives[info[i].primitiveNumber])
	}
	b.arena.At(node).initLeaf(first, len(info), bounds)
	return node
}

// recursiveBuild builds the subtree over info top-down and returns its root
func (b *bvhBuilder) recursiveBuild(info []primitiveInfo) int32 {
	if len(info) == 0 {
		panic("accel: BVH build over empty primitive range")
	}
	node := b.arena.Alloc()
	b.totalNodes++

	bounds := core.EmptyAABB()
	for i := range info {
		bounds = bounds.Union(info[i].bounds)
	}
	nPrimitives := len(info)
	if nPrimitives == 1 {
		return b.emitLeaf(node, info, bounds)
	}

	// Compute bound of primitive centroids, choose split dimension
	centroidBounds := core.EmptyAABB()
	for i := range info {
		centroidBounds = centroidBounds.UnionPoint(info[i].centroid)
	}
	dim := centroidBounds.MaximumExtent()
	if centroidBounds.Max.Axis(dim) == centroidBounds.Min.Axis(dim) {
		// Every centroid coincides; no partition can separate them
		return b.emitLeaf(node, info, bounds)
	}

	mid := -1
	switch b.splitMethod {
	case SplitMiddle:
		pmid := (centroidBounds.Min.Axis(dim) + centroidBounds.Max.Axis(dim)) / 2
		mid = partitionInfo(info, func(pi *primitiveInfo) bool {
			return pi.centroid.Axis(dim) < pmid
		})
		if mid == 0 || mid == nPrimitives {
			// Heavily overlapping bounds can defeat the midpoint
			mid = equalCountsSplit(info, dim)
		}
	case SplitEqualCounts:
		mid = equalCountsSplit(info, dim)
	default:
		if nPrimitives <= 2 {
			mid = equalCountsSplit(info, dim)
			break
		}

		var buckets [nBuckets]bucketInfo
		for i := range buckets {
			buckets[i].bounds = core.EmptyAABB()
		}
		for i := range info {
			bi := bucketIndex(centroidBounds.Offset(info[i].centroid).Axis(dim))
			buckets[bi].count++
			buckets[bi].bounds = buckets[bi].bounds.Union(info[i].bounds)
		}
		splitBucket, minCost := cheapestSplit(&buckets, bounds, 1)

		leafCost := float64(nPrimitives)
		if nPrimitives <= b.maxPrimsInNode && minCost >= leafCost {
			return b.emitLeaf(node, info, bounds)
		}
		mid = partitionInfo(info, func(pi *primitiveInfo) bool {
			return bucketIndex(centroidBounds.Offset(pi.centroid).Axis(dim)) <= splitBucket
		})
	}
	if mid <= 0 || mid >= nPrimitives {
		panic(errors.Errorf("accel: degenerate BVH partition %d of %d", mid, nPrimitives))
	}

	left := b.recursiveBuild(info[:mid])
	right := b.recursiveBuild(info[mid:])
	b.arena.At(node).initInterior(dim, left, right, b.arena)
	return node
}

// equalCountsSplit partitions info around its median centroid along dim and
// returns the split index
func equalCountsSplit(info []primitiveInfo, dim int) int {
	mid := len(info) / 2
	nthElementByAxis(info, mid, dim)
	return mid
}

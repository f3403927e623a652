package accel

import (
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/df07/go-raytracer-accel/pkg/core"
)

const (
	mortonBits  = 10
	mortonScale = 1 << mortonBits

	// treeletMask selects the 12 high-order Morton bits shared by a treelet
	treeletMask uint32 = 0x3ffc0000
	// firstBitIndex is the highest Morton bit not consumed by treelet grouping
	firstBitIndex = 29 - 12

	radixBitsPerPass = 6
	radixBits        = 30
	radixPasses      = radixBits / radixBitsPerPass

	mortonChunkSize = 512
)

// mortonPrimitive pairs a primitive with its Morton code
type mortonPrimitive struct {
	primitiveIndex int
	mortonCode     uint32
}

// lbvhTreelet is a run of Morton-sorted primitives sharing their high bits,
// with a pre-carved block of arena nodes
type lbvhTreelet struct {
	startIndex  int
	nPrimitives int
	nodeBase    int32 // First arena handle of the carved block
	root        int32
}

// leftShift3 spreads the low 10 bits of x so two zero bits separate each
func leftShift3(x uint32) uint32 {
	if x > 1<<10 {
		panic(errors.Errorf("accel: Morton coordinate %d exceeds 10 bits", x))
	}
	if x == 1<<10 {
		x--
	}
	x = (x | (x << 16)) & 0x30000ff
	// x = ---- --98 ---- ---- ---- ---- 7654 3210
	x = (x | (x << 8)) & 0x300f00f
	// x = ---- --98 ---- ---- 7654 ---- ---- 3210
	x = (x | (x << 4)) & 0x30c30c3
	// x = ---- --98 ---- 76-- --54 ---- 32-- --10
	x = (x | (x << 2)) & 0x9249249
	// x = ---- 9--8 --7- -6-- 5--4 --3- -2-- 1--0
	return x
}

// encodeMorton3 interleaves the integer parts of a non-negative point's
// coordinates into a 30-bit code, x in the lowest bit
func encodeMorton3(v core.Vec3) uint32 {
	if v.X < 0 || v.Y < 0 || v.Z < 0 {
		panic(errors.Errorf("accel: negative Morton coordinate %v", v))
	}
	return (leftShift3(uint32(v.Z)) << 2) | (leftShift3(uint32(v.Y)) << 1) | leftShift3(uint32(v.X))
}

// radixSort sorts by Morton code using 6-bit digits, ping-ponging between v
// and one scratch buffer. The sort is stable.
func radixSort(v []mortonPrimitive) {
	temp := make([]mortonPrimitive, len(v))
	const radixBuckets = 1 << radixBitsPerPass
	const bitMask = radixBuckets - 1

	for pass := 0; pass < radixPasses; pass++ {
		lowBit := uint(pass * radixBitsPerPass)
		in, out := v, temp
		if pass&1 == 1 {
			in, out = temp, v
		}

		var bucketCount [radixBuckets]int
		for _, mp := range in {
			bucketCount[(mp.mortonCode>>lowBit)&bitMask]++
		}

		var outIndex [radixBuckets]int
		for i := 1; i < radixBuckets; i++ {
			outIndex[i] = outIndex[i-1] + bucketCount[i-1]
		}

		for _, mp := range in {
			bucket := (mp.mortonCode >> lowBit) & bitMask
			out[outIndex[bucket]] = mp
			outIndex[bucket]++
		}
	}
	if radixPasses&1 == 1 {
		copy(v, temp)
	}
}

// hlbvhBuild builds the hierarchy bottom-up from Morton-ordered treelets
// and joins them with an SAH pass over their roots
func (b *bvhBuilder) hlbvhBuild() int32 {
	// Compute bounding box of all primitive centroids
	bounds := core.EmptyAABB()
	for i := range b.info {
		bounds = bounds.UnionPoint(b.info[i].centroid)
	}

	// Compute Morton indices of primitives
	mortonPrims := make([]mortonPrimitive, len(b.info))
	b.pool.ParallelFor(len(b.info), mortonChunkSize, func(i int) {
		mortonPrims[i].primitiveIndex = b.info[i].primitiveNumber
		centroidOffset := bounds.Offset(b.info[i].centroid)
		mortonPrims[i].mortonCode = encodeMorton3(centroidOffset.Multiply(mortonScale))
	})

	radixSort(mortonPrims)

	// Find intervals of primitives for each treelet and carve their nodes
	var treelets []lbvhTreelet
	for start, end := 0, 1; end <= len(mortonPrims); end++ {
		if end == len(mortonPrims) ||
			mortonPrims[start].mortonCode&treeletMask != mortonPrims[end].mortonCode&treeletMask {
			n := end - start
			treelets = append(treelets, lbvhTreelet{
				startIndex:  start,
				nPrimitives: n,
				nodeBase:    b.arena.AllocN(2 * n),
			})
			start = end
		}
	}

	// Create LBVHs for treelets in parallel; the arena must not grow until
	// every worker has finished
	var atomicTotal, orderedPrimsOffset atomic.Int64
	b.ordered = make([]core.Primitive, len(b.primitives))
	b.pool.ParallelFor(len(treelets), 1, func(i int) {
		tr := &treelets[i]
		e := &lbvhEmitter{
			builder:            b,
			nextNode:           tr.nodeBase,
			orderedPrimsOffset: &orderedPrimsOffset,
		}
		tr.root = e.emit(mortonPrims[tr.startIndex:tr.startIndex+tr.nPrimitives], firstBitIndex)
		if int(e.nextNode-tr.nodeBase) > 2*tr.nPrimitives {
			panic(errors.Errorf("accel: treelet used %d of %d carved nodes", e.nextNode-tr.nodeBase, 2*tr.nPrimitives))
		}
		atomicTotal.Add(int64(e.nodesCreated))
	})
	b.totalNodes = int(atomicTotal.Load())
	if got := orderedPrimsOffset.Load(); got != int64(len(b.primitives)) {
		panic(errors.Errorf("accel: treelets placed %d of %d primitives", got, len(b.primitives)))
	}

	roots := make([]int32, len(treelets))
	for i := range treelets {
		roots[i] = treelets[i].root
	}
	return b.buildUpperSAH(roots)
}

// lbvhEmitter builds one treelet. Each emitter owns its carved node block,
// so emitters run concurrently without locking.
type lbvhEmitter struct {
	builder            *bvhBuilder
	nextNode           int32
	nodesCreated       int
	orderedPrimsOffset *atomic.Int64
}

// takeNode hands out the next node of the carved block
func (e *lbvhEmitter) takeNode() (int32, *buildNode) {
	h := e.nextNode
	e.nextNode++
	e.nodesCreated++
	return h, e.builder.arena.At(h)
}

// emit splits mortonPrims on successively lower Morton bits, starting at
// bitIndex, and returns the subtree root
func (e *lbvhEmitter) emit(mortonPrims []mortonPrimitive, bitIndex int) int32 {
	nPrimitives := len(mortonPrims)
	if nPrimitives == 0 {
		panic("accel: empty LBVH range")
	}
	b := e.builder

	if bitIndex == -1 || nPrimitives < b.maxPrimsInNode {
		// Create and return leaf node of LBVH treelet
		h, node := e.takeNode()
		bounds := core.EmptyAABB()
		firstPrimOffset := int(e.orderedPrimsOffset.Add(int64(nPrimitives))) - nPrimitives
		for i, mp := range mortonPrims {
			b.ordered[firstPrimOffset+i] = b.primitives[mp.primitiveIndex]
			bounds = bounds.Union(b.info[mp.primitiveIndex].bounds)
		}
		node.initLeaf(firstPrimOffset, nPrimitives, bounds)
		return h
	}

	mask := uint32(1) << uint(bitIndex)
	// Advance to next subtree level if there's no split for this bit
	if mortonPrims[0].mortonCode&mask == mortonPrims[nPrimitives-1].mortonCode&mask {
		return e.emit(mortonPrims, bitIndex-1)
	}

	// Binary search for the first primitive with the bit set
	searchStart, searchEnd := 0, nPrimitives-1
	for searchStart+1 != searchEnd {
		mid := (searchStart + searchEnd) / 2
		if mortonPrims[searchStart].mortonCode&mask == mortonPrims[mid].mortonCode&mask {
			searchStart = mid
		} else {
			searchEnd = mid
		}
	}
	splitOffset := searchEnd
	if mortonPrims[splitOffset-1].mortonCode&mask == mortonPrims[splitOffset].mortonCode&mask {
		panic(errors.Errorf("accel: LBVH split at %d does not change bit %d", splitOffset, bitIndex))
	}

	// Create and return interior LBVH node
	h, _ := e.takeNode()
	left := e.emit(mortonPrims[:splitOffset], bitIndex-1)
	right := e.emit(mortonPrims[splitOffset:], bitIndex-1)
	b.arena.At(h).initInterior(bitIndex%3, left, right, b.arena)
	return h
}

// rootCentroid returns the centroid of a treelet root along dim
func rootCentroid(bounds core.AABB, dim int) float64 {
	return (bounds.Min.Axis(dim) + bounds.Max.Axis(dim)) * 0.5
}

// buildUpperSAH joins treelet roots top-down with the SAH and returns the
// root of the combined tree
func (b *bvhBuilder) buildUpperSAH(roots []int32) int32 {
	nNodes := len(roots)
	if nNodes == 0 {
		panic("accel: upper SAH over no treelets")
	}
	if nNodes == 1 {
		return roots[0]
	}
	node := b.arena.Alloc()
	b.totalNodes++

	bounds := core.EmptyAABB()
	centroidBounds := core.EmptyAABB()
	for _, r := range roots {
		rb := b.arena.At(r).bounds
		bounds = bounds.Union(rb)
		centroidBounds = centroidBounds.UnionPoint(rb.Centroid())
	}
	dim := centroidBounds.MaximumExtent()
	lo, hi := centroidBounds.Min.Axis(dim), centroidBounds.Max.Axis(dim)

	mid := nNodes / 2
	if hi > lo {
		var buckets [nBuckets]bucketInfo
		for i := range buckets {
			buckets[i].bounds = core.EmptyAABB()
		}
		bucketOf := func(r int32) int {
			return bucketIndex((rootCentroid(b.arena.At(r).bounds, dim) - lo) / (hi - lo))
		}
		for _, r := range roots {
			bi := bucketOf(r)
			buckets[bi].count++
			buckets[bi].bounds = buckets[bi].bounds.Union(b.arena.At(r).bounds)
		}
		splitBucket, _ := cheapestSplit(&buckets, bounds, 0.125)

		// Partition roots so those in buckets up to the split come first
		mid = 0
		for i, r := range roots {
			if bucketOf(r) <= splitBucket {
				roots[i], roots[mid] = roots[mid], roots[i]
				mid++
			}
		}
	}
	if mid <= 0 || mid >= nNodes {
		panic(errors.Errorf("accel: degenerate upper SAH partition %d of %d", mid, nNodes))
	}

	left := b.buildUpperSAH(roots[:mid])
	right := b.buildUpperSAH(roots[mid:])
	b.arena.At(node).initInterior(dim, left, right, b.arena)
	return node
}

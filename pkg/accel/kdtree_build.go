package accel

import (
	"math"
	"sort"

	"github.com/pkg/errors"

	"github.com/df07/go-raytracer-accel/pkg/core"
)

// minKDNodeAlloc is the smallest node pool the builder allocates
const minKDNodeAlloc = 512

type edgeType uint8

const (
	edgeStart edgeType = iota
	edgeEnd
)

// boundEdge is the start or end of one primitive's extent along an axis
type boundEdge struct {
	t        float64
	primNum  int32
	edgeType edgeType
}

// sortEdges orders edges by position. At equal positions starts come before
// ends, so a primitive flat on the split plane lands on both sides.
func sortEdges(edges []boundEdge) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].t == edges[j].t {
			return edges[i].edgeType < edges[j].edgeType
		}
		return edges[i].t < edges[j].t
	})
}

// kdBuilder holds the state of one KD-tree construction
type kdBuilder struct {
	tree         *KDTree
	primBounds   []core.AABB
	nodes        []kdNode
	nextFreeNode int
}

// allocNode claims the next node slot, growing the pool when it is full
func (b *kdBuilder) allocNode() int {
	if b.nextFreeNode == len(b.nodes) {
		nNewAlloc := max(2*len(b.nodes), minKDNodeAlloc)
		nodes := make([]kdNode, nNewAlloc)
		copy(nodes, b.nodes)
		b.nodes = nodes
	}
	b.nextFreeNode++
	return b.nextFreeNode - 1
}

// initLeaf turns node into a leaf over primNums
func (b *kdBuilder) initLeaf(node int, primNums []int32) {
	n := &b.nodes[node]
	n.axis = kdLeaf
	n.nPrims = int32(len(primNums))
	switch len(primNums) {
	case 0:
		n.offset = 0
	case 1:
		n.offset = primNums[0]
	default:
		n.offset = int32(len(b.tree.primitiveIndices))
		b.tree.primitiveIndices = append(b.tree.primitiveIndices, primNums...)
	}
}

// buildTree builds the subtree for primNums inside nodeBounds at nodeNum.
// prims0 and prims1 are scratch; prims1 must hold depth+1 regions of
// len(primNums) entries.
func (b *kdBuilder) buildTree(nodeNum int, nodeBounds core.AABB, primNums []int32, depth int,
	edges *[3][]boundEdge, prims0, prims1 []int32, badRefines int) {
	if got := b.allocNode(); got != nodeNum {
		panic(errors.Errorf("accel: KD-tree node %d built out of order, expected %d", nodeNum, got))
	}

	nPrimitives := len(primNums)
	kd := b.tree
	if nPrimitives <= kd.maxPrims || depth == 0 {
		b.initLeaf(nodeNum, primNums)
		return
	}

	// Choose split axis position for interior node
	bestAxis, bestOffset := -1, -1
	bestCost := math.Inf(1)
	oldCost := kd.isectCost * float64(nPrimitives)
	totalSA := nodeBounds.SurfaceArea()
	if totalSA <= 0 {
		// A box flat on two axes has no split worth costing
		b.initLeaf(nodeNum, primNums)
		return
	}
	invTotalSA := 1 / totalSA
	d := nodeBounds.Diagonal()

	axis := nodeBounds.MaximumExtent()
	for retries := 0; ; retries++ {
		axisEdges := edges[axis][:2*nPrimitives]
		for i, pn := range primNums {
			bounds := b.primBounds[pn]
			axisEdges[2*i] = boundEdge{t: bounds.Min.Axis(axis), primNum: pn, edgeType: edgeStart}
			axisEdges[2*i+1] = boundEdge{t: bounds.Max.Axis(axis), primNum: pn, edgeType: edgeEnd}
		}
		sortEdges(axisEdges)

		// Compute cost of all splits for axis to find best
		nBelow, nAbove := 0, nPrimitives
		lo, hi := nodeBounds.Min.Axis(axis), nodeBounds.Max.Axis(axis)
		otherAxis0, otherAxis1 := (axis+1)%3, (axis+2)%3
		d0, d1 := d.Axis(otherAxis0), d.Axis(otherAxis1)
		for i, edge := range axisEdges {
			if edge.edgeType == edgeEnd {
				nAbove--
			}
			edgeT := edge.t
			if edgeT > lo && edgeT < hi {
				belowSA := 2 * (d0*d1 + (edgeT-lo)*(d0+d1))
				aboveSA := 2 * (d0*d1 + (hi-edgeT)*(d0+d1))
				pBelow := belowSA * invTotalSA
				pAbove := aboveSA * invTotalSA
				eb := 0.0
				if nAbove == 0 || nBelow == 0 {
					eb = kd.emptyBonus
				}
				cost := kd.traversalCost +
					kd.isectCost*(1-eb)*(pBelow*float64(nBelow)+pAbove*float64(nAbove))
				if cost < bestCost {
					bestCost = cost
					bestAxis = axis
					bestOffset = i
				}
			}
			if edge.edgeType == edgeStart {
				nBelow++
			}
		}
		if nBelow != nPrimitives || nAbove != 0 {
			panic(errors.Errorf("accel: KD-tree edge sweep ended with %d below and %d above of %d",
				nBelow, nAbove, nPrimitives))
		}

		if bestAxis != -1 || retries == 2 {
			break
		}
		axis = (axis + 1) % 3
	}

	if bestCost > oldCost {
		badRefines++
	}
	if (bestCost > 4*oldCost && nPrimitives < 16) || bestAxis == -1 || badRefines == 3 {
		b.initLeaf(nodeNum, primNums)
		return
	}

	// Classify primitives with respect to split
	splitEdges := edges[bestAxis][:2*nPrimitives]
	n0, n1 := 0, 0
	for i := 0; i < bestOffset; i++ {
		if splitEdges[i].edgeType == edgeStart {
			prims0[n0] = splitEdges[i].primNum
			n0++
		}
	}
	for i := bestOffset + 1; i < 2*nPrimitives; i++ {
		if splitEdges[i].edgeType == edgeEnd {
			prims1[n1] = splitEdges[i].primNum
			n1++
		}
	}

	// Recursively initialize children nodes
	tSplit := splitEdges[bestOffset].t
	bounds0, bounds1 := nodeBounds, nodeBounds
	bounds0.Max = bounds0.Max.SetAxis(bestAxis, tSplit)
	bounds1.Min = bounds1.Min.SetAxis(bestAxis, tSplit)

	b.buildTree(nodeNum+1, bounds0, prims0[:n0], depth-1, edges, prims0, prims1[nPrimitives:], badRefines)
	aboveChild := b.nextFreeNode
	node := &b.nodes[nodeNum]
	node.axis = uint8(bestAxis)
	node.split = tSplit
	node.offset = int32(aboveChild)
	b.buildTree(aboveChild, bounds1, prims1[:n1], depth-1, edges, prims0, prims1[nPrimitives:], badRefines)
}

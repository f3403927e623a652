package accel

import (
	"github.com/pkg/errors"
)

// flatten lays the build tree out depth-first into a linear node array.
// A node's first child is the next slot; the second child's index is stored.
func (b *bvhBuilder) flatten(root int32) []linearNode {
	nodes := make([]linearNode, b.totalNodes)
	offset := 0
	b.flattenNode(nodes, root, &offset)
	if offset != b.totalNodes {
		panic(errors.Errorf("accel: flattened %d BVH nodes, expected %d", offset, b.totalNodes))
	}
	return nodes
}

// flattenNode writes the subtree at handle h starting at *offset and returns
// the index of its root
func (b *bvhBuilder) flattenNode(nodes []linearNode, h int32, offset *int) int32 {
	node := b.arena.At(h)
	myOffset := *offset
	if myOffset >= len(nodes) {
		panic(errors.Errorf("accel: BVH node count %d exceeded while flattening", len(nodes)))
	}
	*offset++

	linear := &nodes[myOffset]
	linear.bounds = node.bounds
	if node.leaf {
		if node.children[0] != noNode || node.children[1] != noNode {
			panic("accel: BVH leaf with children")
		}
		linear.leaf = true
		linear.offset = int32(node.firstPrimOffset)
		linear.nPrims = int32(node.nPrimitives)
		return int32(myOffset)
	}

	linear.axis = uint8(node.splitAxis)
	b.flattenNode(nodes, node.children[0], offset)
	linear.offset = b.flattenNode(nodes, node.children[1], offset)
	return int32(myOffset)
}

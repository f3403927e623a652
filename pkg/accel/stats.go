package accel

import "unsafe"

// TreeStats summarizes the shape of a built tree
type TreeStats struct {
	Nodes         int
	InteriorNodes int
	LeafNodes     int
	EmptyLeaves   int
	MaxDepth      int     // Depth of the deepest leaf; the root is at depth 0
	AvgLeafDepth  float64 // Mean depth over all leaves
	AvgLeafPrims  float64 // Mean primitive count over all leaves
	MaxLeafPrims  int
	PrimitiveRefs int // Primitive references over all leaves; exceeds the primitive count when leaves share primitives
	Bytes         int // Memory held by node and index arrays
}

// addLeaf records a leaf at depth holding nPrims primitives
func (s *TreeStats) addLeaf(depth, nPrims int) {
	s.Nodes++
	s.LeafNodes++
	if nPrims == 0 {
		s.EmptyLeaves++
	}
	s.MaxDepth = max(s.MaxDepth, depth)
	s.MaxLeafPrims = max(s.MaxLeafPrims, nPrims)
	s.AvgLeafDepth += float64(depth)
	s.PrimitiveRefs += nPrims
}

// finish turns the accumulated sums into averages
func (s *TreeStats) finish() {
	if s.LeafNodes > 0 {
		s.AvgLeafDepth /= float64(s.LeafNodes)
		s.AvgLeafPrims = float64(s.PrimitiveRefs) / float64(s.LeafNodes)
	}
}

// Stats returns statistics about the BVH structure
func (bvh *BVH) Stats() TreeStats {
	if len(bvh.nodes) == 0 {
		return TreeStats{}
	}
	stats := TreeStats{Bytes: len(bvh.nodes) * int(unsafe.Sizeof(linearNode{}))}
	bvh.collectStats(0, 0, &stats)
	stats.finish()
	return stats
}

// collectStats recursively collects statistics about the subtree at index
func (bvh *BVH) collectStats(index int32, depth int, stats *TreeStats) {
	node := &bvh.nodes[index]
	if node.isLeaf() {
		stats.addLeaf(depth, int(node.nPrims))
		return
	}
	stats.Nodes++
	stats.InteriorNodes++
	bvh.collectStats(index+1, depth+1, stats)
	bvh.collectStats(node.secondChild(), depth+1, stats)
}

// Stats returns statistics about the KD-tree structure
func (kd *KDTree) Stats() TreeStats {
	if len(kd.nodes) == 0 {
		return TreeStats{}
	}
	stats := TreeStats{
		Bytes: len(kd.nodes)*int(unsafe.Sizeof(kdNode{})) +
			len(kd.primitiveIndices)*int(unsafe.Sizeof(int32(0))),
	}
	kd.collectStats(0, 0, &stats)
	stats.finish()
	return stats
}

// collectStats recursively collects statistics about the subtree at index
func (kd *KDTree) collectStats(index int32, depth int, stats *TreeStats) {
	node := &kd.nodes[index]
	if node.isLeaf() {
		stats.addLeaf(depth, int(node.nPrims))
		return
	}
	stats.Nodes++
	stats.InteriorNodes++
	kd.collectStats(index+1, depth+1, stats)
	kd.collectStats(node.aboveChild(), depth+1, stats)
}

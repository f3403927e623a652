package accel

import (
	"math"
	"time"
	"unsafe"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/df07/go-raytracer-accel/pkg/core"
)

// KDTreeConfig holds the KD-tree build parameters
type KDTreeConfig struct {
	IntersectCost float64     // Estimated cost of one primitive test
	TraversalCost float64     // Estimated cost of visiting an interior node
	EmptyBonus    float64     // Cost discount in [0,1) for splits with an empty side
	MaxPrims      int         // Node size at or below which a leaf is always made
	MaxDepth      int         // Depth limit up to maxKDTreeDepth; zero or negative derives it from the primitive count
	Logger        core.Logger // Receives the build summary; nil is silent
}

// maxKDTreeDepth bounds the depth limit, which sizes the build scratch at
// (depth+1) entries per primitive
const maxKDTreeDepth = 64

// DefaultKDTreeConfig returns the default KD-tree build parameters
func DefaultKDTreeConfig() KDTreeConfig {
	return KDTreeConfig{
		IntersectCost: 80,
		TraversalCost: 1,
		EmptyBonus:    0.5,
		MaxPrims:      1,
		MaxDepth:      -1,
	}
}

// Validate reports every invalid field
func (c KDTreeConfig) Validate() error {
	var err error
	if c.IntersectCost < 0 {
		err = multierr.Append(err, errors.Errorf("intersect cost must not be negative, got %v", c.IntersectCost))
	}
	if c.TraversalCost < 0 {
		err = multierr.Append(err, errors.Errorf("traversal cost must not be negative, got %v", c.TraversalCost))
	}
	if c.EmptyBonus < 0 || c.EmptyBonus >= 1 {
		err = multierr.Append(err, errors.Errorf("empty bonus must be in [0,1), got %v", c.EmptyBonus))
	}
	if c.MaxPrims < 1 {
		err = multierr.Append(err, errors.Errorf("max prims must be at least 1, got %d", c.MaxPrims))
	}
	if c.MaxDepth > maxKDTreeDepth {
		err = multierr.Append(err, errors.Errorf("max depth must be at most %d, got %d", maxKDTreeDepth, c.MaxDepth))
	}
	return err
}

// kdLeaf is the axis value marking a leaf node
const kdLeaf uint8 = 3

// kdNode is one record of the KD-tree node array. The below child of an
// interior node is the next slot; the above child is stored.
type kdNode struct {
	split  float64 // Interior: split plane position
	offset int32   // Interior: above child. Leaf: the primitive when nPrims is 1, else first entry of primitiveIndices.
	nPrims int32   // Leaf: primitive count
	axis   uint8   // Split axis, or kdLeaf
}

func (n *kdNode) isLeaf() bool {
	return n.axis == kdLeaf
}

// aboveChild returns the index of an interior node's above child
func (n *kdNode) aboveChild() int32 {
	if n.isLeaf() {
		panic("accel: aboveChild on KD-tree leaf")
	}
	return n.offset
}

// KDTree is a KD-tree over a set of primitives built with the surface area
// heuristic. It is immutable once built and safe for concurrent queries.
type KDTree struct {
	isectCost     float64
	traversalCost float64
	emptyBonus    float64
	maxPrims      int
	maxDepth      int

	primitives       []core.Primitive
	primitiveIndices []int32 // Primitive lists of leaves holding more than one
	nodes            []kdNode
	bounds           core.AABB
}

// NewKDTree builds a KD-tree over prims. The caller's slice is not modified.
func NewKDTree(prims []core.Primitive, config KDTreeConfig) (*KDTree, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid KD-tree config")
	}
	logger := core.LoggerOrNop(config.Logger)

	kd := &KDTree{
		isectCost:     config.IntersectCost,
		traversalCost: config.TraversalCost,
		emptyBonus:    config.EmptyBonus,
		maxPrims:      config.MaxPrims,
		maxDepth:      config.MaxDepth,
		primitives:    append([]core.Primitive(nil), prims...),
		bounds:        core.EmptyAABB(),
	}
	if len(prims) == 0 {
		return kd, nil
	}

	startTime := time.Now()
	n := len(prims)
	if kd.maxDepth <= 0 {
		kd.maxDepth = min(int(math.Round(8+1.3*float64(core.Log2Int(int64(n))))), maxKDTreeDepth)
	}

	b := &kdBuilder{
		tree:       kd,
		primBounds: make([]core.AABB, n),
	}
	for i, p := range prims {
		b.primBounds[i] = p.WorldBound()
		kd.bounds = kd.bounds.Union(b.primBounds[i])
	}

	// Each recursion level takes its own n-sized region of prims1
	var edges [3][]boundEdge
	for axis := range edges {
		edges[axis] = make([]boundEdge, 2*n)
	}
	prims0 := make([]int32, n)
	prims1 := make([]int32, (kd.maxDepth+1)*n)
	primNums := make([]int32, n)
	for i := range primNums {
		primNums[i] = int32(i)
	}

	b.buildTree(0, kd.bounds, primNums, kd.maxDepth, &edges, prims0, prims1, 0)
	kd.nodes = b.nodes[:b.nextFreeNode]

	logger.Printf("KD-tree created with %d nodes for %d primitives (%.2f MB) in %v",
		len(kd.nodes), n,
		(float64(len(kd.nodes))*float64(unsafe.Sizeof(kdNode{}))+
			float64(len(kd.primitiveIndices))*float64(unsafe.Sizeof(int32(0))))/(1024*1024),
		time.Since(startTime))
	return kd, nil
}

// WorldBound returns the union of all primitive bounds, or an empty box for
// an empty tree
func (kd *KDTree) WorldBound() core.AABB {
	return kd.bounds
}

// MaxDepth returns the depth limit the tree was built with
func (kd *KDTree) MaxDepth() int {
	return kd.maxDepth
}

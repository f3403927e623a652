package accel

import (
	"fmt"
	"strings"
	"time"
	"unsafe"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/df07/go-raytracer-accel/pkg/core"
)

// SplitMethod selects how the BVH builder partitions primitives
type SplitMethod int

const (
	// SplitSAH partitions at the cheapest of 12 bucket boundaries under the
	// surface area heuristic
	SplitSAH SplitMethod = iota
	// SplitHLBVH builds Morton-ordered treelets in parallel and joins them
	// with an SAH pass over the treelet roots. The tree shape and query
	// answers are deterministic; the order of primitives within the
	// reordered array depends on worker scheduling.
	SplitHLBVH
	// SplitMiddle partitions at the midpoint of the centroid bounds
	SplitMiddle
	// SplitEqualCounts partitions into two halves of equal size
	SplitEqualCounts
)

// maxPrimsInNodeLimit bounds leaf size
const maxPrimsInNodeLimit = 255

var splitMethodNames = map[SplitMethod]string{
	SplitSAH:         "sah",
	SplitHLBVH:       "hlbvh",
	SplitMiddle:      "middle",
	SplitEqualCounts: "equal",
}

// String returns the name of the split method
func (m SplitMethod) String() string {
	if name, ok := splitMethodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("SplitMethod(%d)", int(m))
}

// ParseSplitMethod parses a split method name, ignoring case
func ParseSplitMethod(name string) (SplitMethod, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for m, n := range splitMethodNames {
		if n == lower {
			return m, nil
		}
	}
	return SplitSAH, errors.Errorf("unknown BVH split method %q", name)
}

// MarshalText implements encoding.TextMarshaler
func (m SplitMethod) MarshalText() ([]byte, error) {
	if _, ok := splitMethodNames[m]; !ok {
		return nil, errors.Errorf("unknown split method %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *SplitMethod) UnmarshalText(text []byte) error {
	parsed, err := ParseSplitMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// BVHConfig holds the BVH build parameters
type BVHConfig struct {
	MaxPrimsInNode int         // Largest leaf the builder creates voluntarily; clamped to 255
	SplitMethod    SplitMethod // Partitioning strategy
	Workers        int         // Worker count for HLBVH; zero or negative means one per CPU
	Logger         core.Logger // Receives the build summary; nil is silent
}

// DefaultBVHConfig returns the default BVH build parameters
func DefaultBVHConfig() BVHConfig {
	return BVHConfig{
		MaxPrimsInNode: 4,
		SplitMethod:    SplitSAH,
	}
}

// Validate reports every invalid field
func (c BVHConfig) Validate() error {
	var err error
	if c.MaxPrimsInNode <= 0 {
		err = multierr.Append(err, errors.Errorf("max prims in node must be positive, got %d", c.MaxPrimsInNode))
	}
	if _, ok := splitMethodNames[c.SplitMethod]; !ok {
		err = multierr.Append(err, errors.Errorf("unknown split method %d", int(c.SplitMethod)))
	}
	return err
}

// linearNode is one record of the flattened BVH. Interior nodes store their
// first child in the next slot and the second child explicitly.
type linearNode struct {
	bounds core.AABB
	offset int32 // Leaf: first ordered primitive. Interior: second child index.
	nPrims int32 // Leaf: primitive count
	axis   uint8 // Interior: split axis
	leaf   bool
}

// isLeaf reports whether the node holds primitives
func (n *linearNode) isLeaf() bool {
	return n.leaf
}

// primitivesOffset returns the first ordered primitive of a leaf
func (n *linearNode) primitivesOffset() int {
	if !n.leaf {
		panic("accel: primitivesOffset on interior BVH node")
	}
	return int(n.offset)
}

// secondChild returns the index of an interior node's second child
func (n *linearNode) secondChild() int32 {
	if n.leaf {
		panic("accel: secondChild on BVH leaf")
	}
	return n.offset
}

// BVH is a bounding volume hierarchy over a set of primitives. It is
// immutable once built and safe for concurrent queries.
type BVH struct {
	maxPrimsInNode int
	splitMethod    SplitMethod
	primitives     []core.Primitive // Reordered so every leaf owns a contiguous run
	nodes          []linearNode     // Depth-first order; nodes[0] is the root
}

// NewBVH builds a BVH over prims. The caller's slice is not modified.
func NewBVH(prims []core.Primitive, config BVHConfig) (*BVH, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid BVH config")
	}
	logger := core.LoggerOrNop(config.Logger)

	bvh := &BVH{
		maxPrimsInNode: min(maxPrimsInNodeLimit, config.MaxPrimsInNode),
		splitMethod:    config.SplitMethod,
	}
	if len(prims) == 0 {
		return bvh, nil
	}

	startTime := time.Now()
	b := &bvhBuilder{
		maxPrimsInNode: bvh.maxPrimsInNode,
		splitMethod:    bvh.splitMethod,
		primitives:     prims,
		info:           newPrimitiveInfo(prims),
		arena:          core.NewArena[buildNode](2 * len(prims)),
		pool:           core.NewPool(config.Workers),
	}

	var root int32
	if b.splitMethod == SplitHLBVH {
		root = b.hlbvhBuild()
	} else {
		b.ordered = make([]core.Primitive, 0, len(prims))
		root = b.recursiveBuild(b.info)
	}
	if len(b.ordered) != len(prims) {
		panic(errors.Errorf("accel: BVH placed %d of %d primitives", len(b.ordered), len(prims)))
	}
	bvh.primitives = b.ordered
	bvh.nodes = b.flatten(root)

	logger.Printf("BVH (%s) created with %d nodes for %d primitives (%.2f MB) in %v",
		bvh.splitMethod, len(bvh.nodes), len(bvh.primitives),
		float64(len(bvh.nodes))*float64(unsafe.Sizeof(linearNode{}))/(1024*1024),
		time.Since(startTime))
	return bvh, nil
}

// WorldBound returns the bounds of the root node, or an empty box for an
// empty hierarchy
func (bvh *BVH) WorldBound() core.AABB {
	if len(bvh.nodes) == 0 {
		return core.EmptyAABB()
	}
	return bvh.nodes[0].bounds
}

// SplitMethod returns the strategy the hierarchy was built with
func (bvh *BVH) SplitMethod() SplitMethod {
	return bvh.splitMethod
}

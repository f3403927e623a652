package accel

import "github.com/df07/go-raytracer-accel/pkg/core"

// maxTodo is the initial capacity of traversal stacks. Stacks grow past it
// for unusually deep trees.
const maxTodo = 64

// rayDirSigns returns 1 for every axis along which the ray travels in the
// negative direction
func rayDirSigns(invDir core.Vec3) [3]int {
	var dirIsNeg [3]int
	if invDir.X < 0 {
		dirIsNeg[0] = 1
	}
	if invDir.Y < 0 {
		dirIsNeg[1] = 1
	}
	if invDir.Z < 0 {
		dirIsNeg[2] = 1
	}
	return dirIsNeg
}

// Intersect finds the closest primitive hit along the ray
func (bvh *BVH) Intersect(ray *core.Ray, si *core.SurfaceInteraction) bool {
	if len(bvh.nodes) == 0 {
		return false
	}
	invDir := ray.Direction.Inverse()
	dirIsNeg := rayDirSigns(invDir)

	var stackBuf [maxTodo]int32
	nodesToVisit := stackBuf[:0]
	current := int32(0)
	hit := false
	for {
		node := &bvh.nodes[current]
		if node.bounds.IntersectInv(*ray, invDir, dirIsNeg) {
			if node.isLeaf() {
				first := node.primitivesOffset()
				for i := 0; i < int(node.nPrims); i++ {
					if bvh.primitives[first+i].Intersect(ray, si) {
						hit = true
					}
				}
			} else {
				// Visit the near child first, keep the far one for later
				if dirIsNeg[node.axis] == 1 {
					nodesToVisit = append(nodesToVisit, current+1)
					current = node.secondChild()
				} else {
					nodesToVisit = append(nodesToVisit, node.secondChild())
					current++
				}
				continue
			}
		}
		if len(nodesToVisit) == 0 {
			break
		}
		current = nodesToVisit[len(nodesToVisit)-1]
		nodesToVisit = nodesToVisit[:len(nodesToVisit)-1]
	}
	return hit
}

// IntersectP reports whether any primitive is hit along the ray
func (bvh *BVH) IntersectP(ray core.Ray) bool {
	if len(bvh.nodes) == 0 {
		return false
	}
	invDir := ray.Direction.Inverse()
	dirIsNeg := rayDirSigns(invDir)

	var stackBuf [maxTodo]int32
	nodesToVisit := stackBuf[:0]
	current := int32(0)
	for {
		node := &bvh.nodes[current]
		if node.bounds.IntersectInv(ray, invDir, dirIsNeg) {
			if node.isLeaf() {
				first := node.primitivesOffset()
				for i := 0; i < int(node.nPrims); i++ {
					if bvh.primitives[first+i].IntersectP(ray) {
						return true
					}
				}
			} else {
				if dirIsNeg[node.axis] == 1 {
					nodesToVisit = append(nodesToVisit, current+1)
					current = node.secondChild()
				} else {
					nodesToVisit = append(nodesToVisit, node.secondChild())
					current++
				}
				continue
			}
		}
		if len(nodesToVisit) == 0 {
			break
		}
		current = nodesToVisit[len(nodesToVisit)-1]
		nodesToVisit = nodesToVisit[:len(nodesToVisit)-1]
	}
	return false
}

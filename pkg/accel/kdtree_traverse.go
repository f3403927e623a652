package accel

import "github.com/df07/go-raytracer-accel/pkg/core"

// kdTodo is a deferred KD-tree node with the ray interval inside it
type kdTodo struct {
	node       int32
	tMin, tMax float64
}

// leafPrimitive returns the i-th primitive of a leaf
func (kd *KDTree) leafPrimitive(node *kdNode, i int) core.Primitive {
	if node.nPrims == 1 {
		return kd.primitives[node.offset]
	}
	return kd.primitives[kd.primitiveIndices[int(node.offset)+i]]
}

// children returns the child visited first and the child visited second by
// a ray, along with the ray parameter of the split plane
func (kd *KDTree) children(current int32, node *kdNode, ray *core.Ray, invDir core.Vec3) (first, second int32, tPlane float64) {
	axis := int(node.axis)
	origin := ray.Origin.Axis(axis)
	tPlane = (node.split - origin) * invDir.Axis(axis)

	// Get node children pointers for ray
	belowFirst := origin < node.split || (origin == node.split && ray.Direction.Axis(axis) <= 0)
	if belowFirst {
		return current + 1, node.aboveChild(), tPlane
	}
	return node.aboveChild(), current + 1, tPlane
}

// Intersect finds the closest primitive hit along the ray
func (kd *KDTree) Intersect(ray *core.Ray, si *core.SurfaceInteraction) bool {
	if len(kd.nodes) == 0 {
		return false
	}
	// Compute initial parametric range of ray inside kd-tree extent
	tMin, tMax, ok := kd.bounds.Intersect(*ray)
	if !ok {
		return false
	}
	invDir := ray.Direction.Inverse()

	var todoBuf [maxTodo]kdTodo
	todo := todoBuf[:0]
	hit := false
	current := int32(0)
	for {
		// Bail out if we found a hit closer than the current node
		if ray.TMax < tMin {
			break
		}
		node := &kd.nodes[current]
		if !node.isLeaf() {
			first, second, tPlane := kd.children(current, node, ray, invDir)
			switch {
			case tPlane != tPlane:
				// The ray runs inside the split plane; both sides may hold it
				todo = append(todo, kdTodo{node: second, tMin: tMin, tMax: tMax})
				current = first
			case tPlane > tMax || tPlane <= 0:
				current = first
			case tPlane < tMin:
				current = second
			default:
				todo = append(todo, kdTodo{node: second, tMin: tPlane, tMax: tMax})
				current = first
				tMax = tPlane
			}
			continue
		}

		for i := 0; i < int(node.nPrims); i++ {
			if kd.leafPrimitive(node, i).Intersect(ray, si) {
				hit = true
			}
		}
		if len(todo) == 0 {
			break
		}
		next := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		current, tMin, tMax = next.node, next.tMin, next.tMax
	}
	return hit
}

// IntersectP reports whether any primitive is hit along the ray
func (kd *KDTree) IntersectP(ray core.Ray) bool {
	if len(kd.nodes) == 0 {
		return false
	}
	tMin, tMax, ok := kd.bounds.Intersect(ray)
	if !ok {
		return false
	}
	invDir := ray.Direction.Inverse()

	var todoBuf [maxTodo]kdTodo
	todo := todoBuf[:0]
	current := int32(0)
	for {
		node := &kd.nodes[current]
		if !node.isLeaf() {
			first, second, tPlane := kd.children(current, node, &ray, invDir)
			switch {
			case tPlane != tPlane:
				todo = append(todo, kdTodo{node: second, tMin: tMin, tMax: tMax})
				current = first
			case tPlane > tMax || tPlane <= 0:
				current = first
			case tPlane < tMin:
				current = second
			default:
				todo = append(todo, kdTodo{node: second, tMin: tPlane, tMax: tMax})
				current = first
				tMax = tPlane
			}
			continue
		}

		for i := 0; i < int(node.nPrims); i++ {
			if kd.leafPrimitive(node, i).IntersectP(ray) {
				return true
			}
		}
		if len(todo) == 0 {
			break
		}
		next := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		current, tMin, tMax = next.node, next.tMin, next.tMax
	}
	return false
}

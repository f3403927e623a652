package scene

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// SceneInfo describes one built-in scene
type SceneInfo struct {
	Name        string // Identifier accepted by New
	Description string
	Sized       bool // Whether the count argument of New changes the scene
}

// builder creates a scene from a primitive count and random seed
type builder func(count int, seed int64) (*Scene, error)

type registration struct {
	info  SceneInfo
	build builder
}

var registry = map[string]registration{
	"twoboxes": {
		info:  SceneInfo{Name: "twoboxes", Description: "Two disjoint unit boxes"},
		build: func(int, int64) (*Scene, error) { return NewTwoBoxesScene(), nil },
	},
	"spheres": {
		info:  SceneInfo{Name: "spheres", Description: "Unit spheres scattered in a 10x10x10 volume", Sized: true},
		build: func(count int, seed int64) (*Scene, error) { return NewRandomSpheresScene(count, 10, seed), nil },
	},
	"spheregrid": {
		info:  SceneInfo{Name: "spheregrid", Description: "Square grid of spheres on a ground quad", Sized: true},
		build: func(count int, _ int64) (*Scene, error) { return NewSphereGridScene(count), nil },
	},
	"trigrid": {
		info:  SceneInfo{Name: "trigrid", Description: "Rolling height field tessellated into triangles", Sized: true},
		build: func(count int, seed int64) (*Scene, error) { return NewTriangleGridScene(count, seed) },
	},
	"mixed": {
		info:  SceneInfo{Name: "mixed", Description: "Spheres, discs, cylinders, quads and boxes, many flat and axis-aligned", Sized: true},
		build: func(count int, seed int64) (*Scene, error) { return NewMixedScene(count, 10, seed), nil },
	},
	"cornell": {
		info:  SceneInfo{Name: "cornell", Description: "Cornell box of wall quads with two blocks and a sphere"},
		build: func(int, int64) (*Scene, error) { return NewCornellScene(), nil },
	},
	"coincident": {
		info:  SceneInfo{Name: "coincident", Description: "Identical spheres stacked on one point", Sized: true},
		build: func(count int, _ int64) (*Scene, error) { return NewCoincidentScene(count), nil },
	},
}

// ListScenes returns every built-in scene, sorted by name
func ListScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(registry))
	for _, r := range registry {
		scenes = append(scenes, r.info)
	}
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})
	return scenes
}

// New creates the named built-in scene. count is the approximate number of
// primitives for sized scenes and is ignored otherwise.
func New(name string, count int, seed int64) (*Scene, error) {
	r, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, errors.Errorf("unknown scene %q", name)
	}
	if r.info.Sized && count < 0 {
		return nil, errors.Errorf("scene %q needs a non-negative count, got %d", name, count)
	}
	return r.build(count, seed)
}

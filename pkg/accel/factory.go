package accel

import (
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"

	"github.com/df07/go-raytracer-accel/pkg/core"
)

// Accelerator names understood by Create
const (
	NameBVH    = "bvh"
	NameKDTree = "kdtree"
	NameNone   = "none"
)

// bvhParams are the named BVH parameters accepted by Create
type bvhParams struct {
	SplitMethod  string `mapstructure:"splitmethod"`
	MaxNodePrims int    `mapstructure:"maxnodeprims"`
	Workers      int    `mapstructure:"workers"`
}

// kdTreeParams are the named KD-tree parameters accepted by Create
type kdTreeParams struct {
	IntersectCost float64 `mapstructure:"intersectcost"`
	TraversalCost float64 `mapstructure:"traversalcost"`
	EmptyBonus    float64 `mapstructure:"emptybonus"`
	MaxPrims      int     `mapstructure:"maxprims"`
	MaxDepth      int     `mapstructure:"maxdepth"`
}

// decodeParams fills out from a loosely typed parameter map. Keys missing
// from params leave the corresponding field untouched; unknown keys are an
// error.
func decodeParams(params map[string]any, out any) error {
	if len(params) == 0 {
		return nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create parameter decoder")
	}
	return decoder.Decode(params)
}

// Create builds the named accelerator over prims. params may be nil;
// missing parameters take their defaults.
func Create(name string, prims []core.Primitive, params map[string]any, logger core.Logger) (core.Primitive, error) {
	logger = core.LoggerOrNop(logger)
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameBVH:
		defaults := DefaultBVHConfig()
		p := bvhParams{
			SplitMethod:  defaults.SplitMethod.String(),
			MaxNodePrims: defaults.MaxPrimsInNode,
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, errors.Wrap(err, "invalid BVH parameters")
		}
		splitMethod, err := ParseSplitMethod(p.SplitMethod)
		if err != nil {
			logger.Printf("Warning: BVH split method %q unknown. Using \"sah\".", p.SplitMethod)
			splitMethod = SplitSAH
		}
		bvh, err := NewBVH(prims, BVHConfig{
			MaxPrimsInNode: p.MaxNodePrims,
			SplitMethod:    splitMethod,
			Workers:        p.Workers,
			Logger:         logger,
		})
		if err != nil {
			return nil, err
		}
		return bvh, nil

	case NameKDTree:
		defaults := DefaultKDTreeConfig()
		p := kdTreeParams{
			IntersectCost: defaults.IntersectCost,
			TraversalCost: defaults.TraversalCost,
			EmptyBonus:    defaults.EmptyBonus,
			MaxPrims:      defaults.MaxPrims,
			MaxDepth:      defaults.MaxDepth,
		}
		if err := decodeParams(params, &p); err != nil {
			return nil, errors.Wrap(err, "invalid KD-tree parameters")
		}
		kd, err := NewKDTree(prims, KDTreeConfig{
			IntersectCost: p.IntersectCost,
			TraversalCost: p.TraversalCost,
			EmptyBonus:    p.EmptyBonus,
			MaxPrims:      p.MaxPrims,
			MaxDepth:      p.MaxDepth,
			Logger:        logger,
		})
		if err != nil {
			return nil, err
		}
		return kd, nil

	case NameNone:
		if len(params) > 0 {
			return nil, errors.Errorf("accelerator %q takes no parameters", NameNone)
		}
		return NewList(prims), nil
	}
	return nil, errors.Errorf("accelerator %q unknown", name)
}

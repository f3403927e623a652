package main

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"

	"github.com/df07/go-raytracer-accel/pkg/accel"
	"github.com/df07/go-raytracer-accel/pkg/core"
	"github.com/df07/go-raytracer-accel/pkg/scene"
)

// rayMargin pads the scene bounds when drawing ray origins
const rayMargin = 1.0

// verifyTolerance is the relative hit distance tolerance against the oracle
const verifyTolerance = 1e-4

// queryChunkSize is the number of consecutive rays one worker takes at a time
const queryChunkSize = 256

// benchOptions holds the command line settings shared by every subcommand
type benchOptions struct {
	Scene    string
	Count    int
	Rays     int
	Seed     int64
	Accels   []string
	Splits   []string
	MaxPrims int
	Workers  int
	Verify   bool
}

// target is one accelerator configuration to build
type target struct {
	label  string
	name   string
	params map[string]any
}

// benchResult is the outcome of building and querying one target
type benchResult struct {
	Label      string
	BuildTime  time.Duration
	Stats      accel.TreeStats
	HasStats   bool
	Hits       int
	Mismatches int
	Latency    latencySummary
	RaysPerSec float64
}

// latencySummary condenses per-ray Intersect times, in nanoseconds
type latencySummary struct {
	Mean, P50, P99, Max float64
}

// queryResult is what one ray query reports
type queryResult struct {
	hit      bool
	t        float64
	occluded bool
}

// statser is implemented by accelerators that can describe their tree
type statser interface {
	Stats() accel.TreeStats
}

// targets expands the accelerator and split flags into build configurations
func (o benchOptions) targets() ([]target, error) {
	splits := o.Splits
	if len(splits) == 0 {
		splits = []string{"sah", "hlbvh", "middle", "equal"}
	}

	var targets []target
	for _, name := range o.Accels {
		name = strings.ToLower(strings.TrimSpace(name))
		switch name {
		case accel.NameBVH:
			for _, split := range splits {
				method, err := accel.ParseSplitMethod(split)
				if err != nil {
					return nil, err
				}
				params := map[string]any{
					"splitmethod": method.String(),
					"workers":     o.Workers,
				}
				if o.MaxPrims > 0 {
					params["maxnodeprims"] = o.MaxPrims
				}
				targets = append(targets, target{label: "bvh/" + method.String(), name: name, params: params})
			}
		case accel.NameKDTree:
			var params map[string]any
			if o.MaxPrims > 0 {
				params = map[string]any{"maxprims": o.MaxPrims}
			}
			targets = append(targets, target{label: name, name: name, params: params})
		case accel.NameNone:
			targets = append(targets, target{label: name, name: name})
		default:
			return nil, errors.Errorf("accelerator %q unknown", name)
		}
	}
	if len(targets) == 0 {
		return nil, errors.New("no accelerators selected")
	}
	return targets, nil
}

// loadScene creates the scene the options name
func (o benchOptions) loadScene() (*scene.Scene, error) {
	s, err := scene.New(o.Scene, o.Count, o.Seed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create scene")
	}
	return s, nil
}

// runQueries fires every ray at prim on the pool and records each result.
// Latency covers the closest-hit query only.
func runQueries(pool *core.Pool, prim core.Primitive, rays []core.Ray) ([]queryResult, []float64) {
	results := make([]queryResult, len(rays))
	latencies := make([]float64, len(rays))
	pool.ParallelFor(len(rays), queryChunkSize, func(i int) {
		ray := rays[i]
		var si core.SurfaceInteraction
		start := time.Now()
		hit := prim.Intersect(&ray, &si)
		latencies[i] = float64(time.Since(start).Nanoseconds())
		occluded := prim.IntersectP(rays[i])

		results[i] = queryResult{hit: hit, occluded: occluded}
		if hit {
			results[i].t = si.T
		}
	})
	return results, latencies
}

// countMismatches compares results against the oracle's
func countMismatches(results, oracle []queryResult) int {
	mismatches := 0
	for i := range results {
		got, want := results[i], oracle[i]
		switch {
		case got.hit != want.hit, got.occluded != got.hit:
			mismatches++
		case got.hit && math.Abs(got.t-want.t) > verifyTolerance*math.Max(1, math.Abs(want.t)):
			mismatches++
		}
	}
	return mismatches
}

// summarizeLatency computes the latency columns of the report
func summarizeLatency(latencies []float64) (latencySummary, error) {
	if len(latencies) == 0 {
		return latencySummary{}, nil
	}
	var summary latencySummary
	var err error
	if summary.Mean, err = stats.Mean(latencies); err != nil {
		return summary, errors.Wrap(err, "mean latency")
	}
	if summary.P50, err = stats.Median(latencies); err != nil {
		return summary, errors.Wrap(err, "median latency")
	}
	if summary.P99, err = stats.Percentile(latencies, 99); err != nil {
		return summary, errors.Wrap(err, "p99 latency")
	}
	if summary.Max, err = stats.Max(latencies); err != nil {
		return summary, errors.Wrap(err, "max latency")
	}
	return summary, nil
}

// runBench builds every target over the scene, queries it with the same
// random rays and, when asked, checks each answer against a brute-force scan
func runBench(opts benchOptions, logger core.Logger) ([]benchResult, error) {
	targets, err := opts.targets()
	if err != nil {
		return nil, err
	}
	s, err := opts.loadScene()
	if err != nil {
		return nil, err
	}
	logger.Printf("Scene %s: %d primitives, %d rays", s.Name, s.GetPrimitiveCount(), opts.Rays)

	rays := scene.RandomRays(s.RayBounds(rayMargin), opts.Rays, opts.Seed)
	pool := core.NewPool(opts.Workers)

	var oracle []queryResult
	if opts.Verify {
		oracle, _ = runQueries(pool, accel.NewList(s.Primitives), rays)
	}

	results := make([]benchResult, 0, len(targets))
	for _, tg := range targets {
		start := time.Now()
		prim, err := accel.Create(tg.name, s.Primitives, tg.params, logger)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to build %s", tg.label)
		}
		result := benchResult{Label: tg.label, BuildTime: time.Since(start)}
		if st, ok := prim.(statser); ok {
			result.Stats = st.Stats()
			result.HasStats = true
		}

		queryStart := time.Now()
		answers, latencies := runQueries(pool, prim, rays)
		elapsed := time.Since(queryStart)
		if elapsed > 0 {
			result.RaysPerSec = float64(len(rays)) / elapsed.Seconds()
		}
		for _, a := range answers {
			if a.hit {
				result.Hits++
			}
		}
		if opts.Verify {
			result.Mismatches = countMismatches(answers, oracle)
		}
		if result.Latency, err = summarizeLatency(latencies); err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// formatNanos prints a latency in the most readable unit
func formatNanos(ns float64) string {
	return time.Duration(ns).Round(time.Nanosecond).String()
}

// renderBenchReport writes the benchmark table to w
func renderBenchReport(w io.Writer, results []benchResult, verify bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	header := table.Row{"Accelerator", "Build", "Nodes", "Depth", "Hits", "Mean", "p50", "p99", "Max", "Mrays/s"}
	if verify {
		header = append(header, "Mismatches")
	}
	t.AppendHeader(header)
	for _, r := range results {
		nodes, depth := "-", "-"
		if r.HasStats {
			nodes = fmt.Sprintf("%d", r.Stats.Nodes)
			depth = fmt.Sprintf("%d", r.Stats.MaxDepth)
		}
		row := table.Row{
			r.Label,
			r.BuildTime.Round(time.Microsecond).String(),
			nodes,
			depth,
			r.Hits,
			formatNanos(r.Latency.Mean),
			formatNanos(r.Latency.P50),
			formatNanos(r.Latency.P99),
			formatNanos(r.Latency.Max),
			fmt.Sprintf("%.2f", r.RaysPerSec/1e6),
		}
		if verify {
			row = append(row, r.Mismatches)
		}
		t.AppendRow(row)
	}
	t.Render()
}

// runStats builds every target and returns its tree statistics
func runStats(opts benchOptions, logger core.Logger) ([]benchResult, error) {
	targets, err := opts.targets()
	if err != nil {
		return nil, err
	}
	s, err := opts.loadScene()
	if err != nil {
		return nil, err
	}

	var results []benchResult
	for _, tg := range targets {
		start := time.Now()
		prim, err := accel.Create(tg.name, s.Primitives, tg.params, logger)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to build %s", tg.label)
		}
		result := benchResult{Label: tg.label, BuildTime: time.Since(start)}
		if st, ok := prim.(statser); ok {
			result.Stats = st.Stats()
			result.HasStats = true
		}
		results = append(results, result)
	}
	return results, nil
}

// renderStatsReport writes the tree statistics table to w
func renderStatsReport(w io.Writer, results []benchResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{
		"Accelerator", "Build", "Nodes", "Interior", "Leaves", "Empty",
		"Max depth", "Avg depth", "Avg prims", "Max prims", "Refs", "KB",
	})
	for _, r := range results {
		if !r.HasStats {
			t.AppendRow(table.Row{r.Label, r.BuildTime.Round(time.Microsecond).String()})
			continue
		}
		s := r.Stats
		t.AppendRow(table.Row{
			r.Label,
			r.BuildTime.Round(time.Microsecond).String(),
			s.Nodes,
			s.InteriorNodes,
			s.LeafNodes,
			s.EmptyLeaves,
			s.MaxDepth,
			fmt.Sprintf("%.2f", s.AvgLeafDepth),
			fmt.Sprintf("%.2f", s.AvgLeafPrims),
			s.MaxLeafPrims,
			s.PrimitiveRefs,
			fmt.Sprintf("%.1f", float64(s.Bytes)/1024),
		})
	}
	t.Render()
}

// totalMismatches sums the verification failures over all results
func totalMismatches(results []benchResult) int {
	total := 0
	for _, r := range results {
		total += r.Mismatches
	}
	return total
}

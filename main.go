package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/df07/go-raytracer-accel/pkg/core"
	"github.com/df07/go-raytracer-accel/pkg/scene"
)

const (
	// Flags.
	flagScene    = "scene"
	flagCount    = "count"
	flagRays     = "rays"
	flagSeed     = "seed"
	flagAccel    = "accel"
	flagSplit    = "split"
	flagMaxPrims = "max-prims"
	flagWorkers  = "workers"
	flagVerify   = "verify"
	flagVerbose  = "verbose"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "accelbench: %v\n", err)
		os.Exit(1)
	}
}

// sceneUsage lists the built-in scenes for the --scene help text
func sceneUsage() string {
	names := make([]string, 0)
	for _, info := range scene.ListScenes() {
		names = append(names, info.Name)
	}
	return "scene to build over: " + strings.Join(names, ", ")
}

// buildFlags are the flags every subcommand accepts
func buildFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: flagScene, Value: "spheres", Usage: sceneUsage()},
		&cli.IntFlag{Name: flagCount, Value: 1000, Usage: "approximate primitive count for sized scenes"},
		&cli.Int64Flag{Name: flagSeed, Value: 1, Usage: "random seed for scene and rays"},
		&cli.StringSliceFlag{
			Name:  flagAccel,
			Value: cli.NewStringSlice("bvh", "kdtree"),
			Usage: "accelerators to build: bvh, kdtree, none",
		},
		&cli.StringSliceFlag{Name: flagSplit, Usage: "BVH split methods: sah, hlbvh, middle, equal (default all)"},
		&cli.IntFlag{Name: flagMaxPrims, Usage: "leaf size limit passed to every accelerator; 0 keeps each default"},
		&cli.IntFlag{Name: flagWorkers, Usage: "worker count for HLBVH builds and queries; 0 means one per CPU"},
	}
}

// optionsFromContext reads the shared flags
func optionsFromContext(c *cli.Context) benchOptions {
	return benchOptions{
		Scene:    c.String(flagScene),
		Count:    c.Int(flagCount),
		Rays:     c.Int(flagRays),
		Seed:     c.Int64(flagSeed),
		Accels:   c.StringSlice(flagAccel),
		Splits:   c.StringSlice(flagSplit),
		MaxPrims: c.Int(flagMaxPrims),
		Workers:  c.Int(flagWorkers),
		Verify:   c.Bool(flagVerify),
	}
}

// newApp creates the accelbench command line application writing its
// reports to out
func newApp(out io.Writer) *cli.App {
	var zl *zap.Logger
	var logger core.Logger = core.NopLogger{}

	return &cli.App{
		Name:      "accelbench",
		Usage:     "build ray tracing acceleration structures and measure their queries",
		Writer:    out,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    flagVerbose,
				Aliases: []string{"v"},
				Usage:   "enable development logging",
			},
		},
		Before: func(c *cli.Context) error {
			var err error
			if c.Bool(flagVerbose) {
				zl, err = zap.NewDevelopment()
			} else {
				zl, err = zap.NewProduction()
			}
			if err != nil {
				return errors.Wrap(err, "failed to create logger")
			}
			logger = core.NewZapLogger(zl)
			return nil
		},
		After: func(c *cli.Context) error {
			if zl != nil {
				// Sync fails on terminals; nothing useful to report
				_ = zl.Sync()
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "bench",
				Usage: "build accelerators and time random ray queries against them",
				Flags: append(buildFlags(),
					&cli.IntFlag{Name: flagRays, Value: 10000, Usage: "number of random rays"},
					&cli.BoolFlag{Name: flagVerify, Value: true, Usage: "compare every answer with a brute-force scan"},
				),
				Action: func(c *cli.Context) error {
					opts := optionsFromContext(c)
					results, err := runBench(opts, logger)
					if err != nil {
						return err
					}
					renderBenchReport(c.App.Writer, results, opts.Verify)
					if n := totalMismatches(results); n > 0 {
						return errors.Errorf("%d queries disagree with the brute-force scan", n)
					}
					return nil
				},
			},
			{
				Name:  "stats",
				Usage: "build accelerators and print the shape of their trees",
				Flags: buildFlags(),
				Action: func(c *cli.Context) error {
					results, err := runStats(optionsFromContext(c), logger)
					if err != nil {
						return err
					}
					renderStatsReport(c.App.Writer, results)
					return nil
				},
			},
			{
				Name:  "scenes",
				Usage: "list the built-in scenes",
				Action: func(c *cli.Context) error {
					for _, info := range scene.ListScenes() {
						sized := ""
						if info.Sized {
							sized = " (sized)"
						}
						fmt.Fprintf(c.App.Writer, "%-12s %s%s\n", info.Name, info.Description, sized)
					}
					return nil
				},
			},
		},
	}
}

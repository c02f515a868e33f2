// terrainctl runs the terrain pipeline from the command line and prints the
// result as JSON.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/terrascape/internal/config"
	"github.com/Faultbox/terrascape/internal/logger"
	"github.com/Faultbox/terrascape/internal/picking"
	"github.com/Faultbox/terrascape/internal/pipeline"
	"github.com/Faultbox/terrascape/pkg/formats"
	"github.com/Faultbox/terrascape/pkg/math"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "synth":
		err = cmdSynth(args)
	case "grid":
		err = cmdGrid(args)
	case "features", "geojson":
		err = cmdFeatures(args)
	case "contours":
		err = cmdContours(args)
	case "pick":
		err = cmdPick(args)
	case "config":
		err = cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`terrainctl - terrain mesh and contour pipeline

Usage:
  terrainctl <command> [options]

Commands:
  synth                              Synthesize fbm terrain
  grid <file.json>                   Mesh and contour a raw scalar grid
  features [-fit S] <file.geojson>   Triangulate a GeoJSON FeatureCollection
  contours [-fit S] <file.geojson>   Band leveled line strings and build a TIN
  pick -x X -y Y <file.json>         Surface elevation under a grid point
  config [-save path]                Print the effective configuration

Common options:
  -config path   -debug   -log file   -vscale S   -bands N
  -full (print buffers)   -pretty (indent JSON)

Examples:
  terrainctl synth -segments 64 -basis perlin -seed 3
  terrainctl grid -bands 3 peak.json
  terrainctl features -field population -vscale 0.001 cities.geojson
  terrainctl contours -fit 100 isolines.geojson`)
}

// command holds the flags shared by every pipeline subcommand.
type command struct {
	fs     *flag.FlagSet
	flags  config.Flags
	full   *bool
	pretty *bool
	cfg    *config.Config
}

func newCommand(name string) *command {
	c := &command{fs: flag.NewFlagSet(name, flag.ExitOnError)}
	c.flags.Register(c.fs)
	c.full = c.fs.Bool("full", false, "Print full mesh buffers")
	c.pretty = c.fs.Bool("pretty", false, "Indent JSON output")
	return c
}

// parse parses args, loads the config and starts logging.
func (c *command) parse(args []string, nargs int, usage string) error {
	c.fs.Parse(args)
	if c.fs.NArg() < nargs {
		fmt.Fprintf(os.Stderr, "Usage: terrainctl %s\n", usage)
		os.Exit(1)
	}

	cfg, err := config.Load(&c.flags)
	if err != nil {
		return err
	}
	c.cfg = cfg

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	logger.Sugar.Debugf("Config: %+v", cfg)
	return nil
}

// run submits req to a runner and prints the result.
func (c *command) run(req pipeline.Request) error {
	runner, err := pipeline.NewRunner(c.cfg.Runner.CacheSize)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := runner.Submit(ctx, req)
	if err != nil {
		return err
	}
	logger.Info("pipeline finished",
		zap.Stringer("key", req.Key),
		zap.Int("vertices", len(res.Mesh.Vertices)),
		zap.Int("triangles", len(res.Mesh.Triangles)),
		zap.Int("bands", len(res.Bands)))

	return formats.WriteJSON(os.Stdout, newReport(res, c.cfg.Options().Ramp, *c.full), *c.pretty)
}

func cmdSynth(args []string) error {
	c := newCommand("synth")
	if err := c.parse(args, 0, "synth [options]"); err != nil {
		return err
	}
	return c.run(pipeline.SynthRequest(c.cfg.SynthParams(), c.cfg.Projection, c.cfg.Options()))
}

func cmdGrid(args []string) error {
	c := newCommand("grid")
	if err := c.parse(args, 1, "grid [options] <file.json>"); err != nil {
		return err
	}
	g, err := formats.ParseGridFile(c.fs.Arg(0))
	if err != nil {
		return err
	}
	return c.run(pipeline.GridRequest(c.fs.Arg(0), g, c.cfg.Projection, c.cfg.Options()))
}

func cmdFeatures(args []string) error {
	c := newCommand("features")
	span := c.fs.Float64("fit", 0, "Fit the collection extent to span local units")
	if err := c.parse(args, 1, "features [options] <file.geojson>"); err != nil {
		return err
	}
	fc, err := formats.ParseFeaturesFile(c.fs.Arg(0), c.cfg.Source)
	if err != nil {
		return err
	}
	proj := pipeline.FitProjection(fc, *span, c.cfg.Projection)
	return c.run(pipeline.FeaturesRequest(c.fs.Arg(0), c.cfg.Source, fc, proj, c.cfg.Options()))
}

func cmdContours(args []string) error {
	c := newCommand("contours")
	span := c.fs.Float64("fit", 0, "Fit the collection extent to span local units")
	if err := c.parse(args, 1, "contours [options] <file.geojson>"); err != nil {
		return err
	}
	fc, err := formats.ParseFeaturesFile(c.fs.Arg(0), c.cfg.Source)
	if err != nil {
		return err
	}
	proj := pipeline.FitProjection(fc, *span, c.cfg.Projection)
	return c.run(pipeline.ContoursRequest(c.fs.Arg(0), pipeline.Lines(fc), proj, c.cfg.Options()))
}

func cmdPick(args []string) error {
	c := newCommand("pick")
	x := c.fs.Float64("x", 0, "Grid column (fractional)")
	y := c.fs.Float64("y", 0, "Grid row (fractional)")
	if err := c.parse(args, 1, "pick -x X -y Y <file.json>"); err != nil {
		return err
	}

	g, err := formats.ParseGridFile(c.fs.Arg(0))
	if err != nil {
		return err
	}
	res, err := pipeline.FromGrid(g, c.cfg.Projection, c.cfg.Options())
	if err != nil {
		return err
	}

	proj := res.Projection
	local := proj.GeoToLocal(r3.Vec{X: *x, Y: *y})
	ray := picking.Vertical(float32(local.X), float32(local.Z), picking.FromBounds(res.Mesh.Bounds))

	out := pickReport{X: *x, Y: *y, Interpolated: res.Field.Interpolate(*x, *y), Triangle: -1}
	hit, ok := picking.PickSurface(ray, res.Mesh)
	switch {
	case !ok:
		logger.Warn("pick missed the surface", zap.Float64("x", *x), zap.Float64("y", *y))
	case hit.Triangle < 0:
		logger.Warn("pick fell through to the ground plane", zap.Float64("x", *x), zap.Float64("y", *y))
		out.Elevation = proj.LocalToGeo(toR3(hit.Point)).Z
	default:
		out.Hit = true
		out.Elevation = proj.LocalToGeo(toR3(hit.Point)).Z
		out.Triangle = hit.Triangle
	}
	return formats.WriteJSON(os.Stdout, out, *c.pretty)
}

func cmdConfig(args []string) error {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	var flags config.Flags
	flags.Register(fs)
	save := fs.String("save", "", "Write the effective config to path")
	fs.Parse(args)

	cfg, err := config.Load(&flags)
	if err != nil {
		return err
	}
	if *save != "" {
		return cfg.SaveTo(*save)
	}
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func toR3(v math.Vec3) r3.Vec {
	return r3.Vec{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}

// Package pipeline runs the terrain stages end to end: projection,
// elevation assignment, contour bands, triangulation, coloring and mesh
// assembly.
package pipeline

import (
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/terrascape/internal/contour"
	"github.com/Faultbox/terrascape/internal/logger"
	"github.com/Faultbox/terrascape/internal/projection"
	"github.com/Faultbox/terrascape/internal/terrain"
	"github.com/Faultbox/terrascape/internal/triangulate"
	"github.com/Faultbox/terrascape/pkg/formats"
)

// Options controls the stages that are not part of the input data.
type Options struct {
	Bands        int // contour thresholds for height fields
	Ramp         terrain.ColorRamp
	Markers      int // synthesized terrain only
	MarkerJitter float64
	MarkerSeed   uint64
}

// DefaultOptions returns the options used by the reference visualizations.
func DefaultOptions() Options {
	return Options{
		Bands:        10,
		Ramp:         terrain.DefaultRamp,
		MarkerJitter: 1.5,
	}
}

// Result is the output of one pipeline run. Bands are in source
// coordinates; Mesh is in local scene space.
type Result struct {
	Field      *terrain.HeightField // nil for feature input
	Mesh       *terrain.Mesh
	Bands      []contour.Band
	Markers    []terrain.Marker
	Projection projection.Params
}

// BandPositions returns the polylines of band i mapped to local space.
func (r *Result) BandPositions(i int) [][][3]float32 {
	lines := r.Bands[i].Lines()
	out := make([][][3]float32, len(lines))
	for j, line := range lines {
		out[j] = make([][3]float32, len(line))
		for k, p := range line {
			out[j][k] = r.Projection.Position(p)
		}
	}
	return out
}

// MarkerPositions returns the markers mapped to local space, each at its
// own height.
func (r *Result) MarkerPositions() [][3]float32 {
	out := make([][3]float32, len(r.Markers))
	for i, m := range r.Markers {
		out[i] = r.Projection.Position(r3.Vec{X: m.X, Y: m.Z, Z: m.Height})
	}
	return out
}

// FitProjection centers the horizontal extent of fc on the origin and
// scales its longer side to span local units, keeping the vertical scale
// and axis orientation of base. A non-positive span or an empty collection
// returns base unchanged.
func FitProjection(fc *formats.FeatureCollection, span float64, base projection.Params) projection.Params {
	if span <= 0 {
		return base
	}
	minX, minY, maxX, maxY, ok := fc.Extent()
	if !ok {
		return base
	}
	p := projection.Fit(minX, minY, maxX, maxY, span, base.VerticalScale)
	p.FlipZ = base.FlipZ
	logger.Debug("fitted projection",
		zap.Float64("offset_x", p.OffsetX),
		zap.Float64("offset_y", p.OffsetY),
		zap.Float64("scale", p.HorizontalScale))
	return p
}

// FromHeightField triangulates hf with the regular grid pattern and traces
// opts.Bands contour levels over it. Sample (row, col) is projected from its
// planar coordinate with its value as elevation.
func FromHeightField(hf *terrain.HeightField, proj projection.Params, opts Options) (*Result, error) {
	if err := proj.Validate(); err != nil {
		return nil, err
	}

	samples := make([]terrain.Sample, 0, hf.Len())
	for row := 0; row < hf.Rows(); row++ {
		for col := 0; col < hf.Cols(); col++ {
			x, y := hf.Planar(row, col)
			h := hf.At(row, col)
			samples = append(samples, terrain.Sample{
				Position:  proj.Position(r3.Vec{X: x, Y: y, Z: h}),
				Elevation: h,
			})
		}
	}

	mesh := terrain.Assemble(samples, terrain.GridTriangles(hf.Rows(), hf.Cols()), opts.Ramp)
	bands := contour.Trace(hf, opts.Bands)

	logger.Debug("height field assembled",
		zap.Int("rows", hf.Rows()),
		zap.Int("cols", hf.Cols()),
		zap.Int("triangles", len(mesh.Triangles)),
		zap.Int("bands", len(bands)))

	return &Result{Field: hf, Mesh: mesh, Bands: bands, Projection: proj}, nil
}

// FromGrid runs a raw scalar grid through FromHeightField.
func FromGrid(g *formats.Grid, proj projection.Params, opts Options) (*Result, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	hf, err := terrain.NewHeightField(g.Height, g.Width, g.Values)
	if err != nil {
		return nil, fmt.Errorf("building height field: %w", err)
	}
	return FromHeightField(hf, proj, opts)
}

// FromSynth synthesizes an fbm surface and runs it through FromHeightField,
// scattering opts.Markers markers over it.
func FromSynth(params terrain.SynthParams, proj projection.Params, opts Options) (*Result, error) {
	hf, err := terrain.Synthesize(params)
	if err != nil {
		return nil, fmt.Errorf("synthesizing terrain: %w", err)
	}
	res, err := FromHeightField(hf, proj, opts)
	if err != nil {
		return nil, err
	}
	if opts.Markers > 0 {
		rng := rand.New(rand.NewPCG(opts.MarkerSeed, uint64(params.Seed)))
		res.Markers, err = terrain.PlaceMarkers(params, opts.Markers, opts.MarkerJitter, rng)
		if err != nil {
			return nil, fmt.Errorf("placing markers: %w", err)
		}
	}
	return res, nil
}

// FromFeatures projects every supported feature vertex, triangulates their
// horizontal footprint and builds leveled bands from the line strings.
// A coordinate's own third component is its elevation when present,
// otherwise the feature's resolved elevation. Unsupported geometry is
// logged and skipped.
func FromFeatures(fc *formats.FeatureCollection, proj projection.Params, opts Options) (*Result, error) {
	if err := proj.Validate(); err != nil {
		return nil, err
	}

	var samples []terrain.Sample
	var footprint []r2.Vec
	var lines []contour.Line
	for i := range fc.Features {
		f := &fc.Features[i]
		if f.Kind == formats.KindUnsupported {
			logger.Warn("skipping unsupported geometry",
				zap.String("type", f.TypeName),
				zap.Int("index", i))
			continue
		}
		for _, c := range f.Coords() {
			h := f.Elevation
			if c.HasZ {
				h = c.Z
			}
			pos := proj.Position(r3.Vec{X: c.X, Y: c.Y, Z: h})
			samples = append(samples, terrain.Sample{Position: pos, Elevation: h})
			footprint = append(footprint, r2.Vec{X: float64(pos[0]), Y: float64(pos[2])})
		}
		if f.Kind == formats.KindLineString {
			lines = append(lines, featureLine(f))
		}
	}

	mesh := terrain.Assemble(samples, triangulate.Delaunay(footprint), opts.Ramp)
	bands := contour.Group(lines)

	logger.Debug("features assembled",
		zap.Int("features", len(fc.Features)),
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("triangles", len(mesh.Triangles)),
		zap.Int("bands", len(bands)))

	return &Result{Mesh: mesh, Bands: bands, Projection: proj}, nil
}

// Lines extracts the leveled polylines of a feature collection. Geometry
// other than line strings is logged and skipped.
func Lines(fc *formats.FeatureCollection) []contour.Line {
	var lines []contour.Line
	for i := range fc.Features {
		f := &fc.Features[i]
		if f.Kind != formats.KindLineString {
			logger.Warn("skipping non-line geometry",
				zap.String("type", f.TypeName),
				zap.Int("index", i))
			continue
		}
		lines = append(lines, featureLine(f))
	}
	return lines
}

func featureLine(f *formats.Feature) contour.Line {
	level := f.Level()
	coords := f.Coords()
	pts := make([]r3.Vec, len(coords))
	for i, c := range coords {
		pts[i] = r3.Vec{X: c.X, Y: c.Y, Z: level}
	}
	return contour.Line{Level: level, Points: pts}
}

// FromContours groups leveled polylines into bands and builds a TIN over
// every band point at its level.
func FromContours(lines []contour.Line, proj projection.Params, opts Options) (*Result, error) {
	if err := proj.Validate(); err != nil {
		return nil, err
	}

	bands := contour.Group(lines)

	var samples []terrain.Sample
	var footprint []r2.Vec
	for _, b := range bands {
		for _, p := range b.Points {
			pos := proj.Position(p)
			samples = append(samples, terrain.Sample{Position: pos, Elevation: b.Level})
			footprint = append(footprint, r2.Vec{X: float64(pos[0]), Y: float64(pos[2])})
		}
	}
	mesh := terrain.Assemble(samples, triangulate.Delaunay(footprint), opts.Ramp)

	logger.Debug("contours assembled",
		zap.Int("bands", len(bands)),
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("triangles", len(mesh.Triangles)))

	return &Result{Mesh: mesh, Bands: bands, Projection: proj}, nil
}

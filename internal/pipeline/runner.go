package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Faultbox/terrascape/internal/contour"
	"github.com/Faultbox/terrascape/internal/logger"
	"github.com/Faultbox/terrascape/internal/projection"
	"github.com/Faultbox/terrascape/internal/terrain"
	"github.com/Faultbox/terrascape/pkg/formats"
)

// ErrStale is returned by Submit when a newer request was submitted while
// this one was computing. The result must not be displayed.
var ErrStale = errors.New("pipeline: result superseded by a newer request")

// DefaultCacheSize is the number of results a Runner keeps.
const DefaultCacheSize = 16

// Key identifies a pipeline run. Two requests with equal keys produce the
// same result, so SourceID must change whenever the input data does.
type Key struct {
	SourceID     string
	Kind         string
	HeightField  string
	HeightScale  float64
	Projection   projection.Params // includes the vertical scale
	Resolution   int
	Bands        int
	RampSteps    int
	Markers      int
	MarkerJitter float64
	MarkerSeed   uint64
}

func (k Key) String() string {
	p := k.Projection
	return fmt.Sprintf("%s|%s|%s*%g|%g,%g,%g,%g,%t|%d|%d|%d|%d,%g,%d",
		k.Kind, k.SourceID, k.HeightField, k.HeightScale,
		p.OffsetX, p.OffsetY, p.HorizontalScale, p.VerticalScale, p.FlipZ,
		k.Resolution, k.Bands, k.RampSteps,
		k.Markers, k.MarkerJitter, k.MarkerSeed)
}

// optionsKey returns a key carrying every field of opts.
func optionsKey(kind, sourceID string, proj projection.Params, opts Options) Key {
	return Key{
		SourceID:     sourceID,
		Kind:         kind,
		Projection:   proj,
		Bands:        opts.Bands,
		RampSteps:    opts.Ramp.BandCount(),
		Markers:      opts.Markers,
		MarkerJitter: opts.MarkerJitter,
		MarkerSeed:   opts.MarkerSeed,
	}
}

// Request is a keyed pipeline run.
type Request struct {
	Key Key
	Run func() (*Result, error)
}

// Runner executes pipeline requests off the caller's goroutine. Results are
// memoized by key, identical in-flight requests share one computation, and
// only the most recently submitted request may deliver a fresh result.
type Runner struct {
	cache *lru.Cache[Key, *Result]
	group singleflight.Group
	gen   atomic.Uint64
	log   *zap.Logger
}

// NewRunner creates a runner that memoizes up to size results.
func NewRunner(size int) (*Runner, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[Key, *Result](size)
	if err != nil {
		return nil, fmt.Errorf("creating result cache: %w", err)
	}
	return &Runner{cache: cache, log: logger.Named("runner")}, nil
}

// Submit runs req, or returns its memoized result. It returns ErrStale when
// another request was submitted before this one completed, and ctx.Err()
// when ctx ends first.
func (r *Runner) Submit(ctx context.Context, req Request) (*Result, error) {
	gen := r.gen.Add(1)

	if res, ok := r.cache.Get(req.Key); ok {
		r.log.Debug("pipeline cache hit", zap.Stringer("key", req.Key))
		return res, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ch := r.group.DoChan(req.Key.String(), func() (any, error) {
		res, err := req.Run()
		if err != nil {
			return nil, err
		}
		r.cache.Add(req.Key, res)
		return res, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case out := <-ch:
		if out.Err != nil {
			return nil, out.Err
		}
		if r.gen.Load() != gen {
			r.log.Debug("discarding stale pipeline result", zap.Stringer("key", req.Key))
			return nil, ErrStale
		}
		return out.Val.(*Result), nil
	}
}

// Len returns the number of memoized results.
func (r *Runner) Len() int {
	return r.cache.Len()
}

// Purge drops every memoized result.
func (r *Runner) Purge() {
	r.cache.Purge()
}

// SynthRequest builds a request for a synthesized terrain.
func SynthRequest(params terrain.SynthParams, proj projection.Params, opts Options) Request {
	source := fmt.Sprintf("synth:%s:%d:%g:%g:%g", params.Basis, params.Seed, params.Size, params.Frequency, params.Amplitude)
	key := optionsKey("synth", source, proj, opts)
	key.Resolution = params.Segments
	return Request{
		Key: key,
		Run: func() (*Result, error) { return FromSynth(params, proj, opts) },
	}
}

// GridRequest builds a request for a raw grid identified by sourceID.
func GridRequest(sourceID string, g *formats.Grid, proj projection.Params, opts Options) Request {
	key := optionsKey("grid", sourceID, proj, opts)
	key.Resolution = g.Width
	return Request{
		Key: key,
		Run: func() (*Result, error) { return FromGrid(g, proj, opts) },
	}
}

// FeaturesRequest builds a request for a feature collection whose
// elevations were resolved through src.
func FeaturesRequest(sourceID string, src formats.Source, fc *formats.FeatureCollection, proj projection.Params, opts Options) Request {
	key := optionsKey("features", sourceID, proj, opts)
	key.HeightField = src.HeightField
	key.HeightScale = src.Scale()
	return Request{
		Key: key,
		Run: func() (*Result, error) { return FromFeatures(fc, proj, opts) },
	}
}

// ContoursRequest builds a request for leveled polylines.
func ContoursRequest(sourceID string, lines []contour.Line, proj projection.Params, opts Options) Request {
	return Request{
		Key: optionsKey("contours", sourceID, proj, opts),
		Run: func() (*Result, error) { return FromContours(lines, proj, opts) },
	}
}

package terrain

import (
	"errors"
	"math/rand/v2"
)

// SynthParams describes a square procedural terrain centered on the origin.
type SynthParams struct {
	Segments  int     // quads per side; the field has Segments+1 samples per side
	Size      float64 // side length in planar units
	Frequency float64 // noise frequency across the whole extent
	Amplitude float64 // world-unit multiplier applied to fbm output
	Basis     Basis
	Seed      int64
}

// DefaultSynthParams returns the parameters of the reference terrain.
func DefaultSynthParams() SynthParams {
	return SynthParams{
		Segments:  200,
		Size:      200,
		Frequency: 8,
		Amplitude: 28,
		Basis:     BasisTrig,
	}
}

// Sampler returns the fbm sampler for the configured basis.
func (p SynthParams) Sampler() (Sampler, error) {
	n, err := NewNoise(p.Basis, p.Seed)
	if err != nil {
		return Sampler{}, err
	}
	return Sampler{Noise: n}, nil
}

// HeightAt returns the surface height at planar (x, z), which may be any
// point inside or outside the extent.
func (p SynthParams) HeightAt(s Sampler, x, z float64) float64 {
	nx := x/p.Size + 0.5
	nz := z/p.Size + 0.5
	return s.FBM(nx*p.Frequency, nz*p.Frequency) * p.Amplitude
}

// Synthesize samples the fbm surface on a regular grid.
func Synthesize(p SynthParams) (*HeightField, error) {
	if p.Segments < 1 || p.Size <= 0 {
		return nil, errors.New("terrain: synth needs at least one segment and a positive size")
	}
	s, err := p.Sampler()
	if err != nil {
		return nil, err
	}

	n := p.Segments + 1
	step := p.Size / float64(p.Segments)
	origin := -p.Size / 2

	values := make([]float64, n*n)
	for row := 0; row < n; row++ {
		z := origin + float64(row)*step
		for col := 0; col < n; col++ {
			x := origin + float64(col)*step
			values[row*n+col] = p.HeightAt(s, x, z)
		}
	}

	hf, err := NewHeightField(n, n, values)
	if err != nil {
		return nil, err
	}
	hf.OriginX, hf.OriginY, hf.Spacing = origin, origin, step
	return hf, nil
}

// PlaceMarkers scatters count markers over the central 95% of the extent,
// each at the surface height plus uniform jitter in [-jitter/2, jitter/2].
func PlaceMarkers(p SynthParams, count int, jitter float64, rng *rand.Rand) ([]Marker, error) {
	s, err := p.Sampler()
	if err != nil {
		return nil, err
	}
	span := p.Size * 0.95
	markers := make([]Marker, 0, count)
	for i := 0; i < count; i++ {
		x := (rng.Float64() - 0.5) * span
		z := (rng.Float64() - 0.5) * span
		h := p.HeightAt(s, x, z) + (rng.Float64()-0.5)*jitter
		markers = append(markers, Marker{X: x, Z: z, Height: h})
	}
	return markers, nil
}

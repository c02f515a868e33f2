package terrain

import (
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
)

// Noise is a deterministic continuous scalar field over the plane.
type Noise interface {
	Noise2(x, y float64) float64
}

// TrigNoise is a closed-form field built from nested sines and cosines.
// Output stays within [-1, 1].
type TrigNoise struct{}

// Noise2 implements Noise.
func (TrigNoise) Noise2(x, y float64) float64 {
	return (math.Sin(x*1.7+math.Cos(y*1.3)*0.8) + math.Cos(y*1.9+math.Sin(x*1.1)*0.7)) * 0.5
}

// PerlinNoise adapts a seeded gradient noise generator to Noise.
type PerlinNoise struct {
	p *perlin.Perlin
}

// NewPerlinNoise creates a single-octave Perlin field. Octaves are layered
// by the Sampler, not by the generator.
func NewPerlinNoise(seed int64) *PerlinNoise {
	return &PerlinNoise{p: perlin.NewPerlin(2, 2, 1, seed)}
}

// Noise2 implements Noise.
func (n *PerlinNoise) Noise2(x, y float64) float64 {
	return n.p.Noise2D(x, y)
}

// NewNoise returns the noise field for a basis. The seed only affects
// seeded bases.
func NewNoise(basis Basis, seed int64) (Noise, error) {
	switch basis {
	case "", BasisTrig:
		return TrigNoise{}, nil
	case BasisPerlin:
		return NewPerlinNoise(seed), nil
	default:
		return nil, fmt.Errorf("unknown noise basis %q", basis)
	}
}

// Octaves is the number of noise layers summed by a Sampler.
const Octaves = 5

// Sampler evaluates fractal Brownian motion over a Noise field.
type Sampler struct {
	Noise Noise
}

// DefaultSampler samples fbm over TrigNoise.
var DefaultSampler = Sampler{Noise: TrigNoise{}}

// FBM sums Octaves layers of noise, starting at amplitude 0.5 and frequency
// 1, halving amplitude and doubling frequency each layer. It accepts any real
// coordinate, not only grid-aligned ones.
func (s Sampler) FBM(x, y float64) float64 {
	n := s.Noise
	if n == nil {
		n = TrigNoise{}
	}
	v, a, f := 0.0, 0.5, 1.0
	for i := 0; i < Octaves; i++ {
		v += a * n.Noise2(x*f, y*f)
		a *= 0.5
		f *= 2
	}
	return v
}

// FBM samples the default trig-based sampler.
func FBM(x, y float64) float64 {
	return DefaultSampler.FBM(x, y)
}

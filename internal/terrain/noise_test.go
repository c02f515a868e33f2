package terrain

import (
	"math"
	"testing"
)

func TestFBMDeterministic(t *testing.T) {
	points := [][2]float64{{0, 0}, {0.37, 4.2}, {-13.5, 7.25}, {1e3, -2e3}}
	for _, p := range points {
		first := FBM(p[0], p[1])
		for i := 0; i < 5; i++ {
			if got := FBM(p[0], p[1]); got != first {
				t.Fatalf("FBM(%v, %v) = %v on call %d, want %v", p[0], p[1], got, i, first)
			}
		}
	}
}

func TestTrigNoiseBounded(t *testing.T) {
	var n TrigNoise
	for x := -20.0; x <= 20; x += 0.37 {
		for y := -20.0; y <= 20; y += 0.41 {
			v := n.Noise2(x, y)
			if v < -1 || v > 1 {
				t.Fatalf("Noise2(%v, %v) = %v, outside [-1, 1]", x, y, v)
			}
		}
	}
}

func TestTrigNoiseContinuous(t *testing.T) {
	var n TrigNoise
	const h = 1e-6
	for x := -5.0; x <= 5; x += 0.5 {
		d := math.Abs(n.Noise2(x+h, 1.3) - n.Noise2(x, 1.3))
		if d > 1e-4 {
			t.Errorf("Noise2 jumps by %v near x=%v", d, x)
		}
	}
}

func TestFBMOctaveSum(t *testing.T) {
	// A constant field makes the octave series visible: 0.5+0.25+...+1/32.
	s := Sampler{Noise: constNoise(1)}
	want := 0.96875
	if got := s.FBM(3, 4); math.Abs(got-want) > 1e-12 {
		t.Errorf("FBM over constant 1 = %v, want %v", got, want)
	}
}

func TestPerlinSeeded(t *testing.T) {
	a := NewPerlinNoise(42)
	b := NewPerlinNoise(42)
	for _, p := range [][2]float64{{0.3, 0.7}, {5.1, 2.2}, {-1.25, 9.5}} {
		if a.Noise2(p[0], p[1]) != b.Noise2(p[0], p[1]) {
			t.Errorf("same seed gave different values at %v", p)
		}
	}
}

func TestNewNoise(t *testing.T) {
	tests := []struct {
		basis   Basis
		wantErr bool
	}{
		{"", false},
		{BasisTrig, false},
		{BasisPerlin, false},
		{"simplex", true},
	}
	for _, tt := range tests {
		_, err := NewNoise(tt.basis, 1)
		if (err != nil) != tt.wantErr {
			t.Errorf("NewNoise(%q) error = %v, wantErr %v", tt.basis, err, tt.wantErr)
		}
	}
}

type constNoise float64

func (c constNoise) Noise2(x, y float64) float64 { return float64(c) }

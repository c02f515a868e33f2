package terrain

import (
	"math"
	"testing"
)

func TestColorRampEndpoints(t *testing.T) {
	if got, want := DefaultRamp.Color(0), (RGB{0.02, 0.08, 0.45}); got != want {
		t.Errorf("Color(0) = %v, want %v", got, want)
	}
	if got, want := DefaultRamp.Color(1), (RGB{0.7, 0.9, 0.3}); got != want {
		t.Errorf("Color(1) = %v, want %v", got, want)
	}
}

func TestColorRampClamps(t *testing.T) {
	if DefaultRamp.Color(-3) != DefaultRamp.Color(0) {
		t.Error("negative input should clamp to 0")
	}
	if DefaultRamp.Color(7) != DefaultRamp.Color(1) {
		t.Error("input above 1 should clamp to 1")
	}
	if DefaultRamp.Color(math.NaN()) != DefaultRamp.Color(0) {
		t.Error("NaN should map to the lowest band")
	}
}

func TestColorRampBrightnessMonotonic(t *testing.T) {
	prev := float32(-1)
	for i := 0; i <= 12; i++ {
		c := DefaultRamp.Color(float64(i) / 12)
		l := Luma(c)
		if l < prev {
			t.Errorf("band %d luma %v is darker than previous %v", i, l, prev)
		}
		prev = l
	}
}

func TestColorRampBanded(t *testing.T) {
	// Everything inside one twelfth maps to the same color.
	base := DefaultRamp.Color(3.0 / 12)
	for _, v := range []float64{3.0/12 + 0.001, 3.5 / 12, 4.0/12 - 0.001} {
		if got := DefaultRamp.Color(v); got != base {
			t.Errorf("Color(%v) = %v, want band color %v", v, got, base)
		}
	}
}

func TestColorRampContinuousAtBreakpoints(t *testing.T) {
	smooth := SmoothRamp
	for _, at := range []float64{0.25, 0.5, 0.8} {
		below := smooth.Color(at - 1e-9)
		above := smooth.Color(at)
		for k := 0; k < 3; k++ {
			if d := math.Abs(float64(below[k] - above[k])); d > 1e-6 {
				t.Errorf("channel %d jumps by %v at %v", k, d, at)
			}
		}
	}
}

func TestColorRampZeroValueBanded(t *testing.T) {
	var zero ColorRamp
	for _, v := range []float64{0, 0.1, 3.5 / 12, 0.5, 0.77, 1} {
		if got, want := zero.Color(v), DefaultRamp.Color(v); got != want {
			t.Errorf("zero ramp Color(%v) = %v, want %v", v, got, want)
		}
	}
	if got := zero.BandCount(); got != DefaultRampSteps {
		t.Errorf("zero ramp BandCount() = %d, want %d", got, DefaultRampSteps)
	}
	if got := SmoothRamp.BandCount(); got != 0 {
		t.Errorf("SmoothRamp.BandCount() = %d, want 0", got)
	}
	if SmoothRamp.Color(3.5/12) == DefaultRamp.Color(3.5/12) {
		t.Error("SmoothRamp returned a banded color inside a band")
	}
}

func TestNormalizedFlatDomain(t *testing.T) {
	if got, want := DefaultRamp.Normalized(5, 5, 5), DefaultRamp.Midpoint(); got != want {
		t.Errorf("Normalized on flat domain = %v, want midpoint %v", got, want)
	}
}

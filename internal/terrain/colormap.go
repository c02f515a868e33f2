package terrain

import "math"

// ColorRamp maps a normalized elevation to a color. Input is clamped to
// [0, 1] and snapped down to one of Steps bands before lookup, which gives
// the terraced look. Between breakpoints the ramp interpolates linearly, so
// neighbouring segments meet without a jump.
//
// A zero Steps uses DefaultRampSteps; a negative Steps disables banding.
type ColorRamp struct {
	Steps int
}

// DefaultRampSteps is the band count of a zero ColorRamp.
const DefaultRampSteps = 12

var (
	// DefaultRamp is the 12-band elevation ramp.
	DefaultRamp = ColorRamp{Steps: DefaultRampSteps}
	// SmoothRamp interpolates without banding.
	SmoothRamp = ColorRamp{Steps: -1}
)

type rampStop struct {
	at    float64
	color [3]float64
}

// Deep blue, teal, cyan, yellow-green. Luma rises strictly stop to stop.
var rampStops = [...]rampStop{
	{0, [3]float64{0.02, 0.08, 0.45}},
	{0.25, [3]float64{0.02, 0.455, 0.5}},
	{0.5, [3]float64{0.02, 0.75, 0.68}},
	{0.8, [3]float64{0.7, 0.9, 0.3}},
}

// Color returns the ramp color for t.
func (r ColorRamp) Color(t float64) RGB {
	q := r.quantize(t)

	last := rampStops[len(rampStops)-1]
	if q >= last.at {
		return toRGB(last.color)
	}
	for i := len(rampStops) - 2; i >= 0; i-- {
		lo := rampStops[i]
		if q < lo.at {
			continue
		}
		hi := rampStops[i+1]
		f := (q - lo.at) / (hi.at - lo.at)
		var c [3]float64
		for k := range c {
			c[k] = lo.color[k] + (hi.color[k]-lo.color[k])*f
		}
		return toRGB(c)
	}
	return toRGB(rampStops[0].color)
}

// BandCount returns the number of color bands, or 0 when banding is off.
func (r ColorRamp) BandCount() int {
	switch {
	case r.Steps < 0:
		return 0
	case r.Steps == 0:
		return DefaultRampSteps
	}
	return r.Steps
}

// Midpoint returns the color used when an elevation domain is flat.
func (r ColorRamp) Midpoint() RGB {
	return r.Color(0.5)
}

// Normalized colors h relative to the [lo, hi] elevation domain.
func (r ColorRamp) Normalized(h, lo, hi float64) RGB {
	if hi == lo {
		return r.Midpoint()
	}
	return r.Color((h - lo) / (hi - lo))
}

func (r ColorRamp) quantize(t float64) float64 {
	if math.IsNaN(t) || t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	if r.Steps < 0 {
		return t
	}
	n := float64(r.BandCount())
	return math.Floor(t*n) / n
}

func toRGB(c [3]float64) RGB {
	return RGB{float32(c[0]), float32(c[1]), float32(c[2])}
}

// Luma returns the Rec. 709 relative luminance of c.
func Luma(c RGB) float32 {
	return 0.2126*c[0] + 0.7152*c[1] + 0.0722*c[2]
}

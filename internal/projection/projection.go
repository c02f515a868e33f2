// Package projection maps geographic or abstract planar coordinates to local
// scene coordinates and back. The mapping is a plain affine scaling, not a
// map projection.
package projection

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrZeroScale is returned for parameters that cannot be inverted.
var ErrZeroScale = errors.New("projection: scale must be non-zero and finite")

// Params describes the affine transform. Source coordinates are
// (X: lon, Y: lat, Z: elevation); local coordinates are Y-up scene space.
//
//	x = (lon - OffsetX) * HorizontalScale
//	z = (lat - OffsetY) * HorizontalScale   (negated when FlipZ)
//	y = elevation * VerticalScale
type Params struct {
	OffsetX         float64 `yaml:"offset_x"`
	OffsetY         float64 `yaml:"offset_y"`
	HorizontalScale float64 `yaml:"horizontal_scale"`
	VerticalScale   float64 `yaml:"vertical_scale"`
	// FlipZ points +Z south, so north is away from a default camera.
	FlipZ bool `yaml:"flip_z"`
}

// New validates and returns projection parameters. VerticalScale has no
// default: callers must state the unit conversion they want.
func New(offsetX, offsetY, horizontalScale, verticalScale float64) (Params, error) {
	p := Params{
		OffsetX:         offsetX,
		OffsetY:         offsetY,
		HorizontalScale: horizontalScale,
		VerticalScale:   verticalScale,
	}
	return p, p.Validate()
}

// Identity maps planar coordinates to local space unchanged.
func Identity() Params {
	return Params{HorizontalScale: 1, VerticalScale: 1}
}

// Validate reports whether the transform is invertible.
func (p Params) Validate() error {
	if !usable(p.HorizontalScale) {
		return fmt.Errorf("%w: horizontal scale %v", ErrZeroScale, p.HorizontalScale)
	}
	if !usable(p.VerticalScale) {
		return fmt.Errorf("%w: vertical scale %v", ErrZeroScale, p.VerticalScale)
	}
	return nil
}

func usable(s float64) bool {
	return s != 0 && !math.IsNaN(s) && !math.IsInf(s, 0)
}

func (p Params) zSign() float64 {
	if p.FlipZ {
		return -1
	}
	return 1
}

// GeoToLocal maps a source coordinate to local space. Input outside any
// expected lon/lat range is mapped like any other value.
func (p Params) GeoToLocal(c r3.Vec) r3.Vec {
	return r3.Vec{
		X: (c.X - p.OffsetX) * p.HorizontalScale,
		Y: c.Z * p.VerticalScale,
		Z: (c.Y - p.OffsetY) * p.HorizontalScale * p.zSign(),
	}
}

// LocalToGeo is the inverse of GeoToLocal, used to map a picked scene point
// back to source coordinates.
func (p Params) LocalToGeo(l r3.Vec) r3.Vec {
	return r3.Vec{
		X: l.X/p.HorizontalScale + p.OffsetX,
		Y: l.Z*p.zSign()/p.HorizontalScale + p.OffsetY,
		Z: l.Y / p.VerticalScale,
	}
}

// Position maps a source coordinate to a float32 vertex position.
func (p Params) Position(c r3.Vec) [3]float32 {
	l := p.GeoToLocal(c)
	return [3]float32{float32(l.X), float32(l.Y), float32(l.Z)}
}

// Fit centers the extent [minX, maxX] x [minY, maxY] on the origin and scales
// its longer side to span local units. A degenerate extent keeps unit scale.
func Fit(minX, minY, maxX, maxY, span, verticalScale float64) Params {
	p := Params{
		OffsetX:         (minX + maxX) / 2,
		OffsetY:         (minY + maxY) / 2,
		HorizontalScale: 1,
		VerticalScale:   verticalScale,
	}
	if side := math.Max(maxX-minX, maxY-minY); side > 0 && span > 0 {
		p.HorizontalScale = span / side
	}
	return p
}

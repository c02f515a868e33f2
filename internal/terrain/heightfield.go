package terrain

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ErrDimensions is returned when a height field's shape does not match its
// sample count.
var ErrDimensions = errors.New("terrain: height field dimensions do not match sample count")

// HeightField is an immutable rows x cols grid of elevation samples stored
// row-major. Sample (row, col) sits at planar coordinate
// (OriginX + col*Spacing, OriginY + row*Spacing).
type HeightField struct {
	rows, cols int
	values     []float64

	OriginX, OriginY float64
	Spacing          float64
}

// NewHeightField copies values into a new field with unit spacing at the
// origin.
func NewHeightField(rows, cols int, values []float64) (*HeightField, error) {
	if rows < 1 || cols < 1 || len(values) != rows*cols {
		return nil, fmt.Errorf("%w: %dx%d with %d samples", ErrDimensions, rows, cols, len(values))
	}
	v := make([]float64, len(values))
	copy(v, values)
	return &HeightField{rows: rows, cols: cols, values: v, Spacing: 1}, nil
}

// Rows returns the number of rows.
func (h *HeightField) Rows() int { return h.rows }

// Cols returns the number of columns.
func (h *HeightField) Cols() int { return h.cols }

// Len returns the number of samples.
func (h *HeightField) Len() int { return len(h.values) }

// At returns the sample at (row, col).
func (h *HeightField) At(row, col int) float64 {
	return h.values[row*h.cols+col]
}

// Values returns a copy of the row-major samples.
func (h *HeightField) Values() []float64 {
	v := make([]float64, len(h.values))
	copy(v, h.values)
	return v
}

// Range returns the minimum and maximum sample.
func (h *HeightField) Range() (lo, hi float64) {
	return floats.Min(h.values), floats.Max(h.values)
}

// Planar returns the planar coordinate of sample (row, col).
func (h *HeightField) Planar(row, col int) (x, y float64) {
	return h.OriginX + float64(col)*h.Spacing, h.OriginY + float64(row)*h.Spacing
}

// Interpolate returns the bilinearly interpolated elevation at fractional
// grid coordinates. Coordinates outside the grid are clamped to the edge.
func (h *HeightField) Interpolate(col, row float64) float64 {
	col = clamp(col, 0, float64(h.cols-1))
	row = clamp(row, 0, float64(h.rows-1))

	c0, r0 := int(col), int(row)
	c1, r1 := min(c0+1, h.cols-1), min(r0+1, h.rows-1)
	fc, fr := col-float64(c0), row-float64(r0)

	// Lerp along both row edges, then between them.
	top := h.At(r0, c0)*(1-fc) + h.At(r0, c1)*fc
	bottom := h.At(r1, c0)*(1-fc) + h.At(r1, c1)*fc
	return top*(1-fr) + bottom*fr
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

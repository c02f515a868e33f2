// Package contour groups leveled polylines and traces isolines over height
// fields, producing elevation bands in ascending level order.
package contour

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/terrascape/internal/terrain"
)

// Band is every point at one elevation level. Points holds one or more
// polylines back to back; Runs holds the offset in Points where each
// polyline starts.
type Band struct {
	Level  float64
	Points []r3.Vec
	Runs   []int
}

// Lines splits the band into its polylines. The returned slices alias
// Points.
func (b Band) Lines() [][]r3.Vec {
	lines := make([][]r3.Vec, 0, len(b.Runs))
	for i, start := range b.Runs {
		end := len(b.Points)
		if i+1 < len(b.Runs) {
			end = b.Runs[i+1]
		}
		lines = append(lines, b.Points[start:end])
	}
	return lines
}

func (b *Band) appendLine(pts []r3.Vec) {
	b.Runs = append(b.Runs, len(b.Points))
	b.Points = append(b.Points, pts...)
}

// Line is a polyline whose points all share one elevation level.
type Line struct {
	Level  float64
	Points []r3.Vec
}

// Group merges lines with exactly equal levels into one band each,
// concatenating their points in input order, and returns the bands sorted
// ascending by level. Lines without points or with a NaN level are ignored.
func Group(lines []Line) []Band {
	index := make(map[float64]int)
	var bands []Band
	for _, ln := range lines {
		if len(ln.Points) == 0 || math.IsNaN(ln.Level) {
			continue
		}
		i, ok := index[ln.Level]
		if !ok {
			i = len(bands)
			index[ln.Level] = i
			bands = append(bands, Band{Level: ln.Level})
		}
		bands[i].appendLine(ln.Points)
	}
	SortBands(bands)
	return bands
}

// SortBands orders bands ascending by level, keeping the relative order of
// equal levels.
func SortBands(bands []Band) {
	sort.SliceStable(bands, func(i, j int) bool {
		return bands[i].Level < bands[j].Level
	})
}

// Levels returns the level of each band.
func Levels(bands []Band) []float64 {
	out := make([]float64, len(bands))
	for i, b := range bands {
		out[i] = b.Level
	}
	return out
}

// BandColors colors each band by its level normalized over the band range,
// for drawing one colored polyline per band.
func BandColors(bands []Band, ramp terrain.ColorRamp) []terrain.RGB {
	if len(bands) == 0 {
		return nil
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, b := range bands {
		lo = math.Min(lo, b.Level)
		hi = math.Max(hi, b.Level)
	}
	colors := make([]terrain.RGB, len(bands))
	for i, b := range bands {
		colors[i] = ramp.Normalized(b.Level, lo, hi)
	}
	return colors
}

package contour

import (
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/terrascape/internal/logger"
	"github.com/Faultbox/terrascape/internal/terrain"
)

// Thresholds returns n levels evenly spaced strictly between lo and hi.
// It returns nil when n < 1 or the range is empty.
func Thresholds(lo, hi float64, n int) []float64 {
	if n < 1 || !(hi > lo) {
		return nil
	}
	span := floats.Span(make([]float64, n+2), lo, hi)
	return span[1 : n+1]
}

// Trace extracts n evenly spaced isoline bands from hf. Every threshold
// yields a band, even when no cell crosses it. A flat field has no contours
// and yields no bands.
func Trace(hf *terrain.HeightField, n int) []Band {
	lo, hi := hf.Range()
	if lo == hi {
		logger.Debug("flat height field has no contours", zap.Float64("level", lo))
		return nil
	}
	levels := Thresholds(lo, hi, n)
	bands := make([]Band, 0, len(levels))
	for _, level := range levels {
		b := Band{Level: level}
		for _, line := range TraceLevel(hf, level) {
			b.appendLine(line)
		}
		bands = append(bands, b)
	}
	return bands
}

// TraceLevel returns the isolines of hf at level as polylines of
// (x, y, level) in the field's planar coordinates. Closed loops repeat their
// first point at the end. Samples equal to level count as above it.
func TraceLevel(hf *terrain.HeightField, level float64) [][]r3.Vec {
	t := tracer{hf: hf, level: level, ends: make(map[edge][]int)}
	for row := 0; row < hf.Rows()-1; row++ {
		for col := 0; col < hf.Cols()-1; col++ {
			t.cell(row, col)
		}
	}
	return t.join()
}

// edge identifies a grid edge so crossings found from neighbouring cells
// meet exactly. A horizontal edge runs (row, col)-(row, col+1), a vertical
// one (row, col)-(row+1, col).
type edge struct {
	row, col int
	vertical bool
}

type segment struct {
	a, b edge
}

type tracer struct {
	hf    *terrain.HeightField
	level float64
	segs  []segment
	ends  map[edge][]int
}

// Cell edges, clockwise from the top.
const (
	top = iota
	right
	bottom
	left
)

// cellSegments lists the crossed edge pairs per corner case. Corner bits:
// 1 top-left, 2 top-right, 4 bottom-right, 8 bottom-left. Saddles (5, 10)
// are resolved in cell.
var cellSegments = [16][][2]int{
	0:  nil,
	1:  {{left, top}},
	2:  {{top, right}},
	3:  {{left, right}},
	4:  {{right, bottom}},
	5:  nil,
	6:  {{top, bottom}},
	7:  {{bottom, left}},
	8:  {{bottom, left}},
	9:  {{top, bottom}},
	10: nil,
	11: {{right, bottom}},
	12: {{left, right}},
	13: {{top, right}},
	14: {{left, top}},
	15: nil,
}

func (t *tracer) cell(row, col int) {
	v0 := t.hf.At(row, col)
	v1 := t.hf.At(row, col+1)
	v2 := t.hf.At(row+1, col+1)
	v3 := t.hf.At(row+1, col)

	c := 0
	if v0 >= t.level {
		c |= 1
	}
	if v1 >= t.level {
		c |= 2
	}
	if v2 >= t.level {
		c |= 4
	}
	if v3 >= t.level {
		c |= 8
	}

	pairs := cellSegments[c]
	if c == 5 || c == 10 {
		centerAbove := (v0+v1+v2+v3)/4 >= t.level
		// Keep the above-level corners connected through the center when
		// the center is above, otherwise isolate them.
		if (c == 5) == centerAbove {
			pairs = [][2]int{{top, right}, {bottom, left}}
		} else {
			pairs = [][2]int{{left, top}, {right, bottom}}
		}
	}

	for _, p := range pairs {
		t.add(segment{a: cellEdge(row, col, p[0]), b: cellEdge(row, col, p[1])})
	}
}

func cellEdge(row, col, side int) edge {
	switch side {
	case top:
		return edge{row: row, col: col}
	case bottom:
		return edge{row: row + 1, col: col}
	case left:
		return edge{row: row, col: col, vertical: true}
	default:
		return edge{row: row, col: col + 1, vertical: true}
	}
}

func (t *tracer) add(s segment) {
	id := len(t.segs)
	t.segs = append(t.segs, s)
	t.ends[s.a] = append(t.ends[s.a], id)
	t.ends[s.b] = append(t.ends[s.b], id)
}

// point interpolates the level crossing along e.
func (t *tracer) point(e edge) r3.Vec {
	r0, c0 := e.row, e.col
	r1, c1 := r0, c0+1
	if e.vertical {
		r1, c1 = r0+1, c0
	}
	a, b := t.hf.At(r0, c0), t.hf.At(r1, c1)
	f := 0.0
	if b != a {
		f = (t.level - a) / (b - a)
	}
	x0, y0 := t.hf.Planar(r0, c0)
	x1, y1 := t.hf.Planar(r1, c1)
	return r3.Vec{X: x0 + (x1-x0)*f, Y: y0 + (y1-y0)*f, Z: t.level}
}

// join chains segments sharing an edge into polylines: open chains first,
// starting from their loose ends, then closed loops.
func (t *tracer) join() [][]r3.Vec {
	used := make([]bool, len(t.segs))
	var lines [][]r3.Vec

	walk := func(start int, from edge) []edge {
		path := []edge{from}
		id, at := start, from
		for id >= 0 && !used[id] {
			used[id] = true
			s := t.segs[id]
			next := s.b
			if s.b == at && s.a != at {
				next = s.a
			}
			path = append(path, next)
			at = next
			id = -1
			for _, cand := range t.ends[at] {
				if !used[cand] {
					id = cand
					break
				}
			}
		}
		return path
	}

	for id, s := range t.segs {
		if used[id] {
			continue
		}
		switch {
		case len(t.ends[s.a]) == 1:
			lines = append(lines, t.points(walk(id, s.a)))
		case len(t.ends[s.b]) == 1:
			lines = append(lines, t.points(walk(id, s.b)))
		}
	}
	for id, s := range t.segs {
		if !used[id] {
			lines = append(lines, t.points(walk(id, s.a)))
		}
	}
	return lines
}

func (t *tracer) points(path []edge) []r3.Vec {
	pts := make([]r3.Vec, len(path))
	for i, e := range path {
		pts[i] = t.point(e)
	}
	return pts
}

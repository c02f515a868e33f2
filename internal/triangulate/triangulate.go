// Package triangulate computes planar Delaunay triangulations over the
// horizontal projection of surface samples.
package triangulate

import (
	"math"

	"github.com/fogleman/delaunay"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/Faultbox/terrascape/internal/logger"
)

// collinearEps is the relative area below which a point set is treated as
// lying on a line.
const collinearEps = 1e-12

// Delaunay triangulates points and returns triangle index triples into
// points, each wound counter-clockwise in (X, Y). The triangles cover the
// convex hull and no input point lies strictly inside any circumcircle.
//
// Degenerate input is not an error: fewer than three distinct points or a
// collinear set yields nil, and the caller should fall back to drawing
// points. Duplicate points are tolerated; they are left out of the
// triangulation.
func Delaunay(points []r2.Vec) [][3]uint32 {
	if len(points) < 3 || collinear(points) {
		logger.Debug("triangulation skipped: degenerate point set", zap.Int("points", len(points)))
		return nil
	}

	pts := make([]delaunay.Point, len(points))
	for i, p := range points {
		pts[i] = delaunay.Point{X: p.X, Y: p.Y}
	}

	tri, err := delaunay.Triangulate(pts)
	if err != nil {
		logger.Debug("triangulation failed", zap.Int("points", len(points)), zap.Error(err))
		return nil
	}

	out := make([][3]uint32, 0, len(tri.Triangles)/3)
	for i := 0; i+2 < len(tri.Triangles); i += 3 {
		a, b, c := tri.Triangles[i], tri.Triangles[i+1], tri.Triangles[i+2]
		area := cross(points[a], points[b], points[c])
		if area == 0 {
			continue
		}
		if area < 0 {
			b, c = c, b
		}
		out = append(out, [3]uint32{uint32(a), uint32(b), uint32(c)})
	}
	return out
}

// Area returns the total unsigned area covered by triangles over points.
func Area(points []r2.Vec, tris [][3]uint32) float64 {
	var sum float64
	for _, t := range tris {
		sum += math.Abs(cross(points[t[0]], points[t[1]], points[t[2]])) / 2
	}
	return sum
}

// cross returns twice the signed area of (a, b, c); positive when
// counter-clockwise.
func cross(a, b, c r2.Vec) float64 {
	return r2.Cross(r2.Sub(b, a), r2.Sub(c, a))
}

// collinear reports whether all points lie on one line (or coincide),
// relative to the extent of the set.
func collinear(points []r2.Vec) bool {
	origin := points[0]
	// Farthest point from the first one fixes the line direction.
	far, farDist := origin, 0.0
	for _, p := range points[1:] {
		if d := r2.Norm2(r2.Sub(p, origin)); d > farDist {
			far, farDist = p, d
		}
	}
	if farDist == 0 {
		return true
	}
	for _, p := range points[1:] {
		if math.Abs(cross(origin, far, p)) > collinearEps*farDist {
			return false
		}
	}
	return true
}

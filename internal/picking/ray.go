// Package picking casts rays against terrain meshes so a rendering surface
// can map a screen position back to a surface point.
package picking

import (
	gomath "math"

	"github.com/Faultbox/terrascape/internal/terrain"
	"github.com/Faultbox/terrascape/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// NewRay returns a ray with a normalized direction.
func NewRay(origin, direction math.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min [3]float32
	Max [3]float32
}

// FromBounds returns the box of a mesh.
func FromBounds(b terrain.Bounds) AABB {
	return AABB{Min: b.Min, Max: b.Max}
}

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport dimensions.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	// Convert screen coords to normalized device coords (-1 to 1)
	ndcX := 2.0*screenX/viewportW - 1.0
	ndcY := 1.0 - 2.0*screenY/viewportH // Flip Y

	near := unproject(invViewProj, math.Vec4{ndcX, ndcY, -1.0, 1.0})
	far := unproject(invViewProj, math.Vec4{ndcX, ndcY, 1.0, 1.0})

	return NewRay(near, far.Sub(near))
}

// CameraRay inverts viewProj and returns the ray through the given pixel.
// It reports false when the matrix is singular.
func CameraRay(screenX, screenY, viewportW, viewportH float32, viewProj math.Mat4) (Ray, bool) {
	inv, ok := viewProj.Inverse()
	if !ok {
		return Ray{}, false
	}
	return ScreenToRay(screenX, screenY, viewportW, viewportH, inv), true
}

func unproject(inv math.Mat4, p math.Vec4) math.Vec3 {
	w := inv.MulVec4(p)
	// Perspective divide
	if w[3] != 0 {
		w[0] /= w[3]
		w[1] /= w[3]
		w[2] /= w[3]
	}
	return math.Vec3{X: w[0], Y: w[1], Z: w[2]}
}

// Vertical returns a downward ray above planar point (x, z), starting one
// unit over the top of box.
func Vertical(x, z float32, box AABB) Ray {
	return Ray{
		Origin:    math.Vec3{X: x, Y: box.Max[1] + 1, Z: z},
		Direction: math.Vec3{Y: -1},
	}
}

// IntersectPlaneY returns the distance along r to the horizontal plane at
// height y. Rays parallel to the plane or pointing away from it miss.
func (r Ray) IntersectPlaneY(y float32) (t float32, hit bool) {
	if gomath.Abs(float64(r.Direction.Y)) < 1e-6 {
		return 0, false
	}
	t = (y - r.Origin.Y) / r.Direction.Y
	if t < 0 {
		return 0, false
	}
	return t, true
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	origin := r.Origin.Array()
	dir := r.Direction.Array()
	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < box.Min[axis] || origin[axis] > box.Max[axis] {
				return 0, false
			}
			continue
		}
		t1 := (box.Min[axis] - origin[axis]) / dir[axis]
		t2 := (box.Max[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}

	// Return entry point, or exit point if starting inside
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

const triangleEpsilon = 1e-7

// IntersectTriangle returns the distance along r to triangle (a, b, c),
// from either side.
func (r Ray) IntersectTriangle(a, b, c math.Vec3) (t float32, hit bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if det > -triangleEpsilon && det < triangleEpsilon {
		return 0, false // Parallel to the triangle plane
	}
	inv := 1 / det

	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := r.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t = e2.Dot(q) * inv
	if t < 0 {
		return 0, false
	}
	return t, true
}

// Hit is the nearest intersection of a ray with a mesh.
type Hit struct {
	Triangle int
	Distance float32
	Point    math.Vec3
}

// PickMesh returns the nearest triangle of mesh hit by r.
func PickMesh(r Ray, mesh *terrain.Mesh) (Hit, bool) {
	if mesh == nil || len(mesh.Triangles) == 0 {
		return Hit{}, false
	}
	if _, ok := r.IntersectAABB(FromBounds(mesh.Bounds)); !ok {
		return Hit{}, false
	}

	best := Hit{Triangle: -1, Distance: float32(gomath.MaxFloat32)}
	for i, tri := range mesh.Triangles {
		a := math.V3(mesh.Vertices[tri[0]].Position)
		b := math.V3(mesh.Vertices[tri[1]].Position)
		c := math.V3(mesh.Vertices[tri[2]].Position)
		if t, ok := r.IntersectTriangle(a, b, c); ok && t < best.Distance {
			best.Triangle = i
			best.Distance = t
		}
	}
	if best.Triangle < 0 {
		return Hit{}, false
	}
	best.Point = r.At(best.Distance)
	return best, true
}

// PickSurface returns the nearest triangle hit by r, falling back to the
// plane through the lowest point of mesh when the ray misses every
// triangle or mesh has none. A fallback hit has Triangle -1.
func PickSurface(r Ray, mesh *terrain.Mesh) (Hit, bool) {
	if hit, ok := PickMesh(r, mesh); ok {
		return hit, true
	}
	var ground float32
	if mesh != nil && len(mesh.Vertices) > 0 {
		ground = mesh.Bounds.Min[1]
	}
	t, ok := r.IntersectPlaneY(ground)
	if !ok {
		return Hit{}, false
	}
	return Hit{Triangle: -1, Distance: t, Point: r.At(t)}, true
}

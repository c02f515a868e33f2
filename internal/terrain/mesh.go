package terrain

import (
	gomath "math"

	"github.com/Faultbox/terrascape/pkg/math"
)

// GridTriangles returns the two-triangles-per-quad index pattern for a
// row-major rows x cols vertex grid. Each quad (a, b, c, d) with a at
// (row, col), b to its right and c below is split along the b-c diagonal.
func GridTriangles(rows, cols int) [][3]uint32 {
	if rows < 2 || cols < 2 {
		return nil
	}
	tris := make([][3]uint32, 0, 2*(rows-1)*(cols-1))
	for row := 0; row < rows-1; row++ {
		for col := 0; col < cols-1; col++ {
			a := uint32(row*cols + col)
			b := a + 1
			c := a + uint32(cols)
			d := c + 1
			tris = append(tris, [3]uint32{a, c, b}, [3]uint32{b, c, d})
		}
	}
	return tris
}

// Assemble builds a mesh from projected samples and a triangle list.
// Vertex colors come from the ramp on elevation normalized over the samples;
// a flat domain gets the ramp midpoint everywhere. Triangles that reference
// missing vertices or have zero area are dropped, and the rest are wound so
// their face normal points up (+Y). Normals are the renormalized sum of the
// unit face normals around each vertex.
func Assemble(samples []Sample, tris [][3]uint32, ramp ColorRamp) *Mesh {
	mesh := &Mesh{
		Vertices: make([]Vertex, len(samples)),
		Normals:  make([][3]float32, len(samples)),
		Bounds:   emptyBounds(),
	}
	if len(samples) == 0 {
		mesh.Bounds = Bounds{}
		return mesh
	}

	lo, hi := gomath.Inf(1), gomath.Inf(-1)
	for _, s := range samples {
		lo = gomath.Min(lo, s.Elevation)
		hi = gomath.Max(hi, s.Elevation)
	}

	for i, s := range samples {
		mesh.Vertices[i] = Vertex{
			Position: s.Position,
			Color:    ramp.Normalized(s.Elevation, lo, hi),
		}
		updateBounds(&mesh.Bounds, s.Position)
	}

	mesh.Triangles = orientTriangles(mesh.Vertices, tris)
	computeNormals(mesh)
	return mesh
}

// orientTriangles filters invalid and degenerate triangles and winds the
// survivors counter-clockwise when seen from above.
func orientTriangles(verts []Vertex, tris [][3]uint32) [][3]uint32 {
	n := uint32(len(verts))
	out := make([][3]uint32, 0, len(tris))
	for _, t := range tris {
		if t[0] >= n || t[1] >= n || t[2] >= n {
			continue
		}
		a := math.V3(verts[t[0]].Position)
		b := math.V3(verts[t[1]].Position)
		c := math.V3(verts[t[2]].Position)
		normal := b.Sub(a).Cross(c.Sub(a))
		if normal.Length() == 0 {
			continue
		}
		if normal.Y < 0 {
			t[1], t[2] = t[2], t[1]
		}
		out = append(out, t)
	}
	return out
}

func computeNormals(mesh *Mesh) {
	sums := make([]math.Vec3, len(mesh.Vertices))
	for _, t := range mesh.Triangles {
		fn := math.FaceNormal(
			math.V3(mesh.Vertices[t[0]].Position),
			math.V3(mesh.Vertices[t[1]].Position),
			math.V3(mesh.Vertices[t[2]].Position),
		)
		for _, idx := range t {
			sums[idx] = sums[idx].Add(fn)
		}
	}
	for i, s := range sums {
		n := s.Normalize()
		if n == (math.Vec3{}) {
			// Isolated vertex: light it as flat ground.
			n = math.Vec3{Y: 1}
		}
		mesh.Normals[i] = n.Array()
	}
}

// Indices flattens the triangle list for index buffer upload.
func (mesh *Mesh) Indices() []uint32 {
	out := make([]uint32, 0, len(mesh.Triangles)*3)
	for _, t := range mesh.Triangles {
		out = append(out, t[0], t[1], t[2])
	}
	return out
}

// Empty reports whether the mesh has no triangles. A mesh may still carry
// vertices for point-only rendering.
func (mesh *Mesh) Empty() bool {
	return len(mesh.Triangles) == 0
}

func emptyBounds() Bounds {
	inf := float32(gomath.Inf(1))
	return Bounds{
		Min: [3]float32{inf, inf, inf},
		Max: [3]float32{-inf, -inf, -inf},
	}
}

func updateBounds(b *Bounds, p [3]float32) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

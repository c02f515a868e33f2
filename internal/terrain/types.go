// Package terrain synthesizes height fields and assembles colored, lit
// surface meshes from projected elevation samples.
package terrain

// RGB is a linear color with components in [0, 1].
type RGB [3]float32

// Vertex is a colored mesh vertex in local scene coordinates (Y up).
type Vertex struct {
	Position [3]float32
	Color    RGB
}

// Mesh holds the buffers handed to a rendering surface.
// Normals is parallel to Vertices. Every triangle index is < len(Vertices).
type Mesh struct {
	Vertices  []Vertex
	Triangles [][3]uint32
	Normals   [][3]float32
	Bounds    Bounds
}

// Bounds holds the axis-aligned bounding box of the mesh.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Sample is a projected surface point together with the elevation used to
// color it. Elevation is in source units, before vertical scaling.
type Sample struct {
	Position  [3]float32
	Elevation float64
}

// Marker is a point placed on a synthesized surface, in planar coordinates.
type Marker struct {
	X, Z   float64
	Height float64
}

// Basis selects the noise function that drives the height sampler.
type Basis string

// Supported noise bases.
const (
	BasisTrig   Basis = "trig"
	BasisPerlin Basis = "perlin"
)

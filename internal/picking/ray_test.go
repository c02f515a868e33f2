package picking

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/terrascape/internal/terrain"
	"github.com/Faultbox/terrascape/pkg/math"
)

func near(a, b, eps float32) bool {
	return gomath.Abs(float64(a-b)) <= float64(eps)
}

// slope builds a 3x3 grid mesh on [0,2]x[0,2] whose height is y = x.
func slope() *terrain.Mesh {
	var samples []terrain.Sample
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			x := float32(col)
			samples = append(samples, terrain.Sample{
				Position:  [3]float32{x, x, float32(row)},
				Elevation: float64(x),
			})
		}
	}
	return terrain.Assemble(samples, terrain.GridTriangles(3, 3), terrain.DefaultRamp)
}

func TestCameraRayThroughCenter(t *testing.T) {
	eye := math.Vec3{X: 0, Y: 10, Z: 10}
	view := math.LookAt(eye, math.Vec3{}, math.Vec3{Y: 1})
	proj := math.Perspective(1.0, 800.0/600.0, 0.1, 100)
	viewProj := proj.Mul(view)

	ray, ok := CameraRay(400, 300, 800, 600, viewProj)
	if !ok {
		t.Fatal("CameraRay reported a singular matrix")
	}
	if !near(ray.Direction.Length(), 1, 1e-4) {
		t.Errorf("direction length = %v, want 1", ray.Direction.Length())
	}

	d, ok := ray.IntersectPlaneY(0)
	if !ok {
		t.Fatal("center ray missed the ground plane")
	}
	if p := ray.At(d); !near(p.X, 0, 1e-2) || !near(p.Z, 0, 1e-2) {
		t.Errorf("ground hit = (%v, %v), want (0, 0)", p.X, p.Z)
	}
}

func TestCameraRaySingular(t *testing.T) {
	if _, ok := CameraRay(0, 0, 1, 1, math.Mat4{}); ok {
		t.Error("CameraRay() ok = true for a zero matrix")
	}
}

func TestIntersectPlaneY(t *testing.T) {
	down := NewRay(math.Vec3{X: 1, Y: 5, Z: 2}, math.Vec3{Y: -2})
	d, ok := down.IntersectPlaneY(1)
	if !ok || d != 4 {
		t.Errorf("IntersectPlaneY() = %v, %v, want 4, true", d, ok)
	}
	if p := down.At(d); p.X != 1 || p.Y != 1 || p.Z != 2 {
		t.Errorf("plane point = %+v, want {1 1 2}", p)
	}

	flat := NewRay(math.Vec3{Y: 5}, math.Vec3{X: 1})
	if _, ok := flat.IntersectPlaneY(0); ok {
		t.Error("parallel ray should not intersect")
	}
	up := NewRay(math.Vec3{Y: 5}, math.Vec3{Y: 1})
	if _, ok := up.IntersectPlaneY(0); ok {
		t.Error("plane behind the origin should not intersect")
	}
}

func TestIntersectAABB(t *testing.T) {
	box := AABB{Min: [3]float32{-1, -1, -1}, Max: [3]float32{1, 1, 1}}

	tests := []struct {
		name  string
		ray   Ray
		wantT float32
		hit   bool
	}{
		{"front", NewRay(math.Vec3{Z: -5}, math.Vec3{Z: 1}), 4, true},
		{"inside", NewRay(math.Vec3{}, math.Vec3{X: 1}), 1, true},
		{"miss", NewRay(math.Vec3{X: 3, Z: -5}, math.Vec3{Z: 1}), 0, false},
		{"behind", NewRay(math.Vec3{Z: 5}, math.Vec3{Z: 1}), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := tt.ray.IntersectAABB(box)
			if hit != tt.hit || (hit && !near(got, tt.wantT, 1e-5)) {
				t.Errorf("IntersectAABB() = %v, %v, want %v, %v", got, hit, tt.wantT, tt.hit)
			}
		})
	}
}

func TestIntersectTriangle(t *testing.T) {
	a := math.Vec3{X: 0, Y: 0, Z: 0}
	b := math.Vec3{X: 1, Y: 0, Z: 0}
	c := math.Vec3{X: 0, Y: 0, Z: 1}

	down := NewRay(math.Vec3{X: 0.25, Y: 2, Z: 0.25}, math.Vec3{Y: -1})
	if got, ok := down.IntersectTriangle(a, b, c); !ok || !near(got, 2, 1e-6) {
		t.Errorf("IntersectTriangle() = %v, %v, want 2, true", got, ok)
	}
	// Either winding is hit.
	if _, ok := down.IntersectTriangle(a, c, b); !ok {
		t.Error("expected hit on reversed winding")
	}

	outside := NewRay(math.Vec3{X: 0.75, Y: 2, Z: 0.75}, math.Vec3{Y: -1})
	if _, ok := outside.IntersectTriangle(a, b, c); ok {
		t.Error("expected miss outside the triangle")
	}
	parallel := NewRay(math.Vec3{X: -1, Y: 0, Z: 0.25}, math.Vec3{X: 1})
	if _, ok := parallel.IntersectTriangle(a, b, c); ok {
		t.Error("expected miss for a ray in the triangle plane")
	}
}

func TestPickMesh(t *testing.T) {
	mesh := slope()

	ray := Vertical(1.5, 0.5, FromBounds(mesh.Bounds))
	hit, ok := PickMesh(ray, mesh)
	if !ok {
		t.Fatal("vertical ray missed the mesh")
	}
	if !near(hit.Point.Y, 1.5, 1e-5) {
		t.Errorf("hit height = %v, want 1.5", hit.Point.Y)
	}
	if !near(hit.Point.X, 1.5, 1e-6) || !near(hit.Point.Z, 0.5, 1e-6) {
		t.Errorf("hit point = %+v, want x 1.5 z 0.5", hit.Point)
	}
	if hit.Triangle < 0 || hit.Triangle >= len(mesh.Triangles) {
		t.Errorf("hit triangle %d out of range", hit.Triangle)
	}

	if _, ok := PickMesh(Vertical(5, 5, FromBounds(mesh.Bounds)), mesh); ok {
		t.Error("ray outside the mesh should miss")
	}
	if _, ok := PickMesh(ray, &terrain.Mesh{}); ok {
		t.Error("empty mesh should not be hit")
	}
}

func TestPickSurface(t *testing.T) {
	mesh := slope()

	hit, ok := PickSurface(Vertical(1.5, 0.5, FromBounds(mesh.Bounds)), mesh)
	if !ok || hit.Triangle < 0 {
		t.Fatalf("PickSurface() = %+v, %v, want a triangle hit", hit, ok)
	}
	if !near(hit.Point.Y, 1.5, 1e-5) {
		t.Errorf("hit height = %v, want 1.5", hit.Point.Y)
	}

	tests := []struct {
		name   string
		mesh   *terrain.Mesh
		x, z   float32
		wantY  float32
		origin float32
	}{
		{"outside the triangles", mesh, 5, 5, 0, 3},
		{"point-only mesh", terrain.Assemble([]terrain.Sample{
			{Position: [3]float32{0, -2, 0}, Elevation: -2},
			{Position: [3]float32{4, 3, 4}, Elevation: 3},
		}, nil, terrain.DefaultRamp), 1, 1, -2, 4},
		{"no vertices", &terrain.Mesh{}, 1, 1, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := Vertical(tt.x, tt.z, FromBounds(tt.mesh.Bounds))
			if ray.Origin.Y != tt.origin {
				t.Fatalf("ray origin height = %v, want %v", ray.Origin.Y, tt.origin)
			}
			hit, ok := PickSurface(ray, tt.mesh)
			if !ok {
				t.Fatal("PickSurface() missed the ground plane")
			}
			if hit.Triangle != -1 {
				t.Errorf("Triangle = %d, want -1 for a ground hit", hit.Triangle)
			}
			if hit.Point.X != tt.x || hit.Point.Z != tt.z || !near(hit.Point.Y, tt.wantY, 1e-6) {
				t.Errorf("ground point = %+v, want {%v %v %v}", hit.Point, tt.x, tt.wantY, tt.z)
			}
		})
	}
}

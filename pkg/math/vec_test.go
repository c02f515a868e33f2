package math

import (
	"testing"
)

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := Vec3{0, 3, 4}.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if z := (Vec3{}).Normalize(); z != (Vec3{}) {
		t.Errorf("zero Vec3.Normalize() = %v, want zero", z)
	}
}

func TestFaceNormal(t *testing.T) {
	// Counter-clockwise when seen from +Y in the XZ plane is a, c, b below.
	a := Vec3{0, 0, 0}
	b := Vec3{1, 0, 0}
	c := Vec3{0, 0, 1}

	if got := FaceNormal(a, c, b); got != (Vec3{0, 1, 0}) {
		t.Errorf("FaceNormal(a, c, b) = %v, want +Y", got)
	}
	if got := FaceNormal(a, b, c); got != (Vec3{0, -1, 0}) {
		t.Errorf("FaceNormal(a, b, c) = %v, want -Y", got)
	}
	if got := FaceNormal(a, a, b); got != (Vec3{}) {
		t.Errorf("degenerate FaceNormal = %v, want zero", got)
	}
}

func TestVec3ArrayRoundTrip(t *testing.T) {
	a := [3]float32{1.5, -2, 3.25}
	if got := V3(a).Array(); got != a {
		t.Errorf("V3(a).Array() = %v, want %v", got, a)
	}
}

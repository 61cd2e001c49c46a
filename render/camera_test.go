package render

import (
	"math"
	"testing"

	"github.com/echoflaresat/skycompass/vectors"
)

func TestCameraBasisOrthonormal(t *testing.T) {
	cam := NewCamera(47, 19, 880, 60, 40, 15)
	axes := []vectors.Vec3{cam.Forward, cam.Right, cam.Up}
	for i, a := range axes {
		if d := math.Abs(a.Norm() - 1); d > 1e-9 {
			t.Errorf("axis %d not unit length: off by %v", i, d)
		}
		for j := i + 1; j < len(axes); j++ {
			if d := math.Abs(a.Dot(axes[j])); d > 1e-9 {
				t.Errorf("axes %d,%d not perpendicular: dot %v", i, j, d)
			}
		}
	}
}

func TestCameraLooksAtEarth(t *testing.T) {
	cam := NewCamera(0, 20, 880, 60, 0, 0)
	toCenter := cam.Position.Normalize().Scale(-1)
	if d := cam.Forward.Sub(toCenter).Norm(); d > 1e-9 {
		t.Errorf("untilted camera should look at the Earth center, forward off by %v", d)
	}
}

func TestProjectInvertsComputeRay(t *testing.T) {
	cam := NewCamera(10, -30, 2000, 60, 25, -10)
	const w, h = 640, 480

	cases := [][2]float64{
		{(w - 1) / 2.0, (h - 1) / 2.0},
		{100, 50},
		{600.5, 410.25},
		{0, 0},
	}
	for _, px := range cases {
		ray := cam.ComputeRay(px[0], px[1], w, h)
		p := cam.Position.Add(ray.Scale(1234.5))
		i, j, ok := cam.Project(p, w, h)
		if !ok {
			t.Fatalf("point along ray through (%v,%v) projected behind camera", px[0], px[1])
		}
		if math.Abs(i-px[0]) > 1e-6 || math.Abs(j-px[1]) > 1e-6 {
			t.Errorf("Project() = (%v,%v), want (%v,%v)", i, j, px[0], px[1])
		}
	}
}

func TestProjectBehindCamera(t *testing.T) {
	cam := NewCamera(0, 0, 880, 60, 0, 0)
	behind := cam.Position.Sub(cam.Forward.Scale(100))
	if _, _, ok := cam.Project(behind, 64, 64); ok {
		t.Error("point behind camera reported as visible")
	}
}

func TestEyeToWorldMatchesBasis(t *testing.T) {
	cam := NewCamera(35, 135, 500, 45, 10, 5)
	got := cam.EyeToWorld(vectors.Vec3{Z: 1})
	if d := got.Sub(cam.Forward).Norm(); d > 1e-12 {
		t.Errorf("EyeToWorld(+Z) = %v, want forward %v", got, cam.Forward)
	}
	got = cam.EyeToWorld(vectors.Vec3{X: 1})
	if d := got.Sub(cam.Right).Norm(); d > 1e-12 {
		t.Errorf("EyeToWorld(+X) = %v, want right %v", got, cam.Right)
	}
}

func TestNearHalfExtent(t *testing.T) {
	cam := NewCamera(0, 0, 880, 90, 0, 0)
	want := cam.Near * math.Tan(45*math.Pi/180)
	if d := math.Abs(cam.NearHalfExtent() - want); d > 1e-12 {
		t.Errorf("NearHalfExtent() off by %v", d)
	}
}

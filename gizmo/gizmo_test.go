package gizmo

import (
	"math"
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/echoflaresat/skycompass/earth"
	"github.com/echoflaresat/skycompass/render"
	"github.com/echoflaresat/skycompass/vectors"
)

const tol = 1e-9

// northFacingCamera looks due north along the horizon from the equator at
// longitude 0, with zero tilt.
func northFacingCamera() render.Camera {
	return render.Camera{
		FOVDeg:     60,
		TanHalfFOV: math.Tan(30 * math.Pi / 180),
		Near:       render.DefaultNear,
		Position:   vectors.Vec3{X: earth.Radius + 500},
		Forward:    vectors.Vec3{Z: 1},
		Right:      vectors.Vec3{Y: 1},
		Up:         vectors.Vec3{X: 1},
	}
}

func TestLocalDirectionsUnitLength(t *testing.T) {
	cam := render.NewCamera(47, 19, 880, 60, 40, 15)
	// Deliberately unnormalized inputs.
	sun := vectors.Vec3{X: 2, Y: -1, Z: 0.5}
	moon := vectors.Vec3{X: -0.3, Y: 0.1, Z: 3}

	layout := Compute(cam, sun, moon, DefaultConfig())

	if d := math.Abs(layout.SunLocal.Norm() - 1); d > tol {
		t.Errorf("sun local direction not unit length: off by %v", d)
	}
	if d := math.Abs(layout.MoonLocal.Norm() - 1); d > tol {
		t.Errorf("moon local direction not unit length: off by %v", d)
	}
}

func TestBelowHorizonDimming(t *testing.T) {
	cam := northFacingCamera()
	cfg := DefaultConfig()
	frame := earth.ENUFrameAt(cam.Position)

	horizontal := math.Sqrt(1 - 0.1*0.1)
	above := frame.East.Scale(horizontal).Add(frame.Up.Scale(0.1))
	below := frame.East.Scale(horizontal).Sub(frame.Up.Scale(0.1))

	layout := Compute(cam, above, above, cfg)
	if layout.Sun.BelowHorizon {
		t.Error("direction with local Up = +0.1 flagged below horizon")
	}
	if layout.Sun.Color != cfg.SunColor {
		t.Errorf("above-horizon sun color = %v, want %v", layout.Sun.Color, cfg.SunColor)
	}
	if layout.Moon.Color != cfg.MoonColor {
		t.Errorf("above-horizon moon color = %v, want %v", layout.Moon.Color, cfg.MoonColor)
	}

	layout = Compute(cam, below, below, cfg)
	if !layout.Sun.BelowHorizon {
		t.Error("direction with local Up = -0.1 not flagged below horizon")
	}
	if layout.Sun.Color != cfg.BelowHorizon {
		t.Errorf("below-horizon sun color = %v, want dim %v", layout.Sun.Color, cfg.BelowHorizon)
	}
	if layout.Moon.Color != cfg.BelowHorizon {
		t.Errorf("below-horizon moon color = %v, want dim %v", layout.Moon.Color, cfg.BelowHorizon)
	}
}

func TestLabelAnchorsEquidistant(t *testing.T) {
	cam := render.NewCamera(10, -30, 2000, 60, 25, -10)
	layout := Compute(cam, vectors.Vec3{X: 1}, vectors.Vec3{Y: 1}, DefaultConfig())

	for _, lb := range layout.Labels {
		d := vectors.Distance(lb.Position, layout.Anchor)
		if diff := math.Abs(d - layout.Scale); diff > tol {
			t.Errorf("label %q at distance %v from anchor, want %v", lb.Text, d, layout.Scale)
		}
	}
	if layout.Labels[0].Text != "East" || layout.Labels[1].Text != "North" || layout.Labels[2].Text != "Up" {
		t.Errorf("unexpected label texts: %v, %v, %v",
			layout.Labels[0].Text, layout.Labels[1].Text, layout.Labels[2].Text)
	}
}

func TestEastAxisForNorthFacingCamera(t *testing.T) {
	cam := northFacingCamera()
	layout := Compute(cam, vectors.Vec3{X: 1}, vectors.Vec3{X: 1}, DefaultConfig())

	// At the equator, longitude 0, East is the world +Y direction, which
	// is also the camera's right when it looks due north untilted.
	if d := layout.Frame.East.Sub(vectors.Vec3{Y: 1}).Norm(); d > tol {
		t.Errorf("East = %v, want +Y", layout.Frame.East)
	}
	if d := layout.Frame.East.Sub(cam.Right).Norm(); d > tol {
		t.Errorf("East = %v, want camera right %v", layout.Frame.East, cam.Right)
	}
}

func TestIdempotent(t *testing.T) {
	cam := render.NewCamera(47, 19, 880, 60, 40, 15)
	sun := vectors.Vec3{X: 0.3, Y: -0.7, Z: 0.2}
	moon := vectors.Vec3{X: -0.5, Y: 0.5, Z: -0.1}
	cfg := DefaultConfig()

	a := Compute(cam, sun, moon, cfg)
	b := Compute(cam, sun, moon, cfg)
	if !reflect.DeepEqual(a, b) {
		t.Error("identical inputs produced different layouts")
	}
}

func TestScaleIsQuarterOffset(t *testing.T) {
	cam := northFacingCamera()
	layout := Compute(cam, vectors.Vec3{X: 1}, vectors.Vec3{X: 1}, DefaultConfig())
	want := cam.NearHalfExtent() * 0.25
	if d := math.Abs(layout.Scale - want); d > tol {
		t.Errorf("Scale = %v, want quarter of near half-extent %v", layout.Scale, want)
	}
}

func TestTransformMapsLocalAxes(t *testing.T) {
	cam := render.NewCamera(35, 135, 500, 45, 10, 5)
	layout := Compute(cam, vectors.Vec3{X: 1}, vectors.Vec3{Y: 1}, DefaultConfig())

	// Local +X through the transform lands on anchor + East*scale.
	got := layout.Transform.Mul4x1(mgl64.Vec4{1, 0, 0, 1})
	want := layout.Anchor.Add(layout.Frame.East.Scale(layout.Scale))
	diff := vectors.Vec3{X: got.X() - want.X, Y: got.Y() - want.Y, Z: got.Z() - want.Z}
	if diff.Norm() > 1e-6 {
		t.Errorf("Transform(+X) = %v, want %v", got, want)
	}

	// The origin lands on the anchor.
	got = layout.Transform.Mul4x1(mgl64.Vec4{0, 0, 0, 1})
	diff = vectors.Vec3{X: got.X() - layout.Anchor.X, Y: got.Y() - layout.Anchor.Y, Z: got.Z() - layout.Anchor.Z}
	if diff.Norm() > 1e-6 {
		t.Errorf("Transform(origin) = %v, want anchor %v", got, layout.Anchor)
	}
}

func TestAnchorInsideFrustum(t *testing.T) {
	cam := render.NewCamera(0, 20, 880, 60, 30, 0)
	layout := Compute(cam, vectors.Vec3{X: 1}, vectors.Vec3{Y: 1}, DefaultConfig())

	const w, h = 640, 640
	i, j, ok := cam.Project(layout.Anchor, w, h)
	if !ok {
		t.Fatal("anchor projected behind camera")
	}
	if i < 0 || i >= w || j < 0 || j >= h {
		t.Errorf("anchor projects off screen: (%v, %v)", i, j)
	}
}

func TestProjectionsDecomposeSunDirection(t *testing.T) {
	cam := northFacingCamera()
	frame := earth.ENUFrameAt(cam.Position)
	sun := frame.East.Scale(0.6).Add(frame.North.Scale(0.48)).Add(frame.Up.Scale(0.64))
	layout := Compute(cam, sun, sun, DefaultConfig())

	// The East-North projection drops the Up component.
	enLocal := frame.WorldToLocal(layout.Projections[0].End.Sub(layout.Anchor)).Scale(1 / layout.Scale)
	if math.Abs(enLocal.X-layout.SunLocal.X) > 1e-9 ||
		math.Abs(enLocal.Y-layout.SunLocal.Y) > 1e-9 ||
		math.Abs(enLocal.Z) > 1e-9 {
		t.Errorf("East-North projection = %v, want (%v, %v, 0)", enLocal, layout.SunLocal.X, layout.SunLocal.Y)
	}

	// The North-Up projection drops the East component.
	nuLocal := frame.WorldToLocal(layout.Projections[1].End.Sub(layout.Anchor)).Scale(1 / layout.Scale)
	if math.Abs(nuLocal.X) > 1e-9 ||
		math.Abs(nuLocal.Y-layout.SunLocal.Y) > 1e-9 ||
		math.Abs(nuLocal.Z-layout.SunLocal.Z) > 1e-9 {
		t.Errorf("North-Up projection = %v, want (0, %v, %v)", nuLocal, layout.SunLocal.Y, layout.SunLocal.Z)
	}
}

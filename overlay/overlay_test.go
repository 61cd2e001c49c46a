package overlay

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/echoflaresat/skycompass/colors"
	"github.com/echoflaresat/skycompass/earth"
	"github.com/echoflaresat/skycompass/gizmo"
	"github.com/echoflaresat/skycompass/render"
	"github.com/echoflaresat/skycompass/vectors"
)

func blackFrame(n int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, n, n))
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			img.SetNRGBA(x, y, color.NRGBA{0, 0, 0, 255})
		}
	}
	return img
}

func countNonBlack(img *image.NRGBA) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			if c.R != 0 || c.G != 0 || c.B != 0 {
				n++
			}
		}
	}
	return n
}

func testCamera() render.Camera {
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

func TestLineRaster(t *testing.T) {
	o := New(gizmo.DefaultConfig())
	o.frame = blackFrame(16)
	o.width, o.height = 16, 16

	o.line(2, 5, 12, 5, colors.White())

	for x := 2; x <= 12; x++ {
		if c := o.frame.NRGBAAt(x, 5); c.R != 255 || c.G != 255 || c.B != 255 {
			t.Fatalf("pixel (%d,5) = %v, want white", x, c)
		}
	}
	if c := o.frame.NRGBAAt(14, 5); c.R != 0 {
		t.Errorf("pixel beyond the segment touched: %v", c)
	}
}

func TestLineClipped(t *testing.T) {
	o := New(gizmo.DefaultConfig())
	o.frame = blackFrame(8)
	o.width, o.height = 8, 8

	// Must not panic or write out of bounds.
	o.line(-20, 4, 30, 4, colors.White())
	if c := o.frame.NRGBAAt(3, 4); c.R != 255 {
		t.Errorf("in-bounds part of clipped line not drawn: %v", c)
	}
}

func TestDrawMarksFrame(t *testing.T) {
	cam := testCamera()
	frame := blackFrame(128)

	o := New(gizmo.DefaultConfig())
	sun := earth.ENUFrameAt(cam.Position).Up // overhead sun
	moon := cam.Forward
	o.Draw(frame, cam, sun, moon)

	if n := countNonBlack(frame); n < 50 {
		t.Errorf("overlay drew %d pixels, expected a visible gizmo", n)
	}
}

func TestDrawIsRepeatable(t *testing.T) {
	cam := testCamera()
	o := New(gizmo.DefaultConfig())
	sun := vectors.Vec3{X: 0.5, Y: 0.5, Z: 0.2}
	moon := vectors.Vec3{X: -0.2, Y: 0.8, Z: -0.4}

	a := blackFrame(96)
	b := blackFrame(96)
	o.Draw(a, cam, sun, moon)
	o.Draw(b, cam, sun, moon)

	if len(a.Pix) != len(b.Pix) {
		t.Fatal("frame sizes differ")
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatal("two draws of identical inputs produced different frames")
		}
	}
}

func TestSpriteCacheReused(t *testing.T) {
	o := New(gizmo.DefaultConfig())
	o.frame = blackFrame(64)
	o.width, o.height = 64, 64

	o.stampSprite(32, 32, 8, colors.New(1, 0.8, 0.1, 1))
	if got := o.sprites.Len(); got != 1 {
		t.Fatalf("sprite cache has %d entries after first stamp, want 1", got)
	}
	o.stampSprite(10, 10, 8, colors.New(1, 0.8, 0.1, 1))
	if got := o.sprites.Len(); got != 1 {
		t.Errorf("sprite cache grew to %d entries for an identical sprite", got)
	}
}

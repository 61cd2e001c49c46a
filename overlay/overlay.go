// Package overlay composites the direction gizmo onto a rendered frame.
// It implements gizmo.Surface with a small software rasterizer: projected
// line segments, disc sprites for the sun and moon, and bitmap-font labels.
package overlay

import (
	"image"
	"math"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/echoflaresat/skycompass/colors"
	"github.com/echoflaresat/skycompass/gizmo"
	"github.com/echoflaresat/skycompass/render"
	"github.com/echoflaresat/skycompass/vectors"
)

// spriteCacheSize bounds the sprite cache; in practice two entries per
// frame size are live (sun and moon).
const spriteCacheSize = 64

// Overlay draws the gizmo onto frames. The zero value is not usable; use
// New. Sprites are rendered once per color/size and reused across frames.
// An Overlay is not safe for concurrent use.
type Overlay struct {
	cfg     gizmo.Config
	sprites *lru.Cache
	face    font.Face

	// Per-frame state, valid only while Draw runs.
	frame  *image.NRGBA
	cam    render.Camera
	width  int
	height int
}

func New(cfg gizmo.Config) *Overlay {
	cache, _ := lru.New(spriteCacheSize)
	return &Overlay{
		cfg:     cfg,
		sprites: cache,
		face:    basicfont.Face7x13,
	}
}

// Draw computes the gizmo layout for the given camera and directions and
// rasterizes it onto frame. The layout is rebuilt from scratch every call;
// nothing is retained except the sprite cache.
func (o *Overlay) Draw(frame *image.NRGBA, cam render.Camera, sunDirWC, moonDirWC vectors.Vec3) {
	o.frame = frame
	o.cam = cam
	b := frame.Bounds()
	o.width, o.height = b.Dx(), b.Dy()

	layout := gizmo.Compute(cam, sunDirWC, moonDirWC, o.cfg)
	layout.Draw(o, o.cfg)

	o.frame = nil
}

// Line implements gizmo.Surface.
func (o *Overlay) Line(a, b vectors.Vec3, c colors.Color4) {
	x0, y0, ok0 := o.cam.Project(a, o.width, o.height)
	x1, y1, ok1 := o.cam.Project(b, o.width, o.height)
	if !ok0 || !ok1 {
		return
	}
	o.line(x0, y0, x1, y1, c)
}

// Circle implements gizmo.Surface: a polyline approximation in the plane
// perpendicular to normal.
func (o *Overlay) Circle(center, normal vectors.Vec3, radius float64, c colors.Color4) {
	const segments = 48

	u := normal.Orthogonal()
	v := normal.Normalize().Cross(u)

	prev := center.Add(u.Scale(radius))
	for i := 1; i <= segments; i++ {
		theta := 2 * math.Pi * float64(i) / segments
		p := center.
			Add(u.Scale(radius * math.Cos(theta))).
			Add(v.Scale(radius * math.Sin(theta)))
		o.Line(prev, p, c)
		prev = p
	}
}

// Billboard implements gizmo.Surface: a camera-facing disc sprite.
func (o *Overlay) Billboard(center vectors.Vec3, radius float64, c colors.Color4) {
	cx, cy, ok := o.cam.Project(center, o.width, o.height)
	if !ok {
		return
	}
	// Pixel radius from projecting a point one radius to the camera's
	// right of the center.
	ex, ey, ok := o.cam.Project(center.Add(o.cam.Right.Scale(radius)), o.width, o.height)
	if !ok {
		return
	}
	rPx := math.Hypot(ex-cx, ey-cy)
	if rPx < 1 {
		return
	}

	o.stampSprite(cx, cy, int(rPx+0.5), c)
}

// Label implements gizmo.Surface, drawing text just beside the anchor with
// the package bitmap font.
func (o *Overlay) Label(text string, pos vectors.Vec3, c colors.Color4) {
	x, y, ok := o.cam.Project(pos, o.width, o.height)
	if !ok {
		return
	}
	d := font.Drawer{
		Dst:  o.frame,
		Src:  image.NewUniform(c.ToNRGBA()),
		Face: o.face,
		Dot:  fixed.P(int(x)+3, int(y)-3),
	}
	d.DrawString(text)
}

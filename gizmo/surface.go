package gizmo

import (
	"github.com/echoflaresat/skycompass/colors"
	"github.com/echoflaresat/skycompass/vectors"
)

// Surface is the minimal drawing facility the gizmo needs from a renderer.
// Implementations receive world-space geometry once per frame and own the
// projection to their output; nothing is retained between frames.
type Surface interface {
	// Line draws a straight segment between two world-space points.
	Line(a, b vectors.Vec3, c colors.Color4)
	// Circle draws a wireframe circle around center, in the plane
	// perpendicular to normal.
	Circle(center, normal vectors.Vec3, radius float64, c colors.Color4)
	// Billboard draws a camera-facing disc sprite.
	Billboard(center vectors.Vec3, radius float64, c colors.Color4)
	// Label draws text anchored at a world-space point.
	Label(text string, pos vectors.Vec3, c colors.Color4)
}

// Draw emits the layout onto a surface: axis tripod, horizon ring, the two
// direction arrows with billboards, the sun plane projections and the axis
// labels.
func (l Layout) Draw(s Surface, cfg Config) {
	// Axis tripod.
	s.Line(l.Anchor, l.Anchor.Add(l.Frame.East.Scale(l.Scale)), cfg.EastColor)
	s.Line(l.Anchor, l.Anchor.Add(l.Frame.North.Scale(l.Scale)), cfg.NorthColor)
	s.Line(l.Anchor, l.Anchor.Add(l.Frame.Up.Scale(l.Scale)), cfg.UpColor)

	// Horizon ring in the East-North plane.
	s.Circle(l.Anchor, l.Frame.Up, l.Scale, cfg.RingColor)

	for _, p := range l.Projections {
		s.Line(p.Start, p.End, p.Color)
	}

	l.Sun.draw(s, l.Scale, cfg)
	l.Moon.draw(s, l.Scale, cfg)

	for _, lb := range l.Labels {
		s.Label(lb.Text, lb.Position, lb.Color)
	}
}

func (a Arrow) draw(s Surface, scale float64, cfg Config) {
	s.Line(a.End, a.Start, a.Color)

	// Two-stroke head at the outer point, opening back toward the shaft.
	dir := a.Start.Sub(a.End).Normalize()
	perp := dir.Orthogonal()
	headLen := 0.2 * scale
	base := a.Start.Sub(dir.Scale(headLen))
	s.Line(a.Start, base.Add(perp.Scale(headLen*0.5)), a.Color)
	s.Line(a.Start, base.Sub(perp.Scale(headLen*0.5)), a.Color)

	s.Billboard(a.Start.Add(dir.Scale(scale*0.3)), scale*cfg.BillboardRadius, a.Color)
}

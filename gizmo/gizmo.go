// Package gizmo computes the geometry of a sun/moon direction debug overlay
// for a globe viewer: an East-North-Up compass anchored in front of the
// camera, with direction arrows, plane projections and axis labels.
package gizmo

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/echoflaresat/skycompass/colors"
	"github.com/echoflaresat/skycompass/earth"
	"github.com/echoflaresat/skycompass/render"
	"github.com/echoflaresat/skycompass/vectors"
)

// Config is the gizmo palette and proportions. All lengths are multiples of
// the layout scale (the anchor offset).
type Config struct {
	// AnchorFraction is the fraction of the near-plane horizontal
	// half-extent used both as the lateral anchor offset and as the
	// uniform gizmo scale.
	AnchorFraction float64

	// ArrowReach and ArrowInset place the outer and inner arrow points,
	// as multiples of the scale.
	ArrowReach float64
	ArrowInset float64

	// BillboardRadius is the radius of the sun/moon disc sprites, as a
	// multiple of the scale.
	BillboardRadius float64

	SunColor        colors.Color4
	MoonColor       colors.Color4
	BelowHorizon    colors.Color4
	EastColor       colors.Color4
	NorthColor      colors.Color4
	UpColor         colors.Color4
	ProjectionColor colors.Color4
	RingColor       colors.Color4
	LabelColor      colors.Color4
}

// DefaultConfig returns the standard debug palette: warm sun, cool moon,
// gray for directions below the horizon, RGB axes.
func DefaultConfig() Config {
	return Config{
		AnchorFraction:  0.25,
		ArrowReach:      1.5,
		ArrowInset:      1.1,
		BillboardRadius: 0.18,

		SunColor:        colors.New(1.0, 0.8, 0.1, 1.0),
		MoonColor:       colors.New(0.8, 0.85, 1.0, 1.0),
		BelowHorizon:    colors.New(0.5, 0.5, 0.5, 1.0),
		EastColor:       colors.Red(),
		NorthColor:      colors.Green(),
		UpColor:         colors.Blue(),
		ProjectionColor: colors.White().WithAlpha(0.45),
		RingColor:       colors.White().WithAlpha(0.3),
		LabelColor:      colors.White(),
	}
}

// Arrow is a direction indicator. Start is the outer point (away from the
// anchor), End the inner one; the head sits at Start and points outward.
type Arrow struct {
	Start        vectors.Vec3
	End          vectors.Vec3
	Color        colors.Color4
	BelowHorizon bool
}

// Segment is a colored line between two world-space points.
type Segment struct {
	Start vectors.Vec3
	End   vectors.Vec3
	Color colors.Color4
}

// Label is a text anchor in world space.
type Label struct {
	Text     string
	Position vectors.Vec3
	Color    colors.Color4
}

// Layout is the per-frame gizmo geometry. Everything is derived from the
// camera pose and the two input directions; there is no cross-frame state.
type Layout struct {
	// Anchor is the gizmo center, in front of and offset from the camera.
	Anchor vectors.Vec3
	// Scale is the uniform gizmo scale (the quarter-offset).
	Scale float64
	// Frame is the East-North-Up basis at the ground point beneath the
	// camera.
	Frame earth.ENUFrame
	// Transform places gizmo-local coordinates into the world: rotation
	// by the ENU basis, translation to Anchor, uniform scale.
	Transform mgl64.Mat4

	// SunLocal and MoonLocal are the input directions expressed in the
	// ENU frame, unit length.
	SunLocal  vectors.Vec3
	MoonLocal vectors.Vec3

	Sun  Arrow
	Moon Arrow

	// Projections of the sun direction onto the local East-North,
	// North-Up and East-Up planes.
	Projections [3]Segment

	Labels [3]Label
}

// Compute derives the gizmo layout for one frame. Both directions are world
// frame; they are normalized here, so callers may pass unnormalized vectors.
// Degenerate input (zero directions, camera exactly at a pole) yields
// undefined geometry but never panics.
func Compute(cam render.Camera, sunDirWC, moonDirWC vectors.Vec3, cfg Config) Layout {
	frame := earth.ENUFrameAt(cam.Position)

	sunWorld := sunDirWC.Normalize()
	moonWorld := moonDirWC.Normalize()
	sunLocal := frame.WorldToLocal(sunWorld).Normalize()
	moonLocal := frame.WorldToLocal(moonWorld).Normalize()

	scale := cam.NearHalfExtent() * cfg.AnchorFraction
	anchor := cam.Position.
		Add(cam.Forward.Scale(cam.Near)).
		Add(cam.Right.Scale(scale)).
		Sub(cam.Up.Scale(scale))

	rot := mgl64.Mat3FromCols(
		mgl64.Vec3{frame.East.X, frame.East.Y, frame.East.Z},
		mgl64.Vec3{frame.North.X, frame.North.Y, frame.North.Z},
		mgl64.Vec3{frame.Up.X, frame.Up.Y, frame.Up.Z},
	)
	transform := mgl64.Translate3D(anchor.X, anchor.Y, anchor.Z).
		Mul4(rot.Mat4()).
		Mul4(mgl64.Scale3D(scale, scale, scale))

	layout := Layout{
		Anchor:    anchor,
		Scale:     scale,
		Frame:     frame,
		Transform: transform,
		SunLocal:  sunLocal,
		MoonLocal: moonLocal,
		Sun:       arrow(anchor, scale, sunWorld, sunLocal, cfg.SunColor, cfg),
		Moon:      arrow(anchor, scale, moonWorld, moonLocal, cfg.MoonColor, cfg),
	}

	// Decompose the sun direction onto the three coordinate planes of the
	// local frame.
	planes := [3]vectors.Vec3{
		{X: sunLocal.X, Y: sunLocal.Y}, // East-North
		{Y: sunLocal.Y, Z: sunLocal.Z}, // North-Up
		{X: sunLocal.X, Z: sunLocal.Z}, // East-Up
	}
	for i, p := range planes {
		layout.Projections[i] = Segment{
			Start: anchor,
			End:   anchor.Add(frame.LocalToWorld(p).Scale(scale)),
			Color: cfg.ProjectionColor,
		}
	}

	axes := [3]vectors.Vec3{frame.East, frame.North, frame.Up}
	texts := [3]string{"East", "North", "Up"}
	tints := [3]colors.Color4{cfg.EastColor, cfg.NorthColor, cfg.UpColor}
	for i := range axes {
		layout.Labels[i] = Label{
			Text:     texts[i],
			Position: anchor.Add(axes[i].Scale(scale)),
			Color:    tints[i],
		}
	}

	return layout
}

// arrow places the indicator for one direction. Directions pointing below
// the local horizon (negative Up component) are dimmed.
func arrow(anchor vectors.Vec3, scale float64, world, local vectors.Vec3, tint colors.Color4, cfg Config) Arrow {
	below := local.Z < 0
	color := tint
	if below {
		color = cfg.BelowHorizon
	}
	return Arrow{
		Start:        anchor.Add(world.Scale(scale * cfg.ArrowReach)),
		End:          anchor.Add(world.Scale(scale * cfg.ArrowInset)),
		Color:        color,
		BelowHorizon: below,
	}
}

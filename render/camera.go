package render

import (
	"math"

	"github.com/echoflaresat/skycompass/earth"
	"github.com/echoflaresat/skycompass/vectors"
)

// DefaultNear is the near clipping distance in km. The viewer only ray
// traces, so the near plane exists for frustum-relative placement (debug
// overlays) rather than clipping.
const DefaultNear = 0.1

// Camera models a pinhole camera in ECEF coordinates.
type Camera struct {
	FOVDeg     float64
	TanHalfFOV float64
	Near       float64
	Position   vectors.Vec3
	Forward    vectors.Vec3
	Right      vectors.Vec3
	Up         vectors.Vec3
}

// NewCamera constructs a camera from geodetic lat/lon (deg), altitude (km),
// field of view (deg), an additional tilt about the camera's Right axis
// (deg) and yaw about its Up axis (deg).
func NewCamera(latDeg, lonDeg, altKm, fovDeg, tiltDeg, yawDeg float64) Camera {
	lat := latDeg * math.Pi / 180.0
	lon := lonDeg * math.Pi / 180.0

	camRadius := earth.Radius + altKm
	x := camRadius * math.Cos(lat) * math.Cos(lon)
	y := camRadius * math.Cos(lat) * math.Sin(lon)
	z := camRadius * math.Sin(lat)

	pos := vectors.Vec3{X: x, Y: y, Z: z}

	// FOV
	fovRad := fovDeg * math.Pi / 180.0
	tanHalf := math.Tan(fovRad / 2.0)

	// Basis vectors
	fwd := pos.Normalize().Scale(-1.0) // look toward Earth center
	globalUp := vectors.Vec3{X: 0, Y: 0, Z: 1}
	right := fwd.Cross(globalUp)
	if right.Norm() < 1e-6 {
		right = vectors.Vec3{X: 1, Y: 0, Z: 0} // fallback if near poles / parallel
	}
	right = right.Normalize()
	up := right.Cross(fwd).Normalize()

	fwd, right, up = tiltCamera(fwd, right, up, 90)

	if yawDeg != 0 {
		fwd, right, up = yawCamera(fwd, right, up, yawDeg)
	}

	fwd, right, up = tiltCamera(fwd, right, up, -90)

	if tiltDeg != 0 {
		fwd, right, up = tiltCamera(fwd, right, up, tiltDeg)
	}
	return Camera{
		FOVDeg:     fovDeg,
		TanHalfFOV: tanHalf,
		Near:       DefaultNear,
		Position:   pos,
		Forward:    fwd,
		Right:      right,
		Up:         up,
	}
}

// NearHalfExtent returns half the width of the view frustum at the near
// clipping distance. Frames are square, so this is also half the height.
func (c Camera) NearHalfExtent() float64 {
	return c.Near * c.TanHalfFOV
}

// rotateVec applies Rodrigues’ rotation formula: rotate v around axis by (cosT, sinT).
func rotateVec(v, axis vectors.Vec3, cosT, sinT float64) vectors.Vec3 {
	// v*cos + (axis x v)*sin + axis*(axis·v)*(1-cos)
	return v.Scale(cosT).
		Add(axis.Cross(v).Scale(sinT)).
		Add(axis.Scale(axis.Dot(v) * (1.0 - cosT)))
}

// tiltCamera rotates forward/up around the Right axis by tiltDeg.
func tiltCamera(fwd, right, up vectors.Vec3, tiltDeg float64) (vectors.Vec3, vectors.Vec3, vectors.Vec3) {
	theta := tiltDeg * math.Pi / 180.0
	c, s := math.Cos(theta), math.Sin(theta)

	fwdNew := rotateVec(fwd, right, c, s).Normalize()
	upNew := rotateVec(up, right, c, s).Normalize()
	return fwdNew, right, upNew
}

// yawCamera rotates forward/right around the Up axis by yawDeg.
// This is a left-right (horizontal) camera pan.
func yawCamera(fwd, right, up vectors.Vec3, yawDeg float64) (vectors.Vec3, vectors.Vec3, vectors.Vec3) {
	theta := yawDeg * math.Pi / 180.0
	c, s := math.Cos(theta), math.Sin(theta)

	fwdNew := rotateVec(fwd, up, c, s).Normalize()
	rightNew := rotateVec(right, up, c, s).Normalize()
	return fwdNew, rightNew, up
}

// ComputeRay returns the normalized viewing direction for pixel (i,j)
// given the image dimensions (width,height). i,j can be fractional (for supersampling).
func (c Camera) ComputeRay(i, j float64, width, height int) vectors.Vec3 {
	w := float64(width)
	h := float64(height)

	// NDC in [-1, +1] (centered), flip Y to make +up in screen space.
	xNDC := (i - (w-1)/2.0) / ((w - 1) / 2.0)
	yNDC := -((j - (h-1)/2.0) / ((h - 1) / 2.0))

	xPlane := xNDC * c.TanHalfFOV
	yPlane := yNDC * c.TanHalfFOV
	zPlane := 1.0

	dir := c.Right.Scale(xPlane).
		Add(c.Up.Scale(yPlane)).
		Add(c.Forward.Scale(zPlane))

	return dir.Normalize()
}

// Project maps the world-space point p to fractional pixel coordinates,
// inverting ComputeRay. ok is false when p is behind the camera.
func (c Camera) Project(p vectors.Vec3, width, height int) (i, j float64, ok bool) {
	v := p.Sub(c.Position)
	depth := v.Dot(c.Forward)
	if depth <= 0 {
		return 0, 0, false
	}

	xNDC := v.Dot(c.Right) / depth / c.TanHalfFOV
	yNDC := v.Dot(c.Up) / depth / c.TanHalfFOV

	w := float64(width)
	h := float64(height)
	i = xNDC*((w-1)/2.0) + (w-1)/2.0
	j = (h-1)/2.0 - yNDC*((h-1)/2.0)
	return i, j, true
}

// EyeToWorld rotates a camera-relative direction into the world frame,
// using the same eye-space convention as ComputeRay: +X right, +Y up,
// +Z forward. Some upstreams report the moon direction in eye space; this
// is the inverse-view rotation they need.
func (c Camera) EyeToWorld(d vectors.Vec3) vectors.Vec3 {
	return c.Right.Scale(d.X).
		Add(c.Up.Scale(d.Y)).
		Add(c.Forward.Scale(d.Z))
}

package earth

import "github.com/echoflaresat/skycompass/vectors"

// ENUFrame is an orthonormal East-North-Up basis anchored at a point on the
// Earth surface. Up follows the true vertical at the anchor, independent of
// any camera tilt.
type ENUFrame struct {
	Origin vectors.Vec3
	East   vectors.Vec3
	North  vectors.Vec3
	Up     vectors.Vec3
}

// ENUFrameAt builds the East-North-Up frame at the surface point beneath p.
// Behavior at the poles is undefined (East degenerates there).
func ENUFrameAt(p vectors.Vec3) ENUFrame {
	origin := GroundBelow(p)
	up := origin.Normalize()
	east := vectors.Vec3{Z: 1}.Cross(up).Normalize()
	north := up.Cross(east)
	return ENUFrame{Origin: origin, East: east, North: north, Up: up}
}

// WorldToLocal expresses the world-frame direction d in ENU coordinates.
// The basis is orthonormal, so the inverse rotation is the transpose,
// i.e. a dot product against each axis.
func (f ENUFrame) WorldToLocal(d vectors.Vec3) vectors.Vec3 {
	return vectors.Vec3{
		X: d.Dot(f.East),
		Y: d.Dot(f.North),
		Z: d.Dot(f.Up),
	}
}

// LocalToWorld expresses the ENU-coordinate direction d in the world frame.
func (f ENUFrame) LocalToWorld(d vectors.Vec3) vectors.Vec3 {
	return f.East.Scale(d.X).
		Add(f.North.Scale(d.Y)).
		Add(f.Up.Scale(d.Z))
}

package earth

import "github.com/echoflaresat/skycompass/vectors"

const Radius = 6371.0 // Earth radius in km (spherical approximation)

// GroundBelow returns the point on the Earth surface directly beneath p:
// same longitude/latitude, zero elevation.
func GroundBelow(p vectors.Vec3) vectors.Vec3 {
	return p.Normalize().Scale(Radius)
}

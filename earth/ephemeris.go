package earth

import (
	"time"

	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"

	"github.com/echoflaresat/skycompass/vectors"
)

// SunDirectionECEF returns the unit direction from the Earth center toward
// the Sun, in Earth-centered Earth-fixed coordinates.
func SunDirectionECEF(t time.Time) vectors.Vec3 {
	jd := julian.TimeToJD(t.UTC())

	// Apparent RA/Dec of the Sun (in radians)
	ra, dec := solar.ApparentEquatorial(jd)

	return equatorialToECEF(ra, dec, jd)
}

// MoonDirectionECEF returns the unit direction from the Earth center toward
// the Moon, in Earth-centered Earth-fixed coordinates.
func MoonDirectionECEF(t time.Time) vectors.Vec3 {
	jd := julian.TimeToJD(t.UTC())

	// Geocentric ecliptic position of the Moon; distance is irrelevant
	// for a direction.
	lambda, beta, _ := moonposition.Position(jd)

	// Ecliptic -> equatorial using the mean obliquity of the ecliptic.
	eps := nutation.MeanObliquity(jd)
	ra, dec := coord.EclToEq(lambda, beta, eps.Sin(), eps.Cos())

	return equatorialToECEF(ra, dec, jd)
}

// equatorialToECEF converts apparent RA/Dec to a unit ECEF vector by
// rotating the ECI direction through Greenwich apparent sidereal time.
func equatorialToECEF(ra unit.RA, dec unit.Angle, jd float64) vectors.Vec3 {
	// Unit vector in ECI (Earth-centered inertial)
	x := dec.Cos() * ra.Cos()
	y := dec.Cos() * ra.Sin()
	z := dec.Sin()

	// Rotate ECI -> ECEF using GMST
	gmst := sidereal.Apparent0UT(jd)
	cosGMST := gmst.Angle().Cos()
	sinGMST := gmst.Angle().Sin()

	return vectors.Vec3{
		X: x*cosGMST + y*sinGMST,
		Y: -x*sinGMST + y*cosGMST,
		Z: z,
	}
}

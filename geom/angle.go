// Package geom holds the geometric core: angle conversions, triangle
// meshes, and the resolver that turns a building element's mesh into an
// outward facing normal.
//
// The coordinate system is the model's world system:
//
//	Z/up
//	|  Y
//	| /
//	|/____ X
//
// Lengths are in meters.
package geom

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	rad2deg = 180 / math.Pi
	deg2rad = math.Pi / 180

	// minProjection is the smallest horizontal projection of a normal
	// for which a bearing is meaningful.
	minProjection = 1e-6
)

var (
	ErrNoMesh               = errors.New("no mesh")
	ErrInvalidMesh          = errors.New("triangle index out of range")
	ErrNoFacadeFaces        = errors.New("no face survives the facade filter")
	ErrNonFinite            = errors.New("non-finite geometry")
	ErrDegenerateProjection = errors.New("horizontal projection of normal is degenerate")
)

// DecimalFromSexagesimal converts an angle given as degrees, minutes,
// seconds, and optionally millionths of a second to decimal degrees.
// This is how IFC records RefLatitude and RefLongitude. The result is
// negative if any of degrees, minutes, or seconds is negative.
//
// It returns false if fewer than three components are given or any
// component is not finite.
func DecimalFromSexagesimal(parts []float64) (float64, bool) {
	if len(parts) < 3 {
		return 0, false
	}
	for _, p := range parts {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return 0, false
		}
	}
	d, m, s := parts[0], parts[1], parts[2]
	var us float64
	if len(parts) > 3 {
		us = parts[3]
	}
	sign := 1.0
	if d < 0 || m < 0 || s < 0 {
		sign = -1
	}
	return sign * (math.Abs(d) + math.Abs(m)/60 + (math.Abs(s)+math.Abs(us)/1e6)/3600), true
}

// BearingOfVector returns the Cartesian angle of v in degrees,
// counter-clockwise from +X. This is not relative to north.
func BearingOfVector(v r2.Vec) float64 {
	return math.Atan2(v.Y, v.X) * rad2deg
}

// SignedAngleToNorth returns the clockwise angle in degrees, in [0, 360),
// from the reference vector north to v. Both are normalized first.
//
// Note the argument order to atan2 is (x, y), unlike BearingOfVector.
func SignedAngleToNorth(v, north r2.Vec) (float64, error) {
	if r2.Norm(v) < minProjection {
		return 0, ErrDegenerateProjection
	}
	if r2.Norm(north) < minProjection {
		return 0, ErrNonFinite
	}
	u, n := r2.Unit(v), r2.Unit(north)
	a := (math.Atan2(u.X, u.Y) - math.Atan2(n.X, n.Y)) * rad2deg
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return 0, ErrNonFinite
	}
	return wrap360(a), nil
}

// Azimuth returns the compass azimuth of normal's horizontal
// projection: 0 is north, 90 is east. east is the plan direction of
// compass east. The geometric angle from it is offset by 90° here and
// nowhere else.
func Azimuth(normal r3.Vec, east r2.Vec) (float64, error) {
	a, err := SignedAngleToNorth(r2.Vec{X: normal.X, Y: normal.Y}, east)
	if err != nil {
		return 0, err
	}
	return wrap360(a + 90), nil
}

// PitchFromNormal returns the tilt in degrees of the plane with the given
// normal: 0 for a horizontal plane, 90 for a vertical one. The result is
// 90° minus the elevation of the normal above the horizontal plane.
func PitchFromNormal(normal r3.Vec) (float64, error) {
	l := r3.Norm(normal)
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return 0, ErrNonFinite
	}
	cos := math.Max(math.Min(math.Abs(normal.Z)/l, 1), -1)
	return 90 - math.Asin(cos)*rad2deg, nil
}

// wrap360 reduces a to [0, 360).
func wrap360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		// -tiny + 360 rounds to 360.
		a = 0
	}
	return a
}

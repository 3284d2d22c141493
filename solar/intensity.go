package solar

import "math"

// DirectIntensity computes the direct radiation of the sun at the given
// altitude on a plane perpendicular to the sun, in W/m². Elevation is
// the observer's height above sea level in meters.
func DirectIntensity(altitude, elevation float64) (wattsPerSquareMeter float64) {
	// This is based on https://www.pveducation.org/pvcdrom/properties-of-sunlight/air-mass
	if altitude < 0 {
		return 0
	}

	// Compute air mass. This is a unitless number that is between 1 if
	// the sun is directly overhead (minimal air mass) and ~38 if the
	// sun is at the horizon. The core of this formula is simply the
	// 1/cos(Θ); the rest of the terms account for the curvature of the
	// Earth.
	//
	// From Kasten, F. and Young, A. T., “Revised optical air mass
	// tables and approximation formula”, Applied Optics, vol. 28, pp.
	// 4735–4738, 1989.
	zenithAngle := 90 - altitude // 0 is overhead
	airMass := 1 / (math.Cos(zenithAngle*deg2rad) + (0.50572 * math.Pow((96.07995-zenithAngle), -1.6364)))

	// Compute direct component of sunlight, accounting for elevation.
	// From Meinel, A. B. and Meinel, M. P., Applied Solar Energy.
	// Addison Wesley Publishing Co., 1976.
	h := elevation / 1000 // To kilometers
	a := 0.14
	return 1353 * ((1-a*h)*math.Pow(0.7, math.Pow(airMass, 0.678)) + a*h)
}

// GlobalIntensity computes the total global radiation of the sun (aka
// solar flux, aka insolation) at the given altitude on a plane
// perpendicular to the sun, in W/m². light is the fraction of direct
// radiation that isn't shaded.
func GlobalIntensity(altitude, light, elevation float64) float64 {
	// Diffuse radiation is ~10% of direct radiation.
	return (diffuseFraction + light) * DirectIntensity(altitude, elevation)
}

const diffuseFraction = 0.1

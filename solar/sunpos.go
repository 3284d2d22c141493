package solar

import (
	"math"
	"time"

	"github.com/sixdouglas/suncalc"
)

// A Position is the apparent position of the sun in horizontal
// coordinates, in degrees.
type Position struct {
	// Elevation is the apparent altitude above the horizon, corrected
	// for refraction. This ranges from -90 to 90.
	Elevation float64

	// Zenith is 90 - Elevation.
	Zenith float64

	// Azimuth ranges from 0 to 360, where 0 is north and 90 is east.
	Azimuth float64
}

// Up reports whether the sun is above the horizon.
func (p Position) Up() bool {
	return p.Zenith < 90
}

// SunPosition returns the apparent sun position at time t and the given
// location. Latitude and longitude are in degrees, where north and east
// are positive, respectively. Temperature (°C) and pressure (Pa) are
// used to correct for atmospheric refraction.
func SunPosition(t time.Time, latitude, longitude, tempC, pressurePa float64) Position {
	p := suncalc.GetPosition(t, latitude, longitude)
	// suncalc returns angles in radians (even though it takes latitude
	// and longitude in degrees). Also, it uses a non-standard
	// convention for azimuth where -90 is east, 0 is south, 90 is west,
	// and 180 is north.
	e := p.Altitude * rad2deg
	e += refraction(e, tempC, pressurePa)
	az := math.Mod(p.Azimuth*rad2deg+180, 360)
	if az < 0 {
		az += 360
	}
	return Position{Elevation: e, Zenith: 90 - e, Azimuth: az}
}

// refraction returns the atmospheric refraction correction to a true
// elevation e, in degrees. This is the correction used by NREL's Solar
// Position Algorithm.
func refraction(e, tempC, pressurePa float64) float64 {
	if e <= -0.8333 {
		return 0
	}
	p := pressurePa / 100 // hPa
	return (p / 1010) * (283 / (273 + tempC)) * 1.02 / (60 * math.Tan((e+10.3/(e+5.11))*deg2rad))
}

// PressureAtAltitude returns the standard atmospheric pressure in Pa at
// an altitude in meters.
func PressureAtAltitude(altitude float64) float64 {
	return StandardPressure * math.Pow(1-2.25577e-5*altitude, 5.25588)
}

// SunPositions returns the apparent sun position at each time in s.
// Missing or non-positive pressures are replaced by the standard
// pressure at altitude (m).
func SunPositions(s *HourlySeries, latitude, longitude, altitude float64) []Position {
	out := make([]Position, s.Len())
	for i, t := range s.Times {
		temp, pressure := StandardTemperature, PressureAtAltitude(altitude)
		if i < len(s.TempAir) && !math.IsNaN(s.TempAir[i]) {
			temp = s.TempAir[i]
		}
		if i < len(s.Pressure) && s.Pressure[i] > 0 {
			pressure = s.Pressure[i]
		}
		out[i] = SunPosition(t, latitude, longitude, temp, pressure)
	}
	return out
}

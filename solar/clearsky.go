package solar

import (
	"context"
	"math"
	"time"
)

// ClearSky synthesizes a cloudless year of hourly weather from the
// air-mass model in DirectIntensity. It never fails and needs no
// network access.
type ClearSky struct {
	// Year is the calendar year to generate. 0 means 2019.
	Year int
	// Elevation is the site's height above sea level in meters.
	Elevation float64
}

func (c ClearSky) TMY(ctx context.Context, latitude, longitude float64) (*HourlySeries, error) {
	year := c.Year
	if year == 0 {
		year = 2019
	}
	pressure := PressureAtAltitude(c.Elevation)
	s := new(HourlySeries)
	for t := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC); t.Year() == year; t = t.Add(time.Hour) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sun := SunPosition(t, latitude, longitude, StandardTemperature, pressure)
		var dni, dhi, ghi float64
		if sun.Up() {
			dni = DirectIntensity(sun.Elevation, c.Elevation)
			// With no direct light, GlobalIntensity is the diffuse part.
			dhi = GlobalIntensity(sun.Elevation, 0, c.Elevation)
			ghi = dni*math.Cos(sun.Zenith*deg2rad) + dhi
		}
		s.Times = append(s.Times, t)
		s.DNI = append(s.DNI, dni)
		s.GHI = append(s.GHI, ghi)
		s.DHI = append(s.DHI, dhi)
		s.TempAir = append(s.TempAir, StandardTemperature)
		s.Pressure = append(s.Pressure, pressure)
	}
	return s, nil
}

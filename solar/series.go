// Package solar computes where the sun is and how much of it reaches a
// tilted surface, given hourly weather for a site.
package solar

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	rad2deg = 180 / math.Pi
	deg2rad = math.Pi / 180

	// StandardPressure is sea-level air pressure in Pa.
	StandardPressure = 101325.0
	// StandardTemperature is the air temperature assumed when a series
	// doesn't have one, in °C.
	StandardTemperature = 12.0
)

var ErrSeriesLength = errors.New("series columns have different lengths")

// HourlySeries is one representative year of hourly weather. All
// columns have one entry per element of Times.
type HourlySeries struct {
	Times []time.Time

	DNI []float64 // Direct normal irradiance, W/m²
	GHI []float64 // Global horizontal irradiance, W/m²
	DHI []float64 // Diffuse horizontal irradiance, W/m²

	TempAir  []float64 // °C
	Pressure []float64 // Pa
}

func (s *HourlySeries) Len() int {
	return len(s.Times)
}

// Check returns an error if s's columns are not all the same length.
func (s *HourlySeries) Check() error {
	n := len(s.Times)
	for name, col := range map[string][]float64{
		"DNI": s.DNI, "GHI": s.GHI, "DHI": s.DHI,
		"TempAir": s.TempAir, "Pressure": s.Pressure,
	} {
		if len(col) != n {
			return fmt.Errorf("%w: %s has %d rows, want %d", ErrSeriesLength, name, len(col), n)
		}
	}
	return nil
}

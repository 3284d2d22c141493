package solar

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPOA(t *testing.T) {
	const dni, ghi, dhi, albedo = 800.0, 500.0, 100.0, 0.2
	low := Position{Elevation: 30, Zenith: 60, Azimuth: 180}

	for _, tc := range []struct {
		name  string
		plane Plane
		sun   Position
		dni   float64
		want  Irradiance
	}{
		{"horizontal", Plane{Tilt: 0, Azimuth: 0}, low, dni,
			Irradiance{Direct: 400, Diffuse: 100, Ground: 0}},
		{"vertical facing sun", Plane{Tilt: 90, Azimuth: 180}, low, dni,
			Irradiance{Direct: 800 * math.Sqrt(3) / 2, Diffuse: 50, Ground: 50}},
		{"vertical facing away", Plane{Tilt: 90, Azimuth: 0}, low, dni,
			Irradiance{Direct: 0, Diffuse: 50, Ground: 50}},
		{"negative dni", Plane{Tilt: 0, Azimuth: 0}, low, -5,
			Irradiance{Direct: 0, Diffuse: 100, Ground: 0}},
		{"sun down", Plane{Tilt: 90, Azimuth: 180}, Position{Elevation: -5, Zenith: 95, Azimuth: 180}, dni,
			Irradiance{Direct: 0, Diffuse: 50, Ground: 50}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.plane.POA(tc.sun, tc.dni, ghi, dhi, albedo)
			assert.InDelta(t, tc.want.Direct, got.Direct, 1e-9)
			assert.InDelta(t, tc.want.Diffuse, got.Diffuse, 1e-9)
			assert.InDelta(t, tc.want.Ground, got.Ground, 1e-9)
			assert.InDelta(t, tc.want.Direct+tc.want.Diffuse+tc.want.Ground, got.Total(), 1e-9)
		})
	}
}

func TestPOANeverNegative(t *testing.T) {
	for az := 0.0; az < 360; az += 30 {
		for tilt := 0.0; tilt <= 90; tilt += 15 {
			for _, sun := range []Position{{10, 80, 90}, {60, 30, 200}, {-10, 100, 0}} {
				got := Plane{tilt, az}.POA(sun, 900, -20, -1, 0.3)
				assert.GreaterOrEqual(t, got.Total(), 0.0, "tilt %v az %v sun %v", tilt, az, sun)
			}
		}
	}
}

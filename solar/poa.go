package solar

import "math"

// A Plane is a tilted surface. Tilt is degrees from horizontal and
// Azimuth is the compass bearing of its outward normal.
type Plane struct {
	Tilt, Azimuth float64
}

// Irradiance is plane-of-array irradiance split into components, in
// W/m².
type Irradiance struct {
	Direct  float64
	Diffuse float64
	Ground  float64
}

func (i Irradiance) Total() float64 {
	return i.Direct + i.Diffuse + i.Ground
}

// CosAOI returns the cosine of the angle of incidence of sunlight at
// sun on p. It is negative when the sun is behind the plane.
func (p Plane) CosAOI(sun Position) float64 {
	zen, tilt := sun.Zenith*deg2rad, p.Tilt*deg2rad
	return math.Cos(zen)*math.Cos(tilt) +
		math.Sin(zen)*math.Sin(tilt)*math.Cos((sun.Azimuth-p.Azimuth)*deg2rad)
}

// POA returns the irradiance on p using an isotropic sky model.
// Negative irradiance inputs are treated as zero. albedo is the ground
// reflectance.
func (p Plane) POA(sun Position, dni, ghi, dhi, albedo float64) Irradiance {
	dni, ghi, dhi = math.Max(dni, 0), math.Max(ghi, 0), math.Max(dhi, 0)
	cosTilt := math.Cos(p.Tilt * deg2rad)
	var out Irradiance
	if sun.Up() {
		out.Direct = dni * math.Max(p.CosAOI(sun), 0)
	}
	out.Diffuse = dhi * (1 + cosTilt) / 2
	out.Ground = ghi * albedo * (1 - cosTilt) / 2
	return out
}

package solar

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/aclements/bipv/geom"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// surfaceOffset lifts shading rays off the surface they start on, in m.
const surfaceOffset = 0.01

// A ShadeModel computes how much direct sunlight reaches a point on a
// building's envelope.
//
// Meshes are in model coordinates: Z is up, and compass north and east
// are given in plan by the north and east vectors.
type ShadeModel struct {
	north, east r2.Vec
	southern    bool

	layers []*shadeLayer
}

// NewShadeModel returns a shade model with no layers. north and east
// are the model plan directions of compass north and east. latitude
// selects the hemisphere for foliage seasons.
func NewShadeModel(north, east r2.Vec, latitude float64) *ShadeModel {
	return &ShadeModel{
		north:    r2.Unit(north),
		east:     r2.Unit(east),
		southern: latitude < 0,
	}
}

type shadeLayer struct {
	mesh    *geom.Mesh
	foliage bool

	// transmissivity returns the transmissivity of this layer on the
	// given date in a range of 0 to 1. For a fully opaque layer, this
	// returns 0. For foliage, this varies over the year.
	transmissivity func(date time.Time) float64
}

func opaque(time.Time) float64 { return 0 }

// AddBuildings adds an opaque layer.
func (m *ShadeModel) AddBuildings(mesh *geom.Mesh) {
	if mesh.Empty() {
		return
	}
	m.layers = append(m.layers, &shadeLayer{mesh: mesh, transmissivity: opaque})
}

// AddFoliage adds a layer of deciduous trees.
func (m *ShadeModel) AddFoliage(mesh *geom.Mesh) {
	if mesh.Empty() {
		return
	}
	m.layers = append(m.layers, &shadeLayer{mesh: mesh, foliage: true, transmissivity: m.foliageTransmissivity})
}

func (m *ShadeModel) foliageTransmissivity(date time.Time) float64 {
	// Based on Transmissivity of solar radiation through crowns of
	// single urban trees—application for outdoor thermal comfort
	// modelling. Konarska, et al.
	//
	// Foliated and defoliated trees have ~5% and ~50%
	// transmissivity, respectively. Use the meteorological seasons
	// to interpolate between these. This assumes mid-latitudes.
	day := date.YearDay()
	if m.southern {
		day = (day+182-1)%365 + 1
	}
	const (
		// Assume a normal year. This is all approximate anyway.
		Feb28 = 59
		May31 = 151
		Aug31 = 243
		Nov30 = 334
	)
	switch {
	default: // Winter
		fallthrough
	case day <= Feb28: // Winter
		return 0.5
	case day <= May31: // Spring
		return 0.5 + float64(day-Feb28)/(May31-Feb28)*(0.05-0.5)
	case day <= Aug31: // Summer
		return 0.05
	case day <= Nov30: // Fall
		return 0.05 + float64(day-Aug31)/(Nov30-Aug31)*(0.5-0.05)
	}
}

// AddBuildingsSTL adds an opaque layer from an STL file.
func (m *ShadeModel) AddBuildingsSTL(path string, scale float64) error {
	mesh, err := readSTL(path, scale)
	if err != nil {
		return err
	}
	m.AddBuildings(mesh)
	return nil
}

// AddFoliageSTL adds a foliage layer from an STL file.
func (m *ShadeModel) AddFoliageSTL(path string, scale float64) error {
	mesh, err := readSTL(path, scale)
	if err != nil {
		return err
	}
	m.AddFoliage(mesh)
	return nil
}

func readSTL(path string, scale float64) (*geom.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	mesh, err := geom.ReadSTL(f, scale)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mesh, nil
}

// Layers returns the number of layers in m.
func (m *ShadeModel) Layers() int {
	return len(m.layers)
}

// SunRay returns the ray from origin toward the sun.
func (m *ShadeModel) SunRay(origin r3.Vec, sun Position) geom.Ray {
	sinAl, cosAl := math.Sincos(sun.Elevation * deg2rad)
	sinAz, cosAz := math.Sincos(sun.Azimuth * deg2rad)
	h := r2.Add(r2.Scale(cosAz, m.north), r2.Scale(sinAz, m.east))
	return geom.Ray{
		Origin: origin,
		Dir:    r3.Unit(r3.Vec{X: h.X * cosAl, Y: h.Y * cosAl, Z: sinAl}),
	}
}

// Exposure is the fraction of direct sunlight reaching a point.
type Exposure struct {
	Light   float64 // Multiplier of direct illumination, between 0 and 1
	Foliage bool    // This is blocked solely by foliage
}

// Exposure returns the direct sunlight exposure at time t of the point
// origin on a surface with outward normal.
func (m *ShadeModel) Exposure(origin, normal r3.Vec, sun Position, t time.Time) Exposure {
	if !sun.Up() {
		return Exposure{Light: 0}
	}
	ray := m.SunRay(r3.Add(origin, r3.Scale(surfaceOffset, r3.Unit(normal))), sun)
	if r3.Dot(ray.Dir, normal) <= 0 {
		// The surface faces away from the sun, so it shades itself.
		return Exposure{Light: 0}
	}
	light := 1.0
	building, foliage := false, false
	for _, l := range m.layers {
		if !ray.Hits(l.mesh) {
			continue
		}
		if l.foliage {
			foliage = true
		} else {
			building = true
		}
		light *= l.transmissivity(t)
		if light == 0 {
			break
		}
	}
	return Exposure{Light: light, Foliage: foliage && !building}
}

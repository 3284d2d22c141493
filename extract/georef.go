package extract

import (
	"github.com/aclements/bipv/bim"
	"github.com/aclements/bipv/geom"
	"gonum.org/v1/gonum/spatial/r2"
)

// NorthSource records which part of the model supplied the north
// reference.
type NorthSource string

const (
	NorthFromMapConversion NorthSource = "map-conversion"
	NorthFromContext       NorthSource = "context-true-north"
	NorthDefault           NorthSource = "default"
)

// GeoReference is a model's geographic referencing.
type GeoReference struct {
	// Latitude and Longitude are decimal degrees, or nil if the site
	// doesn't record them.
	Latitude, Longitude *float64

	// TrueNorth is the declared north reference in model plan
	// coordinates: the map conversion's X axis (grid east) for
	// NorthFromMapConversion, otherwise the direction of north.
	TrueNorth r2.Vec
	// TrueNorthBearing is the angle of TrueNorth in degrees,
	// counter-clockwise from model +X.
	TrueNorthBearing float64
	TrueNorthSource  NorthSource

	// East is the plan direction of compass east. Azimuths are
	// measured from it with geom.Azimuth.
	East r2.Vec

	Issues []string
}

// DefaultNorth is used when the model has no north reference.
var DefaultNorth = r2.Vec{X: 0, Y: 1}

// GeoReferenceOf reads the geographic referencing of g. The map
// conversion's X axis takes precedence over the context's true north.
func GeoReferenceOf(g bim.Graph) GeoReference {
	d := g.Geodetic()
	var ref GeoReference

	if lat, ok := geom.DecimalFromSexagesimal(d.RefLatitude); ok {
		ref.Latitude = &lat
	} else {
		ref.Issues = append(ref.Issues, "site has no usable RefLatitude")
	}
	if lon, ok := geom.DecimalFromSexagesimal(d.RefLongitude); ok {
		ref.Longitude = &lon
	} else {
		ref.Issues = append(ref.Issues, "site has no usable RefLongitude")
	}

	switch {
	case usableNorth(d.MapXAxis):
		ref.TrueNorth, ref.TrueNorthSource = *d.MapXAxis, NorthFromMapConversion
		ref.East = *d.MapXAxis
	case usableNorth(d.TrueNorth):
		ref.TrueNorth, ref.TrueNorthSource = *d.TrueNorth, NorthFromContext
		ref.East = eastOf(*d.TrueNorth)
	default:
		ref.TrueNorth, ref.TrueNorthSource = DefaultNorth, NorthDefault
		ref.East = eastOf(DefaultNorth)
		ref.Issues = append(ref.Issues, "model has no north reference; using model +Y")
	}
	ref.TrueNorthBearing = geom.BearingOfVector(ref.TrueNorth)
	return ref
}

func usableNorth(v *r2.Vec) bool {
	return v != nil && r2.Norm(*v) > 1e-9
}

// eastOf turns a north direction 90 degrees clockwise.
func eastOf(north r2.Vec) r2.Vec {
	return r2.Vec{X: north.Y, Y: -north.X}
}

// CompassFrame returns the unit model plan directions of compass north
// and east. These are the directions whose azimuths are 0 and 90.
func (g *GeoReference) CompassFrame() (north, east r2.Vec) {
	east = g.East
	if !usableNorth(&east) {
		east = eastOf(DefaultNorth)
	}
	east = r2.Unit(east)
	north = r2.Vec{X: -east.Y, Y: east.X}
	return north, east
}

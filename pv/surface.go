// Package pv estimates the annual photovoltaic yield of building
// envelope surfaces.
package pv

import (
	"github.com/aclements/bipv/extract"
	"gonum.org/v1/gonum/spatial/r3"
)

// A Surface is one candidate PV surface. Nil fields are unknown.
type Surface struct {
	ID   string
	Name string
	Kind extract.Kind

	Area    *float64 // m²
	Tilt    *float64 // degrees from horizontal
	Azimuth *float64 // compass degrees of the outward normal

	// Origin and Normal locate the surface in model coordinates for
	// shading. Surfaces without them are never shaded.
	Origin, Normal *r3.Vec
}

// verticalTilt is the tilt of walls and windows.
const verticalTilt = 90.0

// SurfacesFromElements converts extracted elements to PV surfaces.
// Walls use their net area, windows their window area, and roofs their
// gross area. Walls and windows are vertical.
func SurfacesFromElements(elems []extract.Element) []Surface {
	out := make([]Surface, len(elems))
	for i, e := range elems {
		s := Surface{
			ID:      string(e.ID),
			Name:    e.Name,
			Kind:    e.Kind,
			Azimuth: e.Azimuth,
			Tilt:    e.Tilt,
			Area:    e.GrossArea,
			Origin:  e.Origin,
			Normal:  e.Normal,
		}
		if e.Vertical() {
			tilt := verticalTilt
			s.Tilt = &tilt
		}
		if e.Kind == extract.KindWall {
			s.Area = e.NetArea
		}
		out[i] = s
	}
	return out
}

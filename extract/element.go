// Package extract pulls building envelope surfaces out of a model graph:
// external walls, windows, and roof slabs, each with its compass
// orientation and areas.
package extract

import (
	"fmt"

	"github.com/aclements/bipv/bim"
	"gonum.org/v1/gonum/spatial/r3"
)

type Kind string

const (
	KindWall   Kind = "wall"
	KindWindow Kind = "window"
	KindRoof   Kind = "roof"
)

// An Element is one envelope surface. Which fields are set depends on
// Kind. A nil field means the value is unknown; in particular a nil
// Azimuth is not north.
type Element struct {
	ID   bim.ID
	Name string
	Kind Kind

	// Azimuth is the compass bearing of the outward normal, in [0, 360).
	Azimuth *float64
	// Tilt is the angle from horizontal in degrees. Only roofs have a
	// tilt; walls and windows are vertical.
	Tilt *float64
	// PitchSource says where a roof's Tilt came from: "property" or
	// "geometry".
	PitchSource string

	Length, Width, Height *float64 // m

	GrossArea   *float64 // m²
	NetArea     *float64 // m², walls only
	OpeningArea *float64 // m², walls only

	// HostWall is the wall a window sits in, if found.
	HostWall bim.ID

	// Normal is the outward unit normal in model coordinates, and
	// Origin a point on the outward face. These are used for shading.
	Normal *r3.Vec
	Origin *r3.Vec

	// Issues explains any fields left unset.
	Issues []string
}

func (e *Element) issuef(format string, args ...any) {
	e.Issues = append(e.Issues, fmt.Sprintf(format, args...))
}

// Vertical reports whether e is a vertical surface.
func (e *Element) Vertical() bool {
	return e.Kind == KindWall || e.Kind == KindWindow
}

func ptr[T any](v T) *T {
	return &v
}

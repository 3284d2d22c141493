package extract

import (
	"context"

	"github.com/aclements/bipv/bim"
	"github.com/aclements/bipv/geom"
)

// HostWall returns the wall whose opening window fills.
func HostWall(g bim.Graph, window bim.ID) (bim.ID, bool) {
	for _, opening := range relating(g, window, bim.RelFillsElement) {
		for _, host := range relating(g, opening, bim.RelVoidsElement) {
			if inst, ok := g.Instance(host); ok && inst.Class.IsA(bim.ClassWall) {
				return host, true
			}
		}
	}
	return "", false
}

// Windows extracts all windows. A window faces the way its host wall
// faces.
func (x *Extractor) Windows(ctx context.Context) ([]Element, error) {
	return x.each(ctx, x.graph.InstancesOfType(bim.ClassWindow), x.window)
}

func (x *Extractor) window(inst bim.Instance) Element {
	e := Element{ID: inst.ID, Name: inst.Name, Kind: KindWindow}

	q := quantities(x.graph, inst.ID)
	e.GrossArea = q.number("Area")
	e.Width, e.Height = q.number("Width"), q.number("Height")
	if e.GrossArea == nil {
		e.issuef("missing Area quantity")
	}

	host, ok := HostWall(x.graph, inst.ID)
	if !ok {
		e.issuef("no host wall")
		return e
	}
	e.HostWall = host
	o, ok := x.orient(&e, host)
	if !ok {
		return e
	}

	// Shade from the wall's outer face, in front of the window.
	if m, err := x.graph.Mesh(inst.ID, bim.MeshSettings{WorldCoords: true}); err == nil {
		if c := m.Centroid(); geom.Finite(c) {
			e.Origin = ptr(offsetToPlane(c, o.FaceCentroid, o.Normal))
		}
	} else {
		e.issuef("window geometry: %v", err)
	}
	return e
}

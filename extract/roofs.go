package extract

import (
	"context"

	"github.com/aclements/bipv/bim"
	"github.com/aclements/bipv/geom"
)

const (
	PitchFromProperty = "property"
	PitchFromGeometry = "geometry"
)

// RoofSlabs returns the slabs of g whose predefined type is ROOF.
func RoofSlabs(g bim.Graph) []bim.Instance {
	var out []bim.Instance
	for _, inst := range g.InstancesOfType(bim.ClassSlab) {
		if inst.PredefinedType == "ROOF" {
			out = append(out, inst)
		}
	}
	return out
}

// Roofs extracts roof slabs. Orientation comes from the extrusion
// direction of the slab's solid; a PitchAngle property overrides the
// geometric pitch.
func (x *Extractor) Roofs(ctx context.Context) ([]Element, error) {
	return x.each(ctx, RoofSlabs(x.graph), x.roof)
}

func (x *Extractor) roof(inst bim.Instance) Element {
	e := Element{ID: inst.ID, Name: inst.Name, Kind: KindRoof}

	if dir, ok := x.graph.ExtrudedDirection(inst.ID); ok {
		if az, err := geom.Azimuth(dir, x.east); err == nil {
			e.Azimuth = &az
		} else {
			e.issuef("azimuth: %v", err)
		}
		if pitch, err := geom.PitchFromNormal(dir); err == nil {
			e.Tilt, e.PitchSource = &pitch, PitchFromGeometry
		} else {
			e.issuef("pitch: %v", err)
		}
	} else {
		e.issuef("no extruded solid in body representation")
	}

	if pitch := properties(x.graph, inst.ID, "").number("PitchAngle"); pitch != nil {
		e.Tilt, e.PitchSource = pitch, PitchFromProperty
	}

	e.GrossArea = quantities(x.graph, inst.ID).number("GrossArea")
	if e.GrossArea == nil {
		e.issuef("missing GrossArea quantity")
	}
	return e
}

package extract

import (
	"context"

	"github.com/aclements/bipv/bim"
)

// IsExternal reports whether a wall's Pset_WallCommon marks it as
// external.
func IsExternal(g bim.Graph, id bim.ID) bool {
	b, ok := bim.Bool(properties(g, id, "Pset_WallCommon")["IsExternal"])
	return ok && b
}

// ExternalWalls returns the external walls of g.
func ExternalWalls(g bim.Graph) []bim.Instance {
	var out []bim.Instance
	for _, inst := range g.InstancesOfType(bim.ClassWall) {
		if IsExternal(g, inst.ID) {
			out = append(out, inst)
		}
	}
	return out
}

// OpeningArea sums the Area quantities of the elements filling the
// openings of host.
func OpeningArea(g bim.Graph, host bim.ID) float64 {
	var total float64
	for _, opening := range related(g, host, bim.RelVoidsElement) {
		for _, filler := range related(g, opening, bim.RelFillsElement) {
			for _, def := range definitions(g, filler, bim.ElementQuantity) {
				for _, nv := range def.Values {
					if a, ok := nv.Value.(bim.AreaValue); ok && nv.Name == "Area" {
						total += float64(a)
					}
				}
			}
		}
	}
	return total
}

// Walls extracts the external walls.
func (x *Extractor) Walls(ctx context.Context) ([]Element, error) {
	return x.each(ctx, ExternalWalls(x.graph), x.wall)
}

func (x *Extractor) wall(inst bim.Instance) Element {
	e := Element{ID: inst.ID, Name: inst.Name, Kind: KindWall}

	q := quantities(x.graph, inst.ID)
	e.Length, e.Height = q.number("Length"), q.number("Height")
	opening := OpeningArea(x.graph, inst.ID)
	e.OpeningArea = &opening
	if e.Length != nil && e.Height != nil {
		gross := *e.Length * *e.Height
		e.GrossArea = &gross
		e.NetArea = ptr(gross - opening)
	} else {
		e.issuef("missing Length or Height quantity")
	}

	if o, ok := x.orient(&e, inst.ID); ok {
		e.Origin = ptr(o.FaceCentroid)
	}
	return e
}

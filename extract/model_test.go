package extract

import (
	"math"

	"github.com/aclements/bipv/bim"
	"github.com/aclements/bipv/geom"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// slab returns an axis-aligned box between lo and hi with outward
// winding. If open is set, the -Y face is left out so the +Y face
// dominates orientation.
func slab(lo, hi [3]float64, open bool) *geom.Mesh {
	x0, y0, z0 := lo[0], lo[1], lo[2]
	x1, y1, z1 := hi[0], hi[1], hi[2]
	m := new(geom.Mesh)
	quad := func(p0, p1, p2, p3 [3]float64) {
		base := len(m.Verts)
		m.Verts = append(m.Verts, p0, p1, p2, p3)
		m.Tris = append(m.Tris, [3]int{base, base + 1, base + 2}, [3]int{base, base + 2, base + 3})
	}
	quad([3]float64{x0, y1, z0}, [3]float64{x0, y1, z1}, [3]float64{x1, y1, z1}, [3]float64{x1, y1, z0})
	if !open {
		quad([3]float64{x0, y0, z0}, [3]float64{x1, y0, z0}, [3]float64{x1, y0, z1}, [3]float64{x0, y0, z1})
	}
	quad([3]float64{x1, y0, z0}, [3]float64{x1, y1, z0}, [3]float64{x1, y1, z1}, [3]float64{x1, y0, z1})
	quad([3]float64{x0, y0, z0}, [3]float64{x0, y0, z1}, [3]float64{x0, y1, z1}, [3]float64{x0, y1, z0})
	quad([3]float64{x0, y0, z1}, [3]float64{x1, y0, z1}, [3]float64{x1, y1, z1}, [3]float64{x0, y1, z1})
	quad([3]float64{x0, y0, z0}, [3]float64{x0, y1, z0}, [3]float64{x1, y1, z0}, [3]float64{x1, y0, z0})
	return m
}

func pset(id bim.ID, name string, values ...bim.NamedValue) bim.PropertyDefinition {
	return bim.PropertyDefinition{ID: id, Kind: bim.PropertySet, Name: name, Values: values}
}

func qset(id bim.ID, name string, values ...bim.NamedValue) bim.PropertyDefinition {
	return bim.PropertyDefinition{ID: id, Kind: bim.ElementQuantity, Name: name, Values: values}
}

func external(id bim.ID, isExternal bool) bim.PropertyDefinition {
	return pset(id, "Pset_WallCommon", bim.NamedValue{Name: "IsExternal", Value: bim.RawValue{V: isExternal}})
}

// testModel is a small building referenced to map east:
//
//   - wall-n: external 10 x 3 m wall facing north, with a 2 m² window
//   - wall-i: internal wall
//   - wall-x: external wall with no quantities or geometry
//   - win-1: the window in wall-n
//   - win-orphan: a window with no host
//   - roof-s: roof pitched 30 degrees to the south
//   - roof-p: flat roof with a PitchAngle property of 15
//   - floor: a floor slab
func testModel() *bim.MemGraph {
	g := bim.NewMemGraph()
	g.SetGeodetic(bim.GeodeticData{
		RefLatitude:  []float64{38, 43, 21},
		RefLongitude: []float64{-9, -8, -24},
		MapXAxis:     &r2.Vec{X: 1, Y: 0},
	})

	g.AddInstance(bim.Instance{ID: "wall-n", Class: "IfcWallStandardCase", Name: "North wall"})
	g.AddDefinition(external("pset-n", true), "wall-n")
	g.AddDefinition(qset("qto-n", "Qto_WallBaseQuantities",
		bim.NamedValue{Name: "Length", Value: bim.LengthValue(10)},
		bim.NamedValue{Name: "Height", Value: bim.LengthValue(3)}), "wall-n")
	g.SetMesh("wall-n", slab([3]float64{0, 0, 0}, [3]float64{10, 0.2, 3}, true), r3.Vec{})

	g.AddInstance(bim.Instance{ID: "op-1", Class: bim.ClassOpening})
	g.AddRelation(bim.Relation{Kind: bim.RelVoidsElement, Relating: "wall-n", Related: "op-1"})
	g.AddRelation(bim.Relation{Kind: bim.RelFillsElement, Relating: "op-1", Related: "win-1"})

	g.AddInstance(bim.Instance{ID: "win-1", Class: bim.ClassWindow, Name: "W1"})
	g.AddDefinition(qset("qto-w", "Qto_WindowBaseQuantities",
		bim.NamedValue{Name: "Area", Value: bim.AreaValue(2)},
		bim.NamedValue{Name: "Width", Value: bim.LengthValue(2)},
		bim.NamedValue{Name: "Height", Value: bim.LengthValue(1)}), "win-1")
	g.SetMesh("win-1", slab([3]float64{0, 0.05, 0}, [3]float64{2, 0.1, 1}, false), r3.Vec{X: 4, Y: 0, Z: 1})

	g.AddInstance(bim.Instance{ID: "win-orphan", Class: bim.ClassWindow})

	g.AddInstance(bim.Instance{ID: "wall-i", Class: bim.ClassWall})
	g.AddDefinition(external("pset-i", false), "wall-i")

	g.AddInstance(bim.Instance{ID: "wall-x", Class: bim.ClassWall})
	g.AddDefinition(external("pset-x", true), "wall-x")

	s, c := math.Sincos(30 * math.Pi / 180)
	g.AddInstance(bim.Instance{ID: "roof-s", Class: bim.ClassSlab, PredefinedType: "ROOF"})
	g.SetExtrudedDirection("roof-s", r3.Vec{X: 0, Y: -s, Z: c})
	g.AddDefinition(qset("qto-rs", "Qto_SlabBaseQuantities",
		bim.NamedValue{Name: "GrossArea", Value: bim.AreaValue(50)}), "roof-s")

	g.AddInstance(bim.Instance{ID: "roof-p", Class: bim.ClassSlab, PredefinedType: "ROOF"})
	g.SetExtrudedDirection("roof-p", r3.Vec{X: 0, Y: 0, Z: 1})
	g.AddDefinition(pset("pset-rp", "Pset_SlabCommon",
		bim.NamedValue{Name: "PitchAngle", Value: bim.RawValue{V: 15.0}}), "roof-p")
	g.AddDefinition(qset("qto-rp", "Qto_SlabBaseQuantities",
		bim.NamedValue{Name: "GrossArea", Value: bim.AreaValue(20)}), "roof-p")

	g.AddInstance(bim.Instance{ID: "floor", Class: bim.ClassSlab, PredefinedType: "FLOOR"})
	g.SetMesh("floor", slab([3]float64{0, -5, -0.3}, [3]float64{10, 0, 0}, false), r3.Vec{})
	return g
}

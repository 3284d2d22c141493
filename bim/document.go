package bim

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aclements/bipv/geom"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

// A Document is the YAML form of a building model graph, as written by
// an exporter.
type Document struct {
	Site struct {
		RefLatitude  []float64 `yaml:"ref_latitude"`
		RefLongitude []float64 `yaml:"ref_longitude"`
	} `yaml:"site"`
	MapConversion *struct {
		XAxisAbscissa float64 `yaml:"x_axis_abscissa"`
		XAxisOrdinate float64 `yaml:"x_axis_ordinate"`
	} `yaml:"map_conversion"`
	TrueNorth []float64 `yaml:"true_north"`

	Instances   []DocInstance   `yaml:"instances"`
	Definitions []DocDefinition `yaml:"definitions"`
	Relations   []DocRelation   `yaml:"relations"`
}

type DocInstance struct {
	ID                ID          `yaml:"id"`
	Class             Class       `yaml:"class"`
	Name              string      `yaml:"name"`
	PredefinedType    string      `yaml:"predefined_type"`
	Placement         [3]float64  `yaml:"placement"`
	Geometry          DocGeometry `yaml:"geometry"`
	ExtrudedDirection []float64   `yaml:"extruded_direction"`
}

// DocGeometry is either an inline triangle mesh or a binary STL file
// path relative to the document.
type DocGeometry struct {
	Vertices [][3]float64 `yaml:"vertices"`
	Faces    [][3]int     `yaml:"faces"`
	STL      string       `yaml:"stl"`
	STLScale float64      `yaml:"stl_scale"`
}

type DocDefinition struct {
	ID        ID         `yaml:"id"`
	Kind      string     `yaml:"kind"` // "property_set" or "element_quantity"
	Name      string     `yaml:"name"`
	Values    []DocValue `yaml:"values"`
	AppliesTo []ID       `yaml:"applies_to"`
}

type DocValue struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"` // length, area, volume, count, weight, or value
	Value any    `yaml:"value"`
}

type DocRelation struct {
	Kind     RelationKind `yaml:"kind"`
	Relating ID           `yaml:"relating"`
	Related  ID           `yaml:"related"`
}

// LoadDocument reads a YAML model document into a MemGraph. STL paths
// are resolved relative to the document's directory.
func LoadDocument(path string) (*MemGraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	g, err := ParseDocument(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

func ParseDocument(data []byte, baseDir string) (*MemGraph, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Graph(baseDir)
}

// Graph builds a MemGraph from d.
func (d *Document) Graph(baseDir string) (*MemGraph, error) {
	g := NewMemGraph()

	geo := GeodeticData{
		RefLatitude:  d.Site.RefLatitude,
		RefLongitude: d.Site.RefLongitude,
	}
	if mc := d.MapConversion; mc != nil {
		geo.MapXAxis = &r2.Vec{X: mc.XAxisAbscissa, Y: mc.XAxisOrdinate}
	}
	if len(d.TrueNorth) > 0 {
		if len(d.TrueNorth) < 2 {
			return nil, fmt.Errorf("true_north needs 2 direction ratios, got %d", len(d.TrueNorth))
		}
		geo.TrueNorth = &r2.Vec{X: d.TrueNorth[0], Y: d.TrueNorth[1]}
	}
	g.SetGeodetic(geo)

	for i, di := range d.Instances {
		if di.ID == "" {
			return nil, fmt.Errorf("instance %d has no id", i)
		}
		if _, dup := g.Instance(di.ID); dup {
			return nil, fmt.Errorf("duplicate instance id %s", di.ID)
		}
		g.AddInstance(Instance{ID: di.ID, Class: di.Class, Name: di.Name, PredefinedType: di.PredefinedType})

		placement := r3.Vec{X: di.Placement[0], Y: di.Placement[1], Z: di.Placement[2]}
		switch dg := di.Geometry; {
		case dg.STL != "":
			path := dg.STL
			if !filepath.IsAbs(path) {
				path = filepath.Join(baseDir, path)
			}
			scale := dg.STLScale
			if scale == 0 {
				scale = geom.Meters
			}
			g.SetSTL(di.ID, path, scale, placement)
		case len(dg.Faces) > 0:
			g.SetMesh(di.ID, &geom.Mesh{Verts: dg.Vertices, Tris: dg.Faces}, placement)
		}

		if ed := di.ExtrudedDirection; len(ed) > 0 {
			if len(ed) != 3 {
				return nil, fmt.Errorf("instance %s: extruded_direction needs 3 ratios, got %d", di.ID, len(ed))
			}
			g.SetExtrudedDirection(di.ID, r3.Vec{X: ed[0], Y: ed[1], Z: ed[2]})
		}
	}

	for _, dd := range d.Definitions {
		def := PropertyDefinition{ID: dd.ID, Name: dd.Name}
		switch dd.Kind {
		case "property_set":
			def.Kind = PropertySet
		case "element_quantity":
			def.Kind = ElementQuantity
		default:
			return nil, fmt.Errorf("definition %s: unknown kind %q", dd.ID, dd.Kind)
		}
		for _, dv := range dd.Values {
			def.Values = append(def.Values, NamedValue{Name: dv.Name, Value: dv.value()})
		}
		g.AddDefinition(def, dd.AppliesTo...)
	}

	for _, r := range d.Relations {
		g.AddRelation(Relation{Kind: r.Kind, Relating: r.Relating, Related: r.Related})
	}
	return g, nil
}

func (dv DocValue) value() Value {
	raw := RawValue{dv.Value}
	if dv.Type == "" || dv.Type == "value" {
		return raw
	}
	x, ok := Number(raw)
	if !ok {
		return OpaqueValue{Type: dv.Type, V: dv.Value}
	}
	switch dv.Type {
	case "length":
		return LengthValue(x)
	case "area":
		return AreaValue(x)
	case "volume":
		return VolumeValue(x)
	case "count":
		return CountValue(x)
	case "weight":
		return WeightValue(x)
	}
	return OpaqueValue{Type: dv.Type, V: dv.Value}
}

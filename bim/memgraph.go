package bim

import (
	"fmt"
	"os"

	"github.com/aclements/bipv/geom"
	"gonum.org/v1/gonum/spatial/r3"
)

// A MemGraph is an in-memory Graph. Build it with the Add and Set
// methods, then treat it as read-only.
type MemGraph struct {
	instances map[ID]Instance
	order     []ID
	forward   map[ID][]Relation
	inverse   map[ID][]Relation
	defs      map[ID]PropertyDefinition
	bodies    map[ID]*body
	extruded  map[ID]r3.Vec
	geodetic  GeodeticData
}

// A body is an instance's geometry in its local coordinate system.
type body struct {
	mesh      *geom.Mesh
	stlPath   string
	stlScale  float64
	placement r3.Vec
}

func NewMemGraph() *MemGraph {
	return &MemGraph{
		instances: make(map[ID]Instance),
		forward:   make(map[ID][]Relation),
		inverse:   make(map[ID][]Relation),
		defs:      make(map[ID]PropertyDefinition),
		bodies:    make(map[ID]*body),
		extruded:  make(map[ID]r3.Vec),
	}
}

func (g *MemGraph) AddInstance(inst Instance) {
	if _, ok := g.instances[inst.ID]; !ok {
		g.order = append(g.order, inst.ID)
	}
	g.instances[inst.ID] = inst
}

func (g *MemGraph) AddRelation(r Relation) {
	g.forward[r.Relating] = append(g.forward[r.Relating], r)
	g.inverse[r.Related] = append(g.inverse[r.Related], r)
}

// AddDefinition adds a property or quantity set and relates it to each
// of the given instances.
func (g *MemGraph) AddDefinition(def PropertyDefinition, appliesTo ...ID) {
	g.defs[def.ID] = def
	for _, id := range appliesTo {
		g.AddRelation(Relation{Kind: RelDefinesByProperties, Relating: def.ID, Related: id})
	}
}

// SetMesh sets an instance's body to m, which is in the instance's local
// coordinates, placed at placement in the world.
func (g *MemGraph) SetMesh(id ID, m *geom.Mesh, placement r3.Vec) {
	g.bodies[id] = &body{mesh: m, placement: placement}
}

// SetSTL sets an instance's body to a binary STL file, read on demand.
func (g *MemGraph) SetSTL(id ID, path string, scale float64, placement r3.Vec) {
	g.bodies[id] = &body{stlPath: path, stlScale: scale, placement: placement}
}

func (g *MemGraph) SetExtrudedDirection(id ID, dir r3.Vec) {
	g.extruded[id] = dir
}

func (g *MemGraph) SetGeodetic(d GeodeticData) {
	g.geodetic = d
}

func (g *MemGraph) InstancesOfType(c Class) []Instance {
	var out []Instance
	for _, id := range g.order {
		if inst := g.instances[id]; inst.Class.IsA(c) {
			out = append(out, inst)
		}
	}
	return out
}

func (g *MemGraph) Instance(id ID) (Instance, bool) {
	inst, ok := g.instances[id]
	return inst, ok
}

func (g *MemGraph) RelationsOf(id ID) []Relation {
	return g.forward[id]
}

func (g *MemGraph) InverseRelationsOf(id ID) []Relation {
	return g.inverse[id]
}

func (g *MemGraph) PropertyDefinition(id ID) (PropertyDefinition, bool) {
	def, ok := g.defs[id]
	return def, ok
}

func (g *MemGraph) Mesh(id ID, s MeshSettings) (*geom.Mesh, error) {
	if _, ok := g.instances[id]; !ok {
		return nil, fmt.Errorf("%w %s", ErrUnknownInstance, id)
	}
	b := g.bodies[id]
	if b == nil {
		return nil, ErrNoGeometry
	}
	m := b.mesh
	if b.stlPath != "" {
		f, err := os.Open(b.stlPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		m, err = geom.ReadSTL(f, b.stlScale)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.stlPath, err)
		}
	}
	if m.Empty() {
		return nil, ErrNoGeometry
	}
	if s.WorldCoords {
		m = m.Translate(b.placement)
	} else {
		// Copy so callers can't modify our mesh.
		m = m.Translate(r3.Vec{})
	}
	if s.WeldVertices {
		m = m.Weld()
	}
	return m, nil
}

func (g *MemGraph) ExtrudedDirection(id ID) (r3.Vec, bool) {
	dir, ok := g.extruded[id]
	return dir, ok
}

func (g *MemGraph) Geodetic() GeodeticData {
	return g.geodetic
}

// Package bim describes the building model as a read-only graph of
// typed instances and the relationships between them. It follows the
// IFC schema's naming, but nothing here parses IFC files: a Graph is
// supplied by whatever reader produced the model.
package bim

import (
	"errors"
	"strings"

	"github.com/aclements/bipv/geom"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	ErrUnknownInstance = errors.New("unknown instance")
	ErrNoGeometry      = errors.New("instance has no geometry")
)

// An ID is an instance's stable identifier (an IFC GlobalId).
type ID string

// A Class is an instance's entity type.
type Class string

const (
	ClassSite    Class = "IfcSite"
	ClassWall    Class = "IfcWall"
	ClassWindow  Class = "IfcWindow"
	ClassSlab    Class = "IfcSlab"
	ClassOpening Class = "IfcOpeningElement"
)

// IsA reports whether c is base or one of its subtypes. Subtypes are
// recognized by name, as in IfcWallStandardCase.
func (c Class) IsA(base Class) bool {
	return strings.HasPrefix(string(c), string(base))
}

type Instance struct {
	ID             ID
	Class          Class
	Name           string
	PredefinedType string // For example, "ROOF" for a roof slab
}

type RelationKind string

const (
	// RelDefinesByProperties relates a PropertyDefinition to the
	// instance it describes.
	RelDefinesByProperties RelationKind = "IfcRelDefinesByProperties"
	// RelVoidsElement relates a host element to an opening cut in it.
	RelVoidsElement RelationKind = "IfcRelVoidsElement"
	// RelFillsElement relates an opening to the element filling it.
	RelFillsElement RelationKind = "IfcRelFillsElement"
)

type Relation struct {
	Kind     RelationKind
	Relating ID
	Related  ID
}

type DefinitionKind int

const (
	PropertySet DefinitionKind = iota
	ElementQuantity
)

// A PropertyDefinition is a named property set or quantity set.
type PropertyDefinition struct {
	ID     ID
	Kind   DefinitionKind
	Name   string
	Values []NamedValue
}

type NamedValue struct {
	Name  string
	Value Value
}

// MeshSettings controls how Graph.Mesh triangulates an instance.
type MeshSettings struct {
	// WorldCoords applies the instance's placement so that all meshes
	// share one coordinate system.
	WorldCoords bool
	// WeldVertices merges vertexes at identical positions.
	WeldVertices bool
}

// ResolverMeshSettings are the settings orientation resolution needs.
var ResolverMeshSettings = MeshSettings{WorldCoords: true, WeldVertices: true}

// GeodeticData is the model's geographic referencing. Fields are nil
// when the model doesn't record them.
type GeodeticData struct {
	// RefLatitude and RefLongitude are the site's location as
	// degrees, minutes, seconds, and optionally millionths of a second.
	RefLatitude, RefLongitude []float64

	// MapXAxis is the map conversion's XAxisAbscissa and
	// XAxisOrdinate.
	MapXAxis *r2.Vec

	// TrueNorth is the geometric context's true north direction.
	TrueNorth *r2.Vec
}

// A Graph is a read-only view of a building model. Implementations must
// be safe for concurrent use.
type Graph interface {
	// InstancesOfType returns all instances of class c or its
	// subtypes, in a stable order.
	InstancesOfType(c Class) []Instance
	Instance(id ID) (Instance, bool)

	// RelationsOf returns the relations in which id is the relating
	// side. InverseRelationsOf returns those in which it is the
	// related side.
	RelationsOf(id ID) []Relation
	InverseRelationsOf(id ID) []Relation

	PropertyDefinition(id ID) (PropertyDefinition, bool)

	// Mesh triangulates an instance's body geometry.
	Mesh(id ID, s MeshSettings) (*geom.Mesh, error)

	// ExtrudedDirection returns the extrusion direction of the
	// extruded solid in the instance's body representation.
	ExtrudedDirection(id ID) (r3.Vec, bool)

	Geodetic() GeodeticData
}

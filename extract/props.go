package extract

import "github.com/aclements/bipv/bim"

// values is a name-keyed view of property or quantity values.
type values map[string]bim.Value

func (v values) number(name string) *float64 {
	x, ok := bim.Number(v[name])
	if !ok {
		return nil
	}
	return &x
}

// definitions returns the property definitions of kind attached to id.
func definitions(g bim.Graph, id bim.ID, kind bim.DefinitionKind) []bim.PropertyDefinition {
	var out []bim.PropertyDefinition
	for _, rel := range g.InverseRelationsOf(id) {
		if rel.Kind != bim.RelDefinesByProperties {
			continue
		}
		def, ok := g.PropertyDefinition(rel.Relating)
		if ok && def.Kind == kind {
			out = append(out, def)
		}
	}
	return out
}

// quantities returns all quantities attached to id. Later sets win on
// name clashes.
func quantities(g bim.Graph, id bim.ID) values {
	out := make(values)
	for _, def := range definitions(g, id, bim.ElementQuantity) {
		for _, nv := range def.Values {
			out[nv.Name] = nv.Value
		}
	}
	return out
}

// properties returns the properties attached to id. If pset is not
// empty, only that property set is considered.
func properties(g bim.Graph, id bim.ID, pset string) values {
	out := make(values)
	for _, def := range definitions(g, id, bim.PropertySet) {
		if pset != "" && def.Name != pset {
			continue
		}
		for _, nv := range def.Values {
			out[nv.Name] = nv.Value
		}
	}
	return out
}

func related(g bim.Graph, id bim.ID, kind bim.RelationKind) []bim.ID {
	var out []bim.ID
	for _, rel := range g.RelationsOf(id) {
		if rel.Kind == kind {
			out = append(out, rel.Related)
		}
	}
	return out
}

func relating(g bim.Graph, id bim.ID, kind bim.RelationKind) []bim.ID {
	var out []bim.ID
	for _, rel := range g.InverseRelationsOf(id) {
		if rel.Kind == kind {
			out = append(out, rel.Relating)
		}
	}
	return out
}

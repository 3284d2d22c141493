package geom

import "gonum.org/v1/gonum/spatial/r3"

// A Mesh is an indexed triangle soup.
type Mesh struct {
	Verts [][3]float64
	Tris  [][3]int
}

func (m *Mesh) vert(i int) r3.Vec {
	v := m.Verts[i]
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

// triangle returns the vertexes of the i'th triangle, or false if it
// refers to a vertex that does not exist.
func (m *Mesh) triangle(i int) (tri r3.Triangle, ok bool) {
	for k, idx := range m.Tris[i] {
		if idx < 0 || idx >= len(m.Verts) {
			return tri, false
		}
		tri[k] = m.vert(idx)
	}
	return tri, true
}

// Empty reports whether m has no triangles.
func (m *Mesh) Empty() bool {
	return m == nil || len(m.Tris) == 0
}

// Weld returns a copy of m in which vertexes at identical positions are
// merged into one.
func (m *Mesh) Weld() *Mesh {
	out := &Mesh{Tris: make([][3]int, 0, len(m.Tris))}
	vertMap := make(map[[3]float64]int)
	remap := make([]int, len(m.Verts))
	for i, v := range m.Verts {
		idx, ok := vertMap[v]
		if !ok {
			idx = len(out.Verts)
			out.Verts = append(out.Verts, v)
			vertMap[v] = idx
		}
		remap[i] = idx
	}
	for _, tri := range m.Tris {
		var t [3]int
		for k, idx := range tri {
			if idx < 0 || idx >= len(remap) {
				// Leave bad indexes for the resolver to reject.
				t[k] = -1
				continue
			}
			t[k] = remap[idx]
		}
		out.Tris = append(out.Tris, t)
	}
	return out
}

// Translate returns a copy of m moved by d.
func (m *Mesh) Translate(d r3.Vec) *Mesh {
	out := &Mesh{
		Verts: make([][3]float64, len(m.Verts)),
		Tris:  append([][3]int(nil), m.Tris...),
	}
	for i, v := range m.Verts {
		out.Verts[i] = [3]float64{v[0] + d.X, v[1] + d.Y, v[2] + d.Z}
	}
	return out
}

// Append adds the triangles of o to m.
func (m *Mesh) Append(o *Mesh) {
	base := len(m.Verts)
	m.Verts = append(m.Verts, o.Verts...)
	for _, tri := range o.Tris {
		m.Tris = append(m.Tris, [3]int{tri[0] + base, tri[1] + base, tri[2] + base})
	}
}

// Centroid returns the mean of m's vertexes.
func (m *Mesh) Centroid() r3.Vec {
	var c r3.Vec
	if len(m.Verts) == 0 {
		return c
	}
	for i := range m.Verts {
		c = r3.Add(c, m.vert(i))
	}
	return r3.Scale(1/float64(len(m.Verts)), c)
}

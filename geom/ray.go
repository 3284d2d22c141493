package geom

import "gonum.org/v1/gonum/spatial/r3"

type Ray struct {
	Origin r3.Vec
	Dir    r3.Vec // Must be normalized
}

// Hits reports whether r hits any triangle of m. It stops at the first
// hit.
func (r *Ray) Hits(m *Mesh) bool {
	for i := range m.Tris {
		tri, valid := m.triangle(i)
		if !valid {
			continue
		}
		if _, ok := r.IntersectTriangle(&tri); ok {
			return true
		}
	}
	return false
}

func (r *Ray) IntersectTriangle(tri *r3.Triangle) (t float64, ok bool) {
	// Möller–Trumbore intersection, based on Wikipedia implementation
	// and the Scratchapixel implementation.
	const epsilon = 0.0000001
	edge1 := r3.Sub(tri[1], tri[0])
	edge2 := r3.Sub(tri[2], tri[0])
	h := r3.Cross(r.Dir, edge2)
	det := r3.Dot(edge1, h)
	// The ray is parallel to the plane of the triangle. Both faces of
	// a triangle cast shadows, so the sign of det doesn't matter.
	if det > -epsilon && det < epsilon {
		return 0, false
	}
	invDet := 1 / det
	s := r3.Sub(r.Origin, tri[0])
	u := invDet * r3.Dot(s, h)
	if u < 0 || u > 1 {
		return 0, false
	}
	q := r3.Cross(s, edge1)
	v := invDet * r3.Dot(r.Dir, q)
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t = invDet * r3.Dot(edge2, q)
	if t < epsilon {
		// Behind the origin.
		return 0, false
	}
	return t, true
}

package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// minFaceArea drops sliver triangles, in m².
	minFaceArea = 1e-6

	// maxFacadeNormalZ is the largest |Z| of a unit face normal that
	// still counts as a facade face. This excludes floors, ceilings,
	// and the tops of parapets.
	maxFacadeNormalZ = 0.2

	// normalPrecision is the number of rounding steps per unit used to
	// group face normals that are "the same" direction.
	normalPrecision = 100
)

// An Orientation is the dominant outward facing direction of a mesh.
type Orientation struct {
	// Normal is the unit normal of the dominant face cluster, pointing
	// away from the body of the element.
	Normal r3.Vec

	// FaceCentroid is the area-weighted centroid of the triangles in
	// the dominant cluster. It lies on the outward face.
	FaceCentroid r3.Vec

	// Area is the total area of the dominant cluster, in m².
	Area float64
}

type faceCluster struct {
	key      [3]int64
	area     float64
	centroid r3.Vec // area-weighted sum; divide by area
}

// ResolveNormal finds the dominant near-vertical face direction of m.
//
// Each triangle's normal is the cross product of its edges. Triangles
// that are tiny or not near-vertical are ignored. The remaining unit
// normals are rounded to two decimals and grouped, and the group with
// the largest total area wins. The winning normal is flipped if needed
// so that it points from the centroid of the whole mesh toward the
// centroid of the winning faces.
//
// m should be in world coordinates with welded vertexes.
func ResolveNormal(m *Mesh) (Orientation, error) {
	if m.Empty() {
		return Orientation{}, ErrNoMesh
	}
	centroid := m.Centroid()
	if !Finite(centroid) {
		return Orientation{}, ErrNonFinite
	}

	var clusters []*faceCluster
	index := make(map[[3]int64]*faceCluster)
	for i := range m.Tris {
		tri, ok := m.triangle(i)
		if !ok {
			return Orientation{}, ErrInvalidMesh
		}
		n := r3.Cross(r3.Sub(tri[1], tri[0]), r3.Sub(tri[2], tri[0]))
		l := r3.Norm(n)
		area := l / 2
		if !(area > minFaceArea) {
			continue
		}
		n = r3.Scale(1/l, n)
		if math.Abs(n.Z) >= maxFacadeNormalZ {
			continue
		}

		key := [3]int64{
			int64(math.Round(n.X * normalPrecision)),
			int64(math.Round(n.Y * normalPrecision)),
			int64(math.Round(n.Z * normalPrecision)),
		}
		c := index[key]
		if c == nil {
			c = &faceCluster{key: key}
			index[key] = c
			clusters = append(clusters, c)
		}
		c.area += area
		triCentroid := r3.Scale(1.0/3, r3.Add(r3.Add(tri[0], tri[1]), tri[2]))
		c.centroid = r3.Add(c.centroid, r3.Scale(area, triCentroid))
	}
	if len(clusters) == 0 {
		return Orientation{}, ErrNoFacadeFaces
	}

	// Ties go to the first cluster seen so results are stable.
	best := clusters[0]
	for _, c := range clusters[1:] {
		if c.area > best.area {
			best = c
		}
	}

	normal := r3.Vec{
		X: float64(best.key[0]) / normalPrecision,
		Y: float64(best.key[1]) / normalPrecision,
		Z: float64(best.key[2]) / normalPrecision,
	}
	if r3.Norm(normal) == 0 {
		return Orientation{}, ErrNonFinite
	}
	normal = r3.Unit(normal)
	faceCentroid := r3.Scale(1/best.area, best.centroid)

	toFace := r3.Sub(faceCentroid, centroid)
	if r3.Dot(normal, toFace) < 0 {
		normal = r3.Scale(-1, normal)
	}

	if !Finite(normal) || !Finite(faceCentroid) {
		return Orientation{}, ErrNonFinite
	}
	return Orientation{Normal: normal, FaceCentroid: faceCentroid, Area: best.area}, nil
}

// Finite reports whether every component of v is finite.
func Finite(v r3.Vec) bool {
	for _, x := range [...]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

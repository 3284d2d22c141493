package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// meshBuilder assembles test meshes from quads. A quad's normal follows
// the right-hand rule over its corners.
type meshBuilder struct {
	m Mesh
}

func (b *meshBuilder) quad(p0, p1, p2, p3 [3]float64) {
	base := len(b.m.Verts)
	b.m.Verts = append(b.m.Verts, p0, p1, p2, p3)
	b.m.Tris = append(b.m.Tris, [3]int{base, base + 1, base + 2}, [3]int{base, base + 2, base + 3})
}

type boxFaces struct {
	posX, negX, posY, negY, top, bottom bool
	flipPosY                            bool
}

var allFaces = boxFaces{true, true, true, true, true, true, false}

// box returns an axis-aligned box between lo and hi with outward
// winding, including only the requested faces. The result is welded.
func box(lo, hi [3]float64, faces boxFaces) *Mesh {
	x0, y0, z0 := lo[0], lo[1], lo[2]
	x1, y1, z1 := hi[0], hi[1], hi[2]
	var b meshBuilder
	if faces.posY {
		if faces.flipPosY {
			b.quad([3]float64{x1, y1, z0}, [3]float64{x1, y1, z1}, [3]float64{x0, y1, z1}, [3]float64{x0, y1, z0})
		} else {
			b.quad([3]float64{x0, y1, z0}, [3]float64{x0, y1, z1}, [3]float64{x1, y1, z1}, [3]float64{x1, y1, z0})
		}
	}
	if faces.negY {
		b.quad([3]float64{x0, y0, z0}, [3]float64{x1, y0, z0}, [3]float64{x1, y0, z1}, [3]float64{x0, y0, z1})
	}
	if faces.posX {
		b.quad([3]float64{x1, y0, z0}, [3]float64{x1, y1, z0}, [3]float64{x1, y1, z1}, [3]float64{x1, y0, z1})
	}
	if faces.negX {
		b.quad([3]float64{x0, y0, z0}, [3]float64{x0, y0, z1}, [3]float64{x0, y1, z1}, [3]float64{x0, y1, z0})
	}
	if faces.top {
		b.quad([3]float64{x0, y0, z1}, [3]float64{x1, y0, z1}, [3]float64{x1, y1, z1}, [3]float64{x0, y1, z1})
	}
	if faces.bottom {
		b.quad([3]float64{x0, y0, z0}, [3]float64{x0, y1, z0}, [3]float64{x1, y1, z0}, [3]float64{x1, y0, z0})
	}
	return b.m.Weld()
}

func rotateZ(m *Mesh, deg float64) *Mesh {
	s, c := math.Sincos(deg * deg2rad)
	out := &Mesh{Tris: m.Tris}
	for _, v := range m.Verts {
		out.Verts = append(out.Verts, [3]float64{c*v[0] - s*v[1], s*v[0] + c*v[1], v[2]})
	}
	return out
}

// openWall is a 10m x 0.2m x 3m wall whose inner (-Y) face is missing,
// so the outer face dominates.
func openWall(flip bool) *Mesh {
	faces := allFaces
	faces.negY = false
	faces.flipPosY = flip
	return box([3]float64{0, 0, 0}, [3]float64{10, 0.2, 3}, faces)
}

func assertVecInDelta(t *testing.T, want, got r3.Vec, delta float64) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, delta, "X of %v", got)
	assert.InDelta(t, want.Y, got.Y, delta, "Y of %v", got)
	assert.InDelta(t, want.Z, got.Z, delta, "Z of %v", got)
}

func TestResolveNormalDominantFace(t *testing.T) {
	o, err := ResolveNormal(openWall(false))
	require.NoError(t, err)
	assertVecInDelta(t, r3.Vec{Y: 1}, o.Normal, 1e-12)
	assertVecInDelta(t, r3.Vec{X: 5, Y: 0.2, Z: 1.5}, o.FaceCentroid, 1e-9)
	assert.InDelta(t, 30, o.Area, 1e-9)
}

func TestResolveNormalFlipsInwardFace(t *testing.T) {
	// The outer face is wound inward, but it lies on the +Y side of the
	// element's centroid.
	o, err := ResolveNormal(openWall(true))
	require.NoError(t, err)
	assertVecInDelta(t, r3.Vec{Y: 1}, o.Normal, 1e-12)
}

func TestResolveNormalRotated(t *testing.T) {
	for _, deg := range []float64{30, 135, 200, 290} {
		o, err := ResolveNormal(rotateZ(openWall(false), deg))
		require.NoError(t, err)
		s, c := math.Sincos(deg * deg2rad)
		// +Y rotated by deg counter-clockwise.
		want := r3.Vec{X: -s, Y: c}
		// Normals are grouped at two decimal places.
		assertVecInDelta(t, want, o.Normal, 0.01)
		assert.InDelta(t, 1, r3.Norm(o.Normal), 1e-12)
	}
}

func TestResolveNormalClosedBoxPicksAFacade(t *testing.T) {
	o, err := ResolveNormal(box([3]float64{0, 0, 0}, [3]float64{10, 0.2, 3}, allFaces))
	require.NoError(t, err)
	// Both long faces tie. Either way the normal points away from the
	// body through the chosen face.
	assert.InDelta(t, 1, math.Abs(o.Normal.Y), 1e-12)
	assert.Equal(t, o.Normal.Y > 0, o.FaceCentroid.Y > 0.1)
}

func TestResolveNormalIgnoresHorizontalFaces(t *testing.T) {
	// A wide, short box: the top and bottom are far bigger than any
	// side, but they are not facade faces.
	o, err := ResolveNormal(box([3]float64{0, 0, 0}, [3]float64{20, 10, 0.3}, allFaces))
	require.NoError(t, err)
	assert.Less(t, math.Abs(o.Normal.Z), 0.2)
	assert.InDelta(t, 20*0.3, o.Area, 1e-9)
}

func TestResolveNormalFailures(t *testing.T) {
	t.Run("nil mesh", func(t *testing.T) {
		_, err := ResolveNormal(nil)
		assert.ErrorIs(t, err, ErrNoMesh)
	})
	t.Run("no triangles", func(t *testing.T) {
		_, err := ResolveNormal(&Mesh{Verts: [][3]float64{{0, 0, 0}}})
		assert.ErrorIs(t, err, ErrNoMesh)
	})
	t.Run("bad index", func(t *testing.T) {
		_, err := ResolveNormal(&Mesh{Verts: [][3]float64{{0, 0, 0}, {1, 0, 0}}, Tris: [][3]int{{0, 1, 2}}})
		assert.ErrorIs(t, err, ErrInvalidMesh)
	})
	t.Run("only horizontal faces", func(t *testing.T) {
		faces := boxFaces{top: true, bottom: true}
		_, err := ResolveNormal(box([3]float64{0, 0, 0}, [3]float64{5, 5, 0.2}, faces))
		assert.ErrorIs(t, err, ErrNoFacadeFaces)
	})
	t.Run("slivers only", func(t *testing.T) {
		m := &Mesh{
			Verts: [][3]float64{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {0, 0, 1e-7}},
			Tris:  [][3]int{{0, 1, 2}, {0, 1, 3}},
		}
		_, err := ResolveNormal(m)
		assert.ErrorIs(t, err, ErrNoFacadeFaces)
	})
	t.Run("non-finite vertex", func(t *testing.T) {
		m := openWall(false)
		m.Verts[0] = [3]float64{math.NaN(), 0, 0}
		_, err := ResolveNormal(m)
		assert.ErrorIs(t, err, ErrNonFinite)
	})
}

package solar

import (
	"testing"
	"time"

	"github.com/aclements/bipv/geom"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// block returns a closed axis-aligned box between lo and hi.
func block(lo, hi r3.Vec) *geom.Mesh {
	m := &geom.Mesh{}
	for _, x := range []float64{lo.X, hi.X} {
		for _, y := range []float64{lo.Y, hi.Y} {
			for _, z := range []float64{lo.Z, hi.Z} {
				m.Verts = append(m.Verts, [3]float64{x, y, z})
			}
		}
	}
	// Vertex i has x = i&4, y = i&2, z = i&1.
	m.Tris = [][3]int{
		{0, 1, 3}, {0, 3, 2}, // -X
		{4, 6, 7}, {4, 7, 5}, // +X
		{0, 4, 5}, {0, 5, 1}, // -Y
		{2, 3, 7}, {2, 7, 6}, // +Y
		{0, 2, 6}, {0, 6, 4}, // -Z
		{1, 5, 7}, {1, 7, 3}, // +Z
	}
	return m
}

var (
	planNorth = r2.Vec{X: 0, Y: 1}
	planEast  = r2.Vec{X: 1, Y: 0}
	// A 10m building 2m south of the origin.
	southBlock = block(r3.Vec{X: -5, Y: -3, Z: 0}, r3.Vec{X: 5, Y: -2, Z: 10})
	southWall  = r3.Vec{X: 0, Y: -1, Z: 0}
	july       = time.Date(2021, 7, 1, 12, 0, 0, 0, time.UTC)
)

func TestSunRay(t *testing.T) {
	m := NewShadeModel(planNorth, planEast, 45)
	r := m.SunRay(r3.Vec{}, Position{Elevation: 0, Zenith: 90, Azimuth: 90})
	assert.InDelta(t, 1, r.Dir.X, 1e-12)
	assert.InDelta(t, 0, r.Dir.Y, 1e-12)

	// Model rotated so that compass north is model -X.
	m = NewShadeModel(r2.Vec{X: -1, Y: 0}, r2.Vec{X: 0, Y: 1}, 45)
	r = m.SunRay(r3.Vec{}, Position{Elevation: 0, Zenith: 90, Azimuth: 90})
	assert.InDelta(t, 0, r.Dir.X, 1e-12)
	assert.InDelta(t, 1, r.Dir.Y, 1e-12)

	r = m.SunRay(r3.Vec{}, Position{Elevation: 90, Zenith: 0, Azimuth: 0})
	assert.InDelta(t, 1, r.Dir.Z, 1e-12)
}

func TestExposureBuildings(t *testing.T) {
	m := NewShadeModel(planNorth, planEast, 45)
	m.AddBuildings(southBlock)
	assert.Equal(t, 1, m.Layers())

	low := Position{Elevation: 30, Zenith: 60, Azimuth: 180}
	assert.Equal(t, Exposure{Light: 0}, m.Exposure(r3.Vec{}, southWall, low, july))

	high := Position{Elevation: 80, Zenith: 10, Azimuth: 180}
	assert.Equal(t, Exposure{Light: 1}, m.Exposure(r3.Vec{}, southWall, high, july))

	// Sun to the east clears the block.
	east := Position{Elevation: 10, Zenith: 80, Azimuth: 100}
	assert.Equal(t, Exposure{Light: 1}, m.Exposure(r3.Vec{}, southWall, east, july))
}

func TestExposureSelfShading(t *testing.T) {
	m := NewShadeModel(planNorth, planEast, 45)
	northWall := r3.Vec{X: 0, Y: 1, Z: 0}
	sun := Position{Elevation: 30, Zenith: 60, Azimuth: 180}
	assert.Zero(t, m.Exposure(r3.Vec{}, northWall, sun, july).Light)

	night := Position{Elevation: -10, Zenith: 100, Azimuth: 0}
	assert.Zero(t, m.Exposure(r3.Vec{}, northWall, night, july).Light)
}

func TestExposureFoliage(t *testing.T) {
	low := Position{Elevation: 30, Zenith: 60, Azimuth: 180}

	north := NewShadeModel(planNorth, planEast, 45)
	north.AddFoliage(southBlock)
	got := north.Exposure(r3.Vec{}, southWall, low, july)
	assert.InDelta(t, 0.05, got.Light, 1e-12)
	assert.True(t, got.Foliage)

	winter := north.Exposure(r3.Vec{}, southWall, low, time.Date(2021, 1, 15, 12, 0, 0, 0, time.UTC))
	assert.InDelta(t, 0.5, winter.Light, 1e-12)

	south := NewShadeModel(planNorth, planEast, -33)
	south.AddFoliage(southBlock)
	assert.InDelta(t, 0.5, south.Exposure(r3.Vec{}, southWall, low, july).Light, 1e-12)

	// Buildings behind foliage still block.
	north.AddBuildings(southBlock)
	got = north.Exposure(r3.Vec{}, southWall, low, july)
	assert.Zero(t, got.Light)
	assert.False(t, got.Foliage)
}

func TestFoliageTransmissivityRange(t *testing.T) {
	m := NewShadeModel(planNorth, planEast, 45)
	for d := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC); d.Year() == 2021; d = d.AddDate(0, 0, 1) {
		tr := m.foliageTransmissivity(d)
		assert.GreaterOrEqual(t, tr, 0.05)
		assert.LessOrEqual(t, tr, 0.5)
	}
}

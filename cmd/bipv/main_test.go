package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aclements/bipv/config"
	"github.com/aclements/bipv/pv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testModel is a south-facing 10 x 3 m wall and a flat 50 m² roof in
// Lisbon, with the map conversion's X axis pointing east.
const testModel = `
site:
  ref_latitude: [38, 43, 21]
  ref_longitude: [-9, -8, -24]
map_conversion:
  x_axis_abscissa: 1
  x_axis_ordinate: 0
instances:
  - id: wall-1
    class: IfcWallStandardCase
    name: South wall
    geometry:
      vertices:
        - [0, 0, 0]
        - [0, 0, 3]
        - [0, 0.2, 0]
        - [0, 0.2, 3]
        - [10, 0, 0]
        - [10, 0, 3]
        - [10, 0.2, 0]
        - [10, 0.2, 3]
      faces:
        - [0, 4, 5]
        - [0, 5, 1]
        - [0, 1, 3]
        - [0, 3, 2]
        - [4, 6, 7]
        - [4, 7, 5]
        - [1, 5, 7]
        - [1, 7, 3]
        - [0, 2, 6]
        - [0, 6, 4]
  - id: roof-1
    class: IfcSlab
    name: Roof
    predefined_type: ROOF
    extruded_direction: [0, 0, 1]
definitions:
  - id: pset-1
    kind: property_set
    name: Pset_WallCommon
    values:
      - {name: IsExternal, value: true}
    applies_to: [wall-1]
  - id: qto-1
    kind: element_quantity
    name: Qto_WallBaseQuantities
    values:
      - {name: Height, type: length, value: 3}
      - {name: Length, type: length, value: 10}
    applies_to: [wall-1]
  - id: qto-2
    kind: element_quantity
    name: Qto_SlabBaseQuantities
    values:
      - {name: GrossArea, type: area, value: 50}
    applies_to: [roof-1]
`

func writeModel(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testModel), 0o644))
	return path
}

func testConfig() *config.Config {
	p := pv.DefaultParams
	return &config.Config{
		PanelEfficiency:    p.PanelEfficiency,
		InverterEfficiency: p.InverterEfficiency,
		SystemLosses:       p.SystemLosses,
		Albedo:             p.Albedo,
		Weather:            config.WeatherConfig{Provider: config.ProviderClearSky},
		Shading:            config.ShadingConfig{Enabled: true},
		LogLevel:           "info",
	}
}

func rowOf(t *testing.T, out, id string) []string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if f := strings.Fields(line); len(f) > 0 && f[0] == id {
			return f
		}
	}
	require.Failf(t, "row not found", "%s in\n%s", id, out)
	return nil
}

func TestRun(t *testing.T) {
	heatmaps := t.TempDir()
	var out bytes.Buffer
	err := run(context.Background(), &out, testConfig(), zap.NewNop(), writeModel(t), options{heatmapDir: heatmaps})
	require.NoError(t, err)

	got := out.String()
	for _, title := range []string{"Site", "Walls", "Windows", "Roofs", "Generation (run "} {
		assert.Contains(t, got, title)
	}
	assert.Equal(t, []string{"38.722500", "-9.140000", "0.00", "map-conversion"}, rowOf(t, got, "38.722500"))
	wall := rowOf(t, got, "wall-1")
	assert.Contains(t, wall, "180.0")
	assert.Contains(t, wall, "30.00")

	for _, name := range []string{"001-wall-1.png", "002-roof-1.png"} {
		_, err := os.Stat(filepath.Join(heatmaps, name))
		assert.NoError(t, err, name)
	}
}

func TestRunExtractOnly(t *testing.T) {
	cfg := testConfig()
	cfg.Weather = config.WeatherConfig{Provider: config.ProviderPVGIS, BaseURL: "http://127.0.0.1:1"}
	var out bytes.Buffer
	err := run(context.Background(), &out, cfg, zap.NewNop(), writeModel(t), options{extractOnly: true})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "wall-1")
	assert.NotContains(t, out.String(), "Generation")
}

func TestRunWeatherFailureKeepsTables(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.Weather = config.WeatherConfig{Provider: config.ProviderPVGIS, BaseURL: srv.URL, Timeout: 5 * time.Second}
	var out bytes.Buffer
	err := run(context.Background(), &out, cfg, zap.NewNop(), writeModel(t), options{})
	var pe *pv.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, out.String(), "wall-1")
	assert.Contains(t, out.String(), "roof-1")
}

func TestSafeName(t *testing.T) {
	assert.Equal(t, "2O2_8u_x_", safeName("2O2/8u$x:"))
	assert.Equal(t, "abc-D_9", safeName("abc-D_9"))
	assert.Equal(t, "a_b_c", safeName("a b/c"))
}

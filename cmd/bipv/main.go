// Command bipv reads a building model document, prints its envelope
// surfaces with their orientations and areas, and estimates the annual
// PV yield of each surface.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/aclements/bipv/bim"
	"github.com/aclements/bipv/config"
	"github.com/aclements/bipv/extract"
	"github.com/aclements/bipv/geom"
	"github.com/aclements/bipv/pv"
	"github.com/aclements/bipv/report"
	"github.com/aclements/bipv/solar"
	"github.com/aclements/bipv/weather"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"
)

type options struct {
	heatmapDir  string
	extractOnly bool
}

func main() {
	configPath := flag.String("config", "", "read configuration from YAML `file`")
	heatmapDir := flag.String("heatmaps", "", "write an hourly energy heat map per surface to `dir`")
	extractOnly := flag.Bool("extract-only", false, "print envelope tables without estimating PV yield")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] model.yaml\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := cfg.Logger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := options{heatmapDir: *heatmapDir, extractOnly: *extractOnly}
	if err := run(ctx, os.Stdout, cfg, logger, flag.Arg(0), opts); err != nil {
		logger.Error("bipv failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, out io.Writer, cfg *config.Config, logger *zap.Logger, modelPath string, opts options) error {
	g, err := bim.LoadDocument(modelPath)
	if err != nil {
		return err
	}

	res, err := extract.New(g, logger, cfg.Workers).Run(ctx)
	if err != nil {
		return err
	}
	// Envelope tables are written before PV runs so they survive a
	// weather failure.
	for _, section := range []struct {
		title string
		write func(io.Writer) error
	}{
		{"Site", func(w io.Writer) error { return report.WriteGeoReference(w, res.Geo) }},
		{"Walls", func(w io.Writer) error { return report.WriteWalls(w, res.Walls) }},
		{"Windows", func(w io.Writer) error { return report.WriteWindows(w, res.Windows) }},
		{"Roofs", func(w io.Writer) error { return report.WriteRoofs(w, res.Roofs) }},
	} {
		fmt.Fprintf(out, "%s\n", section.title)
		if err := section.write(out); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}
	if opts.extractOnly {
		return nil
	}

	engine := pv.NewEngine(newWeather(cfg, logger), logger, cfg.Workers)
	if cfg.Shading.Enabled {
		shader, err := newShader(cfg, g, res.Geo)
		if err != nil {
			return err
		}
		logger.Info("shading enabled", zap.Int("layers", shader.Layers()))
		engine.SetShader(shader)
	}
	params := cfg.Params()
	params.KeepHourly = opts.heatmapDir != ""

	surfaces := pv.SurfacesFromElements(res.All())
	pvRun, err := engine.Estimate(ctx, res.Geo, surfaces, params)
	if err != nil {
		return fmt.Errorf("PV generation: %w", err)
	}
	fmt.Fprintf(out, "Generation (run %s)\n", pvRun.ID)
	if err := report.WriteGeneration(out, pvRun); err != nil {
		return err
	}

	if opts.heatmapDir != "" {
		return writeHeatMaps(opts.heatmapDir, pvRun, logger)
	}
	return nil
}

func newWeather(cfg *config.Config, logger *zap.Logger) pv.WeatherProvider {
	var p weather.Provider
	switch cfg.Weather.Provider {
	case config.ProviderClearSky:
		p = solar.ClearSky{}
	default:
		p = weather.NewPVGIS(cfg.Weather.BaseURL, cfg.Weather.Timeout, cfg.Weather.MaxRetries, logger)
	}
	if cfg.Weather.CacheDir != "" {
		p = weather.NewCached(p, cfg.Weather.Provider, cfg.Weather.CacheDir, logger)
	}
	return p
}

func newShader(cfg *config.Config, g bim.Graph, geo extract.GeoReference) (*solar.ShadeModel, error) {
	north, east := geo.CompassFrame()
	var lat float64
	if geo.Latitude != nil {
		lat = *geo.Latitude
	}
	m := solar.NewShadeModel(north, east, lat)
	m.AddBuildings(extract.OccluderMesh(g))
	for _, path := range cfg.Shading.Buildings {
		if err := m.AddBuildingsSTL(path, geom.Meters); err != nil {
			return nil, err
		}
	}
	for _, path := range cfg.Shading.Foliage {
		if err := m.AddFoliageSTL(path, geom.Meters); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func writeHeatMaps(dir string, run *pv.Run, logger *zap.Logger) error {
	if err := os.MkdirAll(dir, 0777); err != nil {
		return err
	}
	for i, rec := range run.Records {
		if rec.AnnualEnergyAC == nil {
			continue
		}
		plt, err := report.HeatMap(rec, run.Times)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, fmt.Sprintf("%03d-%s.png", i+1, safeName(rec.ID)))
		if err := plt.Save(20*vg.Centimeter, 15*vg.Centimeter, path); err != nil {
			return err
		}
		logger.Debug("wrote heat map", zap.String("path", path))
	}
	return nil
}

// safeName makes an element ID usable in a file name.
func safeName(id string) string {
	b := []byte(id)
	for i, c := range b {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9', c == '-', c == '_':
		default:
			b[i] = '_'
		}
	}
	return string(b)
}

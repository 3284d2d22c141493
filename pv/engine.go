package pv

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/aclements/bipv/extract"
	"github.com/aclements/bipv/solar"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	ErrNoCoordinates     = errors.New("model has no latitude/longitude")
	ErrInvalidParameters = errors.New("invalid PV parameters")
)

// siteAltitude is the altitude in meters passed to the sun position
// step. Weather pressure normally overrides it.
const siteAltitude = 0

// ProviderError reports a failure to obtain the shared weather or sun
// position data. It fails the whole estimate.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Params are the system parameters of an estimate.
type Params struct {
	PanelEfficiency    float64 // (0, 1]
	InverterEfficiency float64 // (0, 1]
	SystemLosses       float64 // [0, 1)
	Albedo             float64 // [0, 1]

	// KeepHourly retains each record's hourly AC energy.
	KeepHourly bool
}

// DefaultParams are typical values for building-integrated modules.
var DefaultParams = Params{
	PanelEfficiency:    0.22,
	InverterEfficiency: 0.96,
	SystemLosses:       0.14,
	Albedo:             0.25,
}

func (p Params) Validate() error {
	switch {
	case !(p.PanelEfficiency > 0 && p.PanelEfficiency <= 1):
		return fmt.Errorf("%w: panel efficiency %v not in (0, 1]", ErrInvalidParameters, p.PanelEfficiency)
	case !(p.InverterEfficiency > 0 && p.InverterEfficiency <= 1):
		return fmt.Errorf("%w: inverter efficiency %v not in (0, 1]", ErrInvalidParameters, p.InverterEfficiency)
	case !(p.SystemLosses >= 0 && p.SystemLosses < 1):
		return fmt.Errorf("%w: system losses %v not in [0, 1)", ErrInvalidParameters, p.SystemLosses)
	case !(p.Albedo >= 0 && p.Albedo <= 1):
		return fmt.Errorf("%w: albedo %v not in [0, 1]", ErrInvalidParameters, p.Albedo)
	}
	return nil
}

// A Record is a Surface with its estimated yield.
type Record struct {
	Surface

	// AnnualEnergyAC is the annual AC energy in kWh, or nil if it
	// could not be computed. Issue says why.
	AnnualEnergyAC *float64
	Issue          string

	// Hourly is the AC energy in kWh for each hour of Run.Times, if
	// requested.
	Hourly []float64
}

// A Run is the result of one estimate.
type Run struct {
	ID                  uuid.UUID
	Latitude, Longitude float64
	Records             []Record

	// Times are the hours of the weather year, if hourly output was
	// requested.
	Times []time.Time
}

// TotalAC returns the sum of the known annual energies in kWh.
func (r *Run) TotalAC() float64 {
	var sum float64
	for _, rec := range r.Records {
		if rec.AnnualEnergyAC != nil {
			sum += *rec.AnnualEnergyAC
		}
	}
	return sum
}

// A WeatherProvider returns one representative year of hourly weather.
type WeatherProvider interface {
	TMY(ctx context.Context, latitude, longitude float64) (*solar.HourlySeries, error)
}

// A Shader reports how much direct sunlight reaches a point.
type Shader interface {
	Exposure(origin, normal r3.Vec, sun solar.Position, t time.Time) solar.Exposure
}

// Engine estimates PV yield. One weather fetch serves every surface in
// an estimate.
type Engine struct {
	weather WeatherProvider
	shader  Shader
	logger  *zap.Logger
	workers int
}

// NewEngine returns an engine using weather. workers bounds how many
// surfaces are computed at once; 0 means GOMAXPROCS.
func NewEngine(weather WeatherProvider, logger *zap.Logger, workers int) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Engine{weather: weather, logger: logger.Named("pv"), workers: workers}
}

// SetShader enables beam shading. Only surfaces with an origin and
// normal are shaded.
func (e *Engine) SetShader(s Shader) {
	e.shader = s
}

// shared is the read-only data every surface in an estimate uses.
type shared struct {
	weather *solar.HourlySeries
	sun     []solar.Position
	params  Params
}

// Estimate computes the annual AC energy of each surface at the
// location in geo. The result has exactly one record per surface, in
// order. Surfaces that can't be computed get a nil energy; only
// parameter, location, and provider failures fail the whole estimate.
func (e *Engine) Estimate(ctx context.Context, geo extract.GeoReference, surfaces []Surface, p Params) (*Run, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	run := &Run{ID: uuid.New(), Records: []Record{}}
	log := e.logger.With(zap.String("run_id", run.ID.String()))
	if len(surfaces) == 0 {
		return run, nil
	}
	if geo.Latitude == nil || geo.Longitude == nil {
		return nil, ErrNoCoordinates
	}
	run.Latitude, run.Longitude = *geo.Latitude, *geo.Longitude

	// Key each surface by position. Joins use these keys, never
	// floating-point fields.
	keyed := make(map[int]Surface, len(surfaces))
	for i, s := range surfaces {
		keyed[i+1] = s
	}

	w, err := e.weather.TMY(ctx, run.Latitude, run.Longitude)
	if err != nil {
		log.Error("weather fetch failed", zap.Error(err))
		return nil, &ProviderError{Op: "weather", Err: err}
	}
	if err := w.Check(); err != nil {
		return nil, &ProviderError{Op: "weather", Err: err}
	}
	sh := &shared{
		weather: w,
		sun:     solar.SunPositions(w, run.Latitude, run.Longitude, siteAltitude),
		params:  p,
	}
	log.Info("estimating",
		zap.Int("surfaces", len(surfaces)),
		zap.Int("hours", w.Len()),
		zap.Bool("shading", e.shader != nil))

	type result struct {
		energy float64
		hourly []float64
		err    error
	}
	var (
		mu      sync.Mutex
		results = make(map[int]result, len(keyed))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for key, s := range keyed {
		key, s := key, s
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			hourly, err := e.hourlyAC(s, sh)
			r := result{hourly: hourly, err: err}
			if err == nil {
				r.energy = floats.Sum(hourly)
			}
			mu.Lock()
			results[key] = r
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	run.Records = make([]Record, len(surfaces))
	for i, s := range surfaces {
		rec := Record{Surface: s}
		r, ok := results[i+1]
		switch {
		case !ok:
			rec.Issue = "no result"
		case r.err != nil:
			rec.Issue = r.err.Error()
			log.Debug("surface skipped", zap.String("id", s.ID), zap.Error(r.err))
		default:
			energy := r.energy
			rec.AnnualEnergyAC = &energy
			if p.KeepHourly {
				rec.Hourly = r.hourly
			}
		}
		run.Records[i] = rec
	}
	if p.KeepHourly {
		run.Times = w.Times
	}
	log.Info("estimated", zap.Float64("total_kwh", run.TotalAC()))
	return run, nil
}

var (
	errNoArea     = errors.New("area unknown")
	errNegArea    = errors.New("area is negative")
	errNoTilt     = errors.New("tilt unknown")
	errNoAzimuth  = errors.New("azimuth unknown")
	errBadDataRow = errors.New("non-finite energy")
)

// plane returns the plane of s. A horizontal surface needs no azimuth.
func plane(s Surface) (solar.Plane, error) {
	if s.Tilt == nil {
		return solar.Plane{}, errNoTilt
	}
	if s.Azimuth == nil {
		if *s.Tilt != 0 {
			return solar.Plane{}, errNoAzimuth
		}
		return solar.Plane{Tilt: 0, Azimuth: 180}, nil
	}
	return solar.Plane{Tilt: *s.Tilt, Azimuth: *s.Azimuth}, nil
}

// hourlyAC returns the AC energy of s in kWh for each hour.
func (e *Engine) hourlyAC(s Surface, sh *shared) ([]float64, error) {
	if s.Area == nil {
		return nil, errNoArea
	}
	area := *s.Area
	if area < 0 {
		return nil, errNegArea
	}
	pl, err := plane(s)
	if err != nil {
		return nil, err
	}
	shade := e.shader != nil && s.Origin != nil && s.Normal != nil

	p := sh.params
	w := sh.weather
	scale := area * p.PanelEfficiency * p.InverterEfficiency * (1 - p.SystemLosses) / 1000
	out := make([]float64, w.Len())
	for i := range out {
		irr := pl.POA(sh.sun[i], w.DNI[i], w.GHI[i], w.DHI[i], p.Albedo)
		if shade && irr.Direct > 0 {
			irr.Direct *= e.shader.Exposure(*s.Origin, *s.Normal, sh.sun[i], w.Times[i]).Light
		}
		// Hourly samples, so W/m² over one hour is Wh/m².
		ac := irr.Total() * scale
		if !(ac >= 0) {
			return nil, errBadDataRow
		}
		out[i] = ac
	}
	return out, nil
}

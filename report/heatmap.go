package report

import (
	"fmt"
	"image/color"
	"time"

	"github.com/aclements/bipv/pv"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
)

// refYear is the year every sample is folded onto. Weather years are
// often stitched together from months of different years.
const refYear = 2001

// HeatMap plots a record's hourly AC energy with day of year across and
// hour of day up. It returns an error if the record has no hourly data.
func HeatMap(rec pv.Record, times []time.Time) (*plot.Plot, error) {
	if len(rec.Hourly) == 0 || len(rec.Hourly) != len(times) {
		return nil, fmt.Errorf("record %s has no hourly energy", rec.ID)
	}
	grid := newEnergyGrid(times, rec.Hourly)

	plt := newPlot()
	plt.Title.Text = fmt.Sprintf("%s (%s)", rec.ID, rec.Kind)
	if rec.AnnualEnergyAC != nil {
		plt.Title.Text += fmt.Sprintf(": %.0f kWh/yr", *rec.AnnualEnergyAC)
	}
	plt.X.Label.Text = "Day"
	plt.Y.Label.Text = "Hour (UTC)"

	pal := palette.Heat(256, 1)
	hm := plotter.NewHeatMap(grid, pal)
	hm.Underflow = color.Black
	hm.Rasterized = true
	plt.Add(hm)
	return plt, nil
}

func newPlot() *plot.Plot {
	plt := plot.New()
	plt.X.Tick.Marker = dayOfYearTicks{}
	plt.Y.Tick.Marker = timeOfDayTicks{targetTicks: 8}
	plt.BackgroundColor = color.Black
	for _, elt := range []*color.Color{
		&plt.Title.TextStyle.Color,
		&plt.X.Color,
		&plt.X.Tick.Color,
		&plt.X.Tick.Label.Color,
		&plt.X.Label.TextStyle.Color,
		&plt.Y.Color,
		&plt.Y.Tick.Color,
		&plt.Y.Tick.Label.Color,
		&plt.Y.Label.TextStyle.Color,
	} {
		*elt = color.White
	}
	return plt
}

// energyGrid is a day-by-hour grid of energy. Columns are days of
// refYear and rows are hours.
type energyGrid struct {
	energy   [][]float64
	min, max float64
}

func newEnergyGrid(times []time.Time, hourly []float64) *energyGrid {
	g := new(energyGrid)
	for i, t := range times {
		t = t.UTC()
		col, row := t.YearDay()-1, t.Hour()
		for col >= len(g.energy) {
			g.energy = append(g.energy, make([]float64, 24))
		}
		g.energy[col][row] += hourly[i]
	}
	for _, col := range g.energy {
		for _, e := range col {
			if e > g.max {
				g.max = e
			}
			if e > 0 && (g.min == 0 || e < g.min) {
				g.min = e
			}
		}
	}
	if !(g.max > g.min) {
		// Keep the palette scale finite.
		g.max = g.min + 1
	}
	return g
}

func (g *energyGrid) Dims() (c, r int) {
	if len(g.energy) == 0 {
		return 0, 0
	}
	return len(g.energy), len(g.energy[0])
}

func (g *energyGrid) Z(c, r int) float64 {
	return g.energy[c][r]
}

func (g *energyGrid) X(c int) float64 {
	t := time.Date(refYear, 1, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, c)
	return float64(t.Unix())
}

func (g *energyGrid) Y(r int) float64 {
	return float64(time.Duration(r) * time.Hour)
}

func (g *energyGrid) Min() float64 {
	// The smallest non-zero value, so that hours without sun render in
	// the underflow color.
	return g.min
}

func (g *energyGrid) Max() float64 {
	return g.max
}

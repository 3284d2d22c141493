// Package report renders extraction and generation results as text
// tables and heat maps.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/aclements/bipv/extract"
	"github.com/aclements/bipv/pv"
)

// unset is how missing values render.
const unset = "-"

func num(v *float64, prec int) string {
	if v == nil {
		return unset
	}
	return strconv.FormatFloat(*v, 'f', prec, 64)
}

func str(s string) string {
	if s == "" {
		return unset
	}
	return s
}

// table writes rows as tab-aligned columns.
type table struct {
	tw *tabwriter.Writer
}

func newTable(w io.Writer, header ...string) *table {
	t := &table{tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
	t.row(header...)
	return t
}

func (t *table) row(cols ...string) {
	fmt.Fprintln(t.tw, strings.Join(cols, "\t"))
}

func (t *table) flush() error {
	return t.tw.Flush()
}

// WriteGeoReference writes the geographic summary of a model.
func WriteGeoReference(w io.Writer, g extract.GeoReference) error {
	t := newTable(w, "Latitude", "Longitude", "TrueNorth", "NorthSource")
	t.row(num(g.Latitude, 6), num(g.Longitude, 6),
		strconv.FormatFloat(g.TrueNorthBearing, 'f', 2, 64), string(g.TrueNorthSource))
	if err := t.flush(); err != nil {
		return err
	}
	return writeIssues(w, "", g.Issues)
}

func WriteWalls(w io.Writer, walls []extract.Element) error {
	t := newTable(w, "ID", "Name", "Azimuth", "Length", "Height", "GrossArea", "OpeningArea", "NetArea")
	for _, e := range walls {
		t.row(string(e.ID), str(e.Name), num(e.Azimuth, 1), num(e.Length, 2), num(e.Height, 2),
			num(e.GrossArea, 2), num(e.OpeningArea, 2), num(e.NetArea, 2))
	}
	if err := t.flush(); err != nil {
		return err
	}
	return writeElementIssues(w, walls)
}

func WriteWindows(w io.Writer, windows []extract.Element) error {
	t := newTable(w, "ID", "Name", "HostWall", "Azimuth", "Width", "Height", "Area")
	for _, e := range windows {
		t.row(string(e.ID), str(e.Name), str(string(e.HostWall)), num(e.Azimuth, 1),
			num(e.Width, 2), num(e.Height, 2), num(e.GrossArea, 2))
	}
	if err := t.flush(); err != nil {
		return err
	}
	return writeElementIssues(w, windows)
}

func WriteRoofs(w io.Writer, roofs []extract.Element) error {
	t := newTable(w, "ID", "Name", "Azimuth", "Tilt", "PitchSource", "GrossArea")
	for _, e := range roofs {
		t.row(string(e.ID), str(e.Name), num(e.Azimuth, 1), num(e.Tilt, 1),
			str(e.PitchSource), num(e.GrossArea, 2))
	}
	if err := t.flush(); err != nil {
		return err
	}
	return writeElementIssues(w, roofs)
}

// WriteGeneration writes one row per record of run plus a total.
func WriteGeneration(w io.Writer, run *pv.Run) error {
	t := newTable(w, "ID", "Kind", "Area", "Tilt", "Azimuth", "AnnualEnergyAC_kWh")
	for _, r := range run.Records {
		t.row(str(r.ID), str(string(r.Kind)), num(r.Area, 2), num(r.Tilt, 1), num(r.Azimuth, 1),
			num(r.AnnualEnergyAC, 1))
	}
	total := run.TotalAC()
	t.row("total", "", "", "", "", num(&total, 1))
	if err := t.flush(); err != nil {
		return err
	}
	var issues []string
	for _, r := range run.Records {
		if r.Issue != "" {
			issues = append(issues, r.ID+": "+r.Issue)
		}
	}
	return writeIssues(w, "", issues)
}

func writeElementIssues(w io.Writer, elems []extract.Element) error {
	for _, e := range elems {
		if err := writeIssues(w, string(e.ID)+": ", e.Issues); err != nil {
			return err
		}
	}
	return nil
}

func writeIssues(w io.Writer, prefix string, issues []string) error {
	for _, is := range issues {
		if _, err := fmt.Fprintf(w, "  note: %s%s\n", prefix, is); err != nil {
			return err
		}
	}
	return nil
}

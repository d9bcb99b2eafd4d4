// Package dataset reads plot data from comma separated files.
//
// Every file is one time step of the same table. An optional header names the
// attributes; it is detected by its first field not parsing as a number.
// Records with the wrong field count or a value that does not parse are
// skipped, as are blank lines.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aclements/go-moremath/stats"
	"github.com/charmbracelet/log"
	"github.com/sourcegraph/conc/iter"

	"dasa.cc/pcv/plot"
)

var ErrSteps = errors.New("dataset: time steps differ")

// Table is one parsed file.
type Table struct {
	Names   []string
	Values  []float32 // row-major
	Attrs   int
	Skipped int
}

// Rows returns the number of records in t.
func (t Table) Rows() int {
	if t.Attrs == 0 {
		return 0
	}
	return len(t.Values) / t.Attrs
}

// Read parses r. Attribute count is taken from the header or the first record.
func Read(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var t Table
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return t, fmt.Errorf("dataset: %w", err)
		}
		if t.Attrs == 0 {
			t.Attrs = len(rec)
			if _, err := parse(rec[0]); err != nil {
				t.Names = make([]string, len(rec))
				for i, s := range rec {
					t.Names[i] = strings.TrimSpace(s)
				}
				continue
			}
		}
		if len(rec) != t.Attrs {
			t.Skipped++
			continue
		}
		row := make([]float32, 0, len(rec))
		for _, s := range rec {
			v, err := parse(s)
			if err != nil {
				break
			}
			row = append(row, v)
		}
		if len(row) != t.Attrs {
			t.Skipped++
			continue
		}
		t.Values = append(t.Values, row...)
	}
	if len(t.Values) == 0 {
		return t, plot.ErrEmpty
	}
	return t, nil
}

func parse(s string) (float32, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	return float32(v), err
}

// ReadFile parses the file at path.
func ReadFile(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, err
	}
	defer f.Close()
	t, err := Read(f)
	if err != nil {
		return t, fmt.Errorf("%s: %w", path, err)
	}
	if t.Skipped != 0 {
		log.Warn("skipped malformed records", "path", path, "count", t.Skipped)
	}
	return t, nil
}

// Load reads each path as a consecutive time step and fits ranges over all of
// them. Files are parsed concurrently.
func Load(paths ...string) (plot.Data, error) {
	if len(paths) == 0 {
		return plot.Data{}, plot.ErrEmpty
	}
	tables, err := iter.MapErr(paths, func(path *string) (Table, error) {
		return ReadFile(*path)
	})
	if err != nil {
		return plot.Data{}, err
	}
	d, err := Join(tables...)
	if err != nil {
		return d, err
	}
	log.Debug("dataset loaded", "files", len(paths), "rows", d.Rows, "attrs", d.Attrs, "steps", d.Steps)
	return d, nil
}

// Join stacks tables as time steps. All tables must have the same shape.
func Join(tables ...Table) (plot.Data, error) {
	if len(tables) == 0 {
		return plot.Data{}, plot.ErrEmpty
	}
	first := tables[0]
	d := plot.Data{
		Names: first.Names,
		Attrs: first.Attrs,
		Rows:  first.Rows(),
		Steps: len(tables),
	}
	for i, t := range tables {
		if t.Attrs != d.Attrs || t.Rows() != d.Rows {
			return plot.Data{}, fmt.Errorf("%w: step %v has %v rows by %v attributes, want %v by %v",
				ErrSteps, i, t.Rows(), t.Attrs, d.Rows, d.Attrs)
		}
		d.Values = append(d.Values, t.Values...)
	}
	d.FitRanges()
	if err := d.Validate(); err != nil {
		return plot.Data{}, err
	}
	return d, nil
}

// Repeat returns d with its first step repeated n times, so a single table
// still has a time axis to expand.
func Repeat(d plot.Data, n int) plot.Data {
	if n < 1 {
		n = 1
	}
	step := d.Values[:d.Rows*d.Attrs]
	out := d
	out.Values = make([]float32, 0, n*len(step))
	for i := 0; i < n; i++ {
		out.Values = append(out.Values, step...)
	}
	out.Steps = n
	return out
}

// Summary describes one attribute at one time step.
type Summary struct {
	Name      string
	Min, Max  float64
	Mean, Std float64
}

// Summarize returns a summary per attribute of step.
func Summarize(d plot.Data, step int) []Summary {
	out := make([]Summary, d.Attrs)
	xs := make([]float64, d.Rows)
	for a := range out {
		for row := range xs {
			xs[row] = float64(d.Value(step, row, a))
		}
		s := Summary{Name: d.Name(a), Mean: stats.Mean(xs)}
		s.Min, s.Max = stats.Bounds(xs)
		if len(xs) > 1 {
			s.Std = stats.StdDev(xs)
		}
		out[a] = s
	}
	return out
}


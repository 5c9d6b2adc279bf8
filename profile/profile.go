// Package profile summarizes generated survey datasets: per-column
// summary statistics, level frequency tables, and the binary base
// rates used to sanity-check a synthesis run.
package profile

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/churnlab/margins/pkg/errors"
	"github.com/churnlab/margins/survey"
)

// LevelCount is one row of a frequency table.
type LevelCount struct {
	Level int
	Count int
	Share float64
}

// ColumnProfile summarizes a single survey column.
type ColumnProfile struct {
	Name   string
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Median float64
	Max    float64
	Levels []LevelCount
}

// Report is the whole-dataset profile.
type Report struct {
	Rows         int
	Columns      []ColumnProfile
	ReferRate    float64
	TurnoverRate float64
}

// Profile computes summary statistics and frequency tables for every
// survey column.
func Profile(ds *survey.Dataset) (*Report, error) {
	if ds == nil || ds.Len() == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "in profile.Profile")
	}

	report := &Report{Rows: ds.Len()}
	for _, name := range []string{survey.VarRefer, survey.VarJobSat, survey.VarTurnover} {
		column, err := ds.Column(name)
		if err != nil {
			return nil, err
		}
		cp, err := profileColumn(name, column)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to profile column %s", name)
		}
		report.Columns = append(report.Columns, cp)
	}

	report.ReferRate = levelShare(report.Columns[0].Levels, 1)
	report.TurnoverRate = levelShare(report.Columns[2].Levels, 1)
	return report, nil
}

func profileColumn(name string, column []float64) (ColumnProfile, error) {
	cp := ColumnProfile{Name: name, Count: len(column)}

	var err error
	if cp.Mean, err = stats.Mean(column); err != nil {
		return cp, err
	}
	if cp.StdDev, err = stats.StandardDeviationSample(column); err != nil || math.IsNaN(cp.StdDev) {
		// A single row has no sample deviation; report zero spread.
		cp.StdDev = 0
	}
	if cp.Min, err = stats.Min(column); err != nil {
		return cp, err
	}
	if cp.Median, err = stats.Median(column); err != nil {
		return cp, err
	}
	if cp.Max, err = stats.Max(column); err != nil {
		return cp, err
	}

	counts := make(map[int]int)
	for _, v := range column {
		counts[int(v)]++
	}
	levels := make([]int, 0, len(counts))
	for level := range counts {
		levels = append(levels, level)
	}
	sort.Ints(levels)
	for _, level := range levels {
		cp.Levels = append(cp.Levels, LevelCount{
			Level: level,
			Count: counts[level],
			Share: float64(counts[level]) / float64(len(column)),
		})
	}

	return cp, nil
}

func levelShare(levels []LevelCount, level int) float64 {
	for _, l := range levels {
		if l.Level == level {
			return l.Share
		}
	}
	return 0
}

// String renders the profile as a fixed-width report.
func (r *Report) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Dataset profile, %d rows\n\n", r.Rows)
	fmt.Fprintf(&b, "%-10s %6s %8s %8s %6s %8s %6s\n",
		"column", "count", "mean", "sd", "min", "median", "max")
	for _, c := range r.Columns {
		fmt.Fprintf(&b, "%-10s %6d %8.4f %8.4f %6g %8g %6g\n",
			c.Name, c.Count, c.Mean, c.StdDev, c.Min, c.Median, c.Max)
	}

	for _, c := range r.Columns {
		fmt.Fprintf(&b, "\n%s levels\n", c.Name)
		for _, l := range c.Levels {
			fmt.Fprintf(&b, "  %d: %6d (%5.1f%%)\n", l.Level, l.Count, 100*l.Share)
		}
	}

	fmt.Fprintf(&b, "\nrefer==1:    %5.1f%%\n", 100*r.ReferRate)
	fmt.Fprintf(&b, "turnover==1: %5.1f%%\n", 100*r.TurnoverRate)

	return b.String()
}

package survey

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/churnlab/margins/core/parallel"
	"github.com/churnlab/margins/pkg/errors"
)

// satisfactionLevels is the number of ordinal jobsat bins.
const satisfactionLevels = 5

// discretizeThreshold is the row count above which the per-row coding
// loops run chunked across cores.
const discretizeThreshold = 2048

// binaryQuantileCode cuts a continuous column into binary codes. The
// cut point is the empirical quantile at the level where the column's
// own sample mean sits on its ECDF, shifted by shift and clamped to
// [0, 1]. Values at or below the cut code 1, values above it code 0:
// the low side of the cut carries the affirmative label.
func binaryQuantileCode(column []float64, shift float64) []int {
	sorted := append([]float64(nil), column...)
	sort.Float64s(sorted)

	level := stat.CDF(stat.Mean(column, nil), stat.Empirical, sorted, nil) + shift
	level = errors.ClipValue(level, 0, 1)
	cut := stat.Quantile(level, stat.Empirical, sorted, nil)

	codes := make([]int, len(column))
	parallel.ParallelizeWithThreshold(len(column), discretizeThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			if column[i] <= cut {
				codes[i] = 1
			}
		}
	})
	return codes
}

// satisfactionBins maps a continuous column to 1-5 satisfaction
// scores. The column is reflected and square-rooted
// (sqrt(max+1-value)), which piles mass into the upper half of the
// transformed range, then cut into 5 equal-width bins labeled 1-5
// ascending on the transformed scale. Labels therefore run opposite
// to the raw draws; the skew toward high scores depends on it.
func satisfactionBins(column []float64) []int {
	colMax := floats.Max(column)
	skewed := make([]float64, len(column))
	for i, v := range column {
		skewed[i] = math.Sqrt(colMax + 1 - v)
	}

	lo := floats.Min(skewed)
	width := (floats.Max(skewed) - lo) / satisfactionLevels

	labels := make([]int, len(column))
	if width == 0 {
		// Constant column: every respondent lands in the first bin.
		for i := range labels {
			labels[i] = 1
		}
		return labels
	}

	parallel.ParallelizeWithThreshold(len(column), discretizeThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			idx := int((skewed[i] - lo) / width)
			if idx >= satisfactionLevels {
				idx = satisfactionLevels - 1
			}
			labels[i] = idx + 1
		}
	})
	return labels
}

package glm

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/churnlab/margins/pkg/errors"
)

// Grid returns the cartesian product of per-feature level lists as a
// design matrix, one row per combination. The first feature varies
// slowest, so rows group naturally by the leading feature.
func Grid(levels ...[]float64) (*mat.Dense, error) {
	if len(levels) == 0 {
		return nil, errors.NewValueError("glm.Grid", "at least one feature is required")
	}
	rows := 1
	for i, l := range levels {
		if len(l) == 0 {
			return nil, errors.NewValueError("glm.Grid", fmt.Sprintf("feature %d has no levels", i))
		}
		rows *= len(l)
	}

	grid := mat.NewDense(rows, len(levels), nil)
	repeat := rows
	for j, l := range levels {
		repeat /= len(l)
		for i := 0; i < rows; i++ {
			grid.Set(i, j, l[(i/repeat)%len(l)])
		}
	}
	return grid, nil
}

// AtMeans returns a single-row grid holding the column means of X,
// the usual reference point for adjusted predictions.
func AtMeans(X mat.Matrix) (*mat.Dense, error) {
	n, d := X.Dims()
	if n == 0 || d == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "in glm.AtMeans")
	}

	row := make([]float64, d)
	col := make([]float64, n)
	for j := 0; j < d; j++ {
		mat.Col(col, j, X)
		row[j] = stat.Mean(col, nil)
	}
	return mat.NewDense(1, d, row), nil
}

// MarginEstimate is the predicted probability at one covariate
// combination with its confidence bounds.
type MarginEstimate struct {
	Covariates  []float64
	Link        float64 // linear predictor
	SELink      float64 // standard error on the link scale
	Probability float64
	Lower       float64
	Upper       float64
}

// MarginsTable holds per-row predicted probabilities over a grid.
type MarginsTable struct {
	FeatureNames    []string
	ConfidenceLevel float64
	Estimates       []MarginEstimate
}

// Margins computes the predicted probability and its confidence
// bounds for every row of the grid. Bounds are built on the link
// scale, se = sqrt(x'Vx) with V the coefficient covariance, and
// mapped through the sigmoid, so they always stay inside (0, 1).
func (l *Logit) Margins(grid mat.Matrix) (mt *MarginsTable, err error) {
	defer errors.Recover(&err, "Logit.Margins")

	if !l.state.IsFitted() {
		return nil, errors.NewNotFittedError("Logit", "Margins")
	}

	n, d := grid.Dims()
	if d != l.nFeatures_ {
		return nil, errors.NewDimensionError("Logit.Margins", l.nFeatures_, d, 1)
	}

	zcrit := distuv.UnitNormal.Quantile(1 - (1-l.confidenceLevel)/2)
	p := len(l.stdErr_)

	xa := mat.NewVecDense(p, nil)
	var vx mat.VecDense
	estimates := make([]MarginEstimate, n)
	for i := 0; i < n; i++ {
		off := 0
		if l.fitIntercept {
			xa.SetVec(0, 1)
			off = 1
		}
		link := l.intercept_
		covariates := make([]float64, d)
		for j := 0; j < d; j++ {
			v := grid.At(i, j)
			covariates[j] = v
			xa.SetVec(off+j, v)
			link += v * l.coef_[j]
		}

		vx.MulVec(l.cov_, xa)
		variance := mat.Dot(xa, &vx)
		if variance < 0 {
			variance = 0
		}
		se := math.Sqrt(variance)

		estimates[i] = MarginEstimate{
			Covariates:  covariates,
			Link:        link,
			SELink:      se,
			Probability: sigmoid(link),
			Lower:       sigmoid(link - zcrit*se),
			Upper:       sigmoid(link + zcrit*se),
		}
	}

	names := make([]string, d)
	for j := range names {
		names[j] = l.featureName(j)
	}
	return &MarginsTable{
		FeatureNames:    names,
		ConfidenceLevel: l.confidenceLevel,
		Estimates:       estimates,
	}, nil
}

// String renders the margins table with one row per grid point.
func (mt *MarginsTable) String() string {
	var b strings.Builder

	for _, name := range mt.FeatureNames {
		fmt.Fprintf(&b, "%-10s", name)
	}
	fmt.Fprintf(&b, "%10s %10s  %g%% CI\n", "Pr(y=1)", "SE(link)", mt.ConfidenceLevel*100)

	for _, e := range mt.Estimates {
		for _, v := range e.Covariates {
			fmt.Fprintf(&b, "%-10g", v)
		}
		fmt.Fprintf(&b, "%10.4f %10.4f  [%.4f, %.4f]\n", e.Probability, e.SELink, e.Lower, e.Upper)
	}

	return b.String()
}

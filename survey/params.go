// Package survey generates synthetic employee-turnover survey data.
//
// A run draws n respondents from a multivariate normal distribution
// over three latent variables (refer, jobsat, turnover) and
// discretizes each draw into the categorical survey answers: refer
// and turnover become binary codes, jobsat becomes a 1-5 satisfaction
// score skewed toward the upper bins. The same parameters and seed
// always reproduce the same dataset.
package survey

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/churnlab/margins/pkg/errors"
)

// Variable names in their fixed column order.
const (
	VarRefer    = "refer"
	VarJobSat   = "jobsat"
	VarTurnover = "turnover"
)

// NumVariables is the number of survey variables.
const NumVariables = 3

// diagonalLoading is added to the covariance diagonal before sampling
// so that an ill-conditioned nominal covariance still factorizes.
const diagonalLoading = 0.1

// referQuantileShift is added to the mean-quantile level of the
// referral column, nudging the binary cut slightly above the median.
const referQuantileShift = 0.05

// Params specifies a generation run: the latent correlation structure,
// per-variable scale and location, the number of respondents, and the
// random seed.
type Params struct {
	// Variables holds the variable names in column order. Leave nil
	// for the default refer, jobsat, turnover ordering.
	Variables []string

	// Corr is the latent correlation matrix aligned to Variables.
	// A non-symmetric matrix is repaired by mirroring the lower
	// triangle onto the upper before use.
	Corr [][]float64

	// SD holds the latent standard deviations, strictly positive.
	SD []float64

	// Mean holds the latent means.
	Mean []float64

	// N is the number of respondents to generate.
	N int

	// Seed drives the sampler. The same seed and parameters
	// reproduce the same dataset byte for byte.
	Seed uint64
}

// DefaultParams returns the stock parameter set used throughout the
// examples: referrals and satisfaction move together, both cut
// against turnover.
func DefaultParams(n int, seed uint64) *Params {
	return &Params{
		Variables: []string{VarRefer, VarJobSat, VarTurnover},
		Corr: [][]float64{
			{1.0, 0.3, -0.3},
			{0.3, 1.0, -0.5},
			{-0.3, -0.5, 1.0},
		},
		SD:   []float64{1, 1, 1},
		Mean: []float64{0, 0, 0},
		N:    n,
		Seed: seed,
	}
}

// Dim returns the dimension of the correlation matrix.
func (p *Params) Dim() int {
	return len(p.Corr)
}

// Validate checks the parameter set and reports the first problem
// found. Nothing is generated from invalid parameters.
func (p *Params) Validate() error {
	dim := len(p.Corr)
	if dim != NumVariables {
		return errors.NewValidationError("corr",
			fmt.Sprintf("correlation matrix must be %dx%d (refer, jobsat, turnover), got %d rows", NumVariables, NumVariables, dim), nil)
	}

	for i, row := range p.Corr {
		if len(row) != dim {
			return errors.NewValidationError("corr",
				fmt.Sprintf("correlation matrix must be square: row %d has %d entries, want %d", i, len(row), dim), nil)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errors.NewValidationError("corr",
					fmt.Sprintf("correlation entry (%d,%d) is not finite", i, j), v)
			}
			if v < -1 || v > 1 {
				return errors.NewValidationError("corr",
					fmt.Sprintf("correlation entry (%d,%d) outside [-1, 1]", i, j), v)
			}
		}
	}

	if len(p.SD) != dim {
		return errors.NewValidationError("sd",
			fmt.Sprintf("length %d does not match matrix dimension %d", len(p.SD), dim), nil)
	}
	for i, sd := range p.SD {
		if math.IsNaN(sd) || math.IsInf(sd, 0) {
			return errors.NewValidationError("sd", fmt.Sprintf("entry %d is not finite", i), sd)
		}
		if sd <= 0 {
			return errors.NewValidationError("sd", fmt.Sprintf("entry %d must be strictly positive", i), sd)
		}
	}

	if len(p.Mean) != dim {
		return errors.NewValidationError("mean",
			fmt.Sprintf("length %d does not match matrix dimension %d", len(p.Mean), dim), nil)
	}
	for i, m := range p.Mean {
		if math.IsNaN(m) || math.IsInf(m, 0) {
			return errors.NewValidationError("mean", fmt.Sprintf("entry %d is not finite", i), m)
		}
	}

	if p.Variables != nil && len(p.Variables) != dim {
		return errors.NewValidationError("variables",
			fmt.Sprintf("length %d does not match matrix dimension %d", len(p.Variables), dim), nil)
	}

	if p.N <= 0 {
		return errors.NewValidationError("n", "number of respondents must be positive", p.N)
	}

	return nil
}

// VariableNames returns the variable names in column order, falling
// back to the default ordering when none were set.
func (p *Params) VariableNames() []string {
	if p.Variables != nil {
		names := make([]string, len(p.Variables))
		copy(names, p.Variables)
		return names
	}
	return []string{VarRefer, VarJobSat, VarTurnover}
}

// symmetrized returns the correlation matrix with the lower triangle
// mirrored onto the upper. The input is not modified.
func (p *Params) symmetrized() [][]float64 {
	dim := len(p.Corr)
	out := make([][]float64, dim)
	for i := range out {
		out[i] = make([]float64, dim)
		copy(out[i], p.Corr[i])
	}
	for i := 0; i < dim; i++ {
		for j := i + 1; j < dim; j++ {
			out[i][j] = out[j][i]
		}
	}
	return out
}

// Covariance builds the sampling covariance: corr[i][j]*sd[i]*sd[j]
// with the diagonal loading added. The sampler never sees the
// unloaded matrix, so a singular nominal covariance still works.
func (p *Params) Covariance() *mat.SymDense {
	dim := len(p.Corr)
	corr := p.symmetrized()

	cov := mat.NewSymDense(dim, nil)
	for i := 0; i < dim; i++ {
		for j := i; j < dim; j++ {
			v := corr[i][j] * p.SD[i] * p.SD[j]
			if i == j {
				v += diagonalLoading
			}
			cov.SetSym(i, j, v)
		}
	}
	return cov
}

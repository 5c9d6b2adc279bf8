package survey

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/churnlab/margins/pkg/errors"
)

// Generate draws p.N respondents from the multivariate normal implied
// by the parameters and discretizes them into survey records.
//
// The pipeline runs once per call: validate, build the loaded
// covariance, sample, discretize each column, assemble records. No
// intermediate state survives the call, and the same parameters and
// seed always produce the same dataset.
//
// Returns an invalid-parameters error before any sampling when the
// parameters fail Validate, and a degenerate-distribution error when
// the loaded covariance is still rejected by the sampler.
func Generate(p *Params) (ds *Dataset, err error) {
	defer errors.Recover(&err, "survey.Generate")

	if err := p.Validate(); err != nil {
		return nil, err
	}

	cov := p.Covariance()
	src := rand.NewPCG(p.Seed, p.Seed)
	normal, ok := distmv.NewNormal(p.Mean, cov, src)
	if !ok {
		return nil, errors.NewDegenerateDistributionError("survey.Generate", p.Dim(), "")
	}

	raw := mat.NewDense(p.N, NumVariables, nil)
	row := make([]float64, NumVariables)
	for i := 0; i < p.N; i++ {
		normal.Rand(row)
		raw.SetRow(i, row)
	}

	// The loading keeps the sampler well-conditioned, so a non-finite
	// draw means something upstream is broken. Never emit NaNs.
	if err := errors.CheckMatrix("survey.Generate", raw, p.N, NumVariables, 0); err != nil {
		return nil, err
	}

	refer := binaryQuantileCode(mat.Col(nil, 0, raw), referQuantileShift)
	jobsat := satisfactionBins(mat.Col(nil, 1, raw))
	turnover := binaryQuantileCode(mat.Col(nil, 2, raw), 0)

	records := make([]Record, p.N)
	for i := range records {
		records[i] = Record{
			Refer:    refer[i],
			JobSat:   jobsat[i],
			Turnover: turnover[i],
		}
	}

	return &Dataset{Records: records}, nil
}

package glm

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/churnlab/margins/pkg/errors"
)

// CoefficientReport is one row of the coefficient table.
type CoefficientReport struct {
	Term      string
	Estimate  float64
	StdError  float64
	Z         float64
	P         float64
	OddsRatio float64
	OddsLower float64
	OddsUpper float64
}

// Summary is the fit report: the coefficient table plus the
// whole-model statistics.
type Summary struct {
	Terms           []CoefficientReport
	NObs            int
	Deviance        float64
	NullDeviance    float64
	PseudoR2        float64
	AIC             float64
	Iterations      int
	Converged       bool
	ConfidenceLevel float64
}

// Summary assembles the coefficient table: Wald z and p-values per
// term, odds ratios exp(b), and odds-ratio intervals
// exp(b ± z*se) at the configured confidence level.
func (l *Logit) Summary() (*Summary, error) {
	if !l.state.IsFitted() {
		return nil, errors.NewNotFittedError("Logit", "Summary")
	}

	zcrit := distuv.UnitNormal.Quantile(1 - (1-l.confidenceLevel)/2)

	estimates := make([]float64, 0, len(l.stdErr_))
	names := make([]string, 0, len(l.stdErr_))
	if l.fitIntercept {
		estimates = append(estimates, l.intercept_)
		names = append(names, "(Intercept)")
	}
	for j, c := range l.coef_ {
		estimates = append(estimates, c)
		names = append(names, l.featureName(j))
	}

	terms := make([]CoefficientReport, len(estimates))
	for i, est := range estimates {
		se := l.stdErr_[i]
		z := errors.SafeDivide(est, se)
		terms[i] = CoefficientReport{
			Term:      names[i],
			Estimate:  est,
			StdError:  se,
			Z:         z,
			P:         2 * distuv.UnitNormal.Survival(math.Abs(z)),
			OddsRatio: errors.StabilizeExp(est),
			OddsLower: errors.StabilizeExp(est - zcrit*se),
			OddsUpper: errors.StabilizeExp(est + zcrit*se),
		}
	}

	return &Summary{
		Terms:           terms,
		NObs:            l.nSamples_,
		Deviance:        l.deviance_,
		NullDeviance:    l.nullDeviance_,
		PseudoR2:        l.PseudoR2(),
		AIC:             l.AIC(),
		Iterations:      l.nIter_,
		Converged:       l.converged_,
		ConfidenceLevel: l.confidenceLevel,
	}, nil
}

// featureName returns the label for design-matrix column j.
func (l *Logit) featureName(j int) string {
	if l.featureNames != nil {
		return l.featureNames[j]
	}
	return fmt.Sprintf("x%d", j+1)
}

// String renders the summary as a fixed-width table.
func (s *Summary) String() string {
	var b strings.Builder

	status := fmt.Sprintf("converged in %d iterations", s.Iterations)
	if !s.Converged {
		status = fmt.Sprintf("did not converge within %d iterations", s.Iterations)
	}
	fmt.Fprintf(&b, "Binary logit, %d observations, IRLS %s\n", s.NObs, status)
	fmt.Fprintf(&b, "Deviance: %.3f  Null deviance: %.3f  McFadden R2: %.4f  AIC: %.3f\n\n",
		s.Deviance, s.NullDeviance, s.PseudoR2, s.AIC)

	ciLabel := fmt.Sprintf("%g%% odds CI", s.ConfidenceLevel*100)
	fmt.Fprintf(&b, "%-14s %10s %10s %8s %8s %10s  %s\n",
		"Term", "Estimate", "Std.Err", "z", "P>|z|", "Odds", ciLabel)
	for _, t := range s.Terms {
		fmt.Fprintf(&b, "%-14s %10.4f %10.4f %8.3f %8.4f %10.4f  [%.4f, %.4f]\n",
			t.Term, t.Estimate, t.StdError, t.Z, t.P, t.OddsRatio, t.OddsLower, t.OddsUpper)
	}

	return b.String()
}

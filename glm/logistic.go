// Package glm fits binary logistic regression and turns the fit into
// the quantities analysts actually read: coefficient summaries with
// odds ratios, and predicted probabilities with confidence bounds
// over covariate grids.
package glm

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/churnlab/margins/core/model"
	"github.com/churnlab/margins/core/parallel"
	"github.com/churnlab/margins/pkg/errors"
)

// irlsParallelThreshold is the row count above which the per-iteration
// accumulation runs chunked across cores.
const irlsParallelThreshold = 4096

// weightFloor keeps the working weights away from zero when fitted
// probabilities saturate.
const weightFloor = 1e-10

// Logit is a binary logistic regression estimator fitted by
// iteratively reweighted least squares (Newton-Raphson on the logit
// likelihood). The target must be coded 0/1.
//
// Beyond point predictions it keeps the full coefficient covariance
// (the inverse Fisher information), so standard errors, odds-ratio
// intervals, and margins bounds all come from one fit.
type Logit struct {
	state *model.StateManager

	// Hyperparameters
	maxIter         int
	tol             float64
	fitIntercept    bool
	confidenceLevel float64
	featureNames    []string

	// Fitted parameters
	coef_         []float64     // slope coefficients, one per feature
	intercept_    float64       // 0 when fitIntercept is false
	cov_          *mat.SymDense // coefficient covariance, intercept first
	stdErr_       []float64     // sqrt of the covariance diagonal
	deviance_     float64
	nullDeviance_ float64
	nIter_        int
	converged_    bool
	nSamples_     int
	nFeatures_    int
}

// NewLogit creates a Logit with the house defaults: intercept on,
// 25 IRLS iterations, deviance tolerance 1e-8, 95% intervals.
func NewLogit(opts ...LogitOption) *Logit {
	l := &Logit{
		state:           model.NewStateManager(),
		maxIter:         25,
		tol:             1e-8,
		fitIntercept:    true,
		confidenceLevel: 0.95,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Fit estimates the coefficients of turnover-style binary outcomes:
// y must be an n x 1 matrix of 0/1 codes aligned to the rows of X.
//
// Hitting the iteration cap is not an error; it emits a convergence
// warning through the package warning hook and keeps the last
// estimates. Singular weighted normal equations (typically complete
// separation) abort the fit.
func (l *Logit) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "Logit.Fit")

	if l.maxIter < 1 {
		return errors.NewValueError("Logit.Fit", "max_iter must be at least 1")
	}
	if l.tol <= 0 {
		return errors.NewValueError("Logit.Fit", "tol must be strictly positive")
	}
	if l.confidenceLevel <= 0 || l.confidenceLevel >= 1 {
		return errors.NewValueError("Logit.Fit", "confidence_level must lie in (0, 1)")
	}

	n, d := X.Dims()
	if n == 0 || d == 0 {
		return errors.Wrap(errors.ErrEmptyData, "in Logit.Fit")
	}
	yr, yc := y.Dims()
	if yc != 1 {
		return errors.NewDimensionError("Logit.Fit", 1, yc, 1)
	}
	if yr != n {
		return errors.NewDimensionError("Logit.Fit", n, yr, 0)
	}
	if l.featureNames != nil && len(l.featureNames) != d {
		return errors.NewValidationError("feature_names",
			fmt.Sprintf("%d names for %d features", len(l.featureNames), d), nil)
	}

	yv := make([]float64, n)
	positives := 0
	for i := 0; i < n; i++ {
		v := y.At(i, 0)
		if v != 0 && v != 1 {
			return errors.NewValueError("Logit.Fit",
				fmt.Sprintf("target must be coded 0/1, found %v at row %d", v, i))
		}
		yv[i] = v
		if v == 1 {
			positives++
		}
	}
	if positives == 0 || positives == n {
		return errors.NewValueError("Logit.Fit", "target holds a single class; the logit is undefined")
	}

	p := d
	if l.fitIntercept {
		p = d + 1
	}
	if n <= p {
		return errors.NewValueError("Logit.Fit",
			fmt.Sprintf("need more samples than parameters: %d samples, %d parameters", n, p))
	}

	// Design matrix with the intercept column first.
	Xa := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		off := 0
		if l.fitIntercept {
			Xa.Set(i, 0, 1)
			off = 1
		}
		for j := 0; j < d; j++ {
			Xa.Set(i, off+j, X.At(i, j))
		}
	}
	if err := errors.CheckMatrix("Logit.Fit", Xa, n, p, 0); err != nil {
		return err
	}

	beta := make([]float64, p)
	eta := make([]float64, n)
	mu := make([]float64, n)
	linearPredictor(Xa, beta, eta, mu)
	dev := binomialDeviance(yv, mu)

	var chol mat.Cholesky
	l.converged_ = false
	for iter := 1; iter <= l.maxIter; iter++ {
		H, g := weightedNormalEquations(Xa, yv, eta, mu)
		if ok := chol.Factorize(H); !ok {
			return errors.Wrapf(errors.ErrSingularMatrix,
				"weighted normal equations singular at iteration %d in Logit.Fit", iter)
		}

		var sol mat.VecDense
		if err := chol.SolveVecTo(&sol, g); err != nil {
			return errors.Wrapf(err, "failed to solve normal equations at iteration %d", iter)
		}
		for j := 0; j < p; j++ {
			beta[j] = sol.AtVec(j)
		}
		if err := errors.CheckNumericalStability("Logit.Fit", beta, iter); err != nil {
			return err
		}

		linearPredictor(Xa, beta, eta, mu)
		newDev := binomialDeviance(yv, mu)
		if err := errors.CheckScalar("Logit.Fit", newDev, iter); err != nil {
			return err
		}

		l.nIter_ = iter
		if math.Abs(newDev-dev)/(math.Abs(newDev)+0.1) < l.tol {
			l.converged_ = true
			dev = newDev
			break
		}
		dev = newDev
	}

	if !l.converged_ {
		errors.Warn(errors.NewConvergenceWarning("IRLS", l.maxIter,
			"deviance did not stabilize; estimates may be unreliable"))
	}

	// Covariance of the estimates: inverse Fisher information at the
	// final weights.
	H, _ := weightedNormalEquations(Xa, yv, eta, mu)
	if ok := chol.Factorize(H); !ok {
		return errors.Wrap(errors.ErrSingularMatrix, "Fisher information singular after fitting")
	}
	cov := mat.NewSymDense(p, nil)
	if err := chol.InverseTo(cov); err != nil {
		return errors.Wrap(err, "failed to invert Fisher information")
	}

	l.cov_ = cov
	l.stdErr_ = make([]float64, p)
	for j := 0; j < p; j++ {
		l.stdErr_[j] = math.Sqrt(cov.At(j, j))
	}

	if l.fitIntercept {
		l.intercept_ = beta[0]
		l.coef_ = append([]float64(nil), beta[1:]...)
	} else {
		l.intercept_ = 0
		l.coef_ = append([]float64(nil), beta...)
	}

	l.deviance_ = dev
	l.nullDeviance_ = nullDeviance(yv, l.fitIntercept)
	l.nSamples_ = n
	l.nFeatures_ = d

	l.state.SetDimensions(d, n)
	l.state.SetFitted()
	return nil
}

// linearPredictor fills eta with Xa*beta and mu with sigmoid(eta).
func linearPredictor(Xa *mat.Dense, beta, eta, mu []float64) {
	n, p := Xa.Dims()
	parallel.ParallelizeWithThreshold(n, irlsParallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			row := Xa.RawRowView(i)
			z := 0.0
			for j := 0; j < p; j++ {
				z += row[j] * beta[j]
			}
			eta[i] = z
			mu[i] = sigmoid(z)
		}
	})
}

// weightedNormalEquations builds XᵀWX and XᵀWz for the working
// response z = eta + (y-mu)/w with w = mu(1-mu). Chunk partials merge
// in row order so repeated fits agree bit for bit.
func weightedNormalEquations(Xa *mat.Dense, y, eta, mu []float64) (*mat.SymDense, *mat.VecDense) {
	n, p := Xa.Dims()

	type chunk struct {
		start int
		h, g  []float64
	}
	var acc sync.Mutex
	var chunks []chunk

	parallel.ParallelizeWithThreshold(n, irlsParallelThreshold, func(start, end int) {
		localH := make([]float64, p*p)
		localG := make([]float64, p)
		for i := start; i < end; i++ {
			row := Xa.RawRowView(i)
			w := mu[i] * (1 - mu[i])
			if w < weightFloor {
				w = weightFloor
			}
			z := eta[i] + (y[i]-mu[i])/w
			for j := 0; j < p; j++ {
				wx := w * row[j]
				localG[j] += wx * z
				for k := j; k < p; k++ {
					localH[j*p+k] += wx * row[k]
				}
			}
		}
		acc.Lock()
		chunks = append(chunks, chunk{start: start, h: localH, g: localG})
		acc.Unlock()
	})

	sort.Slice(chunks, func(a, b int) bool { return chunks[a].start < chunks[b].start })
	hData := make([]float64, p*p)
	gData := make([]float64, p)
	for _, c := range chunks {
		floats.Add(hData, c.h)
		floats.Add(gData, c.g)
	}

	H := mat.NewSymDense(p, nil)
	for j := 0; j < p; j++ {
		for k := j; k < p; k++ {
			H.SetSym(j, k, hData[j*p+k])
		}
	}
	return H, mat.NewVecDense(p, gData)
}

// binomialDeviance is -2 times the log likelihood of the fitted
// probabilities.
func binomialDeviance(y, mu []float64) float64 {
	dev := 0.0
	for i := range y {
		dev += y[i]*errors.StabilizeLog(mu[i]) + (1-y[i])*errors.StabilizeLog(1-mu[i])
	}
	return -2 * dev
}

// nullDeviance is the deviance of the trivial model: the base rate
// when an intercept is fitted, even odds otherwise.
func nullDeviance(y []float64, fitIntercept bool) float64 {
	p0 := 0.5
	if fitIntercept {
		p0 = floats.Sum(y) / float64(len(y))
	}
	mu := make([]float64, len(y))
	for i := range mu {
		mu[i] = p0
	}
	return binomialDeviance(y, mu)
}

// Predict returns the 0/1 class with the higher fitted probability
// for each row of X.
func (l *Logit) Predict(X mat.Matrix) (mat.Matrix, error) {
	proba, err := l.PredictProba(X)
	if err != nil {
		return nil, err
	}

	n, _ := proba.Dims()
	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		if proba.At(i, 1) >= 0.5 {
			out.Set(i, 0, 1)
		}
	}
	return out, nil
}

// PredictProba returns an n x 2 matrix of class probabilities:
// column 0 holds P(y=0), column 1 holds P(y=1).
func (l *Logit) PredictProba(X mat.Matrix) (m mat.Matrix, err error) {
	defer errors.Recover(&err, "Logit.PredictProba")

	if !l.state.IsFitted() {
		return nil, errors.NewNotFittedError("Logit", "PredictProba")
	}

	n, d := X.Dims()
	if d != l.nFeatures_ {
		return nil, errors.NewDimensionError("Logit.PredictProba", l.nFeatures_, d, 1)
	}

	out := mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		z := l.intercept_
		for j := 0; j < d; j++ {
			z += X.At(i, j) * l.coef_[j]
		}
		p1 := sigmoid(z)
		out.Set(i, 0, 1-p1)
		out.Set(i, 1, p1)
	}
	return out, nil
}

// Score returns the accuracy of thresholded predictions against y.
func (l *Logit) Score(X, y mat.Matrix) (float64, error) {
	pred, err := l.Predict(X)
	if err != nil {
		return 0, err
	}

	n, _ := pred.Dims()
	yr, _ := y.Dims()
	if yr != n {
		return 0, errors.NewDimensionError("Logit.Score", n, yr, 0)
	}

	correct := 0
	for i := 0; i < n; i++ {
		if pred.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// Classes returns the class labels in probability-column order.
func (l *Logit) Classes() []int {
	return []int{0, 1}
}

// IsFitted reports whether Fit has completed.
func (l *Logit) IsFitted() bool {
	return l.state.IsFitted()
}

// Coef returns the fitted slope coefficients.
func (l *Logit) Coef() []float64 {
	return append([]float64(nil), l.coef_...)
}

// Intercept returns the fitted intercept.
func (l *Logit) Intercept() float64 {
	return l.intercept_
}

// StdErrors returns the Wald standard errors, intercept first when an
// intercept was fitted.
func (l *Logit) StdErrors() []float64 {
	return append([]float64(nil), l.stdErr_...)
}

// CoefCovariance returns a copy of the coefficient covariance matrix,
// intercept first when an intercept was fitted.
func (l *Logit) CoefCovariance() *mat.SymDense {
	if l.cov_ == nil {
		return nil
	}
	p := l.cov_.SymmetricDim()
	out := mat.NewSymDense(p, nil)
	out.CopySym(l.cov_)
	return out
}

// Deviance returns the residual deviance of the fit.
func (l *Logit) Deviance() float64 { return l.deviance_ }

// NullDeviance returns the deviance of the intercept-only model.
func (l *Logit) NullDeviance() float64 { return l.nullDeviance_ }

// PseudoR2 returns McFadden's pseudo R-squared.
func (l *Logit) PseudoR2() float64 {
	return 1 - errors.SafeDivide(l.deviance_, l.nullDeviance_)
}

// AIC returns the Akaike information criterion of the fit.
func (l *Logit) AIC() float64 {
	return l.deviance_ + 2*float64(len(l.stdErr_))
}

// NIter returns the number of IRLS iterations run.
func (l *Logit) NIter() int { return l.nIter_ }

// Converged reports whether the deviance stabilized within the
// iteration cap.
func (l *Logit) Converged() bool { return l.converged_ }

// GetParams returns the model hyperparameters.
func (l *Logit) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"max_iter":         l.maxIter,
		"tol":              l.tol,
		"fit_intercept":    l.fitIntercept,
		"confidence_level": l.confidenceLevel,
	}
}

// SetParams sets the model hyperparameters. Numeric values arriving
// from a JSON round trip may be float64; both encodings are accepted.
func (l *Logit) SetParams(params map[string]interface{}) error {
	for key, value := range params {
		switch key {
		case "max_iter":
			v, err := asInt(key, value)
			if err != nil {
				return err
			}
			l.maxIter = v
		case "tol":
			v, err := asFloat(key, value)
			if err != nil {
				return err
			}
			l.tol = v
		case "fit_intercept":
			b, ok := value.(bool)
			if !ok {
				return errors.NewValueError("Logit.SetParams", fmt.Sprintf("%s must be a bool", key))
			}
			l.fitIntercept = b
		case "confidence_level":
			v, err := asFloat(key, value)
			if err != nil {
				return err
			}
			l.confidenceLevel = v
		default:
			return errors.NewValueError("Logit.SetParams", fmt.Sprintf("unknown parameter %q", key))
		}
	}
	return nil
}

func asFloat(key string, value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return 0, errors.NewValueError("Logit.SetParams", fmt.Sprintf("%s must be numeric", key))
	}
}

func asInt(key string, value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case float64:
		return int(v), nil
	default:
		return 0, errors.NewValueError("Logit.SetParams", fmt.Sprintf("%s must be numeric", key))
	}
}

// sigmoid computes the logistic function with overflow protection.
func sigmoid(z float64) float64 {
	return 1 / (1 + errors.StabilizeExp(-z))
}

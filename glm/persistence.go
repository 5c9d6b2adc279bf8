package glm

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/churnlab/margins/core/model"
	"github.com/churnlab/margins/pkg/errors"
)

const (
	modelType    = "Logit"
	modelVersion = "1.0.0"
)

// ExportWeights packs the fitted model into the weights envelope:
// coefficients, intercept, feature names, standard errors, and the
// coefficient covariance, plus the fit statistics as metadata. The
// envelope carries everything Summary and Margins need, so a loaded
// model can report intervals without refitting.
func (l *Logit) ExportWeights() (*model.ModelWeights, error) {
	if !l.state.IsFitted() {
		return nil, errors.NewNotFittedError("Logit", "ExportWeights")
	}

	p := len(l.stdErr_)
	cov := make([][]float64, p)
	for i := range cov {
		cov[i] = make([]float64, p)
		for j := 0; j < p; j++ {
			cov[i][j] = l.cov_.At(i, j)
		}
	}

	names := make([]string, l.nFeatures_)
	for j := range names {
		names[j] = l.featureName(j)
	}

	return &model.ModelWeights{
		ModelType:    modelType,
		Version:      modelVersion,
		Coefficients: append([]float64(nil), l.coef_...),
		Intercept:    l.intercept_,
		Features:     names,
		StdErrors:    append([]float64(nil), l.stdErr_...),
		Covariance:   cov,
		Hyperparameters: map[string]interface{}{
			"max_iter":         l.maxIter,
			"tol":              l.tol,
			"fit_intercept":    l.fitIntercept,
			"confidence_level": l.confidenceLevel,
		},
		Metadata: map[string]interface{}{
			"n_samples":     l.nSamples_,
			"deviance":      l.deviance_,
			"null_deviance": l.nullDeviance_,
			"iterations":    l.nIter_,
			"converged":     l.converged_,
		},
		IsFitted: true,
	}, nil
}

// ImportWeights restores a fitted model from an envelope, including
// the covariance needed for intervals.
func (l *Logit) ImportWeights(w *model.ModelWeights) error {
	if w == nil {
		return errors.NewValueError("Logit.ImportWeights", "weights must not be nil")
	}
	if err := w.Validate(); err != nil {
		return errors.Wrap(err, "invalid weights envelope")
	}
	if w.ModelType != modelType {
		return errors.NewValueError("Logit.ImportWeights",
			"envelope holds a "+w.ModelType+" model, want "+modelType)
	}
	if !w.IsFitted {
		return errors.NewValueError("Logit.ImportWeights", "envelope holds an unfitted model")
	}

	if hp := w.Hyperparameters; hp != nil {
		if err := l.SetParams(hp); err != nil {
			return err
		}
	}

	l.coef_ = append([]float64(nil), w.Coefficients...)
	l.intercept_ = w.Intercept
	l.nFeatures_ = len(w.Coefficients)
	l.featureNames = append([]string(nil), w.Features...)
	l.stdErr_ = append([]float64(nil), w.StdErrors...)

	p := len(w.Covariance)
	if p > 0 {
		cov := mat.NewSymDense(p, nil)
		for i := 0; i < p; i++ {
			for j := i; j < p; j++ {
				cov.SetSym(i, j, w.Covariance[i][j])
			}
		}
		l.cov_ = cov
	} else {
		l.cov_ = nil
	}

	if md := w.Metadata; md != nil {
		l.nSamples_ = intFromMetadata(md, "n_samples")
		l.deviance_ = floatFromMetadata(md, "deviance")
		l.nullDeviance_ = floatFromMetadata(md, "null_deviance")
		l.nIter_ = intFromMetadata(md, "iterations")
		if b, ok := md["converged"].(bool); ok {
			l.converged_ = b
		}
	}

	l.state.SetDimensions(l.nFeatures_, l.nSamples_)
	l.state.SetFitted()
	return nil
}

// Save writes the fitted model to a JSON artifact at path.
func (l *Logit) Save(path string) error {
	w, err := l.ExportWeights()
	if err != nil {
		return err
	}
	return model.SaveWeights(w, path)
}

// Load restores a fitted model from a JSON artifact at path.
func (l *Logit) Load(path string) error {
	w, err := model.LoadWeights(path)
	if err != nil {
		return err
	}
	return l.ImportWeights(w)
}

// JSON numbers decode as float64; direct exports keep Go ints. Both
// encodings are accepted.
func intFromMetadata(md map[string]interface{}, key string) int {
	switch v := md[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

func floatFromMetadata(md map[string]interface{}, key string) float64 {
	switch v := md[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return math.NaN()
	}
}

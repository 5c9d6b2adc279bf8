package glm

// LogitOption is a functional option for Logit.
type LogitOption func(*Logit)

// WithMaxIter sets the IRLS iteration cap.
func WithMaxIter(maxIter int) LogitOption {
	return func(l *Logit) {
		l.maxIter = maxIter
	}
}

// WithTol sets the relative deviance change below which the fit is
// declared converged.
func WithTol(tol float64) LogitOption {
	return func(l *Logit) {
		l.tol = tol
	}
}

// WithFitIntercept sets whether an intercept term is estimated.
func WithFitIntercept(fit bool) LogitOption {
	return func(l *Logit) {
		l.fitIntercept = fit
	}
}

// WithConfidenceLevel sets the level for odds-ratio and margins
// intervals, e.g. 0.95.
func WithConfidenceLevel(level float64) LogitOption {
	return func(l *Logit) {
		l.confidenceLevel = level
	}
}

// WithFeatureNames labels the design-matrix columns for summaries and
// margins tables.
func WithFeatureNames(names ...string) LogitOption {
	return func(l *Logit) {
		l.featureNames = append([]string(nil), names...)
	}
}

package glm

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/churnlab/margins/core/model"
	"github.com/churnlab/margins/pkg/errors"
)

// Logit must keep satisfying the estimator contracts in core/model.
var (
	_ model.Classifier      = (*Logit)(nil)
	_ model.ParameterGetter = (*Logit)(nil)
	_ model.ParameterSetter = (*Logit)(nil)
	_ model.Persistable     = (*Logit)(nil)
	_ model.WeightExporter  = (*Logit)(nil)
)

// cellDataset builds a design whose empirical cell rates match
// sigmoid(0 + ln4*x1 - ln4*x2) exactly, so the likelihood is
// maximized at those coefficients: 10 rows per covariate cell with
// 5, 8, 2, and 5 positive outcomes.
func cellDataset() (*mat.Dense, *mat.Dense) {
	cells := []struct {
		x1, x2    float64
		positives int
	}{
		{0, 0, 5},
		{1, 0, 8},
		{0, 1, 2},
		{1, 1, 5},
	}

	X := mat.NewDense(40, 2, nil)
	y := mat.NewDense(40, 1, nil)
	row := 0
	for _, c := range cells {
		for i := 0; i < 10; i++ {
			X.Set(row, 0, c.x1)
			X.Set(row, 1, c.x2)
			if i < c.positives {
				y.Set(row, 0, 1)
			}
			row++
		}
	}
	return X, y
}

// TestLogit_RecoverKnownCoefficients verifies the IRLS fit lands on
// the coefficients that generated the cell rates.
func TestLogit_RecoverKnownCoefficients(t *testing.T) {
	X, y := cellDataset()
	l := NewLogit(WithFeatureNames("refer", "jobsat"))

	if err := l.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}
	if !l.Converged() {
		t.Error("Fit on exact cell rates should converge")
	}

	ln4 := math.Log(4)
	if got := l.Intercept(); math.Abs(got) > 1e-4 {
		t.Errorf("Intercept = %v, want 0", got)
	}
	coef := l.Coef()
	if math.Abs(coef[0]-ln4) > 1e-4 {
		t.Errorf("coef[0] = %v, want ln4 = %v", coef[0], ln4)
	}
	if math.Abs(coef[1]+ln4) > 1e-4 {
		t.Errorf("coef[1] = %v, want -ln4 = %v", coef[1], -ln4)
	}

	if l.NIter() < 1 || l.NIter() > 25 {
		t.Errorf("NIter = %d, want within the iteration cap", l.NIter())
	}
	if l.Deviance() <= 0 || l.NullDeviance() <= l.Deviance() {
		t.Errorf("Deviance %v should be positive and below the null deviance %v",
			l.Deviance(), l.NullDeviance())
	}
	if r2 := l.PseudoR2(); r2 <= 0 || r2 >= 1 {
		t.Errorf("PseudoR2 = %v, want inside (0, 1)", r2)
	}
}

// TestLogit_PredictProba verifies the n x 2 probability layout and
// that column 1 equals the sigmoid of the linear predictor.
func TestLogit_PredictProba(t *testing.T) {
	X, y := cellDataset()
	l := NewLogit()
	if err := l.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	proba, err := l.PredictProba(X)
	if err != nil {
		t.Fatalf("Failed to predict probabilities: %v", err)
	}

	rows, cols := proba.Dims()
	if rows != 40 || cols != 2 {
		t.Fatalf("Probability dims = (%d, %d), want (40, 2)", rows, cols)
	}

	for i := 0; i < rows; i++ {
		p0, p1 := proba.At(i, 0), proba.At(i, 1)
		if p0 < 0 || p0 > 1 || p1 < 0 || p1 > 1 {
			t.Errorf("Row %d probabilities out of range: (%v, %v)", i, p0, p1)
		}
		if math.Abs(p0+p1-1) > 1e-12 {
			t.Errorf("Row %d probabilities sum to %v, want 1", i, p0+p1)
		}

		z := l.Intercept() + X.At(i, 0)*l.Coef()[0] + X.At(i, 1)*l.Coef()[1]
		want := 1 / (1 + math.Exp(-z))
		if math.Abs(p1-want) > 1e-12 {
			t.Errorf("Row %d P(y=1) = %v, want sigmoid(link) = %v", i, p1, want)
		}
	}

	// The (1,0) cell was built with an 80% positive rate.
	p, err := l.PredictProba(mat.NewDense(1, 2, []float64{1, 0}))
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}
	if got := p.At(0, 1); math.Abs(got-0.8) > 1e-3 {
		t.Errorf("P(y=1 | 1, 0) = %v, want 0.8", got)
	}
}

// TestLogit_PredictAndScore verifies thresholding and the accuracy
// score on deterministic cell data.
func TestLogit_PredictAndScore(t *testing.T) {
	X, y := cellDataset()
	l := NewLogit()
	if err := l.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	pred, err := l.Predict(X)
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}
	for i := 0; i < 40; i++ {
		v := pred.At(i, 0)
		if v != 0 && v != 1 {
			t.Errorf("Prediction %d = %v, want 0 or 1", i, v)
		}
	}

	// Cells fitted at 0.5, 0.8, 0.2, 0.5 threshold to 1, 1, 0, 1:
	// 5+8+8+5 of 40 rows agree.
	score, err := l.Score(X, y)
	if err != nil {
		t.Fatalf("Failed to score: %v", err)
	}
	if math.Abs(score-0.65) > 1e-9 {
		t.Errorf("Score = %v, want 0.65", score)
	}

	classes := l.Classes()
	if len(classes) != 2 || classes[0] != 0 || classes[1] != 1 {
		t.Errorf("Classes = %v, want [0 1]", classes)
	}
}

// TestLogit_NotFitted verifies every consumer fails cleanly before
// Fit.
func TestLogit_NotFitted(t *testing.T) {
	l := NewLogit()
	X := mat.NewDense(2, 2, []float64{0, 1, 1, 0})

	if _, err := l.Predict(X); err == nil {
		t.Error("Predict should fail before Fit")
	}
	if _, err := l.PredictProba(X); err == nil {
		t.Error("PredictProba should fail before Fit")
	}
	if _, err := l.Summary(); err == nil {
		t.Error("Summary should fail before Fit")
	}
	if _, err := l.Margins(X); err == nil {
		t.Error("Margins should fail before Fit")
	}
	if _, err := l.ExportWeights(); err == nil {
		t.Error("ExportWeights should fail before Fit")
	}
	if l.IsFitted() {
		t.Error("IsFitted should be false before Fit")
	}
}

// TestLogit_RejectsBadInputs walks the validation cases.
func TestLogit_RejectsBadInputs(t *testing.T) {
	X, y := cellDataset()

	tests := []struct {
		name string
		fit  func() error
	}{
		{
			name: "y not a column vector",
			fit: func() error {
				return NewLogit().Fit(X, mat.NewDense(40, 2, nil))
			},
		},
		{
			name: "row count mismatch",
			fit: func() error {
				return NewLogit().Fit(X, mat.NewDense(39, 1, nil))
			},
		},
		{
			name: "non-binary target",
			fit: func() error {
				bad := mat.NewDense(40, 1, nil)
				bad.Set(3, 0, 2)
				bad.Set(0, 0, 1)
				return NewLogit().Fit(X, bad)
			},
		},
		{
			name: "single-class target",
			fit: func() error {
				return NewLogit().Fit(X, mat.NewDense(40, 1, nil))
			},
		},
		{
			name: "more parameters than samples",
			fit: func() error {
				smallX := mat.NewDense(3, 2, []float64{0, 1, 1, 0, 1, 1})
				smallY := mat.NewDense(3, 1, []float64{0, 1, 0})
				return NewLogit().Fit(smallX, smallY)
			},
		},
		{
			name: "feature name count mismatch",
			fit: func() error {
				return NewLogit(WithFeatureNames("refer")).Fit(X, y)
			},
		},
		{
			name: "confidence level out of range",
			fit: func() error {
				return NewLogit(WithConfidenceLevel(1.5)).Fit(X, y)
			},
		},
		{
			name: "zero iterations",
			fit: func() error {
				return NewLogit(WithMaxIter(0)).Fit(X, y)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fit(); err == nil {
				t.Error("Expected a fit error")
			}
		})
	}
}

// TestLogit_CollinearFeatures verifies that a rank-deficient design
// surfaces the singular-matrix condition instead of nonsense
// estimates.
func TestLogit_CollinearFeatures(t *testing.T) {
	X := mat.NewDense(20, 2, nil)
	y := mat.NewDense(20, 1, nil)
	for i := 0; i < 20; i++ {
		v := float64(i % 4)
		X.Set(i, 0, v)
		X.Set(i, 1, 2*v)
		if i%3 == 0 {
			y.Set(i, 0, 1)
		}
	}

	err := NewLogit().Fit(X, y)
	if err == nil {
		t.Fatal("Expected a singular-matrix error for collinear features")
	}
	if !errors.Is(err, errors.ErrSingularMatrix) {
		t.Errorf("Expected ErrSingularMatrix in the chain, got: %v", err)
	}
}

// TestLogit_ConvergenceWarning verifies that hitting the iteration
// cap warns instead of failing.
func TestLogit_ConvergenceWarning(t *testing.T) {
	var captured error
	errors.SetWarningHandler(func(w error) { captured = w })
	defer errors.SetWarningHandler(nil)

	X, y := cellDataset()
	l := NewLogit(WithMaxIter(1))
	if err := l.Fit(X, y); err != nil {
		t.Fatalf("A capped fit should still succeed: %v", err)
	}

	if l.Converged() {
		t.Error("One iteration should not converge")
	}
	if l.NIter() != 1 {
		t.Errorf("NIter = %d, want 1", l.NIter())
	}
	if !l.IsFitted() {
		t.Error("The capped fit should still mark the model fitted")
	}
	if captured == nil {
		t.Fatal("Expected a convergence warning")
	}
	var cw *errors.ConvergenceWarning
	if !errors.As(captured, &cw) {
		t.Errorf("Expected a ConvergenceWarning, got %T", captured)
	}
}

// TestLogit_NoIntercept verifies the fit runs without an intercept
// term.
func TestLogit_NoIntercept(t *testing.T) {
	X, y := cellDataset()
	l := NewLogit(WithFitIntercept(false))
	if err := l.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit without intercept: %v", err)
	}

	if l.Intercept() != 0 {
		t.Errorf("Intercept = %v, want 0", l.Intercept())
	}
	if len(l.StdErrors()) != 2 {
		t.Errorf("StdErrors length = %d, want 2 (no intercept slot)", len(l.StdErrors()))
	}

	s, err := l.Summary()
	if err != nil {
		t.Fatalf("Failed to summarize: %v", err)
	}
	if len(s.Terms) != 2 || s.Terms[0].Term == "(Intercept)" {
		t.Errorf("Summary terms = %v, want two slope terms", len(s.Terms))
	}
}

// TestLogit_GetSetParams verifies hyperparameter management,
// including the float encodings a JSON round trip produces.
func TestLogit_GetSetParams(t *testing.T) {
	l := NewLogit()

	params := l.GetParams()
	if params["max_iter"].(int) != 25 {
		t.Errorf("Default max_iter = %v, want 25", params["max_iter"])
	}
	if params["tol"].(float64) != 1e-8 {
		t.Errorf("Default tol = %v, want 1e-8", params["tol"])
	}
	if params["confidence_level"].(float64) != 0.95 {
		t.Errorf("Default confidence_level = %v, want 0.95", params["confidence_level"])
	}

	err := l.SetParams(map[string]interface{}{
		"max_iter":         float64(50),
		"tol":              1e-6,
		"fit_intercept":    false,
		"confidence_level": 0.9,
	})
	if err != nil {
		t.Fatalf("Failed to set params: %v", err)
	}
	if l.maxIter != 50 || l.tol != 1e-6 || l.fitIntercept || l.confidenceLevel != 0.9 {
		t.Errorf("Params not applied: %+v", l.GetParams())
	}

	if err := l.SetParams(map[string]interface{}{"solver": "lbfgs"}); err == nil {
		t.Error("Unknown parameter should error")
	}
	if err := l.SetParams(map[string]interface{}{"tol": "tight"}); err == nil {
		t.Error("Non-numeric tol should error")
	}
}

func BenchmarkLogitFit(b *testing.B) {
	X, y := cellDataset()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := NewLogit().Fit(X, y); err != nil {
			b.Fatal(err)
		}
	}
}

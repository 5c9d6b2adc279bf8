package survey

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// TestDefaultParams verifies the stock parameter set is valid and
// carries the fixed variable ordering.
func TestDefaultParams(t *testing.T) {
	p := DefaultParams(538, 42)
	if err := p.Validate(); err != nil {
		t.Fatalf("Default parameters should validate: %v", err)
	}
	if p.N != 538 || p.Seed != 42 {
		t.Errorf("N/Seed not carried: got %d/%d", p.N, p.Seed)
	}

	names := p.VariableNames()
	want := []string{VarRefer, VarJobSat, VarTurnover}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("Variable %d = %q, want %q", i, names[i], name)
		}
	}
}

// TestParams_Covariance verifies the construction: corr*sd*sd plus
// the diagonal loading.
func TestParams_Covariance(t *testing.T) {
	p := &Params{
		Corr: [][]float64{
			{1.0, 0.5, -0.2},
			{0.5, 1.0, 0.1},
			{-0.2, 0.1, 1.0},
		},
		SD:   []float64{2, 1, 3},
		Mean: []float64{0, 0, 0},
		N:    10,
		Seed: 1,
	}

	cov := p.Covariance()

	if got := cov.At(0, 0); math.Abs(got-4.1) > 1e-12 {
		t.Errorf("cov[0][0] = %v, want 4.1 (sd^2 + loading)", got)
	}
	if got := cov.At(1, 1); math.Abs(got-1.1) > 1e-12 {
		t.Errorf("cov[1][1] = %v, want 1.1", got)
	}
	if got := cov.At(0, 1); math.Abs(got-1.0) > 1e-12 {
		t.Errorf("cov[0][1] = %v, want 0.5*2*1 = 1.0", got)
	}
	if got := cov.At(2, 0); math.Abs(got-(-1.2)) > 1e-12 {
		t.Errorf("cov[2][0] = %v, want -0.2*3*2 = -1.2", got)
	}
}

// TestParams_CovarianceLoadingMakesPD verifies the regularization
// invariant: a singular nominal covariance factorizes after loading.
func TestParams_CovarianceLoadingMakesPD(t *testing.T) {
	p := &Params{
		Corr: [][]float64{
			{1, 1, 0},
			{1, 1, 0},
			{0, 0, 1},
		},
		SD:   []float64{1, 1, 1},
		Mean: []float64{0, 0, 0},
		N:    10,
		Seed: 1,
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(p.Covariance()); !ok {
		t.Error("Loaded covariance should be positive definite")
	}
}

// TestParams_SymmetrizeLowerWins verifies the repair step: the lower
// triangle overwrites the upper before the covariance is built.
func TestParams_SymmetrizeLowerWins(t *testing.T) {
	p := &Params{
		Corr: [][]float64{
			{1.0, 0.9, 0.0},
			{0.2, 1.0, 0.0},
			{0.0, 0.0, 1.0},
		},
		SD:   []float64{1, 1, 1},
		Mean: []float64{0, 0, 0},
		N:    10,
		Seed: 1,
	}

	cov := p.Covariance()
	if got := cov.At(0, 1); math.Abs(got-0.2) > 1e-12 {
		t.Errorf("cov[0][1] = %v, want the mirrored lower-triangle 0.2", got)
	}
	if got := cov.At(1, 0); math.Abs(got-0.2) > 1e-12 {
		t.Errorf("cov[1][0] = %v, want 0.2", got)
	}

	// The input matrix itself is left untouched.
	if p.Corr[0][1] != 0.9 {
		t.Errorf("Input matrix was modified: corr[0][1] = %v", p.Corr[0][1])
	}
}

// TestParams_ValidateVariablesLength verifies that explicit variable
// names must line up with the matrix dimension.
func TestParams_ValidateVariablesLength(t *testing.T) {
	p := DefaultParams(10, 1)
	p.Variables = []string{"refer", "jobsat"}
	if err := p.Validate(); err == nil {
		t.Error("Two names against a 3x3 matrix should not validate")
	}
}

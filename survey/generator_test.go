package survey

import (
	"bytes"
	"math"
	"testing"
)

// TestGenerate_Deterministic verifies that one parameter set and seed
// always produce byte-identical CSV output.
func TestGenerate_Deterministic(t *testing.T) {
	params := DefaultParams(538, 42)

	var first, second bytes.Buffer
	for i, buf := range []*bytes.Buffer{&first, &second} {
		ds, err := Generate(params)
		if err != nil {
			t.Fatalf("Run %d failed: %v", i+1, err)
		}
		if err := ds.WriteCSV(buf); err != nil {
			t.Fatalf("Run %d failed to write CSV: %v", i+1, err)
		}
	}

	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Error("Two runs with the same seed produced different CSV bytes")
	}
}

// TestGenerate_DifferentSeeds verifies that distinct seeds produce
// distinct datasets.
func TestGenerate_DifferentSeeds(t *testing.T) {
	a, err := Generate(DefaultParams(538, 1))
	if err != nil {
		t.Fatalf("Failed to generate with seed 1: %v", err)
	}
	b, err := Generate(DefaultParams(538, 2))
	if err != nil {
		t.Fatalf("Failed to generate with seed 2: %v", err)
	}

	same := true
	for i := range a.Records {
		if a.Records[i] != b.Records[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("Seeds 1 and 2 produced identical datasets")
	}
}

// TestGenerate_Shape verifies the row count and the declared range of
// every field.
func TestGenerate_Shape(t *testing.T) {
	const n = 250
	ds, err := Generate(DefaultParams(n, 7))
	if err != nil {
		t.Fatalf("Failed to generate: %v", err)
	}

	if ds.Len() != n {
		t.Fatalf("Expected %d records, got %d", n, ds.Len())
	}

	for i, r := range ds.Records {
		if r.Refer != 0 && r.Refer != 1 {
			t.Errorf("Record %d: refer = %d, want 0 or 1", i, r.Refer)
		}
		if r.JobSat < 1 || r.JobSat > 5 {
			t.Errorf("Record %d: jobsat = %d, want 1..5", i, r.JobSat)
		}
		if r.Turnover != 0 && r.Turnover != 1 {
			t.Errorf("Record %d: turnover = %d, want 0 or 1", i, r.Turnover)
		}
	}
}

// TestGenerate_SingularCovariance verifies that the diagonal loading
// carries a singular nominal covariance: a perfectly correlated pair
// must still generate well-formed records.
func TestGenerate_SingularCovariance(t *testing.T) {
	params := DefaultParams(400, 99)
	params.Corr = [][]float64{
		{1.0, 1.0, -0.3},
		{1.0, 1.0, -0.3},
		{-0.3, -0.3, 1.0},
	}

	ds, err := Generate(params)
	if err != nil {
		t.Fatalf("Generation with singular nominal covariance failed: %v", err)
	}
	if ds.Len() != 400 {
		t.Fatalf("Expected 400 records, got %d", ds.Len())
	}
	for i, r := range ds.Records {
		if r.JobSat < 1 || r.JobSat > 5 || r.Refer < 0 || r.Refer > 1 || r.Turnover < 0 || r.Turnover > 1 {
			t.Fatalf("Record %d malformed: %+v", i, r)
		}
	}
}

// TestGenerate_BaseRates pins the output proportions for the stock
// diagnostic scenario: identity correlations, zero means, unit
// standard deviations. The referral cut sits just above the median,
// so roughly half the respondents (slightly more) code refer == 1,
// and the satisfaction transform piles respondents into the upper
// bins.
func TestGenerate_BaseRates(t *testing.T) {
	params := &Params{
		Corr: [][]float64{
			{1, 0, 0},
			{0, 1, 0},
			{0, 0, 1},
		},
		SD:   []float64{1, 1, 1},
		Mean: []float64{0, 0, 0},
		N:    1000,
		Seed: 1234,
	}

	ds, err := Generate(params)
	if err != nil {
		t.Fatalf("Failed to generate: %v", err)
	}

	var referYes, turnoverYes int
	satCounts := make([]int, 6)
	for _, r := range ds.Records {
		referYes += r.Refer
		turnoverYes += r.Turnover
		satCounts[r.JobSat]++
	}

	n := float64(ds.Len())
	referRate := float64(referYes) / n
	if referRate < 0.45 || referRate > 0.62 {
		t.Errorf("refer==1 rate = %.3f, want roughly 0.55", referRate)
	}

	turnoverRate := float64(turnoverYes) / n
	if turnoverRate < 0.40 || turnoverRate > 0.60 {
		t.Errorf("turnover==1 rate = %.3f, want roughly 0.50", turnoverRate)
	}

	upper := float64(satCounts[4]+satCounts[5]) / n
	lower := float64(satCounts[1]+satCounts[2]) / n
	if upper < 0.35 {
		t.Errorf("jobsat 4-5 share = %.3f, want the skewed bulk (> 0.35)", upper)
	}
	if lower > 0.25 {
		t.Errorf("jobsat 1-2 share = %.3f, want the thin tail (< 0.25)", lower)
	}
	if satCounts[4] <= satCounts[2] {
		t.Errorf("jobsat bin 4 (%d) should outweigh bin 2 (%d)", satCounts[4], satCounts[2])
	}
}

// TestGenerate_InvalidParams walks the rejection cases. No dataset
// may come back alongside an error.
func TestGenerate_InvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{
			name: "means length mismatch",
			mutate: func(p *Params) {
				p.Mean = []float64{0, 0}
			},
		},
		{
			name: "stddevs length mismatch",
			mutate: func(p *Params) {
				p.SD = []float64{1, 1, 1, 1}
			},
		},
		{
			name: "ragged correlation row",
			mutate: func(p *Params) {
				p.Corr[1] = []float64{0.3, 1.0}
			},
		},
		{
			name: "wrong dimension",
			mutate: func(p *Params) {
				p.Corr = [][]float64{{1, 0}, {0, 1}}
				p.SD = []float64{1, 1}
				p.Mean = []float64{0, 0}
				p.Variables = nil
			},
		},
		{
			name: "non-positive standard deviation",
			mutate: func(p *Params) {
				p.SD[2] = 0
			},
		},
		{
			name: "correlation outside [-1, 1]",
			mutate: func(p *Params) {
				p.Corr[0][1] = 1.7
				p.Corr[1][0] = 1.7
			},
		},
		{
			name: "non-finite correlation",
			mutate: func(p *Params) {
				p.Corr[2][0] = math.NaN()
			},
		},
		{
			name: "zero respondents",
			mutate: func(p *Params) {
				p.N = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := DefaultParams(100, 5)
			tt.mutate(params)

			ds, err := Generate(params)
			if err == nil {
				t.Fatal("Expected an invalid-parameters error")
			}
			if ds != nil {
				t.Error("No dataset may be returned on invalid parameters")
			}
		})
	}
}

func BenchmarkGenerate(b *testing.B) {
	params := DefaultParams(1000, 42)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Generate(params); err != nil {
			b.Fatal(err)
		}
	}
}

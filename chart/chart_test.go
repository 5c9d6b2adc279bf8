package chart

import (
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot/vg"

	"github.com/churnlab/margins/glm"
)

// fixtureTable fits a small two-feature logit and returns margins
// over a refer x jobsat grid.
func fixtureTable(t *testing.T) *glm.MarginsTable {
	t.Helper()

	cells := []struct {
		refer, jobsat float64
		positives     int
	}{
		{0, 1, 8},
		{1, 1, 6},
		{0, 5, 4},
		{1, 5, 2},
	}
	X := mat.NewDense(40, 2, nil)
	y := mat.NewDense(40, 1, nil)
	row := 0
	for _, c := range cells {
		for i := 0; i < 10; i++ {
			X.Set(row, 0, c.refer)
			X.Set(row, 1, c.jobsat)
			if i < c.positives {
				y.Set(row, 0, 1)
			}
			row++
		}
	}

	model := glm.NewLogit(glm.WithFeatureNames("refer", "jobsat"))
	if err := model.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit fixture model: %v", err)
	}

	grid, err := glm.Grid([]float64{0, 1}, []float64{1, 2, 3, 4, 5})
	if err != nil {
		t.Fatalf("Failed to build grid: %v", err)
	}
	mt, err := model.Margins(grid)
	if err != nil {
		t.Fatalf("Failed to compute margins: %v", err)
	}
	return mt
}

// TestBar verifies the bar chart builds from a margins table.
func TestBar(t *testing.T) {
	mt := fixtureTable(t)

	p, err := Bar(mt, Options{Title: "Turnover probability"})
	if err != nil {
		t.Fatalf("Failed to build bar chart: %v", err)
	}
	if p == nil {
		t.Fatal("Bar returned a nil plot")
	}
	if p.Title.Text != "Turnover probability" {
		t.Errorf("Title = %q, want the configured title", p.Title.Text)
	}
	if p.Y.Min != 0 || p.Y.Max != 1 {
		t.Errorf("Y range = [%v, %v], want the probability scale [0, 1]", p.Y.Min, p.Y.Max)
	}
}

// TestBar_Rejects covers empty input.
func TestBar_Rejects(t *testing.T) {
	if _, err := Bar(nil, Options{}); err == nil {
		t.Error("Nil table should error")
	}
	if _, err := Bar(&glm.MarginsTable{}, Options{}); err == nil {
		t.Error("Empty table should error")
	}
}

// TestRibbon verifies the grouped band plot builds and rejects grids
// that are not group-by-axis shaped.
func TestRibbon(t *testing.T) {
	mt := fixtureTable(t)

	p, err := Ribbon(mt, Options{Title: "Turnover by satisfaction"})
	if err != nil {
		t.Fatalf("Failed to build ribbon plot: %v", err)
	}
	if p.X.Label.Text != "jobsat" {
		t.Errorf("X label = %q, want the axis feature name", p.X.Label.Text)
	}

	oneFeature := &glm.MarginsTable{
		FeatureNames: []string{"refer"},
		Estimates: []glm.MarginEstimate{
			{Covariates: []float64{0}, Probability: 0.5, Lower: 0.4, Upper: 0.6},
		},
	}
	if _, err := Ribbon(oneFeature, Options{}); err == nil {
		t.Error("A one-feature table should error")
	}
	if _, err := Ribbon(nil, Options{}); err == nil {
		t.Error("Nil table should error")
	}
}

// TestSaveCharts renders both charts to PNG files.
func TestSaveCharts(t *testing.T) {
	mt := fixtureTable(t)
	dir := t.TempDir()

	barPath := filepath.Join(dir, "bar.png")
	if err := SaveBar(mt, barPath, Options{Title: "bar"}); err != nil {
		t.Fatalf("Failed to save bar chart: %v", err)
	}
	ribbonPath := filepath.Join(dir, "ribbon.png")
	opts := Options{Title: "ribbon", Width: 10 * vg.Centimeter, Height: 7 * vg.Centimeter}
	if err := SaveRibbon(mt, ribbonPath, opts); err != nil {
		t.Fatalf("Failed to save ribbon plot: %v", err)
	}

	for _, path := range []string{barPath, ribbonPath} {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("Chart file missing: %v", err)
		}
		if info.Size() == 0 {
			t.Errorf("Chart file %s is empty", path)
		}
	}

	if err := SaveBar(mt, filepath.Join(dir, "bar.nope"), Options{}); err == nil {
		t.Error("An unsupported extension should error")
	}
}

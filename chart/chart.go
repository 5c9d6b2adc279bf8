// Package chart renders margins output with gonum/plot: a bar chart
// of predicted probabilities with confidence error bars, and a ribbon
// plot of probability bands across the satisfaction scale.
package chart

import (
	"fmt"
	"image/color"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/churnlab/margins/glm"
	"github.com/churnlab/margins/pkg/errors"
)

// Options sets the title and canvas size. Zero dimensions fall back
// to 18x12 cm.
type Options struct {
	Title  string
	Width  vg.Length
	Height vg.Length
}

func (o Options) size() (vg.Length, vg.Length) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = 18 * vg.Centimeter
	}
	if h <= 0 {
		h = 12 * vg.Centimeter
	}
	return w, h
}

// probErrors feeds YErrorBars: points plus asymmetric bar lengths.
type probErrors struct {
	plotter.XYs
	plotter.YErrors
}

// Bar builds a bar chart with one bar per grid row and error bars
// spanning each confidence interval.
func Bar(mt *glm.MarginsTable, opt Options) (p *plot.Plot, err error) {
	defer errors.Recover(&err, "chart.Bar")

	if mt == nil || len(mt.Estimates) == 0 {
		return nil, errors.NewValueError("chart.Bar", "margins table is empty")
	}

	values := make(plotter.Values, len(mt.Estimates))
	points := probErrors{
		XYs:     make(plotter.XYs, len(mt.Estimates)),
		YErrors: make(plotter.YErrors, len(mt.Estimates)),
	}
	labels := make([]string, len(mt.Estimates))
	for i, e := range mt.Estimates {
		values[i] = e.Probability
		points.XYs[i].X = float64(i)
		points.XYs[i].Y = e.Probability
		points.YErrors[i].Low = e.Probability - e.Lower
		points.YErrors[i].High = e.Upper - e.Probability
		labels[i] = rowLabel(mt.FeatureNames, e.Covariates)
	}

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build bar chart")
	}
	bars.LineStyle.Width = 0
	bars.Color = plotutil.Color(0)

	errBars, err := plotter.NewYErrorBars(points)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build error bars")
	}

	p = plot.New()
	p.Title.Text = opt.Title
	p.Y.Label.Text = "Pr(y=1)"
	p.Y.Min, p.Y.Max = 0, 1
	p.Add(bars, errBars)
	p.NominalX(labels...)
	return p, nil
}

// Ribbon builds one probability line per leading-feature group over
// the second feature, each with a shaded confidence band. The grid
// must cover exactly two features, ordered group-first.
func Ribbon(mt *glm.MarginsTable, opt Options) (p *plot.Plot, err error) {
	defer errors.Recover(&err, "chart.Ribbon")

	if mt == nil || len(mt.Estimates) == 0 {
		return nil, errors.NewValueError("chart.Ribbon", "margins table is empty")
	}
	if len(mt.FeatureNames) != 2 {
		return nil, errors.NewValueError("chart.Ribbon",
			fmt.Sprintf("need a group feature and an axis feature, got %d features", len(mt.FeatureNames)))
	}

	groups, order := groupEstimates(mt.Estimates)

	p = plot.New()
	p.Title.Text = opt.Title
	p.X.Label.Text = mt.FeatureNames[1]
	p.Y.Label.Text = "Pr(y=1)"
	p.Y.Min, p.Y.Max = 0, 1

	for i, g := range order {
		es := groups[g]

		band := make(plotter.XYs, 0, 2*len(es))
		for _, e := range es {
			band = append(band, plotter.XY{X: e.Covariates[1], Y: e.Upper})
		}
		for j := len(es) - 1; j >= 0; j-- {
			band = append(band, plotter.XY{X: es[j].Covariates[1], Y: es[j].Lower})
		}
		poly, err := plotter.NewPolygon(band)
		if err != nil {
			return nil, errors.Wrap(err, "failed to build confidence band")
		}
		poly.Color = fade(plotutil.Color(i))
		poly.LineStyle.Width = 0

		line := make(plotter.XYs, len(es))
		for j, e := range es {
			line[j] = plotter.XY{X: e.Covariates[1], Y: e.Probability}
		}
		ln, err := plotter.NewLine(line)
		if err != nil {
			return nil, errors.Wrap(err, "failed to build probability line")
		}
		ln.LineStyle.Width = vg.Points(1.5)
		ln.LineStyle.Color = plotutil.Color(i)

		p.Add(poly, ln)
		p.Legend.Add(fmt.Sprintf("%s=%g", mt.FeatureNames[0], g), ln)
	}

	p.Legend.Top = true
	return p, nil
}

// SaveBar renders the bar chart to path; the extension picks the
// format.
func SaveBar(mt *glm.MarginsTable, path string, opt Options) error {
	p, err := Bar(mt, opt)
	if err != nil {
		return err
	}
	w, h := opt.size()
	return errors.Wrapf(p.Save(w, h, path), "failed to save bar chart to %s", path)
}

// SaveRibbon renders the ribbon plot to path.
func SaveRibbon(mt *glm.MarginsTable, path string, opt Options) error {
	p, err := Ribbon(mt, opt)
	if err != nil {
		return err
	}
	w, h := opt.size()
	return errors.Wrapf(p.Save(w, h, path), "failed to save ribbon plot to %s", path)
}

// groupEstimates splits rows by the leading covariate, keeping first
// appearance order for groups and row order within each.
func groupEstimates(es []glm.MarginEstimate) (map[float64][]glm.MarginEstimate, []float64) {
	groups := make(map[float64][]glm.MarginEstimate)
	var order []float64
	for _, e := range es {
		g := e.Covariates[0]
		if _, seen := groups[g]; !seen {
			order = append(order, g)
		}
		groups[g] = append(groups[g], e)
	}
	return groups, order
}

func rowLabel(names []string, covariates []float64) string {
	parts := make([]string, len(covariates))
	for j, v := range covariates {
		name := fmt.Sprintf("x%d", j+1)
		if j < len(names) {
			name = names[j]
		}
		parts[j] = fmt.Sprintf("%s=%g", name, v)
	}
	return strings.Join(parts, "\n")
}

func fade(c color.Color) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 70}
}

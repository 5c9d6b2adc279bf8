// Package margins provides synthetic employee-turnover survey data and
// the logistic-regression tooling to analyze it: odds ratios, predicted
// probabilities over covariate grids, classification metrics, and chart
// rendering.
//
// The library grew out of a recurring people-analytics exercise:
// demonstrate why predicted probabilities communicate a logistic model
// better than raw odds ratios. To do that reproducibly it ships its own
// data generator: draw respondents from a multivariate normal with a
// chosen correlation structure, then discretize the draws into
// survey-realistic fields (binary referral status, a 1–5 satisfaction
// scale skewed toward the high end, binary turnover).
//
// # Quick Start
//
// Generate a dataset and fit turnover on the other two fields:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/churnlab/margins/glm"
//	    "github.com/churnlab/margins/survey"
//	)
//
//	func main() {
//	    params := survey.DefaultParams(538, 42)
//	    ds, err := survey.Generate(params)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    model := glm.NewLogit(glm.WithFeatureNames("refer", "jobsat"))
//	    if err := model.Fit(ds.Features(), ds.Target()); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    summary, err := model.Summary()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(summary)
//	}
//
// # Packages
//
//   - survey: parameter loading (YAML / xlsx workbook), multivariate
//     sampling, discretization, CSV output, run manifests
//   - glm: binary logistic regression (IRLS), coefficient summaries,
//     predicted-probability grids with confidence bounds
//   - metrics: accuracy, log loss, AUC, Brier score, confusion matrix
//   - profile: column summaries and base-rate checks for generated data
//   - chart: bar charts with error bars and ribbon plots of predictions
//   - core/model, core/parallel: estimator state and chunked execution
//   - pkg/errors, pkg/log: structured errors and logging
//
// Every generator run is a pure function of its parameters and seed; two
// runs with the same inputs produce byte-identical CSV output.
package margins

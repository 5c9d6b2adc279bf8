package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/churnlab/margins/glm"
	"github.com/churnlab/margins/pkg/errors"
	"github.com/churnlab/margins/pkg/log"
	"github.com/churnlab/margins/survey"
)

var (
	marginsModel   string
	marginsData    string
	marginsRefer   []float64
	marginsJobsat  []float64
	marginsAtMeans bool

	marginsCmd = &cobra.Command{
		Use:   "margins",
		Short: "Predicted probabilities over a covariate grid",
		Long: `Loads a fitted model artifact and prints predicted turnover
probabilities with confidence intervals, either over a refer x jobsat
grid or at the sample means of a dataset (--at-means).`,
		RunE: runMargins,
	}
)

func init() {
	marginsCmd.Flags().StringVar(&marginsModel, "model", "", "model artifact path (default <out-dir>/logit.json)")
	marginsCmd.Flags().Float64SliceVar(&marginsRefer, "refer", []float64{0, 1}, "refer levels for the grid")
	marginsCmd.Flags().Float64SliceVar(&marginsJobsat, "jobsat", []float64{1, 2, 3, 4, 5}, "jobsat levels for the grid")
	marginsCmd.Flags().BoolVar(&marginsAtMeans, "at-means", false, "predict at the sample means of --data instead of a grid")
	marginsCmd.Flags().StringVar(&marginsData, "data", "", "survey CSV (required with --at-means)")
	rootCmd.AddCommand(marginsCmd)
}

func runMargins(cmd *cobra.Command, args []string) error {
	model, err := loadModel(marginsModel)
	if err != nil {
		return err
	}

	grid, err := marginsGrid()
	if err != nil {
		return err
	}

	table, err := model.Margins(grid)
	if err != nil {
		return err
	}

	rows, _ := grid.Dims()
	slog.Info("margins computed",
		log.PredsKey, rows,
		log.ConfidenceKey, table.ConfidenceLevel)
	fmt.Print(table.String())
	return nil
}

func marginsGrid() (*mat.Dense, error) {
	if marginsAtMeans {
		if marginsData == "" {
			return nil, errors.NewValueError("margins", "--at-means needs --data")
		}
		ds, err := survey.ReadCSVFile(marginsData)
		if err != nil {
			return nil, err
		}
		return glm.AtMeans(ds.Features())
	}
	return glm.Grid(marginsRefer, marginsJobsat)
}

// loadModel restores a fitted logit from a JSON artifact, defaulting
// to the fit command's output location.
func loadModel(path string) (*glm.Logit, error) {
	if path == "" {
		path = filepath.Join(config.OutDir, "logit.json")
	}
	model := glm.NewLogit()
	if err := model.Load(path); err != nil {
		return nil, err
	}
	slog.Info("model loaded", log.InputPathKey, path)
	return model, nil
}

package main

import (
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/churnlab/margins/chart"
	"github.com/churnlab/margins/glm"
	"github.com/churnlab/margins/pkg/log"
)

var (
	chartModel  string
	chartOutDir string
	chartRefer  []float64
	chartJobsat []float64
	chartTitle  string

	chartCmd = &cobra.Command{
		Use:   "chart",
		Short: "Render margins charts",
		Long: `Loads a fitted model artifact, computes margins over a refer x
jobsat grid, and renders a bar chart with confidence error bars and a
ribbon plot of probability bands per refer group.`,
		RunE: runChart,
	}
)

func init() {
	chartCmd.Flags().StringVar(&chartModel, "model", "", "model artifact path (default <out-dir>/logit.json)")
	chartCmd.Flags().StringVar(&chartOutDir, "chart-dir", "", "directory for the PNG files (default <out-dir>)")
	chartCmd.Flags().Float64SliceVar(&chartRefer, "refer", []float64{0, 1}, "refer levels for the grid")
	chartCmd.Flags().Float64SliceVar(&chartJobsat, "jobsat", []float64{1, 2, 3, 4, 5}, "jobsat levels for the grid")
	chartCmd.Flags().StringVar(&chartTitle, "title", "Predicted turnover probability", "chart title")
	rootCmd.AddCommand(chartCmd)
}

func runChart(cmd *cobra.Command, args []string) error {
	model, err := loadModel(chartModel)
	if err != nil {
		return err
	}

	grid, err := glm.Grid(chartRefer, chartJobsat)
	if err != nil {
		return err
	}
	table, err := model.Margins(grid)
	if err != nil {
		return err
	}

	dir := chartOutDir
	if dir == "" {
		dir = config.OutDir
	}
	opts := chart.Options{Title: chartTitle}

	barPath := filepath.Join(dir, "margins_bar.png")
	if err := chart.SaveBar(table, barPath, opts); err != nil {
		return err
	}
	slog.Info("bar chart written", log.OutputPathKey, barPath)

	ribbonPath := filepath.Join(dir, "margins_ribbon.png")
	if err := chart.SaveRibbon(table, ribbonPath, opts); err != nil {
		return err
	}
	slog.Info("ribbon plot written", log.OutputPathKey, ribbonPath)
	return nil
}

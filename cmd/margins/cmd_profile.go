package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/churnlab/margins/pkg/log"
	"github.com/churnlab/margins/profile"
	"github.com/churnlab/margins/survey"
)

var (
	profileData string

	profileCmd = &cobra.Command{
		Use:   "profile",
		Short: "Summarize a survey CSV",
		Long: `Reads a generated survey CSV and prints per-column summary
statistics, level frequency tables, and the refer/turnover base rates.`,
		RunE: runProfile,
	}
)

func init() {
	profileCmd.Flags().StringVar(&profileData, "data", "", "survey CSV to profile")
	profileCmd.MarkFlagRequired("data")
	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, args []string) error {
	ds, err := survey.ReadCSVFile(profileData)
	if err != nil {
		return err
	}

	report, err := profile.Profile(ds)
	if err != nil {
		return err
	}

	slog.Info("dataset profiled",
		log.SamplesKey, report.Rows,
		log.InputPathKey, profileData)
	fmt.Print(report.String())
	return nil
}

package main

import (
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/churnlab/margins/pkg/errors"
	"github.com/churnlab/margins/pkg/log"
)

// Config carries environment overrides. Variables use the MARGINS
// prefix: MARGINS_LOG_LEVEL, MARGINS_OUT_DIR.
type Config struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	OutDir   string `envconfig:"OUT_DIR" default:"."`
}

var (
	config Config

	rootCmd = &cobra.Command{
		Use:   "margins",
		Short: "Synthesize employee-turnover survey data and model it",
		Long: `margins generates synthetic employee-turnover survey datasets from a
correlation structure, fits a binary logit of turnover on referral
status and job satisfaction, and reports odds ratios, predicted
probabilities with confidence intervals, and charts.`,
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := envconfig.Process("margins", &config); err != nil {
			return err
		}
		log.SetupLogger(config.LogLevel)

		// Statistical warnings (non-convergence, undefined metrics) go
		// through zerolog so their structured fields survive in the logs.
		warnLogger := zerolog.New(os.Stderr).With().Timestamp().Logger()
		errors.SetZerologWarnFunc(func(w error) {
			if obj, ok := w.(zerolog.LogObjectMarshaler); ok {
				warnLogger.Warn().EmbedObject(obj).Msg(w.Error())
				return
			}
			warnLogger.Warn().Msg(w.Error())
		})
		return nil
	}
}

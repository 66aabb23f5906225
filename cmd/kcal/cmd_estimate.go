package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spboyer/kcal/internal/estimator"
	"github.com/spboyer/kcal/internal/locale"
	"github.com/spboyer/kcal/internal/models"
	"github.com/spboyer/kcal/internal/render"
	"github.com/spboyer/kcal/internal/spinner"
)

func newEstimateCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "estimate <description...>",
		Short: "Estimate a single meal",
		Long: `Estimate the nutrition of one meal and print it.

The arguments are joined into a single description. Use --format json to get
the record as JSON. Exits with status 1 when no estimate could be produced.`,
		Example: `  kcal estimate 雞腿便當
  kcal estimate --locale en --format json two slices of pepperoni pizza`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return estimateCommandE(cmd, args, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")

	return cmd
}

func estimateCommandE(cmd *cobra.Command, args []string, format string) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("unsupported format %q (want text or json)", format)
	}
	description := strings.TrimSpace(strings.Join(args, " "))
	if description == "" {
		return estimator.ErrEmptyDescription
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	est, err := newEstimator(cfg)
	if err != nil {
		return err
	}
	p := locale.Printer(cfg.Language())

	ctx := cmd.Context()
	var (
		record      *models.NutritionRecord
		estimateErr error
	)
	spinner.Run(ctx, cmd.ErrOrStderr(), p.Sprintf(locale.KeyAnalyzing), isTerminal(cmd.ErrOrStderr()), func() {
		record, estimateErr = est.Estimate(ctx, description)
	})
	if estimateErr != nil {
		if errors.Is(estimateErr, estimator.ErrTransportFailure) || errors.Is(estimateErr, estimator.ErrMalformedResponse) {
			return &EstimationFailedError{Message: p.Sprintf(locale.KeyFailure), Err: estimateErr}
		}
		return estimateErr
	}

	if format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(record)
	}
	render.New(p).Record(cmd.OutOrStdout(), *record)
	return nil
}

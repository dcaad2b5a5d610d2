package main

import (
	"encoding/json"
	"fmt"

	app "github.com/fluense/fluense/internal/app"
	"github.com/fluense/fluense/internal/config"
	"github.com/fluense/fluense/internal/domain/report"
	"github.com/fluense/fluense/pkg/logger"

	"github.com/spf13/cobra"
)

// newAssessCmd scores a single reading without raising the HTTP server or
// the batch pipeline. The scoring tables still come from the regular
// configuration chain, so a config file or env overrides apply here too.
func newAssessCmd() *cobra.Command {
	var (
		reference  string
		recognized string
		elapsed    float64
		age        int
	)

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Score a single reading from the command line",
		Example: `  fluense assess --reference "the quick brown fox" --recognized "the quick fox" --elapsed 2.1
  fluense assess --reference "a cat sat" --recognized "a cat sat" --elapsed 1.5 --age 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(ctx)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			// Keep the engine quiet; the report itself goes to stdout.
			if err := logger.Init(logger.WithLevel("error")); err != nil {
				return fmt.Errorf("init logging: %w", err)
			}

			svc := app.New(
				app.WithSpeedOptions(cfg.SpeedOptions()...),
				app.WithRiskOptions(cfg.RiskOptions()...),
			)

			rep, err := svc.Assess(ctx, report.Request{
				ReferenceText:  reference,
				RecognizedText: recognized,
				ElapsedSeconds: elapsed,
				Age:            age,
			})
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(rep, "", "  ")
			if err != nil {
				return fmt.Errorf("encode report: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&reference, "reference", "", "reference passage the reader was given")
	cmd.Flags().StringVar(&recognized, "recognized", "", "speech recognition transcript of the reading")
	cmd.Flags().Float64Var(&elapsed, "elapsed", 0, "reading time in seconds")
	cmd.Flags().IntVar(&age, "age", 0, "reader age (optional)")
	_ = cmd.MarkFlagRequired("reference")

	return cmd
}

package main

import (
	"encoding/json"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/poi-cli/internal/listing"
	"github.com/sells-group/poi-cli/internal/pipeline"
)

var (
	runFile   string
	runLimit  int
	runDryRun bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Annotate, store and post listings from a JSON, CSV or XLSX file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		listings, err := listing.Load(runFile)
		if err != nil {
			return err
		}
		if runLimit > 0 && len(listings) > runLimit {
			listings = listings[:runLimit]
		}

		env, err := initEnv(ctx, "run", true)
		if err != nil {
			return err
		}
		defer env.Close()

		runner := pipeline.NewRunner(env.Annotator, env.Store, env.Notifier, pipeline.Options{
			Concurrency: cfg.Batch.MaxConcurrentListings,
			DryRun:      runDryRun,
		})

		summary, err := runner.Run(ctx, listings)
		if err != nil {
			return err
		}

		if runDryRun {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(summary); err != nil {
				return eris.Wrap(err, "encode summary")
			}
		}

		zap.L().Info("run complete",
			zap.String("file", runFile),
			zap.Int("total", summary.Total),
			zap.Int("annotated", summary.Annotated),
			zap.Int("skipped", summary.Skipped),
			zap.Int("failed", summary.Failed),
		)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runFile, "file", "", "listings file (.json, .csv or .xlsx)")
	runCmd.Flags().IntVar(&runLimit, "limit", 0, "max number of listings to process (0 = all)")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "annotate and print results without saving or posting")
	_ = runCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(runCmd)
}

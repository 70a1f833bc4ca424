package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/cv-screener/internal/models"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Screen every submission in the configured sheet",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		components, log, err := setup(ctx)
		if err != nil {
			return err
		}
		defer components.Close()
		defer log.Sync()

		outcome, err := components.Screening.RunBatch(ctx)
		if err != nil {
			log.Error("❌ Batch failed", zap.Error(err))
			return err
		}

		excluded := make([]string, 0)
		for _, r := range outcome.Shortlist.Excluded() {
			excluded = append(excluded, r.CandidateName)
		}

		return printJSON(models.BatchResponse{
			BatchID:   outcome.BatchID.String(),
			Records:   outcome.Records,
			Shortlist: outcome.Shortlist.All(),
			Excluded:  excluded,
		})
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
}

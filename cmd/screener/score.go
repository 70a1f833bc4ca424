package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/cv-screener/internal/models"
	"alfredoptarigan/cv-screener/internal/services"
)

var (
	scoreJobID string
	scoreName  string
)

var scoreCmd = &cobra.Command{
	Use:   "score <file>",
	Short: "Score a single resume file against a job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		components, log, err := setup(ctx)
		if err != nil {
			return err
		}
		defer components.Close()
		defer log.Sync()

		outcome, err := components.Screening.ScoreFile(ctx, services.FileRequest{
			Name:  scoreName,
			JobID: scoreJobID,
			Path:  args[0],
		})
		if err != nil {
			log.Error("❌ Scoring failed", zap.String("file", args[0]), zap.Error(err))
			return err
		}

		return printJSON(models.ProcessResponse{
			Record:        outcome.Record,
			Status:        "success",
			ShortlistFile: outcome.ShortlistFile,
		})
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringVar(&scoreJobID, "job-id", "", "job to score against")
	scoreCmd.Flags().StringVar(&scoreName, "name", "", "candidate name (default is the file name)")
	scoreCmd.MarkFlagRequired("job-id")
}

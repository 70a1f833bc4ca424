package main

import (
	"github.com/spf13/cobra"

	"alfredoptarigan/cv-screener/internal/config"
	"alfredoptarigan/cv-screener/internal/models"
	"alfredoptarigan/cv-screener/internal/services"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List the known jobs and their required skills",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := rulesFile
		if path == "" {
			path = config.RulesPath()
		}
		rules, err := config.LoadRules(cmd.Context(), path)
		if err != nil {
			return err
		}

		jobs := services.NewJobRegistry(rules.Table()).Jobs()
		out := make([]models.JobResponse, 0, len(jobs))
		for _, j := range jobs {
			out = append(out, models.JobResponse{JobID: j.JobID, RequiredSkills: j.RequiredSkills})
		}
		return printJSON(out)
	},
}

func init() {
	rootCmd.AddCommand(jobsCmd)
}

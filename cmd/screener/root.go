package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alfredoptarigan/cv-screener/internal/bootstrap"
	"alfredoptarigan/cv-screener/internal/config"
	"alfredoptarigan/cv-screener/internal/logger"
)

const app = "cv-screener"

var (
	// Used for flags.
	rulesFile string
	debug     bool
	jsonLogs  bool

	rootCmd = &cobra.Command{
		Use:          app,
		Short:        "cv-screener scores resumes against job keywords and shortlists the best candidates",
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rulesFile, "rules", "", "screening rules file (default is $SCREENER_RULES or built-in rules)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&jsonLogs, "json", "j", false, "json format for logging")
}

// setup loads config and rules and builds every configured component.
func setup(ctx context.Context) (*bootstrap.Components, *zap.Logger, error) {
	cfg := config.Load()

	log, err := logger.New(jsonLogs, debug)
	if err != nil {
		return nil, nil, fmt.Errorf("creating a logger: %w", err)
	}

	path := rulesFile
	if path == "" {
		path = config.RulesPath()
	}
	rules, err := config.LoadRules(ctx, path)
	if err != nil {
		return nil, log, err
	}

	components, err := bootstrap.Build(ctx, cfg, rules, log)
	if err != nil {
		return nil, log, err
	}
	return components, log, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docqa/internal/app"
	"docqa/internal/config"
	"docqa/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "Document question answering over a local vector store",
	Long: `docqa ingests documents into a vector store and answers questions
against them using retrieval-augmented generation.`,
	SilenceUsage: true,
}

// newApp loads config and builds the full component graph for one command run.
func newApp(cmd *cobra.Command) (*app.App, error) {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return app.NewApp(cmd.Context(), cfg, logger)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"github.com/spf13/cobra"

	"docqa/internal/query"
)

var (
	queryTopK       int
	queryTopN       int
	queryMaxSources int
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a question against the ingested documents",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuery,
}

func init() {
	queryCmd.Flags().IntVar(&queryTopK, "top-k", 0, "candidates to retrieve before reranking")
	queryCmd.Flags().IntVar(&queryTopN, "top-n", 0, "passages kept after reranking")
	queryCmd.Flags().IntVar(&queryMaxSources, "max-sources", 0, "maximum citations shown")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	application, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer application.Close()

	answer, err := application.Engine.Query(cmd.Context(), args[0], query.Options{
		SimilarityTopK: queryTopK,
		RerankTopN:     queryTopN,
		MaxSources:     queryMaxSources,
	})
	if err != nil {
		return err
	}

	cmd.Println(answer.Response)
	if rendered := query.RenderCitations(answer.Citations); rendered != "" {
		cmd.Println(rendered)
	}
	return nil
}

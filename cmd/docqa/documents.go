package main

import (
	"github.com/spf13/cobra"
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "List ingested documents",
	RunE:  runDocuments,
}

func init() {
	rootCmd.AddCommand(documentsCmd)
}

func runDocuments(cmd *cobra.Command, args []string) error {
	application, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer application.Close()

	docs, err := application.Store.ListDocuments(cmd.Context())
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		cmd.Println("No documents ingested.")
		return nil
	}
	for _, d := range docs {
		cmd.Printf("%s - %s\n", d.Company, d.Document)
	}
	return nil
}

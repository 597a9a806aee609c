package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"docqa/internal/ingest"
	"docqa/internal/parsing"
)

var (
	ingestCompanies []string
	ingestNames     []string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [files or directories...]",
	Short: "Ingest documents into the vector store",
	Long: `Hashes, parses, chunks and embeds each file, then stores the
passages. Directories are walked for supported file types. Files whose
content is already stored are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringSliceVar(&ingestCompanies, "company", nil, "company name; give once for all files or once per file")
	ingestCmd.Flags().StringSliceVar(&ingestNames, "name", nil, "document name per file (defaults to the file name)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	paths, err := expandPaths(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return errors.New("no supported files found")
	}

	switch len(ingestCompanies) {
	case 0:
		return errors.New("--company is required")
	case 1:
		for len(ingestCompanies) < len(paths) {
			ingestCompanies = append(ingestCompanies, ingestCompanies[0])
		}
	case len(paths):
	default:
		return fmt.Errorf("got %d files but %d --company values", len(paths), len(ingestCompanies))
	}
	if len(ingestNames) != 0 && len(ingestNames) != len(paths) {
		return errors.New("--name must be given once per file when used")
	}

	application, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer application.Close()

	items := make([]ingest.Item, len(paths))
	for i, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if len(ingestNames) > 0 {
			name = ingestNames[i]
		}
		items[i] = ingest.Item{Path: path, CompanyName: ingestCompanies[i], DocumentName: name}
	}

	summary, reports := application.Orchestrator.Run(cmd.Context(), items)

	for _, report := range reports {
		line := fmt.Sprintf("%-9s %s", report.Outcome, report.Path)
		if report.Error != "" {
			line += " (" + report.Error + ")"
		}
		cmd.Println(line)
	}
	cmd.Println()
	cmd.Println(ingest.SummaryMessage(summary))

	if summary.Failed > 0 && summary.Failed == summary.Total {
		return errors.New("all documents failed")
	}
	return nil
}

// expandPaths resolves directory arguments into the supported files they
// contain; plain file arguments pass through as given.
func expandPaths(args []string) ([]string, error) {
	supported := make(map[string]struct{})
	for _, ext := range parsing.NewRegistry().SupportedExtensions() {
		supported[ext] = struct{}{}
	}

	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			if _, ok := supported[strings.ToLower(filepath.Ext(path))]; ok {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

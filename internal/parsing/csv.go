package parsing

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// CSVParser turns tabular files into one block per row, labelled by the
// header row so a row stays interpretable after chunking.
type CSVParser struct{}

func (p *CSVParser) Extensions() []string { return []string{".csv", ".tsv"} }

func (p *CSVParser) Parse(path string) (*Document, error) {
	if err := validateFile(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		r.Comma = '\t'
	}
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv %s: %w", path, err)
	}
	if len(rows) == 0 {
		return &Document{}, nil
	}

	header := rows[0]
	doc := &Document{}
	for _, row := range rows[1:] {
		fields := make([]string, 0, len(row))
		for i, cell := range row {
			if i < len(header) && header[i] != "" {
				fields = append(fields, header[i]+": "+cell)
			} else {
				fields = append(fields, cell)
			}
		}
		text := strings.TrimSpace(strings.Join(fields, ", "))
		if text == "" {
			continue
		}
		doc.Blocks = append(doc.Blocks, Block{
			Text:     text,
			Headings: []string{strings.Join(header, ", ")},
		})
	}
	return doc, nil
}

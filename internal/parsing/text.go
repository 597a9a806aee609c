package parsing

import (
	"fmt"
	"os"
	"strings"
)

// TextParser reads plain-text style formats. For markdown it records the
// nearest preceding ATX headings as the heading path of each paragraph.
type TextParser struct{}

func (p *TextParser) Extensions() []string { return []string{".txt", ".md", ".text"} }

func (p *TextParser) Parse(path string) (*Document, error) {
	if err := validateFile(path); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	doc := &Document{}
	markdown := strings.HasSuffix(strings.ToLower(path), ".md")

	// Heading stack indexed by ATX level, so "## B" under "# A" yields [A, B].
	var headings []string
	for _, para := range splitParagraphs(string(raw)) {
		if markdown {
			if level, title, ok := atxHeading(para); ok {
				if level <= len(headings) {
					headings = headings[:level-1]
				}
				headings = append(headings, title)
				continue
			}
		}
		doc.Blocks = append(doc.Blocks, Block{
			Text:     para,
			Headings: append([]string(nil), headings...),
		})
	}
	return doc, nil
}

func atxHeading(line string) (level int, title string, ok bool) {
	if strings.Contains(line, "\n") {
		return 0, "", false
	}
	i := 0
	for i < len(line) && line[i] == '#' {
		i++
	}
	if i == 0 || i > 6 || i == len(line) || line[i] != ' ' {
		return 0, "", false
	}
	return i, strings.TrimSpace(line[i:]), true
}

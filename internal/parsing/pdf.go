package parsing

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFParser extracts text page by page so every block carries its page
// number, which retrieval citations depend on.
type PDFParser struct{}

func (p *PDFParser) Extensions() []string { return []string{".pdf"} }

func (p *PDFParser) Parse(path string) (*Document, error) {
	if err := validateFile(path); err != nil {
		return nil, err
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	doc := &Document{}
	for pageNo := 1; pageNo <= r.NumPage(); pageNo++ {
		page := r.Page(pageNo)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract pdf text (page %d): %w", pageNo, err)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		doc.Blocks = append(doc.Blocks, Block{Text: text, Page: pageNo})
	}
	return doc, nil
}

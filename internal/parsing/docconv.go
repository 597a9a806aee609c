package parsing

import (
	"fmt"

	"code.sajari.com/docconv"
)

// DocconvParser handles office and web formats through sajari/docconv. The
// conversion flattens layout, so blocks carry no page provenance.
type DocconvParser struct{}

func (p *DocconvParser) Extensions() []string {
	return []string{".docx", ".doc", ".html", ".htm", ".rtf"}
}

func (p *DocconvParser) Parse(path string) (*Document, error) {
	if err := validateFile(path); err != nil {
		return nil, err
	}

	res, err := docconv.ConvertPath(path)
	if err != nil {
		return nil, fmt.Errorf("docconv %s: %w", path, err)
	}

	doc := &Document{}
	for _, para := range splitParagraphs(res.Body) {
		doc.Blocks = append(doc.Blocks, Block{Text: para})
	}
	return doc, nil
}

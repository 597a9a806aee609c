// Package parsing turns document files into an ordered structural
// representation. Parsers are looked up by file extension; the segmentation
// into token-bounded chunks happens downstream in package chunking.
package parsing

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	ErrNotFound          = errors.New("file not found")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// Block is one structural unit emitted by a parser: a page, a paragraph or a
// table row, with whatever provenance the format carries.
type Block struct {
	Text     string
	Page     int // 1-based; 0 when the format has no page concept
	Headings []string
}

// Document is the ordered parse result for one file.
type Document struct {
	Blocks []Block
}

// Parser extracts an ordered Document from a file on disk.
type Parser interface {
	Parse(path string) (*Document, error)
	Extensions() []string
}

// Registry maps lowercased file extensions to parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry returns a registry with all built-in parsers installed.
func NewRegistry() *Registry {
	r := &Registry{parsers: make(map[string]Parser)}
	r.Register(&PDFParser{})
	r.Register(&DocconvParser{})
	r.Register(&TextParser{})
	r.Register(&CSVParser{})
	return r
}

// Register installs a parser under each of its extensions.
func (r *Registry) Register(p Parser) {
	for _, ext := range p.Extensions() {
		r.parsers[strings.ToLower(ext)] = p
	}
}

// ForFile selects the parser for a path by its extension.
func (r *Registry) ForFile(path string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(path))
	p, ok := r.parsers[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %s (supported: %s)", ErrUnsupportedFormat, ext, strings.Join(r.SupportedExtensions(), ", "))
	}
	return p, nil
}

// Parse runs the matching parser against the file.
func (r *Registry) Parse(path string) (*Document, error) {
	p, err := r.ForFile(path)
	if err != nil {
		return nil, err
	}
	return p.Parse(path)
}

// SupportedExtensions lists every registered extension, sorted.
func (r *Registry) SupportedExtensions() []string {
	out := make([]string, 0, len(r.parsers))
	for ext := range r.parsers {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// validateFile confirms the path exists before a parser touches it.
func validateFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	return nil
}

// splitParagraphs breaks plain text into non-empty paragraph strings.
func splitParagraphs(text string) []string {
	parts := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

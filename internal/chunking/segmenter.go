// Package chunking splits parsed documents into token-bounded segments and
// enriches them into metadata-carrying passages.
package chunking

import (
	"strings"

	"docqa/internal/parsing"
)

// Segment is a token-bounded slice of a parsed document, still carrying the
// page and heading provenance of its source block.
type Segment struct {
	Text     string
	Page     int
	Headings []string
}

// SegmenterConfig tunes segmentation.
//
// MaxTokens:  approximate token budget per segment.
// MergePeers: combine small adjacent segments that share provenance while
//             they fit under the budget.
type SegmenterConfig struct {
	MaxTokens  int
	MergePeers bool
}

// Segmenter produces an ordered, finite sequence of segments from a parsed
// document.
type Segmenter struct {
	cfg SegmenterConfig
}

func NewSegmenter(cfg SegmenterConfig) *Segmenter {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 512
	}
	return &Segmenter{cfg: cfg}
}

// Segment walks the document blocks in order. Oversized blocks are split on
// word boundaries; undersized neighbours are optionally merged. Output order
// always equals block emission order.
func (s *Segmenter) Segment(doc *parsing.Document) []Segment {
	var out []Segment
	for _, block := range doc.Blocks {
		for _, piece := range splitToBudget(block.Text, s.cfg.MaxTokens) {
			out = append(out, Segment{Text: piece, Page: block.Page, Headings: block.Headings})
		}
	}
	if s.cfg.MergePeers {
		out = mergePeers(out, s.cfg.MaxTokens)
	}
	return out
}

// splitToBudget cuts text into word-boundary pieces of at most maxTokens.
func splitToBudget(text string, maxTokens int) []string {
	if approxTokens(text) <= maxTokens {
		return []string{text}
	}

	words := strings.Fields(text)
	var (
		pieces []string
		buf    []string
		tokSum int
	)
	flush := func() {
		if len(buf) == 0 {
			return
		}
		pieces = append(pieces, strings.Join(buf, " "))
		buf = buf[:0]
		tokSum = 0
	}
	for _, w := range words {
		t := approxTokens(w) + 1
		if tokSum+t > maxTokens && tokSum > 0 {
			flush()
		}
		buf = append(buf, w)
		tokSum += t
	}
	flush()
	return pieces
}

// mergePeers joins adjacent segments with identical provenance while the
// combined text stays within the budget.
func mergePeers(segs []Segment, maxTokens int) []Segment {
	if len(segs) == 0 {
		return segs
	}
	out := []Segment{segs[0]}
	for _, seg := range segs[1:] {
		last := &out[len(out)-1]
		if samePeer(*last, seg) && approxTokens(last.Text)+approxTokens(seg.Text) <= maxTokens {
			last.Text = last.Text + "\n" + seg.Text
			continue
		}
		out = append(out, seg)
	}
	return out
}

func samePeer(a, b Segment) bool {
	if a.Page != b.Page || len(a.Headings) != len(b.Headings) {
		return false
	}
	for i := range a.Headings {
		if a.Headings[i] != b.Headings[i] {
			return false
		}
	}
	return true
}

// approxTokens is a cheap token estimator (~4 chars per token).
func approxTokens(s string) int {
	n := len([]rune(s))
	if n <= 0 {
		return 0
	}
	return (n + 3) / 4
}

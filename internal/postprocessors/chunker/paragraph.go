// Package chunker provides the segmentation strategies that split cleaned
// text into size-bounded chunks. Lengths are measured in runes.
package chunker

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ppa-inteligente/ppa/internal/core/domain"
	"github.com/ppa-inteligente/ppa/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.Segmenter = (*Paragraph)(nil)

// Paragraph packs blank-line separated paragraphs greedily into chunks.
// A paragraph longer than the limit is hard-split at word boundaries,
// so every chunk respects the limit.
type Paragraph struct{}

// NewParagraph creates the paragraph segmenter.
func NewParagraph() *Paragraph {
	return &Paragraph{}
}

// Name returns the strategy name.
func (p *Paragraph) Name() string {
	return string(domain.StrategyParagraph)
}

// Segment splits text into chunks of at most limit runes.
func (p *Paragraph) Segment(text string, limit int) ([]string, error) {
	if err := checkLimit(limit); err != nil {
		return nil, err
	}

	var chunks []string
	var buf strings.Builder
	bufLen := 0

	flush := func() {
		if bufLen > 0 {
			chunks = append(chunks, buf.String())
			buf.Reset()
			bufLen = 0
		}
	}

	for _, para := range Paragraphs(text) {
		n := runeLen(para)
		switch {
		case n > limit:
			flush()
			chunks = append(chunks, HardSplit(para, limit)...)
		case bufLen == 0:
			buf.WriteString(para)
			bufLen = n
		case bufLen+n+1 <= limit:
			buf.WriteByte(' ')
			buf.WriteString(para)
			bufLen += n + 1
		default:
			flush()
			buf.WriteString(para)
			bufLen = n
		}
	}
	flush()

	return chunks, nil
}

// Paragraphs splits text on blank lines into trimmed, non-empty paragraphs.
func Paragraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// HardSplit cuts s into trimmed pieces of at most limit runes. Each cut is
// made at the last space before the limit offset, or exactly at the limit
// when the window has no space.
func HardSplit(s string, limit int) []string {
	var pieces []string
	rest := []rune(strings.TrimSpace(s))

	for len(rest) > limit {
		cut := lastSpace(rest[:limit])
		if cut <= 0 {
			cut = limit
		}
		if piece := strings.TrimSpace(string(rest[:cut])); piece != "" {
			pieces = append(pieces, piece)
		}
		rest = []rune(strings.TrimSpace(string(rest[cut:])))
	}
	if len(rest) > 0 {
		pieces = append(pieces, string(rest))
	}
	return pieces
}

func lastSpace(window []rune) int {
	for i := len(window) - 1; i >= 0; i-- {
		if window[i] == ' ' {
			return i
		}
	}
	return -1
}

func checkLimit(limit int) error {
	if limit <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrConfiguration, limit)
	}
	return nil
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

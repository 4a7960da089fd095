package chunker

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/ppa-inteligente/ppa/internal/core/domain"
	"github.com/ppa-inteligente/ppa/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.Segmenter = (*Sentence)(nil)

// Sentence packs sentences greedily into chunks. A sentence longer than the
// limit is never split; it becomes its own oversized chunk.
type Sentence struct{}

// NewSentence creates the sentence segmenter.
func NewSentence() *Sentence {
	return &Sentence{}
}

// Name returns the strategy name.
func (s *Sentence) Name() string {
	return string(domain.StrategySentence)
}

// Segment splits text into chunks of whole sentences.
func (s *Sentence) Segment(text string, limit int) ([]string, error) {
	if err := checkLimit(limit); err != nil {
		return nil, err
	}

	var chunks []string
	var buf strings.Builder
	bufLen := 0

	for _, sentence := range Sentences(text) {
		n := runeLen(sentence)
		switch {
		case bufLen == 0:
			buf.WriteString(sentence)
			bufLen = n
		case bufLen+n+1 <= limit:
			buf.WriteByte(' ')
			buf.WriteString(sentence)
			bufLen += n + 1
		default:
			chunks = append(chunks, buf.String())
			buf.Reset()
			buf.WriteString(sentence)
			bufLen = n
		}
	}
	if bufLen > 0 {
		chunks = append(chunks, buf.String())
	}

	return chunks, nil
}

// Sentences splits text into trimmed, non-empty sentences using Unicode
// sentence boundaries (UAX #29).
func Sentences(text string) []string {
	var out []string
	state := -1
	rest := text
	for len(rest) > 0 {
		var sentence string
		sentence, rest, state = uniseg.FirstSentenceInString(rest, state)
		if sentence = strings.TrimSpace(sentence); sentence != "" {
			out = append(out, sentence)
		}
	}
	return out
}

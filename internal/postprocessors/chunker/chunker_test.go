package chunker

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppa-inteligente/ppa/internal/core/domain"
)

func TestNames(t *testing.T) {
	assert.Equal(t, "paragraph", NewParagraph().Name())
	assert.Equal(t, "sentence", NewSentence().Name())
}

func TestParagraph_Segment(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		limit    int
		expected []string
	}{
		{
			name:     "empty text",
			text:     "",
			limit:    10,
			expected: nil,
		},
		{
			name:     "hard split at last space",
			text:     "AAAA BBBB CCCC",
			limit:    9,
			expected: []string{"AAAA", "BBBB CCCC"},
		},
		{
			name:     "limit plus one with space at limit minus three",
			text:     "ABCDEFG HIJ",
			limit:    10,
			expected: []string{"ABCDEFG", "HIJ"},
		},
		{
			name:     "no space splits exactly at limit",
			text:     "ABCDEFGHIJKL",
			limit:    5,
			expected: []string{"ABCDE", "FGHIJ", "KL"},
		},
		{
			name:     "greedy packing",
			text:     "Um.\n\nDois.\n\nTrês.",
			limit:    10,
			expected: []string{"Um. Dois.", "Três."},
		},
		{
			name:     "oversized paragraph flushes buffer first",
			text:     "curto\n\nAAAA BBBB CCCC\n\nfim",
			limit:    9,
			expected: []string{"curto", "AAAA", "BBBB CCCC", "fim"},
		},
		{
			name:     "exact fit joins",
			text:     "ação\n\nação",
			limit:    9,
			expected: []string{"ação ação"},
		},
		{
			name:     "blank paragraphs skipped",
			text:     "\n\n  \n\num\n\n\n\ndois  ",
			limit:    100,
			expected: []string{"um dois"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, err := NewParagraph().Segment(tt.text, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, chunks)
		})
	}
}

func TestSegment_NonPositiveLimit(t *testing.T) {
	segmenters := []interface {
		Segment(string, int) ([]string, error)
	}{NewParagraph(), NewSentence()}

	for _, s := range segmenters {
		for _, limit := range []int{0, -5} {
			_, err := s.Segment("texto", limit)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrConfiguration))
		}
	}
}

func sampleText() string {
	words := []string{"planejamento", "orçamento", "saúde", "educação", "meta", "ação", "programa", "desenvolvimento"}
	var paras []string
	for p := 0; p < 12; p++ {
		var ws []string
		for w := 0; w < 3+p*4; w++ {
			ws = append(ws, words[(p*7+w*3)%len(words)])
		}
		paras = append(paras, strings.Join(ws, " ")+".")
	}
	return strings.Join(paras, "\n\n")
}

func TestParagraph_SizeBound(t *testing.T) {
	text := sampleText() + "\n\n" + strings.Repeat("x", 95)

	for _, limit := range []int{1, 7, 20, 50, 120, 400} {
		t.Run(fmt.Sprintf("limit %d", limit), func(t *testing.T) {
			chunks, err := NewParagraph().Segment(text, limit)
			require.NoError(t, err)
			require.NotEmpty(t, chunks)
			for _, c := range chunks {
				assert.NotEmpty(t, c)
				assert.LessOrEqual(t, utf8.RuneCountInString(c), limit, "chunk %q", c)
			}
		})
	}
}

func TestParagraph_LosslessWhenParagraphsFit(t *testing.T) {
	text := sampleText()
	limit := 0
	for _, p := range Paragraphs(text) {
		if n := utf8.RuneCountInString(p); n > limit {
			limit = n
		}
	}

	for _, l := range []int{limit, limit + 10, limit * 3} {
		chunks, err := NewParagraph().Segment(text, l)
		require.NoError(t, err)
		assert.Equal(t, strings.Join(Paragraphs(text), " "), strings.Join(chunks, " "))
	}
}

func TestHardSplit_Lossless(t *testing.T) {
	para := "O programa de desenvolvimento regional amplia o acesso aos serviços públicos essenciais"

	pieces := HardSplit(para, 20)

	assert.Equal(t, para, strings.Join(pieces, " "))
	for _, p := range pieces {
		assert.LessOrEqual(t, utf8.RuneCountInString(p), 20)
	}
}

func TestSentence_Segment(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		limit    int
		expected []string
	}{
		{
			name:     "empty text",
			text:     "",
			limit:    10,
			expected: nil,
		},
		{
			name:     "greedy packing",
			text:     "Primeira frase. Segunda frase. Terceira frase.",
			limit:    32,
			expected: []string{"Primeira frase. Segunda frase.", "Terceira frase."},
		},
		{
			name:  "oversized sentence kept whole",
			text:  "Curta. Uma frase muito longa que excede o limite. Fim.",
			limit: 10,
			expected: []string{
				"Curta.",
				"Uma frase muito longa que excede o limite.",
				"Fim.",
			},
		},
		{
			name:     "question and exclamation marks",
			text:     "Você vem? Sim! Ótimo.",
			limit:    1,
			expected: []string{"Você vem?", "Sim!", "Ótimo."},
		},
		{
			name:     "everything fits",
			text:     "Um. Dois.",
			limit:    100,
			expected: []string{"Um. Dois."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, err := NewSentence().Segment(tt.text, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, chunks)
		})
	}
}

func TestSegment_Idempotent(t *testing.T) {
	text := sampleText()

	for _, s := range []interface {
		Segment(string, int) ([]string, error)
	}{NewParagraph(), NewSentence()} {
		first, err := s.Segment(text, 60)
		require.NoError(t, err)
		second, err := s.Segment(text, 60)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func TestSentences(t *testing.T) {
	assert.Equal(t, []string{"Olá.", "Tudo bem?"}, Sentences("Olá.   Tudo bem?  "))
	assert.Nil(t, Sentences("   "))
}

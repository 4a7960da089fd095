package cleaner

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		pages    []string
		expected string
	}{
		{
			name:     "nil pages",
			pages:    nil,
			expected: "",
		},
		{
			name:     "blank pages",
			pages:    []string{"", "   \n  "},
			expected: "",
		},
		{
			name:     "single line breaks become spaces",
			pages:    []string{"Primeiro parágrafo\ncontinua aqui.\n\nSegundo parágrafo."},
			expected: "Primeiro parágrafo continua aqui.\n\nSegundo parágrafo.",
		},
		{
			name:     "bullets keep their own line",
			pages:    []string{"Objetivos:\n• Ampliar acesso\n• Reduzir custos"},
			expected: "Objetivos:\n• Ampliar acesso\n• Reduzir custos",
		},
		{
			name:     "dash bullets keep their own line",
			pages:    []string{"Público:\n- Estudantes\n- Professores"},
			expected: "Público:\n- Estudantes\n- Professores",
		},
		{
			name:     "hyphenated word across lines",
			pages:    []string{"A infor-\nmação pública"},
			expected: "A informação pública",
		},
		{
			name:     "space runs and blank line runs",
			pages:    []string{"texto   com    espaços\n\n\n\nnovo"},
			expected: "texto com espaços\n\nnovo",
		},
		{
			name:     "carriage returns removed",
			pages:    []string{"linha um\r\nlinha dois"},
			expected: "linha um linha dois",
		},
		{
			name:     "marker runes in input are dropped",
			pages:    []string{"a\uE000b\uE001c"},
			expected: "abc",
		},
		{
			name:     "trailing whitespace trimmed",
			pages:    []string{"\n\n  conteúdo  \n\n"},
			expected: "conteúdo",
		},
		{
			name:     "single page long lines are not artifacts",
			pages:    []string{"Uma linha longa de texto"},
			expected: "Uma linha longa de texto",
		},
		{
			name:     "pages joined with a line break",
			pages:    []string{"fim da página", "início da seguinte"},
			expected: "fim da página início da seguinte",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.pages))
		})
	}
}

func TestNormalize_RemovesRunningHeaders(t *testing.T) {
	pages := []string{
		"Relatório de Gestão 2023\nPágina um.\nRodapé institucional",
		"Relatório de Gestão 2023\nPágina dois.\nRodapé institucional",
		"Relatório de Gestão 2023\nPágina três.\nRodapé institucional",
	}

	assert.Equal(t, "Página um. Página dois. Página três.", Normalize(pages))
}

// Removal is a global exact-string replace: body text that repeats a header
// verbatim is removed too.
func TestNormalize_GlobalRemovalAffectsBodyText(t *testing.T) {
	pages := []string{
		"Governo do Estado do Piauí\nPágina um.",
		"Governo do Estado do Piauí\nO Governo do Estado do Piauí investiu.",
		"Governo do Estado do Piauí\nPágina três.",
	}

	assert.Equal(t, "Página um. O investiu. Página três.", Normalize(pages))
}

func TestNormalize_Idempotent(t *testing.T) {
	pages := []string{
		"Cabeçalho do documento\nTexto com infor-\nmação.\n\n• item um\n• item dois",
		"Cabeçalho do documento\nOutro   parágrafo\ncom quebra.",
	}

	first := Normalize(pages)
	second := Normalize(pages)

	assert.Equal(t, first, second)
	assert.NotContains(t, first, string(paragraphMark))
	assert.NotContains(t, first, string(bulletMark))
	assert.Equal(t, "Texto com informação.\n\n• item um\n• item dois Outro parágrafo com quebra.", first)
}

func TestRepeatedLines_Threshold(t *testing.T) {
	const removed = "ABCDEFGHIJK" // 11 characters
	const kept = "ZYXWVUTSRQP"

	for _, n := range []int{2, 3, 4, 5, 7, 10} {
		t.Run(fmt.Sprintf("%d pages", n), func(t *testing.T) {
			removeOn := (6*n + 9) / 10 // ceil(0.6 * n)
			keepOn := 6*n/10 - 1       // floor(0.6 * n) - 1

			pages := make([]string, n)
			for i := range pages {
				lines := []string{fmt.Sprintf("conteúdo da página %d", i)}
				if i < removeOn {
					lines = append(lines, removed)
				}
				if i < keepOn {
					lines = append(lines, kept)
				}
				pages[i] = strings.Join(lines, "\n")
			}

			artifacts := RepeatedLines(pages)

			assert.Contains(t, artifacts, removed)
			assert.NotContains(t, artifacts, kept)
			assert.NotContains(t, Normalize(pages), removed)
			if keepOn > 0 {
				assert.Contains(t, Normalize(pages), kept)
			}
		})
	}
}

func TestRepeatedLines_SinglePageKeepsBody(t *testing.T) {
	pages := []string{"ABCDEFGHIJK\ncorpo do documento único"}

	assert.Empty(t, RepeatedLines(pages))
	assert.Equal(t, "ABCDEFGHIJK corpo do documento único", Normalize(pages))
}

func TestRepeatedLines_LengthBound(t *testing.T) {
	pages := []string{
		"ABCDEFGHIJ\nCabeçalho longo\na",
		"ABCDEFGHIJ\nCabeçalho longo\nb",
	}

	artifacts := RepeatedLines(pages)

	assert.Equal(t, []string{"Cabeçalho longo"}, artifacts)
}

func TestRepeatedLines_CountsOncePerPage(t *testing.T) {
	pages := []string{
		"linha repetida aqui\nlinha repetida aqui\nlinha repetida aqui",
		"outra coisa",
		"mais outra coisa",
	}

	assert.Empty(t, RepeatedLines(pages))
}

func TestRepeatedLines_LongestFirst(t *testing.T) {
	pages := []string{
		"Secretaria de Planejamento\nSecretaria de Planejamento do Estado\nx",
		"Secretaria de Planejamento\nSecretaria de Planejamento do Estado\ny",
	}

	artifacts := RepeatedLines(pages)

	require.Len(t, artifacts, 2)
	assert.Equal(t, "Secretaria de Planejamento do Estado", artifacts[0])
}

func TestRepairHyphenation(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"infor-\nmação", "informação"},
		{"infor- mação", "informação"},
		{"infor-   \n  mação", "informação"},
		{"bem-estar", "bem-estar"},
		{"2020 - 2023", "2020 - 2023"},
		{"texto\n- item", "texto\n- item"},
		{"fim-", "fim-"},
		{"ano- 2023", "ano- 2023"},
		{"2024-\n2027", "2024-\n2027"},
		{"item 3-\nb", "item 3-\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, RepairHyphenation(tt.input))
		})
	}
}

func TestNormalize_KeepsNumericRanges(t *testing.T) {
	assert.Equal(t, "Plano Plurianual 2024- 2027", Normalize([]string{"Plano Plurianual 2024-\n2027"}))
}

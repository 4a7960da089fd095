package spreadsheet

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ppa-inteligente/ppa/internal/core/domain"
)

func writeWorkbook(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	cells := map[string]string{
		"A1": "Meta", "B1": " Valor ", "D1": "Obs",
		"A2": "Saúde", "B2": "10", "C2": "x",
		"A4": "Educação", "D4": " ok ",
	}
	for cell, v := range cells {
		require.NoError(t, f.SetCellValue("Sheet1", cell, v))
	}
	require.NoError(t, f.SetSheetName("Sheet1", "Metas"))

	_, err := f.NewSheet("Resumo")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Resumo", "A1", "Total"))
	require.NoError(t, f.SetCellValue("Resumo", "A2", "20"))

	path := filepath.Join(t.TempDir(), "planilha.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestFormats(t *testing.T) {
	assert.Equal(t, []domain.Format{domain.FormatXLS, domain.FormatXLSX}, New().Formats())
}

func TestExtract_XLSX(t *testing.T) {
	path := writeWorkbook(t)

	doc, err := New().Extract(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "planilha.xlsx", doc.ID)
	assert.Equal(t, domain.FormatXLSX, doc.Format)
	assert.Empty(t, doc.Pages)
	require.Len(t, doc.Rows, 3)

	first := doc.Rows[0]
	assert.Equal(t, "Metas", first.Sheet)
	assert.Equal(t, []string{"Meta", "Valor", "Unnamed: 2", "Obs"}, first.Columns)
	assert.Equal(t, "Meta: Saúde | Valor: 10 | Unnamed: 2: x | Obs: ", first.Text())

	second := doc.Rows[1]
	assert.Equal(t, map[string]string{
		"Meta": "Educação", "Valor": "", "Unnamed: 2": "", "Obs": "ok",
	}, second.Values)

	third := doc.Rows[2]
	assert.Equal(t, "Resumo", third.Sheet)
	assert.Equal(t, "Total: 20", third.Text())
}

func TestExtract_CorruptWorkbooks(t *testing.T) {
	for _, name := range []string{"quebrada.xlsx", "quebrada.xls"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, os.WriteFile(path, []byte("não é uma planilha"), 0o644))

			doc, err := New().Extract(context.Background(), path)

			assert.Nil(t, doc)
			assert.ErrorIs(t, err, domain.ErrExtractionFailed)
		})
	}
}

func TestExtract_UnsupportedExtension(t *testing.T) {
	_, err := New().Extract(context.Background(), "dados.csv")

	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestRows(t *testing.T) {
	tests := []struct {
		name     string
		sheet    Sheet
		expected []domain.SheetRow
	}{
		{
			name:     "empty sheet",
			sheet:    Sheet{Name: "Vazia"},
			expected: nil,
		},
		{
			name:     "header only",
			sheet:    Sheet{Name: "S", Cells: [][]string{{"a", "b"}}},
			expected: nil,
		},
		{
			name: "leading blank rows and duplicate headers",
			sheet: Sheet{Name: "S", Cells: [][]string{
				nil,
				{"", "  "},
				{"ano", "ano", ""},
				{"2023", "2024", "extra"},
				{" ", ""},
			}},
			expected: []domain.SheetRow{{
				Sheet:   "S",
				Columns: []string{"ano", "ano.1", "Unnamed: 2"},
				Values:  map[string]string{"ano": "2023", "ano.1": "2024", "Unnamed: 2": "extra"},
			}},
		},
		{
			name: "row wider than header",
			sheet: Sheet{Name: "S", Cells: [][]string{
				{"col"},
				{"v", "w"},
			}},
			expected: []domain.SheetRow{{
				Sheet:   "S",
				Columns: []string{"col", "Unnamed: 1"},
				Values:  map[string]string{"col": "v", "Unnamed: 1": "w"},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Rows(tt.sheet))
		})
	}
}

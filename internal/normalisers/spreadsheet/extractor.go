// Package spreadsheet extracts rows from legacy .xls and .xlsx workbooks.
// Every sheet is read; the first non-empty row of a sheet is its header.
package spreadsheet

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/ppa-inteligente/ppa/internal/core/domain"
	"github.com/ppa-inteligente/ppa/internal/core/ports/driven"
	"github.com/ppa-inteligente/ppa/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Sheet is the raw cell grid of one worksheet.
type Sheet struct {
	Name  string
	Cells [][]string
}

// Extractor handles .xls and .xlsx workbooks.
type Extractor struct{}

// New creates a new spreadsheet extractor.
func New() *Extractor {
	return &Extractor{}
}

// Formats returns the formats this extractor handles.
func (e *Extractor) Formats() []domain.Format {
	return []domain.Format{domain.FormatXLS, domain.FormatXLSX}
}

// Extract reads every sheet of the workbook at path into rows.
func (e *Extractor) Extract(ctx context.Context, path string) (doc *domain.SourceDocument, err error) {
	name := filepath.Base(path)
	format := domain.FormatFromPath(path)

	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("%w: %s: %v", domain.ErrExtractionFailed, name, r)
		}
	}()

	var sheets []Sheet
	switch format {
	case domain.FormatXLS:
		sheets, err = readXLS(path)
	case domain.FormatXLSX:
		sheets, err = readXLSX(ctx, path)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrExtractionFailed, name, err)
	}

	var rows []domain.SheetRow
	for _, s := range sheets {
		rows = append(rows, Rows(s)...)
	}
	logger.Debug("spreadsheet %s: %d sheets, %d rows", name, len(sheets), len(rows))

	return &domain.SourceDocument{
		ID:     name,
		Path:   path,
		Format: format,
		Rows:   rows,
	}, nil
}

func readXLSX(ctx context.Context, path string) ([]Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var sheets []Sheet
	for _, name := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cells, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("sheet %s: %w", name, err)
		}
		sheets = append(sheets, Sheet{Name: name, Cells: cells})
	}
	return sheets, nil
}

func readXLS(path string) ([]Sheet, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, err
	}

	var sheets []Sheet
	for i := 0; i < wb.NumSheets(); i++ {
		ws := wb.GetSheet(i)
		if ws == nil {
			continue
		}

		cells := make([][]string, 0, int(ws.MaxRow)+1)
		for r := 0; r <= int(ws.MaxRow); r++ {
			row := ws.Row(r)
			if row == nil {
				cells = append(cells, nil)
				continue
			}
			values := make([]string, row.LastCol())
			for c := row.FirstCol(); c < row.LastCol(); c++ {
				values[c] = row.Col(c)
			}
			cells = append(cells, values)
		}
		sheets = append(sheets, Sheet{Name: ws.Name, Cells: cells})
	}
	return sheets, nil
}

// Rows turns a cell grid into rows keyed by header. Fully empty rows are
// dropped, empty cells become "", and headers and values are trimmed.
// Missing or blank headers are named "Unnamed: <index>" and repeated
// headers get a ".<n>" suffix.
func Rows(s Sheet) []domain.SheetRow {
	start := -1
	width := 0
	for i, cells := range s.Cells {
		if start < 0 && !isEmpty(cells) {
			start = i
		}
		if len(cells) > width {
			width = len(cells)
		}
	}
	if start < 0 {
		return nil
	}

	columns := headers(s.Cells[start], width)

	var rows []domain.SheetRow
	for _, cells := range s.Cells[start+1:] {
		if isEmpty(cells) {
			continue
		}
		values := make(map[string]string, width)
		for j, col := range columns {
			v := ""
			if j < len(cells) {
				v = strings.TrimSpace(cells[j])
			}
			values[col] = v
		}
		rows = append(rows, domain.SheetRow{
			Sheet:   s.Name,
			Columns: columns,
			Values:  values,
		})
	}
	return rows
}

func headers(first []string, width int) []string {
	columns := make([]string, width)
	seen := make(map[string]int, width)
	for j := range columns {
		name := ""
		if j < len(first) {
			name = strings.TrimSpace(first[j])
		}
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(j)
		}
		if n := seen[name]; n > 0 {
			seen[name] = n + 1
			name = name + "." + strconv.Itoa(n)
		} else {
			seen[name] = 1
		}
		columns[j] = name
	}
	return columns
}

func isEmpty(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

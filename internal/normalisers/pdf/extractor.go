// Package pdf extracts per-page text from PDF files.
package pdf

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/ppa-inteligente/ppa/internal/core/domain"
	"github.com/ppa-inteligente/ppa/internal/core/ports/driven"
	"github.com/ppa-inteligente/ppa/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// gapFactor is the fraction of the font size that a horizontal gap between
// two text fragments must exceed to be read as a word break.
const gapFactor = 0.2

// Extractor reads the text of every page of a PDF, one line per text row.
type Extractor struct{}

// New creates a new PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// Formats returns the formats this extractor handles.
func (e *Extractor) Formats() []domain.Format {
	return []domain.Format{domain.FormatPDF}
}

// Extract reads all pages of the PDF at path. A page that cannot be decoded
// yields empty text; a file that cannot be opened fails the document.
func (e *Extractor) Extract(ctx context.Context, path string) (doc *domain.SourceDocument, err error) {
	name := filepath.Base(path)

	// The PDF reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("%w: %s: %v", domain.ErrExtractionFailed, name, r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrExtractionFailed, name, err)
	}
	defer f.Close()

	total := reader.NumPage()
	pages := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := pageText(reader.Page(i))
		if err != nil {
			logger.Warn("pdf %s: page %d unreadable: %v", name, i, err)
		}
		pages = append(pages, text)
	}

	logger.Debug("pdf %s: %d pages", name, total)

	return &domain.SourceDocument{
		ID:     name,
		Path:   path,
		Format: domain.FormatPDF,
		Pages:  pages,
	}, nil
}

func pageText(p pdf.Page) (string, error) {
	if p.V.IsNull() {
		return "", nil
	}

	rows, err := p.GetTextByRow()
	if err == nil && len(rows) > 0 {
		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			lines = append(lines, JoinFragments(row.Content))
		}
		return strings.Join(lines, "\n"), nil
	}

	return p.GetPlainText(nil)
}

// JoinFragments concatenates the text fragments of one row, inserting a
// space where the horizontal gap between fragments reads as a word break.
func JoinFragments(texts []pdf.Text) string {
	var b strings.Builder
	for i, t := range texts {
		if i > 0 {
			prev := texts[i-1]
			gap := t.X - (prev.X + prev.W)
			if gap > prev.FontSize*gapFactor &&
				!strings.HasSuffix(prev.S, " ") && !strings.HasPrefix(t.S, " ") {
				b.WriteByte(' ')
			}
		}
		b.WriteString(t.S)
	}
	return b.String()
}

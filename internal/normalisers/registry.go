package normalisers

import (
	"context"
	"fmt"
	"sort"

	"github.com/ppa-inteligente/ppa/internal/core/domain"
	"github.com/ppa-inteligente/ppa/internal/core/ports/driven"
	"github.com/ppa-inteligente/ppa/internal/normalisers/pdf"
	"github.com/ppa-inteligente/ppa/internal/normalisers/plaintext"
	"github.com/ppa-inteligente/ppa/internal/normalisers/spreadsheet"
)

// Verify interface compliance.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry dispatches extraction by file format.
type Registry struct {
	extractors map[domain.Format]driven.Extractor
}

// NewRegistry creates an empty extractor registry.
func NewRegistry() *Registry {
	return &Registry{extractors: make(map[domain.Format]driven.Extractor)}
}

// NewDefaultRegistry returns a registry with the PDF, spreadsheet and
// plain-text extractors.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(pdf.New())
	r.Register(spreadsheet.New())
	r.Register(plaintext.New())
	return r
}

// Register adds an extractor for every format it supports.
func (r *Registry) Register(extractor driven.Extractor) {
	for _, f := range extractor.Formats() {
		r.extractors[f] = extractor
	}
}

// Extract reads the file with the extractor registered for its format.
func (r *Registry) Extract(ctx context.Context, path string) (*domain.SourceDocument, error) {
	format := domain.FormatFromPath(path)
	e, ok := r.extractors[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, path)
	}
	return e.Extract(ctx, path)
}

// SupportedFormats returns all formats that can be extracted, sorted.
func (r *Registry) SupportedFormats() []domain.Format {
	formats := make([]domain.Format, 0, len(r.extractors))
	for f := range r.extractors {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}

// Package plaintext extracts text files, treating form feeds as page breaks.
package plaintext

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ppa-inteligente/ppa/internal/core/domain"
	"github.com/ppa-inteligente/ppa/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text documents.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Formats returns the formats this extractor handles.
func (e *Extractor) Formats() []domain.Format {
	return []domain.Format{domain.FormatText}
}

// Extract reads the file. Invalid UTF-8 fails the document.
func (e *Extractor) Extract(_ context.Context, path string) (*domain.SourceDocument, error) {
	name := filepath.Base(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrExtractionFailed, name, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: %s: not valid UTF-8", domain.ErrExtractionFailed, name)
	}

	return &domain.SourceDocument{
		ID:     name,
		Path:   path,
		Format: domain.FormatText,
		Pages:  strings.Split(string(data), "\f"),
	}, nil
}

// Package postprocessors turns extracted documents into chunk text: it
// cleans page text and runs the configured segmenter over the result.
package postprocessors

import (
	"fmt"

	"github.com/ppa-inteligente/ppa/internal/core/domain"
	"github.com/ppa-inteligente/ppa/internal/core/ports/driven"
	"github.com/ppa-inteligente/ppa/internal/postprocessors/cleaner"
)

// Pipeline cleans the pages of a document and segments the cleaned text.
// It holds no mutable state and is safe for concurrent use.
type Pipeline struct {
	segmenter driven.Segmenter
	limit     int
}

// Result is the output of one document run.
type Result struct {
	// Cleaned is the normalised document text.
	Cleaned string

	// Pieces are the segmented chunk texts, in document order.
	Pieces []string
}

// NewPipeline creates a pipeline for a segmenter and chunk size limit.
func NewPipeline(segmenter driven.Segmenter, limit int) (*Pipeline, error) {
	if segmenter == nil {
		return nil, fmt.Errorf("%w: no segmenter", domain.ErrConfiguration)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrConfiguration, limit)
	}
	return &Pipeline{segmenter: segmenter, limit: limit}, nil
}

// Segmenter returns the segmenter name.
func (p *Pipeline) Segmenter() string {
	return p.segmenter.Name()
}

// Process cleans and segments the pages of doc.
func (p *Pipeline) Process(doc *domain.SourceDocument) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}

	cleaned := cleaner.Normalize(doc.Pages)
	pieces, err := p.segmenter.Segment(cleaned, p.limit)
	if err != nil {
		return nil, fmt.Errorf("segmenter %s: %w", p.segmenter.Name(), err)
	}

	return &Result{Cleaned: cleaned, Pieces: pieces}, nil
}

package driven

import (
	"context"

	"github.com/ppa-inteligente/ppa/internal/core/domain"
)

// ExtractorRegistry selects the extractor for a file.
type ExtractorRegistry interface {
	// Extract reads the file using the extractor registered for its format.
	// Unknown formats return domain.ErrUnsupportedType.
	Extract(ctx context.Context, path string) (*domain.SourceDocument, error)

	// Register adds an extractor to the registry.
	Register(extractor Extractor)

	// SupportedFormats returns all formats that can be extracted.
	SupportedFormats() []domain.Format
}

// SegmenterRegistry selects the segmenter for a strategy.
type SegmenterRegistry interface {
	// Get returns the segmenter for a strategy.
	// Unknown strategies return domain.ErrConfiguration.
	Get(strategy domain.Strategy) (Segmenter, error)

	// Register adds a segmenter under its own name.
	Register(segmenter Segmenter)
}

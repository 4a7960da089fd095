package driven

import (
	"context"

	"github.com/ppa-inteligente/ppa/internal/core/domain"
)

// Extractor reads one source file into a SourceDocument.
// Each extractor handles specific formats (e.g., PDF, spreadsheets).
type Extractor interface {
	// Formats returns the formats this extractor handles.
	Formats() []domain.Format

	// Extract reads the file at path. Failures wrap domain.ErrExtractionFailed.
	Extract(ctx context.Context, path string) (*domain.SourceDocument, error)
}

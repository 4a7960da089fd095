package driving

import (
	"context"
	"time"

	"github.com/ppa-inteligente/ppa/internal/core/domain"
	"github.com/ppa-inteligente/ppa/internal/core/ports/driven"
)

// IngestOptions configures one ingestion run.
type IngestOptions struct {
	// Strategy selects the segmenter.
	Strategy domain.Strategy

	// ChunkSize is the chunk length limit in characters.
	ChunkSize int

	// Workers bounds concurrent document processing.
	Workers int

	// ExtractionTimeout bounds extraction of a single document. Zero disables it.
	ExtractionTimeout time.Duration

	// WriteText sends cleaned text to the text archive, when one is configured.
	WriteText bool
}

// IngestService turns a folder of source files into corpus chunks.
type IngestService interface {
	// Ingest processes every file the connector lists and appends chunks to
	// the corpus. Per-document failures are reported, not returned.
	Ingest(ctx context.Context, conn driven.Connector, opts IngestOptions) (*domain.IngestReport, error)

	// Watch runs Ingest once, then again after every batch of file changes,
	// until ctx is done. Each report is passed to onReport.
	Watch(ctx context.Context, conn driven.Connector, opts IngestOptions, onReport func(*domain.IngestReport)) error
}

// IndexService builds a store from a corpus file.
type IndexService interface {
	// Build loads every chunk from corpusPath into store and returns the count.
	Build(ctx context.Context, corpusPath string, store driven.IndexStore) (int, error)
}

// CatalogueService extracts program records from catalogue documents.
type CatalogueService interface {
	// Parse extracts the records of one catalogue PDF.
	Parse(ctx context.Context, path string) ([]domain.ProgramRecord, error)

	// Chunks renders records as corpus chunks originating from origin.
	Chunks(origin string, records []domain.ProgramRecord) []domain.Chunk
}

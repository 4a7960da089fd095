package driven

import (
	"context"

	"github.com/ppa-inteligente/ppa/internal/core/domain"
)

// Store is an opaque similarity index queried during fusion.
// Stores are read-only at query time and safe for concurrent Search calls.
type Store interface {
	// Name identifies the store in results and outcomes.
	Name() string

	// Search returns at most k hits ordered by the store's own relevance.
	Search(ctx context.Context, query string, k int) ([]domain.StoreHit, error)
}

// IndexStore is a Store that can be built from corpus chunks.
type IndexStore interface {
	Store

	// Index adds chunks to the store. Chunks with a known id are replaced.
	Index(ctx context.Context, chunks []domain.Chunk) error

	// Count returns the number of indexed chunks.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}

// Reranker scores a candidate against the query.
// Higher scores are more relevant.
type Reranker interface {
	Score(ctx context.Context, query, text string) (float64, error)
}

// CorpusWriter appends chunks to the line-delimited corpus.
type CorpusWriter interface {
	// Append writes chunks in order, one JSON object per line.
	Append(ctx context.Context, chunks []domain.Chunk) error

	// Path returns the corpus file path.
	Path() string
}

// CorpusReader loads chunks from a line-delimited corpus.
type CorpusReader interface {
	ReadAll(ctx context.Context, path string) ([]domain.Chunk, error)
}

// TextArchive stores the cleaned text of a document.
type TextArchive interface {
	Write(sourceID, text string) error
}

package services

import (
	"context"
	"fmt"

	"github.com/ppa-inteligente/ppa/internal/core/domain"
	"github.com/ppa-inteligente/ppa/internal/core/ports/driven"
	"github.com/ppa-inteligente/ppa/internal/core/ports/driving"
	"github.com/ppa-inteligente/ppa/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// indexBatchSize is the number of chunks indexed per store call.
const indexBatchSize = 500

// IndexService builds a store from a corpus file.
type IndexService struct {
	reader driven.CorpusReader
}

// NewIndexService creates an index service.
func NewIndexService(reader driven.CorpusReader) *IndexService {
	return &IndexService{reader: reader}
}

// Build loads every chunk of the corpus into store in batches.
func (s *IndexService) Build(ctx context.Context, corpusPath string, store driven.IndexStore) (int, error) {
	logger.Section("Index Build")

	if store == nil {
		return 0, fmt.Errorf("%w: no store", domain.ErrConfiguration)
	}

	chunks, err := s.reader.ReadAll(ctx, corpusPath)
	if err != nil {
		return 0, fmt.Errorf("read corpus: %w", err)
	}
	logger.Info("Loaded %d chunks from %s", len(chunks), corpusPath)

	for start := 0; start < len(chunks); start += indexBatchSize {
		end := min(start+indexBatchSize, len(chunks))
		if err := store.Index(ctx, chunks[start:end]); err != nil {
			return start, fmt.Errorf("index chunks %d-%d into %s: %w", start, end, store.Name(), err)
		}
		logger.Debug("Indexed %d/%d", end, len(chunks))
	}

	return len(chunks), nil
}

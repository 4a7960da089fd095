package driving

import (
	"context"

	"github.com/ppa-inteligente/ppa/internal/core/domain"
	"github.com/ppa-inteligente/ppa/internal/core/ports/driven"
)

// SearchService fuses results from several independent stores.
type SearchService interface {
	// Search queries every store concurrently, concatenates results in store
	// order, truncates to opts.K and optionally reranks.
	// Failing stores are skipped and reported in the response.
	Search(ctx context.Context, query string, stores []driven.Store, opts domain.SearchOptions) (*domain.SearchResponse, error)
}

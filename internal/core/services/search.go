package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ppa-inteligente/ppa/internal/core/domain"
	"github.com/ppa-inteligente/ppa/internal/core/ports/driven"
	"github.com/ppa-inteligente/ppa/internal/core/ports/driving"
	"github.com/ppa-inteligente/ppa/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// rerankConcurrency bounds concurrent reranker calls for one query.
const rerankConcurrency = 4

// SearchService fuses results from several stores and optionally reranks
// them.
type SearchService struct {
	reranker     driven.Reranker
	storeTimeout time.Duration
}

// NewSearchService creates a search service. The reranker is optional;
// storeTimeout bounds each store query and zero disables it.
func NewSearchService(reranker driven.Reranker, storeTimeout time.Duration) *SearchService {
	return &SearchService{
		reranker:     reranker,
		storeTimeout: storeTimeout,
	}
}

// Search queries every store concurrently with the same k and concatenates
// the answers in store order, then keeps the first k. Failing stores are
// skipped and reported in the response. With opts.Rerank the candidates
// are rescored and sorted by descending score.
func (s *SearchService) Search(
	ctx context.Context, query string, stores []driven.Store, opts domain.SearchOptions,
) (*domain.SearchResponse, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q, k=%d, stores=%d, rerank=%t", query, opts.K, len(stores), opts.Rerank)

	if opts.K <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidInput, opts.K)
	}
	if opts.Rerank && s.reranker == nil {
		return nil, fmt.Errorf("%w: rerank requested but no reranker is configured", domain.ErrConfiguration)
	}

	if strings.TrimSpace(query) == "" {
		logger.Debug("Empty query, returning no results")
		return &domain.SearchResponse{Results: []domain.ScoredChunk{}}, nil
	}

	perStore, outcomes := s.fanOut(ctx, query, stores, opts.K)

	var fused []domain.ScoredChunk
	for i, hits := range perStore {
		for _, h := range hits {
			fused = append(fused, domain.ScoredChunk{
				Text:     h.Content,
				Score:    h.Score,
				Store:    outcomes[i].Store,
				Metadata: h.Metadata,
			})
		}
	}
	fused = truncate(fused, opts.K)
	logger.Debug("Fused results: %d", len(fused))

	resp := &domain.SearchResponse{Results: fused, Stores: outcomes}
	if resp.Results == nil {
		resp.Results = []domain.ScoredChunk{}
	}

	if opts.Rerank && len(fused) > 0 {
		reranked, err := s.rerank(ctx, query, fused)
		if err != nil {
			// Fused order is still a valid answer.
			logger.Warn("Rerank failed, keeping fused order: %v", err)
			return resp, nil
		}
		resp.Results = truncate(reranked, opts.K)
		resp.Reranked = true
	}

	logger.Info("Final results: %d", len(resp.Results))
	return resp, nil
}

// fanOut queries every store concurrently. Results land in a slot per
// store so callers see them in submission order.
func (s *SearchService) fanOut(
	ctx context.Context, query string, stores []driven.Store, k int,
) ([][]domain.StoreHit, []domain.StoreOutcome) {
	hits := make([][]domain.StoreHit, len(stores))
	outcomes := make([]domain.StoreOutcome, len(stores))

	var wg sync.WaitGroup
	for i, store := range stores {
		if store == nil {
			outcomes[i] = domain.StoreOutcome{
				Store: fmt.Sprintf("store-%d", i),
				Err:   fmt.Errorf("%w: nil store", domain.ErrStoreUnavailable),
			}
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()

			name := store.Name()
			got, err := s.queryStore(ctx, store, query, k)
			if err != nil {
				logger.Warn("Store %s skipped: %v", name, err)
				outcomes[i] = domain.StoreOutcome{Store: name, Err: err}
				return
			}
			if len(got) > k {
				got = got[:k]
			}
			hits[i] = got
			outcomes[i] = domain.StoreOutcome{Store: name, Hits: len(got)}
			logger.Debug("Store %s: %d hits", name, len(got))
		}()
	}
	wg.Wait()

	return hits, outcomes
}

// queryStore runs one store query under the store timeout. A store that
// ignores its context is abandoned when the timeout fires.
func (s *SearchService) queryStore(
	ctx context.Context, store driven.Store, query string, k int,
) ([]domain.StoreHit, error) {
	if s.storeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.storeTimeout)
		defer cancel()
	}

	type result struct {
		hits []domain.StoreHit
		err  error
	}
	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("%w: panic: %v", domain.ErrStoreUnavailable, r)}
			}
		}()
		hits, err := store.Search(ctx, query, k)
		done <- result{hits: hits, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, r.err)
		}
		return r.hits, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, ctx.Err())
	}
}

// rerank rescores candidates and returns them sorted by descending score.
// Ties keep their fused order.
func (s *SearchService) rerank(
	ctx context.Context, query string, candidates []domain.ScoredChunk,
) ([]domain.ScoredChunk, error) {
	scores := make([]float64, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rerankConcurrency)
	for i, c := range candidates {
		g.Go(func() error {
			score, err := s.reranker.Score(gctx, query, c.Text)
			if err != nil {
				return fmt.Errorf("candidate %d: %w", i, err)
			}
			scores[i] = score
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	reranked := make([]domain.ScoredChunk, len(candidates))
	copy(reranked, candidates)
	for i := range reranked {
		reranked[i].Score = scores[i]
	}
	sort.SliceStable(reranked, func(i, j int) bool {
		return reranked[i].Score > reranked[j].Score
	})

	logger.Debug("Reranked %d candidates", len(reranked))
	return reranked, nil
}

func truncate(results []domain.ScoredChunk, k int) []domain.ScoredChunk {
	if len(results) > k {
		return results[:k]
	}
	return results
}

// Package rerank scores fused candidates by embedding similarity to the query.
package rerank

import (
	"context"
	"fmt"
	"math"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/ppa-inteligente/ppa/internal/core/domain"
	"github.com/ppa-inteligente/ppa/internal/core/ports/driven"
)

// Ensure Reranker implements the interface.
var _ driven.Reranker = (*Reranker)(nil)

// Cache settings for embedding vectors.
const (
	DefaultCacheTTL      = 30 * time.Minute
	cacheCleanupInterval = 10 * time.Minute
)

// Config holds reranker options.
type Config struct {
	// QueryPrefix is prepended to the query before embedding.
	QueryPrefix string

	// RequestsPerSecond limits embedding calls; 0 disables limiting.
	RequestsPerSecond float64

	// CacheTTL is how long vectors are cached (default: 30m).
	CacheTTL time.Duration
}

// Reranker scores text by cosine similarity between its embedding and the
// query embedding. Vectors are cached by text, and concurrent misses for the
// same text share one embedding call, so a query is embedded once per
// rerank however many candidates are scored in parallel.
type Reranker struct {
	embedder    driven.EmbeddingService
	cache       *gocache.Cache
	inflight    singleflight.Group
	limiter     *rate.Limiter
	queryPrefix string
}

// New creates a reranker over embedder.
func New(embedder driven.EmbeddingService, cfg Config) *Reranker {
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Reranker{
		embedder:    embedder,
		cache:       gocache.New(cfg.CacheTTL, cacheCleanupInterval),
		limiter:     rate.NewLimiter(limit, 1),
		queryPrefix: cfg.QueryPrefix,
	}
}

// Score returns the cosine similarity of query and text, in [-1, 1].
func (r *Reranker) Score(ctx context.Context, query, text string) (float64, error) {
	q, err := r.vector(ctx, r.queryPrefix+query)
	if err != nil {
		return 0, err
	}
	t, err := r.vector(ctx, text)
	if err != nil {
		return 0, err
	}
	return Cosine(q, t)
}

func (r *Reranker) vector(ctx context.Context, text string) ([]float32, error) {
	key := r.embedder.ModelName() + "\x00" + text
	if v, found := r.cache.Get(key); found {
		return v.([]float32), nil
	}

	v, err, _ := r.inflight.Do(key, func() (any, error) {
		// A flight that finished between the lookup above and Do has
		// already cached the vector.
		if v, found := r.cache.Get(key); found {
			return v, nil
		}
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrRerankerUnavailable, err)
		}
		v, err := r.embedder.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrRerankerUnavailable, err)
		}
		r.cache.SetDefault(key, v)
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]float32), nil
}

// Cosine returns the cosine similarity of a and b. A zero vector scores 0.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: vector sizes differ (%d, %d)", domain.ErrRerankerUnavailable, len(a), len(b))
	}

	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb)), nil
}

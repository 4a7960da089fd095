package domain

// SearchOptions configures a fused search.
type SearchOptions struct {
	// K is the number of results kept after fusion and after reranking.
	K int

	// Rerank enables the reranking stage.
	Rerank bool
}

// StoreHit is one result returned by a Store.
type StoreHit struct {
	// Content is the matched chunk text.
	Content string

	// Score is the store's own similarity score.
	Score float64

	// Metadata is the source metadata stored with the chunk.
	Metadata map[string]string
}

// ScoredChunk is a fused result annotated with its score and store.
// Used only at retrieval time, never persisted.
type ScoredChunk struct {
	Text     string            `json:"text"`
	Score    float64           `json:"score"`
	Store    string            `json:"store"`
	Metadata map[string]string `json:"metadata"`
}

// StoreOutcome records how one store behaved during fusion.
type StoreOutcome struct {
	// Store is the store name.
	Store string

	// Hits is how many results the store returned.
	Hits int

	// Err is set when the store failed or timed out.
	Err error
}

// OK reports whether the store answered.
func (o StoreOutcome) OK() bool {
	return o.Err == nil
}

// SearchResponse is the result of a fused search.
type SearchResponse struct {
	// Results are the fused (and optionally reranked) chunks, at most K.
	Results []ScoredChunk

	// Stores has one outcome per queried store, in submission order.
	Stores []StoreOutcome

	// Reranked is true when the reranker reordered Results.
	Reranked bool
}

// FailedStores returns the outcomes of stores that did not answer.
func (r *SearchResponse) FailedStores() []StoreOutcome {
	var failed []StoreOutcome
	for _, o := range r.Stores {
		if !o.OK() {
			failed = append(failed, o)
		}
	}
	return failed
}

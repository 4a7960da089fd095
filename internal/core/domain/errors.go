package domain

import "errors"

// Domain errors represent pipeline failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested file, store or key does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown file format or segmentation strategy.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrConfiguration indicates a missing or invalid setting: a non-positive
	// chunk size, an unknown strategy, or a rerank request with no reranker.
	// It is fatal to the operation that requested it.
	ErrConfiguration = errors.New("configuration error")

	// ErrExtractionFailed indicates a single source document could not be read.
	// The batch continues without it.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrStoreUnavailable indicates a store failed to answer a query.
	// Its contribution is absent from the fused results.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrRerankerUnavailable indicates the reranker could not score candidates.
	ErrRerankerUnavailable = errors.New("reranker unavailable")
)

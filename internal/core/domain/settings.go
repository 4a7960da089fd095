package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// Strategy selects how cleaned text is split into chunks.
type Strategy string

// Available segmentation strategies.
const (
	// StrategyParagraph packs paragraphs greedily and hard-splits oversized ones.
	StrategyParagraph Strategy = "paragraph"

	// StrategySentence packs sentences greedily and never splits a sentence.
	StrategySentence Strategy = "sentence"
)

// IsValid returns true if the strategy is recognised.
func (s Strategy) IsValid() bool {
	switch s {
	case StrategyParagraph, StrategySentence:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s Strategy) String() string {
	return string(s)
}

// Description returns a human-readable description of the strategy.
func (s Strategy) Description() string {
	switch s {
	case StrategyParagraph:
		return "Paragraph (bounded, hard split at word boundary)"
	case StrategySentence:
		return "Sentence (sentences kept whole)"
	default:
		return unknownDescription
	}
}

// AllStrategies returns all available strategies.
func AllStrategies() []Strategy {
	return []Strategy{StrategyParagraph, StrategySentence}
}

// AIProvider identifies the embedding service behind the reranker.
type AIProvider string

// Available AI providers.
const (
	// AIProviderNone disables reranking.
	AIProviderNone AIProvider = ""

	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderNone:
		return "None (reranking disabled)"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// DefaultEmbeddingModels returns default models for each provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// IngestSettings configures ingestion runs.
type IngestSettings struct {
	// ChunkSize is the chunk length limit in characters.
	ChunkSize int

	// Strategy is the segmentation strategy name.
	Strategy Strategy

	// Workers bounds how many documents are processed concurrently.
	Workers int

	// ExtractionTimeout bounds extraction of a single document.
	ExtractionTimeout time.Duration

	// Output is the corpus file chunks are appended to.
	Output string

	// WriteText also writes cleaned text next to the corpus.
	WriteText bool
}

// SearchSettings configures fused search.
type SearchSettings struct {
	// K is the default number of results.
	K int

	// StoreTimeout bounds each store query.
	StoreTimeout time.Duration

	// Stores are the default store paths, in fusion order.
	Stores []string

	// Rerank enables the reranker by default.
	Rerank bool
}

// RerankerSettings configures the embedding-backed reranker.
type RerankerSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// RequestsPerSecond limits embedding calls.
	RequestsPerSecond float64

	// QueryPrefix is prepended to queries before embedding (e.g. "query: ").
	QueryPrefix string
}

// IsConfigured returns true if the reranker can be built.
func (r RerankerSettings) IsConfigured() bool {
	if !r.Provider.IsValid() {
		return false
	}
	if r.Provider.RequiresAPIKey() && r.APIKey == "" {
		return false
	}
	return true
}

// AppSettings holds all application settings.
type AppSettings struct {
	Ingest   IngestSettings
	Search   SearchSettings
	Reranker RerankerSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The reranker is left unconfigured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Ingest: IngestSettings{
			ChunkSize:         800,
			Strategy:          StrategyParagraph,
			Workers:           4,
			ExtractionTimeout: 60 * time.Second,
			Output:            "chunks/chunks.jsonl",
		},
		Search: SearchSettings{
			K:            5,
			StoreTimeout: 10 * time.Second,
		},
		Reranker: RerankerSettings{
			RequestsPerSecond: 5,
		},
	}
}

// Validate reports the first invalid setting as a configuration error.
func (s AppSettings) Validate() error {
	if s.Ingest.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrConfiguration, s.Ingest.ChunkSize)
	}
	if !s.Ingest.Strategy.IsValid() {
		return fmt.Errorf("%w: unknown strategy %q", ErrConfiguration, s.Ingest.Strategy)
	}
	if s.Ingest.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive, got %d", ErrConfiguration, s.Ingest.Workers)
	}
	if s.Search.K <= 0 {
		return fmt.Errorf("%w: k must be positive, got %d", ErrConfiguration, s.Search.K)
	}
	if s.Reranker.Provider != AIProviderNone && !s.Reranker.Provider.IsValid() {
		return fmt.Errorf("%w: unknown reranker provider %q", ErrConfiguration, s.Reranker.Provider)
	}
	if s.Search.Rerank && !s.Reranker.IsConfigured() {
		return fmt.Errorf("%w: search.rerank is set but no reranker is configured", ErrConfiguration)
	}
	return nil
}

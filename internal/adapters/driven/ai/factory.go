// Package ai builds the embedding-backed reranker from settings.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/ppa-inteligente/ppa/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/ppa-inteligente/ppa/internal/adapters/driven/embedding/openai"
	"github.com/ppa-inteligente/ppa/internal/adapters/driven/rerank"
	"github.com/ppa-inteligente/ppa/internal/core/domain"
	"github.com/ppa-inteligente/ppa/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateEmbeddingService creates the embedding service named by settings.
// Returns nil if the reranker is not configured.
func CreateEmbeddingService(settings *domain.RerankerSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	model := settings.Model
	if model == "" {
		model = domain.DefaultEmbeddingModels()[settings.Provider]
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: settings.BaseURL,
			Model:   model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   model,
		})

	default:
		return nil, fmt.Errorf("%w: unsupported reranker provider: %s", domain.ErrConfiguration, settings.Provider)
	}
}

// CreateReranker builds a reranker without contacting the provider.
// Returns nil if the reranker is not configured.
func CreateReranker(settings *domain.RerankerSettings) (driven.Reranker, driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil || svc == nil {
		return nil, nil, err
	}

	return rerank.New(svc, rerank.Config{
		QueryPrefix:       settings.QueryPrefix,
		RequestsPerSecond: settings.RequestsPerSecond,
	}), svc, nil
}

// CreateAndValidateReranker builds a reranker and checks the provider is
// reachable. The returned embedding service must be closed by the caller.
func CreateAndValidateReranker(ctx context.Context, settings *domain.RerankerSettings) (driven.Reranker, driven.EmbeddingService, error) {
	reranker, svc, err := CreateReranker(settings)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrRerankerUnavailable, err)
	}
	if svc == nil {
		return nil, nil, nil
	}

	if err := ping(ctx, svc); err != nil {
		svc.Close()
		return nil, nil, err
	}
	return reranker, svc, nil
}

// ValidateRerankerConfig pings the configured provider. An unconfigured
// reranker is valid.
func ValidateRerankerConfig(ctx context.Context, settings *domain.RerankerSettings) error {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	return ping(ctx, svc)
}

func ping(ctx context.Context, svc driven.EmbeddingService) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %s unreachable (%w). Run 'ppa settings show' to check the reranker",
			domain.ErrRerankerUnavailable, svc.ModelName(), err)
	}
	return nil
}

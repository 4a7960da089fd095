package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppa-inteligente/ppa/internal/core/domain"
)

func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleStoresResource(t *testing.T) {
	server, err := NewServer(&Ports{Search: &mockSearchService{}, Stores: stores("saude", "educacao")})
	require.NoError(t, err)

	result, err := server.handleStoresResource(context.Background(), makeReadResourceRequest("ppa://stores"))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	assert.JSONEq(t, `[{"name":"saude","position":0},{"name":"educacao","position":1}]`, result.Contents[0].Text)
}

func TestServer_handleSettingsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil settings service is not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Stores: stores("a")})
		require.NoError(t, err)

		_, err = server.handleSettingsResource(ctx, makeReadResourceRequest("ppa://settings"))

		assert.Error(t, err)
	})

	t.Run("hides the api key", func(t *testing.T) {
		settings := domain.DefaultAppSettings()
		settings.Search.StoreTimeout = 2 * time.Second
		settings.Reranker = domain.RerankerSettings{
			Provider: domain.AIProviderOpenAI,
			Model:    "text-embedding-3-small",
			APIKey:   "sk-secret",
		}
		server, err := NewServer(&Ports{
			Search:   &mockSearchService{},
			Stores:   stores("a"),
			DefaultK: 8,
			Settings: &mockSettingsService{settings: settings},
		})
		require.NoError(t, err)

		result, err := server.handleSettingsResource(ctx, makeReadResourceRequest("ppa://settings"))

		require.NoError(t, err)
		text := result.Contents[0].Text
		assert.NotContains(t, text, "sk-secret")
		assert.JSONEq(t, `{
			"k": 8,
			"store_timeout_secs": 2,
			"rerank": false,
			"reranker_provider": "openai",
			"reranker_model": "text-embedding-3-small",
			"reranker_configured": true
		}`, text)
	})

	t.Run("settings failure", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Search:   &mockSearchService{},
			Stores:   stores("a"),
			Settings: &mockSettingsService{err: errors.New("bad toml")},
		})
		require.NoError(t, err)

		_, err = server.handleSettingsResource(ctx, makeReadResourceRequest("ppa://settings"))

		assert.ErrorContains(t, err, "bad toml")
	})
}

package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppa-inteligente/ppa/internal/core/domain"
)

// setupTestStore creates a store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "programas.db"))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })
	return store
}

func testChunks() []domain.Chunk {
	return []domain.Chunk{
		{ID: "c1", Origin: "ppa.pdf", Position: 0, Text: "Programa de saúde da família para municípios"},
		{ID: "c2", Origin: "ppa.pdf", Position: 1, Text: "Órgão responsável: Secretaria de Educação"},
		{
			ID: "c3", Origin: "metas.xlsx", Position: 0, Text: "Meta: vacinação | Valor: 90",
			Metadata: map[string]string{"Meta": "vacinação", "Valor": "90", domain.MetaSheet: "Metas"},
		},
	}
}

func TestOpen(t *testing.T) {
	t.Run("names store after file", func(t *testing.T) {
		store := setupTestStore(t)

		assert.Equal(t, "programas", store.Name())
		assert.FileExists(t, store.Path())
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := Open("")
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})

	t.Run("reopen keeps data and migrations", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "corpus.db")
		store, err := Open(path)
		require.NoError(t, err)
		require.NoError(t, store.Index(context.Background(), testChunks()))
		require.NoError(t, store.Close())

		store, err = Open(path)
		require.NoError(t, err)
		defer store.Close()

		n, err := store.Count(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		var version int
		require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
		assert.Equal(t, 1, version)
	})
}

func TestOpenExisting(t *testing.T) {
	_, err := OpenExisting(filepath.Join(t.TempDir(), "ausente.db"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_Index(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces chunk with same id", func(t *testing.T) {
		store := setupTestStore(t)
		require.NoError(t, store.Index(ctx, testChunks()))

		updated := domain.Chunk{ID: "c1", Origin: "ppa.pdf", Text: "Programa de habitação popular"}
		require.NoError(t, store.Index(ctx, []domain.Chunk{updated}))

		n, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		hits, err := store.Search(ctx, "família", 5)
		require.NoError(t, err)
		assert.Empty(t, hits)

		hits, err = store.Search(ctx, "habitação", 5)
		require.NoError(t, err)
		require.Len(t, hits, 1)
	})

	t.Run("empty batch", func(t *testing.T) {
		store := setupTestStore(t)
		assert.NoError(t, store.Index(ctx, nil))
	})

	t.Run("chunk without id", func(t *testing.T) {
		store := setupTestStore(t)
		err := store.Index(ctx, []domain.Chunk{{Origin: "x.pdf", Text: "texto"}})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestStore_Search(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	require.NoError(t, store.Index(ctx, testChunks()))

	t.Run("diacritics insensitive", func(t *testing.T) {
		hits, err := store.Search(ctx, "orgao responsavel", 5)
		require.NoError(t, err)

		require.Len(t, hits, 1)
		assert.Equal(t, "Órgão responsável: Secretaria de Educação", hits[0].Content)
		assert.Equal(t, "ppa.pdf", hits[0].Metadata[domain.MetaOrigin])
		assert.Equal(t, "c2", hits[0].Metadata[domain.MetaChunkID])
		assert.Greater(t, hits[0].Score, 0.0)
	})

	t.Run("metadata round trip", func(t *testing.T) {
		hits, err := store.Search(ctx, "vacinação", 5)
		require.NoError(t, err)

		require.Len(t, hits, 1)
		assert.Equal(t, map[string]string{
			"Meta": "vacinação", "Valor": "90", domain.MetaSheet: "Metas",
			domain.MetaOrigin: "metas.xlsx", domain.MetaChunkID: "c3",
		}, hits[0].Metadata)
	})

	t.Run("best match first and limited to k", func(t *testing.T) {
		hits, err := store.Search(ctx, "programa saúde família", 1)
		require.NoError(t, err)

		require.Len(t, hits, 1)
		assert.Contains(t, hits[0].Content, "saúde")
	})

	t.Run("scores non increasing", func(t *testing.T) {
		hits, err := store.Search(ctx, "programa secretaria meta", 10)
		require.NoError(t, err)

		for i := 1; i < len(hits); i++ {
			assert.GreaterOrEqual(t, hits[i-1].Score, hits[i].Score)
		}
	})

	t.Run("operators are inert", func(t *testing.T) {
		hits, err := store.Search(ctx, `saúde AND "NEAR(`, 5)
		require.NoError(t, err)
		assert.NotEmpty(t, hits)
	})

	t.Run("no words", func(t *testing.T) {
		hits, err := store.Search(ctx, "  ?! ", 5)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})

	t.Run("zero k", func(t *testing.T) {
		hits, err := store.Search(ctx, "programa", 0)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})
}

func TestMatchExpression(t *testing.T) {
	tests := []struct {
		query    string
		expected string
	}{
		{"", ""},
		{"saúde", `"saúde"`},
		{"órgão  responsável", `"órgão" OR "responsável"`},
		{`a"b OR c*`, `"a" OR "b" OR "OR" OR "c"`},
		{"PPA 2024-2027", `"PPA" OR "2024" OR "2027"`},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.expected, MatchExpression(tt.query))
		})
	}
}

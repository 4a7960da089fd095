package corpus

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppa-inteligente/ppa/internal/core/domain"
)

func TestNewWriter(t *testing.T) {
	t.Run("creates parent directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "chunks", "chunks.jsonl")

		w, err := NewWriter(path)

		require.NoError(t, err)
		assert.Equal(t, path, w.Path())
		assert.DirExists(t, filepath.Dir(path))
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := NewWriter("")
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})
}

func TestWriter_Append(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunks.jsonl")
	w, err := NewWriter(path)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, w.Append(ctx, []domain.Chunk{
		{ID: "id-1", Origin: "relatório.pdf", Text: "Órgão <responsável> & cia"},
	}))
	require.NoError(t, w.Append(ctx, []domain.Chunk{
		{
			ID: "id-2", Origin: "metas.xlsx", Text: "Meta: 10",
			Metadata: map[string]string{"Meta": "10", domain.MetaSheet: "Plan1"},
		},
	}))
	require.NoError(t, w.Append(ctx, nil))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	require.Len(t, lines, 2)

	assert.Equal(t,
		`{"text":"Órgão <responsável> & cia","metadata":{"chunk_id":"id-1","origem":"relatório.pdf"}}`,
		lines[0])
	assert.Equal(t,
		`{"text":"Meta: 10","metadata":{"Meta":"10","aba":"Plan1","chunk_id":"id-2","origem":"metas.xlsx"}}`,
		lines[1])
}

func TestWriter_AppendCancelled(t *testing.T) {
	w, err := NewWriter(filepath.Join(t.TempDir(), "c.jsonl"))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = w.Append(ctx, []domain.Chunk{{ID: "x", Text: "t"}})

	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, w.Path())
}

func TestWriter_ConcurrentBatchesStayContiguous(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunks.jsonl")
	w, err := NewWriter(path)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for d := 0; d < 8; d++ {
		wg.Add(1)
		go func(d int) {
			defer wg.Done()
			origin := fmt.Sprintf("doc%d.pdf", d)
			batch := make([]domain.Chunk, 5)
			for i := range batch {
				batch[i] = domain.Chunk{ID: fmt.Sprintf("%d-%d", d, i), Origin: origin, Text: "t"}
			}
			assert.NoError(t, w.Append(context.Background(), batch))
		}(d)
	}
	wg.Wait()

	chunks, err := NewReader().ReadAll(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, chunks, 40)

	for i := 0; i < len(chunks); i += 5 {
		for j := 1; j < 5; j++ {
			assert.Equal(t, chunks[i].Origin, chunks[i+j].Origin)
		}
	}
}

func TestReader_ReadAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunks.jsonl")
	content := `{"text":"a","metadata":{"origem":"x.pdf","chunk_id":"1"}}

{"text":"b","metadata":{"origem":"x.pdf","chunk_id":"2"}}
{"text":"c","metadata":{"origem":"y.xlsx","chunk_id":"3","aba":"S","Meta":"v"}}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	chunks, err := NewReader().ReadAll(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, []domain.Chunk{
		{ID: "1", Origin: "x.pdf", Text: "a", Position: 0},
		{ID: "2", Origin: "x.pdf", Text: "b", Position: 1},
		{ID: "3", Origin: "y.xlsx", Text: "c", Position: 0, Metadata: map[string]string{"aba": "S", "Meta": "v"}},
	}, chunks)
}

func TestReader_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := NewReader().ReadAll(context.Background(), filepath.Join(t.TempDir(), "nada.jsonl"))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("malformed line reports line number", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ruim.jsonl")
		content := `{"text":"a","metadata":{"chunk_id":"1"}}` + "\n{quebrado\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		_, err := NewReader().ReadAll(context.Background(), path)

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Contains(t, err.Error(), "ruim.jsonl:2")
	})
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "valid", raw: `{"text":"t","metadata":{"chunk_id":"1","origem":"o"}}`},
		{name: "no origin is allowed", raw: `{"text":"t","metadata":{"chunk_id":"1"}}`},
		{name: "missing chunk id", raw: `{"text":"t","metadata":{"origem":"o"}}`, wantErr: true},
		{name: "empty text", raw: `{"text":"","metadata":{"chunk_id":"1"}}`, wantErr: true},
		{name: "not json", raw: `texto`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLine([]byte(tt.raw))
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTextArchive_Write(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "txt")
	archive := NewTextArchive(dir)

	require.NoError(t, archive.Write("Relatorio Anual.pdf", "texto limpo"))
	require.NoError(t, archive.Write("Relatorio Anual.pdf", "texto novo"))

	raw, err := os.ReadFile(filepath.Join(dir, "Relatorio Anual.txt"))
	require.NoError(t, err)
	assert.Equal(t, "texto novo", string(raw))
	assert.Equal(t, dir, archive.Dir())
}

// Package corpus persists chunks as a JSON Lines corpus and archives
// cleaned document text.
//
// Each corpus line is {"text": ..., "metadata": {...}} where metadata holds
// at least "origem" and "chunk_id". Non-ASCII text is written unescaped.
package corpus

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/ppa-inteligente/ppa/internal/core/domain"
	"github.com/ppa-inteligente/ppa/internal/core/ports/driven"
)

// Ensure the adapters implement the interfaces.
var (
	_ driven.CorpusWriter = (*Writer)(nil)
	_ driven.CorpusReader = (*Reader)(nil)
)

// maxLineSize bounds a single corpus line.
const maxLineSize = 16 * 1024 * 1024

// Line is one corpus record.
type Line struct {
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata"`
}

// Writer appends chunks to a corpus file. Safe for concurrent use; each
// Append call lands as one contiguous block.
type Writer struct {
	mu   sync.Mutex
	path string
}

// NewWriter creates a writer for path, creating parent directories.
func NewWriter(path string) (*Writer, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: corpus path is empty", domain.ErrConfiguration)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating corpus directory: %w", err)
	}
	return &Writer{path: path}, nil
}

// Path returns the corpus file path.
func (w *Writer) Path() string {
	return w.path
}

// Append writes chunks in order, one JSON object per line.
func (w *Writer) Append(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for _, c := range chunks {
		if err := enc.Encode(Line{Text: c.Text, Metadata: c.CorpusMetadata()}); err != nil {
			return fmt.Errorf("encoding chunk %s: %w", c.ID, err)
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening corpus: %w", err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return fmt.Errorf("writing corpus: %w", err)
	}
	return f.Close()
}

// Reader loads chunks from corpus files.
type Reader struct{}

// NewReader creates a corpus reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadAll parses every non-blank line of the corpus at path. Position is
// the chunk's index among the chunks of its origin.
func (r *Reader) ReadAll(ctx context.Context, path string) ([]domain.Chunk, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: corpus %s", domain.ErrNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var chunks []domain.Chunk
	positions := make(map[string]int)
	for n := 1; scanner.Scan(); n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		chunk, err := ParseLine(raw)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, n, err)
		}
		chunk.Position = positions[chunk.Origin]
		positions[chunk.Origin]++
		chunks = append(chunks, chunk)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading corpus: %w", err)
	}
	return chunks, nil
}

// ParseLine decodes one corpus line into a chunk. The line must carry text
// and a chunk_id; the remaining metadata besides origem is kept as extra
// metadata.
func ParseLine(raw []byte) (domain.Chunk, error) {
	var line Line
	if err := json.Unmarshal(raw, &line); err != nil {
		return domain.Chunk{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if line.Text == "" {
		return domain.Chunk{}, fmt.Errorf("%w: empty text", domain.ErrInvalidInput)
	}
	id := line.Metadata[domain.MetaChunkID]
	if id == "" {
		return domain.Chunk{}, fmt.Errorf("%w: missing %s", domain.ErrInvalidInput, domain.MetaChunkID)
	}

	var extra map[string]string
	for k, v := range line.Metadata {
		if k == domain.MetaChunkID || k == domain.MetaOrigin {
			continue
		}
		if extra == nil {
			extra = make(map[string]string)
		}
		extra[k] = v
	}

	return domain.Chunk{
		ID:       id,
		Origin:   line.Metadata[domain.MetaOrigin],
		Text:     line.Text,
		Metadata: extra,
	}, nil
}

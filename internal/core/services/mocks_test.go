package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ppa-inteligente/ppa/internal/core/domain"
	"github.com/ppa-inteligente/ppa/internal/core/ports/driven"
)

// mockConnector lists a fixed set of files and replays changes on Watch.
type mockConnector struct {
	files       []domain.SourceFile
	validateErr error
	changes     chan domain.FileChange
}

func (m *mockConnector) Type() string { return "mock" }

func (m *mockConnector) Validate(_ context.Context) error { return m.validateErr }

func (m *mockConnector) List(_ context.Context) ([]domain.SourceFile, error) {
	return m.files, nil
}

func (m *mockConnector) Watch(_ context.Context) (<-chan domain.FileChange, error) {
	if m.changes == nil {
		return nil, fmt.Errorf("not watchable")
	}
	return m.changes, nil
}

func (m *mockConnector) Close() error { return nil }

func filesOf(paths ...string) []domain.SourceFile {
	files := make([]domain.SourceFile, len(paths))
	for i, p := range paths {
		files[i] = domain.SourceFile{Path: p, Format: domain.FormatFromPath(p)}
	}
	return files
}

// mockExtractors serves documents by path.
type mockExtractors struct {
	mu    sync.Mutex
	docs  map[string]*domain.SourceDocument
	errs  map[string]error
	delay map[string]time.Duration
	calls []string
}

func (m *mockExtractors) Extract(_ context.Context, path string) (*domain.SourceDocument, error) {
	m.mu.Lock()
	m.calls = append(m.calls, path)
	delay := m.delay[path]
	m.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if err := m.errs[path]; err != nil {
		return nil, err
	}
	doc, ok := m.docs[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, path)
	}
	return doc, nil
}

func (m *mockExtractors) Register(_ driven.Extractor) {}

func (m *mockExtractors) SupportedFormats() []domain.Format { return nil }

func (m *mockExtractors) called() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func pagesDoc(path string, pages ...string) *domain.SourceDocument {
	return &domain.SourceDocument{
		ID:     filepath.Base(path),
		Path:   path,
		Format: domain.FormatFromPath(path),
		Pages:  pages,
	}
}

// wordSegmenter yields one chunk per word.
type wordSegmenter struct{}

func (wordSegmenter) Name() string { return string(domain.StrategyParagraph) }

func (wordSegmenter) Segment(text string, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit", domain.ErrConfiguration)
	}
	return strings.Fields(text), nil
}

type mockSegmenters struct{}

func (mockSegmenters) Get(strategy domain.Strategy) (driven.Segmenter, error) {
	if strategy != domain.StrategyParagraph {
		return nil, fmt.Errorf("%w: unknown strategy %q", domain.ErrConfiguration, strategy)
	}
	return wordSegmenter{}, nil
}

func (mockSegmenters) Register(_ driven.Segmenter) {}

// mockWriter records appended batches.
type mockWriter struct {
	mu      sync.Mutex
	batches [][]domain.Chunk
	err     error
}

func (m *mockWriter) Append(_ context.Context, chunks []domain.Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.batches = append(m.batches, chunks)
	return nil
}

func (m *mockWriter) Path() string { return "mock.jsonl" }

func (m *mockWriter) all() []domain.Chunk {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Chunk
	for _, b := range m.batches {
		out = append(out, b...)
	}
	return out
}

func (m *mockWriter) byOrigin() map[string][]domain.Chunk {
	out := make(map[string][]domain.Chunk)
	for _, c := range m.all() {
		out[c.Origin] = append(out[c.Origin], c)
	}
	return out
}

type mockArchive struct {
	mu    sync.Mutex
	texts map[string]string
	err   error
}

func (m *mockArchive) Write(sourceID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.texts == nil {
		m.texts = make(map[string]string)
	}
	m.texts[sourceID] = text
	return nil
}

// mockExtractor is a single-format extractor.
type mockExtractor struct {
	doc *domain.SourceDocument
	err error
}

func (m *mockExtractor) Formats() []domain.Format { return []domain.Format{domain.FormatPDF} }

func (m *mockExtractor) Extract(_ context.Context, _ string) (*domain.SourceDocument, error) {
	return m.doc, m.err
}

type mockReader struct {
	chunks []domain.Chunk
	err    error
}

func (m *mockReader) ReadAll(_ context.Context, _ string) ([]domain.Chunk, error) {
	return m.chunks, m.err
}

// mockIndexStore records indexed batches.
type mockIndexStore struct {
	batches  [][]domain.Chunk
	failFrom int
}

func (m *mockIndexStore) Name() string { return "mock" }

func (m *mockIndexStore) Search(_ context.Context, _ string, _ int) ([]domain.StoreHit, error) {
	return nil, nil
}

func (m *mockIndexStore) Index(_ context.Context, chunks []domain.Chunk) error {
	if m.failFrom > 0 && len(m.batches)+1 >= m.failFrom {
		return domain.ErrStoreUnavailable
	}
	m.batches = append(m.batches, chunks)
	return nil
}

func (m *mockIndexStore) Count(_ context.Context) (int, error) {
	n := 0
	for _, b := range m.batches {
		n += len(b)
	}
	return n, nil
}

func (m *mockIndexStore) Close() error { return nil }

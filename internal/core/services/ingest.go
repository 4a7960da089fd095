package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ppa-inteligente/ppa/internal/core/domain"
	"github.com/ppa-inteligente/ppa/internal/core/ports/driven"
	"github.com/ppa-inteligente/ppa/internal/core/ports/driving"
	"github.com/ppa-inteligente/ppa/internal/logger"
	"github.com/ppa-inteligente/ppa/internal/postprocessors"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// defaultDebounce groups bursts of file events into one re-ingest.
const defaultDebounce = 500 * time.Millisecond

// IngestService extracts, cleans and segments source files and appends the
// resulting chunks to the corpus.
type IngestService struct {
	extractors driven.ExtractorRegistry
	segmenters driven.SegmenterRegistry
	writer     driven.CorpusWriter
	archive    driven.TextArchive

	newID    func() string
	debounce time.Duration
}

// NewIngestService creates an ingest service. The archive is optional.
func NewIngestService(
	extractors driven.ExtractorRegistry,
	segmenters driven.SegmenterRegistry,
	writer driven.CorpusWriter,
	archive driven.TextArchive,
) *IngestService {
	return &IngestService{
		extractors: extractors,
		segmenters: segmenters,
		writer:     writer,
		archive:    archive,
		newID:      uuid.NewString,
		debounce:   defaultDebounce,
	}
}

// SetDebounce changes how long Watch waits for more events before
// re-ingesting.
func (s *IngestService) SetDebounce(d time.Duration) {
	s.debounce = d
}

// Ingest processes every file the connector lists.
func (s *IngestService) Ingest(
	ctx context.Context, conn driven.Connector, opts driving.IngestOptions,
) (*domain.IngestReport, error) {
	logger.Section("Ingestion")

	pipeline, err := s.pipeline(opts)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return nil, fmt.Errorf("%w: no connector", domain.ErrConfiguration)
	}
	if err := conn.Validate(ctx); err != nil {
		return nil, err
	}

	files, err := conn.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list source files: %w", err)
	}
	logger.Info("Found %d files (strategy=%s, chunk_size=%d, workers=%d)",
		len(files), opts.Strategy, opts.ChunkSize, workers(opts))

	return s.run(ctx, files, pipeline, opts)
}

// Watch ingests once, then re-ingests changed files after each burst of
// events until ctx is done. Deleted files are logged; their chunks stay in
// the corpus.
func (s *IngestService) Watch(
	ctx context.Context, conn driven.Connector, opts driving.IngestOptions, onReport func(*domain.IngestReport),
) error {
	report, err := s.Ingest(ctx, conn, opts)
	if err != nil {
		return err
	}
	if onReport != nil {
		onReport(report)
	}

	pipeline, err := s.pipeline(opts)
	if err != nil {
		return err
	}

	changes, err := conn.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch source: %w", err)
	}
	logger.Info("Watching %s for changes", conn.Type())

	var (
		errs    []error
		pending = make(map[string]domain.FileChange)
		timer   *time.Timer
		fire    <-chan time.Time
	)
	stopTimer := func() {
		if timer != nil {
			timer.Stop()
		}
	}
	defer stopTimer()

	for {
		select {
		case <-ctx.Done():
			return errors.Join(errs...)

		case change, ok := <-changes:
			if !ok {
				return errors.Join(errs...)
			}
			logger.Debug("Change: %s %s", change.Type, change.Path)
			pending[change.Path] = change
			stopTimer()
			timer = time.NewTimer(s.debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			batch := pending
			pending = make(map[string]domain.FileChange)

			report, err := s.rerun(ctx, batch, pipeline, opts)
			if err != nil {
				logger.Error("Re-ingest failed: %v", err)
				errs = append(errs, err)
				continue
			}
			if report != nil && onReport != nil {
				onReport(report)
			}
		}
	}
}

// rerun ingests the created and updated files of a change batch.
func (s *IngestService) rerun(
	ctx context.Context, batch map[string]domain.FileChange, pipeline *postprocessors.Pipeline, opts driving.IngestOptions,
) (*domain.IngestReport, error) {
	var files []domain.SourceFile
	for path, change := range batch {
		if change.Type == domain.ChangeDeleted {
			logger.Warn("Source removed, its chunks stay in the corpus: %s", path)
			continue
		}
		files = append(files, domain.SourceFile{Path: path, Format: domain.FormatFromPath(path)})
	}
	if len(files) == 0 {
		return nil, nil
	}
	sortFiles(files)

	logger.Info("Re-ingesting %d changed files", len(files))
	return s.run(ctx, files, pipeline, opts)
}

// run processes files with a bounded worker pool. Outcomes keep the order
// of files regardless of completion order.
func (s *IngestService) run(
	ctx context.Context, files []domain.SourceFile, pipeline *postprocessors.Pipeline, opts driving.IngestOptions,
) (*domain.IngestReport, error) {
	start := time.Now()
	report := &domain.IngestReport{Documents: make([]domain.DocumentOutcome, len(files))}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers(opts))

	for i, file := range files {
		g.Go(func() error {
			outcome, err := s.processFile(gctx, file, pipeline, opts)
			report.Documents[i] = outcome
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, d := range report.Documents {
		report.Chunks += d.Chunks
	}
	report.Elapsed = time.Since(start)

	logger.Info("Ingested %d/%d documents, %d chunks in %s",
		report.Succeeded(), len(report.Documents), report.Chunks, report.Elapsed.Round(time.Millisecond))
	return report, nil
}

// processFile extracts and chunks one file and appends its chunks.
// Extraction failures are reported in the outcome; only corpus write
// failures are returned.
func (s *IngestService) processFile(
	ctx context.Context, file domain.SourceFile, pipeline *postprocessors.Pipeline, opts driving.IngestOptions,
) (domain.DocumentOutcome, error) {
	outcome := domain.DocumentOutcome{SourceID: filepath.Base(file.Path), Path: file.Path}

	doc, err := s.extract(ctx, file.Path, opts.ExtractionTimeout)
	if err != nil {
		if ctx.Err() != nil {
			return outcome, ctx.Err()
		}
		logger.Warn("Skipping %s: %v", outcome.SourceID, err)
		outcome.Err = err
		return outcome, nil
	}
	if doc.ID == "" {
		doc.ID = outcome.SourceID
	}
	outcome.SourceID = doc.ID

	chunks, err := s.chunk(doc, pipeline, opts)
	if err != nil {
		logger.Warn("Skipping %s: %v", outcome.SourceID, err)
		outcome.Err = err
		return outcome, nil
	}
	if len(chunks) == 0 {
		logger.Debug("%s produced no chunks", outcome.SourceID)
		return outcome, nil
	}

	if err := s.writer.Append(ctx, chunks); err != nil {
		return outcome, fmt.Errorf("append %s to corpus: %w", outcome.SourceID, err)
	}
	outcome.Chunks = len(chunks)
	logger.Debug("%s: %d chunks", outcome.SourceID, len(chunks))
	return outcome, nil
}

// extract runs the extractor under the per-document timeout. An extractor
// that ignores its context is abandoned when the timeout fires.
func (s *IngestService) extract(ctx context.Context, path string, timeout time.Duration) (*domain.SourceDocument, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type result struct {
		doc *domain.SourceDocument
		err error
	}
	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("%w: panic: %v", domain.ErrExtractionFailed, r)}
			}
		}()
		doc, err := s.extractors.Extract(ctx, path)
		done <- result{doc: doc, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}
		if r.doc == nil {
			return nil, fmt.Errorf("%w: %s: no document", domain.ErrExtractionFailed, path)
		}
		return r.doc, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrExtractionFailed, path, ctx.Err())
	}
}

// chunk turns a document into corpus chunks. Tabular documents yield one
// chunk per row; everything else is cleaned and segmented.
func (s *IngestService) chunk(
	doc *domain.SourceDocument, pipeline *postprocessors.Pipeline, opts driving.IngestOptions,
) ([]domain.Chunk, error) {
	if doc.Format.IsTabular() || len(doc.Rows) > 0 {
		return s.rowChunks(doc), nil
	}

	result, err := pipeline.Process(doc)
	if err != nil {
		return nil, err
	}

	if opts.WriteText && s.archive != nil {
		if err := s.archive.Write(doc.ID, result.Cleaned); err != nil {
			logger.Warn("Could not archive cleaned text of %s: %v", doc.ID, err)
		}
	}

	chunks := make([]domain.Chunk, len(result.Pieces))
	for i, piece := range result.Pieces {
		chunks[i] = domain.Chunk{
			ID:       s.newID(),
			Origin:   doc.ID,
			Text:     piece,
			Position: i,
		}
	}
	return chunks, nil
}

func (s *IngestService) rowChunks(doc *domain.SourceDocument) []domain.Chunk {
	chunks := make([]domain.Chunk, 0, len(doc.Rows))
	for _, row := range doc.Rows {
		meta := make(map[string]string, len(row.Values)+1)
		for k, v := range row.Values {
			meta[k] = v
		}
		meta[domain.MetaSheet] = row.Sheet

		chunks = append(chunks, domain.Chunk{
			ID:       s.newID(),
			Origin:   doc.ID,
			Text:     row.Text(),
			Position: len(chunks),
			Metadata: meta,
		})
	}
	return chunks
}

func (s *IngestService) pipeline(opts driving.IngestOptions) (*postprocessors.Pipeline, error) {
	if opts.Strategy == "" {
		return nil, fmt.Errorf("%w: no chunking strategy", domain.ErrConfiguration)
	}
	if s.writer == nil {
		return nil, fmt.Errorf("%w: no corpus writer", domain.ErrConfiguration)
	}
	segmenter, err := s.segmenters.Get(opts.Strategy)
	if err != nil {
		return nil, err
	}
	return postprocessors.NewPipeline(segmenter, opts.ChunkSize)
}

func sortFiles(files []domain.SourceFile) {
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
}

func workers(opts driving.IngestOptions) int {
	if opts.Workers < 1 {
		return 1
	}
	return opts.Workers
}

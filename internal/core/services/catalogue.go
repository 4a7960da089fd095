package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ppa-inteligente/ppa/internal/core/domain"
	"github.com/ppa-inteligente/ppa/internal/core/ports/driven"
	"github.com/ppa-inteligente/ppa/internal/core/ports/driving"
	"github.com/ppa-inteligente/ppa/internal/logger"
	"github.com/ppa-inteligente/ppa/internal/postprocessors/catalogue"
)

// Ensure CatalogueService implements the interface.
var _ driving.CatalogueService = (*CatalogueService)(nil)

// metaProgram carries the program header on catalogue chunks.
const metaProgram = "programa"

// CatalogueService extracts program records from catalogue documents.
type CatalogueService struct {
	extractor driven.Extractor
	newID     func() string
}

// NewCatalogueService creates a catalogue service reading documents with
// extractor (normally the PDF extractor).
func NewCatalogueService(extractor driven.Extractor) *CatalogueService {
	return &CatalogueService{extractor: extractor, newID: uuid.NewString}
}

// Parse extracts the records of one catalogue document. Records missing a
// section are kept and logged.
func (s *CatalogueService) Parse(ctx context.Context, path string) ([]domain.ProgramRecord, error) {
	logger.Section("Catalogue Parse")

	if s.extractor == nil {
		return nil, fmt.Errorf("%w: no extractor", domain.ErrConfiguration)
	}
	doc, err := s.extractor.Extract(ctx, path)
	if err != nil {
		return nil, err
	}

	// No running-header removal here: section headings repeat on most
	// catalogue pages and would be stripped with them.
	records := catalogue.ParsePages(catalogue.SplitPages(doc.Pages))
	for _, r := range records {
		if !r.IsComplete() {
			logger.Warn("Incomplete program record: %q", r.Program)
		}
	}
	logger.Info("Parsed %d programs from %d pages", len(records), len(doc.Pages))
	return records, nil
}

// Chunks renders each record as one text chunk.
func (s *CatalogueService) Chunks(origin string, records []domain.ProgramRecord) []domain.Chunk {
	chunks := make([]domain.Chunk, 0, len(records))
	for i, r := range records {
		chunks = append(chunks, domain.Chunk{
			ID:       s.newID(),
			Origin:   origin,
			Text:     renderRecord(r),
			Position: i,
			Metadata: map[string]string{metaProgram: r.Program},
		})
	}
	return chunks
}

func renderRecord(r domain.ProgramRecord) string {
	var b strings.Builder
	b.WriteString(r.Program)
	section := func(title string, lines []string) {
		if len(lines) == 0 {
			return
		}
		b.WriteString("\n" + title + ":")
		for _, l := range lines {
			b.WriteString("\n" + l)
		}
	}
	section("Objetivos estratégicos", r.StrategicObjectives)
	section("Público alvo", r.TargetAudience)
	if r.ResponsibleAgency != "" {
		b.WriteString("\nÓrgão responsável: " + r.ResponsibleAgency)
	}
	section("Objetivos específicos", r.SpecificObjectives)
	return b.String()
}

// Command ppa ingests plan documents into a chunk corpus and searches
// keyword stores built from it.
package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/ppa-inteligente/ppa/internal/adapters/driven/ai"
	"github.com/ppa-inteligente/ppa/internal/adapters/driven/config/file"
	"github.com/ppa-inteligente/ppa/internal/adapters/driven/corpus"
	"github.com/ppa-inteligente/ppa/internal/adapters/driven/storage/sqlite"
	"github.com/ppa-inteligente/ppa/internal/adapters/driving/cli"
	"github.com/ppa-inteligente/ppa/internal/connectors/filesystem"
	"github.com/ppa-inteligente/ppa/internal/core/domain"
	"github.com/ppa-inteligente/ppa/internal/core/ports/driven"
	"github.com/ppa-inteligente/ppa/internal/core/ports/driving"
	"github.com/ppa-inteligente/ppa/internal/core/services"
	"github.com/ppa-inteligente/ppa/internal/normalisers"
	"github.com/ppa-inteligente/ppa/internal/normalisers/pdf"
	"github.com/ppa-inteligente/ppa/internal/postprocessors"
)

func main() {
	cli.SetConfig(&cli.Config{
		OpenSettings: func(configDir string) (driving.SettingsService, error) {
			store, err := file.NewConfigStore(configDir)
			if err != nil {
				return nil, err
			}
			return services.NewSettingsService(store), nil
		},
		NewIngest: func(output string) (driving.IngestService, error) {
			writer, err := corpus.NewWriter(output)
			if err != nil {
				return nil, err
			}
			archive := corpus.NewTextArchive(filepath.Join(filepath.Dir(output), "txt"))
			return services.NewIngestService(
				normalisers.NewDefaultRegistry(),
				postprocessors.NewDefaultRegistry(),
				writer,
				archive,
			), nil
		},
		NewConnector: func(root string) driven.Connector {
			return filesystem.New(root)
		},
		NewReranker: func(settings *domain.RerankerSettings) (driven.Reranker, error) {
			reranker, _, err := ai.CreateReranker(settings)
			return reranker, err
		},
		NewSearch: func(reranker driven.Reranker, storeTimeout time.Duration) driving.SearchService {
			return services.NewSearchService(reranker, storeTimeout)
		},
		OpenStore: func(path string) (driven.IndexStore, error) {
			return sqlite.OpenExisting(path)
		},
		CreateStore: func(path string) (driven.IndexStore, error) {
			return sqlite.Open(path)
		},
		NewCorpusWriter: func(path string) (driven.CorpusWriter, error) {
			return corpus.NewWriter(path)
		},
		Index:     services.NewIndexService(corpus.NewReader()),
		Catalogue: services.NewCatalogueService(pdf.New()),
	})

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppa-inteligente/ppa/internal/core/domain"
	"github.com/ppa-inteligente/ppa/internal/core/ports/driven"
	"github.com/ppa-inteligente/ppa/internal/core/ports/driving"
)

var (
	searchStores []string
	searchK      int
	searchRerank bool
	searchJSON   bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search across stores",
	Long: `Queries every store concurrently with the same k, concatenates the
results in store order and keeps the first k. Stores that fail are skipped
and reported. With --rerank the results are rescored by the configured
embedding reranker.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringArrayVar(&searchStores, "store", nil, "store file to query, repeatable (default search.stores)")
	searchCmd.Flags().IntVarP(&searchK, "k", "k", 0, "number of results (default search.k)")
	searchCmd.Flags().BoolVar(&searchRerank, "rerank", false, "rerank results with the configured reranker")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	current, err := settings.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	paths := current.Search.Stores
	if cmd.Flags().Changed("store") {
		paths = searchStores
	}
	opts := domain.SearchOptions{K: current.Search.K, Rerank: current.Search.Rerank}
	if cmd.Flags().Changed("k") {
		opts.K = searchK
	}
	if cmd.Flags().Changed("rerank") {
		opts.Rerank = searchRerank
	}

	svc, err := buildSearch(current, opts.Rerank)
	if err != nil {
		return err
	}

	stores, closeStores, err := openStores(paths)
	if err != nil {
		return err
	}
	defer closeStores()

	resp, err := svc.Search(commandContext(cmd), query, stores, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, resp)
	}
	return outputSearchTable(cmd, resp)
}

// buildSearch creates the search service, with a reranker only when one
// is needed.
func buildSearch(settings *domain.AppSettings, rerank bool) (driving.SearchService, error) {
	cfg, err := requireConfig()
	if err != nil {
		return nil, err
	}
	if cfg.NewSearch == nil {
		return nil, errors.New("search service not configured")
	}

	var reranker driven.Reranker
	if rerank && cfg.NewReranker != nil {
		reranker, err = cfg.NewReranker(&settings.Reranker)
		if err != nil {
			return nil, err
		}
	}
	return cfg.NewSearch(reranker, settings.Search.StoreTimeout), nil
}

// openStores opens every store path. A store that cannot be opened still
// takes its place in the fusion order and reports its error when queried.
func openStores(paths []string) ([]driven.Store, func(), error) {
	cfg, err := requireConfig()
	if err != nil {
		return nil, nil, err
	}
	if cfg.OpenStore == nil {
		return nil, nil, errors.New("store adapter not configured")
	}
	if len(paths) == 0 {
		return nil, nil, fmt.Errorf("%w: no stores given (use --store or set search.stores)", domain.ErrConfiguration)
	}

	stores := make([]driven.Store, len(paths))
	var opened []driven.IndexStore
	for i, p := range paths {
		st, err := cfg.OpenStore(p)
		if err != nil {
			stores[i] = unavailableStore{name: storeName(p), err: err}
			continue
		}
		stores[i] = st
		opened = append(opened, st)
	}

	return stores, func() {
		for _, st := range opened {
			st.Close() //nolint:errcheck,gosec
		}
	}, nil
}

func storeName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// unavailableStore stands in for a store that failed to open.
type unavailableStore struct {
	name string
	err  error
}

func (s unavailableStore) Name() string { return s.name }

func (s unavailableStore) Search(_ context.Context, _ string, _ int) ([]domain.StoreHit, error) {
	return nil, s.err
}

type searchResultJSON struct {
	Text     string            `json:"text"`
	Score    float64           `json:"score"`
	Store    string            `json:"store"`
	Metadata map[string]string `json:"metadata"`
}

type storeOutcomeJSON struct {
	Store string `json:"store"`
	Hits  int    `json:"hits"`
	Error string `json:"error,omitempty"`
}

func outputSearchJSON(cmd *cobra.Command, resp *domain.SearchResponse) error {
	out := struct {
		Results  []searchResultJSON `json:"results"`
		Stores   []storeOutcomeJSON `json:"stores"`
		Reranked bool               `json:"reranked"`
	}{
		Results:  make([]searchResultJSON, len(resp.Results)),
		Stores:   make([]storeOutcomeJSON, len(resp.Stores)),
		Reranked: resp.Reranked,
	}
	for i, r := range resp.Results {
		out.Results[i] = searchResultJSON{Text: r.Text, Score: r.Score, Store: r.Store, Metadata: r.Metadata}
	}
	for i, o := range resp.Stores {
		out.Stores[i] = storeOutcomeJSON{Store: o.Store, Hits: o.Hits}
		if o.Err != nil {
			out.Stores[i].Error = o.Err.Error()
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, resp *domain.SearchResponse) error {
	for _, o := range resp.Stores {
		if !o.OK() {
			cmd.Printf("Skipped store %s: %v\n", o.Store, o.Err)
		}
	}

	if len(resp.Results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	header := "Results:"
	if resp.Reranked {
		header = "Results (reranked):"
	}
	cmd.Println(header)
	cmd.Println()
	for i, r := range resp.Results {
		origin := r.Metadata[domain.MetaOrigin]
		if origin == "" {
			origin = "-"
		}
		cmd.Printf("  [%d] %s (%.3f)\n", i+1, origin, r.Score)
		cmd.Printf("      Store: %s\n", r.Store)
		cmd.Printf("      %s\n", snippet(r.Text, 240))
		cmd.Println()
	}
	return nil
}

// snippet flattens text to one line and cuts it at max runes.
func snippet(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}

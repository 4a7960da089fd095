package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ppa-inteligente/ppa/internal/core/domain"
)

const (
	defaultK       = 5
	searchToolName = "search"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query  string `json:"query" jsonschema:"the question or keywords to search for"`
	K      int    `json:"k,omitempty" jsonschema:"maximum number of results to return"`
	Rerank bool   `json:"rerank,omitempty" jsonschema:"rescore results with the configured reranker"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results  []SearchResultOutput `json:"results"`
	Count    int                  `json:"count"`
	Reranked bool                 `json:"reranked"`
	Skipped  []SkippedStore       `json:"skipped_stores,omitempty"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	Text     string            `json:"text"`
	Score    float64           `json:"score"`
	Store    string            `json:"store"`
	Origin   string            `json:"origem,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// SkippedStore names a store that failed during the query.
type SkippedStore struct {
	Store string `json:"store"`
	Error string `json:"error"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        searchToolName,
		Description: "Search the indexed plan documents across every configured store",
	}, s.handleSearch)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	opts := domain.SearchOptions{K: s.ports.k(input.K), Rerank: input.Rerank}

	resp, err := s.ports.Search.Search(ctx, input.Query, s.ports.Stores, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results:  make([]SearchResultOutput, len(resp.Results)),
		Count:    len(resp.Results),
		Reranked: resp.Reranked,
	}
	for i, r := range resp.Results {
		output.Results[i] = SearchResultOutput{
			Text:     r.Text,
			Score:    r.Score,
			Store:    r.Store,
			Origin:   r.Metadata[domain.MetaOrigin],
			Metadata: r.Metadata,
		}
	}
	for _, o := range resp.Stores {
		if !o.OK() {
			output.Skipped = append(output.Skipped, SkippedStore{Store: o.Store, Error: o.Err.Error()})
		}
	}

	return nil, output, nil
}

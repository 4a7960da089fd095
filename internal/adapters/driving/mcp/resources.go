package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for ppa resources.
	uriScheme = "ppa://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "stores",
		Name:        "stores",
		Description: "Stores queried by the search tool, in fusion order",
		MIMEType:    "application/json",
	}, s.handleStoresResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "settings",
		Name:        "settings",
		Description: "Search and reranker settings in effect",
		MIMEType:    "application/json",
	}, s.handleSettingsResource)
}

// handleStoresResource lists the configured stores.
func (s *Server) handleStoresResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type storeInfo struct {
		Name     string `json:"name"`
		Position int    `json:"position"`
	}

	infos := make([]storeInfo, 0, len(s.ports.Stores))
	for i, st := range s.ports.Stores {
		if st == nil {
			continue
		}
		infos = append(infos, storeInfo{Name: st.Name(), Position: i})
	}

	return jsonResource(req.Params.URI, infos)
}

// handleSettingsResource returns the search settings. The API key is
// never exposed.
func (s *Server) handleSettingsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Settings == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	settings, err := s.ports.Settings.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	view := struct {
		K                int     `json:"k"`
		StoreTimeoutSecs float64 `json:"store_timeout_secs"`
		Rerank           bool    `json:"rerank"`
		Provider         string  `json:"reranker_provider"`
		Model            string  `json:"reranker_model"`
		RerankerReady    bool    `json:"reranker_configured"`
	}{
		K:                s.ports.k(0),
		StoreTimeoutSecs: settings.Search.StoreTimeout.Seconds(),
		Rerank:           settings.Search.Rerank,
		Provider:         settings.Reranker.Provider.String(),
		Model:            settings.Reranker.Model,
		RerankerReady:    settings.Reranker.IsConfigured(),
	}

	return jsonResource(req.Params.URI, view)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// Package mcp provides an MCP (Model Context Protocol) server adapter for ppa.
// It lets AI assistants query the fused stores over stdio or HTTP.
package mcp

import "errors"

var (
	// ErrMissingSearchService is returned when the search service is not provided.
	ErrMissingSearchService = errors.New("mcp: search service is required")

	// ErrMissingStores is returned when no store is configured.
	ErrMissingStores = errors.New("mcp: at least one store is required")
)

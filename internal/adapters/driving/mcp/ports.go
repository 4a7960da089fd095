package mcp

import (
	"github.com/ppa-inteligente/ppa/internal/core/ports/driven"
	"github.com/ppa-inteligente/ppa/internal/core/ports/driving"
)

// Ports aggregates what the MCP server needs.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search fuses results across stores.
	Search driving.SearchService

	// Stores are queried in this order.
	Stores []driven.Store

	// DefaultK is used when a tool call leaves k unset.
	DefaultK int

	// Settings is optional and backs the settings resource.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if len(p.Stores) == 0 {
		return ErrMissingStores
	}
	return nil
}

func (p *Ports) k(requested int) int {
	switch {
	case requested > 0:
		return requested
	case p.DefaultK > 0:
		return p.DefaultK
	default:
		return defaultK
	}
}

package postprocessors

import (
	"fmt"
	"sort"

	"github.com/ppa-inteligente/ppa/internal/core/domain"
	"github.com/ppa-inteligente/ppa/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.SegmenterRegistry = (*Registry)(nil)

// Registry maps strategy names to segmenters.
// It allows the segmenter to be selected from configuration.
type Registry struct {
	segmenters map[string]driven.Segmenter
}

// NewRegistry creates an empty segmenter registry.
func NewRegistry() *Registry {
	return &Registry{
		segmenters: make(map[string]driven.Segmenter),
	}
}

// Register adds a segmenter under its Name().
// A later registration with the same name replaces the earlier one.
func (r *Registry) Register(segmenter driven.Segmenter) {
	r.segmenters[segmenter.Name()] = segmenter
}

// Get returns the segmenter for a strategy.
// Unknown strategies are a configuration error.
func (r *Registry) Get(strategy domain.Strategy) (driven.Segmenter, error) {
	s, ok := r.segmenters[string(strategy)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown segmentation strategy %q", domain.ErrConfiguration, strategy)
	}
	return s, nil
}

// Has returns true if a segmenter with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.segmenters[name]
	return ok
}

// Names returns all registered strategy names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.segmenters))
	for name := range r.segmenters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

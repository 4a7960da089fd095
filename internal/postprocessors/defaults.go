package postprocessors

import "github.com/ppa-inteligente/ppa/internal/postprocessors/chunker"

// RegisterDefaults registers the built-in segmenters with the registry.
// Call this during application initialisation.
func RegisterDefaults(r *Registry) {
	r.Register(chunker.NewParagraph())
	r.Register(chunker.NewSentence())
}

// NewDefaultRegistry returns a registry with the built-in segmenters.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

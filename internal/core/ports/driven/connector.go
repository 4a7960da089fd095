package driven

import (
	"context"

	"github.com/ppa-inteligente/ppa/internal/core/domain"
)

// Connector enumerates source files from a data source.
type Connector interface {
	// Type returns the connector type identifier.
	Type() string

	// Validate checks the source exists and is readable.
	Validate(ctx context.Context) error

	// List returns every supported file in the source, in a stable order.
	List(ctx context.Context) ([]domain.SourceFile, error)

	// Watch listens for changes to supported files until ctx is done.
	// The returned channel is closed when watching stops.
	Watch(ctx context.Context) (<-chan domain.FileChange, error)

	// Close releases resources.
	Close() error
}

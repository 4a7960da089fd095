// Package domain defines the core entities for ppa.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SourceDocument: One extracted file (pages or spreadsheet rows)
//   - Chunk: A bounded unit of text persisted to the corpus
//   - ProgramRecord: A program parsed from a catalogue document
//   - ScoredChunk: A fused retrieval result
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

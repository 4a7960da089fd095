// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for ingestion and retrieval to function:
//
//   - Connector: Enumerates source files in a folder
//   - Extractor: Reads one file into a SourceDocument
//   - ExtractorRegistry: Selects the extractor for a format
//   - Segmenter: Splits cleaned text into bounded chunks
//   - SegmenterRegistry: Selects the segmenter for a strategy
//   - CorpusWriter / CorpusReader: Line-delimited JSON corpus
//   - Store: Opaque similarity index queried during fusion
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Reranker: Reorders fused candidates. Rerank requests without one fail.
//   - EmbeddingService: Backs the embedding reranker.
//   - TextArchive: Receives cleaned text of each document.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven

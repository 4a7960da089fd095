// Package file provides the TOML-backed configuration store.
//
// The file nests keys in tables ([ingest], [search], [reranker]); in memory
// they are flattened to dot-notation keys such as "ingest.chunk_size".
package file

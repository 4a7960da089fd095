// Package sqlite provides a keyword search Store backed by SQLite FTS5.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Each database file holds one independently built corpus;
// several files can be fused at query time.
//
// # Schema
//
// The schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files. Chunk text is indexed by an external-content FTS5 table kept in
// sync by triggers, tokenised with unicode61 and diacritics removed so
// "orgao" matches "órgão".
//
// # Scoring
//
// Hits are ranked by bm25. FTS5 reports bm25 as a negative number where
// lower is better; the Store negates it so higher scores are better.
package sqlite

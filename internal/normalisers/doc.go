// Package normalisers provides implementations of the Extractor interface
// for the supported source formats. Each extractor knows how to read raw
// page text or spreadsheet rows from a specific file format.
//
// Extractors are registered with the Registry at startup.
package normalisers

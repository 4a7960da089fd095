package domain

import (
	"path/filepath"
	"strings"
)

// Format identifies the kind of source file.
type Format string

// Supported source formats.
const (
	FormatPDF   Format = "pdf"
	FormatXLS   Format = "xls"
	FormatXLSX  Format = "xlsx"
	FormatText  Format = "txt"
	FormatUnset Format = ""
)

// FormatFromPath derives the format from a file extension.
// Unknown extensions return FormatUnset.
func FormatFromPath(path string) Format {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "pdf":
		return FormatPDF
	case "xls":
		return FormatXLS
	case "xlsx":
		return FormatXLSX
	case "txt", "md":
		return FormatText
	default:
		return FormatUnset
	}
}

// IsTabular reports whether the format yields rows instead of pages.
func (f Format) IsTabular() bool {
	return f == FormatXLS || f == FormatXLSX
}

// SourceDocument is one extracted file.
// Immutable once extracted; consumed only for chunking.
type SourceDocument struct {
	// ID is derived from the base filename and is stable across runs.
	ID string

	// Path is where the file was read from.
	Path string

	// Format is the detected source format.
	Format Format

	// Pages holds the raw text of each page, in order.
	Pages []string

	// Rows holds spreadsheet rows for tabular formats.
	Rows []SheetRow
}

// IsEmpty reports whether extraction produced no content.
func (d *SourceDocument) IsEmpty() bool {
	if len(d.Rows) > 0 {
		return false
	}
	for _, p := range d.Pages {
		if strings.TrimSpace(p) != "" {
			return false
		}
	}
	return true
}

// SheetRow is one non-empty spreadsheet row.
type SheetRow struct {
	// Sheet is the worksheet name.
	Sheet string

	// Columns preserves the header order for text rendering.
	Columns []string

	// Values maps column name to the trimmed cell value.
	Values map[string]string
}

// Text renders the row as "col: value | col: value".
func (r SheetRow) Text() string {
	parts := make([]string, 0, len(r.Columns))
	for _, col := range r.Columns {
		parts = append(parts, col+": "+r.Values[col])
	}
	return strings.Join(parts, " | ")
}

// Metadata keys written to every corpus line.
const (
	MetaOrigin  = "origem"
	MetaChunkID = "chunk_id"
	MetaSheet   = "aba"
)

// Chunk is the unit persisted and indexed.
// Chunks are produced once per ingestion run and never mutated.
type Chunk struct {
	// ID is a fresh unique identifier.
	ID string

	// Origin is the source document id.
	Origin string

	// Text is the non-empty chunk content.
	Text string

	// Position is the ordinal position within the source document.
	Position int

	// Metadata holds extra key-value pairs copied from tabular sources.
	Metadata map[string]string
}

// CorpusMetadata returns the metadata mapping written to the corpus:
// the chunk's own metadata plus origem and chunk_id.
func (c Chunk) CorpusMetadata() map[string]string {
	meta := make(map[string]string, len(c.Metadata)+2)
	for k, v := range c.Metadata {
		meta[k] = v
	}
	meta[MetaOrigin] = c.Origin
	meta[MetaChunkID] = c.ID
	return meta
}

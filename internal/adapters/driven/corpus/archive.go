package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppa-inteligente/ppa/internal/core/ports/driven"
)

// Ensure TextArchive implements the interface.
var _ driven.TextArchive = (*TextArchive)(nil)

// TextArchive writes the cleaned text of each document to <dir>/<stem>.txt.
type TextArchive struct {
	dir string
}

// NewTextArchive creates an archive rooted at dir.
func NewTextArchive(dir string) *TextArchive {
	return &TextArchive{dir: dir}
}

// Dir returns the archive directory.
func (a *TextArchive) Dir() string {
	return a.dir
}

// Write stores text for the document named sourceID, replacing any
// earlier version.
func (a *TextArchive) Write(sourceID, text string) error {
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return fmt.Errorf("creating text archive: %w", err)
	}

	base := filepath.Base(sourceID)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + ".txt"
	return os.WriteFile(filepath.Join(a.dir, name), []byte(text), 0o644)
}

// Package filesystem enumerates and watches the source folder of an
// ingestion run.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/ppa-inteligente/ppa/internal/core/domain"
	"github.com/ppa-inteligente/ppa/internal/core/ports/driven"
	"github.com/ppa-inteligente/ppa/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// Connector lists supported files under a root folder.
type Connector struct {
	rootPath string
	formats  map[domain.Format]bool

	mu      sync.Mutex
	watcher *fsnotify.Watcher
}

// New creates a connector for rootPath. When formats is empty every format
// known to the domain is accepted.
func New(rootPath string, formats ...domain.Format) *Connector {
	if len(formats) == 0 {
		formats = []domain.Format{
			domain.FormatPDF, domain.FormatXLS, domain.FormatXLSX, domain.FormatText,
		}
	}
	accepted := make(map[domain.Format]bool, len(formats))
	for _, f := range formats {
		accepted[f] = true
	}
	return &Connector{rootPath: rootPath, formats: accepted}
}

// Type returns the connector type identifier.
func (c *Connector) Type() string {
	return "filesystem"
}

// Root returns the watched folder.
func (c *Connector) Root() string {
	return c.rootPath
}

// Validate checks the root exists and is a readable directory.
func (c *Connector) Validate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := os.Stat(c.rootPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: source folder does not exist: %s", domain.ErrConfiguration, c.rootPath)
		}
		return fmt.Errorf("%w: source folder: %v", domain.ErrConfiguration, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: source path is not a directory: %s", domain.ErrConfiguration, c.rootPath)
	}

	f, err := os.Open(c.rootPath)
	if err != nil {
		return fmt.Errorf("%w: source folder not readable: %v", domain.ErrConfiguration, err)
	}
	return f.Close()
}

// List walks the root and returns supported files sorted by path.
// Hidden files and directories are skipped; unreadable entries are logged
// and skipped.
func (c *Connector) List(ctx context.Context) ([]domain.SourceFile, error) {
	if err := c.Validate(ctx); err != nil {
		return nil, err
	}

	var files []domain.SourceFile
	err := filepath.WalkDir(c.rootPath, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			logger.Warn("skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if path != c.rootPath && isHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		format := domain.FormatFromPath(path)
		if !c.formats[format] {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			logger.Warn("skipping %s: %v", path, err)
			return nil
		}

		files = append(files, domain.SourceFile{
			Path:    path,
			Format:  format,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	logger.Debug("filesystem %s: %d files", c.rootPath, len(files))
	return files, nil
}

// Watch reports changes to supported files under the root, including
// subdirectories created after watching started.
func (c *Connector) Watch(ctx context.Context) (<-chan domain.FileChange, error) {
	if err := c.Validate(ctx); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	err = filepath.WalkDir(c.rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != c.rootPath && isHidden(path) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
	if err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", c.rootPath, err)
	}

	c.mu.Lock()
	c.watcher = watcher
	c.mu.Unlock()

	changes := make(chan domain.FileChange)
	go func() {
		defer close(changes)
		defer c.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Create) {
					c.watchNewDir(watcher, event.Name)
				}
				change, ok := c.handleFsEvent(event)
				if !ok {
					continue
				}
				select {
				case changes <- change:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("watcher: %v", err)
			}
		}
	}()

	return changes, nil
}

// Close stops any active watch.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.watcher == nil {
		return nil
	}
	err := c.watcher.Close()
	c.watcher = nil
	return err
}

func (c *Connector) watchNewDir(watcher *fsnotify.Watcher, path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || isHidden(path) {
		return
	}
	if err := watcher.Add(path); err != nil {
		logger.Warn("watch %s: %v", path, err)
	}
}

// handleFsEvent maps a raw event to a change on a supported file.
func (c *Connector) handleFsEvent(event fsnotify.Event) (domain.FileChange, bool) {
	if isHidden(event.Name) || !c.formats[domain.FormatFromPath(event.Name)] {
		return domain.FileChange{}, false
	}

	var changeType domain.ChangeType
	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		changeType = domain.ChangeDeleted
	case event.Has(fsnotify.Create):
		changeType = domain.ChangeCreated
	case event.Has(fsnotify.Write):
		changeType = domain.ChangeUpdated
	default:
		return domain.FileChange{}, false
	}

	if changeType != domain.ChangeDeleted {
		info, err := os.Stat(event.Name)
		if err != nil || info.IsDir() {
			return domain.FileChange{}, false
		}
	}

	return domain.FileChange{Type: changeType, Path: event.Name}, true
}

// isHidden reports whether the base name starts with a dot. Office lock
// files ("~$name.xlsx") are treated as hidden too.
func isHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~$")
}

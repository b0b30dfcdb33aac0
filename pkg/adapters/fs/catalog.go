package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/omarchive/internal/atomicfile"
	"github.com/aretw0/omarchive/pkg/guidmap"
)

// SystemDir holds the catalog of an archive directory.
const SystemDir = ".omarchive"

// Summary describes an archive file without its content.
type Summary struct {
	File         string    `json:"file"`
	GUID         string    `json:"guid"`
	Name         string    `json:"name"`
	Version      string    `json:"version,omitempty"`
	DependsOn    []string  `json:"dependsOn,omitempty"`
	LastModified time.Time `json:"lastModified"`
}

// catalogIndex is the persisted form of the catalog.
type catalogIndex struct {
	Version int                 `json:"version"`
	Entries map[string]*Summary `json:"entries"` // Key is the path relative to the directory.
	dirty   bool
	mu      sync.RWMutex
}

// catalog remembers the properties of archive files so that unchanged files
// are not decoded again when a directory is scanned.
type catalog struct {
	Path  string // Path to .omarchive/catalog.json
	index *catalogIndex
}

func newCatalog(dir string) *catalog {
	return &catalog{
		Path: filepath.Join(dir, SystemDir, "catalog.json"),
		index: &catalogIndex{
			Version: 1,
			Entries: make(map[string]*Summary),
		},
	}
}

// Load reads the catalog from disk. A missing or corrupt file yields an
// empty catalog.
func (c *catalog) Load() error {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	data, err := os.ReadFile(c.Path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}
	if err := json.Unmarshal(data, c.index); err != nil || c.index.Entries == nil {
		c.index.Entries = make(map[string]*Summary)
	}
	c.index.dirty = false
	return nil
}

// Save persists the catalog if it changed.
func (c *catalog) Save() error {
	c.index.mu.RLock()
	if !c.index.dirty {
		c.index.mu.RUnlock()
		return nil
	}
	data, err := json.MarshalIndent(c.index, "", "  ")
	c.index.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(c.Path), 0755); err != nil {
		return err
	}
	if err := atomicfile.WriteFile(c.Path, data, 0644); err != nil {
		return err
	}

	c.index.mu.Lock()
	c.index.dirty = false
	c.index.mu.Unlock()
	return nil
}

// Get returns the entry for relPath if it was recorded at mtime.
func (c *catalog) Get(relPath string, mtime time.Time) (*Summary, bool) {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()

	entry, ok := c.index.Entries[relPath]
	if !ok || !entry.LastModified.Equal(mtime) {
		return nil, false
	}
	return entry, true
}

func (c *catalog) Set(relPath string, entry *Summary) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	c.index.Entries[relPath] = entry
	c.index.dirty = true
}

// Prune removes entries that are not in keep.
func (c *catalog) Prune(keep map[string]bool) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	for path := range c.index.Entries {
		if !keep[path] {
			delete(c.index.Entries, path)
			c.index.dirty = true
		}
	}
}

func (c *catalog) Len() int {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()
	return len(c.index.Entries)
}

// Scan summarizes the archives under dir matching pattern. Files unchanged
// since the previous scan are answered from the catalog.
func Scan(ctx context.Context, dir, pattern string, logger *slog.Logger) ([]Summary, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	paths, err := Discover(dir, pattern)
	if err != nil {
		return nil, err
	}

	cat := newCatalog(dir)
	if err := cat.Load(); err != nil {
		logger.Warn("ignoring unreadable catalog", "path", cat.Path, "error", err)
	}

	keep := make(map[string]bool, len(paths))
	out := make([]Summary, 0, len(paths))
	hits := 0
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return nil, err
		}
		rel = filepath.ToSlash(rel)
		keep[rel] = true

		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if entry, ok := cat.Get(rel, info.ModTime()); ok {
			hits++
			out = append(out, *entry)
			continue
		}

		a, err := ReadFile(ctx, p)
		if err != nil {
			logger.Warn("skipping unreadable archive", "path", p, "error", err)
			continue
		}
		entry := &Summary{
			File:         rel,
			GUID:         a.Properties.GUID,
			Name:         a.Properties.Name,
			Version:      a.Properties.Version,
			DependsOn:    a.Properties.DependsOn,
			LastModified: info.ModTime(),
		}
		cat.Set(rel, entry)
		out = append(out, *entry)
	}

	cat.Prune(keep)
	if err := cat.Save(); err != nil {
		logger.Warn("failed to save catalog", "path", cat.Path, "error", err)
	}
	logger.Debug("scanned archives", "dir", dir, "files", len(out), "cached", hits)
	return out, nil
}

// isSystemPath reports files that live next to archives but are not
// archives themselves.
func isSystemPath(rel string) bool {
	if rel == SystemDir || strings.HasPrefix(rel, SystemDir+"/") {
		return true
	}
	return strings.HasSuffix(rel, guidmap.FileSuffix)
}

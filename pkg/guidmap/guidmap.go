// Package guidmap assigns stable GUIDs to logical identifiers so that
// rebuilding the same archive content produces the same GUIDs.
//
// The map is loaded once when opened and written once by Save. Only the
// entries looked up during the run are written back, so identifiers that
// disappear from the archive content also disappear from the file.
package guidmap

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/aretw0/omarchive/internal/atomicfile"
	"github.com/google/uuid"
)

// FileSuffix is appended to the archive name to form the map file name.
const FileSuffix = "GUIDMap.json"

// FileName returns the conventional map file name for an archive.
func FileName(archiveName string) string {
	return archiveName + FileSuffix
}

// Map is a logical id -> GUID mapping. It is not safe for concurrent use.
type Map struct {
	Path string

	known  map[string]string
	used   map[string]string
	newID  func() string
	logger *slog.Logger
}

// Option configures a Map.
type Option func(*Map)

// WithGenerator replaces the random GUID generator.
func WithGenerator(fn func() string) Option {
	return func(m *Map) {
		m.newID = fn
	}
}

// WithLogger sets the logger used for load/save diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Map) {
		m.logger = logger
	}
}

// Open loads the map stored at path. A missing or unreadable file yields an
// empty map. An empty path gives a map that is never persisted.
func Open(path string, opts ...Option) *Map {
	m := &Map{
		Path:   path,
		known:  make(map[string]string),
		used:   make(map[string]string),
		newID:  uuid.NewString,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	if err := m.load(); err != nil {
		m.logger.Warn("ignoring unreadable guid map", "path", path, "error", err)
		m.known = make(map[string]string)
	}
	return m
}

func (m *Map) load() error {
	if m.Path == "" {
		return nil
	}

	data, err := os.ReadFile(m.Path)
	if errors.Is(err, os.ErrNotExist) {
		m.logger.Debug("no guid map, starting empty", "path", m.Path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read guid map: %w", err)
	}

	var known map[string]string
	if err := json.Unmarshal(data, &known); err != nil {
		return fmt.Errorf("invalid guid map: %w", err)
	}
	if known != nil {
		m.known = known
	}
	m.logger.Debug("loaded guid map", "path", m.Path, "entries", len(m.known))
	return nil
}

// GUID returns the GUID for id, generating and recording a new one if id has
// not been seen. Either way id is marked as used.
func (m *Map) GUID(id string) string {
	guid, ok := m.known[id]
	if !ok {
		guid = m.newID()
		m.known[id] = guid
	}
	m.used[id] = guid
	return guid
}

// Query returns the GUID for id without generating one. id is marked as used
// only when found.
func (m *Map) Query(id string) (string, bool) {
	guid, ok := m.known[id]
	if ok {
		m.used[id] = guid
	}
	return guid, ok
}

// Len returns the number of known ids, loaded or generated.
func (m *Map) Len() int {
	return len(m.known)
}

// IDs returns the known ids in sorted order.
func (m *Map) IDs() []string {
	ids := make([]string, 0, len(m.known))
	for id := range m.known {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Used returns the number of ids used during this run.
func (m *Map) Used() int {
	return len(m.used)
}

// Save writes the used entries to Path. When nothing was used the file is
// removed instead.
func (m *Map) Save() error {
	if m.Path == "" {
		return nil
	}

	if len(m.used) == 0 {
		err := os.Remove(m.Path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove guid map: %w", err)
		}
		m.logger.Debug("guid map unused, removed", "path", m.Path)
		return nil
	}

	// encoding/json sorts map keys, so the file is stable across runs.
	data, err := json.MarshalIndent(m.used, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(m.Path), 0755); err != nil {
		return err
	}

	if err := atomicfile.WriteFile(m.Path, data, 0644); err != nil {
		return err
	}

	m.logger.Debug("saved guid map", "path", m.Path, "entries", len(m.used), "dropped", len(m.known)-len(m.used))
	return nil
}

package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/omarchive/internal/atomicfile"
	"github.com/aretw0/omarchive/pkg/core"
)

// ErrUnsupportedFormat is returned for file extensions with no serializer.
var ErrUnsupportedFormat = errors.New("unsupported archive format")

// Config holds the configuration for an archive file store.
type Config struct {
	Path        string
	Logger      *slog.Logger
	Serializers map[string]Serializer // Defaults to DefaultSerializers.
	Perm        os.FileMode           // Defaults to 0644.
}

// Store reads and writes one archive file. The format follows the file
// extension. It implements core.Writer and core.Reader.
type Store struct {
	Path string

	serializer Serializer
	format     string
	perm       os.FileMode
	logger     *slog.Logger

	mu        sync.Mutex
	writes    int
	lastWrite *time.Time
}

var (
	_ core.Writer = (*Store)(nil)
	_ core.Reader = (*Store)(nil)
)

// NewStore creates a store for config.Path.
func NewStore(config Config) (*Store, error) {
	serializers := config.Serializers
	if serializers == nil {
		serializers = DefaultSerializers()
	}
	format := strings.ToLower(filepath.Ext(config.Path))
	s, ok := serializers[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, config.Path)
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	perm := config.Perm
	if perm == 0 {
		perm = 0644
	}

	return &Store{
		Path:       config.Path,
		serializer: s,
		format:     format,
		perm:       perm,
		logger:     logger,
	}, nil
}

// Write stores the archive atomically, creating parent directories.
func (s *Store) Write(ctx context.Context, archive *core.Archive) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if archive == nil {
		return fmt.Errorf("write %s: nil archive", s.Path)
	}

	data, err := s.serializer.Encode(archive)
	if err != nil {
		return fmt.Errorf("failed to encode archive: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}
	if err := atomicfile.WriteFile(s.Path, data, s.perm); err != nil {
		return err
	}

	now := time.Now()
	s.mu.Lock()
	s.writes++
	s.lastWrite = &now
	s.mu.Unlock()

	s.logger.Info("archive written",
		"path", s.Path,
		"archive", archive.Properties.Name,
		"bytes", len(data),
	)
	return nil
}

// Read loads the archive.
func (s *Store) Read(ctx context.Context) (*core.Archive, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	archive, err := s.serializer.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	s.logger.Debug("archive read", "path", s.Path, "archive", archive.Properties.Name)
	return archive, nil
}

// ReadFile loads the archive at path using the default serializers.
func ReadFile(ctx context.Context, path string) (*core.Archive, error) {
	s, err := NewStore(Config{Path: path})
	if err != nil {
		return nil, err
	}
	return s.Read(ctx)
}

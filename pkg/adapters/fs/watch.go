package fs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/omarchive/internal/atomicfile"
)

// ChangeEvent reports that source files under a watched directory changed.
type ChangeEvent struct {
	Paths     []string
	Timestamp int64 // Unix timestamp
}

func (e ChangeEvent) String() string {
	return fmt.Sprintf("changed: %s", strings.Join(e.Paths, ", "))
}

// WatchConfig configures Watch.
type WatchConfig struct {
	Dir          string
	Pattern      string        // Doublestar pattern relative to Dir. Empty matches everything.
	Debounce     time.Duration // Defaults to 100ms.
	Logger       *slog.Logger
	ErrorHandler func(error)
}

// Watch observes Dir recursively and emits one ChangeEvent per burst of
// writes to files matching Pattern. The channel is closed when ctx ends.
// Identifier maps and the catalog directory are ignored.
func Watch(ctx context.Context, config WatchConfig) (<-chan ChangeEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if config.Pattern != "" && !doublestar.ValidatePattern(config.Pattern) {
		return nil, fmt.Errorf("invalid pattern %q", config.Pattern)
	}
	if config.Debounce <= 0 {
		config.Debounce = 100 * time.Millisecond
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := addRecursive(watcher, config.Dir); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	w := &watchLoop{config: config, watcher: watcher, out: make(chan ChangeEvent, 1)}
	lifecycle.Go(ctx, w.run, lifecycle.WithErrorHandler(func(err error) {
		w.fail(fmt.Errorf("watcher panic: %w", err))
	}))
	return w.out, nil
}

type watchLoop struct {
	config  WatchConfig
	watcher *fsnotify.Watcher
	out     chan ChangeEvent

	mu      sync.Mutex
	pending map[string]bool
}

func (w *watchLoop) fail(err error) {
	if w.config.ErrorHandler != nil {
		w.config.ErrorHandler(err)
		return
	}
	w.config.Logger.Error("watch failed", "error", err)
}

func (w *watchLoop) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			attrs := []any{"error", recovered}
			if w.config.Logger.Enabled(ctx, slog.LevelDebug) {
				attrs = append(attrs, "stack", string(debug.Stack()))
			}
			w.config.Logger.Error("watcher panic", attrs...)
		}
	}()
	defer close(w.out)
	defer w.watcher.Close()

	timer := time.NewTimer(w.config.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			if w.accept(event) {
				timer.Reset(w.config.Debounce)
			}

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.fail(wErr)

		case <-timer.C:
			e := ChangeEvent{Paths: w.flush(), Timestamp: time.Now().Unix()}
			w.config.Logger.Debug("sources changed", "paths", e.Paths)
			select {
			case w.out <- e:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

// accept records a relevant event and reports whether it was one.
func (w *watchLoop) accept(event fsnotify.Event) bool {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := addRecursive(w.watcher, event.Name); err != nil {
				w.fail(err)
			}
			return false
		}
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	rel, err := filepath.Rel(w.config.Dir, event.Name)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	base := filepath.Base(rel)
	if isSystemPath(rel) || strings.HasPrefix(base, ".") || strings.HasPrefix(base, atomicfile.TempFilePrefix) {
		return false
	}
	if w.config.Pattern != "" {
		if ok, _ := doublestar.Match(w.config.Pattern, rel); !ok {
			return false
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending == nil {
		w.pending = make(map[string]bool)
	}
	w.pending[rel] = true
	return true
}

func (w *watchLoop) flush() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = nil
	sort.Strings(paths)
	return paths
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

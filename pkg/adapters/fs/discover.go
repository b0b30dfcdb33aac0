package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/omarchive/pkg/core"
)

// DefaultPattern matches every archive file the default serializers read.
const DefaultPattern = "**/*.{json,yaml,yml}"

// ErrDependencyCycle is returned when archives depend on each other.
var ErrDependencyCycle = errors.New("archive dependency cycle")

// Discover returns the files under dir matching a doublestar pattern, sorted.
// Identifier map files are never archives and are skipped.
func Discover(dir, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}
	matches, err := doublestar.Glob(os.DirFS(dir), pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to glob %s: %w", dir, err)
	}

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		if isSystemPath(m) {
			continue
		}
		paths = append(paths, filepath.Join(dir, filepath.FromSlash(m)))
	}
	sort.Strings(paths)
	return paths, nil
}

// ReadAll loads every path and returns the archives with each one after the
// archives it depends on.
func ReadAll(ctx context.Context, paths []string) ([]*core.Archive, error) {
	archives := make([]*core.Archive, 0, len(paths))
	for _, p := range paths {
		a, err := ReadFile(ctx, p)
		if err != nil {
			return nil, err
		}
		archives = append(archives, a)
	}
	return OrderByDependencies(archives)
}

// OrderByDependencies sorts archives so that each comes after the archives in
// its DependsOn list. Dependencies outside the set are ignored. Otherwise
// the input order is kept.
func OrderByDependencies(archives []*core.Archive) ([]*core.Archive, error) {
	byGUID := make(map[string]*core.Archive, len(archives))
	for _, a := range archives {
		if a.Properties.GUID != "" {
			byGUID[a.Properties.GUID] = a
		}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[*core.Archive]int, len(archives))
	out := make([]*core.Archive, 0, len(archives))

	var visit func(a *core.Archive) error
	visit = func(a *core.Archive) error {
		switch state[a] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("%w: %s", ErrDependencyCycle, a.Properties.Name)
		}
		state[a] = visiting
		for _, guid := range a.Properties.DependsOn {
			if dep, ok := byGUID[guid]; ok {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}
		state[a] = done
		out = append(out, a)
		return nil
	}

	for _, a := range archives {
		if err := visit(a); err != nil {
			return nil, err
		}
	}
	return out, nil
}

package platform

import (
	"log/slog"

	"github.com/aretw0/omarchive/pkg/core"
)

// options holds the configuration of one archive build.
type options struct {
	logger            *slog.Logger
	output            string
	guidMapDir        string
	dependencies      []*core.Archive
	dependencyDir     string
	dependencyPattern string
	store             core.Writer
}

// Option defines a functional option for configuring a build.
type Option func(*options)

func defaultOptions() *options {
	return &options{}
}

// WithLogger sets the logger for the build and every component it wires.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithOutput sets the archive file to write. The extension selects the
// format. Defaults to <ArchiveName>.json next to the content pack.
func WithOutput(path string) Option {
	return func(o *options) {
		o.output = path
	}
}

// WithGUIDMapDir sets the directory holding the identifier map. Defaults to
// the content pack's directory.
func WithGUIDMapDir(dir string) Option {
	return func(o *options) {
		o.guidMapDir = dir
	}
}

// WithDependencies adds archives the new archive depends on. They are
// imported before any archives found with WithDependencyDir.
func WithDependencies(archives ...*core.Archive) Option {
	return func(o *options) {
		o.dependencies = append(o.dependencies, archives...)
	}
}

// WithDependencyDir reads every archive under dir matching pattern (the
// default pattern when empty) as a dependency.
func WithDependencyDir(dir, pattern string) Option {
	return func(o *options) {
		o.dependencyDir = dir
		o.dependencyPattern = pattern
	}
}

// WithStore replaces the file the archive is written to with any writer.
// WithOutput is ignored when a store is set.
func WithStore(store core.Writer) Option {
	return func(o *options) {
		o.store = store
	}
}

package omarchive

import (
	"context"
	"log/slog"

	"github.com/aretw0/omarchive/internal/platform"
	"github.com/aretw0/omarchive/pkg/core"
)

// ConfigFile is the name of the project configuration file read by the CLI.
const ConfigFile = platform.ConfigFile

// --- Types ---

// Result describes a finished build.
type Result = platform.Result

// Report summarizes the content of one archive file.
type Report = platform.Report

// --- Configuration ---

// Option configures Generate.
type Option = platform.Option

// WithLogger sets the logger for the build.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithOutput sets the archive file to write; its extension selects JSON or
// YAML.
func WithOutput(path string) Option {
	return platform.WithOutput(path)
}

// WithGUIDMapDir sets the directory holding the identifier map.
func WithGUIDMapDir(dir string) Option {
	return platform.WithGUIDMapDir(dir)
}

// WithDependencies adds archives the new archive depends on.
func WithDependencies(archives ...*core.Archive) Option {
	return platform.WithDependencies(archives...)
}

// WithDependencyDir reads every archive under dir matching pattern as a
// dependency.
func WithDependencyDir(dir, pattern string) Option {
	return platform.WithDependencyDir(dir, pattern)
}

// WithStore writes the archive to store instead of a file.
func WithStore(store core.Writer) Option {
	return platform.WithStore(store)
}

// --- Operations ---

// Generate builds the archive described by the content pack at packPath.
func Generate(ctx context.Context, packPath string, opts ...Option) (*Result, error) {
	return platform.Generate(ctx, packPath, opts...)
}

// Inspect summarizes the archive file at path.
func Inspect(ctx context.Context, path string) (*Report, error) {
	return platform.Inspect(ctx, path)
}

// FindRoot looks upwards from startDir for a directory holding a project
// configuration file.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}

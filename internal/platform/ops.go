package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/omarchive/pkg/adapters/fs"
	"github.com/aretw0/omarchive/pkg/content"
	"github.com/aretw0/omarchive/pkg/core"
)

// Result describes a finished build.
type Result struct {
	Archive *core.Archive
	// Output is the archive file written, empty when a custom store was used.
	Output  string
	GUIDMap string
}

// Generate builds the archive described by the content pack at packPath:
// it opens the identifier map, imports the dependency archives, applies the
// pack, writes the snapshot and finally saves the identifier map. The map is
// left untouched when any step fails.
func Generate(ctx context.Context, packPath string, opts ...Option) (*Result, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	s, err := newSession(ctx, packPath, o)
	if err != nil {
		return nil, err
	}
	if err := content.Apply(s.pack, s.helper, s.builder, content.WithLogger(s.logger)); err != nil {
		return nil, fmt.Errorf("%s: %w", packPath, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	archive := s.builder.Archive()
	if err := s.store.Write(ctx, archive); err != nil {
		return nil, fmt.Errorf("failed to write archive: %w", err)
	}
	if err := s.guids.Save(); err != nil {
		return nil, fmt.Errorf("failed to save guid map: %w", err)
	}

	s.logger.Info("archive generated",
		"archive", archive.Properties.Name,
		"guid", archive.Properties.GUID,
		"dependsOn", len(archive.Properties.DependsOn),
		"output", s.output,
	)
	return &Result{Archive: archive, Output: s.output, GUIDMap: s.guids.Path}, nil
}

// Report summarizes the content of one archive file.
type Report struct {
	fs.Summary
	AttributeTypeDefs int `json:"attributeTypeDefs"`
	TypeDefs          int `json:"typeDefs"`
	TypeDefPatches    int `json:"typeDefPatches"`
	Entities          int `json:"entities"`
	Relationships     int `json:"relationships"`
	Classifications   int `json:"classifications"`
}

// Inspect reads the archive at path and counts its content.
func Inspect(ctx context.Context, path string) (*Report, error) {
	a, err := fs.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	r := &Report{Summary: fs.Summary{
		File:      path,
		GUID:      a.Properties.GUID,
		Name:      a.Properties.Name,
		Version:   a.Properties.Version,
		DependsOn: a.Properties.DependsOn,
	}}
	if ts := a.TypeStore; ts != nil {
		r.AttributeTypeDefs = len(ts.AttributeTypeDefs)
		r.TypeDefs = len(ts.NewTypeDefs)
		r.TypeDefPatches = len(ts.TypeDefPatches)
	}
	if is := a.InstanceStore; is != nil {
		r.Entities = len(is.Entities)
		r.Relationships = len(is.Relationships)
		r.Classifications = len(is.Classifications)
	}
	return r, nil
}

package platform

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aretw0/omarchive/pkg/adapters/fs"
	"github.com/aretw0/omarchive/pkg/builder"
	"github.com/aretw0/omarchive/pkg/content"
	"github.com/aretw0/omarchive/pkg/core"
	"github.com/aretw0/omarchive/pkg/guidmap"
	"github.com/aretw0/omarchive/pkg/helper"
)

// session is everything one build wires together. Each build gets fresh
// instances; none of them is safe for concurrent use.
type session struct {
	pack    *content.Pack
	guids   *guidmap.Map
	builder *builder.Builder
	helper  *helper.Helper
	store   core.Writer
	output  string
	logger  *slog.Logger
}

func newSession(ctx context.Context, packPath string, o *options) (*session, error) {
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger := o.logger

	pack, err := content.Load(packPath)
	if err != nil {
		return nil, err
	}
	name := pack.Archive.Name
	packDir := filepath.Dir(packPath)

	s := &session{pack: pack, logger: logger, store: o.store}
	if s.store == nil {
		s.output = o.output
		if s.output == "" {
			s.output = filepath.Join(packDir, name+".json")
		}
		store, err := fs.NewStore(fs.Config{Path: s.output, Logger: logger})
		if err != nil {
			return nil, err
		}
		s.store = store
	}

	mapDir := o.guidMapDir
	if mapDir == "" {
		mapDir = packDir
	}
	s.guids = guidmap.Open(filepath.Join(mapDir, guidmap.FileName(name)), guidmap.WithLogger(logger))

	guid := pack.Archive.GUID
	if guid == "" {
		guid = s.guids.GUID(content.ArchiveID(name))
	}
	now := time.Now().UTC()
	props := pack.Properties(guid)
	props.CreationDate = &now

	deps, err := dependencies(ctx, o, guid, packPath, s.output)
	if err != nil {
		return nil, err
	}

	s.builder, err = builder.New(props, deps, builder.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to import dependencies: %w", err)
	}
	s.helper = helper.New(s.builder, helper.Config{
		ArchiveGUID:  guid,
		ArchiveName:  name,
		Originator:   props.OriginatorName,
		License:      props.OriginatorLicense,
		CreationTime: now,
		GUIDs:        s.guids,
		Logger:       logger,
	})
	return s, nil
}

// dependencies returns the explicit dependencies followed by those read
// from the dependency directory. The archive being built, its content pack
// and its previous output are never their own dependencies.
func dependencies(ctx context.Context, o *options, guid string, exclude ...string) ([]*core.Archive, error) {
	deps := append([]*core.Archive(nil), o.dependencies...)
	if o.dependencyDir == "" {
		return withoutArchive(deps, guid), nil
	}

	paths, err := fs.Discover(o.dependencyDir, o.dependencyPattern)
	if err != nil {
		return nil, err
	}
	skip := make(map[string]bool, len(exclude))
	for _, p := range exclude {
		if abs, err := filepath.Abs(p); err == nil {
			skip[abs] = true
		}
	}
	var found []*core.Archive
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if abs, err := filepath.Abs(p); err == nil && skip[abs] {
			continue
		}
		a, err := fs.ReadFile(ctx, p)
		if err != nil || a.Properties.GUID == "" {
			// Content packs and other YAML may share the directory.
			o.logger.Debug("skipping non-archive file", "path", p, "error", err)
			continue
		}
		found = append(found, a)
	}
	found, err = fs.OrderByDependencies(found)
	if err != nil {
		return nil, err
	}
	return withoutArchive(append(deps, found...), guid), nil
}

func withoutArchive(archives []*core.Archive, guid string) []*core.Archive {
	out := archives[:0]
	for _, a := range archives {
		if a != nil && a.Properties.GUID != guid {
			out = append(out, a)
		}
	}
	return out
}

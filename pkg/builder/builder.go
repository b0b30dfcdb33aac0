// Package builder accumulates the type definitions and instances of one
// open metadata archive, enforcing the archive's uniqueness and consistency
// invariants as content is added.
//
// A Builder is an append-only, single-threaded accumulator. Every violated
// invariant is reported as a *core.ArchiveError and the rejected content is
// not recorded. Callers are expected to abandon the build and fix the
// archive-generation code rather than retry.
//
//	b, err := builder.New(props, []*core.Archive{baseTypes})
//	err = b.AddEntityDef(assetDef)
//	archive := b.Archive()
package builder

import (
	"io"
	"log/slog"
	"reflect"
	"slices"
	"sort"

	"github.com/aretw0/omarchive/pkg/core"
)

// Builder is the type and instance registry for one archive build.
type Builder struct {
	properties core.ArchiveProperties
	logger     *slog.Logger

	primitiveDefs      map[string]*core.PrimitiveDef
	collectionDefs     map[string]*core.CollectionDef
	enumDefs           map[string]*core.EnumDef
	attributeTypeGUIDs map[string]core.AttributeTypeDef
	attributeTypeNames map[string]core.AttributeTypeDef

	entityDefs         map[string]*core.EntityDef
	relationshipDefs   map[string]*core.RelationshipDef
	classificationDefs map[string]*core.ClassificationDef
	typeDefGUIDs       map[string]core.TypeDef
	typeDefNames       map[string]core.TypeDef

	// Attribute names reachable from each entity type: its declared
	// properties plus the relationship end names claimed on it.
	entityAttributes map[string]map[string]struct{}

	patches []*core.TypeDefPatch

	entities        map[string]*core.EntityDetail
	relationships   map[string]*core.Relationship
	classifications map[string]*core.ClassificationEntityExtension

	// Content added to this archive, in insertion order. Content imported
	// from dependencies is indexed above but never listed here.
	primitiveList        []*core.PrimitiveDef
	collectionList       []*core.CollectionDef
	enumList             []*core.EnumDef
	entityDefList        []*core.EntityDef
	classificationList   []*core.ClassificationDef
	relationshipDefList  []*core.RelationshipDef
	entityList           []*core.EntityDetail
	relationshipList     []*core.Relationship
	classificationExList []*core.ClassificationEntityExtension
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger. Accepted content is logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// New creates a Builder for an archive with the given properties, seeded
// with the content of the archives it depends on. Each dependency's GUID is
// added to the new archive's DependsOn list.
func New(props core.ArchiveProperties, dependencies []*core.Archive, opts ...Option) (*Builder, error) {
	b := &Builder{
		properties: props,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),

		primitiveDefs:      make(map[string]*core.PrimitiveDef),
		collectionDefs:     make(map[string]*core.CollectionDef),
		enumDefs:           make(map[string]*core.EnumDef),
		attributeTypeGUIDs: make(map[string]core.AttributeTypeDef),
		attributeTypeNames: make(map[string]core.AttributeTypeDef),

		entityDefs:         make(map[string]*core.EntityDef),
		relationshipDefs:   make(map[string]*core.RelationshipDef),
		classificationDefs: make(map[string]*core.ClassificationDef),
		typeDefGUIDs:       make(map[string]core.TypeDef),
		typeDefNames:       make(map[string]core.TypeDef),

		entityAttributes: make(map[string]map[string]struct{}),

		entities:        make(map[string]*core.EntityDetail),
		relationships:   make(map[string]*core.Relationship),
		classifications: make(map[string]*core.ClassificationEntityExtension),
	}
	b.properties.DependsOn = slices.Clone(props.DependsOn)

	for _, opt := range opts {
		opt(b)
	}

	for _, dep := range dependencies {
		if dep == nil {
			continue
		}
		if err := b.importArchive(dep); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Properties returns the properties the archive will be written with.
func (b *Builder) Properties() core.ArchiveProperties {
	return b.properties
}

// importArchive folds a dependency's content into the lookup indexes.
func (b *Builder) importArchive(dep *core.Archive) error {
	if guid := dep.Properties.GUID; guid != "" && !slices.Contains(b.properties.DependsOn, guid) {
		b.properties.DependsOn = append(b.properties.DependsOn, guid)
	}

	if ts := dep.TypeStore; ts != nil {
		for _, def := range ts.AttributeTypeDefs {
			b.indexAttributeTypeDef(def)
		}

		pending := patchesByType(ts.TypeDefPatches)
		for _, def := range ts.NewTypeDefs {
			if def == nil {
				continue
			}
			patched, err := applyPatches(def, pending[def.Base().Name])
			if err != nil {
				return err
			}
			delete(pending, def.Base().Name)
			b.indexTypeDef(patched)
		}

		// Remaining patches target types from earlier dependencies; a type
		// nobody provides fails the import.
		names := make([]string, 0, len(pending))
		for name := range pending {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			existing, ok := b.typeDefNames[name]
			if !ok {
				return &core.ArchiveError{
					Kind:     core.ErrPatchFailed,
					Op:       "New",
					Category: "TypeDefPatch",
					ID:       name,
					Cause: &core.ArchiveError{
						Kind:     core.ErrMissingType,
						Op:       "New",
						Category: "TypeDef",
						ID:       name,
					},
				}
			}
			patched, err := applyPatches(existing, pending[name])
			if err != nil {
				return err
			}
			b.indexTypeDef(patched)
		}
	}

	if is := dep.InstanceStore; is != nil {
		for _, e := range is.Entities {
			if e != nil {
				b.entities[e.GUID] = e
			}
		}
		for _, r := range is.Relationships {
			if r != nil {
				b.relationships[r.GUID] = r
			}
		}
		for _, c := range is.Classifications {
			if c != nil {
				b.classifications[c.Key()] = c
			}
		}
	}

	b.logger.Debug("imported dependency archive",
		"guid", dep.Properties.GUID,
		"name", dep.Properties.Name,
	)
	return nil
}

func patchesByType(patches []*core.TypeDefPatch) map[string][]*core.TypeDefPatch {
	out := make(map[string][]*core.TypeDefPatch)
	for _, p := range patches {
		if p != nil {
			out[p.TypeDefName] = append(out[p.TypeDefName], p)
		}
	}
	for _, list := range out {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].UpdateToVersion < list[j].UpdateToVersion
		})
	}
	return out
}

// applyPatches merges patches in order. Any failure is reported as
// ErrPatchFailed with the underlying error attached.
func applyPatches(def core.TypeDef, patches []*core.TypeDefPatch) (core.TypeDef, error) {
	for _, p := range patches {
		patched, err := core.ApplyPatch(def, p)
		if err != nil {
			return nil, &core.ArchiveError{
				Kind:     core.ErrPatchFailed,
				Op:       "New",
				Category: "TypeDefPatch",
				ID:       p.TypeDefName,
				Cause:    err,
			}
		}
		def = patched
	}
	return def, nil
}

// indexAttributeTypeDef records an imported attribute type.
func (b *Builder) indexAttributeTypeDef(def core.AttributeTypeDef) {
	if def == nil {
		return
	}
	h := def.AttributeHeader()
	switch d := def.(type) {
	case *core.PrimitiveDef:
		b.primitiveDefs[h.Name] = d
	case *core.CollectionDef:
		b.collectionDefs[h.Name] = d
	case *core.EnumDef:
		b.enumDefs[h.Name] = d
	}
	b.attributeTypeGUIDs[h.GUID] = def
	b.attributeTypeNames[h.Name] = def
}

// indexTypeDef records an imported type, replacing an older version.
func (b *Builder) indexTypeDef(def core.TypeDef) {
	base := def.Base()
	switch d := def.(type) {
	case *core.EntityDef:
		b.entityDefs[base.Name] = d
		for _, attr := range base.Properties {
			b.claim(base.Name, attr.Name)
		}
	case *core.RelationshipDef:
		b.relationshipDefs[base.Name] = d
		b.claim(d.End2.EntityType.Name, d.End1.AttributeName)
		b.claim(d.End1.EntityType.Name, d.End2.AttributeName)
	case *core.ClassificationDef:
		b.classificationDefs[base.Name] = d
	}
	b.typeDefGUIDs[base.GUID] = def
	b.typeDefNames[base.Name] = def
}

// sameValue treats an equal re-insertion as no collision.
func sameValue(a, b any) bool {
	return reflect.DeepEqual(a, b)
}
